package account

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/errors"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/model"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/service"
)

type ProfileHandler struct {
	accountService *service.AccountService
}

func NewProfileHandler(accountService *service.AccountService) *ProfileHandler {
	return &ProfileHandler{accountService}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	accountID := c.GetInt("account_id")
	account, err := h.accountService.GetAccountByID(accountID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"account": account}, "")
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	accountID := c.GetInt("account_id")

	var input struct {
		FullName string `json:"full_name"`
		Phone    string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	account, err := h.accountService.UpdateProfile(accountID, input.FullName, input.Phone)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"account": account}, "资料更新成功")
}

func (h *ProfileHandler) ListAddresses(c *gin.Context) {
	accountID := c.GetInt("account_id")
	addresses, err := h.accountService.ListAddresses(accountID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"addresses": addresses}, "")
}

func (h *ProfileHandler) CreateAddress(c *gin.Context) {
	accountID := c.GetInt("account_id")

	var address model.AccountAddress
	if err := c.ShouldBindJSON(&address); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}
	address.AccountID = accountID

	if err := h.accountService.CreateAddress(&address); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"address": address}, "收货地址创建成功")
}

func (h *ProfileHandler) UpdateAddress(c *gin.Context) {
	accountID := c.GetInt("account_id")

	addressID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的地址ID"))
		return
	}

	var address model.AccountAddress
	if err := c.ShouldBindJSON(&address); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}
	address.ID = addressID

	if err := h.accountService.UpdateAddress(accountID, &address); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"address": address}, "收货地址更新成功")
}

func (h *ProfileHandler) DeleteAddress(c *gin.Context) {
	accountID := c.GetInt("account_id")

	addressID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的地址ID"))
		return
	}

	if err := h.accountService.DeleteAddress(accountID, addressID); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "收货地址删除成功")
}
