package voucher

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/errors"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/model"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/service"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/util"
	"go.uber.org/zap"
)

type Handler struct {
	voucherService *service.VoucherService
}

func NewHandler(voucherService *service.VoucherService) *Handler {
	return &Handler{voucherService}
}

// Validate 校验优惠码，order_value 可选
// 只读操作，不消耗兑换名额
func (h *Handler) Validate(c *gin.Context) {
	var input struct {
		Code       string `json:"code" binding:"required"`
		OrderValue *int64 `json:"order_value"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	voucher, discount, err := h.voucherService.Validate(input.Code, input.OrderValue)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{
		"voucher":  voucher,
		"discount": discount,
	}, "优惠码有效")
}

type voucherInput struct {
	Code          string            `json:"code"`
	Type          model.VoucherType `json:"type" binding:"required"`
	Value         int64             `json:"value" binding:"required"`
	MinOrderValue int64             `json:"min_order_value"`
	Quantity      int               `json:"quantity" binding:"required"`
	StartDate     time.Time         `json:"start_date" binding:"required"`
	EndDate       time.Time         `json:"end_date" binding:"required"`
}

func (h *Handler) Create(c *gin.Context) {
	var input voucherInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.Logger.Warn("创建优惠券失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	voucher := &model.Voucher{
		Code:          input.Code,
		Type:          input.Type,
		Value:         input.Value,
		MinOrderValue: input.MinOrderValue,
		Quantity:      input.Quantity,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
	}
	if err := h.voucherService.CreateVoucher(voucher); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"voucher": voucher}, "优惠券创建成功")
}

func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的优惠券ID"))
		return
	}

	var input voucherInput
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	voucher := &model.Voucher{
		ID:            id,
		Type:          input.Type,
		Value:         input.Value,
		MinOrderValue: input.MinOrderValue,
		Quantity:      input.Quantity,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
	}
	if err := h.voucherService.UpdateVoucher(voucher); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"voucher": voucher}, "优惠券更新成功")
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的优惠券ID"))
		return
	}

	var input struct {
		Status model.CommonStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	if err := h.voucherService.UpdateVoucherStatus(id, input.Status); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "优惠券状态更新成功")
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的优惠券ID"))
		return
	}

	voucher, err := h.voucherService.GetVoucherByID(id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"voucher": voucher}, "")
}

func (h *Handler) List(c *gin.Context) {
	page, pageSize := parsePaging(c)

	vouchers, total, err := h.voucherService.ListVouchers(page, pageSize)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{
		"vouchers": vouchers,
		"total":    total,
		"page":     page,
	}, "")
}

func parsePaging(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	return page, pageSize
}
