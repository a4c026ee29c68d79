package returns

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/errors"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/model"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/service"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/util"
	"go.uber.org/zap"
)

type Handler struct {
	returnService *service.ReturnService
}

func NewHandler(returnService *service.ReturnService) *Handler {
	return &Handler{returnService}
}

// Create 创建退货申请
func (h *Handler) Create(c *gin.Context) {
	accountID := c.GetInt("account_id")

	var input struct {
		OrderID int                       `json:"order_id" binding:"required"`
		Items   []service.ReturnItemInput `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		util.Logger.Warn("创建退货申请失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	request, err := h.returnService.CreateReturn(accountID, input.OrderID, input.Items)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"return": request}, "退货申请创建成功")
}

// Get 获取退货申请详情
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的退货申请ID"))
		return
	}

	request, err := h.returnService.GetReturnByID(id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"return": request}, "")
}

// ListByOrder 查询指定订单的退货申请
func (h *Handler) ListByOrder(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("orderId"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的订单ID"))
		return
	}

	requests, err := h.returnService.ListReturnsByOrder(orderID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"returns": requests}, "")
}

// List 分页查询退货申请（管理端）
func (h *Handler) List(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	requests, total, err := h.returnService.ListReturns(page, pageSize)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{
		"returns": requests,
		"total":   total,
		"page":    page,
	}, "")
}

// Resolve 处理退货申请，退款或拒绝（管理端）
func (h *Handler) Resolve(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的退货申请ID"))
		return
	}

	var input struct {
		Outcome model.ReturnStatus `json:"outcome" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	request, err := h.returnService.Resolve(id, input.Outcome)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"return": request}, "退货申请处理完成")
}
