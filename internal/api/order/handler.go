package order

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
	orderService   *service.OrderService
	accountService *service.AccountService
}

func NewHandler(orderService *service.OrderService, accountService *service.AccountService) *Handler {
	return &Handler{orderService, accountService}
}

// Checkout 下单
func (h *Handler) Checkout(c *gin.Context) {
	accountID := c.GetInt("account_id")

	var input service.CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.Logger.Warn("下单失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	order, err := h.orderService.Checkout(c.Request.Context(), accountID, &input)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"order": order}, "下单成功")
}

// Price 试算订单金额，不创建订单
func (h *Handler) Price(c *gin.Context) {
	var input struct {
		VoucherCode string `json:"voucher_code"`
		Items       []struct {
			ProductID int    `json:"product_id" binding:"required"`
			Quantity  int    `json:"quantity" binding:"required,min=1"`
			Price     int64  `json:"price" binding:"required"`
			Color     string `json:"color"`
			Size      string `json:"size"`
		} `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	items := make([]*model.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, &model.OrderItem{
			ProductID: item.ProductID,
			Color:     item.Color,
			Size:      item.Size,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	pricing, _, err := h.orderService.PriceOrder(items, input.VoucherCode)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"pricing": pricing}, "")
}

// Get 获取订单详情，客户只能查看本人订单
func (h *Handler) Get(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的订单ID"))
		return
	}

	order, err := h.orderService.GetOrderByID(orderID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	accountID := c.GetInt("account_id")
	if order.AccountID != accountID && !h.isAdmin(accountID) {
		errors.HandleError(c, errors.New(errors.ErrForbidden, "无权查看该订单"))
		return
	}

	errors.HandleSuccess(c, gin.H{"order": order}, "")
}

// ListMine 查询本人订单
func (h *Handler) ListMine(c *gin.Context) {
	accountID := c.GetInt("account_id")
	page, pageSize := parsePaging(c)

	orders, total, err := h.orderService.ListAccountOrders(accountID, page, pageSize)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{
		"orders": orders,
		"total":  total,
		"page":   page,
	}, "")
}

// List 查询全部订单（管理端）
func (h *Handler) List(c *gin.Context) {
	page, pageSize := parsePaging(c)

	orders, total, err := h.orderService.ListOrders(page, pageSize)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{
		"orders": orders,
		"total":  total,
		"page":   page,
	}, "")
}

// UpdateStatus 推进订单状态（管理端）
func (h *Handler) UpdateStatus(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的订单ID"))
		return
	}

	var input struct {
		Status model.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	order, err := h.orderService.AdvanceStatus(orderID, input.Status)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"order": order}, "订单状态更新成功")
}

// Cancel 取消订单，客户只能取消本人订单
func (h *Handler) Cancel(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的订单ID"))
		return
	}

	order, err := h.orderService.GetOrderByID(orderID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	accountID := c.GetInt("account_id")
	if order.AccountID != accountID && !h.isAdmin(accountID) {
		errors.HandleError(c, errors.New(errors.ErrForbidden, "无权取消该订单"))
		return
	}

	order, err = h.orderService.Cancel(orderID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"order": order}, "订单取消成功")
}

// UpdatePaymentStatus 更新支付状态（管理端）
func (h *Handler) UpdatePaymentStatus(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的订单ID"))
		return
	}

	var input struct {
		Status model.PaymentStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	if err := h.orderService.UpdatePaymentStatus(orderID, input.Status); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "支付状态更新成功")
}

// UpdateItemQuantity 修改待确认订单的明细数量（管理端）
func (h *Handler) UpdateItemQuantity(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的订单ID"))
		return
	}
	itemID, err := strconv.Atoi(c.Param("itemId"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的明细ID"))
		return
	}

	var input struct {
		Quantity int `json:"quantity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	order, err := h.orderService.UpdateItemQuantity(orderID, itemID, input.Quantity)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"order": order}, "订单明细更新成功")
}

func (h *Handler) isAdmin(accountID int) bool {
	account, err := h.accountService.GetAccountByID(accountID)
	return err == nil && account.Role == service.RoleAdmin
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
