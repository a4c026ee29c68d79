package service

import (
	"context"
	"time"

	"github.com/kidiezyllex/street-sneaker-sub002/internal/errors"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/model"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/repository/interfaces"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/util"
	"go.uber.org/zap"
)

// CheckoutItemInput 下单明细入参
type CheckoutItemInput struct {
	ProductID int    `json:"product_id" binding:"required"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// CheckoutInput 下单入参
type CheckoutInput struct {
	AddressID     int                 `json:"address_id" binding:"required"`
	PaymentMethod model.PaymentMethod `json:"payment_method" binding:"required"`
	VoucherCode   string              `json:"voucher_code"`
	Items         []CheckoutItemInput `json:"items" binding:"required"`
}

// OrderPricing 订单金额三元组，由明细一次性推导
type OrderPricing struct {
	SubTotal int64 `json:"sub_total"`
	Discount int64 `json:"discount"`
	Total    int64 `json:"total"`
}

type OrderService struct {
	orderRepo        interfaces.OrderRepository
	productRepo      interfaces.ProductRepository
	accountRepo      interfaces.AccountRepository
	voucherService   *VoucherService
	promotionService *PromotionService
}

// NewOrderService 创建一个新的 OrderService 实例
func NewOrderService(
	orderRepo interfaces.OrderRepository,
	productRepo interfaces.ProductRepository,
	accountRepo interfaces.AccountRepository,
	voucherService *VoucherService,
	promotionService *PromotionService,
) *OrderService {
	return &OrderService{
		orderRepo:        orderRepo,
		productRepo:      productRepo,
		accountRepo:      accountRepo,
		voucherService:   voucherService,
		promotionService: promotionService,
	}
}

// PriceOrder 对明细行单次遍历推导订单金额
// 明细行单价是下单时捕获的值，重新计价不回查商品现价；
// 优惠码抵扣基于 subTotal 计算，结果满足 Total == SubTotal - Discount
func (s *OrderService) PriceOrder(items []*model.OrderItem, voucherCode string) (*OrderPricing, *model.Voucher, error) {
	if len(items) == 0 {
		return nil, nil, errors.New(errors.ErrEmptyOrder, "订单不能没有明细")
	}

	var subTotal int64
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, nil, errors.New(errors.ErrValidation, "明细数量必须至少为 1")
		}
		subTotal += item.Price * int64(item.Quantity)
	}

	pricing := &OrderPricing{SubTotal: subTotal, Total: subTotal}
	if voucherCode == "" {
		return pricing, nil, nil
	}

	voucher, discount, err := s.voucherService.Validate(voucherCode, &subTotal)
	if err != nil {
		return nil, nil, err
	}
	if discount > subTotal {
		discount = subTotal
	}

	pricing.Discount = discount
	pricing.Total = subTotal - discount
	return pricing, voucher, nil
}

// Checkout 创建订单
// 明细单价取下单时刻的促销折后价并固化到明细行，
// 收货地址复制为快照，优惠码在订单落库后消耗名额
func (s *OrderService) Checkout(ctx context.Context, accountID int, input *CheckoutInput) (*model.Order, error) {
	if len(input.Items) == 0 {
		return nil, errors.New(errors.ErrEmptyOrder, "订单不能没有明细")
	}
	if !isValidPaymentMethod(input.PaymentMethod) {
		return nil, errors.New(errors.ErrValidation, "无效的支付方式")
	}

	address, err := s.accountRepo.GetAddressByID(input.AddressID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询收货地址失败", err)
	}
	if address == nil || address.AccountID != accountID {
		return nil, errors.New(errors.ErrResourceNotFound, "收货地址不存在")
	}

	items, err := s.buildOrderItems(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	pricing, voucher, err := s.PriceOrder(items, input.VoucherCode)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		AccountID:       accountID,
		Items:           items,
		SubTotal:        pricing.SubTotal,
		Discount:        pricing.Discount,
		Total:           pricing.Total,
		OrderStatus:     model.OrderStatusChoXacNhan,
		PaymentStatus:   model.PaymentStatusPending,
		PaymentMethod:   input.PaymentMethod,
		ShippingAddress: address.Snapshot(),
	}
	if voucher != nil {
		order.VoucherID = &voucher.ID
	}

	if err := s.orderRepo.Create(order); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "创建订单失败", err)
	}

	if voucher != nil {
		if err := s.voucherService.RedeemForOrder(voucher.ID, order.ID); err != nil {
			// 校验和兑换之间名额被并发耗尽，取消刚创建的订单
			if _, cancelErr := s.orderRepo.UpdateStatus(order.ID,
				model.OrderStatusChoXacNhan, model.OrderStatusDaHuy); cancelErr != nil {
				util.Logger.Error("兑换失败后取消订单失败",
					zap.Error(cancelErr),
					zap.Int("order_id", order.ID))
			}
			return nil, err
		}
	}

	util.Logger.Info("下单成功",
		zap.Int("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.Int64("total", order.Total))
	return order, nil
}

// buildOrderItems 校验商品与规格，并以促销折后价固化明细单价
func (s *OrderService) buildOrderItems(ctx context.Context, inputs []CheckoutItemInput) ([]*model.OrderItem, error) {
	productIDs := make([]int, 0, len(inputs))
	seen := make(map[int]bool)
	for _, input := range inputs {
		if input.Quantity < 1 {
			return nil, errors.New(errors.ErrValidation, "明细数量必须至少为 1")
		}
		if !seen[input.ProductID] {
			seen[input.ProductID] = true
			productIDs = append(productIDs, input.ProductID)
		}
	}

	products, err := s.productRepo.FindByIDs(productIDs)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询商品失败", err)
	}
	productsByID := make(map[int]*model.Product, len(products))
	for _, product := range products {
		productsByID[product.ID] = product
	}

	promotions, err := s.promotionService.ActivePromotions(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	items := make([]*model.OrderItem, 0, len(inputs))
	for _, input := range inputs {
		product, ok := productsByID[input.ProductID]
		if !ok {
			return nil, errors.New(errors.ErrProductNotFound, "商品不存在")
		}
		if len(product.Variants) > 0 && !product.HasVariant(input.Color, input.Size) {
			return nil, errors.New(errors.ErrInvalidVariant, "商品不存在指定颜色和尺码的规格")
		}

		priced := PriceWithPromotions(now, product.ID, product.BasePrice, promotions)
		items = append(items, &model.OrderItem{
			ProductID: product.ID,
			Color:     input.Color,
			Size:      input.Size,
			Quantity:  input.Quantity,
			Price:     priced.DiscountedPrice,
		})
	}
	return items, nil
}

// AdvanceStatus 推进订单状态
// 只允许流转到主流程的下一状态；目标为 DA_HUY 时等同取消操作
func (s *OrderService) AdvanceStatus(orderID int, target model.OrderStatus) (*model.Order, error) {
	if !target.IsValid() {
		return nil, errors.New(errors.ErrValidation, "无效的订单状态")
	}
	if target == model.OrderStatusDaHuy {
		return s.Cancel(orderID)
	}

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询订单失败", err)
	}
	if order == nil {
		return nil, errors.New(errors.ErrOrderNotFound, "订单不存在")
	}
	if order.OrderStatus.IsTerminal() {
		return nil, errors.New(errors.ErrTerminalState, "订单已处于终态")
	}
	if !order.CanAdvanceTo(target) {
		return nil, errors.New(errors.ErrInvalidTransition, "只能流转到主流程的下一状态")
	}

	updated, err := s.orderRepo.UpdateStatus(orderID, order.OrderStatus, target)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "更新订单状态失败", err)
	}
	if !updated {
		return nil, errors.New(errors.ErrResourceConflict, "订单状态已被其他请求修改，请重试")
	}

	order.OrderStatus = target
	return order, nil
}

// Cancel 取消订单
// 除终态外任意状态均可取消；取消后归还已消耗的优惠券名额
func (s *OrderService) Cancel(orderID int) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询订单失败", err)
	}
	if order == nil {
		return nil, errors.New(errors.ErrOrderNotFound, "订单不存在")
	}
	if !order.CanCancel() {
		return nil, errors.New(errors.ErrTerminalState, "订单已处于终态")
	}

	updated, err := s.orderRepo.UpdateStatus(orderID, order.OrderStatus, model.OrderStatusDaHuy)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "取消订单失败", err)
	}
	if !updated {
		return nil, errors.New(errors.ErrResourceConflict, "订单状态已被其他请求修改，请重试")
	}

	order.OrderStatus = model.OrderStatusDaHuy

	if order.VoucherID != nil {
		if err := s.voucherService.ReleaseForOrder(*order.VoucherID, order.ID); err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, "归还优惠券名额失败", err)
		}
	}

	util.Logger.Info("订单取消成功", zap.Int("order_id", order.ID))
	return order, nil
}

// UpdatePaymentStatus 更新支付状态，与订单状态独立跟踪
func (s *OrderService) UpdatePaymentStatus(orderID int, status model.PaymentStatus) error {
	if !status.IsValid() {
		return errors.New(errors.ErrValidation, "无效的支付状态")
	}

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询订单失败", err)
	}
	if order == nil {
		return errors.New(errors.ErrOrderNotFound, "订单不存在")
	}

	if err := s.orderRepo.UpdatePaymentStatus(orderID, status); err != nil {
		return errors.Wrap(errors.ErrDatabase, "更新支付状态失败", err)
	}
	return nil
}

// UpdateItemQuantity 修改待确认订单的明细数量并重新计价
// subTotal/discount/total 基于修改后的全部明细一次性重新推导，
// 明细单价保持下单时捕获的值不变
func (s *OrderService) UpdateItemQuantity(orderID, itemID, quantity int) (*model.Order, error) {
	if quantity < 1 {
		return nil, errors.New(errors.ErrValidation, "明细数量必须至少为 1")
	}

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询订单失败", err)
	}
	if order == nil {
		return nil, errors.New(errors.ErrOrderNotFound, "订单不存在")
	}
	if order.OrderStatus != model.OrderStatusChoXacNhan {
		return nil, errors.New(errors.ErrResourceConflict, "仅待确认订单可以修改明细")
	}

	var target *model.OrderItem
	for _, item := range order.Items {
		if item.ID == itemID {
			target = item
			break
		}
	}
	if target == nil {
		return nil, errors.New(errors.ErrResourceNotFound, "订单明细不存在")
	}
	target.Quantity = quantity

	var subTotal int64
	for _, item := range order.Items {
		subTotal += item.Price * int64(item.Quantity)
	}

	var discount int64
	if order.VoucherID != nil {
		voucher, err := s.voucherService.GetVoucherByID(*order.VoucherID)
		if err != nil {
			return nil, err
		}
		if subTotal < voucher.MinOrderValue {
			return nil, errors.New(errors.ErrOrderBelowMinimum, "修改后订单金额未达到优惠券使用门槛")
		}
		discount = VoucherDiscount(voucher, subTotal)
		if discount > subTotal {
			discount = subTotal
		}
	}

	order.SubTotal = subTotal
	order.Discount = discount
	order.Total = subTotal - discount

	if err := s.orderRepo.SavePricing(order); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "写回订单金额失败", err)
	}
	return order, nil
}

// GetOrderByID 获取订单详情
func (s *OrderService) GetOrderByID(id int) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询订单失败", err)
	}
	if order == nil {
		return nil, errors.New(errors.ErrOrderNotFound, "订单不存在")
	}
	return order, nil
}

// ListOrders 分页查询全部订单
func (s *OrderService) ListOrders(page, pageSize int) ([]*model.Order, int, error) {
	orders, total, err := s.orderRepo.List(page, pageSize)
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrDatabase, "查询订单列表失败", err)
	}
	return orders, total, nil
}

// ListAccountOrders 分页查询指定账户的订单
func (s *OrderService) ListAccountOrders(accountID, page, pageSize int) ([]*model.Order, int, error) {
	orders, total, err := s.orderRepo.ListByAccount(accountID, page, pageSize)
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrDatabase, "查询订单列表失败", err)
	}
	return orders, total, nil
}

func isValidPaymentMethod(method model.PaymentMethod) bool {
	switch method {
	case model.PaymentMethodCOD, model.PaymentMethodBanking, model.PaymentMethodEWallet:
		return true
	}
	return false
}
