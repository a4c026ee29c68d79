package service

import (
	"context"
	"testing"
	"time"

	"github.com/kidiezyllex/street-sneaker-sub002/internal/errors"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newOrderServiceForTest(
	orderRepo *MockOrderRepository,
	productRepo *MockProductRepository,
	accountRepo *MockAccountRepository,
	voucherRepo *MockVoucherRepository,
	promotionRepo *MockPromotionRepository,
) *OrderService {
	return NewOrderService(
		orderRepo,
		productRepo,
		accountRepo,
		NewVoucherService(voucherRepo),
		NewPromotionService(promotionRepo),
	)
}

// TestPriceOrderWithoutVoucher 无优惠码时 total 等于 subTotal
func TestPriceOrderWithoutVoucher(t *testing.T) {
	service := newOrderServiceForTest(
		new(MockOrderRepository), new(MockProductRepository), new(MockAccountRepository),
		new(MockVoucherRepository), new(MockPromotionRepository))

	items := []*model.OrderItem{
		{ProductID: 1, Quantity: 2, Price: 500000},
		{ProductID: 2, Quantity: 1, Price: 300000},
	}

	pricing, voucher, err := service.PriceOrder(items, "")
	assert.NoError(t, err)
	assert.Nil(t, voucher)
	assert.Equal(t, int64(1300000), pricing.SubTotal)
	assert.Equal(t, int64(0), pricing.Discount)
	assert.Equal(t, int64(1300000), pricing.Total)
}

// TestPriceOrderWithVoucher 优惠码抵扣基于 subTotal 计算
func TestPriceOrderWithVoucher(t *testing.T) {
	voucherRepo := new(MockVoucherRepository)
	service := newOrderServiceForTest(
		new(MockOrderRepository), new(MockProductRepository), new(MockAccountRepository),
		voucherRepo, new(MockPromotionRepository))

	voucherRepo.On("FindByCode", "SUMMER10").Return(activeVoucher(), nil)

	items := []*model.OrderItem{{ProductID: 1, Quantity: 1, Price: 200000}}

	pricing, voucher, err := service.PriceOrder(items, "SUMMER10")
	assert.NoError(t, err)
	assert.Equal(t, 1, voucher.ID)
	assert.Equal(t, int64(200000), pricing.SubTotal)
	assert.Equal(t, int64(20000), pricing.Discount)
	assert.Equal(t, int64(180000), pricing.Total)
	assert.Equal(t, pricing.SubTotal-pricing.Discount, pricing.Total)
}

// TestPriceOrderEmpty 空订单拒绝计价
func TestPriceOrderEmpty(t *testing.T) {
	service := newOrderServiceForTest(
		new(MockOrderRepository), new(MockProductRepository), new(MockAccountRepository),
		new(MockVoucherRepository), new(MockPromotionRepository))

	_, _, err := service.PriceOrder(nil, "")
	assert.Error(t, err)
	assert.Equal(t, errors.ErrEmptyOrder, errors.CodeOf(err))
}

func checkoutFixtures(productRepo *MockProductRepository, accountRepo *MockAccountRepository, promotionRepo *MockPromotionRepository) {
	accountRepo.On("GetAddressByID", 10).Return(&model.AccountAddress{
		ID:           10,
		AccountID:    7,
		ReceiverName: "Nguyen Van A",
		Province:     "Ha Noi",
	}, nil)

	productRepo.On("FindByIDs", []int{1}).Return([]*model.Product{
		{
			ID:        1,
			Name:      "Air Max",
			BasePrice: 1000000,
			Variants: []*model.ProductVariant{
				{Color: "black", Size: "42"},
			},
		},
	}, nil)

	promotionRepo.On("FindActive", mock.AnythingOfType("time.Time")).
		Return([]*model.Promotion{promotionAt(1, 20, time.Now().Add(-time.Hour), 1)}, nil)
}

// TestCheckoutCapturesPromotionPrice 下单时明细单价固化为促销折后价
func TestCheckoutCapturesPromotionPrice(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	accountRepo := new(MockAccountRepository)
	promotionRepo := new(MockPromotionRepository)
	service := newOrderServiceForTest(orderRepo, productRepo, accountRepo,
		new(MockVoucherRepository), promotionRepo)

	checkoutFixtures(productRepo, accountRepo, promotionRepo)
	orderRepo.On("Create", mock.AnythingOfType("*model.Order")).Return(nil)

	order, err := service.Checkout(context.Background(), 7, &CheckoutInput{
		AddressID:     10,
		PaymentMethod: model.PaymentMethodCOD,
		Items: []CheckoutItemInput{
			{ProductID: 1, Color: "black", Size: "42", Quantity: 1},
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, model.OrderStatusChoXacNhan, order.OrderStatus)
	assert.Equal(t, model.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, int64(800000), order.Items[0].Price)
	assert.Equal(t, int64(800000), order.SubTotal)
	assert.Equal(t, "Nguyen Van A", order.ShippingAddress.ReceiverName)
	orderRepo.AssertExpectations(t)
}

// TestCheckoutInvalidVariant 不存在的颜色尺码组合拒绝下单
func TestCheckoutInvalidVariant(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	accountRepo := new(MockAccountRepository)
	promotionRepo := new(MockPromotionRepository)
	service := newOrderServiceForTest(orderRepo, productRepo, accountRepo,
		new(MockVoucherRepository), promotionRepo)

	checkoutFixtures(productRepo, accountRepo, promotionRepo)

	_, err := service.Checkout(context.Background(), 7, &CheckoutInput{
		AddressID:     10,
		PaymentMethod: model.PaymentMethodCOD,
		Items: []CheckoutItemInput{
			{ProductID: 1, Color: "red", Size: "40", Quantity: 1},
		},
	})
	assert.Error(t, err)
	assert.Equal(t, errors.ErrInvalidVariant, errors.CodeOf(err))
}

// TestCheckoutRedeemsVoucher 下单消耗优惠券名额
func TestCheckoutRedeemsVoucher(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	accountRepo := new(MockAccountRepository)
	voucherRepo := new(MockVoucherRepository)
	promotionRepo := new(MockPromotionRepository)
	service := newOrderServiceForTest(orderRepo, productRepo, accountRepo, voucherRepo, promotionRepo)

	checkoutFixtures(productRepo, accountRepo, promotionRepo)
	voucherRepo.On("FindByCode", "SUMMER10").Return(activeVoucher(), nil)
	orderRepo.On("Create", mock.AnythingOfType("*model.Order")).
		Run(func(args mock.Arguments) {
			args.Get(0).(*model.Order).ID = 55
		}).Return(nil)
	voucherRepo.On("Redeem", 1, 55).Return(true, nil)

	order, err := service.Checkout(context.Background(), 7, &CheckoutInput{
		AddressID:     10,
		PaymentMethod: model.PaymentMethodBanking,
		VoucherCode:   "SUMMER10",
		Items: []CheckoutItemInput{
			{ProductID: 1, Color: "black", Size: "42", Quantity: 1},
		},
	})
	assert.NoError(t, err)
	assert.NotNil(t, order.VoucherID)
	assert.Equal(t, int64(80000), order.Discount) // 800000 的 10%
	assert.Equal(t, int64(720000), order.Total)
	voucherRepo.AssertExpectations(t)
}

// TestAdvanceStatusHappyPath 按主流程推进订单状态
func TestAdvanceStatusHappyPath(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	service := newOrderServiceForTest(orderRepo, new(MockProductRepository),
		new(MockAccountRepository), new(MockVoucherRepository), new(MockPromotionRepository))

	orderRepo.On("FindByID", 1).Return(&model.Order{
		ID:          1,
		OrderStatus: model.OrderStatusChoXacNhan,
	}, nil)
	orderRepo.On("UpdateStatus", 1, model.OrderStatusChoXacNhan, model.OrderStatusChoGiaoHang).
		Return(true, nil)

	order, err := service.AdvanceStatus(1, model.OrderStatusChoGiaoHang)
	assert.NoError(t, err)
	assert.Equal(t, model.OrderStatusChoGiaoHang, order.OrderStatus)
}

// TestAdvanceStatusSkippingStages 跳级流转被拒绝
func TestAdvanceStatusSkippingStages(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	service := newOrderServiceForTest(orderRepo, new(MockProductRepository),
		new(MockAccountRepository), new(MockVoucherRepository), new(MockPromotionRepository))

	orderRepo.On("FindByID", 1).Return(&model.Order{
		ID:          1,
		OrderStatus: model.OrderStatusChoXacNhan,
	}, nil)

	_, err := service.AdvanceStatus(1, model.OrderStatusDaGiaoHang)
	assert.Error(t, err)
	assert.Equal(t, errors.ErrInvalidTransition, errors.CodeOf(err))
}

// TestAdvanceStatusTerminal 终态订单不再流转
func TestAdvanceStatusTerminal(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	service := newOrderServiceForTest(orderRepo, new(MockProductRepository),
		new(MockAccountRepository), new(MockVoucherRepository), new(MockPromotionRepository))

	orderRepo.On("FindByID", 1).Return(&model.Order{
		ID:          1,
		OrderStatus: model.OrderStatusHoanThanh,
	}, nil)

	_, err := service.AdvanceStatus(1, model.OrderStatusChoGiaoHang)
	assert.Error(t, err)
	assert.Equal(t, errors.ErrTerminalState, errors.CodeOf(err))
}

// TestAdvanceStatusConflict 并发修改时返回冲突
func TestAdvanceStatusConflict(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	service := newOrderServiceForTest(orderRepo, new(MockProductRepository),
		new(MockAccountRepository), new(MockVoucherRepository), new(MockPromotionRepository))

	orderRepo.On("FindByID", 1).Return(&model.Order{
		ID:          1,
		OrderStatus: model.OrderStatusChoGiaoHang,
	}, nil)
	orderRepo.On("UpdateStatus", 1, model.OrderStatusChoGiaoHang, model.OrderStatusDangVanChuyen).
		Return(false, nil)

	_, err := service.AdvanceStatus(1, model.OrderStatusDangVanChuyen)
	assert.Error(t, err)
	assert.Equal(t, errors.ErrResourceConflict, errors.CodeOf(err))
}

// TestCancelReleasesVoucher 取消订单归还优惠券名额
func TestCancelReleasesVoucher(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	voucherRepo := new(MockVoucherRepository)
	service := newOrderServiceForTest(orderRepo, new(MockProductRepository),
		new(MockAccountRepository), voucherRepo, new(MockPromotionRepository))

	voucherID := 1
	orderRepo.On("FindByID", 5).Return(&model.Order{
		ID:          5,
		OrderStatus: model.OrderStatusChoGiaoHang,
		VoucherID:   &voucherID,
	}, nil)
	orderRepo.On("UpdateStatus", 5, model.OrderStatusChoGiaoHang, model.OrderStatusDaHuy).
		Return(true, nil)
	voucherRepo.On("Release", 1, 5).Return(true, nil)

	order, err := service.Cancel(5)
	assert.NoError(t, err)
	assert.Equal(t, model.OrderStatusDaHuy, order.OrderStatus)
	voucherRepo.AssertExpectations(t)
}

// TestCancelTerminalOrder 终态订单不可取消
func TestCancelTerminalOrder(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	service := newOrderServiceForTest(orderRepo, new(MockProductRepository),
		new(MockAccountRepository), new(MockVoucherRepository), new(MockPromotionRepository))

	orderRepo.On("FindByID", 5).Return(&model.Order{
		ID:          5,
		OrderStatus: model.OrderStatusDaHuy,
	}, nil)

	_, err := service.Cancel(5)
	assert.Error(t, err)
	assert.Equal(t, errors.ErrTerminalState, errors.CodeOf(err))
}

// TestUpdateItemQuantityRecomputesTotals 修改数量后金额一次性重新推导
func TestUpdateItemQuantityRecomputesTotals(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	voucherRepo := new(MockVoucherRepository)
	service := newOrderServiceForTest(orderRepo, new(MockProductRepository),
		new(MockAccountRepository), voucherRepo, new(MockPromotionRepository))

	voucherID := 1
	orderRepo.On("FindByID", 9).Return(&model.Order{
		ID:          9,
		OrderStatus: model.OrderStatusChoXacNhan,
		VoucherID:   &voucherID,
		Items: []*model.OrderItem{
			{ID: 100, ProductID: 1, Quantity: 1, Price: 200000},
		},
	}, nil)
	voucherRepo.On("FindByID", 1).Return(activeVoucher(), nil)
	orderRepo.On("SavePricing", mock.AnythingOfType("*model.Order")).Return(nil)

	order, err := service.UpdateItemQuantity(9, 100, 3)
	assert.NoError(t, err)
	assert.Equal(t, int64(600000), order.SubTotal)
	assert.Equal(t, int64(60000), order.Discount)
	assert.Equal(t, int64(540000), order.Total)
	orderRepo.AssertExpectations(t)
}

// TestUpdateItemQuantityBelowVoucherMinimum 修改后金额跌破门槛时拒绝
func TestUpdateItemQuantityBelowVoucherMinimum(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	voucherRepo := new(MockVoucherRepository)
	service := newOrderServiceForTest(orderRepo, new(MockProductRepository),
		new(MockAccountRepository), voucherRepo, new(MockPromotionRepository))

	voucherID := 1
	orderRepo.On("FindByID", 9).Return(&model.Order{
		ID:          9,
		OrderStatus: model.OrderStatusChoXacNhan,
		VoucherID:   &voucherID,
		Items: []*model.OrderItem{
			{ID: 100, ProductID: 1, Quantity: 4, Price: 50000},
		},
	}, nil)
	voucherRepo.On("FindByID", 1).Return(activeVoucher(), nil)

	_, err := service.UpdateItemQuantity(9, 100, 1)
	assert.Error(t, err)
	assert.Equal(t, errors.ErrOrderBelowMinimum, errors.CodeOf(err))
}

// TestUpdateItemQuantityAfterConfirmation 已确认订单不允许修改明细
func TestUpdateItemQuantityAfterConfirmation(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	service := newOrderServiceForTest(orderRepo, new(MockProductRepository),
		new(MockAccountRepository), new(MockVoucherRepository), new(MockPromotionRepository))

	orderRepo.On("FindByID", 9).Return(&model.Order{
		ID:          9,
		OrderStatus: model.OrderStatusDangVanChuyen,
		Items:       []*model.OrderItem{{ID: 100, Quantity: 1, Price: 100000}},
	}, nil)

	_, err := service.UpdateItemQuantity(9, 100, 2)
	assert.Error(t, err)
	assert.Equal(t, errors.ErrResourceConflict, errors.CodeOf(err))
}
