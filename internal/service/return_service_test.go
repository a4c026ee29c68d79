package service

import (
	"testing"

	"github.com/kidiezyllex/street-sneaker-sub002/internal/errors"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func completedOrder() *model.Order {
	return &model.Order{
		ID:          1,
		AccountID:   7,
		OrderStatus: model.OrderStatusHoanThanh,
		Items: []*model.OrderItem{
			{ID: 10, ProductID: 1, Color: "black", Size: "42", Quantity: 2, Price: 400000},
			{ID: 11, ProductID: 2, Color: "white", Size: "40", Quantity: 1, Price: 250000},
		},
	}
}

// TestCreateReturnHappyPath 退款金额取原订单捕获的单价
func TestCreateReturnHappyPath(t *testing.T) {
	returnRepo := new(MockReturnRepository)
	orderRepo := new(MockOrderRepository)
	service := NewReturnService(returnRepo, orderRepo)

	orderRepo.On("FindByID", 1).Return(completedOrder(), nil)
	returnRepo.On("Create", mock.AnythingOfType("*model.ReturnRequest")).Return(nil)

	request, err := service.CreateReturn(7, 1, []ReturnItemInput{
		{ProductID: 1, Color: "black", Size: "42", Quantity: 2, Reason: model.ReturnReasonDamaged},
	})
	assert.NoError(t, err)
	assert.Equal(t, model.ReturnStatusChoXuLy, request.Status)
	assert.Equal(t, int64(800000), request.TotalRefund)
	assert.Equal(t, int64(400000), request.Items[0].Price)
	returnRepo.AssertExpectations(t)
}

// TestCreateReturnQuantityExceedsOriginal 退货数量超过原购买数量
func TestCreateReturnQuantityExceedsOriginal(t *testing.T) {
	returnRepo := new(MockReturnRepository)
	orderRepo := new(MockOrderRepository)
	service := NewReturnService(returnRepo, orderRepo)

	orderRepo.On("FindByID", 1).Return(completedOrder(), nil)

	_, err := service.CreateReturn(7, 1, []ReturnItemInput{
		{ProductID: 1, Color: "black", Size: "42", Quantity: 3, Reason: model.ReturnReasonDamaged},
	})
	assert.Error(t, err)
	assert.Equal(t, errors.ErrQuantityExceedsOriginal, errors.CodeOf(err))
}

// TestCreateReturnAggregatesDuplicateLines 同一规格多条明细合并后校验数量
func TestCreateReturnAggregatesDuplicateLines(t *testing.T) {
	returnRepo := new(MockReturnRepository)
	orderRepo := new(MockOrderRepository)
	service := NewReturnService(returnRepo, orderRepo)

	orderRepo.On("FindByID", 1).Return(completedOrder(), nil)

	_, err := service.CreateReturn(7, 1, []ReturnItemInput{
		{ProductID: 1, Color: "black", Size: "42", Quantity: 1, Reason: model.ReturnReasonDamaged},
		{ProductID: 1, Color: "black", Size: "42", Quantity: 2, Reason: model.ReturnReasonWrongSize},
	})
	assert.Error(t, err)
	assert.Equal(t, errors.ErrQuantityExceedsOriginal, errors.CodeOf(err))
}

// TestCreateReturnOrderNotCompleted 未完成订单不可退货
func TestCreateReturnOrderNotCompleted(t *testing.T) {
	returnRepo := new(MockReturnRepository)
	orderRepo := new(MockOrderRepository)
	service := NewReturnService(returnRepo, orderRepo)

	pending := completedOrder()
	pending.OrderStatus = model.OrderStatusDaGiaoHang
	orderRepo.On("FindByID", 1).Return(pending, nil)

	_, err := service.CreateReturn(7, 1, []ReturnItemInput{
		{ProductID: 1, Color: "black", Size: "42", Quantity: 1, Reason: model.ReturnReasonDamaged},
	})
	assert.Error(t, err)
	assert.Equal(t, errors.ErrOrderNotCompleted, errors.CodeOf(err))
}

// TestCreateReturnInvalidReason 退货原因必须在枚举内
func TestCreateReturnInvalidReason(t *testing.T) {
	returnRepo := new(MockReturnRepository)
	orderRepo := new(MockOrderRepository)
	service := NewReturnService(returnRepo, orderRepo)

	orderRepo.On("FindByID", 1).Return(completedOrder(), nil)

	_, err := service.CreateReturn(7, 1, []ReturnItemInput{
		{ProductID: 1, Color: "black", Size: "42", Quantity: 1, Reason: "because"},
	})
	assert.Error(t, err)
	assert.Equal(t, errors.ErrMissingReason, errors.CodeOf(err))
}

// TestCreateReturnItemNotInOrder 退货明细必须对应原订单明细
func TestCreateReturnItemNotInOrder(t *testing.T) {
	returnRepo := new(MockReturnRepository)
	orderRepo := new(MockOrderRepository)
	service := NewReturnService(returnRepo, orderRepo)

	orderRepo.On("FindByID", 1).Return(completedOrder(), nil)

	_, err := service.CreateReturn(7, 1, []ReturnItemInput{
		{ProductID: 99, Color: "black", Size: "42", Quantity: 1, Reason: model.ReturnReasonDamaged},
	})
	assert.Error(t, err)
	assert.Equal(t, errors.ErrValidation, errors.CodeOf(err))
}

// TestCreateReturnWrongAccount 非订单所有者不可申请退货
func TestCreateReturnWrongAccount(t *testing.T) {
	returnRepo := new(MockReturnRepository)
	orderRepo := new(MockOrderRepository)
	service := NewReturnService(returnRepo, orderRepo)

	orderRepo.On("FindByID", 1).Return(completedOrder(), nil)

	_, err := service.CreateReturn(8, 1, []ReturnItemInput{
		{ProductID: 1, Color: "black", Size: "42", Quantity: 1, Reason: model.ReturnReasonDamaged},
	})
	assert.Error(t, err)
	assert.Equal(t, errors.ErrForbidden, errors.CodeOf(err))
}

// TestResolveRefund 处理退货申请为已退款
func TestResolveRefund(t *testing.T) {
	returnRepo := new(MockReturnRepository)
	service := NewReturnService(returnRepo, new(MockOrderRepository))

	returnRepo.On("FindByID", 3).Return(&model.ReturnRequest{
		ID:     3,
		Status: model.ReturnStatusChoXuLy,
	}, nil)
	returnRepo.On("UpdateStatus", 3, model.ReturnStatusDaHoanTien).Return(true, nil)

	request, err := service.Resolve(3, model.ReturnStatusDaHoanTien)
	assert.NoError(t, err)
	assert.Equal(t, model.ReturnStatusDaHoanTien, request.Status)
}

// TestResolveAlreadyResolved 已处理的申请不接受二次处理
func TestResolveAlreadyResolved(t *testing.T) {
	returnRepo := new(MockReturnRepository)
	service := NewReturnService(returnRepo, new(MockOrderRepository))

	returnRepo.On("FindByID", 3).Return(&model.ReturnRequest{
		ID:     3,
		Status: model.ReturnStatusDaHoanTien,
	}, nil)

	_, err := service.Resolve(3, model.ReturnStatusDaHuy)
	assert.Error(t, err)
	assert.Equal(t, errors.ErrAlreadyResolved, errors.CodeOf(err))
}

// TestResolveConcurrentConflict 并发处理时后到的请求失败
func TestResolveConcurrentConflict(t *testing.T) {
	returnRepo := new(MockReturnRepository)
	service := NewReturnService(returnRepo, new(MockOrderRepository))

	returnRepo.On("FindByID", 3).Return(&model.ReturnRequest{
		ID:     3,
		Status: model.ReturnStatusChoXuLy,
	}, nil)
	returnRepo.On("UpdateStatus", 3, model.ReturnStatusDaHuy).Return(false, nil)

	_, err := service.Resolve(3, model.ReturnStatusDaHuy)
	assert.Error(t, err)
	assert.Equal(t, errors.ErrAlreadyResolved, errors.CodeOf(err))
}

// TestResolveInvalidOutcome 处理结果必须为退款或拒绝
func TestResolveInvalidOutcome(t *testing.T) {
	service := NewReturnService(new(MockReturnRepository), new(MockOrderRepository))

	_, err := service.Resolve(3, model.ReturnStatusChoXuLy)
	assert.Error(t, err)
	assert.Equal(t, errors.ErrValidation, errors.CodeOf(err))
}
