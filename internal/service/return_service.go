package service

import (
	"github.com/kidiezyllex/street-sneaker-sub002/internal/errors"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/model"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/repository/interfaces"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/util"
	"go.uber.org/zap"
)

// ReturnItemInput 退货明细入参
type ReturnItemInput struct {
	ProductID int                `json:"product_id" binding:"required"`
	Color     string             `json:"color"`
	Size      string             `json:"size"`
	Quantity  int                `json:"quantity" binding:"required,min=1"`
	Reason    model.ReturnReason `json:"reason" binding:"required"`
}

type ReturnService struct {
	returnRepo interfaces.ReturnRepository
	orderRepo  interfaces.OrderRepository
}

// NewReturnService 创建一个新的 ReturnService 实例
func NewReturnService(returnRepo interfaces.ReturnRepository, orderRepo interfaces.OrderRepository) *ReturnService {
	return &ReturnService{returnRepo: returnRepo, orderRepo: orderRepo}
}

// CreateReturn 创建退货申请
// 仅已完成订单可申请退货；每条明细必须对应原订单明细行，
// 同一(商品, 颜色, 尺码)的申请数量合计不得超过原购买数量；
// 退款单价取原订单明细捕获的单价，不查商品现价
func (s *ReturnService) CreateReturn(accountID, orderID int, inputs []ReturnItemInput) (*model.ReturnRequest, error) {
	if len(inputs) == 0 {
		return nil, errors.New(errors.ErrValidation, "退货申请不能没有明细")
	}

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询订单失败", err)
	}
	if order == nil {
		return nil, errors.New(errors.ErrOrderNotFound, "订单不存在")
	}
	if order.AccountID != accountID {
		return nil, errors.New(errors.ErrForbidden, "无权操作该订单")
	}
	if order.OrderStatus != model.OrderStatusHoanThanh {
		return nil, errors.New(errors.ErrOrderNotCompleted, "仅已完成订单可以申请退货")
	}

	type lineKey struct {
		productID   int
		color, size string
	}
	purchased := make(map[lineKey]*model.OrderItem, len(order.Items))
	for _, item := range order.Items {
		purchased[lineKey{item.ProductID, item.Color, item.Size}] = item
	}

	requested := make(map[lineKey]int, len(inputs))
	items := make([]*model.ReturnItem, 0, len(inputs))
	var totalRefund int64
	for _, input := range inputs {
		if input.Quantity < 1 {
			return nil, errors.New(errors.ErrValidation, "退货数量必须至少为 1")
		}
		if !input.Reason.IsValid() {
			return nil, errors.New(errors.ErrMissingReason, "退货原因缺失或无效")
		}

		key := lineKey{input.ProductID, input.Color, input.Size}
		origin, ok := purchased[key]
		if !ok {
			return nil, errors.New(errors.ErrValidation, "退货明细不在原订单中")
		}

		requested[key] += input.Quantity
		if requested[key] > origin.Quantity {
			return nil, errors.New(errors.ErrQuantityExceedsOriginal, "退货数量超过原购买数量")
		}

		items = append(items, &model.ReturnItem{
			ProductID: input.ProductID,
			Color:     input.Color,
			Size:      input.Size,
			Quantity:  input.Quantity,
			Price:     origin.Price,
			Reason:    input.Reason,
		})
		totalRefund += origin.Price * int64(input.Quantity)
	}

	request := &model.ReturnRequest{
		OrderID:     orderID,
		AccountID:   accountID,
		Items:       items,
		TotalRefund: totalRefund,
		Status:      model.ReturnStatusChoXuLy,
	}

	if err := s.returnRepo.Create(request); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "创建退货申请失败", err)
	}

	util.Logger.Info("退货申请创建成功",
		zap.Int("return_id", request.ID),
		zap.Int("order_id", orderID),
		zap.Int64("total_refund", totalRefund))
	return request, nil
}

// Resolve 处理退货申请，退款或拒绝
// 处理是一次性的，已处理的申请不接受二次处理
func (s *ReturnService) Resolve(returnID int, outcome model.ReturnStatus) (*model.ReturnRequest, error) {
	if outcome != model.ReturnStatusDaHoanTien && outcome != model.ReturnStatusDaHuy {
		return nil, errors.New(errors.ErrValidation, "处理结果必须为退款或拒绝")
	}

	request, err := s.returnRepo.FindByID(returnID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询退货申请失败", err)
	}
	if request == nil {
		return nil, errors.New(errors.ErrReturnNotFound, "退货申请不存在")
	}
	if request.Status.IsTerminal() {
		return nil, errors.New(errors.ErrAlreadyResolved, "退货申请已处理过")
	}

	updated, err := s.returnRepo.UpdateStatus(returnID, outcome)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "更新退货状态失败", err)
	}
	if !updated {
		return nil, errors.New(errors.ErrAlreadyResolved, "退货申请已处理过")
	}

	request.Status = outcome
	util.Logger.Info("退货申请处理完成",
		zap.Int("return_id", returnID),
		zap.String("outcome", string(outcome)))
	return request, nil
}

// GetReturnByID 获取退货申请详情
func (s *ReturnService) GetReturnByID(id int) (*model.ReturnRequest, error) {
	request, err := s.returnRepo.FindByID(id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询退货申请失败", err)
	}
	if request == nil {
		return nil, errors.New(errors.ErrReturnNotFound, "退货申请不存在")
	}
	return request, nil
}

// ListReturnsByOrder 查询指定订单的全部退货申请
func (s *ReturnService) ListReturnsByOrder(orderID int) ([]*model.ReturnRequest, error) {
	requests, err := s.returnRepo.FindByOrder(orderID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询退货申请失败", err)
	}
	return requests, nil
}

// ListReturns 分页查询退货申请
func (s *ReturnService) ListReturns(page, pageSize int) ([]*model.ReturnRequest, int, error) {
	requests, total, err := s.returnRepo.List(page, pageSize)
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrDatabase, "查询退货申请列表失败", err)
	}
	return requests, total, nil
}
