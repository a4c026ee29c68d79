package interfaces

import "github.com/kidiezyllex/street-sneaker-sub002/internal/model"

type OrderRepository interface {
	Create(order *model.Order) error
	FindByID(id int) (*model.Order, error)
	ListByAccount(accountID, page, pageSize int) ([]*model.Order, int, error)
	List(page, pageSize int) ([]*model.Order, int, error)
	// UpdateStatus 条件更新订单状态，仅当当前状态仍为 from 时生效；
	// 返回 false 表示状态在读取后已被其他请求修改
	UpdateStatus(orderID int, from, to model.OrderStatus) (bool, error)
	UpdatePaymentStatus(orderID int, status model.PaymentStatus) error
	// SavePricing 在同一事务中写回明细行数量与 subTotal/discount/total，
	// 三者必须由调用方从当前明细一次性推导
	SavePricing(order *model.Order) error
}
