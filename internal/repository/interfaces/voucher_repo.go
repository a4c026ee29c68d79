package interfaces

import "github.com/kidiezyllex/street-sneaker-sub002/internal/model"

type VoucherRepository interface {
	Create(voucher *model.Voucher) error
	Update(voucher *model.Voucher) error
	UpdateStatus(id int, status model.CommonStatus) error
	FindByID(id int) (*model.Voucher, error)
	// FindByCode 按优惠码精确查找，区分大小写；不存在时返回 (nil, nil)
	FindByCode(code string) (*model.Voucher, error)
	List(page, pageSize int) ([]*model.Voucher, int, error)
	// Redeem 为指定订单消耗一次兑换，按订单幂等：
	// 返回 false 表示该订单已兑换过，不再重复计数；
	// 名额耗尽时返回 ErrVoucherExhausted 错误
	Redeem(voucherID, orderID int) (bool, error)
	// Release 撤销指定订单的兑换（订单取消时调用），
	// 返回 false 表示该订单从未兑换过
	Release(voucherID, orderID int) (bool, error)
}
