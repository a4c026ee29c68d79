package model

import "time"

// OrderStatus 定义订单的生命周期状态
type OrderStatus string

const (
	OrderStatusChoXacNhan    OrderStatus = "CHO_XAC_NHAN"    // 待确认（初始状态）
	OrderStatusChoGiaoHang   OrderStatus = "CHO_GIAO_HANG"   // 待发货
	OrderStatusDangVanChuyen OrderStatus = "DANG_VAN_CHUYEN" // 运输中
	OrderStatusDaGiaoHang    OrderStatus = "DA_GIAO_HANG"    // 已送达
	OrderStatusHoanThanh     OrderStatus = "HOAN_THANH"      // 已完成（终态）
	OrderStatusDaHuy         OrderStatus = "DA_HUY"          // 已取消（终态）
)

// nextStatus 订单主流程的下一状态映射，取消不在其中
var nextStatus = map[OrderStatus]OrderStatus{
	OrderStatusChoXacNhan:    OrderStatusChoGiaoHang,
	OrderStatusChoGiaoHang:   OrderStatusDangVanChuyen,
	OrderStatusDangVanChuyen: OrderStatusDaGiaoHang,
	OrderStatusDaGiaoHang:    OrderStatusHoanThanh,
}

// IsTerminal 检查状态是否为终态
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusHoanThanh || s == OrderStatusDaHuy
}

// Next 返回主流程中的下一状态，终态没有下一状态
func (s OrderStatus) Next() (OrderStatus, bool) {
	next, ok := nextStatus[s]
	return next, ok
}

// IsValid 检查状态值是否为已知枚举
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusChoXacNhan, OrderStatusChoGiaoHang, OrderStatusDangVanChuyen,
		OrderStatusDaGiaoHang, OrderStatusHoanThanh, OrderStatusDaHuy:
		return true
	}
	return false
}

// PaymentStatus 支付状态，独立于订单状态跟踪
type PaymentStatus string

const (
	PaymentStatusPending     PaymentStatus = "PENDING"
	PaymentStatusPartialPaid PaymentStatus = "PARTIAL_PAID"
	PaymentStatusPaid        PaymentStatus = "PAID"
)

// IsValid 检查支付状态值是否为已知枚举
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPartialPaid, PaymentStatusPaid:
		return true
	}
	return false
}

// PaymentMethod 支付方式
type PaymentMethod string

const (
	PaymentMethodCOD      PaymentMethod = "COD"      // 货到付款
	PaymentMethodBanking  PaymentMethod = "BANKING"  // 银行转账
	PaymentMethodEWallet  PaymentMethod = "E_WALLET" // 电子钱包
)

// ShippingAddress 下单时的收货地址快照
type ShippingAddress struct {
	ReceiverName  string `json:"receiver_name"`
	Phone         string `json:"phone"`
	Province      string `json:"province"`
	District      string `json:"district"`
	Ward          string `json:"ward"`
	DetailAddress string `json:"detail_address"`
}

// OrderItem 订单明细行
// Price 是下单时捕获的单价，不随商品现价变动
type OrderItem struct {
	ID        int    `json:"id"`
	OrderID   int    `json:"order_id"`
	ProductID int    `json:"product_id"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
}

// Order 订单模型
// 不变式：Total == SubTotal - Discount，且 0 <= Discount <= SubTotal
type Order struct {
	ID              int             `json:"id"`
	OrderNumber     string          `json:"order_number"`
	AccountID       int             `json:"account_id"`
	Items           []*OrderItem    `json:"items"`
	SubTotal        int64           `json:"sub_total"`
	Discount        int64           `json:"discount"`
	Total           int64           `json:"total"`
	VoucherID       *int            `json:"voucher_id,omitempty"`
	OrderStatus     OrderStatus     `json:"order_status"`
	PaymentStatus   PaymentStatus   `json:"payment_status"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// CanAdvanceTo 检查订单能否从当前状态流转到目标状态
// 只允许主流程的下一状态；取消走 CanCancel，不在此处
func (o *Order) CanAdvanceTo(target OrderStatus) bool {
	if o.OrderStatus.IsTerminal() {
		return false
	}
	next, ok := o.OrderStatus.Next()
	return ok && target == next
}

// CanCancel 检查订单当前能否取消
func (o *Order) CanCancel() bool {
	return !o.OrderStatus.IsTerminal()
}
