package model

import "time"

// ReturnStatus 退货申请状态
type ReturnStatus string

const (
	ReturnStatusChoXuLy    ReturnStatus = "CHO_XU_LY"    // 待处理（初始状态）
	ReturnStatusDaHoanTien ReturnStatus = "DA_HOAN_TIEN" // 已退款（终态）
	ReturnStatusDaHuy      ReturnStatus = "DA_HUY"       // 已拒绝（终态）
)

// IsTerminal 检查退货状态是否为终态
func (s ReturnStatus) IsTerminal() bool {
	return s == ReturnStatusDaHoanTien || s == ReturnStatusDaHuy
}

// ReturnReason 退货原因，固定枚举集合
type ReturnReason string

const (
	ReturnReasonDamaged        ReturnReason = "damaged"          // 商品破损
	ReturnReasonWrongItem      ReturnReason = "wrong_item"       // 发错商品
	ReturnReasonWrongSize      ReturnReason = "wrong_size"       // 尺码不符
	ReturnReasonNotAsDescribed ReturnReason = "not_as_described" // 与描述不符
	ReturnReasonChangedMind    ReturnReason = "changed_mind"     // 不想要了
)

// IsValid 检查退货原因是否为已知枚举
func (r ReturnReason) IsValid() bool {
	switch r {
	case ReturnReasonDamaged, ReturnReasonWrongItem, ReturnReasonWrongSize,
		ReturnReasonNotAsDescribed, ReturnReasonChangedMind:
		return true
	}
	return false
}

// ReturnItem 退货明细行
// Price 取自原订单明细行，Quantity 不得超过原购买数量
type ReturnItem struct {
	ID        int          `json:"id"`
	ReturnID  int          `json:"return_id"`
	ProductID int          `json:"product_id"`
	Color     string       `json:"color"`
	Size      string       `json:"size"`
	Quantity  int          `json:"quantity"`
	Price     int64        `json:"price"`
	Reason    ReturnReason `json:"reason"`
}

// ReturnRequest 退货申请模型
// TotalRefund 始终等于明细行 price*quantity 之和
type ReturnRequest struct {
	ID          int           `json:"id"`
	OrderID     int           `json:"order_id"`
	AccountID   int           `json:"account_id"`
	Items       []*ReturnItem `json:"items"`
	TotalRefund int64         `json:"total_refund"`
	Status      ReturnStatus  `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
