package model

import "time"

// VoucherType 定义优惠券折扣类型
type VoucherType string

const (
	VoucherTypePercentage  VoucherType = "PERCENTAGE"   // 按订单金额百分比折扣
	VoucherTypeFixedAmount VoucherType = "FIXED_AMOUNT" // 固定金额折扣
)

// CommonStatus 启用/停用状态，优惠券、促销活动和账户共用
type CommonStatus string

const (
	StatusHoatDong      CommonStatus = "HOAT_DONG"       // 启用
	StatusKhongHoatDong CommonStatus = "KHONG_HOAT_DONG" // 停用
)

// Voucher 优惠券模型
// 兑换次数受 Quantity 限制，UsedCount 只在订单确认时递增
type Voucher struct {
	ID            int          `json:"id"`
	Code          string       `json:"code"`
	Type          VoucherType  `json:"type"`
	Value         int64        `json:"value"` // PERCENTAGE 时为百分比，FIXED_AMOUNT 时为金额
	MinOrderValue int64        `json:"min_order_value"`
	Quantity      int          `json:"quantity"`
	UsedCount     int          `json:"used_count"`
	StartDate     time.Time    `json:"start_date"`
	EndDate       time.Time    `json:"end_date"`
	Status        CommonStatus `json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// IsActive 检查优惠券是否处于启用状态
func (v *Voucher) IsActive() bool {
	return v.Status == StatusHoatDong
}

// InWindow 检查指定时间是否在有效期内（两端均含）
func (v *Voucher) InWindow(now time.Time) bool {
	return !now.Before(v.StartDate) && !now.After(v.EndDate)
}

// IsExhausted 检查兑换次数是否已用尽
func (v *Voucher) IsExhausted() bool {
	return v.UsedCount >= v.Quantity
}
