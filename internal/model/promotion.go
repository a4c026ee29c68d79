package model

import "time"

// Promotion 促销活动模型
// 促销按商品ID列表生效，自动作用于商品列表展示价，与用户无关
type Promotion struct {
	ID              int          `json:"id"`
	Name            string       `json:"name"`
	Description     string       `json:"description"`
	DiscountPercent int          `json:"discount_percent"` // (0, 100]
	ProductIDs      []int        `json:"product_ids"`
	StartDate       time.Time    `json:"start_date"`
	EndDate         time.Time    `json:"end_date"`
	Status          CommonStatus `json:"status"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// ActiveAt 检查促销活动在指定时间是否生效（两端均含）
func (p *Promotion) ActiveAt(now time.Time) bool {
	return p.Status == StatusHoatDong && !now.Before(p.StartDate) && !now.After(p.EndDate)
}

// AppliesTo 检查促销活动是否覆盖指定商品
func (p *Promotion) AppliesTo(productID int) bool {
	for _, id := range p.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}
