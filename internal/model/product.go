package model

import "time"

// Product 商品模型
// 价格以最小货币单位（越南盾）的整数存储，避免浮点误差
type Product struct {
	ID          int               `json:"id"`
	Name        string            `json:"name"`
	Brand       string            `json:"brand"`
	Description string            `json:"description"`
	BasePrice   int64             `json:"base_price"`
	ImageURL    string            `json:"image_url"`
	Variants    []*ProductVariant `json:"variants"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ProductVariant 商品规格（颜色 + 尺码）
type ProductVariant struct {
	ID        int    `json:"id"`
	ProductID int    `json:"product_id"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	Stock     int    `json:"stock"` // 占位字段，库存预留不在本系统范围内
}

// HasVariant 检查商品是否存在指定颜色和尺码的规格
func (p *Product) HasVariant(color, size string) bool {
	for _, v := range p.Variants {
		if v.Color == color && v.Size == size {
			return true
		}
	}
	return false
}

// PricedProduct 商品列表展示用的折后价格信息
type PricedProduct struct {
	OriginalPrice   int64 `json:"original_price"`
	DiscountedPrice int64 `json:"discounted_price"`
	DiscountPercent int   `json:"discount_percent"`
}
