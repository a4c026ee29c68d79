package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestVoucherInWindowInclusive 有效期两端均含
func TestVoucherInWindowInclusive(t *testing.T) {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(2026, 6, 30, 23, 59, 59, 0, time.Local)
	voucher := &Voucher{StartDate: start, EndDate: end}

	assert.True(t, voucher.InWindow(start))
	assert.True(t, voucher.InWindow(end))
	assert.True(t, voucher.InWindow(start.Add(12*time.Hour)))
	assert.False(t, voucher.InWindow(start.Add(-time.Second)))
	assert.False(t, voucher.InWindow(end.Add(time.Second)))
}

// TestVoucherIsExhausted 名额用尽判断
func TestVoucherIsExhausted(t *testing.T) {
	voucher := &Voucher{Quantity: 50, UsedCount: 49}
	assert.False(t, voucher.IsExhausted())

	voucher.UsedCount = 50
	assert.True(t, voucher.IsExhausted())
}

// TestPromotionActiveAt 促销生效判断，两端均含
func TestPromotionActiveAt(t *testing.T) {
	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(2026, 7, 31, 0, 0, 0, 0, time.Local)
	promotion := &Promotion{StartDate: start, EndDate: end, Status: StatusHoatDong}

	assert.True(t, promotion.ActiveAt(start))
	assert.True(t, promotion.ActiveAt(end))
	assert.False(t, promotion.ActiveAt(end.Add(time.Minute)))

	promotion.Status = StatusKhongHoatDong
	assert.False(t, promotion.ActiveAt(start.Add(time.Hour)))
}
