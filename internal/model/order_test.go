package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestOrderStatusNext 主流程状态按固定顺序推进
func TestOrderStatusNext(t *testing.T) {
	sequence := []OrderStatus{
		OrderStatusChoXacNhan,
		OrderStatusChoGiaoHang,
		OrderStatusDangVanChuyen,
		OrderStatusDaGiaoHang,
		OrderStatusHoanThanh,
	}

	for i := 0; i < len(sequence)-1; i++ {
		next, ok := sequence[i].Next()
		assert.True(t, ok)
		assert.Equal(t, sequence[i+1], next)
	}

	_, ok := OrderStatusHoanThanh.Next()
	assert.False(t, ok)
	_, ok = OrderStatusDaHuy.Next()
	assert.False(t, ok)
}

// TestOrderCanAdvanceTo 只允许流转到下一状态，不允许跳级或回退
func TestOrderCanAdvanceTo(t *testing.T) {
	order := &Order{OrderStatus: OrderStatusChoGiaoHang}

	assert.True(t, order.CanAdvanceTo(OrderStatusDangVanChuyen))
	assert.False(t, order.CanAdvanceTo(OrderStatusDaGiaoHang))
	assert.False(t, order.CanAdvanceTo(OrderStatusChoXacNhan))
	assert.False(t, order.CanAdvanceTo(OrderStatusHoanThanh))
}

// TestOrderTerminalStates 终态订单不可流转也不可取消
func TestOrderTerminalStates(t *testing.T) {
	for _, status := range []OrderStatus{OrderStatusHoanThanh, OrderStatusDaHuy} {
		assert.True(t, status.IsTerminal())

		order := &Order{OrderStatus: status}
		assert.False(t, order.CanCancel())
		assert.False(t, order.CanAdvanceTo(OrderStatusChoGiaoHang))
	}
}

// TestOrderCanCancelAnyNonTerminal 非终态订单任意阶段可取消
func TestOrderCanCancelAnyNonTerminal(t *testing.T) {
	for _, status := range []OrderStatus{
		OrderStatusChoXacNhan,
		OrderStatusChoGiaoHang,
		OrderStatusDangVanChuyen,
		OrderStatusDaGiaoHang,
	} {
		order := &Order{OrderStatus: status}
		assert.True(t, order.CanCancel())
	}
}

// TestReturnReasonIsValid 退货原因枚举校验
func TestReturnReasonIsValid(t *testing.T) {
	valid := []ReturnReason{
		ReturnReasonDamaged,
		ReturnReasonWrongItem,
		ReturnReasonWrongSize,
		ReturnReasonNotAsDescribed,
		ReturnReasonChangedMind,
	}
	for _, reason := range valid {
		assert.True(t, reason.IsValid())
	}
	assert.False(t, ReturnReason("").IsValid())
	assert.False(t, ReturnReason("other").IsValid())
}
