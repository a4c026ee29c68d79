package service

import (
	"testing"
	"time"

	"github.com/kidiezyllex/street-sneaker-sub002/internal/errors"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func activeVoucher() *model.Voucher {
	return &model.Voucher{
		ID:            1,
		Code:          "SUMMER10",
		Type:          model.VoucherTypePercentage,
		Value:         10,
		MinOrderValue: 100000,
		Quantity:      50,
		UsedCount:     49,
		StartDate:     time.Now().Add(-24 * time.Hour),
		EndDate:       time.Now().Add(24 * time.Hour),
		Status:        model.StatusHoatDong,
	}
}

func int64Ptr(v int64) *int64 { return &v }

// TestValidateVoucher 测试优惠码校验与抵扣计算
func TestValidateVoucher(t *testing.T) {
	mockRepo := new(MockVoucherRepository)
	service := NewVoucherService(mockRepo)

	// 还剩最后一个名额时仍可使用
	mockRepo.On("FindByCode", "SUMMER10").Return(activeVoucher(), nil)

	voucher, discount, err := service.Validate("SUMMER10", int64Ptr(200000))
	assert.NoError(t, err)
	assert.Equal(t, 1, voucher.ID)
	assert.Equal(t, int64(20000), discount)
	mockRepo.AssertExpectations(t)
}

// TestValidateVoucherExhausted 名额用尽时校验失败
func TestValidateVoucherExhausted(t *testing.T) {
	mockRepo := new(MockVoucherRepository)
	service := NewVoucherService(mockRepo)

	exhausted := activeVoucher()
	exhausted.UsedCount = 50
	mockRepo.On("FindByCode", "SUMMER10").Return(exhausted, nil)

	_, _, err := service.Validate("SUMMER10", int64Ptr(200000))
	assert.Error(t, err)
	assert.Equal(t, errors.ErrVoucherExhausted, errors.CodeOf(err))
}

// TestValidateVoucherNotFound 优惠码不存在
func TestValidateVoucherNotFound(t *testing.T) {
	mockRepo := new(MockVoucherRepository)
	service := NewVoucherService(mockRepo)

	mockRepo.On("FindByCode", "NOPE").Return(nil, nil)

	_, _, err := service.Validate("NOPE", nil)
	assert.Error(t, err)
	assert.Equal(t, errors.ErrVoucherNotFound, errors.CodeOf(err))
}

// TestValidateVoucherExpired 有效期外校验失败
func TestValidateVoucherExpired(t *testing.T) {
	mockRepo := new(MockVoucherRepository)
	service := NewVoucherService(mockRepo)

	expired := activeVoucher()
	expired.StartDate = time.Now().Add(-48 * time.Hour)
	expired.EndDate = time.Now().Add(-24 * time.Hour)
	mockRepo.On("FindByCode", "SUMMER10").Return(expired, nil)

	_, _, err := service.Validate("SUMMER10", int64Ptr(200000))
	assert.Error(t, err)
	assert.Equal(t, errors.ErrVoucherExpired, errors.CodeOf(err))
}

// TestValidateVoucherInactive 已停用的优惠券不可使用
func TestValidateVoucherInactive(t *testing.T) {
	mockRepo := new(MockVoucherRepository)
	service := NewVoucherService(mockRepo)

	inactive := activeVoucher()
	inactive.Status = model.StatusKhongHoatDong
	mockRepo.On("FindByCode", "SUMMER10").Return(inactive, nil)

	_, _, err := service.Validate("SUMMER10", int64Ptr(200000))
	assert.Error(t, err)
	assert.Equal(t, errors.ErrVoucherInactive, errors.CodeOf(err))
}

// TestValidateVoucherBelowMinimum 订单金额未达门槛
func TestValidateVoucherBelowMinimum(t *testing.T) {
	mockRepo := new(MockVoucherRepository)
	service := NewVoucherService(mockRepo)

	mockRepo.On("FindByCode", "SUMMER10").Return(activeVoucher(), nil)

	_, _, err := service.Validate("SUMMER10", int64Ptr(50000))
	assert.Error(t, err)
	assert.Equal(t, errors.ErrOrderBelowMinimum, errors.CodeOf(err))
}

// TestValidateVoucherWithoutOrderValue 不提供订单金额时跳过金额校验
// 百分比券没有订单金额无法计算抵扣额
func TestValidateVoucherWithoutOrderValue(t *testing.T) {
	mockRepo := new(MockVoucherRepository)
	service := NewVoucherService(mockRepo)

	mockRepo.On("FindByCode", "SUMMER10").Return(activeVoucher(), nil)

	voucher, discount, err := service.Validate("SUMMER10", nil)
	assert.NoError(t, err)
	assert.NotNil(t, voucher)
	assert.Equal(t, int64(0), discount)
}

// TestValidateFixedAmountWithoutOrderValue 固定金额券不提供订单金额时直接返回面值
func TestValidateFixedAmountWithoutOrderValue(t *testing.T) {
	mockRepo := new(MockVoucherRepository)
	service := NewVoucherService(mockRepo)

	fixed := activeVoucher()
	fixed.Code = "FIXED50"
	fixed.Type = model.VoucherTypeFixedAmount
	fixed.Value = 50000
	mockRepo.On("FindByCode", "FIXED50").Return(fixed, nil)

	voucher, discount, err := service.Validate("FIXED50", nil)
	assert.NoError(t, err)
	assert.NotNil(t, voucher)
	assert.Equal(t, int64(50000), discount)
}

// TestVoucherDiscountFixedAmountCapped 固定金额抵扣不超过订单金额
func TestVoucherDiscountFixedAmountCapped(t *testing.T) {
	voucher := &model.Voucher{
		Type:  model.VoucherTypeFixedAmount,
		Value: 150000,
	}

	assert.Equal(t, int64(150000), VoucherDiscount(voucher, 200000))
	assert.Equal(t, int64(100000), VoucherDiscount(voucher, 100000))
}

// TestRedeemIdempotentPerOrder 同一订单重复兑换不重复计数
func TestRedeemIdempotentPerOrder(t *testing.T) {
	mockRepo := new(MockVoucherRepository)
	service := NewVoucherService(mockRepo)

	mockRepo.On("Redeem", 1, 100).Return(false, nil)

	err := service.RedeemForOrder(1, 100)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

// TestRedeemExhausted 兑换时名额耗尽，错误向上传递
func TestRedeemExhausted(t *testing.T) {
	mockRepo := new(MockVoucherRepository)
	service := NewVoucherService(mockRepo)

	mockRepo.On("Redeem", 1, 100).
		Return(false, errors.New(errors.ErrVoucherExhausted, "优惠券兑换次数已用尽"))

	err := service.RedeemForOrder(1, 100)
	assert.Error(t, err)
	assert.Equal(t, errors.ErrVoucherExhausted, errors.CodeOf(err))
}

// TestCreateVoucherGeneratesCode 未提供优惠码时自动生成
func TestCreateVoucherGeneratesCode(t *testing.T) {
	mockRepo := new(MockVoucherRepository)
	service := NewVoucherService(mockRepo)

	mockRepo.On("Create", mock.AnythingOfType("*model.Voucher")).Return(nil)

	voucher := &model.Voucher{
		Type:      model.VoucherTypeFixedAmount,
		Value:     50000,
		Quantity:  10,
		StartDate: time.Now(),
		EndDate:   time.Now().Add(72 * time.Hour),
	}
	err := service.CreateVoucher(voucher)
	assert.NoError(t, err)
	assert.Len(t, voucher.Code, 10)
	assert.Equal(t, model.StatusHoatDong, voucher.Status)
}

// TestCreateVoucherDuplicateCode 优惠码重复时拒绝创建
func TestCreateVoucherDuplicateCode(t *testing.T) {
	mockRepo := new(MockVoucherRepository)
	service := NewVoucherService(mockRepo)

	mockRepo.On("FindByCode", "TAKEN").Return(activeVoucher(), nil)

	voucher := &model.Voucher{
		Code:      "TAKEN",
		Type:      model.VoucherTypePercentage,
		Value:     5,
		Quantity:  10,
		StartDate: time.Now(),
		EndDate:   time.Now().Add(72 * time.Hour),
	}
	err := service.CreateVoucher(voucher)
	assert.Error(t, err)
	assert.Equal(t, errors.ErrResourceExists, errors.CodeOf(err))
}

// TestCreateVoucherInvalidFields 字段校验
func TestCreateVoucherInvalidFields(t *testing.T) {
	service := NewVoucherService(new(MockVoucherRepository))

	cases := []*model.Voucher{
		{Type: "UNKNOWN", Value: 10, Quantity: 1, EndDate: time.Now().Add(time.Hour)},
		{Type: model.VoucherTypePercentage, Value: 0, Quantity: 1, EndDate: time.Now().Add(time.Hour)},
		{Type: model.VoucherTypePercentage, Value: 120, Quantity: 1, EndDate: time.Now().Add(time.Hour)},
		{Type: model.VoucherTypeFixedAmount, Value: 1000, Quantity: 0, EndDate: time.Now().Add(time.Hour)},
	}
	for _, voucher := range cases {
		err := service.CreateVoucher(voucher)
		assert.Error(t, err)
		assert.Equal(t, errors.ErrValidation, errors.CodeOf(err))
	}
}
