package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/errors"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/model"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/repository/interfaces"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/util"
	"go.uber.org/zap"
)

type VoucherService struct {
	voucherRepo interfaces.VoucherRepository
}

// NewVoucherService 创建一个新的 VoucherService 实例
func NewVoucherService(voucherRepo interfaces.VoucherRepository) *VoucherService {
	return &VoucherService{voucherRepo: voucherRepo}
}

// VoucherDiscount 计算优惠券在指定订单金额上的抵扣额
// FIXED_AMOUNT 不超过订单金额，PERCENTAGE 向下取整
func VoucherDiscount(voucher *model.Voucher, orderValue int64) int64 {
	switch voucher.Type {
	case model.VoucherTypeFixedAmount:
		if voucher.Value > orderValue {
			return orderValue
		}
		return voucher.Value
	case model.VoucherTypePercentage:
		return orderValue * voucher.Value / 100
	}
	return 0
}

// Validate 校验优惠码并计算抵扣额，不产生任何副作用
// 校验顺序固定：存在性、有效期、启用状态、剩余名额、最低订单金额；
// orderValue 为 nil 时跳过金额相关校验，固定金额券直接返回面值，
// 百分比券没有订单金额无法计算，抵扣额返回 0
func (s *VoucherService) Validate(code string, orderValue *int64) (*model.Voucher, int64, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, 0, errors.New(errors.ErrValidation, "优惠码不能为空")
	}
	if orderValue != nil && *orderValue < 0 {
		return nil, 0, errors.New(errors.ErrValidation, "订单金额不能为负数")
	}

	voucher, err := s.voucherRepo.FindByCode(code)
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrDatabase, "查询优惠券失败", err)
	}
	if voucher == nil {
		return nil, 0, errors.New(errors.ErrVoucherNotFound, "优惠码不存在")
	}

	now := time.Now()
	if !voucher.InWindow(now) {
		return nil, 0, errors.New(errors.ErrVoucherExpired, "优惠券不在有效期内")
	}
	if !voucher.IsActive() {
		return nil, 0, errors.New(errors.ErrVoucherInactive, "优惠券已停用")
	}
	if voucher.IsExhausted() {
		return nil, 0, errors.New(errors.ErrVoucherExhausted, "优惠券兑换次数已用尽")
	}

	if orderValue == nil {
		if voucher.Type == model.VoucherTypeFixedAmount {
			return voucher, voucher.Value, nil
		}
		return voucher, 0, nil
	}
	if *orderValue < voucher.MinOrderValue {
		return nil, 0, errors.New(errors.ErrOrderBelowMinimum, "订单金额未达到优惠券使用门槛")
	}

	return voucher, VoucherDiscount(voucher, *orderValue), nil
}

// RedeemForOrder 为确认的订单消耗一次兑换名额，按订单幂等
func (s *VoucherService) RedeemForOrder(voucherID, orderID int) error {
	redeemed, err := s.voucherRepo.Redeem(voucherID, orderID)
	if err != nil {
		return err
	}
	if !redeemed {
		util.Logger.Info("订单已兑换过该优惠券，跳过重复计数",
			zap.Int("voucher_id", voucherID),
			zap.Int("order_id", orderID))
	}
	return nil
}

// ReleaseForOrder 订单取消时归还兑换名额
func (s *VoucherService) ReleaseForOrder(voucherID, orderID int) error {
	released, err := s.voucherRepo.Release(voucherID, orderID)
	if err != nil {
		return err
	}
	if !released {
		util.Logger.Info("订单未兑换过该优惠券，无需归还",
			zap.Int("voucher_id", voucherID),
			zap.Int("order_id", orderID))
	}
	return nil
}

// CreateVoucher 创建优惠券，未提供优惠码时自动生成
func (s *VoucherService) CreateVoucher(voucher *model.Voucher) error {
	if err := s.validateVoucherFields(voucher); err != nil {
		return err
	}

	voucher.Code = strings.TrimSpace(voucher.Code)
	if voucher.Code == "" {
		voucher.Code = generateVoucherCode()
	} else {
		existing, err := s.voucherRepo.FindByCode(voucher.Code)
		if err != nil {
			return errors.Wrap(errors.ErrDatabase, "查询优惠券失败", err)
		}
		if existing != nil {
			return errors.New(errors.ErrResourceExists, "优惠码已存在")
		}
	}

	if voucher.Status == "" {
		voucher.Status = model.StatusHoatDong
	}

	if err := s.voucherRepo.Create(voucher); err != nil {
		return errors.Wrap(errors.ErrDatabase, "创建优惠券失败", err)
	}

	util.Logger.Info("优惠券创建成功",
		zap.Int("voucher_id", voucher.ID),
		zap.String("code", voucher.Code))
	return nil
}

// UpdateVoucher 更新优惠券，优惠码创建后不可修改
func (s *VoucherService) UpdateVoucher(voucher *model.Voucher) error {
	if err := s.validateVoucherFields(voucher); err != nil {
		return err
	}

	existing, err := s.voucherRepo.FindByID(voucher.ID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询优惠券失败", err)
	}
	if existing == nil {
		return errors.New(errors.ErrVoucherNotFound, "优惠券不存在")
	}

	voucher.Code = existing.Code
	voucher.UsedCount = existing.UsedCount

	if err := s.voucherRepo.Update(voucher); err != nil {
		return errors.Wrap(errors.ErrDatabase, "更新优惠券失败", err)
	}
	return nil
}

// UpdateVoucherStatus 启用或停用优惠券
func (s *VoucherService) UpdateVoucherStatus(id int, status model.CommonStatus) error {
	if status != model.StatusHoatDong && status != model.StatusKhongHoatDong {
		return errors.New(errors.ErrValidation, "无效的状态值")
	}

	existing, err := s.voucherRepo.FindByID(id)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询优惠券失败", err)
	}
	if existing == nil {
		return errors.New(errors.ErrVoucherNotFound, "优惠券不存在")
	}

	if err := s.voucherRepo.UpdateStatus(id, status); err != nil {
		return errors.Wrap(errors.ErrDatabase, "更新优惠券状态失败", err)
	}
	return nil
}

// GetVoucherByID 获取优惠券详情
func (s *VoucherService) GetVoucherByID(id int) (*model.Voucher, error) {
	voucher, err := s.voucherRepo.FindByID(id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询优惠券失败", err)
	}
	if voucher == nil {
		return nil, errors.New(errors.ErrVoucherNotFound, "优惠券不存在")
	}
	return voucher, nil
}

// ListVouchers 分页查询优惠券
func (s *VoucherService) ListVouchers(page, pageSize int) ([]*model.Voucher, int, error) {
	vouchers, total, err := s.voucherRepo.List(page, pageSize)
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrDatabase, "查询优惠券列表失败", err)
	}
	return vouchers, total, nil
}

func (s *VoucherService) validateVoucherFields(voucher *model.Voucher) error {
	if voucher.Type != model.VoucherTypePercentage && voucher.Type != model.VoucherTypeFixedAmount {
		return errors.New(errors.ErrValidation, "无效的优惠券类型")
	}
	if voucher.Value <= 0 {
		return errors.New(errors.ErrValidation, "折扣值必须为正数")
	}
	if voucher.Type == model.VoucherTypePercentage && voucher.Value > 100 {
		return errors.New(errors.ErrValidation, "百分比折扣不能超过 100")
	}
	if voucher.MinOrderValue < 0 {
		return errors.New(errors.ErrValidation, "最低订单金额不能为负数")
	}
	if voucher.Quantity <= 0 {
		return errors.New(errors.ErrValidation, "兑换名额必须为正数")
	}
	if voucher.EndDate.Before(voucher.StartDate) {
		return errors.New(errors.ErrValidation, "结束时间不能早于开始时间")
	}
	return nil
}

// generateVoucherCode 生成随机优惠码，取 UUID 前 10 位十六进制字符
func generateVoucherCode() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return strings.ToUpper(raw[:10])
}
