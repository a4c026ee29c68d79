package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/kidiezyllex/street-sneaker-sub002/internal/errors"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/model"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/repository/interfaces"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/util"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	activePromotionsCacheKey = "promotions:active"
	activePromotionsCacheTTL = time.Minute
)

type PromotionService struct {
	promotionRepo interfaces.PromotionRepository
	redisClient   *redis.Client
}

// NewPromotionService 创建一个新的 PromotionService 实例
func NewPromotionService(promotionRepo interfaces.PromotionRepository) *PromotionService {
	return &PromotionService{promotionRepo: promotionRepo}
}

// SetRedisClient 注入 Redis 客户端，启用生效促销列表的缓存
func (s *PromotionService) SetRedisClient(client *redis.Client) {
	s.redisClient = client
}

// BestDiscountAt 在候选促销中为指定商品选出生效折扣
// 规则：取覆盖该商品且在 now 生效的促销中折扣百分比最高者，
// 百分比相同时取开始时间最早者；无命中时返回 nil
func BestDiscountAt(now time.Time, productID int, promotions []*model.Promotion) *model.Promotion {
	var best *model.Promotion
	for _, p := range promotions {
		if !p.ActiveAt(now) || !p.AppliesTo(productID) {
			continue
		}
		if best == nil ||
			p.DiscountPercent > best.DiscountPercent ||
			(p.DiscountPercent == best.DiscountPercent && p.StartDate.Before(best.StartDate)) {
			best = p
		}
	}
	return best
}

// PriceWithPromotions 计算商品在指定时间的展示价格
// 折后价 = basePrice * (100 - percent) / 100，四舍五入取整，只在最终结果舍入一次
func PriceWithPromotions(now time.Time, productID int, basePrice int64, promotions []*model.Promotion) model.PricedProduct {
	priced := model.PricedProduct{
		OriginalPrice:   basePrice,
		DiscountedPrice: basePrice,
	}

	best := BestDiscountAt(now, productID, promotions)
	if best == nil {
		return priced
	}

	priced.DiscountPercent = best.DiscountPercent
	priced.DiscountedPrice = roundHalfUp(basePrice*int64(100-best.DiscountPercent), 100)
	return priced
}

// roundHalfUp 整数除法四舍五入，入参均为非负数
func roundHalfUp(numerator, denominator int64) int64 {
	quotient := numerator / denominator
	if numerator%denominator*2 >= denominator {
		quotient++
	}
	return quotient
}

// ActivePromotions 返回当前生效的促销活动，优先读缓存
// 缓存未命中或 Redis 不可用时直接回源数据库
func (s *PromotionService) ActivePromotions(ctx context.Context) ([]*model.Promotion, error) {
	if s.redisClient != nil {
		data, err := s.redisClient.Get(ctx, activePromotionsCacheKey).Bytes()
		if err == nil {
			var promotions []*model.Promotion
			if err := json.Unmarshal(data, &promotions); err == nil {
				return promotions, nil
			}
			util.Logger.Warn("促销缓存数据损坏，回源数据库", zap.Error(err))
		} else if err != redis.Nil {
			util.Logger.Warn("读取促销缓存失败", zap.Error(err))
		}
	}

	promotions, err := s.promotionRepo.FindActive(time.Now())
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询生效促销活动失败", err)
	}

	if s.redisClient != nil {
		data, err := json.Marshal(promotions)
		if err == nil {
			if err := s.redisClient.Set(ctx, activePromotionsCacheKey, data, activePromotionsCacheTTL).Err(); err != nil {
				util.Logger.Warn("写入促销缓存失败", zap.Error(err))
			}
		}
	}

	return promotions, nil
}

// invalidateCache 促销活动变更后清除缓存
func (s *PromotionService) invalidateCache(ctx context.Context) {
	if s.redisClient == nil {
		return
	}
	if err := s.redisClient.Del(ctx, activePromotionsCacheKey).Err(); err != nil {
		util.Logger.Warn("清除促销缓存失败", zap.Error(err))
	}
}

// CreatePromotion 创建促销活动
func (s *PromotionService) CreatePromotion(ctx context.Context, promotion *model.Promotion) error {
	if promotion.DiscountPercent <= 0 || promotion.DiscountPercent > 100 {
		return errors.New(errors.ErrInvalidDiscountPercent, "折扣百分比必须在 (0, 100] 范围内")
	}
	if promotion.EndDate.Before(promotion.StartDate) {
		return errors.New(errors.ErrValidation, "结束时间不能早于开始时间")
	}
	if promotion.Status == "" {
		promotion.Status = model.StatusHoatDong
	}

	if err := s.promotionRepo.Create(promotion); err != nil {
		return errors.Wrap(errors.ErrDatabase, "创建促销活动失败", err)
	}

	s.invalidateCache(ctx)
	util.Logger.Info("促销活动创建成功",
		zap.Int("promotion_id", promotion.ID),
		zap.Int("discount_percent", promotion.DiscountPercent))
	return nil
}

// UpdatePromotion 更新促销活动
func (s *PromotionService) UpdatePromotion(ctx context.Context, promotion *model.Promotion) error {
	if promotion.DiscountPercent <= 0 || promotion.DiscountPercent > 100 {
		return errors.New(errors.ErrInvalidDiscountPercent, "折扣百分比必须在 (0, 100] 范围内")
	}
	if promotion.EndDate.Before(promotion.StartDate) {
		return errors.New(errors.ErrValidation, "结束时间不能早于开始时间")
	}

	existing, err := s.promotionRepo.FindByID(promotion.ID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询促销活动失败", err)
	}
	if existing == nil {
		return errors.New(errors.ErrPromotionNotFound, "促销活动不存在")
	}

	if err := s.promotionRepo.Update(promotion); err != nil {
		return errors.Wrap(errors.ErrDatabase, "更新促销活动失败", err)
	}

	s.invalidateCache(ctx)
	return nil
}

// UpdatePromotionStatus 启用或停用促销活动
func (s *PromotionService) UpdatePromotionStatus(ctx context.Context, id int, status model.CommonStatus) error {
	if status != model.StatusHoatDong && status != model.StatusKhongHoatDong {
		return errors.New(errors.ErrValidation, "无效的状态值")
	}

	existing, err := s.promotionRepo.FindByID(id)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询促销活动失败", err)
	}
	if existing == nil {
		return errors.New(errors.ErrPromotionNotFound, "促销活动不存在")
	}

	if err := s.promotionRepo.UpdateStatus(id, status); err != nil {
		return errors.Wrap(errors.ErrDatabase, "更新促销状态失败", err)
	}

	s.invalidateCache(ctx)
	return nil
}

// DeletePromotion 删除促销活动
func (s *PromotionService) DeletePromotion(ctx context.Context, id int) error {
	existing, err := s.promotionRepo.FindByID(id)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询促销活动失败", err)
	}
	if existing == nil {
		return errors.New(errors.ErrPromotionNotFound, "促销活动不存在")
	}

	if err := s.promotionRepo.Delete(id); err != nil {
		return errors.Wrap(errors.ErrDatabase, "删除促销活动失败", err)
	}

	s.invalidateCache(ctx)
	return nil
}

// GetPromotionByID 获取促销活动详情
func (s *PromotionService) GetPromotionByID(id int) (*model.Promotion, error) {
	promotion, err := s.promotionRepo.FindByID(id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询促销活动失败", err)
	}
	if promotion == nil {
		return nil, errors.New(errors.ErrPromotionNotFound, "促销活动不存在")
	}
	return promotion, nil
}

// ListPromotions 分页查询促销活动
func (s *PromotionService) ListPromotions(page, pageSize int) ([]*model.Promotion, int, error) {
	promotions, total, err := s.promotionRepo.List(page, pageSize)
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrDatabase, "查询促销活动列表失败", err)
	}
	return promotions, total, nil
}
