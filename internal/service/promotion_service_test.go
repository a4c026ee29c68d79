package service

import (
	"context"
	"testing"
	"time"

	"github.com/kidiezyllex/street-sneaker-sub002/internal/errors"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func promotionAt(id, percent int, start time.Time, productIDs ...int) *model.Promotion {
	return &model.Promotion{
		ID:              id,
		Name:            "test",
		DiscountPercent: percent,
		ProductIDs:      productIDs,
		StartDate:       start,
		EndDate:         start.Add(30 * 24 * time.Hour),
		Status:          model.StatusHoatDong,
	}
}

// TestBestDiscountHighestPercentWins 多个促销覆盖同一商品时取最高折扣
func TestBestDiscountHighestPercentWins(t *testing.T) {
	now := time.Now()
	promotions := []*model.Promotion{
		promotionAt(1, 15, now.Add(-48*time.Hour), 1),
		promotionAt(2, 20, now.Add(-24*time.Hour), 1),
	}

	priced := PriceWithPromotions(now, 1, 1000000, promotions)
	assert.Equal(t, 20, priced.DiscountPercent)
	assert.Equal(t, int64(1000000), priced.OriginalPrice)
	assert.Equal(t, int64(800000), priced.DiscountedPrice)
}

// TestBestDiscountTieBreakEarliestStart 折扣相同时取开始时间最早者
func TestBestDiscountTieBreakEarliestStart(t *testing.T) {
	now := time.Now()
	earlier := promotionAt(1, 20, now.Add(-72*time.Hour), 1)
	later := promotionAt(2, 20, now.Add(-24*time.Hour), 1)

	best := BestDiscountAt(now, 1, []*model.Promotion{later, earlier})
	assert.Equal(t, 1, best.ID)
}

// TestBestDiscountIgnoresInactiveAndOutOfWindow 停用或过期的促销不参与计价
func TestBestDiscountIgnoresInactiveAndOutOfWindow(t *testing.T) {
	now := time.Now()

	inactive := promotionAt(1, 50, now.Add(-24*time.Hour), 1)
	inactive.Status = model.StatusKhongHoatDong

	ended := promotionAt(2, 40, now.Add(-60*24*time.Hour), 1)
	ended.EndDate = now.Add(-24 * time.Hour)

	notStarted := promotionAt(3, 30, now.Add(24*time.Hour), 1)

	best := BestDiscountAt(now, 1, []*model.Promotion{inactive, ended, notStarted})
	assert.Nil(t, best)

	priced := PriceWithPromotions(now, 1, 500000, []*model.Promotion{inactive, ended, notStarted})
	assert.Equal(t, int64(500000), priced.DiscountedPrice)
	assert.Equal(t, 0, priced.DiscountPercent)
}

// TestBestDiscountUncoveredProduct 未覆盖的商品价格不变
func TestBestDiscountUncoveredProduct(t *testing.T) {
	now := time.Now()
	promotions := []*model.Promotion{promotionAt(1, 25, now.Add(-24*time.Hour), 2, 3)}

	priced := PriceWithPromotions(now, 1, 750000, promotions)
	assert.Equal(t, int64(750000), priced.DiscountedPrice)
}

// TestPriceWithPromotionsRounding 折后价四舍五入，只在最终结果舍入一次
func TestPriceWithPromotionsRounding(t *testing.T) {
	now := time.Now()

	// 990 * 75% = 742.5，四舍五入到 743
	promotions := []*model.Promotion{promotionAt(1, 25, now.Add(-time.Hour), 1)}
	priced := PriceWithPromotions(now, 1, 990, promotions)
	assert.Equal(t, int64(743), priced.DiscountedPrice)

	// 999 * 85% = 849.15，舍去到 849
	promotions = []*model.Promotion{promotionAt(2, 15, now.Add(-time.Hour), 1)}
	priced = PriceWithPromotions(now, 1, 999, promotions)
	assert.Equal(t, int64(849), priced.DiscountedPrice)
}

// TestActivePromotionsWithoutCache 无 Redis 时直接回源数据库
func TestActivePromotionsWithoutCache(t *testing.T) {
	mockRepo := new(MockPromotionRepository)
	service := NewPromotionService(mockRepo)

	promotions := []*model.Promotion{promotionAt(1, 10, time.Now().Add(-time.Hour), 1)}
	mockRepo.On("FindActive", mock.AnythingOfType("time.Time")).Return(promotions, nil)

	result, err := service.ActivePromotions(context.Background())
	assert.NoError(t, err)
	assert.Len(t, result, 1)
	mockRepo.AssertExpectations(t)
}

// TestCreatePromotionInvalidPercent 折扣百分比必须在 (0, 100] 内
func TestCreatePromotionInvalidPercent(t *testing.T) {
	service := NewPromotionService(new(MockPromotionRepository))

	for _, percent := range []int{0, -5, 101} {
		promotion := &model.Promotion{
			Name:            "bad",
			DiscountPercent: percent,
			StartDate:       time.Now(),
			EndDate:         time.Now().Add(time.Hour),
		}
		err := service.CreatePromotion(context.Background(), promotion)
		assert.Error(t, err)
		assert.Equal(t, errors.ErrInvalidDiscountPercent, errors.CodeOf(err))
	}
}

// TestCreatePromotionFullPercentAllowed 100% 折扣是合法的
func TestCreatePromotionFullPercentAllowed(t *testing.T) {
	mockRepo := new(MockPromotionRepository)
	service := NewPromotionService(mockRepo)

	mockRepo.On("Create", mock.AnythingOfType("*model.Promotion")).Return(nil)

	promotion := &model.Promotion{
		Name:            "free",
		DiscountPercent: 100,
		ProductIDs:      []int{1},
		StartDate:       time.Now(),
		EndDate:         time.Now().Add(time.Hour),
	}
	err := service.CreatePromotion(context.Background(), promotion)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusHoatDong, promotion.Status)
}

// TestUpdatePromotionNotFound 更新不存在的促销活动
func TestUpdatePromotionNotFound(t *testing.T) {
	mockRepo := new(MockPromotionRepository)
	service := NewPromotionService(mockRepo)

	mockRepo.On("FindByID", 999).Return(nil, nil)

	promotion := promotionAt(999, 10, time.Now(), 1)
	err := service.UpdatePromotion(context.Background(), promotion)
	assert.Error(t, err)
	assert.Equal(t, errors.ErrPromotionNotFound, errors.CodeOf(err))
}
