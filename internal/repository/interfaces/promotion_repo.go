package interfaces

import (
	"time"

	"github.com/kidiezyllex/street-sneaker-sub002/internal/model"
)

type PromotionRepository interface {
	Create(promotion *model.Promotion) error
	Update(promotion *model.Promotion) error
	UpdateStatus(id int, status model.CommonStatus) error
	Delete(id int) error
	FindByID(id int) (*model.Promotion, error)
	List(page, pageSize int) ([]*model.Promotion, int, error)
	// FindActive 返回指定时间点处于启用状态且在有效期内的促销活动
	FindActive(now time.Time) ([]*model.Promotion, error)
}
