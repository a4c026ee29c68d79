package interfaces

import "github.com/kidiezyllex/street-sneaker-sub002/internal/model"

type ReturnRepository interface {
	Create(request *model.ReturnRequest) error
	FindByID(id int) (*model.ReturnRequest, error)
	FindByOrder(orderID int) ([]*model.ReturnRequest, error)
	List(page, pageSize int) ([]*model.ReturnRequest, int, error)
	// UpdateStatus 条件更新退货状态，仅当当前状态仍为 CHO_XU_LY 时生效；
	// 返回 false 表示申请已被处理过
	UpdateStatus(returnID int, to model.ReturnStatus) (bool, error)
}
