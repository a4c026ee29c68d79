package interfaces

import "github.com/kidiezyllex/street-sneaker-sub002/internal/model"

type ProductRepository interface {
	Create(product *model.Product) error
	Update(product *model.Product) error
	Delete(id int) error
	FindByID(id int) (*model.Product, error)
	FindByIDs(ids []int) ([]*model.Product, error)
	List(page, pageSize int) ([]*model.Product, int, error)
	UpdateImageURL(id int, imageURL string) error
}
