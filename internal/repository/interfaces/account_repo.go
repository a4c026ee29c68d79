package interfaces

import "github.com/kidiezyllex/street-sneaker-sub002/internal/model"

type AccountRepository interface {
	Create(account *model.Account) error
	FindByID(id int) (*model.Account, error)
	FindByEmail(email string) (*model.Account, error)
	FindByUsername(username string) (*model.Account, error)
	Update(account *model.Account) error
	List(page, pageSize int) ([]*model.Account, int, error)
	CreateAddress(address *model.AccountAddress) error
	UpdateAddress(address *model.AccountAddress) error
	DeleteAddress(id int) error
	GetAddressByID(id int) (*model.AccountAddress, error)
	ListAddresses(accountID int) ([]*model.AccountAddress, error)
	SetDefaultAddress(accountID, addressID int) error
}
