package service

import (
	"github.com/kidiezyllex/street-sneaker-sub002/internal/errors"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/model"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/repository/interfaces"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/util"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type AccountService struct {
	accountRepo interfaces.AccountRepository
}

// NewAccountService 创建一个新的 AccountService 实例
func NewAccountService(accountRepo interfaces.AccountRepository) *AccountService {
	return &AccountService{accountRepo: accountRepo}
}

// Register 注册账户
func (s *AccountService) Register(username, email, password, fullName, phone string) (*model.Account, error) {
	if len(password) < 8 {
		return nil, errors.New(errors.ErrWeakPassword, "密码长度至少为 8 位")
	}

	existing, err := s.accountRepo.FindByEmail(email)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询账户失败", err)
	}
	if existing != nil {
		return nil, errors.New(errors.ErrAccountExists, "邮箱已被注册")
	}

	existing, err = s.accountRepo.FindByUsername(username)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询账户失败", err)
	}
	if existing != nil {
		return nil, errors.New(errors.ErrAccountExists, "用户名已被占用")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternal, "密码加密失败", err)
	}

	account := &model.Account{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
		Phone:        phone,
		Role:         RoleCustomer,
		Status:       model.StatusHoatDong,
	}

	if err := s.accountRepo.Create(account); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "创建账户失败", err)
	}

	util.Logger.Info("账户注册成功",
		zap.Int("account_id", account.ID),
		zap.String("username", username))
	return account, nil
}

// Login 登录并签发令牌
func (s *AccountService) Login(email, password string) (*model.Account, string, error) {
	account, err := s.accountRepo.FindByEmail(email)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrDatabase, "查询账户失败", err)
	}
	if account == nil {
		return nil, "", errors.New(errors.ErrInvalidCredentials, "邮箱或密码错误")
	}
	if account.Status != model.StatusHoatDong {
		return nil, "", errors.New(errors.ErrForbidden, "账户已停用")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, "", errors.New(errors.ErrInvalidCredentials, "邮箱或密码错误")
	}

	token, err := util.GenerateToken(account.ID)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrInternal, "签发令牌失败", err)
	}

	util.Logger.Info("账户登录成功", zap.Int("account_id", account.ID))
	return account, token, nil
}

// GetAccountByID 获取账户信息
func (s *AccountService) GetAccountByID(id int) (*model.Account, error) {
	account, err := s.accountRepo.FindByID(id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询账户失败", err)
	}
	if account == nil {
		return nil, errors.New(errors.ErrAccountNotFound, "账户不存在")
	}
	return account, nil
}

// UpdateProfile 更新账户资料
func (s *AccountService) UpdateProfile(accountID int, fullName, phone string) (*model.Account, error) {
	account, err := s.GetAccountByID(accountID)
	if err != nil {
		return nil, err
	}

	account.FullName = fullName
	account.Phone = phone
	if err := s.accountRepo.Update(account); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "更新账户失败", err)
	}
	return account, nil
}

// UpdateStatus 启用或停用账户
func (s *AccountService) UpdateStatus(accountID int, status model.CommonStatus) error {
	if status != model.StatusHoatDong && status != model.StatusKhongHoatDong {
		return errors.New(errors.ErrValidation, "无效的状态值")
	}

	account, err := s.GetAccountByID(accountID)
	if err != nil {
		return err
	}

	account.Status = status
	if err := s.accountRepo.Update(account); err != nil {
		return errors.Wrap(errors.ErrDatabase, "更新账户状态失败", err)
	}
	return nil
}

// ListAccounts 分页查询账户
func (s *AccountService) ListAccounts(page, pageSize int) ([]*model.Account, int, error) {
	accounts, total, err := s.accountRepo.List(page, pageSize)
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrDatabase, "查询账户列表失败", err)
	}
	return accounts, total, nil
}

// CreateAddress 添加收货地址
func (s *AccountService) CreateAddress(address *model.AccountAddress) error {
	if _, err := s.GetAccountByID(address.AccountID); err != nil {
		return err
	}

	if err := s.accountRepo.CreateAddress(address); err != nil {
		return errors.Wrap(errors.ErrDatabase, "创建收货地址失败", err)
	}

	if address.IsDefault {
		if err := s.accountRepo.SetDefaultAddress(address.AccountID, address.ID); err != nil {
			return errors.Wrap(errors.ErrDatabase, "设置默认地址失败", err)
		}
	}
	return nil
}

// UpdateAddress 更新收货地址，仅限本人
func (s *AccountService) UpdateAddress(accountID int, address *model.AccountAddress) error {
	existing, err := s.accountRepo.GetAddressByID(address.ID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询收货地址失败", err)
	}
	if existing == nil || existing.AccountID != accountID {
		return errors.New(errors.ErrResourceNotFound, "收货地址不存在")
	}

	address.AccountID = accountID
	if err := s.accountRepo.UpdateAddress(address); err != nil {
		return errors.Wrap(errors.ErrDatabase, "更新收货地址失败", err)
	}

	if address.IsDefault {
		if err := s.accountRepo.SetDefaultAddress(accountID, address.ID); err != nil {
			return errors.Wrap(errors.ErrDatabase, "设置默认地址失败", err)
		}
	}
	return nil
}

// DeleteAddress 删除收货地址，仅限本人
func (s *AccountService) DeleteAddress(accountID, addressID int) error {
	existing, err := s.accountRepo.GetAddressByID(addressID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询收货地址失败", err)
	}
	if existing == nil || existing.AccountID != accountID {
		return errors.New(errors.ErrResourceNotFound, "收货地址不存在")
	}

	if err := s.accountRepo.DeleteAddress(addressID); err != nil {
		return errors.Wrap(errors.ErrDatabase, "删除收货地址失败", err)
	}
	return nil
}

// ListAddresses 查询账户的全部收货地址
func (s *AccountService) ListAddresses(accountID int) ([]*model.AccountAddress, error) {
	addresses, err := s.accountRepo.ListAddresses(accountID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询收货地址失败", err)
	}
	return addresses, nil
}
