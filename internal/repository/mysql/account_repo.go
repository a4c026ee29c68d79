package mysql

import (
	"database/sql"
	"fmt"

	"github.com/kidiezyllex/street-sneaker-sub002/internal/model"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/util"
	"go.uber.org/zap"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db}
}

func (r *AccountRepository) Create(account *model.Account) error {
	query := `INSERT INTO accounts (username, email, password_hash, full_name, phone, role, status, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`

	result, err := r.db.Exec(query,
		account.Username, account.Email, account.PasswordHash,
		account.FullName, account.Phone, account.Role, account.Status)
	if err != nil {
		util.Logger.Error("创建账户失败", zap.Error(err), zap.String("username", account.Username))
		return fmt.Errorf("failed to create account: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get account ID: %w", err)
	}
	account.ID = int(id)

	util.Logger.Info("账户创建成功",
		zap.Int("account_id", account.ID),
		zap.String("username", account.Username))
	return nil
}

func (r *AccountRepository) FindByID(id int) (*model.Account, error) {
	return r.findOne(`WHERE id = ?`, id)
}

func (r *AccountRepository) FindByEmail(email string) (*model.Account, error) {
	return r.findOne(`WHERE email = ?`, email)
}

func (r *AccountRepository) FindByUsername(username string) (*model.Account, error) {
	return r.findOne(`WHERE username = ?`, username)
}

func (r *AccountRepository) findOne(where string, arg interface{}) (*model.Account, error) {
	query := fmt.Sprintf(`SELECT id, username, email, password_hash, full_name, phone, role, status, created_at, updated_at
			  FROM accounts %s`, where)

	var account model.Account
	err := r.db.QueryRow(query, arg).Scan(
		&account.ID, &account.Username, &account.Email, &account.PasswordHash,
		&account.FullName, &account.Phone, &account.Role, &account.Status,
		&account.CreatedAt, &account.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func (r *AccountRepository) Update(account *model.Account) error {
	query := `UPDATE accounts
			  SET email = ?, full_name = ?, phone = ?, role = ?, status = ?, updated_at = NOW()
			  WHERE id = ?`
	_, err := r.db.Exec(query,
		account.Email, account.FullName, account.Phone, account.Role, account.Status, account.ID)
	return err
}

func (r *AccountRepository) List(page, pageSize int) ([]*model.Account, int, error) {
	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM accounts`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, username, email, password_hash, full_name, phone, role, status, created_at, updated_at
			  FROM accounts
			  ORDER BY created_at DESC
			  LIMIT ? OFFSET ?`

	offset := (page - 1) * pageSize
	rows, err := r.db.Query(query, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*model.Account
	for rows.Next() {
		var account model.Account
		err := rows.Scan(
			&account.ID, &account.Username, &account.Email, &account.PasswordHash,
			&account.FullName, &account.Phone, &account.Role, &account.Status,
			&account.CreatedAt, &account.UpdatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, &account)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating accounts: %w", err)
	}

	return accounts, total, nil
}

func (r *AccountRepository) CreateAddress(address *model.AccountAddress) error {
	query := `INSERT INTO account_addresses (account_id, receiver_name, phone, province, district, ward,
				detail_address, is_default, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`

	result, err := r.db.Exec(query,
		address.AccountID, address.ReceiverName, address.Phone,
		address.Province, address.District, address.Ward,
		address.DetailAddress, address.IsDefault)
	if err != nil {
		return fmt.Errorf("failed to create address: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get address ID: %w", err)
	}
	address.ID = int(id)
	return nil
}

func (r *AccountRepository) UpdateAddress(address *model.AccountAddress) error {
	query := `UPDATE account_addresses
			  SET receiver_name = ?, phone = ?, province = ?, district = ?, ward = ?,
				  detail_address = ?, is_default = ?, updated_at = NOW()
			  WHERE id = ?`
	_, err := r.db.Exec(query,
		address.ReceiverName, address.Phone, address.Province, address.District,
		address.Ward, address.DetailAddress, address.IsDefault, address.ID)
	return err
}

func (r *AccountRepository) DeleteAddress(id int) error {
	_, err := r.db.Exec(`DELETE FROM account_addresses WHERE id = ?`, id)
	return err
}

func (r *AccountRepository) GetAddressByID(id int) (*model.AccountAddress, error) {
	query := `SELECT id, account_id, receiver_name, phone, province, district, ward,
				detail_address, is_default, created_at, updated_at
			  FROM account_addresses WHERE id = ?`

	var address model.AccountAddress
	err := r.db.QueryRow(query, id).Scan(
		&address.ID, &address.AccountID, &address.ReceiverName, &address.Phone,
		&address.Province, &address.District, &address.Ward,
		&address.DetailAddress, &address.IsDefault, &address.CreatedAt, &address.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get address: %w", err)
	}
	return &address, nil
}

func (r *AccountRepository) ListAddresses(accountID int) ([]*model.AccountAddress, error) {
	query := `SELECT id, account_id, receiver_name, phone, province, district, ward,
				detail_address, is_default, created_at, updated_at
			  FROM account_addresses WHERE account_id = ?
			  ORDER BY is_default DESC, created_at DESC`

	rows, err := r.db.Query(query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query addresses: %w", err)
	}
	defer rows.Close()

	var addresses []*model.AccountAddress
	for rows.Next() {
		var address model.AccountAddress
		err := rows.Scan(
			&address.ID, &address.AccountID, &address.ReceiverName, &address.Phone,
			&address.Province, &address.District, &address.Ward,
			&address.DetailAddress, &address.IsDefault, &address.CreatedAt, &address.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		addresses = append(addresses, &address)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating addresses: %w", err)
	}
	return addresses, nil
}

func (r *AccountRepository) SetDefaultAddress(accountID, addressID int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE account_addresses SET is_default = FALSE WHERE account_id = ?`, accountID); err != nil {
		return fmt.Errorf("failed to clear default address: %w", err)
	}
	if _, err := tx.Exec(`UPDATE account_addresses SET is_default = TRUE WHERE id = ? AND account_id = ?`,
		addressID, accountID); err != nil {
		return fmt.Errorf("failed to set default address: %w", err)
	}
	return tx.Commit()
}
