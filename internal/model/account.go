package model

import "time"

// Account 账户模型
type Account struct {
	ID           int          `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // 密码哈希不应在JSON中暴露
	FullName     string       `json:"full_name"`
	Phone        string       `json:"phone"`
	Role         string       `json:"role"`
	Status       CommonStatus `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// AccountAddress 账户收货地址，下单时复制为快照
type AccountAddress struct {
	ID            int       `json:"id"`
	AccountID     int       `json:"account_id"`
	ReceiverName  string    `json:"receiver_name"`
	Phone         string    `json:"phone"`
	Province      string    `json:"province"`
	District      string    `json:"district"`
	Ward          string    `json:"ward"`
	DetailAddress string    `json:"detail_address"`
	IsDefault     bool      `json:"is_default"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Snapshot 将地址转换为订单用的收货地址快照
func (a *AccountAddress) Snapshot() ShippingAddress {
	return ShippingAddress{
		ReceiverName:  a.ReceiverName,
		Phone:         a.Phone,
		Province:      a.Province,
		District:      a.District,
		Ward:          a.Ward,
		DetailAddress: a.DetailAddress,
	}
}
