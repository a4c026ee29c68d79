package mysql

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/kidiezyllex/street-sneaker-sub002/internal/errors"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/model"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/util"
	"go.uber.org/zap"
)

type VoucherRepository struct {
	db *sql.DB
}

func NewVoucherRepository(db *sql.DB) *VoucherRepository {
	return &VoucherRepository{db}
}

func (r *VoucherRepository) Create(voucher *model.Voucher) error {
	util.Logger.Info("开始创建优惠券",
		zap.String("code", voucher.Code),
		zap.String("type", string(voucher.Type)),
		zap.Int64("value", voucher.Value))

	voucher.CreatedAt = time.Now()
	voucher.UpdatedAt = time.Now()

	query := `INSERT INTO vouchers (code, type, value, min_order_value, quantity, used_count,
				start_date, end_date, status, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, 0, ?, ?, ?, ?, ?)`

	result, err := r.db.Exec(query,
		voucher.Code,
		voucher.Type,
		voucher.Value,
		voucher.MinOrderValue,
		voucher.Quantity,
		voucher.StartDate,
		voucher.EndDate,
		voucher.Status,
		voucher.CreatedAt,
		voucher.UpdatedAt)
	if err != nil {
		util.Logger.Error("创建优惠券失败", zap.Error(err), zap.String("code", voucher.Code))
		return fmt.Errorf("failed to create voucher: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		util.Logger.Error("获取优惠券ID失败", zap.Error(err))
		return err
	}
	voucher.ID = int(id)

	util.Logger.Info("优惠券创建成功",
		zap.Int("voucher_id", voucher.ID),
		zap.String("code", voucher.Code))
	return nil
}

func (r *VoucherRepository) Update(voucher *model.Voucher) error {
	query := `UPDATE vouchers
			  SET type = ?, value = ?, min_order_value = ?, quantity = ?,
				  start_date = ?, end_date = ?, status = ?, updated_at = NOW()
			  WHERE id = ?`
	_, err := r.db.Exec(query,
		voucher.Type, voucher.Value, voucher.MinOrderValue, voucher.Quantity,
		voucher.StartDate, voucher.EndDate, voucher.Status, voucher.ID)
	return err
}

func (r *VoucherRepository) UpdateStatus(id int, status model.CommonStatus) error {
	query := `UPDATE vouchers SET status = ?, updated_at = NOW() WHERE id = ?`
	_, err := r.db.Exec(query, status, id)
	return err
}

func (r *VoucherRepository) FindByID(id int) (*model.Voucher, error) {
	query := `SELECT id, code, type, value, min_order_value, quantity, used_count,
				start_date, end_date, status, created_at, updated_at
			  FROM vouchers WHERE id = ?`
	return r.scanVoucher(r.db.QueryRow(query, id))
}

// FindByCode 按优惠码精确查找
// 使用 BINARY 比较保证大小写敏感
func (r *VoucherRepository) FindByCode(code string) (*model.Voucher, error) {
	query := `SELECT id, code, type, value, min_order_value, quantity, used_count,
				start_date, end_date, status, created_at, updated_at
			  FROM vouchers WHERE BINARY code = ?`
	return r.scanVoucher(r.db.QueryRow(query, code))
}

func (r *VoucherRepository) scanVoucher(row *sql.Row) (*model.Voucher, error) {
	var voucher model.Voucher
	err := row.Scan(
		&voucher.ID, &voucher.Code, &voucher.Type, &voucher.Value,
		&voucher.MinOrderValue, &voucher.Quantity, &voucher.UsedCount,
		&voucher.StartDate, &voucher.EndDate, &voucher.Status,
		&voucher.CreatedAt, &voucher.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get voucher: %w", err)
	}
	return &voucher, nil
}

func (r *VoucherRepository) List(page, pageSize int) ([]*model.Voucher, int, error) {
	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM vouchers`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, code, type, value, min_order_value, quantity, used_count,
				start_date, end_date, status, created_at, updated_at
			  FROM vouchers
			  ORDER BY created_at DESC
			  LIMIT ? OFFSET ?`

	offset := (page - 1) * pageSize
	rows, err := r.db.Query(query, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query vouchers: %w", err)
	}
	defer rows.Close()

	var vouchers []*model.Voucher
	for rows.Next() {
		var voucher model.Voucher
		err := rows.Scan(
			&voucher.ID, &voucher.Code, &voucher.Type, &voucher.Value,
			&voucher.MinOrderValue, &voucher.Quantity, &voucher.UsedCount,
			&voucher.StartDate, &voucher.EndDate, &voucher.Status,
			&voucher.CreatedAt, &voucher.UpdatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan voucher: %w", err)
		}
		vouchers = append(vouchers, &voucher)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating vouchers: %w", err)
	}

	return vouchers, total, nil
}

// Redeem 为指定订单消耗一次兑换名额
// 兑换记录表上 order_id 唯一，保证同一订单不会重复计数；
// used_count 的递增带 used_count < quantity 条件，
// 并发抢最后一个名额时只有一个请求能成功
func (r *VoucherRepository) Redeem(voucherID, orderID int) (bool, error) {
	util.Logger.Info("开始兑换优惠券",
		zap.Int("voucher_id", voucherID),
		zap.Int("order_id", orderID))

	tx, err := r.db.Begin()
	if err != nil {
		util.Logger.Error("开始事务失败", zap.Error(err))
		return false, err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`INSERT IGNORE INTO voucher_redemptions (voucher_id, order_id, created_at)
							VALUES (?, ?, NOW())`, voucherID, orderID)
	if err != nil {
		util.Logger.Error("写入兑换记录失败", zap.Error(err))
		return false, fmt.Errorf("failed to insert redemption: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if inserted == 0 {
		// 该订单已兑换过，幂等返回
		util.Logger.Info("订单已兑换过该优惠券，跳过计数",
			zap.Int("voucher_id", voucherID),
			zap.Int("order_id", orderID))
		return false, tx.Commit()
	}

	result, err = tx.Exec(`UPDATE vouchers
						   SET used_count = used_count + 1, updated_at = NOW()
						   WHERE id = ? AND used_count < quantity`, voucherID)
	if err != nil {
		util.Logger.Error("递增兑换次数失败", zap.Error(err))
		return false, fmt.Errorf("failed to increment used count: %w", err)
	}

	updated, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if updated == 0 {
		// 名额已被并发请求抢完，回滚兑换记录
		util.Logger.Warn("优惠券名额已用尽",
			zap.Int("voucher_id", voucherID),
			zap.Int("order_id", orderID))
		return false, errors.New(errors.ErrVoucherExhausted, "优惠券兑换次数已用尽")
	}

	if err := tx.Commit(); err != nil {
		util.Logger.Error("提交事务失败", zap.Error(err))
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	util.Logger.Info("优惠券兑换成功",
		zap.Int("voucher_id", voucherID),
		zap.Int("order_id", orderID))
	return true, nil
}

// Release 撤销指定订单的兑换（订单取消时调用）
// 只有删除了兑换记录才回退计数，保证不会被多次取消重复回退
func (r *VoucherRepository) Release(voucherID, orderID int) (bool, error) {
	util.Logger.Info("开始回退优惠券兑换",
		zap.Int("voucher_id", voucherID),
		zap.Int("order_id", orderID))

	tx, err := r.db.Begin()
	if err != nil {
		util.Logger.Error("开始事务失败", zap.Error(err))
		return false, err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`DELETE FROM voucher_redemptions
							WHERE voucher_id = ? AND order_id = ?`, voucherID, orderID)
	if err != nil {
		util.Logger.Error("删除兑换记录失败", zap.Error(err))
		return false, fmt.Errorf("failed to delete redemption: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if deleted == 0 {
		// 该订单未兑换过，无需回退
		return false, tx.Commit()
	}

	_, err = tx.Exec(`UPDATE vouchers
					  SET used_count = used_count - 1, updated_at = NOW()
					  WHERE id = ? AND used_count > 0`, voucherID)
	if err != nil {
		util.Logger.Error("回退兑换次数失败", zap.Error(err))
		return false, fmt.Errorf("failed to decrement used count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		util.Logger.Error("提交事务失败", zap.Error(err))
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	util.Logger.Info("优惠券兑换回退成功",
		zap.Int("voucher_id", voucherID),
		zap.Int("order_id", orderID))
	return true, nil
}
