package mysql

import (
	"database/sql"
	"fmt"

	"github.com/kidiezyllex/street-sneaker-sub002/internal/model"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/util"
	"go.uber.org/zap"
)

type ReturnRepository struct {
	db *sql.DB
}

func NewReturnRepository(db *sql.DB) *ReturnRepository {
	return &ReturnRepository{db}
}

func (r *ReturnRepository) Create(request *model.ReturnRequest) error {
	util.Logger.Info("开始创建退货申请",
		zap.Int("order_id", request.OrderID),
		zap.Int("account_id", request.AccountID),
		zap.Int64("total_refund", request.TotalRefund))

	tx, err := r.db.Begin()
	if err != nil {
		util.Logger.Error("开始事务失败", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO return_requests (order_id, account_id, total_refund, status, created_at, updated_at)
			  VALUES (?, ?, ?, ?, NOW(), NOW())`

	result, err := tx.Exec(query,
		request.OrderID, request.AccountID, request.TotalRefund, request.Status)
	if err != nil {
		util.Logger.Error("创建退货申请失败", zap.Error(err))
		return fmt.Errorf("failed to create return request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get return request ID: %w", err)
	}
	request.ID = int(id)

	for _, item := range request.Items {
		result, err := tx.Exec(`INSERT INTO return_items (return_id, product_id, color, size, quantity, price, reason)
								VALUES (?, ?, ?, ?, ?, ?, ?)`,
			request.ID, item.ProductID, item.Color, item.Size, item.Quantity, item.Price, item.Reason)
		if err != nil {
			util.Logger.Error("插入退货明细失败",
				zap.Error(err),
				zap.Int("product_id", item.ProductID))
			return fmt.Errorf("failed to insert return item: %w", err)
		}
		itemID, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get return item ID: %w", err)
		}
		item.ID = int(itemID)
		item.ReturnID = request.ID
	}

	if err := tx.Commit(); err != nil {
		util.Logger.Error("提交事务失败", zap.Error(err))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	util.Logger.Info("退货申请创建成功",
		zap.Int("return_id", request.ID),
		zap.Int("item_count", len(request.Items)))
	return nil
}

func (r *ReturnRepository) FindByID(id int) (*model.ReturnRequest, error) {
	query := `SELECT id, order_id, account_id, total_refund, status, created_at, updated_at
			  FROM return_requests WHERE id = ?`

	var request model.ReturnRequest
	err := r.db.QueryRow(query, id).Scan(
		&request.ID, &request.OrderID, &request.AccountID,
		&request.TotalRefund, &request.Status, &request.CreatedAt, &request.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		util.Logger.Error("查询退货申请失败", zap.Error(err), zap.Int("return_id", id))
		return nil, fmt.Errorf("failed to get return request: %w", err)
	}

	items, err := r.findItems(request.ID)
	if err != nil {
		return nil, err
	}
	request.Items = items

	return &request, nil
}

func (r *ReturnRepository) findItems(returnID int) ([]*model.ReturnItem, error) {
	rows, err := r.db.Query(`SELECT id, return_id, product_id, color, size, quantity, price, reason
							 FROM return_items WHERE return_id = ? ORDER BY id`, returnID)
	if err != nil {
		return nil, fmt.Errorf("failed to query return items: %w", err)
	}
	defer rows.Close()

	var items []*model.ReturnItem
	for rows.Next() {
		var item model.ReturnItem
		err := rows.Scan(&item.ID, &item.ReturnID, &item.ProductID,
			&item.Color, &item.Size, &item.Quantity, &item.Price, &item.Reason)
		if err != nil {
			return nil, fmt.Errorf("failed to scan return item: %w", err)
		}
		items = append(items, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating return items: %w", err)
	}
	return items, nil
}

func (r *ReturnRepository) FindByOrder(orderID int) ([]*model.ReturnRequest, error) {
	query := `SELECT id, order_id, account_id, total_refund, status, created_at, updated_at
			  FROM return_requests WHERE order_id = ?
			  ORDER BY created_at DESC`

	rows, err := r.db.Query(query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query return requests: %w", err)
	}
	defer rows.Close()

	return r.scanRequests(rows)
}

func (r *ReturnRepository) List(page, pageSize int) ([]*model.ReturnRequest, int, error) {
	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM return_requests`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, order_id, account_id, total_refund, status, created_at, updated_at
			  FROM return_requests
			  ORDER BY created_at DESC
			  LIMIT ? OFFSET ?`

	offset := (page - 1) * pageSize
	rows, err := r.db.Query(query, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query return requests: %w", err)
	}
	defer rows.Close()

	requests, err := r.scanRequests(rows)
	if err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

func (r *ReturnRepository) scanRequests(rows *sql.Rows) ([]*model.ReturnRequest, error) {
	var requests []*model.ReturnRequest
	for rows.Next() {
		var request model.ReturnRequest
		err := rows.Scan(
			&request.ID, &request.OrderID, &request.AccountID,
			&request.TotalRefund, &request.Status, &request.CreatedAt, &request.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan return request: %w", err)
		}
		requests = append(requests, &request)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating return requests: %w", err)
	}

	for _, request := range requests {
		items, err := r.findItems(request.ID)
		if err != nil {
			return nil, err
		}
		request.Items = items
	}
	return requests, nil
}

// UpdateStatus 条件更新退货状态
// 仅当申请仍在 CHO_XU_LY 时生效，处理是一次性的
func (r *ReturnRepository) UpdateStatus(returnID int, to model.ReturnStatus) (bool, error) {
	result, err := r.db.Exec(`UPDATE return_requests
							  SET status = ?, updated_at = NOW()
							  WHERE id = ? AND status = ?`,
		to, returnID, model.ReturnStatusChoXuLy)
	if err != nil {
		util.Logger.Error("更新退货状态失败",
			zap.Error(err),
			zap.Int("return_id", returnID),
			zap.String("to", string(to)))
		return false, fmt.Errorf("failed to update return status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		util.Logger.Warn("退货申请已被处理过",
			zap.Int("return_id", returnID),
			zap.String("to", string(to)))
		return false, nil
	}

	util.Logger.Info("退货状态更新成功",
		zap.Int("return_id", returnID),
		zap.String("to", string(to)))
	return true, nil
}
