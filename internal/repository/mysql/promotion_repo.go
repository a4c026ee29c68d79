package mysql

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/kidiezyllex/street-sneaker-sub002/internal/model"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/util"
	"go.uber.org/zap"
)

type PromotionRepository struct {
	db *sql.DB
}

func NewPromotionRepository(db *sql.DB) *PromotionRepository {
	return &PromotionRepository{db}
}

func (r *PromotionRepository) Create(promotion *model.Promotion) error {
	util.Logger.Info("开始创建促销活动",
		zap.String("name", promotion.Name),
		zap.Int("discount_percent", promotion.DiscountPercent),
		zap.Int("product_count", len(promotion.ProductIDs)))

	tx, err := r.db.Begin()
	if err != nil {
		util.Logger.Error("开始事务失败", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO promotions (name, description, discount_percent, start_date, end_date,
				status, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, NOW(), NOW())`

	result, err := tx.Exec(query,
		promotion.Name, promotion.Description, promotion.DiscountPercent,
		promotion.StartDate, promotion.EndDate, promotion.Status)
	if err != nil {
		util.Logger.Error("创建促销活动失败", zap.Error(err))
		return fmt.Errorf("failed to create promotion: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get promotion ID: %w", err)
	}
	promotion.ID = int(id)

	for _, productID := range promotion.ProductIDs {
		_, err := tx.Exec(`INSERT INTO promotion_products (promotion_id, product_id) VALUES (?, ?)`,
			promotion.ID, productID)
		if err != nil {
			util.Logger.Error("关联促销商品失败",
				zap.Error(err),
				zap.Int("product_id", productID))
			return fmt.Errorf("failed to link promotion product: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		util.Logger.Error("提交事务失败", zap.Error(err))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	util.Logger.Info("促销活动创建成功", zap.Int("promotion_id", promotion.ID))
	return nil
}

func (r *PromotionRepository) Update(promotion *model.Promotion) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `UPDATE promotions
			  SET name = ?, description = ?, discount_percent = ?,
				  start_date = ?, end_date = ?, status = ?, updated_at = NOW()
			  WHERE id = ?`
	_, err = tx.Exec(query,
		promotion.Name, promotion.Description, promotion.DiscountPercent,
		promotion.StartDate, promotion.EndDate, promotion.Status, promotion.ID)
	if err != nil {
		return fmt.Errorf("failed to update promotion: %w", err)
	}

	// 商品关联全量重建
	if _, err := tx.Exec(`DELETE FROM promotion_products WHERE promotion_id = ?`, promotion.ID); err != nil {
		return fmt.Errorf("failed to clear promotion products: %w", err)
	}
	for _, productID := range promotion.ProductIDs {
		_, err := tx.Exec(`INSERT INTO promotion_products (promotion_id, product_id) VALUES (?, ?)`,
			promotion.ID, productID)
		if err != nil {
			return fmt.Errorf("failed to link promotion product: %w", err)
		}
	}

	return tx.Commit()
}

func (r *PromotionRepository) UpdateStatus(id int, status model.CommonStatus) error {
	_, err := r.db.Exec(`UPDATE promotions SET status = ?, updated_at = NOW() WHERE id = ?`, status, id)
	return err
}

func (r *PromotionRepository) Delete(id int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM promotion_products WHERE promotion_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete promotion products: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM promotions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete promotion: %w", err)
	}
	return tx.Commit()
}

func (r *PromotionRepository) FindByID(id int) (*model.Promotion, error) {
	query := `SELECT id, name, description, discount_percent, start_date, end_date,
				status, created_at, updated_at
			  FROM promotions WHERE id = ?`

	var promotion model.Promotion
	err := r.db.QueryRow(query, id).Scan(
		&promotion.ID, &promotion.Name, &promotion.Description, &promotion.DiscountPercent,
		&promotion.StartDate, &promotion.EndDate, &promotion.Status,
		&promotion.CreatedAt, &promotion.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get promotion: %w", err)
	}

	productIDs, err := r.findProductIDs(promotion.ID)
	if err != nil {
		return nil, err
	}
	promotion.ProductIDs = productIDs

	return &promotion, nil
}

func (r *PromotionRepository) findProductIDs(promotionID int) ([]int, error) {
	rows, err := r.db.Query(`SELECT product_id FROM promotion_products WHERE promotion_id = ? ORDER BY product_id`,
		promotionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query promotion products: %w", err)
	}
	defer rows.Close()

	var productIDs []int
	for rows.Next() {
		var productID int
		if err := rows.Scan(&productID); err != nil {
			return nil, fmt.Errorf("failed to scan promotion product: %w", err)
		}
		productIDs = append(productIDs, productID)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating promotion products: %w", err)
	}
	return productIDs, nil
}

func (r *PromotionRepository) List(page, pageSize int) ([]*model.Promotion, int, error) {
	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM promotions`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, name, description, discount_percent, start_date, end_date,
				status, created_at, updated_at
			  FROM promotions
			  ORDER BY created_at DESC
			  LIMIT ? OFFSET ?`

	offset := (page - 1) * pageSize
	rows, err := r.db.Query(query, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query promotions: %w", err)
	}
	defer rows.Close()

	promotions, err := r.scanPromotions(rows)
	if err != nil {
		return nil, 0, err
	}
	return promotions, total, nil
}

// FindActive 返回指定时间点生效的促销活动
// 有效期两端均含，与 model.Promotion.ActiveAt 保持一致
func (r *PromotionRepository) FindActive(now time.Time) ([]*model.Promotion, error) {
	query := `SELECT id, name, description, discount_percent, start_date, end_date,
				status, created_at, updated_at
			  FROM promotions
			  WHERE status = ? AND start_date <= ? AND end_date >= ?
			  ORDER BY start_date ASC`

	rows, err := r.db.Query(query, model.StatusHoatDong, now, now)
	if err != nil {
		util.Logger.Error("查询生效促销活动失败", zap.Error(err))
		return nil, fmt.Errorf("failed to query active promotions: %w", err)
	}
	defer rows.Close()

	return r.scanPromotions(rows)
}

func (r *PromotionRepository) scanPromotions(rows *sql.Rows) ([]*model.Promotion, error) {
	var promotions []*model.Promotion
	for rows.Next() {
		var promotion model.Promotion
		err := rows.Scan(
			&promotion.ID, &promotion.Name, &promotion.Description, &promotion.DiscountPercent,
			&promotion.StartDate, &promotion.EndDate, &promotion.Status,
			&promotion.CreatedAt, &promotion.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan promotion: %w", err)
		}
		promotions = append(promotions, &promotion)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating promotions: %w", err)
	}

	for _, promotion := range promotions {
		productIDs, err := r.findProductIDs(promotion.ID)
		if err != nil {
			return nil, err
		}
		promotion.ProductIDs = productIDs
	}
	return promotions, nil
}
