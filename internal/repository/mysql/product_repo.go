package mysql

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/kidiezyllex/street-sneaker-sub002/internal/model"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/util"
	"go.uber.org/zap"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db}
}

func (r *ProductRepository) Create(product *model.Product) error {
	util.Logger.Info("开始创建商品",
		zap.String("name", product.Name),
		zap.String("brand", product.Brand),
		zap.Int64("base_price", product.BasePrice))

	tx, err := r.db.Begin()
	if err != nil {
		util.Logger.Error("开始事务失败", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO products (name, brand, description, base_price, image_url, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, NOW(), NOW())`

	result, err := tx.Exec(query,
		product.Name, product.Brand, product.Description, product.BasePrice, product.ImageURL)
	if err != nil {
		util.Logger.Error("创建商品失败", zap.Error(err))
		return fmt.Errorf("failed to create product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get product ID: %w", err)
	}
	product.ID = int(id)

	for _, variant := range product.Variants {
		result, err := tx.Exec(`INSERT INTO product_variants (product_id, color, size, stock)
								VALUES (?, ?, ?, ?)`,
			product.ID, variant.Color, variant.Size, variant.Stock)
		if err != nil {
			util.Logger.Error("创建商品规格失败",
				zap.Error(err),
				zap.String("color", variant.Color),
				zap.String("size", variant.Size))
			return fmt.Errorf("failed to create product variant: %w", err)
		}
		variantID, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get variant ID: %w", err)
		}
		variant.ID = int(variantID)
		variant.ProductID = product.ID
	}

	if err := tx.Commit(); err != nil {
		util.Logger.Error("提交事务失败", zap.Error(err))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	util.Logger.Info("商品创建成功",
		zap.Int("product_id", product.ID),
		zap.Int("variant_count", len(product.Variants)))
	return nil
}

func (r *ProductRepository) Update(product *model.Product) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `UPDATE products
			  SET name = ?, brand = ?, description = ?, base_price = ?, updated_at = NOW()
			  WHERE id = ?`
	_, err = tx.Exec(query,
		product.Name, product.Brand, product.Description, product.BasePrice, product.ID)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	// 规格全量重建
	if _, err := tx.Exec(`DELETE FROM product_variants WHERE product_id = ?`, product.ID); err != nil {
		return fmt.Errorf("failed to clear product variants: %w", err)
	}
	for _, variant := range product.Variants {
		_, err := tx.Exec(`INSERT INTO product_variants (product_id, color, size, stock)
						   VALUES (?, ?, ?, ?)`,
			product.ID, variant.Color, variant.Size, variant.Stock)
		if err != nil {
			return fmt.Errorf("failed to create product variant: %w", err)
		}
	}

	return tx.Commit()
}

func (r *ProductRepository) Delete(id int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM product_variants WHERE product_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete product variants: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM products WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return tx.Commit()
}

func (r *ProductRepository) FindByID(id int) (*model.Product, error) {
	query := `SELECT id, name, brand, description, base_price, image_url, created_at, updated_at
			  FROM products WHERE id = ?`

	var product model.Product
	err := r.db.QueryRow(query, id).Scan(
		&product.ID, &product.Name, &product.Brand, &product.Description,
		&product.BasePrice, &product.ImageURL, &product.CreatedAt, &product.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		util.Logger.Error("查询商品失败", zap.Error(err), zap.Int("product_id", id))
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	variants, err := r.findVariants(product.ID)
	if err != nil {
		return nil, err
	}
	product.Variants = variants

	return &product, nil
}

func (r *ProductRepository) FindByIDs(ids []int) ([]*model.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimRight(strings.Repeat("?,", len(ids)), ",")
	query := fmt.Sprintf(`SELECT id, name, brand, description, base_price, image_url, created_at, updated_at
			  FROM products WHERE id IN (%s)`, placeholders)

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products, err := r.scanProducts(rows)
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductRepository) List(page, pageSize int) ([]*model.Product, int, error) {
	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, name, brand, description, base_price, image_url, created_at, updated_at
			  FROM products
			  ORDER BY created_at DESC
			  LIMIT ? OFFSET ?`

	offset := (page - 1) * pageSize
	rows, err := r.db.Query(query, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products, err := r.scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *ProductRepository) scanProducts(rows *sql.Rows) ([]*model.Product, error) {
	var products []*model.Product
	for rows.Next() {
		var product model.Product
		err := rows.Scan(
			&product.ID, &product.Name, &product.Brand, &product.Description,
			&product.BasePrice, &product.ImageURL, &product.CreatedAt, &product.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, &product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	for _, product := range products {
		variants, err := r.findVariants(product.ID)
		if err != nil {
			return nil, err
		}
		product.Variants = variants
	}
	return products, nil
}

func (r *ProductRepository) findVariants(productID int) ([]*model.ProductVariant, error) {
	rows, err := r.db.Query(`SELECT id, product_id, color, size, stock
							 FROM product_variants WHERE product_id = ? ORDER BY id`, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query product variants: %w", err)
	}
	defer rows.Close()

	var variants []*model.ProductVariant
	for rows.Next() {
		var variant model.ProductVariant
		err := rows.Scan(&variant.ID, &variant.ProductID, &variant.Color, &variant.Size, &variant.Stock)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product variant: %w", err)
		}
		variants = append(variants, &variant)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product variants: %w", err)
	}
	return variants, nil
}

func (r *ProductRepository) UpdateImageURL(id int, imageURL string) error {
	_, err := r.db.Exec(`UPDATE products SET image_url = ?, updated_at = NOW() WHERE id = ?`,
		imageURL, id)
	if err != nil {
		util.Logger.Error("更新商品图片失败", zap.Error(err), zap.Int("product_id", id))
		return fmt.Errorf("failed to update product image: %w", err)
	}
	return nil
}
