package mysql

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/kidiezyllex/street-sneaker-sub002/internal/model"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/util"
	"go.uber.org/zap"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db}
}

func (r *OrderRepository) Create(order *model.Order) error {
	util.Logger.Info("开始创建订单",
		zap.Int("account_id", order.AccountID),
		zap.Int64("sub_total", order.SubTotal),
		zap.Int64("discount", order.Discount),
		zap.Int64("total", order.Total))

	tx, err := r.db.Begin()
	if err != nil {
		util.Logger.Error("开始事务失败", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	// 先插入订单获取ID，订单编号依赖自增ID生成
	query := `INSERT INTO orders (order_number, account_id, sub_total, discount, total,
				voucher_id, order_status, payment_status, payment_method,
				receiver_name, phone, province, district, ward, detail_address,
				created_at, updated_at)
			  VALUES ('TEMP', ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`

	result, err := tx.Exec(query,
		order.AccountID, order.SubTotal, order.Discount, order.Total,
		order.VoucherID, order.OrderStatus, order.PaymentStatus, order.PaymentMethod,
		order.ShippingAddress.ReceiverName, order.ShippingAddress.Phone,
		order.ShippingAddress.Province, order.ShippingAddress.District,
		order.ShippingAddress.Ward, order.ShippingAddress.DetailAddress)
	if err != nil {
		util.Logger.Error("插入订单记录失败", zap.Error(err))
		return fmt.Errorf("failed to insert order: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		util.Logger.Error("获取订单ID失败", zap.Error(err))
		return fmt.Errorf("failed to get order ID: %w", err)
	}
	order.ID = int(id)

	orderNumber := generateOrderNumber(order.ID)
	_, err = tx.Exec(`UPDATE orders SET order_number = ? WHERE id = ?`, orderNumber, order.ID)
	if err != nil {
		util.Logger.Error("更新订单编号失败",
			zap.Error(err),
			zap.String("order_number", orderNumber))
		return fmt.Errorf("failed to update order number: %w", err)
	}
	order.OrderNumber = orderNumber

	for _, item := range order.Items {
		result, err := tx.Exec(`INSERT INTO order_items (order_id, product_id, color, size, quantity, price)
								VALUES (?, ?, ?, ?, ?, ?)`,
			order.ID, item.ProductID, item.Color, item.Size, item.Quantity, item.Price)
		if err != nil {
			util.Logger.Error("插入订单明细失败",
				zap.Error(err),
				zap.Int("product_id", item.ProductID))
			return fmt.Errorf("failed to insert order item: %w", err)
		}
		itemID, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get order item ID: %w", err)
		}
		item.ID = int(itemID)
		item.OrderID = order.ID
	}

	if err := tx.Commit(); err != nil {
		util.Logger.Error("提交事务失败", zap.Error(err))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	util.Logger.Info("订单创建成功",
		zap.Int("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.Int("item_count", len(order.Items)))
	return nil
}

// generateOrderNumber 生成订单编号
// 格式: ORD-年份-6位序号，例如: ORD-2026-000123
func generateOrderNumber(orderID int) string {
	year := time.Now().Year()
	return fmt.Sprintf("ORD-%d-%06d", year, orderID)
}

func (r *OrderRepository) FindByID(id int) (*model.Order, error) {
	query := `SELECT id, order_number, account_id, sub_total, discount, total,
				voucher_id, order_status, payment_status, payment_method,
				receiver_name, phone, province, district, ward, detail_address,
				created_at, updated_at
			  FROM orders WHERE id = ?`

	var order model.Order
	var voucherID sql.NullInt64
	err := r.db.QueryRow(query, id).Scan(
		&order.ID, &order.OrderNumber, &order.AccountID,
		&order.SubTotal, &order.Discount, &order.Total,
		&voucherID, &order.OrderStatus, &order.PaymentStatus, &order.PaymentMethod,
		&order.ShippingAddress.ReceiverName, &order.ShippingAddress.Phone,
		&order.ShippingAddress.Province, &order.ShippingAddress.District,
		&order.ShippingAddress.Ward, &order.ShippingAddress.DetailAddress,
		&order.CreatedAt, &order.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		util.Logger.Error("查询订单失败", zap.Error(err), zap.Int("order_id", id))
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if voucherID.Valid {
		vid := int(voucherID.Int64)
		order.VoucherID = &vid
	}

	items, err := r.findItems(order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return &order, nil
}

func (r *OrderRepository) findItems(orderID int) ([]*model.OrderItem, error) {
	rows, err := r.db.Query(`SELECT id, order_id, product_id, color, size, quantity, price
							 FROM order_items WHERE order_id = ? ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []*model.OrderItem
	for rows.Next() {
		var item model.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID,
			&item.Color, &item.Size, &item.Quantity, &item.Price)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}
	return items, nil
}

func (r *OrderRepository) ListByAccount(accountID, page, pageSize int) ([]*model.Order, int, error) {
	var total int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM orders WHERE account_id = ?`, accountID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}
	return r.queryOrders(`WHERE account_id = ?`, total, page, pageSize, accountID)
}

func (r *OrderRepository) List(page, pageSize int) ([]*model.Order, int, error) {
	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM orders`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return r.queryOrders(``, total, page, pageSize)
}

func (r *OrderRepository) queryOrders(where string, total, page, pageSize int, args ...interface{}) ([]*model.Order, int, error) {
	query := fmt.Sprintf(`SELECT id, order_number, account_id, sub_total, discount, total,
				voucher_id, order_status, payment_status, payment_method,
				receiver_name, phone, province, district, ward, detail_address,
				created_at, updated_at
			  FROM orders %s
			  ORDER BY created_at DESC
			  LIMIT ? OFFSET ?`, where)

	offset := (page - 1) * pageSize
	args = append(args, pageSize, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		util.Logger.Error("查询订单列表失败", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []*model.Order
	for rows.Next() {
		var order model.Order
		var voucherID sql.NullInt64
		err := rows.Scan(
			&order.ID, &order.OrderNumber, &order.AccountID,
			&order.SubTotal, &order.Discount, &order.Total,
			&voucherID, &order.OrderStatus, &order.PaymentStatus, &order.PaymentMethod,
			&order.ShippingAddress.ReceiverName, &order.ShippingAddress.Phone,
			&order.ShippingAddress.Province, &order.ShippingAddress.District,
			&order.ShippingAddress.Ward, &order.ShippingAddress.DetailAddress,
			&order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}
		if voucherID.Valid {
			vid := int(voucherID.Int64)
			order.VoucherID = &vid
		}
		orders = append(orders, &order)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, total, nil
}

// UpdateStatus 条件更新订单状态
// WHERE 带上读取时的状态，避免两个并发请求基于同一快照各自推进
func (r *OrderRepository) UpdateStatus(orderID int, from, to model.OrderStatus) (bool, error) {
	result, err := r.db.Exec(`UPDATE orders
							  SET order_status = ?, updated_at = NOW()
							  WHERE id = ? AND order_status = ?`, to, orderID, from)
	if err != nil {
		util.Logger.Error("更新订单状态失败",
			zap.Error(err),
			zap.Int("order_id", orderID),
			zap.String("to", string(to)))
		return false, fmt.Errorf("failed to update order status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		util.Logger.Warn("订单状态已被其他请求修改",
			zap.Int("order_id", orderID),
			zap.String("expected", string(from)),
			zap.String("to", string(to)))
		return false, nil
	}

	util.Logger.Info("订单状态更新成功",
		zap.Int("order_id", orderID),
		zap.String("from", string(from)),
		zap.String("to", string(to)))
	return true, nil
}

func (r *OrderRepository) UpdatePaymentStatus(orderID int, status model.PaymentStatus) error {
	_, err := r.db.Exec(`UPDATE orders SET payment_status = ?, updated_at = NOW() WHERE id = ?`,
		status, orderID)
	if err != nil {
		util.Logger.Error("更新支付状态失败",
			zap.Error(err),
			zap.Int("order_id", orderID))
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	return nil
}

// SavePricing 写回明细数量与订单金额
// 数量与 subTotal/discount/total 在同一事务落库，
// 不允许出现金额与明细不一致的中间状态
func (r *OrderRepository) SavePricing(order *model.Order) error {
	tx, err := r.db.Begin()
	if err != nil {
		util.Logger.Error("开始事务失败", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	for _, item := range order.Items {
		_, err := tx.Exec(`UPDATE order_items SET quantity = ? WHERE id = ? AND order_id = ?`,
			item.Quantity, item.ID, order.ID)
		if err != nil {
			util.Logger.Error("更新订单明细数量失败",
				zap.Error(err),
				zap.Int("item_id", item.ID))
			return fmt.Errorf("failed to update order item: %w", err)
		}
	}

	_, err = tx.Exec(`UPDATE orders
					  SET sub_total = ?, discount = ?, total = ?, updated_at = NOW()
					  WHERE id = ?`,
		order.SubTotal, order.Discount, order.Total, order.ID)
	if err != nil {
		util.Logger.Error("更新订单金额失败", zap.Error(err), zap.Int("order_id", order.ID))
		return fmt.Errorf("failed to update order totals: %w", err)
	}

	if err := tx.Commit(); err != nil {
		util.Logger.Error("提交事务失败", zap.Error(err))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	util.Logger.Info("订单金额写回成功",
		zap.Int("order_id", order.ID),
		zap.Int64("sub_total", order.SubTotal),
		zap.Int64("discount", order.Discount),
		zap.Int64("total", order.Total))
	return nil
}
