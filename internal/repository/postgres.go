package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gravity_back_end/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PostgresOrders écrit dans les tables orders / order_items de la base hébergée
type PostgresOrders struct {
	db *sql.DB
}

func NewPostgresOrders(db *sql.DB) *PostgresOrders {
	return &PostgresOrders{db: db}
}

const insertOrderSQL = `
	INSERT INTO orders (
		id, tracking_code, customer_name, customer_email, customer_phone, customer_dni,
		delivery_method, shipping_address, district, reference,
		subtotal, discounts, delivery_cost, total,
		status, payment_status, payment_method, payment_id, coupon_code,
		email_sent, notes, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
	ON CONFLICT (id) DO NOTHING`

const insertOrderItemSQL = `
	INSERT INTO order_items (order_id, product_id, product_name, product_image, price, quantity, subtotal, discounted)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

// CreateOrder insère la commande et ses lignes dans une transaction.
// Une commande déjà présente n'est pas réécrite.
func (p *PostgresOrders) CreateOrder(ctx context.Context, order models.Order) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	c := order.Customer
	res, err := tx.ExecContext(ctx, insertOrderSQL,
		order.ID, order.TrackingCode, c.FullName(), c.Email, c.Phone, c.DNI,
		c.DeliveryMethod, shippingAddress(c), c.District, c.Reference,
		order.Totals.Subtotal, order.Totals.Discount, order.Totals.DeliveryCost, order.Totals.Total,
		order.Status, order.PaymentStatus, order.PaymentMethod, order.PaymentID, order.CouponCode,
		false, "", order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil
	}

	for _, item := range order.Items {
		if _, err := tx.ExecContext(ctx, insertOrderItemSQL,
			order.ID, item.ID, item.Name, item.Image, item.Price, item.Quantity, item.LineTotal(), item.Discounted,
		); err != nil {
			return fmt.Errorf("insert order item %s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

const selectOrderSQL = `
	SELECT id, tracking_code, customer_name, customer_email, customer_phone, customer_dni,
		delivery_method, shipping_address, district, reference,
		subtotal, discounts, delivery_cost, total,
		status, payment_status, payment_method, payment_id, coupon_code, email_sent, created_at
	FROM orders WHERE id = $1`

const selectOrderItemsSQL = `
	SELECT product_id, product_name, product_image, price, quantity, discounted
	FROM order_items WHERE order_id = $1 ORDER BY id`

func (p *PostgresOrders) GetOrder(ctx context.Context, id string) (models.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.Order{}, ErrOrderNotFound
	}

	var (
		order    models.Order
		fullName string
		c        = &order.Customer
	)
	err := p.db.QueryRowContext(ctx, selectOrderSQL, id).Scan(
		&order.ID, &order.TrackingCode, &fullName, &c.Email, &c.Phone, &c.DNI,
		&c.DeliveryMethod, &c.Address, &c.District, &c.Reference,
		&order.Totals.Subtotal, &order.Totals.Discount, &order.Totals.DeliveryCost, &order.Totals.Total,
		&order.Status, &order.PaymentStatus, &order.PaymentMethod, &order.PaymentID, &order.CouponCode,
		&order.EmailSent, &order.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Order{}, ErrOrderNotFound
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("select order: %w", err)
	}
	c.FirstName, c.LastName = splitName(fullName)

	rows, err := p.db.QueryContext(ctx, selectOrderItemsSQL, id)
	if err != nil {
		return models.Order{}, fmt.Errorf("select order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item  models.CartItem
			price decimal.Decimal
		)
		if err := rows.Scan(&item.ID, &item.Name, &item.Image, &price, &item.Quantity, &item.Discounted); err != nil {
			return models.Order{}, fmt.Errorf("scan order item: %w", err)
		}
		item.Price = price
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return models.Order{}, fmt.Errorf("iterate order items: %w", err)
	}

	return order, nil
}

func (p *PostgresOrders) MarkEmailSent(ctx context.Context, id string) error {
	res, err := p.db.ExecContext(ctx, `UPDATE orders SET email_sent = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("update email_sent: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (p *PostgresOrders) SampleProducts(ctx context.Context) ([]map[string]any, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT id FROM products LIMIT 1`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	data := []map[string]any{}
	for rows.Next() {
		var id any
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		if b, ok := id.([]byte); ok {
			id = string(b)
		}
		data = append(data, map[string]any{"id": id})
	}
	return data, rows.Err()
}

func shippingAddress(c models.CheckoutData) string {
	if c.DeliveryMethod == models.DeliveryMethodOficina {
		return "Recojo en oficina"
	}
	if c.Apartment != "" {
		return c.Address + ", " + c.Apartment
	}
	return c.Address
}

func (p *PostgresOrders) OrderIDByTracking(ctx context.Context, trackingCode string) (string, error) {
	var id string
	err := p.db.QueryRowContext(ctx,
		`SELECT id FROM orders WHERE tracking_code = $1 ORDER BY created_at DESC LIMIT 1`, trackingCode,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrOrderNotFound
	}
	if err != nil {
		return "", fmt.Errorf("select by tracking: %w", err)
	}
	return id, nil
}
