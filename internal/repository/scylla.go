package repository

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gravity_back_end/internal/models"

	"github.com/gocql/gocql"
	"github.com/shopspring/decimal"
)

// ScyllaOrders stocke les commandes dans le keyspace orders.
// Les montants sont écrits en texte décimal pour rester exacts.
type ScyllaOrders struct {
	session *gocql.Session
}

func NewScyllaOrders(session *gocql.Session) *ScyllaOrders {
	return &ScyllaOrders{session: session}
}

func (s *ScyllaOrders) CreateOrder(ctx context.Context, order models.Order) error {
	id, err := gocql.ParseUUID(order.ID)
	if err != nil {
		return fmt.Errorf("identifiant de commande invalide: %w", err)
	}

	c := order.Customer
	batch := s.session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	batch.Query(`INSERT INTO orders (
			id, tracking_code, customer_name, customer_email, customer_phone, customer_dni,
			delivery_method, shipping_address, district, reference,
			subtotal, discounts, delivery_cost, total,
			status, payment_status, payment_method, payment_id, coupon_code,
			email_sent, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, order.TrackingCode, c.FullName(), c.Email, c.Phone, c.DNI,
		c.DeliveryMethod, shippingAddress(c), c.District, c.Reference,
		order.Totals.Subtotal.String(), order.Totals.Discount.String(),
		order.Totals.DeliveryCost.String(), order.Totals.Total.String(),
		order.Status, order.PaymentStatus, order.PaymentMethod, order.PaymentID, order.CouponCode,
		false, order.CreatedAt,
	)
	batch.Query(`INSERT INTO orders_by_tracking (tracking_code, order_id) VALUES (?, ?)`,
		order.TrackingCode, id)

	for i, item := range order.Items {
		batch.Query(`INSERT INTO order_items (
				order_id, position, product_id, product_name, product_image, price, quantity, subtotal, discounted
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, i, item.ID, item.Name, item.Image, item.Price.String(), item.Quantity,
			item.LineTotal().String(), item.Discounted,
		)
	}

	if err := s.session.ExecuteBatch(batch); err != nil {
		return fmt.Errorf("batch commande: %w", err)
	}
	return nil
}

func (s *ScyllaOrders) GetOrder(ctx context.Context, id string) (models.Order, error) {
	uid, err := gocql.ParseUUID(id)
	if err != nil {
		return models.Order{}, ErrOrderNotFound
	}

	var (
		order                                   models.Order
		orderID                                 gocql.UUID
		fullName                                string
		subtotal, discount, deliveryCost, total string
		c                                       = &order.Customer
	)
	err = s.session.Query(`SELECT id, tracking_code, customer_name, customer_email, customer_phone, customer_dni,
			delivery_method, shipping_address, district, reference,
			subtotal, discounts, delivery_cost, total,
			status, payment_status, payment_method, payment_id, coupon_code, email_sent, created_at
		FROM orders WHERE id = ?`, uid).WithContext(ctx).Scan(
		&orderID, &order.TrackingCode, &fullName, &c.Email, &c.Phone, &c.DNI,
		&c.DeliveryMethod, &c.Address, &c.District, &c.Reference,
		&subtotal, &discount, &deliveryCost, &total,
		&order.Status, &order.PaymentStatus, &order.PaymentMethod, &order.PaymentID, &order.CouponCode,
		&order.EmailSent, &order.CreatedAt,
	)
	if errors.Is(err, gocql.ErrNotFound) {
		return models.Order{}, ErrOrderNotFound
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("lecture commande: %w", err)
	}

	order.ID = orderID.String()
	c.FirstName, c.LastName = splitName(fullName)
	order.Totals.Subtotal = parseAmount(subtotal)
	order.Totals.Discount = parseAmount(discount)
	order.Totals.DeliveryCost = parseAmount(deliveryCost)
	order.Totals.Total = parseAmount(total)

	iter := s.session.Query(`SELECT product_id, product_name, product_image, price, quantity, discounted
		FROM order_items WHERE order_id = ?`, uid).WithContext(ctx).Iter()

	var (
		item  models.CartItem
		price string
	)
	for iter.Scan(&item.ID, &item.Name, &item.Image, &price, &item.Quantity, &item.Discounted) {
		item.Price = parseAmount(price)
		order.Items = append(order.Items, item)
	}
	if err := iter.Close(); err != nil {
		return models.Order{}, fmt.Errorf("lecture lignes commande: %w", err)
	}

	return order, nil
}

func (s *ScyllaOrders) MarkEmailSent(ctx context.Context, id string) error {
	uid, err := gocql.ParseUUID(id)
	if err != nil {
		return ErrOrderNotFound
	}
	applied, err := s.session.Query(`UPDATE orders SET email_sent = true WHERE id = ? IF EXISTS`, uid).
		WithContext(ctx).ScanCAS()
	if err != nil {
		return fmt.Errorf("mise à jour email_sent: %w", err)
	}
	if !applied {
		return ErrOrderNotFound
	}
	return nil
}

func (s *ScyllaOrders) SampleProducts(ctx context.Context) ([]map[string]any, error) {
	iter := s.session.Query(`SELECT id FROM products LIMIT 1`).WithContext(ctx).Iter()

	data := []map[string]any{}
	row := map[string]any{}
	for iter.MapScan(row) {
		data = append(data, map[string]any{"id": fmt.Sprint(row["id"])})
		row = map[string]any{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return data, nil
}

func parseAmount(raw string) decimal.Decimal {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		log.Printf("⚠️ Montant illisible %q: %v", raw, err)
		return decimal.Zero
	}
	return d
}

func (s *ScyllaOrders) OrderIDByTracking(ctx context.Context, trackingCode string) (string, error) {
	var id gocql.UUID
	err := s.session.Query(`SELECT order_id FROM orders_by_tracking WHERE tracking_code = ?`, trackingCode).
		WithContext(ctx).Scan(&id)
	if errors.Is(err, gocql.ErrNotFound) {
		return "", ErrOrderNotFound
	}
	if err != nil {
		return "", fmt.Errorf("lecture orders_by_tracking: %w", err)
	}
	return id.String(), nil
}
