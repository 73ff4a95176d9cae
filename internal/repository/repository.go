package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gravity_back_end/internal/models"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderRepository persiste les commandes et leurs lignes
type OrderRepository interface {
	CreateOrder(ctx context.Context, order models.Order) error
	GetOrder(ctx context.Context, id string) (models.Order, error)
	MarkEmailSent(ctx context.Context, id string) error
	OrderIDByTracking(ctx context.Context, trackingCode string) (string, error)
	// SampleProducts lit une ligne de la table products (diagnostic)
	SampleProducts(ctx context.Context) ([]map[string]any, error)
}

// splitName reconstitue prénom et nom depuis customer_name
func splitName(full string) (string, string) {
	full = strings.TrimSpace(full)
	first, last, _ := strings.Cut(full, " ")
	return first, strings.TrimSpace(last)
}

// DeliveryDate : livraison estimée à 7 jours de la commande
func DeliveryDate(createdAt time.Time) time.Time {
	return createdAt.AddDate(0, 0, 7)
}
