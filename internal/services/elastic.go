package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"gravity_back_end/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const ordersIndex = "orders"

var (
	ErrSearchDisabled = errors.New("client Elasticsearch non initialisé")
	ErrNotIndexed     = errors.New("code de suivi introuvable dans l'index")
)

// orderDocument est la forme indexée d'une commande
type orderDocument struct {
	OrderID       string `json:"order_id"`
	TrackingCode  string `json:"tracking_code"`
	CustomerEmail string `json:"customer_email"`
	CustomerName  string `json:"customer_name"`
	District      string `json:"district"`
	Total         string `json:"total"`
	PaymentStatus string `json:"payment_status"`
	PaymentMethod string `json:"payment_method"`
	CreatedAt     string `json:"created_at"`
}

// OrderIndex indexe les commandes pour la recherche par code de suivi.
// Un client nil désactive l'index sans erreur côté appelant.
type OrderIndex struct {
	client *elasticsearch.Client
}

func NewOrderIndex(client *elasticsearch.Client) *OrderIndex {
	return &OrderIndex{client: client}
}

func (x *OrderIndex) Enabled() bool { return x != nil && x.client != nil }

// IndexOrder écrit la commande dans l'index orders
func (x *OrderIndex) IndexOrder(ctx context.Context, order models.Order) error {
	if !x.Enabled() {
		return ErrSearchDisabled
	}

	data, err := json.Marshal(orderDocument{
		OrderID:       order.ID,
		TrackingCode:  order.TrackingCode,
		CustomerEmail: order.Customer.Email,
		CustomerName:  order.Customer.FullName(),
		District:      order.Customer.District,
		Total:         order.Totals.Total.StringFixed(2),
		PaymentStatus: order.PaymentStatus,
		PaymentMethod: order.PaymentMethod,
		CreatedAt:     order.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	})
	if err != nil {
		return fmt.Errorf("erreur encodage commande: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      ordersIndex,
		DocumentID: order.ID,
		Body:       bytes.NewReader(data),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, x.client)
	if err != nil {
		return fmt.Errorf("erreur envoi Elastic: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("Elastic a renvoyé une erreur: %s", res.String())
	}
	log.Printf("✅ Commande %s indexée (%s)", order.ID, order.TrackingCode)
	return nil
}

// SearchByTracking retourne l'identifiant de la commande portant ce code
func (x *OrderIndex) SearchByTracking(ctx context.Context, trackingCode string) (string, error) {
	if !x.Enabled() {
		return "", ErrSearchDisabled
	}

	var buf bytes.Buffer
	q := map[string]any{
		"size": 1,
		"query": map[string]any{
			"term": map[string]any{
				"tracking_code.keyword": trackingCode,
			},
		},
	}
	if err := json.NewEncoder(&buf).Encode(q); err != nil {
		return "", fmt.Errorf("erreur encodage requête: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{ordersIndex},
		Body:  &buf,
	}
	res, err := req.Do(ctx, x.client)
	if err != nil {
		return "", fmt.Errorf("erreur requête Elastic: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		if res.StatusCode == 404 {
			return "", ErrNotIndexed
		}
		return "", fmt.Errorf("Elastic a renvoyé une erreur: %s", res.String())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source orderDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return "", fmt.Errorf("erreur décodage JSON: %w", err)
	}
	if len(r.Hits.Hits) == 0 {
		return "", ErrNotIndexed
	}
	return r.Hits.Hits[0].Source.OrderID, nil
}
