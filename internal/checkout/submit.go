package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"gravity_back_end/internal/models"
)

// Submitter transmet une commande à l'API de persistance
type Submitter interface {
	Submit(ctx context.Context, order models.Order) error
}

// HTTPSubmitter poste la commande sur l'endpoint /api/orders/create
type HTTPSubmitter struct {
	endpoint string
	client   *http.Client
}

func NewHTTPSubmitter(endpoint string, timeout time.Duration) *HTTPSubmitter {
	return &HTTPSubmitter{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (h *HTTPSubmitter) Submit(ctx context.Context, order models.Order) error {
	body, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("sérialisation commande: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("création requête: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("envoi commande: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
		return fmt.Errorf("API commandes a répondu %d: %s", res.StatusCode, bytes.TrimSpace(msg))
	}
	return nil
}

// SubmitOrder envoie la commande en best-effort : l'erreur est journalisée,
// jamais propagée. Le retour indique seulement si l'envoi a abouti.
func SubmitOrder(ctx context.Context, sub Submitter, order models.Order) bool {
	if err := sub.Submit(ctx, order); err != nil {
		log.Printf("❌ Envoi de la commande %s échoué: %v", order.ID, err)
		return false
	}
	log.Printf("📤 Commande %s transmise", order.ID)
	return true
}

const submitTimeout = 15 * time.Second

// PlaceOrder crée la commande de la session pour ce paiement puis la soumet
// en arrière-plan. La soumission n'a lieu qu'à la première création.
func PlaceOrder(ctx context.Context, s *Session, sub Submitter, paid models.PaymentStatus) (models.Order, bool, error) {
	order, created, err := s.CreateOrder(ctx, paid)
	if err != nil || !created || sub == nil {
		return order, created, err
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()
		SubmitOrder(ctx, sub, order)
	}()
	return order, true, nil
}
