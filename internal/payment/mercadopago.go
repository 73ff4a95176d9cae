package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"gravity_back_end/internal/models"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	mppayment "github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/shopspring/decimal"
)

const maxResponseBytes = 1 << 20

// MercadoPago passe par le SDK officiel ; le transport impose la clé
// d'idempotence de l'appelant et garde le corps brut des réponses.
type MercadoPago struct {
	client              mppayment.Client
	statementDescriptor string
	now                 func() time.Time
}

// NewMercadoPago : baseURL remplace l'hôte de l'API (sandbox, tests)
func NewMercadoPago(baseURL, accessToken, statementDescriptor string, timeout time.Duration) *MercadoPago {
	mp := &MercadoPago{statementDescriptor: statementDescriptor, now: time.Now}
	if accessToken == "" {
		return mp
	}

	transport := &mpTransport{client: &http.Client{Timeout: timeout}}
	if u, err := url.Parse(baseURL); err == nil && u.Host != "" {
		transport.base = u
	}

	cfg, err := mpconfig.New(accessToken, mpconfig.WithHTTPClient(transport))
	if err != nil {
		return mp
	}
	mp.client = mppayment.NewClient(cfg)
	return mp
}

func (m *MercadoPago) Name() string { return "mercadopago" }

func (m *MercadoPago) request(req models.PaymentRequest) mppayment.Request {
	installments := req.Installments
	if installments <= 0 {
		installments = 1
	}
	externalRef := req.ExternalReference
	if externalRef == "" {
		externalRef = strconv.FormatInt(m.now().UnixMilli(), 10)
	}
	description := req.Description
	if description == "" {
		description = "Compra en Gravity"
	}

	out := mppayment.Request{
		Token:               req.Token,
		TransactionAmount:   req.TransactionAmount.InexactFloat64(),
		Installments:        installments,
		PaymentMethodID:     req.PaymentMethodID,
		IssuerID:            req.IssuerID,
		Description:         description,
		ExternalReference:   externalRef,
		ThreeDSecureMode:    "optional",
		StatementDescriptor: m.statementDescriptor,
	}
	if req.Payer != nil {
		out.Payer = &mppayment.PayerRequest{
			Email:     req.Payer.Email,
			FirstName: req.Payer.FirstName,
			LastName:  req.Payer.LastName,
		}
		if id := req.Payer.Identification; id != nil {
			out.Payer.Identification = &mppayment.IdentificationRequest{Type: id.Type, Number: id.Number}
		}
	}
	if len(req.Metadata) > 0 {
		out.Metadata = make(map[string]any, len(req.Metadata))
		for k, v := range req.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

func (m *MercadoPago) CreatePayment(ctx context.Context, req models.PaymentRequest, idempotencyKey string) (*Result, error) {
	if m.client == nil {
		return nil, ErrGatewayDisabled
	}

	call := &mpCall{idempotencyKey: idempotencyKey}
	res, err := m.client.Create(context.WithValue(ctx, mpCallKey{}, call), m.request(req))
	if err != nil {
		return nil, call.err(err)
	}

	return &Result{
		ID:           strconv.Itoa(res.ID),
		Status:       res.Status,
		StatusDetail: res.StatusDetail,
		Amount:       decimal.NewFromFloat(res.TransactionAmount),
		Raw:          call.body,
	}, nil
}

func (m *MercadoPago) GetPayment(ctx context.Context, id string) (*models.PaymentStatus, error) {
	if m.client == nil {
		return nil, ErrGatewayDisabled
	}
	n, err := strconv.Atoi(id)
	if err != nil {
		return nil, &APIError{StatusCode: http.StatusNotFound, Message: "Payment not found"}
	}

	call := &mpCall{}
	res, err := m.client.Get(context.WithValue(ctx, mpCallKey{}, call), n)
	if err != nil {
		return nil, call.err(err)
	}

	st := &models.PaymentStatus{
		ID:           strconv.Itoa(res.ID),
		Status:       res.Status,
		StatusDetail: res.StatusDetail,
		Amount:       decimal.NewFromFloat(res.TransactionAmount),
	}
	if ref, ok := res.Metadata["checkout_session"].(string); ok {
		st.SessionRef = ref
	}
	return st, nil
}

type mpCallKey struct{}

// mpCall relie un appel du SDK à sa requête HTTP
type mpCall struct {
	idempotencyKey string
	status         int
	body           []byte
}

// err convertit une réponse hors 2xx en *APIError portant le corps de la passerelle
func (c *mpCall) err(sdkErr error) error {
	if c.status == 0 || (c.status >= 200 && c.status <= 299) {
		return fmt.Errorf("appel Mercado Pago: %w", sdkErr)
	}

	apiErr := &APIError{StatusCode: c.status, Message: http.StatusText(c.status)}
	if json.Valid(c.body) {
		apiErr.Body = c.body
		var parsed struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(c.body, &parsed) == nil && parsed.Message != "" {
			apiErr.Message = parsed.Message
		}
	}
	return apiErr
}

// mpTransport implémente le requester du SDK
type mpTransport struct {
	base   *url.URL
	client *http.Client
}

func (t *mpTransport) Do(req *http.Request) (*http.Response, error) {
	if t.base != nil {
		req.URL.Scheme = t.base.Scheme
		req.URL.Host = t.base.Host
		req.Host = ""
	}

	call, _ := req.Context().Value(mpCallKey{}).(*mpCall)
	if call != nil && call.idempotencyKey != "" {
		req.Header.Set("X-Idempotency-Key", call.idempotencyKey)
	}

	res, err := t.client.Do(req)
	if err != nil || call == nil {
		return res, err
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	res.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("lecture réponse Mercado Pago: %w", err)
	}
	call.status, call.body = res.StatusCode, body
	res.Body = io.NopCloser(bytes.NewReader(body))
	return res, nil
}
