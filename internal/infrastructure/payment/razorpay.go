package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	domain "github.com/Ethics03/shiv-odoo/internal/domain/finance"
)

const defaultBaseURL = "https://api.razorpay.com"

// Config holds Razorpay API credentials and client settings
type Config struct {
	BaseURL   string
	KeyID     string
	KeySecret string
	Timeout   time.Duration
}

// RazorpayGateway implements the payment gateway port against the
// Razorpay REST API using key id / key secret basic auth.
type RazorpayGateway struct {
	baseURL   string
	keyID     string
	keySecret string
	client    *http.Client
	logger    *zap.Logger
}

// NewRazorpayGateway creates a Razorpay-backed gateway adapter
func NewRazorpayGateway(cfg Config, logger *zap.Logger) *RazorpayGateway {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RazorpayGateway{
		baseURL:   baseURL,
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
	}
}

type orderPayload struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type orderResponse struct {
	ID         string            `json:"id"`
	Amount     int64             `json:"amount"`
	AmountPaid int64             `json:"amount_paid"`
	Currency   string            `json:"currency"`
	Receipt    string            `json:"receipt"`
	Status     string            `json:"status"`
	Notes      map[string]string `json:"notes"`
}

type customerPayload struct {
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
	Contact      string `json:"contact,omitempty"`
	FailExisting string `json:"fail_existing"`
}

type customerResponse struct {
	ID string `json:"id"`
}

// CreateOrder opens a new order at Razorpay
func (g *RazorpayGateway) CreateOrder(ctx context.Context, req *domain.CreateOrderRequest) (*domain.GatewayOrderResult, error) {
	payload := orderPayload{
		Amount:   req.AmountPaise,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Notes:    req.Notes,
	}
	var resp orderResponse
	if err := g.do(ctx, http.MethodPost, "/v1/orders", payload, &resp); err != nil {
		return nil, err
	}
	g.logger.Debug("gateway order created",
		zap.String("external_id", resp.ID),
		zap.Int64("amount_paise", resp.Amount))
	return toOrderResult(&resp), nil
}

// FetchOrder retrieves an order by its Razorpay id
func (g *RazorpayGateway) FetchOrder(ctx context.Context, externalID string) (*domain.GatewayOrderResult, error) {
	var resp orderResponse
	path := fmt.Sprintf("/v1/orders/%s", externalID)
	if err := g.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return toOrderResult(&resp), nil
}

// CreateCustomer registers a customer at Razorpay. fail_existing=0 makes
// the call return the existing customer instead of erroring on a
// duplicate email.
func (g *RazorpayGateway) CreateCustomer(ctx context.Context, req *domain.CustomerRequest) (*domain.GatewayCustomerResult, error) {
	payload := customerPayload{
		Name:         req.Name,
		Email:        req.Email,
		Contact:      req.Contact,
		FailExisting: "0",
	}
	var resp customerResponse
	if err := g.do(ctx, http.MethodPost, "/v1/customers", payload, &resp); err != nil {
		return nil, err
	}
	return &domain.GatewayCustomerResult{ExternalID: resp.ID}, nil
}

// VerifySignature checks the payment signature Razorpay sends with a
// completed payment: hex HMAC-SHA256 over "<orderId>|<paymentId>"
// keyed with the API secret.
func (g *RazorpayGateway) VerifySignature(externalOrderID, externalPaymentID, signature string) error {
	mac := hmac.New(sha256.New, []byte(g.keySecret))
	mac.Write([]byte(externalOrderID + "|" + externalPaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return domain.ErrInvalidSignature
	}
	return nil
}

func (g *RazorpayGateway) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode gateway request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build gateway request: %w", err)
	}
	req.SetBasicAuth(g.keyID, g.keySecret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: read response: %v", domain.ErrGatewayUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		g.logger.Warn("gateway request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return fmt.Errorf("%w: %s %s returned %d", domain.ErrGatewayUnavailable, method, path, resp.StatusCode)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrGatewayUnavailable, err)
	}
	return nil
}

func toOrderResult(resp *orderResponse) *domain.GatewayOrderResult {
	return &domain.GatewayOrderResult{
		ExternalID:      resp.ID,
		AmountPaise:     resp.Amount,
		AmountPaidPaise: resp.AmountPaid,
		Currency:        resp.Currency,
		Status:          resp.Status,
		Receipt:         resp.Receipt,
		Notes:           resp.Notes,
	}
}
