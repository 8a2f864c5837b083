package finance

import (
	"context"

	"github.com/Ethics03/shiv-odoo/internal/domain/shared"
)

// Gateway error codes
const (
	ErrCodeInvalidSignature   = "INVALID_SIGNATURE"
	ErrCodeGatewayUnavailable = "GATEWAY_UNAVAILABLE"
)

// Sentinel gateway errors. Adapters wrap these so services can map
// them without knowing which gateway is behind the port.
var (
	ErrInvalidSignature   = shared.NewDomainError(ErrCodeInvalidSignature, "payment signature verification failed")
	ErrGatewayUnavailable = shared.NewDomainError(ErrCodeGatewayUnavailable, "payment gateway unavailable")
)

// CreateOrderRequest asks the gateway to open an order for payment.
// Amounts are in the currency's minor unit (paise for INR).
type CreateOrderRequest struct {
	AmountPaise int64
	Currency    string
	Receipt     string
	Notes       map[string]string
}

// GatewayOrderResult is the gateway's view of an order
type GatewayOrderResult struct {
	ExternalID      string
	AmountPaise     int64
	AmountPaidPaise int64
	Currency        string
	Status          string
	Receipt         string
	Notes           map[string]string
}

// CustomerRequest registers a payer at the gateway
type CustomerRequest struct {
	Name    string
	Email   string
	Contact string
}

// GatewayCustomerResult identifies a customer at the gateway
type GatewayCustomerResult struct {
	ExternalID string
}

// PaymentGateway is the outbound port to the payment provider
type PaymentGateway interface {
	// CreateOrder opens a new order at the gateway
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*GatewayOrderResult, error)

	// FetchOrder retrieves an order, including its notes, by gateway id
	FetchOrder(ctx context.Context, externalID string) (*GatewayOrderResult, error)

	// CreateCustomer registers a customer at the gateway
	CreateCustomer(ctx context.Context, req *CustomerRequest) (*GatewayCustomerResult, error)

	// VerifySignature checks the HMAC signature the gateway attaches to
	// completed payments. Returns ErrInvalidSignature on mismatch.
	VerifySignature(externalOrderID, externalPaymentID, signature string) error
}
