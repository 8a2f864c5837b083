package dto

import (
	"net/http"

	domain "github.com/Ethics03/shiv-odoo/internal/domain/finance"
	"github.com/Ethics03/shiv-odoo/internal/domain/shared"
)

// ErrCodeBadRequest marks malformed requests rejected before they
// reach the application layer.
const ErrCodeBadRequest = "BAD_REQUEST"

// errorCodeHTTPStatus maps domain error codes to HTTP status codes
var errorCodeHTTPStatus = map[string]int{
	shared.ErrCodeNotFound:            http.StatusNotFound,
	shared.ErrCodeInvalidInput:        http.StatusBadRequest,
	shared.ErrCodeInvalidState:        http.StatusUnprocessableEntity,
	shared.ErrCodeConcurrencyConflict: http.StatusConflict,
	shared.ErrCodeInvariantViolation:  http.StatusInternalServerError,
	shared.ErrCodeInternal:            http.StatusInternalServerError,

	domain.ErrCodeDuplicateCode:          http.StatusConflict,
	domain.ErrCodeInvalidParent:          http.StatusUnprocessableEntity,
	domain.ErrCodeSelfParent:             http.StatusUnprocessableEntity,
	domain.ErrCodeHasActiveChildren:      http.StatusConflict,
	domain.ErrCodeMissingRequiredAccount: http.StatusUnprocessableEntity,
	domain.ErrCodeNoPayableDocuments:     http.StatusUnprocessableEntity,
	domain.ErrCodeInvoiceAlreadyPaid:     http.StatusUnprocessableEntity,
	domain.ErrCodeBillAlreadyPaid:        http.StatusUnprocessableEntity,
	domain.ErrCodeInvalidSignature:       http.StatusUnauthorized,
	domain.ErrCodeGatewayUnavailable:     http.StatusBadGateway,

	ErrCodeBadRequest: http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status for a domain error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
