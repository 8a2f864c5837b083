package finance

import (
	"strings"

	"github.com/google/uuid"

	"github.com/Ethics03/shiv-odoo/internal/domain/shared"
)

// ContactType classifies a business partner
type ContactType string

const (
	ContactCustomer ContactType = "CUSTOMER"
	ContactVendor   ContactType = "VENDOR"
	ContactBoth     ContactType = "BOTH"
)

// Contact is a customer or vendor referenced by documents and orders
type Contact struct {
	shared.BaseEntity
	Name  string
	Email string
	Phone string
	Type  ContactType
}

// NewContact creates a new contact
func NewContact(name, email, phone string, contactType ContactType) (*Contact, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidInput, "contact name is required")
	}
	if contactType != ContactCustomer && contactType != ContactVendor && contactType != ContactBoth {
		return nil, shared.NewDomainErrorf(shared.ErrCodeInvalidInput, "invalid contact type: %s", contactType)
	}
	return &Contact{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Email:      strings.TrimSpace(email),
		Phone:      strings.TrimSpace(phone),
		Type:       contactType,
	}, nil
}

// GatewayCustomer maps a contact to its customer record at the payment
// gateway. One mapping per contact; the gateway customer is created
// lazily on the first order.
type GatewayCustomer struct {
	shared.BaseEntity
	ContactID  uuid.UUID
	ExternalID string
}

// NewGatewayCustomer records a gateway-side customer for a contact
func NewGatewayCustomer(contactID uuid.UUID, externalID string) (*GatewayCustomer, error) {
	if contactID == uuid.Nil {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidInput, "contact is required")
	}
	if strings.TrimSpace(externalID) == "" {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidInput, "gateway customer id is required")
	}
	return &GatewayCustomer{
		BaseEntity: shared.NewBaseEntity(),
		ContactID:  contactID,
		ExternalID: externalID,
	}, nil
}
