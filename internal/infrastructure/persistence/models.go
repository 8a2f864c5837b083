package persistence

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domain "github.com/Ethics03/shiv-odoo/internal/domain/finance"
	"github.com/Ethics03/shiv-odoo/internal/domain/identity"
	"github.com/Ethics03/shiv-odoo/internal/domain/shared"
)

// AllModels lists every model for schema migration
func AllModels() []any {
	return []any{
		&AccountModel{},
		&PostingModel{},
		&InvoiceModel{},
		&BillModel{},
		&GatewayOrderModel{},
		&SettlementModel{},
		&ContactModel{},
		&GatewayCustomerModel{},
		&UserModel{},
	}
}

// AccountModel is the persistence shape of ChartAccount
type AccountModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Code           string          `gorm:"size:32;uniqueIndex;not null"`
	Name           string          `gorm:"size:255;not null"`
	Kind           string          `gorm:"size:16;not null;index"`
	ParentID       *uuid.UUID      `gorm:"type:uuid;index"`
	OpeningBalance decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Active         bool            `gorm:"not null;default:true;index"`
	CreatedBy      uuid.UUID       `gorm:"type:uuid"`
	Version        int             `gorm:"not null;default:1"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName overrides the table name
func (AccountModel) TableName() string { return "chart_accounts" }

// ToDomain converts the model to a domain aggregate
func (m *AccountModel) ToDomain() *domain.ChartAccount {
	return &domain.ChartAccount{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
			Version:    m.Version,
		},
		Code:           m.Code,
		Name:           m.Name,
		Kind:           domain.AccountKind(m.Kind),
		ParentID:       m.ParentID,
		OpeningBalance: m.OpeningBalance,
		Active:         m.Active,
		CreatedBy:      m.CreatedBy,
	}
}

// AccountModelFromDomain converts a domain aggregate to its model
func AccountModelFromDomain(a *domain.ChartAccount) *AccountModel {
	return &AccountModel{
		ID:             a.ID,
		Code:           a.Code,
		Name:           a.Name,
		Kind:           string(a.Kind),
		ParentID:       a.ParentID,
		OpeningBalance: a.OpeningBalance,
		Active:         a.Active,
		CreatedBy:      a.CreatedBy,
		Version:        a.Version,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// PostingModel is the persistence shape of Posting
type PostingModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SequenceNumber string          `gorm:"size:64;uniqueIndex;not null"`
	Kind           string          `gorm:"size:16;not null"`
	Amount         decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	AccountID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ContactID      *uuid.UUID      `gorm:"type:uuid;index"`
	InvoiceID      *uuid.UUID      `gorm:"type:uuid;index"`
	BillID         *uuid.UUID      `gorm:"type:uuid;index"`
	Status         string          `gorm:"size:16;not null"`
	Method         string          `gorm:"size:16;not null"`
	Reference      string          `gorm:"size:255"`
	Notes          string          `gorm:"type:text"`
	CreatedBy      uuid.UUID       `gorm:"type:uuid"`
	CreatedAt      time.Time       `gorm:"index"`
	UpdatedAt      time.Time
}

// TableName overrides the table name
func (PostingModel) TableName() string { return "postings" }

// ToDomain converts the model to a domain entity
func (m *PostingModel) ToDomain() *domain.Posting {
	return &domain.Posting{
		BaseEntity:     shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		SequenceNumber: m.SequenceNumber,
		Kind:           domain.PostingKind(m.Kind),
		Amount:         m.Amount,
		AccountID:      m.AccountID,
		ContactID:      m.ContactID,
		InvoiceID:      m.InvoiceID,
		BillID:         m.BillID,
		Status:         domain.PostingStatus(m.Status),
		Method:         domain.PaymentMethod(m.Method),
		Reference:      m.Reference,
		Notes:          m.Notes,
		CreatedBy:      m.CreatedBy,
	}
}

// PostingModelFromDomain converts a domain entity to its model
func PostingModelFromDomain(p *domain.Posting) *PostingModel {
	return &PostingModel{
		ID:             p.ID,
		SequenceNumber: p.SequenceNumber,
		Kind:           string(p.Kind),
		Amount:         p.Amount,
		AccountID:      p.AccountID,
		ContactID:      p.ContactID,
		InvoiceID:      p.InvoiceID,
		BillID:         p.BillID,
		Status:         string(p.Status),
		Method:         string(p.Method),
		Reference:      p.Reference,
		Notes:          p.Notes,
		CreatedBy:      p.CreatedBy,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// InvoiceModel is the persistence shape of CustomerInvoice
type InvoiceModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	InvoiceNumber  string          `gorm:"size:64;uniqueIndex;not null"`
	CustomerID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	InvoiceDate    time.Time       `gorm:"not null"`
	DueDate        time.Time       `gorm:"not null;index"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	ReceivedAmount decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Status         string          `gorm:"size:20;not null;index"`
	Notes          string          `gorm:"type:text"`
	CreatedBy      uuid.UUID       `gorm:"type:uuid"`
	Version        int             `gorm:"not null;default:1"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName overrides the table name
func (InvoiceModel) TableName() string { return "customer_invoices" }

// ToDomain converts the model to a domain aggregate
func (m *InvoiceModel) ToDomain() *domain.CustomerInvoice {
	return &domain.CustomerInvoice{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
			Version:    m.Version,
		},
		InvoiceNumber:  m.InvoiceNumber,
		CustomerID:     m.CustomerID,
		InvoiceDate:    m.InvoiceDate,
		DueDate:        m.DueDate,
		TotalAmount:    m.TotalAmount,
		TaxAmount:      m.TaxAmount,
		ReceivedAmount: m.ReceivedAmount,
		Status:         domain.DocumentStatus(m.Status),
		Notes:          m.Notes,
		CreatedBy:      m.CreatedBy,
	}
}

// InvoiceModelFromDomain converts a domain aggregate to its model
func InvoiceModelFromDomain(i *domain.CustomerInvoice) *InvoiceModel {
	return &InvoiceModel{
		ID:             i.ID,
		InvoiceNumber:  i.InvoiceNumber,
		CustomerID:     i.CustomerID,
		InvoiceDate:    i.InvoiceDate,
		DueDate:        i.DueDate,
		TotalAmount:    i.TotalAmount,
		TaxAmount:      i.TaxAmount,
		ReceivedAmount: i.ReceivedAmount,
		Status:         string(i.Status),
		Notes:          i.Notes,
		CreatedBy:      i.CreatedBy,
		Version:        i.Version,
		CreatedAt:      i.CreatedAt,
		UpdatedAt:      i.UpdatedAt,
	}
}

// BillModel is the persistence shape of VendorBill
type BillModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BillNumber  string          `gorm:"size:64;uniqueIndex;not null"`
	VendorID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	BillDate    time.Time       `gorm:"not null"`
	DueDate     time.Time       `gorm:"not null;index"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	TaxAmount   decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	PaidAmount  decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Status      string          `gorm:"size:20;not null;index"`
	Notes       string          `gorm:"type:text"`
	CreatedBy   uuid.UUID       `gorm:"type:uuid"`
	Version     int             `gorm:"not null;default:1"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName overrides the table name
func (BillModel) TableName() string { return "vendor_bills" }

// ToDomain converts the model to a domain aggregate
func (m *BillModel) ToDomain() *domain.VendorBill {
	return &domain.VendorBill{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
			Version:    m.Version,
		},
		BillNumber:  m.BillNumber,
		VendorID:    m.VendorID,
		BillDate:    m.BillDate,
		DueDate:     m.DueDate,
		TotalAmount: m.TotalAmount,
		TaxAmount:   m.TaxAmount,
		PaidAmount:  m.PaidAmount,
		Status:      domain.DocumentStatus(m.Status),
		Notes:       m.Notes,
		CreatedBy:   m.CreatedBy,
	}
}

// BillModelFromDomain converts a domain aggregate to its model
func BillModelFromDomain(b *domain.VendorBill) *BillModel {
	return &BillModel{
		ID:          b.ID,
		BillNumber:  b.BillNumber,
		VendorID:    b.VendorID,
		BillDate:    b.BillDate,
		DueDate:     b.DueDate,
		TotalAmount: b.TotalAmount,
		TaxAmount:   b.TaxAmount,
		PaidAmount:  b.PaidAmount,
		Status:      string(b.Status),
		Notes:       b.Notes,
		CreatedBy:   b.CreatedBy,
		Version:     b.Version,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// GatewayOrderModel is the persistence shape of GatewayOrder
type GatewayOrderModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ExternalID  string     `gorm:"size:64;uniqueIndex;not null"`
	AmountPaise int64      `gorm:"not null"`
	Currency    string     `gorm:"size:8;not null"`
	Receipt     string     `gorm:"size:128"`
	Status      string     `gorm:"size:16;not null;index"`
	Kind        string     `gorm:"size:20;not null"`
	InvoiceID   *uuid.UUID `gorm:"type:uuid;index"`
	BillID      *uuid.UUID `gorm:"type:uuid;index"`
	CustomerRef string     `gorm:"size:64"`
	CreatedBy   uuid.UUID  `gorm:"type:uuid"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName overrides the table name
func (GatewayOrderModel) TableName() string { return "gateway_orders" }

// ToDomain converts the model to a domain entity
func (m *GatewayOrderModel) ToDomain() *domain.GatewayOrder {
	return &domain.GatewayOrder{
		BaseEntity:  shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ExternalID:  m.ExternalID,
		AmountPaise: m.AmountPaise,
		Currency:    m.Currency,
		Receipt:     m.Receipt,
		Status:      m.Status,
		Kind:        domain.OrderKind(m.Kind),
		InvoiceID:   m.InvoiceID,
		BillID:      m.BillID,
		CustomerRef: m.CustomerRef,
		CreatedBy:   m.CreatedBy,
	}
}

// GatewayOrderModelFromDomain converts a domain entity to its model
func GatewayOrderModelFromDomain(o *domain.GatewayOrder) *GatewayOrderModel {
	return &GatewayOrderModel{
		ID:          o.ID,
		ExternalID:  o.ExternalID,
		AmountPaise: o.AmountPaise,
		Currency:    o.Currency,
		Receipt:     o.Receipt,
		Status:      o.Status,
		Kind:        string(o.Kind),
		InvoiceID:   o.InvoiceID,
		BillID:      o.BillID,
		CustomerRef: o.CustomerRef,
		CreatedBy:   o.CreatedBy,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

// SettlementModel is the persistence shape of Settlement. The
// composite unique index makes settlement the idempotency anchor for
// gateway callbacks.
type SettlementModel struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PaymentNumber     string          `gorm:"size:32;uniqueIndex;not null"`
	ExternalOrderID   string          `gorm:"size:64;not null;uniqueIndex:idx_settlements_external_payment"`
	ExternalPaymentID string          `gorm:"size:64;not null;uniqueIndex:idx_settlements_external_payment"`
	Amount            decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	DocumentType      string          `gorm:"size:8;not null"`
	DocumentIDs       string          `gorm:"type:text;not null"`
	PostingID         *uuid.UUID      `gorm:"type:uuid"`
	CreatedBy         uuid.UUID       `gorm:"type:uuid"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName overrides the table name
func (SettlementModel) TableName() string { return "settlements" }

// ToDomain converts the model to a domain entity
func (m *SettlementModel) ToDomain() (*domain.Settlement, error) {
	ids, err := domain.SplitIDs(m.DocumentIDs)
	if err != nil {
		return nil, err
	}
	return &domain.Settlement{
		BaseEntity:        shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		PaymentNumber:     m.PaymentNumber,
		ExternalOrderID:   m.ExternalOrderID,
		ExternalPaymentID: m.ExternalPaymentID,
		Amount:            m.Amount,
		DocumentType:      domain.DocumentType(m.DocumentType),
		DocumentIDs:       ids,
		PostingID:         m.PostingID,
		CreatedBy:         m.CreatedBy,
	}, nil
}

// SettlementModelFromDomain converts a domain entity to its model
func SettlementModelFromDomain(s *domain.Settlement) *SettlementModel {
	return &SettlementModel{
		ID:                s.ID,
		PaymentNumber:     s.PaymentNumber,
		ExternalOrderID:   s.ExternalOrderID,
		ExternalPaymentID: s.ExternalPaymentID,
		Amount:            s.Amount,
		DocumentType:      string(s.DocumentType),
		DocumentIDs:       domain.JoinIDs(s.DocumentIDs),
		PostingID:         s.PostingID,
		CreatedBy:         s.CreatedBy,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

// ContactModel is the persistence shape of Contact
type ContactModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:255;not null"`
	Email     string    `gorm:"size:255"`
	Phone     string    `gorm:"size:32"`
	Type      string    `gorm:"size:16;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the table name
func (ContactModel) TableName() string { return "contacts" }

// ToDomain converts the model to a domain entity
func (m *ContactModel) ToDomain() *domain.Contact {
	return &domain.Contact{
		BaseEntity: shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		Name:       m.Name,
		Email:      m.Email,
		Phone:      m.Phone,
		Type:       domain.ContactType(m.Type),
	}
}

// ContactModelFromDomain converts a domain entity to its model
func ContactModelFromDomain(c *domain.Contact) *ContactModel {
	return &ContactModel{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Type:      string(c.Type),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// GatewayCustomerModel is the persistence shape of GatewayCustomer
type GatewayCustomerModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ContactID  uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	ExternalID string    `gorm:"size:64;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName overrides the table name
func (GatewayCustomerModel) TableName() string { return "gateway_customers" }

// ToDomain converts the model to a domain entity
func (m *GatewayCustomerModel) ToDomain() *domain.GatewayCustomer {
	return &domain.GatewayCustomer{
		BaseEntity: shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ContactID:  m.ContactID,
		ExternalID: m.ExternalID,
	}
}

// GatewayCustomerModelFromDomain converts a domain entity to its model
func GatewayCustomerModelFromDomain(c *domain.GatewayCustomer) *GatewayCustomerModel {
	return &GatewayCustomerModel{
		ID:         c.ID,
		ContactID:  c.ContactID,
		ExternalID: c.ExternalID,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// UserModel is the persistence shape of identity.User
type UserModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email     string    `gorm:"size:255;uniqueIndex;not null"`
	Name      string    `gorm:"size:255;not null"`
	Role      string    `gorm:"size:20;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the table name
func (UserModel) TableName() string { return "users" }

// ToDomain converts the model to a domain entity
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseEntity: shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		Email:      m.Email,
		Name:       m.Name,
		Role:       identity.Role(m.Role),
	}
}

// UserModelFromDomain converts a domain entity to its model
func UserModelFromDomain(u *identity.User) *UserModel {
	return &UserModel{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
