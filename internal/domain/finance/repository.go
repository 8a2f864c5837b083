package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Ethics03/shiv-odoo/internal/domain/identity"
)

// AccountFilter narrows chart-of-accounts listings
type AccountFilter struct {
	Kind       *AccountKind
	ActiveOnly bool
	Search     string
}

// ChartAccountRepository provides access to the chart of accounts
type ChartAccountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ChartAccount, error)
	FindByCode(ctx context.Context, code string) (*ChartAccount, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	FindAll(ctx context.Context, filter AccountFilter) ([]*ChartAccount, error)
	FindActiveChildren(ctx context.Context, parentID uuid.UUID) ([]*ChartAccount, error)
	Save(ctx context.Context, account *ChartAccount) error
	// SaveWithLock persists the aggregate only if the stored version
	// matches the previous one, returning a concurrency conflict otherwise.
	SaveWithLock(ctx context.Context, account *ChartAccount) error
}

// PostingRepository provides access to ledger entries
type PostingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Posting, error)
	FindByAccount(ctx context.Context, accountID uuid.UUID, from, to *time.Time) ([]*Posting, error)
	FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*Posting, error)
	FindByBill(ctx context.Context, billID uuid.UUID) ([]*Posting, error)
	SumByAccount(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error)
	Save(ctx context.Context, posting *Posting) error
	// NextPaymentNumber issues the next PAY-YYYYMMDD-NNN sequence
	// number for the given date.
	NextPaymentNumber(ctx context.Context, date time.Time) (string, error)
}

// InvoiceRepository provides access to customer invoices
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CustomerInvoice, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*CustomerInvoice, error)
	FindByNumber(ctx context.Context, number string) (*CustomerInvoice, error)
	// FindOutstanding returns unpaid documents ordered by due date
	FindOutstanding(ctx context.Context) ([]*CustomerInvoice, error)
	Save(ctx context.Context, invoice *CustomerInvoice) error
	SaveWithLock(ctx context.Context, invoice *CustomerInvoice) error
}

// BillRepository provides access to vendor bills
type BillRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*VendorBill, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*VendorBill, error)
	FindByNumber(ctx context.Context, number string) (*VendorBill, error)
	FindOutstanding(ctx context.Context) ([]*VendorBill, error)
	Save(ctx context.Context, bill *VendorBill) error
	SaveWithLock(ctx context.Context, bill *VendorBill) error
}

// GatewayOrderRepository provides access to local order mirrors
type GatewayOrderRepository interface {
	FindByExternalID(ctx context.Context, externalID string) (*GatewayOrder, error)
	FindLiveByInvoice(ctx context.Context, invoiceID uuid.UUID) (*GatewayOrder, error)
	FindByInvoiceIDs(ctx context.Context, invoiceIDs []uuid.UUID) ([]*GatewayOrder, error)
	FindByBillIDs(ctx context.Context, billIDs []uuid.UUID) ([]*GatewayOrder, error)
	Save(ctx context.Context, order *GatewayOrder) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteByStatus removes all mirrors in the given gateway status,
	// returning how many were deleted.
	DeleteByStatus(ctx context.Context, status string) (int64, error)
}

// SettlementRepository provides access to settlement records
type SettlementRepository interface {
	FindByExternalPayment(ctx context.Context, externalOrderID, externalPaymentID string) (*Settlement, error)
	Save(ctx context.Context, settlement *Settlement) error
}

// ContactRepository provides access to contacts
type ContactRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Contact, error)
	Save(ctx context.Context, contact *Contact) error
}

// GatewayCustomerRepository provides access to gateway customer mappings
type GatewayCustomerRepository interface {
	FindByContact(ctx context.Context, contactID uuid.UUID) (*GatewayCustomer, error)
	Save(ctx context.Context, customer *GatewayCustomer) error
}

// Repositories bundles every repository over one database handle, so a
// unit of work can hand services a transaction-scoped set.
type Repositories interface {
	Accounts() ChartAccountRepository
	Postings() PostingRepository
	Invoices() InvoiceRepository
	Bills() BillRepository
	Orders() GatewayOrderRepository
	Settlements() SettlementRepository
	Contacts() ContactRepository
	GatewayCustomers() GatewayCustomerRepository
	Users() identity.UserRepository
}

// UnitOfWork runs fn inside a database transaction. Every repository
// obtained from repos inside fn shares that transaction; an error
// rolls everything back.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}
