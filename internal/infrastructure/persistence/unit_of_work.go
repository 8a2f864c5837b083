package persistence

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/Ethics03/shiv-odoo/internal/domain/finance"
	"github.com/Ethics03/shiv-odoo/internal/domain/identity"
)

// RepositorySet bundles all repositories over one gorm handle. The
// same type serves both the plain database handle and a transaction.
type RepositorySet struct {
	accounts    *AccountRepository
	postings    *PostingRepository
	invoices    *InvoiceRepository
	bills       *BillRepository
	orders      *GatewayOrderRepository
	settlements *SettlementRepository
	contacts    *ContactRepository
	gwCustomers *GatewayCustomerRepository
	users       *UserRepository
}

// NewRepositorySet builds the repository set over a gorm handle
func NewRepositorySet(db *gorm.DB) *RepositorySet {
	return &RepositorySet{
		accounts:    NewAccountRepository(db),
		postings:    NewPostingRepository(db),
		invoices:    NewInvoiceRepository(db),
		bills:       NewBillRepository(db),
		orders:      NewGatewayOrderRepository(db),
		settlements: NewSettlementRepository(db),
		contacts:    NewContactRepository(db),
		gwCustomers: NewGatewayCustomerRepository(db),
		users:       NewUserRepository(db),
	}
}

func (s *RepositorySet) Accounts() domain.ChartAccountRepository       { return s.accounts }
func (s *RepositorySet) Postings() domain.PostingRepository            { return s.postings }
func (s *RepositorySet) Invoices() domain.InvoiceRepository            { return s.invoices }
func (s *RepositorySet) Bills() domain.BillRepository                  { return s.bills }
func (s *RepositorySet) Orders() domain.GatewayOrderRepository         { return s.orders }
func (s *RepositorySet) Settlements() domain.SettlementRepository      { return s.settlements }
func (s *RepositorySet) Contacts() domain.ContactRepository            { return s.contacts }
func (s *RepositorySet) GatewayCustomers() domain.GatewayCustomerRepository {
	return s.gwCustomers
}
func (s *RepositorySet) Users() identity.UserRepository { return s.users }

var _ domain.Repositories = (*RepositorySet)(nil)

// UnitOfWork runs functions inside gorm transactions, giving them a
// transaction-scoped repository set.
type UnitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork creates a unit of work over the database handle
func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// Execute runs fn in a transaction; an error rolls everything back
func (u *UnitOfWork) Execute(ctx context.Context, fn func(repos domain.Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositorySet(tx))
	})
}

var _ domain.UnitOfWork = (*UnitOfWork)(nil)
