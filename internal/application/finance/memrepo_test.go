package finance

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	domain "github.com/Ethics03/shiv-odoo/internal/domain/finance"
	"github.com/Ethics03/shiv-odoo/internal/domain/identity"
	"github.com/Ethics03/shiv-odoo/internal/domain/shared"
)

// memRepos is an in-memory repository set backing service tests. Save
// paths record the persisted aggregate version so SaveWithLock can
// detect lost updates the same way the SQL implementation does.
type memRepos struct {
	mu sync.Mutex

	accounts    map[uuid.UUID]*domain.ChartAccount
	postings    []*domain.Posting
	invoices    map[uuid.UUID]*domain.CustomerInvoice
	bills       map[uuid.UUID]*domain.VendorBill
	orders      map[uuid.UUID]*domain.GatewayOrder
	settlements map[string]*domain.Settlement
	contacts    map[uuid.UUID]*domain.Contact
	gwCustomers map[uuid.UUID]*domain.GatewayCustomer
	users       map[uuid.UUID]*identity.User

	savedVersions map[uuid.UUID]int
}

func newMemRepos() *memRepos {
	return &memRepos{
		accounts:      make(map[uuid.UUID]*domain.ChartAccount),
		invoices:      make(map[uuid.UUID]*domain.CustomerInvoice),
		bills:         make(map[uuid.UUID]*domain.VendorBill),
		orders:        make(map[uuid.UUID]*domain.GatewayOrder),
		settlements:   make(map[string]*domain.Settlement),
		contacts:      make(map[uuid.UUID]*domain.Contact),
		gwCustomers:   make(map[uuid.UUID]*domain.GatewayCustomer),
		users:         make(map[uuid.UUID]*identity.User),
		savedVersions: make(map[uuid.UUID]int),
	}
}

func (m *memRepos) Accounts() domain.ChartAccountRepository         { return (*memAccounts)(m) }
func (m *memRepos) Postings() domain.PostingRepository              { return (*memPostings)(m) }
func (m *memRepos) Invoices() domain.InvoiceRepository              { return (*memInvoices)(m) }
func (m *memRepos) Bills() domain.BillRepository                    { return (*memBills)(m) }
func (m *memRepos) Orders() domain.GatewayOrderRepository           { return (*memOrders)(m) }
func (m *memRepos) Settlements() domain.SettlementRepository        { return (*memSettlements)(m) }
func (m *memRepos) Contacts() domain.ContactRepository              { return (*memContacts)(m) }
func (m *memRepos) GatewayCustomers() domain.GatewayCustomerRepository { return (*memGatewayCustomers)(m) }
func (m *memRepos) Users() identity.UserRepository                  { return (*memUsers)(m) }

// memUoW runs the function directly against the shared store
type memUoW struct{ repos *memRepos }

func (u *memUoW) Execute(_ context.Context, fn func(domain.Repositories) error) error {
	return fn(u.repos)
}

func (m *memRepos) checkLock(id uuid.UUID, version int) error {
	stored, ok := m.savedVersions[id]
	if !ok || stored != version-1 {
		return shared.NewConcurrencyConflictError("aggregate", id)
	}
	m.savedVersions[id] = version
	return nil
}

type memAccounts memRepos

func (m *memAccounts) FindByID(_ context.Context, id uuid.UUID) (*domain.ChartAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accounts[id], nil
}

func (m *memAccounts) FindByCode(_ context.Context, code string) (*domain.ChartAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.Code == code {
			return a, nil
		}
	}
	return nil, nil
}

func (m *memAccounts) ExistsByCode(ctx context.Context, code string) (bool, error) {
	a, err := m.FindByCode(ctx, code)
	return a != nil, err
}

func (m *memAccounts) FindAll(_ context.Context, filter domain.AccountFilter) ([]*domain.ChartAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.ChartAccount
	for _, a := range m.accounts {
		if filter.ActiveOnly && !a.Active {
			continue
		}
		if filter.Kind != nil && a.Kind != *filter.Kind {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(a.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (m *memAccounts) FindActiveChildren(_ context.Context, parentID uuid.UUID) ([]*domain.ChartAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.ChartAccount
	for _, a := range m.accounts {
		if a.Active && a.ParentID != nil && *a.ParentID == parentID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memAccounts) Save(_ context.Context, account *domain.ChartAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
	m.savedVersions[account.ID] = account.Version
	return nil
}

func (m *memAccounts) SaveWithLock(_ context.Context, account *domain.ChartAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := (*memRepos)(m).checkLock(account.ID, account.Version); err != nil {
		return err
	}
	m.accounts[account.ID] = account
	return nil
}

type memPostings memRepos

func (m *memPostings) FindByID(_ context.Context, id uuid.UUID) (*domain.Posting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.postings {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (m *memPostings) FindByAccount(_ context.Context, accountID uuid.UUID, from, to *time.Time) ([]*domain.Posting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Posting
	for _, p := range m.postings {
		if p.AccountID != accountID {
			continue
		}
		if from != nil && p.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && p.CreatedAt.After(*to) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memPostings) FindByInvoice(_ context.Context, invoiceID uuid.UUID) ([]*domain.Posting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Posting
	for _, p := range m.postings {
		if p.InvoiceID != nil && *p.InvoiceID == invoiceID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPostings) FindByBill(_ context.Context, billID uuid.UUID) ([]*domain.Posting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Posting
	for _, p := range m.postings {
		if p.BillID != nil && *p.BillID == billID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPostings) SumByAccount(_ context.Context, accountID uuid.UUID) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sum := decimal.Zero
	for _, p := range m.postings {
		if p.AccountID == accountID {
			sum = sum.Add(p.Amount)
		}
	}
	return sum, nil
}

func (m *memPostings) Save(_ context.Context, posting *domain.Posting) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.postings = append(m.postings, posting)
	return nil
}

func (m *memPostings) NextPaymentNumber(_ context.Context, date time.Time) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := "PAY-" + date.Format("20060102") + "-"
	count := 0
	for _, p := range m.postings {
		if strings.HasPrefix(p.SequenceNumber, prefix) {
			count++
		}
	}
	return fmt.Sprintf("%s%03d", prefix, count+1), nil
}

type memInvoices memRepos

func (m *memInvoices) FindByID(_ context.Context, id uuid.UUID) (*domain.CustomerInvoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.invoices[id], nil
}

func (m *memInvoices) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*domain.CustomerInvoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.CustomerInvoice
	for _, id := range ids {
		if inv, ok := m.invoices[id]; ok {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (m *memInvoices) FindByNumber(_ context.Context, number string) (*domain.CustomerInvoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inv := range m.invoices {
		if inv.InvoiceNumber == number {
			return inv, nil
		}
	}
	return nil, nil
}

func (m *memInvoices) FindOutstanding(_ context.Context) ([]*domain.CustomerInvoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.CustomerInvoice
	for _, inv := range m.invoices {
		if inv.Status != domain.StatusPaid {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (m *memInvoices) Save(_ context.Context, invoice *domain.CustomerInvoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invoices[invoice.ID] = invoice
	m.savedVersions[invoice.ID] = invoice.Version
	return nil
}

func (m *memInvoices) SaveWithLock(_ context.Context, invoice *domain.CustomerInvoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := (*memRepos)(m).checkLock(invoice.ID, invoice.Version); err != nil {
		return err
	}
	m.invoices[invoice.ID] = invoice
	return nil
}

type memBills memRepos

func (m *memBills) FindByID(_ context.Context, id uuid.UUID) (*domain.VendorBill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bills[id], nil
}

func (m *memBills) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*domain.VendorBill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.VendorBill
	for _, id := range ids {
		if b, ok := m.bills[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memBills) FindByNumber(_ context.Context, number string) (*domain.VendorBill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bills {
		if b.BillNumber == number {
			return b, nil
		}
	}
	return nil, nil
}

func (m *memBills) FindOutstanding(_ context.Context) ([]*domain.VendorBill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.VendorBill
	for _, b := range m.bills {
		if b.Status != domain.StatusPaid {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (m *memBills) Save(_ context.Context, bill *domain.VendorBill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bills[bill.ID] = bill
	m.savedVersions[bill.ID] = bill.Version
	return nil
}

func (m *memBills) SaveWithLock(_ context.Context, bill *domain.VendorBill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := (*memRepos)(m).checkLock(bill.ID, bill.Version); err != nil {
		return err
	}
	m.bills[bill.ID] = bill
	return nil
}

type memOrders memRepos

func (m *memOrders) FindByExternalID(_ context.Context, externalID string) (*domain.GatewayOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.ExternalID == externalID {
			return o, nil
		}
	}
	return nil, nil
}

func (m *memOrders) FindLiveByInvoice(_ context.Context, invoiceID uuid.UUID) (*domain.GatewayOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.InvoiceID != nil && *o.InvoiceID == invoiceID && o.IsLive() {
			return o, nil
		}
	}
	return nil, nil
}

func (m *memOrders) FindByInvoiceIDs(_ context.Context, invoiceIDs []uuid.UUID) ([]*domain.GatewayOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wanted := make(map[uuid.UUID]bool, len(invoiceIDs))
	for _, id := range invoiceIDs {
		wanted[id] = true
	}
	var out []*domain.GatewayOrder
	for _, o := range m.orders {
		if o.InvoiceID != nil && wanted[*o.InvoiceID] {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memOrders) FindByBillIDs(_ context.Context, billIDs []uuid.UUID) ([]*domain.GatewayOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wanted := make(map[uuid.UUID]bool, len(billIDs))
	for _, id := range billIDs {
		wanted[id] = true
	}
	var out []*domain.GatewayOrder
	for _, o := range m.orders {
		if o.BillID != nil && wanted[*o.BillID] {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memOrders) Save(_ context.Context, order *domain.GatewayOrder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.ID] = order
	return nil
}

func (m *memOrders) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.orders, id)
	return nil
}

func (m *memOrders) DeleteByStatus(_ context.Context, status string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var deleted int64
	for id, o := range m.orders {
		if o.Status == status {
			delete(m.orders, id)
			deleted++
		}
	}
	return deleted, nil
}

type memSettlements memRepos

func settlementMapKey(orderID, paymentID string) string {
	return orderID + "|" + paymentID
}

func (m *memSettlements) FindByExternalPayment(_ context.Context, orderID, paymentID string) (*domain.Settlement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settlements[settlementMapKey(orderID, paymentID)], nil
}

func (m *memSettlements) Save(_ context.Context, settlement *domain.Settlement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := settlementMapKey(settlement.ExternalOrderID, settlement.ExternalPaymentID)
	if _, exists := m.settlements[key]; exists {
		return shared.NewConcurrencyConflictError("settlement", key)
	}
	m.settlements[key] = settlement
	return nil
}

type memContacts memRepos

func (m *memContacts) FindByID(_ context.Context, id uuid.UUID) (*domain.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.contacts[id], nil
}

func (m *memContacts) Save(_ context.Context, contact *domain.Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contacts[contact.ID] = contact
	return nil
}

type memGatewayCustomers memRepos

func (m *memGatewayCustomers) FindByContact(_ context.Context, contactID uuid.UUID) (*domain.GatewayCustomer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.gwCustomers {
		if c.ContactID == contactID {
			return c, nil
		}
	}
	return nil, nil
}

func (m *memGatewayCustomers) Save(_ context.Context, customer *domain.GatewayCustomer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gwCustomers[customer.ID] = customer
	return nil
}

type memUsers memRepos

func (m *memUsers) FindByID(_ context.Context, id uuid.UUID) (*identity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id], nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*identity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) Save(_ context.Context, user *identity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

// MockPaymentGateway is a testify mock for the gateway port
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) CreateOrder(ctx context.Context, req *domain.CreateOrderRequest) (*domain.GatewayOrderResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GatewayOrderResult), args.Error(1)
}

func (m *MockPaymentGateway) FetchOrder(ctx context.Context, externalID string) (*domain.GatewayOrderResult, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GatewayOrderResult), args.Error(1)
}

func (m *MockPaymentGateway) CreateCustomer(ctx context.Context, req *domain.CustomerRequest) (*domain.GatewayCustomerResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GatewayCustomerResult), args.Error(1)
}

func (m *MockPaymentGateway) VerifySignature(externalOrderID, externalPaymentID, signature string) error {
	args := m.Called(externalOrderID, externalPaymentID, signature)
	return args.Error(0)
}
