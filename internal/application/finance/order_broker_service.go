package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "github.com/Ethics03/shiv-odoo/internal/domain/finance"
	"github.com/Ethics03/shiv-odoo/internal/domain/shared"
	"github.com/Ethics03/shiv-odoo/internal/domain/shared/valueobject"
)

// OrderBrokerService creates and reuses payment gateway orders for
// invoices and bills. The gateway is always called before any local
// write: an order that exists locally is guaranteed to exist remotely.
type OrderBrokerService struct {
	gateway  domain.PaymentGateway
	repos    domain.Repositories
	uow      domain.UnitOfWork
	currency string
	logger   *zap.Logger
}

// NewOrderBrokerService creates a new order broker
func NewOrderBrokerService(gateway domain.PaymentGateway, repos domain.Repositories, uow domain.UnitOfWork, currency string, logger *zap.Logger) *OrderBrokerService {
	if currency == "" {
		currency = string(valueobject.DefaultCurrency)
	}
	return &OrderBrokerService{gateway: gateway, repos: repos, uow: uow, currency: currency, logger: logger}
}

// OrderRequest asks for a gateway order over invoices or bills.
// Exactly one of InvoiceIDs and BillIDs must be non-empty. Amount
// overrides the computed total when set.
type OrderRequest struct {
	InvoiceIDs []uuid.UUID
	BillIDs    []uuid.UUID
	Amount     *valueobject.Money
	ActorID    uuid.UUID
}

// OrderResult is the broker's answer: a live order plus the documents
// and payer it covers.
type OrderResult struct {
	Order      *domain.GatewayOrder
	IsExisting bool
	Invoices   []*domain.CustomerInvoice
	Bills      []*domain.VendorBill
	Contact    *domain.Contact
	ContactRef string
}

// GetOrCreateOrder returns a live order for the requested documents,
// reusing an existing one for single-invoice requests and replacing
// stale ones for batches.
func (s *OrderBrokerService) GetOrCreateOrder(ctx context.Context, req OrderRequest) (*OrderResult, error) {
	hasInvoices := len(req.InvoiceIDs) > 0
	hasBills := len(req.BillIDs) > 0
	if hasInvoices == hasBills {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidInput,
			"exactly one of invoice ids or bill ids must be provided")
	}
	if req.Amount != nil && !req.Amount.IsPositive() {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidInput, "amount override must be positive")
	}

	if hasInvoices {
		return s.orderForInvoices(ctx, req)
	}
	return s.orderForBills(ctx, req)
}

func (s *OrderBrokerService) orderForInvoices(ctx context.Context, req OrderRequest) (*OrderResult, error) {
	invoices, err := s.loadInvoices(ctx, req.InvoiceIDs)
	if err != nil {
		return nil, err
	}

	// single invoice: reuse a live order if one exists
	if len(invoices) == 1 {
		invoice := invoices[0]
		if !invoice.IsPayable() {
			return nil, shared.NewDomainErrorf(domain.ErrCodeInvoiceAlreadyPaid,
				"invoice %s is already paid", invoice.InvoiceNumber)
		}
		existing, err := s.repos.Orders().FindLiveByInvoice(ctx, invoice.ID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			contact, err := s.loadContact(ctx, invoice.CustomerID)
			if err != nil {
				return nil, err
			}
			return &OrderResult{
				Order:      existing,
				IsExisting: true,
				Invoices:   invoices,
				Contact:    contact,
				ContactRef: existing.CustomerRef,
			}, nil
		}
	}

	payable := make([]*domain.CustomerInvoice, 0, len(invoices))
	payableIDs := make([]uuid.UUID, 0, len(invoices))
	for _, inv := range invoices {
		if inv.IsPayable() {
			payable = append(payable, inv)
			payableIDs = append(payableIDs, inv.ID)
		}
	}
	if len(payable) == 0 {
		return nil, shared.NewDomainError(domain.ErrCodeNoPayableDocuments, "no payable invoices in the batch")
	}

	// batches never reuse orders: drop stale mirrors so the gateway
	// order matches the current document set
	if len(req.InvoiceIDs) > 1 {
		stale, err := s.repos.Orders().FindByInvoiceIDs(ctx, payableIDs)
		if err != nil {
			return nil, err
		}
		for _, o := range stale {
			if err := s.repos.Orders().Delete(ctx, o.ID); err != nil {
				return nil, err
			}
		}
	}

	contact, err := s.loadContact(ctx, payable[0].CustomerID)
	if err != nil {
		return nil, err
	}
	customerRef, err := s.ensureGatewayCustomer(ctx, contact)
	if err != nil {
		return nil, err
	}

	amountPaise := s.amountPaise(req.Amount, func() int64 {
		var sum int64
		for _, inv := range payable {
			sum += valueobject.NewMoneyINR(inv.TotalAmount).Paise()
		}
		return sum
	})

	kind := domain.OrderSingleInvoice
	receipt := fmt.Sprintf("rcpt_%s", payable[0].InvoiceNumber)
	if len(payable) > 1 {
		kind = domain.OrderMultiInvoice
		receipt = fmt.Sprintf("rcpt_multi_%d", time.Now().Unix())
	}

	notes := map[string]string{
		domain.NoteOrderKind:  string(kind),
		domain.NoteInvoiceIDs: domain.JoinIDs(payableIDs),
		domain.NoteContactID:  contact.ID.String(),
		domain.NoteCreatedBy:  req.ActorID.String(),
	}

	order, err := s.createOrder(ctx, amountPaise, receipt, notes, kind, customerRef, req.ActorID)
	if err != nil {
		return nil, err
	}
	order.LinkPrimaryInvoice(payable[0].ID)
	if err := s.saveOrder(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("gateway order created",
		zap.String("external_id", order.ExternalID),
		zap.String("kind", string(kind)),
		zap.Int64("amount_paise", amountPaise),
		zap.Int("invoices", len(payable)))

	return &OrderResult{Order: order, Invoices: payable, Contact: contact, ContactRef: customerRef}, nil
}

func (s *OrderBrokerService) orderForBills(ctx context.Context, req OrderRequest) (*OrderResult, error) {
	bills, err := s.loadBills(ctx, req.BillIDs)
	if err != nil {
		return nil, err
	}

	payable := make([]*domain.VendorBill, 0, len(bills))
	payableIDs := make([]uuid.UUID, 0, len(bills))
	for _, b := range bills {
		if b.IsPayable() {
			payable = append(payable, b)
			payableIDs = append(payableIDs, b.ID)
		}
	}
	if len(payable) == 0 {
		return nil, shared.NewDomainError(domain.ErrCodeNoPayableDocuments, "no payable bills in the batch")
	}

	stale, err := s.repos.Orders().FindByBillIDs(ctx, payableIDs)
	if err != nil {
		return nil, err
	}
	for _, o := range stale {
		if err := s.repos.Orders().Delete(ctx, o.ID); err != nil {
			return nil, err
		}
	}

	contact, err := s.loadContact(ctx, payable[0].VendorID)
	if err != nil {
		return nil, err
	}
	customerRef, err := s.ensureGatewayCustomer(ctx, contact)
	if err != nil {
		return nil, err
	}

	amountPaise := s.amountPaise(req.Amount, func() int64 {
		var sum int64
		for _, b := range payable {
			sum += valueobject.NewMoneyINR(b.TotalAmount).Paise()
		}
		return sum
	})

	notes := map[string]string{
		domain.NoteOrderKind: string(domain.OrderMultiBill),
		domain.NoteBillIDs:   domain.JoinIDs(payableIDs),
		domain.NoteContactID: contact.ID.String(),
		domain.NoteCreatedBy: req.ActorID.String(),
	}

	order, err := s.createOrder(ctx, amountPaise, fmt.Sprintf("rcpt_bills_%d", time.Now().Unix()),
		notes, domain.OrderMultiBill, customerRef, req.ActorID)
	if err != nil {
		return nil, err
	}
	order.LinkPrimaryBill(payable[0].ID)
	if err := s.saveOrder(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("gateway order created",
		zap.String("external_id", order.ExternalID),
		zap.String("kind", string(domain.OrderMultiBill)),
		zap.Int64("amount_paise", amountPaise),
		zap.Int("bills", len(payable)))

	return &OrderResult{Order: order, Bills: payable, Contact: contact, ContactRef: customerRef}, nil
}

// CleanupAbandonedOrders removes mirrors for orders that were created
// but never paid, returning how many were deleted.
func (s *OrderBrokerService) CleanupAbandonedOrders(ctx context.Context) (int64, error) {
	deleted, err := s.repos.Orders().DeleteByStatus(ctx, domain.OrderStatusCreated)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("abandoned gateway orders removed", zap.Int64("count", deleted))
	}
	return deleted, nil
}

// OutstandingInvoices lists unpaid invoices ordered by due date
func (s *OrderBrokerService) OutstandingInvoices(ctx context.Context) ([]*domain.CustomerInvoice, error) {
	return s.repos.Invoices().FindOutstanding(ctx)
}

// OutstandingBills lists unpaid bills ordered by due date
func (s *OrderBrokerService) OutstandingBills(ctx context.Context) ([]*domain.VendorBill, error) {
	return s.repos.Bills().FindOutstanding(ctx)
}

func (s *OrderBrokerService) loadInvoices(ctx context.Context, ids []uuid.UUID) ([]*domain.CustomerInvoice, error) {
	invoices, err := s.repos.Invoices().FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(invoices) != len(ids) {
		return nil, shared.NewNotFoundError("invoice", missingIDs(ids, invoiceIDs(invoices)))
	}
	return invoices, nil
}

func (s *OrderBrokerService) loadBills(ctx context.Context, ids []uuid.UUID) ([]*domain.VendorBill, error) {
	bills, err := s.repos.Bills().FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(bills) != len(ids) {
		return nil, shared.NewNotFoundError("bill", missingIDs(ids, billIDs(bills)))
	}
	return bills, nil
}

func (s *OrderBrokerService) loadContact(ctx context.Context, contactID uuid.UUID) (*domain.Contact, error) {
	contact, err := s.repos.Contacts().FindByID(ctx, contactID)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, shared.NewNotFoundError("contact", contactID)
	}
	return contact, nil
}

// ensureGatewayCustomer returns the gateway-side customer id for a
// contact, registering one on first use.
func (s *OrderBrokerService) ensureGatewayCustomer(ctx context.Context, contact *domain.Contact) (string, error) {
	existing, err := s.repos.GatewayCustomers().FindByContact(ctx, contact.ID)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return existing.ExternalID, nil
	}

	created, err := s.gateway.CreateCustomer(ctx, &domain.CustomerRequest{
		Name:    contact.Name,
		Email:   contact.Email,
		Contact: contact.Phone,
	})
	if err != nil {
		return "", wrapGatewayErr(err)
	}

	mapping, err := domain.NewGatewayCustomer(contact.ID, created.ExternalID)
	if err != nil {
		return "", err
	}
	if err := s.repos.GatewayCustomers().Save(ctx, mapping); err != nil {
		return "", err
	}
	return created.ExternalID, nil
}

func (s *OrderBrokerService) amountPaise(override *valueobject.Money, compute func() int64) int64 {
	if override != nil {
		return override.Paise()
	}
	return compute()
}

func (s *OrderBrokerService) createOrder(ctx context.Context, amountPaise int64, receipt string, notes map[string]string, kind domain.OrderKind, customerRef string, actorID uuid.UUID) (*domain.GatewayOrder, error) {
	res, err := s.gateway.CreateOrder(ctx, &domain.CreateOrderRequest{
		AmountPaise: amountPaise,
		Currency:    s.currency,
		Receipt:     receipt,
		Notes:       notes,
	})
	if err != nil {
		return nil, wrapGatewayErr(err)
	}

	order, err := domain.NewGatewayOrder(res.ExternalID, res.AmountPaise, res.Currency, receipt, res.Status, kind, actorID)
	if err != nil {
		return nil, err
	}
	order.CustomerRef = customerRef
	return order, nil
}

func (s *OrderBrokerService) saveOrder(ctx context.Context, order *domain.GatewayOrder) error {
	return s.uow.Execute(ctx, func(repos domain.Repositories) error {
		return repos.Orders().Save(ctx, order)
	})
}

func wrapGatewayErr(err error) error {
	if _, ok := shared.AsDomainError(err); ok {
		return err
	}
	return shared.NewDomainErrorf(domain.ErrCodeGatewayUnavailable, "payment gateway unavailable: %v", err)
}

func invoiceIDs(invoices []*domain.CustomerInvoice) map[uuid.UUID]bool {
	found := make(map[uuid.UUID]bool, len(invoices))
	for _, inv := range invoices {
		found[inv.ID] = true
	}
	return found
}

func billIDs(bills []*domain.VendorBill) map[uuid.UUID]bool {
	found := make(map[uuid.UUID]bool, len(bills))
	for _, b := range bills {
		found[b.ID] = true
	}
	return found
}

func missingIDs(requested []uuid.UUID, found map[uuid.UUID]bool) []uuid.UUID {
	var missing []uuid.UUID
	for _, id := range requested {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return missing
}
