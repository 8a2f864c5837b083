package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "github.com/Ethics03/shiv-odoo/internal/domain/finance"
	"github.com/Ethics03/shiv-odoo/internal/domain/identity"
	"github.com/Ethics03/shiv-odoo/internal/domain/shared"
	"github.com/Ethics03/shiv-odoo/internal/domain/shared/valueobject"
)

// CallbackService verifies gateway payment callbacks and drives
// settlement. Verification order is fixed: signature first, then the
// idempotency fast path, then the authoritative settlement.
type CallbackService struct {
	gateway     domain.PaymentGateway
	repos       domain.Repositories
	settlements *SettlementService
	idempotency shared.IdempotencyStore
	idemTTL     time.Duration
	logger      *zap.Logger
}

// NewCallbackService creates a new callback service
func NewCallbackService(gateway domain.PaymentGateway, repos domain.Repositories, settlements *SettlementService, idempotency shared.IdempotencyStore, idemTTL time.Duration, logger *zap.Logger) *CallbackService {
	if idemTTL <= 0 {
		idemTTL = 24 * time.Hour
	}
	return &CallbackService{
		gateway:     gateway,
		repos:       repos,
		settlements: settlements,
		idempotency: idempotency,
		idemTTL:     idemTTL,
		logger:      logger,
	}
}

// CallbackInput is the payload the gateway redirects back with
type CallbackInput struct {
	ExternalOrderID   string
	ExternalPaymentID string
	Signature         string
	// ActorID attributes the settlement; uuid.Nil falls back to the
	// seeded system user.
	ActorID uuid.UUID
}

// CallbackOutcome reports a verified and settled payment
type CallbackOutcome struct {
	Settlement       *domain.Settlement
	Posting          *domain.Posting
	Invoices         []*domain.CustomerInvoice
	Bills            []*domain.VendorBill
	AlreadyProcessed bool
}

// VerifyAndSettle checks the callback signature, fetches the order
// from the gateway, and settles the payment against the documents the
// order was raised for.
func (s *CallbackService) VerifyAndSettle(ctx context.Context, input CallbackInput) (*CallbackOutcome, error) {
	if err := s.gateway.VerifySignature(input.ExternalOrderID, input.ExternalPaymentID, input.Signature); err != nil {
		s.logger.Warn("callback signature rejected",
			zap.String("external_order_id", input.ExternalOrderID),
			zap.String("external_payment_id", input.ExternalPaymentID))
		return nil, err
	}

	idemKey := settlementKey(input.ExternalOrderID, input.ExternalPaymentID)
	if seen, err := s.idempotency.IsProcessed(ctx, idemKey); err == nil && seen {
		existing, err := s.repos.Settlements().FindByExternalPayment(ctx, input.ExternalOrderID, input.ExternalPaymentID)
		if err == nil && existing != nil {
			return &CallbackOutcome{Settlement: existing, AlreadyProcessed: true}, nil
		}
		// cache claims processed but no record exists; fall through to
		// the authoritative path
	}

	order, err := s.gateway.FetchOrder(ctx, input.ExternalOrderID)
	if err != nil {
		return nil, wrapGatewayErr(err)
	}

	docType, docIDs, err := s.resolveDocuments(ctx, order, input.ExternalOrderID)
	if err != nil {
		return nil, err
	}

	actorID, err := s.resolveActor(ctx, input.ActorID, order.Notes[domain.NoteCreatedBy])
	if err != nil {
		return nil, err
	}

	amount := valueobject.NewMoneyFromPaise(order.AmountPaise, valueobject.Currency(order.Currency))
	result, err := s.settlements.Apply(ctx, SettlementInput{
		DocumentType:      docType,
		DocumentIDs:       docIDs,
		Amount:            amount,
		Method:            domain.MethodBankTransfer,
		ExternalOrderID:   input.ExternalOrderID,
		ExternalPaymentID: input.ExternalPaymentID,
		ActorID:           actorID,
	})
	if err != nil {
		return nil, err
	}

	if !result.AlreadyProcessed {
		s.markOrderPaid(ctx, input.ExternalOrderID)
	}
	if _, err := s.idempotency.MarkProcessed(ctx, idemKey, s.idemTTL); err != nil {
		// cache failure is non-fatal: the settlement record already
		// guards against replays
		s.logger.Warn("idempotency mark failed", zap.String("key", idemKey), zap.Error(err))
	}

	return &CallbackOutcome{
		Settlement:       result.Settlement,
		Posting:          result.Posting,
		Invoices:         result.Invoices,
		Bills:            result.Bills,
		AlreadyProcessed: result.AlreadyProcessed,
	}, nil
}

// resolveDocuments recovers the document batch from the gateway
// order's notes, falling back to the local mirror's primary link for
// orders created before notes carried the batch.
func (s *CallbackService) resolveDocuments(ctx context.Context, order *domain.GatewayOrderResult, externalOrderID string) (domain.DocumentType, []uuid.UUID, error) {
	if ids, err := domain.SplitIDs(order.Notes[domain.NoteInvoiceIDs]); err == nil && len(ids) > 0 {
		return domain.DocumentInvoice, ids, nil
	}
	if ids, err := domain.SplitIDs(order.Notes[domain.NoteBillIDs]); err == nil && len(ids) > 0 {
		return domain.DocumentBill, ids, nil
	}

	mirror, err := s.repos.Orders().FindByExternalID(ctx, externalOrderID)
	if err != nil {
		return "", nil, err
	}
	if mirror != nil && mirror.InvoiceID != nil {
		return domain.DocumentInvoice, []uuid.UUID{*mirror.InvoiceID}, nil
	}
	if mirror != nil && mirror.BillID != nil {
		return domain.DocumentBill, []uuid.UUID{*mirror.BillID}, nil
	}
	return "", nil, shared.NewNotFoundError("documents for gateway order", externalOrderID)
}

// resolveActor picks the settlement's creator: the explicit actor, the
// order's creator note, then the seeded system user.
func (s *CallbackService) resolveActor(ctx context.Context, actorID uuid.UUID, createdByNote string) (uuid.UUID, error) {
	if actorID != uuid.Nil {
		if user, err := s.repos.Users().FindByID(ctx, actorID); err == nil && user != nil {
			return user.ID, nil
		}
	}
	if createdByNote != "" {
		if id, err := uuid.Parse(createdByNote); err == nil {
			if user, err := s.repos.Users().FindByID(ctx, id); err == nil && user != nil {
				return user.ID, nil
			}
		}
	}

	system, err := s.repos.Users().FindByEmail(ctx, identity.SystemUserEmail)
	if err != nil {
		return uuid.Nil, err
	}
	if system == nil {
		return uuid.Nil, shared.NewDomainError(shared.ErrCodeNotFound, "system user is not seeded")
	}
	return system.ID, nil
}

func (s *CallbackService) markOrderPaid(ctx context.Context, externalOrderID string) {
	mirror, err := s.repos.Orders().FindByExternalID(ctx, externalOrderID)
	if err != nil || mirror == nil {
		return
	}
	mirror.MarkPaid()
	if err := s.repos.Orders().Save(ctx, mirror); err != nil {
		s.logger.Warn("order mirror update failed",
			zap.String("external_order_id", externalOrderID), zap.Error(err))
	}
}

func settlementKey(externalOrderID, externalPaymentID string) string {
	return fmt.Sprintf("settlement:%s:%s", externalOrderID, externalPaymentID)
}
