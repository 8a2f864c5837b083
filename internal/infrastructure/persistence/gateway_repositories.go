package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/Ethics03/shiv-odoo/internal/domain/finance"
	"github.com/Ethics03/shiv-odoo/internal/domain/identity"
	"github.com/Ethics03/shiv-odoo/internal/domain/shared"
)

// GatewayOrderRepository is the GORM implementation of
// domain.GatewayOrderRepository
type GatewayOrderRepository struct {
	db *gorm.DB
}

// NewGatewayOrderRepository creates a new gateway order repository
func NewGatewayOrderRepository(db *gorm.DB) *GatewayOrderRepository {
	return &GatewayOrderRepository{db: db}
}

// FindByExternalID loads an order mirror by its gateway id
func (r *GatewayOrderRepository) FindByExternalID(ctx context.Context, externalID string) (*domain.GatewayOrder, error) {
	var model GatewayOrderModel
	err := r.db.WithContext(ctx).First(&model, "external_id = ?", externalID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find gateway order: %w", err)
	}
	return model.ToDomain(), nil
}

// FindLiveByInvoice finds a reusable order for a single invoice
func (r *GatewayOrderRepository) FindLiveByInvoice(ctx context.Context, invoiceID uuid.UUID) (*domain.GatewayOrder, error) {
	var model GatewayOrderModel
	err := r.db.WithContext(ctx).
		Where("invoice_id = ? AND status IN ?", invoiceID,
			[]string{domain.OrderStatusCreated, domain.OrderStatusAttempted}).
		Order("created_at desc").
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find live gateway order: %w", err)
	}
	return model.ToDomain(), nil
}

// FindByInvoiceIDs lists orders whose primary invoice is in the set
func (r *GatewayOrderRepository) FindByInvoiceIDs(ctx context.Context, invoiceIDs []uuid.UUID) ([]*domain.GatewayOrder, error) {
	var models []GatewayOrderModel
	if err := r.db.WithContext(ctx).Where("invoice_id IN ?", invoiceIDs).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list gateway orders: %w", err)
	}
	return toOrders(models), nil
}

// FindByBillIDs lists orders whose primary bill is in the set
func (r *GatewayOrderRepository) FindByBillIDs(ctx context.Context, billIDs []uuid.UUID) ([]*domain.GatewayOrder, error) {
	var models []GatewayOrderModel
	if err := r.db.WithContext(ctx).Where("bill_id IN ?", billIDs).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list gateway orders: %w", err)
	}
	return toOrders(models), nil
}

// Save upserts an order mirror
func (r *GatewayOrderRepository) Save(ctx context.Context, order *domain.GatewayOrder) error {
	if err := r.db.WithContext(ctx).Save(GatewayOrderModelFromDomain(order)).Error; err != nil {
		return fmt.Errorf("save gateway order: %w", err)
	}
	return nil
}

// Delete removes an order mirror
func (r *GatewayOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&GatewayOrderModel{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete gateway order: %w", err)
	}
	return nil
}

// DeleteByStatus removes all mirrors in a status, returning the count
func (r *GatewayOrderRepository) DeleteByStatus(ctx context.Context, status string) (int64, error) {
	result := r.db.WithContext(ctx).Where("status = ?", status).Delete(&GatewayOrderModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete gateway orders: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func toOrders(models []GatewayOrderModel) []*domain.GatewayOrder {
	orders := make([]*domain.GatewayOrder, len(models))
	for i := range models {
		orders[i] = models[i].ToDomain()
	}
	return orders
}

// SettlementRepository is the GORM implementation of
// domain.SettlementRepository
type SettlementRepository struct {
	db *gorm.DB
}

// NewSettlementRepository creates a new settlement repository
func NewSettlementRepository(db *gorm.DB) *SettlementRepository {
	return &SettlementRepository{db: db}
}

// FindByExternalPayment loads the settlement for a gateway payment
func (r *SettlementRepository) FindByExternalPayment(ctx context.Context, externalOrderID, externalPaymentID string) (*domain.Settlement, error) {
	var model SettlementModel
	err := r.db.WithContext(ctx).
		First(&model, "external_order_id = ? AND external_payment_id = ?", externalOrderID, externalPaymentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find settlement: %w", err)
	}
	return model.ToDomain()
}

// Save inserts a settlement. The unique index on the external payment
// pair turns races between concurrent callbacks into a conflict error.
func (r *SettlementRepository) Save(ctx context.Context, settlement *domain.Settlement) error {
	err := r.db.WithContext(ctx).Create(SettlementModelFromDomain(settlement)).Error
	if err != nil {
		if isUniqueViolation(err) {
			return shared.NewConcurrencyConflictError("settlement", settlement.ExternalPaymentID)
		}
		return fmt.Errorf("save settlement: %w", err)
	}
	return nil
}

// isUniqueViolation detects duplicate-key errors across drivers
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}

// ContactRepository is the GORM implementation of domain.ContactRepository
type ContactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new contact repository
func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// FindByID loads a contact, returning nil when absent
func (r *ContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	var model ContactModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find contact: %w", err)
	}
	return model.ToDomain(), nil
}

// Save upserts a contact
func (r *ContactRepository) Save(ctx context.Context, contact *domain.Contact) error {
	if err := r.db.WithContext(ctx).Save(ContactModelFromDomain(contact)).Error; err != nil {
		return fmt.Errorf("save contact: %w", err)
	}
	return nil
}

// GatewayCustomerRepository is the GORM implementation of
// domain.GatewayCustomerRepository
type GatewayCustomerRepository struct {
	db *gorm.DB
}

// NewGatewayCustomerRepository creates a new gateway customer repository
func NewGatewayCustomerRepository(db *gorm.DB) *GatewayCustomerRepository {
	return &GatewayCustomerRepository{db: db}
}

// FindByContact loads the gateway mapping for a contact
func (r *GatewayCustomerRepository) FindByContact(ctx context.Context, contactID uuid.UUID) (*domain.GatewayCustomer, error) {
	var model GatewayCustomerModel
	err := r.db.WithContext(ctx).First(&model, "contact_id = ?", contactID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find gateway customer: %w", err)
	}
	return model.ToDomain(), nil
}

// Save upserts a gateway customer mapping
func (r *GatewayCustomerRepository) Save(ctx context.Context, customer *domain.GatewayCustomer) error {
	if err := r.db.WithContext(ctx).Save(GatewayCustomerModelFromDomain(customer)).Error; err != nil {
		return fmt.Errorf("save gateway customer: %w", err)
	}
	return nil
}

// UserRepository is the GORM implementation of identity.UserRepository
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID loads a user, returning nil when absent
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var model UserModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return model.ToDomain(), nil
}

// FindByEmail loads a user by email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	var model UserModel
	err := r.db.WithContext(ctx).First(&model, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return model.ToDomain(), nil
}

// Save upserts a user
func (r *UserRepository) Save(ctx context.Context, user *identity.User) error {
	if err := r.db.WithContext(ctx).Save(UserModelFromDomain(user)).Error; err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}
