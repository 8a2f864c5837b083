package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/Ethics03/shiv-odoo/internal/domain/finance"
	"github.com/Ethics03/shiv-odoo/internal/domain/shared"
)

// InvoiceRepository is the GORM implementation of domain.InvoiceRepository
type InvoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// FindByID loads an invoice, returning nil when absent
func (r *InvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.CustomerInvoice, error) {
	var model InvoiceModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find invoice: %w", err)
	}
	return model.ToDomain(), nil
}

// FindByIDs loads invoices by id, preserving the requested order
func (r *InvoiceRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.CustomerInvoice, error) {
	var models []InvoiceModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("find invoices: %w", err)
	}

	byID := make(map[uuid.UUID]*domain.CustomerInvoice, len(models))
	for i := range models {
		byID[models[i].ID] = models[i].ToDomain()
	}
	out := make([]*domain.CustomerInvoice, 0, len(models))
	for _, id := range ids {
		if inv, ok := byID[id]; ok {
			out = append(out, inv)
		}
	}
	return out, nil
}

// FindByNumber loads an invoice by its unique number
func (r *InvoiceRepository) FindByNumber(ctx context.Context, number string) (*domain.CustomerInvoice, error) {
	var model InvoiceModel
	err := r.db.WithContext(ctx).First(&model, "invoice_number = ?", number).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find invoice by number: %w", err)
	}
	return model.ToDomain(), nil
}

// FindOutstanding lists unpaid invoices ordered by due date ascending
func (r *InvoiceRepository) FindOutstanding(ctx context.Context) ([]*domain.CustomerInvoice, error) {
	var models []InvoiceModel
	err := r.db.WithContext(ctx).
		Where("status <> ?", string(domain.StatusPaid)).
		Order("due_date asc").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list outstanding invoices: %w", err)
	}

	out := make([]*domain.CustomerInvoice, len(models))
	for i := range models {
		out[i] = models[i].ToDomain()
	}
	return out, nil
}

// Save upserts an invoice without a version check
func (r *InvoiceRepository) Save(ctx context.Context, invoice *domain.CustomerInvoice) error {
	model := InvoiceModelFromDomain(invoice)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("save invoice: %w", err)
	}
	return nil
}

// SaveWithLock persists accumulator and status changes only if the
// stored version is the previous one
func (r *InvoiceRepository) SaveWithLock(ctx context.Context, invoice *domain.CustomerInvoice) error {
	model := InvoiceModelFromDomain(invoice)
	result := r.db.WithContext(ctx).Model(&InvoiceModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version-1).
		Updates(map[string]any{
			"received_amount": model.ReceivedAmount,
			"status":          model.Status,
			"notes":           model.Notes,
			"version":         model.Version,
			"updated_at":      model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("save invoice with lock: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewConcurrencyConflictError("invoice", invoice.ID)
	}
	return nil
}

// BillRepository is the GORM implementation of domain.BillRepository
type BillRepository struct {
	db *gorm.DB
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *gorm.DB) *BillRepository {
	return &BillRepository{db: db}
}

// FindByID loads a bill, returning nil when absent
func (r *BillRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.VendorBill, error) {
	var model BillModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find bill: %w", err)
	}
	return model.ToDomain(), nil
}

// FindByIDs loads bills by id, preserving the requested order
func (r *BillRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.VendorBill, error) {
	var models []BillModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("find bills: %w", err)
	}

	byID := make(map[uuid.UUID]*domain.VendorBill, len(models))
	for i := range models {
		byID[models[i].ID] = models[i].ToDomain()
	}
	out := make([]*domain.VendorBill, 0, len(models))
	for _, id := range ids {
		if b, ok := byID[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

// FindByNumber loads a bill by its unique number
func (r *BillRepository) FindByNumber(ctx context.Context, number string) (*domain.VendorBill, error) {
	var model BillModel
	err := r.db.WithContext(ctx).First(&model, "bill_number = ?", number).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find bill by number: %w", err)
	}
	return model.ToDomain(), nil
}

// FindOutstanding lists unpaid bills ordered by due date ascending
func (r *BillRepository) FindOutstanding(ctx context.Context) ([]*domain.VendorBill, error) {
	var models []BillModel
	err := r.db.WithContext(ctx).
		Where("status <> ?", string(domain.StatusPaid)).
		Order("due_date asc").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list outstanding bills: %w", err)
	}

	out := make([]*domain.VendorBill, len(models))
	for i := range models {
		out[i] = models[i].ToDomain()
	}
	return out, nil
}

// Save upserts a bill without a version check
func (r *BillRepository) Save(ctx context.Context, bill *domain.VendorBill) error {
	model := BillModelFromDomain(bill)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("save bill: %w", err)
	}
	return nil
}

// SaveWithLock persists accumulator and status changes only if the
// stored version is the previous one
func (r *BillRepository) SaveWithLock(ctx context.Context, bill *domain.VendorBill) error {
	model := BillModelFromDomain(bill)
	result := r.db.WithContext(ctx).Model(&BillModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version-1).
		Updates(map[string]any{
			"paid_amount": model.PaidAmount,
			"status":      model.Status,
			"notes":       model.Notes,
			"version":     model.Version,
			"updated_at":  model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("save bill with lock: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewConcurrencyConflictError("bill", bill.ID)
	}
	return nil
}
