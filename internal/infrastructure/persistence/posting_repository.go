package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	domain "github.com/Ethics03/shiv-odoo/internal/domain/finance"
)

// PostingRepository is the GORM implementation of domain.PostingRepository.
// Postings are append-only so there is no update path.
type PostingRepository struct {
	db *gorm.DB
}

// NewPostingRepository creates a new posting repository
func NewPostingRepository(db *gorm.DB) *PostingRepository {
	return &PostingRepository{db: db}
}

// FindByID loads a posting, returning nil when absent
func (r *PostingRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Posting, error) {
	var model PostingModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find posting: %w", err)
	}
	return model.ToDomain(), nil
}

// FindByAccount lists an account's postings in chronological order,
// optionally bounded by a date window
func (r *PostingRepository) FindByAccount(ctx context.Context, accountID uuid.UUID, from, to *time.Time) ([]*domain.Posting, error) {
	query := r.db.WithContext(ctx).Where("account_id = ?", accountID)
	if from != nil {
		query = query.Where("created_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("created_at <= ?", *to)
	}

	var models []PostingModel
	if err := query.Order("created_at asc").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list postings by account: %w", err)
	}
	return toPostings(models), nil
}

// FindByInvoice lists postings linked to an invoice
func (r *PostingRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*domain.Posting, error) {
	var models []PostingModel
	err := r.db.WithContext(ctx).Where("invoice_id = ?", invoiceID).Order("created_at asc").Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list postings by invoice: %w", err)
	}
	return toPostings(models), nil
}

// FindByBill lists postings linked to a bill
func (r *PostingRepository) FindByBill(ctx context.Context, billID uuid.UUID) ([]*domain.Posting, error) {
	var models []PostingModel
	err := r.db.WithContext(ctx).Where("bill_id = ?", billID).Order("created_at asc").Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list postings by bill: %w", err)
	}
	return toPostings(models), nil
}

// SumByAccount totals all signed posting amounts for an account
func (r *PostingRepository) SumByAccount(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error) {
	var models []PostingModel
	err := r.db.WithContext(ctx).Select("amount").Where("account_id = ?", accountID).Find(&models).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum postings: %w", err)
	}

	sum := decimal.Zero
	for i := range models {
		sum = sum.Add(models[i].Amount)
	}
	return sum, nil
}

// Save inserts a new posting
func (r *PostingRepository) Save(ctx context.Context, posting *domain.Posting) error {
	if err := r.db.WithContext(ctx).Create(PostingModelFromDomain(posting)).Error; err != nil {
		return fmt.Errorf("save posting: %w", err)
	}
	return nil
}

// NextPaymentNumber issues PAY-YYYYMMDD-NNN for the date, numbering
// within the day
func (r *PostingRepository) NextPaymentNumber(ctx context.Context, date time.Time) (string, error) {
	prefix := "PAY-" + date.Format("20060102") + "-"
	var count int64
	err := r.db.WithContext(ctx).Model(&PostingModel{}).
		Where("sequence_number LIKE ?", prefix+"%").
		Count(&count).Error
	if err != nil {
		return "", fmt.Errorf("count payment numbers: %w", err)
	}
	return fmt.Sprintf("%s%03d", prefix, count+1), nil
}

func toPostings(models []PostingModel) []*domain.Posting {
	postings := make([]*domain.Posting, len(models))
	for i := range models {
		postings[i] = models[i].ToDomain()
	}
	return postings
}
