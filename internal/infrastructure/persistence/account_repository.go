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

// AccountRepository is the GORM implementation of ChartAccountRepository
type AccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// FindByID loads an account, returning nil when absent
func (r *AccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ChartAccount, error) {
	var model AccountModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	return model.ToDomain(), nil
}

// FindByCode loads an account by its unique code
func (r *AccountRepository) FindByCode(ctx context.Context, code string) (*domain.ChartAccount, error) {
	var model AccountModel
	err := r.db.WithContext(ctx).First(&model, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find account by code: %w", err)
	}
	return model.ToDomain(), nil
}

// ExistsByCode checks code uniqueness
func (r *AccountRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&AccountModel{}).Where("code = ?", code).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("count accounts: %w", err)
	}
	return count > 0, nil
}

// FindAll lists accounts matching the filter, ordered by code
func (r *AccountRepository) FindAll(ctx context.Context, filter domain.AccountFilter) ([]*domain.ChartAccount, error) {
	query := r.db.WithContext(ctx).Model(&AccountModel{})
	if filter.ActiveOnly {
		query = query.Where("active = ?", true)
	}
	if filter.Kind != nil {
		query = query.Where("kind = ?", string(*filter.Kind))
	}
	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}

	var models []AccountModel
	if err := query.Order("code asc").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	accounts := make([]*domain.ChartAccount, len(models))
	for i := range models {
		accounts[i] = models[i].ToDomain()
	}
	return accounts, nil
}

// FindActiveChildren lists active direct children of an account
func (r *AccountRepository) FindActiveChildren(ctx context.Context, parentID uuid.UUID) ([]*domain.ChartAccount, error) {
	var models []AccountModel
	err := r.db.WithContext(ctx).
		Where("parent_id = ? AND active = ?", parentID, true).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}

	accounts := make([]*domain.ChartAccount, len(models))
	for i := range models {
		accounts[i] = models[i].ToDomain()
	}
	return accounts, nil
}

// Save upserts an account without a version check
func (r *AccountRepository) Save(ctx context.Context, account *domain.ChartAccount) error {
	model := AccountModelFromDomain(account)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("save account: %w", err)
	}
	return nil
}

// SaveWithLock persists the account only if the stored version is the
// previous one
func (r *AccountRepository) SaveWithLock(ctx context.Context, account *domain.ChartAccount) error {
	model := AccountModelFromDomain(account)
	result := r.db.WithContext(ctx).Model(&AccountModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version-1).
		Updates(map[string]any{
			"name":       model.Name,
			"parent_id":  model.ParentID,
			"active":     model.Active,
			"version":    model.Version,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("save account with lock: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewConcurrencyConflictError("account", account.ID)
	}
	return nil
}
