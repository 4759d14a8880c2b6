package sales

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmapunto/pos-backend/pkg/db/models"
	"github.com/farmapunto/pos-backend/pkg/enums"
)

// Repository persists frozen sale records. Completed sales are append-only;
// held sales are deleted when resumed.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a sales repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a frozen sale with its items and payments.
func (r *Repository) Create(ctx context.Context, sale *models.Sale) (*models.Sale, error) {
	if err := r.db.WithContext(ctx).Create(sale).Error; err != nil {
		return nil, err
	}
	return sale, nil
}

// FindHeld loads a held sale by id, including its item snapshot.
func (r *Repository) FindHeld(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	var sale models.Sale
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments").
		Where("id = ? AND status = ?", id, enums.SaleStatusHeld).
		First(&sale).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// ListHeld returns all held sales for a register, oldest first.
func (r *Repository) ListHeld(ctx context.Context, registerID string) ([]models.Sale, error) {
	var sales []models.Sale
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("register_id = ? AND status = ?", registerID, enums.SaleStatusHeld).
		Order("created_at ASC").
		Find(&sales).Error
	if err != nil {
		return nil, err
	}
	return sales, nil
}

// DeleteHeld removes a held sale after it has been resumed.
func (r *Repository) DeleteHeld(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, enums.SaleStatusHeld).
		Delete(&models.Sale{}).Error
}
