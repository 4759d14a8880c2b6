package shifts

import (
	"context"

	"gorm.io/gorm"

	"github.com/farmapunto/pos-backend/pkg/db/models"
	"github.com/farmapunto/pos-backend/pkg/enums"
)

// Repository persists cash-register shifts.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a shifts repository bound to the provided DB.
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

// Create inserts a new shift row.
func (r *Repository) Create(ctx context.Context, shift *models.Shift) (*models.Shift, error) {
	if err := r.db.WithContext(ctx).Create(shift).Error; err != nil {
		return nil, err
	}
	return shift, nil
}

// Save persists the provided shift mutation.
func (r *Repository) Save(ctx context.Context, shift *models.Shift) error {
	return r.db.WithContext(ctx).Save(shift).Error
}

// FindOpenByRegister loads the open shift on a register, if any.
func (r *Repository) FindOpenByRegister(ctx context.Context, registerID string) (*models.Shift, error) {
	var shift models.Shift
	err := r.db.WithContext(ctx).
		Where("register_id = ? AND status = ?", registerID, enums.ShiftStatusOpen).
		First(&shift).Error
	if err != nil {
		return nil, err
	}
	return &shift, nil
}
