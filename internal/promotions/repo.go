package promotions

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/farmapunto/pos-backend/pkg/db/models"
)

// Repository reads the promotion set. Promotions are owned by the catalog
// side; the POS core only consumes them.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a promotions repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ActiveAt returns promotions whose validity window covers the instant,
// ordered by ascending priority (lower value applies first).
func (r *Repository) ActiveAt(ctx context.Context, at time.Time) ([]models.Promotion, error) {
	var promos []models.Promotion
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND starts_at <= ? AND ends_at >= ?", true, at, at).
		Order("priority ASC, created_at ASC").
		Find(&promos).Error
	if err != nil {
		return nil, err
	}
	return promos, nil
}
