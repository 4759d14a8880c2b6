package loyalty

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmapunto/pos-backend/pkg/db/models"
)

// Repository persists customers and loyalty accounts.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a loyalty repository bound to the provided DB.
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

// FindCustomer loads a customer by id.
func (r *Repository) FindCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// FindAccountByCustomer loads the loyalty account attached to a customer.
func (r *Repository) FindAccountByCustomer(ctx context.Context, customerID uuid.UUID) (*models.LoyaltyAccount, error) {
	var account models.LoyaltyAccount
	if err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// SaveAccount persists the loyalty account mutation.
func (r *Repository) SaveAccount(ctx context.Context, account *models.LoyaltyAccount) error {
	return r.db.WithContext(ctx).Save(account).Error
}
