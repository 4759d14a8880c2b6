package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmapunto/pos-backend/pkg/db/models"
)

// Repository reads catalog reference data. The POS core never writes here.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindProduct loads a product by id.
func (r *Repository) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CurrentPrice loads the current price row for a product.
func (r *Repository) CurrentPrice(ctx context.Context, productID uuid.UUID) (*models.ProductPrice, error) {
	var price models.ProductPrice
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("updated_at DESC").
		First(&price).Error
	if err != nil {
		return nil, err
	}
	return &price, nil
}

// AvailableLots returns the product's lots with stock, earliest expiry first.
func (r *Repository) AvailableLots(ctx context.Context, productID uuid.UUID) ([]models.ProductLot, error) {
	var lots []models.ProductLot
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND quantity > 0", productID).
		Order("expires_at ASC").
		Find(&lots).Error
	if err != nil {
		return nil, err
	}
	return lots, nil
}

// CategoriesFor maps each provided product id to its category id.
func (r *Repository) CategoriesFor(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	if len(productIDs) == 0 {
		return map[uuid.UUID]uuid.UUID{}, nil
	}
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Select("id", "category_id").
		Where("id IN ?", productIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]uuid.UUID, len(rows))
	for _, row := range rows {
		out[row.ID] = row.CategoryID
	}
	return out, nil
}
