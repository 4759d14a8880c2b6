package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmapunto/pos-backend/pkg/db/models"
	pkgerrors "github.com/farmapunto/pos-backend/pkg/errors"
)

type repository interface {
	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	CurrentPrice(ctx context.Context, productID uuid.UUID) (*models.ProductPrice, error)
	AvailableLots(ctx context.Context, productID uuid.UUID) ([]models.ProductLot, error)
	CategoriesFor(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error)
}

// Service is the read-only catalog gateway the POS core consumes.
type Service interface {
	ResolveProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	CurrentPrice(ctx context.Context, productID uuid.UUID) (*models.ProductPrice, error)
	AvailableLots(ctx context.Context, productID uuid.UUID) ([]models.ProductLot, error)
	CategoriesFor(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error)
}

type service struct {
	repo repository
}

// NewService wires the catalog gateway with the provided repository.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

// ResolveProduct returns an active product, or not-found.
func (s *service) ResolveProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product is not available")
	}
	return product, nil
}

// CurrentPrice returns the product's current price row, or not-found.
func (s *service) CurrentPrice(ctx context.Context, productID uuid.UUID) (*models.ProductPrice, error) {
	price, err := s.repo.CurrentPrice(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product has no current price")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load price")
	}
	return price, nil
}

// AvailableLots returns lots with stock, earliest expiry first. An empty
// slice is a valid answer; callers decide whether that blocks the sale.
func (s *service) AvailableLots(ctx context.Context, productID uuid.UUID) ([]models.ProductLot, error) {
	lots, err := s.repo.AvailableLots(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load lots")
	}
	return lots, nil
}

// CategoriesFor maps product ids to category ids for promotion matching.
func (s *service) CategoriesFor(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	categories, err := s.repo.CategoriesFor(ctx, productIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load categories")
	}
	return categories, nil
}
