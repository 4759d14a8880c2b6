package promotions

import (
	"context"
	"fmt"
	"time"

	"github.com/farmapunto/pos-backend/pkg/db/models"
	pkgerrors "github.com/farmapunto/pos-backend/pkg/errors"
)

type repository interface {
	ActiveAt(ctx context.Context, at time.Time) ([]models.Promotion, error)
}

// Source resolves the promotion set active at a given instant.
type Source interface {
	ActivePromotions(ctx context.Context, at time.Time) ([]models.Promotion, error)
}

type service struct {
	repo repository
}

// NewService wires a promotion source with the provided repository.
func NewService(repo repository) (Source, error) {
	if repo == nil {
		return nil, fmt.Errorf("promotions repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ActivePromotions(ctx context.Context, at time.Time) ([]models.Promotion, error) {
	promos, err := s.repo.ActiveAt(ctx, at)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load promotions")
	}
	return promos, nil
}
