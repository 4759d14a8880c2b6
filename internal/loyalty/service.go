package loyalty

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
	FindCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	FindAccountByCustomer(ctx context.Context, customerID uuid.UUID) (*models.LoyaltyAccount, error)
	SaveAccount(ctx context.Context, account *models.LoyaltyAccount) error
}

// Service is the customer/loyalty store the POS core applies point deltas
// through. The core never owns the account, it only adds or subtracts.
type Service interface {
	FindCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	FindAccountByCustomer(ctx context.Context, customerID uuid.UUID) (*models.LoyaltyAccount, error)
	ApplyPointsDelta(ctx context.Context, customerID uuid.UUID, delta int) (*models.LoyaltyAccount, error)
}

type service struct {
	repo repository
}

// NewService wires the loyalty service with the provided repository.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("loyalty repository required")
	}
	return &service{repo: repo}, nil
}

// FindCustomer resolves a customer by id, or not-found.
func (s *service) FindCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	customer, err := s.repo.FindCustomer(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return customer, nil
}

// FindAccountByCustomer resolves the loyalty account for a customer.
func (s *service) FindAccountByCustomer(ctx context.Context, customerID uuid.UUID) (*models.LoyaltyAccount, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	account, err := s.repo.FindAccountByCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "loyalty account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load loyalty account")
	}
	return account, nil
}

// ApplyPointsDelta adds delta to the account balance. Positive deltas also
// bump the cumulative earned counter; negative deltas bump redeemed. A
// negative delta may not take the balance below zero.
func (s *service) ApplyPointsDelta(ctx context.Context, customerID uuid.UUID, delta int) (*models.LoyaltyAccount, error) {
	if delta == 0 {
		return s.FindAccountByCustomer(ctx, customerID)
	}

	account, err := s.FindAccountByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if delta < 0 && account.Points+delta < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "insufficient loyalty points")
	}

	account.Points += delta
	if delta > 0 {
		account.TotalPointsEarned += delta
	} else {
		account.TotalPointsRedeemed += -delta
	}

	if err := s.repo.SaveAccount(ctx, account); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save loyalty account")
	}
	return account, nil
}
