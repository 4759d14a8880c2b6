package shifts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/farmapunto/pos-backend/pkg/db"
	"github.com/farmapunto/pos-backend/pkg/db/models"
	"github.com/farmapunto/pos-backend/pkg/enums"
	pkgerrors "github.com/farmapunto/pos-backend/pkg/errors"
	"github.com/farmapunto/pos-backend/pkg/metrics"
)

type repository interface {
	Create(ctx context.Context, shift *models.Shift) (*models.Shift, error)
	Save(ctx context.Context, shift *models.Shift) error
	FindOpenByRegister(ctx context.Context, registerID string) (*models.Shift, error)
}

// Service owns the open → closed lifecycle of a register shift and the
// additive running totals applied on each completed sale.
type Service interface {
	Open(ctx context.Context, registerID, userID string, openingBalanceCents int) (*models.Shift, error)
	Current(ctx context.Context, registerID string) (*models.Shift, error)
	ApplySale(ctx context.Context, registerID string, sale *models.Sale) error
	RecordReturn(ctx context.Context, registerID string, amountCents int) (*models.Shift, error)
	Close(ctx context.Context, registerID string, countedCashCents int) (*models.Shift, error)
}

type service struct {
	repo    repository
	metrics *metrics.POSMetrics
	now     func() time.Time
}

// NewService wires the shift service with the provided repository.
func NewService(repo repository, posMetrics *metrics.POSMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("shifts repository required")
	}
	return &service{repo: repo, metrics: posMetrics, now: time.Now}, nil
}

// Open starts a new shift. Rejected while another shift is open on the
// register; there is no reopen after close.
func (s *service) Open(ctx context.Context, registerID, userID string, openingBalanceCents int) (*models.Shift, error) {
	if registerID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "register id is required")
	}
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if openingBalanceCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "opening balance must be non-negative")
	}

	if _, err := s.repo.FindOpenByRegister(ctx, registerID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a shift is already open on this register")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load open shift")
	}

	shift := &models.Shift{
		RegisterID:          registerID,
		UserID:              userID,
		OpeningBalanceCents: openingBalanceCents,
		Status:              enums.ShiftStatusOpen,
		OpenedAt:            s.now(),
	}
	created, err := s.repo.Create(ctx, shift)
	if err != nil {
		// Two terminals racing past the open-shift check land here; the
		// partial unique index on (register_id) WHERE status = 'open' holds.
		if db.IsUniqueViolation(err, "idx_shifts_open_register") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a shift is already open on this register")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create shift")
	}
	return created, nil
}

// Current returns the open shift on the register.
func (s *service) Current(ctx context.Context, registerID string) (*models.Shift, error) {
	shift, err := s.repo.FindOpenByRegister(ctx, registerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no open shift on this register")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load open shift")
	}
	return shift, nil
}

// ApplySale folds a completed sale's tender portions into the running
// totals: cash, card, and voucher buckets plus the sale total.
func (s *service) ApplySale(ctx context.Context, registerID string, sale *models.Sale) error {
	if sale == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "sale is required")
	}

	shift, err := s.Current(ctx, registerID)
	if err != nil {
		return err
	}

	for _, payment := range sale.Payments {
		switch payment.Method {
		case enums.PaymentMethodCash:
			shift.CashPaymentsCents += payment.AmountCents
		case enums.PaymentMethodCard:
			shift.CardPaymentsCents += payment.AmountCents
		case enums.PaymentMethodVoucher:
			shift.VoucherPaymentsCents += payment.AmountCents
		}
	}
	shift.SalesTotalCents += sale.TotalCents

	if err := s.repo.Save(ctx, shift); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save shift totals")
	}
	return nil
}

// RecordReturn adds a processed refund to the shift's returns total.
func (s *service) RecordReturn(ctx context.Context, registerID string, amountCents int) (*models.Shift, error) {
	if amountCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "return amount must be positive")
	}

	shift, err := s.Current(ctx, registerID)
	if err != nil {
		return nil, err
	}

	shift.ReturnsTotalCents += amountCents
	if err := s.repo.Save(ctx, shift); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save shift totals")
	}
	return shift, nil
}

// Close reconciles counted cash against the expected drawer balance and
// freezes the shift. A non-zero difference is reported, never corrected.
func (s *service) Close(ctx context.Context, registerID string, countedCashCents int) (*models.Shift, error) {
	if countedCashCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "counted cash must be non-negative")
	}

	shift, err := s.Current(ctx, registerID)
	if err != nil {
		return nil, err
	}

	expected := shift.OpeningBalanceCents + shift.CashPaymentsCents - shift.ReturnsTotalCents
	difference := countedCashCents - expected
	closedAt := s.now()

	shift.ClosingBalanceCents = &countedCashCents
	shift.ExpectedBalanceCents = &expected
	shift.DifferenceCents = &difference
	shift.Status = enums.ShiftStatusClosed
	shift.ClosedAt = &closedAt

	if err := s.repo.Save(ctx, shift); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "close shift")
	}

	s.metrics.SetShiftDifference(registerID, difference)
	return shift, nil
}
