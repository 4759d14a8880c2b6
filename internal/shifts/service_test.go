package shifts

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/farmapunto/pos-backend/pkg/db/models"
	"github.com/farmapunto/pos-backend/pkg/enums"
	pkgerrors "github.com/farmapunto/pos-backend/pkg/errors"
)

type stubShiftRepo struct {
	open map[string]*models.Shift
}

func newStubShiftRepo() *stubShiftRepo {
	return &stubShiftRepo{open: map[string]*models.Shift{}}
}

func (r *stubShiftRepo) Create(_ context.Context, shift *models.Shift) (*models.Shift, error) {
	r.open[shift.RegisterID] = shift
	return shift, nil
}

func (r *stubShiftRepo) Save(_ context.Context, shift *models.Shift) error {
	if shift.Status == enums.ShiftStatusClosed {
		delete(r.open, shift.RegisterID)
	}
	return nil
}

func (r *stubShiftRepo) FindOpenByRegister(_ context.Context, registerID string) (*models.Shift, error) {
	shift, ok := r.open[registerID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return shift, nil
}

func newTestShiftService(t *testing.T) (Service, *stubShiftRepo) {
	t.Helper()
	repo := newStubShiftRepo()
	svc, err := NewService(repo, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo
}

func cashSale(totalCents int, payments ...models.SalePayment) *models.Sale {
	return &models.Sale{
		Status:     enums.SaleStatusCompleted,
		TotalCents: totalCents,
		Payments:   payments,
	}
}

func TestOpenRejectsSecondShiftOnRegister(t *testing.T) {
	t.Parallel()

	svc, _ := newTestShiftService(t)
	ctx := context.Background()

	if _, err := svc.Open(ctx, "reg-1", "cashier-1", 100000); err != nil {
		t.Fatalf("open: %v", err)
	}

	_, err := svc.Open(ctx, "reg-1", "cashier-2", 50000)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestOpenNegativeBalanceRejected(t *testing.T) {
	t.Parallel()

	svc, _ := newTestShiftService(t)
	_, err := svc.Open(context.Background(), "reg-1", "cashier-1", -1)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestApplySaleBucketsTenderByMethod(t *testing.T) {
	t.Parallel()

	svc, repo := newTestShiftService(t)
	ctx := context.Background()

	if _, err := svc.Open(ctx, "reg-1", "cashier-1", 100000); err != nil {
		t.Fatalf("open: %v", err)
	}

	sale := cashSale(30000,
		models.SalePayment{Method: enums.PaymentMethodCash, AmountCents: 10000},
		models.SalePayment{Method: enums.PaymentMethodCard, AmountCents: 15000},
		models.SalePayment{Method: enums.PaymentMethodVoucher, AmountCents: 5000},
	)
	if err := svc.ApplySale(ctx, "reg-1", sale); err != nil {
		t.Fatalf("apply sale: %v", err)
	}

	shift := repo.open["reg-1"]
	if shift.CashPaymentsCents != 10000 || shift.CardPaymentsCents != 15000 || shift.VoucherPaymentsCents != 5000 {
		t.Fatalf("unexpected tender buckets: %+v", shift)
	}
	if shift.SalesTotalCents != 30000 {
		t.Fatalf("expected sales total 30000, got %d", shift.SalesTotalCents)
	}
}

func TestCloseComputesZeroDifference(t *testing.T) {
	t.Parallel()

	svc, _ := newTestShiftService(t)
	ctx := context.Background()

	// opening 1000.00, cash 850.00, returns 50.00, counted 1800.00
	if _, err := svc.Open(ctx, "reg-1", "cashier-1", 100000); err != nil {
		t.Fatalf("open: %v", err)
	}
	sale := cashSale(85000, models.SalePayment{Method: enums.PaymentMethodCash, AmountCents: 85000})
	if err := svc.ApplySale(ctx, "reg-1", sale); err != nil {
		t.Fatalf("apply sale: %v", err)
	}
	if _, err := svc.RecordReturn(ctx, "reg-1", 5000); err != nil {
		t.Fatalf("record return: %v", err)
	}

	shift, err := svc.Close(ctx, "reg-1", 180000)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if *shift.ExpectedBalanceCents != 180000 {
		t.Fatalf("expected balance 180000, got %d", *shift.ExpectedBalanceCents)
	}
	if *shift.DifferenceCents != 0 {
		t.Fatalf("expected zero difference, got %d", *shift.DifferenceCents)
	}
	if shift.Status != enums.ShiftStatusClosed || shift.ClosedAt == nil {
		t.Fatalf("expected closed shift, got %+v", shift)
	}
}

func TestCloseReportsShortDrawer(t *testing.T) {
	t.Parallel()

	svc, _ := newTestShiftService(t)
	ctx := context.Background()

	if _, err := svc.Open(ctx, "reg-1", "cashier-1", 100000); err != nil {
		t.Fatalf("open: %v", err)
	}
	sale := cashSale(85000, models.SalePayment{Method: enums.PaymentMethodCash, AmountCents: 85000})
	if err := svc.ApplySale(ctx, "reg-1", sale); err != nil {
		t.Fatalf("apply sale: %v", err)
	}
	if _, err := svc.RecordReturn(ctx, "reg-1", 5000); err != nil {
		t.Fatalf("record return: %v", err)
	}

	shift, err := svc.Close(ctx, "reg-1", 175000)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if *shift.DifferenceCents != -5000 {
		t.Fatalf("expected difference -5000, got %d", *shift.DifferenceCents)
	}
}

func TestCloseIsTerminal(t *testing.T) {
	t.Parallel()

	svc, _ := newTestShiftService(t)
	ctx := context.Background()

	if _, err := svc.Open(ctx, "reg-1", "cashier-1", 0); err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := svc.Close(ctx, "reg-1", 0); err != nil {
		t.Fatalf("close: %v", err)
	}

	_, err := svc.Close(ctx, "reg-1", 0)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND after close, got %v", err)
	}
}
