package pos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/farmapunto/pos-backend/internal/catalog"
	"github.com/farmapunto/pos-backend/internal/loyalty"
	"github.com/farmapunto/pos-backend/internal/promotions"
	"github.com/farmapunto/pos-backend/internal/shifts"
	"github.com/farmapunto/pos-backend/pkg/db/models"
	"github.com/farmapunto/pos-backend/pkg/enums"
	pkgerrors "github.com/farmapunto/pos-backend/pkg/errors"
	"github.com/farmapunto/pos-backend/pkg/logger"
	"github.com/farmapunto/pos-backend/pkg/metrics"
)

// loyaltyPointsDivisor converts a completed total in cents into earned
// points: one point per 10 currency units.
const loyaltyPointsDivisor = 1000

type saleStore interface {
	Create(ctx context.Context, sale *models.Sale) (*models.Sale, error)
	FindHeld(ctx context.Context, id uuid.UUID) (*models.Sale, error)
	ListHeld(ctx context.Context, registerID string) ([]models.Sale, error)
	DeleteHeld(ctx context.Context, id uuid.UUID) error
}

// Service is the transaction core of a register: cart mutations, the tender
// ledger, and the sale lifecycle. Every operation either fully applies and
// saves the session, or fails and leaves it untouched.
type Service interface {
	CurrentSession(ctx context.Context, term Terminal) (*Session, error)
	AddLine(ctx context.Context, term Terminal, productID uuid.UUID, quantity decimal.Decimal, fractional bool) (*Session, error)
	SetQuantity(ctx context.Context, term Terminal, lineID uuid.UUID, quantity decimal.Decimal) (*Session, error)
	RemoveLine(ctx context.Context, term Terminal, lineID uuid.UUID) (*Session, error)
	ClearCart(ctx context.Context, term Terminal) (*Session, error)
	AttachCustomer(ctx context.Context, term Terminal, customerID uuid.UUID) (*Session, error)
	DetachCustomer(ctx context.Context, term Terminal) (*Session, error)
	AddPayment(ctx context.Context, term Terminal, method enums.PaymentMethod, amountCents int, reference *string) (*Session, error)
	ClearPayments(ctx context.Context, term Terminal) (*Session, error)
	Hold(ctx context.Context, term Terminal, reason *string) (*models.Sale, error)
	Resume(ctx context.Context, term Terminal, saleID uuid.UUID) (*Session, error)
	Complete(ctx context.Context, term Terminal) (*models.Sale, error)
	Cancel(ctx context.Context, term Terminal) error
	ListHeld(ctx context.Context, term Terminal) ([]models.Sale, error)
}

type service struct {
	sessions SessionStore
	catalog  catalog.Service
	promos   promotions.Source
	loyalty  loyalty.Service
	sales    saleStore
	shifts   shifts.Service
	metrics  *metrics.POSMetrics
	logg     *logger.Logger
	now      func() time.Time
}

// NewService wires the POS core with its collaborators.
func NewService(
	sessions SessionStore,
	catalogSvc catalog.Service,
	promoSource promotions.Source,
	loyaltySvc loyalty.Service,
	sales saleStore,
	shiftSvc shifts.Service,
	posMetrics *metrics.POSMetrics,
	logg *logger.Logger,
) (Service, error) {
	if sessions == nil {
		return nil, fmt.Errorf("session store required")
	}
	if catalogSvc == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	if promoSource == nil {
		return nil, fmt.Errorf("promotion source required")
	}
	if loyaltySvc == nil {
		return nil, fmt.Errorf("loyalty service required")
	}
	if sales == nil {
		return nil, fmt.Errorf("sale store required")
	}
	if shiftSvc == nil {
		return nil, fmt.Errorf("shift service required")
	}
	return &service{
		sessions: sessions,
		catalog:  catalogSvc,
		promos:   promoSource,
		loyalty:  loyaltySvc,
		sales:    sales,
		shifts:   shiftSvc,
		metrics:  posMetrics,
		logg:     logg,
		now:      time.Now,
	}, nil
}

// CurrentSession returns the register's live session, creating an empty one
// if none exists yet.
func (s *service) CurrentSession(ctx context.Context, term Terminal) (*Session, error) {
	return s.loadOrCreate(ctx, term)
}

// AddLine resolves the product, its current price, and the
// earliest-expiring lot with stock, then merges or appends a cart line.
// Any unresolved reference leaves the session untouched.
func (s *service) AddLine(ctx context.Context, term Terminal, productID uuid.UUID, quantity decimal.Decimal, fractional bool) (*Session, error) {
	if !quantity.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if !fractional && !quantity.IsInteger() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a whole number")
	}

	session, err := s.loadOrCreate(ctx, term)
	if err != nil {
		return nil, err
	}

	product, err := s.catalog.ResolveProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if fractional && !product.IsFractional {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product cannot be sold fractionally")
	}
	price, err := s.catalog.CurrentPrice(ctx, productID)
	if err != nil {
		return nil, err
	}
	lots, err := s.catalog.AvailableLots(ctx, productID)
	if err != nil {
		return nil, err
	}
	if len(lots) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product has no stock")
	}

	merged := false
	if !fractional {
		for i := range session.Lines {
			if session.Lines[i].ProductID == productID && !session.Lines[i].Fractional {
				session.Lines[i].Quantity = session.Lines[i].Quantity.Add(quantity)
				session.Lines[i].SubtotalCents = subtotalCents(session.Lines[i].Quantity, session.Lines[i].UnitPriceCents)
				merged = true
				break
			}
		}
	}
	if !merged {
		session.Lines = append(session.Lines, Line{
			ID:             uuid.New(),
			ProductID:      product.ID,
			LotID:          lots[0].ID,
			ProductName:    product.Name,
			Quantity:       quantity,
			UnitPriceCents: price.PriceCents,
			DiscountType:   enums.DiscountTypeFixed,
			SubtotalCents:  subtotalCents(quantity, price.PriceCents),
			Fractional:     fractional,
		})
	}

	if err := s.recompute(ctx, session); err != nil {
		return nil, err
	}
	return session, s.save(ctx, session)
}

// SetQuantity updates a line in place; a quantity at or below zero removes
// the line.
func (s *service) SetQuantity(ctx context.Context, term Terminal, lineID uuid.UUID, quantity decimal.Decimal) (*Session, error) {
	if !quantity.IsPositive() {
		return s.RemoveLine(ctx, term, lineID)
	}

	session, err := s.loadOrCreate(ctx, term)
	if err != nil {
		return nil, err
	}
	idx := session.lineIndex(lineID)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	if !session.Lines[idx].Fractional && !quantity.IsInteger() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a whole number")
	}

	session.Lines[idx].Quantity = quantity
	session.Lines[idx].SubtotalCents = subtotalCents(quantity, session.Lines[idx].UnitPriceCents)

	if err := s.recompute(ctx, session); err != nil {
		return nil, err
	}
	return session, s.save(ctx, session)
}

// RemoveLine drops a line from the cart.
func (s *service) RemoveLine(ctx context.Context, term Terminal, lineID uuid.UUID) (*Session, error) {
	session, err := s.loadOrCreate(ctx, term)
	if err != nil {
		return nil, err
	}
	idx := session.lineIndex(lineID)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}

	session.Lines = append(session.Lines[:idx], session.Lines[idx+1:]...)

	if err := s.recompute(ctx, session); err != nil {
		return nil, err
	}
	return session, s.save(ctx, session)
}

// ClearCart empties lines, payments, and the customer binding together.
func (s *service) ClearCart(ctx context.Context, term Terminal) (*Session, error) {
	session := NewSession(term)
	return session, s.save(ctx, session)
}

// AttachCustomer binds a customer to the session for loyalty accrual.
func (s *service) AttachCustomer(ctx context.Context, term Terminal, customerID uuid.UUID) (*Session, error) {
	session, err := s.loadOrCreate(ctx, term)
	if err != nil {
		return nil, err
	}
	customer, err := s.loyalty.FindCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	session.CustomerID = &customer.ID
	return session, s.save(ctx, session)
}

// DetachCustomer removes the customer binding. Rejected while a points
// tender is on the ledger.
func (s *service) DetachCustomer(ctx context.Context, term Terminal) (*Session, error) {
	session, err := s.loadOrCreate(ctx, term)
	if err != nil {
		return nil, err
	}
	for _, payment := range session.Payments {
		if payment.Method == enums.PaymentMethodPoints {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cannot detach customer while a points payment is recorded")
		}
	}
	session.CustomerID = nil
	return session, s.save(ctx, session)
}

// AddPayment appends a tender entry. Over-payment is allowed and becomes
// change; the points method requires an attached loyalty customer.
func (s *service) AddPayment(ctx context.Context, term Terminal, method enums.PaymentMethod, amountCents int, reference *string) (*Session, error) {
	if !method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if amountCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment amount must be positive")
	}

	session, err := s.loadOrCreate(ctx, term)
	if err != nil {
		return nil, err
	}
	if session.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cannot record a payment on an empty cart")
	}
	if method == enums.PaymentMethodPoints {
		if session.CustomerID == nil {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "points payment requires an attached customer")
		}
		if _, err := s.loyalty.FindAccountByCustomer(ctx, *session.CustomerID); err != nil {
			return nil, err
		}
	}

	session.Payments = append(session.Payments, Tender{
		ID:          uuid.New(),
		Method:      method,
		AmountCents: amountCents,
		Reference:   reference,
		CreatedAt:   s.now(),
	})
	return session, s.save(ctx, session)
}

// ClearPayments empties the tender ledger without touching the cart.
func (s *service) ClearPayments(ctx context.Context, term Terminal) (*Session, error) {
	session, err := s.loadOrCreate(ctx, term)
	if err != nil {
		return nil, err
	}
	session.Payments = []Tender{}
	return session, s.save(ctx, session)
}

// Hold snapshots the cart, ledger, and customer into a held sale and clears
// the live session.
func (s *service) Hold(ctx context.Context, term Terminal, reason *string) (*models.Sale, error) {
	session, err := s.loadOrCreate(ctx, term)
	if err != nil {
		return nil, err
	}
	if session.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cannot hold an empty cart")
	}

	sale := s.freezeSale(session, term, enums.SaleStatusHeld)
	sale.IsHeld = true
	sale.HoldReason = reason

	created, err := s.sales.Create(ctx, sale)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist held sale")
	}

	if err := s.sessions.Delete(ctx, term.RegisterID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear session")
	}
	s.metrics.IncSaleHeld()
	return created, nil
}

// Resume reconstitutes a held sale into the live cart and deletes the held
// record. The customer is re-resolved by id so edits since parking are
// reflected; payments are never restored.
func (s *service) Resume(ctx context.Context, term Terminal, saleID uuid.UUID) (*Session, error) {
	session, err := s.loadOrCreate(ctx, term)
	if err != nil {
		return nil, err
	}
	if !session.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "a sale is already in progress on this register")
	}

	held, err := s.sales.FindHeld(ctx, saleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "held sale not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load held sale")
	}

	session = NewSession(term)
	for _, item := range held.Items {
		session.Lines = append(session.Lines, Line{
			ID:             uuid.New(),
			ProductID:      item.ProductID,
			LotID:          item.LotID,
			ProductName:    item.ProductName,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			DiscountType:   enums.DiscountTypeFixed,
			SubtotalCents:  subtotalCents(item.Quantity, item.UnitPriceCents),
			Fractional:     item.IsFractional,
		})
	}
	if held.CustomerID != nil {
		customer, err := s.loyalty.FindCustomer(ctx, *held.CustomerID)
		switch {
		case err == nil:
			session.CustomerID = &customer.ID
		case pkgerrors.As(err) != nil && pkgerrors.As(err).Code() == pkgerrors.CodeNotFound:
			if s.logg != nil {
				s.logg.Warn(ctx, "held sale customer no longer exists, resuming without customer")
			}
		default:
			return nil, err
		}
	}

	if err := s.recompute(ctx, session); err != nil {
		return nil, err
	}
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	if err := s.sales.DeleteHeld(ctx, saleID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete held sale")
	}
	return session, nil
}

// Complete finalizes the sale. Requires the ledger to cover the total;
// otherwise fails with no state change. On success it persists the frozen
// sale, accrues loyalty points, applies the tender to the open shift, and
// clears the session.
func (s *service) Complete(ctx context.Context, term Terminal) (*models.Sale, error) {
	session, err := s.loadOrCreate(ctx, term)
	if err != nil {
		return nil, err
	}
	if session.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cannot complete an empty cart")
	}
	if session.TotalPaidCents() < session.TotalCents() {
		return nil, pkgerrors.New(pkgerrors.CodePaymentIncomplete, "recorded payments do not cover the total").
			WithDetails(map[string]int{"remaining_cents": session.RemainingCents()})
	}

	now := s.now()
	sale := s.freezeSale(session, term, enums.SaleStatusCompleted)
	sale.CompletedAt = &now

	created, err := s.sales.Create(ctx, sale)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist sale")
	}

	if session.CustomerID != nil {
		if delta := created.TotalCents / loyaltyPointsDivisor; delta > 0 {
			if _, err := s.loyalty.ApplyPointsDelta(ctx, *session.CustomerID, delta); err != nil && s.logg != nil {
				s.logg.Error(ctx, "loyalty accrual failed", err)
			}
		}
	}
	if err := s.shifts.ApplySale(ctx, term.RegisterID, created); err != nil && s.logg != nil {
		s.logg.Error(ctx, "shift totals update failed", err)
	}

	if err := s.sessions.Delete(ctx, term.RegisterID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear session")
	}
	s.metrics.ObserveSaleCompleted(term.RegisterID, created.TotalCents)
	return created, nil
}

// Cancel discards the live session without emitting a sale record.
func (s *service) Cancel(ctx context.Context, term Terminal) error {
	if err := s.sessions.Delete(ctx, term.RegisterID); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear session")
	}
	s.metrics.IncSaleCancelled()
	return nil
}

// ListHeld returns the register's parked sales, oldest first.
func (s *service) ListHeld(ctx context.Context, term Terminal) ([]models.Sale, error) {
	held, err := s.sales.ListHeld(ctx, term.RegisterID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list held sales")
	}
	return held, nil
}

// recompute reloads the active promotion set and category map and reruns
// the engine over the whole cart.
func (s *service) recompute(ctx context.Context, session *Session) error {
	if session.IsEmpty() {
		return nil
	}
	now := s.now()
	promos, err := s.promos.ActivePromotions(ctx, now)
	if err != nil {
		return err
	}
	categories, err := s.catalog.CategoriesFor(ctx, session.productIDs())
	if err != nil {
		return err
	}
	Recompute(session.Lines, promos, categories, now)
	return nil
}

func (s *service) save(ctx context.Context, session *Session) error {
	session.UpdatedAt = s.now()
	if err := s.sessions.Save(ctx, session); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save session")
	}
	return nil
}

func (s *service) loadOrCreate(ctx context.Context, term Terminal) (*Session, error) {
	session, err := s.sessions.Load(ctx, term.RegisterID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return NewSession(term), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}
	return session, nil
}

// freezeSale copies the session into an immutable sale record.
func (s *service) freezeSale(session *Session, term Terminal, status enums.SaleStatus) *models.Sale {
	sale := &models.Sale{
		BranchID:           term.BranchID,
		RegisterID:         term.RegisterID,
		CustomerID:         session.CustomerID,
		Status:             status,
		SubtotalCents:      session.SubtotalCents(),
		DiscountTotalCents: session.DiscountTotalCents(),
		TotalCents:         session.TotalCents(),
		CreatedBy:          term.UserID,
	}
	for _, line := range session.Lines {
		sale.Items = append(sale.Items, models.SaleItem{
			ProductID:      line.ProductID,
			LotID:          line.LotID,
			ProductName:    line.ProductName,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
			DiscountCents:  line.DiscountCents,
			DiscountType:   line.DiscountType,
			PromotionID:    line.PromotionID,
			PromotionName:  line.PromotionName,
			SubtotalCents:  line.SubtotalCents,
			TotalCents:     line.TotalCents,
			IsFractional:   line.Fractional,
		})
	}
	for _, payment := range session.Payments {
		sale.Payments = append(sale.Payments, models.SalePayment{
			Method:      payment.Method,
			AmountCents: payment.AmountCents,
			Reference:   payment.Reference,
		})
	}
	return sale
}
