package pos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmapunto/pos-backend/pkg/enums"
)

// ErrSessionNotFound marks a register with no live session in the store.
var ErrSessionNotFound = errors.New("pos: session not found")

// SessionStore persists the live session between requests. One writer per
// register; handlers never share a session across registers.
type SessionStore interface {
	Load(ctx context.Context, registerID string) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context, registerID string) error
}

// Terminal identifies the register a request acts on, taken from the
// terminal token claims.
type Terminal struct {
	RegisterID string
	BranchID   string
	UserID     string
}

// Line is one product entry in the live cart. Discount fields are owned by
// the promotion engine and reset on every recompute.
type Line struct {
	ID            uuid.UUID          `json:"id"`
	ProductID     uuid.UUID          `json:"product_id"`
	LotID         uuid.UUID          `json:"lot_id"`
	ProductName   string             `json:"product_name"`
	Quantity      decimal.Decimal    `json:"quantity"`
	UnitPriceCents int               `json:"unit_price_cents"`
	DiscountCents int                `json:"discount_cents"`
	DiscountType  enums.DiscountType `json:"discount_type"`
	PromotionID   *uuid.UUID         `json:"promotion_id,omitempty"`
	PromotionName *string            `json:"promotion_name,omitempty"`
	SubtotalCents int                `json:"subtotal_cents"`
	TotalCents    int                `json:"total_cents"`
	Fractional    bool               `json:"fractional"`
}

// Tender is one payment entry. Immutable once appended to the ledger.
type Tender struct {
	ID          uuid.UUID           `json:"id"`
	Method      enums.PaymentMethod `json:"method"`
	AmountCents int                 `json:"amount_cents"`
	Reference   *string             `json:"reference,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

// Session is the live cart/ledger pair of one register, serialized to the
// session store between requests.
type Session struct {
	RegisterID string     `json:"register_id"`
	BranchID   string     `json:"branch_id"`
	UserID     string     `json:"user_id"`
	CustomerID *uuid.UUID `json:"customer_id,omitempty"`
	Lines      []Line     `json:"lines"`
	Payments   []Tender   `json:"payments"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// NewSession returns an empty session bound to the terminal identity.
func NewSession(term Terminal) *Session {
	return &Session{
		RegisterID: term.RegisterID,
		BranchID:   term.BranchID,
		UserID:     term.UserID,
		Lines:      []Line{},
		Payments:   []Tender{},
	}
}

// IsEmpty reports whether the cart has no lines.
func (s *Session) IsEmpty() bool {
	return len(s.Lines) == 0
}

// SubtotalCents sums the undiscounted line subtotals.
func (s *Session) SubtotalCents() int {
	var sum int
	for _, line := range s.Lines {
		sum += line.SubtotalCents
	}
	return sum
}

// DiscountTotalCents sums the per-line discounts.
func (s *Session) DiscountTotalCents() int {
	var sum int
	for _, line := range s.Lines {
		sum += line.DiscountCents
	}
	return sum
}

// TotalCents is the amount due after discounts.
func (s *Session) TotalCents() int {
	return s.SubtotalCents() - s.DiscountTotalCents()
}

// TotalPaidCents sums all tender entries.
func (s *Session) TotalPaidCents() int {
	var sum int
	for _, payment := range s.Payments {
		sum += payment.AmountCents
	}
	return sum
}

// RemainingCents is the amount still due, floored at zero.
func (s *Session) RemainingCents() int {
	if remaining := s.TotalCents() - s.TotalPaidCents(); remaining > 0 {
		return remaining
	}
	return 0
}

// ChangeCents is the over-payment owed back, floored at zero.
func (s *Session) ChangeCents() int {
	if change := s.TotalPaidCents() - s.TotalCents(); change > 0 {
		return change
	}
	return 0
}

func (s *Session) lineIndex(lineID uuid.UUID) int {
	for i := range s.Lines {
		if s.Lines[i].ID == lineID {
			return i
		}
	}
	return -1
}

func (s *Session) productIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s.Lines))
	seen := make(map[uuid.UUID]struct{}, len(s.Lines))
	for _, line := range s.Lines {
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		ids = append(ids, line.ProductID)
	}
	return ids
}

// subtotalCents computes quantity times unit price, rounded to whole cents.
func subtotalCents(quantity decimal.Decimal, unitPriceCents int) int {
	return int(quantity.Mul(decimal.NewFromInt(int64(unitPriceCents))).Round(0).IntPart())
}
