package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/farmapunto/pos-backend/pkg/enums"
)

// Shift is one cash-register working period. Running totals mutate
// additively on each completed sale; the record freezes at close.
type Shift struct {
	ID                   uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RegisterID           string            `gorm:"column:register_id;not null"`
	UserID               string            `gorm:"column:user_id;not null"`
	OpeningBalanceCents  int               `gorm:"column:opening_balance_cents;not null"`
	ClosingBalanceCents  *int              `gorm:"column:closing_balance_cents"`
	ExpectedBalanceCents *int              `gorm:"column:expected_balance_cents"`
	DifferenceCents      *int              `gorm:"column:difference_cents"`
	SalesTotalCents      int               `gorm:"column:sales_total_cents;not null;default:0"`
	ReturnsTotalCents    int               `gorm:"column:returns_total_cents;not null;default:0"`
	CashPaymentsCents    int               `gorm:"column:cash_payments_cents;not null;default:0"`
	CardPaymentsCents    int               `gorm:"column:card_payments_cents;not null;default:0"`
	VoucherPaymentsCents int               `gorm:"column:voucher_payments_cents;not null;default:0"`
	Status               enums.ShiftStatus `gorm:"column:status;not null;default:'open'"`
	OpenedAt             time.Time         `gorm:"column:opened_at;autoCreateTime"`
	ClosedAt             *time.Time        `gorm:"column:closed_at"`
}
