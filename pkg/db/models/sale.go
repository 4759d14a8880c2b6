package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmapunto/pos-backend/pkg/enums"
)

// Sale is the frozen record emitted at hold or completion time. Once the
// status is held or completed the item/payment snapshot is never mutated;
// resuming a held sale deletes the row and reconstitutes a live cart.
type Sale struct {
	ID                 uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BranchID           string           `gorm:"column:branch_id;not null"`
	RegisterID         string           `gorm:"column:register_id;not null"`
	CustomerID         *uuid.UUID       `gorm:"column:customer_id;type:uuid"`
	Status             enums.SaleStatus `gorm:"column:status;not null"`
	SubtotalCents      int              `gorm:"column:subtotal_cents;not null"`
	DiscountTotalCents int              `gorm:"column:discount_total_cents;not null"`
	TaxTotalCents      int              `gorm:"column:tax_total_cents;not null;default:0"`
	TotalCents         int              `gorm:"column:total_cents;not null"`
	IsHeld             bool             `gorm:"column:is_held;not null;default:false"`
	HoldReason         *string          `gorm:"column:hold_reason"`
	CreatedBy          string           `gorm:"column:created_by;not null"`
	Items              []SaleItem       `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	Payments           []SalePayment    `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time        `gorm:"column:created_at;autoCreateTime"`
	CompletedAt        *time.Time       `gorm:"column:completed_at"`
}

// SaleItem snapshots one cart line at freeze time.
type SaleItem struct {
	ID            uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SaleID        uuid.UUID          `gorm:"column:sale_id;type:uuid;not null"`
	ProductID     uuid.UUID          `gorm:"column:product_id;type:uuid;not null"`
	LotID         uuid.UUID          `gorm:"column:lot_id;type:uuid;not null"`
	ProductName   string             `gorm:"column:product_name;not null"`
	Quantity      decimal.Decimal    `gorm:"column:quantity;type:numeric(12,3);not null"`
	UnitPriceCents int               `gorm:"column:unit_price_cents;not null"`
	DiscountCents int                `gorm:"column:discount_cents;not null;default:0"`
	DiscountType  enums.DiscountType `gorm:"column:discount_type;not null;default:'fixed'"`
	PromotionID   *uuid.UUID         `gorm:"column:promotion_id;type:uuid"`
	PromotionName *string            `gorm:"column:promotion_name"`
	SubtotalCents int                `gorm:"column:subtotal_cents;not null"`
	TotalCents    int                `gorm:"column:total_cents;not null"`
	IsFractional  bool               `gorm:"column:is_fractional;not null;default:false"`
}

// SalePayment is one immutable tender entry attached to a frozen sale.
type SalePayment struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SaleID      uuid.UUID           `gorm:"column:sale_id;type:uuid;not null"`
	Method      enums.PaymentMethod `gorm:"column:method;not null"`
	AmountCents int                 `gorm:"column:amount_cents;not null"`
	Reference   *string             `gorm:"column:reference"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
}
