package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products for promotion scoping.
type Category struct {
	ID   uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name string    `gorm:"column:name;not null"`
}

// Product is the canonical catalog entry the POS sells from.
type Product struct {
	ID                   uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKU                  string     `gorm:"column:sku;not null"`
	Barcode              string     `gorm:"column:barcode;not null"`
	Name                 string     `gorm:"column:name;not null"`
	GenericName          *string    `gorm:"column:generic_name"`
	CategoryID           uuid.UUID  `gorm:"column:category_id;type:uuid;not null"`
	IsFractional         bool       `gorm:"column:is_fractional;not null;default:false"`
	RequiresPrescription bool       `gorm:"column:requires_prescription;not null;default:false"`
	IsActive             bool       `gorm:"column:is_active;not null;default:true"`
	Prices               []ProductPrice `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Lots                 []ProductLot   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt            time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// ProductPrice is the current selling price snapshot for a product.
type ProductPrice struct {
	ID                 uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID          uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	PriceCents         int       `gorm:"column:price_cents;not null"`
	MinPriceCents      int       `gorm:"column:min_price_cents;not null;default:0"`
	MaxDiscountPercent int       `gorm:"column:max_discount_percent;not null;default:100"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// ProductLot is a received supply batch with its own quantity and expiry.
type ProductLot struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	LotNumber  string    `gorm:"column:lot_number;not null"`
	Quantity   int       `gorm:"column:quantity;not null;default:0"`
	CostCents  int       `gorm:"column:cost_cents;not null;default:0"`
	ExpiresAt  time.Time `gorm:"column:expires_at;not null"`
	ReceivedAt time.Time `gorm:"column:received_at;not null"`
}
