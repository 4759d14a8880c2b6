package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/farmapunto/pos-backend/pkg/enums"
	"github.com/farmapunto/pos-backend/pkg/types"
)

// Promotion is a pricing rule owned by the catalog side; read-only to the
// POS core. Config columns are nullable and lifted into a typed rule by the
// promotion engine, which skips rows it cannot parse.
type Promotion struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string              `gorm:"column:name;not null"`
	Description     *string             `gorm:"column:description"`
	Type            enums.PromotionType `gorm:"column:type;not null"`
	DiscountPercent *int                `gorm:"column:discount_percent"`
	BuyQuantity     *int                `gorm:"column:buy_quantity"`
	GetQuantity     *int                `gorm:"column:get_quantity"`
	CategoryIDs     types.UUIDList      `gorm:"column:category_ids;type:jsonb;serializer:json"`
	ProductIDs      types.UUIDList      `gorm:"column:product_ids;type:jsonb;serializer:json"`
	StartsAt        time.Time           `gorm:"column:starts_at;not null"`
	EndsAt          time.Time           `gorm:"column:ends_at;not null"`
	IsActive        bool                `gorm:"column:is_active;not null;default:true"`
	Priority        int                 `gorm:"column:priority;not null;default:100"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
}

// InWindow reports whether the promotion is active at the given instant.
func (p Promotion) InWindow(at time.Time) bool {
	if !p.IsActive {
		return false
	}
	if at.Before(p.StartsAt) || at.After(p.EndsAt) {
		return false
	}
	return true
}
