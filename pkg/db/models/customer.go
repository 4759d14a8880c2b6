package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer identifies a registered shopper for loyalty and held sales.
type Customer struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	QRCode    string    `gorm:"column:qr_code;not null"`
	FirstName string    `gorm:"column:first_name;not null"`
	LastName  string    `gorm:"column:last_name;not null"`
	Email     *string   `gorm:"column:email"`
	Phone     string    `gorm:"column:phone;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// LoyaltyAccount carries the points balance the POS core applies deltas to.
type LoyaltyAccount struct {
	ID                  uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID          uuid.UUID `gorm:"column:customer_id;type:uuid;not null;uniqueIndex"`
	Points              int       `gorm:"column:points;not null;default:0"`
	TotalPointsEarned   int       `gorm:"column:total_points_earned;not null;default:0"`
	TotalPointsRedeemed int       `gorm:"column:total_points_redeemed;not null;default:0"`
	Level               string    `gorm:"column:level;not null;default:'bronze'"`
	CreatedAt           time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
