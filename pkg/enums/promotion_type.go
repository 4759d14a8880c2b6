package enums

import "fmt"

// PromotionType names the pricing rule a promotion applies.
type PromotionType string

const (
	PromotionTypeTwoForOne          PromotionType = "2x1"
	PromotionTypeThreeForTwo        PromotionType = "3x2"
	PromotionTypeSecondUnitDiscount PromotionType = "second_unit_discount"
	PromotionTypePercentage         PromotionType = "percentage"
)

var validPromotionTypes = []PromotionType{
	PromotionTypeTwoForOne,
	PromotionTypeThreeForTwo,
	PromotionTypeSecondUnitDiscount,
	PromotionTypePercentage,
}

// String implements fmt.Stringer.
func (p PromotionType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PromotionType.
func (p PromotionType) IsValid() bool {
	for _, candidate := range validPromotionTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePromotionType converts raw input into a PromotionType.
func ParsePromotionType(value string) (PromotionType, error) {
	for _, candidate := range validPromotionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid promotion type %q", value)
}
