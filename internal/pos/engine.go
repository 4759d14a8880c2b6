package pos

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmapunto/pos-backend/pkg/db/models"
	"github.com/farmapunto/pos-backend/pkg/enums"
)

// The promotion engine is a pure function of the cart, the active promotion
// set, and the product-to-category map. It always resets discount state
// before applying, so a recompute on an unchanged cart is idempotent.
//
// Promotions are not mutually exclusive: each one computes its discount
// against the line's original subtotal and adds to the accumulated total,
// clamped at the subtotal afterward. The promotion stamp on a line reflects
// the last promotion that touched it.

// rule is the typed form of a promotion row's config. Rows that cannot be
// lifted into a rule are skipped.
type rule interface {
	apply(lines []*Line, promo models.Promotion)
}

// bundleRule covers 2x1 and 3x2. Qualifying quantity is pooled across lines
// and free units go to the cheapest units first.
type bundleRule struct {
	divisor int64
}

// secondUnitRule discounts every second unit of a line by a percentage.
// Applied per line, never pooled.
type secondUnitRule struct {
	percent decimal.Decimal
}

// percentRule discounts every qualifying line's subtotal by a percentage.
type percentRule struct {
	percent decimal.Decimal
}

func parseRule(promo models.Promotion) (rule, bool) {
	switch promo.Type {
	case enums.PromotionTypeTwoForOne:
		return bundleRule{divisor: 2}, true
	case enums.PromotionTypeThreeForTwo:
		return bundleRule{divisor: 3}, true
	case enums.PromotionTypeSecondUnitDiscount:
		if promo.DiscountPercent == nil || *promo.DiscountPercent <= 0 {
			return nil, false
		}
		return secondUnitRule{percent: decimal.NewFromInt(int64(*promo.DiscountPercent))}, true
	case enums.PromotionTypePercentage:
		if promo.DiscountPercent == nil || *promo.DiscountPercent <= 0 {
			return nil, false
		}
		return percentRule{percent: decimal.NewFromInt(int64(*promo.DiscountPercent))}, true
	default:
		return nil, false
	}
}

// Recompute resets and reassigns every line's discount and promotion stamp
// in place. categories maps product id to category id for applicability.
func Recompute(lines []Line, promos []models.Promotion, categories map[uuid.UUID]uuid.UUID, now time.Time) {
	for i := range lines {
		lines[i].DiscountCents = 0
		lines[i].DiscountType = enums.DiscountTypeFixed
		lines[i].PromotionID = nil
		lines[i].PromotionName = nil
		lines[i].TotalCents = lines[i].SubtotalCents
	}

	active := make([]models.Promotion, 0, len(promos))
	for _, promo := range promos {
		if promo.InWindow(now) {
			active = append(active, promo)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Priority < active[j].Priority
	})

	for _, promo := range active {
		parsed, ok := parseRule(promo)
		if !ok {
			continue
		}
		qualifying := qualifyingLines(lines, promo, categories)
		if len(qualifying) == 0 {
			continue
		}
		parsed.apply(qualifying, promo)
	}

	for i := range lines {
		if lines[i].DiscountCents > lines[i].SubtotalCents {
			lines[i].DiscountCents = lines[i].SubtotalCents
		}
		lines[i].TotalCents = lines[i].SubtotalCents - lines[i].DiscountCents
	}
}

func qualifyingLines(lines []Line, promo models.Promotion, categories map[uuid.UUID]uuid.UUID) []*Line {
	var out []*Line
	for i := range lines {
		if promo.ProductIDs.Contains(lines[i].ProductID) {
			out = append(out, &lines[i])
			continue
		}
		if categoryID, ok := categories[lines[i].ProductID]; ok && promo.CategoryIDs.Contains(categoryID) {
			out = append(out, &lines[i])
		}
	}
	return out
}

func stamp(line *Line, promo models.Promotion, discountType enums.DiscountType) {
	id := promo.ID
	name := promo.Name
	line.PromotionID = &id
	line.PromotionName = &name
	line.DiscountType = discountType
}

func (r bundleRule) apply(lines []*Line, promo models.Promotion) {
	var totalUnits int64
	for _, line := range lines {
		totalUnits += line.Quantity.Floor().IntPart()
	}
	freeUnits := totalUnits / r.divisor
	if freeUnits == 0 {
		return
	}

	// Cheapest units become the free ones; stable so equal prices keep
	// cart order.
	ordered := make([]*Line, len(lines))
	copy(ordered, lines)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].UnitPriceCents < ordered[j].UnitPriceCents
	})

	for _, line := range ordered {
		if freeUnits == 0 {
			break
		}
		units := line.Quantity.Floor().IntPart()
		if units > freeUnits {
			units = freeUnits
		}
		line.DiscountCents += int(units) * line.UnitPriceCents
		stamp(line, promo, enums.DiscountTypeFixed)
		freeUnits -= units
	}
}

func (r secondUnitRule) apply(lines []*Line, promo models.Promotion) {
	for _, line := range lines {
		units := line.Quantity.Floor().IntPart() / 2
		if units == 0 {
			continue
		}
		discount := decimal.NewFromInt(units).
			Mul(decimal.NewFromInt(int64(line.UnitPriceCents))).
			Mul(r.percent).
			Div(decimal.NewFromInt(100)).
			Round(0).IntPart()
		line.DiscountCents += int(discount)
		stamp(line, promo, enums.DiscountTypePercentage)
	}
}

func (r percentRule) apply(lines []*Line, promo models.Promotion) {
	for _, line := range lines {
		discount := decimal.NewFromInt(int64(line.SubtotalCents)).
			Mul(r.percent).
			Div(decimal.NewFromInt(100)).
			Round(0).IntPart()
		if discount == 0 {
			continue
		}
		line.DiscountCents += int(discount)
		stamp(line, promo, enums.DiscountTypePercentage)
	}
}
