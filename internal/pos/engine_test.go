package pos

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmapunto/pos-backend/pkg/db/models"
	"github.com/farmapunto/pos-backend/pkg/enums"
	"github.com/farmapunto/pos-backend/pkg/types"
)

var engineNow = time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

func testLine(unitPriceCents int, qty int64) Line {
	quantity := decimal.NewFromInt(qty)
	return Line{
		ID:             uuid.New(),
		ProductID:      uuid.New(),
		LotID:          uuid.New(),
		ProductName:    "product",
		Quantity:       quantity,
		UnitPriceCents: unitPriceCents,
		DiscountType:   enums.DiscountTypeFixed,
		SubtotalCents:  subtotalCents(quantity, unitPriceCents),
	}
}

func testPromotion(promoType enums.PromotionType, categoryID uuid.UUID, percent *int, priority int) models.Promotion {
	return models.Promotion{
		ID:              uuid.New(),
		Name:            string(promoType),
		Type:            promoType,
		DiscountPercent: percent,
		CategoryIDs:     types.UUIDList{categoryID},
		StartsAt:        engineNow.Add(-time.Hour),
		EndsAt:          engineNow.Add(time.Hour),
		IsActive:        true,
		Priority:        priority,
	}
}

func categoriesFor(categoryID uuid.UUID, lines []Line) map[uuid.UUID]uuid.UUID {
	out := make(map[uuid.UUID]uuid.UUID, len(lines))
	for _, line := range lines {
		out[line.ProductID] = categoryID
	}
	return out
}

func intPtr(v int) *int { return &v }

func assertInvariants(t *testing.T, lines []Line) {
	t.Helper()
	for i, line := range lines {
		if line.DiscountCents < 0 || line.DiscountCents > line.SubtotalCents {
			t.Fatalf("line %d: discount %d out of bounds for subtotal %d", i, line.DiscountCents, line.SubtotalCents)
		}
		if line.TotalCents != line.SubtotalCents-line.DiscountCents {
			t.Fatalf("line %d: total %d != subtotal %d - discount %d", i, line.TotalCents, line.SubtotalCents, line.DiscountCents)
		}
	}
}

func TestRecomputeIdempotent(t *testing.T) {
	t.Parallel()

	categoryID := uuid.New()
	lines := []Line{testLine(10000, 2), testLine(5000, 3)}
	promos := []models.Promotion{
		testPromotion(enums.PromotionTypeTwoForOne, categoryID, nil, 10),
		testPromotion(enums.PromotionTypePercentage, categoryID, intPtr(10), 20),
	}
	categories := categoriesFor(categoryID, lines)

	Recompute(lines, promos, categories, engineNow)
	first := make([]Line, len(lines))
	copy(first, lines)

	Recompute(lines, promos, categories, engineNow)
	for i := range lines {
		if lines[i].DiscountCents != first[i].DiscountCents || lines[i].TotalCents != first[i].TotalCents {
			t.Fatalf("line %d changed on second recompute: %+v vs %+v", i, lines[i], first[i])
		}
	}
	assertInvariants(t, lines)
}

func TestTwoForOneAssignsCheapestUnit(t *testing.T) {
	t.Parallel()

	categoryID := uuid.New()
	expensive := testLine(10000, 1)
	cheap := testLine(5000, 1)
	lines := []Line{expensive, cheap}
	promos := []models.Promotion{testPromotion(enums.PromotionTypeTwoForOne, categoryID, nil, 10)}

	Recompute(lines, promos, categoriesFor(categoryID, lines), engineNow)

	if lines[0].DiscountCents != 0 {
		t.Fatalf("expected no discount on expensive line, got %d", lines[0].DiscountCents)
	}
	if lines[1].DiscountCents != 5000 {
		t.Fatalf("expected 5000 discount on cheap line, got %d", lines[1].DiscountCents)
	}
	assertInvariants(t, lines)
}

func TestThreeForTwoPoolsAcrossLines(t *testing.T) {
	t.Parallel()

	categoryID := uuid.New()
	lines := []Line{testLine(3000, 1), testLine(2000, 1), testLine(1000, 1)}
	promos := []models.Promotion{testPromotion(enums.PromotionTypeThreeForTwo, categoryID, nil, 10)}

	Recompute(lines, promos, categoriesFor(categoryID, lines), engineNow)

	if lines[0].DiscountCents != 0 || lines[1].DiscountCents != 0 {
		t.Fatalf("expected discounts only on cheapest line, got %d/%d", lines[0].DiscountCents, lines[1].DiscountCents)
	}
	if lines[2].DiscountCents != 1000 {
		t.Fatalf("expected 1000 discount on cheapest line, got %d", lines[2].DiscountCents)
	}
	assertInvariants(t, lines)
}

func TestSecondUnitDiscountPerLine(t *testing.T) {
	t.Parallel()

	categoryID := uuid.New()
	lines := []Line{testLine(2000, 4)}
	promos := []models.Promotion{testPromotion(enums.PromotionTypeSecondUnitDiscount, categoryID, intPtr(50), 10)}

	Recompute(lines, promos, categoriesFor(categoryID, lines), engineNow)

	// floor(4/2) = 2 discounted units at 50% of 2000 each
	if lines[0].DiscountCents != 2000 {
		t.Fatalf("expected 2000 discount, got %d", lines[0].DiscountCents)
	}
	assertInvariants(t, lines)
}

func TestPercentageAppliesToEveryQualifyingLine(t *testing.T) {
	t.Parallel()

	categoryID := uuid.New()
	lines := []Line{testLine(1500, 2), testLine(900, 1)}
	promos := []models.Promotion{testPromotion(enums.PromotionTypePercentage, categoryID, intPtr(10), 10)}

	Recompute(lines, promos, categoriesFor(categoryID, lines), engineNow)

	if lines[0].DiscountCents != 300 {
		t.Fatalf("expected 300 discount on first line, got %d", lines[0].DiscountCents)
	}
	if lines[1].DiscountCents != 90 {
		t.Fatalf("expected 90 discount on second line, got %d", lines[1].DiscountCents)
	}
	assertInvariants(t, lines)
}

func TestStackedPromotionsSumAndClamp(t *testing.T) {
	t.Parallel()

	categoryID := uuid.New()
	lines := []Line{testLine(1000, 1)}
	first := testPromotion(enums.PromotionTypePercentage, categoryID, intPtr(60), 10)
	second := testPromotion(enums.PromotionTypePercentage, categoryID, intPtr(60), 20)
	promos := []models.Promotion{second, first}

	Recompute(lines, promos, categoriesFor(categoryID, lines), engineNow)

	// 60% + 60% would exceed the subtotal; the clamp holds it there.
	if lines[0].DiscountCents != lines[0].SubtotalCents {
		t.Fatalf("expected discount clamped at subtotal, got %d", lines[0].DiscountCents)
	}
	if lines[0].TotalCents != 0 {
		t.Fatalf("expected zero total, got %d", lines[0].TotalCents)
	}
	if lines[0].PromotionID == nil || *lines[0].PromotionID != second.ID {
		t.Fatalf("expected stamp from the last applied promotion")
	}
	assertInvariants(t, lines)
}

func TestPromotionStampReflectsLastApplied(t *testing.T) {
	t.Parallel()

	categoryID := uuid.New()
	lines := []Line{testLine(2000, 2)}
	first := testPromotion(enums.PromotionTypePercentage, categoryID, intPtr(10), 10)
	second := testPromotion(enums.PromotionTypePercentage, categoryID, intPtr(5), 20)
	promos := []models.Promotion{first, second}

	Recompute(lines, promos, categoriesFor(categoryID, lines), engineNow)

	// 10% of 4000 plus 5% of 4000, both against the original subtotal.
	if lines[0].DiscountCents != 600 {
		t.Fatalf("expected stacked 600 discount, got %d", lines[0].DiscountCents)
	}
	if lines[0].PromotionName == nil || *lines[0].PromotionName != second.Name {
		t.Fatalf("expected stamp from the later promotion, got %v", lines[0].PromotionName)
	}
	assertInvariants(t, lines)
}

func TestInactiveAndExpiredPromotionsSkipped(t *testing.T) {
	t.Parallel()

	categoryID := uuid.New()
	lines := []Line{testLine(1000, 2)}

	inactive := testPromotion(enums.PromotionTypePercentage, categoryID, intPtr(50), 10)
	inactive.IsActive = false
	expired := testPromotion(enums.PromotionTypePercentage, categoryID, intPtr(50), 10)
	expired.EndsAt = engineNow.Add(-time.Minute)
	expired.StartsAt = engineNow.Add(-time.Hour)

	Recompute(lines, []models.Promotion{inactive, expired}, categoriesFor(categoryID, lines), engineNow)

	if lines[0].DiscountCents != 0 {
		t.Fatalf("expected no discount, got %d", lines[0].DiscountCents)
	}
	if lines[0].PromotionID != nil {
		t.Fatal("expected no promotion stamp")
	}
}

func TestUnparseablePromotionSkipped(t *testing.T) {
	t.Parallel()

	categoryID := uuid.New()
	lines := []Line{testLine(1000, 2)}
	broken := testPromotion(enums.PromotionTypePercentage, categoryID, nil, 10)

	Recompute(lines, []models.Promotion{broken}, categoriesFor(categoryID, lines), engineNow)

	if lines[0].DiscountCents != 0 {
		t.Fatalf("expected no discount from unparseable promotion, got %d", lines[0].DiscountCents)
	}
}

func TestRecomputeResetsStaleDiscounts(t *testing.T) {
	t.Parallel()

	lines := []Line{testLine(1000, 1)}
	staleID := uuid.New()
	lines[0].DiscountCents = 400
	lines[0].PromotionID = &staleID

	Recompute(lines, nil, nil, engineNow)

	if lines[0].DiscountCents != 0 || lines[0].PromotionID != nil {
		t.Fatalf("expected discount state reset, got %+v", lines[0])
	}
	if lines[0].TotalCents != lines[0].SubtotalCents {
		t.Fatalf("expected total restored to subtotal")
	}
}

func TestProductScopedPromotionMatchesWithoutCategory(t *testing.T) {
	t.Parallel()

	lines := []Line{testLine(1000, 1), testLine(1000, 1)}
	promo := models.Promotion{
		ID:              uuid.New(),
		Name:            "targeted",
		Type:            enums.PromotionTypePercentage,
		DiscountPercent: intPtr(25),
		ProductIDs:      types.UUIDList{lines[0].ProductID},
		StartsAt:        engineNow.Add(-time.Hour),
		EndsAt:          engineNow.Add(time.Hour),
		IsActive:        true,
		Priority:        10,
	}

	Recompute(lines, []models.Promotion{promo}, nil, engineNow)

	if lines[0].DiscountCents != 250 {
		t.Fatalf("expected 250 discount on targeted product, got %d", lines[0].DiscountCents)
	}
	if lines[1].DiscountCents != 0 {
		t.Fatalf("expected untargeted product untouched, got %d", lines[1].DiscountCents)
	}
}
