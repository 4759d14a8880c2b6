package pos

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	possvc "github.com/farmapunto/pos-backend/internal/pos"
	"github.com/farmapunto/pos-backend/pkg/db/models"
)

type lineResponse struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      uuid.UUID       `json:"product_id"`
	LotID          uuid.UUID       `json:"lot_id"`
	ProductName    string          `json:"product_name"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPriceCents int             `json:"unit_price_cents"`
	DiscountCents  int             `json:"discount_cents"`
	DiscountType   string          `json:"discount_type"`
	PromotionID    *uuid.UUID      `json:"promotion_id,omitempty"`
	PromotionName  *string         `json:"promotion_name,omitempty"`
	SubtotalCents  int             `json:"subtotal_cents"`
	TotalCents     int             `json:"total_cents"`
	Fractional     bool            `json:"fractional"`
}

type paymentResponse struct {
	ID          uuid.UUID `json:"id"`
	Method      string    `json:"method"`
	AmountCents int       `json:"amount_cents"`
	Reference   *string   `json:"reference,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type sessionResponse struct {
	RegisterID         string            `json:"register_id"`
	CustomerID         *uuid.UUID        `json:"customer_id,omitempty"`
	Lines              []lineResponse    `json:"lines"`
	Payments           []paymentResponse `json:"payments"`
	SubtotalCents      int               `json:"subtotal_cents"`
	DiscountTotalCents int               `json:"discount_total_cents"`
	TotalCents         int               `json:"total_cents"`
	TotalPaidCents     int               `json:"total_paid_cents"`
	RemainingCents     int               `json:"remaining_cents"`
	ChangeCents        int               `json:"change_cents"`
}

func newSessionResponse(session *possvc.Session) sessionResponse {
	resp := sessionResponse{
		RegisterID:         session.RegisterID,
		CustomerID:         session.CustomerID,
		Lines:              []lineResponse{},
		Payments:           []paymentResponse{},
		SubtotalCents:      session.SubtotalCents(),
		DiscountTotalCents: session.DiscountTotalCents(),
		TotalCents:         session.TotalCents(),
		TotalPaidCents:     session.TotalPaidCents(),
		RemainingCents:     session.RemainingCents(),
		ChangeCents:        session.ChangeCents(),
	}
	for _, line := range session.Lines {
		resp.Lines = append(resp.Lines, lineResponse{
			ID:             line.ID,
			ProductID:      line.ProductID,
			LotID:          line.LotID,
			ProductName:    line.ProductName,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
			DiscountCents:  line.DiscountCents,
			DiscountType:   line.DiscountType.String(),
			PromotionID:    line.PromotionID,
			PromotionName:  line.PromotionName,
			SubtotalCents:  line.SubtotalCents,
			TotalCents:     line.TotalCents,
			Fractional:     line.Fractional,
		})
	}
	for _, payment := range session.Payments {
		resp.Payments = append(resp.Payments, paymentResponse{
			ID:          payment.ID,
			Method:      payment.Method.String(),
			AmountCents: payment.AmountCents,
			Reference:   payment.Reference,
			CreatedAt:   payment.CreatedAt,
		})
	}
	return resp
}

type saleItemResponse struct {
	ProductID      uuid.UUID       `json:"product_id"`
	LotID          uuid.UUID       `json:"lot_id"`
	ProductName    string          `json:"product_name"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPriceCents int             `json:"unit_price_cents"`
	DiscountCents  int             `json:"discount_cents"`
	SubtotalCents  int             `json:"subtotal_cents"`
	TotalCents     int             `json:"total_cents"`
}

type saleResponse struct {
	ID                 uuid.UUID          `json:"id"`
	BranchID           string             `json:"branch_id"`
	RegisterID         string             `json:"register_id"`
	CustomerID         *uuid.UUID         `json:"customer_id,omitempty"`
	Status             string             `json:"status"`
	SubtotalCents      int                `json:"subtotal_cents"`
	DiscountTotalCents int                `json:"discount_total_cents"`
	TotalCents         int                `json:"total_cents"`
	HoldReason         *string            `json:"hold_reason,omitempty"`
	Items              []saleItemResponse `json:"items"`
	CreatedAt          time.Time          `json:"created_at"`
	CompletedAt        *time.Time         `json:"completed_at,omitempty"`
}

func newSaleResponse(sale *models.Sale) saleResponse {
	resp := saleResponse{
		ID:                 sale.ID,
		BranchID:           sale.BranchID,
		RegisterID:         sale.RegisterID,
		CustomerID:         sale.CustomerID,
		Status:             sale.Status.String(),
		SubtotalCents:      sale.SubtotalCents,
		DiscountTotalCents: sale.DiscountTotalCents,
		TotalCents:         sale.TotalCents,
		HoldReason:         sale.HoldReason,
		Items:              []saleItemResponse{},
		CreatedAt:          sale.CreatedAt,
		CompletedAt:        sale.CompletedAt,
	}
	for _, item := range sale.Items {
		resp.Items = append(resp.Items, saleItemResponse{
			ProductID:      item.ProductID,
			LotID:          item.LotID,
			ProductName:    item.ProductName,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			DiscountCents:  item.DiscountCents,
			SubtotalCents:  item.SubtotalCents,
			TotalCents:     item.TotalCents,
		})
	}
	return resp
}

func newSaleListResponse(sales []models.Sale) []saleResponse {
	out := make([]saleResponse, 0, len(sales))
	for i := range sales {
		out = append(out, newSaleResponse(&sales[i]))
	}
	return out
}
