package pos

import (
	"github.com/shopspring/decimal"
)

type addLineRequest struct {
	ProductID  string          `json:"product_id" validate:"required,uuid"`
	Quantity   decimal.Decimal `json:"quantity" validate:"required"`
	Fractional bool            `json:"fractional"`
}

type setQuantityRequest struct {
	Quantity decimal.Decimal `json:"quantity" validate:"required"`
}

type attachCustomerRequest struct {
	CustomerID string `json:"customer_id" validate:"required,uuid"`
}

type addPaymentRequest struct {
	Method      string  `json:"method" validate:"required,oneof=cash card transfer voucher points"`
	AmountCents int     `json:"amount_cents" validate:"required,gt=0"`
	Reference   *string `json:"reference,omitempty" validate:"omitempty,max=64"`
}

type holdRequest struct {
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=255"`
}
