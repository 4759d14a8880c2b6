// Package shifts exposes the cash-register shift endpoints.
package shifts

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/farmapunto/pos-backend/api/middleware"
	"github.com/farmapunto/pos-backend/api/responses"
	"github.com/farmapunto/pos-backend/api/validators"
	shiftsvc "github.com/farmapunto/pos-backend/internal/shifts"
	"github.com/farmapunto/pos-backend/pkg/db/models"
	pkgerrors "github.com/farmapunto/pos-backend/pkg/errors"
	"github.com/farmapunto/pos-backend/pkg/logger"
)

type openRequest struct {
	OpeningBalanceCents int `json:"opening_balance_cents" validate:"min=0"`
}

type closeRequest struct {
	CountedCashCents int `json:"counted_cash_cents" validate:"min=0"`
}

type returnRequest struct {
	AmountCents int `json:"amount_cents" validate:"required,gt=0"`
}

type shiftResponse struct {
	ID                   uuid.UUID  `json:"id"`
	RegisterID           string     `json:"register_id"`
	UserID               string     `json:"user_id"`
	OpeningBalanceCents  int        `json:"opening_balance_cents"`
	CashPaymentsCents    int        `json:"cash_payments_cents"`
	CardPaymentsCents    int        `json:"card_payments_cents"`
	VoucherPaymentsCents int        `json:"voucher_payments_cents"`
	SalesTotalCents      int        `json:"sales_total_cents"`
	ReturnsTotalCents    int        `json:"returns_total_cents"`
	ClosingBalanceCents  *int       `json:"closing_balance_cents,omitempty"`
	ExpectedBalanceCents *int       `json:"expected_balance_cents,omitempty"`
	DifferenceCents      *int       `json:"difference_cents,omitempty"`
	Status               string     `json:"status"`
	OpenedAt             time.Time  `json:"opened_at"`
	ClosedAt             *time.Time `json:"closed_at,omitempty"`
}

func newShiftResponse(shift *models.Shift) shiftResponse {
	return shiftResponse{
		ID:                   shift.ID,
		RegisterID:           shift.RegisterID,
		UserID:               shift.UserID,
		OpeningBalanceCents:  shift.OpeningBalanceCents,
		CashPaymentsCents:    shift.CashPaymentsCents,
		CardPaymentsCents:    shift.CardPaymentsCents,
		VoucherPaymentsCents: shift.VoucherPaymentsCents,
		SalesTotalCents:      shift.SalesTotalCents,
		ReturnsTotalCents:    shift.ReturnsTotalCents,
		ClosingBalanceCents:  shift.ClosingBalanceCents,
		ExpectedBalanceCents: shift.ExpectedBalanceCents,
		DifferenceCents:      shift.DifferenceCents,
		Status:               shift.Status.String(),
		OpenedAt:             shift.OpenedAt,
		ClosedAt:             shift.ClosedAt,
	}
}

// ShiftOpen starts a shift on the register.
func ShiftOpen(svc shiftsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		registerID, userID, err := terminalIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload openRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		shift, err := svc.Open(r.Context(), registerID, userID, payload.OpeningBalanceCents)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newShiftResponse(shift))
	}
}

// ShiftCurrent returns the open shift on the register.
func ShiftCurrent(svc shiftsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		registerID, _, err := terminalIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		shift, err := svc.Current(r.Context(), registerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newShiftResponse(shift))
	}
}

// ShiftRecordReturn adds a processed refund to the shift totals.
func ShiftRecordReturn(svc shiftsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		registerID, _, err := terminalIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload returnRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		shift, err := svc.RecordReturn(r.Context(), registerID, payload.AmountCents)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newShiftResponse(shift))
	}
}

// ShiftClose reconciles counted cash and closes the shift.
func ShiftClose(svc shiftsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		registerID, _, err := terminalIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload closeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		shift, err := svc.Close(r.Context(), registerID, payload.CountedCashCents)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newShiftResponse(shift))
	}
}

func terminalIdentity(r *http.Request) (registerID, userID string, err error) {
	registerID = middleware.RegisterIDFromContext(r.Context())
	userID = middleware.UserIDFromContext(r.Context())
	if registerID == "" || userID == "" {
		return "", "", pkgerrors.New(pkgerrors.CodeForbidden, "terminal context missing")
	}
	return registerID, userID, nil
}
