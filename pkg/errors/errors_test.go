package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeStateConflict, http.StatusUnprocessableEntity},
		{CodePaymentIncomplete, http.StatusUnprocessableEntity},
		{CodeIdempotency, http.StatusConflict},
		{CodeDependency, http.StatusBadGateway},
	}
	for _, tc := range cases {
		if got := MetadataFor(tc.code).HTTPStatus; got != tc.status {
			t.Errorf("%s: expected status %d, got %d", tc.code, tc.status, got)
		}
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	t.Parallel()

	meta := MetadataFor(Code("SOMETHING_ELSE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal fallback, got %d", meta.HTTPStatus)
	}
}

func TestAsUnwrapsThroughWrapping(t *testing.T) {
	t.Parallel()

	base := New(CodePaymentIncomplete, "short by 500").WithDetails(map[string]int{"remaining_cents": 500})
	wrapped := fmt.Errorf("complete sale: %w", base)

	typed := As(wrapped)
	if typed == nil {
		t.Fatal("expected typed error through fmt wrapping")
	}
	if typed.Code() != CodePaymentIncomplete {
		t.Fatalf("expected PAYMENT_INCOMPLETE, got %s", typed.Code())
	}
	if typed.Details() == nil {
		t.Fatal("expected details preserved")
	}
}

func TestWrapKeepsCause(t *testing.T) {
	t.Parallel()

	cause := stdErrors.New("connection refused")
	err := Wrap(CodeDependency, cause, "ping database")

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause reachable via errors.Is")
	}
	if err.Error() != "DEPENDENCY_ERROR: ping database" {
		t.Fatalf("unexpected error string: %s", err.Error())
	}
}

func TestAsNilAndForeignErrors(t *testing.T) {
	t.Parallel()

	if As(nil) != nil {
		t.Fatal("expected nil for nil error")
	}
	if As(stdErrors.New("plain")) != nil {
		t.Fatal("expected nil for untyped error")
	}
}
