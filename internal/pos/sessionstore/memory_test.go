package sessionstore

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmapunto/pos-backend/internal/pos"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	session := pos.NewSession(pos.Terminal{RegisterID: "reg-1", BranchID: "branch-1", UserID: "cashier-1"})
	session.Lines = append(session.Lines, pos.Line{
		ID:             uuid.New(),
		ProductID:      uuid.New(),
		ProductName:    "ibuprofen 400mg",
		Quantity:       decimal.NewFromInt(2),
		UnitPriceCents: 4500,
		SubtotalCents:  9000,
		TotalCents:     9000,
	})
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load(ctx, "reg-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Lines) != 1 || loaded.Lines[0].ProductName != "ibuprofen 400mg" {
		t.Fatalf("unexpected session: %+v", loaded)
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	session := pos.NewSession(pos.Terminal{RegisterID: "reg-1", UserID: "cashier-1"})
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save: %v", err)
	}

	first, err := store.Load(ctx, "reg-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	first.Lines = append(first.Lines, pos.Line{ID: uuid.New()})

	second, err := store.Load(ctx, "reg-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(second.Lines) != 0 {
		t.Fatal("expected stored session unaffected by caller mutation")
	}
}

func TestMemoryStoreMissingSession(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	_, err := store.Load(context.Background(), "reg-9")
	if !errors.Is(err, pos.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	session := pos.NewSession(pos.Terminal{RegisterID: "reg-1", UserID: "cashier-1"})
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Delete(ctx, "reg-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Load(ctx, "reg-1"); !errors.Is(err, pos.ErrSessionNotFound) {
		t.Fatalf("expected session gone, got %v", err)
	}
}
