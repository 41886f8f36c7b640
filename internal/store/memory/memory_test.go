package memory

import (
	"context"
	"errors"
	"testing"

	"cafepos/backend/internal/store"
)

func TestGetMissingSlot(t *testing.T) {
	s := New()
	value, ok, err := s.Get(context.Background(), store.SlotCart)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok || value != "" {
		t.Fatalf("expected missing slot, got ok=%t value=%q", ok, value)
	}
}

func TestSetThenGet(t *testing.T) {
	ctx := context.Background()
	s := NewWithSlots(map[string]string{store.SlotOrders: "[]"})

	if err := s.Set(ctx, store.SlotCart, `[{"quantity":1}]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	value, ok, err := s.Get(ctx, store.SlotCart)
	if err != nil || !ok || value != `[{"quantity":1}]` {
		t.Fatalf("unexpected read back: ok=%t value=%q err=%v", ok, value, err)
	}

	value, ok, _ = s.Get(ctx, store.SlotOrders)
	if !ok || value != "[]" {
		t.Fatalf("expected seeded slot, got ok=%t value=%q", ok, value)
	}
}

func TestEmptyKeyRejected(t *testing.T) {
	s := New()
	if err := s.Set(context.Background(), "", "x"); !errors.Is(err, store.ErrEmptyKey) {
		t.Fatalf("expected ErrEmptyKey, got %v", err)
	}
	if _, _, err := s.Get(context.Background(), ""); !errors.Is(err, store.ErrEmptyKey) {
		t.Fatalf("expected ErrEmptyKey, got %v", err)
	}
}
