package store

import (
	"context"
	"errors"
)

// Slot keys. Each holds one JSON document.
const (
	SlotProducts = "cafe_pos_products"
	SlotCart     = "cafe_pos_cart"
	SlotOrders   = "cafe_pos_orders"
)

var ErrEmptyKey = errors.New("empty slot key")

// KV is the durable string-keyed slot store backing the catalog and order
// services. Get reports ok=false when the key has never been written.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Close() error
}
