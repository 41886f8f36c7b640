package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"cafepos/backend/internal/store"
)

var errCorruptSlot = errors.New("corrupt slot")

// slotStore reads and writes JSON documents in the durable slots.
type slotStore struct {
	kv      store.KV
	timeout time.Duration
	log     logrus.FieldLogger
}

// load decodes the slot into dest. found is false when the slot was never
// written or holds an empty string.
func (s slotStore) load(key string, dest any) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("read slot %s: %w", key, err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("%w %s: %v", errCorruptSlot, key, err)
	}
	return true, nil
}

// save writes value to the slot. Failures are logged, not returned: the
// in-memory state stays authoritative for this process.
func (s slotStore) save(key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		s.log.WithError(err).WithField("slot", key).Error("encode slot")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.kv.Set(ctx, key, string(payload)); err != nil {
		s.log.WithError(err).WithField("slot", key).Error("persist slot")
	}
}
