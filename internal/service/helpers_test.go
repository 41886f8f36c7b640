package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"cafepos/backend/internal/store/memory"
)

var errBackendDown = errors.New("backend down")

// brokenKV fails every call, like a remote store that is unreachable.
type brokenKV struct{}

func (brokenKV) Get(context.Context, string) (string, bool, error) { return "", false, errBackendDown }
func (brokenKV) Set(context.Context, string, string) error         { return errBackendDown }
func (brokenKV) Close() error                                      { return nil }

// readOnlyKV serves reads from an inner store and rejects writes.
type readOnlyKV struct {
	*memory.Store
}

func (readOnlyKV) Set(context.Context, string, string) error { return errBackendDown }

type fixedClock struct {
	t time.Time
}

func (c *fixedClock) Now() time.Time { return c.t }

func (c *fixedClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func quietLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testOptions(clock *fixedClock) []Option {
	return []Option{WithClock(clock.Now), WithLogger(quietLogger())}
}

func newClock() *fixedClock {
	return &fixedClock{t: time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)}
}

func countNotifications(t *testing.T, subscribe func(func()) func()) *int {
	t.Helper()
	count := 0
	unsubscribe := subscribe(func() { count++ })
	t.Cleanup(unsubscribe)
	return &count
}
