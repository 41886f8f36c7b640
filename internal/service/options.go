package service

import (
	"time"

	"github.com/sirupsen/logrus"

	"cafepos/backend/internal/domain"
)

const defaultStoreTimeout = 3 * time.Second

type Option func(*options)

type options struct {
	now          func() time.Time
	location     *time.Location
	logger       logrus.FieldLogger
	storeTimeout time.Duration
	defaults     []domain.Product
}

func buildOptions(opts []Option) options {
	o := options{
		now:          time.Now,
		location:     time.UTC,
		logger:       logrus.StandardLogger(),
		storeTimeout: defaultStoreTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.defaults == nil {
		o.defaults = DefaultCatalog()
	}
	return o
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLocation sets the time zone that decides which calendar day an order
// belongs to. The default is UTC.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.location = loc
		}
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithStoreTimeout bounds every read or write against the slot store.
func WithStoreTimeout(timeout time.Duration) Option {
	return func(o *options) {
		if timeout > 0 {
			o.storeTimeout = timeout
		}
	}
}

// WithDefaultCatalog overrides the seed catalog used on first run and by
// ResetToDefaults.
func WithDefaultCatalog(products []domain.Product) Option {
	return func(o *options) {
		if products != nil {
			o.defaults = cloneProducts(products)
		}
	}
}
