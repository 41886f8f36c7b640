package service

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"cafepos/backend/internal/domain"
	"cafepos/backend/internal/notify"
	"cafepos/backend/internal/store"
	"cafepos/backend/internal/xid"
)

// CatalogService owns the product list. Every mutation writes the whole
// catalog to the products slot and then notifies subscribers.
type CatalogService struct {
	mu       sync.Mutex
	products []domain.Product
	defaults []domain.Product
	slots    slotStore
	registry *notify.Registry
	now      func() time.Time
	log      logrus.FieldLogger
}

func NewCatalogService(kv store.KV, opts ...Option) *CatalogService {
	o := buildOptions(opts)
	log := o.logger.WithField("component", "catalog")

	s := &CatalogService{
		defaults: o.defaults,
		slots:    slotStore{kv: kv, timeout: o.storeTimeout, log: log},
		registry: notify.NewRegistry(),
		now:      o.now,
		log:      log,
	}
	s.load()
	return s
}

func (s *CatalogService) load() {
	var products []domain.Product
	found, err := s.slots.load(store.SlotProducts, &products)
	switch {
	case err != nil:
		if errors.Is(err, errCorruptSlot) {
			s.log.WithError(err).Warn("stored catalog is corrupt, restoring defaults")
		} else {
			s.log.WithError(err).Warn("stored catalog unreadable, restoring defaults")
		}
	case !found:
		s.log.Info("no stored catalog, seeding defaults")
	case products == nil:
		s.log.Warn("stored catalog is null, restoring defaults")
	default:
		s.products = products
		return
	}

	s.products = cloneProducts(s.defaults)
	s.persistLocked()
}

func (s *CatalogService) Subscribe(fn func()) func() {
	return s.registry.Subscribe(fn)
}

func (s *CatalogService) List() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneProducts(s.products)
}

func (s *CatalogService) ListAvailable() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	available := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if p.IsAvailable {
			available = append(available, p)
		}
	}
	return available
}

func (s *CatalogService) GetByID(id string) (domain.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return domain.Product{}, false
	}
	return s.products[idx], true
}

// Add appends a new available product. Inputs are stored as given; callers
// validate with domain.ValidateProductInput first.
func (s *CatalogService) Add(name string, price decimal.Decimal, imageURL string, category string) domain.Product {
	var created domain.Product
	s.mutate(func() bool {
		created = domain.Product{
			ID:          xid.NewProductID(s.now()),
			Name:        name,
			Price:       price,
			ImageURL:    imageURL,
			Category:    category,
			IsAvailable: true,
		}
		s.products = append(s.products, created)
		return true
	})
	s.log.WithField("product_id", created.ID).Info("product added")
	return created
}

func (s *CatalogService) Update(id string, update domain.ProductUpdate) (domain.Product, bool) {
	var updated domain.Product
	ok := s.mutate(func() bool {
		idx := s.indexOf(id)
		if idx < 0 {
			return false
		}
		s.products[idx] = update.Apply(s.products[idx])
		updated = s.products[idx]
		return true
	})
	return updated, ok
}

func (s *CatalogService) UpdatePrice(id string, price decimal.Decimal) (domain.Product, bool) {
	return s.Update(id, domain.ProductUpdate{Price: &price})
}

func (s *CatalogService) Remove(id string) bool {
	removed := s.mutate(func() bool {
		idx := s.indexOf(id)
		if idx < 0 {
			return false
		}
		s.products = append(s.products[:idx], s.products[idx+1:]...)
		return true
	})
	if removed {
		s.log.WithField("product_id", id).Info("product removed")
	}
	return removed
}

func (s *CatalogService) ToggleAvailability(id string) (domain.Product, bool) {
	var toggled domain.Product
	ok := s.mutate(func() bool {
		idx := s.indexOf(id)
		if idx < 0 {
			return false
		}
		s.products[idx].IsAvailable = !s.products[idx].IsAvailable
		toggled = s.products[idx]
		return true
	})
	return toggled, ok
}

func (s *CatalogService) ResetToDefaults() {
	s.mutate(func() bool {
		s.products = cloneProducts(s.defaults)
		return true
	})
	s.log.Info("catalog reset to defaults")
}

// ListCategories returns the distinct categories in lexical order, with
// uncategorised products reported as "Other".
func (s *CatalogService) ListCategories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := make(map[string]struct{}, len(s.products))
	for _, p := range s.products {
		set[p.CategoryOrDefault()] = struct{}{}
	}
	categories := make([]string, 0, len(set))
	for category := range set {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}

// mutate runs fn under the lock; if fn reports a change the catalog is
// persisted before the lock is released and subscribers are notified after.
func (s *CatalogService) mutate(fn func() bool) bool {
	s.mu.Lock()
	changed := fn()
	if changed {
		s.persistLocked()
	}
	s.mu.Unlock()

	if changed {
		s.registry.Notify()
	}
	return changed
}

func (s *CatalogService) persistLocked() {
	s.slots.save(store.SlotProducts, s.products)
}

func (s *CatalogService) indexOf(id string) int {
	for i, p := range s.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}
