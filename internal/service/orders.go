package service

import (
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"cafepos/backend/internal/domain"
	"cafepos/backend/internal/notify"
	"cafepos/backend/internal/store"
	"cafepos/backend/internal/xid"
)

// OrderService owns the in-progress cart and the completed order history.
// Cart and history live in separate slots and are persisted independently.
type OrderService struct {
	mu       sync.Mutex
	cart     []domain.OrderItem
	orders   []domain.Order
	slots    slotStore
	registry *notify.Registry
	now      func() time.Time
	loc      *time.Location
	log      logrus.FieldLogger
}

func NewOrderService(kv store.KV, opts ...Option) *OrderService {
	o := buildOptions(opts)
	log := o.logger.WithField("component", "orders")

	s := &OrderService{
		cart:     make([]domain.OrderItem, 0),
		orders:   make([]domain.Order, 0),
		slots:    slotStore{kv: kv, timeout: o.storeTimeout, log: log},
		registry: notify.NewRegistry(),
		now:      o.now,
		loc:      o.location,
		log:      log,
	}
	s.load()
	return s
}

// load restores cart and history. A slot that is missing or unreadable
// leaves that piece empty without touching the other.
func (s *OrderService) load() {
	var cart []domain.OrderItem
	if found, err := s.slots.load(store.SlotCart, &cart); err != nil {
		s.logLoadFailure(store.SlotCart, err)
	} else if found && cart != nil {
		s.cart = cart
	}

	var orders []domain.Order
	if found, err := s.slots.load(store.SlotOrders, &orders); err != nil {
		s.logLoadFailure(store.SlotOrders, err)
	} else if found && orders != nil {
		s.orders = orders
	}
}

func (s *OrderService) logLoadFailure(slot string, err error) {
	entry := s.log.WithError(err).WithField("slot", slot)
	if errors.Is(err, errCorruptSlot) {
		entry.Warn("stored data is corrupt, starting empty")
		return
	}
	entry.Warn("stored data unreadable, starting empty")
}

func (s *OrderService) Subscribe(fn func()) func() {
	return s.registry.Subscribe(fn)
}

// ---- cart ----

func (s *OrderService) Cart() []domain.OrderItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.cart)
}

func (s *OrderService) CartTotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, item := range s.cart {
		total = total.Add(item.Subtotal)
	}
	return total
}

// CartItemCount is the number of cups in the cart, not the number of lines.
func (s *OrderService) CartItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, item := range s.cart {
		count += item.Quantity
	}
	return count
}

// AddToCart adds quantity units of product. A product already in the cart
// has its line bumped; the line keeps the product snapshot it was created with.
func (s *OrderService) AddToCart(product domain.Product, quantity int) {
	s.mutateCart(func() bool {
		if idx := s.cartIndex(product.ID); idx >= 0 {
			existing := s.cart[idx]
			s.cart[idx] = existing.WithQuantity(existing.Quantity + quantity)
			return true
		}
		s.cart = append(s.cart, domain.NewOrderItem(product, quantity))
		return true
	})
}

// UpdateQuantity sets the quantity of a cart line. Zero or less removes it.
func (s *OrderService) UpdateQuantity(productID string, quantity int) {
	if quantity <= 0 {
		s.RemoveFromCart(productID)
		return
	}
	s.mutateCart(func() bool {
		idx := s.cartIndex(productID)
		if idx < 0 {
			return false
		}
		s.cart[idx] = s.cart[idx].WithQuantity(quantity)
		return true
	})
}

// RemoveFromCart drops the line for productID. The cart is persisted and
// subscribers notified even when no line matched.
func (s *OrderService) RemoveFromCart(productID string) {
	s.mutateCart(func() bool {
		kept := make([]domain.OrderItem, 0, len(s.cart))
		for _, item := range s.cart {
			if item.Product.ID != productID {
				kept = append(kept, item)
			}
		}
		s.cart = kept
		return true
	})
}

func (s *OrderService) ClearCart() {
	s.mutateCart(func() bool {
		s.cart = make([]domain.OrderItem, 0)
		return true
	})
}

// ---- checkout ----

// Checkout turns the cart into a completed order. It returns false, and
// changes nothing, when the cart is empty.
//
// Orders are created pending and completed in the same step; nothing in the
// current flow leaves an order pending or cancels one.
func (s *OrderService) Checkout() (domain.Order, bool) {
	s.mu.Lock()
	if len(s.cart) == 0 {
		s.mu.Unlock()
		return domain.Order{}, false
	}

	createdAt := s.now().UTC()
	order := domain.NewOrder(xid.NewOrderID(createdAt), cloneItems(s.cart), createdAt)
	order = order.Complete(s.now().UTC())

	s.orders = append(s.orders, order)
	s.saveOrdersLocked()

	s.cart = make([]domain.OrderItem, 0)
	s.saveCartLocked()
	s.mu.Unlock()

	// one signal for the new order, one for the emptied cart
	s.registry.Notify()
	s.registry.Notify()

	s.log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"total":    order.Total.String(),
		"lines":    len(order.Items),
	}).Info("order completed")

	return cloneOrder(order), true
}

// ---- history ----

func (s *OrderService) AllOrders() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneOrders(s.orders)
}

func (s *OrderService) OrderByID(id string) (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, order := range s.orders {
		if order.ID == id {
			return cloneOrder(order), true
		}
	}
	return domain.Order{}, false
}

// OrdersByDate returns the orders created on the same calendar day as day,
// in the service's location. The time of day is ignored.
func (s *OrderService) OrdersByDate(day time.Time) []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ordersOnLocked(s.dayKey(day))
}

func (s *OrderService) TodaysOrders() []domain.Order {
	return s.OrdersByDate(s.now())
}

// ResetDailySummary permanently deletes today's orders. Other days are kept.
func (s *OrderService) ResetDailySummary() {
	today := s.dayKey(s.now())
	removed := 0
	s.mutateOrders(func() {
		kept := make([]domain.Order, 0, len(s.orders))
		for _, order := range s.orders {
			if s.dayKey(order.CreatedAt) == today {
				removed++
				continue
			}
			kept = append(kept, order)
		}
		s.orders = kept
	})
	s.log.WithFields(logrus.Fields{"date": today, "removed": removed}).Info("daily orders reset")
}

func (s *OrderService) ClearAllOrders() {
	s.mutateOrders(func() {
		s.orders = make([]domain.Order, 0)
	})
	s.log.Info("order history cleared")
}

// ---- helpers ----

func (s *OrderService) mutateCart(fn func() bool) {
	s.mu.Lock()
	changed := fn()
	if changed {
		s.saveCartLocked()
	}
	s.mu.Unlock()

	if changed {
		s.registry.Notify()
	}
}

func (s *OrderService) mutateOrders(fn func()) {
	s.mu.Lock()
	fn()
	s.saveOrdersLocked()
	s.mu.Unlock()

	s.registry.Notify()
}

func (s *OrderService) saveCartLocked() {
	s.slots.save(store.SlotCart, s.cart)
}

func (s *OrderService) saveOrdersLocked() {
	s.slots.save(store.SlotOrders, s.orders)
}

func (s *OrderService) cartIndex(productID string) int {
	for i, item := range s.cart {
		if item.Product.ID == productID {
			return i
		}
	}
	return -1
}

func (s *OrderService) ordersOnLocked(key string) []domain.Order {
	matched := make([]domain.Order, 0)
	for _, order := range s.orders {
		if s.dayKey(order.CreatedAt) == key {
			matched = append(matched, cloneOrder(order))
		}
	}
	return matched
}

func (s *OrderService) dayKey(t time.Time) string {
	return t.In(s.loc).Format("2006-01-02")
}

func cloneItems(src []domain.OrderItem) []domain.OrderItem {
	out := make([]domain.OrderItem, len(src))
	copy(out, src)
	return out
}

func cloneOrder(src domain.Order) domain.Order {
	dst := src
	dst.Items = cloneItems(src.Items)
	if src.CompletedAt != nil {
		completedAt := *src.CompletedAt
		dst.CompletedAt = &completedAt
	}
	return dst
}

func cloneOrders(src []domain.Order) []domain.Order {
	out := make([]domain.Order, 0, len(src))
	for _, order := range src {
		out = append(out, cloneOrder(order))
	}
	return out
}
