package domain

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCategory labels products that were saved without a category.
const DefaultCategory = "Other"

var (
	ErrInvalidProduct  = errors.New("invalid product")
	ErrInvalidQuantity = errors.New("invalid quantity")
)

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
	Category    string          `json:"category,omitempty"`
	IsAvailable bool            `json:"isAvailable"`
}

func (p Product) CategoryOrDefault() string {
	if p.Category == "" {
		return DefaultCategory
	}
	return p.Category
}

// ProductUpdate carries a partial product edit. Nil fields are left untouched.
type ProductUpdate struct {
	Name        *string          `json:"name,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	ImageURL    *string          `json:"imageUrl,omitempty"`
	Category    *string          `json:"category,omitempty"`
	IsAvailable *bool            `json:"isAvailable,omitempty"`
}

func (u ProductUpdate) Apply(p Product) Product {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.ImageURL != nil {
		p.ImageURL = *u.ImageURL
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.IsAvailable != nil {
		p.IsAvailable = *u.IsAvailable
	}
	return p
}

type ProductCreateRequest struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"imageUrl"`
	Category string          `json:"category,omitempty"`
}

// ValidateProductInput checks the fields a cashier types in when creating or
// editing a product. The catalog itself stores whatever it is given.
func ValidateProductInput(name string, price decimal.Decimal) error {
	if strings.TrimSpace(name) == "" {
		return errors.Join(ErrInvalidProduct, errors.New("name is required"))
	}
	if price.IsNegative() {
		return errors.Join(ErrInvalidProduct, errors.New("price must not be negative"))
	}
	return nil
}

// OrderItem is a cart or order line. The product is a copy taken when the
// line entered the cart, so later catalog edits do not reach it.
type OrderItem struct {
	Product  Product         `json:"product"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

func NewOrderItem(product Product, quantity int) OrderItem {
	return OrderItem{
		Product:  product,
		Quantity: quantity,
		Subtotal: product.Price.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

func (i OrderItem) WithQuantity(quantity int) OrderItem {
	return NewOrderItem(i.Product, quantity)
}

type CartAddRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type CartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID          string          `json:"id"`
	Items       []OrderItem     `json:"items"`
	Total       decimal.Decimal `json:"total"`
	Status      OrderStatus     `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
}

func NewOrder(id string, items []OrderItem, now time.Time) Order {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal)
	}
	return Order{
		ID:        id,
		Items:     items,
		Total:     total,
		Status:    OrderStatusPending,
		CreatedAt: now,
	}
}

// Complete returns a copy of the order marked completed at now.
func (o Order) Complete(now time.Time) Order {
	completedAt := now
	o.Status = OrderStatusCompleted
	o.CompletedAt = &completedAt
	return o
}

type ProductSale struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

func (s ProductSale) AveragePrice() decimal.Decimal {
	if s.Quantity == 0 {
		return decimal.Zero
	}
	return s.Revenue.Div(decimal.NewFromInt(int64(s.Quantity)))
}

type DailySalesSummary struct {
	Date         string                 `json:"date"`
	TotalRevenue decimal.Decimal        `json:"totalRevenue"`
	TotalOrders  int                    `json:"totalOrders"`
	ProductSales map[string]ProductSale `json:"productSales"`
}

// Lines returns the per-product sales ordered by revenue, highest first.
func (s DailySalesSummary) Lines() []ProductSale {
	lines := make([]ProductSale, 0, len(s.ProductSales))
	for _, sale := range s.ProductSales {
		lines = append(lines, sale)
	}
	sort.Slice(lines, func(i, j int) bool {
		if cmp := lines[i].Revenue.Cmp(lines[j].Revenue); cmp != 0 {
			return cmp > 0
		}
		if lines[i].Name != lines[j].Name {
			return lines[i].Name < lines[j].Name
		}
		return lines[i].ProductID < lines[j].ProductID
	})
	return lines
}
