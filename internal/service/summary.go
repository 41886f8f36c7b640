package service

import (
	"time"

	"github.com/shopspring/decimal"

	"cafepos/backend/internal/domain"
)

// DailySalesSummary folds the completed orders created on day into revenue
// and per-product totals. TotalRevenue sums order totals; the per-product
// revenue sums item subtotals. The two are derived independently.
func (s *OrderService) DailySalesSummary(day time.Time) domain.DailySalesSummary {
	s.mu.Lock()
	key := s.dayKey(day)
	orders := s.ordersOnLocked(key)
	s.mu.Unlock()

	summary := domain.DailySalesSummary{
		Date:         key,
		TotalRevenue: decimal.Zero,
		ProductSales: make(map[string]domain.ProductSale),
	}

	for _, order := range orders {
		if order.Status != domain.OrderStatusCompleted {
			continue
		}
		summary.TotalOrders++
		summary.TotalRevenue = summary.TotalRevenue.Add(order.Total)

		for _, item := range order.Items {
			sale, ok := summary.ProductSales[item.Product.ID]
			if !ok {
				sale = domain.ProductSale{
					ProductID: item.Product.ID,
					Name:      item.Product.Name,
					Revenue:   decimal.Zero,
				}
			}
			sale.Quantity += item.Quantity
			sale.Revenue = sale.Revenue.Add(item.Subtotal)
			summary.ProductSales[item.Product.ID] = sale
		}
	}

	return summary
}

func (s *OrderService) TodaysSalesSummary() domain.DailySalesSummary {
	return s.DailySalesSummary(s.now())
}
