package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"cafepos/backend/internal/domain"
)

var (
	errEmptyCart          = errors.New("cart is empty")
	errProductUnavailable = errors.New("product is unavailable")
	errOrderNotFound      = errors.New("order not found")
)

type cartView struct {
	Items     []domain.OrderItem `json:"items"`
	Total     decimal.Decimal    `json:"total"`
	ItemCount int                `json:"itemCount"`
}

func (a *API) currentCart() cartView {
	return cartView{
		Items:     a.orders.Cart(),
		Total:     a.orders.CartTotal(),
		ItemCount: a.orders.CartItemCount(),
	}
}

func (a *API) handleGetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.currentCart())
}

func (a *API) handleClearCart(w http.ResponseWriter, r *http.Request) {
	a.orders.ClearCart()
	writeJSON(w, http.StatusOK, a.currentCart())
}

// handleAddToCart looks the product up in the catalog so the cart line
// snapshots the current name and price. An omitted quantity means one cup.
func (a *API) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	var req domain.CartAddRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: must be positive", domain.ErrInvalidQuantity))
		return
	}

	product, ok := a.catalog.GetByID(strings.TrimSpace(req.ProductID))
	if !ok {
		writeError(w, http.StatusNotFound, errProductNotFound)
		return
	}
	if !product.IsAvailable {
		writeError(w, http.StatusConflict, errProductUnavailable)
		return
	}

	a.orders.AddToCart(product, req.Quantity)
	writeJSON(w, http.StatusOK, a.currentCart())
}

func (a *API) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req domain.CartQuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	a.orders.UpdateQuantity(chi.URLParam(r, "productID"), req.Quantity)
	writeJSON(w, http.StatusOK, a.currentCart())
}

func (a *API) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	a.orders.RemoveFromCart(chi.URLParam(r, "productID"))
	writeJSON(w, http.StatusOK, a.currentCart())
}

func (a *API) handleCheckout(w http.ResponseWriter, r *http.Request) {
	order, ok := a.orders.Checkout()
	if !ok {
		writeError(w, http.StatusConflict, errEmptyCart)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"order": order})
}

func (a *API) handleListOrders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	switch {
	case strings.EqualFold(query.Get("today"), "true"):
		writeJSON(w, http.StatusOK, map[string]any{"orders": a.orders.TodaysOrders()})
	case query.Get("date") != "":
		day, err := a.parseDay(query.Get("date"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"orders": a.orders.OrdersByDate(day)})
	default:
		writeJSON(w, http.StatusOK, map[string]any{"orders": a.orders.AllOrders()})
	}
}

func (a *API) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	order, ok := a.orders.OrderByID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, errOrderNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"order": order})
}

func (a *API) handleClearOrders(w http.ResponseWriter, r *http.Request) {
	a.orders.ClearAllOrders()
	writeJSON(w, http.StatusOK, map[string]any{"orders": a.orders.AllOrders()})
}

// parseDay reads a YYYY-MM-DD date as midnight in the API's location.
func (a *API) parseDay(raw string) (time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(raw), a.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be YYYY-MM-DD: %w", err)
	}
	return day, nil
}
