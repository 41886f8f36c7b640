package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"cafepos/backend/internal/service"
)

const maxBodyBytes = 1 << 20

type Config struct {
	AllowedOrigin string
	// Location resolves ?date=YYYY-MM-DD query parameters. Defaults to UTC.
	Location *time.Location
	Logger   logrus.FieldLogger
}

type API struct {
	catalog       *service.CatalogService
	orders        *service.OrderService
	hub           *Hub
	allowedOrigin string
	loc           *time.Location
	log           logrus.FieldLogger
}

// New wires the HTTP surface to both services. The returned API is
// subscribed to their change notifications until Close is called.
func New(catalog *service.CatalogService, orders *service.OrderService, cfg Config) *API {
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	a := &API{
		catalog:       catalog,
		orders:        orders,
		allowedOrigin: cfg.AllowedOrigin,
		loc:           loc,
		log:           logger.WithField("component", "httpapi"),
	}
	a.hub = NewHub(a.allowedOrigin, a.log)
	a.hub.Follow(TopicCatalog, catalog.Subscribe)
	a.hub.Follow(TopicOrders, orders.Subscribe)
	return a
}

// Close detaches the event hub from the services and drops its clients.
func (a *API) Close() {
	a.hub.Close()
}

func (a *API) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(a.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(a.securityHeaders)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, errors.New("route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeMethodNotAllowed(w)
	})

	r.Get("/healthz", a.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", a.handleListProducts)
			r.Post("/", a.handleCreateProduct)
			r.Post("/reset", a.handleResetProducts)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", a.handleGetProduct)
				r.Patch("/", a.handleUpdateProduct)
				r.Delete("/", a.handleRemoveProduct)
				r.Post("/toggle", a.handleToggleProduct)
			})
		})
		r.Get("/categories", a.handleListCategories)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", a.handleGetCart)
			r.Delete("/", a.handleClearCart)
			r.Post("/items", a.handleAddToCart)
			r.Patch("/items/{productID}", a.handleUpdateCartItem)
			r.Delete("/items/{productID}", a.handleRemoveCartItem)
		})
		r.Post("/checkout", a.handleCheckout)

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", a.handleListOrders)
			r.Delete("/", a.handleClearOrders)
			r.Get("/{id}", a.handleGetOrder)
		})

		r.Get("/reports/daily", a.handleDailyReport)
		r.Delete("/reports/daily", a.handleResetDailyReport)

		r.Get("/events", a.hub.ServeHTTP)
	})

	return r
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok": true,
		"at": time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *API) securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
		w.Header().Set("Access-Control-Allow-Origin", a.allowedOrigin)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PATCH,DELETE,OPTIONS")
		w.Header().Set("Vary", "Origin")

		if (r.Method == http.MethodPost || r.Method == http.MethodPatch || r.Method == http.MethodPut) && strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (a *API) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		startedAt := time.Now()
		next.ServeHTTP(ww, r)

		a.log.WithFields(logrus.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(startedAt).String(),
		}).Debug("request")
	})
}

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return err
	}
	return nil
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
}

func writeError(w http.ResponseWriter, status int, err error) {
	// 5xx bodies stay generic; 4xx messages are meant for the cashier UI.
	msg := err.Error()
	if status >= 500 {
		msg = "internal server error"
	}
	writeJSON(w, status, map[string]any{
		"error": msg,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
