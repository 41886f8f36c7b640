package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"cafepos/backend/internal/domain"
)

var errProductNotFound = errors.New("product not found")

func (a *API) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products := a.catalog.List()
	if strings.EqualFold(r.URL.Query().Get("available"), "true") {
		products = a.catalog.ListAvailable()
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": products})
}

func (a *API) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req domain.ProductCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	name := strings.TrimSpace(req.Name)
	if err := domain.ValidateProductInput(name, req.Price); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	product := a.catalog.Add(name, req.Price, strings.TrimSpace(req.ImageURL), strings.TrimSpace(req.Category))
	writeJSON(w, http.StatusCreated, map[string]any{"product": product})
}

func (a *API) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, ok := a.catalog.GetByID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, errProductNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"product": product})
}

func (a *API) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req domain.ProductUpdate
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	current, ok := a.catalog.GetByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, errProductNotFound)
		return
	}
	merged := req.Apply(current)
	if err := domain.ValidateProductInput(merged.Name, merged.Price); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	updated, ok := a.catalog.Update(id, req)
	if !ok {
		writeError(w, http.StatusNotFound, errProductNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"product": updated})
}

func (a *API) handleRemoveProduct(w http.ResponseWriter, r *http.Request) {
	if !a.catalog.Remove(chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, errProductNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleToggleProduct(w http.ResponseWriter, r *http.Request) {
	product, ok := a.catalog.ToggleAvailability(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, errProductNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"product": product})
}

func (a *API) handleResetProducts(w http.ResponseWriter, r *http.Request) {
	a.catalog.ResetToDefaults()
	writeJSON(w, http.StatusOK, map[string]any{"products": a.catalog.List()})
}

func (a *API) handleListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"categories": a.catalog.ListCategories()})
}
