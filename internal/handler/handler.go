// Package handler is the thin HTTP adapter over the checkout service:
// request parsing, response shaping, and domain-error to status mapping.
// It has no business logic.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/minshop/checkout/internal/checkout"
)

// Handler serves the order API.
type Handler struct {
	checkout *checkout.Service
}

// New constructs a Handler over the checkout service.
func New(svc *checkout.Service) *Handler {
	return &Handler{checkout: svc}
}

// Routes returns the API router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/orders", h.createOrder)
	r.Get("/orders/{orderID}", h.getOrder)
	return r
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
