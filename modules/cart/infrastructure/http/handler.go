// Package http provides HTTP handlers for the cart module.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rai/commerce-saga-go/modules/cart/application"
	"github.com/rai/commerce-saga-go/modules/cart/domain"
)

type Handler struct {
	service *application.Service
}

// RegisterRoutes registers the cart module routes on the given router.
func RegisterRoutes(r chi.Router, service *application.Service) {
	h := &Handler{service: service}

	r.Get("/carts/{userID}", h.getCart)
	r.Post("/carts/{userID}/items", h.addItem)
	r.Put("/carts/{userID}/items/{itemID}", h.updateItem)
	r.Delete("/carts/{userID}/items/{itemID}", h.removeItem)
	r.Delete("/carts/{userID}", h.clearCart)
	r.Post("/carts/{userID}/checkout", h.checkout)
}

// Request/Response DTOs

type addItemRequest struct {
	ProductID   string  `json:"product_id"`
	Quantity    int     `json:"quantity"`
	ProductName string  `json:"product_name"`
	UnitPrice   float64 `json:"unit_price"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

type cartResponse struct {
	*domain.Cart
	ItemCount     int     `json:"item_count"`
	TotalQuantity int     `json:"total_quantity"`
	Subtotal      float64 `json:"subtotal"`
}

type clearResponse struct {
	ItemsRemoved int `json:"items_removed"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handlers

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.Get(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartResponse(cart))
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart, err := h.service.AddItem(r.Context(), chi.URLParam(r, "userID"), application.AddItemInput{
		ProductID:   req.ProductID,
		Quantity:    req.Quantity,
		ProductName: req.ProductName,
		UnitPrice:   req.UnitPrice,
	})
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newCartResponse(cart))
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cart, err := h.service.UpdateItem(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "itemID"), req.Quantity)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartResponse(cart))
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.RemoveItem(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "itemID"))
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartResponse(cart))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	removed, err := h.service.Clear(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clearResponse{ItemsRemoved: removed})
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Checkout(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// Helper functions

func newCartResponse(cart *domain.Cart) cartResponse {
	return cartResponse{
		Cart:          cart,
		ItemCount:     len(cart.Items),
		TotalQuantity: cart.TotalQuantity(),
		Subtotal:      cart.Subtotal(),
	}
}

func handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrCartNotFound), errors.Is(err, domain.ErrItemNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrProductIDRequired):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
