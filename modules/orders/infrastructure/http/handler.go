// Package http provides HTTP handlers for the orders module.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rai/commerce-saga-go/modules/orders/application"
	"github.com/rai/commerce-saga-go/modules/orders/domain"
)

type Handler struct {
	service *application.Service
}

// RegisterRoutes registers the orders module routes on the given router.
func RegisterRoutes(r chi.Router, service *application.Service) {
	h := &Handler{service: service}

	r.Get("/orders", h.listOrders)
	r.Post("/orders", h.createOrder)
	r.Get("/orders/{orderID}", h.getOrder)
	r.Get("/orders/user/{userID}", h.listUserOrders)
	r.Put("/orders/{orderID}/status", h.updateStatus)
}

type createOrderRequest struct {
	UserID string        `json:"user_id"`
	Items  []domain.Item `json:"items"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type listResponse struct {
	Orders []*domain.Order `json:"orders"`
	Count  int             `json:"count"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Orders: orders, Count: len(orders)})
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.service.Create(r.Context(), application.CreateOrderInput{
		UserID: req.UserID,
		Items:  req.Items,
	})
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.Get(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) listUserOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListByUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Orders: orders, Count: len(orders)})
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "orderID"), domain.Status(req.Status))
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrUserIDRequired),
		errors.Is(err, domain.ErrNoItems):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrOrderExists):
		writeError(w, http.StatusConflict, err.Error())
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
