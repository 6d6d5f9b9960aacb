// Package http provides HTTP handlers for the payments module.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rai/commerce-saga-go/modules/payments/application"
	"github.com/rai/commerce-saga-go/modules/payments/domain"
)

type Handler struct {
	processor *application.Processor
}

// RegisterRoutes registers the payments module routes on the given router.
func RegisterRoutes(r chi.Router, processor *application.Processor) {
	h := &Handler{processor: processor}

	r.Get("/payments", h.listPayments)
	r.Post("/payments/process", h.processPayment)
	r.Get("/payments/{paymentID}", h.getPayment)
	r.Get("/payments/order/{orderID}", h.getOrderPayment)
	r.Post("/payments/{paymentID}/refund", h.refundPayment)
}

type processRequest struct {
	OrderID      string  `json:"order_id"`
	UserID       string  `json:"user_id"`
	Amount       float64 `json:"amount"`
	Method       string  `json:"payment_method"`
	CardLastFour string  `json:"card_last_four"`
}

type listResponse struct {
	Payments []*domain.Payment `json:"payments"`
	Count    int               `json:"count"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.processor.List(r.Context(), domain.Status(r.URL.Query().Get("status")))
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Payments: payments, Count: len(payments)})
}

// processPayment charges synchronously. A declined charge still produces a
// payment record, so it maps to 402 with the record in the body rather than
// a bare error.
func (h *Handler) processPayment(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payment, err := h.processor.Process(r.Context(), application.ProcessInput{
		OrderID:      req.OrderID,
		UserID:       req.UserID,
		Amount:       req.Amount,
		Method:       req.Method,
		CardLastFour: req.CardLastFour,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	status := http.StatusOK
	if payment.Status == domain.StatusFailed {
		status = http.StatusPaymentRequired
	}
	writeJSON(w, status, payment)
}

func (h *Handler) getPayment(w http.ResponseWriter, r *http.Request) {
	payment, err := h.processor.Get(r.Context(), chi.URLParam(r, "paymentID"))
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

func (h *Handler) getOrderPayment(w http.ResponseWriter, r *http.Request) {
	payment, err := h.processor.GetByOrder(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

func (h *Handler) refundPayment(w http.ResponseWriter, r *http.Request) {
	payment, err := h.processor.Refund(r.Context(), chi.URLParam(r, "paymentID"))
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

func handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrPaymentNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrNotRefundable),
		errors.Is(err, domain.ErrOrderIDRequired),
		errors.Is(err, domain.ErrInvalidAmount):
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
