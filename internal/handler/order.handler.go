package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cakeoats/ZEROWASTEFORK-sub000/internal/usecase/checkout"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/middleware"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/response"
)

// Order history renders from the line-item snapshots, so it stays complete
// after a listed product is deleted.
type OrderHandler struct {
	uc *checkout.Usecase
}

func NewOrderHandler(uc *checkout.Usecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "No user in context")
		return
	}

	orders, err := h.uc.ListOrders(r.Context(), userID, queryInt(r, "limit", 50), queryInt(r, "offset", 0))
	if err != nil {
		respondError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "No user in context")
		return
	}

	order, err := h.uc.GetOrder(r.Context(), userID, chi.URLParam(r, "orderRef"))
	if err != nil {
		respondError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, order)
}
