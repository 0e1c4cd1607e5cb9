package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cakeoats/ZEROWASTEFORK-sub000/internal/usecase/wishlist"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/middleware"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/response"
)

type WishlistHandler struct {
	uc *wishlist.Usecase
}

func NewWishlistHandler(uc *wishlist.Usecase) *WishlistHandler {
	return &WishlistHandler{uc: uc}
}

func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "No user in context")
		return
	}

	var body struct {
		ProductID string `json:"product_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ProductID == "" {
		response.Error(w, http.StatusBadRequest, "Missing product_id")
		return
	}

	entry, err := h.uc.Add(r.Context(), userID, body.ProductID)
	if err != nil {
		respondError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, entry)
}

func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "No user in context")
		return
	}

	if err := h.uc.Remove(r.Context(), userID, chi.URLParam(r, "productId")); err != nil {
		respondError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"message": "removed from wishlist"})
}

func (h *WishlistHandler) Check(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "No user in context")
		return
	}

	exists, err := h.uc.Check(r.Context(), userID, chi.URLParam(r, "productId"))
	if err != nil {
		respondError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]bool{"wishlisted": exists})
}

func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "No user in context")
		return
	}

	entries, err := h.uc.List(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, entries)
}
