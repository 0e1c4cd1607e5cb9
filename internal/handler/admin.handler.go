package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/cakeoats/ZEROWASTEFORK-sub000/internal/domain"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/internal/usecase/admin"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/middleware"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/response"
)

type AdminHandler struct {
	uc *admin.Usecase
}

func NewAdminHandler(uc *admin.Usecase) *AdminHandler {
	return &AdminHandler{uc: uc}
}

func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter := domain.ProductFilter{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
		Sort:     r.URL.Query().Get("sort"),
		Limit:    queryInt(r, "limit", 50),
		Offset:   queryInt(r, "offset", 0),
	}

	products, err := h.uc.ListProducts(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}
	render.JSON(w, r, products)
}

// DeleteProduct requires a free-text reason; the seller always gets a
// notification naming it.
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	adminID, _ := middleware.GetUserID(r.Context())

	var body struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if err := h.uc.DeleteProduct(r.Context(), adminID, chi.URLParam(r, "id"), body.Reason); err != nil {
		respondError(w, err)
		return
	}
	render.JSON(w, r, map[string]string{"message": "product deleted"})
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.uc.ListUsers(r.Context(), queryInt(r, "limit", 50), queryInt(r, "offset", 0))
	if err != nil {
		respondError(w, err)
		return
	}
	render.JSON(w, r, users)
}

func (h *AdminHandler) CountUsers(w http.ResponseWriter, r *http.Request) {
	count, err := h.uc.CountUsers(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	render.JSON(w, r, map[string]int64{"count": count})
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	users, err := h.uc.CountUsers(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	products, err := h.uc.CountProducts(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	render.JSON(w, r, map[string]int64{
		"users":    users,
		"products": products,
	})
}
