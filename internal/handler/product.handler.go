package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/cakeoats/ZEROWASTEFORK-sub000/internal/domain"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/internal/usecase/product"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/imageutil"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/middleware"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/response"
)

const (
	maxUploadBytes = 16 << 20 // whole multipart form
	maxImages      = 5
	imageWidth     = 800
	imageHeight    = 800
	imageQuality   = 80
)

type ProductHandler struct {
	uc        *product.Usecase
	uploadDir string
	publicURL string // base URL images are served from
}

func NewProductHandler(uc *product.Usecase, uploadDir, publicURL string) *ProductHandler {
	return &ProductHandler{uc: uc, uploadDir: uploadDir, publicURL: publicURL}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.ProductFilter{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
		Sort:     r.URL.Query().Get("sort"),
		SellerID: r.URL.Query().Get("seller"),
		Limit:    queryInt(r, "limit", 50),
		Offset:   queryInt(r, "offset", 0),
	}

	products, err := h.uc.List(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.uc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"product":       p,
		"primary_image": p.PrimaryImageURL(),
	})
}

// Create accepts multipart form data: listing fields plus up to five image
// attachments under the "images" field.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "No user in context")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	price, _ := strconv.ParseInt(r.FormValue("price"), 10, 64)
	in := product.CreateInput{
		Name:        r.FormValue("name"),
		Price:       price,
		Category:    r.FormValue("category"),
		Condition:   r.FormValue("condition"),
		ListingType: r.FormValue("listing_type"),
		Description: r.FormValue("description"),
	}

	files := r.MultipartForm.File["images"]
	if len(files) > maxImages {
		files = files[:maxImages]
	}
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Unreadable image attachment")
			return
		}
		name := uuid.New().String() + ".jpg"
		err = imageutil.DecodeAndSave(f, filepath.Join(h.uploadDir, name), imageWidth, imageHeight, imageQuality)
		f.Close()
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Unsupported image format")
			return
		}
		in.Images = append(in.Images, fmt.Sprintf("%s/uploads/%s", h.publicURL, name))
	}

	p, err := h.uc.Create(r.Context(), userID, in)
	if err != nil {
		respondError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, p)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	role, _ := middleware.GetRole(r.Context())

	var upd domain.ProductUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	p, err := h.uc.Update(r.Context(), userID, role, chi.URLParam(r, "id"), &upd)
	if err != nil {
		respondError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, p)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	role, _ := middleware.GetRole(r.Context())

	if err := h.uc.Delete(r.Context(), userID, role, chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}
