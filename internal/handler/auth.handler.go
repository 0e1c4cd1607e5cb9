package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cakeoats/ZEROWASTEFORK-sub000/internal/domain"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/internal/usecase/auth"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/middleware"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/response"
)

type AuthHandler struct {
	uc *auth.Usecase
}

func NewAuthHandler(uc *auth.Usecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	account, token, err := h.uc.Login(r.Context(), body.Username, body.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"account": account,
		"token":   token,
	})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var body auth.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	account, err := h.uc.Register(r.Context(), body)
	if err != nil {
		respondError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, account)
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if err := h.uc.VerifyEmail(r.Context(), token); err != nil {
		respondError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"message": "email verified"})
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "No user in context")
		return
	}

	account, err := h.uc.Profile(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, account)
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "No user in context")
		return
	}

	var upd domain.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	account, err := h.uc.UpdateProfile(r.Context(), userID, &upd)
	if err != nil {
		respondError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, account)
}
