package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/cakeoats/ZEROWASTEFORK-sub000/internal/domain"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/internal/provider/gateway"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/internal/usecase/checkout"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/middleware"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/response"
)

type PaymentHandler struct {
	uc     *checkout.Usecase
	logger *zap.Logger
}

func NewPaymentHandler(uc *checkout.Usecase, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{uc: uc, logger: logger}
}

func (h *PaymentHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "No user in context")
		return
	}

	var body struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
		Total     int64  `json:"total"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if body.ProductID == "" {
		response.Error(w, http.StatusBadRequest, "Missing product_id")
		return
	}

	result, err := h.uc.CreateTransaction(r.Context(), userID, body.ProductID, body.Quantity, body.Total)
	if err != nil {
		respondError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, result)
}

func (h *PaymentHandler) CreateCartTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "No user in context")
		return
	}

	var body struct {
		Items []domain.CartLine `json:"items"`
		Total int64             `json:"total"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	result, err := h.uc.CreateCartTransaction(r.Context(), userID, body.Items, body.Total)
	if err != nil {
		respondError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, result)
}

// Config is public: only the client key and environment flag ever leave the
// server.
func (h *PaymentHandler) Config(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.uc.GatewayConfig()
	if err != nil {
		respondError(w, err)
		return
	}
	render.JSON(w, r, cfg)
}

// Notification is the gateway callback endpoint. The gateway retries on
// non-200, so an unknown order still answers 404 while transient store
// failures answer 500 to provoke a retry. Bodies that fail signature or
// amount verification answer 4xx and never touch an order.
func (h *PaymentHandler) Notification(w http.ResponseWriter, r *http.Request) {
	var n gateway.Notification
	if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid callback payload")
		return
	}

	h.logger.Info("gateway callback received",
		zap.String("order_ref", n.OrderRef),
		zap.String("transaction_status", n.TransactionStatus),
		zap.String("fraud_status", n.FraudStatus))

	if err := h.uc.HandleNotification(r.Context(), &n); err != nil {
		if checkout.IsUnknownOrder(err) {
			response.Error(w, http.StatusNotFound, "unknown order reference")
			return
		}
		respondError(w, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]string{"status": "ok"})
}
