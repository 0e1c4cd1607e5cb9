package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/cakeoats/ZEROWASTEFORK-sub000/internal/usecase/notification"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/middleware"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/response"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type NotificationHandler struct {
	uc *notification.Usecase
}

func NewNotificationHandler(uc *notification.Usecase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "No user in context")
		return
	}

	list, err := h.uc.List(r.Context(), userID, queryInt(r, "limit", 50), queryInt(r, "offset", 0))
	if err != nil {
		respondError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, list)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "No user in context")
		return
	}

	var body struct {
		Read *bool `json:"read"`
	}
	read := true
	if err := json.NewDecoder(r.Body).Decode(&body); err == nil && body.Read != nil {
		read = *body.Read
	}

	if err := h.uc.MarkRead(r.Context(), userID, chi.URLParam(r, "id"), read); err != nil {
		respondError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"message": "notification updated"})
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "No user in context")
		return
	}

	count, err := h.uc.CountUnread(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]int64{"unread": count})
}

// Stream upgrades to a websocket and pushes new notifications until the
// client disconnects.
func (h *NotificationHandler) Stream(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "No user in context")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "WebSocket upgrade failed")
		return
	}

	notifier := h.uc.WSNotifier()
	notifier.RegisterConnection(userID, conn)
	defer notifier.UnregisterConnection(userID, conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			log.Printf("Client %s disconnected: %v", userID, err)
			break
		}
	}
}
