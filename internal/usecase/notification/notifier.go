package notification

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/cakeoats/ZEROWASTEFORK-sub000/internal/domain"
)

// Notifier fans notifications out to the account's open websocket
// connections. Persistence is the source of truth; this push is best-effort.
type Notifier struct {
	clients map[string]map[*websocket.Conn]bool
	mu      sync.Mutex
}

func NewNotifier() *Notifier {
	return &Notifier{
		clients: make(map[string]map[*websocket.Conn]bool),
	}
}

func (n *Notifier) RegisterConnection(accountID string, conn *websocket.Conn) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.clients[accountID] == nil {
		n.clients[accountID] = make(map[*websocket.Conn]bool)
	}
	n.clients[accountID][conn] = true
}

func (n *Notifier) UnregisterConnection(accountID string, conn *websocket.Conn) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if conns, ok := n.clients[accountID]; ok {
		delete(conns, conn)
		conn.Close()
		if len(conns) == 0 {
			delete(n.clients, accountID)
		}
	}
}

type wsMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func (n *Notifier) Push(notif *domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()

	payload, _ := json.Marshal(wsMessage{Type: "notification", Data: notif})

	for conn := range n.clients[notif.AccountID] {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("Error pushing notification to %s: %v", notif.AccountID, err)
			conn.Close()
			delete(n.clients[notif.AccountID], conn)
		}
	}
}
