package notify

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/gigbridge/gigwork-app/models"
)

// Event types
const (
	EventShiftDecision = "shift_decision"
	EventInvoicePaid   = "invoice_paid"
	EventNotification  = "notification"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub holds the connected dashboard clients (workers, payers, admins) and
// fans events out to them. Delivery is fire-and-forget: a dead connection is
// skipped, never retried.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]string),
}

// RegisterClient adds a connection with its role.
func RegisterClient(conn *websocket.Conn, role string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = role
}

// UnregisterClient drops a connection.
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastShiftDecision announces an adjudicated shift.
func BroadcastShiftDecision(shift models.Shift) {
	broadcast(Message{
		Event: EventShiftDecision,
		Data:  shift,
	})
}

// BroadcastInvoicePaid announces a paid invoice.
func BroadcastInvoicePaid(invoice models.Invoice) {
	broadcast(Message{
		Event: EventInvoicePaid,
		Data:  invoice,
	})
}

// BroadcastNotification relays a persisted notification row.
func BroadcastNotification(notification models.Notification) {
	broadcast(Message{
		Event: EventNotification,
		Data:  notification,
	})
}

func broadcast(msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	for conn := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Error sending message to client: %v", err)
			continue
		}
	}
}
