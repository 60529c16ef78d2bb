package ws

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
)

// Client is a connection pinned to the tenant its token resolved to.
type Client struct {
	Conn     *websocket.Conn
	TenantID string
}

// Event is a payload addressed to every client of one tenant.
type Event struct {
	TenantID string
	Payload  []byte
}

type Hub struct {
	clients    map[*websocket.Conn]string // conn -> tenant
	Register   chan Client
	Unregister chan *websocket.Conn
	Broadcast  chan Event
	mutex      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]string),
		Register:   make(chan Client),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan Event),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mutex.Lock()
			h.clients[client.Conn] = client.TenantID
			h.mutex.Unlock()
			log.Println("New WS Client Connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case event := <-h.Broadcast:
			h.mutex.Lock()
			for conn, tenantID := range h.clients {
				if tenantID != event.TenantID {
					continue // never leak events across tenants
				}
				if err := conn.WriteMessage(websocket.TextMessage, event.Payload); err != nil {
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}
