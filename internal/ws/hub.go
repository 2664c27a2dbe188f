package ws

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"mzansicare/internal/queue"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Hub groups websocket clients by channel. Queue watchers subscribe to
// "facility:<id>" for the whole board or "user:<id>" for their own ticket.
type Hub struct {
	clients    map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan BroadcastMessage
	mu         sync.RWMutex
}

type BroadcastMessage struct {
	Channel string
	Message []byte
}

var HubInstance = NewHub()

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan BroadcastMessage),
	}
}

// Run processes hub channel traffic. Started once from main.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.Channel] == nil {
				h.clients[client.Channel] = make(map[*Client]bool)
			}
			h.clients[client.Channel][client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.Channel]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.Send)
					if len(clients) == 0 {
						delete(h.clients, client.Channel)
					}
				}
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.RLock()
			if clients, ok := h.clients[message.Channel]; ok {
				for client := range clients {
					select {
					case client.Send <- message.Message:
					default:
						close(client.Send)
						delete(clients, client)
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// PublishQueueEvent implements queue.EventPublisher: every event goes to the
// facility channel, and ticket-specific events also to the owner's channel.
func (h *Hub) PublishQueueEvent(evt queue.Event) {
	raw, err := json.Marshal(evt)
	if err != nil {
		log.Println("ws: event marshal failed:", err)
		return
	}
	h.broadcast <- BroadcastMessage{Channel: FacilityChannel(evt.FacilityID), Message: raw}
	if evt.UserID != 0 {
		h.broadcast <- BroadcastMessage{Channel: UserChannel(evt.UserID), Message: raw}
	}
}

func FacilityChannel(facilityID string) string {
	return "facility:" + facilityID
}

func UserChannel(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

// Client is one websocket connection subscribed to one channel.
type Client struct {
	Hub     *Hub
	Conn    *websocket.Conn
	Send    chan []byte
	Channel string
}

// readPump only tracks connection liveness; incoming frames are ignored.
// Closing the socket just unsubscribes the watcher, the ticket is untouched.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(512)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// QueueWebSocketHandler upgrades the connection and subscribes it to the
// facility's queue channel. URL: /api/facilities/{facilityId}/queue/ws
func QueueWebSocketHandler(c *gin.Context) {
	channel := FacilityChannel(c.Param("facilityId"))
	serveWS(c, channel)
}

// TicketWebSocketHandler subscribes the authenticated patient to their own
// ticket updates.
func TicketWebSocketHandler(c *gin.Context) {
	channel := UserChannel(c.GetUint("userID"))
	serveWS(c, channel)
}

func serveWS(c *gin.Context, channel string) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		http.Error(c.Writer, "WebSocket upgrade failed", http.StatusInternalServerError)
		return
	}
	client := &Client{
		Hub:     HubInstance,
		Conn:    conn,
		Send:    make(chan []byte, 256),
		Channel: channel,
	}
	HubInstance.register <- client

	go client.writePump()
	client.readPump()
}
