package libs

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"storefront/models"

	"github.com/gorilla/websocket"
)

const feedWriteTimeout = 5 * time.Second

// OrderEvent is pushed to connected admin dashboards.
type OrderEvent struct {
	Type  string        `json:"type"`
	Order *models.Order `json:"order"`
}

const (
	EventOrderCreated = "order.created"
	EventOrderUpdated = "order.updated"
	EventOrderDeleted = "order.deleted"
)

// OrderFeed keeps the set of websocket clients watching new orders.
type OrderFeed struct {
	upgrader websocket.Upgrader
	mu       sync.Mutex
	clients  map[*feedClient]bool
}

// feedClient owns one connection. Only its write loop touches the
// connection for writing; Broadcast hands it messages through send.
type feedClient struct {
	conn *websocket.Conn
	send chan []byte
}

const feedClientBuffer = 16

// NewOrderFeed accepts upgrades whose Origin is one of allowedOrigins.
// Requests without an Origin header, or a feed without origins, are let
// through.
func NewOrderFeed(allowedOrigins []string) *OrderFeed {
	feed := &OrderFeed{clients: make(map[*feedClient]bool)}
	feed.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || len(allowedOrigins) == 0 {
				return true
			}
			for _, allowed := range allowedOrigins {
				if allowed == origin {
					return true
				}
			}
			return false
		},
	}
	return feed
}

// Serve upgrades the request and blocks until the client disconnects.
func (f *OrderFeed) Serve(w http.ResponseWriter, r *http.Request) error {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	client := &feedClient{conn: conn, send: make(chan []byte, feedClientBuffer)}
	f.mu.Lock()
	f.clients[client] = true
	f.mu.Unlock()
	defer f.drop(client)

	go client.writeLoop()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return nil
		}
	}
}

func (c *feedClient) writeLoop() {
	defer c.conn.Close()
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, nil)
}

// drop unregisters the client and ends its write loop. Safe to call twice.
func (f *OrderFeed) drop(client *feedClient) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dropLocked(client)
}

func (f *OrderFeed) dropLocked(client *feedClient) {
	if f.clients[client] {
		delete(f.clients, client)
		close(client.send)
	}
}

// Broadcast queues the event for every client without waiting on the
// network. A client whose queue is full is disconnected.
func (f *OrderFeed) Broadcast(eventType string, order *models.Order) {
	data, err := json.Marshal(OrderEvent{Type: eventType, Order: order})
	if err != nil {
		log.Println("order feed: marshal event:", err)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for client := range f.clients {
		select {
		case client.send <- data:
		default:
			log.Println("order feed: dropping slow client")
			f.dropLocked(client)
		}
	}
}

func (f *OrderFeed) Clients() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clients)
}
