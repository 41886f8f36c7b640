package httpapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	TopicCatalog = "catalog"
	TopicOrders  = "orders"

	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	clientSendSize = 64
)

// Event is pushed to every connected client when a service changes.
// Clients re-fetch the matching resource on receipt.
type Event struct {
	Topic string    `json:"topic"`
	At    time.Time `json:"at"`
}

// Hub fans service notifications out to websocket clients.
type Hub struct {
	upgrader websocket.Upgrader
	log      logrus.FieldLogger

	mu           sync.Mutex
	clients      map[*wsClient]struct{}
	unsubscribes []func()
	closed       bool
}

type wsClient struct {
	conn *websocket.Conn
	send chan Event
	once sync.Once
}

func NewHub(allowedOrigin string, log logrus.FieldLogger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowedOrigin == "*" || origin == allowedOrigin
			},
		},
		log:     log,
		clients: make(map[*wsClient]struct{}),
	}
}

// Follow subscribes the hub to a service and broadcasts topic on every
// notification.
func (h *Hub) Follow(topic string, subscribe func(func()) func()) {
	unsubscribe := subscribe(func() { h.Broadcast(topic) })

	h.mu.Lock()
	defer h.mu.Unlock()
	h.unsubscribes = append(h.unsubscribes, unsubscribe)
}

// Broadcast queues an event for every client. It never blocks: a client
// whose buffer is full misses the event.
func (h *Hub) Broadcast(topic string) {
	event := Event{Topic: topic, At: time.Now().UTC()}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- event:
		default:
			h.log.WithField("topic", topic).Warn("event client too slow, dropping event")
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) Close() {
	h.mu.Lock()
	unsubscribes := h.unsubscribes
	h.unsubscribes = nil
	clients := h.clients
	h.clients = make(map[*wsClient]struct{})
	h.closed = true
	h.mu.Unlock()

	for _, unsubscribe := range unsubscribes {
		unsubscribe()
	}
	for c := range clients {
		c.close()
	}
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		h.log.WithError(err).Debug("websocket upgrade failed")
		return
	}

	client := &wsClient{conn: conn, send: make(chan Event, clientSendSize)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.clients[client] = struct{}{}
	h.mu.Unlock()

	go client.writePump()
	go h.readPump(client)
}

func (h *Hub) remove(c *wsClient) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.close()
}

// readPump only services control frames; clients do not send events.
func (h *Hub) readPump(c *wsClient) {
	defer h.remove(c)

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.WithError(err).Debug("websocket closed unexpectedly")
			}
			return
		}
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *wsClient) close() {
	c.once.Do(func() { close(c.send) })
}
