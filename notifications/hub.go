package notifications

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"sync"
	"time"

	"code.cloudfoundry.org/lager"
	"github.com/gorilla/websocket"

	"github.com/codeguardian/guardian/eventbus"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 16
)

// Hub broadcasts notifications to connected dashboard websocket clients. A
// client that cannot keep up is disconnected.
type Hub struct {
	logger   lager.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

func NewHub(logger lager.Logger, allowedOrigins []string) *Hub {
	upgrader := websocket.Upgrader{}

	if len(allowedOrigins) > 0 {
		allowed := make(map[string]struct{}, len(allowedOrigins))
		for _, origin := range allowedOrigins {
			allowed[origin] = struct{}{}
		}

		upgrader.CheckOrigin = func(r *http.Request) bool {
			_, ok := allowed[r.Header.Get("Origin")]
			return ok
		}
	}

	return &Hub{
		logger:   logger.Session("websocket-hub"),
		upgrader: upgrader,
		clients:  map[*client]struct{}{},
	}
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("failed-to-upgrade", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	h.logger.Info("client-connected", lager.Data{"remote-addr": r.RemoteAddr})

	go h.write(c)
	go h.read(c)
}

// read discards client frames and notices disconnects.
func (h *Hub) read(c *client) {
	defer h.remove(c)

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) write(c *client) {
	defer c.conn.Close()

	for message := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			h.remove(c)
			return
		}
	}

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()

	if ok {
		c.close()
	}
}

func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.clients)
}

func (h *Hub) Send(ctx context.Context, logger lager.Logger, notification eventbus.Notification) error {
	message, err := json.Marshal(notification)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		select {
		case c.send <- message:
		default:
			logger.Info("dropping-slow-client")
			delete(h.clients, c)
			c.close()
		}
	}

	return nil
}

// Run disconnects every client on shutdown.
func (h *Hub) Run(signals <-chan os.Signal, ready chan<- struct{}) error {
	close(ready)

	<-signals

	h.mu.Lock()
	for c := range h.clients {
		delete(h.clients, c)
		c.close()
	}
	h.mu.Unlock()

	return nil
}
