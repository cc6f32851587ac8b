package server

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const writeTimeout = 5 * time.Second

// subscriber abstracts a streaming client.
type subscriber interface {
	ID() string
	Send(payload []byte) error
	Close()
}

// hub fans messages for one event view out to its subscribers. All
// subscriber bookkeeping happens on the run goroutine.
type hub struct {
	view      string
	logger    *log.Logger
	clients   map[subscriber]struct{}
	register  chan subscriber
	unreg     chan subscriber
	broadcast chan []byte
	count     chan chan int
	quit      chan struct{}
	done      chan struct{}
	stopOnce  sync.Once
}

func newHub(view string, logger *log.Logger) *hub {
	h := &hub{
		view:      view,
		logger:    logger,
		clients:   make(map[subscriber]struct{}),
		register:  make(chan subscriber),
		unreg:     make(chan subscriber),
		broadcast: make(chan []byte, 16),
		count:     make(chan chan int),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *hub) run() {
	defer close(h.done)
	for {
		select {
		case <-h.quit:
			for c := range h.clients {
				c.Close()
				delete(h.clients, c)
			}
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.logger.Debug("stream subscriber joined", "view", h.view, "id", c.ID(), "subscribers", len(h.clients))
		case c := <-h.unreg:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				c.Close()
				h.logger.Debug("stream subscriber left", "view", h.view, "id", c.ID())
			}
		case payload := <-h.broadcast:
			for c := range h.clients {
				if err := c.Send(payload); err != nil {
					h.logger.Debug("dropping stream subscriber", "view", h.view, "id", c.ID(), "error", err)
					c.Close()
					delete(h.clients, c)
				}
			}
		case reply := <-h.count:
			reply <- len(h.clients)
		}
	}
}

// Register adds a subscriber. It returns false if the hub is stopped.
func (h *hub) Register(c subscriber) bool {
	select {
	case h.register <- c:
		return true
	case <-h.quit:
		return false
	}
}

// Unregister removes and closes a subscriber.
func (h *hub) Unregister(c subscriber) {
	select {
	case h.unreg <- c:
	case <-h.quit:
	}
}

// Broadcast queues payload for every subscriber.
func (h *hub) Broadcast(payload []byte) {
	select {
	case h.broadcast <- payload:
	case <-h.quit:
	}
}

// Len returns the number of subscribers.
func (h *hub) Len() int {
	reply := make(chan int, 1)
	select {
	case h.count <- reply:
		return <-reply
	case <-h.quit:
		return 0
	}
}

// Stop closes every subscriber and ends the run loop.
func (h *hub) Stop() {
	h.stopOnce.Do(func() { close(h.quit) })
	<-h.done
}

// wsClient is a websocket subscriber.
type wsClient struct {
	id   string
	conn *websocket.Conn
	once sync.Once
}

func newWSClient(conn *websocket.Conn) *wsClient {
	return &wsClient{id: uuid.NewString(), conn: conn}
}

func (c *wsClient) ID() string { return c.id }

func (c *wsClient) Send(payload []byte) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

func (c *wsClient) Close() {
	c.once.Do(func() {
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		_ = c.conn.Close()
	})
}
