package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ShrayBagga/StockAnalysis/internal/contracts"
	"github.com/ShrayBagga/StockAnalysis/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16
)

// ReportHub streams report updates to websocket subscribers
// ⭐ SSOT: the only fan-out point for refreshed reports
type ReportHub struct {
	upgrader websocket.Upgrader
	clients  map[*reportClient]struct{}
	closed   bool
	mu       sync.RWMutex
	logger   *logger.Logger
}

type reportClient struct {
	conn *websocket.Conn
	send chan []byte
}

// NewReportHub creates a hub. An origin list containing "*" accepts any origin.
func NewReportHub(allowedOrigins []string, log *logger.Logger) *ReportHub {
	h := &ReportHub{
		clients: make(map[*reportClient]struct{}),
		logger:  log,
	}

	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}

	return h
}

var _ contracts.ReportPublisher = (*ReportHub)(nil)

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = true
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set[origin]
	}
}

// ServeWS upgrades the request and streams updates until the peer goes away
// GET /ws/reports
func (h *ReportHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	closed := h.closed
	h.mu.RUnlock()
	if closed {
		respondError(w, http.StatusServiceUnavailable, "Report stream is shutting down")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		h.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	c := &reportClient{conn: conn, send: make(chan []byte, sendBuffer)}
	if !h.register(c) {
		conn.Close()
		return
	}

	h.logger.WithField("clients", h.Clients()).Debug("Report subscriber connected")

	go h.writePump(c)
	h.readPump(c)
}

// Publish sends an update to every subscriber. Subscribers that cannot keep
// up are disconnected.
func (h *ReportHub) Publish(update contracts.ReportUpdate) {
	data, err := json.Marshal(update)
	if err != nil {
		h.logger.WithTicker(update.Ticker).WithError(err).Error("Failed to encode report update")
		return
	}

	var slow []*reportClient

	h.mu.RLock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("Dropping slow report subscriber")
		h.unregister(c)
	}
}

// Clients returns the number of connected subscribers
func (h *ReportHub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every subscriber and rejects new ones
func (h *ReportHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *ReportHub) register(c *reportClient) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *ReportHub) unregister(c *reportClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// readPump discards inbound messages and keeps the read deadline alive via pongs
func (h *ReportHub) readPump(c *reportClient) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.WithError(err).Debug("Report subscriber closed unexpectedly")
			}
			return
		}
	}
}

func (h *ReportHub) writePump(c *reportClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
