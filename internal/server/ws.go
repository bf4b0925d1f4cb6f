package server

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/server/api"
	"github.com/ayusman/mudra/internal/stabilize"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// DecisionsHandler pushes the current stable decision to WebSocket
// clients at a fixed cadence, so the browser UI does not need to poll
// /api/predict.
type DecisionsHandler struct {
	pipeline *stabilize.Pipeline
	interval time.Duration
	clients  map[string]*websocket.Conn
	mu       sync.RWMutex
}

// NewDecisionsHandler creates a new DecisionsHandler pushing every
// interval.
func NewDecisionsHandler(p *stabilize.Pipeline, interval time.Duration) *DecisionsHandler {
	h := &DecisionsHandler{
		pipeline: p,
		interval: interval,
		clients:  make(map[string]*websocket.Conn),
	}
	go h.broadcast()
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *DecisionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	id := uuid.NewString()

	h.mu.Lock()
	h.clients[id] = conn
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, id)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *DecisionsHandler) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// broadcast queries the pipeline and sends the decision to all
// connected clients.
func (h *DecisionsHandler) broadcast() {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for range ticker.C {
		h.mu.RLock()
		idle := len(h.clients) == 0
		h.mu.RUnlock()
		if idle {
			continue
		}

		decision, err := h.pipeline.Predict()
		if err != nil {
			log.Printf("predict error: %v", err)
			continue
		}

		payload := api.NewPredictResponse(decision)

		h.mu.RLock()
		for id, conn := range h.clients {
			if err := conn.WriteJSON(payload); err != nil {
				// Reads on the client goroutine notice the closed
				// connection and deregister it.
				log.Printf("websocket write to %s failed: %v", id, err)
			}
		}
		h.mu.RUnlock()
	}
}
