// Package realtime pushes e-hailing changes to the dashboards watching a
// school over websocket.
package realtime

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const writeWait = 5 * time.Second

// Event is the message written to every subscriber of SchoolID.
type Event struct {
	Type     string `json:"type"`
	SchoolID uint   `json:"school_id"`
	Data     any    `json:"data"`
}

const (
	EHailingCreated = "e_hailing.created"
	EHailingUpdated = "e_hailing.updated"
	EHailingDeleted = "e_hailing.deleted"
)

// Hub fans events out to the connections registered for each school.
type Hub struct {
	schoolClients map[uint]map[*websocket.Conn]bool
	broadcast     chan Event
	mu            sync.Mutex
	done          chan struct{}

	// closeMu guards closed and the send side of broadcast.
	closeMu sync.RWMutex
	closed  bool
}

// NewHub starts the broadcast loop. Call Close to stop it.
func NewHub() *Hub {
	h := &Hub{
		schoolClients: make(map[uint]map[*websocket.Conn]bool),
		broadcast:     make(chan Event, 100),
		done:          make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	defer close(h.done)
	for ev := range h.broadcast {
		h.deliver(ev)
	}
}

func (h *Hub) deliver(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.schoolClients[ev.SchoolID] {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(ev); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"school_id": ev.SchoolID,
				"conn_ptr":  fmt.Sprintf("%p", conn),
			}).Info("dropping websocket client after failed write")
			h.remove(ev.SchoolID, conn)
			_ = conn.Close()
		}
	}
}

// Register subscribes conn to events for schoolID.
func (h *Hub) Register(schoolID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.schoolClients[schoolID]; !ok {
		h.schoolClients[schoolID] = make(map[*websocket.Conn]bool)
	}
	h.schoolClients[schoolID][conn] = true
	logrus.WithFields(logrus.Fields{
		"school_id": schoolID,
		"conn_ptr":  fmt.Sprintf("%p", conn),
	}).Info("websocket client registered")
}

func (h *Hub) Unregister(schoolID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(schoolID, conn)
}

// remove expects h.mu held.
func (h *Hub) remove(schoolID uint, conn *websocket.Conn) {
	clients, ok := h.schoolClients[schoolID]
	if !ok {
		return
	}
	delete(clients, conn)
	if len(clients) == 0 {
		delete(h.schoolClients, schoolID)
	}
}

// Clients counts the connections watching schoolID.
func (h *Hub) Clients(schoolID uint) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.schoolClients[schoolID])
}

// Publish queues ev without blocking; it is dropped when the queue is full
// or the hub is closed.
func (h *Hub) Publish(ev Event) {
	h.closeMu.RLock()
	defer h.closeMu.RUnlock()
	if h.closed {
		logrus.WithField("type", ev.Type).Debug("realtime hub closed, dropping event")
		return
	}
	select {
	case h.broadcast <- ev:
	default:
		logrus.WithField("type", ev.Type).Warn("realtime broadcast queue full, dropping event")
	}
}

// Close stops the loop after queued events are delivered. Later calls are
// no-ops.
func (h *Hub) Close() {
	h.closeMu.Lock()
	if !h.closed {
		h.closed = true
		close(h.broadcast)
	}
	h.closeMu.Unlock()
	<-h.done
}
