// internal/server/hub.go
package server

import (
	"sync"
	"time"

	"go-tower-defense-sim/internal/interfaces"
	"go-tower-defense-sim/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Message is one frame pushed to websocket clients.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

const (
	hubBuffer    = 1024
	writeTimeout = 2 * time.Second
)

// Hub is a Presenter that streams every hook to the websocket clients of one
// session. Hooks never block the simulation: when the buffer is full the
// message is dropped.
type Hub struct {
	clients map[*websocket.Conn]*sync.Mutex // per-conn write lock
	mu      sync.RWMutex
	out     chan Message
	done    chan struct{}
	once    sync.Once
	dropped int
	log     *logrus.Entry
}

func NewHub(session string) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]*sync.Mutex),
		out:     make(chan Message, hubBuffer),
		done:    make(chan struct{}),
		log:     logger.Component("hub").WithField("session", session),
	}
}

// Run pumps queued messages to clients until Close.
func (h *Hub) Run() {
	for {
		select {
		case msg := <-h.out:
			h.broadcast(msg)
		case <-h.done:
			h.mu.Lock()
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) Close() {
	h.once.Do(func() { close(h.done) })
}

func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = &sync.Mutex{}
	n := len(h.clients)
	h.mu.Unlock()
	h.log.WithField("clients", n).Info("Client connected")
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
	n := len(h.clients)
	h.mu.Unlock()
	h.log.WithField("clients", n).Info("Client disconnected")
}

// Send writes one message to a single client, used for the initial state.
func (h *Hub) Send(conn *websocket.Conn, msg Message) error {
	h.mu.RLock()
	mu, ok := h.clients[conn]
	h.mu.RUnlock()
	if !ok {
		return nil
	}
	mu.Lock()
	defer mu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(msg)
}

// Publish queues a message for every client.
func (h *Hub) Publish(msgType string, data interface{}) {
	select {
	case h.out <- Message{Type: msgType, Data: data}:
	default:
		h.mu.Lock()
		h.dropped++
		dropped := h.dropped
		h.mu.Unlock()
		if dropped%100 == 1 {
			h.log.WithField("dropped", dropped).Warn("Hub buffer full, dropping messages")
		}
	}
}

func (h *Hub) broadcast(msg Message) {
	h.mu.RLock()
	var failed []*websocket.Conn
	for conn, mu := range h.clients {
		mu.Lock()
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		err := conn.WriteJSON(msg)
		mu.Unlock()
		if err != nil {
			h.log.WithError(err).Debug("Broadcast error")
			failed = append(failed, conn)
		}
	}
	h.mu.RUnlock()
	for _, conn := range failed {
		h.Unregister(conn)
	}
}

func (h *Hub) OnMobCreated(m interfaces.MobView)                { h.Publish("mob_created", m) }
func (h *Hub) OnMobMoved(m interfaces.MobView)                  { h.Publish("mob_moved", m) }
func (h *Hub) OnMobDied(m interfaces.MobView)                   { h.Publish("mob_died", m) }
func (h *Hub) OnTowerBuilt(t interfaces.TowerView)              { h.Publish("tower_built", t) }
func (h *Hub) OnTowerUpgraded(t interfaces.TowerView)           { h.Publish("tower_upgraded", t) }
func (h *Hub) OnTowerSold(t interfaces.TowerView)               { h.Publish("tower_sold", t) }
func (h *Hub) OnTowerShot(s interfaces.ShotView)                { h.Publish("tower_shot", s) }
func (h *Hub) OnProjectileSpawned(p interfaces.ProjectileView)  { h.Publish("projectile_spawned", p) }
func (h *Hub) OnProjectileResolved(p interfaces.ProjectileView) { h.Publish("projectile_resolved", p) }
func (h *Hub) OnWaveStarted(n int)                              { h.Publish("wave_started", map[string]int{"number": n}) }
func (h *Hub) OnWaveCleared(n int)                              { h.Publish("wave_cleared", map[string]int{"number": n}) }
