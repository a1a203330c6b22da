// internal/server/session.go
package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-tower-defense-sim/internal/app"
	"go-tower-defense-sim/internal/config"
	"go-tower-defense-sim/internal/defs"
	"go-tower-defense-sim/internal/score"
	"go-tower-defense-sim/internal/storage"
	"go-tower-defense-sim/pkg/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrNoSession = errors.New("session not found")

// Session is one hosted game. Every access to the game goes through mu: the
// ticker goroutine and the HTTP handlers share it.
type Session struct {
	ID      string
	MapName string
	Created time.Time

	mu     sync.Mutex
	game   *app.Game
	ledger *score.Ledger
	hub    *Hub
	cancel context.CancelFunc
	log    *logrus.Entry
}

// Do runs fn with the game locked.
func (s *Session) Do(fn func(g *app.Game)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.game)
}

func (s *Session) Hub() *Hub { return s.hub }

func (s *Session) run(ctx context.Context, tickRate int) {
	interval := time.Second / time.Duration(tickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			s.mu.Lock()
			s.game.Update(dt)
			s.mu.Unlock()
		}
	}
}

// Manager owns the hosted sessions.
type Manager struct {
	lib      *defs.Library
	settings config.Settings
	store    *storage.Store
	sessions map[string]*Session
	mu       sync.RWMutex
	log      *logrus.Entry
}

func NewManager(lib *defs.Library, settings config.Settings, store *storage.Store) *Manager {
	if lib == nil {
		lib = defs.DefaultLibrary()
	}
	if settings.TickRate <= 0 {
		settings.TickRate = config.TickRate
	}
	return &Manager{
		lib:      lib,
		settings: settings,
		store:    store,
		sessions: make(map[string]*Session),
		log:      logger.Component("sessions"),
	}
}

// Create starts a new game on a built-in map.
func (m *Manager) Create(mapName string, seed int64) (*Session, error) {
	if mapName == "" {
		mapName = m.settings.Map
	}
	level, err := defs.LoadBuiltinMap(mapName)
	if err != nil {
		return nil, err
	}
	if seed == 0 {
		seed = m.settings.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return m.start(mapName, func(opts app.Options) (*app.Game, error) {
		opts.Seed = seed
		return app.NewGame(level, opts)
	})
}

// Restore starts a session from a stored save.
func (m *Manager) Restore(name string) (*Session, error) {
	if m.store == nil {
		return nil, errors.New("saving is disabled")
	}
	snap, err := m.store.Load(name)
	if err != nil {
		return nil, err
	}
	level, err := defs.LoadBuiltinMap(snap.Level)
	if err != nil {
		return nil, err
	}
	return m.start(snap.Level, func(opts app.Options) (*app.Game, error) {
		return app.Restore(level, snap, opts)
	})
}

func (m *Manager) start(mapName string, build func(app.Options) (*app.Game, error)) (*Session, error) {
	id := uuid.NewString()
	hub := NewHub(id)
	ledger := score.NewLedger(m.settings.StartGold, m.settings.StartLives)
	game, err := build(app.Options{Library: m.lib, Economy: ledger, Presenter: hub})
	if err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:      id,
		MapName: mapName,
		Created: time.Now(),
		game:    game,
		ledger:  ledger,
		hub:     hub,
		cancel:  cancel,
		log:     m.log.WithField("session", id),
	}
	ledger.OnFinish(func(won bool) {
		hub.Publish("game_over", map[string]bool{"won": won})
	})

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	go hub.Run()
	go s.run(ctx, m.settings.TickRate)
	s.log.WithField("map", mapName).Info("Session started")
	return s, nil
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNoSession
	}
	return s, nil
}

// Close stops the ticker and drops the session.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrNoSession
	}
	s.cancel()
	s.hub.Close()
	s.log.Info("Session closed")
	return nil
}

// CloseAll stops every session, used on shutdown.
func (m *Manager) CloseAll() {
	m.mu.RLock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.RUnlock()
	for _, id := range ids {
		m.Close(id)
	}
}

// Save writes the session's snapshot to the store.
func (m *Manager) Save(s *Session, name string) (string, error) {
	if m.store == nil {
		return "", errors.New("saving is disabled")
	}
	var snap *app.Snapshot
	s.Do(func(g *app.Game) { snap = g.Snapshot() })
	return m.store.Save(name, snap)
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
