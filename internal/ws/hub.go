package ws

import (
	"context"
	"sync"
	"time"

	"price_wheel/internal/game"
	"price_wheel/internal/logger"

	"github.com/google/uuid"
)

const cleanupInterval = time.Minute

type Hub struct {
	mu     sync.RWMutex
	tables map[string]*Table

	tuning      game.Tuning
	idleTimeout time.Duration
}

func NewHub(tuning game.Tuning, idleTimeout time.Duration) *Hub {
	return &Hub{
		tables:      make(map[string]*Table),
		tuning:      tuning,
		idleTimeout: idleTimeout,
	}
}

// Tuning returns the wheel constants every new table is built with.
func (h *Hub) Tuning() game.Tuning {
	return h.tuning
}

// CreateTable starts a fresh table with a random id.
func (h *Hub) CreateTable() *Table {
	t := NewTable(uuid.NewString(), h.tuning)

	h.mu.Lock()
	h.tables[t.ID] = t
	n := len(h.tables)
	h.mu.Unlock()

	TablesActive.Inc()
	go t.Run()

	logger.Info("table created", "table_id", t.ID, "tables", n)
	return t
}

func (h *Hub) Table(id string) (*Table, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	t, ok := h.tables[id]
	return t, ok
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.tables)
}

// Remove closes and forgets a table.
func (h *Hub) Remove(id string) {
	h.mu.Lock()
	t, ok := h.tables[id]
	delete(h.tables, id)
	h.mu.Unlock()

	if ok {
		t.Close()
		TablesActive.Dec()
	}
}

// RunCleanup drops idle tables until ctx is done.
func (h *Hub) RunCleanup(ctx context.Context) error {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			h.cleanupIdleTables(now)
		}
	}
}

func (h *Hub) cleanupIdleTables(now time.Time) int {
	h.mu.Lock()
	var stale []*Table
	for id, t := range h.tables {
		if t.Idle(now, h.idleTimeout) {
			stale = append(stale, t)
			delete(h.tables, id)
		}
	}
	h.mu.Unlock()

	for _, t := range stale {
		t.Close()
		TablesActive.Dec()
		logger.Info("cleaned up idle table", "table_id", t.ID)
	}
	return len(stale)
}

// Close stops every table.
func (h *Hub) Close() {
	h.mu.Lock()
	tables := h.tables
	h.tables = make(map[string]*Table)
	h.mu.Unlock()

	for _, t := range tables {
		t.Close()
		TablesActive.Dec()
	}
}
