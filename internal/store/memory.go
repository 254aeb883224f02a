package store

import (
	"context"
	"sync"

	"github.com/kiliankoe/rummypool/internal/pool"
)

type Memory struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

func (m *Memory) Save(ctx context.Context, gameID string, g pool.GameState) error {
	b, err := encode(g)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[Key(gameID)] = b
	return nil
}

func (m *Memory) Load(ctx context.Context, gameID string) (pool.GameState, error) {
	m.mu.RLock()
	b, ok := m.blobs[Key(gameID)]
	m.mu.RUnlock()
	if !ok {
		return pool.GameState{}, ErrNotFound
	}
	return decode(b)
}
