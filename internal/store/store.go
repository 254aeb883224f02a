// Package store persists game snapshots as opaque blobs keyed by game id.
package store

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kiliankoe/rummypool/internal/config"
	"github.com/kiliankoe/rummypool/internal/pool"
)

var ErrNotFound = errors.New("game state not found")

// Migrations holds the SQL schema for golang-migrate.
//
//go:embed migrations/*.sql
var Migrations embed.FS

type Store interface {
	Save(ctx context.Context, gameID string, g pool.GameState) error
	Load(ctx context.Context, gameID string) (pool.GameState, error)
}

// Key namespaces a game id the same way for every backend.
func Key(gameID string) string {
	return "rummy_game_" + gameID
}

// Open builds the backend named in cfg.Store.
func Open(cfg config.Config) (Store, error) {
	switch cfg.Store {
	case "memory":
		return NewMemory(), nil
	case "file", "":
		return NewFile(cfg.DataDir), nil
	case "sql":
		return OpenSQL(cfg.DatabaseURL)
	case "dynamo":
		if cfg.DynamoTable == "" {
			return nil, errors.New("DYNAMO_TABLE is not set")
		}
		return OpenDynamo(cfg.AWSRegion, cfg.DynamoTable)
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

func encode(g pool.GameState) ([]byte, error) {
	b, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("encode game %s: %w", g.GameID, err)
	}
	return b, nil
}

func decode(b []byte) (pool.GameState, error) {
	var g pool.GameState
	if err := json.Unmarshal(b, &g); err != nil {
		return pool.GameState{}, fmt.Errorf("decode game state: %w", err)
	}
	return g, nil
}
