package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kiliankoe/rummypool/internal/pool"
)

// File keeps one JSON document per game in a directory.
type File struct {
	dir string
}

func NewFile(dir string) *File {
	return &File{dir: dir}
}

func (f *File) path(gameID string) string {
	return filepath.Join(f.dir, Key(gameID)+".json")
}

func (f *File) Save(ctx context.Context, gameID string, g pool.GameState) error {
	b, err := encode(g)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	tmp, err := os.CreateTemp(f.dir, Key(gameID)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write game %s: %w", gameID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write game %s: %w", gameID, err)
	}
	// rename is atomic on the same filesystem, readers never see half a file
	if err := os.Rename(tmp.Name(), f.path(gameID)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace game %s: %w", gameID, err)
	}
	return nil
}

func (f *File) Load(ctx context.Context, gameID string) (pool.GameState, error) {
	b, err := os.ReadFile(f.path(gameID))
	if err != nil {
		if os.IsNotExist(err) {
			return pool.GameState{}, ErrNotFound
		}
		return pool.GameState{}, fmt.Errorf("failed to read game %s: %w", gameID, err)
	}
	return decode(b)
}
