package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kiliankoe/rummypool/internal/pool"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GameRecord is one saved game blob.
type GameRecord struct {
	StoreKey  string         `gorm:"primaryKey;size:64"`
	GameID    string         `gorm:"size:16;index;not null"`
	State     datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
}

func (GameRecord) TableName() string { return "game_states" }

type SQL struct {
	db *gorm.DB
}

// OpenSQL connects with the postgres driver for postgres:// URLs and
// sqlite for anything else (a file path), then auto-migrates.
func OpenSQL(dsn string) (*SQL, error) {
	if dsn == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	var dialector gorm.Dialector
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(dsn)
	}
	conn, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := conn.AutoMigrate(&GameRecord{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return &SQL{db: conn}, nil
}

func (s *SQL) Save(ctx context.Context, gameID string, g pool.GameState) error {
	b, err := encode(g)
	if err != nil {
		return err
	}
	record := GameRecord{
		StoreKey:  Key(gameID),
		GameID:    gameID,
		State:     datatypes.JSON(b),
		UpdatedAt: time.Now().UTC(),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&record).Error
}

func (s *SQL) Load(ctx context.Context, gameID string) (pool.GameState, error) {
	var record GameRecord
	err := s.db.WithContext(ctx).Where("store_key = ?", Key(gameID)).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pool.GameState{}, ErrNotFound
	}
	if err != nil {
		return pool.GameState{}, fmt.Errorf("load game %s: %w", gameID, err)
	}
	return decode(record.State)
}

func (s *SQL) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
