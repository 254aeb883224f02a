package game

import (
    "github.com/kiliankoe/rummypool/internal/pool"
)

// Snapshot is what clients render: the game plus values derived from it.
type Snapshot struct {
    Game              pool.GameState `json:"game"`
    CurrentShufflerID string         `json:"currentShufflerId"`
    ActiveCount       int            `json:"activeCount"`
    Leaders           []string       `json:"leaders"` // active players at the lowest total
}

type RoundResult struct {
    Snapshot   Snapshot   `json:"snapshot"`
    Round      pool.Round `json:"round"`
    Winners    []string   `json:"winners"`
    Eliminated []string   `json:"eliminated"`
}

func NewSnapshot(g pool.GameState) Snapshot {
    return Snapshot{
        Game:              g,
        CurrentShufflerID: pool.CurrentShuffler(g),
        ActiveCount:       len(pool.ActivePlayers(g.Players)),
        Leaders:           pool.LeadingPlayers(g.Players),
    }
}
