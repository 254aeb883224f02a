package pool

import (
    "time"

    "github.com/shopspring/decimal"
)

type Status string

const (
    StatusActive     Status = "active"
    StatusEliminated Status = "eliminated"
    StatusWithdrawn  Status = "withdrawn"
)

type Player struct {
    ID           string  `json:"id"`
    Name         string  `json:"name"`
    TotalScore   int     `json:"totalScore"`
    Status       Status  `json:"status"`
    CurrentShare float64 `json:"currentShare"` // fraction of the pool, 0 unless active
}

type Round struct {
    RoundNumber int            `json:"roundNumber"`
    ShufflerID  string         `json:"shufflerId"`
    Scores      map[string]int `json:"scores"` // playerID -> points this round
}

type GameState struct {
    GameID          string          `json:"gameId"`
    TargetPoints    int             `json:"targetPoints"`
    AmountPerPlayer decimal.Decimal `json:"amountPerPlayer"`
    Players         []Player        `json:"players"`
    Rounds          []Round         `json:"rounds"`
    TotalPool       decimal.Decimal `json:"totalPool"`
    CreatedAt       time.Time       `json:"createdAt"`
    IsFinished      bool            `json:"isFinished"`
    FirstShufflerID string          `json:"firstShufflerId,omitempty"`
}

// Setup describes a game before it starts.
type Setup struct {
    GameID          string
    TargetPoints    int
    AmountPerPlayer decimal.Decimal
    PlayerNames     []string
    FirstShuffler   int // index into PlayerNames
}

// Payout is one line of the final distribution.
type Payout struct {
    PlayerID string          `json:"playerId"`
    Name     string          `json:"name"`
    Status   Status          `json:"status"`
    Share    float64         `json:"share"`
    Amount   decimal.Decimal `json:"amount"`
}

// Display rounds the amount the way the final distribution shows it.
func (p Payout) Display() string {
    return p.Amount.StringFixed(DistributionPlaces)
}
