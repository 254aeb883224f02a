package pool

import (
	"math/rand"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"
)

const (
	// DisplayPlaces is used for shares, payouts and the pool during play.
	DisplayPlaces = 2
	// DistributionPlaces is used by the final distribution view.
	DistributionPlaces = 4
)

// WithdrawalKeep is the fraction of a withdrawing player's stake that is
// paid out. The rest stays in the pool.
var WithdrawalKeep = decimal.RequireFromString("0.75")

// deepCopy clones slices of plain structs. copier only fails on nil or
// mismatched pointer kinds, so the clone helpers below never see an error.
var deepCopy = copier.Option{DeepCopy: true}

// GenerateGameID draws a 4-digit join code in [1000, 9999].
func GenerateGameID() string {
	return strconv.Itoa(1000 + rand.Intn(9000))
}

// NewGame builds the opening state: everyone active at zero with equal
// shares and a pool of one fee per player.
func NewGame(s Setup) GameState {
	players := make([]Player, 0, len(s.PlayerNames))
	for _, name := range s.PlayerNames {
		players = append(players, Player{ID: uuid.NewString(), Name: name, Status: StatusActive})
	}
	g := GameState{
		GameID:          s.GameID,
		TargetPoints:    s.TargetPoints,
		AmountPerPlayer: s.AmountPerPlayer,
		Players:         ComputeShares(players),
		Rounds:          []Round{},
		TotalPool:       s.AmountPerPlayer.Mul(decimal.NewFromInt(int64(len(players)))),
		CreatedAt:       time.Now().UTC(),
	}
	if s.FirstShuffler >= 0 && s.FirstShuffler < len(players) {
		g.FirstShufflerID = players[s.FirstShuffler].ID
	}
	return g
}

// ApplyRound adds a round's scores to the active players, eliminates
// whoever reaches the target and appends the round to the history. It does
// not decide whether the game is over.
func ApplyRound(g GameState, shufflerID string, scores map[string]int) GameState {
	next := cloneState(g)
	for i := range next.Players {
		p := &next.Players[i]
		if p.Status != StatusActive {
			continue
		}
		p.TotalScore += scores[p.ID]
		if p.TotalScore >= next.TargetPoints {
			p.Status = StatusEliminated
		}
	}
	next.Players = ComputeShares(next.Players)
	next.Rounds = append(next.Rounds, Round{
		RoundNumber: len(next.Rounds) + 1,
		ShufflerID:  shufflerID,
		Scores:      copyScores(scores),
	})
	return next
}

// UndoLastRound reverts the most recent ApplyRound. Players eliminated by
// that round become active again; withdrawn players stay withdrawn. With
// no rounds recorded it returns g unchanged.
func UndoLastRound(g GameState) GameState {
	if len(g.Rounds) == 0 {
		return g
	}
	next := cloneState(g)
	last := next.Rounds[len(next.Rounds)-1]
	for i := range next.Players {
		p := &next.Players[i]
		p.TotalScore -= last.Scores[p.ID]
		if p.Status == StatusEliminated && p.TotalScore < next.TargetPoints {
			p.Status = StatusActive
		}
	}
	next.Players = ComputeShares(next.Players)
	next.Rounds = append([]Round{}, next.Rounds[:len(next.Rounds)-1]...)
	return next
}

// RoundWinners returns the ids holding the lowest score of the round,
// sorted. Ties all win.
func RoundWinners(scores map[string]int) []string {
	out := []string{}
	if len(scores) == 0 {
		return out
	}
	first := true
	low := 0
	for _, s := range scores {
		if first || s < low {
			low = s
			first = false
		}
	}
	for id, s := range scores {
		if s == low {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// NextShuffler returns the active player after currentID in join order,
// wrapping around. An unknown currentID yields the first active player.
func NextShuffler(players []Player, currentID string) string {
	active := ActivePlayers(players)
	if len(active) == 0 {
		return ""
	}
	ix := -1
	for i, p := range active {
		if p.ID == currentID {
			ix = i
			break
		}
	}
	return active[(ix+1)%len(active)].ID
}

// CurrentShuffler derives who deals the next round from the history.
func CurrentShuffler(g GameState) string {
	if len(g.Rounds) > 0 {
		return NextShuffler(g.Players, g.Rounds[len(g.Rounds)-1].ShufflerID)
	}
	if i := FindPlayer(g.Players, g.FirstShufflerID); i >= 0 && g.Players[i].Status == StatusActive {
		return g.FirstShufflerID
	}
	if active := ActivePlayers(g.Players); len(active) > 0 {
		return active[0].ID
	}
	return ""
}

// AddPlayer seats a late joiner at the current highest active total so
// they start with no advantage, and charges the entry fee.
func AddPlayer(g GameState, name string) (GameState, Player) {
	p := Player{
		ID:         uuid.NewString(),
		Name:       name,
		TotalScore: MaxActiveScore(g.Players),
		Status:     StatusActive,
	}
	next := cloneState(g)
	next.Players = ComputeShares(append(next.Players, p))
	next.TotalPool = next.TotalPool.Add(next.AmountPerPlayer)
	return next, next.Players[len(next.Players)-1]
}

// WithdrawalQuote is the payout Withdraw would make for playerID.
func WithdrawalQuote(g GameState, playerID string) decimal.Decimal {
	i := FindPlayer(g.Players, playerID)
	if i < 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(g.Players[i].CurrentShare).Mul(g.TotalPool).Mul(WithdrawalKeep)
}

// Withdraw pays a player 75% of their current stake and takes them out of
// the game. The forfeited quarter stays in the pool. Unknown ids are a
// no-op with a zero payout.
func Withdraw(g GameState, playerID string) (GameState, decimal.Decimal) {
	i := FindPlayer(g.Players, playerID)
	if i < 0 {
		return g, decimal.Zero
	}
	payout := WithdrawalQuote(g, playerID)
	next := cloneState(g)
	next.Players[i].Status = StatusWithdrawn
	next.Players[i].CurrentShare = 0
	next.Players = ComputeShares(next.Players)
	next.TotalPool = next.TotalPool.Sub(payout)
	return next, payout
}

// Rejoin brings a player back at the current highest active total for a
// fresh entry fee. Unknown ids are a no-op.
func Rejoin(g GameState, playerID string) GameState {
	i := FindPlayer(g.Players, playerID)
	if i < 0 {
		return g
	}
	next := cloneState(g)
	next.Players[i].TotalScore = MaxActiveScore(g.Players)
	next.Players[i].Status = StatusActive
	next.Players = ComputeShares(next.Players)
	next.TotalPool = next.TotalPool.Add(next.AmountPerPlayer)
	return next
}

func Finish(g GameState) GameState {
	next := cloneState(g)
	next.IsFinished = true
	return next
}

// Distribution splits the pool by current share, at full precision.
func Distribution(g GameState) []Payout {
	out := make([]Payout, 0, len(g.Players))
	for _, p := range g.Players {
		out = append(out, Payout{
			PlayerID: p.ID,
			Name:     p.Name,
			Status:   p.Status,
			Share:    p.CurrentShare,
			Amount:   decimal.NewFromFloat(p.CurrentShare).Mul(g.TotalPool),
		})
	}
	return out
}

// FormatMoney renders an amount with DisplayPlaces decimals.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(DisplayPlaces)
}

func cloneState(g GameState) GameState {
	next := g
	next.Players = clonePlayers(g.Players)
	next.Rounds = cloneRounds(g.Rounds)
	return next
}

func clonePlayers(players []Player) []Player {
	out := make([]Player, 0, len(players))
	if len(players) == 0 {
		return out
	}
	_ = copier.CopyWithOption(&out, &players, deepCopy)
	return out
}

func cloneRounds(rounds []Round) []Round {
	out := make([]Round, 0, len(rounds))
	if len(rounds) == 0 {
		return out
	}
	_ = copier.CopyWithOption(&out, &rounds, deepCopy)
	return out
}

func copyScores(scores map[string]int) map[string]int {
	out := make(map[string]int, len(scores))
	for id, s := range scores {
		out[id] = s
	}
	return out
}
