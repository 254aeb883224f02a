package game

import (
    "context"
    "errors"
    "fmt"
    "math"
    "strings"
    "sync"

    "github.com/kiliankoe/rummypool/internal/pool"
    "github.com/kiliankoe/rummypool/internal/store"
    "github.com/rs/zerolog/log"
    "github.com/shopspring/decimal"
)

var (
    ErrGameNotFound    = errors.New("game not found")
    ErrGameFinished    = errors.New("game is finished")
    ErrInvalidSetup    = errors.New("invalid game setup")
    ErrInvalidScores   = errors.New("invalid round scores")
    ErrInvalidName     = errors.New("invalid player name")
    ErrPlayerNotFound  = errors.New("player not found")
    ErrPlayerNotActive = errors.New("player is not active")
    ErrPlayerActive    = errors.New("player is already active")
    ErrNoRounds        = errors.New("no rounds to undo")
)

const (
    MinPlayers = 2
    MaxPlayers = 9

    // MaxPoints bounds targets and running totals so they can never wrap.
    MaxPoints = math.MaxInt32

    maxCodeAttempts = 20
)

// errUnchanged lets an update closure finish without saving or publishing.
var errUnchanged = errors.New("unchanged")

// Notifier is told about every state change, after it was saved and before
// the next change can start, so snapshots arrive in order.
type Notifier interface {
    Publish(code string, snap Snapshot)
}

type Option func(*Manager)

func WithNotifier(n Notifier) Option {
    return func(m *Manager) { m.notifier = n }
}

// WithExportFile appends every round to a plain text ledger at path.
func WithExportFile(path string) Option {
    return func(m *Manager) { m.exportFile = path }
}

// Manager owns the current state of every game it has touched and is the
// only writer for them. Each mutation is read-modify-write against the
// store under one lock.
type Manager struct {
    mu    sync.Mutex
    store store.Store
    games map[string]pool.GameState // code -> latest saved state

    notifier   Notifier
    exportFile string
}

func NewManager(st store.Store, opts ...Option) *Manager {
    m := &Manager{store: st, games: make(map[string]pool.GameState)}
    for _, opt := range opts {
        opt(m)
    }
    return m
}

func (m *Manager) Create(ctx context.Context, s pool.Setup) (Snapshot, error) {
    s, err := validateSetup(s)
    if err != nil {
        return Snapshot{}, err
    }

    m.mu.Lock()
    code, err := m.freeCode(ctx)
    if err != nil {
        m.mu.Unlock()
        return Snapshot{}, err
    }
    s.GameID = code
    g := pool.NewGame(s)
    if err := m.save(ctx, g); err != nil {
        m.mu.Unlock()
        return Snapshot{}, err
    }
    snap := m.publish(g)
    m.mu.Unlock()

    log.Info().Str("code", code).Int("players", len(g.Players)).Int("target", g.TargetPoints).Str("pool", pool.FormatMoney(g.TotalPool)).Msg("game created")
    return snap, nil
}

func (m *Manager) Get(ctx context.Context, code string) (Snapshot, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    g, err := m.load(ctx, code)
    if err != nil {
        return Snapshot{}, err
    }
    return NewSnapshot(g), nil
}

// SubmitRound scores the next round for exactly the active players. The
// game finishes by itself once at most one active player is left.
func (m *Manager) SubmitRound(ctx context.Context, code string, scores map[string]int) (RoundResult, error) {
    var res RoundResult
    g, snap, err := m.update(ctx, code, func(g pool.GameState) (pool.GameState, error) {
        if g.IsFinished {
            return g, ErrGameFinished
        }
        if err := validateScores(g, scores); err != nil {
            return g, err
        }
        next := pool.ApplyRound(g, pool.CurrentShuffler(g), scores)
        for i, p := range g.Players {
            if p.Status == pool.StatusActive && next.Players[i].Status == pool.StatusEliminated {
                res.Eliminated = append(res.Eliminated, p.ID)
            }
        }
        if len(pool.ActivePlayers(next.Players)) <= 1 {
            next = pool.Finish(next)
        }
        if m.exportFile != "" {
            if err := ExportRound(m.exportFile, next); err != nil {
                log.Error().Err(err).Str("code", code).Msg("failed to export round")
            }
        }
        return next, nil
    })
    if err != nil {
        return RoundResult{}, err
    }

    res.Round = g.Rounds[len(g.Rounds)-1]
    res.Winners = pool.RoundWinners(res.Round.Scores)
    if res.Eliminated == nil {
        res.Eliminated = []string{}
    }
    res.Snapshot = snap

    log.Info().Str("code", code).Int("round", res.Round.RoundNumber).Strs("winners", res.Winners).Strs("eliminated", res.Eliminated).Bool("finished", g.IsFinished).Msg("round submitted")
    return res, nil
}

func (m *Manager) Undo(ctx context.Context, code string) (Snapshot, error) {
    g, snap, err := m.update(ctx, code, func(g pool.GameState) (pool.GameState, error) {
        if g.IsFinished {
            return g, ErrGameFinished
        }
        if len(g.Rounds) == 0 {
            return g, ErrNoRounds
        }
        return pool.UndoLastRound(g), nil
    })
    if err != nil {
        return Snapshot{}, err
    }
    log.Info().Str("code", code).Int("rounds", len(g.Rounds)).Msg("round undone")
    return snap, nil
}

// AddPlayer seats a late joiner. Names are only checked for being blank,
// uniqueness is a setup-time rule.
func (m *Manager) AddPlayer(ctx context.Context, code, name string) (Snapshot, pool.Player, error) {
    name = strings.TrimSpace(name)
    if name == "" {
        return Snapshot{}, pool.Player{}, ErrInvalidName
    }
    var added pool.Player
    _, snap, err := m.update(ctx, code, func(g pool.GameState) (pool.GameState, error) {
        if g.IsFinished {
            return g, ErrGameFinished
        }
        next, p := pool.AddPlayer(g, name)
        added = p
        return next, nil
    })
    if err != nil {
        return Snapshot{}, pool.Player{}, err
    }
    log.Info().Str("code", code).Str("playerId", added.ID).Int("seededScore", added.TotalScore).Msg("player added")
    return snap, added, nil
}

func (m *Manager) WithdrawalQuote(ctx context.Context, code, playerID string) (decimal.Decimal, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    g, err := m.load(ctx, code)
    if err != nil {
        return decimal.Zero, err
    }
    if err := requireStatus(g, playerID, true); err != nil {
        return decimal.Zero, err
    }
    return pool.WithdrawalQuote(g, playerID), nil
}

func (m *Manager) Withdraw(ctx context.Context, code, playerID string) (Snapshot, decimal.Decimal, error) {
    var payout decimal.Decimal
    g, snap, err := m.update(ctx, code, func(g pool.GameState) (pool.GameState, error) {
        if g.IsFinished {
            return g, ErrGameFinished
        }
        if err := requireStatus(g, playerID, true); err != nil {
            return g, err
        }
        next, p := pool.Withdraw(g, playerID)
        payout = p
        return next, nil
    })
    if err != nil {
        return Snapshot{}, decimal.Zero, err
    }
    log.Info().Str("code", code).Str("playerId", playerID).Str("payout", pool.FormatMoney(payout)).Str("pool", pool.FormatMoney(g.TotalPool)).Msg("player withdrew")
    return snap, payout, nil
}

func (m *Manager) Rejoin(ctx context.Context, code, playerID string) (Snapshot, error) {
    g, snap, err := m.update(ctx, code, func(g pool.GameState) (pool.GameState, error) {
        if g.IsFinished {
            return g, ErrGameFinished
        }
        if err := requireStatus(g, playerID, false); err != nil {
            return g, err
        }
        return pool.Rejoin(g, playerID), nil
    })
    if err != nil {
        return Snapshot{}, err
    }
    log.Info().Str("code", code).Str("playerId", playerID).Str("pool", pool.FormatMoney(g.TotalPool)).Msg("player rejoined")
    return snap, nil
}

// Finish closes the game. Finishing twice is fine.
func (m *Manager) Finish(ctx context.Context, code string) (Snapshot, error) {
    g, snap, err := m.update(ctx, code, func(g pool.GameState) (pool.GameState, error) {
        if g.IsFinished {
            return g, errUnchanged
        }
        next := pool.Finish(g)
        if m.exportFile != "" {
            if err := ExportFinal(m.exportFile, next); err != nil {
                log.Error().Err(err).Str("code", code).Msg("failed to export final standings")
            }
        }
        return next, nil
    })
    if err != nil {
        return Snapshot{}, err
    }
    log.Info().Str("code", code).Str("pool", pool.FormatMoney(g.TotalPool)).Msg("game finished")
    return snap, nil
}

func (m *Manager) Distribution(ctx context.Context, code string) ([]pool.Payout, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    g, err := m.load(ctx, code)
    if err != nil {
        return nil, err
    }
    return pool.Distribution(g), nil
}

// update runs fn on the current state, saves what it returns and publishes
// it, all under the lock. Nothing is saved when fn fails. errUnchanged
// returns the current state without saving or publishing.
func (m *Manager) update(ctx context.Context, code string, fn func(pool.GameState) (pool.GameState, error)) (pool.GameState, Snapshot, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    g, err := m.load(ctx, code)
    if err != nil {
        return pool.GameState{}, Snapshot{}, err
    }
    next, err := fn(g)
    if errors.Is(err, errUnchanged) {
        return g, NewSnapshot(g), nil
    }
    if err != nil {
        return pool.GameState{}, Snapshot{}, err
    }
    if err := m.save(ctx, next); err != nil {
        return pool.GameState{}, Snapshot{}, err
    }
    return next, m.publish(next), nil
}

func (m *Manager) load(ctx context.Context, code string) (pool.GameState, error) {
    if g, ok := m.games[code]; ok {
        return g, nil
    }
    g, err := m.store.Load(ctx, code)
    if errors.Is(err, store.ErrNotFound) {
        return pool.GameState{}, ErrGameNotFound
    }
    if err != nil {
        return pool.GameState{}, err
    }
    m.games[code] = g
    return g, nil
}

func (m *Manager) save(ctx context.Context, g pool.GameState) error {
    if err := m.store.Save(ctx, g.GameID, g); err != nil {
        return fmt.Errorf("save game %s: %w", g.GameID, err)
    }
    m.games[g.GameID] = g
    return nil
}

// freeCode draws join codes until one is not in use.
func (m *Manager) freeCode(ctx context.Context) (string, error) {
    for i := 0; i < maxCodeAttempts; i++ {
        code := pool.GenerateGameID()
        if _, err := m.load(ctx, code); errors.Is(err, ErrGameNotFound) {
            return code, nil
        } else if err != nil {
            return "", err
        }
    }
    return "", errors.New("unable to find an unused game code")
}

// publish must be called with m.mu held.
func (m *Manager) publish(g pool.GameState) Snapshot {
    snap := NewSnapshot(g)
    if m.notifier != nil {
        m.notifier.Publish(g.GameID, snap)
    }
    return snap
}

func validateSetup(s pool.Setup) (pool.Setup, error) {
    if s.TargetPoints <= 0 || s.TargetPoints > MaxPoints {
        return s, fmt.Errorf("%w: target points must be between 1 and %d", ErrInvalidSetup, MaxPoints)
    }
    if !s.AmountPerPlayer.IsPositive() {
        return s, fmt.Errorf("%w: amount per player must be positive", ErrInvalidSetup)
    }
    if len(s.PlayerNames) < MinPlayers || len(s.PlayerNames) > MaxPlayers {
        return s, fmt.Errorf("%w: need %d to %d players", ErrInvalidSetup, MinPlayers, MaxPlayers)
    }
    names := make([]string, 0, len(s.PlayerNames))
    seen := make(map[string]bool, len(s.PlayerNames))
    for _, n := range s.PlayerNames {
        n = strings.TrimSpace(n)
        if n == "" {
            return s, fmt.Errorf("%w: every player needs a name", ErrInvalidSetup)
        }
        if seen[n] {
            return s, fmt.Errorf("%w: duplicate name %q", ErrInvalidSetup, n)
        }
        seen[n] = true
        names = append(names, n)
    }
    if s.FirstShuffler < 0 || s.FirstShuffler >= len(names) {
        return s, fmt.Errorf("%w: first shuffler out of range", ErrInvalidSetup)
    }
    s.PlayerNames = names
    return s, nil
}

func validateScores(g pool.GameState, scores map[string]int) error {
    active := pool.ActivePlayers(g.Players)
    if len(scores) != len(active) {
        return fmt.Errorf("%w: expected %d scores, got %d", ErrInvalidScores, len(active), len(scores))
    }
    for _, p := range active {
        s, ok := scores[p.ID]
        if !ok {
            return fmt.Errorf("%w: missing score for %s", ErrInvalidScores, p.Name)
        }
        if s < 0 {
            return fmt.Errorf("%w: negative score for %s", ErrInvalidScores, p.Name)
        }
        if s > MaxPoints-p.TotalScore {
            return fmt.Errorf("%w: score for %s exceeds %d total points", ErrInvalidScores, p.Name, MaxPoints)
        }
    }
    return nil
}

// requireStatus checks the player exists and is (or is not) active.
func requireStatus(g pool.GameState, playerID string, active bool) error {
    i := pool.FindPlayer(g.Players, playerID)
    if i < 0 {
        return ErrPlayerNotFound
    }
    isActive := g.Players[i].Status == pool.StatusActive
    if active && !isActive {
        return ErrPlayerNotActive
    }
    if !active && isActive {
        return ErrPlayerActive
    }
    return nil
}
