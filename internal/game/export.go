package game

import (
    "fmt"
    "os"
    "path/filepath"
    "sort"
    "strings"
    "time"

    "github.com/kiliankoe/rummypool/internal/pool"
)

// ExportRound appends the latest round of g to a plain text ledger. The
// first round of a game also writes a header with the seating. When the
// round finished the game the final distribution follows.
func ExportRound(filename string, g pool.GameState) error {
    if len(g.Rounds) == 0 {
        return nil
    }
    var sb strings.Builder

    round := g.Rounds[len(g.Rounds)-1]
    if round.RoundNumber == 1 {
        writeHeader(&sb, g)
    }

    sb.WriteString(fmt.Sprintf("Round %d (shuffled by %s)\n", round.RoundNumber, playerName(g, round.ShufflerID)))
    sb.WriteString(strings.Repeat("-", 40) + "\n")
    for _, p := range g.Players {
        s, ok := round.Scores[p.ID]
        if !ok {
            continue
        }
        sb.WriteString(fmt.Sprintf("- %s: +%d\n", p.Name, s))
    }

    winners := pool.RoundWinners(round.Scores)
    names := make([]string, 0, len(winners))
    for _, id := range winners {
        names = append(names, playerName(g, id))
    }
    if len(names) > 0 {
        sb.WriteString(fmt.Sprintf("\nRound won by: %s\n", strings.Join(names, ", ")))
    }

    writeStandings(&sb, g)
    sb.WriteString("\n")

    if g.IsFinished {
        writeDistribution(&sb, g)
    }
    return appendTo(filename, sb.String())
}

// ExportFinal appends only the final distribution, for games finished by hand.
func ExportFinal(filename string, g pool.GameState) error {
    var sb strings.Builder
    if len(g.Rounds) == 0 {
        writeHeader(&sb, g)
    }
    writeDistribution(&sb, g)
    return appendTo(filename, sb.String())
}

func writeHeader(sb *strings.Builder, g pool.GameState) {
    sb.WriteString(fmt.Sprintf("\nRummy Pool - Game %s\n", g.GameID))
    sb.WriteString(fmt.Sprintf("Started: %s\n", g.CreatedAt.Format("2006-01-02 15:04:05")))
    sb.WriteString(fmt.Sprintf("Target: %d points, entry %s\n", g.TargetPoints, pool.FormatMoney(g.AmountPerPlayer)))
    sb.WriteString(strings.Repeat("=", 50) + "\n\n")
    sb.WriteString("Players:\n")
    for _, p := range g.Players {
        sb.WriteString(fmt.Sprintf("- %s\n", p.Name))
    }
    sb.WriteString("\n")
}

func writeStandings(sb *strings.Builder, g pool.GameState) {
    sb.WriteString(fmt.Sprintf("\nStandings (pool %s):\n", pool.FormatMoney(g.TotalPool)))
    players := make([]pool.Player, len(g.Players))
    copy(players, g.Players)
    sort.SliceStable(players, func(i, j int) bool {
        return players[i].TotalScore < players[j].TotalScore
    })
    for _, p := range players {
        if p.Status != pool.StatusActive {
            sb.WriteString(fmt.Sprintf("- %s: %d points (%s)\n", p.Name, p.TotalScore, p.Status))
            continue
        }
        sb.WriteString(fmt.Sprintf("- %s: %d points, %.2f%% of the pool\n", p.Name, p.TotalScore, p.CurrentShare*100))
    }
}

func writeDistribution(sb *strings.Builder, g pool.GameState) {
    sb.WriteString("Final distribution:\n")
    for _, line := range pool.Distribution(g) {
        if line.Status != pool.StatusActive {
            continue
        }
        sb.WriteString(fmt.Sprintf("- %s: %s\n", line.Name, line.Display()))
    }
    sb.WriteString(fmt.Sprintf("Game ended at %s\n", time.Now().Format("2006-01-02 15:04:05")))
    sb.WriteString(strings.Repeat("=", 50) + "\n")
}

func playerName(g pool.GameState, id string) string {
    if i := pool.FindPlayer(g.Players, id); i >= 0 {
        return g.Players[i].Name
    }
    return "Unknown"
}

func appendTo(filename, content string) error {
    dir := filepath.Dir(filename)
    if err := os.MkdirAll(dir, 0755); err != nil {
        return fmt.Errorf("failed to create directory: %w", err)
    }
    file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
    if err != nil {
        return fmt.Errorf("failed to open file: %w", err)
    }
    defer file.Close()
    if _, err := file.WriteString(content); err != nil {
        return fmt.Errorf("failed to write to file: %w", err)
    }
    return nil
}
