package web

import (
    "context"
    "io"
    "strconv"
    "strings"

    "github.com/a-h/templ"
    "github.com/kiliankoe/rummypool/internal/game"
    "github.com/kiliankoe/rummypool/internal/pool"
    "github.com/shopspring/decimal"
)

// Board renders the live standings of one game. Shares and the pool use
// display precision, the final distribution uses payout precision.
func Board(snap game.Snapshot, payouts []pool.Payout) templ.Component {
    return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
        g := snap.Game
        var b strings.Builder

        b.WriteString(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Rummy Pool ` + templ.EscapeString(g.GameID) + `</title>
` + styles + `
  </head>
  <body>
    <main class="shell" data-game="` + templ.EscapeString(g.GameID) + `">
      <header class="hero">
        <span class="tag">Game ` + templ.EscapeString(g.GameID) + `</span>
        <h1>Pool ` + pool.FormatMoney(g.TotalPool) + `</h1>
        <p>Target ` + itoa(g.TargetPoints) + ` points, entry ` + pool.FormatMoney(g.AmountPerPlayer) + `, round ` + itoa(len(g.Rounds)+1) + `</p>
`)
        if g.IsFinished {
            b.WriteString(`        <p class="finished">Game finished</p>
`)
        } else if name := playerName(g.Players, snap.CurrentShufflerID); name != "" {
            b.WriteString(`        <p>Shuffling: ` + templ.EscapeString(name) + `</p>
`)
        }
        b.WriteString(`      </header>

      <section class="panel">
        <h2>Standings</h2>
        <table>
          <thead><tr><th>Player</th><th>Points</th><th>Share</th><th>Stake</th><th>Status</th></tr></thead>
          <tbody>
`)
        leaders := make(map[string]bool, len(snap.Leaders))
        for _, id := range snap.Leaders {
            leaders[id] = true
        }
        for _, p := range g.Players {
            class := string(p.Status)
            if leaders[p.ID] {
                class += " leader"
            }
            stake := decimal.NewFromFloat(p.CurrentShare).Mul(g.TotalPool)
            b.WriteString(`            <tr class="` + class + `"><td>` + templ.EscapeString(p.Name) + `</td><td>` + itoa(p.TotalScore) + `</td><td>` + percent(p.CurrentShare) + `</td><td>` + pool.FormatMoney(stake) + `</td><td>` + string(p.Status) + `</td></tr>
`)
        }
        b.WriteString(`          </tbody>
        </table>
      </section>
`)

        if len(g.Rounds) > 0 {
            b.WriteString(`
      <section class="panel">
        <h2>Rounds</h2>
        <table>
          <thead><tr><th>#</th>`)
            for _, p := range g.Players {
                b.WriteString(`<th>` + templ.EscapeString(p.Name) + `</th>`)
            }
            b.WriteString(`</tr></thead>
          <tbody>
`)
            for i := len(g.Rounds) - 1; i >= 0; i-- {
                r := g.Rounds[i]
                b.WriteString(`            <tr><td>` + itoa(r.RoundNumber) + `</td>`)
                for _, p := range g.Players {
                    if s, ok := r.Scores[p.ID]; ok {
                        b.WriteString(`<td>` + itoa(s) + `</td>`)
                    } else {
                        b.WriteString(`<td></td>`)
                    }
                }
                b.WriteString(`</tr>
`)
            }
            b.WriteString(`          </tbody>
        </table>
      </section>
`)
        }

        if g.IsFinished && len(payouts) > 0 {
            b.WriteString(`
      <section class="panel">
        <h2>Final distribution</h2>
        <table>
          <tbody>
`)
            for _, line := range payouts {
                if line.Status != pool.StatusActive {
                    continue
                }
                b.WriteString(`            <tr><td>` + templ.EscapeString(line.Name) + `</td><td>` + line.Display() + `</td></tr>
`)
            }
            b.WriteString(`          </tbody>
        </table>
      </section>
`)
        }

        b.WriteString(`    </main>

    <script src="https://cdn.socket.io/4.7.5/socket.io.min.js"></script>
    <script>
      const code = document.querySelector("main").dataset.game;
      const socket = io();
      socket.on("connect", () => socket.emit("game:watch", { gameId: code }));
      let seen = null;
      socket.on("game:state", (snap) => {
        const rounds = snap.game.rounds.length + ":" + snap.game.isFinished + ":" + snap.game.totalPool;
        if (seen !== null && seen !== rounds) {
          window.location.reload();
        }
        seen = rounds;
      });
    </script>
  </body>
</html>
`)
        _, err := io.WriteString(w, b.String())
        return err
    })
}

// NotFound is shown for codes that do not belong to a game.
func NotFound(code string) templ.Component {
    return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
        _, err := io.WriteString(w, `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <title>Rummy Pool</title>
`+styles+`
  </head>
  <body>
    <main class="shell">
      <section class="panel">
        <h2>No game `+templ.EscapeString(code)+`</h2>
        <p><a href="/">Back to the start page</a></p>
      </section>
    </main>
  </body>
</html>
`)
        return err
    })
}

func itoa(value int) string {
    return strconv.Itoa(value)
}

func percent(share float64) string {
    return strconv.FormatFloat(share*100, 'f', pool.DisplayPlaces, 64) + "%"
}

func playerName(players []pool.Player, id string) string {
    if i := pool.FindPlayer(players, id); i >= 0 {
        return players[i].Name
    }
    return ""
}
