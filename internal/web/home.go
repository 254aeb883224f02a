package web

import (
    "context"
    "io"

    "github.com/a-h/templ"
)

// Home lets a scorekeeper start a game or open an existing board.
func Home() templ.Component {
    return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
        _, err := io.WriteString(w, `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Rummy Pool</title>
`+styles+`
  </head>
  <body>
    <main class="shell">
      <header class="hero">
        <span class="tag">Rummy Pool</span>
        <h1>Lowest score takes the biggest slice.</h1>
        <p>Track rounds, eliminations and everyone's share of the pot.</p>
      </header>

      <section class="panel">
        <h2>New game</h2>
        <form id="createForm">
          <label>Target points <input name="targetPoints" type="number" min="1" value="101" required/></label>
          <label>Entry per player <input name="amountPerPlayer" type="number" min="0.01" step="0.01" value="5" required/></label>
          <label>Players, one per line <textarea name="players" rows="4" required></textarea></label>
          <button type="submit" class="primary">Start game</button>
        </form>
        <div id="createResult" class="result"></div>
      </section>

      <section class="panel">
        <h2>Open a board</h2>
        <form id="openForm">
          <input name="code" placeholder="4 digit game code" pattern="[0-9]{4}" autocomplete="off" required/>
          <button type="submit" class="secondary">Open</button>
        </form>
      </section>
    </main>

    <script>
      const createForm = document.getElementById("createForm");
      const createResult = document.getElementById("createResult");

      createForm.addEventListener("submit", async (event) => {
        event.preventDefault();
        createResult.textContent = "Creating game...";
        const names = createForm.elements.players.value.split("\n").map((n) => n.trim()).filter(Boolean);
        const res = await fetch("/api/games", {
          method: "POST",
          headers: { "Content-Type": "application/json" },
          body: JSON.stringify({
            targetPoints: Number(createForm.elements.targetPoints.value),
            amountPerPlayer: createForm.elements.amountPerPlayer.value,
            playerNames: names
          })
        });
        const data = await res.json();
        if (!res.ok) {
          createResult.textContent = data.message || data.error || "Failed to create game.";
          return;
        }
        window.location.href = "/games/" + data.game.gameId;
      });

      document.getElementById("openForm").addEventListener("submit", (event) => {
        event.preventDefault();
        const code = event.target.elements.code.value.trim();
        window.location.href = "/games/" + encodeURIComponent(code);
      });
    </script>
  </body>
</html>
`)
        return err
    })
}

const styles = `    <style>
      body { font-family: system-ui, sans-serif; margin: 0; background: #f4f1ea; color: #222; }
      .shell { max-width: 720px; margin: 0 auto; padding: 2rem 1rem; }
      .tag { text-transform: uppercase; letter-spacing: .1em; font-size: .8rem; color: #8a5a00; }
      .panel { background: #fff; border-radius: 8px; padding: 1rem 1.5rem; margin-top: 1.5rem; }
      label { display: block; margin: .5rem 0; }
      table { width: 100%; border-collapse: collapse; }
      th, td { text-align: left; padding: .4rem; border-bottom: 1px solid #eee; }
      .eliminated, .withdrawn { color: #999; }
      .leader { font-weight: bold; }
      .finished { color: #2b7a0b; }
    </style>`
