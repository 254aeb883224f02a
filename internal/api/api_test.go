package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/kiliankoe/rummypool/internal/game"
	"github.com/kiliankoe/rummypool/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter() *gin.Engine {
	return New(game.NewManager(store.NewMemory())).Router()
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dest); err != nil {
		t.Fatalf("invalid JSON %q: %v", rec.Body.String(), err)
	}
}

func createGame(t *testing.T, r http.Handler, names string) game.Snapshot {
	t.Helper()
	rec := do(t, r, http.MethodPost, "/api/games", `{"targetPoints":100,"amountPerPlayer":"10","playerNames":[`+names+`]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var snap game.Snapshot
	decode(t, rec, &snap)
	return snap
}

func TestHealth(t *testing.T) {
	rec := do(t, newRouter(), http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestCreateAndGet(t *testing.T) {
	r := newRouter()
	snap := createGame(t, r, `"Ada","Ben","Cleo"`)
	if snap.Game.TotalPool.String() != "30" {
		t.Fatalf("expected pool 30, got %s", snap.Game.TotalPool)
	}

	rec := do(t, r, http.MethodGet, "/api/games/"+snap.Game.GameID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got game.Snapshot
	decode(t, rec, &got)
	if len(got.Game.Players) != 3 {
		t.Fatalf("expected 3 players, got %d", len(got.Game.Players))
	}
}

func TestCreateValidation(t *testing.T) {
	r := newRouter()
	cases := map[string]string{
		"one player":  `{"targetPoints":100,"amountPerPlayer":"10","playerNames":["Ada"]}`,
		"no target":   `{"amountPerPlayer":"10","playerNames":["Ada","Ben"]}`,
		"no amount":   `{"targetPoints":100,"playerNames":["Ada","Ben"]}`,
		"duplicate":   `{"targetPoints":100,"amountPerPlayer":"10","playerNames":["Ada","Ada"]}`,
		"broken json": `{"targetPoints":`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(t, r, http.MethodPost, "/api/games", body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			var e map[string]string
			decode(t, rec, &e)
			if e["error"] == "" || e["message"] == "" {
				t.Fatalf("expected error and message, got %v", e)
			}
		})
	}
}

func TestGameCodes(t *testing.T) {
	r := newRouter()
	if rec := do(t, r, http.MethodGet, "/api/games/12a4", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed code, got %d", rec.Code)
	}
	if rec := do(t, r, http.MethodGet, "/api/games/12345", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for long code, got %d", rec.Code)
	}
	if rec := do(t, r, http.MethodGet, "/api/games/0000", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown game, got %d", rec.Code)
	}
}

func TestRoundFlow(t *testing.T) {
	r := newRouter()
	snap := createGame(t, r, `"Ada","Ben"`)
	base := "/api/games/" + snap.Game.GameID
	ada, ben := snap.Game.Players[0].ID, snap.Game.Players[1].ID

	rec := do(t, r, http.MethodPost, base+"/rounds", `{"scores":{"`+ada+`":5}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for incomplete scores, got %d", rec.Code)
	}

	rec = do(t, r, http.MethodPost, base+"/rounds", `{"scores":{"`+ada+`":5,"`+ben+`":20}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var res game.RoundResult
	decode(t, rec, &res)
	if len(res.Winners) != 1 || res.Winners[0] != ada {
		t.Fatalf("expected Ada to win, got %v", res.Winners)
	}

	rec = do(t, r, http.MethodDelete, base+"/rounds/last", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on undo, got %d", rec.Code)
	}
	rec = do(t, r, http.MethodDelete, base+"/rounds/last", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 with no rounds left, got %d", rec.Code)
	}
}

func TestPlayerFlow(t *testing.T) {
	r := newRouter()
	snap := createGame(t, r, `"Ada","Ben"`)
	base := "/api/games/" + snap.Game.GameID

	rec := do(t, r, http.MethodPost, base+"/players", `{"name":"Cleo"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var added struct {
		Player struct {
			ID string `json:"id"`
		} `json:"player"`
	}
	decode(t, rec, &added)
	cleo := added.Player.ID

	rec = do(t, r, http.MethodGet, base+"/players/"+cleo+"/withdrawal", "")
	var quote map[string]any
	decode(t, rec, &quote)
	if quote["payout"] != "7.50" {
		t.Fatalf("expected quote 7.50, got %v", quote["payout"])
	}

	rec = do(t, r, http.MethodPost, base+"/players/"+cleo+"/withdraw", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var withdrawn map[string]any
	decode(t, rec, &withdrawn)
	if withdrawn["payout"] != "7.50" {
		t.Fatalf("expected payout 7.50, got %v", withdrawn["payout"])
	}

	if rec := do(t, r, http.MethodPost, base+"/players/"+cleo+"/withdraw", ""); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on second withdraw, got %d", rec.Code)
	}
	if rec := do(t, r, http.MethodPost, base+"/players/nobody/rejoin", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown player, got %d", rec.Code)
	}
	if rec := do(t, r, http.MethodPost, base+"/players/"+cleo+"/rejoin", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on rejoin, got %d", rec.Code)
	}
}

func TestFinishAndDistribution(t *testing.T) {
	r := newRouter()
	snap := createGame(t, r, `"Ada","Ben"`)
	base := "/api/games/" + snap.Game.GameID

	if rec := do(t, r, http.MethodPost, base+"/finish", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec := do(t, r, http.MethodPost, base+"/players", `{"name":"Cleo"}`); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on finished game, got %d", rec.Code)
	}

	rec := do(t, r, http.MethodGet, base+"/distribution", "")
	var out struct {
		Payouts []struct {
			Amount string `json:"amount"`
		} `json:"payouts"`
	}
	decode(t, rec, &out)
	if len(out.Payouts) != 2 || out.Payouts[0].Amount != "10.0000" {
		t.Fatalf("expected two payouts of 10.0000, got %+v", out.Payouts)
	}
}

func TestViews(t *testing.T) {
	r := newRouter()
	if rec := do(t, r, http.MethodGet, "/", ""); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Rummy Pool") {
		t.Fatalf("expected home page, got %d", rec.Code)
	}
	snap := createGame(t, r, `"Ada","Ben"`)
	rec := do(t, r, http.MethodGet, "/games/"+snap.Game.GameID, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Pool 20.00") {
		t.Fatalf("expected board, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := do(t, r, http.MethodGet, "/games/0000", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown board, got %d", rec.Code)
	}
}

func TestLambdaHandler(t *testing.T) {
	h := ginadapter.New(newRouter()).ProxyWithContext
	resp, err := h(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Path:       "/api/games",
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       `{"targetPoints":50,"amountPerPlayer":"2.50","playerNames":["Ada","Ben"]}`,
	})
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, resp.Body)
	}
	ct := resp.MultiValueHeaders["Content-Type"]
	if len(ct) == 0 || !strings.HasPrefix(ct[0], "application/json") {
		t.Fatalf("expected JSON content type, got %v", ct)
	}
	var snap game.Snapshot
	if err := json.Unmarshal([]byte(resp.Body), &snap); err != nil {
		t.Fatalf("invalid JSON %q: %v", resp.Body, err)
	}

	resp, err = h(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodGet,
		Path:       "/api/games/" + snap.Game.GameID,
	})
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for created game, got %d: %v", resp.StatusCode, err)
	}

	if _, err := h(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:      http.MethodGet,
		Path:            "/health",
		Body:            "!!!",
		IsBase64Encoded: true,
	}); err == nil {
		t.Fatal("expected an error for an undecodable body")
	}
}
