package api

import (
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"github.com/kiliankoe/rummypool/internal/game"
	"github.com/kiliankoe/rummypool/internal/pool"
	"github.com/kiliankoe/rummypool/internal/web"
	"github.com/shopspring/decimal"
)

type createRequest struct {
	TargetPoints    int             `json:"targetPoints" binding:"required,gt=0"`
	AmountPerPlayer decimal.Decimal `json:"amountPerPlayer"`
	PlayerNames     []string        `json:"playerNames" binding:"required,min=2,max=9"`
	FirstShuffler   int             `json:"firstShuffler" binding:"gte=0"`
}

var createMessages = bindMessages{
	"TargetPoints":  {"required": "target points are required", "gt": "target points must be positive"},
	"PlayerNames":   {"required": "players are required", "min": "at least 2 players are required", "max": "at most 9 players are allowed"},
	"FirstShuffler": {"gte": "first shuffler must not be negative"},
}

type roundRequest struct {
	Scores map[string]int `json:"scores" binding:"required"`
}

type playerRequest struct {
	Name string `json:"name" binding:"required"`
}

type payoutLine struct {
	PlayerID string      `json:"playerId"`
	Name     string      `json:"name"`
	Status   pool.Status `json:"status"`
	Share    float64     `json:"share"`
	Amount   string      `json:"amount"`
}

func (s *Server) handleCreate(c *gin.Context) {
	var req createRequest
	if !bindJSON(c, &req, createMessages) {
		return
	}
	snap, err := s.gm.Create(c.Request.Context(), pool.Setup{
		TargetPoints:    req.TargetPoints,
		AmountPerPlayer: req.AmountPerPlayer,
		PlayerNames:     req.PlayerNames,
		FirstShuffler:   req.FirstShuffler,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, snap)
}

func (s *Server) handleGet(c *gin.Context) {
	snap, err := s.gm.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) handleSubmitRound(c *gin.Context) {
	var req roundRequest
	if !bindJSON(c, &req, bindMessages{"Scores": {"required": "scores are required"}}) {
		return
	}
	res, err := s.gm.SubmitRound(c.Request.Context(), c.Param("code"), req.Scores)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleUndo(c *gin.Context) {
	snap, err := s.gm.Undo(c.Request.Context(), c.Param("code"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) handleAddPlayer(c *gin.Context) {
	var req playerRequest
	if !bindJSON(c, &req, bindMessages{"Name": {"required": "name is required"}}) {
		return
	}
	snap, p, err := s.gm.AddPlayer(c.Request.Context(), c.Param("code"), req.Name)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"player": p, "game": snap})
}

func (s *Server) handleWithdrawalQuote(c *gin.Context) {
	payout, err := s.gm.WithdrawalQuote(c.Request.Context(), c.Param("code"), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"playerId": c.Param("id"), "payout": pool.FormatMoney(payout), "keep": pool.WithdrawalKeep})
}

func (s *Server) handleWithdraw(c *gin.Context) {
	snap, payout, err := s.gm.Withdraw(c.Request.Context(), c.Param("code"), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payout": pool.FormatMoney(payout), "game": snap})
}

func (s *Server) handleRejoin(c *gin.Context) {
	snap, err := s.gm.Rejoin(c.Request.Context(), c.Param("code"), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) handleFinish(c *gin.Context) {
	snap, err := s.gm.Finish(c.Request.Context(), c.Param("code"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) handleDistribution(c *gin.Context) {
	payouts, err := s.gm.Distribution(c.Request.Context(), c.Param("code"))
	if err != nil {
		fail(c, err)
		return
	}
	lines := make([]payoutLine, 0, len(payouts))
	for _, p := range payouts {
		lines = append(lines, payoutLine{
			PlayerID: p.PlayerID,
			Name:     p.Name,
			Status:   p.Status,
			Share:    p.Share,
			Amount:   p.Display(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"payouts": lines})
}

func (s *Server) handleBoard(c *gin.Context) {
	code := c.Param("code")
	if !codePattern.MatchString(code) {
		templ.Handler(web.NotFound(code), templ.WithStatus(http.StatusNotFound)).ServeHTTP(c.Writer, c.Request)
		return
	}
	snap, err := s.gm.Get(c.Request.Context(), code)
	if errors.Is(err, game.ErrGameNotFound) {
		templ.Handler(web.NotFound(code), templ.WithStatus(http.StatusNotFound)).ServeHTTP(c.Writer, c.Request)
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	var payouts []pool.Payout
	if snap.Game.IsFinished {
		payouts = pool.Distribution(snap.Game)
	}
	templ.Handler(web.Board(snap, payouts)).ServeHTTP(c.Writer, c.Request)
}
