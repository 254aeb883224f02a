// Package api exposes the game manager over HTTP.
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"github.com/kiliankoe/rummypool/internal/game"
	"github.com/kiliankoe/rummypool/internal/web"
	"github.com/rs/zerolog/log"
)

type Server struct {
	gm *game.Manager
}

func New(gm *game.Manager) *Server {
	return &Server{gm: gm}
}

// Router builds the gin engine with every route registered. Socket.IO is
// mounted separately by the caller.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})

	r.GET("/", func(c *gin.Context) {
		templ.Handler(web.Home()).ServeHTTP(c.Writer, c.Request)
	})
	r.GET("/games/:code", s.handleBoard)

	games := r.Group("/api/games")
	games.POST("", s.handleCreate)

	g := games.Group("/:code", requireCode())
	g.GET("", s.handleGet)
	g.POST("/rounds", s.handleSubmitRound)
	g.DELETE("/rounds/last", s.handleUndo)
	g.POST("/players", s.handleAddPlayer)
	g.GET("/players/:id/withdrawal", s.handleWithdrawalQuote)
	g.POST("/players/:id/withdraw", s.handleWithdraw)
	g.POST("/players/:id/rejoin", s.handleRejoin)
	g.POST("/finish", s.handleFinish)
	g.GET("/distribution", s.handleDistribution)

	return r
}

// requestLogger logs one line per request, skipping socket.io polling noise.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/socket.io") {
			return
		}
		ev := log.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("method", c.Request.Method).Str("path", path).Int("status", c.Writer.Status()).Dur("dur", time.Since(start)).Msg("http")
	}
}
