package api

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/kiliankoe/rummypool/internal/game"
	"github.com/rs/zerolog/log"
)

var codePattern = regexp.MustCompile(`^[0-9]{4}$`)

type apiError struct {
	status int
	code   string
}

var errorTable = []struct {
	err error
	apiError
}{
	{game.ErrGameNotFound, apiError{http.StatusNotFound, "game_not_found"}},
	{game.ErrPlayerNotFound, apiError{http.StatusNotFound, "player_not_found"}},
	{game.ErrInvalidSetup, apiError{http.StatusBadRequest, "invalid_setup"}},
	{game.ErrInvalidScores, apiError{http.StatusBadRequest, "invalid_scores"}},
	{game.ErrInvalidName, apiError{http.StatusBadRequest, "invalid_name"}},
	{game.ErrGameFinished, apiError{http.StatusConflict, "game_finished"}},
	{game.ErrPlayerNotActive, apiError{http.StatusConflict, "player_not_active"}},
	{game.ErrPlayerActive, apiError{http.StatusConflict, "player_active"}},
	{game.ErrNoRounds, apiError{http.StatusConflict, "no_rounds"}},
}

func writeError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": code, "message": message})
}

// fail maps a manager error to its status. Unknown errors are logged and
// reported as internal.
func fail(c *gin.Context, err error) {
	for _, e := range errorTable {
		if errors.Is(err, e.err) {
			writeError(c, e.status, e.code, err.Error())
			return
		}
	}
	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	writeError(c, http.StatusInternalServerError, "internal", "internal error")
}

type bindMessages map[string]map[string]string

func bindJSON(c *gin.Context, req any, messages bindMessages) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", resolveBindError(err, messages))
		return false
	}
	return true
}

func resolveBindError(err error, messages bindMessages) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, verr := range verrs {
			if fieldMsgs, ok := messages[verr.Field()]; ok {
				if msg, ok := fieldMsgs[verr.Tag()]; ok {
					return msg
				}
			}
		}
	}
	return "invalid request body"
}

func requireCode() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !codePattern.MatchString(c.Param("code")) {
			writeError(c, http.StatusBadRequest, "invalid_code", "game code must be 4 digits")
			return
		}
		c.Next()
	}
}
