package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"bowling-game/internal/logging"
	"bowling-game/internal/models"
	"bowling-game/internal/services"
)

const (
	CodeSuccess = 10000
	CodeError   = 99999
)

// Response is the envelope of every HTTP reply.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: CodeSuccess, Message: "OK", Data: data})
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).Errorw("request failed", "error", err)
		message = "Internal server error."
	}
	c.JSON(status, Response{Code: CodeError, Message: message})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidState),
		errors.Is(err, services.ErrInvalidTurn),
		errors.Is(err, services.ErrInsufficientPlayers),
		errors.Is(err, services.ErrCapacityExceeded):
		return http.StatusConflict
	case errors.Is(err, services.ErrPlayerNotInGame),
		errors.Is(err, services.ErrInvalidRoll),
		errors.Is(err, services.ErrInvalidFrame),
		errors.Is(err, services.ErrInvalidArgument):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) serverStatus(c *gin.Context) {
	respondOK(c, gin.H{"serverTime": time.Now()})
}

func (s *Server) createGame(c *gin.Context) {
	game, err := s.games.CreateGame(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, game)
}

func (s *Server) getGame(c *gin.Context) {
	game, err := s.games.GetGame(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, game)
}

func (s *Server) listGames(c *gin.Context) {
	state := models.GameState(strings.ToLower(c.Query("status")))
	games, err := s.games.ListGames(c.Request.Context(), state)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, games)
}

func (s *Server) startGame(c *gin.Context) {
	game, err := s.games.StartGame(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, game)
}

func (s *Server) addPlayer(c *gin.Context) {
	game, err := s.games.AddPlayer(c.Request.Context(), c.Param("id"), c.Query("player_name"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, game)
}

func (s *Server) addRollScores(c *gin.Context) {
	playerID := c.Query("player_id")
	if playerID == "" {
		respondError(c, &services.GameError{
			Err:     services.ErrInvalidArgument,
			GameID:  c.Param("id"),
			Message: "player_id is required.",
		})
		return
	}

	game, err := s.games.AddRollScores(c.Request.Context(), c.Param("id"), playerID, splitScores(c.QueryArray("scores")))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, game)
}

// splitScores accepts repeated values (scores=5&scores=/) and comma
// separated ones (scores=5,/).
func splitScores(values []string) []string {
	scores := []string{}
	for _, v := range values {
		for _, token := range strings.Split(v, ",") {
			if token = strings.TrimSpace(token); token != "" {
				scores = append(scores, token)
			}
		}
	}
	return scores
}
