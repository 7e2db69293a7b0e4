package v1

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/memorykeeper/memorykeeper/plugin/ai"
	"github.com/memorykeeper/memorykeeper/plugin/ai/generator"
	"github.com/memorykeeper/memorykeeper/server/middleware"
	"github.com/memorykeeper/memorykeeper/server/service/game"
	"github.com/memorykeeper/memorykeeper/store"
)

func (s *APIV1Service) registerGameRoutes(g *echo.Group, aiLimiter *middleware.RateLimiter) {
	g.POST("/games", s.startGame, aiLimiter.Middleware())
	g.GET("/games/:id", s.getGame)
	g.POST("/games/:id/complete", s.completeGame)

	g.POST("/games/:id/cards/:index", s.selectCard)
	g.POST("/games/:id/hint", s.gameHint)

	g.GET("/games/:id/question", s.currentQuestion)
	g.POST("/games/:id/answer", s.answerQuestion)
	g.POST("/games/:id/next", s.nextQuestion)

	g.POST("/games/:id/swap", s.swapEvents)
	g.POST("/games/:id/check", s.checkOrder)

	g.GET("/game-results", s.listGameResults)
}

// StartGameRequest selects which mini-game to play. Difficulty is chosen by
// the server from the keeper's memory strength.
type StartGameRequest struct {
	GameType string `json:"gameType"`
}

// GameSessionResponse describes a live session.
type GameSessionResponse struct {
	ID         string `json:"id"`
	GameType   string `json:"gameType"`
	Difficulty string `json:"difficulty"`
	Degenerate bool   `json:"degenerate"`

	Cards  []game.Card               `json:"cards,omitempty"`
	Events []generator.TimelineEvent `json:"events,omitempty"`
}

func (s *APIV1Service) toSessionResponse(session *game.Session) *GameSessionResponse {
	resp := &GameSessionResponse{
		ID:         session.ID,
		GameType:   string(session.Type),
		Difficulty: string(session.Difficulty),
		Degenerate: session.Degenerate,
	}
	if cards, err := s.Game.SnapshotCards(session.ID); err == nil {
		resp.Cards = cards
	}
	if events, err := s.Game.SnapshotOrder(session.ID); err == nil {
		resp.Events = events
	}
	return resp
}

func (s *APIV1Service) startGame(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := s.currentUser(ctx, c)
	if err != nil {
		return err
	}

	request := &StartGameRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request").SetInternal(err)
	}

	start := time.Now()
	s.Metrics.RecordCall(ai.OperationGeneration)
	session, err := s.Game.StartSession(ctx, user.ID, game.GameType(request.GameType))
	s.Metrics.RecordDuration(ai.OperationGeneration, time.Since(start))
	if errors.Is(err, generator.ErrContentUnavailable) {
		s.Metrics.RecordFailure(ai.OperationGeneration)
		return echo.NewHTTPError(http.StatusServiceUnavailable, "game content is unavailable right now")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to start game").SetInternal(err)
	}
	return c.JSON(http.StatusOK, s.toSessionResponse(session))
}

func (s *APIV1Service) getGame(c echo.Context) error {
	session, err := s.Game.GetSession(c.Param("id"))
	if err != nil {
		return gameError(err)
	}
	return c.JSON(http.StatusOK, s.toSessionResponse(session))
}

func (s *APIV1Service) selectCard(c echo.Context) error {
	index, err := parseID(c.Param("index"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid card index")
	}
	outcome, err := s.Game.SelectCard(c.Param("id"), int(index))
	if err != nil {
		return gameError(err)
	}
	return c.JSON(http.StatusOK, outcome)
}

// gameHint dispatches to the session's game type.
func (s *APIV1Service) gameHint(c echo.Context) error {
	session, err := s.Game.GetSession(c.Param("id"))
	if err != nil {
		return gameError(err)
	}

	switch session.Type {
	case game.GameTypeMatch:
		hint, err := s.Game.MatchHint(session.ID)
		if err != nil {
			return gameError(err)
		}
		return c.JSON(http.StatusOK, hint)
	case game.GameTypeQuiz:
		hidden, err := s.Game.QuizHint(session.ID)
		if err != nil {
			return gameError(err)
		}
		return c.JSON(http.StatusOK, map[string]string{"hiddenOption": hidden})
	case game.GameTypeTimeline:
		hint, err := s.Game.TimelineHint(session.ID)
		if err != nil {
			return gameError(err)
		}
		return c.JSON(http.StatusOK, hint)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "unknown game type")
}

// QuestionResponse is the active quiz question.
type QuestionResponse struct {
	Index    int      `json:"index"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

func (s *APIV1Service) currentQuestion(c echo.Context) error {
	question, index, err := s.Game.CurrentQuestion(c.Param("id"))
	if err != nil {
		return gameError(err)
	}
	return c.JSON(http.StatusOK, &QuestionResponse{
		Index:    index,
		Question: question.Question,
		Options:  question.Options,
	})
}

// AnswerRequest locks in an option.
type AnswerRequest struct {
	Option string `json:"option"`
}

func (s *APIV1Service) answerQuestion(c echo.Context) error {
	request := &AnswerRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request").SetInternal(err)
	}
	answer, err := s.Game.AnswerQuestion(c.Param("id"), request.Option)
	if err != nil {
		return gameError(err)
	}
	return c.JSON(http.StatusOK, answer)
}

func (s *APIV1Service) nextQuestion(c echo.Context) error {
	if err := s.Game.NextQuestion(c.Param("id")); err != nil {
		return gameError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SwapRequest swaps the event at Index with an adjacent position.
type SwapRequest struct {
	Index     int `json:"index"`
	Direction int `json:"direction"`
}

func (s *APIV1Service) swapEvents(c echo.Context) error {
	request := &SwapRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request").SetInternal(err)
	}
	order, err := s.Game.SwapEvents(c.Param("id"), request.Index, request.Direction)
	if err != nil {
		return gameError(err)
	}
	return c.JSON(http.StatusOK, order)
}

func (s *APIV1Service) checkOrder(c echo.Context) error {
	if err := s.Game.CheckOrder(c.Param("id")); err != nil {
		return gameError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GameResultResponse is the persisted outcome of a completed session.
type GameResultResponse struct {
	SessionID      string `json:"sessionId"`
	GameType       string `json:"gameType"`
	Difficulty     string `json:"difficulty"`
	Score          int32  `json:"score"`
	StrengthBefore int32  `json:"strengthBefore"`
	StrengthAfter  int32  `json:"strengthAfter"`
	Degenerate     bool   `json:"degenerate"`
	CreatedTs      int64  `json:"createdTs"`
}

func toGameResultResponse(result *store.GameResult) *GameResultResponse {
	return &GameResultResponse{
		SessionID:      result.SessionID,
		GameType:       result.GameType,
		Difficulty:     result.Difficulty,
		Score:          result.Score,
		StrengthBefore: result.StrengthBefore,
		StrengthAfter:  result.StrengthAfter,
		Degenerate:     result.Degenerate,
		CreatedTs:      result.CreatedTs,
	}
}

func (s *APIV1Service) completeGame(c echo.Context) error {
	ctx := c.Request().Context()
	result, err := s.Game.CompleteSession(ctx, c.Param("id"))
	if err != nil {
		return gameError(err)
	}
	return c.JSON(http.StatusOK, toGameResultResponse(result))
}

func (s *APIV1Service) listGameResults(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := s.currentUser(ctx, c)
	if err != nil {
		return err
	}

	results, err := s.Store.ListGameResults(ctx, &store.FindGameResult{UserID: &user.ID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list game results").SetInternal(err)
	}
	list := make([]*GameResultResponse, 0, len(results))
	for _, r := range results {
		list = append(list, toGameResultResponse(r))
	}
	return c.JSON(http.StatusOK, list)
}

// gameError maps game service errors onto HTTP statuses.
func gameError(err error) error {
	switch {
	case errors.Is(err, game.ErrSessionNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "game session not found")
	case errors.Is(err, game.ErrSessionNotFinished):
		return echo.NewHTTPError(http.StatusConflict, "game session not finished")
	case errors.Is(err, game.ErrWrongGameType):
		return echo.NewHTTPError(http.StatusBadRequest, "operation does not match the game type")
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}
