// Package v1 exposes the REST API consumed by the web client.
package v1

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/memorykeeper/memorykeeper/internal/profile"
	"github.com/memorykeeper/memorykeeper/plugin/ai"
	"github.com/memorykeeper/memorykeeper/plugin/ai/generator"
	"github.com/memorykeeper/memorykeeper/server/internal/observability"
	"github.com/memorykeeper/memorykeeper/server/middleware"
	"github.com/memorykeeper/memorykeeper/server/service/game"
	"github.com/memorykeeper/memorykeeper/server/service/memory"
	"github.com/memorykeeper/memorykeeper/store"
)

// enrichTimeout bounds every external AI call made on behalf of a request.
const enrichTimeout = 60 * time.Second

// APIV1Service wires the REST handlers to the store and the AI plugin.
// The AI service is nil when the instance runs without an API key; every
// AI-backed path degrades gracefully in that case.
type APIV1Service struct {
	Profile *profile.Profile
	Store   *store.Store

	AI          *ai.OpenAIService
	Game        *game.Service
	Renderer    *memory.Renderer
	Thumbnailer *memory.Thumbnailer
	Metrics     *observability.Metrics

	logger *slog.Logger
}

func NewAPIV1Service(p *profile.Profile, st *store.Store, aiService *ai.OpenAIService, logger *slog.Logger) *APIV1Service {
	var gen game.ContentGenerator
	if aiService != nil {
		gen = generator.New(aiService, logger)
	} else {
		gen = disabledGenerator{}
	}

	return &APIV1Service{
		Profile:     p,
		Store:       st,
		AI:          aiService,
		Game:        game.NewService(st, gen, logger),
		Renderer:    memory.NewRenderer(),
		Thumbnailer: memory.NewThumbnailer(),
		Metrics:     observability.NewMetrics(1000),
		logger:      logger,
	}
}

// RegisterRoutes mounts all handlers under /api/v1.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	apiGroup := e.Group("/api/v1")

	// AI-backed endpoints get a tight per-IP budget; CRUD a loose one.
	crudLimiter := middleware.NewRateLimiter(time.Second/10, 20)
	aiLimiter := middleware.NewRateLimiter(2*time.Second, 5)
	apiGroup.Use(crudLimiter.Middleware())

	s.registerUserRoutes(apiGroup)
	s.registerMemoryRoutes(apiGroup, aiLimiter)
	s.registerGameRoutes(apiGroup, aiLimiter)
	s.registerChatRoutes(apiGroup, aiLimiter)
	s.registerFamilyRoutes(apiGroup)
	s.registerStatsRoutes(apiGroup)
}

// Close releases resources held by the handlers.
func (s *APIV1Service) Close() {
	s.Game.Close()
}

// currentUser resolves the acting keeper. The client may pass ?userId=; a
// single-keeper instance falls back to the only profile.
func (s *APIV1Service) currentUser(ctx context.Context, c echo.Context) (*store.User, error) {
	if raw := c.QueryParam("userId"); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid userId")
		}
		user, err := s.Store.GetUser(ctx, &store.FindUser{ID: &id})
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusInternalServerError, "failed to load user").SetInternal(err)
		}
		if user == nil {
			return nil, echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return user, nil
	}

	users, err := s.Store.ListUsers(ctx, &store.FindUser{})
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "failed to list users").SetInternal(err)
	}
	if len(users) == 0 {
		return nil, echo.NewHTTPError(http.StatusNotFound, "no user registered")
	}
	return users[0], nil
}

// disabledGenerator stands in when no AI provider is configured. Games
// cannot be generated, which surfaces as content unavailable.
type disabledGenerator struct{}

func (disabledGenerator) GeneratePairs(context.Context, []*store.Memory, int) ([]generator.MatchPair, error) {
	return nil, generator.ErrContentUnavailable
}

func (disabledGenerator) GenerateQuiz(context.Context, []*store.Memory, int) ([]generator.QuizQuestion, error) {
	return nil, generator.ErrContentUnavailable
}

func (disabledGenerator) GenerateTimeline(context.Context, []*store.Memory, int) ([]generator.TimelineEvent, error) {
	return nil, generator.ErrContentUnavailable
}
