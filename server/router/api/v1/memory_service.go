package v1

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"

	"github.com/memorykeeper/memorykeeper/plugin/ai"
	"github.com/memorykeeper/memorykeeper/server/middleware"
	"github.com/memorykeeper/memorykeeper/server/service/memory"
	"github.com/memorykeeper/memorykeeper/store"
)

func (s *APIV1Service) registerMemoryRoutes(g *echo.Group, aiLimiter *middleware.RateLimiter) {
	g.GET("/memories", s.listMemories)
	g.GET("/memories/:id", s.getMemory)
	g.POST("/memories", s.createMemory, aiLimiter.Middleware())
	g.DELETE("/memories", s.deleteMemories)
	g.DELETE("/memories/:id", s.deleteMemory)
	g.POST("/memories/:id/image", s.regenerateImage, aiLimiter.Middleware())
	g.POST("/memories/:id/audio", s.regenerateAudio, aiLimiter.Middleware())
	g.GET("/prompt", s.dailyPrompt, aiLimiter.Middleware())
}

// MemoryResponse is one journal entry as the client sees it.
type MemoryResponse struct {
	ID        int32    `json:"id"`
	UID       string   `json:"uid"`
	CreatedTs int64    `json:"createdTs"`
	Content   string   `json:"content"`
	Snippet   string   `json:"snippet,omitempty"`
	HTML      string   `json:"html,omitempty"`
	Tags      []string `json:"tags"`
	Image     *string  `json:"image,omitempty"`
	Thumbnail *string  `json:"thumbnail,omitempty"`
	Audio     *string  `json:"audio,omitempty"`
}

func (s *APIV1Service) listMemories(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := s.currentUser(ctx, c)
	if err != nil {
		return err
	}

	find := &store.FindMemory{CreatorID: &user.ID}
	if tag := c.QueryParam("tag"); tag != "" {
		find.Tag = &tag
	}

	memories, err := s.Store.ListMemories(ctx, find)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list memories").SetInternal(err)
	}

	list := make([]*MemoryResponse, 0, len(memories))
	for _, m := range memories {
		resp := &MemoryResponse{
			ID:        m.ID,
			UID:       m.UID,
			CreatedTs: m.CreatedTs,
			Content:   m.Content,
			Snippet:   memory.Snippet(m.Content, 120),
			Tags:      m.Tags,
			Audio:     m.Audio,
		}
		if m.Image != nil {
			if thumb, err := s.Thumbnailer.Thumbnail(ctx, *m.Image); err == nil {
				resp.Thumbnail = &thumb
			} else {
				s.logger.Warn("thumbnail generation failed",
					slog.Int64("memory_id", int64(m.ID)),
					slog.String("error", err.Error()))
				resp.Thumbnail = m.Image
			}
		}
		list = append(list, resp)
	}
	return c.JSON(http.StatusOK, list)
}

func (s *APIV1Service) getMemory(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := parseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid memory id")
	}

	m, err := s.Store.GetMemory(ctx, &store.FindMemory{ID: &id})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get memory").SetInternal(err)
	}
	if m == nil {
		return echo.NewHTTPError(http.StatusNotFound, "memory not found")
	}

	html, err := s.Renderer.RenderHTML(m.Content)
	if err != nil {
		s.logger.Warn("markdown rendering failed",
			slog.Int64("memory_id", int64(m.ID)),
			slog.String("error", err.Error()))
	}
	return c.JSON(http.StatusOK, &MemoryResponse{
		ID:        m.ID,
		UID:       m.UID,
		CreatedTs: m.CreatedTs,
		Content:   m.Content,
		HTML:      html,
		Tags:      m.Tags,
		Image:     m.Image,
		Audio:     m.Audio,
	})
}

// CreateMemoryRequest is a new journal entry. Enrichment (art, narration)
// runs best-effort during the request; the entry is saved regardless.
type CreateMemoryRequest struct {
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

func (s *APIV1Service) createMemory(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := s.currentUser(ctx, c)
	if err != nil {
		return err
	}

	request := &CreateMemoryRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request").SetInternal(err)
	}
	if strings.TrimSpace(request.Content) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "content is required")
	}

	m := &store.Memory{
		UID:       shortuuid.New(),
		CreatorID: user.ID,
		Content:   request.Content,
		Tags:      request.Tags,
	}
	if s.AI != nil {
		m.Image, m.Audio = s.enrichMemory(ctx, user.ID, request.Content)
	}

	created, err := s.Store.CreateMemory(ctx, m)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create memory").SetInternal(err)
	}
	s.bumpStreak(ctx, user)
	return c.JSON(http.StatusOK, &MemoryResponse{
		ID:        created.ID,
		UID:       created.UID,
		CreatedTs: created.CreatedTs,
		Content:   created.Content,
		Tags:      created.Tags,
		Image:     created.Image,
		Audio:     created.Audio,
	})
}

// bumpStreak credits one journaling action. The longest streak follows the
// current one whenever it is overtaken. Failure only costs the streak, not
// the save.
func (s *APIV1Service) bumpStreak(ctx context.Context, user *store.User) {
	streak := user.Streak + 1
	update := &store.UpdateUser{ID: user.ID, Streak: &streak}
	if streak > user.LongestStreak {
		update.LongestStreak = &streak
	}
	if _, err := s.Store.UpdateUser(ctx, update); err != nil {
		s.logger.Warn("failed to update streak",
			slog.Int64("user_id", int64(user.ID)),
			slog.String("error", err.Error()))
	}
}

// enrichMemory generates art and narration for a new entry. Both calls are
// bounded by enrichTimeout and fail soft.
func (s *APIV1Service) enrichMemory(ctx context.Context, userID int32, content string) (image, audio *string) {
	enrichCtx, cancel := context.WithTimeout(ctx, enrichTimeout)
	defer cancel()

	start := time.Now()
	s.Metrics.RecordCall(ai.OperationImage)
	image = s.AI.GenerateMemoryImage(enrichCtx, content)
	s.Metrics.RecordDuration(ai.OperationImage, time.Since(start))
	if image == nil {
		s.Metrics.RecordFailure(ai.OperationImage)
	}

	start = time.Now()
	s.Metrics.RecordCall(ai.OperationSpeech)
	audio = s.AI.NarrateMemory(enrichCtx, content)
	s.Metrics.RecordDuration(ai.OperationSpeech, time.Since(start))
	if audio == nil {
		s.Metrics.RecordFailure(ai.OperationSpeech)
	}

	s.logger.Info("memory enriched",
		slog.Int64("user_id", int64(userID)),
		slog.Bool("has_image", image != nil),
		slog.Bool("has_audio", audio != nil))
	return image, audio
}

func (s *APIV1Service) deleteMemory(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := parseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid memory id")
	}
	if err := s.Store.DeleteMemory(ctx, &store.DeleteMemory{ID: id}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete memory").SetInternal(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteMemoriesRequest clears several journal entries at once.
type DeleteMemoriesRequest struct {
	IDs []int32 `json:"ids"`
}

func (s *APIV1Service) deleteMemories(c echo.Context) error {
	ctx := c.Request().Context()

	request := &DeleteMemoriesRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request").SetInternal(err)
	}
	if len(request.IDs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "ids is required")
	}

	for _, id := range request.IDs {
		if err := s.Store.DeleteMemory(ctx, &store.DeleteMemory{ID: id}); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete memory").SetInternal(err)
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// regenerateImage replaces a memory's art with a fresh generation.
func (s *APIV1Service) regenerateImage(c echo.Context) error {
	ctx := c.Request().Context()
	m, err := s.loadMemory(c)
	if err != nil {
		return err
	}
	if s.AI == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "no AI provider configured")
	}

	genCtx, cancel := context.WithTimeout(ctx, enrichTimeout)
	defer cancel()

	start := time.Now()
	s.Metrics.RecordCall(ai.OperationImage)
	image := s.AI.GenerateMemoryImage(genCtx, m.Content)
	s.Metrics.RecordDuration(ai.OperationImage, time.Since(start))
	if image == nil {
		s.Metrics.RecordFailure(ai.OperationImage)
		return echo.NewHTTPError(http.StatusServiceUnavailable, "image generation failed")
	}

	if err := s.Store.UpdateMemory(ctx, &store.UpdateMemory{ID: m.ID, Image: image}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update memory").SetInternal(err)
	}
	m.Image = image
	return c.JSON(http.StatusOK, &MemoryResponse{
		ID: m.ID, UID: m.UID, CreatedTs: m.CreatedTs, Content: m.Content,
		Tags: m.Tags, Image: m.Image, Audio: m.Audio,
	})
}

// regenerateAudio replaces a memory's narration.
func (s *APIV1Service) regenerateAudio(c echo.Context) error {
	ctx := c.Request().Context()
	m, err := s.loadMemory(c)
	if err != nil {
		return err
	}
	if s.AI == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "no AI provider configured")
	}

	genCtx, cancel := context.WithTimeout(ctx, enrichTimeout)
	defer cancel()

	start := time.Now()
	s.Metrics.RecordCall(ai.OperationSpeech)
	audio := s.AI.NarrateMemory(genCtx, m.Content)
	s.Metrics.RecordDuration(ai.OperationSpeech, time.Since(start))
	if audio == nil {
		s.Metrics.RecordFailure(ai.OperationSpeech)
		return echo.NewHTTPError(http.StatusServiceUnavailable, "narration failed")
	}

	if err := s.Store.UpdateMemory(ctx, &store.UpdateMemory{ID: m.ID, Audio: audio}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update memory").SetInternal(err)
	}
	m.Audio = audio
	return c.JSON(http.StatusOK, &MemoryResponse{
		ID: m.ID, UID: m.UID, CreatedTs: m.CreatedTs, Content: m.Content,
		Tags: m.Tags, Image: m.Image, Audio: m.Audio,
	})
}

func (s *APIV1Service) loadMemory(c echo.Context) (*store.Memory, error) {
	ctx := c.Request().Context()
	id, err := parseID(c.Param("id"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid memory id")
	}
	m, err := s.Store.GetMemory(ctx, &store.FindMemory{ID: &id})
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "failed to get memory").SetInternal(err)
	}
	if m == nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "memory not found")
	}
	return m, nil
}

// DailyPromptResponse carries today's reminiscence question.
type DailyPromptResponse struct {
	Prompt string `json:"prompt"`
}

func (s *APIV1Service) dailyPrompt(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := s.currentUser(ctx, c)
	if err != nil {
		return err
	}

	if s.AI == nil {
		return c.JSON(http.StatusOK, &DailyPromptResponse{Prompt: ai.FallbackDailyPrompt})
	}

	limit := 5
	recent, err := s.Store.ListMemories(ctx, &store.FindMemory{CreatorID: &user.ID, Limit: &limit})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list memories").SetInternal(err)
	}
	topics := make([]string, 0, len(recent))
	for _, m := range recent {
		topics = append(topics, memory.Snippet(m.Content, 60))
	}

	promptCtx, cancel := context.WithTimeout(ctx, enrichTimeout)
	defer cancel()

	start := time.Now()
	s.Metrics.RecordCall(ai.OperationPrompt)
	prompt := s.AI.DailyPrompt(promptCtx, topics)
	s.Metrics.RecordDuration(ai.OperationPrompt, time.Since(start))
	if prompt == ai.FallbackDailyPrompt {
		s.Metrics.RecordFailure(ai.OperationPrompt)
	}
	return c.JSON(http.StatusOK, &DailyPromptResponse{Prompt: prompt})
}
