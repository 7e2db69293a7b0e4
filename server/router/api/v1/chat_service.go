package v1

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"

	"github.com/memorykeeper/memorykeeper/plugin/ai"
	"github.com/memorykeeper/memorykeeper/server/internal/observability"
	"github.com/memorykeeper/memorykeeper/server/middleware"
	"github.com/memorykeeper/memorykeeper/store"
)

func (s *APIV1Service) registerChatRoutes(g *echo.Group, aiLimiter *middleware.RateLimiter) {
	g.GET("/chat/messages", s.listChatMessages)
	g.POST("/chat/messages", s.createChatMessage, aiLimiter.Middleware())
	g.PATCH("/chat/messages/:id", s.updateChatMessage)
	g.DELETE("/chat/messages/:id", s.deleteChatMessage)
	g.POST("/chat/messages/:id/save-to-memory", s.saveChatMessageToMemory)
}

// ChatMessageResponse is one entry of the family feed.
type ChatMessageResponse struct {
	ID           int32               `json:"id"`
	UID          string              `json:"uid"`
	CreatedTs    int64               `json:"createdTs"`
	SenderName   string              `json:"senderName"`
	SenderAvatar string              `json:"senderAvatar"`
	Text         *string             `json:"text,omitempty"`
	ImageURL     *string             `json:"imageUrl,omitempty"`
	Reactions    map[string][]string `json:"reactions"`
	Edited       bool                `json:"edited"`
}

func toChatMessageResponse(m *store.ChatMessage) *ChatMessageResponse {
	return &ChatMessageResponse{
		ID:           m.ID,
		UID:          m.UID,
		CreatedTs:    m.CreatedTs,
		SenderName:   m.SenderName,
		SenderAvatar: m.SenderAvatar,
		Text:         m.Text,
		ImageURL:     m.ImageURL,
		Reactions:    m.Reactions,
		Edited:       m.Edited,
	}
}

func (s *APIV1Service) listChatMessages(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := s.currentUser(ctx, c)
	if err != nil {
		return err
	}

	messages, err := s.Store.ListChatMessages(ctx, &store.FindChatMessage{OwnerID: &user.ID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list chat messages").SetInternal(err)
	}
	list := make([]*ChatMessageResponse, 0, len(messages))
	for _, m := range messages {
		list = append(list, toChatMessageResponse(m))
	}
	return c.JSON(http.StatusOK, list)
}

// CreateChatMessageRequest posts text, a photo, or both. A photo without
// text gets an AI scrapbook caption when a provider is configured.
type CreateChatMessageRequest struct {
	SenderName   string  `json:"senderName"`
	SenderAvatar string  `json:"senderAvatar"`
	Text         *string `json:"text"`
	ImageURL     *string `json:"imageUrl"`
}

func (s *APIV1Service) createChatMessage(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := s.currentUser(ctx, c)
	if err != nil {
		return err
	}

	request := &CreateChatMessageRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request").SetInternal(err)
	}
	if request.Text == nil && request.ImageURL == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "text or imageUrl is required")
	}
	if request.SenderName == "" {
		request.SenderName = user.Name
	}

	text := request.Text
	if text == nil && request.ImageURL != nil && s.AI != nil {
		if caption := s.captionPhoto(ctx, user.ID, *request.ImageURL); caption != "" {
			text = &caption
		}
	}

	created, err := s.Store.CreateChatMessage(ctx, &store.ChatMessage{
		UID:          shortuuid.New(),
		OwnerID:      user.ID,
		SenderName:   request.SenderName,
		SenderAvatar: request.SenderAvatar,
		Text:         text,
		ImageURL:     request.ImageURL,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create chat message").SetInternal(err)
	}
	return c.JSON(http.StatusOK, toChatMessageResponse(created))
}

// captionPhoto asks the vision model for a caption. Failure leaves the
// photo uncaptioned.
func (s *APIV1Service) captionPhoto(ctx context.Context, userID int32, imageURL string) string {
	reqCtx := observability.NewRequestContext(s.logger, ai.OperationCaption, userID)
	captionCtx, cancel := context.WithTimeout(ctx, enrichTimeout)
	defer cancel()

	start := time.Now()
	s.Metrics.RecordCall(ai.OperationCaption)
	caption, err := s.AI.CaptionImage(captionCtx, imageURL)
	s.Metrics.RecordDuration(ai.OperationCaption, time.Since(start))
	if err != nil {
		s.Metrics.RecordFailure(ai.OperationCaption)
		reqCtx.Warn("caption generation failed", slog.String("error", err.Error()))
		return ""
	}
	reqCtx.Info("photo captioned", slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))
	return caption
}

// UpdateChatMessageRequest edits text or toggles reactions.
type UpdateChatMessageRequest struct {
	Text      *string             `json:"text"`
	Reactions map[string][]string `json:"reactions"`
}

func (s *APIV1Service) updateChatMessage(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := parseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid message id")
	}

	request := &UpdateChatMessageRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request").SetInternal(err)
	}

	update := &store.UpdateChatMessage{ID: id, Reactions: request.Reactions}
	if request.Text != nil {
		update.Text = request.Text
		edited := true
		update.Edited = &edited
	}

	updated, err := s.Store.UpdateChatMessage(ctx, update)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update chat message").SetInternal(err)
	}
	return c.JSON(http.StatusOK, toChatMessageResponse(updated))
}

func (s *APIV1Service) deleteChatMessage(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := parseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid message id")
	}
	if err := s.Store.DeleteChatMessage(ctx, &store.DeleteChatMessage{ID: id}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete chat message").SetInternal(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// saveChatMessageToMemory turns a captioned family photo into a journal
// entry so it can feed the recall games.
func (s *APIV1Service) saveChatMessageToMemory(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := s.currentUser(ctx, c)
	if err != nil {
		return err
	}
	id, err := parseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid message id")
	}

	messages, err := s.Store.ListChatMessages(ctx, &store.FindChatMessage{ID: &id})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load chat message").SetInternal(err)
	}
	if len(messages) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "chat message not found")
	}
	message := messages[0]
	if message.Text == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "message has no text to save")
	}

	created, err := s.Store.CreateMemory(ctx, &store.Memory{
		UID:       shortuuid.New(),
		CreatorID: user.ID,
		Content:   *message.Text,
		Tags:      []string{"family"},
		Image:     message.ImageURL,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to save memory").SetInternal(err)
	}
	s.bumpStreak(ctx, user)
	return c.JSON(http.StatusOK, &MemoryResponse{
		ID:        created.ID,
		UID:       created.UID,
		CreatedTs: created.CreatedTs,
		Content:   created.Content,
		Tags:      created.Tags,
		Image:     created.Image,
	})
}
