package v1

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"

	"github.com/memorykeeper/memorykeeper/store"
)

func (s *APIV1Service) registerUserRoutes(g *echo.Group) {
	g.POST("/users", s.createUser)
	g.GET("/user", s.getUser)
	g.PATCH("/user", s.updateUser)
}

// UserResponse is the profile shape returned to the client.
type UserResponse struct {
	ID             int32  `json:"id"`
	UID            string `json:"uid"`
	Name           string `json:"name"`
	Age            int32  `json:"age"`
	Avatar         string `json:"avatar"`
	AvatarURL      string `json:"avatarUrl"`
	Theme          string `json:"theme"`
	Plan           string `json:"plan"`
	TrialEndTs     *int64 `json:"trialEndTs,omitempty"`
	MemoryStrength int32  `json:"memoryStrength"`
	Streak         int32  `json:"streak"`
	LongestStreak  int32  `json:"longestStreak"`
}

func toUserResponse(user *store.User) *UserResponse {
	return &UserResponse{
		ID:             user.ID,
		UID:            user.UID,
		Name:           user.Name,
		Age:            user.Age,
		Avatar:         user.Avatar,
		AvatarURL:      user.AvatarURL,
		Theme:          user.Theme,
		Plan:           user.Plan,
		TrialEndTs:     user.TrialEndTs,
		MemoryStrength: user.MemoryStrength,
		Streak:         user.Streak,
		LongestStreak:  user.LongestStreak,
	}
}

// CreateUserRequest is the first-run onboarding payload. New keepers start
// at the middle of the strength scale.
type CreateUserRequest struct {
	Name  string `json:"name"`
	Age   int32  `json:"age"`
	Theme string `json:"theme"`
}

func (s *APIV1Service) createUser(c echo.Context) error {
	ctx := c.Request().Context()

	existing, err := s.Store.ListUsers(ctx, &store.FindUser{})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list users").SetInternal(err)
	}
	if len(existing) > 0 {
		return echo.NewHTTPError(http.StatusConflict, "a keeper profile already exists")
	}

	request := &CreateUserRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request").SetInternal(err)
	}
	if strings.TrimSpace(request.Name) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	theme := request.Theme
	if theme == "" {
		theme = "nostalgic"
	}

	created, err := s.Store.CreateUser(ctx, &store.User{
		UID:            shortuuid.New(),
		Name:           request.Name,
		Age:            request.Age,
		Theme:          theme,
		Plan:           "free",
		MemoryStrength: 50,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create user").SetInternal(err)
	}
	return c.JSON(http.StatusOK, toUserResponse(created))
}

func (s *APIV1Service) getUser(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := s.currentUser(ctx, c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// UpdateUserRequest carries the editable settings. Memory strength and
// streaks are owned by the server and cannot be set directly.
type UpdateUserRequest struct {
	Name      *string `json:"name"`
	Age       *int32  `json:"age"`
	Avatar    *string `json:"avatar"`
	AvatarURL *string `json:"avatarUrl"`
	Theme     *string `json:"theme"`
}

func (s *APIV1Service) updateUser(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := s.currentUser(ctx, c)
	if err != nil {
		return err
	}

	request := &UpdateUserRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request").SetInternal(err)
	}

	updated, err := s.Store.UpdateUser(ctx, &store.UpdateUser{
		ID:        user.ID,
		Name:      request.Name,
		Age:       request.Age,
		Avatar:    request.Avatar,
		AvatarURL: request.AvatarURL,
		Theme:     request.Theme,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update user").SetInternal(err)
	}
	return c.JSON(http.StatusOK, toUserResponse(updated))
}
