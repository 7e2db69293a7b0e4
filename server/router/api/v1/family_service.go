package v1

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"

	"github.com/memorykeeper/memorykeeper/store"
)

func (s *APIV1Service) registerFamilyRoutes(g *echo.Group) {
	g.GET("/family-members", s.listFamilyMembers)
	g.POST("/family-members", s.createFamilyMember)
	g.DELETE("/family-members/:id", s.deleteFamilyMember)
}

// FamilyMemberResponse is one person with access to the shared feed.
type FamilyMemberResponse struct {
	ID         int32  `json:"id"`
	UID        string `json:"uid"`
	Name       string `json:"name"`
	Permission string `json:"permission"`
	AvatarURL  string `json:"avatarUrl"`
}

func toFamilyMemberResponse(m *store.FamilyMember) *FamilyMemberResponse {
	return &FamilyMemberResponse{
		ID:         m.ID,
		UID:        m.UID,
		Name:       m.Name,
		Permission: m.Permission,
		AvatarURL:  m.AvatarURL,
	}
}

func (s *APIV1Service) listFamilyMembers(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := s.currentUser(ctx, c)
	if err != nil {
		return err
	}

	members, err := s.Store.ListFamilyMembers(ctx, &store.FindFamilyMember{OwnerID: &user.ID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list family members").SetInternal(err)
	}
	list := make([]*FamilyMemberResponse, 0, len(members))
	for _, m := range members {
		list = append(list, toFamilyMemberResponse(m))
	}
	return c.JSON(http.StatusOK, list)
}

// CreateFamilyMemberRequest invites a viewer or contributor.
type CreateFamilyMemberRequest struct {
	Name       string `json:"name"`
	Permission string `json:"permission"`
	AvatarURL  string `json:"avatarUrl"`
}

func (s *APIV1Service) createFamilyMember(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := s.currentUser(ctx, c)
	if err != nil {
		return err
	}

	request := &CreateFamilyMemberRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request").SetInternal(err)
	}
	if strings.TrimSpace(request.Name) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	switch request.Permission {
	case "view", "contribute":
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "permission must be view or contribute")
	}

	created, err := s.Store.CreateFamilyMember(ctx, &store.FamilyMember{
		UID:        shortuuid.New(),
		OwnerID:    user.ID,
		Name:       request.Name,
		Permission: request.Permission,
		AvatarURL:  request.AvatarURL,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create family member").SetInternal(err)
	}
	return c.JSON(http.StatusOK, toFamilyMemberResponse(created))
}

func (s *APIV1Service) deleteFamilyMember(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := parseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid family member id")
	}
	if err := s.Store.DeleteFamilyMember(ctx, &store.DeleteFamilyMember{ID: id}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete family member").SetInternal(err)
	}
	return c.NoContent(http.StatusNoContent)
}
