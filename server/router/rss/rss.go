// Package rss serves the scrapbook feed so family members can follow new
// memories from a feed reader.
package rss

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/feeds"
	"github.com/labstack/echo/v4"

	"github.com/memorykeeper/memorykeeper/internal/profile"
	"github.com/memorykeeper/memorykeeper/server/service/memory"
	"github.com/memorykeeper/memorykeeper/store"
)

const maxFeedItems = 20

// RSSService renders the per-keeper memory feed.
type RSSService struct {
	Profile *profile.Profile
	Store   *store.Store
}

func NewRSSService(p *profile.Profile, st *store.Store) *RSSService {
	return &RSSService{Profile: p, Store: st}
}

// RegisterRoutes mounts the feed endpoint.
func (s *RSSService) RegisterRoutes(e *echo.Echo) {
	e.GET("/u/:uid/rss.xml", s.getFeed)
}

func (s *RSSService) getFeed(c echo.Context) error {
	ctx := c.Request().Context()
	uid := c.Param("uid")

	user, err := s.Store.GetUser(ctx, &store.FindUser{UID: &uid})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load user").SetInternal(err)
	}
	if user == nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}

	limit := maxFeedItems
	memories, err := s.Store.ListMemories(ctx, &store.FindMemory{CreatorID: &user.ID, Limit: &limit})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list memories").SetInternal(err)
	}

	baseURL := s.Profile.InstanceURL
	feed := &feeds.Feed{
		Title:       fmt.Sprintf("%s's Memory Scrapbook", user.Name),
		Link:        &feeds.Link{Href: fmt.Sprintf("%s/u/%s", baseURL, user.UID)},
		Description: "New memories from the family scrapbook",
		Created:     time.Now(),
	}
	for _, m := range memories {
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          m.UID,
			Title:       memory.Snippet(m.Content, 60),
			Link:        &feeds.Link{Href: fmt.Sprintf("%s/m/%s", baseURL, m.UID)},
			Description: memory.Snippet(m.Content, 240),
			Created:     time.Unix(m.CreatedTs, 0),
		})
	}

	rss, err := feed.ToRss()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to render feed").SetInternal(err)
	}
	return c.Blob(http.StatusOK, "application/rss+xml", []byte(rss))
}
