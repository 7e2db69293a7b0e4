package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/memorykeeper/memorykeeper/server/internal/observability"
	"github.com/memorykeeper/memorykeeper/store"
)

func (s *APIV1Service) registerStatsRoutes(g *echo.Group) {
	g.GET("/stats", s.getStats)
	g.GET("/stats/ai", s.getAIStats)
}

// StatsResponse summarizes the keeper's activity for the dashboard.
type StatsResponse struct {
	MemoryCount    int   `json:"memoryCount"`
	GameCount      int   `json:"gameCount"`
	MemoryStrength int32 `json:"memoryStrength"`
	Streak         int32 `json:"streak"`
	LongestStreak  int32 `json:"longestStreak"`
	AverageScore   int32 `json:"averageScore"`
}

func (s *APIV1Service) getStats(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := s.currentUser(ctx, c)
	if err != nil {
		return err
	}

	memories, err := s.Store.ListMemories(ctx, &store.FindMemory{CreatorID: &user.ID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list memories").SetInternal(err)
	}
	results, err := s.Store.ListGameResults(ctx, &store.FindGameResult{UserID: &user.ID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list game results").SetInternal(err)
	}

	stats := &StatsResponse{
		MemoryCount:    len(memories),
		GameCount:      len(results),
		MemoryStrength: user.MemoryStrength,
		Streak:         user.Streak,
		LongestStreak:  user.LongestStreak,
	}
	if len(results) > 0 {
		var total int64
		for _, r := range results {
			total += int64(r.Score)
		}
		stats.AverageScore = int32(total / int64(len(results)))
	}
	return c.JSON(http.StatusOK, stats)
}

// getAIStats exposes the enrichment pipeline counters.
func (s *APIV1Service) getAIStats(c echo.Context) error {
	var snap observability.Snapshot
	if s.Metrics != nil {
		snap = s.Metrics.Snapshot()
	}
	return c.JSON(http.StatusOK, snap)
}
