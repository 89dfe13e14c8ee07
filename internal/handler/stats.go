package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/formguard/internal/domain"
	"github.com/jonesrussell/formguard/internal/logger"
)

// Aggregation bounds for the overview endpoint.
const (
	topHostnameLimit = 10
	dailyWindowDays  = 7
)

// StatsHandler serves submission aggregates.
type StatsHandler struct {
	store  SubmissionStore
	logger logger.Logger
	now    func() time.Time
}

// NewStatsHandler creates a StatsHandler using the real clock.
func NewStatsHandler(store SubmissionStore, log logger.Logger) *StatsHandler {
	return &StatsHandler{
		store:  store,
		logger: log,
		now:    time.Now,
	}
}

// Overview returns totals, the busiest hostnames and the last week of
// daily counts.
func (h *StatsHandler) Overview(c *gin.Context) {
	ctx := c.Request.Context()
	now := h.now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	total, today, err := h.store.StatsCounts(ctx, startOfDay)
	if err != nil {
		h.logger.Error("Failed to compute submission stats", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}

	hostnames, err := h.store.TopHostnames(ctx, topHostnameLimit)
	if err != nil {
		h.logger.Error("Failed to rank hostnames", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}

	daily, err := h.store.DailyCounts(ctx, now.AddDate(0, 0, -dailyWindowDays))
	if err != nil {
		h.logger.Error("Failed to compute daily counts", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}

	c.JSON(http.StatusOK, domain.SubmissionStats{
		TotalSubmissions: total,
		TodaySubmissions: today,
		TopHostnames:     hostnames,
		RecentActivity:   daily,
	})
}

// Classification returns verdict counts and derived rates across all
// stored submissions.
func (h *StatsHandler) Classification(c *gin.Context) {
	total, human, bot, uncorrelated, err := h.store.ClassificationCounts(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to compute classification stats", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute classification stats"})
		return
	}

	c.JSON(http.StatusOK, domain.NewClassificationStats(total, human, bot, uncorrelated))
}
