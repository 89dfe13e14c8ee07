package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/formguard/internal/detection"
	"github.com/jonesrussell/formguard/internal/domain"
	"github.com/jonesrussell/formguard/internal/logger"
)

// List limits for the click feed endpoints.
const (
	defaultRecentLimit     = 50
	defaultSuspiciousLimit = 100
)

// ClickHandler handles pointer-click ingestion and page-click correlation.
// Pointer clicks only feed the in-memory buffer; page clicks are correlated
// against it and persisted with their verdict.
type ClickHandler struct {
	store      ClickStore
	buffer     *detection.Buffer
	correlator *detection.Correlator
	logger     logger.Logger
}

// NewClickHandler creates a ClickHandler.
func NewClickHandler(
	store ClickStore,
	buffer *detection.Buffer,
	correlator *detection.Correlator,
	log logger.Logger,
) *ClickHandler {
	return &ClickHandler{
		store:      store,
		buffer:     buffer,
		correlator: correlator,
		logger:     log,
	}
}

type pointerClickRequest struct {
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
	Timestamp *float64 `binding:"required" json:"timestamp"`
}

// RecordPointer records a hardware-level click into the reference buffer.
func (h *ClickHandler) RecordPointer(c *gin.Context) {
	var req pointerClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	h.buffer.Append(domain.PointerClick{
		X:         req.X,
		Y:         req.Y,
		Timestamp: *req.Timestamp,
	})

	c.JSON(http.StatusOK, gin.H{
		"status":   "recorded",
		"buffered": h.buffer.Len(),
	})
}

// pageClickRequest is a DOM-level click report from the extension.
type pageClickRequest struct {
	X             float64  `json:"x"`
	Y             float64  `json:"y"`
	Timestamp     *float64 `binding:"required" json:"timestamp"`
	ActionType    string   `json:"action_type"`
	ActionDetails string   `json:"action_details"`
	PageURL       string   `json:"page_url"`
	PageTitle     string   `json:"page_title"`
	TargetTag     string   `json:"target_tag"`
	TargetID      string   `json:"target_id"`
	TargetClass   string   `json:"target_class"`
	IsTrusted     *bool    `json:"is_trusted"`
}

// RecordPage correlates a page-level click against the pointer buffer and
// persists it with the verdict.
func (h *ClickHandler) RecordPage(c *gin.Context) {
	var req pageClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	result := h.correlator.Correlate(domain.PointerClick{
		X:         req.X,
		Y:         req.Y,
		Timestamp: *req.Timestamp,
	})

	event := domain.ClickEvent{
		Timestamp:     *req.Timestamp,
		X:             req.X,
		Y:             req.Y,
		IsSuspicious:  result.IsSuspicious,
		Confidence:    &result.Confidence,
		ActionType:    req.ActionType,
		ActionDetails: req.ActionDetails,
		PageURL:       req.PageURL,
		PageTitle:     req.PageTitle,
		TargetTag:     req.TargetTag,
		TargetID:      req.TargetID,
		TargetClass:   req.TargetClass,
		IsTrusted:     req.IsTrusted == nil || *req.IsTrusted,
	}
	if event.ActionType == "" {
		event.ActionType = "click"
	}
	if result.Reason != "" {
		reason := result.Reason
		event.Reason = &reason
	}

	if err := h.store.Insert(c.Request.Context(), &event); err != nil {
		h.logger.Error("Failed to store click event",
			logger.String("page_url", event.PageURL),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store click event"})
		return
	}

	if result.IsSuspicious {
		h.logger.Warn("Suspicious page click",
			logger.Int64("id", event.ID),
			logger.String("page_url", event.PageURL),
			logger.String("reason", result.Reason),
		)
	}

	c.JSON(http.StatusOK, gin.H{
		"id":            event.ID,
		"is_suspicious": result.IsSuspicious,
		"confidence":    result.Confidence,
		"reason":        result.Reason,
	})
}

// Stats returns stored click counts plus current buffer occupancy.
func (h *ClickHandler) Stats(c *gin.Context) {
	total, suspicious, legitimate, uniquePages, err := h.store.Counts(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to compute click stats", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute click stats"})
		return
	}

	c.JSON(http.StatusOK, domain.ClickStats{
		TotalClicks:      total,
		SuspiciousClicks: suspicious,
		LegitimateClicks: legitimate,
		UniquePages:      uniquePages,
		BufferedClicks:   h.buffer.Len(),
	})
}

// Suspicious returns the most recent suspicious page clicks.
func (h *ClickHandler) Suspicious(c *gin.Context) {
	limit := intQuery(c, "limit", defaultSuspiciousLimit)
	if limit <= 0 {
		limit = defaultSuspiciousLimit
	}

	events, err := h.store.ListSuspicious(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list suspicious clicks", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list suspicious clicks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"clicks": events,
		"count":  len(events),
	})
}

// Recent returns the most recent page clicks regardless of verdict.
func (h *ClickHandler) Recent(c *gin.Context) {
	limit := intQuery(c, "limit", defaultRecentLimit)
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	events, err := h.store.ListRecent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list recent clicks", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list recent clicks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"clicks": events,
		"count":  len(events),
	})
}

// Actions returns the per-action-type click breakdown.
func (h *ClickHandler) Actions(c *gin.Context) {
	summary, err := h.store.ActionSummary(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to summarize click actions", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to summarize click actions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"actions": summary,
		"count":   len(summary),
	})
}
