package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/formguard/internal/detection"
	"github.com/jonesrussell/formguard/internal/domain"
	"github.com/jonesrussell/formguard/internal/logger"
	"github.com/jonesrussell/formguard/internal/middleware"
)

// Defaults applied to submission records when the extension omits them.
const (
	defaultRequestMethod = "POST"
	defaultStatus        = "detected"
)

// SubmissionHandler handles submission record requests. The four list
// endpoints are query-time views computed by the detection classifier,
// not stored categories.
type SubmissionHandler struct {
	store  SubmissionStore
	logger logger.Logger
}

// NewSubmissionHandler creates a SubmissionHandler.
func NewSubmissionHandler(store SubmissionStore, log logger.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		store:  store,
		logger: log,
	}
}

// createSubmissionRequest is the ingestion payload for one intercepted
// form submission, annotated upstream with a verdict and correlation flag.
type createSubmissionRequest struct {
	TargetURL           string              `binding:"required" json:"target_url"`
	TargetHostname      string              `binding:"required" json:"target_hostname"`
	SourceURL           string              `json:"source_url"`
	MatchedFields       []string            `json:"matched_fields"`
	MatchedValues       map[string]string   `json:"matched_values"`
	RequestMethod       string              `json:"request_method"`
	Status              string              `json:"status"`
	IsBot               domain.BotVerdict   `json:"is_bot"`
	HasClickCorrelation bool                `json:"has_click_correlation"`
	ClickTimeDiffMS     *int64              `json:"click_time_diff_ms"`
	ClickCoordinates    *domain.Coordinates `json:"click_coordinates"`
}

// Create stores a new submission record.
func (h *SubmissionHandler) Create(c *gin.Context) {
	var req createSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	sub := domain.Submission{
		TargetURL:           req.TargetURL,
		TargetHostname:      req.TargetHostname,
		SourceURL:           req.SourceURL,
		MatchedFields:       req.MatchedFields,
		MatchedValues:       req.MatchedValues,
		RequestMethod:       req.RequestMethod,
		Status:              req.Status,
		IsBot:               req.IsBot,
		HasClickCorrelation: req.HasClickCorrelation,
		ClickTimeDiffMS:     req.ClickTimeDiffMS,
		ClickCoordinates:    req.ClickCoordinates,
	}
	if sub.RequestMethod == "" {
		sub.RequestMethod = defaultRequestMethod
	}
	if sub.Status == "" {
		sub.Status = defaultStatus
	}

	// A known automation user agent upgrades an undetermined verdict.
	// Verdicts supplied by upstream detection are never overridden.
	if sub.IsBot == domain.VerdictUnknown && c.GetBool(middleware.ContextKeyAutomatedUA) {
		sub.IsBot = domain.VerdictBot
	}

	if err := h.store.Insert(c.Request.Context(), &sub); err != nil {
		h.logger.Error("Failed to store submission",
			logger.String("target_hostname", sub.TargetHostname),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store submission"})
		return
	}

	h.logger.Info("Submission stored",
		logger.Int64("id", sub.ID),
		logger.String("target_hostname", sub.TargetHostname),
		logger.String("verdict", sub.IsBot.String()),
		logger.Bool("correlated", sub.HasClickCorrelation),
	)

	c.JSON(http.StatusCreated, sub)
}

// ListSuspicious returns submissions needing manual review.
func (h *SubmissionHandler) ListSuspicious(c *gin.Context) {
	h.listCategory(c, detection.CategorySuspicious)
}

// ListHuman returns confirmed human submissions with captured input.
func (h *SubmissionHandler) ListHuman(c *gin.Context) {
	h.listCategory(c, detection.CategoryHumanInput)
}

// ListHumanBackground returns human submissions without captured input.
func (h *SubmissionHandler) ListHumanBackground(c *gin.Context) {
	h.listCategory(c, detection.CategoryHumanBackground)
}

// ListBot returns submissions attributed to automation.
func (h *SubmissionHandler) ListBot(c *gin.Context) {
	h.listCategory(c, detection.CategoryBot)
}

// listCategory fetches records newest-first, applies the category
// predicate, then paginates the filtered view.
func (h *SubmissionHandler) listCategory(c *gin.Context, category detection.Category) {
	skip, limit := pageParams(c)
	hostname := c.Query("hostname")

	subs, err := h.store.ListNewestFirst(c.Request.Context(), hostname)
	if err != nil {
		h.logger.Error("Failed to list submissions",
			logger.String("category", category.String()),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list submissions"})
		return
	}

	filtered := detection.Filter(subs, category)
	page := detection.Paginate(filtered, skip, limit)

	c.JSON(http.StatusOK, gin.H{
		"submissions": page,
		"count":       len(page),
		"total":       len(filtered),
	})
}

// Delete removes a single submission record.
func (h *SubmissionHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	if err := h.store.DeleteByID(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
			return
		}
		h.logger.Error("Failed to delete submission",
			logger.Int64("id", id),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete submission"})
		return
	}

	h.logger.Info("Submission deleted", logger.Int64("id", id))
	c.JSON(http.StatusOK, gin.H{"message": "Submission deleted"})
}

// Clear removes every submission record.
func (h *SubmissionHandler) Clear(c *gin.Context) {
	count, err := h.store.DeleteAll(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to clear submissions", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear submissions"})
		return
	}

	h.logger.Info("Submissions cleared", logger.Int64("deleted", count))
	c.JSON(http.StatusOK, gin.H{"deleted": count})
}
