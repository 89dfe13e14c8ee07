package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/formguard/internal/domain"
	"github.com/jonesrussell/formguard/internal/logger"
)

// WhitelistHandler manages URLs exempted from monitoring.
type WhitelistHandler struct {
	store  WhitelistStore
	logger logger.Logger
}

// NewWhitelistHandler creates a WhitelistHandler.
func NewWhitelistHandler(store WhitelistStore, log logger.Logger) *WhitelistHandler {
	return &WhitelistHandler{
		store:  store,
		logger: log,
	}
}

type addWhitelistRequest struct {
	URL   string  `binding:"required" json:"url"`
	Notes *string `json:"notes"`
}

// hostnameOf extracts the hostname from a URL. Bare hostnames without a
// scheme parse into the path component, so that is the fallback.
func hostnameOf(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if parsed.Host != "" {
		return parsed.Host
	}
	return parsed.Path
}

// Add whitelists a URL. The hostname is derived server-side so hostname
// matching works regardless of how the client formatted the URL.
func (h *WhitelistHandler) Add(c *gin.Context) {
	var req addWhitelistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	entry := domain.WhitelistEntry{
		URL:      req.URL,
		Hostname: hostnameOf(req.URL),
		Notes:    req.Notes,
	}

	if err := h.store.Insert(c.Request.Context(), &entry); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "URL already whitelisted"})
			return
		}
		h.logger.Error("Failed to whitelist URL",
			logger.String("url", req.URL),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to whitelist URL"})
		return
	}

	h.logger.Info("URL whitelisted",
		logger.Int64("id", entry.ID),
		logger.String("hostname", entry.Hostname),
	)

	c.JSON(http.StatusCreated, entry)
}

// List returns all whitelist entries, newest first.
func (h *WhitelistHandler) List(c *gin.Context) {
	entries, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list whitelist", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list whitelist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"count":   len(entries),
	})
}

// Check reports whether a URL is whitelisted and how it matched.
func (h *WhitelistHandler) Check(c *gin.Context) {
	raw := c.Query("url")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing url parameter"})
		return
	}

	match, err := h.store.Match(c.Request.Context(), raw, hostnameOf(raw))
	if err != nil {
		h.logger.Error("Failed to check whitelist",
			logger.String("url", raw),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check whitelist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"whitelisted": match != domain.MatchNone,
		"match_type":  match,
	})
}

// Delete removes a whitelist entry.
func (h *WhitelistHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	if err := h.store.DeleteByID(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Whitelist entry not found"})
			return
		}
		h.logger.Error("Failed to delete whitelist entry",
			logger.Int64("id", id),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete whitelist entry"})
		return
	}

	h.logger.Info("Whitelist entry deleted", logger.Int64("id", id))
	c.JSON(http.StatusOK, gin.H{"message": "Whitelist entry deleted"})
}
