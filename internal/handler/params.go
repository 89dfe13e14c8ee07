package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// Pagination defaults shared by the list endpoints.
const (
	defaultSkip  = 0
	defaultLimit = 100
)

// pageParams reads skip/limit query parameters, falling back to defaults
// on absent or unparseable values.
func pageParams(c *gin.Context) (skip, limit int) {
	skip = intQuery(c, "skip", defaultSkip)
	limit = intQuery(c, "limit", defaultLimit)
	if skip < 0 {
		skip = defaultSkip
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	return skip, limit
}

// intQuery reads a single integer query parameter.
func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// idParam parses the :id path parameter.
func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
