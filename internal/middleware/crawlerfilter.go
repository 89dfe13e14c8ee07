package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextKeyAutomatedUA is set on the request context when the User-Agent
// matches a known automation tool. Handlers use it to upgrade an
// undetermined bot verdict.
const ContextKeyAutomatedUA = "automated_ua"

// automationPatterns are User-Agent substrings (lowercase) of headless
// browsers, scrapers and scripted HTTP clients.
var automationPatterns = []string{
	"headlesschrome", "phantomjs", "slimerjs",
	"selenium", "webdriver", "puppeteer", "playwright",
	"python-requests", "python-urllib", "aiohttp", "httpx",
	"curl", "wget", "scrapy", "go-http-client", "okhttp",
	"java/", "libwww-perl", "mechanize",
}

// CrawlerFilter flags requests from automated clients. It never blocks:
// form submissions from bots are exactly what we want to record.
func CrawlerFilter() gin.HandlerFunc {
	return func(c *gin.Context) {
		ua := strings.ToLower(c.Request.UserAgent())
		if ua == "" || isAutomated(ua) {
			c.Set(ContextKeyAutomatedUA, true)
		}
		c.Next()
	}
}

func isAutomated(ua string) bool {
	for _, pattern := range automationPatterns {
		if strings.Contains(ua, pattern) {
			return true
		}
	}
	return false
}
