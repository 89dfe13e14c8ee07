package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type clientWindow struct {
	count     int
	expiresAt time.Time
}

// RateLimiter limits requests per client IP within a fixed time window.
// Ingestion endpoints see one event per user interaction, so the ceiling
// can be generous without letting a flood through. Closing done stops the
// background sweeper.
func RateLimiter(maxRequests int, window time.Duration, done <-chan struct{}) gin.HandlerFunc {
	var mu sync.Mutex
	clients := make(map[string]*clientWindow)

	// Expired windows are swept in the background so the map does not
	// grow unbounded across distinct IPs.
	go func() {
		ticker := time.NewTicker(window)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				mu.Lock()
				now := time.Now()
				for ip, w := range clients {
					if now.After(w.expiresAt) {
						delete(clients, ip)
					}
				}
				mu.Unlock()
			}
		}
	}()

	return func(c *gin.Context) {
		ip, _, _ := net.SplitHostPort(c.Request.RemoteAddr)
		if ip == "" {
			ip = c.Request.RemoteAddr
		}

		mu.Lock()
		now := time.Now()
		w, ok := clients[ip]
		if !ok || now.After(w.expiresAt) {
			clients[ip] = &clientWindow{count: 1, expiresAt: now.Add(window)}
			mu.Unlock()
			c.Next()
			return
		}

		w.count++
		if w.count > maxRequests {
			mu.Unlock()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		mu.Unlock()
		c.Next()
	}
}
