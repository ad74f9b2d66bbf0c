package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"

	"pantry-chef/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deduplicator rejects byte-identical POST bodies repeated inside the
// window, guarding the AI providers against double-submits.
type Deduplicator struct {
	mu       sync.RWMutex
	window   time.Duration
	requests map[string]time.Time
	done     chan struct{}
}

// NewDeduplicator creates the request fingerprint cache and starts its
// cleanup loop.
func NewDeduplicator(window time.Duration) *Deduplicator {
	if window <= 0 {
		window = time.Second
	}
	d := &Deduplicator{
		window:   window,
		requests: make(map[string]time.Time),
		done:     make(chan struct{}),
	}
	go d.cleanupLoop()
	return d
}

func (d *Deduplicator) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			now := time.Now()
			d.mu.Lock()
			for k, t := range d.requests {
				if now.Sub(t) > 10*d.window {
					delete(d.requests, k)
				}
			}
			d.mu.Unlock()
		case <-d.done:
			return
		}
	}
}

// Close stops the cleanup loop.
func (d *Deduplicator) Close() {
	close(d.done)
}

// seen records the fingerprint and reports whether it repeated inside
// the window.
func (d *Deduplicator) seen(fingerprint string, now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if last, exists := d.requests[fingerprint]; exists && now.Sub(last) <= d.window {
		return true
	}
	d.requests[fingerprint] = now
	return false
}

// Middleware is the gin handler for the deduplicator.
func (d *Deduplicator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		bodyHash := ""
		if c.Request.Body != nil {
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				common.LogError("Failed to read request body", zap.Error(err))
				c.Next()
				return
			}

			hash := sha256.Sum256(body)
			bodyHash = hex.EncodeToString(hash[:])

			c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
		}

		fingerprint := c.Request.Method + ":" + c.Request.URL.Path
		if bodyHash != "" {
			fingerprint += ":" + bodyHash
		}

		if d.seen(fingerprint, time.Now()) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Request too frequent",
				"code":  common.ErrCodeRateLimited,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
