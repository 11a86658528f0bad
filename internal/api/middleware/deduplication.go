package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/panpapadopoulos/cooking/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultDedupWindow = time.Second

// Deduplicator rejects a POST from the same client whose path and body
// match one seen within the window.
type Deduplicator struct {
	window time.Duration
	now    func() time.Time

	mu   sync.Mutex
	seen map[string]time.Time
}

// NewDeduplicator returns a Deduplicator; a non-positive window means one
// second.
func NewDeduplicator(window time.Duration) *Deduplicator {
	if window <= 0 {
		window = defaultDedupWindow
	}
	return &Deduplicator{
		window: window,
		now:    time.Now,
		seen:   make(map[string]time.Time),
	}
}

// Handler is the gin middleware.
func (d *Deduplicator) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		fingerprint := c.ClientIP() + ":" + c.Request.Method + ":" + c.Request.URL.RequestURI()
		if c.Request.Body != nil {
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				common.LogWarn("failed to read request body", zap.Error(err))
				c.Next()
				return
			}
			hash := sha256.Sum256(body)
			fingerprint += ":" + hex.EncodeToString(hash[:])
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		if !d.record(fingerprint) {
			c.AbortWithStatusJSON(http.StatusConflict, common.ErrorResponse{
				Code:    common.ErrCodeConflict,
				Message: common.ErrConflict.Message,
			})
			return
		}

		c.Next()
	}
}

// record reports whether fingerprint is new within the window and prunes
// entries older than ten windows.
func (d *Deduplicator) record(fingerprint string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if last, ok := d.seen[fingerprint]; ok && now.Sub(last) <= d.window {
		return false
	}
	d.seen[fingerprint] = now

	for k, t := range d.seen {
		if now.Sub(t) > 10*d.window {
			delete(d.seen, k)
		}
	}
	return true
}
