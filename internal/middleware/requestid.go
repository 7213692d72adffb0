package middleware

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"log/slog"
	"regexp"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/logger"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

const (
	requestIDKey   = "request_id"
	requestIDBytes = 16
)

var (
	requestIDPattern = regexp.MustCompile(`^[A-Za-z0-9-]{1,64}$`)
	requestIDSeq     atomic.Uint64
)

// RequestIDConfig controls whether an incoming X-Request-ID is reused.
type RequestIDConfig struct {
	TrustUpstream bool
}

// RequestID tags every request with a freshly generated id.
func RequestID() gin.HandlerFunc {
	return RequestIDWithConfig(RequestIDConfig{})
}

// RequestIDWithConfig tags every request with an id, stored in the gin
// context, echoed in the response header and attached to the request context
// so every slog record written with that context carries request_id.
func RequestIDWithConfig(cfg RequestIDConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var id string
		if cfg.TrustUpstream {
			if upstream := c.GetHeader(RequestIDHeader); requestIDPattern.MatchString(upstream) {
				id = upstream
			}
		}
		if id == "" {
			id = newRequestID()
		}

		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(
			logger.WithContextAttrs(c.Request.Context(), slog.String(requestIDKey, id)),
		)

		c.Next()
	}
}

// GetRequestID returns the id assigned by RequestID, or "" outside it.
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

func newRequestID() string {
	b := make([]byte, requestIDBytes)
	if _, err := rand.Read(b); err != nil {
		binary.BigEndian.PutUint64(b[:8], uint64(time.Now().UnixNano()))
		binary.BigEndian.PutUint64(b[8:], requestIDSeq.Add(1))
	}
	return hex.EncodeToString(b)
}
