package http

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

const cacheKeyPrefix = "cache:"

// cacheMiddleware caches GET responses in Redis.
func (h *Handler) cacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.cache == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := cacheKey(c)
		ctx := c.Request.Context()

		if cached, err := h.cache.Get(ctx, key).Result(); err == nil {
			c.Data(http.StatusOK, "application/json", []byte(cached))
			c.Abort()
			return
		}

		recorder := &responseRecorder{
			ResponseWriter: c.Writer,
			status:         http.StatusOK,
			body:           &bytes.Buffer{},
		}
		c.Writer = recorder

		c.Next()

		if recorder.status >= 200 && recorder.status < 300 && recorder.body.Len() > 0 {
			_ = h.cache.Set(ctx, key, recorder.body.Bytes(), h.cacheTTL).Err()
		}
	}
}

// InvalidateCache drops every cached response. It is called when a new
// import has finished.
func (h *Handler) InvalidateCache(ctx context.Context) error {
	if h.cache == nil {
		return nil
	}
	iter := h.cache.Scan(ctx, 0, cacheKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan cached responses: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := h.cache.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("drop cached responses: %w", err)
	}
	return nil
}

type responseRecorder struct {
	gin.ResponseWriter
	body   *bytes.Buffer
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(data []byte) (int, error) {
	if len(data) > 0 {
		r.body.Write(data)
	}
	return r.ResponseWriter.Write(data)
}

func cacheKey(c *gin.Context) string {
	return fmt.Sprintf("%s%s:%s?%s", cacheKeyPrefix, c.Request.Method, c.FullPath(), c.Request.URL.RawQuery)
}
