package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

const (
	metaContextKey  = "league.meta"
	metaCacheHit    = "cacheHit"
	metaProcessedMs = "processingTimeMs"
)

// ResponseMeta attaches a metadata map to every request. Handlers fill it
// through SetCacheHit, and the elapsed time is added once the chain returns.
func ResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Set(metaContextKey, map[string]interface{}{})
		c.Next()
		meta := metaFor(c)
		if _, ok := meta[metaProcessedMs]; !ok {
			meta[metaProcessedMs] = time.Since(started).Milliseconds()
		}
	}
}

// SetCacheHit marks whether the response body came from the view cache.
func SetCacheHit(c *gin.Context, hit bool) {
	metaFor(c)[metaCacheHit] = hit
}

// ExtractMeta returns the metadata collected so far, or nil when ResponseMeta
// is not installed and nothing was recorded.
func ExtractMeta(c *gin.Context) map[string]interface{} {
	if c == nil {
		return nil
	}
	raw, ok := c.Get(metaContextKey)
	if !ok {
		return nil
	}
	meta, _ := raw.(map[string]interface{})
	return meta
}

func metaFor(c *gin.Context) map[string]interface{} {
	if c == nil {
		return map[string]interface{}{}
	}
	if meta := ExtractMeta(c); meta != nil {
		return meta
	}
	meta := map[string]interface{}{}
	c.Set(metaContextKey, meta)
	return meta
}
