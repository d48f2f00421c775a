package middleware

import (
	"compress/gzip"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type gzipBody struct {
	*gzip.Reader
	raw interface{ Close() error }
}

func (b gzipBody) Close() error {
	_ = b.Reader.Close()
	return b.raw.Close()
}

// DecompressRequest inflates gzip encoded request bodies, capping the inflated
// size at limit bytes when limit is positive.
func DecompressRequest(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.EqualFold(strings.TrimSpace(c.GetHeader("Content-Encoding")), "gzip") {
			c.Next()
			return
		}

		zr, err := gzip.NewReader(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "malformed gzip body"})
			return
		}

		c.Request.Body = gzipBody{Reader: zr, raw: c.Request.Body}
		if limit > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Request.Header.Del("Content-Encoding")
		c.Request.ContentLength = -1
		c.Next()
	}
}
