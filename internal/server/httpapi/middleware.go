package httpapi

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/learnfeed/internal/common"
	"github.com/dmitrijs2005/learnfeed/internal/logging"
	"github.com/dmitrijs2005/learnfeed/internal/server/auth"
	"github.com/gin-gonic/gin"
)

// Authenticate resolves the bearer token into a principal stored on the
// request context. Missing or invalid tokens leave the request anonymous;
// the services decide whether that is acceptable.
func Authenticate(secret []byte, logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeaderName)
		if !strings.HasPrefix(header, common.BearerPrefix) {
			c.Next()
			return
		}

		p, err := auth.ParseToken(strings.TrimPrefix(header, common.BearerPrefix), secret)
		if err != nil {
			logger.Debug(c.Request.Context(), "token rejected", "error", err)
			c.Next()
			return
		}

		c.Request = c.Request.WithContext(auth.WithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}

// RequestLogger logs one line per request.
func RequestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
