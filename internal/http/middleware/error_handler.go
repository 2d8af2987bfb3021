package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/kamaracell/minha-loja-virtual/internal/shared/apperr"
)

func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ErrorHandler renders any error pushed via Fail as a JSON payload. 5xx
// payloads carry the upstream details verbatim so callers can debug failed
// store/gateway interactions.
func ErrorHandler(l *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}
		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := apperr.HTTPStatus(err)
		publicMsg := apperr.PublicMessage(err)
		rid := GetRequestID(c)

		l.LogAttrs(c.Request.Context(), slog.LevelError, "request_failed",
			slog.String("request_id", rid),
			slog.Int("status", status),
			slog.Any("err", err),
		)

		payload := gin.H{
			"error":      publicMsg,
			"request_id": rid,
		}
		if ae, ok := apperr.As(err); ok {
			if len(ae.Fields) > 0 {
				payload["fields"] = ae.Fields
			}
			if status >= 500 && ae.Details != "" {
				payload["details"] = ae.Details
			}
		}
		c.AbortWithStatusJSON(status, payload)
	}
}
