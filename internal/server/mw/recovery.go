package mw

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hptracker/backend/internal/server/resp"
)

// Recovery turns a panic into a 500 without leaking details to the client.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered",
					zap.Any("panic", err),
					zap.String("path", c.Request.URL.Path),
					zap.String("request_id", c.GetString(CtxRequestID)),
					zap.Stack("stack"),
				)
				resp.AbortWithError(c, http.StatusInternalServerError, resp.MsgInternal)
			}
		}()
		c.Next()
	}
}
