// Package middleware provides HTTP middleware components.
package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/medtraie/Gaztesto-sub001/internal/core/apperror"
	"github.com/medtraie/Gaztesto-sub001/pkg/logger"
)

// Recovery turns a panic into an internal error. The stack is logged, never returned.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error(c.Request.Context(), "panic recovered",
					"error", r,
					"route", c.FullPath(),
					"stack", string(debug.Stack()),
				)

				appErr := apperror.NewInternal(fmt.Errorf("panic: %v", r))
				_ = c.Error(appErr)
				// ErrorHandler sits inside this frame and was unwound by the panic.
				if !c.Writer.Written() {
					c.AbortWithStatusJSON(appErr.HTTPStatus, gin.H{
						"code":    appErr.Code,
						"message": appErr.Message,
						"details": map[string]any{"request_id": c.GetString("request_id")},
					})
					return
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}
