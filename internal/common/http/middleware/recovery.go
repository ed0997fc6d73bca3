package middleware

import (
	"fmt"

	pkgerrors "civicboard/pkg/errors"
	"civicboard/pkg/utils/logger"
	"civicboard/pkg/utils/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryMiddleware converts panics into the standard 500 envelope so an
// uncaught handler failure never crashes the process.
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		err := fmt.Errorf("panic recovered: %v", recovered)
		logger.Error(c.Request.Context(), "handler panic",
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", recovered),
		)
		response.Error(c, pkgerrors.InternalError(err))
		c.Abort()
	})
}
