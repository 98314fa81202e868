package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/allandacasin/devconnector-api/pkg/apperror"
	"github.com/allandacasin/devconnector-api/pkg/logger"
)

// ErrorMiddleware renders errors handlers attach via c.Error. Validation
// failures become {errors: [{msg, param}]}, known application errors
// become {msg} with their mapped status, and anything unexpected is a
// plain 500 with the detail kept in the logs.
func ErrorMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		if v, ok := apperror.AsValidation(err); ok {
			c.JSON(http.StatusBadRequest, gin.H{"errors": v.Fields})
			return
		}

		var appErr *apperror.AppError
		if errors.As(err, &appErr) && !errors.Is(err, apperror.ErrInternal) {
			c.JSON(apperror.ToHTTPStatus(err), gin.H{"msg": appErr.Message})
			return
		}

		log.Error("unhandled request error", err,
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()))
		c.String(http.StatusInternalServerError, "Server Error.")
	}
}
