package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/allandacasin/devconnector-api/pkg/auth"
	"github.com/allandacasin/devconnector-api/pkg/logger"
)

const (
	GinContextKeyUserID = "userID"

	// The SPA sends the token in this header.
	authTokenHeader = "x-auth-token"

	requestIDHeader = "X-Request-ID"
)

// AuthMiddleware verifies the caller's token and injects the caller id
// into the request context. Handlers never trust a client-supplied id
// for "current user" operations.
func AuthMiddleware(jwtSvc *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader(authTokenHeader)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "No token, authorization denied"})
			return
		}

		userID, err := jwtSvc.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Token is not valid"})
			return
		}

		c.Set(GinContextKeyUserID, userID)

		c.Next()
	}
}

// RequestIDMiddleware tags every request with an id, echoed back in the
// response header for correlation with the logs.
func RequestIDMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		c.Next()

		if len(c.Errors) == 0 {
			log.Debug("request handled",
				zap.String("request_id", requestID),
				zap.String("method", c.Request.Method),
				zap.String("path", c.FullPath()),
				zap.Int("status", c.Writer.Status()))
		}
	}
}

func GetUserIDFromGinContext(c *gin.Context) (primitive.ObjectID, bool) {
	v, ok := c.Get(GinContextKeyUserID)
	if !ok {
		return primitive.NilObjectID, false
	}
	userID, ok := v.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, false
	}
	return userID, true
}
