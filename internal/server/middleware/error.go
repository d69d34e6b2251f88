package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"go.uber.org/zap"

	"github.com/nulzo/app-config-api/internal/core/domain"
)

const problemContentType = "application/problem+json"

// ErrorHandler renders the last error pushed by a handler as an RFC 9457 problem.
// Anything that is not already a *domain.Problem becomes a 500.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		var problem *domain.Problem
		if !errors.As(err, &problem) {
			problem = domain.InternalError(err)
		}
		if problem.Instance == "" {
			problem.Instance = c.Request.URL.Path
		}

		fields := []zap.Field{
			zap.Int("status", problem.Status),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString(RequestIDKey)),
		}
		if problem.Log != nil {
			fields = append(fields, zap.Error(problem.Log))
		}

		if problem.Status >= http.StatusInternalServerError {
			logger.Error("Request failed", fields...)
		} else {
			logger.Debug("Request rejected", fields...)
		}

		if c.Writer.Written() {
			// body already started, the status can no longer change
			return
		}

		c.Header("Content-Type", problemContentType)
		c.Render(problem.Status, render.JSON{Data: problem})
		c.Abort()
	}
}

// NoRoute reports unknown paths as problems.
func NoRoute() gin.HandlerFunc {
	return func(c *gin.Context) {
		_ = c.Error(domain.NotFoundError("no route for " + c.Request.URL.Path))
	}
}

// NoMethod reports a known path requested with an unsupported method.
func NoMethod() gin.HandlerFunc {
	return func(c *gin.Context) {
		_ = c.Error(domain.MethodNotAllowedError(c.Request.Method + " is not supported on " + c.Request.URL.Path))
	}
}
