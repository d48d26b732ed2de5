package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/Vebses/GeoAdmin-sub000/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ErrorHandler is a Gin middleware that turns typed domain errors attached
// via c.Error into JSON responses with the matching status code. Stack traces
// are NEVER exposed to clients.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		var (
			validation *apierror.ValidationError
			missing    *apierror.MissingEntityError
			conflict   *apierror.StateConflictError
			transport  *apierror.TransportError
			render     *apierror.RenderError
		)
		switch {
		case errors.As(err, &validation):
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, apierror.NewValidation(validation.Fields))
			return
		case errors.As(err, &missing):
			c.AbortWithStatusJSON(http.StatusNotFound, apierror.New(missing.Error()))
			return
		case errors.As(err, &conflict):
			c.AbortWithStatusJSON(http.StatusConflict, apierror.New(conflict.Error()))
			return
		case errors.As(err, &transport):
			c.AbortWithStatusJSON(http.StatusBadGateway, apierror.New(transport.Error()))
			return
		case errors.As(err, &render):
			// The underlying render failure stays in the log only.
			log.Error().
				Str("request_id", c.GetString(RequestIDKey)).
				Str("path", c.FullPath()).
				Err(render.Err).
				Msg("document render failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.New("document could not be generated"))
			return
		}

		// Log the internal error with full context (for debugging)
		log.Error().
			Str("request_id", c.GetString(RequestIDKey)).
			Str("path", c.FullPath()).
			Str("method", c.Request.Method).
			Err(err).
			Msg("unhandled error")

		// Return a safe error message — no stack trace
		c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.New("internal server error"))
	}
}

// Recovery handles panics and converts them into 500 responses.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Str("request_id", c.GetString(RequestIDKey)).
					Interface("panic", r).
					Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.New("internal server error"))
			}
		}()
		c.Next()
	}
}

// Logger logs each request with method, path, status, latency, and request_id.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("request_id", c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
