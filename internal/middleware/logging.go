package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/octobees/maps-leads/api/internal/logging"
)

// Logging writes one structured line per HTTP request. Server errors log at error level,
// client errors at warn.
func Logging(logger logging.Logger) echo.MiddlewareFunc {
	if logger == nil {
		logger = logging.Default()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			latency := time.Since(start)

			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			keyvals := []any{
				"request_id", RequestIDFromContext(c),
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", status,
				"latency", latency.String(),
			}
			switch {
			case status >= http.StatusInternalServerError:
				logger.Error("request completed", keyvals...)
			case status >= http.StatusBadRequest:
				logger.Warn("request completed", keyvals...)
			default:
				logger.Info("request completed", keyvals...)
			}

			return err
		}
	}
}
