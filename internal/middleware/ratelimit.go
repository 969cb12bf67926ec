package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/octobees/maps-leads/api/internal/config"
)

// RateLimiter applies a token bucket shared by every request it wraps. A zero config disables it.
func RateLimiter(cfg config.RateLimitConfig) echo.MiddlewareFunc {
	if cfg.Requests <= 0 || cfg.Interval <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				return next(c)
			}
		}
	}

	perRequest := cfg.Interval / time.Duration(cfg.Requests)
	if perRequest <= 0 {
		perRequest = time.Second
	}

	// rate.Limiter is safe for concurrent use.
	limiter := rate.NewLimiter(rate.Every(perRequest), cfg.Requests)
	retryAfter := strconv.Itoa(int(math.Ceil(perRequest.Seconds())))

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !limiter.Allow() {
				c.Response().Header().Set("Retry-After", retryAfter)
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"status":  "error",
					"message": "lead request rate limit exceeded",
				})
			}
			return next(c)
		}
	}
}
