package server

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v5"
)

// RequestLogger logs one line per request with method, path, status, and
// duration.
func RequestLogger(log *slog.Logger) echo.MiddlewareFunc {
	log = log.With("component", "http_access")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			start := time.Now()

			err := next(c)

			status := 0
			if resp, uerr := echo.UnwrapResponse(c.Response()); uerr == nil {
				status = resp.Status
			}

			req := c.Request()
			log.InfoContext(req.Context(), "request handled",
				"method", req.Method,
				"path", req.URL.Path,
				"status", status,
				"duration", time.Since(start))
			return err
		}
	}
}
