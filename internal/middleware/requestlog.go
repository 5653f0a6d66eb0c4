package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// RequestLogger assigns every request an id (reusing X-Request-ID when the
// client sends one) and logs its outcome once the handler chain returns.
// Errors are passed to the echo error handler before logging so the logged
// status is the one the client receives.
func RequestLogger(log *logrus.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, id)

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			entry := log.WithFields(logrus.Fields{
				"request_id": id,
				"method":     c.Request().Method,
				"path":       c.Request().URL.Path,
				"status":     c.Response().Status,
				"latency_ms": time.Since(start).Milliseconds(),
				"principal":  principalName(c),
			})
			switch status := c.Response().Status; {
			case status >= 500:
				entry.Error("Request failed")
			case status >= 400:
				entry.Info("Request rejected")
			default:
				entry.Debug("Request served")
			}
			return nil
		}
	}
}
