package observability

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/propdesk/maintenance-service/pkg/util/errorutil"
)

// RequestLogger logs each request and records its metrics. It runs inside the
// error middleware, so the status it sees for failed handlers is derived from
// the returned error.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		latency := time.Since(start)

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			var de *errorutil.DomainError
			switch {
			case errors.As(err, &fe):
				status = fe.Code
			case errors.As(err, &de):
				status = de.HTTPStatus
			}
		}

		route := c.Route().Path
		metrics.RecordRequest(route, c.Method(), status, latency)
		logger.Info("http request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("latency", latency),
		)
		return err
	}
}
