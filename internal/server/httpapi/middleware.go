package httpapi

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"internship_service/internal/domain"
	"internship_service/pkg/logger"
)

const actorContextKey = "actor"

// ActorMiddleware builds the acting identity from the X-User-Id and
// X-User-Role headers set by the gateway. The core never reads ambient
// session state; handlers pass the actor explicitly into every service call.
func ActorMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := uuid.Parse(c.Request().Header.Get("X-User-Id"))
			if err != nil {
				return unauthorized(c, "missing or invalid X-User-Id header")
			}

			role := domain.UserRole(c.Request().Header.Get("X-User-Role"))
			if !role.IsValid() {
				return unauthorized(c, "missing or invalid X-User-Role header")
			}

			c.Set(actorContextKey, domain.Actor{ID: id, Role: role})
			return next(c)
		}
	}
}

func actorFrom(c echo.Context) (domain.Actor, error) {
	actor, ok := c.Get(actorContextKey).(domain.Actor)
	if !ok {
		return domain.Actor{}, unauthorized(c, "no actor on request")
	}
	return actor, nil
}

// RequestLogger logs one line per request with method, path, status and
// duration.
func RequestLogger(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			fields := []zap.Field{
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
			}
			if err != nil {
				fields = append(fields, zap.Error(err))
				log.Error("request failed", fields...)
				return err
			}
			log.Info("request handled", fields...)
			return nil
		}
	}
}
