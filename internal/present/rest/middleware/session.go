package middleware

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/driftpad/driftpad/internal/domain"
	"github.com/driftpad/driftpad/internal/service"
)

var tracer = otel.Tracer("session")

type SessionMiddleware struct {
	sessions *service.SessionService
}

func NewSessionMiddleware(sessions *service.SessionService) *SessionMiddleware {
	return &SessionMiddleware{
		sessions: sessions,
	}
}

// IdentifySession resolves the session cookie into a requester address on the
// request context. A missing or unresolvable cookie is not an error here; the
// request continues unauthenticated and the bootstrap path decides what to do.
func (m *SessionMiddleware) IdentifySession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, span := tracer.Start(c.Request().Context(), "Session.Middleware.IdentifySession")
		defer span.End()

		cookie, err := c.Cookie(domain.SessionCookieName)
		if err == nil && cookie.Value != "" {
			id, err := m.sessions.Resolve(ctx, cookie.Value)
			if err != nil {
				span.RecordError(errors.Wrap(err, "SessionMiddleware.IdentifySession: resolve failed"))
			} else {
				ctx = context.WithValue(ctx, domain.RequesterAddressCtxKey, id.Address())
				ctx = context.WithValue(ctx, domain.SessionTokenCtxKey, cookie.Value)
				span.SetAttributes(attribute.String("RequesterAddress", id.Address()))
			}
		}

		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}
