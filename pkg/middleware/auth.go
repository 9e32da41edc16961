package middleware

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "parc-info/pkg/errors"
	"parc-info/pkg/session"
	"parc-info/pkg/utils"
)

type AuthMiddleware struct {
	sessions   *session.Manager
	cookieName string
	logger     *zap.Logger
}

func NewAuthMiddleware(sessions *session.Manager, cookieName string, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		sessions:   sessions,
		cookieName: cookieName,
		logger:     logger,
	}
}

// Auth resolves the session cookie into an Identity and injects it into the
// request context. No cookie, an unknown session or a tampered token all
// end the request with 401.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(m.cookieName)
		if err != nil || cookie.Value == "" {
			return utils.ErrorResponse(c, apperrors.ErrUnauthorized, m.logger)
		}

		identity, err := m.sessions.Resolve(c.Request().Context(), cookie.Value)
		if err != nil {
			m.logger.Warn("session resolution failed", zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}

		c.SetRequest(c.Request().WithContext(session.WithIdentity(c.Request().Context(), identity)))
		return next(c)
	}
}

// RequireRoles gates a route on the caller's role. Enforcement lives here,
// server-side, independent of whatever the frontend chooses to render.
func (m *AuthMiddleware) RequireRoles(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, err := session.FromContext(c.Request().Context())
			if err != nil {
				return utils.ErrorResponse(c, apperrors.ErrUnauthorized, m.logger)
			}

			for _, role := range roles {
				if identity.Role == role {
					return next(c)
				}
			}

			m.logger.Warn("role gate rejected request",
				zap.String("role", identity.Role),
				zap.String("path", c.Path()),
			)
			return utils.ErrorResponse(c, apperrors.ErrForbidden, m.logger)
		}
	}
}
