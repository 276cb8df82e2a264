package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/ecommerce_api/internal/logging"
	"github.com/Skotchmaster/ecommerce_api/internal/service"
	"github.com/Skotchmaster/ecommerce_api/internal/tokens"
)

const (
	CtxUserID = "user_id"
	CtxEmail  = "email"
)

type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*tokens.AccessClaims, error)
}

type RequireAuth struct {
	Auth Authenticator
}

func NewRequireAuth(auth Authenticator) *RequireAuth {
	return &RequireAuth{Auth: auth}
}

// bearerToken takes the access token from the Authorization header and falls
// back to the access cookie.
func bearerToken(c echo.Context) string {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if token, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	if ck, err := c.Cookie(tokens.AccessCookie); err == nil {
		return ck.Value
	}
	return ""
}

func (m *RequireAuth) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("handler", "require_auth")

		token := bearerToken(c)
		if token == "" {
			l.Warn("auth_failed", "status", 401, "reason", "missing access token")
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := m.Auth.Authenticate(ctx, token)
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				l.Warn("auth_failed", "status", 401, "reason", "invalid or expired token", "error", err)
				c.SetCookie(tokens.DeleteCookie(tokens.AccessCookie, "/"))
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}
			l.Error("auth_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}

		userID, err := claims.UserID()
		if err != nil {
			l.Warn("auth_failed", "status", 401, "reason", "token has no subject")
			return echo.NewHTTPError(http.StatusUnauthorized, "token has no subject")
		}

		c.Set(CtxUserID, userID)
		c.Set(CtxEmail, claims.Email)
		c.SetRequest(c.Request().WithContext(logging.IntoContext(ctx, logging.FromContext(ctx).With("user_id", userID))))

		return next(c)
	}
}

// UserID returns the authenticated user set by Middleware.
func UserID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(CtxUserID).(uuid.UUID)
	return id, ok && id != uuid.Nil
}
