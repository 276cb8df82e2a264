package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/ecommerce_api/internal/logging"
	"github.com/Skotchmaster/ecommerce_api/internal/middleware/auth"
	"github.com/Skotchmaster/ecommerce_api/internal/result"
	"github.com/Skotchmaster/ecommerce_api/internal/service"
	"github.com/Skotchmaster/ecommerce_api/internal/tokens"
	"github.com/Skotchmaster/ecommerce_api/internal/transport"
)

type AuthHTTP struct {
	Svc        *service.AuthService
	RefreshTTL time.Duration
}

func setTokenCookies(c echo.Context, access string, accessExp time.Time, refresh string, refreshExp time.Time) {
	c.SetCookie(tokens.CreateCookie(tokens.AccessCookie, access, "/", accessExp))
	c.SetCookie(tokens.CreateCookie(tokens.RefreshCookie, refresh, "/", refreshExp))
}

func clearTokenCookies(c echo.Context) {
	c.SetCookie(tokens.DeleteCookie(tokens.AccessCookie, "/"))
	c.SetCookie(tokens.DeleteCookie(tokens.RefreshCookie, "/"))
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	return respond(c, h.Svc.Register(ctx, req))
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res := h.Svc.Login(ctx, req)
	if res.OK() {
		setTokenCookies(c, res.Data.AccessToken, res.Data.ExpiresAt, res.Data.RefreshToken, time.Now().Add(h.RefreshTTL))
	}
	return respond(c, res)
}

// Refresh accepts the refresh token from the body or, when the body has
// none, from the refresh cookie.
func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	var req transport.RefreshRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("refresh_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.RefreshToken == "" {
		if ck, err := c.Cookie(tokens.RefreshCookie); err == nil {
			req.RefreshToken = ck.Value
		}
	}

	res := h.Svc.Refresh(ctx, req.RefreshToken)
	switch {
	case res.OK():
		setTokenCookies(c, res.Data.AccessToken, res.Data.AccessExpiresAt, res.Data.RefreshToken, res.Data.RefreshExpiresAt)
	case res.Status == result.StatusUnauthorized:
		clearTokenCookies(c)
	}
	return respond(c, res)
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	userID, ok := auth.UserID(c)
	if !ok {
		l.Warn("logout_error", "status", 401, "reason", "no user in context")
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	clearTokenCookies(c)
	return respond(c, h.Svc.Logout(ctx, userID))
}
