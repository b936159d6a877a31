package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"loan-ledger/internal/domain/access"
)

const principalKey = "principal"

// Authenticator resolves an Authorization header to its caller.
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (*access.Principal, error)
}

// APIKeyAuth rejects requests without a valid, unrevoked API key and stores
// the resolved principal on the context.
func APIKeyAuth(auth Authenticator, log *zap.Logger) echo.MiddlewareFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, err := auth.Authenticate(c.Request().Context(), c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				if errors.Is(err, access.ErrUnauthorized) {
					return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
				}
				log.Error("authenticate", zap.Error(err))
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
			}
			c.Set(principalKey, p)
			return next(c)
		}
	}
}

// RequireAdmin must run after APIKeyAuth.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": access.ErrUnauthorized.Error()})
			}
			if !p.IsAdmin {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "admin privileges required"})
			}
			return next(c)
		}
	}
}

func PrincipalFrom(c echo.Context) (*access.Principal, bool) {
	p, ok := c.Get(principalKey).(*access.Principal)
	return p, ok && p != nil
}

// PrincipalScope keys idempotency entries by the authenticated user.
func PrincipalScope(c echo.Context) string {
	if p, ok := PrincipalFrom(c); ok {
		return "user:" + strconv.FormatUint(p.UserID, 10)
	}
	return "anon"
}
