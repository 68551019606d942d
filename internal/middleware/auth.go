package middleware // middleware provides shared request processing for handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/RadislavKrasnov/contacts-api/internal/auth"
	"github.com/RadislavKrasnov/contacts-api/internal/model"
)

const userContextKey = "user"

// Auth returns an Echo middleware that resolves the bearer token into a user
// via the identity resolver and stores it in the request context. Missing or
// invalid tokens get a 401 with a WWW-Authenticate challenge; the error body
// never says which part of the check failed.
func Auth(resolver *auth.Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return unauthorized(c)
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			u, err := resolver.Resolve(c.Request().Context(), raw)
			if err != nil {
				if errors.Is(err, auth.ErrUnauthorized) {
					return unauthorized(c)
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "resolve user failed"})
			}

			c.Set(userContextKey, u)
			return next(c)
		}
	}
}

// RequireAdmin enforces the admin role on an already-resolved user. It must
// run after Auth.
func RequireAdmin(resolver *auth.Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := resolver.RequireAdmin(CurrentUser(c)); err != nil {
				return c.JSON(http.StatusForbidden, echo.Map{"error": auth.ErrForbidden.Error()})
			}
			return next(c)
		}
	}
}

// CurrentUser returns the user placed in context by Auth, or nil.
func CurrentUser(c echo.Context) *model.User {
	u, _ := c.Get(userContextKey).(*model.User)
	return u
}

func unauthorized(c echo.Context) error {
	c.Response().Header().Set("WWW-Authenticate", "Bearer")
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": auth.ErrUnauthorized.Error()})
}
