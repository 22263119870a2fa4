package middleware

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/teukusulthan/ninetyn-client/internal/guard"
	"github.com/teukusulthan/ninetyn-client/internal/model"
)

// RequireRole gates routes on the session. An empty role only demands a
// credential. Denials redirect the way the web views did: to the login page
// with the intended destination preserved, or to the home fallback.
func RequireRole(g *guard.Guard, role model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch g.Check(c.Request().Context(), role) {
			case guard.RedirectLogin:
				return c.Redirect(http.StatusSeeOther,
					"/login?redirect="+url.QueryEscape(c.Request().URL.Path))
			case guard.RedirectUnauthorized:
				return c.Redirect(http.StatusSeeOther, "/")
			}
			return next(c)
		}
	}
}
