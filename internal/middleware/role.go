package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/volunteerhub/server/internal/model"
)

// RequireRole returns a middleware that enforces that the authenticated
// caller's role is in the operation's allow-set.  It is a pure predicate
// over the role JWTAuth stored in the context: the identity passes through
// unchanged on success, and a missing or disallowed role aborts the
// request with 403 Forbidden.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
    allowed := make(map[model.Role]bool, len(roles))
    for _, r := range roles {
        allowed[r] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            role, ok := c.Get(ContextRole).(model.Role)
            if !ok || !allowed[role] {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "not authorized to access this resource"})
            }
            return next(c)
        }
    }
}
