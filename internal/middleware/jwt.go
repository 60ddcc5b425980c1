package middleware // middleware provides shared request processing for handlers

import (
    "log"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/volunteerhub/server/internal/utils"
)

// Context keys set by JWTAuth for downstream middleware and handlers.
const (
    ContextUserID = "user_id" // uint64 subject of the validated token
    ContextRole   = "role"    // model.Role carried by the validated token
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the token's subject and role into the request context.  The
// provided secret must match the one used when issuing tokens.  Validation
// happens on every request; there is no server-side session to consult.
// Failures are logged with their cause but surfaced to the client as a
// generic 401 so internals do not leak.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            claims, err := utils.ParseAccessToken(secret, raw, time.Now().UTC())
            if err != nil {
                log.Printf("auth: token rejected: %v", err)
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            c.Set(ContextUserID, claims.UserID)
            c.Set(ContextRole, claims.Role)
            return next(c)
        }
    }
}
