package handler // handler defines http handlers

import (
    "errors"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/volunteerhub/server/internal/middleware"
    "github.com/volunteerhub/server/internal/model"
)

// dbTimeout bounds every database call made from a handler.
const dbTimeout = 5 * time.Second

// dateLayout is the wire format for event dates.
const dateLayout = "2006-01-02"

// callerID extracts the authenticated user's ID stored by the JWT
// middleware.  A missing or mistyped value means the route was registered
// without JWTAuth, which is a wiring bug, but it is reported as
// unauthorized rather than a crash.
func callerID(c echo.Context) (uint64, error) {
    if id, ok := c.Get(middleware.ContextUserID).(uint64); ok && id != 0 {
        return id, nil
    }
    return 0, errors.New("no authenticated user in context")
}

// callerRole extracts the authenticated user's role from the context.
func callerRole(c echo.Context) (model.Role, error) {
    if r, ok := c.Get(middleware.ContextRole).(model.Role); ok && r.Valid() {
        return r, nil
    }
    return "", errors.New("no authenticated role in context")
}
