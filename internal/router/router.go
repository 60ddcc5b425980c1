package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4"

    "github.com/volunteerhub/server/internal/handler"
    "github.com/volunteerhub/server/internal/middleware"
    "github.com/volunteerhub/server/internal/model"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check, used by load balancers to
// verify that the service is up.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the credential endpoints.  Register and login are
// unauthenticated by nature and sit behind the rate limiter so password
// guessing is throttled; /v1/me requires a valid token of any role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
    g := e.Group("/v1/auth", limiter)
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)

    e.GET("/v1/me", a.Me, middleware.JWTAuth(jwtSecret))
}

// RegisterEvents registers the event and sponsorship endpoints with their
// per-operation allow-sets:
//
//	create/update event, list sponsorships – ministry
//	register for event                     – individual, university_club
//	create sponsorship                     – company
//	list events                            – public (response-cached)
func RegisterEvents(e *echo.Echo, h *handler.EventHandler, sp *handler.SponsorshipHandler, jwtSecret string, cache echo.MiddlewareFunc) {
    e.GET("/v1/events", h.List, cache)

    ministry := e.Group("/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(model.RoleMinistry),
    )
    ministry.POST("/events", h.Create)
    ministry.PUT("/events/:id", h.Update)
    ministry.GET("/events/:id/sponsorships", sp.ListByEvent)

    volunteers := e.Group("/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(model.RoleIndividual, model.RoleUniversityClub),
    )
    volunteers.POST("/events/:id/register", h.RegisterForEvent)

    companies := e.Group("/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(model.RoleCompany),
    )
    companies.POST("/events/:id/sponsorships", sp.Create)
}
