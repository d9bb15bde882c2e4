package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/ashkhen/user-accounts-service/internal/auth"       // auth provides the session resolver consumed by the middleware
	"github.com/ashkhen/user-accounts-service/internal/handler"    // import the handlers that implement business logic
	"github.com/ashkhen/user-accounts-service/internal/middleware" // import middleware for session resolution and role enforcement
)

// RegisterRoutes registers the unversioned infrastructure routes: the
// health check, which load balancer probes hit without any API version
// prefix.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthcheck", handler.Health)
}

// RegisterAPI registers the versioned API and applies the necessary
// middleware.  Login, logout and registration live outside the session
// middleware; everything else resolves the caller's session first, and
// user mutations additionally require the admin role.
func RegisterAPI(
	e *echo.Echo,
	a *handler.AuthHandler,
	u *handler.UserHandler,
	r *handler.RoleHandler,
	res *auth.Resolver,
	cache echo.MiddlewareFunc,
) {
	session := middleware.RequireSession(res)

	// Authentication endpoints.  Logout is not behind the session
	// middleware: it validates the token itself, because a deactivated
	// account fails full session resolution yet must still be able to
	// revoke its token.
	ag := e.Group("/v1/auth")
	ag.POST("/login", a.Login)
	ag.POST("/logout", a.Logout)
	ag.GET("/me", a.Me, session)

	// Registration is open; reading the directory needs a session and
	// mutating it needs the admin role.
	e.POST("/v1/users", u.Create)
	users := e.Group("/v1/users", session)
	users.GET("", u.Search)
	admin := middleware.RequireRole("admin")
	users.PUT("/:id", u.Update, admin)
	users.DELETE("/:email", u.Deactivate, admin)

	// The role directory changes only via migrations, so its responses
	// are served through the Redis response cache.
	roles := e.Group("/v1/roles", session)
	roles.GET("", r.List, cache)
	roles.GET("/:id", r.GetByID, cache)
}
