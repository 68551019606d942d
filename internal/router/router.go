package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/RadislavKrasnov/contacts-api/internal/auth"
	"github.com/RadislavKrasnov/contacts-api/internal/handler"
	"github.com/RadislavKrasnov/contacts-api/internal/middleware"
)

// Register wires every route group onto the Echo instance. Unauthenticated
// operations live under /api/auth; everything user-facing runs behind the
// identity resolver middleware.
func Register(e *echo.Echo,
	authH *handler.AuthHandler,
	userH *handler.UserHandler,
	contactH *handler.ContactHandler,
	healthH *handler.HealthHandler,
	resolver *auth.Resolver,
) {
	api := e.Group("/api")

	api.GET("/healthchecker", healthH.Healthchecker)

	a := api.Group("/auth")
	a.POST("/register", authH.Register)
	a.POST("/login", authH.Login)
	a.GET("/confirmed_email/:token", authH.ConfirmEmail)
	a.POST("/request_email", authH.RequestEmail)
	a.POST("/refresh-token", authH.RefreshToken)
	a.POST("/password-reset-request", authH.PasswordResetRequest)
	a.POST("/reset-password", authH.ResetPassword)

	users := api.Group("/users", middleware.Auth(resolver))
	users.GET("/me", userH.Me)
	// Avatar changes are restricted to admins.
	users.PATCH("/avatar", userH.UpdateAvatar, middleware.RequireAdmin(resolver))

	contacts := api.Group("/contacts", middleware.Auth(resolver))
	contacts.GET("", contactH.List)
	contacts.POST("", contactH.Create)
	contacts.GET("/search/", contactH.Search)
	contacts.GET("/upcoming_birthdays/", contactH.UpcomingBirthdays)
	contacts.GET("/:id", contactH.Get)
	contacts.PUT("/:id", contactH.Update)
	contacts.DELETE("/:id", contactH.Delete)
}
