package handler

import (
	"github.com/aryamansrivastava/account-service/internal/ratelimit"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Auth     *AuthHandler
	Users    *UserHandler
	Sessions *SessionHandler
	Devices  *DeviceHandler
	Gate     *AuthGate
	Limiter  *ratelimit.Limiter
}

func RegisterRoutes(app *fiber.App, h Handlers) {
	limit := h.Limiter.Middleware()
	auth := h.Gate.RequireAuth()

	app.Post("/signup", h.Auth.Signup)
	app.Post("/login", limit, h.Auth.Login)
	app.Post("/logout", auth, h.Auth.Logout)
	app.Get("/verify-token", h.Gate.RequireBearer(), h.Auth.VerifyToken)

	app.Post("/create", auth, h.Users.Create)
	app.Get("/getuser/:id", limit, auth, h.Users.GetByID)
	app.Get("/getallusers", limit, auth, h.Users.List)
	app.Delete("/delete/:id", auth, h.Users.Delete)
	app.Put("/update/:id", auth, h.Users.Update)

	sessions := app.Group("/sessions")
	sessions.Post("/start", h.Sessions.Start)
	sessions.Get("/:id", h.Sessions.GetByID)

	devices := app.Group("/devices")
	devices.Post("/", h.Devices.Create)
	devices.Get("/:id", h.Devices.ListByUser)
}
