package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/giveloop/giveloop/internal/directory"
)

// RegisterUserRoutes wires public account endpoints.
func RegisterUserRoutes(r fiber.Router, h *directory.Handler) {
	r.Post("/users", h.Register)
}

// RegisterProtectedUserRoutes wires account endpoints requiring authentication.
func RegisterProtectedUserRoutes(r fiber.Router, h *directory.Handler) {
	r.Get("/users/:userId", h.Get)
	r.Get("/users/:userId/balance", h.Balance)
	r.Get("/usernames/:username", h.Lookup)
}
