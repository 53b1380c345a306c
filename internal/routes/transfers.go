package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/giveloop/giveloop/internal/ledger"
)

// RegisterTransferRoutes wires transfer lifecycle endpoints.
func RegisterTransferRoutes(r fiber.Router, h *ledger.Handler) {
	r.Post("/transfers", h.Create)
	r.Get("/transfers/:transferId", h.Get)
	r.Post("/transfers/:transferId/accept", h.Accept)
	r.Post("/transfers/:transferId/decline", h.Decline)
	r.Get("/users/:userId/transfers", h.ListForUser)
	r.Get("/users/:userId/transfers/pending", h.ListPendingForUser)
}
