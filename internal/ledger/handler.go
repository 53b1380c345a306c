package ledger

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/giveloop/giveloop/internal/directory"
	"github.com/giveloop/giveloop/internal/kvstore"
)

// Handler exposes transfer endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a transfer HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createTransferRequest struct {
	FromUser string `json:"from_user"`
	ToUser   string `json:"to_user"`
	Amount   int64  `json:"amount"`
	Purpose  string `json:"purpose"`
}

type transferResponse struct {
	ID        string `json:"id"`
	FromUser  string `json:"from_user"`
	ToUser    string `json:"to_user"`
	Amount    int64  `json:"amount"`
	Purpose   string `json:"purpose,omitempty"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toResponse(t Transfer) transferResponse {
	return transferResponse{
		ID:        t.ID,
		FromUser:  t.FromUser,
		ToUser:    t.ToUser,
		Amount:    t.Amount,
		Purpose:   t.Purpose,
		Status:    t.Status,
		CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: t.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// Create proposes a transfer from the authenticated user.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createTransferRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	uid, _ := c.Locals("user_id").(string)
	if req.FromUser == "" {
		req.FromUser = uid
	}
	if uid != "" && req.FromUser != uid {
		return fiber.NewError(http.StatusForbidden, "not owner of source account")
	}

	transfer, err := h.service.CreateTransfer(c.UserContext(), req.FromUser, req.ToUser, req.Amount, req.Purpose)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusCreated).JSON(toResponse(transfer))
}

// Accept resolves a pending transfer in the recipient's favor.
func (h *Handler) Accept(c *fiber.Ctx) error {
	return h.resolve(c, StatusAccepted)
}

// Decline resolves a pending transfer back to the sender.
func (h *Handler) Decline(c *fiber.Ctx) error {
	return h.resolve(c, StatusDeclined)
}

func (h *Handler) resolve(c *fiber.Ctx, terminal string) error {
	id := c.Params("transferId")
	uid, _ := c.Locals("user_id").(string)

	transfer, err := h.service.GetTransfer(c.UserContext(), id)
	if err != nil {
		return mapError(err)
	}
	if uid != "" && transfer.ToUser != uid {
		return fiber.NewError(http.StatusForbidden, "only the recipient may resolve a transfer")
	}

	if terminal == StatusAccepted {
		transfer, err = h.service.AcceptTransfer(c.UserContext(), id)
	} else {
		transfer, err = h.service.DeclineTransfer(c.UserContext(), id)
	}
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(toResponse(transfer))
}

// Get returns a single transfer.
func (h *Handler) Get(c *fiber.Ctx) error {
	transfer, err := h.service.GetTransfer(c.UserContext(), c.Params("transferId"))
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(toResponse(transfer))
}

// ListForUser returns recent activity for a user, newest first.
func (h *Handler) ListForUser(c *fiber.Ctx) error {
	limit := 0
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return fiber.NewError(http.StatusBadRequest, "invalid limit")
		}
		limit = parsed
	}

	transfers, err := h.service.ListTransfersFor(c.UserContext(), c.Params("userId"), limit)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(listResponse(transfers))
}

// ListPendingForUser returns transfers awaiting the user's decision.
func (h *Handler) ListPendingForUser(c *fiber.Ctx) error {
	transfers, err := h.service.ListPendingFor(c.UserContext(), c.Params("userId"))
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(listResponse(transfers))
}

func listResponse(transfers []Transfer) fiber.Map {
	out := make([]transferResponse, 0, len(transfers))
	for _, t := range transfers {
		out = append(out, toResponse(t))
	}
	return fiber.Map{"transfers": out, "count": len(out)}
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return fiber.NewError(http.StatusBadRequest, "amount must be positive")
	case errors.Is(err, ErrInsufficientFunds):
		return fiber.NewError(http.StatusBadRequest, "insufficient funds")
	case errors.Is(err, ErrTransferNotFound), errors.Is(err, directory.ErrUserNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrAlreadyResolved):
		return fiber.NewError(http.StatusConflict, "transfer already resolved")
	case errors.Is(err, kvstore.ErrUnavailable):
		return fiber.NewError(http.StatusServiceUnavailable, "storage unavailable")
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
