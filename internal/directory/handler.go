package directory

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes account endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a directory HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type registerRequest struct {
	Phone       string `json:"phone"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Passcode    string `json:"passcode"`
	Role        string `json:"role"`
	KeyType     string `json:"key_type"`
}

type userResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role,omitempty"`
	Balance     int64  `json:"balance"`
}

func toUserResponse(u User) userResponse {
	return userResponse{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		Balance:     u.Balance,
	}
}

// Register handles account onboarding.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	user, err := h.service.Register(c.UserContext(), RegisterInput{
		Phone:       req.Phone,
		Username:    req.Username,
		DisplayName: req.DisplayName,
		Passcode:    req.Passcode,
		Role:        req.Role,
		KeyType:     req.KeyType,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrUserExists), errors.Is(err, ErrUsernameTaken):
			return fiber.NewError(http.StatusConflict, err.Error())
		default:
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
	}
	return c.Status(http.StatusCreated).JSON(toUserResponse(user))
}

// Get returns a user profile by id.
func (h *Handler) Get(c *fiber.Ctx) error {
	user, err := h.service.Get(c.UserContext(), c.Params("userId"))
	if err != nil {
		return fiber.NewError(http.StatusNotFound, "user not found")
	}
	return c.Status(http.StatusOK).JSON(toUserResponse(user))
}

// Lookup resolves a username to a profile.
func (h *Handler) Lookup(c *fiber.Ctx) error {
	user, err := h.service.Lookup(c.UserContext(), c.Params("username"))
	if err != nil {
		return fiber.NewError(http.StatusNotFound, "user not found")
	}
	return c.Status(http.StatusOK).JSON(toUserResponse(user))
}

// Balance returns the current wallet balance for a user.
func (h *Handler) Balance(c *fiber.Ctx) error {
	user, err := h.service.Get(c.UserContext(), c.Params("userId"))
	if err != nil {
		return fiber.NewError(http.StatusNotFound, "user not found")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"user_id": user.ID,
		"balance": user.Balance,
	})
}
