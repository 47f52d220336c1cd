package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/raushankr553/land-block-flow/internal/http/dto"
)

// ContactHandler receives the marketing-page contact form. Nothing is
// stored; submissions are logged for the operator to follow up.
type ContactHandler struct {
	log *zap.Logger
}

func NewContactHandler(log *zap.Logger) *ContactHandler {
	return &ContactHandler{log: log}
}

// Submit validates and acknowledges a contact form submission.
// POST /api/v1/contact
func (h *ContactHandler) Submit(c *fiber.Ctx) error {
	var req dto.ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)

	if req.Name == "" || req.Email == "" || req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "name, email, and message are required"})
	}
	if !strings.Contains(req.Email, "@") {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid email"})
	}

	h.log.Info("contact form submission",
		zap.String("name", req.Name),
		zap.String("email", req.Email),
		zap.Int("message_len", len(req.Message)),
	)

	return c.JSON(dto.SuccessResponse{OK: true})
}
