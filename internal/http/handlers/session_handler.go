package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/raushankr553/land-block-flow/internal/chain"
	"github.com/raushankr553/land-block-flow/internal/crowdfund"
	"github.com/raushankr553/land-block-flow/internal/http/dto"
)

type SessionHandler struct {
	sessions *chain.Manager
	log      *zap.Logger
}

func NewSessionHandler(sessions *chain.Manager, log *zap.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, log: log}
}

// Connect authorizes the wallet and binds the contract handle.
// POST /api/v1/session/connect
func (h *SessionHandler) Connect(c *fiber.Ctx) error {
	if err := h.sessions.Connect(c.Context()); err != nil {
		h.log.Warn("wallet connect failed", zap.Error(err))
		status := fiber.StatusBadRequest
		switch {
		case errors.Is(err, chain.ErrWalletUnavailable):
			status = fiber.StatusServiceUnavailable
		case errors.Is(err, chain.ErrAuthorization):
			status = fiber.StatusUnauthorized
		}
		return c.Status(status).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: h.sessionResponse()})
}

// Disconnect clears the session. Always succeeds.
// DELETE /api/v1/session
func (h *SessionHandler) Disconnect(c *fiber.Ctx) error {
	h.sessions.Disconnect()
	return c.JSON(dto.SuccessResponse{OK: true})
}

// Get returns the current session snapshot.
// GET /api/v1/session
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: h.sessionResponse()})
}

func (h *SessionHandler) sessionResponse() dto.SessionResponse {
	sess, ok := h.sessions.Session()
	if !ok {
		return dto.SessionResponse{Connected: false}
	}
	return dto.SessionResponse{
		Connected:    true,
		Account:      sess.Account.Hex(),
		AccountShort: crowdfund.ShortAddress(sess.Account),
		ChainID:      sess.ChainID.Int64(),
		Contract:     sess.Contract.Address().Hex(),
	}
}
