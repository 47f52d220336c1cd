package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/raushankr553/land-block-flow/internal/chain"
	"github.com/raushankr553/land-block-flow/internal/crowdfund"
	"github.com/raushankr553/land-block-flow/internal/http/dto"
)

type CampaignHandler struct {
	readModel *crowdfund.ReadModel
	flows     *crowdfund.Flows
	log       *zap.Logger
}

func NewCampaignHandler(readModel *crowdfund.ReadModel, flows *crowdfund.Flows, log *zap.Logger) *CampaignHandler {
	return &CampaignHandler{readModel: readModel, flows: flows, log: log}
}

// List does a fresh all-or-nothing load of every campaign.
// GET /api/v1/campaigns
func (h *CampaignHandler) List(c *fiber.Ctx) error {
	campaigns, err := h.readModel.LoadAll(c.Context())
	if err != nil {
		return h.flowError(c, err)
	}

	now := time.Now()
	out := make([]dto.CampaignResponse, 0, len(campaigns))
	for _, campaign := range campaigns {
		out = append(out, toCampaignResponse(campaign, now))
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: out})
}

// Get returns one campaign from the snapshot, refreshing once if the
// id is unknown.
// GET /api/v1/campaigns/:id
func (h *CampaignHandler) Get(c *fiber.Ctx) error {
	id, err := parseCampaignID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	campaign, ok := h.readModel.Get(id)
	if !ok {
		if err := h.readModel.Refresh(c.Context()); err != nil {
			return h.flowError(c, err)
		}
		campaign, ok = h.readModel.Get(id)
	}
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "campaign not found"})
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: toCampaignResponse(campaign, time.Now())})
}

// Create runs the createCampaign mutation flow.
// POST /api/v1/campaigns
func (h *CampaignHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateCampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}

	result, err := h.flows.Create(c.Context(), req.Title, req.GoalEth, req.DurationDays)
	if err != nil {
		return h.flowError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: result})
}

// Donate runs the donate mutation flow.
// POST /api/v1/campaigns/:id/donate
func (h *CampaignHandler) Donate(c *fiber.Ctx) error {
	id, err := parseCampaignID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	var req dto.DonateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}

	result, err := h.flows.Donate(c.Context(), id, req.AmountEth)
	if err != nil {
		return h.flowError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: result})
}

// Contribution reads an address's total donation to a campaign,
// defaulting to the connected account.
// GET /api/v1/campaigns/:id/contribution?address=0x...
func (h *CampaignHandler) Contribution(c *fiber.Ctx) error {
	id, err := parseCampaignID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	addrParam := c.Query("address")
	var addr common.Address
	switch {
	case addrParam == "":
		sess, ok := h.readModel.SessionSnapshot()
		if !ok {
			return h.flowError(c, chain.ErrNoSession)
		}
		addr = sess.Account
	case common.IsHexAddress(addrParam):
		addr = common.HexToAddress(addrParam)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid address"})
	}

	amount, err := h.readModel.Contribution(c.Context(), id, addr)
	if err != nil {
		return h.flowError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.ContributionResponse{
		CampaignID: id,
		Address:    addr.Hex(),
		AmountWei:  amount.String(),
		AmountEth:  chain.FormatEther(amount),
	}})
}

// flowError converts a flow failure into exactly one user-visible
// error. A missing session is rejected locally (409), everything else
// carries the underlying message verbatim.
func (h *CampaignHandler) flowError(c *fiber.Ctx, err error) error {
	if errors.Is(err, chain.ErrNoSession) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	h.log.Debug("campaign flow failed", zap.Error(err))
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
}

func parseCampaignID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("invalid campaign id")
	}
	return id, nil
}

func toCampaignResponse(campaign crowdfund.Campaign, now time.Time) dto.CampaignResponse {
	return dto.CampaignResponse{
		ID:              campaign.ID,
		Owner:           campaign.Owner.Hex(),
		OwnerShort:      crowdfund.ShortAddress(campaign.Owner),
		Title:           campaign.Title,
		GoalWei:         campaign.Goal.String(),
		GoalEth:         chain.FormatEther(campaign.Goal),
		RaisedWei:       campaign.Raised.String(),
		RaisedEth:       chain.FormatEther(campaign.Raised),
		RemainingEth:    chain.FormatEther(campaign.Remaining()),
		Deadline:        campaign.Deadline.Unix(),
		ProgressPercent: campaign.ProgressPercent(),
		DaysLeft:        campaign.DaysLeft(now),
		Active:          campaign.Active,
		Expired:         campaign.IsExpired(now),
		Donatable:       campaign.IsDonatable(now),
	}
}
