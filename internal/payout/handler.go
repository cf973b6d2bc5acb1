package payout

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"courtside/internal/api"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Create godoc
// @Summary      Create payout
// @Description  Submits a transfer to a venue or provider owner. Safe to repeat with the same idempotency key.
// @Tags         payouts
// @Accept       json
// @Produce      json
// @Param        request  body      CreatePayoutRequest  true  "Payout details"
// @Success      201      {object}  api.Envelope
// @Failure      400      {object}  api.ErrorResponse
// @Router       /admin/payouts [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreatePayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(api.BindingError(err))
		return
	}

	p, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}

	api.Created(c, "payout submitted", p)
}

func (h *Handler) Retry(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("payoutID"))
	if err != nil {
		c.Error(api.Validation("invalid payout id"))
		return
	}

	p, err := h.service.Retry(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	api.OK(c, "payout resubmitted", p)
}

// Sync pulls the latest status from the gateway.
func (h *Handler) Sync(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("payoutID"))
	if err != nil {
		c.Error(api.Validation("invalid payout id"))
		return
	}

	p, err := h.service.SyncStatus(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	api.OK(c, "payout status", p)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("payoutID"))
	if err != nil {
		c.Error(api.Validation("invalid payout id"))
		return
	}

	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	api.OK(c, "payout", p)
}

func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	payouts, err := h.service.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.fail(c, err)
		return
	}

	api.OK(c, "payouts", payouts)
}

// ListNeedingAttention surfaces failed and stuck payouts for ops.
func (h *Handler) ListNeedingAttention(c *gin.Context) {
	payouts, err := h.service.ListNeedingAttention(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	api.OK(c, "payouts needing attention", payouts)
}

func (h *Handler) fail(c *gin.Context, err error) {
	var apiErr *api.Error
	switch {
	case errors.As(err, &apiErr):
		c.Error(apiErr)
	case errors.Is(err, ErrPayoutNotFound):
		c.Error(api.NotFound("payout not found"))
	case errors.Is(err, ErrNotRetryable), errors.Is(err, ErrRetriesExhausted), errors.Is(err, ErrBadTransition):
		c.Error(api.Conflict(err.Error()))
	default:
		c.Error(api.WrapError(api.KindServer, "payout operation failed", err))
	}
}
