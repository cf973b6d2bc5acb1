package venue

import (
	"errors"
	"strconv"

	"courtside/internal/api"
	"courtside/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// CreateVenue godoc
// @Summary      Create venue
// @Description  Registers a venue with its bookable sports, owned by the caller.
// @Tags         venues
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateVenueRequest  true  "Venue data"
// @Success      201      {object}  api.Envelope
// @Failure      400      {object}  api.ErrorResponse
// @Router       /venues [post]
func (h *Handler) CreateVenue(c *gin.Context) {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		c.Error(api.Unauthorized("user not authenticated"))
		return
	}

	var req CreateVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(api.BindingError(err))
		return
	}

	venue, err := h.repo.Create(c.Request.Context(), principal.UserID, req)
	if err != nil {
		c.Error(api.WrapError(api.KindServer, "failed to create venue", err))
		return
	}

	api.Created(c, "venue created", venue)
}

// ListVenues godoc
// @Summary      List active venues
// @Tags         venues
// @Produce      json
// @Success      200  {object}  api.Envelope
// @Router       /venues [get]
func (h *Handler) ListVenues(c *gin.Context) {
	venues, err := h.repo.List(c.Request.Context())
	if err != nil {
		c.Error(api.WrapError(api.KindServer, "failed to fetch venues", err))
		return
	}

	api.OK(c, "", venues)
}

// GetVenue godoc
// @Summary      Venue detail with sports
// @Tags         venues
// @Produce      json
// @Param        venueID  path      int  true  "Venue ID"
// @Success      200      {object}  api.Envelope
// @Failure      404      {object}  api.ErrorResponse
// @Router       /venues/{venueID} [get]
func (h *Handler) GetVenue(c *gin.Context) {
	venueID, err := strconv.Atoi(c.Param("venueID"))
	if err != nil {
		c.Error(api.Validation("invalid venue ID"))
		return
	}

	venue, err := h.repo.GetByID(c.Request.Context(), venueID)
	if err != nil {
		if errors.Is(err, ErrVenueNotFound) {
			c.Error(api.NotFound("venue not found"))
			return
		}
		c.Error(api.WrapError(api.KindServer, "failed to fetch venue", err))
		return
	}

	api.OK(c, "", venue)
}
