package tournament

import (
	"errors"
	"strconv"
	"time"

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

// CreateTournament godoc
// @Summary      Create tournament
// @Description  Creates a draft tournament; it activates once the entry order is captured.
// @Tags         tournaments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateTournamentRequest  true  "Tournament data"
// @Success      201      {object}  api.Envelope
// @Failure      400      {object}  api.ErrorResponse
// @Router       /tournaments [post]
func (h *Handler) CreateTournament(c *gin.Context) {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		c.Error(api.Unauthorized("user not authenticated"))
		return
	}

	var req CreateTournamentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(api.BindingError(err))
		return
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		c.Error(api.Validation("start_date must be YYYY-MM-DD"))
		return
	}

	t, err := h.repo.Create(c.Request.Context(), principal.UserID, req.Name, req.Sport, req.EntryFeeCents, startDate)
	if err != nil {
		c.Error(api.WrapError(api.KindServer, "failed to create tournament", err))
		return
	}

	api.Created(c, "tournament created", t)
}

// ListTournaments godoc
// @Summary      List tournaments
// @Tags         tournaments
// @Produce      json
// @Success      200  {object}  api.Envelope
// @Router       /tournaments [get]
func (h *Handler) ListTournaments(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		c.Error(api.WrapError(api.KindServer, "failed to fetch tournaments", err))
		return
	}

	api.OK(c, "", list)
}

// GetTournament godoc
// @Summary      Tournament detail
// @Tags         tournaments
// @Produce      json
// @Param        tournamentID  path      int  true  "Tournament ID"
// @Success      200  {object}  api.Envelope
// @Failure      404  {object}  api.ErrorResponse
// @Router       /tournaments/{tournamentID} [get]
func (h *Handler) GetTournament(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("tournamentID"))
	if err != nil {
		c.Error(api.Validation("invalid tournament ID"))
		return
	}

	t, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrTournamentNotFound) {
			c.Error(api.NotFound("tournament not found"))
			return
		}
		c.Error(api.WrapError(api.KindServer, "failed to fetch tournament", err))
		return
	}

	api.OK(c, "", t)
}

// ListSponsors godoc
// @Summary      Tournament sponsors
// @Tags         tournaments
// @Produce      json
// @Param        tournamentID  path      int  true  "Tournament ID"
// @Success      200  {object}  api.Envelope
// @Router       /tournaments/{tournamentID}/sponsors [get]
func (h *Handler) ListSponsors(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("tournamentID"))
	if err != nil {
		c.Error(api.Validation("invalid tournament ID"))
		return
	}

	sponsors, err := h.repo.ListSponsors(c.Request.Context(), id)
	if err != nil {
		c.Error(api.WrapError(api.KindServer, "failed to fetch sponsors", err))
		return
	}

	api.OK(c, "", sponsors)
}
