package provider

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

// CreateProvider godoc
// @Summary      Register as service provider
// @Tags         providers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateProviderRequest  true  "Provider data"
// @Success      201      {object}  api.Envelope
// @Router       /providers [post]
func (h *Handler) CreateProvider(c *gin.Context) {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		c.Error(api.Unauthorized("user not authenticated"))
		return
	}

	var req CreateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(api.BindingError(err))
		return
	}

	p, err := h.repo.Create(c.Request.Context(), principal.UserID, req)
	if err != nil {
		c.Error(api.WrapError(api.KindServer, "failed to create provider", err))
		return
	}

	api.Created(c, "provider created", p)
}

// ListProviders godoc
// @Summary      List service providers
// @Tags         providers
// @Produce      json
// @Success      200  {object}  api.Envelope
// @Router       /providers [get]
func (h *Handler) ListProviders(c *gin.Context) {
	providers, err := h.repo.List(c.Request.Context())
	if err != nil {
		c.Error(api.WrapError(api.KindServer, "failed to fetch providers", err))
		return
	}

	api.OK(c, "", providers)
}

// GetProvider godoc
// @Summary      Provider detail
// @Tags         providers
// @Produce      json
// @Param        providerID  path  int  true  "Provider ID"
// @Success      200  {object}  api.Envelope
// @Failure      404  {object}  api.ErrorResponse
// @Router       /providers/{providerID} [get]
func (h *Handler) GetProvider(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("providerID"))
	if err != nil {
		c.Error(api.Validation("invalid provider ID"))
		return
	}

	p, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrProviderNotFound) {
			c.Error(api.NotFound("provider not found"))
			return
		}
		c.Error(api.WrapError(api.KindServer, "failed to fetch provider", err))
		return
	}

	api.OK(c, "", p)
}
