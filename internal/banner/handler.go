package banner

import (
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

// CreateBanner godoc
// @Summary      Create banner ad
// @Description  Creates an inactive banner; it goes live when the banner order is captured.
// @Tags         banners
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateBannerRequest  true  "Banner data"
// @Success      201      {object}  api.Envelope
// @Router       /banners [post]
func (h *Handler) CreateBanner(c *gin.Context) {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		c.Error(api.Unauthorized("user not authenticated"))
		return
	}

	var req CreateBannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(api.BindingError(err))
		return
	}

	b, err := h.repo.Create(c.Request.Context(), principal.UserID, req)
	if err != nil {
		c.Error(api.WrapError(api.KindServer, "failed to create banner", err))
		return
	}

	api.Created(c, "banner created", b)
}

// ListBanners godoc
// @Summary      List live banners
// @Tags         banners
// @Produce      json
// @Success      200  {object}  api.Envelope
// @Router       /banners [get]
func (h *Handler) ListBanners(c *gin.Context) {
	banners, err := h.repo.ListActive(c.Request.Context())
	if err != nil {
		c.Error(api.WrapError(api.KindServer, "failed to fetch banners", err))
		return
	}

	api.OK(c, "", banners)
}
