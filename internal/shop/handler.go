package shop

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

// CreateShop godoc
// @Summary      Register shop
// @Tags         shops
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateShopRequest  true  "Shop data"
// @Success      201      {object}  api.Envelope
// @Router       /shops [post]
func (h *Handler) CreateShop(c *gin.Context) {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		c.Error(api.Unauthorized("user not authenticated"))
		return
	}

	var req CreateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(api.BindingError(err))
		return
	}

	s, err := h.repo.Create(c.Request.Context(), principal.UserID, req)
	if err != nil {
		c.Error(api.WrapError(api.KindServer, "failed to create shop", err))
		return
	}

	api.Created(c, "shop created", s)
}

// ListShops godoc
// @Summary      List shops
// @Tags         shops
// @Produce      json
// @Success      200  {object}  api.Envelope
// @Router       /shops [get]
func (h *Handler) ListShops(c *gin.Context) {
	shops, err := h.repo.List(c.Request.Context())
	if err != nil {
		c.Error(api.WrapError(api.KindServer, "failed to fetch shops", err))
		return
	}

	api.OK(c, "", shops)
}

// GetShop godoc
// @Summary      Shop detail
// @Tags         shops
// @Produce      json
// @Param        shopID  path  int  true  "Shop ID"
// @Success      200  {object}  api.Envelope
// @Failure      404  {object}  api.ErrorResponse
// @Router       /shops/{shopID} [get]
func (h *Handler) GetShop(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("shopID"))
	if err != nil {
		c.Error(api.Validation("invalid shop ID"))
		return
	}

	s, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrShopNotFound) {
			c.Error(api.NotFound("shop not found"))
			return
		}
		c.Error(api.WrapError(api.KindServer, "failed to fetch shop", err))
		return
	}

	api.OK(c, "", s)
}
