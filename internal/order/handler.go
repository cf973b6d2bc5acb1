package order

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"courtside/internal/api"
	"courtside/internal/auth"
	"courtside/internal/booking"
	"courtside/internal/logger"
)

type Handler struct {
	service    Service
	bookings   booking.Service
	retryQueue *RetryQueue
}

func NewHandler(service Service, bookings booking.Service, retryQueue *RetryQueue) *Handler {
	return &Handler{service: service, bookings: bookings, retryQueue: retryQueue}
}

// CreateFor returns the create handler for one purchase kind; the router
// registers one route per kind.
func (h *Handler) CreateFor(kind OrderType) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := auth.GetPrincipal(c)
		if !ok {
			c.Error(api.Unauthorized("authentication required"))
			return
		}

		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(api.BindingError(err))
			return
		}

		resp, err := h.service.CreateOrder(c.Request.Context(), principal, kind, req)
		if err != nil {
			h.fail(c, err)
			return
		}

		api.Created(c, "order created", resp)
	}
}

// BookingCheckoutRequest locks the slots and opens the order in one call.
type BookingCheckoutRequest struct {
	booking.CheckoutRequest
	ProcessingFee  decimal.Decimal `json:"processing_fee"`
	ConvenienceFee decimal.Decimal `json:"convenience_fee"`
	GSTAmount      decimal.Decimal `json:"gst_amount"`
	PaymentMode    string          `json:"payment_mode"`
}

type BookingCheckoutResponse struct {
	Booking *booking.BookingWithSlots `json:"booking"`
	Order   *CreateOrderResponse      `json:"order"`
}

// CheckoutBooking godoc
// @Summary      Checkout slots
// @Description  Locks the requested slots and opens a payment order for them.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        request  body      BookingCheckoutRequest  true  "Slots and fee breakdown"
// @Success      201      {object}  api.Envelope
// @Failure      400      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /bookings/checkout [post]
func (h *Handler) CheckoutBooking(c *gin.Context) {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		c.Error(api.Unauthorized("authentication required"))
		return
	}

	var req BookingCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(api.BindingError(err))
		return
	}

	held, err := h.bookings.AcquireLock(c.Request.Context(), principal, req.CheckoutRequest)
	if err != nil {
		if errors.Is(err, booking.ErrSlotUnavailable) {
			c.Error(api.Conflict("one or more slots are no longer available"))
			return
		}
		h.fail(c, err)
		return
	}

	// The charge is priced from the locked booking, not the client.
	base := decimal.NewFromInt(held.Booking.TotalCents).Div(decimal.NewFromInt(100))
	total := base.Add(req.ProcessingFee).Add(req.ConvenienceFee).Add(req.GSTAmount)

	orderReq := CreateOrderRequest{
		TargetID:       held.Booking.ID,
		BaseAmount:     base,
		ProcessingFee:  req.ProcessingFee,
		ConvenienceFee: req.ConvenienceFee,
		GSTAmount:      req.GSTAmount,
		TotalAmount:    total,
		PaymentMode:    req.PaymentMode,
	}

	resp, err := h.service.CreateOrder(c.Request.Context(), principal, TypeBooking, orderReq)
	if err != nil {
		// The hold is useless without an order; give the slots back now
		// instead of waiting for the sweeper.
		if relErr := h.bookings.ReleaseLock(c.Request.Context(), held.Booking.ID); relErr != nil {
			c.Error(api.WrapError(api.KindServer, "failed to release slot hold", relErr))
			return
		}
		h.fail(c, err)
		return
	}

	api.Created(c, "slots held and order created", BookingCheckoutResponse{
		Booking: held,
		Order:   resp,
	})
}

// Webhook godoc
// @Summary      Payment gateway webhook
// @Description  Settles an order from a gateway callback. Always returns 200 so the gateway does not retry endlessly.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Success      200  {object}  api.Envelope
// @Router       /payments/webhook [post]
func (h *Handler) Webhook(c *gin.Context) {
	var req WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Malformed payloads are acknowledged and dropped; a retry would
		// be just as malformed.
		api.OK(c, "ignored", nil)
		return
	}

	entity := req.Payload.Payment.Entity
	ev := WebhookEvent{
		OrderID:   entity.OrderID,
		PaymentID: entity.ID,
		Status:    entity.Status,
		Method:    entity.Method,
		Amount:    entity.Amount,
	}

	if ev.OrderID == "" {
		api.OK(c, "ignored", nil)
		return
	}

	// The gateway resends any non-200 response, so failures are logged and
	// parked on the retry queue instead of surfacing as errors.
	err := h.service.ProcessWebhook(c.Request.Context(), ev)
	switch {
	case err == nil:
		api.OK(c, "processed", nil)
	case errors.Is(err, ErrOrderNotFound):
		// Callback raced ahead of the order rows; park it for replay.
		if qErr := h.retryQueue.Enqueue(c.Request.Context(), ev); qErr != nil {
			logger.Errorf("webhook for order %s lost: enqueue failed: %v", ev.OrderID, qErr)
		}
		api.OK(c, "queued", nil)
	default:
		logger.Errorf("webhook for order %s failed: %v", ev.OrderID, err)
		if qErr := h.retryQueue.Enqueue(c.Request.Context(), ev); qErr != nil {
			logger.Errorf("webhook for order %s lost: enqueue failed: %v", ev.OrderID, qErr)
		}
		api.OK(c, "acknowledged", nil)
	}
}

// GetOrder godoc
// @Summary      Get order
// @Tags         orders
// @Produce      json
// @Param        orderID  path      string  true  "Gateway order id"
// @Success      200      {object}  api.Envelope
// @Failure      404      {object}  api.ErrorResponse
// @Router       /orders/{orderID} [get]
func (h *Handler) GetOrder(c *gin.Context) {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		c.Error(api.Unauthorized("authentication required"))
		return
	}

	orderID := c.Param("orderID")
	history, payment, err := h.service.GetByOrderID(c.Request.Context(), orderID)
	if err != nil {
		h.fail(c, err)
		return
	}

	if history.UserID != principal.UserID && !principal.IsAdmin() {
		c.Error(api.NewError(api.KindForbidden, "not your order"))
		return
	}

	api.OK(c, "order", gin.H{"history": history, "payment": payment})
}

// ListMyOrders godoc
// @Summary      List own orders
// @Tags         orders
// @Produce      json
// @Success      200  {object}  api.Envelope
// @Router       /orders [get]
func (h *Handler) ListMyOrders(c *gin.Context) {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		c.Error(api.Unauthorized("authentication required"))
		return
	}

	histories, err := h.service.ListByUser(c.Request.Context(), principal.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}

	api.OK(c, "orders", histories)
}

// ListOrders is the admin listing with offset pagination.
func (h *Handler) ListOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	histories, err := h.service.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.fail(c, err)
		return
	}

	api.OK(c, "orders", histories)
}

func (h *Handler) fail(c *gin.Context, err error) {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		c.Error(apiErr)
		return
	}
	if errors.Is(err, ErrOrderNotFound) {
		c.Error(api.NotFound("order not found"))
		return
	}
	c.Error(api.WrapError(api.KindServer, "order operation failed", err))
}
