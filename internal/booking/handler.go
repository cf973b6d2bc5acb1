package booking

import (
	"errors"
	"strconv"
	"time"

	"courtside/internal/api"
	"courtside/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// CancelBooking godoc
// @Summary      Cancel booking
// @Description  Cancels a pending or confirmed booking and releases its slot lock.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path      int  true  "Booking ID"
// @Success      200        {object}  api.Envelope
// @Failure      403        {object}  api.ErrorResponse
// @Failure      404        {object}  api.ErrorResponse
// @Router       /bookings/{bookingID}/cancel [post]
func (h *Handler) CancelBooking(c *gin.Context) {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		c.Error(api.Unauthorized("user not authenticated"))
		return
	}

	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.Error(api.Validation("invalid booking ID"))
		return
	}

	err = h.service.Cancel(c.Request.Context(), principal, bookingID)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			c.Error(api.NotFound("booking not found"))
		case errors.Is(err, ErrNotOwner):
			c.Error(api.NewError(api.KindForbidden, "can only cancel own bookings"))
		default:
			c.Error(api.WrapError(api.KindServer, "failed to cancel booking", err))
		}
		return
	}

	api.OK(c, "booking cancelled", nil)
}

// ListMyBookings godoc
// @Summary      List my bookings
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.Envelope
// @Router       /bookings [get]
func (h *Handler) ListMyBookings(c *gin.Context) {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		c.Error(api.Unauthorized("user not authenticated"))
		return
	}

	bookings, err := h.service.ListByUser(c.Request.Context(), principal.UserID)
	if err != nil {
		c.Error(api.WrapError(api.KindServer, "failed to fetch bookings", err))
		return
	}

	api.OK(c, "", bookings)
}

// GetBooking godoc
// @Summary      Booking detail with slots
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path      int  true  "Booking ID"
// @Success      200        {object}  api.Envelope
// @Failure      404        {object}  api.ErrorResponse
// @Router       /bookings/{bookingID} [get]
func (h *Handler) GetBooking(c *gin.Context) {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		c.Error(api.Unauthorized("user not authenticated"))
		return
	}

	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.Error(api.Validation("invalid booking ID"))
		return
	}

	b, err := h.service.GetWithSlots(c.Request.Context(), bookingID)
	if err != nil {
		c.Error(api.NotFound("booking not found"))
		return
	}

	if b.UserID != principal.UserID && !principal.IsAdmin() {
		c.Error(api.NewError(api.KindForbidden, "not your booking"))
		return
	}

	api.OK(c, "", b)
}

// Availability godoc
// @Summary      Slot availability for a venue
// @Description  Returns taken slots (confirmed or actively locked) for a venue, sport and date.
// @Tags         bookings
// @Produce      json
// @Param        venueID  path      int     true  "Venue ID"
// @Param        sport    query     string  true  "Sport"
// @Param        date     query     string  true  "Date (YYYY-MM-DD)"
// @Success      200      {object}  api.Envelope
// @Failure      400      {object}  api.ErrorResponse
// @Router       /venues/{venueID}/availability [get]
func (h *Handler) Availability(c *gin.Context) {
	venueID, err := strconv.Atoi(c.Param("venueID"))
	if err != nil {
		c.Error(api.Validation("invalid venue ID"))
		return
	}

	sport := c.Query("sport")
	if sport == "" {
		c.Error(api.Validation("sport query param is required"))
		return
	}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.Error(api.Validation("date must be YYYY-MM-DD"))
		return
	}

	slots, err := h.service.Availability(c.Request.Context(), venueID, sport, date)
	if err != nil {
		c.Error(api.WrapError(api.KindServer, "failed to fetch availability", err))
		return
	}

	api.OK(c, "", gin.H{
		"venue_id": venueID,
		"sport":    sport,
		"date":     date.Format("2006-01-02"),
		"taken":    slots,
	})
}

// ListBookingsByVenue godoc
// @Summary      List bookings for a venue. Admin only.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        venueID  path      int  true  "Venue ID"
// @Success      200      {object}  api.Envelope
// @Router       /admin/venues/{venueID}/bookings [get]
func (h *Handler) ListBookingsByVenue(c *gin.Context) {
	venueID, err := strconv.Atoi(c.Param("venueID"))
	if err != nil {
		c.Error(api.Validation("invalid venue ID"))
		return
	}

	bookings, err := h.service.ListByVenue(c.Request.Context(), venueID)
	if err != nil {
		c.Error(api.WrapError(api.KindServer, "failed to fetch bookings", err))
		return
	}

	api.OK(c, "", bookings)
}
