package controllers

import (
	"context"

	"accommodation/dto"
	"accommodation/errors"
	"accommodation/models"
	"accommodation/repository"
	"accommodation/response"
	"accommodation/services"
	"accommodation/types"
	"accommodation/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Controller) CreateBooking(c *gin.Context) {
	var req dto.CreateBookingRequest
	if !bindJSON(c, &req) {
		return
	}
	checkIn, checkOut, err := validator.ParseStay(req.CheckInDate, req.CheckOutDate, h.loc)
	if err != nil {
		fail(c, err)
		return
	}

	who := caller(c)
	in := services.CreateBookingInput{
		RoomID:        req.RoomID,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Capacity:      req.Capacity,
		IsBreakfast:   req.IsBreakfast,
		CustomerName:  firstNonEmpty(req.CustomerName, who.Name),
		CustomerEmail: firstNonEmpty(req.CustomerEmail, who.Email),
		CustomerPhone: firstNonEmpty(req.CustomerPhone, who.Phone),
	}
	if req.CustomerID != "" {
		in.CustomerID = uuid.MustParse(req.CustomerID)
	}

	booking, err := h.svc.Bookings.Create(c.Request.Context(), who, in)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, booking)
}

func (h *Controller) UpdateBooking(c *gin.Context) {
	var req dto.UpdateBookingRequest
	if !bindJSON(c, &req) {
		return
	}
	checkIn, checkOut, err := validator.ParseStay(req.CheckInDate, req.CheckOutDate, h.loc)
	if err != nil {
		fail(c, err)
		return
	}
	booking, err := h.svc.Bookings.Update(c.Request.Context(), caller(c), c.Param("id"), services.UpdateBookingInput{
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Capacity:      req.Capacity,
		IsBreakfast:   req.IsBreakfast,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.SuccessWithMessage(c, "booking updated", booking)
}

func (h *Controller) GetBooking(c *gin.Context) {
	booking, err := h.svc.Bookings.Get(c.Request.Context(), caller(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, booking)
}

func (h *Controller) ListBookings(c *gin.Context) {
	var q dto.BookingListQuery
	if !bindQuery(c, &q) {
		return
	}
	f := repository.BookingFilter{PropertyID: q.PropertyID}
	if q.CustomerID != "" {
		id := uuid.MustParse(q.CustomerID)
		f.CustomerID = &id
	}
	if q.Status != nil {
		st := models.BookingStatus(*q.Status)
		f.Status = &st
	}
	list, err := h.svc.Bookings.List(c.Request.Context(), caller(c), f)
	if err != nil {
		fail(c, err)
		return
	}
	response.SuccessWithTotal(c, list, len(list))
}

type bookingAction func(ctx context.Context, who types.Identity, id string) (*services.BookingDetail, error)

// transition wraps the single-event booking endpoints
func (h *Controller) transition(message string, fn func(*services.BookingService) bookingAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		booking, err := fn(h.svc.Bookings)(c.Request.Context(), caller(c), c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		response.SuccessWithMessage(c, message, booking)
	}
}

func (h *Controller) PayBooking() gin.HandlerFunc {
	return h.transition("payment recorded", func(s *services.BookingService) bookingAction { return s.Pay })
}

func (h *Controller) CancelBooking() gin.HandlerFunc {
	return h.transition("booking cancelled", func(s *services.BookingService) bookingAction { return s.Cancel })
}

func (h *Controller) RequestRefund() gin.HandlerFunc {
	return h.transition("refund requested", func(s *services.BookingService) bookingAction { return s.RequestRefund })
}

func (h *Controller) PayoutRefund() gin.HandlerFunc {
	return h.transition("refund paid out", func(s *services.BookingService) bookingAction { return s.PayoutRefund })
}

func (h *Controller) AutoCheckIn(c *gin.Context) {
	summary, err := h.svc.Bookings.AutoCheckIn(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.SuccessWithMessage(c, "auto check-in finished", summary)
}

func (h *Controller) BookingChart(c *gin.Context) {
	var q dto.ChartQuery
	if !bindQuery(c, &q) {
		return
	}
	stats, err := h.svc.Statistics.MonthlyIncome(c.Request.Context(), caller(c), q.Year, q.Month)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, stats)
}

func (h *Controller) ConfirmPayment(c *gin.Context) {
	var req dto.PaymentConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, errors.NewValidation("invalid request body"))
		return
	}
	out, err := h.svc.Payments.Confirm(c.Request.Context(), req.ServiceReferenceID, req.CustomerID)
	if err != nil {
		fail(c, err)
		return
	}
	response.SuccessWithMessage(c, "payment confirmed successfully", out)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
