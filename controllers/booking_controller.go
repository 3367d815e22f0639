package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"roomify-client/middleware"
	"roomify-client/models"
	"roomify-client/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BookingController struct {
	Backend *Backend
	log     *zap.Logger
}

func NewBookingController(b *Backend, log *zap.Logger) *BookingController {
	return &BookingController{Backend: b, log: utils.OrNop(log)}
}

// ----------------------------------------------------
// POST /api/bookings
// ----------------------------------------------------

func (bc *BookingController) CreateBooking(c *gin.Context) {
	var sub models.BookingSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		utils.JSONMessage(c, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	booking, err := bc.Backend.CreateBooking(middleware.CurrentUserID(c), sub)
	switch {
	case errors.Is(err, ErrMissingFields):
		utils.JSONMessage(c, http.StatusBadRequest, "Missing required fields")
		return
	case errors.Is(err, ErrInvalidDates):
		utils.JSONMessage(c, http.StatusBadRequest, "Invalid dates. Use YYYY-MM-DD with check-out after check-in")
		return
	case errors.Is(err, ErrRoomNotFound):
		utils.JSONMessage(c, http.StatusNotFound, "Room not found")
		return
	case errors.Is(err, ErrRoomUnavailable):
		utils.JSONMessage(c, http.StatusBadRequest, "Room is not available")
		return
	case err != nil:
		bc.log.Error("create booking failed", zap.Error(err))
		utils.JSONMessage(c, http.StatusInternalServerError, err.Error())
		return
	}

	bc.log.Info("✅ booking created",
		zap.Uint("booking_id", booking.ID),
		zap.Uint("room_id", booking.RoomID),
		zap.Float64("total_price", booking.TotalPrice),
	)
	c.JSON(http.StatusOK, booking)
}

// ----------------------------------------------------
// GET /api/user/bookings
// ----------------------------------------------------

func (bc *BookingController) UserBookings(c *gin.Context) {
	c.JSON(http.StatusOK, bc.Backend.UserBookings(middleware.CurrentUserID(c)))
}

// ----------------------------------------------------
// GET /api/admin/bookings
// ----------------------------------------------------

func (bc *BookingController) AdminBookings(c *gin.Context) {
	c.JSON(http.StatusOK, bc.Backend.Bookings())
}

// ----------------------------------------------------
// PUT /api/admin/bookings/:id
// ----------------------------------------------------

func (bc *BookingController) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		utils.JSONMessage(c, http.StatusBadRequest, "Booking ID is required")
		return
	}

	var req models.StatusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONMessage(c, http.StatusBadRequest, fmt.Sprintf("Invalid JSON payload: %v", err))
		return
	}

	booking, err := bc.Backend.SetBookingStatus(id, req.Status)
	switch {
	case errors.Is(err, ErrBookingNotFound):
		utils.JSONMessage(c, http.StatusNotFound, "Booking not found")
		return
	case errors.Is(err, ErrInvalidStatus):
		utils.JSONMessage(c, http.StatusBadRequest, "Invalid status. Must be one of: pending, paid, cancelled, completed")
		return
	case err != nil:
		utils.JSONMessage(c, http.StatusInternalServerError, err.Error())
		return
	}

	bc.log.Info("booking status changed",
		zap.Uint("booking_id", booking.ID),
		zap.String("status", string(booking.Status)),
		zap.Uint("admin_id", middleware.CurrentUserID(c)),
	)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Booking status updated successfully to %s", booking.Status),
		"booking": booking,
	})
}
