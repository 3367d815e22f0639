package api

import (
	"context"
	"fmt"
	"net/http"

	"roomify-client/models"
)

const (
	msgBookingLoginRequired  = "You must log in before booking a room"
	msgBookingSessionExpired = "Your session has expired. Please log in again."
	msgBookingInvalid        = "Invalid booking data. Please check your input."
	msgBookingRoomNotFound   = "The selected room was not found or is no longer available."
)

// CreateBooking posts a submission once. Missing room or dates and a missing
// token are rejected before any network call.
func (c *Client) CreateBooking(ctx context.Context, token string, sub models.BookingSubmission) Result {
	if sub.RoomID == 0 {
		return Failure("Invalid room ID")
	}
	if sub.CheckInDate == "" || sub.CheckOutDate == "" {
		return Failure("Check-in and check-out dates are required")
	}
	if token == "" {
		return Result{Message: msgBookingLoginRequired, RequiresAuth: true}
	}

	res := c.do(ctx, call{method: http.MethodPost, path: "/bookings", token: token, body: sub})
	if res.Success || res.StatusCode == 0 {
		return res
	}

	switch res.StatusCode {
	case http.StatusUnauthorized:
		res.Message = msgBookingSessionExpired
		res.RequiresAuth = true
	case http.StatusBadRequest:
		if res.Message == "" {
			res.Message = msgBookingInvalid
		}
	case http.StatusNotFound:
		res.Message = msgBookingRoomNotFound
	default:
		if res.Message == "" {
			res.Message = fmt.Sprintf("Error %d: Failed to book room", res.StatusCode)
		}
	}
	return res
}
