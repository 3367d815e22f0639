package api

import (
	"context"
	"fmt"
	"net/http"

	"roomify-client/models"
)

func (c *Client) AdminStats(ctx context.Context, token string) Result {
	if token == "" {
		return authRequired()
	}
	return c.get(ctx, "/admin/stats", token, "Failed to fetch stats")
}

func (c *Client) AdminRooms(ctx context.Context, token string) Result {
	if token == "" {
		return authRequired()
	}
	return c.get(ctx, "/admin/rooms", token, "Failed to fetch rooms")
}

func (c *Client) CreateRoom(ctx context.Context, token string, input models.RoomInput) Result {
	if token == "" {
		return authRequired()
	}
	return c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/admin/rooms",
		token:    token,
		body:     input,
		fallback: "Failed to create room",
	})
}

func (c *Client) UpdateRoom(ctx context.Context, token string, id uint, input models.RoomInput) Result {
	if token == "" {
		return authRequired()
	}
	return c.do(ctx, call{
		method:   http.MethodPut,
		path:     fmt.Sprintf("/admin/rooms/%d", id),
		token:    token,
		body:     input,
		fallback: "Failed to update room",
	})
}

func (c *Client) DeleteRoom(ctx context.Context, token string, id uint) Result {
	if token == "" {
		return authRequired()
	}
	return c.do(ctx, call{
		method:   http.MethodDelete,
		path:     fmt.Sprintf("/admin/rooms/%d", id),
		token:    token,
		fallback: "Failed to delete room",
	})
}

func (c *Client) AdminBookings(ctx context.Context, token string) Result {
	if token == "" {
		return authRequired()
	}
	return c.get(ctx, "/admin/bookings", token, "Failed to fetch bookings")
}

func (c *Client) AdminUsers(ctx context.Context, token string) Result {
	if token == "" {
		return authRequired()
	}
	return c.get(ctx, "/admin/users", token, "Failed to fetch users")
}

// UpdateBookingStatus maps failures the way CreateBooking does: 401 asks for
// a fresh admin login, 404 names the booking.
func (c *Client) UpdateBookingStatus(ctx context.Context, token string, id uint, status models.BookingStatus) Result {
	if token == "" {
		return authRequired()
	}

	res := c.do(ctx, call{
		method: http.MethodPut,
		path:   fmt.Sprintf("/admin/bookings/%d", id),
		token:  token,
		body:   models.StatusUpdate{Status: status},
	})
	if res.Success || res.StatusCode == 0 {
		return res
	}

	switch res.StatusCode {
	case http.StatusUnauthorized:
		res.Message = "Your admin session has expired. Please log in again."
		res.RequiresAuth = true
	case http.StatusBadRequest:
		if res.Message == "" {
			res.Message = "Invalid status data. Please check and try again."
		}
	case http.StatusNotFound:
		res.Message = "Booking not found."
	default:
		if res.Message == "" {
			res.Message = fmt.Sprintf("Error %d: Failed to update booking status", res.StatusCode)
		}
	}
	return res
}
