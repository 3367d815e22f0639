package models

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingPaid      BookingStatus = "paid"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// bookingTransitions lists the statuses an admin may move a booking to.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingPaid, BookingCancelled},
	BookingPaid:      {BookingCompleted, BookingCancelled},
	BookingCancelled: {},
	BookingCompleted: {},
}

func (s BookingStatus) Valid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

// Terminal reports whether no further transition is allowed.
func (s BookingStatus) Terminal() bool {
	return len(bookingTransitions[s]) == 0
}

// CanTransitionTo reports whether s -> next is an allowed admin transition.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// NextStatuses returns the allowed targets from s.
func (s BookingStatus) NextStatuses() []BookingStatus {
	out := make([]BookingStatus, len(bookingTransitions[s]))
	copy(out, bookingTransitions[s])
	return out
}

// Booking is the shape returned by POST /bookings, GET /user/bookings and
// GET /admin/bookings.
type Booking struct {
	ID              uint          `json:"id"`
	UserID          uint          `json:"user_id"`
	RoomID          uint          `json:"room_id"`
	CheckInDate     string        `json:"check_in_date"`
	CheckOutDate    string        `json:"check_out_date"`
	Guests          int           `json:"guests"`
	TotalPrice      float64       `json:"total_price"`
	Status          BookingStatus `json:"status"`
	SpecialRequests string        `json:"special_requests,omitempty"`
	CreatedAt       *time.Time    `json:"created_at,omitempty"`
	Room            *Room         `json:"room,omitempty"`
	UserName        string        `json:"user_name,omitempty"`
	RoomName        string        `json:"room_name,omitempty"`
	RoomImage       string        `json:"room_image,omitempty"`
}

// BookingSubmission is built by the wizard at submit time and sent once.
type BookingSubmission struct {
	RoomID          uint          `json:"room_id"`
	CheckInDate     string        `json:"check_in_date"`
	CheckOutDate    string        `json:"check_out_date"`
	Guests          int           `json:"guests"`
	TotalPrice      float64       `json:"total_price"`
	SpecialRequests string        `json:"special_requests"`
	Status          BookingStatus `json:"status"`
}

type BookingStats struct {
	TotalBookings     int `json:"total_bookings"`
	CompletedBookings int `json:"completed_bookings"`
}

// UserBookings is the GET /user/bookings payload.
type UserBookings struct {
	Bookings []Booking    `json:"bookings"`
	Stats    BookingStats `json:"stats"`
}

// StatusUpdate is the PUT /admin/bookings/{id} payload.
type StatusUpdate struct {
	Status BookingStatus `json:"status"`
}
