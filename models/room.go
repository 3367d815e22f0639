package models

import "time"

// Room is the catalog shape served by GET /rooms and the admin room endpoints.
type Room struct {
	ID            uint       `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	PricePerNight float64    `json:"price_per_night"`
	Capacity      int        `json:"capacity"`
	RoomType      string     `json:"room_type"`
	IsAvailable   bool       `json:"is_available"`
	ImageURL      string     `json:"image_url,omitempty"`
	Amenities     string     `json:"amenities,omitempty"` // JSON string, kept opaque
	Status        string     `json:"status,omitempty"`
	BookingCount  int        `json:"booking_count,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// DefaultRoomCapacity is used when the API omits capacity.
const DefaultRoomCapacity = 2

// MaxGuests returns the capacity, falling back to DefaultRoomCapacity.
func (r Room) MaxGuests() int {
	if r.Capacity > 0 {
		return r.Capacity
	}
	return DefaultRoomCapacity
}

// RoomRef is the minimal projection copied into the booking draft so pages
// can render the selection without refetching.
type RoomRef struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	MaxGuests int     `json:"maxGuests"`
}

// RoomInput is the admin create/update payload.
type RoomInput struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	PricePerNight float64 `json:"price_per_night"`
	Capacity      int     `json:"capacity"`
	RoomType      string  `json:"room_type"`
	IsAvailable   *bool   `json:"is_available,omitempty"`
	ImageURL      string  `json:"image_url,omitempty"`
	Amenities     string  `json:"amenities,omitempty"`
}
