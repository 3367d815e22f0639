package models

import "time"

const (
	DefaultPriceMin = 0
	DefaultPriceMax = 2000000
	RoomTypeAll     = "all"
)

// BookingDetails carries the dates and party size chosen in the search form
// and, after a successful submission, the booking metadata.
type BookingDetails struct {
	CheckIn  time.Time `json:"checkIn"`
	CheckOut time.Time `json:"checkOut"`
	Guests   int       `json:"guests"`
	Rooms    int       `json:"rooms"`

	BookingID       uint    `json:"bookingId,omitempty"`
	RoomName        string  `json:"roomName,omitempty"`
	RoomType        string  `json:"roomType,omitempty"`
	RoomImage       string  `json:"roomImage,omitempty"`
	TotalPrice      float64 `json:"totalPrice,omitempty"`
	SpecialRequests string  `json:"specialRequests,omitempty"`
}

// HasDates reports whether both dates are set.
func (d BookingDetails) HasDates() bool {
	return !d.CheckIn.IsZero() && !d.CheckOut.IsZero()
}

// BookingDetailsPatch is a shallow merge: nil fields are left untouched.
type BookingDetailsPatch struct {
	CheckIn  *time.Time
	CheckOut *time.Time
	Guests   *int
	Rooms    *int

	BookingID       *uint
	RoomName        *string
	RoomType        *string
	RoomImage       *string
	TotalPrice      *float64
	SpecialRequests *string
}

// Apply merges the patch into d and returns the result.
func (p BookingDetailsPatch) Apply(d BookingDetails) BookingDetails {
	if p.CheckIn != nil {
		d.CheckIn = *p.CheckIn
	}
	if p.CheckOut != nil {
		d.CheckOut = *p.CheckOut
	}
	if p.Guests != nil {
		d.Guests = *p.Guests
	}
	if p.Rooms != nil {
		d.Rooms = *p.Rooms
	}
	if p.BookingID != nil {
		d.BookingID = *p.BookingID
	}
	if p.RoomName != nil {
		d.RoomName = *p.RoomName
	}
	if p.RoomType != nil {
		d.RoomType = *p.RoomType
	}
	if p.RoomImage != nil {
		d.RoomImage = *p.RoomImage
	}
	if p.TotalPrice != nil {
		d.TotalPrice = *p.TotalPrice
	}
	if p.SpecialRequests != nil {
		d.SpecialRequests = *p.SpecialRequests
	}
	return d
}

type SearchFilters struct {
	PriceRange [2]int   `json:"priceRange"`
	RoomType   string   `json:"roomType"`
	Facilities []string `json:"facilities"`
}

// Valid reports whether the price range is ordered.
func (f SearchFilters) Valid() bool {
	return f.PriceRange[0] <= f.PriceRange[1]
}

// SearchFiltersPatch is a shallow merge. A nil Facilities leaves the list
// alone; an empty non-nil slice clears it.
type SearchFiltersPatch struct {
	PriceRange *[2]int
	RoomType   *string
	Facilities []string
}

func (p SearchFiltersPatch) Apply(f SearchFilters) SearchFilters {
	if p.PriceRange != nil {
		f.PriceRange = *p.PriceRange
	}
	if p.RoomType != nil {
		f.RoomType = *p.RoomType
	}
	if p.Facilities != nil {
		f.Facilities = append([]string{}, p.Facilities...)
	}
	return f
}

type BookingDraft struct {
	SelectedRoom   *RoomRef       `json:"selectedRoom"`
	BookingDetails BookingDetails `json:"bookingDetails"`
	SearchFilters  SearchFilters  `json:"searchFilters"`
}

// DefaultBookingDraft is the state at startup and after a clear.
func DefaultBookingDraft() BookingDraft {
	return BookingDraft{
		BookingDetails: BookingDetails{Guests: 1, Rooms: 1},
		SearchFilters: SearchFilters{
			PriceRange: [2]int{DefaultPriceMin, DefaultPriceMax},
			RoomType:   RoomTypeAll,
			Facilities: []string{},
		},
	}
}

// Clone returns a deep copy safe to hand to callers.
func (d BookingDraft) Clone() BookingDraft {
	out := d
	if d.SelectedRoom != nil {
		room := *d.SelectedRoom
		out.SelectedRoom = &room
	}
	out.SearchFilters.Facilities = append([]string{}, d.SearchFilters.Facilities...)
	return out
}
