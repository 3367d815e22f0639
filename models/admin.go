package models

// AdminStats is the GET /admin/stats payload.
type AdminStats struct {
	Stats struct {
		TotalVisitors int     `json:"totalVisitors"`
		TotalBookings int     `json:"totalBookings"`
		TotalRevenue  float64 `json:"totalRevenue"`
		TotalRooms    int     `json:"totalRooms"`
	} `json:"stats"`
	RecentBookings []RecentBooking `json:"recentBookings"`
	RoomStats      []RoomStat      `json:"roomStats"`
}

// RecentBooking flattens user and room to names, as the dashboard does.
type RecentBooking struct {
	ID           uint          `json:"id"`
	CheckInDate  string        `json:"check_in_date"`
	CheckOutDate string        `json:"check_out_date"`
	TotalPrice   float64       `json:"total_price"`
	Status       BookingStatus `json:"status"`
	User         string        `json:"user"`
	Room         string        `json:"room"`
}

type RoomStat struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Price    float64 `json:"price"`
	Status   string  `json:"status"`
	Bookings int     `json:"bookings"`
	Revenue  float64 `json:"revenue"`
}
