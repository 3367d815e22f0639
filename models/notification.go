package models

type Notification struct {
	ID        uint   `json:"id"`
	UserID    uint   `json:"user_id"`
	BookingID *uint  `json:"booking_id,omitempty"`
	Message   string `json:"message"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at,omitempty"`
}

// NotificationList is the GET /user/notifications payload.
type NotificationList struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unread_count"`
}
