package controllers

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"roomify-client/models"
	"roomify-client/utils"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrMissingFields        = errors.New("missing_fields")
	ErrEmailTaken           = errors.New("email_taken")
	ErrUsernameTaken        = errors.New("username_taken")
	ErrInvalidCredentials   = errors.New("invalid_credentials")
	ErrNotAdmin             = errors.New("not_admin")
	ErrUserNotFound         = errors.New("user_not_found")
	ErrRoomNotFound         = errors.New("room_not_found")
	ErrRoomUnavailable      = errors.New("room_unavailable")
	ErrInvalidDates         = errors.New("invalid_dates")
	ErrBookingNotFound      = errors.New("booking_not_found")
	ErrInvalidStatus        = errors.New("invalid_status")
	ErrNotificationNotFound = errors.New("notification_not_found")
	ErrImageNotFound        = errors.New("image_not_found")
)

type account struct {
	profile      models.Profile
	passwordHash []byte
}

type image struct {
	contentType string
	data        []byte
}

// Backend is the in-memory state behind the mock Roomify API.
type Backend struct {
	mu sync.RWMutex

	accounts      map[uint]*account
	rooms         map[uint]*models.Room
	bookings      map[uint]*models.Booking
	notifications map[uint]*models.Notification
	images        map[string]image

	nextUserID         uint
	nextRoomID         uint
	nextBookingID      uint
	nextNotificationID uint

	now func() time.Time
}

func NewBackend() *Backend {
	return &Backend{
		accounts:      map[uint]*account{},
		rooms:         map[uint]*models.Room{},
		bookings:      map[uint]*models.Booking{},
		notifications: map[uint]*models.Notification{},
		images:        map[string]image{},
		now:           time.Now,
	}
}

// ----------------------------------------------------
// Seed
// ----------------------------------------------------

// Seed creates the admin account and a small room catalog.
func (b *Backend) Seed(adminEmail, adminPassword string) error {
	if _, err := b.createAccount(models.RegisterRequest{
		Username: "admin",
		Email:    adminEmail,
		Password: adminPassword,
		FullName: "Roomify Admin",
	}, true); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	available := true
	for _, in := range []models.RoomInput{
		{Name: "Standard Room", Description: "Cozy room with a queen bed.", PricePerNight: 300000, Capacity: 2, RoomType: "Standard", IsAvailable: &available, Amenities: `["wifi","ac"]`},
		{Name: "Deluxe Room", Description: "Spacious room with a city view.", PricePerNight: 550000, Capacity: 3, RoomType: "Deluxe", IsAvailable: &available, Amenities: `["wifi","ac","minibar"]`},
		{Name: "Family Suite", Description: "Two bedrooms and a living area.", PricePerNight: 1200000, Capacity: 5, RoomType: "Suite", IsAvailable: &available, Amenities: `["wifi","ac","kitchen"]`},
	} {
		if _, err := b.CreateRoom(in); err != nil {
			return fmt.Errorf("seed room %q: %w", in.Name, err)
		}
	}
	return nil
}

// ----------------------------------------------------
// Accounts
// ----------------------------------------------------

func (b *Backend) Register(req models.RegisterRequest) (models.Profile, error) {
	return b.createAccount(req, false)
}

func (b *Backend) createAccount(req models.RegisterRequest, admin bool) (models.Profile, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)
	if email == "" || req.Password == "" || username == "" {
		return models.Profile{}, ErrMissingFields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.Profile{}, fmt.Errorf("hash password: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, acc := range b.accounts {
		if strings.EqualFold(acc.profile.Email, email) {
			return models.Profile{}, ErrEmailTaken
		}
		if strings.EqualFold(acc.profile.Username, username) {
			return models.Profile{}, ErrUsernameTaken
		}
	}

	b.nextUserID++
	profile := models.Profile{
		ID:          b.nextUserID,
		Username:    username,
		FullName:    strings.TrimSpace(req.FullName),
		Email:       email,
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		IsAdmin:     admin,
		CreatedAt:   b.now().Format(time.RFC3339),
	}
	b.accounts[profile.ID] = &account{profile: profile, passwordHash: hash}
	return profile, nil
}

// Authenticate matches login by email or username. adminOnly rejects
// non-admin accounts with ErrNotAdmin.
func (b *Backend) Authenticate(login, password string, adminOnly bool) (models.Profile, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return models.Profile{}, ErrMissingFields
	}

	b.mu.RLock()
	var found *account
	for _, acc := range b.accounts {
		if strings.EqualFold(acc.profile.Email, login) || strings.EqualFold(acc.profile.Username, login) {
			found = acc
			break
		}
	}
	b.mu.RUnlock()

	if found == nil {
		return models.Profile{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(found.passwordHash, []byte(password)); err != nil {
		return models.Profile{}, ErrInvalidCredentials
	}
	if adminOnly && !found.profile.IsAdmin {
		return models.Profile{}, ErrNotAdmin
	}
	return found.profile, nil
}

func (b *Backend) User(id uint) (models.Profile, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	acc, ok := b.accounts[id]
	if !ok {
		return models.Profile{}, ErrUserNotFound
	}
	return acc.profile, nil
}

func (b *Backend) UpdateUser(id uint, update models.ProfileUpdate) (models.Profile, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	acc, ok := b.accounts[id]
	if !ok {
		return models.Profile{}, ErrUserNotFound
	}

	if update.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*update.Email))
		if email == "" {
			return models.Profile{}, ErrMissingFields
		}
		for otherID, other := range b.accounts {
			if otherID != id && strings.EqualFold(other.profile.Email, email) {
				return models.Profile{}, ErrEmailTaken
			}
		}
		acc.profile.Email = email
	}
	if update.FullName != nil {
		acc.profile.FullName = strings.TrimSpace(*update.FullName)
	}
	if update.PhoneNumber != nil {
		acc.profile.PhoneNumber = strings.TrimSpace(*update.PhoneNumber)
	}
	return acc.profile, nil
}

func (b *Backend) Users() []models.Profile {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]models.Profile, 0, len(b.accounts))
	for _, acc := range b.accounts {
		out = append(out, acc.profile)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ----------------------------------------------------
// Rooms
// ----------------------------------------------------

func (b *Backend) Rooms() []models.Room {
	b.mu.RLock()
	defer b.mu.RUnlock()

	counts := map[uint]int{}
	for _, bk := range b.bookings {
		counts[bk.RoomID]++
	}

	out := make([]models.Room, 0, len(b.rooms))
	for _, r := range b.rooms {
		room := *r
		room.BookingCount = counts[room.ID]
		out = append(out, room)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (b *Backend) Room(id uint) (models.Room, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	r, ok := b.rooms[id]
	if !ok {
		return models.Room{}, ErrRoomNotFound
	}
	return *r, nil
}

func (b *Backend) CreateRoom(in models.RoomInput) (models.Room, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.PricePerNight <= 0 {
		return models.Room{}, ErrMissingFields
	}

	now := b.now()
	room := models.Room{
		Name:          name,
		Description:   in.Description,
		PricePerNight: in.PricePerNight,
		Capacity:      in.Capacity,
		RoomType:      strings.TrimSpace(in.RoomType),
		IsAvailable:   true,
		ImageURL:      in.ImageURL,
		Amenities:     in.Amenities,
		CreatedAt:     &now,
		UpdatedAt:     &now,
	}
	if room.Capacity <= 0 {
		room.Capacity = models.DefaultRoomCapacity
	}
	if room.RoomType == "" {
		room.RoomType = "standard"
	}
	if in.IsAvailable != nil {
		room.IsAvailable = *in.IsAvailable
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextRoomID++
	room.ID = b.nextRoomID
	b.rooms[room.ID] = &room
	return room, nil
}

// UpdateRoom applies the non-zero fields of in.
func (b *Backend) UpdateRoom(id uint, in models.RoomInput) (models.Room, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	room, ok := b.rooms[id]
	if !ok {
		return models.Room{}, ErrRoomNotFound
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		room.Name = name
	}
	if in.Description != "" {
		room.Description = in.Description
	}
	if in.PricePerNight > 0 {
		room.PricePerNight = in.PricePerNight
	}
	if in.Capacity > 0 {
		room.Capacity = in.Capacity
	}
	if t := strings.TrimSpace(in.RoomType); t != "" {
		room.RoomType = t
	}
	if in.IsAvailable != nil {
		room.IsAvailable = *in.IsAvailable
	}
	if in.ImageURL != "" {
		room.ImageURL = in.ImageURL
	}
	if in.Amenities != "" {
		room.Amenities = in.Amenities
	}
	now := b.now()
	room.UpdatedAt = &now
	return *room, nil
}

// DeleteRoom removes a room with no bookings. A room with bookings is only
// marked unavailable; deleted reports which happened.
func (b *Backend) DeleteRoom(id uint) (deleted bool, room models.Room, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	r, ok := b.rooms[id]
	if !ok {
		return false, models.Room{}, ErrRoomNotFound
	}

	for _, bk := range b.bookings {
		if bk.RoomID == id {
			r.IsAvailable = false
			now := b.now()
			r.UpdatedAt = &now
			return false, *r, nil
		}
	}

	delete(b.rooms, id)
	return true, *r, nil
}

// ----------------------------------------------------
// Bookings
// ----------------------------------------------------

func (b *Backend) CreateBooking(userID uint, sub models.BookingSubmission) (models.Booking, error) {
	if sub.RoomID == 0 || sub.CheckInDate == "" || sub.CheckOutDate == "" {
		return models.Booking{}, ErrMissingFields
	}
	checkIn, err := utils.ParseDate(sub.CheckInDate)
	if err != nil {
		return models.Booking{}, fmt.Errorf("%w: %v", ErrInvalidDates, err)
	}
	checkOut, err := utils.ParseDate(sub.CheckOutDate)
	if err != nil {
		return models.Booking{}, fmt.Errorf("%w: %v", ErrInvalidDates, err)
	}
	if !checkOut.After(checkIn) {
		return models.Booking{}, ErrInvalidDates
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	room, ok := b.rooms[sub.RoomID]
	if !ok {
		return models.Booking{}, ErrRoomNotFound
	}
	if !room.IsAvailable {
		return models.Booking{}, ErrRoomUnavailable
	}

	guests := sub.Guests
	if guests <= 0 {
		guests = 1
	}
	status := sub.Status
	if !status.Valid() {
		status = models.BookingPending
	}
	total := sub.TotalPrice
	if total <= 0 {
		nights := int(checkOut.Sub(checkIn).Hours() / 24)
		total = room.PricePerNight * float64(nights)
	}

	now := b.now()
	b.nextBookingID++
	booking := models.Booking{
		ID:              b.nextBookingID,
		UserID:          userID,
		RoomID:          room.ID,
		CheckInDate:     utils.FormatDate(checkIn),
		CheckOutDate:    utils.FormatDate(checkOut),
		Guests:          guests,
		TotalPrice:      total,
		Status:          status,
		SpecialRequests: sub.SpecialRequests,
		CreatedAt:       &now,
	}
	b.bookings[booking.ID] = &booking
	return booking, nil
}

// sortedBookings returns bookings newest first. Caller holds the lock.
func (b *Backend) sortedBookings(keep func(*models.Booking) bool) []models.Booking {
	out := make([]models.Booking, 0, len(b.bookings))
	for _, bk := range b.bookings {
		if keep == nil || keep(bk) {
			out = append(out, *bk)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

// decorate fills the display names. Caller holds the lock.
func (b *Backend) decorate(bk *models.Booking) {
	if room, ok := b.rooms[bk.RoomID]; ok {
		bk.RoomName = room.Name
		bk.RoomImage = room.ImageURL
	}
	if acc, ok := b.accounts[bk.UserID]; ok {
		bk.UserName = acc.profile.FullName
		if bk.UserName == "" {
			bk.UserName = acc.profile.Username
		}
	}
}

func (b *Backend) UserBookings(userID uint) models.UserBookings {
	b.mu.RLock()
	defer b.mu.RUnlock()

	list := b.sortedBookings(func(bk *models.Booking) bool { return bk.UserID == userID })
	out := models.UserBookings{Bookings: list}
	for i := range list {
		b.decorate(&list[i])
		list[i].UserName = ""
		if list[i].Status == models.BookingCompleted {
			out.Stats.CompletedBookings++
		}
	}
	out.Stats.TotalBookings = len(list)
	return out
}

func (b *Backend) Bookings() []models.Booking {
	b.mu.RLock()
	defer b.mu.RUnlock()

	list := b.sortedBookings(nil)
	for i := range list {
		b.decorate(&list[i])
		list[i].RoomImage = ""
	}
	return list
}

// SetBookingStatus accepts any known status; the transition rules are the
// client's to enforce. Moving to completed notifies the guest.
func (b *Backend) SetBookingStatus(id uint, status models.BookingStatus) (models.Booking, error) {
	if !status.Valid() {
		return models.Booking{}, ErrInvalidStatus
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	bk, ok := b.bookings[id]
	if !ok {
		return models.Booking{}, ErrBookingNotFound
	}

	old := bk.Status
	bk.Status = status

	if status == models.BookingCompleted && old != models.BookingCompleted {
		roomName := "Room"
		if room, ok := b.rooms[bk.RoomID]; ok {
			roomName = room.Name
		}
		bookingID := bk.ID
		b.nextNotificationID++
		b.notifications[b.nextNotificationID] = &models.Notification{
			ID:        b.nextNotificationID,
			UserID:    bk.UserID,
			BookingID: &bookingID,
			Message:   fmt.Sprintf("Your booking for %s has been marked as completed. Thank you for choosing Roomify!", roomName),
			CreatedAt: b.now().Format(time.RFC3339),
		}
	}

	out := *bk
	b.decorate(&out)
	out.RoomImage = ""
	return out, nil
}

// ----------------------------------------------------
// Notifications
// ----------------------------------------------------

// unread counts a user's unread notifications. Caller holds the lock.
func (b *Backend) unread(userID uint) int {
	n := 0
	for _, nt := range b.notifications {
		if nt.UserID == userID && !nt.IsRead {
			n++
		}
	}
	return n
}

func (b *Backend) Notifications(userID uint) models.NotificationList {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := models.NotificationList{Notifications: []models.Notification{}}
	for _, nt := range b.notifications {
		if nt.UserID == userID {
			out.Notifications = append(out.Notifications, *nt)
		}
	}
	sort.Slice(out.Notifications, func(i, j int) bool {
		return out.Notifications[i].ID > out.Notifications[j].ID
	})
	out.UnreadCount = b.unread(userID)
	return out
}

// MarkNotificationRead returns the remaining unread count.
func (b *Backend) MarkNotificationRead(userID, id uint) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	nt, ok := b.notifications[id]
	if !ok || nt.UserID != userID {
		return 0, ErrNotificationNotFound
	}
	nt.IsRead = true
	return b.unread(userID), nil
}

// ----------------------------------------------------
// Stats
// ----------------------------------------------------

func (b *Backend) Stats() models.AdminStats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out models.AdminStats
	out.Stats.TotalVisitors = len(b.accounts)
	out.Stats.TotalRooms = len(b.rooms)
	out.Stats.TotalBookings = len(b.bookings)

	perRoom := map[uint]*models.RoomStat{}
	for _, bk := range b.bookings {
		out.Stats.TotalRevenue += bk.TotalPrice
		if stat, ok := perRoom[bk.RoomID]; ok {
			stat.Bookings++
			stat.Revenue += bk.TotalPrice
		} else {
			perRoom[bk.RoomID] = &models.RoomStat{Bookings: 1, Revenue: bk.TotalPrice}
		}
	}

	recent := b.sortedBookings(nil)
	if len(recent) > 5 {
		recent = recent[:5]
	}
	out.RecentBookings = make([]models.RecentBooking, 0, len(recent))
	for _, bk := range recent {
		rb := models.RecentBooking{
			ID:           bk.ID,
			CheckInDate:  bk.CheckInDate,
			CheckOutDate: bk.CheckOutDate,
			TotalPrice:   bk.TotalPrice,
			Status:       bk.Status,
			User:         "Unknown",
			Room:         "Unknown",
		}
		if acc, ok := b.accounts[bk.UserID]; ok {
			rb.User = acc.profile.Username
		}
		if room, ok := b.rooms[bk.RoomID]; ok {
			rb.Room = room.Name
		}
		out.RecentBookings = append(out.RecentBookings, rb)
	}

	out.RoomStats = make([]models.RoomStat, 0, len(b.rooms))
	for _, room := range b.rooms {
		stat := models.RoomStat{
			ID:     room.ID,
			Name:   room.Name,
			Type:   room.RoomType,
			Price:  room.PricePerNight,
			Status: "inactive",
		}
		if room.IsAvailable {
			stat.Status = "active"
		}
		if agg, ok := perRoom[room.ID]; ok {
			stat.Bookings = agg.Bookings
			stat.Revenue = agg.Revenue
		}
		out.RoomStats = append(out.RoomStats, stat)
	}
	sort.Slice(out.RoomStats, func(i, j int) bool { return out.RoomStats[i].ID < out.RoomStats[j].ID })
	return out
}

// ----------------------------------------------------
// Images
// ----------------------------------------------------

func (b *Backend) SaveImage(name, contentType string, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.images[name] = image{contentType: contentType, data: data}
}

func (b *Backend) Image(name string) (string, []byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	img, ok := b.images[name]
	if !ok {
		return "", nil, ErrImageNotFound
	}
	return img.contentType, img.data, nil
}
