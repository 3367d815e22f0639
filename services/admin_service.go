package services

import (
	"context"
	"errors"
	"fmt"

	"roomify-client/api"
	"roomify-client/models"
	"roomify-client/utils"

	"go.uber.org/zap"
)

var (
	ErrAdminRequired     = errors.New("admin login required")
	ErrInvalidTransition = errors.New("booking status transition not allowed")
)

// AdminAPI is the slice of the API client the dashboard needs.
type AdminAPI interface {
	AdminStats(ctx context.Context, token string) api.Result
	AdminRooms(ctx context.Context, token string) api.Result
	CreateRoom(ctx context.Context, token string, input models.RoomInput) api.Result
	UpdateRoom(ctx context.Context, token string, id uint, input models.RoomInput) api.Result
	DeleteRoom(ctx context.Context, token string, id uint) api.Result
	AdminBookings(ctx context.Context, token string) api.Result
	AdminUsers(ctx context.Context, token string) api.Result
	UpdateBookingStatus(ctx context.Context, token string, id uint, status models.BookingStatus) api.Result
}

type AdminService struct {
	API     AdminAPI
	Session *AdminSession
	log     *zap.Logger
}

func NewAdminService(client AdminAPI, session *AdminSession, log *zap.Logger) *AdminService {
	return &AdminService{API: client, Session: session, log: utils.OrNop(log).Named("admin")}
}

func (s *AdminService) token() (string, error) {
	if !s.Session.IsAdmin() {
		return "", ErrAdminRequired
	}
	return s.Session.Token(), nil
}

// fetch runs call with the admin token and decodes Data[key] (or Data) into v.
func (s *AdminService) fetch(key string, v interface{}, call func(token string) api.Result) error {
	token, err := s.token()
	if err != nil {
		return err
	}
	res := call(token)
	if err := res.Err(); err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	if key == "" {
		return res.Decode(v)
	}
	return res.DecodeAt(key, v)
}

func (s *AdminService) Stats(ctx context.Context) (*models.AdminStats, error) {
	var out models.AdminStats
	err := s.fetch("", &out, func(token string) api.Result { return s.API.AdminStats(ctx, token) })
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AdminService) Rooms(ctx context.Context) ([]models.Room, error) {
	var out []models.Room
	err := s.fetch("", &out, func(token string) api.Result { return s.API.AdminRooms(ctx, token) })
	return out, err
}

func (s *AdminService) CreateRoom(ctx context.Context, input models.RoomInput) (*models.Room, error) {
	var out models.Room
	err := s.fetch("room", &out, func(token string) api.Result { return s.API.CreateRoom(ctx, token, input) })
	if err != nil {
		return nil, err
	}
	s.log.Info("room created", zap.Uint("room_id", out.ID), zap.String("name", out.Name))
	return &out, nil
}

func (s *AdminService) UpdateRoom(ctx context.Context, id uint, input models.RoomInput) (*models.Room, error) {
	var out models.Room
	err := s.fetch("room", &out, func(token string) api.Result { return s.API.UpdateRoom(ctx, token, id, input) })
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteRoom returns the server's message; a room with bookings is marked
// unavailable instead of removed.
func (s *AdminService) DeleteRoom(ctx context.Context, id uint) (string, error) {
	var message string
	err := s.fetch("", nil, func(token string) api.Result {
		res := s.API.DeleteRoom(ctx, token, id)
		message = res.Message
		return res
	})
	return message, err
}

func (s *AdminService) Bookings(ctx context.Context) ([]models.Booking, error) {
	var out []models.Booking
	err := s.fetch("", &out, func(token string) api.Result { return s.API.AdminBookings(ctx, token) })
	return out, err
}

func (s *AdminService) Users(ctx context.Context) ([]models.Profile, error) {
	var out []models.Profile
	err := s.fetch("", &out, func(token string) api.Result { return s.API.AdminUsers(ctx, token) })
	return out, err
}

// SetBookingStatus checks the transition locally and only then asks the
// server: pending -> paid -> completed, and pending or paid -> cancelled.
func (s *AdminService) SetBookingStatus(ctx context.Context, booking models.Booking, next models.BookingStatus) (*models.Booking, error) {
	if !booking.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, next)
	}

	var out models.Booking
	err := s.fetch("booking", &out, func(token string) api.Result {
		return s.API.UpdateBookingStatus(ctx, token, booking.ID, next)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("booking status changed",
		zap.Uint("booking_id", booking.ID),
		zap.String("from", string(booking.Status)),
		zap.String("to", string(out.Status)),
	)
	return &out, nil
}
