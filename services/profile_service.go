package services

import (
	"context"
	"errors"
	"io"

	"roomify-client/api"
	"roomify-client/models"
	"roomify-client/utils"

	"go.uber.org/zap"
)

// ErrAuthRequired is returned before any network call when there is no
// session token.
var ErrAuthRequired = errors.New(api.MsgAuthRequired)

// ProfileAPI is the slice of the API client the profile page needs.
type ProfileAPI interface {
	UpdateProfile(ctx context.Context, token string, update models.ProfileUpdate) api.Result
	UploadImage(ctx context.Context, token, filename string, r io.Reader) api.Result
	UserBookings(ctx context.Context, token string) api.Result
	Notifications(ctx context.Context, token string) api.Result
	MarkNotificationRead(ctx context.Context, token string, id uint) api.Result
	AssetURL(path string) string
}

type ProfileService struct {
	API     ProfileAPI
	Session *UserSession
	Storage LocalStorage
	log     *zap.Logger
}

func NewProfileService(client ProfileAPI, session *UserSession, storage LocalStorage, log *zap.Logger) *ProfileService {
	return &ProfileService{
		API:     client,
		Session: session,
		Storage: storage,
		log:     utils.OrNop(log).Named("profile"),
	}
}

func (s *ProfileService) token() (string, error) {
	token := s.Session.Token()
	if token == "" {
		return "", ErrAuthRequired
	}
	return token, nil
}

// UpdateProfile saves the changes and swaps the returned profile into the
// session.
func (s *ProfileService) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.Profile, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}

	p, err := api.DecodeProfile(s.API.UpdateProfile(ctx, token, update))
	if err != nil {
		return nil, err
	}
	if err := s.Session.ReplaceProfile(p); err != nil {
		s.log.Warn("persist updated profile failed", zap.Error(err))
		return nil, err
	}
	return &p, nil
}

// SaveExtras stores profile fields the backend has no columns for.
func (s *ProfileService) SaveExtras(extras models.ProfileExtras) error {
	return saveJSON(s.Storage, KeyProfileExtras, extras)
}

// LoadExtras returns the stored extras, empty when none were saved.
func (s *ProfileService) LoadExtras() (models.ProfileExtras, error) {
	extras := models.ProfileExtras{}
	if _, err := loadJSON(s.Storage, KeyProfileExtras, &extras); err != nil {
		return models.ProfileExtras{}, err
	}
	return extras, nil
}

func (s *ProfileService) Bookings(ctx context.Context) (*models.UserBookings, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}
	res := s.API.UserBookings(ctx, token)
	if err := res.Err(); err != nil {
		return nil, err
	}
	var out models.UserBookings
	if err := res.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ProfileService) Notifications(ctx context.Context) (*models.NotificationList, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}
	res := s.API.Notifications(ctx, token)
	if err := res.Err(); err != nil {
		return nil, err
	}
	var out models.NotificationList
	if err := res.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MarkNotificationRead returns the remaining unread count.
func (s *ProfileService) MarkNotificationRead(ctx context.Context, id uint) (int, error) {
	token, err := s.token()
	if err != nil {
		return 0, err
	}
	res := s.API.MarkNotificationRead(ctx, token, id)
	if err := res.Err(); err != nil {
		return 0, err
	}
	var out struct {
		UnreadCount int `json:"unread_count"`
	}
	if err := res.Decode(&out); err != nil {
		return 0, err
	}
	return out.UnreadCount, nil
}

// UploadImage uploads r and returns the stored image with an absolute URL.
func (s *ProfileService) UploadImage(ctx context.Context, filename string, r io.Reader) (*models.ImageUpload, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}
	res := s.API.UploadImage(ctx, token, filename, r)
	if err := res.Err(); err != nil {
		return nil, err
	}
	var out models.ImageUpload
	if err := res.Decode(&out); err != nil {
		return nil, err
	}
	if out.ImageURL == "" {
		return nil, api.ErrMalformedResponse
	}
	out.ImageURL = s.API.AssetURL(out.ImageURL)
	s.log.Info("image uploaded", zap.String("url", out.ImageURL))
	return &out, nil
}
