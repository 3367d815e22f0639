package services

import (
	"context"
	"strings"
	"testing"

	"roomify-client/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loggedInProfileService(t *testing.T, fake *fakeProfileAPI) (*ProfileService, *UserSession) {
	t.Helper()
	storage := NewMemoryStorage()
	session := NewUserSession(storage, &fakeAuth{login: loginResult("tok", guestProfile)}, RevalidateWithServer, nil)
	require.True(t, session.Login(context.Background(), models.Credentials{}))
	return NewProfileService(fake, session, storage, nil), session
}

func TestProfileService_RequiresToken(t *testing.T) {
	fake := &fakeProfileAPI{}
	storage := NewMemoryStorage()
	session := NewUserSession(storage, &fakeAuth{}, RevalidateWithServer, nil)
	svc := NewProfileService(fake, session, storage, nil)
	ctx := context.Background()

	_, err := svc.Bookings(ctx)
	assert.ErrorIs(t, err, ErrAuthRequired)
	_, err = svc.Notifications(ctx)
	assert.ErrorIs(t, err, ErrAuthRequired)
	_, err = svc.UpdateProfile(ctx, models.ProfileUpdate{})
	assert.ErrorIs(t, err, ErrAuthRequired)
	_, err = svc.UploadImage(ctx, "a.png", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrAuthRequired)
	assert.Zero(t, fake.calls)
}

func TestProfileService_UpdateProfile(t *testing.T) {
	updated := guestProfile
	updated.PhoneNumber = "0899"
	fake := &fakeProfileAPI{update: okResult(map[string]interface{}{"success": true, "message": "Profile updated successfully", "user": updated})}
	svc, session := loggedInProfileService(t, fake)

	phone := "0899"
	p, err := svc.UpdateProfile(context.Background(), models.ProfileUpdate{PhoneNumber: &phone})
	require.NoError(t, err)
	assert.Equal(t, "0899", p.PhoneNumber)
	assert.Equal(t, "0899", session.Profile().PhoneNumber)
}

func TestProfileService_Extras(t *testing.T) {
	svc, _ := loggedInProfileService(t, &fakeProfileAPI{})

	extras, err := svc.LoadExtras()
	require.NoError(t, err)
	assert.Empty(t, extras)

	require.NoError(t, svc.SaveExtras(models.ProfileExtras{models.ExtraCity: "Bandung", models.ExtraZipCode: "40115"}))
	extras, err = svc.LoadExtras()
	require.NoError(t, err)
	assert.Equal(t, "Bandung", models.ExtraString(extras, models.ExtraCity))
	assert.Equal(t, "40115", models.ExtraString(extras, models.ExtraZipCode))
	assert.Equal(t, "", models.ExtraString(extras, models.ExtraGender))
}

func TestProfileService_Lists(t *testing.T) {
	fake := &fakeProfileAPI{
		bookings: okResult(models.UserBookings{
			Bookings: []models.Booking{{ID: 1, RoomName: "Standard Room", Status: models.BookingCompleted}},
			Stats:    models.BookingStats{TotalBookings: 1, CompletedBookings: 1},
		}),
		notifications: okResult(models.NotificationList{
			Notifications: []models.Notification{{ID: 5, Message: "done"}},
			UnreadCount:   1,
		}),
		markRead: okResult(map[string]interface{}{"success": true, "unread_count": 0}),
	}
	svc, _ := loggedInProfileService(t, fake)
	ctx := context.Background()

	b, err := svc.Bookings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, b.Stats.CompletedBookings)
	assert.Equal(t, "Standard Room", b.Bookings[0].RoomName)

	n, err := svc.Notifications(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n.UnreadCount)

	unread, err := svc.MarkNotificationRead(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, unread)
}

func TestProfileService_UploadImage(t *testing.T) {
	fake := &fakeProfileAPI{upload: okResult(models.ImageUpload{ImageURL: "/static/images/a.png", Filename: "a.png"})}
	svc, _ := loggedInProfileService(t, fake)

	img, err := svc.UploadImage(context.Background(), "a.png", strings.NewReader("png"))
	require.NoError(t, err)
	assert.Equal(t, "http://assets.test/static/images/a.png", img.ImageURL)

	fake.upload = okResult(map[string]interface{}{"success": true})
	_, err = svc.UploadImage(context.Background(), "a.png", strings.NewReader("png"))
	assert.Error(t, err)
}
