package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"time"

	"roomify-client/api"
	"roomify-client/models"
)

func okResult(v interface{}) api.Result {
	b, _ := json.Marshal(v)
	return api.Result{Success: true, StatusCode: 200, Data: b, Body: b}
}

func failResult(status int, msg string) api.Result {
	return api.Result{StatusCode: status, Message: msg, RequiresAuth: status == 401}
}

func loginResult(token string, p models.Profile) api.Result {
	return okResult(map[string]interface{}{"success": true, "token": token, "user": p})
}

// ----------------------------------------------------
// fakeAuth
// ----------------------------------------------------

type fakeAuth struct {
	mu         sync.Mutex
	login      api.Result
	adminLogin api.Result
	register   api.Result
	profile    api.Result

	profileCalls int
	registered   []models.RegisterRequest
}

func (f *fakeAuth) Login(ctx context.Context, creds models.Credentials) api.Result {
	return f.login
}

func (f *fakeAuth) AdminLogin(ctx context.Context, creds models.Credentials) api.Result {
	return f.adminLogin
}

func (f *fakeAuth) Register(ctx context.Context, req models.RegisterRequest) api.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registered = append(f.registered, req)
	return f.register
}

func (f *fakeAuth) Profile(ctx context.Context, token string) api.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profileCalls++
	return f.profile
}

// ----------------------------------------------------
// fakeScheduler
// ----------------------------------------------------

type fakeScheduler struct {
	mu        sync.Mutex
	delay     time.Duration
	fn        func()
	cancelled bool
}

func (s *fakeScheduler) AfterFunc(d time.Duration, fn func()) func() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
	s.fn = fn
	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		pending := s.fn != nil
		s.fn = nil
		s.cancelled = true
		return pending
	}
}

// fire runs the scheduled func, if still pending.
func (s *fakeScheduler) fire() {
	s.mu.Lock()
	fn := s.fn
	s.fn = nil
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// ----------------------------------------------------
// recordingNavigator
// ----------------------------------------------------

type recordingNavigator struct {
	mu    sync.Mutex
	paths []string
}

func (n *recordingNavigator) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *recordingNavigator) Paths() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string{}, n.paths...)
}

// ----------------------------------------------------
// fakeBookingAPI
// ----------------------------------------------------

type fakeBookingAPI struct {
	mu     sync.Mutex
	result api.Result
	calls  []models.BookingSubmission
	tokens []string

	// When set, CreateBooking signals started and waits on release.
	started chan struct{}
	release chan struct{}
}

func (f *fakeBookingAPI) CreateBooking(ctx context.Context, token string, sub models.BookingSubmission) api.Result {
	f.mu.Lock()
	f.calls = append(f.calls, sub)
	f.tokens = append(f.tokens, token)
	started, release := f.started, f.release
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
		<-release
	}
	return f.result
}

func (f *fakeBookingAPI) Calls() []models.BookingSubmission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.BookingSubmission{}, f.calls...)
}

type staticToken string

func (t staticToken) Token() string { return string(t) }

// ----------------------------------------------------
// failingStorage
// ----------------------------------------------------

var errStorageDown = errors.New("storage unavailable")

// failingStorage fails Set for the listed keys.
type failingStorage struct {
	*MemoryStorage
	failSet map[string]bool
}

func (s *failingStorage) Set(key, value string) error {
	if s.failSet[key] {
		return errStorageDown
	}
	return s.MemoryStorage.Set(key, value)
}

// ----------------------------------------------------
// fakeProfileAPI / fakeAdminAPI / fakeCatalog
// ----------------------------------------------------

type fakeProfileAPI struct {
	update        api.Result
	upload        api.Result
	bookings      api.Result
	notifications api.Result
	markRead      api.Result

	calls int
}

func (f *fakeProfileAPI) UpdateProfile(ctx context.Context, token string, update models.ProfileUpdate) api.Result {
	f.calls++
	return f.update
}

func (f *fakeProfileAPI) UploadImage(ctx context.Context, token, filename string, r io.Reader) api.Result {
	f.calls++
	return f.upload
}

func (f *fakeProfileAPI) UserBookings(ctx context.Context, token string) api.Result {
	f.calls++
	return f.bookings
}

func (f *fakeProfileAPI) Notifications(ctx context.Context, token string) api.Result {
	f.calls++
	return f.notifications
}

func (f *fakeProfileAPI) MarkNotificationRead(ctx context.Context, token string, id uint) api.Result {
	f.calls++
	return f.markRead
}

func (f *fakeProfileAPI) AssetURL(path string) string {
	return "http://assets.test" + path
}

type fakeAdminAPI struct {
	stats    api.Result
	rooms    api.Result
	room     api.Result
	deleted  api.Result
	bookings api.Result
	users    api.Result
	status   api.Result

	statusCalls int
	lastToken   string
}

func (f *fakeAdminAPI) AdminStats(ctx context.Context, token string) api.Result {
	f.lastToken = token
	return f.stats
}

func (f *fakeAdminAPI) AdminRooms(ctx context.Context, token string) api.Result { return f.rooms }

func (f *fakeAdminAPI) CreateRoom(ctx context.Context, token string, input models.RoomInput) api.Result {
	return f.room
}

func (f *fakeAdminAPI) UpdateRoom(ctx context.Context, token string, id uint, input models.RoomInput) api.Result {
	return f.room
}

func (f *fakeAdminAPI) DeleteRoom(ctx context.Context, token string, id uint) api.Result {
	return f.deleted
}

func (f *fakeAdminAPI) AdminBookings(ctx context.Context, token string) api.Result { return f.bookings }

func (f *fakeAdminAPI) AdminUsers(ctx context.Context, token string) api.Result { return f.users }

func (f *fakeAdminAPI) UpdateBookingStatus(ctx context.Context, token string, id uint, status models.BookingStatus) api.Result {
	f.statusCalls++
	return f.status
}

type fakeCatalog struct {
	rooms []models.Room
}

func (f *fakeCatalog) Rooms(ctx context.Context) api.Result {
	return okResult(f.rooms)
}

func (f *fakeCatalog) Room(ctx context.Context, id uint) api.Result {
	for _, r := range f.rooms {
		if r.ID == id {
			return okResult(r)
		}
	}
	return failResult(404, "Room not found")
}
