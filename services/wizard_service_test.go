package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"roomify-client/api"
	"roomify-client/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var standardRoom = models.Room{
	ID:            1,
	Name:          "Standard Room",
	RoomType:      "Standard",
	PricePerNight: 300000,
	Capacity:      2,
	IsAvailable:   true,
	ImageURL:      "/static/images/standard.jpg",
}

type wizardFixture struct {
	wizard    *BookingWizard
	api       *fakeBookingAPI
	draft     *BookingDraftStore
	storage   *MemoryStorage
	nav       *recordingNavigator
	scheduler *fakeScheduler
}

func newWizardFixture(t *testing.T, token string, profile *models.Profile) *wizardFixture {
	t.Helper()
	f := &wizardFixture{
		api:       &fakeBookingAPI{result: okResult(models.Booking{ID: 42, RoomID: 1, Status: models.BookingPending, TotalPrice: 990000})},
		draft:     NewBookingDraftStore(nil),
		storage:   NewMemoryStorage(),
		nav:       &recordingNavigator{},
		scheduler: &fakeScheduler{},
	}
	f.draft.SetBookingDetails(models.BookingDetailsPatch{
		CheckIn:  ptr(date("2025-01-01")),
		CheckOut: ptr(date("2025-01-04")),
		Guests:   ptr(2),
	})
	f.draft.SetSearchFilters(models.SearchFiltersPatch{RoomType: ptr("Standard")})

	f.wizard = NewBookingWizard(standardRoom, profile, WizardDeps{
		API:           f.api,
		Session:       staticToken(token),
		Draft:         f.draft,
		Storage:       f.storage,
		Navigator:     f.nav,
		Scheduler:     f.scheduler,
		RedirectDelay: DefaultRedirectDelay,
		Now:           func() time.Time { return time.Date(2024, 12, 31, 15, 0, 0, 0, time.UTC) },
	})
	return f
}

// toPayment fills the remaining form fields and advances to payment.
func (f *wizardFixture) toPayment(t *testing.T, edit func(*GuestForm)) {
	t.Helper()
	form := f.wizard.Form()
	form.FirstName, form.LastName = "Ada", "Lovelace"
	form.Email, form.Phone = "ada@example.com", "0812"
	if edit != nil {
		edit(&form)
	}
	f.wizard.SetForm(form)
	require.NoError(t, f.wizard.Next())
	require.Equal(t, StepPayment, f.wizard.Step())
}

func TestNewBookingWizard_Prefill(t *testing.T) {
	f := newWizardFixture(t, "tok", &guestProfile)

	form := f.wizard.Form()
	assert.Equal(t, "Ada", form.FirstName)
	assert.Equal(t, "Lovelace", form.LastName)
	assert.Equal(t, "ada@example.com", form.Email)
	assert.Equal(t, "0812", form.Phone)
	assert.Equal(t, date("2025-01-01"), form.CheckIn)
	assert.Equal(t, date("2025-01-04"), form.CheckOut)
	assert.Equal(t, 2, form.Guests)
	assert.Equal(t, StepGuestDetails, f.wizard.Step())

	sel := f.draft.Snapshot().SelectedRoom
	require.NotNil(t, sel)
	assert.Equal(t, uint(1), sel.ID)
	assert.Equal(t, 2, sel.MaxGuests)
}

func TestNewBookingWizard_KeepsExistingSelection(t *testing.T) {
	draft := NewBookingDraftStore(nil)
	draft.SetSelectedRoom(&models.RoomRef{ID: 3, Name: "Family Suite"})

	NewBookingWizard(standardRoom, nil, WizardDeps{Draft: draft})
	assert.Equal(t, uint(3), draft.Snapshot().SelectedRoom.ID)
}

func TestNewBookingWizard_GuestsDefaultToOne(t *testing.T) {
	draft := NewBookingDraftStore(nil)
	draft.SetBookingDetails(models.BookingDetailsPatch{Guests: ptr(0)})

	w := NewBookingWizard(standardRoom, nil, WizardDeps{Draft: draft})
	assert.Equal(t, 1, w.Form().Guests)
}

func TestPreview(t *testing.T) {
	f := newWizardFixture(t, "tok", nil)

	q := f.wizard.Preview()
	assert.Equal(t, 3, q.Nights)
	assert.Equal(t, 900000.0, q.Subtotal)
	assert.Equal(t, 90000.0, q.Tax)
	assert.Equal(t, 990000.0, q.Total)
}

func TestEnsureLoggedIn(t *testing.T) {
	f := newWizardFixture(t, "", nil)

	assert.False(t, f.wizard.EnsureLoggedIn())
	assert.Equal(t, []string{PathLogin}, f.nav.Paths())
	saved, ok, _ := f.storage.Get(KeyRedirectAfterLogin)
	assert.True(t, ok)
	assert.Equal(t, "/booking/1", saved)

	g := newWizardFixture(t, "tok", nil)
	assert.True(t, g.wizard.EnsureLoggedIn())
	assert.Empty(t, g.nav.Paths())
}

func TestNext_RequiresCompleteDetails(t *testing.T) {
	f := newWizardFixture(t, "tok", nil)

	assert.ErrorIs(t, f.wizard.Next(), ErrIncompleteDetails)
	assert.Equal(t, StepGuestDetails, f.wizard.Step())

	form := f.wizard.Form()
	form.FirstName, form.LastName, form.Email, form.Phone = "Ada", "Lovelace", "ada@example.com", "0812"
	form.CheckOut = form.CheckIn
	f.wizard.SetForm(form)
	assert.ErrorIs(t, f.wizard.Next(), ErrIncompleteDetails)
}

func TestBack_KeepsForm(t *testing.T) {
	f := newWizardFixture(t, "tok", nil)
	f.toPayment(t, func(g *GuestForm) { g.SpecialRequests = "late arrival" })

	f.wizard.Back()
	assert.Equal(t, StepGuestDetails, f.wizard.Step())
	assert.Equal(t, "late arrival", f.wizard.Form().SpecialRequests)
}

func TestSubmit_Guards(t *testing.T) {
	t.Run("not at payment", func(t *testing.T) {
		f := newWizardFixture(t, "tok", nil)
		_, err := f.wizard.Submit(context.Background())
		assert.ErrorIs(t, err, ErrNotAtPayment)
	})

	t.Run("check-in in the past", func(t *testing.T) {
		f := newWizardFixture(t, "tok", nil)
		f.toPayment(t, func(g *GuestForm) {
			g.CheckIn = date("2024-12-30")
		})
		_, err := f.wizard.Submit(context.Background())
		assert.ErrorIs(t, err, ErrCheckInInPast)
		assert.Empty(t, f.api.Calls())
	})

	t.Run("check-in today is allowed", func(t *testing.T) {
		f := newWizardFixture(t, "tok", nil)
		f.toPayment(t, func(g *GuestForm) {
			g.CheckIn = date("2024-12-31")
		})
		_, err := f.wizard.Submit(context.Background())
		assert.NoError(t, err)
	})

	t.Run("too many guests", func(t *testing.T) {
		f := newWizardFixture(t, "tok", nil)
		f.toPayment(t, func(g *GuestForm) { g.Guests = 3 })
		_, err := f.wizard.Submit(context.Background())
		assert.ErrorIs(t, err, ErrGuestCapacity)
		assert.Contains(t, err.Error(), "between 1 and 2")
		assert.Empty(t, f.api.Calls())
		assert.Equal(t, StepPayment, f.wizard.Step())
	})

	t.Run("check-out edited to check-in at payment", func(t *testing.T) {
		f := newWizardFixture(t, "tok", nil)
		f.toPayment(t, nil)
		form := f.wizard.Form()
		form.CheckOut = form.CheckIn
		f.wizard.SetForm(form)

		_, err := f.wizard.Submit(context.Background())
		assert.ErrorIs(t, err, ErrCheckOutNotAfterCheckIn)
		assert.Empty(t, f.api.Calls())
		assert.Equal(t, StepPayment, f.wizard.Step())
		assert.Zero(t, f.wizard.Preview().Total)
	})

	t.Run("check-out edited before check-in at payment", func(t *testing.T) {
		f := newWizardFixture(t, "tok", nil)
		f.toPayment(t, nil)
		form := f.wizard.Form()
		form.CheckOut = date("2024-12-31")
		f.wizard.SetForm(form)

		_, err := f.wizard.Submit(context.Background())
		assert.ErrorIs(t, err, ErrCheckOutNotAfterCheckIn)
		assert.Empty(t, f.api.Calls())
		assert.Equal(t, StepPayment, f.wizard.Step())
	})

	t.Run("zero guests", func(t *testing.T) {
		f := newWizardFixture(t, "tok", nil)
		f.toPayment(t, func(g *GuestForm) { g.Guests = 0 })
		_, err := f.wizard.Submit(context.Background())
		assert.ErrorIs(t, err, ErrGuestCapacity)
	})
}

func TestSubmit_Success(t *testing.T) {
	f := newWizardFixture(t, "tok", nil)
	f.toPayment(t, func(g *GuestForm) { g.SpecialRequests = "high floor" })

	booking, err := f.wizard.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint(42), booking.ID)
	assert.Equal(t, StepSubmitted, f.wizard.Step())
	assert.Equal(t, uint(42), f.wizard.Booking().ID)

	calls := f.api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, models.BookingSubmission{
		RoomID:          1,
		CheckInDate:     "2025-01-01",
		CheckOutDate:    "2025-01-04",
		Guests:          2,
		TotalPrice:      990000,
		SpecialRequests: "high floor",
		Status:          models.BookingPending,
	}, calls[0])
	assert.Equal(t, []string{"tok"}, f.api.tokens)

	d := f.draft.Snapshot()
	assert.Equal(t, uint(42), d.BookingDetails.BookingID)
	assert.Equal(t, "Standard Room", d.BookingDetails.RoomName)
	assert.Equal(t, 990000.0, d.BookingDetails.TotalPrice)
	assert.Equal(t, "high floor", d.BookingDetails.SpecialRequests)
	assert.Equal(t, 1, d.BookingDetails.Rooms)
	assert.Equal(t, "Standard", d.SearchFilters.RoomType)

	// navigation waits for the scheduler
	assert.Empty(t, f.nav.Paths())
	assert.Equal(t, DefaultRedirectDelay, f.scheduler.delay)
	f.scheduler.fire()
	assert.Equal(t, []string{PathProfile}, f.nav.Paths())

	// the form is frozen once submitted
	f.wizard.SetForm(GuestForm{})
	assert.Equal(t, "Ada", f.wizard.Form().FirstName)
	_, err = f.wizard.Submit(context.Background())
	assert.ErrorIs(t, err, ErrNotAtPayment)
}

func TestSubmit_AcceptedWithoutReadableID(t *testing.T) {
	for name, res := range map[string]api.Result{
		"no id":      okResult(map[string]interface{}{"success": true, "message": "Booking created"}),
		"unreadable": okResult("created"),
	} {
		t.Run(name, func(t *testing.T) {
			f := newWizardFixture(t, "tok", nil)
			f.api.result = res
			f.toPayment(t, nil)

			booking, err := f.wizard.Submit(context.Background())
			assert.ErrorIs(t, err, ErrBookingIDMissing)
			require.NotNil(t, booking)
			assert.Zero(t, booking.ID)
			assert.Equal(t, StepSubmitted, f.wizard.Step())
			assert.Len(t, f.api.Calls(), 1)

			f.scheduler.fire()
			assert.Equal(t, []string{PathProfile}, f.nav.Paths())
		})
	}
}

func TestSubmit_CancelPendingNavigation(t *testing.T) {
	f := newWizardFixture(t, "tok", nil)
	assert.False(t, f.wizard.CancelPendingNavigation())

	f.toPayment(t, nil)
	_, err := f.wizard.Submit(context.Background())
	require.NoError(t, err)

	assert.True(t, f.wizard.CancelPendingNavigation())
	f.scheduler.fire()
	assert.Empty(t, f.nav.Paths())
}

func TestSubmit_RequiresAuthRedirectsToLogin(t *testing.T) {
	f := newWizardFixture(t, "expired", nil)
	f.api.result = api.Result{StatusCode: 401, Message: "Your session has expired. Please log in again.", RequiresAuth: true}
	f.toPayment(t, nil)

	_, err := f.wizard.Submit(context.Background())
	var subErr *SubmitError
	require.ErrorAs(t, err, &subErr)
	assert.True(t, subErr.RequiresAuth)
	assert.Equal(t, "Your session has expired. Please log in again.", subErr.Message)

	assert.Equal(t, []string{PathLogin}, f.nav.Paths())
	saved, _, _ := f.storage.Get(KeyRedirectAfterLogin)
	assert.Equal(t, "/booking/1", saved)
	assert.Equal(t, StepPayment, f.wizard.Step())
	assert.Zero(t, f.draft.Snapshot().BookingDetails.BookingID)
}

func TestSubmit_RejectedCanRetry(t *testing.T) {
	f := newWizardFixture(t, "tok", nil)
	f.api.result = api.Result{StatusCode: 400, Message: "Room is not available"}
	f.toPayment(t, nil)

	_, err := f.wizard.Submit(context.Background())
	require.EqualError(t, err, "Room is not available")
	assert.Empty(t, f.nav.Paths())

	f.api.result = okResult(models.Booking{ID: 43})
	booking, err := f.wizard.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint(43), booking.ID)
	assert.Len(t, f.api.Calls(), 2)
}

func TestSubmit_SingleFlight(t *testing.T) {
	f := newWizardFixture(t, "tok", nil)
	f.api.started = make(chan struct{})
	f.api.release = make(chan struct{})
	f.toPayment(t, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = f.wizard.Submit(context.Background())
	}()

	<-f.api.started
	_, err := f.wizard.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(f.api.release)
	wg.Wait()
	require.NoError(t, firstErr)
	assert.Len(t, f.api.Calls(), 1)
	assert.Equal(t, StepSubmitted, f.wizard.Step())
}

func TestWizardStepString(t *testing.T) {
	assert.Equal(t, "guest-details", StepGuestDetails.String())
	assert.Equal(t, "payment", StepPayment.String())
	assert.Equal(t, "submitted", StepSubmitted.String())
	assert.Equal(t, "step(9)", WizardStep(9).String())
}
