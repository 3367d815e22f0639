package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"roomify-client/api"
	"roomify-client/models"
	"roomify-client/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultRedirectDelay is how long the success screen stays up before the
// wizard navigates to the profile page.
const DefaultRedirectDelay = 2 * time.Second

type WizardStep int

const (
	StepGuestDetails WizardStep = iota + 1
	StepPayment
	StepSubmitted
)

func (s WizardStep) String() string {
	switch s {
	case StepGuestDetails:
		return "guest-details"
	case StepPayment:
		return "payment"
	case StepSubmitted:
		return "submitted"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

var (
	ErrIncompleteDetails       = errors.New("please complete all required information")
	ErrCheckInInPast           = errors.New("check-in date cannot be in the past")
	ErrCheckOutNotAfterCheckIn = errors.New("check-out date must be after check-in date")
	ErrInvalidStay             = errors.New("invalid length of stay")
	ErrGuestCapacity           = errors.New("invalid number of guests")
	ErrSubmissionInFlight      = errors.New("a booking submission is already in progress")
	ErrNotAtPayment            = errors.New("booking form is not at the payment step")
	ErrBookingIDMissing        = errors.New("booking was created but its id could not be read")
)

// SubmitError is a booking the server (or the client pre-checks) rejected.
type SubmitError struct {
	Message      string
	RequiresAuth bool
}

func (e *SubmitError) Error() string { return e.Message }

// GuestForm is the wizard's step-one form.
type GuestForm struct {
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	CheckIn         time.Time
	CheckOut        time.Time
	Guests          int
	SpecialRequests string
}

// BookingAPI is the slice of the API client the wizard needs.
type BookingAPI interface {
	CreateBooking(ctx context.Context, token string, sub models.BookingSubmission) api.Result
}

// TokenSource hands out the current user token; "" when logged out.
type TokenSource interface {
	Token() string
}

type WizardDeps struct {
	API           BookingAPI
	Session       TokenSource
	Draft         *BookingDraftStore
	Storage       LocalStorage
	Navigator     Navigator
	Scheduler     Scheduler
	RedirectDelay time.Duration
	Now           func() time.Time
	Log           *zap.Logger
}

// BookingWizard drives the two-step booking form for one room: guest
// details, then payment and submission. At most one submission is in
// flight at a time.
type BookingWizard struct {
	mu   sync.Mutex
	deps WizardDeps
	log  *zap.Logger

	room models.Room
	step WizardStep
	form GuestForm

	inFlight  string
	booking   *models.Booking
	cancelNav func() bool
}

// NewBookingWizard prefills the form from the profile (may be nil) and the
// draft, and makes room the draft's selection if it has none.
func NewBookingWizard(room models.Room, profile *models.Profile, deps WizardDeps) *BookingWizard {
	if deps.Scheduler == nil {
		deps.Scheduler = TimerScheduler{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.RedirectDelay < 0 {
		deps.RedirectDelay = 0
	}

	w := &BookingWizard{
		deps: deps,
		log:  utils.OrNop(deps.Log).Named("wizard"),
		room: room,
		step: StepGuestDetails,
	}

	if profile != nil {
		w.form.FirstName, w.form.LastName = profile.SplitName()
		w.form.Email = profile.Email
		w.form.Phone = profile.PhoneNumber
	}

	draft := deps.Draft.Snapshot()
	w.form.CheckIn = draft.BookingDetails.CheckIn
	w.form.CheckOut = draft.BookingDetails.CheckOut
	w.form.Guests = draft.BookingDetails.Guests
	if w.form.Guests < 1 {
		w.form.Guests = 1
	}

	if draft.SelectedRoom == nil {
		ref := RoomRefFrom(room)
		deps.Draft.SetSelectedRoom(&ref)
	}
	return w
}

// EnsureLoggedIn sends a logged-out user to the login page with a
// redirect back to this room's booking page.
func (w *BookingWizard) EnsureLoggedIn() bool {
	if w.deps.Session != nil && w.deps.Session.Token() != "" {
		return true
	}
	w.requireLogin()
	return false
}

func (w *BookingWizard) requireLogin() {
	if err := SaveRedirect(w.deps.Storage, BookingPath(w.room.ID)); err != nil {
		w.log.Warn("save redirect failed", zap.Error(err))
	}
	w.navigate(PathLogin)
}

func (w *BookingWizard) navigate(path string) {
	if w.deps.Navigator != nil {
		w.deps.Navigator.Navigate(path)
	}
}

func (w *BookingWizard) Room() models.Room {
	return w.room
}

func (w *BookingWizard) Step() WizardStep {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

func (w *BookingWizard) Form() GuestForm {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.form
}

// SetForm replaces the form. Ignored once the booking is submitted.
func (w *BookingWizard) SetForm(form GuestForm) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step == StepSubmitted {
		return
	}
	w.form = form
}

// Preview prices the form's current dates.
func (w *BookingWizard) Preview() Quote {
	w.mu.Lock()
	defer w.mu.Unlock()
	return QuoteStay(w.room.PricePerNight, w.form.CheckIn, w.form.CheckOut)
}

func (w *BookingWizard) step1Valid() bool {
	f := w.form
	return strings.TrimSpace(f.FirstName) != "" &&
		strings.TrimSpace(f.LastName) != "" &&
		strings.TrimSpace(f.Email) != "" &&
		strings.TrimSpace(f.Phone) != "" &&
		!f.CheckIn.IsZero() &&
		!f.CheckOut.IsZero() &&
		Nights(f.CheckIn, f.CheckOut) > 0
}

// Next moves from guest details to payment.
func (w *BookingWizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepGuestDetails {
		return nil
	}
	if !w.step1Valid() {
		return ErrIncompleteDetails
	}
	w.step = StepPayment
	return nil
}

// Back returns from payment to guest details, keeping the form.
func (w *BookingWizard) Back() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step == StepPayment {
		w.step = StepGuestDetails
	}
}

// validateSubmit runs the submit guards in order. Caller holds the lock.
func (w *BookingWizard) validateSubmit() error {
	f := w.form
	today := utils.DateOnly(w.deps.Now())
	checkIn := utils.DateOnly(f.CheckIn)
	checkOut := utils.DateOnly(f.CheckOut)

	if checkIn.Before(today) {
		return ErrCheckInInPast
	}
	if !checkOut.After(checkIn) {
		return ErrCheckOutNotAfterCheckIn
	}
	if Nights(checkIn, checkOut) <= 0 {
		return ErrInvalidStay
	}
	if capacity := w.room.MaxGuests(); f.Guests < 1 || f.Guests > capacity {
		return fmt.Errorf("%w: must be between 1 and %d", ErrGuestCapacity, capacity)
	}
	return nil
}

// Submit sends the booking once. On success the wizard moves to
// StepSubmitted and navigates to the profile page after the redirect delay.
// A rejected booking leaves the wizard at payment so it can be resubmitted.
// If the server accepted the booking but its id could not be read, Submit
// still moves to StepSubmitted and returns the booking with
// ErrBookingIDMissing.
func (w *BookingWizard) Submit(ctx context.Context) (*models.Booking, error) {
	w.mu.Lock()
	if w.step != StepPayment {
		w.mu.Unlock()
		return nil, ErrNotAtPayment
	}
	if w.inFlight != "" {
		w.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	if err := w.validateSubmit(); err != nil {
		w.mu.Unlock()
		return nil, err
	}

	quote := QuoteStay(w.room.PricePerNight, w.form.CheckIn, w.form.CheckOut)
	sub := models.BookingSubmission{
		RoomID:          w.room.ID,
		CheckInDate:     utils.FormatDate(utils.DateOnly(w.form.CheckIn)),
		CheckOutDate:    utils.FormatDate(utils.DateOnly(w.form.CheckOut)),
		Guests:          w.form.Guests,
		TotalPrice:      quote.Total,
		SpecialRequests: w.form.SpecialRequests,
		Status:          models.BookingPending,
	}
	reqID := uuid.NewString()
	w.inFlight = reqID
	w.mu.Unlock()

	token := ""
	if w.deps.Session != nil {
		token = w.deps.Session.Token()
	}

	w.log.Info("submitting booking",
		zap.String("request_id", reqID),
		zap.Uint("room_id", sub.RoomID),
		zap.String("check_in", sub.CheckInDate),
		zap.String("check_out", sub.CheckOutDate),
		zap.Float64("total_price", sub.TotalPrice),
	)
	res := w.deps.API.CreateBooking(ctx, token, sub)

	w.mu.Lock()
	if w.inFlight == reqID {
		w.inFlight = ""
	}

	if !res.Success {
		w.mu.Unlock()
		w.log.Warn("booking rejected",
			zap.String("request_id", reqID),
			zap.Int("status", res.StatusCode),
			zap.String("message", res.Message),
		)
		if res.RequiresAuth {
			w.requireLogin()
		}
		msg := res.Message
		if msg == "" {
			msg = "Failed to create booking. Please try again."
		}
		return nil, &SubmitError{Message: msg, RequiresAuth: res.RequiresAuth}
	}

	var booking models.Booking
	var idErr error
	if err := res.Decode(&booking); err != nil {
		w.log.Warn("booking response unreadable", zap.String("request_id", reqID), zap.Error(err))
		booking = models.Booking{}
		idErr = fmt.Errorf("%w: %v", ErrBookingIDMissing, err)
	} else if booking.ID == 0 {
		w.log.Warn("booking response has no id", zap.String("request_id", reqID))
		idErr = ErrBookingIDMissing
	}
	w.step = StepSubmitted
	w.booking = &booking
	checkIn := utils.DateOnly(w.form.CheckIn)
	checkOut := utils.DateOnly(w.form.CheckOut)
	guests := w.form.Guests
	room := w.room
	w.mu.Unlock()

	w.deps.Draft.SetBookingDetails(models.BookingDetailsPatch{
		CheckIn:         &checkIn,
		CheckOut:        &checkOut,
		Guests:          &guests,
		BookingID:       &booking.ID,
		RoomName:        &room.Name,
		RoomType:        &room.RoomType,
		RoomImage:       &room.ImageURL,
		TotalPrice:      &sub.TotalPrice,
		SpecialRequests: &sub.SpecialRequests,
	})

	cancel := w.deps.Scheduler.AfterFunc(w.deps.RedirectDelay, func() {
		w.navigate(PathProfile)
	})
	w.mu.Lock()
	w.cancelNav = cancel
	w.mu.Unlock()

	w.log.Info("booking created",
		zap.String("request_id", reqID),
		zap.Uint("booking_id", booking.ID),
		zap.Duration("redirect_in", w.deps.RedirectDelay),
	)
	return &booking, idErr
}

// Booking is the created booking once submitted, nil before.
func (w *BookingWizard) Booking() *models.Booking {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.booking == nil {
		return nil
	}
	b := *w.booking
	return &b
}

// CancelPendingNavigation stops the post-submit redirect and reports
// whether it was still pending.
func (w *BookingWizard) CancelPendingNavigation() bool {
	w.mu.Lock()
	cancel := w.cancelNav
	w.cancelNav = nil
	w.mu.Unlock()

	if cancel == nil {
		return false
	}
	return cancel()
}
