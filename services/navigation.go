package services

import (
	"fmt"
	"strings"
	"time"
)

const (
	PathHome    = "/"
	PathLogin   = "/login"
	PathProfile = "/profile"
)

// BookingPath is the booking page for a room.
func BookingPath(roomID uint) string {
	return fmt.Sprintf("/booking/%d", roomID)
}

// Navigator moves the UI to a path.
type Navigator interface {
	Navigate(path string)
}

type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// SaveRedirect remembers where to go after the next login.
func SaveRedirect(storage LocalStorage, path string) error {
	return storage.Set(KeyRedirectAfterLogin, path)
}

// ConsumeRedirect picks the post-login destination: explicit wins, then the
// saved redirect, then home. The saved redirect is removed either way.
func ConsumeRedirect(storage LocalStorage, explicit string) string {
	saved, ok, err := storage.Get(KeyRedirectAfterLogin)
	if err == nil && ok {
		_ = storage.Remove(KeyRedirectAfterLogin)
	}

	switch {
	case strings.TrimSpace(explicit) != "":
		return explicit
	case ok && strings.TrimSpace(saved) != "":
		return saved
	default:
		return PathHome
	}
}

// Scheduler runs fn once after d. The returned func cancels the run and
// reports whether it was still pending.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) (cancel func() bool)
}

// TimerScheduler is the time.AfterFunc Scheduler.
type TimerScheduler struct{}

func (TimerScheduler) AfterFunc(d time.Duration, fn func()) func() bool {
	return time.AfterFunc(d, fn).Stop
}
