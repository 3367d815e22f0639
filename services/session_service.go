package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"roomify-client/api"
	"roomify-client/models"
	"roomify-client/utils"

	"go.uber.org/zap"
)

// RehydratePolicy decides how a session restores itself from storage.
type RehydratePolicy int

const (
	// RevalidateWithServer re-fetches the profile with the stored token and
	// drops the session if that fails.
	RevalidateWithServer RehydratePolicy = iota
	// TrustCachedProfile restores the stored profile without a network call.
	TrustCachedProfile
)

func (p RehydratePolicy) String() string {
	if p == TrustCachedProfile {
		return "trust-cache"
	}
	return "revalidate"
}

// ParseRehydratePolicy accepts "revalidate" and "trust-cache".
func ParseRehydratePolicy(s string) (RehydratePolicy, error) {
	switch s {
	case "revalidate":
		return RevalidateWithServer, nil
	case "trust-cache":
		return TrustCachedProfile, nil
	}
	return RevalidateWithServer, fmt.Errorf("unknown rehydrate policy %q", s)
}

// AuthAPI is the slice of the API client the sessions need.
type AuthAPI interface {
	Login(ctx context.Context, creds models.Credentials) api.Result
	AdminLogin(ctx context.Context, creds models.Credentials) api.Result
	Register(ctx context.Context, req models.RegisterRequest) api.Result
	Profile(ctx context.Context, token string) api.Result
}

type sessionKeys struct {
	token   string
	profile string
}

// session is the state shared by the user and admin stores. Token and
// profile are set and cleared together.
type session struct {
	mu      sync.RWMutex
	token   string
	profile *models.Profile
	lastErr error

	storage LocalStorage
	api     AuthAPI
	keys    sessionKeys
	policy  RehydratePolicy
	log     *zap.Logger
}

func (s *session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Profile returns a copy of the current profile, nil when logged out.
func (s *session) Profile() *models.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil
	}
	p := *s.profile
	return &p
}

func (s *session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.profile != nil
}

// LastError is the reason the most recent Login, Register or Hydrate
// returned false.
func (s *session) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *session) fail(err error) bool {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	return false
}

// establish persists a login response. Nothing changes unless both token
// and profile are present and stored.
func (s *session) establish(res api.Result) bool {
	sess, err := api.DecodeSession(res)
	if err != nil {
		s.log.Warn("login rejected", zap.Error(err))
		return s.fail(err)
	}

	prevToken, hadToken, err := s.storage.Get(s.keys.token)
	if err != nil {
		s.log.Error("read token failed", zap.Error(err))
		return s.fail(err)
	}
	if err := s.storage.Set(s.keys.token, sess.Token); err != nil {
		s.log.Error("persist token failed", zap.Error(err))
		return s.fail(err)
	}
	if err := saveJSON(s.storage, s.keys.profile, sess.User); err != nil {
		s.log.Error("persist profile failed", zap.Error(err))
		s.restoreToken(prevToken, hadToken)
		return s.fail(err)
	}

	s.mu.Lock()
	s.token = sess.Token
	s.profile = &sess.User
	s.lastErr = nil
	s.mu.Unlock()

	s.log.Info("logged in", zap.Uint("user_id", sess.User.ID), zap.String("email", utils.MaskEmail(sess.User.Email)))
	return true
}

// restoreToken puts back the token that was stored before a failed login.
func (s *session) restoreToken(prev string, had bool) {
	var err error
	if had {
		err = s.storage.Set(s.keys.token, prev)
	} else {
		err = s.storage.Remove(s.keys.token)
	}
	if err != nil {
		s.log.Error("restore token failed", zap.Error(err))
	}
}

// Logout clears persisted and in-memory state. Safe to call repeatedly.
func (s *session) Logout() {
	if err := s.storage.Remove(s.keys.token, s.keys.profile); err != nil {
		s.log.Warn("clear session storage failed", zap.Error(err))
	}
	s.mu.Lock()
	s.token = ""
	s.profile = nil
	s.mu.Unlock()
}

// ReplaceProfile swaps in a fresh profile, e.g. after an update.
func (s *session) ReplaceProfile(p models.Profile) error {
	if !s.IsAuthenticated() {
		return ErrAuthRequired
	}
	if err := saveJSON(s.storage, s.keys.profile, p); err != nil {
		return err
	}
	s.mu.Lock()
	s.profile = &p
	s.mu.Unlock()
	return nil
}

// Hydrate restores the session from storage according to the policy and
// reports whether it ended up authenticated.
func (s *session) Hydrate(ctx context.Context) bool {
	token, ok, err := s.storage.Get(s.keys.token)
	if err != nil {
		s.log.Warn("read token failed", zap.Error(err))
		return s.fail(err)
	}
	if !ok || token == "" {
		s.mu.Lock()
		s.token, s.profile = "", nil
		s.mu.Unlock()
		return false
	}

	switch s.policy {
	case TrustCachedProfile:
		var p models.Profile
		found, err := loadJSON(s.storage, s.keys.profile, &p)
		if err != nil {
			s.log.Warn("cached profile unreadable, clearing session", zap.Error(err))
			s.Logout()
			return s.fail(err)
		}
		if !found {
			s.log.Warn("token without cached profile, clearing session")
			s.Logout()
			return s.fail(errors.New("no cached profile"))
		}
		s.mu.Lock()
		s.token, s.profile, s.lastErr = token, &p, nil
		s.mu.Unlock()
		return true

	default:
		p, err := api.DecodeProfile(s.api.Profile(ctx, token))
		if err != nil {
			s.log.Warn("profile revalidation failed, clearing session", zap.Error(err))
			s.Logout()
			return s.fail(err)
		}
		if err := saveJSON(s.storage, s.keys.profile, p); err != nil {
			s.log.Warn("persist profile failed", zap.Error(err))
		}
		s.mu.Lock()
		s.token, s.profile, s.lastErr = token, &p, nil
		s.mu.Unlock()
		return true
	}
}

// ----------------------------------------------------
// UserSession
// ----------------------------------------------------

type UserSession struct {
	session
}

func NewUserSession(storage LocalStorage, client AuthAPI, policy RehydratePolicy, log *zap.Logger) *UserSession {
	return &UserSession{session{
		storage: storage,
		api:     client,
		keys:    sessionKeys{token: KeyUserToken, profile: KeyUserProfile},
		policy:  policy,
		log:     utils.OrNop(log).Named("user-session"),
	}}
}

func (s *UserSession) Login(ctx context.Context, creds models.Credentials) bool {
	return s.establish(s.api.Login(ctx, creds))
}

// Register creates the account and then logs in with the same
// credentials. An account that registers but fails to log in reports false.
func (s *UserSession) Register(ctx context.Context, reg models.Registration) bool {
	res := s.api.Register(ctx, reg.Request())
	if err := res.Err(); err != nil {
		s.log.Warn("registration rejected", zap.Error(err))
		return s.fail(err)
	}
	return s.Login(ctx, models.Credentials{Email: reg.Email, Password: reg.Password})
}

// ----------------------------------------------------
// AdminSession
// ----------------------------------------------------

type AdminSession struct {
	session
}

func NewAdminSession(storage LocalStorage, client AuthAPI, policy RehydratePolicy, log *zap.Logger) *AdminSession {
	return &AdminSession{session{
		storage: storage,
		api:     client,
		keys:    sessionKeys{token: KeyAdminToken, profile: KeyAdminProfile},
		policy:  policy,
		log:     utils.OrNop(log).Named("admin-session"),
	}}
}

func (s *AdminSession) Login(ctx context.Context, creds models.Credentials) bool {
	return s.establish(s.api.AdminLogin(ctx, creds))
}

// IsAdmin requires an authenticated session whose profile has is_admin set.
func (s *AdminSession) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.profile != nil && s.profile.IsAdmin
}
