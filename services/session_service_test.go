package services

import (
	"context"
	"encoding/json"
	"testing"

	"roomify-client/api"
	"roomify-client/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	guestProfile = models.Profile{ID: 7, Username: "ada", FullName: "Ada Lovelace", Email: "ada@example.com", PhoneNumber: "0812"}
	adminProfile = models.Profile{ID: 1, Username: "admin", Email: "admin@roomify.local", IsAdmin: true}
)

func storedProfile(t *testing.T, s LocalStorage, key string) *models.Profile {
	t.Helper()
	raw, ok, err := s.Get(key)
	require.NoError(t, err)
	if !ok {
		return nil
	}
	var p models.Profile
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	return &p
}

func TestUserSession_Login(t *testing.T) {
	storage := NewMemoryStorage()
	auth := &fakeAuth{login: loginResult("tok-1", guestProfile)}
	s := NewUserSession(storage, auth, RevalidateWithServer, nil)

	require.True(t, s.Login(context.Background(), models.Credentials{Email: "ada@example.com", Password: "pw"}))
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "tok-1", s.Token())
	assert.Equal(t, "ada@example.com", s.Profile().Email)
	assert.NoError(t, s.LastError())

	token, ok, _ := storage.Get(KeyUserToken)
	assert.True(t, ok)
	assert.Equal(t, "tok-1", token)
	assert.Equal(t, &guestProfile, storedProfile(t, storage, KeyUserProfile))
}

func TestUserSession_LoginWithoutTokenChangesNothing(t *testing.T) {
	storage := NewMemoryStorage()
	auth := &fakeAuth{login: okResult(map[string]interface{}{"success": true, "user": guestProfile})}
	s := NewUserSession(storage, auth, RevalidateWithServer, nil)

	assert.False(t, s.Login(context.Background(), models.Credentials{}))
	assert.False(t, s.IsAuthenticated())
	assert.ErrorIs(t, s.LastError(), api.ErrMalformedResponse)

	_, ok, _ := storage.Get(KeyUserToken)
	assert.False(t, ok)
	_, ok, _ = storage.Get(KeyUserProfile)
	assert.False(t, ok)
}

func TestUserSession_LoginRejected(t *testing.T) {
	auth := &fakeAuth{login: failResult(401, "Invalid email or password")}
	s := NewUserSession(NewMemoryStorage(), auth, RevalidateWithServer, nil)

	assert.False(t, s.Login(context.Background(), models.Credentials{}))
	require.Error(t, s.LastError())
	assert.Equal(t, "Invalid email or password", s.LastError().Error())
}

func TestUserSession_ProfileWriteFailureRollsBackToken(t *testing.T) {
	storage := &failingStorage{MemoryStorage: NewMemoryStorage(), failSet: map[string]bool{KeyUserProfile: true}}
	auth := &fakeAuth{login: loginResult("tok-1", guestProfile)}
	s := NewUserSession(storage, auth, RevalidateWithServer, nil)

	assert.False(t, s.Login(context.Background(), models.Credentials{}))
	assert.ErrorIs(t, s.LastError(), errStorageDown)
	assert.False(t, s.IsAuthenticated())

	_, ok, _ := storage.Get(KeyUserToken)
	assert.False(t, ok)
}

func TestUserSession_FailedReloginKeepsPreviousSession(t *testing.T) {
	storage := &failingStorage{MemoryStorage: NewMemoryStorage(), failSet: map[string]bool{}}
	auth := &fakeAuth{login: loginResult("tok-A", guestProfile)}
	s := NewUserSession(storage, auth, RevalidateWithServer, nil)
	require.True(t, s.Login(context.Background(), models.Credentials{}))

	other := guestProfile
	other.ID = 8
	auth.login = loginResult("tok-B", other)
	storage.failSet[KeyUserProfile] = true

	assert.False(t, s.Login(context.Background(), models.Credentials{}))
	assert.ErrorIs(t, s.LastError(), errStorageDown)
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "tok-A", s.Token())

	token, ok, err := storage.Get(KeyUserToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok-A", token)
	assert.Equal(t, guestProfile.ID, storedProfile(t, storage, KeyUserProfile).ID)
}

func TestUserSession_Register(t *testing.T) {
	t.Run("registers then logs in", func(t *testing.T) {
		auth := &fakeAuth{
			register: okResult(map[string]interface{}{"success": true, "message": "User registered successfully"}),
			login:    loginResult("tok-2", guestProfile),
		}
		s := NewUserSession(NewMemoryStorage(), auth, RevalidateWithServer, nil)

		ok := s.Register(context.Background(), models.Registration{Name: "Ada Lovelace", Email: "ada@example.com", Password: "pw"})
		require.True(t, ok)
		assert.True(t, s.IsAuthenticated())

		require.Len(t, auth.registered, 1)
		assert.Equal(t, "Ada Lovelace", auth.registered[0].Username)
		assert.Equal(t, "Ada Lovelace", auth.registered[0].FullName)
	})

	t.Run("registration rejected", func(t *testing.T) {
		auth := &fakeAuth{register: failResult(400, "Email already exists")}
		s := NewUserSession(NewMemoryStorage(), auth, RevalidateWithServer, nil)

		assert.False(t, s.Register(context.Background(), models.Registration{Email: "a@b.c", Password: "pw"}))
		assert.Equal(t, "Email already exists", s.LastError().Error())
	})

	t.Run("registered but login fails", func(t *testing.T) {
		auth := &fakeAuth{
			register: okResult(map[string]interface{}{"success": true}),
			login:    failResult(500, "Login failed"),
		}
		s := NewUserSession(NewMemoryStorage(), auth, RevalidateWithServer, nil)

		assert.False(t, s.Register(context.Background(), models.Registration{Email: "a@b.c", Password: "pw"}))
		assert.False(t, s.IsAuthenticated())
		assert.Len(t, auth.registered, 1)
	})
}

func TestSession_LogoutIsIdempotent(t *testing.T) {
	storage := NewMemoryStorage()
	auth := &fakeAuth{login: loginResult("tok-1", guestProfile)}
	s := NewUserSession(storage, auth, RevalidateWithServer, nil)
	require.NoError(t, storage.Set(KeyProfileExtras, `{"city":"Bandung"}`))
	require.True(t, s.Login(context.Background(), models.Credentials{}))

	s.Logout()
	s.Logout()

	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())
	assert.Nil(t, s.Profile())
	_, ok, _ := storage.Get(KeyUserToken)
	assert.False(t, ok)
	_, ok, _ = storage.Get(KeyUserProfile)
	assert.False(t, ok)

	// unrelated keys survive
	_, ok, _ = storage.Get(KeyProfileExtras)
	assert.True(t, ok)
}

func TestSession_UserAndAdminAreIndependent(t *testing.T) {
	storage := NewMemoryStorage()
	auth := &fakeAuth{login: loginResult("user-tok", guestProfile), adminLogin: loginResult("admin-tok", adminProfile)}
	user := NewUserSession(storage, auth, RevalidateWithServer, nil)
	admin := NewAdminSession(storage, auth, TrustCachedProfile, nil)

	require.True(t, user.Login(context.Background(), models.Credentials{}))
	require.True(t, admin.Login(context.Background(), models.Credentials{}))
	assert.True(t, admin.IsAdmin())

	user.Logout()
	assert.True(t, admin.IsAuthenticated())
	token, ok, _ := storage.Get(KeyAdminToken)
	assert.True(t, ok)
	assert.Equal(t, "admin-tok", token)
}

func TestHydrate_Revalidate(t *testing.T) {
	t.Run("valid token", func(t *testing.T) {
		storage := NewMemoryStorage()
		require.NoError(t, storage.Set(KeyUserToken, "tok"))
		auth := &fakeAuth{profile: okResult(guestProfile)}
		s := NewUserSession(storage, auth, RevalidateWithServer, nil)

		require.True(t, s.Hydrate(context.Background()))
		assert.Equal(t, 1, auth.profileCalls)
		assert.Equal(t, "Ada Lovelace", s.Profile().FullName)
		assert.Equal(t, &guestProfile, storedProfile(t, storage, KeyUserProfile))
	})

	t.Run("rejected token clears the session", func(t *testing.T) {
		storage := NewMemoryStorage()
		require.NoError(t, storage.Set(KeyUserToken, "stale"))
		require.NoError(t, saveJSON(storage, KeyUserProfile, guestProfile))
		auth := &fakeAuth{profile: failResult(401, "Invalid or expired token")}
		s := NewUserSession(storage, auth, RevalidateWithServer, nil)

		assert.False(t, s.Hydrate(context.Background()))
		assert.False(t, s.IsAuthenticated())
		_, ok, _ := storage.Get(KeyUserToken)
		assert.False(t, ok)
		_, ok, _ = storage.Get(KeyUserProfile)
		assert.False(t, ok)
	})

	t.Run("no token makes no call", func(t *testing.T) {
		auth := &fakeAuth{}
		s := NewUserSession(NewMemoryStorage(), auth, RevalidateWithServer, nil)

		assert.False(t, s.Hydrate(context.Background()))
		assert.Zero(t, auth.profileCalls)
	})
}

func TestHydrate_TrustCache(t *testing.T) {
	t.Run("restores without a network call", func(t *testing.T) {
		storage := NewMemoryStorage()
		require.NoError(t, storage.Set(KeyAdminToken, "admin-tok"))
		require.NoError(t, saveJSON(storage, KeyAdminProfile, adminProfile))
		auth := &fakeAuth{}
		s := NewAdminSession(storage, auth, TrustCachedProfile, nil)

		require.True(t, s.Hydrate(context.Background()))
		assert.Zero(t, auth.profileCalls)
		assert.True(t, s.IsAdmin())
	})

	t.Run("unreadable profile clears the session", func(t *testing.T) {
		storage := NewMemoryStorage()
		require.NoError(t, storage.Set(KeyAdminToken, "admin-tok"))
		require.NoError(t, storage.Set(KeyAdminProfile, "{broken"))
		s := NewAdminSession(storage, &fakeAuth{}, TrustCachedProfile, nil)

		assert.False(t, s.Hydrate(context.Background()))
		_, ok, _ := storage.Get(KeyAdminToken)
		assert.False(t, ok)
	})

	t.Run("missing profile clears the orphan token", func(t *testing.T) {
		storage := NewMemoryStorage()
		require.NoError(t, storage.Set(KeyAdminToken, "admin-tok"))
		s := NewAdminSession(storage, &fakeAuth{}, TrustCachedProfile, nil)

		assert.False(t, s.Hydrate(context.Background()))
		assert.False(t, s.IsAuthenticated())
		assert.Empty(t, s.Token())
		_, ok, _ := storage.Get(KeyAdminToken)
		assert.False(t, ok)
	})
}

func TestAdminSession_NonAdminProfile(t *testing.T) {
	auth := &fakeAuth{adminLogin: loginResult("tok", guestProfile)}
	s := NewAdminSession(NewMemoryStorage(), auth, TrustCachedProfile, nil)

	require.True(t, s.Login(context.Background(), models.Credentials{}))
	assert.True(t, s.IsAuthenticated())
	assert.False(t, s.IsAdmin())
}

func TestReplaceProfile(t *testing.T) {
	storage := NewMemoryStorage()
	s := NewUserSession(storage, &fakeAuth{login: loginResult("tok", guestProfile)}, RevalidateWithServer, nil)

	assert.ErrorIs(t, s.ReplaceProfile(guestProfile), ErrAuthRequired)

	require.True(t, s.Login(context.Background(), models.Credentials{}))
	updated := guestProfile
	updated.FullName = "Ada King"
	require.NoError(t, s.ReplaceProfile(updated))
	assert.Equal(t, "Ada King", s.Profile().FullName)
	assert.Equal(t, "Ada King", storedProfile(t, storage, KeyUserProfile).FullName)
}

func TestParseRehydratePolicy(t *testing.T) {
	p, err := ParseRehydratePolicy("trust-cache")
	require.NoError(t, err)
	assert.Equal(t, TrustCachedProfile, p)
	assert.Equal(t, "trust-cache", p.String())

	p, err = ParseRehydratePolicy("revalidate")
	require.NoError(t, err)
	assert.Equal(t, RevalidateWithServer, p)

	_, err = ParseRehydratePolicy("sometimes")
	assert.Error(t, err)
}
