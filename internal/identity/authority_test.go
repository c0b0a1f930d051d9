package identity

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/htwg-in-schneider/frontend-cooked/internal/guard"
	"github.com/htwg-in-schneider/frontend-cooked/internal/session"
	"github.com/htwg-in-schneider/frontend-cooked/pkg/sdk"
)

func quiet() Option {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return WithLogger(l)
}

func newStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "cooked"))
	require.NoError(t, err)
	return store
}

func TestFileStore_RoundTripAndPermissions(t *testing.T) {
	store := newStore(t)

	_, err := store.LoadCredentials()
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	require.NoError(t, store.DeleteCredentials(), "deleting nothing is fine")

	creds := &sdk.Credentials{AccessToken: "a", TokenType: "Bearer", RefreshToken: "r", Subject: "u1", ExpiresAt: time.Now().Add(time.Hour).Round(time.Second)}
	require.NoError(t, store.SaveCredentials(creds))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := store.LoadCredentials()
	require.NoError(t, err)
	assert.Equal(t, creds.AccessToken, loaded.AccessToken)
	assert.Equal(t, creds.Subject, loaded.Subject)
	assert.True(t, creds.ExpiresAt.Equal(loaded.ExpiresAt))

	require.NoError(t, store.DeleteCredentials())
	_, err = store.LoadCredentials()
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestAuthority_IsAuthenticated(t *testing.T) {
	tests := []struct {
		name    string
		creds   *sdk.Credentials
		refresh bool
		want    bool
	}{
		{"no credentials", nil, true, false},
		{"valid token", &sdk.Credentials{AccessToken: "a", ExpiresAt: time.Now().Add(time.Hour)}, false, true},
		{"no expiry", &sdk.Credentials{AccessToken: "a"}, false, true},
		{"expired without refresh token", &sdk.Credentials{AccessToken: "a", ExpiresAt: time.Now().Add(-time.Hour)}, true, false},
		{"expired with refresh token", &sdk.Credentials{AccessToken: "a", RefreshToken: "r", ExpiresAt: time.Now().Add(-time.Hour)}, true, true},
		{"expired, refresh disabled", &sdk.Credentials{AccessToken: "a", RefreshToken: "r", ExpiresAt: time.Now().Add(-time.Hour)}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore(t)
			if tt.creds != nil {
				require.NoError(t, store.SaveCredentials(tt.creds))
			}
			opts := []Option{quiet()}
			if tt.refresh {
				opts = append(opts, WithRefresh(func(context.Context, string) (*sdk.Credentials, error) {
					return nil, errors.New("unused")
				}))
			}
			a := NewAuthority(store, session.NewAuthority(), nil, opts...)
			assert.Equal(t, tt.want, a.IsAuthenticated(context.Background()))
		})
	}
}

func TestAuthority_TokenReusesValidToken(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.SaveCredentials(&sdk.Credentials{AccessToken: "a", TokenType: "Bearer", ExpiresAt: time.Now().Add(time.Hour)}))

	var refreshes atomic.Int32
	a := NewAuthority(store, session.NewAuthority(), nil, quiet(), WithRefresh(func(context.Context, string) (*sdk.Credentials, error) {
		refreshes.Add(1)
		return nil, errors.New("should not refresh")
	}))

	for i := 0; i < 3; i++ {
		tok, err := a.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "a", tok.AccessToken)
	}
	assert.Zero(t, refreshes.Load())
}

func TestAuthority_TokenRefreshesExpiredToken(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.SaveCredentials(&sdk.Credentials{
		AccessToken:  "old",
		TokenType:    "Bearer",
		RefreshToken: "r1",
		Subject:      "user-1",
		ExpiresAt:    time.Now().Add(-time.Minute),
	}))

	var gotRefresh string
	a := NewAuthority(store, session.NewAuthority(), nil, quiet(), WithRefresh(func(_ context.Context, rt string) (*sdk.Credentials, error) {
		gotRefresh = rt
		return &sdk.Credentials{AccessToken: "new", TokenType: "Bearer", ExpiresAt: time.Now().Add(time.Hour)}, nil
	}))

	tok, err := a.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new", tok.AccessToken)
	assert.Equal(t, "r1", gotRefresh)

	saved, err := store.LoadCredentials()
	require.NoError(t, err)
	assert.Equal(t, "new", saved.AccessToken)
	assert.Equal(t, "r1", saved.RefreshToken, "previous refresh token kept")
	assert.Equal(t, "user-1", saved.Subject)
}

func TestAuthority_TokenExpiredWithoutRefresh(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.SaveCredentials(&sdk.Credentials{AccessToken: "old", ExpiresAt: time.Now().Add(-time.Minute)}))
	a := NewAuthority(store, session.NewAuthority(), nil, quiet())

	_, err := a.Token(context.Background())
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestAuthority_LoginWithRedirect(t *testing.T) {
	store := newStore(t)
	sess := session.NewAuthority()
	sess.SetProfile(&session.Profile{ID: "old", Role: session.RoleAdmin})

	a := NewAuthority(store, sess, func(context.Context) (*sdk.Credentials, error) {
		return &sdk.Credentials{AccessToken: "fresh", TokenType: "Bearer", ExpiresAt: time.Now().Add(time.Hour)}, nil
	}, quiet())

	require.NoError(t, a.LoginWithRedirect(context.Background(), guard.AppState{TargetURL: "/admin/users"}))
	assert.True(t, a.IsAuthenticated(context.Background()))
	assert.Nil(t, sess.Profile(), "new identity starts without a role")

	tok, err := a.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh", tok.AccessToken)

	state, ok := a.PendingState()
	require.True(t, ok)
	assert.Equal(t, "/admin/users", state.TargetURL)
	_, ok = a.PendingState()
	assert.False(t, ok)
}

func TestAuthority_LoginFailure(t *testing.T) {
	a := NewAuthority(newStore(t), session.NewAuthority(), func(context.Context) (*sdk.Credentials, error) {
		return nil, errors.New("access_denied")
	}, quiet())

	err := a.LoginWithRedirect(context.Background(), guard.AppState{TargetURL: "/profile"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access_denied")
	assert.False(t, a.IsAuthenticated(context.Background()))

	noFlow := NewAuthority(newStore(t), session.NewAuthority(), nil, quiet())
	assert.Error(t, noFlow.LoginWithRedirect(context.Background(), guard.AppState{}))
}

func TestAuthority_Logout(t *testing.T) {
	store := newStore(t)
	sess := session.NewAuthority()
	a := NewAuthority(store, sess, func(context.Context) (*sdk.Credentials, error) {
		return &sdk.Credentials{AccessToken: "t"}, nil
	}, quiet())

	_, err := a.Login(context.Background())
	require.NoError(t, err)
	sess.SetProfile(&session.Profile{Role: session.RoleUser})
	_, err = a.Token(context.Background())
	require.NoError(t, err)

	require.NoError(t, a.Logout(context.Background()))
	assert.False(t, a.IsAuthenticated(context.Background()))
	assert.Nil(t, sess.Profile())

	_, err = a.Token(context.Background())
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestAuthority_IdentityChangeHooks(t *testing.T) {
	var resets atomic.Int32
	a := NewAuthority(newStore(t), session.NewAuthority(), func(context.Context) (*sdk.Credentials, error) {
		return &sdk.Credentials{AccessToken: "t"}, nil
	}, quiet(), OnIdentityChange(func() { resets.Add(1) }))

	require.NoError(t, a.LoginWithRedirect(context.Background(), guard.AppState{TargetURL: "/favorites"}))
	assert.Equal(t, int32(1), resets.Load())

	_, err := a.Login(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), resets.Load())

	require.NoError(t, a.Logout(context.Background()))
	assert.Equal(t, int32(3), resets.Load())

	failing := NewAuthority(newStore(t), session.NewAuthority(), func(context.Context) (*sdk.Credentials, error) {
		return nil, errors.New("access_denied")
	}, quiet(), OnIdentityChange(func() { resets.Add(1) }))
	assert.Error(t, failing.LoginWithRedirect(context.Background(), guard.AppState{}))
	assert.Equal(t, int32(3), resets.Load(), "a failed login keeps the previous identity's caches")
}
