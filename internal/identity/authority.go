// Package identity adapts the OIDC provider and the local credential store
// to the guard's Identity contract.
package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/htwg-in-schneider/frontend-cooked/internal/guard"
	"github.com/htwg-in-schneider/frontend-cooked/internal/session"
	"github.com/htwg-in-schneider/frontend-cooked/pkg/sdk"
)

// LoginFunc runs an interactive or non-interactive login and returns fresh credentials.
type LoginFunc func(ctx context.Context) (*sdk.Credentials, error)

// RefreshFunc exchanges a refresh token for new credentials.
type RefreshFunc func(ctx context.Context, refreshToken string) (*sdk.Credentials, error)

const refreshTimeout = 30 * time.Second

// Authority is the identity provider seen by the rest of the application:
// it knows whether a user is signed in, hands out access tokens and starts
// the login flow.
type Authority struct {
	store   CredentialStore
	session *session.Authority
	login   LoginFunc
	refresh RefreshFunc
	onReset []func()
	log     logrus.FieldLogger

	mu      sync.Mutex
	tokens  oauth2.TokenSource
	pending *guard.AppState
}

var _ guard.Identity = (*Authority)(nil)

// Option configures an Authority.
type Option func(*Authority)

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(a *Authority) { a.log = l }
}

// WithRefresh enables silent token refresh.
func WithRefresh(fn RefreshFunc) Option {
	return func(a *Authority) { a.refresh = fn }
}

// OnIdentityChange registers fn to run after a login or logout, once the
// session has been cleared.
func OnIdentityChange(fn func()) Option {
	return func(a *Authority) { a.onReset = append(a.onReset, fn) }
}

// NewAuthority creates an Authority. login is run by LoginWithRedirect; the
// session is cleared whenever the signed-in identity changes.
func NewAuthority(store CredentialStore, sess *session.Authority, login LoginFunc, opts ...Option) *Authority {
	a := &Authority{
		store:   store,
		session: sess,
		login:   login,
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// IsAuthenticated reports whether stored credentials are usable, either
// directly or after a refresh.
func (a *Authority) IsAuthenticated(ctx context.Context) bool {
	creds, err := a.store.LoadCredentials()
	if err != nil {
		if !errors.Is(err, ErrNotLoggedIn) {
			a.log.WithError(err).Warn("failed to load credentials")
		}
		return false
	}
	if !creds.IsExpired() {
		return true
	}
	return a.refresh != nil && creds.CanRefresh()
}

// Credentials returns the stored credentials.
func (a *Authority) Credentials() (*sdk.Credentials, error) {
	return a.store.LoadCredentials()
}

// Token returns a valid access token, refreshing it when expired.
func (a *Authority) Token(ctx context.Context) (*oauth2.Token, error) {
	a.mu.Lock()
	ts := a.tokens
	if ts == nil {
		creds, err := a.store.LoadCredentials()
		if err != nil {
			a.mu.Unlock()
			return nil, err
		}
		ts = oauth2.ReuseTokenSource(creds.OAuth2Token(), &refreshingSource{authority: a})
		a.tokens = ts
	}
	a.mu.Unlock()

	tok, err := ts.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to obtain access token: %w", err)
	}
	return tok, nil
}

// LoginWithRedirect records where to continue and runs the login flow.
// The pending state is available through PendingState once login returns.
func (a *Authority) LoginWithRedirect(ctx context.Context, state guard.AppState) error {
	if a.login == nil {
		return fmt.Errorf("login for %s: no login flow configured", state.TargetURL)
	}

	a.mu.Lock()
	a.pending = &state
	a.mu.Unlock()

	a.log.WithField("target", state.TargetURL).Info("login required")
	creds, err := a.login(ctx)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	return a.adopt(creds)
}

// Login runs the login flow without a target.
func (a *Authority) Login(ctx context.Context) (*sdk.Credentials, error) {
	if a.login == nil {
		return nil, errors.New("no login flow configured")
	}
	creds, err := a.login(ctx)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	if err := a.adopt(creds); err != nil {
		return nil, err
	}
	return creds, nil
}

// PendingState returns and forgets the state recorded by the last LoginWithRedirect.
func (a *Authority) PendingState() (guard.AppState, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.pending == nil {
		return guard.AppState{}, false
	}
	state := *a.pending
	a.pending = nil
	return state, true
}

// Logout forgets the credentials and the session profile.
func (a *Authority) Logout(ctx context.Context) error {
	a.mu.Lock()
	a.tokens = nil
	a.pending = nil
	a.mu.Unlock()

	a.session.Clear()
	a.identityChanged()
	if err := a.store.DeleteCredentials(); err != nil {
		return err
	}
	a.log.Debug("logged out")
	return nil
}

// adopt stores fresh credentials from a login and resets everything derived from the previous identity.
func (a *Authority) adopt(creds *sdk.Credentials) error {
	if creds == nil || creds.AccessToken == "" {
		return errors.New("login returned no access token")
	}
	if err := a.store.SaveCredentials(creds); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}

	a.mu.Lock()
	a.tokens = nil
	a.mu.Unlock()
	a.session.Clear()
	a.identityChanged()

	a.log.WithFields(logrus.Fields{
		"subject":    creds.Subject,
		"expires_at": creds.ExpiresAt,
	}).Debug("credentials stored")
	return nil
}

func (a *Authority) identityChanged() {
	for _, fn := range a.onReset {
		fn()
	}
}

// refreshingSource is the fallback behind the reusable token source; it is
// only consulted once the current token expired.
type refreshingSource struct {
	authority *Authority
}

func (s *refreshingSource) Token() (*oauth2.Token, error) {
	a := s.authority
	if a.refresh == nil {
		return nil, fmt.Errorf("access token expired: %w", ErrNotLoggedIn)
	}
	creds, err := a.store.LoadCredentials()
	if err != nil {
		return nil, err
	}
	if !creds.CanRefresh() {
		return nil, fmt.Errorf("access token expired and no refresh token: %w", ErrNotLoggedIn)
	}

	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	refreshed, err := a.refresh(ctx, creds.RefreshToken)
	if err != nil {
		return nil, err
	}
	refreshed = sdk.CredentialsFromToken(refreshed.OAuth2Token(), creds)
	if err := a.store.SaveCredentials(refreshed); err != nil {
		a.log.WithError(err).Warn("failed to persist refreshed credentials")
	}
	a.log.WithField("expires_at", refreshed.ExpiresAt).Debug("access token refreshed")
	return refreshed.OAuth2Token(), nil
}
