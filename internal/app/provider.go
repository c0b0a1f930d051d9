// Package app wires the client-side components together for one process.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/htwg-in-schneider/frontend-cooked/internal/catalog"
	"github.com/htwg-in-schneider/frontend-cooked/internal/guard"
	"github.com/htwg-in-schneider/frontend-cooked/internal/identity"
	"github.com/htwg-in-schneider/frontend-cooked/internal/profile"
	"github.com/htwg-in-schneider/frontend-cooked/internal/routes"
	"github.com/htwg-in-schneider/frontend-cooked/internal/session"
	"github.com/htwg-in-schneider/frontend-cooked/internal/telemetry"
	"github.com/htwg-in-schneider/frontend-cooked/pkg/sdk"
)

// Options configures a Provider.
type Options struct {
	APIURL  string
	BaseURL string

	Issuer       string
	ClientID     string
	ClientSecret string

	CredentialsDir string
	HTTPTimeout    time.Duration

	ReviewCapacity int
	DedupFavorites bool

	Logger logrus.FieldLogger
	// Out receives device-flow instructions.
	Out         io.Writer
	OpenBrowser bool
	// Store overrides the file credential store.
	Store identity.CredentialStore
	// Login overrides the OIDC login flow.
	Login identity.LoginFunc
}

// Provider lazily builds and shares the application components.
type Provider struct {
	opts    Options
	session *session.Authority

	identityOnce sync.Once
	identity     *identity.Authority
	identityErr  error

	clientOnce sync.Once
	client     *sdk.Client
	clientErr  error

	catalogOnce sync.Once
	catalog     *catalog.Catalog
	catalogErr  error

	navOnce sync.Once
	nav     *routes.Navigator
	navErr  error
}

// NewProvider creates a Provider. Nothing is built until first use.
func NewProvider(opts Options) *Provider {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.HTTPTimeout <= 0 {
		opts.HTTPTimeout = 10 * time.Second
	}
	return &Provider{opts: opts, session: session.NewAuthority()}
}

// Options returns the options the provider was built with.
func (p *Provider) Options() Options { return p.opts }

// Session returns the process-wide session authority.
func (p *Provider) Session() *session.Authority { return p.session }

// Identity returns the identity authority backed by the credential store.
func (p *Provider) Identity() (*identity.Authority, error) {
	p.identityOnce.Do(func() {
		store := p.opts.Store
		if store == nil {
			fs, err := identity.NewFileStore(p.opts.CredentialsDir)
			if err != nil {
				p.identityErr = err
				return
			}
			store = fs
		}

		var login identity.LoginFunc
		var opts []identity.Option
		opts = append(opts, identity.WithLogger(p.opts.Logger), identity.OnIdentityChange(p.resetCatalog))
		if p.opts.Issuer != "" && p.opts.ClientID != "" {
			if p.opts.ClientSecret != "" {
				login = identity.ServiceAccountLogin(p.opts.Issuer, p.opts.ClientID, p.opts.ClientSecret)
			} else {
				login = identity.DeviceCodeLogin(p.opts.Issuer, p.opts.ClientID, p.opts.Out, p.opts.OpenBrowser)
			}
			opts = append(opts, identity.WithRefresh(identity.OIDCRefresh(p.opts.Issuer, p.opts.ClientID)))
		}

		if p.opts.Login != nil {
			login = p.opts.Login
		}
		p.identity = identity.NewAuthority(store, p.session, login, opts...)
	})
	return p.identity, p.identityErr
}

// Client returns the backend client authenticated through Identity.
func (p *Provider) Client() (*sdk.Client, error) {
	p.clientOnce.Do(func() {
		id, err := p.Identity()
		if err != nil {
			p.clientErr = err
			return
		}
		p.client = sdk.NewClient(p.opts.APIURL,
			sdk.WithHTTPClient(&http.Client{Timeout: p.opts.HTTPTimeout}),
			sdk.WithTokenProvider(id),
			sdk.WithUserAgent("cooked-cli"),
		)
	})
	return p.client, p.clientErr
}

// Catalog returns the deduplicating catalog read paths.
func (p *Provider) Catalog() (*catalog.Catalog, error) {
	p.catalogOnce.Do(func() {
		client, err := p.Client()
		if err != nil {
			p.catalogErr = err
			return
		}
		metrics, err := telemetry.NewCacheMetrics()
		if err != nil {
			p.catalogErr = fmt.Errorf("failed to create cache metrics: %w", err)
			return
		}
		p.catalog, p.catalogErr = catalog.New(client, catalog.Options{
			ReviewCapacity: p.opts.ReviewCapacity,
			DedupFavorites: p.opts.DedupFavorites,
			Logger:         p.opts.Logger,
			Metrics:        metrics,
		})
	})
	return p.catalog, p.catalogErr
}

// resetCatalog drops cached reads of the previous identity.
func (p *Provider) resetCatalog() {
	cat, err := p.Catalog()
	if err != nil {
		p.opts.Logger.WithError(err).Warn("failed to reset catalog caches")
		return
	}
	cat.Reset()
}

// Navigator returns the guarded route navigator.
func (p *Provider) Navigator() (*routes.Navigator, error) {
	p.navOnce.Do(func() {
		id, err := p.Identity()
		if err != nil {
			p.navErr = err
			return
		}
		client, err := p.Client()
		if err != nil {
			p.navErr = err
			return
		}
		metrics, err := telemetry.NewGuardMetrics()
		if err != nil {
			p.navErr = fmt.Errorf("failed to create guard metrics: %w", err)
			return
		}
		router, err := routes.NewRouter(routes.Table)
		if err != nil {
			p.navErr = err
			return
		}

		engine := guard.NewEngine(id, p.session, profile.NewResolver(client),
			guard.WithLogger(p.opts.Logger),
			guard.WithMetrics(metrics),
		)
		p.nav = routes.NewNavigator(router, engine, p.opts.Logger)
	})
	return p.nav, p.navErr
}

// Navigate resolves fullPath and, when the guard sent the user through a
// completed login, continues at the recorded target once.
func (p *Provider) Navigate(ctx context.Context, fullPath string) (routes.Resolution, error) {
	nav, err := p.Navigator()
	if err != nil {
		return routes.Resolution{}, err
	}
	res, err := nav.Navigate(ctx, fullPath)
	if err != nil || res.Verdict.Kind != guard.RedirectToLogin {
		return res, err
	}

	id, err := p.Identity()
	if err != nil {
		return res, err
	}
	state, ok := id.PendingState()
	if !ok || !id.IsAuthenticated(ctx) {
		return res, nil
	}
	return nav.Navigate(ctx, state.TargetURL)
}

// EnsureTimeout applies timeout to ctx unless it already has a deadline.
func EnsureTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
