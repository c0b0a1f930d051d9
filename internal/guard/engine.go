// Package guard decides, before every route transition, whether the
// navigation proceeds, needs a login, or is redirected.
//
// Evaluation order is fixed:
//
//  1. auth gate: protected route and not authenticated -> login, stop
//  2. role hydration: authenticated and no role yet -> resolve the profile
//  3. admin gate: admin route and role != ADMIN -> redirect to /profile
//  4. proceed
//
// Hydration runs before the admin gate so a freshly signed-in admin is
// recognized, and after the auth gate so anonymous users never trigger a
// profile fetch. A failed hydration clears the session and does not abort
// the navigation; admin checks then fail closed.
package guard

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/htwg-in-schneider/frontend-cooked/internal/session"
	"github.com/htwg-in-schneider/frontend-cooked/internal/telemetry"
	"github.com/htwg-in-schneider/frontend-cooked/pkg/sdk"
)

// Identity is the identity provider as seen by the guard.
type Identity interface {
	sdk.TokenProvider

	// IsAuthenticated reports the provider's live authenticated flag.
	IsAuthenticated(ctx context.Context) bool
	// LoginWithRedirect starts the provider's login flow. After a successful
	// login the application continues at state.TargetURL.
	LoginWithRedirect(ctx context.Context, state AppState) error
}

// ProfileResolver fetches the signed-in user's profile.
type ProfileResolver interface {
	Resolve(ctx context.Context, tokens sdk.TokenProvider) (*session.Profile, error)
}

// Engine evaluates navigation intents.
type Engine struct {
	identity Identity
	session  *session.Authority
	resolver ProfileResolver

	log     logrus.FieldLogger
	metrics *telemetry.GuardMetrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Engine) { e.log = l }
}

// WithMetrics attaches guard instruments.
func WithMetrics(m *telemetry.GuardMetrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine wires the guard to its collaborators.
func NewEngine(identity Identity, authority *session.Authority, resolver ProfileResolver, opts ...Option) *Engine {
	e := &Engine{
		identity: identity,
		session:  authority,
		resolver: resolver,
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate runs the guard for one navigation. Only an error from the
// identity provider's login is returned; hydration failures are absorbed.
func (e *Engine) Evaluate(ctx context.Context, intent Intent) (Verdict, error) {
	ctx, span := telemetry.StartSpan(ctx, "cooked/guard", "guard.Evaluate",
		attribute.String("nav.path", intent.FullPath),
	)
	defer span.End()

	log := e.log.WithFields(logrus.Fields{
		"nav_id": uuid.NewString(),
		"path":   intent.FullPath,
	})

	authenticated := e.identity.IsAuthenticated(ctx)

	if intent.RequiresAuth && !authenticated {
		state := AppState{TargetURL: intent.FullPath}
		log.Debug("route requires authentication, starting login")
		if err := e.identity.LoginWithRedirect(ctx, state); err != nil {
			telemetry.RecordError(span, err)
			return Verdict{}, err
		}
		return e.verdict(ctx, log, LoginVerdict(intent.FullPath)), nil
	}

	if authenticated {
		if _, known := e.session.Role(); !known {
			e.hydrate(ctx, log)
		}
	}

	if intent.RequiresAdmin && !e.session.IsAdmin() {
		return e.verdict(ctx, log, RedirectVerdict(AdminFallbackPath)), nil
	}

	return e.verdict(ctx, log, ProceedVerdict()), nil
}

// hydrate resolves the profile into the session. Writes are sequenced so a
// slower, older navigation cannot overwrite the result of a newer one.
func (e *Engine) hydrate(ctx context.Context, log logrus.FieldLogger) {
	gen := e.session.Begin()

	profile, err := e.resolver.Resolve(ctx, e.identity)
	e.metrics.RecordHydration(ctx, err == nil)
	if err != nil {
		log.WithError(err).Error("failed to resolve profile, clearing session")
		if !e.session.ClearAt(gen) {
			log.Debug("newer navigation already updated the session, clear discarded")
		}
		return
	}

	if e.session.SetProfileAt(gen, profile) {
		log.WithField("role", profile.Role).Debug("session hydrated")
	} else {
		log.Debug("newer navigation already updated the session, profile discarded")
	}
}

func (e *Engine) verdict(ctx context.Context, log logrus.FieldLogger, v Verdict) Verdict {
	e.metrics.RecordVerdict(ctx, v.Kind.String())
	log.WithField("verdict", v.String()).Debug("navigation evaluated")
	return v
}
