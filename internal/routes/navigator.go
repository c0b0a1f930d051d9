package routes

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/htwg-in-schneider/frontend-cooked/internal/guard"
)

// ErrRedirectLoop is returned when guard redirects revisit a path or exceed MaxRedirects.
var ErrRedirectLoop = errors.New("redirect loop")

// MaxRedirects bounds the guard redirects followed for one navigation.
const MaxRedirects = 5

// Evaluator decides a single navigation step.
type Evaluator interface {
	Evaluate(ctx context.Context, intent guard.Intent) (guard.Verdict, error)
}

// Resolution is the outcome of a navigation.
type Resolution struct {
	// Match is the route the navigation ended on. For a login verdict it is
	// the route that required authentication.
	Match Match
	// Verdict is the final guard verdict: Proceed or RedirectToLogin.
	Verdict guard.Verdict
	// Redirects lists the paths the navigation was redirected through, in order.
	Redirects []string
}

// Navigator runs navigations through the router and the guard.
type Navigator struct {
	router *Router
	guard  Evaluator
	log    logrus.FieldLogger
}

// NewNavigator creates a Navigator. A nil log uses the standard logger.
func NewNavigator(router *Router, guard Evaluator, log logrus.FieldLogger) *Navigator {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Navigator{router: router, guard: guard, log: log}
}

// Routes returns the routes the navigator can resolve, in table order.
func (n *Navigator) Routes() []Route {
	return n.router.Routes()
}

// Navigate resolves fullPath, following guard redirects until the guard
// lets the navigation proceed or hands it to the login flow.
func (n *Navigator) Navigate(ctx context.Context, fullPath string) (Resolution, error) {
	var res Resolution
	visited := map[string]bool{}
	target := fullPath

	for {
		m, err := n.router.Match(target)
		if err != nil {
			return res, err
		}
		if visited[m.Path] {
			return res, fmt.Errorf("%w: %s revisited", ErrRedirectLoop, m.Path)
		}
		visited[m.Path] = true
		res.Match = m

		verdict, err := n.guard.Evaluate(ctx, guard.Intent{
			RequiresAuth:  m.Route.Meta.RequiresAuth,
			RequiresAdmin: m.Route.Meta.RequiresAdmin,
			FullPath:      m.FullPath,
		})
		if err != nil {
			return res, fmt.Errorf("navigation to %s: %w", m.FullPath, err)
		}

		if verdict.Kind != guard.RedirectTo {
			res.Verdict = verdict
			n.log.WithFields(logrus.Fields{
				"path":      fullPath,
				"route":     m.Route.Name,
				"verdict":   verdict.String(),
				"redirects": len(res.Redirects),
			}).Debug("navigation resolved")
			return res, nil
		}

		if len(res.Redirects) >= MaxRedirects {
			return res, fmt.Errorf("%w: more than %d redirects from %s", ErrRedirectLoop, MaxRedirects, fullPath)
		}
		res.Redirects = append(res.Redirects, verdict.Path)
		target = verdict.Path
	}
}
