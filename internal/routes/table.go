// Package routes holds the application's route table and resolves
// navigations against it through the guard.
package routes

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
)

// ErrNotFound is returned for paths no route matches.
var ErrNotFound = errors.New("route not found")

// Meta carries the guard requirements of a route.
type Meta struct {
	RequiresAuth  bool
	RequiresAdmin bool
}

// Route is one entry of the route table.
type Route struct {
	Pattern string
	Name    string
	Meta    Meta
}

// Table is the application's route table.
var Table = []Route{
	{Pattern: "/", Name: "catalog"},
	{Pattern: "/product/{id}", Name: "recipe-detail"},
	{Pattern: "/create", Name: "recipe-create", Meta: Meta{RequiresAuth: true}},
	{Pattern: "/edit/{id}", Name: "recipe-edit", Meta: Meta{RequiresAuth: true}},
	{Pattern: "/profile", Name: "profile", Meta: Meta{RequiresAuth: true}},
	{Pattern: "/favorites", Name: "favorites", Meta: Meta{RequiresAuth: true}},
	{Pattern: "/mealplan", Name: "mealplan", Meta: Meta{RequiresAuth: true}},
	{Pattern: "/shopping", Name: "shopping", Meta: Meta{RequiresAuth: true}},
	{Pattern: "/admin/users", Name: "admin-users", Meta: Meta{RequiresAuth: true, RequiresAdmin: true}},
	{Pattern: "/admin/categories", Name: "admin-categories", Meta: Meta{RequiresAuth: true, RequiresAdmin: true}},
}

// Match is a route matched against a concrete path.
type Match struct {
	Route    Route
	Params   map[string]string
	Path     string // path without query
	FullPath string // path as requested, query included
}

// Router matches paths against a route table.
type Router struct {
	mux       *chi.Mux
	routes    []Route
	byPattern map[string]Route
}

// NewRouter builds a router over routes. Patterns follow chi syntax.
func NewRouter(routes []Route) (*Router, error) {
	r := &Router{
		mux:       chi.NewRouter(),
		byPattern: make(map[string]Route, len(routes)),
	}
	noop := func(http.ResponseWriter, *http.Request) {}
	for _, route := range routes {
		if _, dup := r.byPattern[route.Pattern]; dup {
			return nil, fmt.Errorf("duplicate route pattern %q", route.Pattern)
		}
		r.byPattern[route.Pattern] = route
		r.routes = append(r.routes, route)
		r.mux.Get(route.Pattern, noop)
	}
	return r, nil
}

// Match resolves fullPath to a route. Trailing slashes are ignored.
func (r *Router) Match(fullPath string) (Match, error) {
	u, err := url.Parse(fullPath)
	if err != nil {
		return Match{}, fmt.Errorf("invalid path %q: %w", fullPath, err)
	}
	path := u.Path
	if path == "" {
		path = "/"
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}

	rctx := chi.NewRouteContext()
	pattern := r.mux.Find(rctx, http.MethodGet, path)
	route, ok := r.byPattern[pattern]
	if !ok {
		return Match{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	params := make(map[string]string, len(rctx.URLParams.Keys))
	for i, key := range rctx.URLParams.Keys {
		params[key] = rctx.URLParams.Values[i]
	}
	return Match{Route: route, Params: params, Path: path, FullPath: fullPath}, nil
}

// Routes returns the router's table entries in registration order.
func (r *Router) Routes() []Route {
	return append([]Route(nil), r.routes...)
}
