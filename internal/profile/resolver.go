// Package profile resolves the signed-in user's profile from the backend.
package profile

import (
	"context"

	"github.com/htwg-in-schneider/frontend-cooked/internal/session"
	"github.com/htwg-in-schneider/frontend-cooked/pkg/sdk"
)

// Resolver performs the backend "who am I" round-trip.
type Resolver struct {
	client *sdk.Client
}

// NewResolver returns a Resolver using client for transport. The client's
// own token provider is ignored; Resolve always uses the one passed in.
func NewResolver(client *sdk.Client) *Resolver {
	return &Resolver{client: client}
}

// Resolve fetches GET {root}/me with a bearer token from tokens and decodes
// the body verbatim. Non-2xx answers fail with *sdk.ProfileResolutionError.
func (r *Resolver) Resolve(ctx context.Context, tokens sdk.TokenProvider) (*session.Profile, error) {
	raw, err := r.client.WithTokens(tokens).Me(ctx)
	if err != nil {
		return nil, err
	}
	return session.DecodeProfile(raw)
}
