package sdk

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/zitadel/oidc/v3/pkg/client/rp"
	"github.com/zitadel/oidc/v3/pkg/client/rp/cli"
	"github.com/zitadel/oidc/v3/pkg/oidc"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const defaultPollInterval = 5 * time.Second

var (
	userScopes    = []string{oidc.ScopeOpenID, oidc.ScopeProfile, oidc.ScopeEmail, oidc.ScopeOfflineAccess}
	serviceScopes = []string{oidc.ScopeOpenID, oidc.ScopeProfile, oidc.ScopeEmail}
)

// IssuerOptions configures DiscoverIssuer.
type IssuerOptions struct {
	// ClientSecret is set for confidential clients (service accounts).
	ClientSecret string
	// HTTPClient is used for discovery and every token call.
	HTTPClient *http.Client
}

// Issuer is an OIDC provider discovered for one client id. The login and
// refresh flows all run against the endpoints found during discovery.
type Issuer struct {
	url          string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	party        rp.RelyingParty
}

// DiscoverIssuer reads issuerURL's /.well-known/openid-configuration.
func DiscoverIssuer(ctx context.Context, issuerURL, clientID string, opts IssuerOptions) (*Issuer, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	// The redirect URI stays empty: neither the device flow nor client
	// credentials use a browser callback.
	party, err := rp.NewRelyingPartyOIDC(ctx, issuerURL, clientID, opts.ClientSecret, "", userScopes,
		rp.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider at %s: %w", issuerURL, err)
	}
	return &Issuer{
		url:          issuerURL,
		clientID:     clientID,
		clientSecret: opts.ClientSecret,
		httpClient:   httpClient,
		party:        party,
	}, nil
}

// TokenURL returns the discovered token endpoint.
func (i *Issuer) TokenURL() string {
	return i.party.OAuthConfig().Endpoint.TokenURL
}

// withHTTPClient makes x/oauth2 calls use the issuer's client.
func (i *Issuer) withHTTPClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, i.httpClient)
}

// DeviceLogin runs the Device Authorization Flow (RFC 8628): it prints the
// user code to out, optionally opens the verification page and polls the
// token endpoint until the user approved or ctx ends.
func (i *Issuer) DeviceLogin(ctx context.Context, out io.Writer, openBrowser bool) (*Credentials, error) {
	if out == nil {
		out = io.Discard
	}

	auth, err := rp.DeviceAuthorization(ctx, userScopes, i.party, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start device authorization flow: %w", err)
	}

	writeDeviceInstructions(out, auth)
	if openBrowser && auth.VerificationURIComplete != "" {
		cli.OpenBrowser(auth.VerificationURIComplete)
	}

	interval := time.Duration(auth.Interval) * time.Second
	if interval <= 0 {
		interval = defaultPollInterval
	}
	resp, err := rp.DeviceAccessToken(ctx, auth.DeviceCode, interval, i.party)
	if err != nil {
		return nil, fmt.Errorf("device authorization failed: %w", err)
	}

	creds := &Credentials{
		AccessToken:  resp.AccessToken,
		TokenType:    resp.TokenType,
		RefreshToken: resp.RefreshToken,
	}
	if resp.ExpiresIn > 0 {
		creds.ExpiresAt = time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	}
	if resp.IDToken != "" {
		claims, err := rp.VerifyIDToken[*oidc.IDTokenClaims](ctx, resp.IDToken, i.party.IDTokenVerifier())
		if err != nil {
			// The access token is still usable; only the identity display fields stay empty.
			fmt.Fprintf(out, "Warning: ID token not verified: %v\n", err)
		} else {
			creds.Subject = claims.Subject
			creds.Email = claims.Email
		}
	}
	return creds, nil
}

// ClientCredentials exchanges the client id and secret for an access token.
// Service accounts have no user; their subject is "sa:{clientID}".
func (i *Issuer) ClientCredentials(ctx context.Context) (*Credentials, error) {
	if i.clientSecret == "" {
		return nil, fmt.Errorf("client %s has no secret", i.clientID)
	}
	cc := clientcredentials.Config{
		ClientID:     i.clientID,
		ClientSecret: i.clientSecret,
		TokenURL:     i.TokenURL(),
		Scopes:       serviceScopes,
	}
	token, err := cc.Token(i.withHTTPClient(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to exchange client credentials for token: %w", err)
	}
	creds := CredentialsFromToken(token, nil)
	creds.Subject = "sa:" + i.clientID
	return creds, nil
}

// Refresh trades refreshToken for new credentials. Providers that do not
// rotate refresh tokens answer without one; the old token is kept then.
func (i *Issuer) Refresh(ctx context.Context, refreshToken string) (*Credentials, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("no refresh token for %s", i.url)
	}
	source := i.party.OAuthConfig().TokenSource(i.withHTTPClient(ctx), &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	return CredentialsFromToken(token, &Credentials{RefreshToken: refreshToken}), nil
}

// DeviceFlowOptions tunes LoginWithDeviceCode.
type DeviceFlowOptions struct {
	// Out receives the user instructions. Nil discards them.
	Out io.Writer
	// OpenBrowser attempts to open the verification URL.
	OpenBrowser bool
	// HTTPClient is used for discovery and token calls.
	HTTPClient *http.Client
}

// LoginWithDeviceCode discovers issuer and runs the device flow for a public client.
func LoginWithDeviceCode(ctx context.Context, issuer, clientID string, opts DeviceFlowOptions) (*Credentials, error) {
	iss, err := DiscoverIssuer(ctx, issuer, clientID, IssuerOptions{HTTPClient: opts.HTTPClient})
	if err != nil {
		return nil, err
	}
	return iss.DeviceLogin(ctx, opts.Out, opts.OpenBrowser)
}

// LoginWithServiceAccount discovers issuer and runs the client credentials grant.
// Used for non-interactive access such as CI jobs seeding recipes.
func LoginWithServiceAccount(ctx context.Context, issuer, clientID, clientSecret string) (*Credentials, error) {
	iss, err := DiscoverIssuer(ctx, issuer, clientID, IssuerOptions{ClientSecret: clientSecret})
	if err != nil {
		return nil, err
	}
	return iss.ClientCredentials(ctx)
}

// RefreshToken discovers issuer and refreshes the credentials of a public client.
func RefreshToken(ctx context.Context, issuer, clientID, refreshToken string) (*Credentials, error) {
	iss, err := DiscoverIssuer(ctx, issuer, clientID, IssuerOptions{})
	if err != nil {
		return nil, err
	}
	return iss.Refresh(ctx, refreshToken)
}

func writeDeviceInstructions(w io.Writer, auth *oidc.DeviceAuthorizationResponse) {
	rule := strings.Repeat("-", 60)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Sign in to cooked with the code %s at\n\n    %s\n", auth.UserCode, auth.VerificationURI)
	if auth.VerificationURIComplete != "" {
		fmt.Fprintf(w, "\nor open this link, which already contains the code:\n\n    %s\n", auth.VerificationURIComplete)
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "Waiting for the sign-in to complete...")
}
