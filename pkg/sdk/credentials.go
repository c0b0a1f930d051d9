package sdk

import (
	"time"

	"golang.org/x/oauth2"
)

// Credentials represents the tokens obtained from the identity provider.
type Credentials struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Subject      string    `json:"subject,omitempty"` // 'sub' claim of the ID token, or "sa:{clientID}"
	Email        string    `json:"email,omitempty"`
}

// IsExpired reports whether the access token is past its expiry.
// A zero ExpiresAt means the provider did not announce one.
func (c *Credentials) IsExpired() bool {
	return !c.ExpiresAt.IsZero() && time.Now().After(c.ExpiresAt)
}

// CanRefresh reports whether a refresh token is available.
func (c *Credentials) CanRefresh() bool {
	return c.RefreshToken != ""
}

// OAuth2Token converts the credentials to an oauth2.Token.
func (c *Credentials) OAuth2Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		TokenType:    c.TokenType,
		RefreshToken: c.RefreshToken,
		Expiry:       c.ExpiresAt,
	}
}

// CredentialsFromToken converts an oauth2.Token, keeping identity fields from prev when present.
func CredentialsFromToken(token *oauth2.Token, prev *Credentials) *Credentials {
	creds := &Credentials{
		AccessToken:  token.AccessToken,
		TokenType:    token.TokenType,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}
	if prev != nil {
		creds.Subject = prev.Subject
		creds.Email = prev.Email
		if creds.RefreshToken == "" {
			creds.RefreshToken = prev.RefreshToken
		}
	}
	return creds
}
