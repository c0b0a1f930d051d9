package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// TokenProvider yields the bearer token for authenticated backend calls.
// It mirrors the identity provider's "get access token silently" capability.
type TokenProvider interface {
	Token(ctx context.Context) (*oauth2.Token, error)
}

// TokenProviderFunc adapts a function to TokenProvider.
type TokenProviderFunc func(ctx context.Context) (*oauth2.Token, error)

// Token implements TokenProvider.
func (f TokenProviderFunc) Token(ctx context.Context) (*oauth2.Token, error) {
	return f(ctx)
}

// FromTokenSource adapts an oauth2.TokenSource, which carries no context, to TokenProvider.
func FromTokenSource(ts oauth2.TokenSource) TokenProvider {
	return TokenProviderFunc(func(context.Context) (*oauth2.Token, error) {
		return ts.Token()
	})
}

// StaticToken returns a TokenProvider that always yields the given access token.
func StaticToken(accessToken string) TokenProvider {
	return FromTokenSource(oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))
}

// Client talks to the cooked REST backend.
type Client struct {
	http       *http.Client
	collection string
	root       string
	tokens     TokenProvider
	userAgent  string
}

// ClientOptions configures SDK client construction.
type ClientOptions struct {
	HTTPClient *http.Client
	Tokens     TokenProvider
	UserAgent  string
}

// ClientOption mutates ClientOptions.
type ClientOption func(*ClientOptions)

// WithHTTPClient overrides the HTTP client used for backend calls.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(opts *ClientOptions) {
		opts.HTTPClient = client
	}
}

// WithTokenProvider sets the default token provider for authenticated calls.
func WithTokenProvider(tokens TokenProvider) ClientOption {
	return func(opts *ClientOptions) {
		opts.Tokens = tokens
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(opts *ClientOptions) {
		opts.UserAgent = ua
	}
}

// NewClient creates a client for the backend collection at apiURL
// (e.g. "https://api.example.com/recipes"). The API root used for
// non-recipe resources is derived by stripping the collection segment.
func NewClient(apiURL string, optFns ...ClientOption) *Client {
	opts := ClientOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "cooked-sdk"
	}

	collection := APICollection(apiURL)
	return &Client{
		http:       opts.HTTPClient,
		collection: collection,
		root:       APIRoot(collection),
		tokens:     opts.Tokens,
		userAgent:  opts.UserAgent,
	}
}

// WithTokens returns a shallow copy of the client bound to the given token provider.
func (c *Client) WithTokens(tokens TokenProvider) *Client {
	clone := *c
	clone.tokens = tokens
	return &clone
}

// Collection returns the recipe collection URL.
func (c *Client) Collection() string { return c.collection }

// Root returns the API root URL.
func (c *Client) Root() string { return c.root }

var collectionSuffix = regexp.MustCompile(`(?i)/(product|products|recipe|recipes)$`)

// APICollection normalizes the configured API URL by dropping a trailing slash.
func APICollection(apiURL string) string {
	return strings.TrimSuffix(apiURL, "/")
}

// APIRoot strips a trailing product/recipe collection segment from the collection URL.
func APIRoot(collection string) string {
	return collectionSuffix.ReplaceAllString(APICollection(collection), "")
}

func (c *Client) rootURL(path string) string {
	return c.root + path
}

func (c *Client) collectionURL(path string) string {
	return c.collection + path
}

// newRequest builds a request; a non-nil body is JSON encoded.
func (c *Client) newRequest(ctx context.Context, method, url string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

// authorize attaches the bearer token from the client's token provider.
func (c *Client) authorize(ctx context.Context, req *http.Request) error {
	if c.tokens == nil {
		return ErrNoTokenProvider
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("failed to get access token: %w", err)
	}
	if token == nil || token.AccessToken == "" {
		return ErrNoTokenProvider
	}
	token.SetAuthHeader(req)
	return nil
}

// do performs the request and returns the response when the status is 2xx.
// On any other status the body is drained into an *APIError.
func (c *Client) do(req *http.Request, authenticated bool) (*http.Response, error) {
	if authenticated {
		if err := c.authorize(req.Context(), req); err != nil {
			return nil, err
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return nil, &APIError{
			Method:     req.Method,
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}
	return resp, nil
}

// call runs a request and decodes a JSON response into out (skipped when out is nil).
func (c *Client) call(ctx context.Context, method, url string, authenticated bool, in, out any) error {
	req, err := c.newRequest(ctx, method, url, in)
	if err != nil {
		return err
	}
	resp, err := c.do(req, authenticated)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("failed to decode %s response: %w", req.URL.Path, err)
	}
	return nil
}
