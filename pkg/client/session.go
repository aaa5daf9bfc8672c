// Package client implements the transport layer between the Strata resource
// model and the remote store. Resources never perform network I/O
// themselves: the session uploads the dirty-file sets they compute and
// clears their dirty state only after the remote write is confirmed.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

const (
	// DefaultEndpoint is the production Strata site
	DefaultEndpoint = "https://app.strata3d.com/"

	// apiSubpath is appended to the endpoint for API calls
	apiSubpath = "api/"

	// clientVersion identifies this client to the server
	clientVersion = "strata-go/0.2.0"
)

// Session holds the state for talking to one Strata endpoint: base URL, API
// developer key and the authenticated user. Sessions are explicit values
// passed to callers; there is no ambient global session.
type Session struct {
	baseURL    string
	apiKey     string
	username   string
	httpClient *http.Client
	log        *zap.Logger
}

// Option configures a session
type Option func(*Session)

// WithEndpoint sets the target site; validated by NewSession
func WithEndpoint(endpoint string) Option {
	return func(s *Session) { s.baseURL = endpoint }
}

// WithHTTPClient sets the HTTP client used for all calls
func WithHTTPClient(c *http.Client) Option {
	return func(s *Session) { s.httpClient = c }
}

// WithLogger sets the session logger
func WithLogger(log *zap.Logger) Option {
	return func(s *Session) { s.log = log }
}

// NewSession creates a session for the default endpoint unless overridden
func NewSession(opts ...Option) (*Session, error) {
	s := &Session{
		baseURL:    DefaultEndpoint,
		httpClient: http.DefaultClient,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.SetEndpoint(s.baseURL); err != nil {
		return nil, err
	}
	return s, nil
}

// SetEndpoint sets the target site. Bare URLs get a trailing slash; live
// .com endpoints must use HTTPS.
func (s *Session) SetEndpoint(endpoint string) error {
	if endpoint == "" {
		return fmt.Errorf("endpoint must not be empty")
	}
	if !strings.HasSuffix(endpoint, "/") {
		endpoint += "/"
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint: %w", err)
	}
	if strings.HasSuffix(parsed.Hostname(), ".com") && parsed.Scheme != "https" {
		return fmt.Errorf("live endpoints require HTTPS")
	}
	s.baseURL = endpoint
	return nil
}

// Endpoint returns the base URL of the target site
func (s *Session) Endpoint() string {
	return s.baseURL
}

// apiURL returns the URL for an API path
func (s *Session) apiURL(path string) string {
	return s.baseURL + apiSubpath + path
}

// IsKey reports whether a string has the API developer key format: a
// username followed by "//" and a 36-character token
func IsKey(key string) bool {
	parts := strings.Split(key, "//")
	return len(parts) == 2 && parts[0] != "" && len(parts[1]) == 36
}

// Login verifies an API developer key against the endpoint and binds the
// session to the authenticated user
func (s *Session) Login(ctx context.Context, key string) error {
	if !IsKey(key) {
		return fmt.Errorf("malformed API key: want username//<36-char-token>")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiURL("me"), nil)
	if err != nil {
		return err
	}
	s.setHeaders(req, key)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("cannot reach %s: %w", s.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.Logout()
		return newAPIError(resp)
	}

	var me struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&me); err != nil {
		return fmt.Errorf("decode login response: %w", err)
	}

	s.apiKey = key
	s.username = me.Username
	s.log.Info("logged in", zap.String("username", s.username), zap.String("endpoint", s.baseURL))
	return nil
}

// Logout drops the session's key and user
func (s *Session) Logout() {
	s.apiKey = ""
	s.username = ""
}

// LoggedIn returns true if the session holds a verified key
func (s *Session) LoggedIn() bool {
	return s.apiKey != ""
}

// Username returns the authenticated user, or "" if not logged in
func (s *Session) Username() string {
	return s.username
}

// ResourceURL returns the web view URL for an uploaded resource
func (s *Session) ResourceURL(uid string) string {
	return s.baseURL + "resource/" + uid
}

// setHeaders applies the auth and client identification headers
func (s *Session) setHeaders(req *http.Request, key string) {
	if key == "" {
		key = s.apiKey
	}
	req.Header.Set("X-Api-Key", key)
	req.Header.Set("X-Client", clientVersion)
}
