package framework

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	v1 "github.com/forge-qa/forge-e2e/api/v1"
	"github.com/forge-qa/forge-e2e/internal/util"
	"github.com/forge-qa/forge-e2e/internal/version"
)

const (
	defaultRequestTimeout = 30 * time.Second
	userAgentComponent    = "forge-e2e"
)

// Client talks to the Forge API. It never caches tokens; see Fixture.
type Client struct {
	httpClient    *http.Client
	apiEndpoint   string
	credentials   *CredentialStore
	userAgent     string
	healthTimeout time.Duration
}

type ClientOption func(*Client)

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithCredentials sets the store Authenticate merges overrides into.
func WithCredentials(store *CredentialStore) ClientOption {
	return func(c *Client) {
		c.credentials = store
	}
}

func WithHealthTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.healthTimeout = d
		}
	}
}

// NewClient creates a client for the API rooted at apiEndpoint, e.g. http://localhost:8888/api.
func NewClient(apiEndpoint string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: defaultRequestTimeout,
		},
		apiEndpoint:   strings.TrimSuffix(apiEndpoint, "/"),
		credentials:   NewCredentialStore(DefaultCredentials),
		userAgent:     version.Get().UserAgent(userAgentComponent),
		healthTimeout: DefaultHealthTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// NewClientFromConfig creates a client for cfg's API with cfg's credentials.
func NewClientFromConfig(cfg *Config) *Client {
	return NewClient(cfg.APIURL,
		WithCredentials(NewCredentialStore(cfg.Credentials)),
		WithHealthTimeout(cfg.HealthTimeout))
}

func (c *Client) APIEndpoint() string {
	return c.apiEndpoint
}

func (c *Client) Credentials() *CredentialStore {
	return c.credentials
}

// LoginResult is the outcome of one login call that reached the target.
type LoginResult struct {
	StatusCode int
	Token      string
	ExpiresAt  string
}

// OK reports whether the login succeeded with a token.
func (r *LoginResult) OK() bool {
	return r.StatusCode == http.StatusOK && r.Token != ""
}

// Login posts creds to /login. Non-200 statuses are reported in the result;
// only transport failures and an undecodable 200 body are errors.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	resp, err := c.do(ctx, http.MethodPost, c.url("/login"), mustJSON(creds), nil)
	if err != nil {
		return nil, err
	}

	result := &LoginResult{StatusCode: resp.StatusCode}
	if resp.StatusCode != http.StatusOK {
		return result, nil
	}

	var body v1.LoginResponse
	if err := resp.JSON(&body); err != nil {
		return nil, fmt.Errorf("failed to decode login response: %w", err)
	}

	result.Token = body.Token
	result.ExpiresAt = body.ExpiresAt

	return result, nil
}

// Authenticate logs in with the default credentials merged with override and
// returns the token, or "" on any failure. Failures are logged, never raised.
func (c *Client) Authenticate(ctx context.Context, override *CredentialOverride) string {
	creds := c.credentials.Merge(override)

	result, err := c.Login(ctx, creds)
	if err != nil {
		klog.Warningf("Authentication as %s failed: %v", creds.Email, err)
		return ""
	}

	if result.StatusCode != http.StatusOK {
		klog.Warningf("Authentication as %s failed with status %d", creds.Email, result.StatusCode)
		return ""
	}

	klog.V(2).Infof("Authenticated as %s", creds.Email)

	return result.Token
}

// RequestOptions describes one authenticated call.
type RequestOptions struct {
	// Method defaults to GET.
	Method string
	// Body is JSON-encoded when set. RawBody, when set, is sent verbatim instead.
	Body    any
	RawBody []byte
	// Headers are applied last and win over the standard ones.
	Headers map[string]string
	// Token is used as is. When empty, Request authenticates once with the default credentials.
	Token string
	// Anonymous sends no Authorization header and skips authentication.
	Anonymous bool
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// JSON decodes the body into v.
func (r *Response) JSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}

	return nil
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Request performs one call to endpoint, a path relative to the API base or an
// absolute URL. It never retries and returns non-2xx statuses in the Response.
func (c *Client) Request(ctx context.Context, endpoint string, opts RequestOptions) (*Response, error) {
	token := opts.Token
	if token == "" && !opts.Anonymous {
		token = c.Authenticate(ctx, nil)
		if token == "" {
			return nil, ErrAuthenticationFailed
		}
	}

	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var body []byte
	switch {
	case opts.RawBody != nil:
		body = opts.RawBody
	case opts.Body != nil:
		data, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}

		body = data
	}

	headers := map[string]string{}
	if !opts.Anonymous {
		headers["Authorization"] = "Bearer " + token
	}
	for k, v := range opts.Headers {
		headers[http.CanonicalHeaderKey(k)] = v
	}

	return c.do(ctx, method, c.url(endpoint), body, headers)
}

// Call is one entry of RequestAll.
type Call struct {
	Endpoint string
	Options  RequestOptions
}

// RequestAll issues calls concurrently and waits for all of them. Responses are
// indexed like calls; the first error, if any, is returned.
func (c *Client) RequestAll(ctx context.Context, calls []Call) ([]*Response, error) {
	responses := make([]*Response, len(calls))

	var g errgroup.Group

	for i, call := range calls {
		g.Go(func() error {
			resp, err := c.Request(ctx, call.Endpoint, call.Options)
			if err != nil {
				return fmt.Errorf("call %d (%s %s): %w", i, call.Options.Method, call.Endpoint, err)
			}

			responses[i] = resp

			return nil
		})
	}

	return responses, g.Wait()
}

// CurrentUser returns the account behind token.
func (c *Client) CurrentUser(ctx context.Context, token string) (*v1.User, error) {
	resp, err := c.Request(ctx, "/user", RequestOptions{Token: token})
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, newStatusError("get current user", resp)
	}

	var user v1.User
	if err := resp.JSON(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

// Logout asks the target to revoke token. Targets without a logout endpoint
// yield ErrLogoutUnsupported.
func (c *Client) Logout(ctx context.Context, token string) error {
	resp, err := c.Request(ctx, "/logout", RequestOptions{Method: http.MethodPost, Token: token})
	if err != nil {
		return err
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return ErrLogoutUnsupported
	default:
		return newStatusError("logout", resp)
	}
}

func (c *Client) url(endpoint string) string {
	if util.IsHTTPOrHTTPSURL(endpoint) {
		return endpoint
	}

	return util.JoinURL(c.apiEndpoint, endpoint)
}

// do sends one request with the standard headers; extra headers override them.
func (c *Client) do(ctx context.Context, method, target string, body []byte, extra map[string]string) (*Response, error) {
	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	for k, v := range extra {
		req.Header.Set(k, v)
	}

	klog.V(4).Infof("%s %s", method, target)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrEnvironmentUnavailable, method, target, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s %s: %v", ErrEnvironmentUnavailable, method, target, err)
	}

	klog.V(4).Infof("%s %s -> %d", method, target, resp.StatusCode)

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

func mustJSON(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}

	return data
}
