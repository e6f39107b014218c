package framework

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/forge-qa/forge-e2e/api/v1"
)

func TestLogin(t *testing.T) {
	target := startStub(t)
	client := NewClient(target.APIURL)
	ctx := context.Background()

	tests := []struct {
		name           string
		creds          Credentials
		expectedStatus int
	}{
		{name: "valid", creds: DefaultCredentials, expectedStatus: http.StatusOK},
		{name: "wrong password", creds: Credentials{Email: DefaultCredentials.Email, Password: "wrongpassword"}, expectedStatus: http.StatusUnauthorized},
		{name: "unknown account", creds: Credentials{Email: "invalid@example.com", Password: "wrongpassword"}, expectedStatus: http.StatusUnauthorized},
		{name: "empty fields", creds: Credentials{}, expectedStatus: http.StatusUnauthorized},
		{name: "empty password", creds: NewCredentialStore(DefaultCredentials).Merge(OverridePassword("")), expectedStatus: http.StatusUnauthorized},
		{name: "empty email", creds: NewCredentialStore(DefaultCredentials).Merge(OverrideEmail("")), expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := client.Login(ctx, tt.creds)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, result.StatusCode)

			if tt.expectedStatus == http.StatusOK {
				assert.True(t, result.OK())
				assert.Equal(t, 3, TokenSegments(result.Token))
			} else {
				assert.False(t, result.OK())
				assert.Empty(t, result.Token)
			}
		})
	}
}

func TestLoginUnreachable(t *testing.T) {
	client := NewClient(closedURL(t))

	_, err := client.Login(context.Background(), DefaultCredentials)
	assert.ErrorIs(t, err, ErrEnvironmentUnavailable)
}

func TestAuthenticate(t *testing.T) {
	target := startStub(t)
	client := NewClient(target.APIURL)
	ctx := context.Background()

	token := client.Authenticate(ctx, nil)
	assert.Equal(t, 3, TokenSegments(token))

	assert.Empty(t, client.Authenticate(ctx, OverridePassword("wrongpassword")))
	assert.Empty(t, client.Authenticate(ctx, Override("", "")))

	second := client.Authenticate(ctx, nil)
	assert.NotEmpty(t, second)
	assert.NotEqual(t, token, second, "every call logs in again")

	assert.Empty(t, NewClient(closedURL(t)).Authenticate(ctx, nil), "network errors are not raised")
}

func TestAuthenticateUsesCredentialStore(t *testing.T) {
	target := startStub(t)
	client := NewClient(target.APIURL, WithCredentials(NewCredentialStore(Credentials{
		Email:    DefaultCredentials.Email,
		Password: "not-the-password",
	})))

	assert.Empty(t, client.Authenticate(context.Background(), nil))
	assert.NotEmpty(t, client.Authenticate(context.Background(), OverridePassword(DefaultCredentials.Password)))
}

// recordingServer answers login with a fixed token and echoes request headers elsewhere.
func recordingServer(t *testing.T, loginStatus int) (*httptest.Server, *int32) {
	t.Helper()

	var logins int32

	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&logins, 1)

		if loginStatus != http.StatusOK {
			w.WriteHeader(loginStatus)
			return
		}

		_ = json.NewEncoder(w).Encode(v1.LoginResponse{Token: "a.b.c"})
	})
	mux.HandleFunc("/api/echo", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"authorization": r.Header.Get("Authorization"),
			"content_type":  r.Header.Get("Content-Type"),
			"user_agent":    r.Header.Get("User-Agent"),
			"x_trace":       r.Header.Get("X-Trace"),
			"method":        r.Method,
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv, &logins
}

func TestRequestHeaders(t *testing.T) {
	srv, logins := recordingServer(t, http.StatusOK)
	client := NewClient(srv.URL + "/api")
	ctx := context.Background()

	resp, err := client.Request(ctx, "/echo", RequestOptions{Token: "explicit"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusTeapot, resp.StatusCode, "non-2xx statuses are returned, not raised")
	assert.False(t, resp.IsSuccess())

	var echoed map[string]string
	require.NoError(t, resp.JSON(&echoed))
	assert.Equal(t, "Bearer explicit", echoed["authorization"])
	assert.Equal(t, "application/json", echoed["content_type"])
	assert.Contains(t, echoed["user_agent"], "forge-e2e/")
	assert.Equal(t, "GET", echoed["method"])
	assert.Zero(t, atomic.LoadInt32(logins), "a supplied token skips login")

	resp, err = client.Request(ctx, "/echo", RequestOptions{
		Method: http.MethodPost,
		Token:  "explicit",
		Headers: map[string]string{
			"Content-Type":  "text/plain",
			"authorization": "Bearer caller",
			"X-Trace":       "1",
		},
	})
	require.NoError(t, err)
	require.NoError(t, resp.JSON(&echoed))
	assert.Equal(t, "Bearer caller", echoed["authorization"], "caller headers win")
	assert.Equal(t, "text/plain", echoed["content_type"])
	assert.Equal(t, "1", echoed["x_trace"])
	assert.Equal(t, "POST", echoed["method"])

	echoed = nil
	resp, err = client.Request(ctx, "/echo", RequestOptions{Anonymous: true})
	require.NoError(t, err)
	require.NoError(t, resp.JSON(&echoed))
	assert.Empty(t, echoed["authorization"])
	assert.Zero(t, atomic.LoadInt32(logins), "anonymous requests skip login")
}

func TestRequestAuthenticatesOnce(t *testing.T) {
	srv, logins := recordingServer(t, http.StatusOK)
	client := NewClient(srv.URL + "/api")

	resp, err := client.Request(context.Background(), "/echo", RequestOptions{})
	require.NoError(t, err)

	var echoed map[string]string
	require.NoError(t, resp.JSON(&echoed))
	assert.Equal(t, "Bearer a.b.c", echoed["authorization"])
	assert.Equal(t, int32(1), atomic.LoadInt32(logins))
}

func TestRequestAuthenticationFailed(t *testing.T) {
	srv, logins := recordingServer(t, http.StatusUnauthorized)
	client := NewClient(srv.URL + "/api")

	_, err := client.Request(context.Background(), "/echo", RequestOptions{})
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	assert.Equal(t, int32(1), atomic.LoadInt32(logins), "no retry after a failed login")
}

func TestRequestUnreachable(t *testing.T) {
	client := NewClient(closedURL(t))

	_, err := client.Request(context.Background(), "/projects", RequestOptions{Token: "a.b.c"})
	assert.ErrorIs(t, err, ErrEnvironmentUnavailable)
}

func TestRequestAll(t *testing.T) {
	target := startStub(t)
	client := NewClient(target.APIURL)
	ctx := context.Background()

	token := client.Authenticate(ctx, nil)
	require.NotEmpty(t, token)

	calls := []Call{
		{Endpoint: "/user", Options: RequestOptions{Token: token}},
		{Endpoint: "/projects", Options: RequestOptions{Token: "invalid-token"}},
		{Endpoint: "/projects", Options: RequestOptions{Token: token}},
		{Endpoint: "/health", Options: RequestOptions{Token: token}},
	}

	responses, err := client.RequestAll(ctx, calls)
	require.NoError(t, err)
	require.Len(t, responses, len(calls))

	assert.Equal(t, http.StatusOK, responses[0].StatusCode)
	assert.Equal(t, http.StatusUnauthorized, responses[1].StatusCode)
	assert.Equal(t, http.StatusOK, responses[2].StatusCode)
	assert.Equal(t, http.StatusOK, responses[3].StatusCode)
}

func TestConcurrentAuthenticate(t *testing.T) {
	target := startStub(t)
	client := NewClient(target.APIURL)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		tokens = map[string]bool{}
	)

	for i := 0; i < 5; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			token := client.Authenticate(context.Background(), nil)

			mu.Lock()
			tokens[token] = true
			mu.Unlock()
		}()
	}

	wg.Wait()

	assert.Len(t, tokens, 5, "independent logins yield independent tokens")
	assert.NotContains(t, tokens, "")
}

func TestCurrentUserAndLogout(t *testing.T) {
	target := startStub(t)
	client := NewClient(target.APIURL)
	ctx := context.Background()

	token := client.Authenticate(ctx, nil)
	require.NotEmpty(t, token)

	user, err := client.CurrentUser(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, DefaultCredentials.Email, user.Email)

	require.NoError(t, client.Logout(ctx, token))

	_, err = client.CurrentUser(ctx, token)
	assert.True(t, IsUnauthorized(err), "revoked token is rejected: %v", err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
}

func TestLogoutUnsupported(t *testing.T) {
	srv, _ := recordingServer(t, http.StatusOK)
	client := NewClient(srv.URL + "/api")

	err := client.Logout(context.Background(), "a.b.c")
	assert.ErrorIs(t, err, ErrLogoutUnsupported)
}
