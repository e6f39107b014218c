package framework

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/forge-qa/forge-e2e/test/e2e/framework/stubtarget"
)

func startStub(t *testing.T) *stubtarget.Target {
	t.Helper()

	target, err := stubtarget.Start(stubtarget.Options{})
	require.NoError(t, err)
	t.Cleanup(target.Close)

	return target
}

// closedURL returns the URL of a server that no longer listens.
func closedURL(t *testing.T) string {
	t.Helper()

	srv := httptest.NewServer(nil)
	u := srv.URL
	srv.Close()

	return u
}
