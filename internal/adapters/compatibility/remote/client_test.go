package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rabbit-pedigree/internal/domain/breeding"
	"rabbit-pedigree/internal/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newClient(t *testing.T, baseURL string) (*Client, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	c, err := New(Options{
		BaseURL: baseURL,
		Timeout: 2 * time.Second,
		// sin keep-alive para que goleak no vea conexiones ociosas
		Transport: &http.Transport{DisableKeepAlives: true},
		Logger:    logger.NewWithZap(zap.New(core)),
	})
	require.NoError(t, err)
	return c, logs
}

func TestCheckCompatibility_PassesVerdictThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/breeding/compatibility", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("maleId"))
		assert.Equal(t, "20", r.URL.Query().Get("femaleId"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"compatible":false,"reason":"Animals share common ancestors: 3","riskLevel":"medium"}`))
	}))
	defer srv.Close()

	c, logs := newClient(t, srv.URL)
	v := c.CheckCompatibility(context.Background(), 10, 20)

	assert.Equal(t, breeding.Verdict{
		Compatible: false,
		Reason:     "Animals share common ancestors: 3",
		RiskLevel:  breeding.RiskMedium,
	}, v)
	assert.Zero(t, logs.Len())
}

func TestCheckCompatibility_FailsClosed(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "internal error", http.StatusInternalServerError)
			},
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"compatible":`))
			},
		},
		{
			name: "unknown risk level",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"compatible":true,"riskLevel":"whatever"}`))
			},
		},
		{
			name: "empty body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			c, logs := newClient(t, srv.URL)
			v := c.CheckCompatibility(context.Background(), 1, 2)

			assert.Equal(t, breeding.FailClosed(), v)
			assert.Equal(t, 1, logs.FilterMessage("remote compatibility check failed").Len())
		})
	}
}

func TestCheckCompatibility_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c, _ := newClient(t, addr)
	v := c.CheckCompatibility(context.Background(), 1, 2)

	assert.False(t, v.Compatible)
	assert.Equal(t, breeding.ReasonCheckFailed, v.Reason)
	assert.Equal(t, breeding.RiskHigh, v.RiskLevel)
}

func TestCheckCompatibility_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"compatible":true,"riskLevel":"none"}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c, _ := newClient(t, srv.URL)
	assert.Equal(t, breeding.FailClosed(), c.CheckCompatibility(ctx, 1, 2))
}

func TestNew_InvalidBaseURL(t *testing.T) {
	_, err := New(Options{BaseURL: "not a url"})
	require.Error(t, err)
}
