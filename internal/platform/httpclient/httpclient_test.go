package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsBadBaseURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:8080", "ftp://host", "http://"} {
		_, err := New(raw, 0)
		assert.Error(t, err, raw)
	}
}

func TestGetJSON_BuildsURLAndDecodes(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL+"/api/", 0)
	require.NoError(t, err)

	var out struct {
		OK bool `json:"ok"`
	}
	err = c.GetJSON(context.Background(), "/breeding/compatibility", url.Values{"maleId": {"1"}}, &out)
	require.NoError(t, err)

	assert.True(t, out.OK)
	assert.Equal(t, "/api/breeding/compatibility", gotPath)
	assert.Equal(t, "maleId=1", gotQuery)
}

func TestGetJSON_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/boom" {
			http.Error(w, "boom", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, 0)
	require.NoError(t, err)

	var out map[string]any
	err = c.GetJSON(context.Background(), "/boom", nil, &out)
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadGateway, httpErr.StatusCode)
	assert.Equal(t, "boom", httpErr.Body)

	err = c.GetJSON(context.Background(), "/garbage", nil, &out)
	assert.ErrorIs(t, err, ErrDecode)

	var nilClient *Client
	assert.ErrorIs(t, nilClient.GetJSON(context.Background(), "/", nil, &out), ErrNilClient)
}
