package g2b

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("k")
	assert.Equal(t, DefaultBaseURL, c.BaseURL)
	require.NotNil(t, c.HTTP)
	assert.Equal(t, DefaultTimeout, c.HTTP.Timeout)

	c = NewClient("k", WithBaseURL("  "), WithTimeout(3*time.Second), WithBaseURL("http://example.test/x/"))
	assert.Equal(t, "http://example.test/x", c.BaseURL)
	assert.Equal(t, 3*time.Second, c.HTTP.Timeout)

	hc := &http.Client{}
	assert.Same(t, hc, NewClient("k", WithHTTPClient(hc)).HTTP)
}

func TestFetchReturnsStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "v", r.URL.Query().Get("k"))
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	status, body, err := NewClient("key", WithBaseURL(srv.URL)).Fetch(context.Background(), url.Values{"k": {"v"}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "upstream down", string(body))
}

func TestFetchTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, _, err := NewClient("key", WithBaseURL(srv.URL), WithTimeout(50*time.Millisecond)).Fetch(context.Background(), url.Values{})
	assert.Error(t, err)
}
