package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eapenjoshymuttom/Review-consolidator/internal/resilience"
	"github.com/eapenjoshymuttom/Review-consolidator/pkg/reader"
)

func testConfig() Config {
	return Config{Timeout: 2 * time.Second, RatePerSec: 1000}
}

func TestStatic_FetchOK(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("<html>page</html>"))
	}))
	defer srv.Close()

	f := NewStatic(testConfig())
	html, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "<html>page</html>", html)
	assert.Contains(t, gotUA, "Mozilla/5.0")
}

func TestStatic_TransientStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := NewStatic(testConfig())
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, resilience.IsTransient(err))
}

func TestStatic_PermanentStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewStatic(testConfig())
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.False(t, resilience.IsTransient(err))
}

func TestStatic_ConnectionError(t *testing.T) {
	f := NewStatic(testConfig())
	_, err := f.Fetch(context.Background(), "http://127.0.0.1:1")
	require.Error(t, err)
	assert.True(t, resilience.IsTransient(err))
}

func TestStatic_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewStatic(testConfig())
	_, err := f.Fetch(ctx, "http://example.invalid")
	assert.Error(t, err)
}

func TestRendered_UsesReaderHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "html", r.Header.Get("X-Return-Format"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":200,"data":{"title":"t","url":"u","content":"text","html":"<html>rendered</html>"}}`))
	}))
	defer srv.Close()

	rc := reader.NewClient("key", reader.WithBaseURL(srv.URL))
	f := NewRendered(rc, "div.review", 10*time.Second)

	html, err := f.Fetch(context.Background(), "https://www.amazon.in/dp/B0TEST")
	require.NoError(t, err)
	assert.Equal(t, "<html>rendered</html>", html)
}

func TestRendered_FallsBackToContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":200,"data":{"content":"plain text only"}}`))
	}))
	defer srv.Close()

	rc := reader.NewClient("key", reader.WithBaseURL(srv.URL))
	f := NewRendered(rc, "", 10*time.Second)

	html, err := f.Fetch(context.Background(), "https://www.amazon.in/dp/B0TEST")
	require.NoError(t, err)
	assert.Equal(t, "plain text only", html)
}
