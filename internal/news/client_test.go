package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/internet-data-toolkit/internal/pkg/retry"
)

// instantTimer fires immediately and records every requested wait.
type instantTimer struct {
	ch    chan time.Time
	waits []time.Duration
}

func newInstantTimer() *instantTimer {
	return &instantTimer{ch: make(chan time.Time, 1)}
}

func (t *instantTimer) Start(d time.Duration) {
	t.waits = append(t.waits, d)
	t.ch <- time.Now()
}

func (t *instantTimer) Stop() {}

func (t *instantTimer) C() <-chan time.Time { return t.ch }

const sampleBody = `{"entries":[
	{"title":"Caf\\u00e9 reopens","link":"https://news.example/1","sourcetitle":"Daily"},
	{"title":"Plain","link":"https://news.example/2","sourcetitle":"Weekly"},
	{"title":"Third","link":"https://news.example/3"}
]}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *instantTimer) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL + "/"
	timer := newInstantTimer()
	return NewClient(cfg, WithRetryOptions(retry.WithTimer(timer))), timer
}

func TestClient_Latest(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "newest", q.Get("type"))
		assert.Equal(t, "world", q.Get("tag"))
		assert.Equal(t, "2", q.Get("itemsPerPage"))
		assert.Equal(t, "false", q.Get("sourcesNav"))
		assert.Contains(t, q, "extraIds[]")
		assert.Contains(t, q, "search")

		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "XMLHttpRequest", r.Header.Get("X-Requested-With"))
		assert.Equal(t, "no-cache", r.Header.Get("Pragma"))
		assert.Equal(t, "no-cache", r.Header.Get("Cache-Control"))
		assert.Equal(t, "en-GB,en-US;q=0.9,en;q=0.8,es;q=0.7,fr;q=0.6,de;q=0.5", r.Header.Get("Accept-Language"))

		_, _ = w.Write([]byte(sampleBody))
	})

	headlines, err := client.Latest(context.Background(), "world", 2)
	require.NoError(t, err)

	assert.Equal(t, []Headline{
		{Title: "Café reopens", Link: "https://news.example/1", Source: "Daily"},
		{Title: "Plain", Link: "https://news.example/2", Source: "Weekly"},
	}, headlines)
}

func TestClient_Latest_DefaultTagAndZeroLimit(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultTag, r.URL.Query().Get("tag"))
		_, _ = w.Write([]byte(sampleBody))
	})

	headlines, err := client.Latest(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Empty(t, headlines)
}

func TestClient_Latest_RetriesTransientFailure(t *testing.T) {
	var calls int32
	client, timer := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.Latest(context.Background(), "news", 8)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Contains(t, err.Error(), "503 Service Unavailable for url: ")
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, []time.Duration{4 * time.Second}, timer.waits)
}

func TestClient_Latest_RecoversOnSecondAttempt(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(sampleBody))
	})

	headlines, err := client.Latest(context.Background(), "news", 8)
	require.NoError(t, err)
	assert.Len(t, headlines, 3)
	assert.Empty(t, headlines[2].Source)
}

func TestClient_Latest_MalformedBodyIsNotRetried(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "<html>maintenance</html>"},
		{name: "no entries", body: `{"items":[]}`},
		{name: "entries not array", body: `{"entries":"none"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			client, timer := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Latest(context.Background(), "news", 8)
			assert.ErrorIs(t, err, ErrMalformedBody)
			assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
			assert.Empty(t, timer.waits)
		})
	}
}

func TestClient_Latest_NegativeLimit(t *testing.T) {
	client := NewClient(DefaultConfig())
	_, err := client.Latest(context.Background(), "news", -1)
	assert.ErrorIs(t, err, ErrNegativeLimit)
}

func TestClient_Latest_SelfSignedTLS(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"entries":[{"title":"secure","link":"l"}]}`))
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	headlines, err := NewClient(cfg).Latest(context.Background(), "news", 1)
	require.NoError(t, err)
	assert.Equal(t, "secure", headlines[0].Title)
}

func TestClient_Latest_CanceledContext(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleBody))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Latest(ctx, "news", 3)
	assert.ErrorIs(t, err, context.Canceled)
}
