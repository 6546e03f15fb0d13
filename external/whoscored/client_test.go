package whoscored

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/platform/logging"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/platform/resilience"
)

func newTestClient(t *testing.T, srv *httptest.Server, cfg ClientConfig) *Client {
	t.Helper()

	cfg.HTTPClient = srv.Client()
	cfg.BaseURL = srv.URL
	cfg.Logger = logging.NewNop()
	return NewClient(cfg)
}

func TestClient_FetchMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, ClientConfig{})

	raw, err := c.FetchMatch(t.Context(), FixtureRef{MatchID: 1821372, Competition: "La Liga", URL: srv.URL + "/Matches/1821372/Live/x"})
	if err != nil {
		t.Fatalf("FetchMatch: %v", err)
	}
	if raw.Data.Home.TeamID != 65 || raw.Data.Away.TeamID != 52 {
		t.Fatalf("unexpected teams: home=%d away=%d", raw.Data.Home.TeamID, raw.Data.Away.TeamID)
	}
	if raw.Payload == "" {
		t.Fatal("payload must carry the raw blob")
	}
}

func TestClient_FetchMatch_RejectsBadRef(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, ClientConfig{})

	if _, err := c.FetchMatch(t.Context(), FixtureRef{MatchID: 0}); err == nil {
		t.Fatal("expected error for zero match id")
	}
}

func TestClient_ListFixtures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Teams/65/Fixtures/Spain-Barcelona" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`
<a href="/Matches/1821372/Live/Spain-LaLiga-2023-2024-Real-Madrid-Barcelona">r</a>
<a href="/Matches/1822001/Live/Europe-Champions-League-2023-2024-Barcelona-PSG">p</a>
`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, ClientConfig{})

	refs, err := c.ListFixtures(t.Context())
	if err != nil {
		t.Fatalf("ListFixtures: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("expected 2 refs, got %d: %+v", len(refs), refs)
	}
	if refs[0].MatchID != 1821372 || refs[1].MatchID != 1822001 {
		t.Fatalf("unexpected ref order: %+v", refs)
	}
}

func TestClient_FetchMatches_KeepsInputOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, ClientConfig{MaxInFlight: 2})

	refs := []FixtureRef{
		{MatchID: 30, URL: srv.URL + "/Matches/30/Live/a"},
		{MatchID: 10, URL: srv.URL + "/Matches/10/Live/b"},
		{MatchID: 20, URL: srv.URL + "/Matches/20/Live/c"},
	}
	out, err := c.FetchMatches(t.Context(), refs)
	if err != nil {
		t.Fatalf("FetchMatches: %v", err)
	}
	for i, ref := range refs {
		if out[i].MatchID != ref.MatchID {
			t.Fatalf("result %d carries match %d, want %d", i, out[i].MatchID, ref.MatchID)
		}
	}
}

func TestClient_RetriesTransientStatus(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, ClientConfig{MaxRetries: 1})

	if _, err := c.FetchMatch(t.Context(), FixtureRef{MatchID: 1, URL: srv.URL + "/Matches/1/Live/a"}); err != nil {
		t.Fatalf("FetchMatch after retry: %v", err)
	}
	if got := hits.Load(); got != 2 {
		t.Fatalf("expected 2 requests, got %d", got)
	}
}

func TestClient_FatalStatusDoesNotRetry(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, ClientConfig{MaxRetries: 3})

	if _, err := c.FetchMatch(t.Context(), FixtureRef{MatchID: 1, URL: srv.URL + "/Matches/1/Live/a"}); err == nil {
		t.Fatal("expected error for 404")
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("expected 1 request, got %d", got)
	}
}

func TestClient_CircuitBreakerRejectsAfterFailures(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, ClientConfig{
		MaxRetries: 0,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	ref := FixtureRef{MatchID: 1, URL: srv.URL + "/Matches/1/Live/a"}
	for i := 0; i < 2; i++ {
		if _, err := c.FetchMatch(t.Context(), ref); err == nil {
			t.Fatal("expected provider failure")
		}
	}

	if _, err := c.FetchMatch(t.Context(), ref); err == nil {
		t.Fatal("expected circuit breaker rejection")
	}
	if got := hits.Load(); got != 2 {
		t.Fatalf("breaker should stop the third request, server saw %d", got)
	}
}
