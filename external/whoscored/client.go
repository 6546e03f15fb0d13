package whoscored

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc/pool"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/platform/logging"
	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/platform/resilience"
	"golang.org/x/sync/singleflight"
)

const (
	defaultBaseURL      = "https://www.whoscored.com"
	defaultFixturesPath = "/Teams/65/Fixtures/Spain-Barcelona"
	defaultMaxInFlight  = 4
)

var errProviderTransient = crerr.New("whoscored transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	FixturesPath   string
	Timeout        time.Duration
	MaxRetries     int
	MaxInFlight    int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client fetches match pages and decodes the embedded matchCentreData blob.
// It owns no browser automation; pages behind an interactive wall must be
// fetched by the external scraping collaborator and fed in via Decode.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	fixturesPath   string
	maxRetries     int
	maxInFlight    int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         singleflight.Group
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	fixturesPath := strings.TrimSpace(cfg.FixturesPath)
	if fixturesPath == "" {
		fixturesPath = defaultFixturesPath
	}
	maxInFlight := cfg.MaxInFlight
	if maxInFlight < 1 {
		maxInFlight = defaultMaxInFlight
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		fixturesPath:   fixturesPath,
		maxRetries:     max(cfg.MaxRetries, 0),
		maxInFlight:    maxInFlight,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// ListFixtures fetches the team fixtures page and returns every linked match
// in the known competitions.
func (c *Client) ListFixtures(ctx context.Context) ([]FixtureRef, error) {
	page, err := c.fetchPage(ctx, c.baseURL+c.fixturesPath)
	if err != nil {
		return nil, fmt.Errorf("fetch fixtures page: %w", err)
	}

	refs := ExtractFixtureRefs(page, c.baseURL)
	if len(refs) == 0 {
		c.logger.WarnContext(ctx, "fixtures page yielded no match links", "path", c.fixturesPath)
	}
	return refs, nil
}

// FetchMatch fetches one match page and decodes its matchCentreData blob.
func (c *Client) FetchMatch(ctx context.Context, ref FixtureRef) (RawMatch, error) {
	if ref.MatchID <= 0 {
		return RawMatch{}, fmt.Errorf("fixture ref match id must be greater than zero")
	}

	page, err := c.fetchPage(ctx, ref.URL)
	if err != nil {
		return RawMatch{}, fmt.Errorf("fetch match page match_id=%d: %w", ref.MatchID, err)
	}

	return Decode(ref, page)
}

// FetchMatches fetches several match pages with bounded concurrency, keeping
// input order in the result.
func (c *Client) FetchMatches(ctx context.Context, refs []FixtureRef) ([]RawMatch, error) {
	out := make([]RawMatch, len(refs))

	var mu sync.Mutex
	p := pool.New().WithMaxGoroutines(c.maxInFlight).WithErrors().WithContext(ctx)
	for idx, ref := range refs {
		idx, ref := idx, ref
		p.Go(func(ctx context.Context) error {
			raw, err := c.FetchMatch(ctx, ref)
			if err != nil {
				return err
			}
			mu.Lock()
			out[idx] = raw
			mu.Unlock()
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Decode extracts and unmarshals the matchCentreData blob from an already
// fetched page. Exposed so the browser-automation collaborator can hand over
// raw HTML it captured itself.
func Decode(ref FixtureRef, page []byte) (RawMatch, error) {
	blob, err := ExtractMatchCentreData(page)
	if err != nil {
		return RawMatch{}, fmt.Errorf("extract match centre data match_id=%d: %w", ref.MatchID, err)
	}

	var data MatchCentreData
	if err := sonic.Unmarshal(blob, &data); err != nil {
		return RawMatch{}, fmt.Errorf("decode match centre data match_id=%d: %w", ref.MatchID, err)
	}

	return RawMatch{
		MatchID:     ref.MatchID,
		Competition: ref.Competition,
		URL:         ref.URL,
		Data:        data,
		Payload:     string(blob),
	}, nil
}

func (c *Client) fetchPage(ctx context.Context, fullURL string) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "whoscored circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("match data provider is temporarily unavailable: %w", err)
		}
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && stderrors.Is(reqErr, errProviderTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "text/html")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = crerr.Mark(fmt.Errorf("send request: %w", err), errProviderTransient)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = crerr.Mark(fmt.Errorf("read response body: %w", readErr), errProviderTransient)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = crerr.Mark(fmt.Errorf("provider status=%d", resp.StatusCode), errProviderTransient)
			default:
				return nil, fmt.Errorf("provider status=%d", resp.StatusCode)
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "whoscored request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}
