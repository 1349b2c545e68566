package scoreline

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/poolhouse/confidence-pool/internal/platform/logging"
	"github.com/poolhouse/confidence-pool/internal/platform/resilience"
	"github.com/poolhouse/confidence-pool/internal/usecase"
)

const defaultBaseURL = "https://api.scoreline.example.com/v1"

var errScorelineTransient = crerr.New("scoreline transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Season         int
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client fetches the season schedule from the scoreline provider. It
// implements usecase.ScheduleFeed.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	season         int
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
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
		httpClient.Timeout = 15 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		season:         cfg.Season,
		maxRetries:     cfg.MaxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchSeason returns every week's matchups ordered by week. Weeks the
// provider sends empty are dropped; healing treats an absent week as "no feed
// data", never as "no games".
func (c *Client) FetchSeason(ctx context.Context) ([]usecase.ExternalWeek, error) {
	path := fmt.Sprintf("/seasons/%d/schedule", c.season)

	var envelope seasonEnvelope
	if err := c.doJSON(ctx, path, &envelope); err != nil {
		return nil, fmt.Errorf("fetch season schedule season=%d: %w", c.season, err)
	}

	weeks := make([]usecase.ExternalWeek, 0, len(envelope.Weeks))
	for _, week := range envelope.Weeks {
		if week.Week < 1 || len(week.Games) == 0 {
			continue
		}
		matchups := make([]usecase.ExternalMatchup, 0, len(week.Games))
		for _, item := range week.Games {
			kickoff, err := parseKickoff(item.Kickoff)
			if err != nil {
				c.logger.WarnContext(ctx, "skipping matchup with unparseable kickoff",
					"week", week.Week, "home", item.Home, "visitor", item.Visitor, "error", err)
				continue
			}
			matchups = append(matchups, usecase.ExternalMatchup{
				HomeRef:          item.Home,
				VisitorRef:       item.Visitor,
				Kickoff:          kickoff,
				Status:           strings.ToUpper(strings.TrimSpace(item.Status)),
				HomeScore:        item.HomeScore,
				VisitorScore:     item.VisitorScore,
				SecondsRemaining: item.SecondsRemaining,
			})
		}
		weeks = append(weeks, usecase.ExternalWeek{Week: week.Week, Matchups: matchups})
	}
	sort.SliceStable(weeks, func(i, j int) bool { return weeks[i].Week < weeks[j].Week })
	return weeks, nil
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "scoreline circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: schedule provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	values.Set("token", c.token)
	fullURL := c.baseURL + path + "?" + values.Encode()

	out, err := c.flight.Do(path, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errScorelineTransient, sanitizeToken(err.Error(), c.token))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errScorelineTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d", errScorelineTransient, resp.StatusCode)
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
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
	return nil, lastErr
}

// IsTransient reports whether the error is a retryable provider failure.
func IsTransient(err error) bool {
	return stderrors.Is(err, errScorelineTransient)
}

func isCircuitFailure(err error) bool {
	return IsTransient(err)
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func parseKickoff(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported kickoff format %q", value)
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	if len(raw) <= limit {
		return string(raw)
	}
	return string(raw[:limit]) + "..."
}

func sanitizeToken(text, token string) string {
	if token == "" {
		return text
	}
	return strings.ReplaceAll(text, token, "***")
}
