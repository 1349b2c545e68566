package notify

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/poolhouse/confidence-pool/internal/platform/logging"
	"github.com/poolhouse/confidence-pool/internal/platform/resilience"
	"github.com/poolhouse/confidence-pool/internal/usecase"
)

var errWebhookTransient = crerr.New("notify webhook transient failure")

type WebhookConfig struct {
	URL            string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Webhook posts operator notifications as JSON to a configured endpoint.
// An empty URL disables delivery; reports then only reach the log, which is
// enough for local runs.
type Webhook struct {
	client         *fasthttp.Client
	url            string
	token          string
	timeout        time.Duration
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewWebhook(cfg WebhookConfig, logger *logging.Logger) *Webhook {
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Webhook{
		client:         &fasthttp.Client{ReadTimeout: timeout, WriteTimeout: timeout},
		url:            strings.TrimSpace(cfg.URL),
		token:          strings.TrimSpace(cfg.Token),
		timeout:        timeout,
		maxRetries:     cfg.MaxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type webhookPayload struct {
	Kind    string                     `json:"kind"`
	Week    int                        `json:"week,omitempty"`
	Text    string                     `json:"text"`
	Entries []usecase.InvalidGameEntry `json:"entries,omitempty"`
}

func (w *Webhook) ReportInvalidGames(ctx context.Context, report usecase.InvalidGamesReport) error {
	text := renderInvalidGames(report)
	w.logger.WarnContext(ctx, "invalid games detected", "week", report.Week, "entries", len(report.Entries))
	return w.post(ctx, webhookPayload{
		Kind:    "invalid_games",
		Week:    report.Week,
		Text:    text,
		Entries: report.Entries,
	})
}

func (w *Webhook) PublishSettlementNote(ctx context.Context, note string) error {
	w.logger.InfoContext(ctx, "settlement note", "note", note)
	return w.post(ctx, webhookPayload{Kind: "settlement_note", Text: note})
}

// renderInvalidGames builds the human-readable report body.
func renderInvalidGames(report usecase.InvalidGamesReport) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	fmt.Fprintf(buf, "schedule healing week %d found %d unresolved entries\n", report.Week, len(report.Entries))
	for _, entry := range report.Entries {
		fmt.Fprintf(buf, "- [%s] %s at %s: %s\n", entry.Source, entry.VisitorRef, entry.HomeRef, entry.Reason)
	}
	return buf.String()
}

func (w *Webhook) post(ctx context.Context, payload webhookPayload) error {
	if w.url == "" {
		return nil
	}
	if w.circuitEnabled {
		if err := w.breaker.Allow(); err != nil {
			w.logger.WarnContext(ctx, "notify circuit breaker rejected request", "state", w.breaker.State())
			return fmt.Errorf("%w: notification sink is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	body, err := sonic.Marshal(payload)
	if err != nil {
		return crerr.Wrap(err, "marshal webhook payload")
	}

	err = w.deliver(ctx, body)
	if w.circuitEnabled {
		if err != nil && stderrors.Is(err, errWebhookTransient) {
			w.breaker.RecordFailure()
		} else {
			w.breaker.RecordSuccess()
		}
	}
	return err
}

func (w *Webhook) deliver(ctx context.Context, body []byte) error {
	deadline := time.Now().Add(w.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	var lastErr error
	for attempt := 0; attempt <= w.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		req := fasthttp.AcquireRequest()
		resp := fasthttp.AcquireResponse()
		req.SetRequestURI(w.url)
		req.Header.SetMethod(fasthttp.MethodPost)
		req.Header.SetContentType("application/json")
		if w.token != "" {
			req.Header.Set("Authorization", "Bearer "+w.token)
		}
		req.SetBody(body)

		err := w.client.DoDeadline(req, resp, deadline)
		status := resp.StatusCode()
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)

		switch {
		case err != nil:
			lastErr = fmt.Errorf("%w: send webhook: %v", errWebhookTransient, err)
		case status >= 200 && status < 300:
			return nil
		case status == fasthttp.StatusTooManyRequests || status >= 500:
			lastErr = fmt.Errorf("%w: webhook status=%d", errWebhookTransient, status)
		default:
			return fmt.Errorf("webhook status=%d", status)
		}

		if attempt == w.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * 500 * time.Millisecond)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}
