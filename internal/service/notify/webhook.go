package notify

import (
	"context"
	"fmt"
	"time"

	"TrendBack/internal/domain/models"
	xhttp "TrendBack/pkg/http"
	applogger "TrendBack/pkg/logger"
)

// Webhook delivers advisory reports and run summaries to an HTTP endpoint.
// A zero URL disables delivery without erroring, so runs work with no
// webhook configured.
type Webhook struct {
	url      string
	attempts int
	client   *xhttp.Client
	l        *applogger.Logger
}

// NewWebhook builds a webhook sender. attempts <= 1 means a single try.
func NewWebhook(url string, timeout time.Duration, attempts int) *Webhook {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Webhook{
		url:      url,
		attempts: attempts,
		client:   xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

// SetLogger injects a structured logger.
func (w *Webhook) SetLogger(l *applogger.Logger) { w.l = l }

// SendReport posts an advisory report as JSON.
func (w *Webhook) SendReport(ctx context.Context, r *models.AdvisoryReport) error {
	return w.postJSONWithRetry(ctx, r)
}

// SendResult posts a backtest run summary as JSON.
func (w *Webhook) SendResult(ctx context.Context, res *models.SimulationResult) error {
	return w.postJSONWithRetry(ctx, map[string]interface{}{
		"run_id":  res.RunID,
		"policy":  res.Policy,
		"from":    res.From,
		"to":      res.To,
		"summary": res.Summary,
	})
}

func (w *Webhook) postJSON(ctx context.Context, payload interface{}) error {
	err := w.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    w.url,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: payload,
	}, nil)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	return nil
}

func (w *Webhook) postJSONWithRetry(ctx context.Context, payload interface{}) error {
	if w.url == "" {
		return nil
	}
	if w.attempts <= 1 {
		return w.postJSON(ctx, payload)
	}
	var err error
	for i := 1; i <= w.attempts; i++ {
		err = w.postJSON(ctx, payload)
		if err == nil {
			return nil
		}
		if w.l != nil {
			w.l.Warn("webhook delivery failed",
				applogger.Int("attempt", i),
				applogger.Error(err),
			)
		}
		// simple backoff
		select {
		case <-time.After(time.Duration(i) * 200 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
