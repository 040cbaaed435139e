package marketdata

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"TrendBack/internal/domain/models"
	domrepo "TrendBack/internal/domain/repository"
	"TrendBack/internal/service/ratelimit"
	pkghttp "TrendBack/pkg/http"
	applogger "TrendBack/pkg/logger"
	"TrendBack/pkg/util"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// Client implements a BarSource backed by the Yahoo Finance chart endpoint.
type Client struct {
	baseURL string
	http    *pkghttp.Client
	limiter *ratelimit.Limiter
	perSec  float64
	l       *applogger.Logger
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithBaseURL overrides the chart endpoint base URL (used by tests).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPTimeout sets the per-request timeout.
func WithHTTPTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.http = pkghttp.NewClient(pkghttp.WithTimeout(d)) }
}

// WithRateLimit caps outbound requests per second across all symbols.
func WithRateLimit(perSec float64) ClientOption {
	return func(c *Client) { c.perSec = perSec }
}

// WithLogger injects a structured logger.
func WithLogger(l *applogger.Logger) ClientOption {
	return func(c *Client) { c.l = l }
}

// New creates a new chart API client.
func New(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		http:    pkghttp.NewClient(pkghttp.WithTimeout(15 * time.Second)),
		limiter: ratelimit.New(),
		perSec:  4,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// chart API response. Null entries in the quote arrays mark days the venue
// reported no trade; they decode to nil pointers and are dropped.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol string `json:"symbol"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchBars downloads bars for one symbol, ascending by time. The range is
// snapped to candle boundaries so the venue returns whole sessions only.
func (c *Client) FetchBars(ctx context.Context, symbol string, from, to time.Time, iv domrepo.Interval) (models.BarSeries, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	from, to = util.AlignFromTo(from, to, string(iv))

	start := time.Now()
	var resp chartResponse
	err := c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    fmt.Sprintf("%s/v8/finance/chart/%s", c.baseURL, symbol),
		Headers: map[string]string{
			"User-Agent": "Mozilla/5.0",
		},
		QueryParams: map[string][]string{
			"period1":  {strconv.FormatInt(from.Unix(), 10)},
			"period2":  {strconv.FormatInt(to.Unix(), 10)},
			"interval": {string(iv)},
			"events":   {"history"},
		},
	}, &resp)
	if err != nil {
		if c.l != nil {
			c.l.Error("chart fetch failed",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}

	bars, err := parseChart(symbol, &resp)
	if err != nil {
		return nil, err
	}

	if c.l != nil {
		c.l.Info("chart fetch ok",
			applogger.String("symbol", symbol),
			applogger.Int("bars", len(bars)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return bars, nil
}

// wait blocks until the limiter grants a token or the context ends.
func (c *Client) wait(ctx context.Context) error {
	for !c.limiter.Allow("chart", c.perSec, c.perSec) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
	return nil
}

func parseChart(symbol string, resp *chartResponse) (models.BarSeries, error) {
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("chart %s: %s: %s", symbol, resp.Chart.Error.Code, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("chart %s: empty result", symbol)
	}
	res := resp.Chart.Result[0]
	if len(res.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("chart %s: no quote data", symbol)
	}
	q := res.Indicators.Quote[0]

	out := make(models.BarSeries, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		if i >= len(q.Open) || i >= len(q.High) || i >= len(q.Low) || i >= len(q.Close) {
			break
		}
		if q.Open[i] == nil || q.High[i] == nil || q.Low[i] == nil || q.Close[i] == nil {
			continue // no trade that day
		}
		b := models.Bar{
			Time:   time.Unix(ts, 0).UTC(),
			Symbol: symbol,
			Open:   *q.Open[i],
			High:   *q.High[i],
			Low:    *q.Low[i],
			Close:  *q.Close[i],
		}
		if i < len(q.Volume) && q.Volume[i] != nil {
			b.Volume = *q.Volume[i]
		}
		out = append(out, b)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("chart %s: no usable bars", symbol)
	}
	return out, nil
}
