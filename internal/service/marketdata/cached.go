package marketdata

import (
	"context"
	"errors"
	"time"

	"TrendBack/internal/domain/models"
	domrepo "TrendBack/internal/domain/repository"
	"TrendBack/pkg/cache"
	applogger "TrendBack/pkg/logger"
	"TrendBack/pkg/util"
)

// CachedSource wraps a BarSource with a cache keyed by symbol, range, and
// interval. Bars for closed sessions never change, so TTL only bounds
// staleness of the most recent bar.
type CachedSource struct {
	next  domrepo.BarSource
	cache cache.Service
	ttl   time.Duration
	l     *applogger.Logger
}

// NewCachedSource wraps next with a cache layer.
func NewCachedSource(next domrepo.BarSource, c cache.Service, ttl time.Duration) *CachedSource {
	return &CachedSource{next: next, cache: c, ttl: ttl}
}

// SetLogger injects a structured logger.
func (s *CachedSource) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CachedSource) FetchBars(ctx context.Context, symbol string, from, to time.Time, iv domrepo.Interval) (models.BarSeries, error) {
	// Keys are built from aligned bounds so any request inside the same
	// candle range hits the same entry.
	from, to = util.AlignFromTo(from, to, string(iv))
	key := cache.GenerateKeyWithParams("bars", symbol, string(iv), from.Unix(), to.Unix())

	var cached models.BarSeries
	err := s.cache.Get(ctx, key, &cached)
	if err == nil && len(cached) > 0 {
		return cached, nil
	}
	if err != nil && !errors.Is(err, cache.ErrCacheMiss) && s.l != nil {
		s.l.Warn("bar cache get failed",
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
	}

	bars, err := s.next.FetchBars(ctx, symbol, from, to, iv)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, bars, s.ttl); err != nil && s.l != nil {
		s.l.Warn("bar cache set failed",
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
	}
	return bars, nil
}
