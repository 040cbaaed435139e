package marketdata

import (
	"context"
	"testing"
	"time"

	"TrendBack/internal/domain/models"
	domrepo "TrendBack/internal/domain/repository"
	"TrendBack/pkg/cache"
)

// countingSource records how often the upstream is hit.
type countingSource struct {
	calls int
	bars  models.BarSeries
}

func (c *countingSource) FetchBars(_ context.Context, _ string, _, _ time.Time, _ domrepo.Interval) (models.BarSeries, error) {
	c.calls++
	return c.bars, nil
}

// fakeCache stores BarSeries values verbatim and records the keys it saw.
type fakeCache struct {
	cache.Service
	store map[string]models.BarSeries
	keys  []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[string]models.BarSeries)}
}

func (f *fakeCache) Get(_ context.Context, key string, dest interface{}) error {
	f.keys = append(f.keys, key)
	if v, ok := f.store[key]; ok {
		*dest.(*models.BarSeries) = v
		return nil
	}
	return cache.ErrCacheMiss
}

func (f *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	f.store[key] = value.(models.BarSeries)
	return nil
}

func TestCachedSourceSharesEntryWithinCandleRange(t *testing.T) {
	bars := models.BarSeries{{
		Time: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Symbol: "ACME",
		Open: 100, High: 101, Low: 99, Close: 100,
	}}
	next := &countingSource{bars: bars}
	fc := newFakeCache()
	src := NewCachedSource(next, fc, time.Hour)

	// Two requests at different intraday instants cover the same daily candles.
	from1 := time.Date(2024, 1, 3, 9, 15, 0, 0, time.UTC)
	to1 := time.Date(2024, 1, 10, 15, 30, 0, 0, time.UTC)
	from2 := time.Date(2024, 1, 3, 16, 0, 0, 0, time.UTC)
	to2 := time.Date(2024, 1, 10, 18, 45, 0, 0, time.UTC)

	got1, err := src.FetchBars(context.Background(), "ACME", from1, to1, domrepo.Daily)
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	got2, err := src.FetchBars(context.Background(), "ACME", from2, to2, domrepo.Daily)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}

	if next.calls != 1 {
		t.Fatalf("upstream fetched %d times, want 1", next.calls)
	}
	if len(fc.keys) != 2 || fc.keys[0] != fc.keys[1] {
		t.Fatalf("expected one shared key, got %v", fc.keys)
	}
	if len(got1) != 1 || len(got2) != 1 || got2[0].Close != got1[0].Close {
		t.Fatalf("cached bars diverge: %v vs %v", got1, got2)
	}
}

func TestCachedSourceWeeklyKeySnapsToMonday(t *testing.T) {
	next := &countingSource{bars: models.BarSeries{{Symbol: "ACME", Open: 1, High: 1, Low: 1, Close: 1}}}
	fc := newFakeCache()
	src := NewCachedSource(next, fc, time.Hour)

	// Wednesday and Friday of the same week resolve to the same Monday start.
	wed := time.Date(2024, 1, 3, 11, 0, 0, 0, time.UTC)
	fri := time.Date(2024, 1, 5, 11, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	if _, err := src.FetchBars(context.Background(), "ACME", wed, to, domrepo.Weekly); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if _, err := src.FetchBars(context.Background(), "ACME", fri, to, domrepo.Weekly); err != nil {
		t.Fatalf("second fetch: %v", err)
	}

	if next.calls != 1 {
		t.Fatalf("upstream fetched %d times, want 1", next.calls)
	}
	if len(fc.keys) != 2 || fc.keys[0] != fc.keys[1] {
		t.Fatalf("expected one shared weekly key, got %v", fc.keys)
	}
}
