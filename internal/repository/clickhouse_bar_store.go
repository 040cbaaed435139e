package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"TrendBack/internal/domain/models"
	domrepo "TrendBack/internal/domain/repository"
	pkgch "TrendBack/pkg/clickhouse"
	applogger "TrendBack/pkg/logger"
)

// CHBarStore implements BarStore backed by ClickHouse.
type CHBarStore struct {
	db *sql.DB
	ch *pkgch.Client
	l  *applogger.Logger
}

func NewCHBarStore(ch *pkgch.Client) *CHBarStore {
	return &CHBarStore{db: ch.DB(), ch: ch}
}

// SetLogger injects a structured logger.
func (s *CHBarStore) SetLogger(l *applogger.Logger) { s.l = l }

func tableForInterval(iv domrepo.Interval) (string, error) {
	switch iv {
	case domrepo.Daily:
		return "bars_1d", nil
	case domrepo.Weekly:
		return "bars_1wk", nil
	default:
		return "", fmt.Errorf("unsupported interval: %s", iv)
	}
}

func (s *CHBarStore) Init(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS bars_1d (
            ts DateTime,
            symbol String,
            open Float64,
            high Float64,
            low Float64,
            close Float64,
            vol Float64
        ) ENGINE = ReplacingMergeTree
        ORDER BY (symbol, ts)`,
		`CREATE TABLE IF NOT EXISTS bars_1wk (
            ts DateTime,
            symbol String,
            open Float64,
            high Float64,
            low Float64,
            close Float64,
            vol Float64
        ) ENGINE = ReplacingMergeTree
        ORDER BY (symbol, ts)`,
	}
	return s.ch.InitSchema(ctx, stmts)
}

func (s *CHBarStore) StoreBars(ctx context.Context, bars models.BarSeries, iv domrepo.Interval) error {
	if len(bars) == 0 {
		return nil
	}
	table, err := tableForInterval(iv)
	if err != nil {
		return err
	}

	start := time.Now()
	// Chunked multi-row VALUES insert to reduce round-trips.
	const chunkSize = 2000
	for lo := 0; lo < len(bars); lo += chunkSize {
		hi := lo + chunkSize
		if hi > len(bars) {
			hi = len(bars)
		}

		values := make([]string, 0, hi-lo)
		args := make([]interface{}, 0, (hi-lo)*7)
		for _, b := range bars[lo:hi] {
			if b.Symbol == "" || b.Time.IsZero() {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?)")
			args = append(args, b.Time, b.Symbol, b.Open, b.High, b.Low, b.Close, b.Volume)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (ts, symbol, open, high, low, close, vol) VALUES %s",
			table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse store_bars insert error",
					applogger.String("table", table),
					applogger.Error(err),
				)
			}
			return fmt.Errorf("store bars: %w", err)
		}
	}

	if s.l != nil {
		s.l.Info("clickhouse store_bars ok",
			applogger.String("table", table),
			applogger.Int("rows", len(bars)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

// LoadBars reads persisted bars for a replay, ascending by time.
func (s *CHBarStore) LoadBars(ctx context.Context, symbol string, from, to time.Time, iv domrepo.Interval) (models.BarSeries, error) {
	table, err := tableForInterval(iv)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`
        SELECT ts, symbol, open, high, low, close, vol
        FROM %s
        WHERE symbol = ? AND ts >= ? AND ts <= ?
        ORDER BY ts ASC
    `, table)
	rows, err := s.db.QueryContext(ctx, q, symbol, from, to)
	if err != nil {
		return nil, fmt.Errorf("load bars: %w", err)
	}
	defer rows.Close()

	out := make(models.BarSeries, 0, 1024)
	for rows.Next() {
		var b models.Bar
		if err := rows.Scan(&b.Time, &b.Symbol, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (s *CHBarStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHBarStore) Close() error {
	return nil // pool is managed by pkg/clickhouse
}
