package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"TrendBack/internal/domain/models"
	pkgch "TrendBack/pkg/clickhouse"
	applogger "TrendBack/pkg/logger"
)

// CHTradeStore implements TradeStore backed by ClickHouse.
type CHTradeStore struct {
	db *sql.DB
	ch *pkgch.Client
	l  *applogger.Logger
}

func NewCHTradeStore(ch *pkgch.Client) *CHTradeStore {
	return &CHTradeStore{db: ch.DB(), ch: ch}
}

// SetLogger injects a structured logger.
func (s *CHTradeStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHTradeStore) Init(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sim_trades (
            run_id String,
            policy String,
            trade_date Date,
            symbol String,
            direction String,
            outcome String,
            entry Float64,
            exit Float64,
            qty Int64,
            charges Float64,
            net_pnl Float64,
            capital Float64
        ) ENGINE = MergeTree
        ORDER BY (run_id, trade_date, symbol)`,
		`CREATE TABLE IF NOT EXISTS sim_runs (
            run_id String,
            policy String,
            from_date Date,
            to_date Date,
            start_capital Float64,
            total_injected Float64,
            final_capital Float64,
            return_pct Float64,
            trades UInt32,
            wins UInt32,
            losses UInt32,
            created_at DateTime DEFAULT now()
        ) ENGINE = MergeTree
        ORDER BY (run_id)`,
	}
	return s.ch.InitSchema(ctx, stmts)
}

func (s *CHTradeStore) StoreRun(ctx context.Context, res *models.SimulationResult) error {
	if res == nil {
		return fmt.Errorf("nil result")
	}
	start := time.Now()

	const runQ = `INSERT INTO sim_runs
        (run_id, policy, from_date, to_date, start_capital, total_injected, final_capital, return_pct, trades, wins, losses)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, runQ,
		res.RunID,
		res.Policy,
		res.From,
		res.To,
		res.Summary.StartCapital,
		res.Summary.TotalInjected,
		res.Summary.FinalCapital,
		res.Summary.ReturnPct,
		uint32(res.Summary.Trades),
		uint32(res.Summary.Wins),
		uint32(res.Summary.Losses),
	); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse store_run insert error",
				applogger.String("run_id", res.RunID),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("store run: %w", err)
	}

	const chunkSize = 2000
	for lo := 0; lo < len(res.Trades); lo += chunkSize {
		hi := lo + chunkSize
		if hi > len(res.Trades) {
			hi = len(res.Trades)
		}

		values := make([]string, 0, hi-lo)
		args := make([]interface{}, 0, (hi-lo)*12)
		for _, t := range res.Trades[lo:hi] {
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				res.RunID,
				res.Policy,
				t.Date,
				t.Symbol,
				string(t.Direction),
				string(t.Outcome),
				t.Entry,
				t.Exit,
				t.Quantity,
				t.Charges,
				t.NetPnL,
				t.Capital,
			)
		}
		if len(values) == 0 {
			continue
		}
		q := "INSERT INTO sim_trades (run_id, policy, trade_date, symbol, direction, outcome, entry, exit, qty, charges, net_pnl, capital) VALUES " +
			strings.Join(values, ",")
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse store_run trades insert error",
					applogger.String("run_id", res.RunID),
					applogger.Error(err),
				)
			}
			return fmt.Errorf("store trades: %w", err)
		}
	}

	if s.l != nil {
		s.l.Info("clickhouse store_run ok",
			applogger.String("run_id", res.RunID),
			applogger.Int("trades", len(res.Trades)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

func (s *CHTradeStore) QueryTrades(ctx context.Context, runID, symbol string, from, to time.Time, limit int) ([]models.TradeRecord, error) {
	var (
		conds = make([]string, 0, 4)
		args  = make([]interface{}, 0, 5)
	)
	if runID != "" {
		conds = append(conds, "run_id = ?")
		args = append(args, runID)
	}
	if symbol != "" {
		conds = append(conds, "symbol = ?")
		args = append(args, symbol)
	}
	if !from.IsZero() {
		conds = append(conds, "trade_date >= ?")
		args = append(args, from)
	}
	if !to.IsZero() {
		conds = append(conds, "trade_date <= ?")
		args = append(args, to)
	}
	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}
	if limit <= 0 {
		limit = 500
	}
	args = append(args, limit)

	q := fmt.Sprintf(`
        SELECT trade_date, symbol, direction, outcome, entry, exit, qty, charges, net_pnl, capital
        FROM sim_trades
        %s
        ORDER BY trade_date ASC
        LIMIT ?
    `, where)
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	out := make([]models.TradeRecord, 0, limit)
	for rows.Next() {
		var (
			t         models.TradeRecord
			direction string
			outcome   string
		)
		if err := rows.Scan(&t.Date, &t.Symbol, &direction, &outcome, &t.Entry, &t.Exit, &t.Quantity, &t.Charges, &t.NetPnL, &t.Capital); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		t.Direction = models.Direction(direction)
		t.Outcome = models.Outcome(outcome)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (s *CHTradeStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHTradeStore) Close() error {
	return nil // pool is managed by pkg/clickhouse
}
