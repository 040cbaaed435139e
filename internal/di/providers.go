package di

import (
	"context"
	"fmt"
	"time"

	domrepo "TrendBack/internal/domain/repository"
	"TrendBack/internal/engine"
	"TrendBack/internal/handler/api"
	internalrepo "TrendBack/internal/repository"
	"TrendBack/internal/service/marketdata"
	"TrendBack/internal/service/notify"
	"TrendBack/internal/usecase"
	"TrendBack/pkg/cache"
	pkgch "TrendBack/pkg/clickhouse"
	"TrendBack/pkg/config"
	xhttp "TrendBack/pkg/http"
	pkgkafka "TrendBack/pkg/kafka"
	applogger "TrendBack/pkg/logger"
	"TrendBack/pkg/metrics"
	"TrendBack/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "console"
	if cfg.Environment == "production" {
		format = "json"
	}
	l, err := applogger.New(&applogger.Config{Level: "info", Format: format, Output: "stdout"})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideCache creates the bar cache: Redis-backed when enabled, in-process
// otherwise.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Redis.Enabled {
		return cache.NewMemoryCache(), nil
	}
	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Redis.Host),
		cache.WithRedisPort(cfg.Redis.Port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(rc), nil
}

// ProvideBarSource creates the chart API client behind the bar cache.
func ProvideBarSource(cfg *config.Config, l *applogger.Logger, c cache.Service) domrepo.BarSource {
	opts := []marketdata.ClientOption{
		marketdata.WithHTTPTimeout(cfg.Data.Timeout),
		marketdata.WithRateLimit(cfg.Data.MaxPerSecond),
		marketdata.WithLogger(l),
	}
	if cfg.Data.BaseURL != "" {
		opts = append(opts, marketdata.WithBaseURL(cfg.Data.BaseURL))
	}
	client := marketdata.New(opts...)

	cached := marketdata.NewCachedSource(client, c, cfg.Data.CacheTTL)
	cached.SetLogger(l)
	return cached
}

// ProvideClickHouseClient creates a ClickHouse client, or nil when disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideBarStore creates the bar store and ensures its schema.
func ProvideBarStore(ch *pkgch.Client, l *applogger.Logger) (domrepo.BarStore, error) {
	if ch == nil {
		return nil, nil
	}
	store := internalrepo.NewCHBarStore(ch)
	store.SetLogger(l)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("bar store schema: %w", err)
	}
	return store, nil
}

// ProvideTradeStore creates the trade store and ensures its schema.
func ProvideTradeStore(ch *pkgch.Client, l *applogger.Logger) (domrepo.TradeStore, error) {
	if ch == nil {
		return nil, nil
	}
	store := internalrepo.NewCHTradeStore(ch)
	store.SetLogger(l)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("trade store schema: %w", err)
	}
	return store, nil
}

// ProvideKafkaProducer creates a Kafka producer, or nil when disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvidePublisher creates the Kafka report publisher, or nil when disabled.
func ProvidePublisher(producer *pkgkafka.Producer, cfg *config.Config) domrepo.ReportPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaReportPublisher(producer, cfg.Kafka.Topic)
}

// ProvideWebhook creates the report webhook sender.
func ProvideWebhook(cfg *config.Config, l *applogger.Logger) *notify.Webhook {
	w := notify.NewWebhook(cfg.Report.WebhookURL, cfg.Report.Timeout, cfg.Report.Retries)
	w.SetLogger(l)
	return w
}

// ProvideEngineConfig maps YAML strategy and cost settings onto the engine.
func ProvideEngineConfig(cfg *config.Config) engine.Config {
	return engine.Config{
		Capital:      cfg.Strategy.Capital,
		MonthlyTopUp: cfg.Strategy.MonthlyTopUp,
		Leverage:     cfg.Strategy.Leverage,
		BufferPct:    cfg.Strategy.BufferPct,
		TickSize:     cfg.Strategy.TickSize,
		Policy:       engine.Policy(cfg.Strategy.Policy),
		Exits: engine.ExitLevels{
			TargetPct: cfg.Strategy.TargetPct,
			StopPct:   cfg.Strategy.StopPct,
			Step1Pct:  cfg.Strategy.Step1Pct,
			Step2Pct:  cfg.Strategy.Step2Pct,
			LockPct:   cfg.Strategy.LockPct,
		},
		Costs: engine.CostConfig{
			BrokerageRate: cfg.Costs.BrokerageRate,
			BrokerageCap:  cfg.Costs.BrokerageCap,
			STTRate:       cfg.Costs.STTRate,
			TxnRate:       cfg.Costs.TxnRate,
			GSTRate:       cfg.Costs.GSTRate,
			StampRate:     cfg.Costs.StampRate,
			SEBIRate:      cfg.Costs.SEBIRate,
		},
	}
}

// ProvideBacktestUseCase wires the backtest over the full tradeable universe.
func ProvideBacktestUseCase(
	source domrepo.BarSource,
	bars domrepo.BarStore,
	trades domrepo.TradeStore,
	publisher domrepo.ReportPublisher,
	m domrepo.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
	ecfg engine.Config,
) *usecase.BacktestUseCase {
	universe := make([]string, 0, len(cfg.Instruments.Gated)+len(cfg.Instruments.Independent))
	universe = append(universe, cfg.Instruments.Gated...)
	universe = append(universe, cfg.Instruments.Independent...)

	return usecase.NewBacktestUseCase(usecase.BacktestDeps{
		Source:    source,
		Bars:      bars,
		Trades:    trades,
		Publisher: publisher,
		Metrics:   m,
		Logger:    l,
	}, ecfg, domrepo.NormalizeInterval(cfg.Data.Interval), cfg.Instruments.Benchmark, universe)
}

// ProvideAdvisorUseCase wires the advisory report builder.
func ProvideAdvisorUseCase(
	source domrepo.BarSource,
	publisher domrepo.ReportPublisher,
	m domrepo.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.AdvisorUseCase {
	return usecase.NewAdvisorUseCase(usecase.AdvisorDeps{
		Source:    source,
		Publisher: publisher,
		Metrics:   m,
		Logger:    l,
	}, usecase.AdvisorParams{
		Period:      cfg.Strategy.Period,
		Multiplier:  cfg.Strategy.Multiplier,
		Interval:    domrepo.NormalizeInterval(cfg.Data.Interval),
		Lookback:    time.Duration(cfg.Data.LookbackDays) * 24 * time.Hour,
		Benchmark:   cfg.Instruments.Benchmark,
		Gated:       cfg.Instruments.Gated,
		Independent: cfg.Instruments.Independent,
		Park:        cfg.Instruments.Park,
	})
}

// ProvideTradesUseCase wires the trade log query path.
func ProvideTradesUseCase(store domrepo.TradeStore) *usecase.TradesUseCase {
	return usecase.NewTradesUseCase(store)
}

// ProvideHandler creates the HTTP handler.
func ProvideHandler(
	l *applogger.Logger,
	advisor *usecase.AdvisorUseCase,
	backtest *usecase.BacktestUseCase,
	trades *usecase.TradesUseCase,
) xhttp.Handler {
	return api.NewStrategyEchoHandler(l, advisor, backtest, trades)
}

// ProvideApp creates the application.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	advisor *usecase.AdvisorUseCase,
	backtest *usecase.BacktestUseCase,
	trades *usecase.TradesUseCase,
	webhook *notify.Webhook,
	chClient *pkgch.Client,
	producer *pkgkafka.Producer,
	handler xhttp.Handler,
) *server.App {
	if producer != nil {
		// Aggregate repeated error logs onto a Kafka topic.
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          cfg.Kafka.Topic + ".logs",
			Publisher:      producer,
		})
	}
	app := server.New(cfg, l, advisor, backtest, trades, webhook, chClient, producer)
	app.SetHTTPHandler(handler)
	return app
}
