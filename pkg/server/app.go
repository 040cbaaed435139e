package server

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"TrendBack/internal/engine"
	"TrendBack/internal/service/notify"
	"TrendBack/internal/usecase"
	pkgch "TrendBack/pkg/clickhouse"
	"TrendBack/pkg/config"
	xhttp "TrendBack/pkg/http"
	pkgkafka "TrendBack/pkg/kafka"
	applogger "TrendBack/pkg/logger"
)

// App encapsulates the application lifecycle for the three run modes:
// a one-shot backtest, a one-shot advisory report, and a long-lived server.
type App struct {
	cfg      *config.Config
	l        *applogger.Logger
	advisor  *usecase.AdvisorUseCase
	backtest *usecase.BacktestUseCase
	trades   *usecase.TradesUseCase
	webhook  *notify.Webhook
	chClient *pkgch.Client
	producer *pkgkafka.Producer

	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	advisor *usecase.AdvisorUseCase,
	backtest *usecase.BacktestUseCase,
	trades *usecase.TradesUseCase,
	webhook *notify.Webhook,
	chClient *pkgch.Client,
	producer *pkgkafka.Producer,
) *App {
	return &App{
		cfg:      cfg,
		l:        l,
		advisor:  advisor,
		backtest: backtest,
		trades:   trades,
		webhook:  webhook,
		chClient: chClient,
		producer: producer,
	}
}

// SetHTTPHandler allows DI to inject an HTTP handler.
func (a *App) SetHTTPHandler(h xhttp.Handler) { a.httpHandler = h }

// RunAdvisory performs one advisory run: build the report, write the JSON
// artifact, and deliver it to the webhook if configured.
func (a *App) RunAdvisory(ctx context.Context) error {
	defer a.closeClients()

	report, err := a.advisor.Run(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("advisory run: %w", err)
	}

	if a.cfg.Report.OutputPath != "" {
		if err := writeJSONFile(a.cfg.Report.OutputPath, report); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		a.l.Info("report written", applogger.String("path", a.cfg.Report.OutputPath))
	}

	if a.webhook != nil {
		if err := a.webhook.SendReport(ctx, report); err != nil {
			a.l.Error("webhook delivery failed", applogger.Error(err))
		}
	}
	return nil
}

// RunBacktest performs one simulation over [from, to], writes the summary
// artifact next to the configured report path, and notifies the webhook.
func (a *App) RunBacktest(ctx context.Context, from, to time.Time, policy string) error {
	defer a.closeClients()

	res, err := a.backtest.Run(ctx, usecase.RunBacktestParams{
		From:   from,
		To:     to,
		Policy: policyOrDefault(policy, a.cfg.Strategy.Policy),
	})
	if err != nil {
		return fmt.Errorf("backtest run: %w", err)
	}

	if a.cfg.Report.OutputPath != "" {
		if err := writeJSONFile(a.cfg.Report.OutputPath, res); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
		a.l.Info("result written",
			applogger.String("path", a.cfg.Report.OutputPath),
			applogger.String("run_id", res.RunID),
		)
	}

	if a.webhook != nil {
		if err := a.webhook.SendResult(ctx, res); err != nil {
			a.l.Error("webhook delivery failed", applogger.Error(err))
		}
	}
	return nil
}

// Serve starts the HTTP server and blocks until interrupted.
func (a *App) Serve() error {
	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}
	a.l.Info("server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.l.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops the server and closes infrastructure clients.
func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if a.httpServer != nil {
		if err := a.httpServer.Stop(shutdownCtx); err != nil {
			a.l.Error("http shutdown error", applogger.Error(err))
		}
	}

	a.closeClients()
	a.l.Info("stopped")
	return nil
}

func (a *App) closeClients() {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.l.Warn("kafka close error", applogger.Error(err))
		}
		a.producer = nil
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.l.Warn("clickhouse close error", applogger.Error(err))
		}
		a.chClient = nil
	}
}

func policyOrDefault(p, def string) engine.Policy {
	if p == "" {
		p = def
	}
	return engine.Policy(p)
}

func writeJSONFile(path string, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
