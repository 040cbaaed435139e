package api

import (
	"strings"
	"time"

	models "TrendBack/internal/domain/models"
	"TrendBack/internal/engine"
	"TrendBack/internal/usecase"
	xhttp "TrendBack/pkg/http"
	xlogger "TrendBack/pkg/logger"
	"TrendBack/pkg/util"

	"github.com/labstack/echo/v4"
)

// StrategyEchoHandler exposes the advisory and backtest use cases over HTTP.
type StrategyEchoHandler struct {
	logger   *xlogger.Logger
	advisor  *usecase.AdvisorUseCase
	backtest *usecase.BacktestUseCase
	trades   *usecase.TradesUseCase
}

func NewStrategyEchoHandler(logger *xlogger.Logger, advisor *usecase.AdvisorUseCase, backtest *usecase.BacktestUseCase, trades *usecase.TradesUseCase) *StrategyEchoHandler {
	return &StrategyEchoHandler{logger: logger, advisor: advisor, backtest: backtest, trades: trades}
}

func (h *StrategyEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/report", h.Report)
	g.POST("/backtest", h.Backtest)
	g.GET("/trades", h.Trades)
}

func (h *StrategyEchoHandler) Report(c echo.Context) error {
	req := &models.ReportRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	var gated []string
	if req.Symbols != "" {
		for _, s := range strings.Split(req.Symbols, ",") {
			if t := strings.TrimSpace(s); t != "" {
				gated = append(gated, t)
			}
		}
	}

	res, err := h.advisor.RunWith(c.Request().Context(), time.Now(), gated)
	if err != nil {
		h.logger.Error("report usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, res)
}

func (h *StrategyEchoHandler) Backtest(c echo.Context) error {
	req := &models.BacktestRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	now := time.Now()
	from := util.ParseTimeDefault(req.From, now.AddDate(-1, 0, 0))
	to := util.ParseTimeDefault(req.To, now)

	res, err := h.backtest.Run(c.Request().Context(), usecase.RunBacktestParams{
		Benchmark: h.backtest.Benchmark(),
		From:      from,
		To:        to,
		Policy:    engine.Policy(req.Policy),
	})
	if err != nil {
		h.logger.Error("backtest usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *StrategyEchoHandler) Trades(c echo.Context) error {
	req := &models.TradesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.trades.GetTrades(c.Request().Context(), usecase.GetTradesParams{
		RunID:  req.RunID,
		Symbol: req.Symbol,
		From:   util.ParseTimeDefault(req.From, time.Time{}),
		To:     util.ParseTimeDefault(req.To, time.Time{}),
		Limit:  req.Limit,
	})
	if err != nil {
		h.logger.Error("trades usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}
