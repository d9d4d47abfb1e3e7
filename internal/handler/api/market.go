package api

import (
	"errors"
	"net/http"

	"TickForge/internal/domain/models"
	domrepo "TickForge/internal/domain/repository"
	"TickForge/internal/service/ratelimit"
	"TickForge/internal/usecase"
	xhttp "TickForge/pkg/http"
	xlogger "TickForge/pkg/logger"

	"github.com/labstack/echo/v4"
)

// MarketHandler exposes the simulated market over HTTP.
type MarketHandler struct {
	logger  *xlogger.Logger
	sim     *usecase.SimulationUseCase
	candles *usecase.CandlesUseCase
	orders  *usecase.OrdersUseCase
	store   domrepo.GameStore
	rl      *ratelimit.Limiter
}

func NewMarketHandler(
	logger *xlogger.Logger,
	sim *usecase.SimulationUseCase,
	candles *usecase.CandlesUseCase,
	orders *usecase.OrdersUseCase,
	store domrepo.GameStore,
) *MarketHandler {
	return &MarketHandler{logger: logger, sim: sim, candles: candles, orders: orders, store: store, rl: ratelimit.New()}
}

func (h *MarketHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api")
	g.GET("/instruments", h.ListInstruments)
	g.GET("/instruments/:ticker", h.GetInstrument)
	g.GET("/candles", h.GetCandles)
	g.GET("/news", h.GetNews)
	g.GET("/clock", h.GetClock)
	g.POST("/orders/buy", h.Buy)
	g.POST("/sim/pause", h.Pause)
	g.POST("/sim/resume", h.Resume)
}

func (h *MarketHandler) Health(c echo.Context) error {
	if err := h.store.Health(c.Request().Context()); err != nil {
		h.logger.Error("store health check failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("store unavailable"))
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

func (h *MarketHandler) ListInstruments(c echo.Context) error {
	instruments := h.sim.Instruments()
	rows := make([]models.InstrumentSummary, 0, len(instruments))
	for i := range instruments {
		rows = append(rows, models.SummaryOf(&instruments[i]))
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

func (h *MarketHandler) GetInstrument(c echo.Context) error {
	ticker := c.Param("ticker")
	inst, ok := h.sim.Instrument(ticker)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("unknown ticker: %s", ticker))
	}
	return xhttp.SuccessResponse(c, models.SummaryOf(&inst))
}

func (h *MarketHandler) GetCandles(c echo.Context) error {
	req := &models.CandlesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tf := domrepo.NormalizeTimeframe(req.Timeframe)

	res, err := h.candles.GetCandles(usecase.GetCandlesParams{
		Ticker:    req.Ticker,
		Timeframe: tf,
		Limit:     req.Limit,
	})
	if err != nil {
		h.logger.Error("candles usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError(err.Error()))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *MarketHandler) GetNews(c echo.Context) error {
	req := &models.NewsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if req.Limit == 0 {
		req.Limit = 50
	}
	return xhttp.SuccessResponse(c, h.sim.News(req.Limit))
}

func (h *MarketHandler) GetClock(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.sim.ClockState())
}

func (h *MarketHandler) Buy(c echo.Context) error {
	if !h.rl.Allow(c.RealIP()+":buy", 10, 5) {
		h.logger.Warn("buy order rate limited", xlogger.String("remote", c.RealIP()))
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_RATE_LIMITED", "", "too many orders", http.StatusTooManyRequests))
	}

	req := &usecase.BuyParams{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.orders.Buy(c.Request().Context(), *req)
	if err != nil {
		h.logger.Warn("buy order rejected",
			xlogger.String("ticker", req.Ticker),
			xlogger.Int("qty", req.Qty),
			xlogger.Error(err),
		)
		switch {
		case errors.Is(err, usecase.ErrUnknownTicker):
			return xhttp.AppErrorResponse(c, xhttp.NotFoundError(err.Error()))
		case errors.Is(err, usecase.ErrMarketClosed):
			return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_MARKET_CLOSED", "", err.Error(), http.StatusConflict))
		default:
			return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
		}
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *MarketHandler) Pause(c echo.Context) error {
	h.sim.Pause()
	return xhttp.SuccessResponse(c, h.sim.ClockState())
}

func (h *MarketHandler) Resume(c echo.Context) error {
	h.sim.Resume()
	return xhttp.SuccessResponse(c, h.sim.ClockState())
}
