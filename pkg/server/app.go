package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"TickForge/internal/handler/api"
	"TickForge/internal/handler/ws"
	"TickForge/internal/usecase"
	pkgcache "TickForge/pkg/cache"
	pkgch "TickForge/pkg/clickhouse"
	"TickForge/pkg/config"
	xhttp "TickForge/pkg/http"
	pkgkafka "TickForge/pkg/kafka"
	applogger "TickForge/pkg/logger"
	pkgpg "TickForge/pkg/postgres"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	l          *applogger.Logger
	sim        *usecase.SimulationUseCase
	handler    *api.MarketHandler
	hub        *ws.Hub
	httpServer *xhttp.Server

	pg       *pkgpg.Client
	chClient *pkgch.Client
	producer *pkgkafka.Producer
	redis    *pkgcache.RedisCache
}

// New creates a new App instance with all dependencies. The ClickHouse,
// Kafka and Redis clients may be nil when their backends are disabled.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	sim *usecase.SimulationUseCase,
	handler *api.MarketHandler,
	hub *ws.Hub,
	pg *pkgpg.Client,
	chClient *pkgch.Client,
	producer *pkgkafka.Producer,
	redis *pkgcache.RedisCache,
) *App {
	return &App{
		cfg:      cfg,
		l:        l,
		sim:      sim,
		handler:  handler,
		hub:      hub,
		pg:       pg,
		chClient: chClient,
		producer: producer,
		redis:    redis,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithRequestMetrics(a.l, time.Second),
	)
	a.hub.RegisterRoutes(a.httpServer.Echo())

	// Aggregate error logs onto the bus when Kafka is available.
	if a.producer != nil {
		a.l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          "tickforge.logs",
			Publisher:      kafkaLogPublisher{producer: a.producer},
		})
	}

	a.sim.Start(ctx)
	a.l.Info("simulation started",
		applogger.Duration("tick_interval", a.cfg.Sim.TickInterval),
		applogger.Int("minutes_per_tick", a.cfg.Sim.MinutesPerTick),
	)

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}
	a.l.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services. The simulation stops first so its
// final save sees a frozen clock.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.sim.Stop(shutdownCtx); err != nil {
		a.l.Error("simulation stop error", applogger.Error(err))
	}

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
	}

	if a.producer != nil {
		a.l.RemoveCollector()
		if err := a.producer.Close(); err != nil {
			a.l.Warn("kafka producer close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.l.Warn("clickhouse close error", applogger.Error(err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.l.Warn("redis close error", applogger.Error(err))
		}
	}
	if a.pg != nil {
		if err := a.pg.Close(); err != nil {
			a.l.Warn("postgres close error", applogger.Error(err))
		}
	}

	a.l.Info("shutdown complete")
	return nil
}

// kafkaLogPublisher adapts the Kafka producer to the log collector's
// publisher interface.
type kafkaLogPublisher struct {
	producer *pkgkafka.Producer
}

func (p kafkaLogPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}
