package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"TickForge/internal/domain/repository"
	"TickForge/internal/handler/api"
	"TickForge/internal/handler/ws"
	internalrepo "TickForge/internal/repository"
	"TickForge/internal/sim"
	"TickForge/internal/usecase"
	pkgcache "TickForge/pkg/cache"
	pkgch "TickForge/pkg/clickhouse"
	"TickForge/pkg/config"
	pkgkafka "TickForge/pkg/kafka"
	applogger "TickForge/pkg/logger"
	"TickForge/pkg/metrics"
	pkgpg "TickForge/pkg/postgres"
	"TickForge/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvidePostgresClient creates the Postgres client.
func ProvidePostgresClient(cfg *config.Config) (*pkgpg.Client, error) {
	client, err := pkgpg.NewClient(
		pkgpg.WithDSN(cfg.Postgres.DSN),
		pkgpg.WithMaxConnections(cfg.Postgres.MaxOpenConns, cfg.Postgres.MaxIdleConns),
		pkgpg.WithConnMaxLifetime(cfg.Postgres.ConnMaxLifetime),
	)
	if err != nil {
		return nil, fmt.Errorf("postgres client: %w", err)
	}
	return client, nil
}

// ProvideGameStore creates the Postgres-backed game store.
func ProvideGameStore(pg *pkgpg.Client, l *applogger.Logger) repository.GameStore {
	store := internalrepo.NewPostgresGameStore(pg)
	store.SetLogger(l)
	return store
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
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.TickLogSchema); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideTickLog creates the analytics tick log, or nil when ClickHouse is off.
func ProvideTickLog(ch *pkgch.Client, l *applogger.Logger) repository.TickLog {
	if ch == nil {
		return nil
	}
	log := internalrepo.NewCHTickLog(ch)
	log.SetLogger(l)
	return log
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
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideBusPublisher creates the Kafka bus publisher, or nil when Kafka is off.
func ProvideBusPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.BusPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.TicksTopic, cfg.Kafka.NewsTopic)
}

// ProvideRedisCache creates the Redis cache backend, or nil when disabled.
func ProvideRedisCache(cfg *config.Config) (*pkgcache.RedisCache, error) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}
	host, port := splitHostPort(cfg.Redis.Addr)
	cache, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(host),
		pkgcache.WithRedisPort(port),
		pkgcache.WithRedisPassword(cfg.Redis.Password),
		pkgcache.WithRedisDB(cfg.Redis.DB),
		pkgcache.WithRedisPrefix(cfg.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache, nil
}

// ProvideQuoteCache selects Redis when configured, in-memory otherwise.
func ProvideQuoteCache(redis *pkgcache.RedisCache, cfg *config.Config) repository.QuoteCache {
	if redis != nil {
		return internalrepo.NewCachedQuoteStore(redis, cfg.Redis.TTL)
	}
	return internalrepo.NewMemoryQuoteStore()
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideStreamHub creates the WebSocket fan-out hub.
func ProvideStreamHub(l *applogger.Logger) *ws.Hub {
	return ws.NewHub(l)
}

// ProvideSimulation bootstraps the game state and builds the runner.
func ProvideSimulation(
	cfg *config.Config,
	store repository.GameStore,
	tickLog repository.TickLog,
	bus repository.BusPublisher,
	quotes repository.QuoteCache,
	hub *ws.Hub,
	m repository.Metrics,
	l *applogger.Logger,
) (*usecase.SimulationUseCase, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return usecase.NewSimulationUseCase(ctx, usecase.SimulationConfig{
		Engine: sim.Config{
			MinutesPerTick: cfg.Sim.MinutesPerTick,
			MarketOpen:     cfg.Sim.MarketOpen,
			MarketClose:    cfg.Sim.MarketClose,
			DaysPerSeason:  cfg.Sim.DaysPerSeason,
			PricePrecision: cfg.Sim.PricePrecision,
			Seed:           cfg.Sim.Seed,
		},
		TickInterval:     cfg.Sim.TickInterval,
		AutosaveInterval: cfg.Sim.AutosaveInterval,
		NewsBuffer:       cfg.Sim.NewsBuffer,
	}, store, tickLog, bus, quotes, hub, m, l)
}

// ProvideCandlesUseCase creates the candle retrieval use case.
func ProvideCandlesUseCase(s *usecase.SimulationUseCase, cfg *config.Config) *usecase.CandlesUseCase {
	return usecase.NewCandlesUseCase(s, cfg.Sim.MinutesPerTick)
}

// ProvideOrdersUseCase creates the order entry use case.
func ProvideOrdersUseCase(s *usecase.SimulationUseCase, quotes repository.QuoteCache) *usecase.OrdersUseCase {
	return usecase.NewOrdersUseCase(s, quotes)
}

// ProvideMarketHandler creates the HTTP API handler.
func ProvideMarketHandler(
	l *applogger.Logger,
	s *usecase.SimulationUseCase,
	candles *usecase.CandlesUseCase,
	orders *usecase.OrdersUseCase,
	store repository.GameStore,
) *api.MarketHandler {
	return api.NewMarketHandler(l, s, candles, orders, store)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	s *usecase.SimulationUseCase,
	handler *api.MarketHandler,
	hub *ws.Hub,
	pg *pkgpg.Client,
	ch *pkgch.Client,
	producer *pkgkafka.Producer,
	redis *pkgcache.RedisCache,
) *server.App {
	return server.New(cfg, l, s, handler, hub, pg, ch, producer, redis)
}

func splitHostPort(addr string) (string, int) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		if addr != "" {
			return addr, 6379
		}
		return "localhost", 6379
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		port = 6379
	}
	return host, port
}
