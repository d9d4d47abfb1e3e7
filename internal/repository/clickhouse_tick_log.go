package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"TickForge/internal/domain/models"
	pkgch "TickForge/pkg/clickhouse"
	applogger "TickForge/pkg/logger"
)

// TickLogSchema creates the analytics database and tick table (idempotent).
var TickLogSchema = []string{
	`CREATE DATABASE IF NOT EXISTS tickforge`,
	`CREATE TABLE IF NOT EXISTS tickforge.sim_ticks (
        ts         DateTime,
        ticker     LowCardinality(String),
        price      Float64,
        change     Float64,
        volume     Int64,
        market_day Int32,
        market_min Int32
    ) ENGINE = MergeTree()
    PARTITION BY toYYYYMM(ts)
    ORDER BY (ticker, ts)
    TTL ts + INTERVAL 90 DAY`,
}

// CHTickLog appends tick snapshots to ClickHouse for offline analysis.
type CHTickLog struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHTickLog(ch *pkgch.Client) *CHTickLog {
	return &CHTickLog{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHTickLog) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHTickLog) AppendTicks(ctx context.Context, ts time.Time, quotes []models.Quote) error {
	if len(quotes) == 0 {
		return nil
	}
	start := time.Now()

	values := make([]string, 0, len(quotes))
	args := make([]interface{}, 0, len(quotes)*7)
	for _, q := range quotes {
		values = append(values, "(?, ?, ?, ?, ?, ?, ?)")
		args = append(args, ts, q.Ticker, q.Price, q.Change, q.Volume, q.Day, q.Time)
	}

	query := "INSERT INTO tickforge.sim_ticks (ts, ticker, price, change, volume, market_day, market_min) VALUES " +
		strings.Join(values, ",")
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse append_ticks error",
				applogger.Int("rows", len(quotes)),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("append ticks: %w", err)
	}

	if s.l != nil {
		s.l.Debug("clickhouse append_ticks ok",
			applogger.Int("rows", len(quotes)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

func (s *CHTickLog) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHTickLog) Close() error {
	return nil // pool managed by pkg/clickhouse
}
