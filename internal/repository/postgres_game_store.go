package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"TickForge/internal/domain/models"
	applogger "TickForge/pkg/logger"
	pkgpg "TickForge/pkg/postgres"
)

const gameSchema = `
CREATE TABLE IF NOT EXISTS market_clock (
    id            INT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
    market_day    INT NOT NULL,
    market_time   INT NOT NULL,
    season        INT NOT NULL,
    day_in_season INT NOT NULL,
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS instruments (
    ticker             TEXT PRIMARY KEY,
    name               TEXT NOT NULL,
    sector             TEXT NOT NULL,
    current_price      DOUBLE PRECISION NOT NULL,
    last_price         DOUBLE PRECISION NOT NULL,
    base_price         DOUBLE PRECISION NOT NULL,
    volatility         TEXT NOT NULL,
    gravity            DOUBLE PRECISION NOT NULL,
    trend              DOUBLE PRECISION NOT NULL,
    ath                DOUBLE PRECISION NOT NULL,
    atl                DOUBLE PRECISION NOT NULL,
    buy_qty            INT NOT NULL DEFAULT 0,
    volume             BIGINT NOT NULL,
    avg_volume         BIGINT NOT NULL,
    volume_cap         DOUBLE PRECISION NOT NULL,
    last_breakout_time BIGINT NOT NULL,
    recent_prices      JSONB NOT NULL DEFAULT '[]',
    volume_history     JSONB NOT NULL DEFAULT '[]',
    updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS candles (
    ticker   TEXT NOT NULL REFERENCES instruments(ticker) ON DELETE CASCADE,
    day      INT NOT NULL,
    time_min INT NOT NULL,
    open     DOUBLE PRECISION NOT NULL,
    high     DOUBLE PRECISION NOT NULL,
    low      DOUBLE PRECISION NOT NULL,
    close    DOUBLE PRECISION NOT NULL,
    volume   BIGINT NOT NULL,
    PRIMARY KEY (ticker, day, time_min)
);
`

// PostgresGameStore persists the full game state: clock, instruments and
// their candle logs. Candle rows are replaced wholesale on save so a
// truncated in-memory log never leaves stale rows behind.
type PostgresGameStore struct {
	db *sqlx.DB
	l  *applogger.Logger
}

// NewPostgresGameStore creates the Postgres-backed game store.
func NewPostgresGameStore(pg *pkgpg.Client) *PostgresGameStore {
	return &PostgresGameStore{db: pg.DB()}
}

// SetLogger injects a structured logger.
func (s *PostgresGameStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *PostgresGameStore) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, gameSchema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

func (s *PostgresGameStore) LoadClock(ctx context.Context) (models.ClockState, bool, error) {
	var cs models.ClockState
	err := s.db.GetContext(ctx, &cs,
		`SELECT market_day, market_time, season, day_in_season FROM market_clock WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ClockState{}, false, nil
	}
	if err != nil {
		return models.ClockState{}, false, fmt.Errorf("load clock: %w", err)
	}
	return cs, true, nil
}

type instrumentRow struct {
	models.Instrument
	RecentPricesJSON  []byte `db:"recent_prices"`
	VolumeHistoryJSON []byte `db:"volume_history"`
}

func (s *PostgresGameStore) LoadInstruments(ctx context.Context) ([]*models.Instrument, error) {
	start := time.Now()

	var rows []instrumentRow
	err := s.db.SelectContext(ctx, &rows, `
        SELECT ticker, name, sector, current_price, last_price, base_price,
               volatility, gravity, trend, ath, atl, buy_qty,
               volume, avg_volume, volume_cap, last_breakout_time,
               recent_prices, volume_history
        FROM instruments
        ORDER BY ticker`)
	if err != nil {
		return nil, fmt.Errorf("load instruments: %w", err)
	}

	out := make([]*models.Instrument, 0, len(rows))
	for i := range rows {
		inst := rows[i].Instrument
		if err := json.Unmarshal(rows[i].RecentPricesJSON, &inst.RecentPrices); err != nil {
			return nil, fmt.Errorf("instrument %s: decode recent_prices: %w", inst.Ticker, err)
		}
		if err := json.Unmarshal(rows[i].VolumeHistoryJSON, &inst.VolumeHistory); err != nil {
			return nil, fmt.Errorf("instrument %s: decode volume_history: %w", inst.Ticker, err)
		}

		if err := s.loadCandles(ctx, &inst); err != nil {
			return nil, err
		}
		out = append(out, &inst)
	}

	if s.l != nil {
		s.l.Info("postgres load_instruments ok",
			applogger.Int("instruments", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *PostgresGameStore) loadCandles(ctx context.Context, inst *models.Instrument) error {
	rows, err := s.db.QueryxContext(ctx, `
        SELECT day, time_min, open, high, low, close, volume
        FROM candles
        WHERE ticker = $1
        ORDER BY day ASC, time_min ASC`, inst.Ticker)
	if err != nil {
		return fmt.Errorf("instrument %s: load candles: %w", inst.Ticker, err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.Candle
		if err := rows.Scan(&c.Day, &c.Time, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return fmt.Errorf("instrument %s: scan candle: %w", inst.Ticker, err)
		}
		inst.DayHistory = append(inst.DayHistory, c)
	}
	return rows.Err()
}

// SaveState writes the clock, every instrument row and every candle log in
// one transaction. Candles are delete-then-insert per ticker so the table
// mirrors the bounded in-memory log exactly.
func (s *PostgresGameStore) SaveState(ctx context.Context, clock models.ClockState, instruments []*models.Instrument) error {
	start := time.Now()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save state: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
        INSERT INTO market_clock (id, market_day, market_time, season, day_in_season, updated_at)
        VALUES (1, $1, $2, $3, $4, now())
        ON CONFLICT (id) DO UPDATE SET
            market_day = EXCLUDED.market_day,
            market_time = EXCLUDED.market_time,
            season = EXCLUDED.season,
            day_in_season = EXCLUDED.day_in_season,
            updated_at = now()`,
		clock.Day, clock.MarketTime, clock.Season, clock.DayInSeason)
	if err != nil {
		return fmt.Errorf("save clock: %w", err)
	}

	for _, inst := range instruments {
		if err := saveInstrumentTx(ctx, tx, inst); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save state: commit: %w", err)
	}

	if s.l != nil {
		s.l.Info("postgres save_state ok",
			applogger.Int("instruments", len(instruments)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

func saveInstrumentTx(ctx context.Context, tx *sqlx.Tx, inst *models.Instrument) error {
	prices, err := json.Marshal(inst.RecentPrices)
	if err != nil {
		return fmt.Errorf("instrument %s: encode recent_prices: %w", inst.Ticker, err)
	}
	volumes, err := json.Marshal(inst.VolumeHistory)
	if err != nil {
		return fmt.Errorf("instrument %s: encode volume_history: %w", inst.Ticker, err)
	}

	_, err = tx.ExecContext(ctx, `
        INSERT INTO instruments (
            ticker, name, sector, current_price, last_price, base_price,
            volatility, gravity, trend, ath, atl, buy_qty,
            volume, avg_volume, volume_cap, last_breakout_time,
            recent_prices, volume_history, updated_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
            $13, $14, $15, $16, $17, $18, now()
        )
        ON CONFLICT (ticker) DO UPDATE SET
            name = EXCLUDED.name,
            sector = EXCLUDED.sector,
            current_price = EXCLUDED.current_price,
            last_price = EXCLUDED.last_price,
            base_price = EXCLUDED.base_price,
            volatility = EXCLUDED.volatility,
            gravity = EXCLUDED.gravity,
            trend = EXCLUDED.trend,
            ath = EXCLUDED.ath,
            atl = EXCLUDED.atl,
            buy_qty = EXCLUDED.buy_qty,
            volume = EXCLUDED.volume,
            avg_volume = EXCLUDED.avg_volume,
            volume_cap = EXCLUDED.volume_cap,
            last_breakout_time = EXCLUDED.last_breakout_time,
            recent_prices = EXCLUDED.recent_prices,
            volume_history = EXCLUDED.volume_history,
            updated_at = now()`,
		inst.Ticker, inst.Name, inst.Sector, inst.CurrentPrice, inst.LastPrice, inst.BasePrice,
		string(inst.Volatility), inst.Gravity, inst.Trend, inst.ATH, inst.ATL, inst.BuyQty,
		inst.Volume, inst.AvgVolume, inst.VolumeCap, inst.LastBreakoutTime,
		prices, volumes)
	if err != nil {
		return fmt.Errorf("instrument %s: upsert: %w", inst.Ticker, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM candles WHERE ticker = $1`, inst.Ticker); err != nil {
		return fmt.Errorf("instrument %s: clear candles: %w", inst.Ticker, err)
	}

	if len(inst.DayHistory) == 0 {
		return nil
	}

	// Multi-row VALUES insert, chunked to stay under the parameter limit.
	const chunkSize = 500
	for startIdx := 0; startIdx < len(inst.DayHistory); startIdx += chunkSize {
		end := startIdx + chunkSize
		if end > len(inst.DayHistory) {
			end = len(inst.DayHistory)
		}

		q := `INSERT INTO candles (ticker, day, time_min, open, high, low, close, volume) VALUES `
		args := make([]interface{}, 0, (end-startIdx)*8)
		for i, c := range inst.DayHistory[startIdx:end] {
			if i > 0 {
				q += ","
			}
			base := i * 8
			q += fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8)
			args = append(args, inst.Ticker, c.Day, c.Time, c.Open, c.High, c.Low, c.Close, c.Volume)
		}
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("instrument %s: insert candles: %w", inst.Ticker, err)
		}
	}
	return nil
}

// SeedUniverse inserts the starting instrument set. Existing tickers are
// left untouched so a restart never clobbers live state.
func (s *PostgresGameStore) SeedUniverse(ctx context.Context, instruments []*models.Instrument) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed universe: begin: %w", err)
	}
	defer tx.Rollback()

	for _, inst := range instruments {
		prices, err := json.Marshal(inst.RecentPrices)
		if err != nil {
			return fmt.Errorf("instrument %s: encode recent_prices: %w", inst.Ticker, err)
		}
		volumes, err := json.Marshal(inst.VolumeHistory)
		if err != nil {
			return fmt.Errorf("instrument %s: encode volume_history: %w", inst.Ticker, err)
		}
		_, err = tx.ExecContext(ctx, `
            INSERT INTO instruments (
                ticker, name, sector, current_price, last_price, base_price,
                volatility, gravity, trend, ath, atl, buy_qty,
                volume, avg_volume, volume_cap, last_breakout_time,
                recent_prices, volume_history
            ) VALUES (
                $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
                $13, $14, $15, $16, $17, $18
            )
            ON CONFLICT (ticker) DO NOTHING`,
			inst.Ticker, inst.Name, inst.Sector, inst.CurrentPrice, inst.LastPrice, inst.BasePrice,
			string(inst.Volatility), inst.Gravity, inst.Trend, inst.ATH, inst.ATL, inst.BuyQty,
			inst.Volume, inst.AvgVolume, inst.VolumeCap, inst.LastBreakoutTime,
			prices, volumes)
		if err != nil {
			return fmt.Errorf("instrument %s: seed: %w", inst.Ticker, err)
		}
	}

	return tx.Commit()
}

func (s *PostgresGameStore) CountInstruments(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM instruments`); err != nil {
		return 0, fmt.Errorf("count instruments: %w", err)
	}
	return n, nil
}

func (s *PostgresGameStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresGameStore) Close() error {
	return nil // pool managed by pkg/postgres
}
