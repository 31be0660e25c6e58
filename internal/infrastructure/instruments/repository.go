package instruments

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/rosasurfer/fx-history-tools/internal/domain/entity/instruments"
)

// Repository loads instrument metadata from Postgres. The metadata changes
// over time and differs across environments, so it lives in data, not code;
// the repository reads it once into a Registry.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(ctx context.Context, dsn string) (*Repository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	return &Repository{pool: pool}, nil
}

func (r *Repository) Close() {
	if r == nil || r.pool == nil {
		return
	}
	r.pool.Close()
}

// LoadRegistry reads the full metadata table into memory.
func (r *Repository) LoadRegistry(ctx context.Context) (*Registry, error) {
	const query = `
		SELECT symbol, type, point_size, digits, history_start
		FROM instruments
		ORDER BY symbol`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query instruments: %w", err)
	}
	defer rows.Close()

	var loaded []domain.Instrument
	for rows.Next() {
		var (
			instrument   domain.Instrument
			rawType      string
			historyStart *time.Time
		)
		if err := rows.Scan(&instrument.Symbol, &rawType, &instrument.PointSize, &instrument.Digits, &historyStart); err != nil {
			return nil, fmt.Errorf("scan instrument: %w", err)
		}
		instrument.Type, err = domain.NewInstrumentType(rawType)
		if err != nil {
			return nil, fmt.Errorf("instrument %s: %w", instrument.Symbol, err)
		}
		if historyStart != nil {
			instrument.HistoryStart = historyStart.UTC()
		}
		loaded = append(loaded, instrument)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read instruments: %w", err)
	}
	return NewRegistry(loaded), nil
}

// SeedDefaults upserts the built-in metadata table, so fresh environments can
// be provisioned without hand-written SQL.
func (r *Repository) SeedDefaults(ctx context.Context) error {
	batch := &pgx.Batch{}
	for _, instrument := range Seed() {
		var historyStart *time.Time
		if !instrument.HistoryStart.IsZero() {
			start := instrument.HistoryStart
			historyStart = &start
		}
		batch.Queue(`
			INSERT INTO instruments (symbol, type, point_size, digits, history_start)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (symbol) DO UPDATE
			SET type = EXCLUDED.type,
			    point_size = EXCLUDED.point_size,
			    digits = EXCLUDED.digits,
			    history_start = EXCLUDED.history_start`,
			instrument.Symbol,
			instrument.Type.String(),
			instrument.PointSize,
			instrument.Digits,
			historyStart,
		)
	}
	return execBatch(ctx, r.pool, batch)
}

func execBatch(ctx context.Context, pool *pgxpool.Pool, batch *pgx.Batch) error {
	if batch.Len() == 0 {
		return nil
	}
	results := pool.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return err
		}
	}
	return results.Close()
}
