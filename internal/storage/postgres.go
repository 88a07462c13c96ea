package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/lib/pq"
	"github.com/mselser95/futures-bot/internal/twap"
	"go.uber.org/zap"
)

// Schema creates the journal tables. It is safe to run repeatedly.
const Schema = `
CREATE TABLE IF NOT EXISTS twap_runs (
	run_id            UUID PRIMARY KEY,
	symbol            TEXT NOT NULL,
	side              TEXT NOT NULL,
	total_quantity    NUMERIC(36, 8) NOT NULL,
	executed_quantity NUMERIC(36, 8) NOT NULL,
	price             NUMERIC(36, 8) NOT NULL,
	num_chunks        INTEGER NOT NULL,
	interval_seconds  INTEGER NOT NULL,
	status            TEXT NOT NULL,
	order_ids         BIGINT[] NOT NULL,
	chunk_errors      JSONB NOT NULL,
	started_at        TIMESTAMPTZ NOT NULL,
	finished_at       TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS twap_chunks (
	run_id         UUID NOT NULL REFERENCES twap_runs (run_id),
	chunk_number   INTEGER NOT NULL,
	quantity       NUMERIC(36, 8) NOT NULL,
	offset_seconds INTEGER NOT NULL,
	status         TEXT NOT NULL,
	order_id       BIGINT,
	error          TEXT,
	PRIMARY KEY (run_id, chunk_number)
);
`

const insertRunQuery = `
	INSERT INTO twap_runs (
		run_id, symbol, side, total_quantity, executed_quantity, price,
		num_chunks, interval_seconds, status, order_ids, chunk_errors,
		started_at, finished_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
	)
`

const insertChunkQuery = `
	INSERT INTO twap_chunks (
		run_id, chunk_number, quantity, offset_seconds, status, order_id, error
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7
	)
`

// PostgresStorage implements Storage using PostgreSQL.
type PostgresStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

// PostgresConfig holds PostgreSQL configuration.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
	Logger   *zap.Logger
}

// NewPostgresStorage connects to PostgreSQL and ensures the schema exists.
func NewPostgresStorage(ctx context.Context, cfg *PostgresConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	storage, err := newPostgresStorageWithDB(ctx, db, cfg.Logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	cfg.Logger.Info("postgres-storage-connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database))

	return storage, nil
}

func newPostgresStorageWithDB(ctx context.Context, db *sql.DB, logger *zap.Logger) (*PostgresStorage, error) {
	err := db.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	_, err = db.ExecContext(ctx, Schema)
	if err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &PostgresStorage{
		db:     db,
		logger: logger,
	}, nil
}

// StoreRun inserts the run and its chunks in a single transaction.
func (p *PostgresStorage) StoreRun(ctx context.Context, res *twap.Result) error {
	chunkErrors, err := json.Marshal(chunkErrorStrings(res))
	if err != nil {
		return fmt.Errorf("marshal chunk errors: %w", err)
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	req := res.Request
	_, err = tx.ExecContext(ctx, insertRunQuery,
		res.RunID,
		req.Symbol,
		string(req.Side),
		req.TotalQuantity.StringFixed(twap.QuantityPrecision),
		res.ExecutedQuantity.StringFixed(twap.QuantityPrecision),
		req.Price.String(),
		req.NumChunks,
		req.IntervalSeconds,
		string(res.Status),
		pq.Array(res.OrderIDs),
		string(chunkErrors),
		res.StartedAt,
		res.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	records := chunkRecords(res)
	for _, rec := range records {
		_, err = tx.ExecContext(ctx, insertChunkQuery,
			res.RunID,
			rec.Number,
			rec.Quantity,
			rec.OffsetSeconds,
			rec.Status,
			nullInt64(rec.OrderID),
			nullString(rec.Error),
		)
		if err != nil {
			return fmt.Errorf("insert chunk %d: %w", rec.Number, err)
		}
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("commit run: %w", err)
	}

	p.logger.Debug("twap-run-stored",
		zap.String("run-id", res.RunID),
		zap.String("status", string(res.Status)),
		zap.Int("chunk-rows", len(records)))

	return nil
}

// Close closes the database connection.
func (p *PostgresStorage) Close() error {
	p.logger.Info("closing-postgres-storage")
	return p.db.Close()
}

func nullInt64(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: v != 0}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
