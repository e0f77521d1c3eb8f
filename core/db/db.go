package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"sawmill.app/ledger/core/db/sqlc"
)

const (
	defaultMaxConns = 10
	defaultMinConns = 2
)

// DB is the Postgres pool behind the ledger stores: suppliers, batches, runs, orders,
// deliveries, payments, intake messages and oracle evals.
type DB struct {
	pool *pgxpool.Pool
}

type Config struct {
	// DSN comes from DATABASE_URL.
	DSN string

	// MaxConns bounds concurrent webhook inserts in the server and ledger transactions in the worker.
	MaxConns int32
	MinConns int32
}

// New opens the pool and fails unless the database answers a ping.
func New(ctx context.Context, cfg Config) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing DATABASE_URL: %w", err)
	}

	poolCfg.MaxConns = defaultMaxConns
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	poolCfg.MinConns = defaultMinConns
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if poolCfg.MinConns > poolCfg.MaxConns {
		poolCfg.MinConns = poolCfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("opening ledger pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging ledger database: %w", err)
	}

	return &DB{pool: pool}, nil
}

func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

func (db *DB) Close() {
	db.pool.Close()
}

// Queries runs each statement on its own pooled connection.
func (db *DB) Queries() *sqlc.Queries {
	return sqlc.New(db.pool)
}

// WithTx runs fn in one transaction and commits when fn returns nil. The worker uses it to
// claim an intake message, write the event and mark the message processed together.
//
//	err := db.WithTx(ctx, func(q *sqlc.Queries) error {
//		supplier, err := q.UpsertSupplier(ctx, sqlc.UpsertSupplierParams{Name: name, Slug: key})
//		if err != nil {
//			return err
//		}
//		_, err = q.CreateStockBatch(ctx, sqlc.CreateStockBatchParams{SupplierID: supplier.ID, ...})
//		return err
//	})
func (db *DB) WithTx(ctx context.Context, fn func(q *sqlc.Queries) error) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	// Rollback after Commit is a no-op.
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(sqlc.New(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
