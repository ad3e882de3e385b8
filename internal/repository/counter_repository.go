package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CounterRepository persists named monotonic counters.
type CounterRepository interface {
	// Increment atomically bumps the counter and returns the new value.
	// Two concurrent calls never observe the same value.
	Increment(ctx context.Context, name string) (int64, error)
	Get(ctx context.Context, name string) (int64, error)
	// Seed creates the counter at the given value only when it is absent.
	Seed(ctx context.Context, name string, value int64) error
}

type counterRepository struct {
	pool *pgxpool.Pool
}

// NewCounterRepository instantiates repository.
func NewCounterRepository(pool *pgxpool.Pool) CounterRepository {
	return &counterRepository{pool: pool}
}

func (r *counterRepository) Increment(ctx context.Context, name string) (int64, error) {
	const query = `
        INSERT INTO counters (name, value) VALUES ($1, 1)
        ON CONFLICT (name) DO UPDATE SET value = counters.value + 1, updated_at = NOW()
        RETURNING value`
	var value int64
	if err := r.pool.QueryRow(ctx, query, name).Scan(&value); err != nil {
		return 0, storeErr("increment counter", err)
	}
	return value, nil
}

func (r *counterRepository) Get(ctx context.Context, name string) (int64, error) {
	const query = `SELECT value FROM counters WHERE name=$1`
	var value int64
	if err := r.pool.QueryRow(ctx, query, name).Scan(&value); err != nil {
		return 0, translateGet("get counter", err)
	}
	return value, nil
}

func (r *counterRepository) Seed(ctx context.Context, name string, value int64) error {
	const query = `
        INSERT INTO counters (name, value) VALUES ($1, $2)
        ON CONFLICT (name) DO NOTHING`
	if _, err := r.pool.Exec(ctx, query, name, value); err != nil {
		return storeErr("seed counter", err)
	}
	return nil
}
