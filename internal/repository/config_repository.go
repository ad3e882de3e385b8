package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ConfigRepository persists named settings such as the ticket intake and
// staff broadcast locations. Values are opaque to the core.
type ConfigRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

type configRepository struct {
	pool *pgxpool.Pool
}

// NewConfigRepository instantiates repository.
func NewConfigRepository(pool *pgxpool.Pool) ConfigRepository {
	return &configRepository{pool: pool}
}

func (r *configRepository) Get(ctx context.Context, key string) (string, error) {
	const query = `SELECT value FROM app_configs WHERE key=$1`
	var value string
	if err := r.pool.QueryRow(ctx, query, key).Scan(&value); err != nil {
		return "", translateGet("get config", err)
	}
	return value, nil
}

func (r *configRepository) Set(ctx context.Context, key, value string) error {
	const query = `
        INSERT INTO app_configs (key, value) VALUES ($1, $2)
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`
	if _, err := r.pool.Exec(ctx, query, key, value); err != nil {
		return storeErr("set config", err)
	}
	return nil
}
