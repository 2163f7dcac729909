package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// ConfigRepo is the pgx-backed store.ConfigRepo implementation: operator
// tunables live in a flat key/value table, read with a fallback default
// when the key is absent so operators only need to insert overrides.
type ConfigRepo struct {
	db *DB
}

func NewConfigRepo(db *DB) *ConfigRepo {
	return &ConfigRepo{db: db}
}

func (r *ConfigRepo) GetEffectConfigBool(ctx context.Context, key string, def bool) (bool, error) {
	var v *bool
	err := r.db.Pool.QueryRow(ctx, `SELECT bool_value FROM effect_config WHERE key=$1`, key).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) || v == nil {
		return def, nil
	}
	if err != nil {
		return def, err
	}
	return *v, nil
}

func (r *ConfigRepo) GetEffectConfigInt(ctx context.Context, key string, def int64) (int64, error) {
	var v *int64
	err := r.db.Pool.QueryRow(ctx, `SELECT int_value FROM effect_config WHERE key=$1`, key).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) || v == nil {
		return def, nil
	}
	if err != nil {
		return def, err
	}
	return *v, nil
}

func (r *ConfigRepo) GetEffectConfigFloat(ctx context.Context, key string, def float64) (float64, error) {
	var v *float64
	err := r.db.Pool.QueryRow(ctx, `SELECT float_value FROM effect_config WHERE key=$1`, key).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) || v == nil {
		return def, nil
	}
	if err != nil {
		return def, err
	}
	return *v, nil
}
