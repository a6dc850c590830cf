package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/citycarbon/footprint-cli/internal/db"
	"github.com/citycarbon/footprint-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection.
// Factor lookups dominate: a full estimation run issues dozens per profile.
var preparedStatements = map[string]string{
	"get_factor":        `SELECT value FROM factor_parameters WHERE category = $1 AND key = $2`,
	"factors_by_prefix": `SELECT key, value FROM factor_parameters WHERE category = $1 AND key LIKE $2 || '%' ORDER BY key`,
	"get_baselines":     `SELECT item, subdomain, type, unit, value FROM baseline_items WHERE dir_domain = $1 ORDER BY subdomain, item, type`,
	"put_profile":       `INSERT INTO profiles (id, data, created_at, updated_at) VALUES ($1, $2, $3, $4) ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
	"get_profile":       `SELECT data FROM profiles WHERE id = $1`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresFromPool wraps an existing pool, used by tests with pgxmock.
func NewPostgresFromPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, closeFn: func() {}}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS baseline_items (
	dir_domain TEXT NOT NULL,
	item       TEXT NOT NULL,
	subdomain  TEXT NOT NULL,
	type       TEXT NOT NULL,
	unit       TEXT NOT NULL,
	value      DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (dir_domain, item, type)
);

CREATE TABLE IF NOT EXISTS factor_parameters (
	category TEXT NOT NULL,
	key      TEXT NOT NULL,
	value    DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (category, key)
);

CREATE TABLE IF NOT EXISTS profiles (
	id         TEXT PRIMARY KEY,
	data       JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_baseline_items_dir_domain ON baseline_items(dir_domain);
CREATE INDEX IF NOT EXISTS idx_factor_parameters_category ON factor_parameters(category);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.closeFn()
	return nil
}

func (s *PostgresStore) Baselines(ctx context.Context, domain model.Domain) ([]model.EmissionItem, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT item, subdomain, type, unit, value FROM baseline_items
		 WHERE dir_domain = $1 ORDER BY subdomain, item, type`,
		BaselineLabel(domain),
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: query baselines %s", domain)
	}
	defer rows.Close()

	var items []model.EmissionItem
	for rows.Next() {
		it := model.EmissionItem{Domain: domain}
		if err := rows.Scan(&it.Item, &it.Subdomain, &it.Type, &it.Unit, &it.Value); err != nil {
			return nil, eris.Wrap(err, "postgres: scan baseline")
		}
		items = append(items, it)
	}
	return items, eris.Wrap(rows.Err(), "postgres: baselines iterate")
}

func (s *PostgresStore) Factor(ctx context.Context, category, key string) (*model.Factor, error) {
	f := model.Factor{Category: category, Key: key}
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM factor_parameters WHERE category = $1 AND key = $2`,
		category, key,
	).Scan(&f.Value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get factor %s/%s", category, key)
	}
	return &f, nil
}

func (s *PostgresStore) FactorsByPrefix(ctx context.Context, category, keyPrefix string) ([]model.Factor, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT key, value FROM factor_parameters
		 WHERE category = $1 AND key LIKE $2 || '%' ORDER BY key`,
		category, keyPrefix,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: query factors %s/%s*", category, keyPrefix)
	}
	defer rows.Close()

	var factors []model.Factor
	for rows.Next() {
		f := model.Factor{Category: category}
		if err := rows.Scan(&f.Key, &f.Value); err != nil {
			return nil, eris.Wrap(err, "postgres: scan factor")
		}
		factors = append(factors, f)
	}
	return factors, eris.Wrap(rows.Err(), "postgres: factors iterate")
}

func (s *PostgresStore) PutProfile(ctx context.Context, p *model.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal profile")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO profiles (id, data, created_at, updated_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		p.ID, data, p.CreatedAt.UTC(), time.Now().UTC(),
	)
	return eris.Wrapf(err, "postgres: put profile %s", p.ID)
}

func (s *PostgresStore) GetProfile(ctx context.Context, id string) (*model.Profile, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM profiles WHERE id = $1`, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get profile %s", id)
	}

	var p model.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, eris.Wrapf(err, "postgres: unmarshal profile %s", id)
	}
	return &p, nil
}

func (s *PostgresStore) UpsertBaselines(ctx context.Context, items []model.EmissionItem) error {
	rows := make([][]any, 0, len(items))
	for _, it := range items {
		rows = append(rows, []any{BaselineLabel(it.Domain), it.Item, it.Subdomain, string(it.Type), it.Unit, it.Value})
	}

	_, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "baseline_items",
		Columns:      []string{"dir_domain", "item", "subdomain", "type", "unit", "value"},
		ConflictKeys: []string{"dir_domain", "item", "type"},
	}, rows)
	return eris.Wrap(err, "postgres: upsert baselines")
}

func (s *PostgresStore) UpsertFactors(ctx context.Context, factors []model.Factor) error {
	rows := make([][]any, 0, len(factors))
	for _, f := range factors {
		rows = append(rows, []any{f.Category, f.Key, f.Value})
	}

	_, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "factor_parameters",
		Columns:      []string{"category", "key", "value"},
		ConflictKeys: []string{"category", "key"},
	}, rows)
	return eris.Wrap(err, "postgres: upsert factors")
}
