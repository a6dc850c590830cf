package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/citycarbon/footprint-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS baseline_items (
	dir_domain TEXT NOT NULL,
	item       TEXT NOT NULL,
	subdomain  TEXT NOT NULL,
	type       TEXT NOT NULL,
	unit       TEXT NOT NULL,
	value      REAL NOT NULL,
	PRIMARY KEY (dir_domain, item, type)
);

CREATE TABLE IF NOT EXISTS factor_parameters (
	category TEXT NOT NULL,
	key      TEXT NOT NULL,
	value    REAL NOT NULL,
	PRIMARY KEY (category, key)
);

CREATE TABLE IF NOT EXISTS profiles (
	id         TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_baseline_items_dir_domain ON baseline_items(dir_domain);
CREATE INDEX IF NOT EXISTS idx_factor_parameters_category ON factor_parameters(category);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Baselines(ctx context.Context, domain model.Domain) ([]model.EmissionItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT item, subdomain, type, unit, value FROM baseline_items
		 WHERE dir_domain = ? ORDER BY subdomain, item, type`,
		BaselineLabel(domain),
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: query baselines %s", domain)
	}
	defer rows.Close()

	var items []model.EmissionItem
	for rows.Next() {
		it := model.EmissionItem{Domain: domain}
		if err := rows.Scan(&it.Item, &it.Subdomain, &it.Type, &it.Unit, &it.Value); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan baseline")
		}
		items = append(items, it)
	}
	return items, eris.Wrap(rows.Err(), "sqlite: baselines iterate")
}

func (s *SQLiteStore) Factor(ctx context.Context, category, key string) (*model.Factor, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT value FROM factor_parameters WHERE category = ? AND key = ?`,
		category, key,
	)

	f := model.Factor{Category: category, Key: key}
	err := row.Scan(&f.Value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get factor %s/%s", category, key)
	}
	return &f, nil
}

func (s *SQLiteStore) FactorsByPrefix(ctx context.Context, category, keyPrefix string) ([]model.Factor, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM factor_parameters
		 WHERE category = ? AND key LIKE ? || '%' ORDER BY key`,
		category, keyPrefix,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: query factors %s/%s*", category, keyPrefix)
	}
	defer rows.Close()

	var factors []model.Factor
	for rows.Next() {
		f := model.Factor{Category: category}
		if err := rows.Scan(&f.Key, &f.Value); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan factor")
		}
		factors = append(factors, f)
	}
	return factors, eris.Wrap(rows.Err(), "sqlite: factors iterate")
}

func (s *SQLiteStore) PutProfile(ctx context.Context, p *model.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal profile")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO profiles (id, data, created_at, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		p.ID, string(data), p.CreatedAt.UTC(), time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: put profile %s", p.ID)
}

func (s *SQLiteStore) GetProfile(ctx context.Context, id string) (*model.Profile, error) {
	row := s.db.QueryRowContext(ctx, `SELECT data FROM profiles WHERE id = ?`, id)

	var data string
	err := row.Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get profile %s", id)
	}

	var p model.Profile
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, eris.Wrapf(err, "sqlite: unmarshal profile %s", id)
	}
	return &p, nil
}

func (s *SQLiteStore) UpsertBaselines(ctx context.Context, items []model.EmissionItem) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin upsert baselines")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO baseline_items (dir_domain, item, subdomain, type, unit, value) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (dir_domain, item, type) DO UPDATE SET subdomain = excluded.subdomain, unit = excluded.unit, value = excluded.value`,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare upsert baselines")
	}
	defer stmt.Close()

	for _, it := range items {
		if _, err := stmt.ExecContext(ctx, BaselineLabel(it.Domain), it.Item, it.Subdomain, string(it.Type), it.Unit, it.Value); err != nil {
			return eris.Wrapf(err, "sqlite: upsert baseline %s/%s", it.Domain, it.Item)
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit upsert baselines")
}

func (s *SQLiteStore) UpsertFactors(ctx context.Context, factors []model.Factor) error {
	if len(factors) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin upsert factors")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO factor_parameters (category, key, value) VALUES (?, ?, ?)
		 ON CONFLICT (category, key) DO UPDATE SET value = excluded.value`,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare upsert factors")
	}
	defer stmt.Close()

	for _, f := range factors {
		if _, err := stmt.ExecContext(ctx, f.Category, f.Key, f.Value); err != nil {
			return eris.Wrapf(err, "sqlite: upsert factor %s/%s", f.Category, f.Key)
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit upsert factors")
}
