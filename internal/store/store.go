// Package store persists reference data (baseline items, correction
// factors) and respondent profiles behind a driver-agnostic interface.
package store

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/citycarbon/footprint-cli/internal/model"
)

// ErrProfileNotFound is returned when a profile id has no row.
var ErrProfileNotFound = eris.New("store: profile not found")

// BaselineSource supplies population-average reference items per domain.
// An empty result is a valid "no baseline data" outcome, not an error.
type BaselineSource interface {
	Baselines(ctx context.Context, domain model.Domain) ([]model.EmissionItem, error)
}

// FactorSource supplies named correction coefficients. A (category, key)
// miss returns (nil, nil); the caller decides fallback behavior per field.
type FactorSource interface {
	Factor(ctx context.Context, category, key string) (*model.Factor, error)
	FactorsByPrefix(ctx context.Context, category, keyPrefix string) ([]model.Factor, error)
}

// ProfileStore persists whole profiles. PutProfile overwrites.
type ProfileStore interface {
	PutProfile(ctx context.Context, p *model.Profile) error
	GetProfile(ctx context.Context, id string) (*model.Profile, error)
}

// Store bundles the read-only reference sources, profile persistence, and
// the seeding/lifecycle operations.
type Store interface {
	BaselineSource
	FactorSource
	ProfileStore

	UpsertBaselines(ctx context.Context, items []model.EmissionItem) error
	UpsertFactors(ctx context.Context, factors []model.Factor) error

	Migrate(ctx context.Context) error
	Close() error
}

// BaselineLabel returns the partition label baseline rows are stored
// under, e.g. "baseline_food".
func BaselineLabel(domain model.Domain) string {
	return fmt.Sprintf("baseline_%s", domain)
}
