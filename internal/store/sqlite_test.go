package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citycarbon/footprint-cli/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestSQLiteBaselines(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	items := []model.EmissionItem{
		{Domain: model.DomainFood, Item: "rice", Subdomain: "staples", Type: model.TypeAmount, Unit: "kg", Value: 8},
		{Domain: model.DomainFood, Item: "rice", Subdomain: "staples", Type: model.TypeIntensity, Unit: "kgCO2e/kg", Value: 2},
		{Domain: model.DomainFood, Item: "restaurant", Subdomain: "eat-out", Type: model.TypeAmount, Unit: "kg", Value: 4},
		{Domain: model.DomainHousing, Item: "rent", Subdomain: "residence", Type: model.TypeAmount, Unit: "m2", Value: 20},
	}
	require.NoError(t, st.UpsertBaselines(ctx, items))

	got, err := st.Baselines(ctx, model.DomainFood)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Ordered by subdomain, item, type; domain filter keeps housing out.
	assert.Equal(t, "restaurant", got[0].Item)
	assert.Equal(t, "rice", got[1].Item)
	assert.Equal(t, model.TypeAmount, got[1].Type)
	assert.Equal(t, model.TypeIntensity, got[2].Type)
	for _, it := range got {
		assert.Equal(t, model.DomainFood, it.Domain)
	}

	empty, err := st.Baselines(ctx, model.DomainMobility)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSQLiteUpsertBaselinesOverwrites(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	first := []model.EmissionItem{
		{Domain: model.DomainFood, Item: "rice", Subdomain: "staples", Type: model.TypeAmount, Unit: "kg", Value: 8},
	}
	require.NoError(t, st.UpsertBaselines(ctx, first))

	second := []model.EmissionItem{
		{Domain: model.DomainFood, Item: "rice", Subdomain: "staples", Type: model.TypeAmount, Unit: "kg", Value: 12},
	}
	require.NoError(t, st.UpsertBaselines(ctx, second))

	got, err := st.Baselines(ctx, model.DomainFood)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 12.0, got[0].Value)
}

func TestSQLiteFactor(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.UpsertFactors(ctx, []model.Factor{
		{Category: "housing-size", Key: "2-room", Value: 20},
	}))

	f, err := st.Factor(ctx, "housing-size", "2-room")
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, 20.0, f.Value)
	assert.Equal(t, "housing-size", f.Category)

	// A miss is (nil, nil), not an error.
	f, err = st.Factor(ctx, "housing-size", "9-room")
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestSQLiteFactorsByPrefix(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.UpsertFactors(ctx, []model.Factor{
		{Category: "mileage-by-area", Key: "city_train-amount", Value: 5000},
		{Category: "mileage-by-area", Key: "city_bus-amount", Value: 800},
		{Category: "mileage-by-area", Key: "rural_train-amount", Value: 9000},
		{Category: "housing-size", Key: "city_whatever", Value: 1},
	}))

	got, err := st.FactorsByPrefix(ctx, "mileage-by-area", "city_")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "city_bus-amount", got[0].Key)
	assert.Equal(t, "city_train-amount", got[1].Key)
}

func TestSQLiteProfileRoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	p := &model.Profile{
		ID:        "p-1",
		Estimated: true,
		HousingAnswer: &model.HousingAnswer{
			ResidentCount: model.Int(2),
		},
		Baselines: []model.EmissionItem{
			{Domain: model.DomainFood, Item: "rice", Subdomain: "staples", Type: model.TypeAmount, Unit: "kg", Value: 8},
		},
		Estimations: []model.EmissionItem{},
		CreatedAt:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, st.PutProfile(ctx, p))

	got, err := st.GetProfile(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.True(t, got.Estimated)
	require.NotNil(t, got.HousingAnswer)
	assert.Equal(t, 2, *got.HousingAnswer.ResidentCount)
	require.Len(t, got.Baselines, 1)
	assert.Equal(t, 8.0, got.Baselines[0].Value)
	assert.Nil(t, got.FoodAnswer)
}

func TestSQLitePutProfileOverwrites(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	p := &model.Profile{ID: "p-1", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, st.PutProfile(ctx, p))

	p.Estimated = true
	require.NoError(t, st.PutProfile(ctx, p))

	got, err := st.GetProfile(ctx, "p-1")
	require.NoError(t, err)
	assert.True(t, got.Estimated)
}

func TestSQLiteGetProfileNotFound(t *testing.T) {
	st := newTestStore(t)

	_, err := st.GetProfile(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestBaselineLabel(t *testing.T) {
	assert.Equal(t, "baseline_food", BaselineLabel(model.DomainFood))
	assert.Equal(t, "baseline_mobility", BaselineLabel(model.DomainMobility))
	assert.Equal(t, "baseline_housing", BaselineLabel(model.DomainHousing))
	assert.Equal(t, "baseline_other", BaselineLabel(model.DomainOther))
}
