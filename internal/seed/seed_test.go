package seed

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citycarbon/footprint-cli/internal/model"
	"github.com/citycarbon/footprint-cli/internal/store"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestBaselinesRoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	csv := strings.NewReader(
		"domain,item,subdomain,type,unit,value\n" +
			"food,rice,staples,amount,kg,8\n" +
			"food,rice,staples,intensity,kgCO2e/kg,2\n" +
			"housing,rent,residence,amount,m2,20\n")

	n, err := Baselines(ctx, st, csv)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	got, err := st.Baselines(ctx, model.DomainFood)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "rice", got[0].Item)
	assert.Equal(t, model.TypeAmount, got[0].Type)
	assert.Equal(t, 8.0, got[0].Value)
	assert.Equal(t, "kgCO2e/kg", got[1].Unit)
}

func TestBaselinesRejectsUnknownDomain(t *testing.T) {
	st := newTestStore(t)

	csv := strings.NewReader(
		"domain,item,subdomain,type,unit,value\n" +
			"office,printer,stuff,amount,kg,1\n")

	_, err := Baselines(context.Background(), st, csv)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown domain "office"`)
}

func TestBaselinesRejectsUnknownType(t *testing.T) {
	st := newTestStore(t)

	csv := strings.NewReader(
		"domain,item,subdomain,type,unit,value\n" +
			"food,rice,staples,velocity,kg,1\n")

	_, err := Baselines(context.Background(), st, csv)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown item type "velocity"`)
}

func TestFactorsRoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	csv := strings.NewReader(
		"category,key,value\n" +
			"housing-size,2-room,20\n" +
			"mileage-by-area,city_train-amount,5000\n")

	n, err := Factors(ctx, st, csv)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	f, err := st.Factor(ctx, "housing-size", "2-room")
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, 20.0, f.Value)

	byPrefix, err := st.FactorsByPrefix(ctx, "mileage-by-area", "city_")
	require.NoError(t, err)
	require.Len(t, byPrefix, 1)
	assert.Equal(t, 5000.0, byPrefix[0].Value)
}

func TestFactorsReseedOverwrites(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	_, err := Factors(ctx, st, strings.NewReader("category,key,value\nhousing-size,2-room,20\n"))
	require.NoError(t, err)

	_, err = Factors(ctx, st, strings.NewReader("category,key,value\nhousing-size,2-room,25\n"))
	require.NoError(t, err)

	f, err := st.Factor(ctx, "housing-size", "2-room")
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, 25.0, f.Value)
}
