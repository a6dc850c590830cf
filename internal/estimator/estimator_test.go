package estimator

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/citycarbon/footprint-cli/internal/model"
)

// fakeSources serves baselines and factors from maps; factor keys are
// "category/key".
type fakeSources struct {
	baselines map[model.Domain][]model.EmissionItem
	factors   map[string]float64
}

func (f *fakeSources) Baselines(_ context.Context, domain model.Domain) ([]model.EmissionItem, error) {
	return f.baselines[domain], nil
}

func (f *fakeSources) Factor(_ context.Context, category, key string) (*model.Factor, error) {
	v, ok := f.factors[category+"/"+key]
	if !ok {
		return nil, nil
	}
	return &model.Factor{Category: category, Key: key, Value: v}, nil
}

func (f *fakeSources) FactorsByPrefix(_ context.Context, category, keyPrefix string) ([]model.Factor, error) {
	var out []model.Factor
	for k, v := range f.factors {
		cat, key, ok := strings.Cut(k, "/")
		if !ok || cat != category || !strings.HasPrefix(key, keyPrefix) {
			continue
		}
		out = append(out, model.Factor{Category: category, Key: key, Value: v})
	}
	return out, nil
}

func amountItem(domain model.Domain, item, subdomain string, value float64) model.EmissionItem {
	return model.EmissionItem{
		Domain: domain, Item: item, Subdomain: subdomain,
		Type: model.TypeAmount, Unit: "kg", Value: value,
	}
}

func intensityItem(domain model.Domain, item, subdomain string, value float64) model.EmissionItem {
	return model.EmissionItem{
		Domain: domain, Item: item, Subdomain: subdomain,
		Type: model.TypeIntensity, Unit: "kgCO2e/kg", Value: value,
	}
}

// findEstimation returns the estimation for (item, type) or nil.
func findEstimation(estimations []model.EmissionItem, item string, typ model.ItemType) *model.EmissionItem {
	for i := range estimations {
		if estimations[i].Item == item && estimations[i].Type == typ {
			return &estimations[i]
		}
	}
	return nil
}

func TestWorkingSetPushOrUpdateReplacesInPlace(t *testing.T) {
	baselines := []model.EmissionItem{
		amountItem(model.DomainFood, "rice", "food", 10),
	}
	ws := newWorkingSet(model.DomainFood, baselines, []string{"rice"})

	ws.setAmount("rice", 20)
	ws.pushOrUpdate("rice")
	ws.setAmount("rice", 30)
	ws.pushOrUpdate("rice")

	assert.Len(t, ws.estimations, 1)
	assert.Equal(t, 30.0, ws.estimations[0].Value)
}

func TestWorkingSetMissingBaselineDegradesToZero(t *testing.T) {
	ws := newWorkingSet(model.DomainFood, nil, []string{"rice"})

	assert.Equal(t, 0.0, ws.amount("rice"))
	ws.scaleAmount("rice", 5)
	ws.push("rice")

	assert.Len(t, ws.estimations, 1)
	assert.Equal(t, 0.0, ws.estimations[0].Value)
	assert.Equal(t, "rice", ws.estimations[0].Item)
	assert.Equal(t, model.TypeAmount, ws.estimations[0].Type)
}

func TestRequireFactorMissing(t *testing.T) {
	e := New(&fakeSources{}, &fakeSources{})

	_, err := e.requireFactor(context.Background(), "dish-beef-factor", "nope")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "dish-beef-factor/nope not found")
}

func TestFactorOrFallback(t *testing.T) {
	src := &fakeSources{factors: map[string]float64{"car-charging/known": 0.5}}
	e := New(src, src)

	v, err := e.factorOr(context.Background(), "car-charging", "known", 1)
	assert.NoError(t, err)
	assert.Equal(t, 0.5, v)

	v, err = e.factorOr(context.Background(), "car-charging", "missing", 1)
	assert.NoError(t, err)
	assert.Equal(t, 1.0, v)
}
