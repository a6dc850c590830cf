package estimator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citycarbon/footprint-cli/internal/model"
)

func otherSources(factors map[string]float64) *fakeSources {
	var baselines []model.EmissionItem
	for _, name := range otherItems {
		baselines = append(baselines,
			amountItem(model.DomainOther, name, "goods", 10),
			intensityItem(model.DomainOther, name, "goods", 1),
		)
	}
	return &fakeSources{
		baselines: map[model.Domain][]model.EmissionItem{model.DomainOther: baselines},
		factors:   factors,
	}
}

func TestEstimateOther_NilAnswer(t *testing.T) {
	src := otherSources(nil)
	e := New(src, src)

	res, err := e.EstimateOther(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Len(t, res.Baselines, len(otherItems)*2)
	assert.Empty(t, res.Estimations)
}

func TestEstimateOther_FashionScalesClothesAndAccessory(t *testing.T) {
	src := otherSources(map[string]float64{"fashion-factor/more": 1.5})
	e := New(src, src)

	res, err := e.EstimateOther(context.Background(), &model.OtherAnswer{
		FashionFactorKey: model.String("more"),
	}, nil)
	require.NoError(t, err)
	assert.Len(t, res.Estimations, 2)

	clothes := findEstimation(res.Estimations, "clothes", model.TypeAmount)
	require.NotNil(t, clothes)
	assert.InDelta(t, 15.0, clothes.Value, 1e-9)

	accessory := findEstimation(res.Estimations, "accessory", model.TypeAmount)
	require.NotNil(t, accessory)
	assert.InDelta(t, 15.0, accessory.Value, 1e-9)
}

func TestEstimateOther_SharedItemsSplitPerResident(t *testing.T) {
	src := otherSources(map[string]float64{
		"appliance-furniture-factor/more": 2,
		"service-factor/more":             2,
	})
	e := New(src, src)

	housing := &model.HousingAnswer{ResidentCount: model.Int(4)}
	res, err := e.EstimateOther(context.Background(), &model.OtherAnswer{
		ApplianceFurnitureFactorKey: model.String("more"),
		ServiceFactorKey:            model.String("more"),
	}, housing)
	require.NoError(t, err)

	// Household purchases attributed to one of four residents: 10*2/4.
	appliance := findEstimation(res.Estimations, "appliance-furniture", model.TypeAmount)
	require.NotNil(t, appliance)
	assert.InDelta(t, 5.0, appliance.Value, 1e-9)

	communication := findEstimation(res.Estimations, "communication", model.TypeAmount)
	require.NotNil(t, communication)
	assert.InDelta(t, 5.0, communication.Value, 1e-9)

	// Personal service consumption is not split.
	service := findEstimation(res.Estimations, "service", model.TypeAmount)
	require.NotNil(t, service)
	assert.InDelta(t, 20.0, service.Value, 1e-9)
}

func TestEstimateOther_NoResidentCountKeepsHouseholdValues(t *testing.T) {
	src := otherSources(map[string]float64{"appliance-furniture-factor/more": 2})
	e := New(src, src)

	res, err := e.EstimateOther(context.Background(), &model.OtherAnswer{
		ApplianceFurnitureFactorKey: model.String("more"),
	}, nil)
	require.NoError(t, err)

	appliance := findEstimation(res.Estimations, "appliance-furniture", model.TypeAmount)
	require.NotNil(t, appliance)
	assert.InDelta(t, 20.0, appliance.Value, 1e-9)
}

func TestEstimateOther_MissingFactorIsError(t *testing.T) {
	src := otherSources(nil)
	e := New(src, src)

	_, err := e.EstimateOther(context.Background(), &model.OtherAnswer{
		TravelFactorKey: model.String("never"),
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "travel-factor/never not found")
}
