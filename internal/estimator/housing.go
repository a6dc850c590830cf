package estimator

import (
	"context"

	"go.uber.org/zap"

	"github.com/citycarbon/footprint-cli/internal/model"
)

// housingItems in working-set order; the region block re-pushes them in
// exactly this order.
var housingItems = []string{
	"imputed-rent", "rent", "housing-maintenance", "electricity",
	"urban-gas", "lpg", "kerosene",
}

// EstimateHousing adjusts the housing baselines for one respondent. The
// mobility answer set is read (never written) to net out electricity
// already attributed to charging a private plug-in or electric vehicle.
func (e *Engine) EstimateHousing(ctx context.Context, answer *model.HousingAnswer, mobility *model.MobilityAnswer) (*Result, error) {
	baselines, err := e.baselines.Baselines(ctx, model.DomainHousing)
	if err != nil {
		return nil, err
	}

	res := &Result{Baselines: baselines, Estimations: []model.EmissionItem{}}
	if len(baselines) == 0 {
		return res, nil
	}
	if answer == nil {
		return res, nil
	}
	if answer.ResidentCount == nil || *answer.ResidentCount <= 0 {
		return res, nil
	}
	residentCount := float64(*answer.ResidentCount)

	ws := newWorkingSet(model.DomainHousing, baselines, housingItems)

	// Region overwrites the per-resident amounts wholesale with regional
	// absolute figures; a missing record keeps the working value, but all
	// items are pushed regardless.
	if answer.HousingAmountByRegionFirstKey != nil {
		prefix := *answer.HousingAmountByRegionFirstKey + "_"
		regional, err := e.factors.FactorsByPrefix(ctx, "housing-amount-by-region", prefix)
		if err != nil {
			return nil, err
		}
		byKey := make(map[string]float64, len(regional))
		for _, f := range regional {
			byKey[f.Key] = f.Value
		}
		for _, item := range housingItems {
			if v, ok := byKey[prefix+item+"-amount"]; ok {
				ws.setAmount(item, v)
			}
			ws.push(item)
		}
	}

	// Housing size redistributes the imputed-rent + rent total derived
	// from floor space per resident, keeping their baseline proportion,
	// and scales maintenance with the new rent total.
	if answer.HousingSizeKey != nil {
		size, err := e.requireFactor(ctx, "housing-size", *answer.HousingSizeKey)
		if err != nil {
			return nil, err
		}
		sizePerResident := size
		if *answer.HousingSizeKey != "unknown" {
			sizePerResident = size / residentCount
		}

		imputedRentBase := ws.baselineAmount("imputed-rent")
		rentBase := ws.baselineAmount("rent")
		rentTotalBase := imputedRentBase + rentBase

		ws.setAmount("imputed-rent", sizePerResident/rentTotalBase*imputedRentBase)
		ws.setAmount("rent", sizePerResident/rentTotalBase*rentBase)
		ws.setAmount("housing-maintenance",
			ws.baselineAmount("housing-maintenance")/rentTotalBase*(ws.amount("imputed-rent")+ws.amount("rent")))

		ws.pushOrUpdate("imputed-rent")
		ws.pushOrUpdate("rent")
		ws.pushOrUpdate("housing-maintenance")
	}

	// Renewable or grid-specific electricity: the looked-up coefficient
	// replaces the baseline intensity outright.
	if answer.ElectricityIntensityKey != nil {
		intensityValue, err := e.requireFactor(ctx, "electricity-intensity", *answer.ElectricityIntensityKey)
		if err != nil {
			return nil, err
		}
		electricityIntensity := ws.cloneIntensity("electricity")
		electricityIntensity.Value = intensityValue
		ws.pushItem(electricityIntensity)
	}

	if answer.ElectricityMonthlyConsumption != nil && answer.ElectricitySeasonFactorKey != nil {
		season, err := e.requireFactor(ctx, "electricity-season-factor", *answer.ElectricitySeasonFactorKey)
		if err != nil {
			return nil, err
		}

		mobilityElectricity, err := e.mobilityElectricityAmount(ctx, mobility)
		if err != nil {
			return nil, err
		}

		ws.setAmount("electricity",
			*answer.ElectricityMonthlyConsumption*season/residentCount-mobilityElectricity)
		ws.pushOrUpdate("electricity")
	}

	if boolVal(answer.UseGas) {
		var gasAmount *float64
		if answer.GasMonthlyConsumption != nil && answer.GasSeasonFactorKey != nil {
			season, err := e.factorOr(ctx, "gas-season-factor", *answer.GasSeasonFactorKey, 1)
			if err != nil {
				return nil, err
			}
			heat, err := e.factorOr(ctx, "energy-heat-intensity", strOr(answer.EnergyHeatIntensityKey, ""), 1)
			if err != nil {
				return nil, err
			}
			v := *answer.GasMonthlyConsumption * season * heat / residentCount
			gasAmount = &v
		}
		switch strOr(answer.EnergyHeatIntensityKey, "") {
		case "lpg":
			if gasAmount != nil {
				ws.setAmount("lpg", *gasAmount)
			}
			ws.setAmount("urban-gas", 0)
		case "urban-gas":
			if gasAmount != nil {
				ws.setAmount("urban-gas", *gasAmount)
			}
			ws.setAmount("lpg", 0)
		}
		ws.pushOrUpdate("urban-gas")
		ws.pushOrUpdate("lpg")
	} else if answer.UseGas != nil {
		ws.setAmount("urban-gas", 0)
		ws.setAmount("lpg", 0)
		ws.pushOrUpdate("urban-gas")
		ws.pushOrUpdate("lpg")
	}

	if boolVal(answer.UseKerosene) {
		if answer.KeroseneMonthlyConsumption != nil && answer.KeroseneMonthCount != nil {
			kerosene, err := e.factorOr(ctx, "energy-heat-intensity", "kerosene", 1)
			if err != nil {
				return nil, err
			}
			ws.setAmount("kerosene",
				kerosene*(*answer.KeroseneMonthlyConsumption**answer.KeroseneMonthCount)/residentCount)
		}
		ws.pushOrUpdate("kerosene")
	} else if answer.UseKerosene != nil {
		ws.setAmount("kerosene", 0)
		ws.pushOrUpdate("kerosene")
	}

	res.Estimations = ws.estimations
	zap.L().Debug("estimator: housing estimated",
		zap.Int("baselines", len(res.Baselines)),
		zap.Int("estimations", len(res.Estimations)),
	)
	return res, nil
}

// mobilityElectricityAmount returns the annual electricity already
// attributed to charging a private plug-in or electric vehicle, so the
// housing electricity amount does not double-count it. Coefficients
// default to 1 on a lookup miss.
func (e *Engine) mobilityElectricityAmount(ctx context.Context, mobility *model.MobilityAnswer) (float64, error) {
	if mobility == nil || !boolVal(mobility.HasPrivateCar) {
		return 0, nil
	}
	carKey := strOr(mobility.CarIntensityFactorFirstKey, "")
	if carKey != "phv" && carKey != "ev" {
		return 0, nil
	}
	if mobility.PrivateCarAnnualMileage == nil || mobility.CarChargingKey == nil {
		return 0, nil
	}

	intensity, err := e.factorOr(ctx, "car-intensity-factor", carKey+"_electricity-intensity", 1)
	if err != nil {
		return 0, err
	}
	charging, err := e.factorOr(ctx, "car-charging", *mobility.CarChargingKey, 1)
	if err != nil {
		return 0, err
	}
	return *mobility.PrivateCarAnnualMileage * intensity * charging, nil
}
