package estimator

import (
	"context"

	"go.uber.org/zap"

	"github.com/citycarbon/footprint-cli/internal/model"
)

var mobilityItems = []string{
	"private-car-driving", "train", "bus", "motorbike-driving",
	"taxi", "airplane", "ferry",
}

// mileageByAreaItems is the fixed set the residential-area block
// overwrites wholesale with regional mileage figures.
var mileageByAreaItems = []string{"airplane", "train", "bus", "ferry", "taxi"}

// weeksPerYear converts weekly traveling time to an annual figure,
// excluding long-vacation weeks covered by the annual questions.
const weeksPerYear = 49

// EstimateMobility adjusts the mobility baselines for one respondent.
func (e *Engine) EstimateMobility(ctx context.Context, answer *model.MobilityAnswer) (*Result, error) {
	baselines, err := e.baselines.Baselines(ctx, model.DomainMobility)
	if err != nil {
		return nil, err
	}

	res := &Result{Baselines: baselines, Estimations: []model.EmissionItem{}}
	if answer == nil {
		return res, nil
	}

	ws := newWorkingSet(model.DomainMobility, baselines, mobilityItems)

	// Private car: annual mileage split across the usual passenger count,
	// with the driving intensity corrected for the car class.
	if boolVal(answer.HasPrivateCar) && answer.PrivateCarAnnualMileage != nil {
		passengerKey := strOr(answer.CarPassengersFirstKey, "unknown") + "_private-car-factor"
		passengers, err := e.factorOr(ctx, "car-passengers", passengerKey, 1)
		if err != nil {
			return nil, err
		}
		ws.setAmount("private-car-driving", *answer.PrivateCarAnnualMileage*passengers)
		ws.pushOrUpdate("private-car-driving")

		if answer.CarIntensityFactorFirstKey != nil {
			carKey := *answer.CarIntensityFactorFirstKey
			driving, err := e.factorOr(ctx, "car-intensity-factor", carKey+"_driving-factor", 1)
			if err != nil {
				return nil, err
			}
			intensity := ws.cloneIntensity("private-car-driving")
			intensity.Value *= driving

			if (carKey == "phv" || carKey == "ev") && answer.CarChargingKey != nil {
				charging, err := e.factorOr(ctx, "car-charging", *answer.CarChargingKey, 1)
				if err != nil {
					return nil, err
				}
				intensity.Value *= charging
			}
			ws.pushItem(intensity)
		}
	}

	switch {
	case boolVal(answer.HasTravelingTime):
		// Reported traveling times override the baselines; a field left
		// empty counts as zero travel inside this block.
		weekly := []struct {
			item string
			time *float64
		}{
			{"train", answer.TrainWeeklyTravelingTime},
			{"bus", answer.BusWeeklyTravelingTime},
			{"motorbike-driving", answer.MotorbikeWeeklyTravelingTime},
		}
		for _, w := range weekly {
			speed, err := e.factors.Factor(ctx, "transportation-speed", w.item+"-speed")
			if err != nil {
				return nil, err
			}
			if speed == nil {
				continue
			}
			ws.setAmount(w.item, floatVal(w.time)*speed.Value*weeksPerYear)
			ws.pushOrUpdate(w.item)
		}

		annual := []struct {
			item string
			time *float64
		}{
			{"taxi", answer.OtherCarAnnualTravelingTime},
			{"airplane", answer.AirplaneAnnualTravelingTime},
			{"ferry", answer.FerryAnnualTravelingTime},
		}
		for _, a := range annual {
			speed, err := e.factors.Factor(ctx, "transportation-speed", a.item+"-speed")
			if err != nil {
				return nil, err
			}
			if speed == nil {
				continue
			}
			ws.setAmount(a.item, floatVal(a.time)*speed.Value)
			ws.pushOrUpdate(a.item)
		}

	case answer.MileageByAreaFirstKey != nil:
		// Without reported times, fall back to regional average mileage;
		// a missing record keeps the working value but every item in the
		// set is pushed.
		prefix := *answer.MileageByAreaFirstKey + "_"
		regional, err := e.factors.FactorsByPrefix(ctx, "mileage-by-area", prefix)
		if err != nil {
			return nil, err
		}
		byKey := make(map[string]float64, len(regional))
		for _, f := range regional {
			byKey[f.Key] = f.Value
		}
		for _, item := range mileageByAreaItems {
			if v, ok := byKey[prefix+item+"-amount"]; ok {
				ws.setAmount(item, v)
			}
			ws.pushOrUpdate(item)
		}
	}

	res.Estimations = ws.estimations
	zap.L().Debug("estimator: mobility estimated",
		zap.Int("baselines", len(res.Baselines)),
		zap.Int("estimations", len(res.Estimations)),
	)
	return res, nil
}

func floatVal(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
