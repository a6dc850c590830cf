// Package validate checks incoming answer sets before they reach the
// estimation engine. The engine assumes well-formed input; everything
// user-controlled is rejected here with per-field errors.
package validate

import (
	"fmt"

	"github.com/citycarbon/footprint-cli/internal/model"
)

// FieldError names one rejected answer field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("validate: %s %s", e.Field, e.Message)
}

var carIntensityKeys = keySet("gasoline", "light", "hv", "phv", "ev", "unknown")

var housingSizeKeys = keySet(
	"1-room", "2-room", "3-room", "4-room", "5-6-room", "7-more-room", "unknown",
)

var energyHeatKeys = keySet("urban-gas", "lpg")

// Answers validates the mobility and housing answer sets. A nil set is
// valid; a nil field inside a set is valid (it skips the correction it
// gates). Food and other answers carry only factor keys that are resolved
// against the reference tables, so unknown keys there surface as lookup
// failures rather than request errors. The returned slice is empty when
// everything passes.
func Answers(mobility *model.MobilityAnswer, housing *model.HousingAnswer) []FieldError {
	var errs []FieldError
	errs = append(errs, Mobility(mobility)...)
	errs = append(errs, Housing(housing)...)
	return errs
}

// Mobility validates the mobility answer set.
func Mobility(a *model.MobilityAnswer) []FieldError {
	if a == nil {
		return nil
	}
	var errs []FieldError
	errs = appendKeyError(errs, "mobilityAnswer.carIntensityFactorFirstKey",
		a.CarIntensityFactorFirstKey, carIntensityKeys)
	errs = appendNonNegative(errs, "mobilityAnswer.privateCarAnnualMileage", a.PrivateCarAnnualMileage)
	errs = appendNonNegative(errs, "mobilityAnswer.trainWeeklyTravelingTime", a.TrainWeeklyTravelingTime)
	errs = appendNonNegative(errs, "mobilityAnswer.busWeeklyTravelingTime", a.BusWeeklyTravelingTime)
	errs = appendNonNegative(errs, "mobilityAnswer.motorbikeWeeklyTravelingTime", a.MotorbikeWeeklyTravelingTime)
	errs = appendNonNegative(errs, "mobilityAnswer.otherCarAnnualTravelingTime", a.OtherCarAnnualTravelingTime)
	errs = appendNonNegative(errs, "mobilityAnswer.airplaneAnnualTravelingTime", a.AirplaneAnnualTravelingTime)
	errs = appendNonNegative(errs, "mobilityAnswer.ferryAnnualTravelingTime", a.FerryAnnualTravelingTime)
	return errs
}

// Housing validates the housing answer set.
func Housing(a *model.HousingAnswer) []FieldError {
	if a == nil {
		return nil
	}
	var errs []FieldError
	if a.ResidentCount != nil && *a.ResidentCount < 1 {
		errs = append(errs, FieldError{
			Field:   "housingAnswer.residentCount",
			Message: "must be at least 1",
		})
	}
	errs = appendKeyError(errs, "housingAnswer.housingSizeKey", a.HousingSizeKey, housingSizeKeys)
	errs = appendKeyError(errs, "housingAnswer.energyHeatIntensityKey", a.EnergyHeatIntensityKey, energyHeatKeys)
	errs = appendNonNegative(errs, "housingAnswer.electricityMonthlyConsumption", a.ElectricityMonthlyConsumption)
	errs = appendNonNegative(errs, "housingAnswer.gasMonthlyConsumption", a.GasMonthlyConsumption)
	errs = appendNonNegative(errs, "housingAnswer.keroseneMonthlyConsumption", a.KeroseneMonthlyConsumption)
	errs = appendNonNegative(errs, "housingAnswer.keroseneMonthCount", a.KeroseneMonthCount)
	return errs
}

func keySet(keys ...string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}

func appendKeyError(errs []FieldError, field string, key *string, allowed map[string]bool) []FieldError {
	if key == nil || allowed[*key] {
		return errs
	}
	return append(errs, FieldError{
		Field:   field,
		Message: fmt.Sprintf("unsupported key %q", *key),
	})
}

func appendNonNegative(errs []FieldError, field string, v *float64) []FieldError {
	if v == nil || *v >= 0 {
		return errs
	}
	return append(errs, FieldError{
		Field:   field,
		Message: "must not be negative",
	})
}
