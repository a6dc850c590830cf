package model

// Answer sets are open, partially populated records: every field is
// optional and a nil field means "skip the correction it gates, keep the
// baseline value". A nil answer set means the whole domain is returned
// baselines-only.

// MobilityAnswer holds the mobility questionnaire responses.
type MobilityAnswer struct {
	HasPrivateCar                *bool    `json:"hasPrivateCar,omitempty"`
	PrivateCarAnnualMileage      *float64 `json:"privateCarAnnualMileage,omitempty"`
	CarIntensityFactorFirstKey   *string  `json:"carIntensityFactorFirstKey,omitempty"`
	CarPassengersFirstKey        *string  `json:"carPassengersFirstKey,omitempty"`
	CarChargingKey               *string  `json:"carChargingKey,omitempty"`
	HasTravelingTime             *bool    `json:"hasTravelingTime,omitempty"`
	TrainWeeklyTravelingTime     *float64 `json:"trainWeeklyTravelingTime,omitempty"`
	BusWeeklyTravelingTime       *float64 `json:"busWeeklyTravelingTime,omitempty"`
	MotorbikeWeeklyTravelingTime *float64 `json:"motorbikeWeeklyTravelingTime,omitempty"`
	OtherCarAnnualTravelingTime  *float64 `json:"otherCarAnnualTravelingTime,omitempty"`
	AirplaneAnnualTravelingTime  *float64 `json:"airplaneAnnualTravelingTime,omitempty"`
	FerryAnnualTravelingTime     *float64 `json:"ferryAnnualTravelingTime,omitempty"`
	MileageByAreaFirstKey        *string  `json:"mileageByAreaFirstKey,omitempty"`
}

// FoodAnswer holds the food questionnaire responses. Every field selects a
// factor key; the waste pair (direct waste + leftover) gates the whole
// purchase-ratio chain.
type FoodAnswer struct {
	FoodIntakeFactorKey      *string `json:"foodIntakeFactorKey,omitempty"`
	FoodDirectWasteFactorKey *string `json:"foodDirectWasteFactorKey,omitempty"`
	FoodLeftoverFactorKey    *string `json:"foodLeftoverFactorKey,omitempty"`
	DairyFoodFactorKey       *string `json:"dairyFoodFactorKey,omitempty"`
	DishBeefFactorKey        *string `json:"dishBeefFactorKey,omitempty"`
	DishPorkFactorKey        *string `json:"dishPorkFactorKey,omitempty"`
	DishChickenFactorKey     *string `json:"dishChickenFactorKey,omitempty"`
	DishSeafoodFactorKey     *string `json:"dishSeafoodFactorKey,omitempty"`
	AlcoholFactorKey         *string `json:"alcoholFactorKey,omitempty"`
	SoftDrinkSnackFactorKey  *string `json:"softDrinkSnackFactorKey,omitempty"`
	EatOutFactorKey          *string `json:"eatOutFactorKey,omitempty"`
}

// HousingAnswer holds the housing questionnaire responses. ResidentCount
// divides household-level consumption down to one person; without a
// positive value the estimator returns baselines only.
type HousingAnswer struct {
	ResidentCount                 *int     `json:"residentCount,omitempty"`
	HousingAmountByRegionFirstKey *string  `json:"housingAmountByRegionFirstKey,omitempty"`
	HousingSizeKey                *string  `json:"housingSizeKey,omitempty"`
	ElectricityIntensityKey       *string  `json:"electricityIntensityKey,omitempty"`
	ElectricityMonthlyConsumption *float64 `json:"electricityMonthlyConsumption,omitempty"`
	ElectricitySeasonFactorKey    *string  `json:"electricitySeasonFactorKey,omitempty"`
	UseGas                        *bool    `json:"useGas,omitempty"`
	GasMonthlyConsumption         *float64 `json:"gasMonthlyConsumption,omitempty"`
	GasSeasonFactorKey            *string  `json:"gasSeasonFactorKey,omitempty"`
	EnergyHeatIntensityKey        *string  `json:"energyHeatIntensityKey,omitempty"`
	UseKerosene                   *bool    `json:"useKerosene,omitempty"`
	KeroseneMonthlyConsumption    *float64 `json:"keroseneMonthlyConsumption,omitempty"`
	KeroseneMonthCount            *float64 `json:"keroseneMonthCount,omitempty"`
}

// OtherAnswer holds the goods-and-services questionnaire responses.
type OtherAnswer struct {
	FashionFactorKey            *string `json:"fashionFactorKey,omitempty"`
	DailyGoodsFactorKey         *string `json:"dailyGoodsFactorKey,omitempty"`
	ApplianceFurnitureFactorKey *string `json:"applianceFurnitureFactorKey,omitempty"`
	ServiceFactorKey            *string `json:"serviceFactorKey,omitempty"`
	HobbyGoodsFactorKey         *string `json:"hobbyGoodsFactorKey,omitempty"`
	LeisureSportsFactorKey      *string `json:"leisureSportsFactorKey,omitempty"`
	TravelFactorKey             *string `json:"travelFactorKey,omitempty"`
}

// Bool returns a pointer to b, for building answer literals.
func Bool(b bool) *bool { return &b }

// Float returns a pointer to f, for building answer literals.
func Float(f float64) *float64 { return &f }

// Int returns a pointer to i, for building answer literals.
func Int(i int) *int { return &i }

// String returns a pointer to s, for building answer literals.
func String(s string) *string { return &s }
