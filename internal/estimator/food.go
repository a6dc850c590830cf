package estimator

import (
	"context"

	"go.uber.org/zap"

	"github.com/citycarbon/footprint-cli/internal/model"
)

// foodItems is every tracked food item, working copies of which are cloned
// up front so composite recomputations can read ungated items at their
// baseline-derived values.
var foodItems = []string{
	"rice", "bread-flour", "noodle", "potatoes", "vegetables",
	"processed-vegetables", "beans", "milk", "other-dairy", "eggs",
	"beef", "pork", "chicken", "other-meat", "processed-meat",
	"fish", "processed-fish", "fruits", "oil", "seasoning",
	"sweets-snack", "ready-meal", "alcohol", "coffee-tea", "cold-drink",
	"restaurant", "bar-cafe",
}

// foodStapleItems are scaled by intake x purchase ratio when the waste
// gate fires.
var foodStapleItems = []string{
	"rice", "bread-flour", "noodle", "potatoes", "vegetables",
	"processed-vegetables", "beans", "fruits", "oil", "seasoning",
	"ready-meal",
}

// readyMealConstituents is the fixed list the ready-meal intensity mix is
// recomputed over.
var readyMealConstituents = []string{
	"rice", "bread-flour", "noodle", "potatoes", "vegetables",
	"processed-vegetables", "beans", "milk", "other-dairy", "eggs",
	"beef", "pork", "chicken", "other-meat", "processed-meat",
	"fish", "processed-fish", "fruits", "oil", "seasoning",
	"sweets-snack",
}

// eatOutConstituents extends the ready-meal list with ready-meal itself
// and the drink items; ready-meal is weighted by its just-recomputed
// intensity rather than its baseline one.
var eatOutConstituents = append(append([]string{}, readyMealConstituents...),
	"ready-meal", "alcohol", "coffee-tea", "cold-drink",
)

// EstimateFood adjusts the food baselines for one respondent. A nil answer
// returns baselines only. The whole correction chain gates on both waste
// factor keys being present; inside it, each dish block gates on its own
// key.
func (e *Engine) EstimateFood(ctx context.Context, answer *model.FoodAnswer) (*Result, error) {
	baselines, err := e.baselines.Baselines(ctx, model.DomainFood)
	if err != nil {
		return nil, err
	}

	res := &Result{Baselines: baselines, Estimations: []model.EmissionItem{}}
	if answer == nil {
		return res, nil
	}

	ws := newWorkingSet(model.DomainFood, baselines, foodItems)

	if answer.FoodDirectWasteFactorKey != nil && answer.FoodLeftoverFactorKey != nil {
		if err := e.applyFoodCorrections(ctx, ws, answer); err != nil {
			return nil, err
		}
	}

	res.Estimations = ws.estimations
	zap.L().Debug("estimator: food estimated",
		zap.Int("baselines", len(res.Baselines)),
		zap.Int("estimations", len(res.Estimations)),
	)
	return res, nil
}

func (e *Engine) applyFoodCorrections(ctx context.Context, ws *workingSet, answer *model.FoodAnswer) error {
	directWaste, err := e.requireFactor(ctx, "food-direct-waste-factor", *answer.FoodDirectWasteFactorKey)
	if err != nil {
		return err
	}
	leftover, err := e.requireFactor(ctx, "food-leftover-factor", *answer.FoodLeftoverFactorKey)
	if err != nil {
		return err
	}
	leftoverRatio, err := e.requireFactor(ctx, "food-waste-share", "leftover-per-food-waste")
	if err != nil {
		return err
	}
	directWasteRatio, err := e.requireFactor(ctx, "food-waste-share", "direct-waste-per-food-waste")
	if err != nil {
		return err
	}
	wasteShare, err := e.requireFactor(ctx, "food-waste-share", "food-waste-per-food")
	if err != nil {
		return err
	}

	lossAverageRatio := directWaste*directWasteRatio + leftover*leftoverRatio

	// Ratio of purchased amount (including what is wasted) to the
	// population-average purchase; applied to every purchase-based item.
	purchaseRatio := (1 + lossAverageRatio*wasteShare) / (1 + wasteShare)

	intake, err := e.requireFactor(ctx, "food-intake-factor", strOr(answer.FoodIntakeFactorKey, "unknown"))
	if err != nil {
		return err
	}

	for _, item := range foodStapleItems {
		ws.scaleAmount(item, intake*purchaseRatio)
	}
	for _, item := range foodStapleItems {
		ws.push(item)
	}

	if answer.DairyFoodFactorKey != nil {
		dairy, err := e.requireFactor(ctx, "dairy-food-factor", *answer.DairyFoodFactorKey)
		if err != nil {
			return err
		}
		for _, item := range []string{"milk", "other-dairy", "eggs"} {
			ws.scaleAmount(item, dairy*purchaseRatio)
			ws.push(item)
		}
	}

	var beefApplied, porkApplied, chickenApplied bool

	if answer.DishBeefFactorKey != nil {
		beef, err := e.requireFactor(ctx, "dish-beef-factor", *answer.DishBeefFactorKey)
		if err != nil {
			return err
		}
		ws.scaleAmount("beef", beef*purchaseRatio)
		ws.push("beef")
		beefApplied = true
	}

	if answer.DishPorkFactorKey != nil {
		pork, err := e.requireFactor(ctx, "dish-pork-factor", *answer.DishPorkFactorKey)
		if err != nil {
			return err
		}
		ws.scaleAmount("pork", pork*purchaseRatio)
		ws.scaleAmount("other-meat", pork*purchaseRatio)
		ws.push("pork")
		ws.push("other-meat")
		porkApplied = true
	}

	if answer.DishChickenFactorKey != nil {
		chicken, err := e.requireFactor(ctx, "dish-chicken-factor", *answer.DishChickenFactorKey)
		if err != nil {
			return err
		}
		ws.scaleAmount("chicken", chicken*purchaseRatio)
		ws.push("chicken")
		chickenApplied = true
	}

	// Processed meat tracks the overall meat shift, so it only moves when
	// all three dish factors were answered.
	if beefApplied && porkApplied && chickenApplied {
		adjusted := ws.amount("beef") + ws.amount("pork") + ws.amount("other-meat") + ws.amount("chicken")
		base := ws.baselineAmount("beef") + ws.baselineAmount("pork") +
			ws.baselineAmount("other-meat") + ws.baselineAmount("chicken")
		ws.setAmount("processed-meat", ws.amount("processed-meat")*adjusted/base)
		ws.push("processed-meat")
	}

	if answer.DishSeafoodFactorKey != nil {
		seafood, err := e.requireFactor(ctx, "dish-seafood-factor", *answer.DishSeafoodFactorKey)
		if err != nil {
			return err
		}
		ws.scaleAmount("fish", seafood*purchaseRatio)
		ws.scaleAmount("processed-fish", seafood*purchaseRatio)
		ws.push("fish")
		ws.push("processed-fish")
	}

	if answer.AlcoholFactorKey != nil {
		alcohol, err := e.requireFactor(ctx, "alcohol-factor", *answer.AlcoholFactorKey)
		if err != nil {
			return err
		}
		ws.scaleAmount("alcohol", alcohol*purchaseRatio)
		ws.push("alcohol")
	}

	if answer.SoftDrinkSnackFactorKey != nil {
		snack, err := e.requireFactor(ctx, "soft-drink-snack-factor", *answer.SoftDrinkSnackFactorKey)
		if err != nil {
			return err
		}
		for _, item := range []string{"sweets-snack", "coffee-tea", "cold-drink"} {
			ws.scaleAmount(item, snack*purchaseRatio)
			ws.push(item)
		}
	}

	// Ready-meal intensity follows the mix of its constituents: scale the
	// baseline intensity by the ratio of the amount-weighted current
	// average intensity to the amount-weighted baseline average intensity.
	readyMealIntensity := ws.cloneIntensity("ready-meal")
	readyMealIntensity.Value *= e.compositionShift(ws, readyMealConstituents, "", 0)
	ws.pushItem(readyMealIntensity)

	if answer.EatOutFactorKey != nil {
		eatOut, err := e.requireFactor(ctx, "eat-out-factor", *answer.EatOutFactorKey)
		if err != nil {
			return err
		}
		ws.scaleAmount("restaurant", eatOut)
		ws.scaleAmount("bar-cafe", eatOut)
		ws.push("restaurant")
		ws.push("bar-cafe")

		// Eat-out intensity shifts with the full at-home mix, weighting
		// ready-meal by the intensity recomputed just above.
		shift := e.compositionShift(ws, eatOutConstituents, "ready-meal", readyMealIntensity.Value)

		restaurantIntensity := ws.cloneIntensity("restaurant")
		restaurantIntensity.Value *= shift
		ws.pushItem(restaurantIntensity)

		barCafeIntensity := ws.cloneIntensity("bar-cafe")
		barCafeIntensity.Value *= shift
		ws.pushItem(barCafeIntensity)
	}

	return nil
}

// compositionShift computes the intensity-weighted composition shift over
// the given constituent items:
//
//	(Σ amount_i × baseIntensity_i / Σ amount_i) /
//	(Σ baseAmount_i × baseIntensity_i / Σ baseAmount_i)
//
// overrideItem, when non-empty, is weighted by overrideIntensity in the
// numerator instead of its baseline intensity.
func (e *Engine) compositionShift(ws *workingSet, items []string, overrideItem string, overrideIntensity float64) float64 {
	var currentTotal, currentWeighted, baseTotal, baseWeighted float64
	for _, item := range items {
		amount := ws.amount(item)
		baseAmount := ws.baselineAmount(item)
		intensity := ws.baselineIntensity(item)

		currentTotal += amount
		baseTotal += baseAmount
		baseWeighted += baseAmount * intensity

		if item == overrideItem {
			currentWeighted += amount * overrideIntensity
		} else {
			currentWeighted += amount * intensity
		}
	}
	return (currentWeighted / currentTotal) / (baseWeighted / baseTotal)
}
