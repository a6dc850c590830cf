package estimator

import (
	"context"

	"go.uber.org/zap"

	"github.com/citycarbon/footprint-cli/internal/model"
)

var otherItems = []string{
	"clothes", "accessory", "daily-goods", "sanitation",
	"appliance-furniture", "service", "communication",
	"hobby-goods", "books-magazines", "leisure-sports", "travel",
}

// EstimateOther adjusts the goods-and-services baselines for one
// respondent. The housing answer set is read for the resident count so
// household-shared purchases are attributed to one person.
func (e *Engine) EstimateOther(ctx context.Context, answer *model.OtherAnswer, housing *model.HousingAnswer) (*Result, error) {
	baselines, err := e.baselines.Baselines(ctx, model.DomainOther)
	if err != nil {
		return nil, err
	}

	res := &Result{Baselines: baselines, Estimations: []model.EmissionItem{}}
	if answer == nil {
		return res, nil
	}

	ws := newWorkingSet(model.DomainOther, baselines, otherItems)

	residentCount := 0.0
	if housing != nil && housing.ResidentCount != nil && *housing.ResidentCount > 0 {
		residentCount = float64(*housing.ResidentCount)
	}

	// perResident divides a household-level item down to one person when
	// the resident count is known; without it the baseline per-person
	// figure stands.
	perResident := func(v float64) float64 {
		if residentCount > 0 {
			return v / residentCount
		}
		return v
	}

	if answer.FashionFactorKey != nil {
		fashion, err := e.requireFactor(ctx, "fashion-factor", *answer.FashionFactorKey)
		if err != nil {
			return nil, err
		}
		ws.scaleAmount("clothes", fashion)
		ws.scaleAmount("accessory", fashion)
		ws.push("clothes")
		ws.push("accessory")
	}

	if answer.DailyGoodsFactorKey != nil {
		daily, err := e.requireFactor(ctx, "daily-goods-factor", *answer.DailyGoodsFactorKey)
		if err != nil {
			return nil, err
		}
		ws.scaleAmount("daily-goods", daily)
		ws.scaleAmount("sanitation", daily)
		ws.push("daily-goods")
		ws.push("sanitation")
	}

	if answer.ApplianceFurnitureFactorKey != nil {
		appliance, err := e.requireFactor(ctx, "appliance-furniture-factor", *answer.ApplianceFurnitureFactorKey)
		if err != nil {
			return nil, err
		}
		ws.setAmount("appliance-furniture", perResident(ws.amount("appliance-furniture")*appliance))
		ws.push("appliance-furniture")
	}

	if answer.ServiceFactorKey != nil {
		service, err := e.requireFactor(ctx, "service-factor", *answer.ServiceFactorKey)
		if err != nil {
			return nil, err
		}
		ws.scaleAmount("service", service)
		ws.setAmount("communication", perResident(ws.amount("communication")*service))
		ws.push("service")
		ws.push("communication")
	}

	if answer.HobbyGoodsFactorKey != nil {
		hobby, err := e.requireFactor(ctx, "hobby-goods-factor", *answer.HobbyGoodsFactorKey)
		if err != nil {
			return nil, err
		}
		ws.scaleAmount("hobby-goods", hobby)
		ws.scaleAmount("books-magazines", hobby)
		ws.push("hobby-goods")
		ws.push("books-magazines")
	}

	if answer.LeisureSportsFactorKey != nil {
		leisure, err := e.requireFactor(ctx, "leisure-sports-factor", *answer.LeisureSportsFactorKey)
		if err != nil {
			return nil, err
		}
		ws.scaleAmount("leisure-sports", leisure)
		ws.push("leisure-sports")
	}

	if answer.TravelFactorKey != nil {
		travel, err := e.requireFactor(ctx, "travel-factor", *answer.TravelFactorKey)
		if err != nil {
			return nil, err
		}
		ws.scaleAmount("travel", travel)
		ws.push("travel")
	}

	res.Estimations = ws.estimations
	zap.L().Debug("estimator: other estimated",
		zap.Int("baselines", len(res.Baselines)),
		zap.Int("estimations", len(res.Estimations)),
	)
	return res, nil
}
