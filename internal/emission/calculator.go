// Package emission reduces baselines and estimations into per-subdomain
// emission scores.
package emission

import (
	"math"

	"github.com/citycarbon/footprint-cli/internal/model"
)

// Rounder is the rounding policy applied to the domain total before it is
// reported. The upstream data pipeline owns the precision rule, so it is
// injected rather than fixed here.
type Rounder func(float64) float64

// RoundTo returns a Rounder that rounds half away from zero to the given
// number of decimal places.
func RoundTo(decimals int) Rounder {
	pow := math.Pow(10, float64(decimals))
	return func(v float64) float64 {
		return math.Round(v*pow) / pow
	}
}

// Calculator scores one domain of a profile.
type Calculator struct {
	round Rounder
}

// NewCalculator creates a Calculator with the given rounding policy; nil
// selects the default of two decimal places.
func NewCalculator(round Rounder) *Calculator {
	if round == nil {
		round = RoundTo(2)
	}
	return &Calculator{round: round}
}

// Score reduces the given baselines and estimations to per-subdomain
// subtotals for one domain, followed by the reserved "total" and
// "monthly" entries. Subdomains derive from the baselines in first-seen
// order; within each subdomain the item set is the union of estimation
// and baseline items.
//
// An item contributes amount × intensity where the amount comes only from
// an amount-type estimation (zero when none was emitted — a baseline
// amount never stands in) and the intensity comes only from the baseline.
// Estimator-emitted intensity records are deliberately not read back
// here; that asymmetry matches the upstream system and changing it is a
// data-owner decision, not a code fix.
func (c *Calculator) Score(baselines, estimations []model.EmissionItem, domain model.Domain) []model.EmissionResult {
	var domainBaselines, domainEstimations []model.EmissionItem
	for _, b := range baselines {
		if b.Domain == domain {
			domainBaselines = append(domainBaselines, b)
		}
	}
	for _, e := range estimations {
		if e.Domain == domain {
			domainEstimations = append(domainEstimations, e)
		}
	}

	var result []model.EmissionResult
	for _, subdomain := range uniqSubdomains(domainBaselines) {
		var subtotal float64
		for _, item := range uniqItems(domainEstimations, domainBaselines, subdomain) {
			amount := findValue(domainEstimations, item, model.TypeAmount)
			intensity := findValue(domainBaselines, item, model.TypeIntensity)
			subtotal += amount * intensity
		}
		result = append(result, model.EmissionResult{Key: subdomain, Value: subtotal})
	}

	var total float64
	for _, r := range result {
		total += r.Value
	}
	total = c.round(total)

	result = append(result,
		model.EmissionResult{Key: model.ResultKeyTotal, Value: total},
		model.EmissionResult{Key: model.ResultKeyMonthly, Value: math.Round(total / 12)},
	)
	return result
}

func uniqSubdomains(baselines []model.EmissionItem) []string {
	seen := make(map[string]bool, len(baselines))
	var subdomains []string
	for _, b := range baselines {
		if !seen[b.Subdomain] {
			seen[b.Subdomain] = true
			subdomains = append(subdomains, b.Subdomain)
		}
	}
	return subdomains
}

// uniqItems returns the distinct item names within subdomain, estimation
// items first, preserving first-seen order.
func uniqItems(estimations, baselines []model.EmissionItem, subdomain string) []string {
	seen := make(map[string]bool)
	var items []string
	for _, it := range estimations {
		if it.Subdomain == subdomain && !seen[it.Item] {
			seen[it.Item] = true
			items = append(items, it.Item)
		}
	}
	for _, it := range baselines {
		if it.Subdomain == subdomain && !seen[it.Item] {
			seen[it.Item] = true
			items = append(items, it.Item)
		}
	}
	return items
}

func findValue(items []model.EmissionItem, item string, typ model.ItemType) float64 {
	for _, it := range items {
		if it.Item == item && it.Type == typ {
			return it.Value
		}
	}
	return 0
}
