// Package model defines the footprint domain types shared across the
// estimation engine, the store, and the HTTP layer.
package model

// Domain identifies one of the four life domains a footprint is split into.
type Domain string

const (
	DomainMobility Domain = "mobility"
	DomainFood     Domain = "food"
	DomainHousing  Domain = "housing"
	DomainOther    Domain = "other"
)

// Domains returns all domains in their canonical order.
func Domains() []Domain {
	return []Domain{DomainMobility, DomainFood, DomainHousing, DomainOther}
}

// ItemType distinguishes quantity records from emission-factor records.
type ItemType string

const (
	TypeAmount    ItemType = "amount"    // quantity consumed or used per year
	TypeIntensity ItemType = "intensity" // emission factor per unit of amount
)

// EmissionItem is one reference or estimated record for a (domain, item)
// pair. Baselines are population averages loaded from the store and never
// mutated; estimations are fresh copies with an adjusted Value.
type EmissionItem struct {
	Domain    Domain   `json:"domain"`
	Item      string   `json:"item"`
	Subdomain string   `json:"subdomain"`
	Type      ItemType `json:"type"`
	Unit      string   `json:"unit"`
	Value     float64  `json:"value"`
}

// Factor is a named multiplicative correction coefficient, looked up by
// (category, key). Absence of a factor is not an error; each correction
// block decides its own fallback.
type Factor struct {
	Category string  `json:"category"`
	Key      string  `json:"key"`
	Value    float64 `json:"value"`
}

// EmissionResult is one entry of a domain score: a subdomain subtotal or
// one of the reserved keys "total" / "monthly".
type EmissionResult struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// Reserved EmissionResult keys.
const (
	ResultKeyTotal   = "total"
	ResultKeyMonthly = "monthly"
)
