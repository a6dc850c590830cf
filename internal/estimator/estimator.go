// Package estimator adjusts population-average baseline figures using
// questionnaire answers. Each domain estimator clones the baseline amounts
// it cares about into a working set, applies an ordered chain of gated
// multiplicative corrections, and emits only the items whose gate fired.
package estimator

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/citycarbon/footprint-cli/internal/model"
)

// BaselineSource supplies population-average reference items per domain.
type BaselineSource interface {
	Baselines(ctx context.Context, domain model.Domain) ([]model.EmissionItem, error)
}

// FactorSource supplies correction coefficients. A lookup miss returns
// (nil, nil); each correction block decides its own fallback.
type FactorSource interface {
	Factor(ctx context.Context, category, key string) (*model.Factor, error)
	FactorsByPrefix(ctx context.Context, category, keyPrefix string) ([]model.Factor, error)
}

// Engine runs the four domain estimators against one baseline/factor pair
// of sources. It performs no writes; every run is a pure function of its
// inputs and what it fetches.
type Engine struct {
	baselines BaselineSource
	factors   FactorSource
}

// New creates an estimation engine over the given sources.
func New(baselines BaselineSource, factors FactorSource) *Engine {
	return &Engine{baselines: baselines, factors: factors}
}

// Result is one estimator's output: the unmodified baselines plus the
// estimation records whose gates fired. Estimations is never nil.
type Result struct {
	Baselines   []model.EmissionItem `json:"baselines"`
	Estimations []model.EmissionItem `json:"estimations"`
}

// requireFactor resolves a coefficient that the reference data must
// contain; a miss is a data integrity failure, not a skippable gate.
func (e *Engine) requireFactor(ctx context.Context, category, key string) (float64, error) {
	f, err := e.factors.Factor(ctx, category, key)
	if err != nil {
		return 0, err
	}
	if f == nil {
		return 0, eris.Errorf("estimator: factor %s/%s not found", category, key)
	}
	return f.Value, nil
}

// factorOr resolves a coefficient, substituting fallback on a miss.
func (e *Engine) factorOr(ctx context.Context, category, key string, fallback float64) (float64, error) {
	f, err := e.factors.Factor(ctx, category, key)
	if err != nil {
		return 0, err
	}
	if f == nil {
		return fallback, nil
	}
	return f.Value, nil
}

// findBaseline returns the baseline record for (domain, item, type). When
// the reference data lacks the record it returns a zero-valued placeholder
// carrying the identifying fields, so corrections degrade to zero instead
// of failing mid-chain.
func findBaseline(baselines []model.EmissionItem, domain model.Domain, item string, typ model.ItemType) model.EmissionItem {
	for _, b := range baselines {
		if b.Domain == domain && b.Item == item && b.Type == typ {
			return b
		}
	}
	return model.EmissionItem{Domain: domain, Item: item, Type: typ}
}

// workingSet holds the per-item estimation copies under construction plus
// the ordered output list. Corrections mutate working copies; pushing an
// item makes it part of the run's output. Items never pushed stay out of
// the output entirely, which zeroes their contribution at scoring time.
type workingSet struct {
	domain      model.Domain
	baselines   []model.EmissionItem
	amounts     map[string]model.EmissionItem
	estimations []model.EmissionItem
}

func newWorkingSet(domain model.Domain, baselines []model.EmissionItem, items []string) *workingSet {
	ws := &workingSet{
		domain:      domain,
		baselines:   baselines,
		amounts:     make(map[string]model.EmissionItem, len(items)),
		estimations: []model.EmissionItem{},
	}
	for _, item := range items {
		ws.amounts[item] = findBaseline(baselines, domain, item, model.TypeAmount)
	}
	return ws
}

func (w *workingSet) amount(item string) float64 {
	return w.amounts[item].Value
}

func (w *workingSet) setAmount(item string, v float64) {
	a := w.amounts[item]
	a.Value = v
	w.amounts[item] = a
}

func (w *workingSet) scaleAmount(item string, factor float64) {
	w.setAmount(item, w.amounts[item].Value*factor)
}

func (w *workingSet) baselineAmount(item string) float64 {
	return findBaseline(w.baselines, w.domain, item, model.TypeAmount).Value
}

func (w *workingSet) baselineIntensity(item string) float64 {
	return findBaseline(w.baselines, w.domain, item, model.TypeIntensity).Value
}

// cloneIntensity copies the baseline intensity record as an estimation
// working copy.
func (w *workingSet) cloneIntensity(item string) model.EmissionItem {
	return findBaseline(w.baselines, w.domain, item, model.TypeIntensity)
}

// push appends the current working amount for item to the output.
func (w *workingSet) push(item string) {
	w.estimations = append(w.estimations, w.amounts[item])
}

// pushOrUpdate replaces an already-pushed amount entry for item in place,
// or appends when the item has not been pushed yet.
func (w *workingSet) pushOrUpdate(item string) {
	w.pushOrUpdateItem(w.amounts[item])
}

// pushItem appends an arbitrary estimation record (used for intensities).
func (w *workingSet) pushItem(it model.EmissionItem) {
	w.estimations = append(w.estimations, it)
}

func (w *workingSet) pushOrUpdateItem(it model.EmissionItem) {
	for i := range w.estimations {
		if w.estimations[i].Item == it.Item && w.estimations[i].Type == it.Type {
			w.estimations[i].Value = it.Value
			return
		}
	}
	w.estimations = append(w.estimations, it)
}

func strOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

func boolVal(b *bool) bool {
	return b != nil && *b
}
