// Package profile owns the lifecycle of respondent profiles: answer
// persistence, estimation runs, and on-read scoring.
package profile

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/citycarbon/footprint-cli/internal/emission"
	"github.com/citycarbon/footprint-cli/internal/estimator"
	"github.com/citycarbon/footprint-cli/internal/model"
	"github.com/citycarbon/footprint-cli/internal/store"
)

// Service coordinates the estimation engine, the calculator, and profile
// persistence.
type Service struct {
	engine *estimator.Engine
	calc   *emission.Calculator
	store  store.ProfileStore
	now    func() time.Time
}

// NewService creates a profile service. A nil calculator selects the
// default rounding policy.
func NewService(engine *estimator.Engine, calc *emission.Calculator, st store.ProfileStore) *Service {
	if calc == nil {
		calc = emission.NewCalculator(nil)
	}
	return &Service{engine: engine, calc: calc, store: st, now: time.Now}
}

// Request carries the answer sets of a create or update call. Nil answer
// sets are left untouched on update.
type Request struct {
	MobilityAnswer *model.MobilityAnswer `json:"mobilityAnswer,omitempty"`
	HousingAnswer  *model.HousingAnswer  `json:"housingAnswer,omitempty"`
	FoodAnswer     *model.FoodAnswer     `json:"foodAnswer,omitempty"`
	OtherAnswer    *model.OtherAnswer    `json:"otherAnswer,omitempty"`
	Estimate       bool                  `json:"estimate,omitempty"`
}

// Scores is the per-domain score output computed on read.
type Scores struct {
	Mobility []model.EmissionResult `json:"mobility"`
	Food     []model.EmissionResult `json:"food"`
	Housing  []model.EmissionResult `json:"housing"`
	Other    []model.EmissionResult `json:"other"`
}

// Create stores a new profile under a fresh id and, when requested, runs
// the estimators for every present answer set right away.
func (s *Service) Create(ctx context.Context, req Request) (*model.Profile, *Scores, error) {
	now := s.now()
	p := &model.Profile{
		ID:             uuid.NewString(),
		MobilityAnswer: req.MobilityAnswer,
		HousingAnswer:  req.HousingAnswer,
		FoodAnswer:     req.FoodAnswer,
		OtherAnswer:    req.OtherAnswer,
		Baselines:      []model.EmissionItem{},
		Estimations:    []model.EmissionItem{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if req.Estimate {
		if err := s.estimate(ctx, p); err != nil {
			return nil, nil, err
		}
	}
	if err := s.store.PutProfile(ctx, p); err != nil {
		return nil, nil, eris.Wrap(err, "profile: create")
	}

	zap.L().Info("profile: created",
		zap.String("id", p.ID), zap.Bool("estimated", p.Estimated))
	return p, s.score(p), nil
}

// Update merges the non-nil answer sets of req into the stored profile.
// Any change invalidates previous estimations; they are recomputed
// immediately when requested, otherwise lazily on the next read.
func (s *Service) Update(ctx context.Context, id string, req Request) (*model.Profile, *Scores, error) {
	p, err := s.store.GetProfile(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if req.MobilityAnswer != nil {
		p.MobilityAnswer = req.MobilityAnswer
	}
	if req.HousingAnswer != nil {
		p.HousingAnswer = req.HousingAnswer
	}
	if req.FoodAnswer != nil {
		p.FoodAnswer = req.FoodAnswer
	}
	if req.OtherAnswer != nil {
		p.OtherAnswer = req.OtherAnswer
	}
	p.Estimated = false
	p.UpdatedAt = s.now()

	if req.Estimate {
		if err := s.estimate(ctx, p); err != nil {
			return nil, nil, err
		}
	}
	if err := s.store.PutProfile(ctx, p); err != nil {
		return nil, nil, eris.Wrap(err, "profile: update")
	}

	zap.L().Info("profile: updated",
		zap.String("id", p.ID), zap.Bool("estimated", p.Estimated))
	return p, s.score(p), nil
}

// Get fetches a profile, estimating and persisting first when the stored
// copy is stale.
func (s *Service) Get(ctx context.Context, id string) (*model.Profile, *Scores, error) {
	p, err := s.store.GetProfile(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if !p.Estimated {
		if err := s.estimate(ctx, p); err != nil {
			return nil, nil, err
		}
		p.UpdatedAt = s.now()
		if err := s.store.PutProfile(ctx, p); err != nil {
			return nil, nil, eris.Wrap(err, "profile: persist estimation")
		}
	}

	return p, s.score(p), nil
}

// estimate runs the four domain estimators concurrently and replaces the
// profile's baselines and estimations with the concatenated results in
// fixed order: housing, mobility, food, other. Estimators only run for
// answer sets that are present.
func (s *Service) estimate(ctx context.Context, p *model.Profile) error {
	var housing, mobility, food, other *estimator.Result

	g, gctx := errgroup.WithContext(ctx)
	if p.HousingAnswer != nil {
		g.Go(func() error {
			var err error
			housing, err = s.engine.EstimateHousing(gctx, p.HousingAnswer, p.MobilityAnswer)
			return err
		})
	}
	if p.MobilityAnswer != nil {
		g.Go(func() error {
			var err error
			mobility, err = s.engine.EstimateMobility(gctx, p.MobilityAnswer)
			return err
		})
	}
	if p.FoodAnswer != nil {
		g.Go(func() error {
			var err error
			food, err = s.engine.EstimateFood(gctx, p.FoodAnswer)
			return err
		})
	}
	if p.OtherAnswer != nil {
		g.Go(func() error {
			var err error
			other, err = s.engine.EstimateOther(gctx, p.OtherAnswer, p.HousingAnswer)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "profile: estimate")
	}

	p.Baselines = p.Baselines[:0]
	p.Estimations = p.Estimations[:0]
	for _, r := range []*estimator.Result{housing, mobility, food, other} {
		if r == nil {
			continue
		}
		p.Baselines = append(p.Baselines, r.Baselines...)
		p.Estimations = append(p.Estimations, r.Estimations...)
	}
	p.Estimated = true
	return nil
}

// score computes the per-domain results from the profile's current
// baselines and estimations. Scores are derived on every read and never
// persisted.
func (s *Service) score(p *model.Profile) *Scores {
	if !p.Estimated {
		return nil
	}
	return &Scores{
		Mobility: s.calc.Score(p.Baselines, p.Estimations, model.DomainMobility),
		Food:     s.calc.Score(p.Baselines, p.Estimations, model.DomainFood),
		Housing:  s.calc.Score(p.Baselines, p.Estimations, model.DomainHousing),
		Other:    s.calc.Score(p.Baselines, p.Estimations, model.DomainOther),
	}
}
