package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/airnex/internal/aggregation"
	"github.com/smallbiznis/airnex/internal/clock"
	"github.com/smallbiznis/airnex/internal/companycontext"
	emissiondomain "github.com/smallbiznis/airnex/internal/emission/domain"
	obsmetrics "github.com/smallbiznis/airnex/internal/observability/metrics"
	"github.com/smallbiznis/airnex/internal/recommendation/domain"
	"github.com/smallbiznis/airnex/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	outcomeCached   = "cached"
	outcomeCreated  = "generated"
	outcomeFailed   = "failed"
	outcomeLostRace = "lost_race"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      domain.Repository
	Emissions emissiondomain.Repository
	Generator domain.Generator
	Metrics   *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	repo      domain.Repository
	emissions emissiondomain.Repository
	generator domain.Generator
	metrics   *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("recommendation.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		emissions: p.Emissions,
		generator: p.Generator,
		metrics:   p.Metrics,
	}
}

// GetOrGenerate returns the stored set when one exists. Otherwise it asks the
// generator once; a failed generation is logged and leaves the set empty so
// the next call tries again.
//
// Two first calls may both reach the generator. Only one batch can be stored
// for a given generation, and the loser returns the winner's set.
func (s *Service) GetOrGenerate(ctx context.Context) ([]domain.Recommendation, error) {
	companyID, ok := companycontext.CompanyIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidCompany
	}

	batch, err := s.repo.LatestBatch(ctx, s.db, companyID)
	if err != nil {
		return nil, err
	}
	if batch != nil {
		s.metrics.RecordRecommendationGeneration(ctx, outcomeCached)
		return s.listBatch(ctx, companyID, batch.ID)
	}

	items, err := s.generate(ctx, companyID, 1)
	if err != nil {
		if errors.Is(err, errGeneration) {
			s.log.Warn("recommendation generation failed",
				zap.String("company_id", companyID.String()),
				zap.Error(err),
			)
			return []domain.Recommendation{}, nil
		}
		return nil, err
	}
	return items, nil
}

// Regenerate stores a new generation on top of the latest one. Unlike the
// first generation, a generator failure is returned to the caller.
func (s *Service) Regenerate(ctx context.Context) ([]domain.Recommendation, error) {
	companyID, ok := companycontext.CompanyIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidCompany
	}

	batch, err := s.repo.LatestBatch(ctx, s.db, companyID)
	if err != nil {
		return nil, err
	}
	next := 1
	if batch != nil {
		next = batch.Generation + 1
	}
	return s.generate(ctx, companyID, next)
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status string) (domain.Recommendation, error) {
	companyID, ok := companycontext.CompanyIDFromContext(ctx)
	if !ok {
		return domain.Recommendation{}, domain.ErrInvalidCompany
	}

	recID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || recID == 0 {
		return domain.Recommendation{}, domain.ErrInvalidID
	}
	next := domain.Status(strings.ToUpper(strings.TrimSpace(status)))
	switch next {
	case domain.StatusPending, domain.StatusInProgress, domain.StatusImplemented, domain.StatusIgnored:
	default:
		return domain.Recommendation{}, domain.ErrInvalidStatus
	}

	item, err := s.repo.FindByID(ctx, s.db, companyID, recID)
	if err != nil {
		return domain.Recommendation{}, err
	}
	if item == nil {
		return domain.Recommendation{}, domain.ErrNotFound
	}
	if !item.Status.CanTransition(next) {
		return domain.Recommendation{}, domain.ErrInvalidTransition
	}

	now := s.clock.Now()
	updated, err := s.repo.UpdateStatus(ctx, s.db, companyID, recID, item.Status, next, now)
	if err != nil {
		return domain.Recommendation{}, err
	}
	if !updated {
		// Someone moved it first.
		return domain.Recommendation{}, domain.ErrInvalidTransition
	}

	item.Status = next
	item.UpdatedAt = now
	return *item, nil
}

var errGeneration = errors.New("recommendation_generation_failed")

func (s *Service) generate(ctx context.Context, companyID snowflake.ID, generation int) ([]domain.Recommendation, error) {
	now := s.clock.Now()
	from, to := aggregation.Window(aggregation.PeriodOneYear, now)
	records, err := s.emissions.ListInWindow(ctx, s.db, companyID, from, to)
	if err != nil {
		return nil, err
	}
	agg := aggregation.Aggregate(aggregation.FromEmissions(records))

	drafts, err := s.generator.Generate(ctx, domain.GenerationInput{
		Total:      agg.Total,
		ByScope:    agg.ByScope,
		ByCategory: agg.ByCategory,
	})
	if err == nil && len(drafts) == 0 {
		err = domain.ErrInvalidRecommendation
	}
	if err != nil {
		s.metrics.RecordRecommendationGeneration(ctx, outcomeFailed)
		return nil, fmt.Errorf("%w: %w", errGeneration, err)
	}

	batch := &domain.Batch{
		ID:         s.genID.Generate(),
		CompanyID:  companyID,
		Generation: generation,
		TotalCO2e:  agg.Total,
		CreatedAt:  now,
	}
	items := make([]*domain.Recommendation, 0, len(drafts))
	for _, d := range drafts {
		items = append(items, &domain.Recommendation{
			ID:                s.genID.Generate(),
			CompanyID:         companyID,
			BatchID:           batch.ID,
			Title:             d.Title,
			Description:       d.Description,
			Category:          d.Category,
			Priority:          d.Priority,
			EstimatedImpactKg: d.EstimatedImpactKg,
			Effort:            d.Effort,
			Reasoning:         d.Reasoning,
			Status:            domain.StatusPending,
			AIGenerated:       true,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.InsertBatch(ctx, tx, batch); err != nil {
			return err
		}
		return s.repo.InsertRecommendations(ctx, tx, items)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			s.metrics.RecordRecommendationGeneration(ctx, outcomeLostRace)
			s.log.Info("recommendation batch already stored by a concurrent request",
				zap.String("company_id", companyID.String()),
				zap.Int("generation", generation),
			)
			return s.latest(ctx, companyID)
		}
		return nil, err
	}

	s.metrics.RecordRecommendationGeneration(ctx, outcomeCreated)
	out := make([]domain.Recommendation, 0, len(items))
	for _, item := range items {
		out = append(out, *item)
	}
	sortByPriority(out)
	return out, nil
}

func (s *Service) latest(ctx context.Context, companyID snowflake.ID) ([]domain.Recommendation, error) {
	batch, err := s.repo.LatestBatch(ctx, s.db, companyID)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return []domain.Recommendation{}, nil
	}
	return s.listBatch(ctx, companyID, batch.ID)
}

func (s *Service) listBatch(ctx context.Context, companyID, batchID snowflake.ID) ([]domain.Recommendation, error) {
	items, err := s.repo.ListByBatch(ctx, s.db, companyID, batchID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Recommendation, 0, len(items))
	for _, item := range items {
		out = append(out, *item)
	}
	sortByPriority(out)
	return out, nil
}

// sortByPriority puts the most urgent first, then the largest impact.
func sortByPriority(items []domain.Recommendation) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Priority != items[j].Priority {
			return items[i].Priority.Before(items[j].Priority)
		}
		return items[i].EstimatedImpactKg > items[j].EstimatedImpactKg
	})
}
