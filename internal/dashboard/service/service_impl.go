package service

import (
	"context"

	"github.com/smallbiznis/airnex/internal/aggregation"
	"github.com/smallbiznis/airnex/internal/clock"
	"github.com/smallbiznis/airnex/internal/companycontext"
	"github.com/smallbiznis/airnex/internal/dashboard/domain"
	emissiondomain "github.com/smallbiznis/airnex/internal/emission/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Clock     clock.Clock
	Emissions emissiondomain.Repository
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	clock     clock.Clock
	emissions emissiondomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("dashboard.service"),
		clock:     p.Clock,
		emissions: p.Emissions,
	}
}

// Stats aggregates the selected window and compares it with the window of
// equal length right before it. The two reads are not in one transaction.
func (s *Service) Stats(ctx context.Context, rawPeriod string) (domain.Stats, error) {
	companyID, ok := companycontext.CompanyIDFromContext(ctx)
	if !ok {
		return domain.Stats{}, domain.ErrInvalidCompany
	}
	period, err := aggregation.ParsePeriod(rawPeriod)
	if err != nil {
		return domain.Stats{}, err
	}

	now := s.clock.Now()
	from, to := aggregation.Window(period, now)
	current, err := s.emissions.ListInWindow(ctx, s.db, companyID, from, to)
	if err != nil {
		return domain.Stats{}, err
	}

	prevFrom, prevTo := aggregation.PreviousWindow(period, now)
	previous, err := s.emissions.ListInWindow(ctx, s.db, companyID, prevFrom, prevTo)
	if err != nil {
		return domain.Stats{}, err
	}

	result := aggregation.Aggregate(aggregation.FromEmissions(current))
	prevTotal := aggregation.Aggregate(aggregation.FromEmissions(previous)).Total

	s.log.Debug("dashboard stats computed",
		zap.String("company_id", companyID.String()),
		zap.String("period", string(period)),
		zap.Int("records", len(current)),
	)
	return domain.Stats{
		Result: result,
		Trends: aggregation.Trend(result.Total, prevTotal),
	}, nil
}
