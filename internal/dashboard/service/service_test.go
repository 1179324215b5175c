package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/airnex/internal/aggregation"
	"github.com/smallbiznis/airnex/internal/clock"
	"github.com/smallbiznis/airnex/internal/companycontext"
	"github.com/smallbiznis/airnex/internal/dashboard/domain"
	emissiondomain "github.com/smallbiznis/airnex/internal/emission/domain"
	emissionrepository "github.com/smallbiznis/airnex/internal/emission/repository"
	"github.com/smallbiznis/airnex/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var now = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func seed(t *testing.T, db *gorm.DB, node *snowflake.Node, ctx context.Context, scope emissiondomain.Scope, activity string, co2e float64, at time.Time) {
	t.Helper()
	companyID, _ := companycontext.CompanyIDFromContext(ctx)
	require.NoError(t, db.Create(&emissiondomain.EmissionRecord{
		ID:             node.Generate(),
		CompanyID:      companyID,
		ActivityType:   activity,
		Scope:          scope,
		Quantity:       co2e,
		Unit:           "kg",
		EmissionFactor: 1,
		CO2e:           co2e,
		ActivityDate:   at,
		Period:         at.Format(emissiondomain.PeriodLayout),
		Source:         emissiondomain.SourceManual,
		CreatedAt:      at,
	}).Error)
}

func newService(db *gorm.DB) domain.Service {
	return New(Params{
		DB:        db,
		Log:       zap.NewNop(),
		Clock:     clock.NewFakeClock(now),
		Emissions: emissionrepository.Provide(),
	})
}

func TestStatsThreeRecordScenario(t *testing.T) {
	db := testutil.NewDB(t)
	node := testutil.NewNode(t)
	ctx, _ := testutil.SeedCompany(t, db, node, "Garage Moreau")

	seed(t, db, node, ctx, emissiondomain.Scope1, "Gazole", 100, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	seed(t, db, node, ctx, emissiondomain.Scope2, "Électricité", 50, time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC))
	seed(t, db, node, ctx, emissiondomain.Scope3, "Train", 25, time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC))
	// previous 6-month window
	seed(t, db, node, ctx, emissiondomain.Scope1, "Gazole", 350, time.Date(2023, 8, 1, 0, 0, 0, 0, time.UTC))

	stats, err := newService(db).Stats(ctx, "")
	require.NoError(t, err)

	assert.InDelta(t, 175, stats.Total, 1e-9)
	assert.Equal(t, aggregation.ScopeTotals{Scope1: 100, Scope2: 50, Scope3: 25}, stats.ByScope)
	assert.Equal(t, []aggregation.MonthlyPoint{
		{Month: "2024-01", Emissions: 150, Scope1: 100, Scope2: 50},
		{Month: "2024-02", Emissions: 25, Scope3: 25},
	}, stats.Monthly)
	assert.InDelta(t, 350, stats.Trends.Previous, 1e-9)
	assert.InDelta(t, 50, stats.Trends.Reduction, 1e-9)
}

func TestStatsJSONShape(t *testing.T) {
	db := testutil.NewDB(t)
	ctx, _ := testutil.SeedCompany(t, db, testutil.NewNode(t), "Vide")

	stats, err := newService(db).Stats(ctx, "1month")
	require.NoError(t, err)

	raw, err := json.Marshal(stats)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"total": 0,
		"byScope": {"scope1": 0, "scope2": 0, "scope3": 0},
		"byCategory": [],
		"monthly": [],
		"trends": {"current": 0, "previous": 0, "reduction": 0}
	}`, string(raw))
}

func TestStatsRejectsUnknownPeriod(t *testing.T) {
	db := testutil.NewDB(t)
	ctx, _ := testutil.SeedCompany(t, db, testutil.NewNode(t), "Vide")

	_, err := newService(db).Stats(ctx, "2years")
	assert.ErrorIs(t, err, aggregation.ErrInvalidPeriod)

	_, err = newService(db).Stats(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidCompany)
}
