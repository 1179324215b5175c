package seed

import (
	"context"
	"testing"
	"time"

	companydomain "github.com/smallbiznis/airnex/internal/company/domain"
	emissiondomain "github.com/smallbiznis/airnex/internal/emission/domain"
	"github.com/smallbiznis/airnex/internal/factor"
	"github.com/smallbiznis/airnex/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDemoCompanyIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	node := testutil.NewNode(t)
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	first, err := EnsureDemoCompany(ctx, db, node, factor.DefaultTable(), "user-1", now)
	require.NoError(t, err)
	second, err := EnsureDemoCompany(ctx, db, node, factor.DefaultTable(), "user-1", now)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var members []companydomain.Member
	require.NoError(t, db.Where("company_id = ?", first.ID).Find(&members).Error)
	require.Len(t, members, 1)
	assert.Equal(t, companydomain.RoleAdmin, members[0].Role)

	var records []emissiondomain.EmissionRecord
	require.NoError(t, db.Where("company_id = ?", first.ID).Order("activity_date asc").Find(&records).Error)
	require.Len(t, records, demoMonths*len(demoActivities))
	assert.Equal(t, "2026-04", records[0].Period)
	assert.Equal(t, "2026-09", records[len(records)-1].Period)
}

func TestDemoRecordsUseFactorTable(t *testing.T) {
	node := testutil.NewNode(t)
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	records, err := demoRecords(node, factor.DefaultTable(), 1, now)
	require.NoError(t, err)

	electricity := records[0]
	assert.Equal(t, "electricity", electricity.ActivityType)
	assert.Equal(t, emissiondomain.Scope2, electricity.Scope)
	assert.InDelta(t, 4200*0.052, electricity.CO2e, 1e-9)
	assert.Equal(t, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), electricity.ActivityDate)
}

func TestEnsureDemoCompanyRequiresUser(t *testing.T) {
	db := testutil.NewDB(t)

	_, err := EnsureDemoCompany(context.Background(), db, testutil.NewNode(t), factor.DefaultTable(), " ", time.Now())
	assert.ErrorIs(t, err, companydomain.ErrInvalidUser)
}

func TestDemoRecordsRejectIncompleteTable(t *testing.T) {
	table := factor.NewTable(nil, []factor.Category{
		{Key: "electricity", Label: "Électricité", Scope: emissiondomain.Scope2, Unit: "kWh", Factor: 0.052},
	})

	_, err := demoRecords(testutil.NewNode(t), table, 1, time.Now())
	assert.Error(t, err)
}
