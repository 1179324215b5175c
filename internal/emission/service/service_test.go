package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/smallbiznis/airnex/internal/classifier"
	"github.com/smallbiznis/airnex/internal/clock"
	"github.com/smallbiznis/airnex/internal/companycontext"
	"github.com/smallbiznis/airnex/internal/config"
	"github.com/smallbiznis/airnex/internal/emission/domain"
	"github.com/smallbiznis/airnex/internal/emission/repository"
	"github.com/smallbiznis/airnex/internal/factor"
	"github.com/smallbiznis/airnex/internal/testutil"
	"github.com/smallbiznis/airnex/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type stubClassifier struct {
	cls   classifier.Classification
	err   error
	calls int
}

func (s *stubClassifier) Classify(_ context.Context, _ classifier.Evidence) (classifier.Classification, error) {
	s.calls++
	return s.cls, s.err
}

var now = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T, cls classifier.Classifier) (domain.Service, context.Context, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	node := testutil.NewNode(t)
	ctx, _ := testutil.SeedCompany(t, db, node, "Atelier Durand")

	if cls == nil {
		cls = &stubClassifier{err: errors.New("unused")}
	}
	svc := New(Params{
		DB:         db,
		Log:        zap.NewNop(),
		GenID:      node,
		Clock:      clock.NewFakeClock(now),
		Repo:       repository.Provide(),
		Factors:    config.NewStaticFactorTableHolder(factor.DefaultTable()),
		Classifier: cls,
	})
	return svc, ctx, db
}

func ptr[T any](v T) *T { return &v }

func TestCreateComputesCO2eOnce(t *testing.T) {
	svc, ctx, _ := newService(t, nil)

	rec, err := svc.Create(ctx, domain.CreateRequest{
		CategoryKey:  "electricity",
		Quantity:     ptr(1000.0),
		ActivityDate: ptr(time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.Scope2, rec.Scope)
	assert.Equal(t, "kWh", rec.Unit)
	assert.InDelta(t, 52, rec.CO2e, 1e-9)
	assert.Equal(t, "2026-03", rec.Period)
	assert.Equal(t, domain.SourceManual, rec.Source)
	require.NotNil(t, rec.CategoryID)
	assert.Equal(t, "electricity", *rec.CategoryID)
}

func TestCreateAllowsNegativeFactor(t *testing.T) {
	svc, ctx, _ := newService(t, nil)

	rec, err := svc.Create(ctx, domain.CreateRequest{
		ActivityType:   "Recyclage papier",
		Scope:          "SCOPE_3",
		Quantity:       ptr(100.0),
		Unit:           "kg",
		EmissionFactor: ptr(-0.5),
		ActivityDate:   ptr(now),
	})
	require.NoError(t, err)
	assert.InDelta(t, -50, rec.CO2e, 1e-9)
}

func TestCreateReportsEveryInvalidField(t *testing.T) {
	svc, ctx, _ := newService(t, nil)

	_, err := svc.Create(ctx, domain.CreateRequest{
		CategoryKey: "teleportation",
		Scope:       "SCOPE_9",
		Quantity:    ptr(-1.0),
		ProjectID:   "abc",
	})
	fields, ok := validation.Fields(err)
	require.True(t, ok, "expected a validation error, got %v", err)
	assert.ElementsMatch(t, []string{"categoryKey", "activityType", "scope", "quantity", "unit", "emissionFactor", "activityDate", "projectId"}, fields)
}

func TestCreateRequiresCompany(t *testing.T) {
	svc, _, _ := newService(t, nil)

	_, err := svc.Create(context.Background(), domain.CreateRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidCompany)
}

func TestListNewestFirstWithScopeAndLimit(t *testing.T) {
	svc, ctx, _ := newService(t, nil)

	for i, key := range []string{"electricity", "natural_gas", "electricity", "train"} {
		_, err := svc.Create(ctx, domain.CreateRequest{
			CategoryKey:  key,
			Quantity:     ptr(10.0),
			ActivityDate: ptr(time.Date(2026, time.Month(1+i), 1, 0, 0, 0, 0, time.UTC)),
		})
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, domain.ListRequest{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].ActivityDate.After(all[i-1].ActivityDate))
	}

	scoped, err := svc.List(ctx, domain.ListRequest{Scope: "scope2"})
	require.NoError(t, err)
	require.Len(t, scoped, 2)
	for _, r := range scoped {
		assert.Equal(t, domain.Scope2, r.Scope)
	}

	limited, err := svc.List(ctx, domain.ListRequest{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, time.April, limited[0].ActivityDate.Month())

	_, err = svc.List(ctx, domain.ListRequest{Limit: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidLimit)

	_, err = svc.List(ctx, domain.ListRequest{Scope: "scope 7"})
	assert.ErrorIs(t, err, domain.ErrInvalidScope)
}

func TestListIsTenantScoped(t *testing.T) {
	svc, ctx, db := newService(t, nil)
	other, _ := testutil.SeedCompany(t, db, testutil.NewNode(t), "Concurrent SARL")

	_, err := svc.Create(ctx, domain.CreateRequest{
		CategoryKey:  "diesel",
		Quantity:     ptr(20.0),
		ActivityDate: ptr(now),
	})
	require.NoError(t, err)

	records, err := svc.List(other, domain.ListRequest{})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestExtractStoresClassification(t *testing.T) {
	date := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
	cls := &stubClassifier{cls: classifier.Classification{
		ActivityType: "Électricité",
		CategoryKey:  "electricity",
		Scope:        domain.Scope2,
		Description:  "Facture EDF février",
		Quantity:     1200,
		Unit:         "kWh",
		ActivityDate: &date,
	}}
	svc, ctx, _ := newService(t, cls)

	rec, err := svc.Extract(ctx, domain.ExtractRequest{Text: "EDF ... 1200 kWh", SourceFileID: "uploads/edf.pdf"})
	require.NoError(t, err)

	assert.Equal(t, 1, cls.calls)
	assert.Equal(t, domain.SourceInvoice, rec.Source)
	assert.InDelta(t, 62.4, rec.CO2e, 1e-9)
	assert.Equal(t, "2026-02", rec.Period)
	require.NotNil(t, rec.SourceFileID)
	assert.Equal(t, "uploads/edf.pdf", *rec.SourceFileID)
	assert.Contains(t, string(rec.ExtractedData), `"categoryKey":"electricity"`)
}

func TestExtractDropsUnknownCategoryKey(t *testing.T) {
	cls := &stubClassifier{cls: classifier.Classification{
		ActivityType:   "Location de matériel",
		CategoryKey:    "equipment_rental",
		Scope:          domain.Scope3,
		Quantity:       2,
		Unit:           "jour",
		EmissionFactor: ptr(12.0),
	}}
	svc, ctx, _ := newService(t, cls)

	rec, err := svc.Extract(ctx, domain.ExtractRequest{Text: "location"})
	require.NoError(t, err)
	assert.Nil(t, rec.CategoryID)
	assert.InDelta(t, 24, rec.CO2e, 1e-9)
	assert.True(t, rec.ActivityDate.Equal(now), "missing date falls back to now")
}

func TestExtractPropagatesClassifierFailure(t *testing.T) {
	cls := &stubClassifier{err: classifier.ErrInvalidClassification}
	svc, ctx, _ := newService(t, cls)

	_, err := svc.Extract(ctx, domain.ExtractRequest{Text: "???"})
	assert.ErrorIs(t, err, classifier.ErrInvalidClassification)

	records, err := svc.List(ctx, domain.ListRequest{})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestExtractRequiresText(t *testing.T) {
	svc, ctx, _ := newService(t, nil)

	_, err := svc.Extract(ctx, domain.ExtractRequest{Text: "  "})
	fields, ok := validation.Fields(err)
	require.True(t, ok)
	assert.Equal(t, []string{"text"}, fields)

	_, err = svc.Extract(companycontext.WithUserID(context.Background(), "u1"), domain.ExtractRequest{Text: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidCompany)
}
