package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/airnex/internal/clock"
	companydomain "github.com/smallbiznis/airnex/internal/company/domain"
	companyrepository "github.com/smallbiznis/airnex/internal/company/repository"
	"github.com/smallbiznis/airnex/internal/companycontext"
	emissiondomain "github.com/smallbiznis/airnex/internal/emission/domain"
	emissionrepository "github.com/smallbiznis/airnex/internal/emission/repository"
	"github.com/smallbiznis/airnex/internal/providers/pdf"
	"github.com/smallbiznis/airnex/internal/report/domain"
	"github.com/smallbiznis/airnex/internal/report/repository"
	"github.com/smallbiznis/airnex/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var now = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

type captureRenderer struct {
	data pdf.CarbonReportData
	out  []byte
	err  error
}

func (r *captureRenderer) RenderCarbonReport(_ context.Context, data pdf.CarbonReportData) ([]byte, error) {
	r.data = data
	return r.out, r.err
}

type failingRepo struct {
	domain.Repository
}

func (failingRepo) Insert(context.Context, *gorm.DB, *domain.Report) error {
	return errors.New("disk full")
}

type fixture struct {
	db      *gorm.DB
	node    *snowflake.Node
	ctx     context.Context
	company *companydomain.Company
	clock   *clock.FakeClock
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := testutil.NewDB(t)
	node := testutil.NewNode(t)
	ctx, company := testutil.SeedCompany(t, db, node, "Menuiserie Petit")
	return fixture{db: db, node: node, ctx: ctx, company: company, clock: clock.NewFakeClock(now)}
}

func (f fixture) service(repo domain.Repository, renderer pdf.Renderer) domain.Service {
	return New(Params{
		DB:        f.db,
		Log:       zap.NewNop(),
		GenID:     f.node,
		Clock:     f.clock,
		Repo:      repo,
		Companies: companyrepository.Provide(),
		Emissions: emissionrepository.Provide(),
		Renderer:  renderer,
	})
}

func (f fixture) seed(t *testing.T, n int, at func(i int) time.Time) {
	t.Helper()
	for i := 0; i < n; i++ {
		date := at(i)
		require.NoError(t, f.db.Create(&emissiondomain.EmissionRecord{
			ID:             f.node.Generate(),
			CompanyID:      f.company.ID,
			ActivityType:   "Électricité",
			Scope:          emissiondomain.Scope2,
			Quantity:       10,
			Unit:           "kWh",
			EmissionFactor: 0.1,
			CO2e:           1,
			ActivityDate:   date,
			Period:         date.Format(emissiondomain.PeriodLayout),
			Source:         emissiondomain.SourceManual,
			CreatedAt:      date,
		}).Error)
	}
}

func TestGenerateSnapshotsAndCapsRenderedRecords(t *testing.T) {
	f := newFixture(t)
	f.seed(t, 130, func(i int) time.Time { return now.Add(-time.Duration(i+1) * time.Hour) })
	f.seed(t, 5, func(i int) time.Time { return now.AddDate(-2, 0, -i) })

	renderer := &captureRenderer{out: []byte("%PDF-1.3 fake")}
	svc := f.service(repository.Provide(), renderer)

	got, err := svc.Generate(f.ctx, domain.GenerateRequest{Type: "csrd"})
	require.NoError(t, err)

	assert.Equal(t, []byte("%PDF-1.3 fake"), got.PDF)
	assert.Equal(t, domain.TypeCSRD, got.Report.Type)
	assert.Equal(t, 130, got.Report.RecordCount)
	assert.InDelta(t, 130, got.Report.TotalCO2e, 1e-9)
	assert.InDelta(t, 130, got.Report.Scope2, 1e-9)
	assert.Len(t, got.Report.Reference, 26)
	assert.Equal(t, "Bilan 2026", got.Report.PeriodLabel)
	assert.True(t, got.Report.EndDate.Equal(now))
	assert.True(t, got.Report.StartDate.Equal(now.AddDate(-1, 0, 0)))

	require.Len(t, renderer.data.Records, renderedRecordCap)
	assert.True(t, renderer.data.Records[0].Date.Equal(now.Add(-time.Hour)), "newest first")
	assert.Equal(t, "Menuiserie Petit", renderer.data.Company.Name)
	assert.Equal(t, "Rapport CSRD", renderer.data.TypeLabel)

	listed, err := svc.List(f.ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, got.Report.Reference, listed[0].Reference)
}

func TestGenerateWithRealRenderer(t *testing.T) {
	f := newFixture(t)
	f.seed(t, 25, func(i int) time.Time { return now.AddDate(0, 0, -i-1) })

	got, err := f.service(repository.Provide(), pdf.New()).Generate(f.ctx, domain.GenerateRequest{})
	require.NoError(t, err)
	assert.Equal(t, domain.TypeCarbonBalance, got.Report.Type)
	assert.True(t, bytes.HasPrefix(got.PDF, []byte("%PDF")))
}

func TestGenerateReturnsNothingWhenRenderFails(t *testing.T) {
	f := newFixture(t)
	svc := f.service(repository.Provide(), &captureRenderer{err: errors.New("font missing")})

	got, err := svc.Generate(f.ctx, domain.GenerateRequest{Type: "ESG"})
	require.Error(t, err)
	assert.Nil(t, got.PDF)

	listed, err := svc.List(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestGenerateDiscardsBytesWhenPersistenceFails(t *testing.T) {
	f := newFixture(t)
	svc := f.service(failingRepo{Repository: repository.Provide()}, &captureRenderer{out: []byte("%PDF")})

	got, err := svc.Generate(f.ctx, domain.GenerateRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Nil(t, got.PDF)
}

func TestGenerateValidatesInput(t *testing.T) {
	f := newFixture(t)
	svc := f.service(repository.Provide(), &captureRenderer{out: []byte("%PDF")})

	_, err := svc.Generate(f.ctx, domain.GenerateRequest{Type: "ANNUAL"})
	assert.ErrorIs(t, err, domain.ErrInvalidType)

	_, err = svc.Generate(context.Background(), domain.GenerateRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidCompany)

	ghost := companycontext.WithCompanyID(context.Background(), f.node.Generate())
	_, err = svc.Generate(ghost, domain.GenerateRequest{})
	assert.ErrorIs(t, err, companydomain.ErrNotFound)
}

func TestListNewestFirst(t *testing.T) {
	f := newFixture(t)
	svc := f.service(repository.Provide(), &captureRenderer{out: []byte("%PDF")})

	first, err := svc.Generate(f.ctx, domain.GenerateRequest{})
	require.NoError(t, err)
	f.clock.Advance(24 * time.Hour)
	second, err := svc.Generate(f.ctx, domain.GenerateRequest{Type: "ESG"})
	require.NoError(t, err)

	listed, err := svc.List(f.ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, second.Report.ID, listed[0].ID)
	assert.Equal(t, first.Report.ID, listed[1].ID)
}
