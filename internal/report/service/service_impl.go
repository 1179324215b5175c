package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	"github.com/smallbiznis/airnex/internal/aggregation"
	"github.com/smallbiznis/airnex/internal/clock"
	companydomain "github.com/smallbiznis/airnex/internal/company/domain"
	"github.com/smallbiznis/airnex/internal/companycontext"
	emissiondomain "github.com/smallbiznis/airnex/internal/emission/domain"
	obsmetrics "github.com/smallbiznis/airnex/internal/observability/metrics"
	"github.com/smallbiznis/airnex/internal/providers/pdf"
	"github.com/smallbiznis/airnex/internal/report/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	productName = "AirNex"

	// renderedRecordCap bounds the records handed to the renderer; the
	// aggregate still covers the whole window.
	renderedRecordCap = 100

	listLimit = 100
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      domain.Repository
	Companies companydomain.Repository
	Emissions emissiondomain.Repository
	Renderer  pdf.Renderer
	Metrics   *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	repo      domain.Repository
	companies companydomain.Repository
	emissions emissiondomain.Repository
	renderer  pdf.Renderer
	metrics   *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("report.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		companies: p.Companies,
		emissions: p.Emissions,
		renderer:  p.Renderer,
		metrics:   p.Metrics,
	}
}

// Generate renders the last twelve months and stores the snapshot. The
// document is only returned once the snapshot is persisted.
func (s *Service) Generate(ctx context.Context, req domain.GenerateRequest) (domain.Generated, error) {
	companyID, ok := companycontext.CompanyIDFromContext(ctx)
	if !ok {
		return domain.Generated{}, domain.ErrInvalidCompany
	}
	reportType, err := domain.ParseType(req.Type)
	if err != nil {
		return domain.Generated{}, err
	}

	company, err := s.companies.FindByID(ctx, s.db, companyID)
	if err != nil {
		return domain.Generated{}, err
	}
	if company == nil {
		return domain.Generated{}, companydomain.ErrNotFound
	}

	now := s.clock.Now()
	start, end := aggregation.Window(aggregation.PeriodOneYear, now)
	records, err := s.emissions.ListInWindow(ctx, s.db, companyID, start, end)
	if err != nil {
		return domain.Generated{}, fmt.Errorf("load emission records: %w", err)
	}
	agg := aggregation.Aggregate(aggregation.FromEmissions(records))

	periodLabel := "Bilan " + strconv.Itoa(now.Year())
	report := domain.Report{
		ID:          s.genID.Generate(),
		CompanyID:   companyID,
		Reference:   ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		Type:        reportType,
		Title:       reportType.Label() + " " + company.Name,
		PeriodLabel: periodLabel,
		StartDate:   start,
		EndDate:     end,
		TotalCO2e:   agg.Total,
		Scope1:      agg.ByScope.Scope1,
		Scope2:      agg.ByScope.Scope2,
		Scope3:      agg.ByScope.Scope3,
		RecordCount: len(records),
		GeneratedAt: now,
	}

	out, err := s.renderer.RenderCarbonReport(ctx, renderData(report, company, records))
	if err != nil {
		return domain.Generated{}, err
	}

	if err := s.repo.Insert(ctx, s.db, &report); err != nil {
		return domain.Generated{}, fmt.Errorf("store report: %w", err)
	}

	s.metrics.RecordReportGenerated(ctx, string(reportType))
	s.log.Info("report generated",
		zap.String("company_id", companyID.String()),
		zap.String("reference", report.Reference),
		zap.String("type", string(reportType)),
		zap.Int("records", report.RecordCount),
	)
	return domain.Generated{Report: report, PDF: out}, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Report, error) {
	companyID, ok := companycontext.CompanyIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidCompany
	}

	items, err := s.repo.List(ctx, s.db, companyID, listLimit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Report, 0, len(items))
	for _, item := range items {
		out = append(out, *item)
	}
	return out, nil
}

func renderData(report domain.Report, company *companydomain.Company, records []*emissiondomain.EmissionRecord) pdf.CarbonReportData {
	data := pdf.CarbonReportData{
		ProductName: productName,
		TypeLabel:   report.Type.Label(),
		Reference:   report.Reference,
		PeriodLabel: report.PeriodLabel,
		GeneratedAt: report.GeneratedAt,
		Company: pdf.CompanyBlock{
			Name:   company.Name,
			Sector: company.Sector,
		},
		Total: report.TotalCO2e,
		ByScope: aggregation.ScopeTotals{
			Scope1: report.Scope1,
			Scope2: report.Scope2,
			Scope3: report.Scope3,
		},
	}
	if company.SIRET != nil {
		data.Company.SIRET = *company.SIRET
	}

	if len(records) > renderedRecordCap {
		records = records[:renderedRecordCap]
	}
	data.Records = make([]pdf.RecordLine, 0, len(records))
	for _, r := range records {
		desc := r.Description
		if desc == "" {
			desc = r.ActivityType
		}
		data.Records = append(data.Records, pdf.RecordLine{
			Date:        r.ActivityDate,
			Description: desc,
			Scope:       string(r.Scope),
			CO2e:        r.CO2e,
		})
	}
	return data
}
