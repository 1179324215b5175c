package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/airnex/internal/classifier"
	"github.com/smallbiznis/airnex/internal/clock"
	"github.com/smallbiznis/airnex/internal/companycontext"
	"github.com/smallbiznis/airnex/internal/config"
	"github.com/smallbiznis/airnex/internal/emission/domain"
	"github.com/smallbiznis/airnex/internal/factor"
	obsmetrics "github.com/smallbiznis/airnex/internal/observability/metrics"
	"github.com/smallbiznis/airnex/pkg/validation"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       domain.Repository
	Factors    *config.FactorTableHolder
	Classifier classifier.Classifier
	Metrics    *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       domain.Repository
	factors    *config.FactorTableHolder
	classifier classifier.Classifier
	metrics    *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("emission.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		factors:    p.Factors,
		classifier: p.Classifier,
		metrics:    p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.EmissionRecord, error) {
	return s.create(ctx, req, domain.SourceManual, nil)
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.EmissionRecord, error) {
	companyID, ok := companycontext.CompanyIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidCompany
	}

	filter := domain.ListFilter{From: req.From, To: req.To}
	if raw := strings.TrimSpace(req.Scope); raw != "" {
		scope, err := domain.ParseScope(raw)
		if err != nil {
			return nil, err
		}
		filter.Scope = scope
	}

	switch {
	case req.Limit < 0:
		return nil, domain.ErrInvalidLimit
	case req.Limit == 0:
		filter.Limit = domain.DefaultListLimit
	case req.Limit > domain.MaxListLimit:
		filter.Limit = domain.MaxListLimit
	default:
		filter.Limit = req.Limit
	}

	items, err := s.repo.List(ctx, s.db, companyID, filter)
	if err != nil {
		return nil, err
	}

	records := make([]domain.EmissionRecord, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		records = append(records, *item)
	}
	return records, nil
}

func (s *Service) Extract(ctx context.Context, req domain.ExtractRequest) (domain.EmissionRecord, error) {
	if _, ok := companycontext.CompanyIDFromContext(ctx); !ok {
		return domain.EmissionRecord{}, domain.ErrInvalidCompany
	}
	if strings.TrimSpace(req.Text) == "" {
		return domain.EmissionRecord{}, validation.Field("text")
	}

	cls, err := s.classifier.Classify(ctx, classifier.Evidence{Text: req.Text, FileName: req.FileName})
	if err != nil {
		return domain.EmissionRecord{}, err
	}

	raw, err := json.Marshal(cls)
	if err != nil {
		return domain.EmissionRecord{}, fmt.Errorf("encode classification: %w", err)
	}

	quantity := cls.Quantity
	create := domain.CreateRequest{
		ActivityType:   cls.ActivityType,
		CategoryKey:    cls.CategoryKey,
		Scope:          string(cls.Scope),
		Description:    cls.Description,
		Quantity:       &quantity,
		Unit:           cls.Unit,
		EmissionFactor: cls.EmissionFactor,
		ActivityDate:   cls.ActivityDate,
		ProjectID:      req.ProjectID,
		SourceFileID:   req.SourceFileID,
	}
	if create.ActivityDate == nil {
		now := s.clock.Now()
		create.ActivityDate = &now
	}
	if _, known := s.factors.Get().Category(create.CategoryKey); !known {
		// the model may invent keys; keep its label and factor instead
		create.CategoryKey = ""
	}

	return s.create(ctx, create, domain.SourceInvoice, datatypes.JSON(raw))
}

func (s *Service) create(ctx context.Context, req domain.CreateRequest, source domain.Source, extracted datatypes.JSON) (domain.EmissionRecord, error) {
	companyID, ok := companycontext.CompanyIDFromContext(ctx)
	if !ok {
		return domain.EmissionRecord{}, domain.ErrInvalidCompany
	}

	table := s.factors.Get()
	var invalid validation.Errors

	var category *factor.Category
	if key := strings.TrimSpace(req.CategoryKey); key != "" {
		c, found := table.Category(key)
		if !found {
			invalid.Add("categoryKey")
		} else {
			category = &c
		}
	}

	activityType := strings.TrimSpace(req.ActivityType)
	if activityType == "" && category != nil {
		activityType = category.Label
	}
	if activityType == "" && category == nil {
		invalid.Add("activityType")
	}

	var scope domain.Scope
	if raw := strings.TrimSpace(req.Scope); raw != "" {
		parsed, err := domain.ParseScope(raw)
		if err != nil {
			invalid.Add("scope")
		}
		scope = parsed
	} else if category != nil {
		scope = category.Scope
	} else {
		invalid.Add("scope")
	}

	if req.Quantity == nil || !isFinite(*req.Quantity) || *req.Quantity < 0 {
		invalid.Add("quantity")
	}

	unit := strings.TrimSpace(req.Unit)
	if unit == "" && category != nil {
		unit = category.Unit
	}
	if unit == "" {
		invalid.Add("unit")
	}

	var emissionFactor float64
	switch {
	case req.EmissionFactor != nil:
		if !isFinite(*req.EmissionFactor) {
			invalid.Add("emissionFactor")
		}
		emissionFactor = *req.EmissionFactor
	case category != nil:
		emissionFactor = category.Factor
	default:
		f, found := table.Factor(activityType)
		if !found {
			invalid.Add("emissionFactor")
		}
		emissionFactor = f
	}

	if req.ActivityDate == nil || req.ActivityDate.IsZero() {
		invalid.Add("activityDate")
	}

	var projectID *snowflake.ID
	if raw := strings.TrimSpace(req.ProjectID); raw != "" {
		parsed, err := snowflake.ParseString(raw)
		if err != nil || parsed == 0 {
			invalid.Add("projectId")
		} else {
			projectID = &parsed
		}
	}

	if err := invalid.Err(); err != nil {
		return domain.EmissionRecord{}, err
	}

	activityDate := req.ActivityDate.UTC()
	record := domain.EmissionRecord{
		ID:             s.genID.Generate(),
		CompanyID:      companyID,
		ProjectID:      projectID,
		SourceFileID:   optionalString(req.SourceFileID),
		ActivityType:   activityType,
		Scope:          scope,
		Description:    strings.TrimSpace(req.Description),
		Quantity:       *req.Quantity,
		Unit:           unit,
		EmissionFactor: emissionFactor,
		CO2e:           factor.Calculate(*req.Quantity, emissionFactor),
		ActivityDate:   activityDate,
		Period:         activityDate.Format(domain.PeriodLayout),
		Source:         source,
		ExtractedData:  extracted,
		CreatedAt:      s.clock.Now(),
	}
	if category != nil {
		record.CategoryID = optionalString(category.Key)
	}

	if err := s.repo.Insert(ctx, s.db, &record); err != nil {
		return domain.EmissionRecord{}, fmt.Errorf("insert emission record: %w", err)
	}

	s.metrics.RecordEmissionRecord(ctx, string(record.Scope), string(record.Source))
	s.log.Debug("emission record created",
		zap.String("company_id", companyID.String()),
		zap.String("record_id", record.ID.String()),
		zap.String("scope", string(record.Scope)),
		zap.Float64("co2e", record.CO2e),
	)
	return record, nil
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
