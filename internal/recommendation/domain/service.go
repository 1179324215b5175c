package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/airnex/internal/aggregation"
)

// GenerationInput is the aggregate a generator reasons over.
type GenerationInput struct {
	Total      float64
	ByScope    aggregation.ScopeTotals
	ByCategory []aggregation.CategoryTotal
}

// Draft is a validated, not yet persisted recommendation.
type Draft struct {
	Title             string
	Description       string
	Category          Category
	Priority          Priority
	EstimatedImpactKg float64
	Effort            Effort
	Reasoning         string
}

// Generator produces reduction actions from aggregated emissions.
type Generator interface {
	Generate(ctx context.Context, input GenerationInput) ([]Draft, error)
}

type Service interface {
	// GetOrGenerate returns the company's current set, generating it the
	// first time. Generator failures yield the (empty) current set.
	GetOrGenerate(ctx context.Context) ([]Recommendation, error)
	Regenerate(ctx context.Context) ([]Recommendation, error)
	UpdateStatus(ctx context.Context, id string, status string) (Recommendation, error)
}

var (
	ErrInvalidCompany        = errors.New("invalid_company")
	ErrInvalidID             = errors.New("invalid_id")
	ErrInvalidStatus         = errors.New("invalid_status")
	ErrInvalidTransition     = errors.New("invalid_transition")
	ErrNotFound              = errors.New("recommendation_not_found")
	ErrInvalidRecommendation = errors.New("invalid_recommendation")
)
