package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/airnex/internal/aggregation"
)

// Stats is the dashboard payload.
type Stats struct {
	aggregation.Result
	Trends aggregation.TrendBlock `json:"trends"`
}

type Service interface {
	Stats(ctx context.Context, period string) (Stats, error)
}

var ErrInvalidCompany = errors.New("invalid_company")
