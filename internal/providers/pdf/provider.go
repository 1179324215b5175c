package pdf

import (
	"context"
	"time"

	"github.com/smallbiznis/airnex/internal/aggregation"
)

// Renderer turns a report snapshot into PDF bytes. Either the whole document
// is returned or an error, never a partial buffer.
type Renderer interface {
	RenderCarbonReport(ctx context.Context, data CarbonReportData) ([]byte, error)
}

type CompanyBlock struct {
	Name   string
	SIRET  string
	Sector string
}

type RecordLine struct {
	Date        time.Time
	Description string
	Scope       string
	CO2e        float64
}

type CarbonReportData struct {
	ProductName string
	TypeLabel   string
	Reference   string
	PeriodLabel string
	GeneratedAt time.Time
	Company     CompanyBlock
	Total       float64
	ByScope     aggregation.ScopeTotals
	Records     []RecordLine
}
