package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Type string

const (
	TypeCarbonBalance Type = "CARBON_BALANCE"
	TypeESG           Type = "ESG"
	TypeCSRD          Type = "CSRD"
)

// ParseType accepts the canonical names case-insensitively. Empty means a
// carbon balance.
func ParseType(raw string) (Type, error) {
	switch t := Type(strings.ToUpper(strings.TrimSpace(raw))); t {
	case "":
		return TypeCarbonBalance, nil
	case TypeCarbonBalance, TypeESG, TypeCSRD:
		return t, nil
	default:
		return "", ErrInvalidType
	}
}

// Label is the human title printed on the document.
func (t Type) Label() string {
	switch t {
	case TypeESG:
		return "Rapport ESG"
	case TypeCSRD:
		return "Rapport CSRD"
	default:
		return "Bilan Carbone"
	}
}

// Report is the stored snapshot of one generated document. Rows are never
// updated after insert.
type Report struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID   snowflake.ID `gorm:"not null;index:idx_reports_company_generated,priority:1" json:"companyId"`
	Reference   string       `gorm:"type:varchar(26);not null;uniqueIndex" json:"reference"`
	Type        Type         `gorm:"type:varchar(32);not null" json:"type"`
	Title       string       `gorm:"not null" json:"title"`
	PeriodLabel string       `gorm:"not null" json:"periodLabel"`
	StartDate   time.Time    `gorm:"not null" json:"startDate"`
	EndDate     time.Time    `gorm:"not null" json:"endDate"`
	TotalCO2e   float64      `gorm:"column:total_co2e;not null" json:"totalCo2e"`
	Scope1      float64      `gorm:"column:scope1;not null" json:"scope1"`
	Scope2      float64      `gorm:"column:scope2;not null" json:"scope2"`
	Scope3      float64      `gorm:"column:scope3;not null" json:"scope3"`
	RecordCount int          `gorm:"not null" json:"recordCount"`
	GeneratedAt time.Time    `gorm:"not null;index:idx_reports_company_generated,priority:2" json:"generatedAt"`
}

func (Report) TableName() string {
	return "reports"
}
