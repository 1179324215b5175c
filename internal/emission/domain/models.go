package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Source records how an emission record entered the system.
type Source string

const (
	SourceInvoice Source = "facture"
	SourceManual  Source = "manual"
)

// PeriodLayout formats an activity date into its monthly bucket.
const PeriodLayout = "2006-01"

// EmissionRecord is one quantified activity. It is written once and never
// recomputed when the factor catalog changes.
type EmissionRecord struct {
	ID             snowflake.ID   `gorm:"primaryKey" json:"id"`
	CompanyID      snowflake.ID   `gorm:"not null;index:idx_emission_records_company_date,priority:1" json:"companyId"`
	ProjectID      *snowflake.ID  `json:"projectId,omitempty"`
	SourceFileID   *string        `gorm:"column:source_file_id" json:"sourceFileId,omitempty"`
	ActivityType   string         `gorm:"not null" json:"activityType"`
	CategoryID     *string        `gorm:"column:category_id" json:"categoryId,omitempty"`
	Scope          Scope          `gorm:"type:varchar(16);not null" json:"scope"`
	Description    string         `json:"description"`
	Quantity       float64        `gorm:"not null" json:"quantity"`
	Unit           string         `gorm:"not null" json:"unit"`
	EmissionFactor float64        `gorm:"not null" json:"emissionFactor"`
	CO2e           float64        `gorm:"column:co2e;not null" json:"co2e"`
	ActivityDate   time.Time      `gorm:"not null;index:idx_emission_records_company_date,priority:2" json:"activityDate"`
	Period         string         `gorm:"type:varchar(7);not null" json:"period"`
	Source         Source         `gorm:"type:varchar(16);not null" json:"source"`
	ExtractedData  datatypes.JSON `json:"extractedData,omitempty"`
	CreatedAt      time.Time      `gorm:"not null" json:"createdAt"`
}

func (EmissionRecord) TableName() string {
	return "emission_records"
}
