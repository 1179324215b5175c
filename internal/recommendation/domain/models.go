package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Category string

const (
	CategoryEnergy      Category = "ENERGY"
	CategoryTransport   Category = "TRANSPORT"
	CategoryWaste       Category = "WASTE"
	CategoryProcurement Category = "PROCUREMENT"
	CategoryProcess     Category = "PROCESS"
	CategoryOther       Category = "OTHER"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryEnergy, CategoryTransport, CategoryWaste, CategoryProcurement, CategoryProcess, CategoryOther:
		return true
	default:
		return false
	}
}

type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	default:
		return false
	}
}

// rank orders priorities for display, most urgent first.
func (p Priority) rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	default:
		return 3
	}
}

// Before reports whether p sorts ahead of other.
func (p Priority) Before(other Priority) bool {
	return p.rank() < other.rank()
}

type Effort string

const (
	EffortLow    Effort = "LOW"
	EffortMedium Effort = "MEDIUM"
	EffortHigh   Effort = "HIGH"
)

func (e Effort) Valid() bool {
	switch e {
	case EffortLow, EffortMedium, EffortHigh:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusPending     Status = "PENDING"
	StatusInProgress  Status = "IN_PROGRESS"
	StatusImplemented Status = "IMPLEMENTED"
	StatusIgnored     Status = "IGNORED"
)

var transitions = map[Status][]Status{
	StatusPending:    {StatusInProgress, StatusIgnored},
	StatusInProgress: {StatusImplemented},
}

// CanTransition reports whether a recommendation may move from s to next.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Batch marks one generation run for a company. (company_id, generation) is
// unique, which is what makes concurrent first generations collide.
type Batch struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID  snowflake.ID `gorm:"not null;uniqueIndex:ux_recommendation_batches_company_generation,priority:1" json:"companyId"`
	Generation int          `gorm:"not null;uniqueIndex:ux_recommendation_batches_company_generation,priority:2" json:"generation"`
	TotalCO2e  float64      `gorm:"column:total_co2e;not null" json:"totalCo2e"`
	CreatedAt  time.Time    `gorm:"not null" json:"createdAt"`
}

func (Batch) TableName() string {
	return "recommendation_batches"
}

type Recommendation struct {
	ID                snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID         snowflake.ID `gorm:"not null;index" json:"companyId"`
	BatchID           snowflake.ID `gorm:"not null;index" json:"batchId"`
	Title             string       `gorm:"not null" json:"title"`
	Description       string       `gorm:"not null" json:"description"`
	Category          Category     `gorm:"type:varchar(16);not null" json:"category"`
	Priority          Priority     `gorm:"type:varchar(16);not null" json:"priority"`
	EstimatedImpactKg float64      `gorm:"column:estimated_impact_kg;not null" json:"estimatedImpact"`
	Effort            Effort       `gorm:"type:varchar(16);not null" json:"effort"`
	Reasoning         string       `json:"reasoning"`
	Status            Status       `gorm:"type:varchar(16);not null" json:"status"`
	AIGenerated       bool         `gorm:"column:ai_generated;not null" json:"aiGenerated"`
	CreatedAt         time.Time    `gorm:"not null" json:"createdAt"`
	UpdatedAt         time.Time    `gorm:"not null" json:"updatedAt"`
}

func (Recommendation) TableName() string {
	return "ai_recommendations"
}
