package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	RoleViewer Role = "viewer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleMember, RoleViewer:
		return true
	default:
		return false
	}
}

// Company is the tenant every emission record belongs to.
type Company struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"not null" json:"name"`
	Slug      string       `gorm:"type:varchar(191);not null;uniqueIndex" json:"slug"`
	SIRET     *string      `gorm:"column:siret;type:varchar(14)" json:"siret,omitempty"`
	Sector    string       `json:"sector,omitempty"`
	CreatedAt time.Time    `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time    `gorm:"not null" json:"updatedAt"`
}

func (Company) TableName() string {
	return "companies"
}

// Member links an identity-provider user to a company.
type Member struct {
	CompanyID snowflake.ID `gorm:"primaryKey" json:"companyId"`
	UserID    string       `gorm:"primaryKey;type:varchar(191);index" json:"userId"`
	Role      Role         `gorm:"type:varchar(16);not null" json:"role"`
	CreatedAt time.Time    `gorm:"not null" json:"createdAt"`
}

func (Member) TableName() string {
	return "company_members"
}
