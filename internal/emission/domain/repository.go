package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// ListFilter narrows a tenant-scoped listing. From is inclusive, To exclusive.
type ListFilter struct {
	Scope Scope
	From  *time.Time
	To    *time.Time
	Limit int
}

// Repository reads and writes emission records. Every read takes the owning
// company as its first argument after the connection.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, record *EmissionRecord) error
	List(ctx context.Context, db *gorm.DB, companyID snowflake.ID, filter ListFilter) ([]*EmissionRecord, error)
	ListInWindow(ctx context.Context, db *gorm.DB, companyID snowflake.ID, from, to time.Time) ([]*EmissionRecord, error)
	Count(ctx context.Context, db *gorm.DB, companyID snowflake.ID, from, to time.Time) (int64, error)
}
