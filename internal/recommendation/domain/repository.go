package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	InsertBatch(ctx context.Context, db *gorm.DB, batch *Batch) error
	InsertRecommendations(ctx context.Context, db *gorm.DB, items []*Recommendation) error
	// LatestBatch returns nil when the company has never generated.
	LatestBatch(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (*Batch, error)
	ListByBatch(ctx context.Context, db *gorm.DB, companyID, batchID snowflake.ID) ([]*Recommendation, error)
	FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*Recommendation, error)
	// UpdateStatus is a compare-and-set on the current status.
	UpdateStatus(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID, from, to Status, at time.Time) (bool, error)
}
