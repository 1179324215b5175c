package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository is append-only.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, report *Report) error
	List(ctx context.Context, db *gorm.DB, companyID snowflake.ID, limit int) ([]*Report, error)
	FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*Report, error)
}
