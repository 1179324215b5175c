package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, company *Company) error
	InsertMember(ctx context.Context, db *gorm.DB, member *Member) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Company, error)
	// FindMembershipByUser returns the user's oldest membership.
	FindMembershipByUser(ctx context.Context, db *gorm.DB, userID string) (*Member, error)
	SlugExists(ctx context.Context, db *gorm.DB, slug string) (bool, error)
}
