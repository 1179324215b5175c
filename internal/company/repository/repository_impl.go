package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/airnex/internal/company/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, company *domain.Company) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO companies (id, name, slug, siret, sector, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		company.ID,
		company.Name,
		company.Slug,
		company.SIRET,
		company.Sector,
		company.CreatedAt,
		company.UpdatedAt,
	).Error
}

func (r *repo) InsertMember(ctx context.Context, db *gorm.DB, member *domain.Member) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO company_members (company_id, user_id, role, created_at) VALUES (?, ?, ?, ?)`,
		member.CompanyID,
		member.UserID,
		member.Role,
		member.CreatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Company, error) {
	var company domain.Company
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, slug, siret, sector, created_at, updated_at FROM companies WHERE id = ?`,
		id,
	).Scan(&company).Error
	if err != nil {
		return nil, err
	}
	if company.ID == 0 {
		return nil, nil
	}
	return &company, nil
}

func (r *repo) FindMembershipByUser(ctx context.Context, db *gorm.DB, userID string) (*domain.Member, error) {
	var member domain.Member
	err := db.WithContext(ctx).Raw(
		`SELECT company_id, user_id, role, created_at FROM company_members
		 WHERE user_id = ? ORDER BY created_at ASC, company_id ASC LIMIT 1`,
		userID,
	).Scan(&member).Error
	if err != nil {
		return nil, err
	}
	if member.CompanyID == 0 {
		return nil, nil
	}
	return &member, nil
}

func (r *repo) SlugExists(ctx context.Context, db *gorm.DB, slug string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Raw(`SELECT COUNT(1) FROM companies WHERE slug = ?`, slug).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
