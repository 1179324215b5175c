package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/airnex/internal/emission/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, record *domain.EmissionRecord) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO emission_records (id, company_id, project_id, source_file_id, activity_type, category_id,
		 scope, description, quantity, unit, emission_factor, co2e, activity_date, period, source, extracted_data, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.CompanyID,
		record.ProjectID,
		record.SourceFileID,
		record.ActivityType,
		record.CategoryID,
		record.Scope,
		record.Description,
		record.Quantity,
		record.Unit,
		record.EmissionFactor,
		record.CO2e,
		record.ActivityDate,
		record.Period,
		record.Source,
		record.ExtractedData,
		record.CreatedAt,
	).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, companyID snowflake.ID, filter domain.ListFilter) ([]*domain.EmissionRecord, error) {
	var records []*domain.EmissionRecord
	stmt := db.WithContext(ctx).
		Model(&domain.EmissionRecord{}).
		Where("company_id = ?", companyID)
	if filter.Scope != "" {
		stmt = stmt.Where("scope = ?", filter.Scope)
	}
	if filter.From != nil {
		stmt = stmt.Where("activity_date >= ?", *filter.From)
	}
	if filter.To != nil {
		stmt = stmt.Where("activity_date < ?", *filter.To)
	}
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit)
	}
	err := stmt.
		Order("activity_date desc, id desc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repo) ListInWindow(ctx context.Context, db *gorm.DB, companyID snowflake.ID, from, to time.Time) ([]*domain.EmissionRecord, error) {
	return r.List(ctx, db, companyID, domain.ListFilter{From: &from, To: &to})
}

func (r *repo) Count(ctx context.Context, db *gorm.DB, companyID snowflake.ID, from, to time.Time) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.EmissionRecord{}).
		Where("company_id = ? AND activity_date >= ? AND activity_date < ?", companyID, from, to).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
