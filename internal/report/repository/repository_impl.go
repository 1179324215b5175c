package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/airnex/internal/report/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, report *domain.Report) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO reports (
			id, company_id, reference, type, title, period_label, start_date, end_date,
			total_co2e, scope1, scope2, scope3, record_count, generated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.ID,
		report.CompanyID,
		report.Reference,
		report.Type,
		report.Title,
		report.PeriodLabel,
		report.StartDate,
		report.EndDate,
		report.TotalCO2e,
		report.Scope1,
		report.Scope2,
		report.Scope3,
		report.RecordCount,
		report.GeneratedAt,
	).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, companyID snowflake.ID, limit int) ([]*domain.Report, error) {
	var items []*domain.Report
	stmt := db.WithContext(ctx).
		Model(&domain.Report{}).
		Where("company_id = ?", companyID).
		Order("generated_at desc, id desc")
	if limit > 0 {
		stmt = stmt.Limit(limit)
	}
	if err := stmt.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*domain.Report, error) {
	var item domain.Report
	err := db.WithContext(ctx).
		Model(&domain.Report{}).
		Where("company_id = ? AND id = ?", companyID, id).
		Limit(1).
		Find(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}
