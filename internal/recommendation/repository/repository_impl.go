package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/airnex/internal/recommendation/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertBatch(ctx context.Context, db *gorm.DB, batch *domain.Batch) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO recommendation_batches (id, company_id, generation, total_co2e, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		batch.ID,
		batch.CompanyID,
		batch.Generation,
		batch.TotalCO2e,
		batch.CreatedAt,
	).Error
}

func (r *repo) InsertRecommendations(ctx context.Context, db *gorm.DB, items []*domain.Recommendation) error {
	if len(items) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(items).Error
}

func (r *repo) LatestBatch(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (*domain.Batch, error) {
	var batch domain.Batch
	err := db.WithContext(ctx).Raw(
		`SELECT id, company_id, generation, total_co2e, created_at FROM recommendation_batches
		 WHERE company_id = ? ORDER BY generation DESC LIMIT 1`,
		companyID,
	).Scan(&batch).Error
	if err != nil {
		return nil, err
	}
	if batch.ID == 0 {
		return nil, nil
	}
	return &batch, nil
}

func (r *repo) ListByBatch(ctx context.Context, db *gorm.DB, companyID, batchID snowflake.ID) ([]*domain.Recommendation, error) {
	var items []*domain.Recommendation
	err := db.WithContext(ctx).
		Model(&domain.Recommendation{}).
		Where("company_id = ? AND batch_id = ?", companyID, batchID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*domain.Recommendation, error) {
	var item domain.Recommendation
	err := db.WithContext(ctx).
		Model(&domain.Recommendation{}).
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

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID, from, to domain.Status, at time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE ai_recommendations SET status = ?, updated_at = ?
		 WHERE company_id = ? AND id = ? AND status = ?`,
		to,
		at,
		companyID,
		id,
		from,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
