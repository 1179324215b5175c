package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	companydomain "github.com/smallbiznis/airnex/internal/company/domain"
	emissiondomain "github.com/smallbiznis/airnex/internal/emission/domain"
	"github.com/smallbiznis/airnex/internal/factor"
	"gorm.io/gorm"
)

const (
	demoCompanyName = "AirNex Démo"
	demoCompanySlug = "airnex-demo"
	demoSector      = "Services"
	demoMonths      = 6
)

// demoActivity is one monthly line of the demo dataset.
type demoActivity struct {
	category string
	quantity float64
}

var demoActivities = []demoActivity{
	{category: "electricity", quantity: 4200},
	{category: "natural_gas", quantity: 1800},
	{category: "diesel", quantity: 140},
	{category: "train", quantity: 900},
	{category: "purchased_services", quantity: 2500},
}

// EnsureDemoCompany bootstraps a company owned by userID with six months of
// sample activity. It is safe to call on every start: existing rows are
// reused and the sample records are only written into an empty company.
func EnsureDemoCompany(ctx context.Context, db *gorm.DB, node *snowflake.Node, table *factor.Table, userID string, now time.Time) (*companydomain.Company, error) {
	if db == nil {
		return nil, errors.New("seed database handle is required")
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, companydomain.ErrInvalidUser
	}

	var company companydomain.Company
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		company, err = ensureCompanyTx(ctx, tx, node, now)
		if err != nil {
			return err
		}
		if err := ensureAdminTx(ctx, tx, company.ID, userID, now); err != nil {
			return err
		}
		return ensureRecordsTx(ctx, tx, node, table, company.ID, now)
	})
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func ensureCompanyTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, now time.Time) (companydomain.Company, error) {
	var company companydomain.Company
	err := tx.WithContext(ctx).Where("slug = ?", demoCompanySlug).First(&company).Error
	if err == nil {
		return company, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return company, err
	}
	company = companydomain.Company{
		ID:        node.Generate(),
		Name:      demoCompanyName,
		Slug:      demoCompanySlug,
		Sector:    demoSector,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(&company).Error; err != nil {
		return company, err
	}
	return company, nil
}

func ensureAdminTx(ctx context.Context, tx *gorm.DB, companyID snowflake.ID, userID string, now time.Time) error {
	var member companydomain.Member
	err := tx.WithContext(ctx).
		Where("company_id = ? AND user_id = ?", companyID, userID).
		First(&member).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	member = companydomain.Member{
		CompanyID: companyID,
		UserID:    userID,
		Role:      companydomain.RoleAdmin,
		CreatedAt: now,
	}
	return tx.WithContext(ctx).Create(&member).Error
}

func ensureRecordsTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, table *factor.Table, companyID snowflake.ID, now time.Time) error {
	var count int64
	if err := tx.WithContext(ctx).
		Model(&emissiondomain.EmissionRecord{}).
		Where("company_id = ?", companyID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	records, err := demoRecords(node, table, companyID, now)
	if err != nil {
		return err
	}
	return tx.WithContext(ctx).Create(&records).Error
}

// demoRecords spreads the demo activities over the months preceding now,
// dated mid-month.
func demoRecords(node *snowflake.Node, table *factor.Table, companyID snowflake.ID, now time.Time) ([]emissiondomain.EmissionRecord, error) {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	records := make([]emissiondomain.EmissionRecord, 0, demoMonths*len(demoActivities))
	for month := 1; month <= demoMonths; month++ {
		date := firstOfMonth.AddDate(0, -month, 14)
		for _, activity := range demoActivities {
			category, ok := table.Category(activity.category)
			if !ok {
				return nil, fmt.Errorf("demo category %q missing from factor table", activity.category)
			}
			key := category.Key
			records = append(records, emissiondomain.EmissionRecord{
				ID:             node.Generate(),
				CompanyID:      companyID,
				ActivityType:   category.Key,
				CategoryID:     &key,
				Scope:          category.Scope,
				Description:    category.Label,
				Quantity:       activity.quantity,
				Unit:           category.Unit,
				EmissionFactor: category.Factor,
				CO2e:           factor.Calculate(activity.quantity, category.Factor),
				ActivityDate:   date,
				Period:         date.Format(emissiondomain.PeriodLayout),
				Source:         emissiondomain.SourceManual,
				CreatedAt:      now,
			})
		}
	}
	return records, nil
}
