package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/smallbiznis/airnex/internal/clock"
	"github.com/smallbiznis/airnex/internal/company/domain"
	"github.com/smallbiznis/airnex/pkg/validation"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("company.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) ResolveForUser(ctx context.Context, userID string) (domain.Membership, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.Membership{}, domain.ErrInvalidUser
	}

	member, err := s.repo.FindMembershipByUser(ctx, s.db, userID)
	if err != nil {
		return domain.Membership{}, err
	}
	if member == nil {
		return domain.Membership{}, domain.ErrNotFound
	}

	company, err := s.repo.FindByID(ctx, s.db, member.CompanyID)
	if err != nil {
		return domain.Membership{}, err
	}
	if company == nil {
		return domain.Membership{}, domain.ErrNotFound
	}
	return domain.Membership{Company: *company, Role: member.Role}, nil
}

// Create registers a company and makes the caller its admin. A user belongs
// to at most one company.
func (s *Service) Create(ctx context.Context, userID string, req domain.CreateRequest) (domain.Membership, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.Membership{}, domain.ErrInvalidUser
	}

	var invalid validation.Errors
	name := strings.TrimSpace(req.Name)
	if name == "" {
		invalid.Add("name")
	}
	siret := strings.ReplaceAll(strings.TrimSpace(req.SIRET), " ", "")
	if siret != "" && !isSIRET(siret) {
		invalid.Add("siret")
	}
	if err := invalid.Err(); err != nil {
		return domain.Membership{}, err
	}

	existing, err := s.repo.FindMembershipByUser(ctx, s.db, userID)
	if err != nil {
		return domain.Membership{}, err
	}
	if existing != nil {
		return domain.Membership{}, domain.ErrAlreadyMember
	}

	now := s.clock.Now()
	company := domain.Company{
		ID:        s.genID.Generate(),
		Name:      name,
		Sector:    strings.TrimSpace(req.Sector),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if siret != "" {
		company.SIRET = &siret
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		companySlug, err := s.uniqueSlug(ctx, tx, name, company.ID)
		if err != nil {
			return err
		}
		company.Slug = companySlug
		if err := s.repo.Insert(ctx, tx, &company); err != nil {
			return err
		}
		return s.repo.InsertMember(ctx, tx, &domain.Member{
			CompanyID: company.ID,
			UserID:    userID,
			Role:      domain.RoleAdmin,
			CreatedAt: now,
		})
	})
	if err != nil {
		return domain.Membership{}, fmt.Errorf("create company: %w", err)
	}

	s.log.Info("company created",
		zap.String("company_id", company.ID.String()),
		zap.String("slug", company.Slug),
	)
	return domain.Membership{Company: company, Role: domain.RoleAdmin}, nil
}

func (s *Service) uniqueSlug(ctx context.Context, db *gorm.DB, name string, id snowflake.ID) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = "company"
	}
	exists, err := s.repo.SlugExists(ctx, db, base)
	if err != nil {
		return "", err
	}
	if !exists {
		return base, nil
	}
	return fmt.Sprintf("%s-%s", base, id.Base36()), nil
}

func isSIRET(value string) bool {
	if len(value) != 14 {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
