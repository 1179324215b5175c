package authorization

import (
	"context"
	_ "embed"
	"errors"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"github.com/smallbiznis/airnex/internal/companycontext"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

const (
	ObjectDashboard      = "dashboard"
	ObjectEmission       = "emission"
	ObjectEmissionFactor = "emission_factor"
	ObjectRecommendation = "recommendation"
	ObjectReport         = "report"
	ObjectCompany        = "company"
)

const (
	ActionView       = "view"
	ActionCreate     = "create"
	ActionUpdate     = "update"
	ActionRegenerate = "regenerate"
)

var (
	ErrForbidden   = errors.New("forbidden")
	ErrInvalidRole = errors.New("invalid_role")
)

type Service interface {
	// Authorize checks the role carried by ctx.
	Authorize(ctx context.Context, object, action string) error
}

type Params struct {
	fx.In

	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
}

type ServiceImpl struct {
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
}

// NewEnforcer loads policies through the gorm adapter and makes sure the
// built-in role policies exist.
func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoSave(true)
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	if err := enforcer.BuildRoleLinks(); err != nil {
		return nil, err
	}
	return enforcer, nil
}

func NewService(p Params) Service {
	return &ServiceImpl{
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, object, action string) error {
	role := strings.ToLower(strings.TrimSpace(companycontext.RoleFromContext(ctx)))
	if role == "" {
		return ErrInvalidRole
	}

	allowed, err := s.enforcer.Enforce(subject(role), object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.log.Debug("authorization denied",
			zap.String("role", role),
			zap.String("object", object),
			zap.String("action", action),
		)
		return ErrForbidden
	}
	return nil
}

func subject(role string) string {
	return "role:" + role
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	policies := [][]string{
		// Viewer permissions (read-only)
		{"role:viewer", ObjectDashboard, ActionView},
		{"role:viewer", ObjectEmission, ActionView},
		{"role:viewer", ObjectEmissionFactor, ActionView},
		{"role:viewer", ObjectRecommendation, ActionView},
		{"role:viewer", ObjectReport, ActionView},
		{"role:viewer", ObjectCompany, ActionView},

		// Member permissions
		{"role:member", ObjectEmission, ActionCreate},
		{"role:member", ObjectRecommendation, ActionUpdate},
		{"role:member", ObjectRecommendation, ActionRegenerate},
		{"role:member", ObjectReport, ActionCreate},

		// Admin permissions
		{"role:admin", ObjectCompany, ActionUpdate},
	}
	for _, p := range policies {
		has, err := enforcer.HasPolicy(p[0], p[1], p[2])
		if err != nil {
			return err
		}
		if has {
			continue
		}
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return err
		}
	}

	inheritance := [][]string{
		{"role:member", "role:viewer"},
		{"role:admin", "role:member"},
	}
	for _, g := range inheritance {
		has, err := enforcer.HasGroupingPolicy(g[0], g[1])
		if err != nil {
			return err
		}
		if has {
			continue
		}
		if _, err := enforcer.AddGroupingPolicy(g[0], g[1]); err != nil {
			return err
		}
	}
	return nil
}
