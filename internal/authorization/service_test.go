package authorization

import (
	"context"
	"testing"

	"github.com/smallbiznis/airnex/internal/companycontext"
	"github.com/smallbiznis/airnex/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T) Service {
	t.Helper()
	enforcer, err := NewEnforcer(testutil.NewDB(t))
	require.NoError(t, err)
	return NewService(Params{Log: zap.NewNop(), Enforcer: enforcer})
}

func asRole(role string) context.Context {
	return companycontext.WithRole(context.Background(), role)
}

func TestRolePolicies(t *testing.T) {
	svc := newService(t)

	cases := []struct {
		role, object, action string
		allowed              bool
	}{
		{"viewer", ObjectDashboard, ActionView, true},
		{"viewer", ObjectReport, ActionView, true},
		{"viewer", ObjectEmission, ActionCreate, false},
		{"viewer", ObjectReport, ActionCreate, false},
		{"viewer", ObjectRecommendation, ActionRegenerate, false},
		{"member", ObjectEmission, ActionCreate, true},
		{"member", ObjectEmission, ActionView, true},
		{"member", ObjectRecommendation, ActionRegenerate, true},
		{"member", ObjectCompany, ActionUpdate, false},
		{"admin", ObjectReport, ActionCreate, true},
		{"admin", ObjectDashboard, ActionView, true},
		{"admin", ObjectCompany, ActionUpdate, true},
		{"ADMIN", ObjectEmission, ActionCreate, true},
		{"guest", ObjectDashboard, ActionView, false},
	}
	for _, tc := range cases {
		err := svc.Authorize(asRole(tc.role), tc.object, tc.action)
		if tc.allowed {
			assert.NoError(t, err, "%s %s %s", tc.role, tc.object, tc.action)
		} else {
			assert.ErrorIs(t, err, ErrForbidden, "%s %s %s", tc.role, tc.object, tc.action)
		}
	}
}

func TestAuthorizeRequiresRole(t *testing.T) {
	svc := newService(t)
	assert.ErrorIs(t, svc.Authorize(context.Background(), ObjectDashboard, ActionView), ErrInvalidRole)
}

func TestSeedIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	_, err := NewEnforcer(db)
	require.NoError(t, err)
	enforcer, err := NewEnforcer(db)
	require.NoError(t, err)

	policies, err := enforcer.GetPolicy()
	require.NoError(t, err)
	assert.Len(t, policies, 11)
}
