package companycontext

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
)

type companyKey struct{}
type userKey struct{}
type roleKey struct{}

// WithCompanyID stores the resolved company for the request.
func WithCompanyID(ctx context.Context, companyID snowflake.ID) context.Context {
	return context.WithValue(ctx, companyKey{}, companyID)
}

// CompanyIDFromContext returns the company resolved for the caller, if any.
func CompanyIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	if ctx == nil {
		return 0, false
	}
	switch typed := ctx.Value(companyKey{}).(type) {
	case snowflake.ID:
		return typed, typed != 0
	case int64:
		return snowflake.ID(typed), typed != 0
	case string:
		parsed, err := snowflake.ParseString(strings.TrimSpace(typed))
		if err == nil && parsed != 0 {
			return parsed, true
		}
	}
	return 0, false
}

// WithUserID stores the authenticated user identifier.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey{}, strings.TrimSpace(userID))
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	value, ok := ctx.Value(userKey{}).(string)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// WithRole stores the caller's membership role within the company.
func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, roleKey{}, role)
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(roleKey{}).(string)
	return value
}
