package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/airnex/internal/companycontext"
	companydomain "github.com/smallbiznis/airnex/internal/company/domain"
	"go.uber.org/zap"
)

const (
	contextUserIDKey     = "user_id"
	contextMembershipKey = "membership"

	endpointExtract    = "emissions.extract"
	endpointRegenerate = "recommendations.regenerate"
)

// AuthRequired resolves the caller through the identity provider.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := s.identity.CurrentUser(c.Request)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextUserIDKey, userID)
		c.Request = c.Request.WithContext(companycontext.WithUserID(c.Request.Context(), userID))
		c.Next()
	}
}

// CompanyContext scopes the request to the caller's company. Users without
// a company get a 404.
func (s *Server) CompanyContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		membership, err := s.companySvc.ResolveForUser(ctx, c.GetString(contextUserIDKey))
		if err != nil {
			AbortWithError(c, err)
			return
		}

		ctx = companycontext.WithCompanyID(ctx, membership.Company.ID)
		ctx = companycontext.WithRole(ctx, string(membership.Role))
		c.Request = c.Request.WithContext(ctx)
		c.Set(contextMembershipKey, membership)
		c.Next()
	}
}

func (s *Server) authorize(object, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.authzSvc.Authorize(c.Request.Context(), object, action); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

func (s *Server) aiRateLimit(endpoint string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.aiLimiter.Enabled() {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		companyID, _ := companycontext.CompanyIDFromContext(ctx)
		res := s.aiLimiter.Allow(ctx, companyID.String(), endpoint)
		if !res.Allowed {
			if res.RetryAfter > 0 {
				c.Header("Retry-After", strconv.Itoa(int((res.RetryAfter+time.Second-1)/time.Second)))
			}
			s.log.Info("ai request rate limited",
				zap.String("company_id", companyID.String()),
				zap.String("endpoint", endpoint),
			)
			AbortWithError(c, ErrRateLimited)
			return
		}
		c.Next()
	}
}

func membershipFromContext(c *gin.Context) (companydomain.Membership, bool) {
	value, ok := c.Get(contextMembershipKey)
	if !ok {
		return companydomain.Membership{}, false
	}
	membership, ok := value.(companydomain.Membership)
	return membership, ok
}
