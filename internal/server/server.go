package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/airnex/internal/authorization"
	companydomain "github.com/smallbiznis/airnex/internal/company/domain"
	"github.com/smallbiznis/airnex/internal/config"
	dashboarddomain "github.com/smallbiznis/airnex/internal/dashboard/domain"
	emissiondomain "github.com/smallbiznis/airnex/internal/emission/domain"
	"github.com/smallbiznis/airnex/internal/identity"
	"github.com/smallbiznis/airnex/internal/observability"
	obsmiddleware "github.com/smallbiznis/airnex/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/airnex/internal/observability/metrics"
	obstracing "github.com/smallbiznis/airnex/internal/observability/tracing"
	"github.com/smallbiznis/airnex/internal/ratelimit"
	recommendationdomain "github.com/smallbiznis/airnex/internal/recommendation/domain"
	reportdomain "github.com/smallbiznis/airnex/internal/report/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	identity.Module,
	authorization.Module,
	ratelimit.Module,
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(log, obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics, log *zap.Logger) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics, log)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine            *gin.Engine
	log               *zap.Logger
	identity          identity.Provider
	authzSvc          authorization.Service
	aiLimiter         *ratelimit.AILimiter
	factors           *config.FactorTableHolder
	companySvc        companydomain.Service
	dashboardSvc      dashboarddomain.Service
	emissionSvc       emissiondomain.Service
	recommendationSvc recommendationdomain.Service
	reportSvc         reportdomain.Service
}

type ServerParams struct {
	fx.In

	Gin               *gin.Engine
	Log               *zap.Logger
	Identity          identity.Provider
	AuthzSvc          authorization.Service
	AILimiter         *ratelimit.AILimiter `optional:"true"`
	Factors           *config.FactorTableHolder
	CompanySvc        companydomain.Service
	DashboardSvc      dashboarddomain.Service
	EmissionSvc       emissiondomain.Service
	RecommendationSvc recommendationdomain.Service
	ReportSvc         reportdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:            p.Gin,
		log:               p.Log.Named("http.server"),
		identity:          p.Identity,
		authzSvc:          p.AuthzSvc,
		aiLimiter:         p.AILimiter,
		factors:           p.Factors,
		companySvc:        p.CompanySvc,
		dashboardSvc:      p.DashboardSvc,
		emissionSvc:       p.EmissionSvc,
		recommendationSvc: p.RecommendationSvc,
		reportSvc:         p.ReportSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")
	api.Use(s.AuthRequired())

	// A freshly signed-in user has no company yet.
	api.POST("/companies", s.CreateCompany)

	scoped := api.Group("")
	scoped.Use(s.CompanyContext())
	{
		scoped.GET("/companies/current", s.authorize(authorization.ObjectCompany, authorization.ActionView), s.GetCurrentCompany)

		scoped.GET("/dashboard/stats", s.authorize(authorization.ObjectDashboard, authorization.ActionView), s.GetDashboardStats)

		scoped.GET("/emissions", s.authorize(authorization.ObjectEmission, authorization.ActionView), s.ListEmissions)
		scoped.POST("/emissions", s.authorize(authorization.ObjectEmission, authorization.ActionCreate), s.CreateEmission)
		scoped.POST("/emissions/extract",
			s.authorize(authorization.ObjectEmission, authorization.ActionCreate),
			s.aiRateLimit(endpointExtract),
			s.ExtractEmission,
		)

		scoped.GET("/emission-factors", s.authorize(authorization.ObjectEmissionFactor, authorization.ActionView), s.ListEmissionFactors)

		scoped.GET("/recommendations", s.authorize(authorization.ObjectRecommendation, authorization.ActionView), s.ListRecommendations)
		scoped.POST("/recommendations/regenerate",
			s.authorize(authorization.ObjectRecommendation, authorization.ActionRegenerate),
			s.aiRateLimit(endpointRegenerate),
			s.RegenerateRecommendations,
		)
		scoped.PATCH("/recommendations/:id/status", s.authorize(authorization.ObjectRecommendation, authorization.ActionUpdate), s.UpdateRecommendationStatus)

		scoped.POST("/reports", s.authorize(authorization.ObjectReport, authorization.ActionCreate), s.GenerateReport)
		scoped.GET("/reports", s.authorize(authorization.ObjectReport, authorization.ActionView), s.ListReports)
	}
}
