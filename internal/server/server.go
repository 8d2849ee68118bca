package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/estilistapro/estilista/internal/client"
	clientdomain "github.com/estilistapro/estilista/internal/client/domain"
	"github.com/estilistapro/estilista/internal/clock"
	"github.com/estilistapro/estilista/internal/config"
	"github.com/estilistapro/estilista/internal/dashboard"
	dashboarddomain "github.com/estilistapro/estilista/internal/dashboard/domain"
	"github.com/estilistapro/estilista/internal/job"
	jobdomain "github.com/estilistapro/estilista/internal/job/domain"
	"github.com/estilistapro/estilista/internal/observability"
	obsmiddleware "github.com/estilistapro/estilista/internal/observability/logger"
	obsmetrics "github.com/estilistapro/estilista/internal/observability/metrics"
	obstracing "github.com/estilistapro/estilista/internal/observability/tracing"
	"github.com/estilistapro/estilista/internal/settings"
	settingsdomain "github.com/estilistapro/estilista/internal/settings/domain"
)

var Module = fx.Module("http.server",
	config.Module,
	fx.Provide(registerGin),
	client.Module,
	job.Module,
	settings.Module,
	dashboard.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
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

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
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
	engine       *gin.Engine
	cfg          config.Config
	db           *gorm.DB
	clientSvc    clientdomain.Service
	jobSvc       jobdomain.Service
	settingsSvc  settingsdomain.Service
	dashboardSvc dashboarddomain.Service
	clock        clock.Clock
	obsMetrics   *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	DB           *gorm.DB
	ClientSvc    clientdomain.Service
	JobSvc       jobdomain.Service
	SettingsSvc  settingsdomain.Service
	DashboardSvc dashboarddomain.Service
	Clock        clock.Clock
	ObsMetrics   *obsmetrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		db:           p.DB,
		clientSvc:    p.ClientSvc,
		jobSvc:       p.JobSvc,
		settingsSvc:  p.SettingsSvc,
		dashboardSvc: p.DashboardSvc,
		clock:        p.Clock,
		obsMetrics:   p.ObsMetrics,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.UserRequired())

	// -------- Clients --------
	api.GET("/clients", s.ListClients)
	api.POST("/clients", s.CreateClient)
	api.GET("/clients/:id", s.GetClientByID)
	api.PATCH("/clients/:id", s.UpdateClient)
	api.DELETE("/clients/:id", s.DeleteClient)

	// -------- Jobs --------
	api.GET("/jobs", s.ListJobs)
	api.POST("/jobs", s.CreateJob)
	api.GET("/jobs/:id", s.GetJobByID)
	api.PATCH("/jobs/:id", s.UpdateJob)
	api.DELETE("/jobs/:id", s.DeleteJob)

	// -------- Settings --------
	api.POST("/settings/setup", s.SetupSettings)
	api.GET("/settings", s.GetCurrentSettings)
	api.PATCH("/settings", s.UpdateSettings)
	api.GET("/settings/history", s.ListSettingsHistory)
	api.GET("/settings/week", s.GetSettingsForWeek)

	// -------- Dashboard --------
	api.GET("/dashboard/week", s.GetWeekSummary)
}
