package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tracera/tracera/internal/artifact"
	artifactdomain "github.com/tracera/tracera/internal/artifact/domain"
	"github.com/tracera/tracera/internal/config"
	"github.com/tracera/tracera/internal/observability"
	obsmiddleware "github.com/tracera/tracera/internal/observability/logger"
	obsmetrics "github.com/tracera/tracera/internal/observability/metrics"
	obstracing "github.com/tracera/tracera/internal/observability/tracing"
	"github.com/tracera/tracera/internal/project"
	projectdomain "github.com/tracera/tracera/internal/project/domain"
	"github.com/tracera/tracera/internal/revision"
	revisiondomain "github.com/tracera/tracera/internal/revision/domain"
	"github.com/tracera/tracera/internal/revstore"
	"github.com/tracera/tracera/internal/tracker"
	trackerdomain "github.com/tracera/tracera/internal/tracker/domain"
	"github.com/tracera/tracera/internal/trackerfield"
	trackerfielddomain "github.com/tracera/tracera/internal/trackerfield/domain"
	"github.com/tracera/tracera/internal/user"
	userdomain "github.com/tracera/tracera/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	revstore.Module,
	revision.Module,
	user.Module,
	project.Module,
	tracker.Module,
	trackerfield.Module,
	artifact.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(RegisterRoutes),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics, registry *prometheus.Registry) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
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
	engine          *gin.Engine
	metrics         *obsmetrics.Metrics
	userSvc         userdomain.Service
	projectSvc      projectdomain.Service
	trackerSvc      trackerdomain.Service
	trackerFieldSvc trackerfielddomain.Service
	artifactSvc     artifactdomain.Service
	revisionSvc     revisiondomain.Service
}

type ServerParams struct {
	fx.In

	Engine          *gin.Engine
	Metrics         *obsmetrics.Metrics
	UserSvc         userdomain.Service
	ProjectSvc      projectdomain.Service
	TrackerSvc      trackerdomain.Service
	TrackerFieldSvc trackerfielddomain.Service
	ArtifactSvc     artifactdomain.Service
	RevisionSvc     revisiondomain.Service
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:          p.Engine,
		metrics:         p.Metrics,
		userSvc:         p.UserSvc,
		projectSvc:      p.ProjectSvc,
		trackerSvc:      p.TrackerSvc,
		trackerFieldSvc: p.TrackerFieldSvc,
		artifactSvc:     p.ArtifactSvc,
		revisionSvc:     p.RevisionSvc,
	}
}

// RegisterRoutes mounts the management API. Every route past /api/v1 requires
// basic authentication; the resolved user becomes the revision author for
// writes performed during the request.
func RegisterRoutes(s *Server) {
	api := s.engine.Group("/api/v1")
	api.Use(s.AuthRequired())

	api.GET("/revisions/current", s.GetCurrentRevision)
	api.GET("/revisions/:id", s.GetRevisionByID)

	users := api.Group("/users")
	users.POST("", s.CreateUser)
	users.GET("", s.ListUsers)
	users.GET("/find", s.FindUser)
	users.GET("/:id", s.GetUserByID)
	users.PUT("/:id", s.UpdateUser)
	users.POST("/:id/activate", s.ActivateUser)
	users.POST("/:id/deactivate", s.DeactivateUser)

	projects := api.Group("/projects")
	projects.POST("", s.CreateProject)
	projects.GET("", s.ListProjects)
	projects.GET("/find", s.FindProject)
	projects.GET("/:id", s.GetProjectByID)
	projects.PUT("/:id", s.UpdateProject)
	projects.POST("/:id/activate", s.ActivateProject)
	projects.POST("/:id/deactivate", s.DeactivateProject)

	trackers := api.Group("/trackers")
	trackers.POST("", s.CreateTracker)
	trackers.GET("", s.ListTrackers)
	trackers.GET("/find", s.FindTracker)
	trackers.GET("/:id", s.GetTrackerByID)
	trackers.PUT("/:id", s.UpdateTracker)
	trackers.POST("/:id/activate", s.ActivateTracker)
	trackers.POST("/:id/deactivate", s.DeactivateTracker)

	fields := api.Group("/tracker_fields")
	fields.POST("", s.CreateTrackerField)
	fields.GET("", s.ListTrackerFields)
	fields.GET("/find", s.FindTrackerField)
	fields.GET("/:id", s.GetTrackerFieldByID)
	fields.PUT("/:id", s.UpdateTrackerField)
	fields.POST("/:id/activate", s.ActivateTrackerField)
	fields.POST("/:id/deactivate", s.DeactivateTrackerField)

	artifacts := api.Group("/artifacts")
	artifacts.POST("", s.CreateArtifact)
	artifacts.GET("", s.ListArtifacts)
	artifacts.GET("/:id", s.GetArtifactByID)
	artifacts.PUT("/:id", s.UpdateArtifact)
	artifacts.POST("/:id/activate", s.ActivateArtifact)
	artifacts.POST("/:id/deactivate", s.DeactivateArtifact)
}

func (s *Server) recordWrite(kind string, err error) {
	if err == nil {
		s.metrics.RecordRevisionCommitted(kind)
		return
	}
	if isConflict(err) {
		s.metrics.RecordWriteConflict(kind)
	}
}
