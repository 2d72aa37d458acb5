package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-timetable-api/internal/handler"
	"github.com/noah-isme/campus-timetable-api/internal/middleware"
	"github.com/noah-isme/campus-timetable-api/internal/service"
	"github.com/noah-isme/campus-timetable-api/pkg/config"
	"github.com/noah-isme/campus-timetable-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/campus-timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/campus-timetable-api/pkg/middleware/requestid"
)

// Handlers groups every HTTP handler mounted by Setup.
type Handlers struct {
	Timetable  *handler.TimetableHandler
	Enrollment *handler.EnrollmentHandler
	Course     *handler.CourseHandler
	Export     *handler.ExportHandler
	Metrics    *handler.MetricsHandler
}

// Setup builds the gin engine: ops endpoints at the root, the API under cfg.APIPrefix behind JWT.
func Setup(cfg *config.Config, h Handlers, auth middleware.TokenValidator, metrics *service.MetricsService, logr *zap.Logger) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS))
	r.Use(middleware.Metrics(metrics, "/health", "/ready", cfg.Metrics.Path))

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, h.Metrics.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(auth))
	{
		api.GET("/courses", h.Course.List)

		timetables := api.Group("/timetables")
		{
			timetables.GET("", h.Timetable.List)
			timetables.POST("", h.Timetable.Create)
			timetables.GET("/:timetableId", h.Timetable.Get)
			timetables.PATCH("/:timetableId", h.Timetable.Rename)
			timetables.DELETE("/:timetableId", h.Timetable.Delete)
			timetables.GET("/:timetableId/export", h.Export.Export)

			enrolls := timetables.Group("/:timetableId/enrolls")
			{
				enrolls.GET("", h.Enrollment.List)
				enrolls.POST("", h.Enrollment.EnrollCourse)
				enrolls.POST("/custom", h.Enrollment.CreateCustom)
				enrolls.GET("/:enrollId", h.Enrollment.Get)
				enrolls.PATCH("/:enrollId/custom", h.Enrollment.UpdateCustom)
				enrolls.DELETE("/:enrollId", h.Enrollment.Delete)
			}
		}
	}

	return r
}
