package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/progcursos/programacao-api/internal/handler"
	"github.com/progcursos/programacao-api/internal/middleware"
	"github.com/progcursos/programacao-api/internal/repository"
	"github.com/progcursos/programacao-api/internal/service"
	"github.com/progcursos/programacao-api/pkg/config"
	"github.com/progcursos/programacao-api/pkg/logger"
	corsmiddleware "github.com/progcursos/programacao-api/pkg/middleware/cors"
	reqidmiddleware "github.com/progcursos/programacao-api/pkg/middleware/requestid"
	"github.com/progcursos/programacao-api/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	store, err := repository.NewStore(cfg.Data.Dir)
	if err != nil {
		logr.Sugar().Fatalw("failed to open data directory", "error", err)
	}

	courseRepo := repository.NewCourseRepository(store)
	unitRepo := repository.NewCurricularUnitRepository(store)
	roomRepo := repository.NewRoomRepository(store)
	shiftRepo := repository.NewShiftRepository(store)
	instructorRepo := repository.NewInstructorRepository(store)
	calendarRepo := repository.NewCalendarRepository(store)
	availabilityRepo := repository.NewAvailabilityRepository(store)
	scheduleRepo := repository.NewScheduleRepository(store)

	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	store.SetObserver(metricsSvc.ObserveStoreOperation)

	courseSvc := service.NewCourseService(courseRepo, validate, logr)
	unitSvc := service.NewCurricularUnitService(unitRepo, courseRepo, validate, logr)
	roomSvc := service.NewRoomService(roomRepo, validate, logr)
	shiftSvc := service.NewShiftService(shiftRepo, validate, logr)
	instructorSvc := service.NewInstructorService(instructorRepo, validate, logr)
	calendarSvc := service.NewCalendarService(calendarRepo, validate, logr)
	availabilitySvc := service.NewAvailabilityService(availabilityRepo, instructorRepo, shiftRepo,
		cfg.Share.TokenSecret, cfg.Share.TokenTTL, validate, logr)

	scheduleValidator := service.NewScheduleValidator(instructorRepo, availabilityRepo, logr)
	scheduleValidator.SetMetrics(metricsSvc)
	scheduleSvc := service.NewScheduleService(scheduleRepo, courseRepo, roomRepo, shiftRepo,
		instructorRepo, calendarRepo, scheduleValidator, validate, logr)

	handlers := &handler.Handlers{
		Schedules:    handler.NewScheduleHandler(scheduleSvc),
		Availability: handler.NewAvailabilityHandler(availabilitySvc),
		Calendars:    handler.NewCalendarHandler(calendarSvc),
		Courses:      handler.NewCourseHandler(courseSvc),
		Units:        handler.NewCurricularUnitHandler(unitSvc),
		Rooms:        handler.NewRoomHandler(roomSvc),
		Shifts:       handler.NewShiftHandler(shiftSvc),
		Instructors:  handler.NewInstructorHandler(instructorSvc),
	}

	if cfg.Reports.Enabled {
		files, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to open reports directory", "error", err)
		}
		reportSvc := service.NewReportService(scheduleRepo, courseRepo, roomRepo, shiftRepo, instructorRepo, files, logr)
		handlers.Reports = handler.NewReportHandler(reportSvc, metricsSvc)

		go func() {
			ticker := time.NewTicker(time.Hour)
			defer ticker.Stop()
			for range ticker.C {
				removed, err := files.CleanupOlderThan(cfg.Reports.Retention)
				if err != nil {
					logr.Sugar().Warnw("report cleanup failed", "error", err)
					continue
				}
				if len(removed) > 0 {
					logr.Sugar().Infow("expired reports removed", "count", len(removed))
				}
			}
		}()
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Offer ids carry a slash, so clients send them percent-encoded.
	r.UseRawPath = true
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	metricsHandler := handler.NewMetricsHandler(metricsSvc)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	if cfg.Metrics.Enabled {
		r.GET("/metrics", metricsHandler.Prometheus)
	}

	handlers.Register(r.Group(cfg.APIPrefix))

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
