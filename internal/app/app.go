package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"learnhub_backend/internal/config"
	"learnhub_backend/internal/controller"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/service"
	"learnhub_backend/pkg/database"
	"learnhub_backend/pkg/logger"
	"learnhub_backend/pkg/monitoring"
	"learnhub_backend/pkg/security"
	"learnhub_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	services *services
}

type repositories struct {
	user     *repository.UserRepository
	course   *repository.CourseRepository
	section  *repository.SectionRepository
	lecture  *repository.LectureRepository
	rating   *repository.RatingRepository
	progress *repository.ProgressRepository
}

type services struct {
	auth        *service.AuthService
	user        *service.UserService
	media       *service.MediaService
	aggregation *service.AggregationService
	cascade     *service.CascadeService
	course      *service.CourseService
	section     *service.SectionService
	lecture     *service.LectureService
	rating      *service.RatingService
	progress    *service.ProgressService
	enrollment  *service.EnrollmentService
}

type controllers struct {
	auth     *controller.AuthController
	admin    *controller.AdminController
	course   *controller.CourseController
	section  *controller.SectionController
	lecture  *controller.LectureController
	rating   *controller.RatingController
	progress *controller.ProgressController
	health   *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		course:   repository.NewCourseRepository(db),
		section:  repository.NewSectionRepository(db),
		lecture:  repository.NewLectureRepository(db),
		rating:   repository.NewRatingRepository(db),
		progress: repository.NewProgressRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) (*services, error) {
	s := &services{}

	media, err := service.NewMediaService(cfg)
	if err != nil {
		return nil, err
	}
	s.media = media

	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user, s.media)
	s.aggregation = service.NewAggregationService(repos.section, repos.lecture, repos.course, repos.rating, rdb)
	s.cascade = service.NewCascadeService(repos.course, repos.section, repos.lecture, repos.rating, repos.progress, s.media, s.aggregation)
	s.enrollment = service.NewEnrollmentService(repos.course, repos.user)
	s.course = service.NewCourseService(repos.course, s.enrollment, s.media, rdb)
	s.section = service.NewSectionService(repos.section, repos.course, repos.lecture, s.cascade, s.aggregation)
	s.lecture = service.NewLectureService(repos.lecture, repos.section, s.media, s.cascade, s.aggregation)
	s.rating = service.NewRatingService(repos.rating, repos.course, s.aggregation)
	s.progress = service.NewProgressService(repos.progress, repos.course, repos.section, repos.lecture)

	return s, nil
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth, s.user, repos.user),
		admin:    controller.NewAdminController(s.user),
		course:   controller.NewCourseController(s.course, s.enrollment, s.cascade),
		section:  controller.NewSectionController(s.section),
		lecture:  controller.NewLectureController(s.lecture, s.enrollment, s.section),
		rating:   controller.NewRatingController(s.rating),
		progress: controller.NewProgressController(s.progress, s.enrollment),
		health:   controller.NewHealthController(db, s.aggregation),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg.Server.Mode)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// The cache is an optimization; the core runs without it.
		logger.Log.Warn("Redis unavailable, caching disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services, err := app.initServices(repos, cfg, rdb)
	if err != nil {
		logger.Log.Fatal("Failed to initialize services", zap.Error(err))
	}
	app.services = services
	controllers := app.initControllers(services, repos, db)

	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("learnhub", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
