package app

import (
	"context"
	"edutrack_backend/internal/config"
	"edutrack_backend/internal/controller"
	"edutrack_backend/internal/repository"
	"edutrack_backend/internal/service"
	"edutrack_backend/internal/util"
	"edutrack_backend/pkg/database"
	"edutrack_backend/pkg/logger"
	"edutrack_backend/pkg/monitoring"
	"edutrack_backend/pkg/security"
	"edutrack_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user        *repository.UserRepository
	formation   *repository.FormationRepository
	module      *repository.ModuleRepository
	lesson      *repository.LessonRepository
	progress    *repository.ProgressRepository
	attendance  *repository.AttendanceRepository
	quiz        *repository.QuizRepository
	certificate *repository.CertificateRepository
}

type services struct {
	storage     *service.StorageService
	push        *service.PushService
	auth        *service.AuthService
	user        *service.UserService
	formation   *service.FormationService
	content     *service.ContentService
	progress    *service.ProgressService
	attendance  *service.AttendanceService
	quiz        *service.QuizService
	certificate *service.CertificateService
}

type controllers struct {
	health      *controller.HealthController
	auth        *controller.AuthController
	user        *controller.UserController
	formation   *controller.FormationController
	content     *controller.ContentController
	progress    *controller.ProgressController
	attendance  *controller.AttendanceController
	quiz        *controller.QuizController
	certificate *controller.CertificateController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig fans a reloaded configuration out to registered listeners.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config = cfg
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
	logger.Log.Info("configuration reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		formation:   repository.NewFormationRepository(db),
		module:      repository.NewModuleRepository(db),
		lesson:      repository.NewLessonRepository(db),
		progress:    repository.NewProgressRepository(db),
		attendance:  repository.NewAttendanceRepository(db),
		quiz:        repository.NewQuizRepository(db),
		certificate: repository.NewCertificateRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.push = service.NewPushService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user, s.storage)
	s.formation = service.NewFormationService(repos.formation, repos.user)
	s.content = service.NewContentService(repos.formation, repos.module, repos.lesson, repos.quiz, s.storage)
	s.progress = service.NewProgressService(repos.progress, repos.module, repos.lesson, rdb)
	s.attendance = service.NewAttendanceService(repos.attendance, repos.formation, repos.user, s.push, cfg)
	s.quiz = service.NewQuizService(repos.quiz, repos.module, s.progress, cfg)
	s.certificate = service.NewCertificateService(
		repos.certificate,
		repos.formation,
		repos.module,
		repos.progress,
		repos.user,
		service.NewHTTPRenderer(cfg),
		s.storage,
	)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		health:      controller.NewHealthController(db),
		auth:        controller.NewAuthController(s.auth),
		user:        controller.NewUserController(s.user),
		formation:   controller.NewFormationController(s.formation),
		content:     controller.NewContentController(s.content),
		progress:    controller.NewProgressController(s.progress),
		attendance:  controller.NewAttendanceController(s.attendance, s.formation),
		quiz:        controller.NewQuizController(s.quiz),
		certificate: controller.NewCertificateController(s.certificate),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests == 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window == 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, db)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("edutrack", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == util.StorageLocal {
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

	logger.Log.Sync()
	log.Println("Server exiting")
}
