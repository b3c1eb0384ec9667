package app

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"skillstreak_backend/internal/config"
	"skillstreak_backend/internal/controller"
	"skillstreak_backend/internal/repository"
	"skillstreak_backend/internal/service"
	"skillstreak_backend/pkg/configwatcher"
	"skillstreak_backend/pkg/database"
	"skillstreak_backend/pkg/kv"
	"skillstreak_backend/pkg/logger"
	"skillstreak_backend/pkg/monitoring"
	"skillstreak_backend/pkg/security"
	"skillstreak_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	serviceName  = "skillstreak"
	configDir    = "configs"
	kvNamespace  = "skillstreak:"
	shutdownWait = 5 * time.Second
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	KV              kv.Store
	services        *services
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	assessment     *repository.AssessmentRepository
	dailyChallenge *repository.DailyChallengeRepository
}

type services struct {
	rules           *service.RuleSet
	catalog         *service.Catalog
	assessment      *service.AssessmentService
	progress        *service.ProgressService
	challenge       *service.ChallengeService
	customChallenge *service.CustomChallengeService
	profile         *service.ProfileService
}

type controllers struct {
	assessment      *controller.AssessmentController
	challenge       *controller.ChallengeController
	progress        *controller.ProgressController
	customChallenge *controller.CustomChallengeController
	profile         *controller.ProfileController
	health          *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) reloadConfig(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		assessment:     repository.NewAssessmentRepository(db),
		dailyChallenge: repository.NewDailyChallengeRepository(db),
	}
}

func loadCatalog(cfg *config.Config) (*service.Catalog, error) {
	if cfg.Catalog.Path == "" {
		return service.DefaultCatalog(), nil
	}
	catalog, err := service.LoadCatalogFile(cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}
	if catalog.Len() == 0 {
		logger.Log.Warn("Challenge catalog is empty, daily challenges will fail", zap.String("path", cfg.Catalog.Path))
	}
	return catalog, nil
}

func (a *App) initServices(repos *repositories, store kv.Store, catalog *service.Catalog, cfg *config.Config) *services {
	s := &services{
		rules:   service.NewRuleSet(service.RulesFromConfig(cfg.Challenge)),
		catalog: catalog,
	}

	s.assessment = service.NewAssessmentService(repos.assessment)
	s.progress = service.NewProgressService(repos.dailyChallenge, store, s.rules)
	s.challenge = service.NewChallengeService(repos.dailyChallenge, repos.assessment, catalog, s.rules, s.progress)
	s.customChallenge = service.NewCustomChallengeService(store, s.rules)
	s.profile = service.NewProfileService(store)

	// 规则热更新
	a.RegisterConfigCallback(func(newCfg *config.Config) {
		s.rules.Store(service.RulesFromConfig(newCfg.Challenge))
		logger.Log.Info("Challenge rules reloaded",
			zap.Int("daily_skip_limit", newCfg.Challenge.DailySkipLimit),
			zap.Int("level_points", newCfg.Challenge.LevelPoints),
		)
	})

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		assessment:      controller.NewAssessmentController(s.assessment),
		challenge:       controller.NewChallengeController(s.challenge),
		progress:        controller.NewProgressController(s.progress),
		customChallenge: controller.NewCustomChallengeController(s.customChallenge),
		profile:         controller.NewProfileController(s.profile),
		health:          controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == gin.DebugMode)
	if err != nil {
		return nil, err
	}

	// release 模式下仅在显式要求时迁移
	if cfg.Server.Mode != gin.ReleaseMode || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}
	if cfg.MigrateOnly {
		return app, nil
	}

	if cfg.Redis.Enabled {
		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			return nil, err
		}
		app.Redis = rdb
		app.KV = kv.NewRedisStore(rdb, kvNamespace)
	} else {
		logger.Log.Warn("Redis disabled, using in-memory key-value store")
		app.KV = kv.NewMemoryStore()
	}

	catalog, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, app.KV, catalog, cfg)
	app.services = services
	controllers := app.initControllers(services, db, app.Redis)

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(serviceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			return nil, err
		}
		app.tracer = tp
	}

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Server.Mode == gin.DebugMode {
		router.Use(gin.Logger())
	}
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	logger.Log.Info("Application initialized",
		zap.Int("catalog_entries", catalog.Len()),
		zap.String("database", cfg.Database.Driver),
		zap.Bool("redis", cfg.Redis.Enabled),
	)
	return app, nil
}

func (a *App) Run() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if a.Config.Server.WatchConfig {
		configFile := filepath.Join(configDir, "config.yaml")
		if err := configwatcher.Watch(ctx, configFile, a.reloadConfig); err != nil {
			logger.Log.Warn("Config hot reload disabled", zap.Error(err))
		}
	}

	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("listen failed", zap.Error(err))
			stop()
		}
	}()

	// 等待中断信号优雅地关闭服务器
	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWait)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	a.Close(shutdownCtx)
	logger.Log.Info("Server exiting")
}

// Close 释放数据库、Redis 和追踪资源
func (a *App) Close(ctx context.Context) {
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.Log.Error("Failed to close redis", zap.Error(err))
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
	_ = logger.Log.Sync()
}
