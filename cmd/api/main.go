package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/foliopress/foliopress-backend/internal/config"
	"github.com/foliopress/foliopress-backend/internal/handler"
	"github.com/foliopress/foliopress-backend/internal/jobs"
	"github.com/foliopress/foliopress-backend/internal/middleware"
	"github.com/foliopress/foliopress-backend/internal/migration"
	"github.com/foliopress/foliopress-backend/internal/repository"
	"github.com/foliopress/foliopress-backend/internal/routes"
	"github.com/foliopress/foliopress-backend/internal/service"
	pkgcache "github.com/foliopress/foliopress-backend/pkg/cache"
	pkglogger "github.com/foliopress/foliopress-backend/pkg/logger"
	pkgredis "github.com/foliopress/foliopress-backend/pkg/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// @title           Foliopress Backend API
// @version         1.0
// @description     Content lifecycle engine: draft/publish, version history, paged bodies
//
// @license.name    MIT
//
// @host            localhost:8080
// @BasePath        /api/v1

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	pkglogger.Info("APP_ENV=%s, loaded env files: %v", env, dotenvFiles)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// MySQL
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	pkglogger.Info("Connected to MySQL")
	if err := migration.Run(db); err != nil {
		pkglogger.Warn("Migration warning: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		middleware.SetDBConnectionsActive(float64(sqlDB.Stats().OpenConnections))
	}

	// Repositories
	contentRepo := repository.NewContentRepository(db)
	versionRepo := repository.NewVersionRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	timeout := cfg.Database.StorageTimeout()
	settingService := service.NewSettingService(settingRepo, timeout)

	// Redis + cache tier. The cache-enabled toggle is read from settings
	// per operation, so flipping it needs no restart.
	var cacheService pkgcache.Service
	redisClient, err := pkgredis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
	)
	if err != nil {
		pkglogger.Warn("Failed to connect to Redis: %v (continuing without cache)", err)
	} else {
		pkglogger.Info("Connected to Redis")
		cacheService = pkgcache.NewService(redisClient, settingService.CacheEnabled, cfg.Cache.DefaultTTL())
	}

	// Services
	contentService := service.NewContentService(contentRepo, cacheService, timeout)
	versionService := service.NewVersionService(versionRepo, contentRepo, timeout)

	// Handlers
	contentHandler := handler.NewContentHandler(contentService, versionService)
	versionHandler := handler.NewVersionHandler(versionService)
	settingHandler := handler.NewSettingHandler(settingService)

	// Router
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics())
	router.Use(middleware.SecurityHeaders())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.Setup(router, contentHandler, versionHandler, settingHandler, settingService)

	// Background autosave pruning sweep
	pruneCtx, stopPruner := context.WithCancel(context.Background())
	pruner := jobs.NewAutosavePruner(
		versionService,
		contentRepo,
		cfg.Versions.AutosaveKeep,
		cfg.Versions.PruneBatchSize,
		cfg.Versions.PruneInterval(),
	)
	go pruner.Start(pruneCtx)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		pkglogger.Info("Listening on :%d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	pkglogger.Info("Shutting down")

	stopPruner()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		pkglogger.Error("Forced shutdown: %v", err)
	}
}

// initDB initializes the MySQL connection
func initDB(cfg *config.Config) (*gorm.DB, error) {
	mysqlCfg, err := mysqldriver.ParseDSN(cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}
	if mysqlCfg.Params == nil {
		mysqlCfg.Params = map[string]string{}
	}

	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		// duplicate-key detection drives version-number retry
		TranslateError: true,
	}
	db, err := gorm.Open(mysql.Open(mysqlCfg.FormatDSN()), gormCfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}
