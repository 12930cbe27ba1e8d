package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"

	"github.com/maeumlog/diary-api/internal/handler"
	"github.com/maeumlog/diary-api/internal/middleware"
	"github.com/maeumlog/diary-api/internal/repository"
	"github.com/maeumlog/diary-api/internal/service"
	"github.com/maeumlog/diary-api/pkg/cache"
	"github.com/maeumlog/diary-api/pkg/config"
	"github.com/maeumlog/diary-api/pkg/database"
	"github.com/maeumlog/diary-api/pkg/logger"
	corsmiddleware "github.com/maeumlog/diary-api/pkg/middleware/cors"
	reqidmiddleware "github.com/maeumlog/diary-api/pkg/middleware/requestid"
	"github.com/maeumlog/diary-api/pkg/tabular"
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

	var store tabular.Store
	switch cfg.Diary.Backend {
	case config.BackendPostgres:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
		}
		defer db.Close()
		store = tabular.NewPostgresStore(db)
	default:
		logr.Info("using in-memory tabular store; data will not survive restarts")
		store = tabular.NewMemoryStore()
	}

	metricsSvc := service.NewMetricsService()
	store = tabular.WithMetrics(store, metricsSvc)

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		defer redisClient.Close()
	}

	validate := validator.New()

	rosterRepo := repository.NewRosterRepository(store, cfg.Diary.RosterSheetID)
	roster := repository.NewCachedRoster(rosterRepo, redisClient, cfg.Diary.RosterCacheTTL, logr)

	authSvc := service.NewAuthService(roster, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})
	notesSvc := service.NewNotesService(logr)
	diaryMgr := service.NewDiaryManager(store, notesSvc, validate, logr)

	var pdfFont []byte
	if cfg.Diary.PDFFontPath != "" {
		pdfFont, err = os.ReadFile(cfg.Diary.PDFFontPath)
		if err != nil {
			logr.Sugar().Fatalw("failed to read pdf export font", "path", cfg.Diary.PDFFontPath, "error", err)
		}
	} else {
		logr.Info("no pdf export font configured; korean text in pdf exports will not render")
	}
	exportSvc := service.NewExportService(logr, pdfFont)

	authHandler := handler.NewAuthHandler(authSvc, diaryMgr)
	diaryHandler := handler.NewDiaryHandler(diaryMgr, exportSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("", middleware.JWT(authSvc))
	authed.POST("/auth/logout", authHandler.Logout)
	authed.GET("/diary/entries", diaryHandler.ListEntries)
	authed.POST("/diary/entries", diaryHandler.SubmitEntry)
	authed.DELETE("/diary/entries/:date", diaryHandler.DeleteEntry)
	authed.GET("/diary/notes", diaryHandler.CheckNotes)
	authed.GET("/diary/emotions", diaryHandler.Emotions)
	authed.GET("/diary/export", diaryHandler.Export)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "backend", cfg.Diary.Backend)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
