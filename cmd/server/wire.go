package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	goredis "github.com/redis/go-redis/v9"
	openai "github.com/sashabaranov/go-openai"

	"disaster-response/config"
	"disaster-response/internal/ai"
	"disaster-response/internal/alert"
	"disaster-response/internal/assist"
	"disaster-response/internal/auth"
	"disaster-response/internal/disaster"
	"disaster-response/internal/dispatch"
	"disaster-response/internal/jwt"
	"disaster-response/internal/redis"
	pgmigrate "disaster-response/internal/repo/postgres"
	"disaster-response/internal/resource"
	"disaster-response/internal/sos"
	"disaster-response/internal/worker"
	"disaster-response/internal/ws"
)

type AppContext struct {
	DB     *sqlx.DB
	Config *config.Config
	Redis  *goredis.Client
	Router *gin.Engine
	Logger *slog.Logger

	// Infrastructure
	JWTService       *jwt.Service
	ResourceCache    *redis.ResourceLocationCache
	IdempotencyStore *redis.IdempotencyStore
	RateLimiter      *redis.RateLimiter
	Hub              *ws.Hub
	Sweeper          *worker.Sweeper

	AuthHandler     *auth.Handler
	ResourceHandler *resource.Handler
	DispatchHandler *dispatch.Handler
	DisasterHandler *disaster.Handler
	SOSHandler      *sos.Handler
	AssistHandler   *assist.Handler
	AIHandler       *ai.Handler
	WSHandler       *ws.Handler

	ResourceService resource.Service
	DispatchService dispatch.Service
	DisasterService disaster.Service
	SOSService      sos.Service
	AssistService   assist.Service
	AlertService    alert.Service
}

func wireApp(cfg *config.Config) (*AppContext, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// ── Postgres ──
	db, err := pgmigrate.Connect(cfg.Postgres.DSN(), pgmigrate.DefaultPoolConfig())
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	if err := pgmigrate.RunMigrationsUp(db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	// ── Redis ──
	var rdb *goredis.Client
	if cfg.Redis.URL != "" {
		opts, err := goredis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("redis parse url: %w", err)
		}
		rdb = goredis.NewClient(opts)
	} else {
		rdb = goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	// ── Infrastructure ──
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	resourceCache := redis.NewResourceLocationCache(rdb, cfg.Dispatch.LocationCacheTTLSec)
	idempotencyStore := redis.NewIdempotencyStore(rdb, cfg.Dispatch.IdempotencyTTLSec)
	rateLimiter := redis.NewRateLimiter(rdb, cfg.RateLimiter.MaxRequests, cfg.RateLimiter.WindowSeconds)
	hub := ws.NewHub(logger)

	// ── Repositories ──
	resourceRepo := resource.NewResourceRepository()
	dispatchRepo := dispatch.NewDispatchRepository()
	disasterRepo := disaster.NewDisasterRepository()
	sosRepo := sos.NewSOSRepository()
	assistRepo := assist.NewAssistRepository()
	alertRepo := alert.NewAlertRepository()

	// ── Services ──
	resourceService := resource.NewResourceService(resourceRepo, db, resourceCache, hub, logger)
	dispatchService := dispatch.NewDispatchService(dispatchRepo, resourceService, db, hub, logger)
	disasterService := disaster.NewDisasterService(disasterRepo, db, hub, logger)
	alertService := alert.NewAlertService(alertRepo, db, hub, logger)
	sosService := sos.NewSOSService(sosRepo, resourceService, alertService, db, cfg.Dispatch.ClusterRadiusKM, logger)
	assistService := assist.NewAssistService(assistRepo, sosService, db, hub, logger)
	authService := auth.NewAuthService(jwtService)

	aiClient := openai.NewClient(cfg.OpenAI.APIKey)
	aiService := ai.NewAdvisorService(aiClient, cfg.OpenAI.Model, logger)

	sweeper := worker.NewSweeper(resourceService, cfg.Sweeper.StaleAfter, cfg.Sweeper.Schedule, logger)

	// ── Handlers ──
	authHandler := auth.NewHandler(authService)
	resourceHandler := resource.NewHandler(resourceService, cfg.Dispatch.DefaultSearchRadiusKM)
	dispatchHandler := dispatch.NewHandler(dispatchService)
	disasterHandler := disaster.NewHandler(disasterService)
	sosHandler := sos.NewHandler(sosService, alertService)
	assistHandler := assist.NewHandler(assistService)
	aiHandler := ai.NewHandler(aiService)
	wsHandler := ws.NewHandler(hub, logger)

	return &AppContext{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		Router: gin.Default(),
		Logger: logger,

		JWTService:       jwtService,
		ResourceCache:    resourceCache,
		IdempotencyStore: idempotencyStore,
		RateLimiter:      rateLimiter,
		Hub:              hub,
		Sweeper:          sweeper,

		AuthHandler:     authHandler,
		ResourceHandler: resourceHandler,
		DispatchHandler: dispatchHandler,
		DisasterHandler: disasterHandler,
		SOSHandler:      sosHandler,
		AssistHandler:   assistHandler,
		AIHandler:       aiHandler,
		WSHandler:       wsHandler,

		ResourceService: resourceService,
		DispatchService: dispatchService,
		DisasterService: disasterService,
		SOSService:      sosService,
		AssistService:   assistService,
		AlertService:    alertService,
	}, nil
}

func (a *AppContext) Close() {
	a.DB.Close()
	a.Redis.Close()
}

func (a *AppContext) healthCheck(c *gin.Context) {
	ctx := c.Request.Context()
	checks := map[string]string{}
	healthy := true

	if err := a.DB.PingContext(ctx); err != nil {
		checks["postgres"] = err.Error()
		healthy = false
	} else {
		checks["postgres"] = "ok"
	}

	if err := a.Redis.Ping(ctx).Err(); err != nil {
		checks["redis"] = err.Error()
		healthy = false
	} else {
		checks["redis"] = "ok"
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status": checks,
	})
}
