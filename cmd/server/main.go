package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/coding-portfolio/adapters/event"
	httpAdapter "github.com/khoahotran/coding-portfolio/adapters/http"
	"github.com/khoahotran/coding-portfolio/adapters/media_storage"
	"github.com/khoahotran/coding-portfolio/adapters/persistence"
	"github.com/khoahotran/coding-portfolio/adapters/statsapi"
	"github.com/khoahotran/coding-portfolio/internal/application/service"
	authUC "github.com/khoahotran/coding-portfolio/internal/application/usecase/auth"
	pageviewUC "github.com/khoahotran/coding-portfolio/internal/application/usecase/pageview"
	profileUC "github.com/khoahotran/coding-portfolio/internal/application/usecase/profile"
	showcaseUC "github.com/khoahotran/coding-portfolio/internal/application/usecase/showcase"
	statsUC "github.com/khoahotran/coding-portfolio/internal/application/usecase/stats"
	"github.com/khoahotran/coding-portfolio/internal/config"
	"github.com/khoahotran/coding-portfolio/internal/domain/profile"
	"github.com/khoahotran/coding-portfolio/internal/domain/stats"
	"github.com/khoahotran/coding-portfolio/pkg/auth"
	"github.com/khoahotran/coding-portfolio/pkg/logger"
	"github.com/khoahotran/coding-portfolio/pkg/tracing"
)

const shutdownTimeout = 10 * time.Second

func main() {
	fmt.Println("Start Coding Portfolio Server...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.NewTracerProvider(cfg, appLogger, "coding-portfolio-server")
	if err != nil {
		appLogger.Fatal("Cannot init tracer provider", err)
	}
	defer tracing.Shutdown(context.Background(), tp, appLogger)

	// Optional infrastructure
	var statsCache service.StatsCache
	if cfg.Redis.Addr != "" {
		redisClient, err := persistence.NewRedisClient(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Cannot connect Redis", err)
		}
		defer redisClient.Close()
		statsCache = persistence.NewRedisStatsCache(redisClient, cfg.Stats.CacheTTL)
	}

	var insights *httpAdapter.InsightsHandler
	if cfg.DB.DSN != "" {
		dbPool, err := persistence.NewPostgresPool(ctx, cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Cannot connect Postgres", err)
		}
		defer dbPool.Close()
		insightsUseCase := pageviewUC.NewInsightsUseCase(
			persistence.NewPostgresPageViewRepo(dbPool, appLogger),
			persistence.NewPostgresSnapshotRepo(dbPool, appLogger),
			appLogger,
		)
		insights = httpAdapter.NewInsightsHandler(insightsUseCase, ownerHandles(cfg), appLogger)
	}

	var publisher service.EventPublisher = event.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaClient, err := event.NewKafkaProducerClient(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Cannot init Kafka", err)
		}
		defer kafkaClient.Close()
		publisher = kafkaClient
	}

	// Services
	solved, contribs, err := statsapi.NewProviders(cfg, statsCache, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot init stats providers", err)
	}
	images, err := media_storage.NewCloudinaryAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot init image resolver", err)
	}

	// Admin routes need a signing key.
	var adminJWT *auth.JWTService
	if cfg.Auth.JWTSecret == "" {
		if cfg.Auth.OwnerPasswordHash != "" {
			appLogger.Fatal("Admin login needs auth.jwt_secret", auth.ErrNoSigningKey)
		}
		appLogger.Warn("auth.jwt_secret is empty, admin routes are disabled")
	} else {
		adminJWT = auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	}
	ownerID, err := cfg.OwnerUUID()
	if err != nil {
		appLogger.Fatal("Cannot read owner ID", err)
	}

	// Widgets
	owner := profile.Profile{Handles: ownerHandles(cfg), TUFSolved: cfg.Profile.TUFSolved}
	widgets := statsUC.NewPool(solved, contribs, publisher, owner.Handles, cfg.Stats.PoolSize, appLogger)
	defer widgets.Close()

	// Use Cases
	loginUseCase := authUC.NewLoginUseCase(authUC.Owner{
		ID:           ownerID,
		Email:        cfg.Auth.OwnerEmail,
		PasswordHash: cfg.Auth.OwnerPasswordHash,
	}, adminJWT, appLogger)
	profileUseCase := profileUC.NewProfileUseCase(profileUC.FromPool(widgets), owner, cfg.Stats.RenderWait, appLogger)
	showcaseUseCase := showcaseUC.NewShowcaseUseCase(persistence.NewStaticProjectRepo(), images, cfg.App.BaseURL, cfg.App.Owner, appLogger)
	pageViewUseCase := pageviewUC.NewRecordPageViewUseCase(publisher, appLogger)

	// Warm the owner's widget so the first page view has a chance to render settled stats.
	widgets.Widget(ctx, owner.Handles)

	// HTTP
	router := httpAdapter.NewRouter(httpAdapter.Handlers{
		Auth:     httpAdapter.NewAuthHandler(loginUseCase),
		Profile:  httpAdapter.NewProfileHandler(profileUseCase, showcaseUseCase, pageViewUseCase, cfg.App.Owner, appLogger),
		Project:  httpAdapter.NewProjectHandler(showcaseUseCase, appLogger),
		Insights: insights,
	}, adminJWT, appLogger)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Cannot run server", err)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}
}

func ownerHandles(cfg config.Config) stats.Handles {
	return stats.Handles{
		LeetCode: cfg.Profile.LeetCodeHandle,
		GitHub:   cfg.Profile.GitHubHandle,
		TUF:      cfg.Profile.TUFHandle,
	}
}
