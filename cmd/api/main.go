package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/borrowbox/borrowbox-backend/api/controllers"
	"github.com/borrowbox/borrowbox-backend/api/routes"
	item "github.com/borrowbox/borrowbox-backend/internal/items"
	"github.com/borrowbox/borrowbox-backend/internal/lending"
	"github.com/borrowbox/borrowbox-backend/internal/media"
	profile "github.com/borrowbox/borrowbox-backend/internal/profiles"
	request "github.com/borrowbox/borrowbox-backend/internal/requests"
	"github.com/borrowbox/borrowbox-backend/pkg/config"
	"github.com/borrowbox/borrowbox-backend/pkg/db"
	"github.com/borrowbox/borrowbox-backend/pkg/logger"
	"github.com/borrowbox/borrowbox-backend/pkg/metrics"
	"github.com/borrowbox/borrowbox-backend/pkg/migrate"
	"github.com/borrowbox/borrowbox-backend/pkg/redis"
	"github.com/borrowbox/borrowbox-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	readiness := map[string]controllers.Pinger{
		"database": dbClient,
		"redis":    redisClient,
	}

	var gcsClient *gcs.Client
	if cfg.GCS.BucketName != "" {
		gcsClient, err = gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap gcs", err)
			os.Exit(1)
		}
		readiness["gcs"] = gcsClient
	}

	profileService, err := profile.NewService(profile.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create profile service", err)
		os.Exit(1)
	}

	itemService, err := item.NewService(item.NewRepository(dbClient.DB()), profileService)
	if err != nil {
		logg.Error(context.Background(), "failed to create item service", err)
		os.Exit(1)
	}

	lendingService, err := lending.NewService(lending.ServiceParams{
		Items:    item.NewRepository(dbClient.DB()),
		Requests: request.NewRepository(dbClient.DB()),
		DB:       dbClient,
		Names:    profileService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create lending service", err)
		os.Exit(1)
	}

	var mediaService media.Service
	if gcsClient != nil {
		mediaService, err = media.NewService(gcsClient, cfg.Media.MaxUploadMB)
		if err != nil {
			logg.Error(context.Background(), "failed to create media service", err)
			os.Exit(1)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:      cfg,
			Logger:      logg,
			Readiness:   readiness,
			Redis:       redisClient,
			HTTPMetrics: metrics.NewHTTPMetrics(prometheus.DefaultRegisterer),
			Items:       itemService,
			Lending:     lendingService,
			Profiles:    profileService,
			Media:       mediaService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
