package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/seo-optimizer/advisor/analyzer"
	"github.com/seo-optimizer/advisor/api"
	"github.com/seo-optimizer/advisor/cache"
	"github.com/seo-optimizer/advisor/config"
	"github.com/seo-optimizer/advisor/logging"
	"github.com/seo-optimizer/advisor/metrics"
	"github.com/seo-optimizer/advisor/middleware"
	"github.com/seo-optimizer/advisor/stats"
	"github.com/seo-optimizer/advisor/store"
)

const statsRetentionMonths = 12

func main() {
	envLoaded := config.LoadEnv()

	cfg, err := config.Load()
	if err != nil {
		logger, _ := zap.NewProduction()
		logger.Fatal("failed to load configuration", zap.Error(err))
	}
	gin.SetMode(cfg.GinMode)

	logger, err := logging.New(logging.Options{
		Level:       cfg.LogLevel,
		File:        cfg.LogFile,
		Development: cfg.GinMode == gin.DebugMode,
		Service:     "seo-advisor",
	})
	if err != nil {
		fallback, _ := zap.NewProduction()
		fallback.Fatal("failed to build logger", zap.Error(err))
	}
	defer logger.Sync()
	if !envLoaded {
		logger.Info("no .env file found, using environment variables")
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	db, err := store.Open(cfg.DBPath, logger)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		return err
	}

	settings, err := config.LoadSettings(cfg.SettingsFile)
	if err != nil {
		return err
	}

	usage, err := stats.Open(cfg.StatsDir, logger)
	if err != nil {
		return err
	}
	defer usage.Close()
	usage.Prune(statsRetentionMonths)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	resultCache, closeCache := newResultCache(ctx, cfg, logger)
	defer closeCache()

	seo, err := analyzer.New(ctx, analyzer.Config{
		Content:  db,
		Store:    db,
		Settings: settings,
		Host: analyzer.Host{
			SiteURL:       cfg.SiteURL,
			HTTPS:         cfg.SiteHTTPS,
			ActivePlugins: cfg.ActivePlugins,
			ProductSchema: settings.General.ProductIntegration,
		},
		Cache:   resultCache,
		Stats:   usage,
		Metrics: m,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	traffic := logging.NewTraffic()
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger.Named("http")))
	r.Use(middleware.ErrorHandler(logger))
	r.Use(middleware.Metrics(m))
	r.Use(cors.New(corsConfig(cfg.AllowedOrigins)))
	r.Use(middleware.Traffic(traffic))

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	handler := api.NewHandler(api.Options{
		Analyzer:         seo,
		Products:         analyzer.NewProductAnalyzer(seo, db),
		Repo:             db,
		Stats:            usage,
		Traffic:          traffic,
		Logger:           logger,
		BatchConcurrency: cfg.BatchConcurrency,
		DetailedStats:    cfg.GinMode == gin.DebugMode,
	})
	handler.RegisterRoutes(r.Group("/api", rateLimiter.RateLimit()))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", "http://localhost:"+cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server exited")
	return nil
}

// newResultCache uses Redis when REDIS_ADDR is set and reachable, otherwise memory.
func newResultCache(ctx context.Context, cfg config.Config, logger *zap.Logger) (analyzer.ResultCache, func()) {
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		err := client.Ping(pingCtx).Err()
		if err == nil {
			logger.Info("using redis result cache", zap.String("addr", cfg.RedisAddr))
			c := cache.NewRedis(client, cfg.CacheTTL, logger)
			return c, func() { _ = c.Close() }
		}
		logger.Warn("redis unavailable, falling back to memory cache", zap.Error(err))
		_ = client.Close()
	}
	c := cache.NewMemory(cfg.CacheTTL, 1000)
	return c, func() { _ = c.Close() }
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "Cache-Control", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
		c.AllowCredentials = true
	}
	return c
}
