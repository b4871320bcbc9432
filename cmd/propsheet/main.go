package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/prop-sheet/internal/api"
	"github.com/jstittsworth/prop-sheet/internal/nfl"
	"github.com/jstittsworth/prop-sheet/internal/providers"
	"github.com/jstittsworth/prop-sheet/internal/services"
	"github.com/jstittsworth/prop-sheet/pkg/config"
	"github.com/jstittsworth/prop-sheet/pkg/database"
)

func main() {
	week := flag.Int("week", 0, "target week (required for one-shot runs)")
	season := flag.Int("season", 0, "season (defaults to configured season)")
	dryRun := flag.Bool("dry-run", false, "compute and report without writing")
	postGame := flag.Bool("post-game", false, "run settlement instead of enrichment")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	if cfg.IsDevelopment() {
		logrus.SetLevel(logrus.DebugLevel)
		gin.SetMode(gin.DebugMode)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
		gin.SetMode(gin.ReleaseMode)
	}
	logger := logrus.StandardLogger()

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Redis is a cross-run response cache; a run works without it.
	var responseCache nfl.CacheProvider
	if opt, err := redis.ParseURL(cfg.RedisURL); err == nil {
		redisClient := redis.NewClient(opt)
		if err := redisClient.Ping(context.Background()).Err(); err == nil {
			defer redisClient.Close()
			responseCache = services.NewCacheService(redisClient)
		} else {
			logrus.Warnf("Redis unavailable, running without response cache: %v", err)
		}
	} else {
		logrus.Warnf("Invalid Redis URL, running without response cache: %v", err)
	}

	notifier := buildNotifier(cfg, logger)

	// Each pipeline gets fresh run-scoped caches; the providers behind it
	// carry the per-source politeness limits and breakers.
	factory := func() *services.Pipeline {
		linesClient := providers.NewClient("lines", cfg.HTTPTimeout, cfg.OddsFetchDelay, cfg.MaxFetchAttempts, cfg.BreakerThreshold, logger)
		statsClient := providers.NewClient("stats", cfg.HTTPTimeout, cfg.StatsFetchDelay, cfg.MaxFetchAttempts, cfg.BreakerThreshold, logger)
		defenseClient := providers.NewClient("defense", cfg.HTTPTimeout, cfg.DefenseFetchDelay, cfg.MaxFetchAttempts, cfg.BreakerThreshold, logger)

		linesProvider := providers.NewLinesProvider(linesClient, responseCache, logger, cfg.PropsPrimaryURL, cfg.PropsSecondaryURL, cfg.PropsPageURL)
		statsProvider := providers.NewStatsProvider(statsClient, responseCache, logger, cfg.StatsBaseURL)
		defenseProvider := providers.NewDefenseProvider(defenseClient, responseCache, logger, cfg.DefenseBaseURL)

		statsService := services.NewPlayerStatsService(db, statsProvider, logger)
		defenseService := services.NewDefenseStatsService(defenseProvider, logger)
		scheduleService := services.NewScheduleService(db, logger)
		storeService := services.NewPropStoreService(db, logger, cfg.WriteBatchSize)
		settlementService := services.NewSettlementService(db, statsService, logger)

		return services.NewPipeline(db, linesProvider, statsService, defenseService,
			scheduleService, storeService, settlementService, notifier, logger)
	}

	seasonStart, err := time.Parse("2006-01-02", cfg.SeasonStart)
	if err != nil {
		logrus.Warnf("Invalid SEASON_START, defaulting to September 4: %v", err)
		seasonStart = time.Date(cfg.Season, time.September, 4, 0, 0, 0, 0, time.UTC)
	}
	fetcher := services.NewFetcherService(factory, logger, cfg.EnrichCron, cfg.SettleCron, cfg.Season, seasonStart)

	if cfg.EnableScheduler {
		runScheduler(cfg, fetcher)
		return
	}

	// One-shot batch run
	if *week <= 0 {
		fmt.Fprintln(os.Stderr, "usage: propsheet -week N [-season YYYY] [-dry-run] [-post-game]")
		os.Exit(2)
	}
	runSeason := *season
	if runSeason == 0 {
		runSeason = cfg.Season
	}

	report, err := fetcher.RunOnDemand(services.RunOptions{
		Week:     *week,
		Season:   runSeason,
		DryRun:   *dryRun,
		PostGame: *postGame,
	})
	if err != nil {
		logrus.Fatalf("Run failed: %v", err)
	}

	if report.Settlement != nil {
		logrus.Infof("Settlement report: %d settled (%d W / %d L / %d P), %d skipped",
			report.Settlement.Settled, report.Settlement.Wins, report.Settlement.Losses,
			report.Settlement.Pushes, len(report.Settlement.Skipped))
	} else {
		logrus.Infof("Run report: fetched=%d enriched=%d skipped=%d written=%d duplicates=%d",
			report.Fetched, report.Enriched, report.Skipped, report.Written, report.Duplicates)
	}
}

func buildNotifier(cfg *config.Config, logger *logrus.Logger) *services.PickNotifier {
	if !cfg.EnableAlerts {
		return nil
	}

	var sms services.SMSService
	switch cfg.SMSProvider {
	case "twilio":
		rateLimiter := services.NewSMSRateLimiter(5, time.Hour)
		sms = services.NewTwilioSMSService(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, rateLimiter, logger)
	default:
		sms = services.NewMockSMSService()
	}

	return services.NewPickNotifier(sms, cfg.AlertNumbers, cfg.AlertEdgeThreshold, logger)
}

func runScheduler(cfg *config.Config, fetcher *services.FetcherService) {
	if err := fetcher.Start(); err != nil {
		logrus.Fatalf("Failed to start fetcher: %v", err)
	}
	defer fetcher.Stop()

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, fetcher)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.Infof("Starting status server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}
}
