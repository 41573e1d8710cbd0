package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"telegram-file-relay/internal/application"
	"telegram-file-relay/internal/config"
	"telegram-file-relay/internal/domain/ports/adapter"
	tele "telegram-file-relay/internal/infra/adapters/telegram"
	"telegram-file-relay/internal/infra/api"
	pg "telegram-file-relay/internal/infra/db/postgres"
	"telegram-file-relay/internal/infra/logging"
	"telegram-file-relay/internal/infra/metrics"
	red "telegram-file-relay/internal/infra/redis"
	"telegram-file-relay/internal/infra/worker"
	"telegram-file-relay/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (verbose logging, noop bot allowed)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, *devMode)
	if *devMode {
		logger.Info().Msg("dev mode enabled")
	}

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()
	if err := pg.Migrate(ctx, pool); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)

	// ---- Repositories ----
	fileRepo := pg.NewFileRepoCacheDecorator(pg.NewPostgresFileRepo(pool), redisClient, cfg.Redis.TTL)

	// ---- Use cases ----
	fileUC := usecase.NewFileUseCase(fileRepo, logger)
	menuUC := usecase.NewMenuUseCase(fileUC, cfg.Bot.Username, logger)

	broadcastPool := worker.NewPool(4, logger)
	broadcastPool.Start(ctx)
	defer broadcastPool.Stop()

	// The broadcast use case sends through the bot adapter, and the adapter
	// needs the facade; construct the facade first and patch the broadcast
	// use case in once the adapter exists.
	facade := application.NewBotFacade(fileUC, menuUC, nil)

	// ---- Telegram ----
	// A dev run without credentials uses the noop adapter: outbound traffic
	// goes to the log and polling is skipped.
	var bot adapter.TelegramBotAdapter
	if cfg.Runtime.Dev && cfg.Bot.Token == "" {
		logger.Warn().Msg("no bot token configured; using noop bot adapter")
		bot = tele.NewNoopBotAdapter(logger)
	} else {
		botAdapter, err := tele.NewRealTelegramBotAdapter(&cfg.Bot, facade, rateLimiter, logger)
		if err != nil {
			log.Fatalf("telegram: %v", err)
		}
		if strings.ToLower(cfg.Bot.Mode) != "polling" {
			logger.Warn().Str("mode", cfg.Bot.Mode).Msg("bot mode not implemented; falling back to polling")
		}
		go func() {
			if err := botAdapter.StartPolling(ctx); err != nil && ctx.Err() == nil {
				logger.Error().Err(err).Msg("telegram polling stopped")
			}
		}()
		bot = botAdapter
	}
	facade.BroadcastUC = usecase.NewBroadcastUseCase(fileRepo, bot, broadcastPool, logger)

	// ---- Admin server (health + metrics) ----
	metrics.MustRegister()
	adminSrv := api.NewServer(map[string]api.Pinger{
		"postgres": pool,
		"redis":    redisClient,
	})
	go func() {
		logger.Info().Int("port", cfg.Admin.Port).Msg("admin server listening")
		if err := adminSrv.ListenAndServe(ctx, cfg.Admin.Port); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("admin server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()
}
