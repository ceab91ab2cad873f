package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/dinobux/storebot/internal/api/http"
	"github.com/dinobux/storebot/internal/api/http/handlers"
	"github.com/dinobux/storebot/internal/auth"
	"github.com/dinobux/storebot/internal/bot"
	"github.com/dinobux/storebot/internal/config"
	"github.com/dinobux/storebot/internal/events"
	"github.com/dinobux/storebot/internal/observability"
	"github.com/dinobux/storebot/internal/persistence"
	"github.com/dinobux/storebot/internal/platform"
	"github.com/dinobux/storebot/internal/render"
	"github.com/dinobux/storebot/internal/repository"
	"github.com/dinobux/storebot/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	gateway, err := platform.NewTelegramGateway(cfg.Telegram.Token, cfg.Telegram.ChatID, logger)
	if err != nil {
		logger.Fatal("failed to authorize telegram bot", zap.Error(err))
	}

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	ledgerRepo := repository.NewLedgerRepository(pool)
	staffRepo := repository.NewStaffRepository(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	receipts := render.NewPusher(gateway, cfg.Shop, logger)

	ledgerService := service.NewLedgerService(ledgerRepo, logger)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   ticketRepo,
		Ledger:       ledgerService,
		Gateway:      gateway,
		Receipts:     receipts,
		Dispatcher:   dispatcher,
		CreationLock: service.NewRedisCreationLock(redis.Client),
		Shop:         cfg.Shop,
		Logger:       logger,
		Metrics:      metrics,
	})
	service.NewNotificationService(gateway, cfg.Telegram.LogThreadID, logger).Register(dispatcher)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authService := service.NewAuthService(staffRepo, tokens, logger)
	authMiddleware := auth.NewAuthMiddleware(tokens, staffRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Staff:          handlers.NewStaffHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Ledger:         handlers.NewLedgerHandler(ledgerService),
		AuthMiddleware: authMiddleware,
	})

	botDispatcher := bot.NewDispatcher(gateway, gateway, ticketService, ledgerService, cfg.Telegram, cfg.Shop, logger)

	go gateway.Run(ctx)
	go botDispatcher.Run(ctx)
	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
