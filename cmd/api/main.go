package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/atende/servicedesk/internal/api/http"
	"github.com/atende/servicedesk/internal/api/http/handlers"
	"github.com/atende/servicedesk/internal/auth"
	"github.com/atende/servicedesk/internal/config"
	"github.com/atende/servicedesk/internal/events"
	"github.com/atende/servicedesk/internal/intake"
	"github.com/atende/servicedesk/internal/notify"
	"github.com/atende/servicedesk/internal/observability"
	"github.com/atende/servicedesk/internal/persistence"
	"github.com/atende/servicedesk/internal/repository"
	"github.com/atende/servicedesk/internal/service"
	"github.com/atende/servicedesk/internal/worker"
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

	metrics := observability.NewMetrics()

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	historyRepo := repository.NewHistoryRepository(pool)
	txManager := repository.NewTxManager(pool)

	dispatcher := events.NewInMemoryDispatcher(logger)

	notifier := notify.NewDispatcher(
		notify.NewWebhookChatSender(cfg.Notify),
		notify.NewSMTPEmailSender(cfg.Notify),
		notify.NewRedisAttemptGuard(redis.ClientHandle(), cfg.Notify.AttemptGuardTTL()),
		logger,
		metrics,
	)
	worker.StartNotificationWorker(dispatcher, notifier)

	engine := service.NewLifecycleService(service.LifecycleDependencies{
		TicketRepo:  ticketRepo,
		HistoryRepo: historyRepo,
		TxManager:   txManager,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})

	chatAdapter := intake.NewChatAdapter(engine, logger)
	actorMiddleware := auth.NewActorMiddleware(auth.NewTokenManager(cfg.Auth.JWTSecret))

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:          handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Tickets:         handlers.NewTicketsHandler(engine),
		Intake:          handlers.NewIntakeHandler(chatAdapter),
		ActorMiddleware: actorMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
