package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/hackdesk/helpdesk-service/internal/api/http"
	"github.com/hackdesk/helpdesk-service/internal/api/http/handlers"
	"github.com/hackdesk/helpdesk-service/internal/auth"
	"github.com/hackdesk/helpdesk-service/internal/config"
	"github.com/hackdesk/helpdesk-service/internal/events"
	"github.com/hackdesk/helpdesk-service/internal/observability"
	"github.com/hackdesk/helpdesk-service/internal/persistence"
	"github.com/hackdesk/helpdesk-service/internal/repository"
	"github.com/hackdesk/helpdesk-service/internal/service"
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

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	counterRepo := repository.NewCounterRepository(pool)
	configRepo := repository.NewConfigRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	mentorRepo := repository.NewMentorRepository(pool)

	allocator := service.NewIDAllocator(counterRepo, ticketRepo, logger)
	if err := allocator.Bootstrap(ctx); err != nil {
		logger.Fatal("failed to bootstrap ticket counter", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	lifecycleService := service.NewLifecycleService(service.LifecycleDependencies{
		TicketRepo: ticketRepo,
		Allocator:  allocator,
		Dispatcher: dispatcher,
	})
	configService := service.NewConfigService(configRepo, redis, cfg.Redis.ConfigCacheTTL(), logger)
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		MentorRepo: mentorRepo,
	})

	var deliverer service.Deliverer
	if cfg.Notification.WebhookURL != "" {
		deliverer = service.NewWebhookDeliverer(cfg.Notification)
	} else {
		deliverer = service.NewLogDeliverer(logger)
	}
	notificationService := service.NewNotificationService(dispatcher, configService, deliverer, logger, metrics)
	notificationService.RegisterHandlers()

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo, mentorRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Mentors:        handlers.NewMentorsHandler(authService),
		Tickets:        handlers.NewTicketsHandler(lifecycleService),
		MentorTickets:  handlers.NewMentorTicketsHandler(lifecycleService),
		Configs:        handlers.NewConfigsHandler(configService),
		AuthMiddleware: authMiddleware,
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
