package appServer

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tisport/tisport/config"
	repository "github.com/tisport/tisport/internal/database/postgres"
	redisCache "github.com/tisport/tisport/internal/database/redis"
	"github.com/tisport/tisport/internal/entity"
	"github.com/tisport/tisport/internal/fixtures"
	"github.com/tisport/tisport/internal/service"
	"github.com/tisport/tisport/internal/transport"
	"github.com/tisport/tisport/internal/worker"

	"github.com/tisport/tisport/pkg/postgres"
	"github.com/tisport/tisport/pkg/queue"
	"github.com/tisport/tisport/pkg/redis"
	"github.com/tisport/tisport/pkg/scheduler"
	"github.com/tisport/tisport/pkg/telegram"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func NewServer(cfg *config.Config) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)

	db, err := postgres.NewPostgresDB(&cfg.Database)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}

	eventRepo := repository.NewEventRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	userRepo := repository.NewUserRepository(db)
	pointRepo := repository.NewPointRepository(db)

	paymentMethods, err := fixtures.LoadPaymentMethods(cfg.Catalog.PaymentMethodsFile)
	if err != nil {
		logrus.Fatalf("Failed to load payment methods catalog: %v", err)
	}
	voucherService := service.NewVoucherService(fixtures.Vouchers())

	var telegramBot *telegram.Bot
	if cfg.Telegram.Enabled && cfg.Telegram.BotToken != "" {
		telegramBot = telegram.NewBot(cfg.Telegram.BotToken)
		logrus.Info("Telegram bot initialized")
	} else {
		logrus.Warn("Telegram bot disabled, notifications off")
	}

	var redisQueue queue.Queue
	var taskPublisher service.TaskPublisher
	var eventCache service.EventCache

	if cfg.Redis.Host != "" {
		redisClient := redis.NewRedisClient(&cfg.Redis)
		defer redisClient.Close()

		eventCache = redisCache.NewCacheRepository(redisClient, cfg.Redis.CacheTTL)

		queueConfig := queue.DefaultRedisQueueConfig()
		queueConfig.Addr = fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
		queueConfig.Password = cfg.Redis.Password
		queueConfig.DB = cfg.Redis.DB

		retryManager := queue.NewRetryManager(3, 5*time.Second)
		dlqHandler := queue.NewDefaultDLQHandler(redisClient, queueConfig.DLQ, queueConfig.MainQueue)

		redisQueue, err = queue.NewRedisQueue(queueConfig, retryManager, dlqHandler)
		if err != nil {
			logrus.Errorf("Failed to initialize Redis queue: %v. Continuing without queue...", err)
			redisQueue = nil
		} else {
			logrus.Info("Redis queue initialized")
			taskPublisher = service.NewQueueAdapter(redisQueue)
		}
	}

	paymentWindow := time.Duration(cfg.Checkout.PaymentWindowMinutes) * time.Minute

	orderService := service.NewOrderService(orderRepo, eventRepo, userRepo, pointRepo,
		voucherService, paymentMethods, taskPublisher, telegramBot, paymentWindow)
	eventService := service.NewEventService(eventRepo, orderRepo, eventCache)
	userService := service.NewUserService(userRepo, pointRepo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seedCatalog(ctx, eventService, cfg.Catalog.EventsFile)

	if redisQueue != nil {
		var notifier queue.Notifier
		if telegramBot != nil {
			notifier = telegramBot
		}
		taskHandler := queue.NewTaskHandler(orderService, notifier)

		go func() {
			if err := redisQueue.Subscribe(ctx, taskHandler.HandleTask); err != nil {
				logrus.Errorf("Queue subscriber error: %v", err)
			}
		}()
		logrus.Info("Queue subscriber started")
	}

	expirationScheduler := scheduler.NewScheduler(orderService, cfg.Worker.SweepInterval)
	go expirationScheduler.Start(ctx)
	logrus.Info("Expiration scheduler started")

	expiryWorker := worker.NewOrderExpiryWorker(orderService, cfg.Worker.CleanupInterval)
	go expiryWorker.Start(ctx)
	logrus.Info("Order expiry worker started")

	eventHandler := transport.NewEventHandler(eventService)
	orderHandler := transport.NewOrderHandler(orderService, voucherService)
	userHandler := transport.NewUserHandler(userService, orderService)
	adminHandler := transport.NewAdminHandler(eventService, orderService, userService)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, transport.InitRoutes(eventHandler, orderHandler, userHandler, adminHandler)); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}

	if redisQueue != nil {
		if err := redisQueue.Close(); err != nil {
			logrus.Errorf("error occured on queue shutting down: %s", err.Error())
		}
	}
}

// seedCatalog loads the bundled event fixtures into an empty database so a
// fresh deployment has something to sell.
func seedCatalog(ctx context.Context, eventService service.EventService, path string) {
	if path == "" {
		return
	}

	events, err := fixtures.LoadEvents(path)
	if err != nil {
		logrus.Warnf("Failed to load event fixtures: %v", err)
		return
	}

	// Seed fixtures start in the past in the repo; push them into the
	// future relative to boot so they are bookable.
	now := time.Now()
	for _, ev := range events {
		if ev.StartsAt.Before(now) && ev.Status == entity.EventStatusOpen {
			shift := now.Sub(ev.StartsAt).Round(24*time.Hour) + 7*24*time.Hour
			ev.StartsAt = ev.StartsAt.Add(shift)
			ev.EndsAt = ev.EndsAt.Add(shift)
		}
	}

	if err := eventService.SeedEvents(ctx, events); err != nil {
		logrus.Warnf("Failed to seed event catalog: %v", err)
	}
}
