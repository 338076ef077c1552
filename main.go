package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/matheuskieling/sleep-tracker/config"
	"github.com/matheuskieling/sleep-tracker/cron"
	"github.com/matheuskieling/sleep-tracker/database"
	lockRepo "github.com/matheuskieling/sleep-tracker/database/repository/lock"
	"github.com/matheuskieling/sleep-tracker/handlers"
	"github.com/matheuskieling/sleep-tracker/routes"
	"github.com/matheuskieling/sleep-tracker/services/push"
	"github.com/matheuskieling/sleep-tracker/services/reminder"
	"github.com/matheuskieling/sleep-tracker/services/user"
	"github.com/matheuskieling/sleep-tracker/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer logger.Sync()

	loc, err := utils.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Fatal("main: invalid timezone", zap.Error(err))
	}

	utils.FirebaseInit(cfg.StoreBackend == config.BackendFirestore)
	defer utils.FirebaseClose()
	if cfg.StoreBackend == config.BackendMongo {
		database.InitDB()
	}
	redisClient := utils.GetLockClient()

	stores, err := database.OpenStores(cfg.StoreBackend, utils.FirestoreClient)
	if err != nil {
		logger.Fatal("main: failed to open stores", zap.Error(err))
	}

	gateway := push.NewGuardedGateway(
		push.NewFCMGateway(utils.FCMClient, cfg.AndroidChannelID),
		cfg.PushRateLimit,
		push.BreakerSettings("fcm"),
	)

	dispatcher, err := reminder.NewDispatcher(stores.Users, stores.Entries, gateway, logger.Named("dispatcher"), reminder.Options{
		Location:    loc,
		Concurrency: cfg.DispatchConcurrency,
	})
	if err != nil {
		logger.Fatal("main: failed to build dispatcher", zap.Error(err))
	}

	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	utils.StartHealthMonitor(monitorCtx, map[string]utils.HealthCheck{
		cfg.StoreBackend: stores.Check,
		"redis": func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		},
	})

	jobs := cron.Jobs(cfg.JobRetryCount)
	var stopScheduling func()
	switch cfg.SchedulerMode {
	case config.SchedulerLocal:
		local, err := cron.NewLocalScheduler(dispatcher, lockRepo.NewRedisJobLocker(redisClient), loc, jobs, cfg.JobTimeout, logger.Named("scheduler"))
		if err != nil {
			logger.Fatal("main: failed to build local scheduler", zap.Error(err))
		}
		if err := local.Start(); err != nil {
			logger.Fatal("main: failed to start local scheduler", zap.Error(err))
		}
		stopScheduling = local.Stop
	default:
		redisOpt := utils.ReminderQueueRedisOpt()
		worker := cron.NewReminderWorker(redisOpt, cfg.WorkerConcurrency, dispatcher, logger.Named("worker"))
		if err := worker.Start(); err != nil {
			logger.Fatal("main: failed to start reminder worker", zap.Error(err))
		}
		scheduler, err := cron.NewReminderScheduler(redisOpt, loc, jobs, cfg.JobTimeout, logger.Named("scheduler"))
		if err != nil {
			logger.Fatal("main: failed to build reminder scheduler", zap.Error(err))
		}
		if err := scheduler.Start(); err != nil {
			logger.Fatal("main: failed to start reminder scheduler", zap.Error(err))
		}
		stopScheduling = func() {
			scheduler.Shutdown()
			worker.Shutdown()
		}
	}

	userService, err := user.NewDefaultUserService(stores.Users)
	if err != nil {
		logger.Fatal("main: failed to build user service", zap.Error(err))
	}

	handlerBundle := &handlers.HandlerBundle{
		TokenVerifier:     utils.AuthClient,
		AdminAPIKey:       cfg.AdminAPIKey,
		MaxRequestsPerMin: cfg.MaxRequestsPerMin,
		UserDeviceHandler: handlers.NewUserDeviceHandler(userService),
		ReminderHandler:   handlers.NewReminderHandler(dispatcher),
		HealthHandler: handlers.NewHealthHandler(dispatcher.Metrics(), func() string {
			return gateway.State().String()
		}),
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(handlers.RequestLogger(logger.Named("http")))
	routes.RegisterRoutes(router, handlerBundle)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Starting server",
		zap.String("addr", srv.Addr),
		zap.String("storeBackend", cfg.StoreBackend),
		zap.String("schedulerMode", cfg.SchedulerMode),
		zap.String("timezone", loc.String()),
	)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("main: server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: server is shutting down...")

	stopScheduling()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	database.CloseDB(ctx)
	_ = redisClient.Close()

	logger.Info("main: server stopped gracefully")
}
