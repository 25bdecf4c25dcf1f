package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parkwatch/internal/config"
	"parkwatch/internal/database"
	httpapi "parkwatch/internal/http"
	"parkwatch/internal/logger"
	"parkwatch/internal/mqtt"
	"parkwatch/internal/repository"
	"parkwatch/internal/service"
	"parkwatch/internal/store"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "parkwatch")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	kv := store.NewRedisKV(redisClient)
	sessions := store.NewKVSessionStore(kv, cfg.Session.TTL)

	usersRepo := repository.NewPostgresUsersRepository(db)
	vehiclesRepo := repository.NewPostgresVehiclesRepository(db)
	passesRepo := repository.NewPostgresPassesRepository(db)
	violationsRepo := repository.NewPostgresViolationsRepository(db)
	paymentsRepo := repository.NewPostgresPaymentsRepository(db)
	lotsRepo := repository.NewPostgresLotsRepository(db)

	var gateway service.PaymentGateway
	if cfg.Gateway.Enabled {
		gateway = service.NewRestyGateway(cfg.Gateway.BaseURL, cfg.Gateway.APIKey, log)
		log.Info("payment gateway enabled", zap.String("baseURL", cfg.Gateway.BaseURL))
	}

	authService := service.NewAuthService(usersRepo, vehiclesRepo, sessions, log)
	passService := service.NewPassService(passesRepo, vehiclesRepo, cfg.PassTiers, log)
	verifyService := service.NewVerifyService(vehiclesRepo, log)
	violationService := service.NewViolationService(violationsRepo, log)
	paymentService := service.NewPaymentService(paymentsRepo, violationsRepo, gateway, log)
	lotService := service.NewLotService(lotsRepo, log)

	router := httpapi.NewRouter(log)
	router.RegisterAuthRoutes(httpapi.NewAuthHandler(authService, sessions, log))
	router.RegisterPassRoutes(httpapi.NewPassHandler(passService, log))
	router.RegisterVerifyRoutes(httpapi.NewVerifyHandler(verifyService, log))
	router.RegisterViolationRoutes(httpapi.NewViolationHandler(violationService, log))
	router.RegisterPaymentRoutes(httpapi.NewPaymentHandler(paymentService, log))
	router.RegisterLotRoutes(httpapi.NewLotHandler(lotService, log))
	router.RegisterReportRoutes(httpapi.NewReportHandler(violationService, log))

	var scanner *mqtt.ScannerSubscriber
	if cfg.MQTT.Enabled {
		scanner, err = mqtt.NewScannerSubscriber(&cfg.MQTT, verifyService, violationService, log)
		if err != nil {
			log.Fatal("failed to connect scanner subscriber", zap.Error(err))
		}
		if err := scanner.Start(); err != nil {
			log.Fatal("failed to subscribe to plate scans", zap.Error(err))
		}
	}

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
	case err := <-errCh:
		log.Error("server exited", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	if scanner != nil {
		scanner.Stop()
	}
}
