package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/Th3UrBanGuy/kenakata-sub000/internal/infrastructure/email"
	"github.com/Th3UrBanGuy/kenakata-sub000/internal/repository"
	"github.com/Th3UrBanGuy/kenakata-sub000/internal/service"
	shopHttp "github.com/Th3UrBanGuy/kenakata-sub000/internal/transport/http"
	"github.com/Th3UrBanGuy/kenakata-sub000/internal/transport/http/handler"
	shopKafka "github.com/Th3UrBanGuy/kenakata-sub000/internal/transport/kafka"
	"github.com/Th3UrBanGuy/kenakata-sub000/pkg/config"
	"github.com/Th3UrBanGuy/kenakata-sub000/pkg/db"
	kafka2 "github.com/Th3UrBanGuy/kenakata-sub000/pkg/kafka"
	outbox "github.com/Th3UrBanGuy/kenakata-sub000/pkg/outbox/repository"
	"github.com/Th3UrBanGuy/kenakata-sub000/pkg/outbox/worker"
	"github.com/Th3UrBanGuy/kenakata-sub000/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	tp, err := utils.InitTracer(ctx, "shop-service")
	if err != nil {
		log.Fatalf("Error init tracer: %v", err)
	}

	pool, err := db.NewPostgresDB(cfg.Postgres.URL)
	if err != nil {
		log.Fatalf("Error creating new postgres DB: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})

	logger, err := config.NewLogger(config.LoggerConfig{
		Level: "info",
		Env:   cfg.Env,
	})
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("shop service started!")

	productRepository := repository.NewProductRepository(pool, logger)
	couponRepository := repository.NewCouponRepository(pool, logger)
	orderRepository := repository.NewOrderRepository(pool, logger)
	supportRepository := repository.NewSupportRepository(pool, logger)
	outboxRepository := outbox.NewOutboxRepository(pool, logger)

	catalogService := service.NewCatalogService(productRepository, pool, logger)
	cachedCatalogService := service.NewCachedCatalogService(catalogService, rdb)
	couponService := service.NewCouponService(pool, logger, couponRepository)
	orderService := service.NewOrderService(pool, logger, orderRepository)
	supportService := service.NewSupportService(supportRepository, logger)
	checkoutService := service.NewCheckoutService(
		pool,
		logger,
		productRepository,
		couponRepository,
		orderRepository,
		outboxRepository,
		cfg.Checkout.MaxAttempts,
		cfg.Checkout.RetryDelay,
	)

	kafkaProducer, err := kafka2.NewProducer(cfg.Kafka.Brokers)
	if err != nil {
		log.Fatalf("error creating kafka producer: %v", err)
	}

	outboxProcessor := worker.NewOutboxProcessor(pool, outboxRepository, kafkaProducer, logger)
	go outboxProcessor.Start(ctx)

	emailSender := email.NewSMTPSender(logger)
	notificationService := service.NewNotificationService(emailSender, logger, pool)
	consumer := shopKafka.NewConsumer(notificationService, logger)
	go consumer.Start(ctx, cfg.Kafka.Brokers)

	app := fiber.New(fiber.Config{
		ReadTimeout: cfg.HTTP.Timeout,
	})

	handlers := &shopHttp.Handlers{
		Catalog:  handler.NewCatalogHandler(cachedCatalogService, logger),
		Checkout: handler.NewCheckoutHandler(checkoutService, couponService, logger),
		Coupon:   handler.NewCouponHandler(couponService, logger),
		Order:    handler.NewOrderHandler(orderService, logger),
		Support:  handler.NewSupportHandler(supportService, logger),
	}

	shopHttp.RegisterRoutes(app, handlers)

	go func() {
		log.Println("HTTP shop service listening on port: " + cfg.HTTP.Port)
		if err := app.Listen(cfg.HTTP.Port); err != nil {
			log.Fatalf("Error listening HTTP on port %v: %v", cfg.HTTP.Port, err)
		}
	}()

	<-ctx.Done()

	log.Println("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	} else {
		log.Println("Stopped HTTP server successfully")
	}

	if err := kafkaProducer.Close(); err != nil {
		log.Printf("Error closing kafka producer: %v", err)
	}

	pool.Close()
	log.Println("Closed db pool successfully")

	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error stopping telemetry: %v\n", err)
	} else {
		log.Println("Telemetry closed correctly")
	}
}
