package main

import (
	"context"
	"log"
	"os/signal"
	"strings"
	"syscall"

	"checkout-service/clients"
	"checkout-service/config"
	"checkout-service/controllers"
	"checkout-service/database"
	"checkout-service/kafka"
	"checkout-service/logger"
	"checkout-service/metrics"
	"checkout-service/models"
	repositories "checkout-service/repository"
	"checkout-service/routes"
	"checkout-service/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("[CheckoutService] ❌ Failed to load config:", err)
	}

	// Connect DB
	if err := database.Connect(); err != nil {
		log.Fatal("[CheckoutService] ❌ Failed to connect to DB:", err)
	}
	if err := database.DB.AutoMigrate(&models.CheckoutSession{}, &models.PendingOrder{}); err != nil {
		log.Fatal("[CheckoutService] ❌ Failed to migrate checkout models:", err)
	}

	// Initialize logger
	logger.Initialize("production")
	defer logger.Log.Sync()

	// rootCtx bounds background work (gateway waits, reconciler) to the
	// process lifetime.
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient := database.NewRedisClient(cfg.RedisURL)
	cartRepo := database.NewCartRepository(redisClient, cfg.SessionTTL)
	sessionStore := database.NewSessionStore(redisClient)

	checkoutRepo := repositories.NewGormCheckoutRepository(database.DB)
	paymentClient := clients.NewPaymentClient(cfg.PaymentAPIURL, cfg.ClientTimeout)
	orderClient := clients.NewOrderClient(cfg.OrderAPIURL, cfg.ClientTimeout)

	producer := kafka.NewCheckoutEventProducer(strings.Split(cfg.KafkaBrokers, ","), cfg.KafkaTopic)
	defer producer.Close()

	checkoutMetrics := metrics.NewCheckoutMetrics()

	gate := services.NewIdentityGate(sessionStore)
	collector := services.NewCollector(services.GatewayConfig{
		Key:          cfg.GatewayKey,
		MerchantName: cfg.MerchantName,
		Description:  cfg.OrderDescription,
		ThemeColor:   cfg.ThemeColor,
	})

	checkoutSvc := services.NewCheckoutService(
		rootCtx,
		gate,
		cartRepo,
		paymentClient,
		collector,
		orderClient,
		checkoutRepo,
		producer,
		checkoutMetrics,
		cfg.DeliveryCharge,
		cfg.Currency,
		logger.Log,
	)

	reconciler := services.NewReconciler(
		checkoutRepo,
		orderClient,
		cartRepo,
		producer,
		checkoutMetrics,
		cfg.ReconcileEvery,
		logger.Log,
	)
	go reconciler.Run(rootCtx)

	// HTTP server
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())

	cc := &controllers.CheckoutController{
		Service: checkoutSvc,
		Logger:  logger.Log,
	}
	routes.RegisterCheckoutRoutes(r, cc)

	log.Println("[CheckoutService] ✅ Running on port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("[CheckoutService] ❌ Server failed:", err)
	}
}
