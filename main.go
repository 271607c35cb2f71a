package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"astro-connector/internal/config"
	"astro-connector/internal/domain/entities"
	Irepository "astro-connector/internal/domain/interfaces/repository"
	Iservices "astro-connector/internal/domain/interfaces/services"
	"astro-connector/internal/infra/handlers"
	"astro-connector/internal/infra/logger"
	"astro-connector/internal/infra/provider"
	"astro-connector/internal/infra/repository"
	"astro-connector/internal/infra/routes"
	"astro-connector/internal/infra/services"
	"astro-connector/internal/middleware"
	client "astro-connector/internal/pkg"
	"astro-connector/internal/util"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	config.LoadEnv()

	ctx := context.Background()
	log := logger.NewLogger(ctx, true)

	var mongoDB *mongo.Database
	if uri := config.GetEnvDefault("MONGODB_URI", ""); uri != "" {
		mongoDB = client.MongoClient(uri).Database(config.GetEnvDefault("MONGODB_DATABASE", "AstroConnector"))
		log.Info("MongoDB persistence enabled")
	} else {
		log.Info("MONGODB_URI not set, using in-memory stores")
	}

	users := newStore[entities.UserProfile](mongoDB, "users")
	sessions := newStore[entities.Session](mongoDB, "sessions")
	usageStates := newStore[entities.UsageState](mongoDB, "usage_states")
	cacheEntries := newStore[entities.CacheEntry](mongoDB, "astro_cache")
	orders := newStore[entities.Order](mongoDB, "orders")
	payments := newStore[entities.Payment](mongoDB, "payments")

	geocoder := provider.NewGeocodingProvider(
		log,
		config.GetEnvDefault("GEOCODING_API_HOST", ""),
		config.GetEnvDuration("GEOCODING_TIMEOUT", 10*time.Second),
	)
	astro := provider.NewAstrologyProvider(
		log,
		config.GetEnvDefault("ASTROLOGY_API_HOST", ""),
		config.GetEnvDefault("ASTROLOGY_API_KEY", ""),
		config.GetEnvDuration("ASTROLOGY_TIMEOUT", 15*time.Second),
	)
	generator := provider.NewGenerationProvider(
		log,
		config.GetEnv("GENERATION_API_HOST"),
		config.GetEnvDefault("GENERATION_API_KEY", ""),
		config.GetEnvDuration("GENERATION_TIMEOUT", 30*time.Second),
	)
	gateway := provider.NewPaymentGatewayProvider(
		log,
		config.GetEnvDefault("PAYMENT_GATEWAY_HOST", ""),
		config.GetEnvDefault("PAYMENT_KEY_ID", ""),
		config.GetEnv("PAYMENT_KEY_SECRET"),
		config.GetEnvDuration("PAYMENT_GATEWAY_TIMEOUT", 15*time.Second),
	)

	var usageSvc Iservices.IUsageService = services.NewUsageService(log, usageStates)
	cacheSvc := services.NewCacheService(log, cacheEntries, astro)

	// One keyed mutex serializes every usage-state mutation per user,
	// whether it comes from the chat pipeline or a payment settlement.
	userLocks := util.NewKeyedMutex()

	var conversationSvc Iservices.IConversationService = services.NewConversationService(
		log,
		users,
		sessions,
		usageSvc,
		services.NewIntentClassifier(),
		cacheSvc,
		services.NewContextService(),
		geocoder,
		generator,
		userLocks,
	)

	var paymentSvc Iservices.IPaymentService = services.NewPaymentService(
		log,
		gateway,
		orders,
		payments,
		usageSvc,
		config.GetEnv("PAYMENT_KEY_SECRET"),
		config.GetEnvDefault("PAYMENT_WEBHOOK_SECRET", ""),
		userLocks,
	)

	router := mux.NewRouter()
	router.Use(middleware.LoggingMiddleware(log))
	router.Use(middleware.MetricsMiddleware)

	perMinute := config.GetEnvInt("RATE_LIMIT_PER_MINUTE", 120)
	rateLimiter := middleware.NewRateLimiter(perMinute, perMinute)
	defer rateLimiter.Stop()
	router.Use(rateLimiter.Middleware)

	httpHandlers := handlers.NewHttpHandlers(log, conversationSvc, usageSvc)
	paymentHandlers := handlers.NewPaymentHandlers(log, paymentSvc)

	appRoutes := routes.NewRoutes(router, httpHandlers, paymentHandlers)
	appRoutes.Init()

	port := config.GetEnvDefault("PORT", "8080")
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: router,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	go func() {
		log.Info(fmt.Sprintf("Server is running on port %s", port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(fmt.Sprintf("Error running HTTP server: %s", err))
			os.Exit(1)
		}
	}()

	<-stop
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(fmt.Sprintf("Server forced to shutdown: %v", err))
	} else {
		log.Info("Server stopped gracefully.")
	}
}

// newStore picks the Mongo-backed store when a database is configured and
// the in-memory store otherwise.
func newStore[T any](db *mongo.Database, collection string) Irepository.Store[T] {
	if db != nil {
		return repository.NewMongoStore[T](db, collection)
	}
	return repository.NewMemoryStore[T]()
}
