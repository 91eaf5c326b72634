package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"nowherelibrary/library-service/internal/app/library/config"
	"nowherelibrary/library-service/internal/app/library/handler"
	"nowherelibrary/library-service/internal/app/library/infrastructure"
	"nowherelibrary/library-service/internal/app/library/infrastructure/cache"
	"nowherelibrary/library-service/internal/app/library/infrastructure/messaging"
	"nowherelibrary/library-service/internal/app/library/processor"
	"nowherelibrary/library-service/internal/app/library/repository"
	"nowherelibrary/library-service/internal/app/library/service"
	"nowherelibrary/pkg/logger"
)

const serviceName = "library-service"

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logger.Init(serviceName, logLevel)

	logstashAddr := os.Getenv("LOGSTASH_ADDR")
	if logstashAddr != "" {
		if err := logger.InitLogstash(logstashAddr, serviceName, logLevel); err != nil {
			logger.Warn().Err(err).Msg("Failed to connect to Logstash, using stdout only")
		} else {
			logger.Info().Str("logstash_addr", logstashAddr).Msg("Connected to Logstash")
		}
	}

	mongoClient, err := connectMongoDB(cfg.MongoDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			logger.Error().Err(err).Msg("Error disconnecting from MongoDB")
		}
	}()
	logger.Info().
		Str("database", cfg.MongoDB.Database).
		Msg("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB.Database)

	indexCtx, indexCancel := context.WithTimeout(context.Background(), 30*time.Second)
	repository.EnsureIndexes(indexCtx, db)
	indexCancel()

	healthChecks := map[string]handler.HealthCheck{
		"mongodb": func(ctx context.Context) error {
			return mongoClient.Ping(ctx, readpref.Primary())
		},
	}

	var bookCache infrastructure.BookCache = cache.NoopBookCache{}
	if cfg.Redis.Addr != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unavailable, book cache disabled")
		} else {
			redisCache := cache.NewRedisBookCache(redisClient, cfg.Redis.TTL)
			bookCache = redisCache
			healthChecks["redis"] = redisCache.Ping
			logger.Info().
				Str("addr", cfg.Redis.Addr).
				Dur("ttl", cfg.Redis.TTL).
				Msg("Connected to Redis")
		}
	}
	defer bookCache.Close()

	var publisher infrastructure.MessagePublisher = messaging.NoopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		logger.Info().
			Strs("brokers", cfg.Kafka.Brokers).
			Str("topic", cfg.Kafka.Topic).
			Msg("Initialized Kafka producer")
	}
	defer publisher.Close()

	bookService := service.NewBookService(repository.NewBookRepository(db), bookCache, publisher)
	reviewService := service.NewReviewService(repository.NewReviewRepository(db), publisher)
	orderService := service.NewOrderService(repository.NewOrderRepository(db), publisher)
	userService := service.NewUserService(repository.NewUserRepository(db), publisher)

	router := handler.SetupRoutes(handler.Handlers{
		Books:   handler.NewBookHandler(bookService),
		Reviews: handler.NewReviewHandler(reviewService),
		Orders:  handler.NewOrderHandler(orderService),
		Users:   handler.NewUserHandler(userService),
		Health:  handler.NewHealthHandler(serviceName, healthChecks),
	})

	statsCtx, statsCancel := context.WithCancel(context.Background())
	defer statsCancel()

	statsScheduler := processor.NewStatsScheduler(repository.NewStatsRepository(db))
	if err := statsScheduler.Start(statsCtx, cfg.Stats.Schedule); err != nil {
		logger.Fatal().Err(err).Str("schedule", cfg.Stats.Schedule).Msg("Failed to start stats scheduler")
	}

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("Starting Library Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Library Service...")

	statsScheduler.Stop()
	statsCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Library Service stopped gracefully")
}

func connectMongoDB(cfg config.MongoDBConfig) (*mongo.Client, error) {
	clientOptions := options.Client().
		ApplyURI(cfg.URI).
		SetTimeout(cfg.Timeout)

	var client *mongo.Client
	var err error

	for i := 0; i < 10; i++ {
		client, err = tryConnect(clientOptions)
		if err == nil {
			return client, nil
		}

		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to MongoDB, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, err
}

func tryConnect(clientOptions *options.ClientOptions) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return client, nil
}
