package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"menu-import-service/config"
	"menu-import-service/controllers"
	"menu-import-service/database"
	"menu-import-service/kafka"
	"menu-import-service/middleware"
	"menu-import-service/providers"
	"menu-import-service/repository"
	"menu-import-service/routes"
	"menu-import-service/services"
	"menu-import-service/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	// Load .env file (optional, falls back to system env)
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Connect()
	if err != nil {
		zap.L().Fatal("Failed to connect to database", zap.Error(err))
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		zap.L().Warn("Failed to parse REDIS_URL, falling back to default", zap.Error(err))
		redisOpts = &redis.Options{Addr: "redis:6379", DB: 0}
	}
	redisClient := redis.NewClient(redisOpts)

	// AWS configuration (LocalStack-compatible)
	awsEndpoint := os.Getenv("AWS_ENDPOINT")
	awsAccessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	awsSecret := os.Getenv("AWS_SECRET_ACCESS_KEY")

	cfgOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.AWSRegion),
	}
	if awsAccessKey != "" || awsSecret != "" {
		cfgOpts = append(cfgOpts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(awsAccessKey, awsSecret, ""),
		))
	}
	awsCfg, err := awscfg.LoadDefaultConfig(context.Background(), cfgOpts...)
	if err != nil {
		zap.L().Fatal("Failed to load AWS config", zap.Error(err))
	}

	s3Endpoint := cfg.S3Endpoint
	if s3Endpoint == "" {
		s3Endpoint = awsEndpoint
	}
	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
		if s3Endpoint != "" {
			o.BaseEndpoint = aws.String(s3Endpoint)
		}
	})

	// --- Dependency injection ---

	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	variantRepo := repository.NewVariantRepository(db)

	uploader := storage.NewS3Uploader(s3Client, cfg.S3Bucket, cfg.S3Prefix, s3Endpoint, cfg.CloudfrontDomain)

	openai := providers.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.VisionModel, cfg.ImageGenModel, cfg.ProviderWait)
	pexels := providers.NewPexelsClient(cfg.PexelsAPIKey)

	extractor := services.NewExtractor(openai)
	sourcer := services.NewImageSourcer(pexels, openai, uploader, cfg.FallbackImageURL)

	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)

	importService := services.NewImportService(productRepo, categoryRepo, variantRepo, extractor, sourcer, producer)

	cache := controllers.NewCacheManager(redisClient)
	importController := controllers.NewImportController(importService, cache)
	catalogController := controllers.NewCatalogController(productRepo, categoryRepo, cache)

	// --- HTTP server ---

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	authMW := middleware.Auth(cfg.JWTSecret)
	importLimiter := middleware.NewRateLimiter(rate.Every(10*time.Second), 3)

	routes.RegisterRoutes(r, importController, catalogController, authMW, importLimiter.Middleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		zap.L().Info("Menu Import Service starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutting down Menu Import Service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Fatal("Server forced to shutdown", zap.Error(err))
	}

	if err := producer.Close(); err != nil {
		zap.L().Error("Failed to close Kafka producer", zap.Error(err))
	}
	if err := redisClient.Close(); err != nil {
		zap.L().Error("Failed to close Redis", zap.Error(err))
	}

	zap.L().Info("Menu Import Service stopped gracefully")
}
