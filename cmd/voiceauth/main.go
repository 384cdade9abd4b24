package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/satriahrh/suara/adapters/audio"
	"github.com/satriahrh/suara/adapters/deepfake"
	"github.com/satriahrh/suara/adapters/embedding"
	"github.com/satriahrh/suara/adapters/jsonfile"
	adaptermongo "github.com/satriahrh/suara/adapters/mongo"
	"github.com/satriahrh/suara/adapters/pin"
	"github.com/satriahrh/suara/adapters/storage"
	"github.com/satriahrh/suara/domain/repositories"
	"github.com/satriahrh/suara/internal/api"
	"github.com/satriahrh/suara/internal/classifier"
	"github.com/satriahrh/suara/internal/config"
	"github.com/satriahrh/suara/usecase"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	godotenv.Load()
	cfg := config.Load()

	variant, err := usecase.ParseVariant(cfg.Variant)
	if err != nil {
		logger.Fatal("Invalid variant configuration", zap.Error(err))
	}

	ctx := context.Background()

	// Object storage for audio samples and model blobs
	var files repositories.FileStore
	switch cfg.StorageBackend {
	case "s3":
		files, err = storage.NewS3(ctx, storage.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			logger.Fatal("Failed to initialize S3 storage", zap.Error(err))
		}
	default:
		files, err = storage.NewLocal(cfg.StorageDir)
		if err != nil {
			logger.Fatal("Failed to initialize local storage", zap.Error(err))
		}
	}

	audioSource := audio.NewSource(files, cfg.SampleRate, logger)

	// Identity store
	var identityStore repositories.IdentityStore
	switch cfg.IdentityBackend {
	case "mongo":
		client, err := adaptermongo.NewClient(logger)
		if err != nil {
			logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		defer client.Close(context.Background())
		identityStore = adaptermongo.NewIdentityStore(client.Database)
	default:
		identityStore = jsonfile.NewIdentityStore(cfg.IdentityFile)
	}

	// Embedding extractor
	var embedder repositories.EmbeddingExtractor
	switch cfg.EmbeddingBackend {
	case "http":
		embedder, err = embedding.NewHTTPExtractor(embedding.HTTPConfig{
			BaseURL:   cfg.EmbeddingURL,
			Dimension: cfg.EmbeddingDimension,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to initialize embedding adapter", zap.Error(err))
		}
	default:
		embedder = embedding.NewMockExtractor(cfg.EmbeddingDimension, logger)
	}

	// Deepfake detector gates the classifier and cosine variants
	var detector repositories.DeepfakeDetector
	if variant == usecase.VariantClassifier || variant == usecase.VariantCosine {
		switch cfg.DeepfakeBackend {
		case "http":
			detector, err = deepfake.NewHTTPDetector(deepfake.HTTPConfig{
				BaseURL: cfg.DeepfakeURL,
			}, logger)
			if err != nil {
				logger.Fatal("Failed to initialize deepfake adapter", zap.Error(err))
			}
		default:
			detector = deepfake.NewMockDetector(logger)
		}
	}

	// PIN extractor gates enrollment and scores verification for the
	// multifactor variant
	var pins repositories.PinExtractor
	if variant == usecase.VariantMultifactor {
		switch cfg.PinBackend {
		case "google":
			pins = pin.NewGoogleExtractor(cfg.PinLanguage, logger)
		case "gemini":
			pins, err = pin.NewGeminiExtractor(ctx, logger)
			if err != nil {
				logger.Fatal("Failed to initialize Gemini PIN adapter", zap.Error(err))
			}
		default:
			pins = pin.NewMockExtractor("1234", logger)
		}
	}

	// Per-user discriminative models for the classifier variant
	var models repositories.SpeakerModelStore
	if variant == usecase.VariantClassifier {
		models = classifier.NewStore(files, logger)
	}

	var strategy usecase.Strategy
	switch variant {
	case usecase.VariantClassifier:
		strategy = usecase.NewClassifierStrategy(models)
	case usecase.VariantCosine:
		strategy = usecase.NewCosineStrategy()
	case usecase.VariantMultifactor:
		strategy = usecase.NewMultifactorStrategy(pins)
	}

	enrollment := usecase.NewEnrollmentService(
		audioSource, identityStore, embedder, detector, pins, models, variant, logger)
	verification := usecase.NewVerificationService(
		audioSource, identityStore, embedder, detector, models, strategy, logger)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	handler := api.NewHandler(enrollment, verification, variant, logger)
	api.InitRoutes(e, handler, []byte(cfg.JWTSecret))

	// Graceful shutdown
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Voice authentication server started",
		zap.String("port", cfg.Port),
		zap.String("variant", string(variant)))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
