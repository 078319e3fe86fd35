// @title Quiz Maker API
// @version 1.0
// @description AI-generated timed quizzes with history, custom categories and ratings.
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "quiz-maker/cmd/api/docs"
	"quiz-maker/internal/adapter"
	"quiz-maker/internal/adapter/llm"
	"quiz-maker/internal/adapter/quizgen"
	"quiz-maker/internal/adapter/store"
	"quiz-maker/internal/cache"
	"quiz-maker/internal/config"
	"quiz-maker/internal/database"
	"quiz-maker/internal/domain"
	"quiz-maker/internal/handler"
	"quiz-maker/internal/logger"
	"quiz-maker/internal/middleware"
	"quiz-maker/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)
		return err
	}
}

// newStore opens the configured slice store. The returned redis client is nil
// unless the redis backend is selected.
func newStore(ctx context.Context, cfg *config.Config) (domain.Store, *redis.Client, error) {
	switch cfg.Store.Backend {
	case "memory":
		return store.NewMemoryStore(), nil, nil
	case "sqlite":
		db, err := database.NewSQLiteDB(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := database.RunMigrations(db.DB); err != nil {
			db.Close()
			return nil, nil, err
		}
		return store.NewSQLiteStore(db), nil, nil
	case "redis":
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return store.NewRedisStore(client, cfg.Store.KeyPrefix), client, nil
	default:
		return nil, nil, fmt.Errorf("unsupported store backend %q", cfg.Store.Backend)
	}
}

type closableGenerator interface {
	domain.TextGenerator
	Close() error
}

func newTextGenerator(ctx context.Context, cfg config.LLMConfig) (domain.TextGenerator, error) {
	switch cfg.Provider {
	case "gemini":
		return llm.NewGeminiGenerator(ctx, cfg.APIKey, cfg.Model, float32(cfg.Temperature))
	case "ollama":
		return llm.NewOllamaGenerator(cfg.ServerURL, cfg.Model, cfg.Timeout, cfg.Temperature)
	case "openai":
		return llm.NewOpenAIGenerator(cfg.APIKey, cfg.Model, cfg.Temperature)
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sliceStore, redisClient, err := newStore(ctx, cfg)
	if err != nil {
		appLogger.Fatal("Failed to open store", zap.String("backend", cfg.Store.Backend), zap.Error(err))
	}
	defer sliceStore.Close()
	appLogger.Info("Store initialized", zap.String("backend", cfg.Store.Backend))

	var resultCache domain.Cache
	if redisClient != nil {
		resultCache = adapter.NewRedisCacheAdapter(redisClient)
		appLogger.Info("RedisCacheAdapter initialized")
	} else {
		resultCache = adapter.NewMemoryCacheAdapter()
		appLogger.Info("MemoryCacheAdapter initialized")
	}

	textGenerator, err := newTextGenerator(ctx, cfg.LLM)
	if err != nil {
		appLogger.Fatal("Failed to create LLM client", zap.String("provider", cfg.LLM.Provider), zap.Error(err))
	}
	if c, ok := textGenerator.(closableGenerator); ok {
		defer c.Close()
	}
	appLogger.Info("LLM client initialized", zap.String("provider", cfg.LLM.Provider), zap.String("model", cfg.LLM.Model))

	questionSource := quizgen.NewQuestionGenerator(textGenerator,
		quizgen.WithMaxRetries(cfg.Generation.MaxRetries),
		quizgen.WithRetryDelay(cfg.Generation.RetryDelay),
	)

	authService, err := service.NewAuthService(cfg.Auth)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}
	categoryService := service.NewCategoryService(sliceStore)
	historyService := service.NewHistoryService(sliceStore)
	reviewService := service.NewReviewService(sliceStore)
	settingsService := service.NewSettingsService(sliceStore)
	// Room for every attempt plus the delays between them.
	attempts := time.Duration(cfg.Generation.MaxRetries + 1)
	generationTimeout := cfg.LLM.Timeout*attempts + cfg.Generation.RetryDelay*(attempts-1)
	sessionService := service.NewQuizSessionService(
		questionSource,
		categoryService,
		historyService,
		service.NewResultCacheService(resultCache, cfg.Session.ResultTTL),
		service.WithGenerationTimeout(generationTimeout),
	)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
		ErrorHandler: middleware.ErrorHandler(),
	})
	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		MaxAge:       300,
	}))
	app.Use(recover.New())
	app.Get("/swagger/*", swagger.HandlerDefault)

	handler.RegisterRoutes(app, authService, handler.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Quiz:     handler.NewQuizHandler(sessionService),
		Category: handler.NewCategoryHandler(categoryService),
		History:  handler.NewHistoryHandler(historyService),
		Review:   handler.NewReviewHandler(reviewService),
		Settings: handler.NewSettingsHandler(settingsService),
		Health:   handler.NewHealthHandler(sliceStore, resultCache),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Keeps the admin stats current when other instances share the store.
		if err := reviewService.Watch(gctx); err != nil && !errors.Is(err, context.Canceled) {
			appLogger.Warn("Review watcher stopped", zap.Error(err))
		}
		return nil
	})
	g.Go(func() error {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		return app.Listen(":" + strconv.Itoa(cfg.Server.Port))
	})
	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		sessionService.Shutdown()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		appLogger.Error("Server stopped with error", zap.Error(err))
		return
	}
	appLogger.Info("Server exited gracefully")
}
