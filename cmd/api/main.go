package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/option"

	"sheworks/internal/adapter/api"
	"sheworks/internal/adapter/api/handler"
	apimiddleware "sheworks/internal/adapter/api/middleware"
	"sheworks/internal/adapter/api/router"
	"sheworks/internal/adapter/repository"
	domainrepo "sheworks/internal/domain/repository"
	"sheworks/internal/infrastructure/auth"
	"sheworks/internal/infrastructure/cache"
	"sheworks/internal/infrastructure/events"
	"sheworks/internal/infrastructure/firebase"
	"sheworks/internal/infrastructure/mongodb"
	"sheworks/internal/infrastructure/presence"
	"sheworks/internal/infrastructure/ratelimit"
	"sheworks/internal/infrastructure/storage"
	"sheworks/internal/infrastructure/translation"
	"sheworks/internal/infrastructure/websocket"
	"sheworks/internal/usecase"
	"sheworks/pkg/config"
	"sheworks/pkg/logger"
)

type repositories struct {
	messages      domainrepo.MessageRepository
	participants  domainrepo.ParticipantRepository
	notifications domainrepo.NotificationRepository
	orders        domainrepo.OrderRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Init(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Google credentials are only loaded when a Google service is in use.
	var googleOpt option.ClientOption
	needsGoogle := cfg.StorageDriver == "firestore" || cfg.AuthProvider == "firebase" || cfg.StorageBucket != ""
	if needsGoogle {
		googleOpt, err = firebase.CredentialsOption(cfg)
		if err != nil {
			log.Fatalf("Failed to load Google credentials: %v", err)
		}
	}

	var repos repositories
	switch cfg.StorageDriver {
	case "firestore":
		firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, googleOpt)
		if err != nil {
			log.Fatalf("Failed to create Firestore client: %v", err)
		}
		defer firestoreClient.Close()

		repos = repositories{
			messages:      repository.NewFirestoreMessageRepository(firestoreClient),
			participants:  repository.NewFirestoreParticipantRepository(firestoreClient),
			notifications: repository.NewFirestoreNotificationRepository(firestoreClient),
			orders:        repository.NewFirestoreOrderRepository(firestoreClient),
		}
	case "mongo":
		db, err := mongodb.NewDB(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer mongodb.Disconnect(context.Background(), db)

		repos = repositories{
			messages:      repository.NewMongoMessageRepository(db),
			participants:  repository.NewMongoParticipantRepository(db),
			notifications: repository.NewMongoNotificationRepository(db),
			orders:        repository.NewMongoOrderRepository(db),
		}
	case "memory":
		logger.Warn("Using in-memory storage; data is lost on restart")
		repos = repositories{
			messages:      repository.NewMemoryMessageRepository(),
			participants:  repository.NewMemoryParticipantRepository(),
			notifications: repository.NewMemoryNotificationRepository(),
			orders:        repository.NewMemoryOrderRepository(),
		}
	default:
		log.Fatalf("Unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	// Redis, when configured, shares presence, quotas and translations across instances.
	var (
		registry         presence.Registry
		limiterStore     ratelimit.Store
		translationStore cache.Store
	)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()

		registry = presence.NewRedisRegistry(redisClient, "sheworks:presence", presence.DefaultTTL)
		limiterStore = ratelimit.NewRedisStore(redisClient, "sheworks:ratelimit")
		translationStore = cache.NewRedisCache(redisClient, "sheworks:translation", cfg.TranslationCacheTTL)
		logger.Info("Using Redis at %s for presence, rate limits and translation cache", cfg.RedisAddr)
	} else {
		registry = presence.NewMemoryRegistry()
		limiterStore = ratelimit.NewMemoryStore()

		memoryCache := cache.NewMemoryCache(cfg.TranslationCacheTTL, cfg.TranslationCacheSize)
		memoryCache.StartSweeper(ctx, 10*time.Minute)
		translationStore = memoryCache
	}

	publisher := events.NewFallback()
	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			logger.Warn("AMQP unavailable, domain events will only be logged: %v", err)
		} else {
			publisher = amqpPublisher
		}
	}
	defer publisher.Close()

	var (
		verifier auth.TokenVerifier
		issuer   auth.TokenIssuer
	)
	switch cfg.AuthProvider {
	case "firebase":
		firebaseApp, err := firebase.NewApp(ctx, cfg, googleOpt)
		if err != nil {
			log.Fatalf("%v", err)
		}
		authClient, err := firebaseApp.Auth(ctx)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase Auth: %v", err)
		}
		firebaseAuth := firebase.NewFirebaseAuthClient(authClient)
		verifier, issuer = firebaseAuth, firebaseAuth
	case "jwks":
		jwks, err := auth.NewJWKSVerifier(cfg.JWKSURL)
		if err != nil {
			log.Fatalf("Failed to initialize JWKS verifier: %v", err)
		}
		defer jwks.Close()
		verifier = jwks
	default:
		if cfg.WeakJWTSecret() {
			logger.Warn("JWT_SECRET is empty or the placeholder; tokens are forgeable. Development use only")
		}
		jwtManager := auth.NewJWTManager(cfg.JWTSecret, time.Duration(cfg.JWTExpiry)*time.Second)
		verifier, issuer = jwtManager, jwtManager
	}

	var attachments storage.AttachmentStore
	if cfg.StorageBucket != "" {
		storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, googleOpt)
		if err != nil {
			log.Fatalf("Failed to initialize Cloud Storage: %v", err)
		}
		defer storageClient.Close()
		attachments = storageClient
	} else {
		logger.Warn("STORAGE_BUCKET not set, attachments are kept in memory")
		attachments = storage.NewMemoryStore()
	}

	providers := []translation.Provider{}
	if cfg.TranslateAPIKey != "" {
		google, err := translation.NewGoogleProvider(ctx, cfg.TranslateAPIKey)
		if err != nil {
			logger.Warn("Google Translate unavailable, using fallback only: %v", err)
		} else {
			providers = append(providers, google)
		}
	} else {
		logger.Warn("TRANSLATE_API_KEY not set, using fallback translation provider only")
	}
	providers = append(providers, translation.NewMyMemoryProvider(cfg.MyMemoryEmail))

	limiter := ratelimit.NewRateLimiter(limiterStore, cfg.TranslationRateLimit, cfg.TranslationRateWindow)
	limiter.StartCleanupRoutine(ctx, 5*time.Minute)

	translationUseCase := usecase.NewTranslationUseCase(
		providers,
		translationStore,
		limiter,
		cfg.TranslationBatchWorkers,
		cfg.TranslationBatchInterval,
	)

	wsManager := websocket.NewManager(registry)

	messageUseCase := usecase.NewMessageUseCase(repos.messages, repos.participants, translationUseCase, wsManager, publisher, attachments)
	orderNotificationUseCase := usecase.NewOrderNotificationUseCase(repos.notifications, wsManager, publisher)
	orderUseCase := usecase.NewOrderUseCase(repos.orders, repos.participants, orderNotificationUseCase)
	notificationUseCase := usecase.NewNotificationUseCase(repos.notifications)
	participantUseCase := usecase.NewParticipantUseCase(repos.participants)

	coordinator := websocket.NewCoordinator(wsManager, messageUseCase, verifier)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	handlers := router.Handlers{
		Message:      handler.NewMessageHandler(messageUseCase, translationUseCase, attachments),
		Order:        handler.NewOrderHandler(orderUseCase),
		Notification: handler.NewNotificationHandler(notificationUseCase),
		Participant:  handler.NewParticipantHandler(participantUseCase),
		WebSocket:    handler.NewWebSocketHandler(wsManager, coordinator, cfg.RealtimeAllowedOrigin),
		Health:       handler.NewHealthHandler(wsManager),
	}
	if cfg.IsDevelopment() && issuer != nil {
		handlers.DevToken = handler.NewDevTokenHandler(issuer, participantUseCase)
	}

	router.Setup(e, handlers, apimiddleware.NewAuthMiddleware(verifier), translationUseCase)

	go func() {
		logger.Info("Starting server on port %s...", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server stopped: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed: %v", err)
	}
}
