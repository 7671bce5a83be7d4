package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	exchangeapp "github.com/factoring/backend/internal/application/exchange"
	registryapp "github.com/factoring/backend/internal/application/registry"
	"github.com/factoring/backend/internal/domain/asset"
	"github.com/factoring/backend/internal/infrastructure/auth"
	"github.com/factoring/backend/internal/infrastructure/config"
	"github.com/factoring/backend/internal/infrastructure/logger"
	"github.com/factoring/backend/internal/infrastructure/persistence"
	"github.com/factoring/backend/internal/interfaces/http/handler"
	"github.com/factoring/backend/internal/interfaces/http/middleware"
	"github.com/factoring/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

//	@title			Factoring Backend API
//	@version		1.0
//	@description	Tokenized invoice factoring backend: asset registry, formula engine and primary-market exchange

//	@contact.name	API Support
//	@contact.url	https://github.com/factoring/backend

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Factoring Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Resolve the privileged identities. Development environments may omit
	// them; a fresh identity is generated so the server still comes up.
	adminID := resolveIdentity(log, "registry.admin_id", cfg.Registry.AdminID)
	operatorID := resolveIdentity(log, "registry.exchange_operator_id", cfg.Registry.ExchangeOperatorID)

	// Initialize repositories and ledgers
	assetRepo := persistence.NewGormAssetRepository(db.DB)
	configRepo := persistence.NewGormRegistryConfigRepository(db.DB)
	ownershipLedger := persistence.NewGormOwnershipLedger(db.DB)
	valueLedger := persistence.NewGormValueLedger(db.DB)
	registryTxScope := persistence.NewGormRegistryTransactionScope(db.DB)
	exchangeTxScope := persistence.NewGormExchangeTransactionScope(db.DB)

	// Seed the registry configuration with the configured base URI when no
	// row exists yet
	if err := seedRegistryConfig(context.Background(), configRepo, cfg.Registry.BaseURI); err != nil {
		log.Fatal("Failed to seed registry configuration", zap.Error(err))
	}

	// Initialize application services
	registryService := registryapp.NewAssetRegistryService(
		adminID, assetRepo, configRepo, ownershipLedger, registryTxScope,
	)
	exchangeService := exchangeapp.NewExchangeService(
		operatorID, adminID, assetRepo, ownershipLedger, valueLedger, exchangeTxScope,
	)

	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize HTTP handlers
	assetHandler := handler.NewAssetHandler(registryService)
	exchangeHandler := handler.NewExchangeHandler(exchangeService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Tracing - OpenTelemetry spans
	// 4. Logger - Log requests
	// 5. Security - Add security headers, size and rate limits
	// 6. CORS - Handle cross-origin requests
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.App.Name,
		Enabled:     cfg.HTTP.TracingEnabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodyBytes))
	if cfg.HTTP.RateLimitPerMinute > 0 {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitPerMinute, time.Minute)
		engine.Use(middleware.RateLimit(limiter))
	}

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// JWT authentication applies to everything except health and system
	// discovery endpoints
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))
	engine.Use(middleware.TracingAttributeInjector())

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Register domain handlers; each handler wires its own route group
	r.Register(assetHandler).
		Register(exchangeHandler).
		Register(systemHandler)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// resolveIdentity parses a configured identity, generating an ephemeral one
// when the setting is absent. Production requires both identities via config
// validation, so generation only happens in development.
func resolveIdentity(log *zap.Logger, key, value string) uuid.UUID {
	if value == "" {
		id := uuid.New()
		log.Warn("Identity not configured, generated an ephemeral one",
			zap.String("setting", key),
			zap.String("identity", id.String()),
		)
		return id
	}
	id, err := uuid.Parse(value)
	if err != nil {
		log.Fatal("Invalid identity in configuration", zap.String("setting", key), zap.Error(err))
	}
	return id
}

// seedRegistryConfig writes the configured metadata base URI when the
// registry configuration row does not exist yet. An existing row wins; the
// admin changes it through the API afterwards.
func seedRegistryConfig(ctx context.Context, repo asset.RegistryConfigRepository, baseURI string) error {
	current, err := repo.Get(ctx)
	if err != nil {
		return err
	}
	if current.BaseURI != "" || baseURI == "" {
		return nil
	}
	current.BaseURI = baseURI
	return repo.Save(ctx, current)
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
