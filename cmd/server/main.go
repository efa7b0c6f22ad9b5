package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/societyos/backend/internal/application/billing"
	identityapp "github.com/societyos/backend/internal/application/identity"
	"github.com/societyos/backend/internal/infrastructure/auth"
	"github.com/societyos/backend/internal/infrastructure/config"
	"github.com/societyos/backend/internal/infrastructure/logger"
	"github.com/societyos/backend/internal/infrastructure/persistence"
	"github.com/societyos/backend/internal/infrastructure/scheduler"
	"github.com/societyos/backend/internal/interfaces/http/handler"
	"github.com/societyos/backend/internal/interfaces/http/middleware"
	"github.com/societyos/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

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

	log.Info("Starting SocietyOS Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Token blacklist: Redis when reachable, in-memory otherwise. The
	// in-memory fallback loses revocations on restart, which is
	// acceptable for development but logged loudly.
	var blacklist auth.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		blacklist = redisBlacklist
		defer func() {
			if err := redisBlacklist.Close(); err != nil {
				log.Error("Error closing Redis connection", zap.Error(err))
			}
		}()
		log.Info("Redis connected successfully")
	}

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	societyRepo := persistence.NewGormSocietyRepository(db.DB)
	unitRepo := persistence.NewGormUnitRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	transactionRepo := persistence.NewGormTransactionRepository(db.DB)
	platformInvoiceRepo := persistence.NewGormPlatformInvoiceRepository(db.DB)

	// Initialize application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	userService := identityapp.NewUserService(userRepo, unitRepo, log)
	societyService := identityapp.NewSocietyService(societyRepo, userRepo, log)
	unitService := identityapp.NewUnitService(unitRepo, societyRepo, userRepo, log)

	cycleConfig := billingapp.BillingCycleConfig{
		DueGraceDays:  cfg.Billing.DueGraceDays,
		NumberRetries: cfg.Billing.NumberRetries,
	}
	cycleService := billingapp.NewBillingCycleService(invoiceRepo, unitRepo, societyRepo, cycleConfig, log)
	paymentService := billingapp.NewPaymentService(invoiceRepo, log)
	transactionService := billingapp.NewTransactionService(transactionRepo, log)
	statsService := billingapp.NewStatsService(invoiceRepo, transactionRepo, log)
	platformConfig := billingapp.PlatformBillingConfig{
		FeePerUnit:    cfg.Billing.PlatformFeePerUnit,
		DueGraceDays:  cfg.Billing.DueGraceDays,
		NumberRetries: cfg.Billing.NumberRetries,
	}
	platformInvoiceService := billingapp.NewPlatformInvoiceService(platformInvoiceRepo, societyRepo, platformConfig, log)

	// Background sweep keeps invoice statuses current without waiting
	// for the manual sweep-overdue endpoint
	sweeper := scheduler.NewOverdueSweeper(invoiceRepo, societyRepo, scheduler.OverdueSweeperConfig{
		Interval: cfg.Billing.OverdueSweepPeriod,
	}, log)
	sweeper.Start(context.Background())
	defer sweeper.Stop()

	// Initialize HTTP handlers
	systemHandler := handler.NewSystemHandler(db.DB)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	societyHandler := handler.NewSocietyHandler(societyService)
	unitHandler := handler.NewUnitHandler(unitService)
	invoiceHandler := handler.NewInvoiceHandler(cycleService, paymentService, statsService)
	transactionHandler := handler.NewTransactionHandler(transactionService, statsService)
	platformInvoiceHandler := handler.NewPlatformInvoiceHandler(platformInvoiceService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, outermost first: request ID, panic recovery,
	// request logging, security headers, CORS, rate limiting, auth
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	authConfig := middleware.DefaultAuthConfig(jwtService)
	authConfig.TokenBlacklist = blacklist
	authConfig.Logger = log
	engine.Use(middleware.Auth(authConfig))

	// Liveness and readiness outside API versioning
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/ready", readyHandler(db))

	// Register API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(systemHandler).
		Register(authHandler).
		Register(userHandler).
		Register(societyHandler).
		Register(unitHandler).
		Register(invoiceHandler).
		Register(transactionHandler).
		Register(platformInvoiceHandler)
	r.Setup()

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

// readyHandler reports readiness including database reachability
func readyHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Readiness check failed", zap.Error(err))
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
