package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	adminapp "github.com/storefront/backend/internal/application/admin"
	cartapp "github.com/storefront/backend/internal/application/cart"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	customerapp "github.com/storefront/backend/internal/application/customer"
	identityapp "github.com/storefront/backend/internal/application/identity"
	orderapp "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/application/storefront"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/payment"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/shipping"
	"github.com/storefront/backend/internal/infrastructure/storage"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := logger.ConfigForEnvironment(cfg.App.Env).Merge(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	log, err := logger.New(logCfg, cfg.App.Name)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting storefront API",
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(logCfg.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        "postgresql",
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	addressRepo := persistence.NewGormAddressRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	profileRepo := persistence.NewGormProfileRepository(db.DB)

	blacklist, closeBlacklist := newTokenBlacklist(ctx, cfg.Redis, log)
	defer closeBlacklist()

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(profileRepo, jwtService, blacklist, log)
	userService := identityapp.NewUserService(profileRepo, log)

	productService := catalogapp.NewProductService(productRepo, categoryRepo, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo)
	imageService := catalogapp.NewImageService(newImageStorage(ctx, cfg.Storage, log), productRepo, log)

	cartService := cartapp.NewCartService(cartRepo, productRepo)
	addressService := customerapp.NewAddressService(addressRepo)

	orderService := orderapp.NewOrderService(orderRepo, cartRepo, addressRepo, order.PricingPolicy{
		FreeShippingThreshold: cfg.Store.FreeShippingThreshold,
		ShippingFee:           cfg.Store.ShippingFee,
		TaxRate:               cfg.Store.TaxRate,
	}, log)
	orderService.SetOriginPincode(cfg.Store.OriginPincode)
	if gw := newPaymentGateway(cfg.PhonePe, log); gw != nil {
		orderService.SetPaymentGateway(gw)
	}
	if gw := newShipmentGateway(cfg.Delhivery, log); gw != nil {
		orderService.SetShipmentGateway(gw)
	}
	if cfg.Idempotency.Enabled {
		store, err := cache.NewIdempotencyStoreFactory(cfg.Redis,
			cache.WithLogger(log),
			cache.WithInMemoryFallback(!cfg.Idempotency.RequireRedis),
		).CreateStore(ctx)
		if err != nil {
			log.Fatal("Failed to create idempotency store", zap.Error(err))
		}
		orderService.SetIdempotencyStore(store, cfg.Idempotency.TTL)
	}

	adminService := adminapp.NewService(productRepo, orderRepo, log)
	navigator := storefront.NewNavigator(storefront.Sources{
		Products:   productService,
		Categories: categoryService,
		Addresses:  addressService,
		Profiles:   authService,
		BackOffice: adminService,
		Users:      userService,
	})

	// HTTP
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		Enabled:     tracerProvider.IsEnabled(),
		ServiceName: cfg.Telemetry.ServiceName,
	}))
	engine.Use(middleware.TracingAttributeInjector())
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure(cfg.App.IsProduction()))
	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(cors))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	stopPruning := make(chan struct{})
	defer close(stopPruning)
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		limiter.StartPruning(stopPruning)
		engine.Use(middleware.RateLimit(limiter))
	}
	var authLimiter *middleware.RateLimiter
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter = middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authLimiter.StartPruning(stopPruning)
	}

	api := router.RegisterStorefront(engine, router.Handlers{
		System: handler.NewSystemHandler(cfg.App.Name, version, map[string]handler.Pinger{
			"database": handler.PingFunc(db.Ping),
		}),
		Auth:     handler.NewAuthHandler(authService),
		Catalog:  handler.NewCatalogHandler(productService, categoryService, imageService),
		Cart:     handler.NewCartHandler(cartService),
		Address:  handler.NewAddressHandler(addressService),
		Order:    handler.NewOrderHandler(orderService),
		Callback: handler.NewPaymentCallbackHandler(orderService),
		Session:  handler.NewSessionHandler(cartService, orderService, navigator),
		Admin:    handler.NewAdminHandler(adminService, orderService, userService),
	}, router.AuthConfig{
		Validator:   jwtService,
		Blacklist:   blacklist,
		AuthLimiter: authLimiter,
		Logger:      log,
	})
	for _, g := range api.Groups() {
		log.Debug("Routes registered",
			zap.String("group", g.Name()),
			zap.String("prefix", g.Prefix()),
			zap.Strings("routes", g.Routes()))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}

// newTokenBlacklist prefers Redis so sign-outs hold across instances
func newTokenBlacklist(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) (auth.TokenBlacklist, func()) {
	if !cfg.Enabled {
		log.Info("Redis disabled, using in-memory token blacklist")
		return auth.NewInMemoryTokenBlacklist(), func() {}
	}
	bl, err := auth.NewRedisTokenBlacklist(ctx, cfg)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		return auth.NewInMemoryTokenBlacklist(), func() {}
	}
	return bl, func() {
		if err := bl.Close(); err != nil {
			log.Error("Error closing token blacklist", zap.Error(err))
		}
	}
}

// The constructors below return nil interfaces when a provider is not
// configured; the services then answer with a not-configured error.

func newPaymentGateway(cfg config.PhonePeConfig, log *zap.Logger) order.PaymentGateway {
	if !cfg.Configured() {
		log.Warn("PhonePe credentials missing, online payments disabled")
		return nil
	}
	client, err := payment.NewPhonePeClient(payment.PhonePeConfigFrom(cfg), log)
	if err != nil {
		log.Fatal("Invalid PhonePe configuration", zap.Error(err))
	}
	return client
}

func newShipmentGateway(cfg config.DelhiveryConfig, log *zap.Logger) order.ShipmentGateway {
	if !cfg.Configured() {
		log.Warn("Delhivery API key missing, shipments disabled")
		return nil
	}
	client, err := shipping.NewDelhiveryClient(cfg, nil, log)
	if err != nil {
		log.Fatal("Invalid Delhivery configuration", zap.Error(err))
	}
	return client
}

func newImageStorage(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) catalog.ImageStorage {
	if !cfg.Enabled {
		log.Info("Object storage disabled, image uploads unavailable")
		return nil
	}
	s3, err := storage.NewS3ImageStorage(ctx, &cfg,
		storage.WithLogger(log),
		storage.WithPresignExpiration(cfg.PresignExpiration),
	)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}
	if err := s3.EnsureBucket(ctx); err != nil {
		log.Warn("Could not verify image bucket", zap.Error(err))
	}
	return s3
}
