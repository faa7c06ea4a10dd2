package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"

	"github.com/bibbank/credit-risk/internal/application/usecase"
	"github.com/bibbank/credit-risk/internal/domain/service"
	"github.com/bibbank/credit-risk/internal/infrastructure/cache"
	"github.com/bibbank/credit-risk/internal/infrastructure/catalog"
	"github.com/bibbank/credit-risk/internal/infrastructure/config"
	"github.com/bibbank/credit-risk/internal/infrastructure/kafka"
	pgRepo "github.com/bibbank/credit-risk/internal/infrastructure/postgres"
	grpcPresentation "github.com/bibbank/credit-risk/internal/presentation/grpc"
	"github.com/bibbank/credit-risk/internal/presentation/rest"
	"github.com/bibbank/credit-risk/pkg/auth"
	pkgkafka "github.com/bibbank/credit-risk/pkg/kafka"
	"github.com/bibbank/credit-risk/pkg/money"
	"github.com/bibbank/credit-risk/pkg/observability"
	pkgpostgres "github.com/bibbank/credit-risk/pkg/postgres"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()

	logger := observability.InitLogger(observability.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
	})

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger.Info("starting credit-risk service",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
	)

	// Tracing.
	tracerProvider, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.Tracing.Endpoint,
		SampleRatio: cfg.Tracing.SampleRatio,
		Insecure:    cfg.Tracing.Insecure,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer func() { _ = tracerProvider.Shutdown(context.Background()) }() //nolint:errcheck // best-effort tracer shutdown
	}

	// Metrics.
	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		logger.Error("failed to initialize metrics", "error", err)
		os.Exit(1)
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }() //nolint:errcheck

	assessmentMetrics, err := usecase.NewAssessmentMetrics(otel.Meter(cfg.ServiceName))
	if err != nil {
		logger.Error("failed to register assessment metrics", "error", err)
		os.Exit(1)
	}

	// Database connection.
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pool, err := pkgpostgres.NewPool(dbCtx, cfg.DB)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	if err := pkgpostgres.RunMigrations(cfg.DB.DSN(), pgRepo.Migrations, pgRepo.MigrationsDir); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Product cache.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() { _ = redisClient.Close() }() //nolint:errcheck
	productCache := cache.NewRedisProductCache(redisClient, cfg.Redis.TTL)

	productRepo := cache.NewCachedProductRepository(pgRepo.NewProductRepository(pool), productCache, logger)

	if cfg.Risk.CatalogFile != "" {
		seed := usecase.NewSeedCatalog(catalog.NewYAMLSource(cfg.Risk.CatalogFile), productRepo, productCache)
		seeded, seedErr := seed.Execute(ctx)
		if seedErr != nil {
			logger.Error("failed to seed product catalog", "file", cfg.Risk.CatalogFile, "error", seedErr)
			os.Exit(1)
		}
		logger.Info("product catalog seeded", "upserted", seeded.Upserted, "codes", seeded.Codes)
	}

	// Event publishing.
	kafkaProducer, err := pkgkafka.NewProducer(cfg.Kafka.Client())
	if err != nil {
		logger.Error("failed to create kafka producer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = kafkaProducer.Close() }() //nolint:errcheck
	publisher := kafka.NewPublisher(kafkaProducer, cfg.Kafka.EventsTopic, logger)

	// Use cases.
	defaultCurrency, err := money.NewCurrency(cfg.Risk.DefaultCurrency)
	if err != nil {
		logger.Error("invalid default currency", "error", err)
		os.Exit(1)
	}
	terms := usecase.NewTermsResolver(productRepo, cfg.Risk.DefaultAnnualRatePercent, defaultCurrency)

	assessUC := usecase.NewAssessApplicant(terms, publisher, service.NewDecisionEngine(), assessmentMetrics)
	quoteUC := usecase.NewQuoteInstallment(terms)
	getProductUC := usecase.NewGetProduct(productRepo)
	listProductsUC := usecase.NewListProducts(productRepo)

	jwtSvc, err := newJWTService(cfg.Auth)
	if err != nil {
		logger.Error("failed to initialize JWT service", "error", err)
		os.Exit(1)
	}

	// gRPC server.
	handler := grpcPresentation.NewRiskServiceHandler(assessUC, quoteUC, getProductUC, listProductsUC, logger)
	grpcServer, err := grpcPresentation.NewServer(handler, jwtSvc, grpcPresentation.ServerOptions{
		TLS:          cfg.TLS,
		ServiceName:  cfg.ServiceName,
		RateLimitRPS: cfg.RateLimitRPS,
		Reflection:   cfg.GRPCReflection,
	}, logger)
	if err != nil {
		logger.Error("failed to create gRPC server", "error", err)
		os.Exit(1)
	}

	// HTTP server (health checks and metrics).
	mux := http.NewServeMux()
	rest.NewHealthHandler(cfg.ServiceName, map[string]rest.Checker{
		"postgres": func(ctx context.Context) error { return pkgpostgres.HealthCheck(ctx, pool) },
		"redis":    productCache.Ping,
	}, logger).RegisterRoutes(mux)
	mux.Handle("GET /metrics", metricsHandler)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           rest.LoggingMiddleware(logger)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start servers.
	errCh := make(chan error, 3)

	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	if cfg.Kafka.RequestTopic != "" {
		requests := kafka.NewAssessmentRequestHandler(assessUC, logger)
		consumer, consumerErr := pkgkafka.NewConsumer(cfg.Kafka.Client(), cfg.Kafka.RequestTopic, requests.Handle, logger)
		if consumerErr != nil {
			logger.Error("failed to create kafka consumer", "error", consumerErr)
			os.Exit(1)
		}
		defer func() { _ = consumer.Close() }() //nolint:errcheck

		go func() {
			logger.Info("consuming assessment requests", "topic", cfg.Kafka.RequestTopic)
			if err := consumer.Start(ctx); err != nil {
				errCh <- fmt.Errorf("kafka consumer error: %w", err)
			}
		}()
	}

	// Wait for shutdown signal.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	// Graceful shutdown.
	grpcServer.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("credit-risk service stopped")
}

// newJWTService builds a validation-only JWT service. A public key file takes
// precedence over the shared secret.
func newJWTService(cfg config.AuthConfig) (*auth.JWTService, error) {
	jwtCfg := auth.JWTConfig{
		Issuer:   cfg.Issuer,
		Audience: cfg.Audience,
	}
	if cfg.PublicKeyFile != "" {
		keyData, err := auth.LoadKeyFromFile(cfg.PublicKeyFile)
		if err != nil {
			return nil, fmt.Errorf("loading JWT public key: %w", err)
		}
		jwtCfg.PublicKeyPEM = string(keyData)
	} else {
		jwtCfg.Secret = cfg.Secret
	}
	return auth.NewJWTService(jwtCfg)
}
