package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/happycart/happycart/internal/config"
	"github.com/happycart/happycart/internal/db"
	"github.com/happycart/happycart/internal/db/postgres"
	dbRedis "github.com/happycart/happycart/internal/db/redis"
	"github.com/happycart/happycart/internal/domain"
	logpkg "github.com/happycart/happycart/internal/logger"
	"github.com/happycart/happycart/internal/metrics"
	cartrepo "github.com/happycart/happycart/internal/repository/cart"
	catalogrepo "github.com/happycart/happycart/internal/repository/catalog"
	"github.com/happycart/happycart/internal/repository/embcache"
	faqrepo "github.com/happycart/happycart/internal/repository/faq"
	orderrepo "github.com/happycart/happycart/internal/repository/order"
	chiTransport "github.com/happycart/happycart/internal/transport/chi"
	openaiTransport "github.com/happycart/happycart/internal/transport/openai"
	cartuc "github.com/happycart/happycart/internal/usecase/cart"
	healthuc "github.com/happycart/happycart/internal/usecase/health"
	"github.com/happycart/happycart/internal/usecase/intent"
	orderuc "github.com/happycart/happycart/internal/usecase/order"
	routeruc "github.com/happycart/happycart/internal/usecase/router"
	searchuc "github.com/happycart/happycart/internal/usecase/search"
	supportuc "github.com/happycart/happycart/internal/usecase/support"
	"github.com/happycart/happycart/internal/vector"
	"github.com/happycart/happycart/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting happycart API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
	)

	// Relational store: products, cart_items, orders
	gdb, err := postgres.Open(postgres.Config{
		DSN:          cfg.Postgres.DSN,
		MaxOpenConns: cfg.Postgres.MaxOpenConns,
		MaxIdleConns: cfg.Postgres.MaxIdleConns,
	})
	if err != nil {
		logger.Fatal("Failed to connect to postgres", zap.Error(err))
	}
	logger.Info("Connected to postgres")

	ctx := context.Background()

	// Catalog snapshot, loaded once
	snapshot, err := catalogrepo.New(gdb).LoadSnapshot(ctx)
	if err != nil {
		logger.Fatal("Failed to load catalog snapshot", zap.Error(err))
	}
	logger.Info("Catalog loaded", zap.Int("products", snapshot.Len()))

	// Product similarity index + id mapping (built offline)
	productIndex, err := vector.Load(cfg.Index.ProductIndexPath)
	if err != nil {
		logger.Fatal("Failed to load product index", zap.Error(err))
	}
	productMapping, err := vector.LoadMapping(cfg.Index.ProductMappingPath)
	if err != nil {
		logger.Fatal("Failed to load product id mapping", zap.Error(err))
	}
	if productIndex.Len() != productMapping.Len() {
		logger.Fatal("Product index and id mapping lengths disagree",
			zap.Int("index", productIndex.Len()),
			zap.Int("mapping", productMapping.Len()),
		)
	}

	// FAQ corpus + its own index and mapping
	faqs, err := faqrepo.Load(cfg.Index.FAQCorpusPath)
	if err != nil {
		logger.Fatal("Failed to load FAQ corpus", zap.Error(err))
	}
	faqIndex, err := vector.Load(cfg.Index.FAQIndexPath)
	if err != nil {
		logger.Fatal("Failed to load FAQ index", zap.Error(err))
	}
	faqMapping, err := vector.LoadMapping(cfg.Index.FAQMappingPath)
	if err != nil {
		logger.Fatal("Failed to load FAQ id mapping", zap.Error(err))
	}
	if faqIndex.Len() != faqMapping.Len() {
		logger.Fatal("FAQ index and id mapping lengths disagree",
			zap.Int("index", faqIndex.Len()),
			zap.Int("mapping", faqMapping.Len()),
		)
	}
	logger.Info("Indexes loaded",
		zap.Int("product_vectors", productIndex.Len()),
		zap.Int("faqs", len(faqs)),
	)

	// Register Prometheus metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterChatMetrics()

	// Optional Redis embedding cache
	var cache db.Store
	if len(cfg.Cache.Addrs) > 0 {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()
		if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		cache = store
		logger.Info("Connected to cache", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	// Embedder chain: OpenAI -> cached
	var embedder domain.Embedder = openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})
	if cache != nil {
		embedder = embcache.New(embedder, cache, metrics.EmbeddingCacheTotal, logger)
	}
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	// Optional natural-language responder
	var responder routeruc.Responder
	if cfg.Responder.Model != "" {
		responder = openaiTransport.NewResponder(&openaiTransport.ResponderConfig{
			APIKey:  cfg.Responder.APIKey,
			BaseURL: cfg.Responder.BaseURL,
			Model:   cfg.Responder.Model,
			Logger:  logger,
		})
		logger.Info("Responder created", zap.String("model", cfg.Responder.Model))
	}

	// Workflow services
	cartSvc := cartuc.New(cartrepo.New(gdb), logger)
	orderSvc := orderuc.New(orderrepo.New(gdb), logger)
	searchSvc := searchuc.New(snapshot, productIndex, productMapping, embedder, cfg.Index.DefaultTopK, logger)
	supportSvc := supportuc.New(faqs, faqIndex, faqMapping, embedder, logger)

	dispatcher := routeruc.New(
		intent.NewClassifier(), cartSvc, orderSvc, searchSvc, supportSvc, responder, logger,
	)

	// Health service. Pass nil interfaces (not typed nil pointers) for
	// components that are not wired.
	var cachePinger healthuc.CachePinger
	if cache != nil {
		cachePinger = cache
	}
	healthSvc := healthuc.New(
		&gormPinger{db: gdb}, cachePinger, newEmbeddingHealthChecker(embedder),
	)

	server := chiTransport.NewServer(dispatcher, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	r.Post("/chat", server.Chat)
	r.Get("/health", server.Health)
	r.Get("/metrics", server.Metrics)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// gormPinger adapts the gorm handle to health.DBPinger.
type gormPinger struct {
	db *gorm.DB
}

func (p *gormPinger) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.WithContext(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
