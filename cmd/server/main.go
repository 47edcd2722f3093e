package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-catalog-service/config"
	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/pkg/blob"
	"github.com/fekuna/omnipos-catalog-service/pkg/broker"
	"github.com/fekuna/omnipos-catalog-service/pkg/cache"
	"github.com/fekuna/omnipos-catalog-service/pkg/database/postgres"
	"github.com/fekuna/omnipos-catalog-service/pkg/i18n"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/fekuna/omnipos-catalog-service/pkg/middleware"
	"github.com/fekuna/omnipos-catalog-service/pkg/search"

	catH "github.com/fekuna/omnipos-catalog-service/internal/category/handler"
	catRepoPkg "github.com/fekuna/omnipos-catalog-service/internal/category/repository"
	catUCPkg "github.com/fekuna/omnipos-catalog-service/internal/category/usecase"

	distH "github.com/fekuna/omnipos-catalog-service/internal/distribution/handler"
	distRepoPkg "github.com/fekuna/omnipos-catalog-service/internal/distribution/repository"
	distUCPkg "github.com/fekuna/omnipos-catalog-service/internal/distribution/usecase"

	"github.com/fekuna/omnipos-catalog-service/internal/indexer"
	idxRepoPkg "github.com/fekuna/omnipos-catalog-service/internal/indexer/repository"

	mediaH "github.com/fekuna/omnipos-catalog-service/internal/media/handler"
	mediaRepoPkg "github.com/fekuna/omnipos-catalog-service/internal/media/repository"
	mediaUCPkg "github.com/fekuna/omnipos-catalog-service/internal/media/usecase"

	prodH "github.com/fekuna/omnipos-catalog-service/internal/product/handler"
	prodRepoPkg "github.com/fekuna/omnipos-catalog-service/internal/product/repository"
	prodUCPkg "github.com/fekuna/omnipos-catalog-service/internal/product/usecase"

	tplH "github.com/fekuna/omnipos-catalog-service/internal/template/handler"
	tplRepoPkg "github.com/fekuna/omnipos-catalog-service/internal/template/repository"
	tplUCPkg "github.com/fekuna/omnipos-catalog-service/internal/template/usecase"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     cfg.Server.AppEnv == "development",
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	translator, err := i18n.New()
	if err != nil {
		appLogger.Fatal("Could not load translations", zap.Error(err))
	}

	// 3. Connect to Database
	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 4. Optional infrastructure
	var redisClient *cache.RedisClient
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Fatal("Could not connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	var esClient *search.Client
	if cfg.Elastic.Enabled {
		esClient, err = search.NewClient(&search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Elasticsearch, suggestions disabled", zap.Error(err))
			esClient = nil
		} else {
			appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	var store blob.Store
	if cfg.Storage.GCSBucket != "" {
		gcs, err := blob.NewGCSStore(ctx, &blob.GCSConfig{
			Bucket:        cfg.Storage.GCSBucket,
			PublicBaseURL: cfg.Storage.PublicBaseURL,
			Prefix:        cfg.Storage.Prefix,
		})
		if err != nil {
			appLogger.Fatal("Could not create storage client", zap.Error(err))
		}
		defer gcs.Close()
		store = gcs
	} else {
		appLogger.Warn("GCS_BUCKET not set, media uploads disabled")
	}

	// 5. Initialize Repositories
	catRepo := catRepoPkg.NewPGRepository(db)
	tplRepo := tplRepoPkg.NewPGRepository(db)
	distRepo := distRepoPkg.NewPGRepository(db)
	prodRepo := prodRepoPkg.NewPGRepository(db)
	mediaRepo := mediaRepoPkg.NewPGRepository(db)

	// 6. Initialize UseCases
	var listings catUCPkg.ListInvalidator
	if redisClient != nil {
		listings = redisClient
	}
	catUC := catUCPkg.NewCategoryUseCase(catRepo, listings, appLogger)
	tplUC := tplUCPkg.NewTemplateUseCase(tplRepo, redisClient, appLogger)
	distUC := distUCPkg.NewDistributionUseCase(distRepo, catUC, redisClient, appLogger)
	mediaUC := mediaUCPkg.NewMediaUseCase(mediaRepo, tplRepo, store, redisClient,
		time.Duration(cfg.Catalog.LockTTL)*time.Second, appLogger)

	deps := prodUCPkg.Dependencies{
		Repo:        prodRepo,
		Templates:   tplRepo,
		Categories:  catUC,
		Overrides:   distUC,
		Media:       mediaRepo,
		Cache:       redisClient,
		SearchIndex: cfg.Elastic.Index,
		ListTTL:     time.Duration(cfg.Catalog.ListCacheTTL) * time.Second,
		Logger:      appLogger,
	}
	if esClient != nil {
		deps.Search = esClient
	}

	// 7. Catalog events and the search indexer
	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
		})
		defer producer.Close()
		deps.Events = producer
		appLogger.Info("Connected to Kafka Producer", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

		if esClient != nil {
			consumer := broker.NewConsumer(&broker.Config{
				Brokers: cfg.Kafka.Brokers,
				Topic:   cfg.Kafka.Topic,
				GroupID: cfg.Kafka.GroupID,
			})
			defer consumer.Close()

			listener := indexer.NewListener(consumer, idxRepoPkg.NewPGRepository(db), esClient, cfg.Elastic.Index, appLogger)
			if err := listener.EnsureIndex(ctx); err != nil {
				appLogger.Warn("Could not create search index", zap.String("index", cfg.Elastic.Index), zap.Error(err))
			}
			go listener.Start(ctx)
		}
	}

	prodUC := prodUCPkg.NewProductUseCase(deps)

	// 8. Initialize Handlers
	if cfg.Server.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RequestLogger(appLogger), middleware.Recovery(appLogger), middleware.CORS(cfg.Server.AllowedOrigins))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1", auth.IdentityMiddleware())
	catH.NewCategoryHandler(catUC, translator, appLogger, cfg.Catalog.DefaultPageSize, cfg.Catalog.MaxPageSize).RegisterRoutes(v1)
	tplH.NewTemplateHandler(tplUC, translator, appLogger, cfg.Catalog.DefaultPageSize, cfg.Catalog.MaxPageSize).RegisterRoutes(v1)
	distH.NewDistributionHandler(distUC, translator, appLogger).RegisterRoutes(v1)
	prodH.NewProductHandler(prodUC, translator, appLogger, cfg.Catalog.DefaultPageSize, cfg.Catalog.MaxPageSize).RegisterRoutes(v1)
	mediaH.NewMediaHandler(mediaUC, translator, appLogger, int64(cfg.Storage.MaxUploadMB)<<20).RegisterRoutes(v1)

	httpServer := &http.Server{
		Addr:              normalizePort(cfg.Server.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 9. gRPC health server
	lis, err := net.Listen("tcp", normalizePort(cfg.Server.GRPCPort))
	if err != nil {
		appLogger.Fatal("failed to listen", zap.Error(err))
	}
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)
	go watchDatabase(ctx, db, healthServer, appLogger)

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve http", zap.Error(err))
		}
	}()
	go func() {
		appLogger.Info("Starting gRPC health server", zap.String("addr", lis.Addr().String()))
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve grpc", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	healthServer.Shutdown()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("http shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}

// watchDatabase reports the overall gRPC health from a periodic database ping.
func watchDatabase(ctx context.Context, db *sqlx.DB, hs *health.Server, log logger.ZapLogger) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	serving := healthpb.HealthCheckResponse_UNKNOWN
	for {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := db.PingContext(pingCtx)
		cancel()

		status := healthpb.HealthCheckResponse_SERVING
		if err != nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
		if status != serving {
			if err != nil {
				log.Warn("database ping failed", zap.Error(err))
			}
			hs.SetServingStatus("", status)
			serving = status
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func normalizePort(port string) string {
	if !strings.HasPrefix(port, ":") && !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
