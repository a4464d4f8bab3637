package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"catalog-backend/assets"
	"catalog-backend/catalog"
	"catalog-backend/config"
	"catalog-backend/database"
	"catalog-backend/export"
	"catalog-backend/firebase"
	"catalog-backend/handlers"
	"catalog-backend/logger"
	"catalog-backend/middleware"
	"catalog-backend/query"
	"catalog-backend/repository"
	"catalog-backend/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables
	if err := config.LoadEnv(); err != nil {
		logger.L().Fatal("error loading .env file", zap.Error(err))
	}

	logger.Init(logger.Config{
		Env:         config.GetEnv("APP_ENV", "dev"),
		Level:       config.GetEnv("LOG_LEVEL", "info"),
		ServiceName: "catalog-backend",
	})
	defer logger.Sync()
	log := logger.Named("main")

	// Validate critical environment variables
	if err := config.ValidateEnv(); err != nil {
		log.Fatal("environment validation failed", zap.Error(err))
	}

	db, err := database.Connect()
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}
	if err := database.CreateDefaultAdmin(db); err != nil {
		log.Warn("could not create default admin", zap.Error(err))
	}

	port := config.GetEnv("PORT", "8080")

	ctx := context.Background()
	store, baseURL := assetStore(ctx, log, port)
	images := assets.NewGateway(store, baseURL, logger.Named("assets"))

	categoryRepo := repository.NewCategoryRepository(db)
	subcategoryRepo := repository.NewSubcategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	userRepo := repository.NewUserRepository(db)

	facade := query.NewFacade(categoryRepo, subcategoryRepo, productRepo)
	reconciler := catalog.NewReconciler(images,
		config.GetEnvDuration("ASSET_SWEEP_GRACE", time.Hour),
		logger.L(),
		categoryRepo, subcategoryRepo, productRepo,
	)

	authLimiter := middleware.NewRateLimiter(config.GetEnvInt("LOGIN_RATE_LIMIT", 10), time.Minute)
	defer authLimiter.Stop()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger.Named("http")))

	// Multipart bodies hold one image of at most 5MB plus a few fields.
	r.MaxMultipartMemory = 10 << 20

	// CORS configuration - filter out empty strings from AllowOrigins
	var origins []string
	for _, o := range []string{os.Getenv("FRONTEND_URL"), os.Getenv("ADMIN_URL")} {
		if o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
		log.Warn("no CORS origins configured, defaulting to http://localhost:3000")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	routes.SetupRoutes(r, routes.Handlers{
		Auth:     &handlers.AuthHandler{Users: catalog.NewUserService(userRepo, logger.L())},
		Category: &handlers.CategoryHandler{Categories: catalog.NewCategoryService(categoryRepo, images, logger.L())},
		Subcategory: &handlers.SubcategoryHandler{
			Subcategories: catalog.NewSubcategoryService(subcategoryRepo, categoryRepo, images, logger.L()),
			Query:         facade,
		},
		Product: &handlers.ProductHandler{
			Products: catalog.NewProductService(productRepo, subcategoryRepo, images, logger.L()),
			Query:    facade,
			Exporter: export.NewExporter(productRepo, logger.Named("export")),
		},
		Asset:       &handlers.AssetHandler{Images: images, Reconciler: reconciler},
		AuthLimiter: authLimiter,
	})

	sweeper, err := scheduleSweep(reconciler, config.GetEnv("ASSET_SWEEP_SCHEDULE", ""), log)
	if err != nil {
		log.Fatal("invalid ASSET_SWEEP_SCHEDULE", zap.Error(err))
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// Run server in a goroutine
	go func() {
		log.Info("server starting", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	if sweeper != nil {
		<-sweeper.Stop().Done()
	}

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	// Close database connection
	sqlDB, err := db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error("error closing database connection", zap.Error(err))
		} else {
			log.Info("database connection closed")
		}
	}

	log.Info("server exited gracefully")
}

// assetStore picks the object store named by ASSET_STORE and the locator base that goes with it.
func assetStore(ctx context.Context, log *zap.Logger, port string) (assets.ObjectStore, string) {
	switch kind := strings.ToLower(config.GetEnv("ASSET_STORE", "firebase")); kind {
	case "memory":
		base := config.GetEnv("ASSET_BASE_URL", "http://localhost:"+port+"/api/assets")
		log.Warn("using in-memory asset store, images are lost on restart", zap.String("base", base))
		return assets.NewMemoryStore(), base
	case "firebase":
		app, err := firebase.NewApp(ctx, os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
		if err != nil {
			log.Fatal("failed to initialise firebase", zap.Error(err))
		}
		store, err := firebase.NewStore(ctx, app, config.AssetBucket())
		if err != nil {
			log.Fatal("failed to open asset bucket", zap.Error(err))
		}
		return store, config.AssetBaseURL()
	default:
		log.Fatal("unsupported ASSET_STORE", zap.String("asset_store", kind))
		return nil, ""
	}
}

// scheduleSweep runs orphan sweeps on a cron spec. An empty spec disables them.
func scheduleSweep(r *catalog.Reconciler, spec string, log *zap.Logger) (*cron.Cron, error) {
	if spec == "" {
		return nil, nil
	}
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		res, err := r.SweepOrphans(ctx)
		if err != nil {
			log.Error("scheduled asset sweep failed", zap.Error(err))
			return
		}
		log.Info("scheduled asset sweep",
			zap.Int("scanned", res.Scanned),
			zap.Int("deleted", len(res.Deleted)),
			zap.Int("failed", len(res.Failed)),
		)
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	log.Info("asset sweep scheduled", zap.String("schedule", spec))
	return c, nil
}
