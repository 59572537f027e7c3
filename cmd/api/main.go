package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"expenses-api/internal/config"
	"expenses-api/internal/database"
	"expenses-api/internal/handlers"
	"expenses-api/internal/importer"
	"expenses-api/internal/middleware"
	"expenses-api/internal/repositories"
	"expenses-api/internal/services"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Optional in containerized deployments where env vars come from the runtime
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := config.Load()

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := database.Initialize(cfg)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)
	merchantRepo := repositories.NewMerchantRuleRepository(db)

	// Services
	metrics := services.NewPrometheusMetrics()
	tokenService := services.NewTokenService(&cfg.JWT)
	passwordService := services.NewPasswordService()
	authService := services.NewAuthService(userRepo, categoryRepo, passwordService, tokenService, logger)
	categorizeService := services.NewCategorizeService(transactionRepo, merchantRepo)
	importService := services.NewImportService(
		importer.DefaultRegistry(), transactionRepo, categorizeService, metrics, logger, cfg.Upload.MaxFileSizeBytes)
	exportService := services.NewExportService(transactionRepo, categoryRepo)
	reportService := services.NewReportService(transactionRepo)

	// Handlers
	healthHandler := handlers.NewHealthCheckHandler(db)
	authHandler := handlers.NewAuthHandler(authService, userRepo)
	uploadHandler := handlers.NewUploadHandler(importService, cfg.Upload)
	transactionHandler := handlers.NewTransactionHandler(transactionRepo, categoryRepo, categorizeService, exportService)
	categoryHandler := handlers.NewCategoryHandler(categoryRepo)
	reportHandler := handlers.NewReportHandler(reportService)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.CustomHTTPErrorHandler
	e.Validator = handlers.NewValidator()

	e.Use(middleware.RequestID())
	e.Use(middleware.PanicRecovery())
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.RateLimiterWithConfig(cfg.Security.RateLimitPerSecond, cfg.Security.RateLimitPerSecond*2))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.Server.CORSAllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	e.GET("/health", healthHandler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", authHandler.Me, middleware.RequireAuth(tokenService))

	upload := api.Group("/upload", middleware.RequireAuth(tokenService))
	upload.POST("/", uploadHandler.Upload)
	upload.POST("/detect-bank", uploadHandler.DetectBank)
	upload.GET("/bank-types", uploadHandler.BankTypes)

	transactions := api.Group("/transactions", middleware.RequireAuth(tokenService))
	transactions.GET("/", transactionHandler.ListTransactions)
	transactions.GET("/uncategorized/count", transactionHandler.UncategorizedCount)
	transactions.GET("/export", transactionHandler.Export)
	transactions.POST("/import", transactionHandler.Import)
	transactions.POST("/bulk-categorize", transactionHandler.BulkCategorize)
	transactions.POST("/bulk-delete", transactionHandler.BulkDelete)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	reports := api.Group("/reports", middleware.RequireAuth(tokenService))
	reports.GET("/monthly", reportHandler.Monthly)
	reports.GET("/by-category", reportHandler.ByCategory)
	reports.GET("/top-expenses", reportHandler.TopExpenses)
	reports.GET("/summary", reportHandler.Summary)
	reports.GET("/stats", reportHandler.Stats)

	categories := api.Group("/categories", middleware.RequireAuth(tokenService))
	categories.GET("/", categoryHandler.ListCategories)
	categories.POST("/", categoryHandler.CreateCategory)
	categories.POST("/init-default", categoryHandler.InitDefaults)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)
	categories.GET("/:id/subcategories", categoryHandler.ListSubcategories)
	categories.POST("/:id/subcategories", categoryHandler.CreateSubcategory)
	categories.PUT("/subcategories/:id", categoryHandler.UpdateSubcategory)
	categories.DELETE("/subcategories/:id", categoryHandler.DeleteSubcategory)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("starting server",
			"address", server.Addr,
			"environment", cfg.Server.Environment)
		if err := e.StartServer(server); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}

	logger.Info("server exited")
}

func newLogger(cfg *config.Config) *slog.Logger {
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
