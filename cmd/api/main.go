package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/config"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/handler"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/middleware"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/repository/mongodb"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/repository/postgres"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/repository/storage"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/service"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/websocket"
)

// @title TT Dashboard API
// @version 1.0
// @description Back-office API for expenses, sales, orders and dashboard reporting
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.
func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx := context.Background()

	// Connect to the entity store
	repos, closeStore, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer closeStore()

	// Attachment storage
	files, uploadDir, err := openFileStorage(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize file storage")
	}

	// Token issuance and verification
	tokens, err := service.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create token service")
	}

	// Initialize services
	attachments := service.NewAttachmentService(files)
	authService := service.NewAuthService(repos.users, tokens)
	userService := service.NewUserService(repos.users, attachments)
	categoryService := service.NewCategoryService(repos.categories)
	expenseService := service.NewExpenseService(repos.expenses, categoryService, attachments)
	salesService := service.NewSalesService(repos.sales, attachments)
	orderService := service.NewOrderService(repos.orders, attachments)
	reportService := service.NewReportService(repos.expenses, repos.sales, repos.orders, cfg.Location)
	cardService := service.NewCustomCardService(repos.cards, repos.inHand, repos.categories, reportService)

	// Live updates
	hub := websocket.NewHub()
	userService.SetEventPublisher(hub)
	categoryService.SetEventPublisher(hub)
	expenseService.SetEventPublisher(hub)
	salesService.SetEventPublisher(hub)
	orderService.SetEventPublisher(hub)

	if err := userService.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		log.Fatal().Err(err).Msg("Failed to create bootstrap admin")
	}

	authMiddleware := middleware.NewAuthMiddleware(authService)
	loginLimiter := middleware.NewRateLimiterWithConfig(cfg.LoginRatePerMinute, cfg.LoginBurst)
	defer loginLimiter.Stop()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		ExposeHeaders:    []string{echo.HeaderContentDisposition, "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))

	// Uploads are bounded per file; the extra margin covers the other form fields
	e.Use(echomiddleware.BodyLimit(fmt.Sprintf("%dM", domain.MaxAttachmentSize>>20+2)))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Register API routes
	handler.RegisterRoutes(e, authMiddleware, handler.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		User:       handler.NewUserHandler(userService),
		Category:   handler.NewCategoryHandler(categoryService),
		Expense:    handler.NewExpenseHandler(expenseService, reportService),
		Sales:      handler.NewSalesHandler(salesService, reportService),
		Order:      handler.NewOrderHandler(orderService, reportService),
		Dashboard:  handler.NewDashboardHandler(reportService),
		CustomCard: handler.NewCustomCardHandler(cardService, reportService),
		Upload:     handler.NewUploadHandler(attachments),
		WebSocket:  handler.NewWebSocketHandler(hub, authService, cfg.CORSOrigins),
	}, handler.RouteOptions{
		UploadDir:    uploadDir,
		LoginLimiter: loginLimiter,
	})

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// stores holds the repositories of whichever backend DATABASE_URL selects
type stores struct {
	users      domain.UserRepository
	categories domain.CategoryRepository
	expenses   domain.ExpenseRepository
	sales      domain.SalesRepository
	orders     domain.OrderRepository
	cards      domain.CustomCardRepository
	inHand     domain.CustomInHandRepository
}

// openStores connects to MongoDB for mongodb:// URLs and to PostgreSQL otherwise
func openStores(ctx context.Context, cfg *config.Config) (*stores, func(), error) {
	if cfg.UsesMongo() {
		client, db, err := mongodb.Connect(ctx, cfg.DatabaseURL, cfg.DatabaseName)
		if err != nil {
			return nil, nil, err
		}
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, fmt.Errorf("ensure indexes: %w", err)
		}
		log.Info().Str("database", cfg.DatabaseName).Msg("Connected to MongoDB")

		return &stores{
				users:      mongodb.NewUserRepository(db),
				categories: mongodb.NewCategoryRepository(db),
				expenses:   mongodb.NewExpenseRepository(db),
				sales:      mongodb.NewSalesRepository(db),
				orders:     mongodb.NewOrderRepository(db),
				cards:      mongodb.NewCustomCardRepository(db),
				inHand:     mongodb.NewCustomInHandRepository(db),
			}, func() {
				disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := client.Disconnect(disconnectCtx); err != nil {
					log.Warn().Err(err).Msg("Failed to disconnect from MongoDB")
				}
			}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := postgres.RunMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}
	log.Info().Msg("Connected to PostgreSQL")

	return &stores{
		users:      postgres.NewUserRepository(pool),
		categories: postgres.NewCategoryRepository(pool),
		expenses:   postgres.NewExpenseRepository(pool),
		sales:      postgres.NewSalesRepository(pool),
		orders:     postgres.NewOrderRepository(pool),
		cards:      postgres.NewCustomCardRepository(pool),
		inHand:     postgres.NewCustomInHandRepository(pool),
	}, pool.Close, nil
}

// openFileStorage returns the attachment store and, for local storage, the
// directory served under /uploads
func openFileStorage(ctx context.Context, cfg *config.Config) (storage.FileRepository, string, error) {
	switch cfg.StorageDriver {
	case config.StorageS3:
		repo, err := storage.NewS3FileRepository(ctx, cfg.S3)
		if err != nil {
			return nil, "", err
		}
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Using S3 attachment storage")
		return repo, "", nil
	default:
		repo, err := storage.NewLocalFileRepository(cfg.UploadDir)
		if err != nil {
			return nil, "", err
		}
		log.Info().Str("dir", repo.Dir()).Msg("Using local attachment storage")
		return repo, repo.Dir(), nil
	}
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			event := log.Info()
			if res.Status >= http.StatusInternalServerError {
				event = log.Error()
			}
			event.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
