package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	_ "catena/docs"
	"catena/internal/caching"
	"catena/internal/config"
	"catena/internal/handlers"
	"catena/internal/jobs/background"
	"catena/internal/metrics"
	"catena/internal/middleware"
	"catena/internal/models"
	"catena/internal/repositories"
	"catena/internal/services"
	"catena/pkg/database"
	"catena/pkg/logger"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.App.Env,
		ServiceName: cfg.App.Name,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	if cfg.Auth.GeneratedSecret {
		appLogger.Warn("JWT_SECRET is not set, using a generated secret; sessions will not survive a restart")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.DB.URL, cfg.DB.MaxConns, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		appLogger.Fatal("Failed to apply schema", zap.Error(err))
	}

	cacheSvc := caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, appLogger)
	defer cacheSvc.Close()

	storage, err := services.NewStorageService(services.StorageOptions{
		Endpoint:      cfg.Storage.Endpoint,
		AccessKey:     cfg.Storage.AccessKey,
		SecretKey:     cfg.Storage.SecretKey,
		UseSSL:        cfg.Storage.UseSSL,
		Region:        cfg.Storage.Region,
		Bucket:        cfg.Storage.Bucket,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
	})
	if err != nil {
		appLogger.Fatal("Failed to create storage client", zap.Error(err))
	}
	if err := storage.EnsureBucket(ctx); err != nil {
		appLogger.Fatal("Failed to prepare bucket", zap.String("bucket", cfg.Storage.Bucket), zap.Error(err))
	}

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	jobRepo := repositories.NewJobRepo(pool)
	documentRepo := repositories.NewDocumentRepo(pool)
	starredRepo := repositories.NewStarredRepo(pool)
	orphanRepo := repositories.NewOrphanedBlobRepo(pool)
	auditLogsRepo := repositories.NewAuditLogsRepo(pool)

	// Services
	cleaner := services.NewBlobCleaner(storage, orphanRepo, appLogger)
	authSvc, err := services.NewAuthService(userRepo, cacheSvc, services.AuthOptions{
		JWTSecret: cfg.Auth.JWTSecret,
		TokenTTL:  cfg.Auth.TokenTTL,
		JWKSURL:   cfg.Auth.JWKSURL,
	}, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create auth service", zap.Error(err))
	}
	defer authSvc.Close()

	userSvc := services.NewUserService(userRepo, cacheSvc, storage, cleaner, appLogger)
	jobSvc := services.NewJobService(jobRepo, userRepo, cacheSvc, storage, cleaner, appLogger)
	documentSvc := services.NewDocumentService(documentRepo, starredRepo, userRepo, storage, cleaner, appLogger)
	auditLogsSvc := services.NewAuditLogsService(auditLogsRepo)

	scheduler, err := background.NewJobScheduler(orphanRepo, storage, cfg.Jobs.SweepInterval, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create job scheduler", zap.Error(err))
	}
	scheduler.Start()

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handlers.HTTPErrorHandler
	e.Validator = handlers.NewRequestValidator()

	metrics.Register()
	httpMetrics := metrics.NewHTTPMetrics(cfg.App.Name)

	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(logger.RequestID())
	e.Use(logger.Middleware())
	e.Use(httpMetrics.Middleware())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(echoMiddleware.BodyLimit("25M"))

	if cfg.HTTP.StaticDir != "" {
		e.Use(echoMiddleware.StaticWithConfig(echoMiddleware.StaticConfig{
			Root:  cfg.HTTP.StaticDir,
			HTML5: true,
			Skipper: func(c echo.Context) bool {
				p := c.Request().URL.Path
				for _, prefix := range []string{"/api", "/health", "/metrics", "/swagger"} {
					if strings.HasPrefix(p, prefix) {
						return true
					}
				}
				return false
			},
		}))
	}

	// Handlers
	healthHandlers := handlers.NewHealthHandlers(
		pool,
		cacheSvc,
		handlers.PingFunc(func(ctx context.Context) error {
			_, err := storage.Exists(ctx, ".healthcheck")
			return err
		}),
		version,
	)
	authHandlers := handlers.NewAuthHandlers(authSvc, userSvc, cfg.App.IsProduction())
	userHandlers := handlers.NewUserHandlers(userSvc)
	jobHandlers := handlers.NewJobHandlers(jobSvc)
	documentHandlers := handlers.NewDocumentHandlers(documentSvc)
	profileHandlers := handlers.NewProfileHandlers(userSvc)
	auditLogsHandlers := handlers.NewAuditLogsHandlers(auditLogsSvc)

	// Operational routes
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)
	e.GET("/metrics", echo.WrapHandler(metrics.GetPrometheusHandler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api", middleware.VersionHeader())
	api.GET("/test", healthHandlers.Test)

	auditMiddleware := middleware.NewAuditMiddleware(auditLogsSvc, appLogger)
	authenticated := []echo.MiddlewareFunc{
		middleware.JWTMiddleware(authSvc, userRepo),
		middleware.RequireUser,
		auditMiddleware.AuditRequest(),
	}
	adminOnly := middleware.RequireRole(models.RoleAdmin, models.RoleMasterAdmin)

	// Auth and users
	authGroup := api.Group("/auth")
	authGroup.POST("/login", authHandlers.Login)
	authGroup.POST("/logout", authHandlers.Logout)
	authGroup.POST("/register", authHandlers.Register, authenticated...)
	authGroup.GET("/me", authHandlers.Me, authenticated...)
	authGroup.GET("/users", userHandlers.ListUsers, authenticated...)
	authGroup.GET("/:id", userHandlers.GetUser, authenticated...)
	authGroup.PUT("/:id", userHandlers.UpdateUser, authenticated...)
	authGroup.PUT("/:id/reset-password", userHandlers.ResetPassword, append(authenticated, adminOnly)...)
	authGroup.DELETE("/:id", userHandlers.DeleteUser, append(authenticated, adminOnly)...)

	registerJobRoutes(api, jobHandlers, authenticated...)
	registerDocumentRoutes(api, documentHandlers, authenticated...)

	// Profile picture
	profile := api.Group("/profile-pic", authenticated...)
	profile.POST("/upload-profile-pic", profileHandlers.UploadProfilePic)
	profile.GET("/get-profile-pic", profileHandlers.GetProfilePic)
	profile.DELETE("/delete-profile-pic", profileHandlers.DeleteProfilePic)

	// Audit log
	api.GET("/audit-logs", auditLogsHandlers.ListAuditLogs, append(authenticated, adminOnly)...)

	go func() {
		appLogger.Info("Starting server", zap.String("addr", cfg.HTTP.Addr()), zap.String("version", version))
		if err := e.Start(cfg.HTTP.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server shutdown failed", zap.Error(err))
	}
	if err := scheduler.Stop(); err != nil {
		appLogger.Error("Scheduler shutdown failed", zap.Error(err))
	}
}
