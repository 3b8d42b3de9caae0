package internal

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-share/pkg/cache"
	"recipe-share/pkg/config"
	"recipe-share/pkg/database"
	"recipe-share/pkg/jwt"
	"recipe-share/pkg/logger"
	"recipe-share/pkg/middleware"
	notificationHTTP "recipe-share/services/notification/internal/controller/http"
	unreadCache "recipe-share/services/notification/internal/repo/cache"
	"recipe-share/services/notification/internal/repo/persistent"
	"recipe-share/services/notification/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "recipe-share/services/notification/docs" // Swagger docs
)

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	redisClient *redis.Client
	jwtService  *jwt.Service
	httpServer  *http.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.New()

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		// Unread counts fall back to the database.
		log.Warn("Failed to connect to redis: %v (continuing without unread cache)", err)
		redisClient = nil
	}

	return &App{
		cfg:         cfg,
		log:         log,
		db:          db,
		redisClient: redisClient,
		jwtService:  jwt.NewService(cfg.JWTSecret),
	}, nil
}

// NewRouter wires the notification API onto a gin engine.
func NewRouter(cfg *config.Config, log *logger.Logger, jwtService *jwt.Service, notificationUseCase usecase.NotificationUseCase) *gin.Engine {
	notificationHandler := notificationHTTP.NewNotificationHandler(notificationUseCase, log)

	r := gin.Default()

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	notifications := r.Group("/api/notifications")
	notifications.Use(middleware.AuthMiddleware(jwtService))
	notificationHandler.Register(notifications)

	return r
}

func (a *App) Run() error {
	// Initialize repositories
	directoryRepo := persistent.NewDirectoryRepository(a.db)
	notificationRepo := persistent.NewNotificationRepository(a.db)

	var unreadCounter usecase.UnreadCounter
	if a.redisClient != nil {
		unreadCounter = unreadCache.NewUnreadCache(a.redisClient, a.cfg.UnreadCacheTTL)
	}

	// Initialize use cases
	notificationUseCase := usecase.NewNotificationUseCase(directoryRepo, notificationRepo, unreadCounter, a.log)

	a.httpServer = &http.Server{
		Addr:    ":" + a.cfg.ServerPort,
		Handler: NewRouter(a.cfg, a.log, a.jwtService, notificationUseCase),
	}

	// Start server in a goroutine
	go func() {
		a.log.Info("Notification service starting on port %s", a.cfg.ServerPort)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	return nil
}

func (a *App) Wait() {
	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down notification service...")
}

func (a *App) Shutdown() error {
	// In-flight pushes get 5 seconds to commit or roll back.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.log.Error("Server forced to shutdown: %v", err)
		return err
	}

	// Close database connection
	sqlDB, err := a.db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			a.log.Error("Error closing database: %v", err)
		}
	}

	// Close Redis connection
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("Error closing Redis: %v", err)
		}
	}

	a.log.Info("Notification service exited")
	return nil
}
