package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"twitline/pkg/config"
	"twitline/pkg/jwt"
	"twitline/pkg/logger"
	"twitline/pkg/media"
	"twitline/pkg/middleware"
	"twitline/pkg/queue"
	twitHTTP "twitline/services/twit/internal/controller/http"
	"twitline/services/twit/internal/repo/persistent"
	"twitline/services/twit/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "twitline/services/twit/docs" // Swagger docs
)

func Run(cfg *config.Config, log *logger.Logger, db *gorm.DB, mediaStore media.Store, queueClient *queue.Client, redisClient *redis.Client) {
	jwtService := jwt.NewService(cfg.JWTSecret)

	twitRepo := persistent.NewTwitRepository(db)
	twitUseCase := usecase.NewTwitUseCase(twitRepo, mediaStore, redisClient, queueClient, log)
	twitHandler := twitHTTP.NewTwitHandler(twitUseCase, log)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000", "*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(jwtService))
	api.Use(middleware.RateLimitMiddleware(redisClient, 100, time.Minute))

	{
		api.POST("/twits", twitHandler.CreateTwit)
		api.GET("/twits", twitHandler.ListFeed)
		api.GET("/twits/:id", twitHandler.GetTwit)
		api.PUT("/twits/:id", twitHandler.UpdateTwit)
		api.DELETE("/twits/:id", twitHandler.DeleteTwit)
		api.POST("/twits/:id/reply", twitHandler.CreateReply)
		api.POST("/twits/:id/retwit", twitHandler.ToggleRetwit)
		api.POST("/twits/:id/like", twitHandler.ToggleLike)
		api.GET("/twits/user/:user_id", twitHandler.ListUserTwits)
		api.GET("/twits/user/:user_id/likes", twitHandler.ListLikedTwits)
		api.POST("/upload", twitHandler.UploadFiles)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		log.Info("Twit service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down twit service...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sqlDB, err := db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error("Error closing database: %v", err)
		}
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis: %v", err)
		}
	}

	if queueClient != nil {
		queueClient.Close()
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
		panic(err)
	}

	log.Info("Twit service exited")
}
