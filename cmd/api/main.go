// @title DevTrail API
// @version 1.0
// @description A RESTful API for browsing and publishing coding bootcamps, courses and reviews
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer <token>"
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	docs "github.com/devtrailhq/devtrail/docs"
	"github.com/devtrailhq/devtrail/internal/config"
	"github.com/devtrailhq/devtrail/internal/database"
	"github.com/devtrailhq/devtrail/internal/features/auth"
	"github.com/devtrailhq/devtrail/internal/middleware"
	"github.com/devtrailhq/devtrail/internal/pkg/geocoder"
	"github.com/devtrailhq/devtrail/internal/pkg/logger"
	"github.com/devtrailhq/devtrail/internal/pkg/mailer"
	"github.com/devtrailhq/devtrail/internal/pkg/ratelimit"
	"github.com/devtrailhq/devtrail/internal/pkg/response"
	"github.com/devtrailhq/devtrail/internal/pkg/uploads"
	"github.com/devtrailhq/devtrail/internal/routes"
)

func main() {
	cfg := config.Load()
	logger.Setup(cfg.AppEnv)

	docs.SwaggerInfo.Title = "DevTrail API"
	docs.SwaggerInfo.Description = "A RESTful API for browsing and publishing coding bootcamps, courses and reviews"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = "localhost:" + cfg.Port
	docs.SwaggerInfo.BasePath = "/api/v1"
	docs.SwaggerInfo.Schemes = []string{"http"}

	db, err := database.Connect(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.L.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer db.Disconnect(context.Background())

	// Optional Redis cache in front of the geocoder.
	var cache *redis.Client
	if cfg.RedisAddr != "" {
		cache = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		if err := cache.Ping(context.Background()).Err(); err != nil {
			logger.L.Warn().Err(err).Msg("redis unreachable, geocode caching disabled")
			cache = nil
		}
	}

	geo := geocoder.New(cfg.GeocoderProvider, cfg.GeocoderAPIKey, cache)

	up, err := uploads.NewService(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, "devtrail", cfg.MaxFileUpload)
	if err != nil {
		logger.L.Warn().Err(err).Msg("cloudinary not configured, image uploads disabled")
		up = nil
	}

	var mail auth.Sender
	if cfg.SMTPHost != "" {
		mail = mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFromEmail, cfg.SMTPFromName)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	limiter := ratelimit.New(cfg.RateLimitMax, cfg.RateLimitWindow)
	limiter.StartCleanup(time.Minute)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.FrontendURL))
	router.Use(ratelimit.Middleware(limiter, cfg.RateLimitMax))

	router.GET("/health", func(c *gin.Context) {
		response.Success(c, map[string]interface{}{
			"status": "ok",
			"time":   time.Now().Unix(),
		})
	})

	router.GET(
		"/swagger/*any",
		ginSwagger.WrapHandler(
			swaggerFiles.Handler,
			ginSwagger.URL("/swagger/doc.json"),
			ginSwagger.DeepLinking(true),
			ginSwagger.DefaultModelsExpandDepth(-1),
			ginSwagger.DocExpansion("none"),
			ginSwagger.PersistAuthorization(true),
		),
	)

	routes.SetupRoutes(router, db.Database, cfg, geo, up, mail)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.L.Info().Str("port", cfg.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.L.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.L.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.L.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.L.Info().Msg("server exited")
}
