package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/allandacasin/devconnector-api/adapters/event"
	githubAdapter "github.com/allandacasin/devconnector-api/adapters/github"
	httpAdapter "github.com/allandacasin/devconnector-api/adapters/http"
	"github.com/allandacasin/devconnector-api/adapters/persistence"
	authUC "github.com/allandacasin/devconnector-api/internal/application/usecase/auth"
	githubUC "github.com/allandacasin/devconnector-api/internal/application/usecase/github"
	postUC "github.com/allandacasin/devconnector-api/internal/application/usecase/post"
	profileUC "github.com/allandacasin/devconnector-api/internal/application/usecase/profile"
	"github.com/allandacasin/devconnector-api/internal/config"
	"github.com/allandacasin/devconnector-api/pkg/auth"
	"github.com/allandacasin/devconnector-api/pkg/logger"
	"github.com/allandacasin/devconnector-api/pkg/tracing"
)

const serviceName = "devconnector-api"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env, serviceName)

	if cfg.Tracing.OTLPEndpoint != "" {
		tp, err := tracing.NewTracerProvider(cfg, appLogger, serviceName)
		if err != nil {
			log.Fatalf("FATAL: cannot init tracer: %v", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				appLogger.Error("failed to shut down tracer provider", err)
			}
		}()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	mongoClient, err := persistence.NewMongoClient(ctx, cfg, appLogger)
	cancel()
	if err != nil {
		log.Fatalf("FATAL: cannot connect MongoDB: %v", err)
	}
	defer mongoClient.Close(context.Background())

	var kafkaClient *event.KafkaProducerClient
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaClient, err = event.NewKafkaProducerClient(cfg)
		if err != nil {
			log.Fatalf("FATAL: cannot init Kafka: %v", err)
		}
		defer kafkaClient.Close()
	} else {
		appLogger.Warn("Kafka brokers not configured, domain events disabled")
	}

	// Repositories
	userRepo := persistence.NewMongoUserRepo(mongoClient, appLogger)
	profileRepo := persistence.NewMongoProfileRepo(mongoClient, appLogger)
	postRepo := persistence.NewMongoPostRepo(mongoClient, appLogger)

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	repoLister := githubAdapter.NewClient(cfg, appLogger)

	// Use Cases
	registerUseCase := authUC.NewRegisterUseCase(userRepo, jwtSvc, appLogger)
	loginUseCase := authUC.NewLoginUseCase(userRepo, jwtSvc, appLogger)
	currentUserUseCase := authUC.NewCurrentUserUseCase(userRepo)
	profileUseCase := profileUC.NewProfileUseCase(profileRepo, postRepo, userRepo, kafkaClient, appLogger)
	createPostUseCase := postUC.NewCreatePostUseCase(postRepo, userRepo, kafkaClient, appLogger)
	listPostsUseCase := postUC.NewListPostsUseCase(postRepo)
	getPostUseCase := postUC.NewGetPostUseCase(postRepo)
	deletePostUseCase := postUC.NewDeletePostUseCase(postRepo)
	likePostUseCase := postUC.NewLikePostUseCase(postRepo)
	commentPostUseCase := postUC.NewCommentPostUseCase(postRepo, userRepo)
	lookupReposUseCase := githubUC.NewLookupReposUseCase(repoLister)

	// HTTP Handlers
	authHandler := httpAdapter.NewAuthHandler(registerUseCase, loginUseCase, currentUserUseCase)
	profileHandler := httpAdapter.NewProfileHandler(profileUseCase)
	postHandler := httpAdapter.NewPostHandler(
		createPostUseCase,
		listPostsUseCase,
		getPostUseCase,
		deletePostUseCase,
		likePostUseCase,
		commentPostUseCase,
	)
	githubHandler := httpAdapter.NewGithubHandler(lookupReposUseCase)

	// Middleware
	authMiddleware := httpAdapter.AuthMiddleware(jwtSvc)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(httpAdapter.RequestIDMiddleware(appLogger))
	router.Use(httpAdapter.ErrorMiddleware(appLogger))

	corsCfg := cors.DefaultConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.CORS.AllowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "x-auth-token")
	router.Use(cors.New(corsCfg))

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })

		api.POST("/users", authHandler.Register)

		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("", authHandler.Login)
			authRoutes.GET("", authMiddleware, authHandler.CurrentUser)
		}

		profileRoutes := api.Group("/profile")
		{
			profileRoutes.GET("", profileHandler.List)
			profileRoutes.GET("/user/:userId", profileHandler.ByUser)
			profileRoutes.GET("/github/:username", githubHandler.Repos)

			profileRoutes.GET("/me", authMiddleware, profileHandler.Me)
			profileRoutes.POST("", authMiddleware, profileHandler.Upsert)
			profileRoutes.DELETE("", authMiddleware, profileHandler.DeleteAccount)
			profileRoutes.PUT("/experience", authMiddleware, profileHandler.AddExperience)
			profileRoutes.DELETE("/experience/:id", authMiddleware, profileHandler.RemoveExperience)
			profileRoutes.PUT("/education", authMiddleware, profileHandler.AddEducation)
			profileRoutes.DELETE("/education/:id", authMiddleware, profileHandler.RemoveEducation)
		}

		postRoutes := api.Group("/posts")
		postRoutes.Use(authMiddleware)
		{
			postRoutes.POST("", postHandler.Create)
			postRoutes.GET("", postHandler.List)
			postRoutes.GET("/:id", postHandler.Get)
			postRoutes.DELETE("/:id", postHandler.Delete)
			postRoutes.PUT("/like/:id", postHandler.Like)
			postRoutes.PUT("/unlike/:id", postHandler.Unlike)
			postRoutes.POST("/comment/:id", postHandler.AddComment)
			postRoutes.DELETE("/comment/:id/:commentId", postHandler.RemoveComment)
		}
	}

	appLogger.Info("Server running on port " + cfg.App.Port)
	if err := router.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("Cannot run server: %v", err)
	}
}
