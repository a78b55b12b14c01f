// File: flock/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flock/config"
	"flock/database"
	postRepoPkg "flock/database/repository/post"
	userRepoPkg "flock/database/repository/user"
	"flock/handlers"
	"flock/middleware"
	"flock/routes"
	"flock/services/auth"
	"flock/services/billing"
	"flock/services/notification"
	"flock/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()
	utils.StartHealthMonitor([]*redis.Client{utils.GetCacheClient(), utils.GetOTPCacheClient()}, database.MongoClient)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	stripe.Key = config.AppConfig.StripeKey

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	postRepo := postRepoPkg.NewMongoPostRepo()

	// services.
	notifier := notification.NewEmailNotifier()
	authService := &auth.DefaultAuthService{
		Repo:       userRepo,
		Challenges: auth.NewRedisChallengeStore(utils.GetOTPCacheClient()),
		Notifier:   notifier,
	}
	billingService := &billing.StripeBillingService{
		Repo:          userRepo,
		Notifier:      notifier,
		WebhookSecret: config.AppConfig.StripeWebhookSecret,
	}

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userRepo)
	postHandler := handlers.NewPostHandler(postRepo)
	billingHandler := handlers.NewBillingHandler(billingService)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		// Auth endpoints.
		LoginHandler:              authHandler.LoginHandler,
		GoogleLoginHandler:        authHandler.GoogleLoginHandler,
		SendOTPHandler:            authHandler.SendOTPHandler,
		VerifyOTPHandler:          authHandler.VerifyOTPHandler,
		RecordLoginHistoryHandler: authHandler.RecordLoginHistoryHandler,
		GetLoginHistoryHandler:    authHandler.GetLoginHistoryHandler,

		// User endpoints.
		RegisterUserHandler:      userHandler.RegisterUserHandler,
		GetUsersHandler:          userHandler.GetUsersHandler,
		GetLoggedInUserHandler:   userHandler.GetLoggedInUserHandler,
		UpdateUserProfileHandler: userHandler.UpdateUserProfileHandler,

		// Post endpoints.
		GetPostsHandler:     postHandler.GetPostsHandler,
		GetUserPostsHandler: postHandler.GetUserPostsHandler,
		CreatePostHandler:   postHandler.CreatePostHandler,

		// Billing endpoints.
		CreateCheckoutSessionHandler: billingHandler.CreateCheckoutSessionHandler,
		WebhookHandler:               billingHandler.WebhookHandler,

		// Access gating.
		CheckAccessHandler: handlers.CheckAccessHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "5000"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
