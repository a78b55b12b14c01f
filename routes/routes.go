package routes

import (
	"net/http"
	"time"

	"flock/handlers"
	"flock/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers login, OTP and login-history endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/login", hb.LoginHandler)
	r.POST("/google-login", hb.GoogleLoginHandler)
	r.POST("/send-otp", hb.SendOTPHandler)
	r.POST("/verify-otp", hb.VerifyOTPHandler)
	r.POST("/login-history", hb.RecordLoginHistoryHandler)
	r.GET("/login-history", hb.GetLoginHistoryHandler)
}

// RegisterUserRoutes registers registration and profile endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/register", hb.RegisterUserHandler)
	r.GET("/user", hb.GetUsersHandler)
	r.GET("/loggedInUser", hb.GetLoggedInUserHandler)
	r.PATCH("/userUpdates/:email", hb.UpdateUserProfileHandler)
}

// RegisterPostRoutes registers the timeline endpoints.
func RegisterPostRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/post", hb.GetPostsHandler)
	r.GET("/userPost", hb.GetUserPostsHandler)
	r.POST("/post", hb.CreatePostHandler)
}

// RegisterBillingRoutes registers the checkout and webhook endpoints.
func RegisterBillingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/create-checkout-session", hb.CreateCheckoutSessionHandler)
	r.POST("/webhook", hb.WebhookHandler)
}

// RegisterHealthRoute registers the greeting and health-check endpoints.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Hello from Flock!")
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "services": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAuthRoutes(r, hb)
	RegisterUserRoutes(r, hb)
	RegisterPostRoutes(r, hb)
	RegisterBillingRoutes(r, hb)
	RegisterHealthRoute(r)
	r.GET("/check-access", hb.CheckAccessHandler)
}
