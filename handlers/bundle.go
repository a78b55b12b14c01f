package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle aggregates every route handler so wiring happens once in main.
type HandlerBundle struct {
	// Auth and login-history endpoints.
	LoginHandler              gin.HandlerFunc
	GoogleLoginHandler        gin.HandlerFunc
	SendOTPHandler            gin.HandlerFunc
	VerifyOTPHandler          gin.HandlerFunc
	RecordLoginHistoryHandler gin.HandlerFunc
	GetLoginHistoryHandler    gin.HandlerFunc

	// User endpoints.
	RegisterUserHandler      gin.HandlerFunc
	GetUsersHandler          gin.HandlerFunc
	GetLoggedInUserHandler   gin.HandlerFunc
	UpdateUserProfileHandler gin.HandlerFunc

	// Post endpoints.
	GetPostsHandler     gin.HandlerFunc
	GetUserPostsHandler gin.HandlerFunc
	CreatePostHandler   gin.HandlerFunc

	// Billing endpoints.
	CreateCheckoutSessionHandler gin.HandlerFunc
	WebhookHandler               gin.HandlerFunc

	// Access gating.
	CheckAccessHandler gin.HandlerFunc
}
