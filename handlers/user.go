package handlers

import (
	"net/http"

	userRepo "flock/database/repository/user"
	"flock/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserHandler serves registration and profile endpoints.
type UserHandler struct {
	repo userRepo.UserRepository
}

// NewUserHandler creates a UserHandler backed by the given repository.
func NewUserHandler(repo userRepo.UserRepository) *UserHandler {
	return &UserHandler{repo: repo}
}

// RegisterUserHandler handles POST /register. New accounts start with an
// empty login history.
func (h *UserHandler) RegisterUserHandler(c *gin.Context) {
	var req models.UserRegistration
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request: " + err.Error()})
		return
	}

	existing, err := h.repo.GetByEmail(req.Email)
	if err != nil {
		getLogger(c).Error("Registration: failed to check for existing user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Registration failed, please try again"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "A user with this email already exists"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		getLogger(c).Error("Registration: failed to hash password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Registration failed, please try again"})
		return
	}

	user := models.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		LoginHistory: []models.LoginEvent{},
	}
	if err := h.repo.Create(&user); err != nil {
		getLogger(c).Error("Registration: failed to create user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Registration failed, please try again"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "id": user.ID})
}

// GetUsersHandler handles GET /user.
func (h *UserHandler) GetUsersHandler(c *gin.Context) {
	users, err := h.repo.GetAll()
	if err != nil {
		getLogger(c).Error("Failed to fetch users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}
	if users == nil {
		users = []models.User{}
	}
	c.JSON(http.StatusOK, users)
}

// GetLoggedInUserHandler handles GET /loggedInUser?email=... The response is
// a list: empty when no account matches.
func (h *UserHandler) GetLoggedInUserHandler(c *gin.Context) {
	email := c.Query("email")

	user, err := h.repo.GetByEmail(email)
	if err != nil {
		getLogger(c).Error("Failed to fetch user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		return
	}

	result := []models.User{}
	if user != nil {
		result = append(result, *user)
	}
	c.JSON(http.StatusOK, result)
}

// UpdateUserProfileHandler handles PATCH /userUpdates/:email as a partial
// $set-style update, creating the record if it is absent.
func (h *UserHandler) UpdateUserProfileHandler(c *gin.Context) {
	email := c.Param("email")

	var profile map[string]interface{}
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	// A JSON null body binds without error but carries no fields.
	if profile == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: empty profile update"})
		return
	}

	// Identity and credential fields are not patchable through this endpoint.
	delete(profile, "email")
	delete(profile, "passwordHash")
	delete(profile, "loginHistory")

	if err := h.repo.PatchProfile(email, bson.M(profile)); err != nil {
		getLogger(c).Error("Failed to update profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
