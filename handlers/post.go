package handlers

import (
	"net/http"

	postRepo "flock/database/repository/post"
	"flock/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PostHandler serves the timeline endpoints.
type PostHandler struct {
	repo postRepo.PostRepository
}

// NewPostHandler creates a PostHandler backed by the given repository.
func NewPostHandler(repo postRepo.PostRepository) *PostHandler {
	return &PostHandler{repo: repo}
}

// GetPostsHandler handles GET /post: all posts, newest first.
func (h *PostHandler) GetPostsHandler(c *gin.Context) {
	posts, err := h.repo.GetAll()
	if err != nil {
		getLogger(c).Error("Failed to fetch posts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve posts"})
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	c.JSON(http.StatusOK, posts)
}

// GetUserPostsHandler handles GET /userPost?email=...: one author's posts, newest first.
func (h *PostHandler) GetUserPostsHandler(c *gin.Context) {
	email := c.Query("email")

	posts, err := h.repo.GetByEmail(email)
	if err != nil {
		getLogger(c).Error("Failed to fetch user posts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve posts"})
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	c.JSON(http.StatusOK, posts)
}

// CreatePostHandler handles POST /post.
func (h *PostHandler) CreatePostHandler(c *gin.Context) {
	var post models.Post
	if err := c.ShouldBindJSON(&post); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	post.ID = uuid.New().String()
	if err := h.repo.Create(&post); err != nil {
		getLogger(c).Error("Failed to create post", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	c.JSON(http.StatusOK, post)
}
