package postRepo

import "flock/models"

// PostRepository defines methods for post data access.
type PostRepository interface {
	// Create inserts a new post.
	Create(post *models.Post) error
	// GetAll retrieves all posts, newest first.
	GetAll() ([]models.Post, error)
	// GetByEmail retrieves all posts by the given author, newest first.
	GetByEmail(email string) ([]models.Post, error)
}
