package userRepo

import (
	"errors"

	"flock/models"

	"go.mongodb.org/mongo-driver/bson"
)

// ErrNotFound reports a write that targeted an account with no stored record.
var ErrNotFound = errors.New("user not found")

// UserRepository defines methods for user data access.
type UserRepository interface {
	// GetByEmail retrieves a user by its email address, or nil if none exists.
	GetByEmail(email string) (*models.User, error)
	// GetByEmailWithProjection retrieves a user by its email with a projection.
	GetByEmailWithProjection(email string, projection bson.M) (*models.User, error)
	// GetAll retrieves all users.
	GetAll() ([]models.User, error)
	// Create inserts a new user record.
	Create(user *models.User) error
	// AppendLoginEvent atomically appends a login event to the user's history.
	AppendLoginEvent(email string, event models.LoginEvent) error
	// PatchProfile applies a partial profile update, creating the record if absent.
	PatchProfile(email string, fields bson.M) error
	// SetSubscription records the user's subscription ID, creating the record if absent.
	SetSubscription(email, subscriptionID string) error
}
