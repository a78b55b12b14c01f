// models/user.go
package models

import "time"

// LoginEvent is a single entry in a user's login history. Entries are
// append-only: the most recent one is the trust baseline for the next
// login decision.
type LoginEvent struct {
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	Browser   string    `bson:"browser" json:"browser"`
	OS        string    `bson:"os" json:"os"`
	Platform  string    `bson:"platform" json:"platform"`
	IP        string    `bson:"ip" json:"ip"`
}

// User represents a platform user.
type User struct {
	ID           string       `bson:"id" json:"id"`
	Name         string       `bson:"name,omitempty" json:"name,omitempty"`
	Username     string       `bson:"username,omitempty" json:"username,omitempty"`
	Email        string       `bson:"email" json:"email"`
	PasswordHash string       `bson:"passwordHash,omitempty" json:"-"`
	ProfileImage string       `bson:"profileImage,omitempty" json:"profileImage,omitempty"`
	CoverImage   string       `bson:"coverImage,omitempty" json:"coverImage,omitempty"`
	Bio          string       `bson:"bio,omitempty" json:"bio,omitempty"`
	Location     string       `bson:"location,omitempty" json:"location,omitempty"`
	Website      string       `bson:"website,omitempty" json:"website,omitempty"`
	Subscription string       `bson:"subscription,omitempty" json:"subscription,omitempty"`
	LoginHistory []LoginEvent `bson:"loginHistory" json:"loginHistory"`
	CreatedAt    time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `bson:"updated_at" json:"updated_at"`
}

// UserRegistration is the payload accepted by the register endpoint.
type UserRegistration struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
