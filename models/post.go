package models

import "time"

// Post is a single published post on the timeline.
type Post struct {
	ID           string    `bson:"id" json:"id"`
	Email        string    `bson:"email" json:"email"`
	Name         string    `bson:"name,omitempty" json:"name,omitempty"`
	Username     string    `bson:"username,omitempty" json:"username,omitempty"`
	ProfileImage string    `bson:"profileImage,omitempty" json:"profileImage,omitempty"`
	Content      string    `bson:"post" json:"post"`
	Photo        string    `bson:"photo,omitempty" json:"photo,omitempty"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}
