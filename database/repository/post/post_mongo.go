package postRepo

import (
	"context"
	"fmt"
	"time"

	"flock/database"
	"flock/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPostRepo implements PostRepository using MongoDB.
type MongoPostRepo struct {
	coll *mongo.Collection
}

// NewMongoPostRepo creates a new instance of PostRepository using MongoDB.
func NewMongoPostRepo() PostRepository {
	coll := database.MongoClient.Database("flock").Collection("posts")
	repo := &MongoPostRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoPostRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new post document.
func (r *MongoPostRepo) Create(post *models.Post) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	post.CreatedAt = time.Now()

	if _, err := r.coll.InsertOne(ctx, post); err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// find runs a query sorted newest-first and decodes the results.
func (r *MongoPostRepo) find(filter bson.M) ([]models.Post, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve posts: %w", err)
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	for cursor.Next(ctx) {
		var p models.Post
		if err := cursor.Decode(&p); err != nil {
			return nil, fmt.Errorf("failed to decode post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, nil
}

// GetAll retrieves all posts, newest first.
func (r *MongoPostRepo) GetAll() ([]models.Post, error) {
	return r.find(bson.M{})
}

// GetByEmail retrieves all posts by the given author, newest first.
func (r *MongoPostRepo) GetByEmail(email string) ([]models.Post, error) {
	return r.find(bson.M{"email": email})
}
