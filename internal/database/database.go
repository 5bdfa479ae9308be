// internal/database/database.go
package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"feedback-hub/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DBAdapter defines the common interface for database operations. Actors and
// the mirror synchronizer depend on this interface rather than on MongoDB
// directly; tests back it with the in-memory adapter.
type DBAdapter interface {
	// Connection
	Close(ctx context.Context) error

	// Review methods
	SaveReview(ctx context.Context, review *models.Review) error
	GetReview(ctx context.Context, reviewID string) (*models.Review, error)
	DeleteReview(ctx context.Context, reviewID string) error
	GetUserReviews(ctx context.Context, username string) ([]*models.Review, error)
	GetReviews(ctx context.Context, oldestFirst bool, limit, offset int) ([]*models.Review, error)
	GetTopRatedReviews(ctx context.Context, limit, offset int) ([]*models.Review, error)

	// TopReview mirror methods
	UpsertTopReview(ctx context.Context, top *models.TopReview) error
	UpdateTopReviewSnapshots(ctx context.Context, reviewID, comment string, rating int) error
	DeleteTopReviews(ctx context.Context, reviewID string) error
	GetTopReviews(ctx context.Context, limit, offset int) ([]*models.TopReview, error)

	// Review stats singleton
	GetReviewStats(ctx context.Context) (*models.ReviewStats, error)
	SaveReviewStats(ctx context.Context, stats *models.ReviewStats) error

	// Suggestion methods
	SaveSuggestion(ctx context.Context, suggestion *models.Suggestion) error
	GetSuggestion(ctx context.Context, suggestionID string) (*models.Suggestion, error)
	DeleteSuggestion(ctx context.Context, suggestionID string) error
	GetUserSuggestions(ctx context.Context, username string) ([]*models.Suggestion, error)
	GetSuggestionsByStatus(ctx context.Context, statuses []models.SuggestionStatus, limit, offset int) ([]*models.Suggestion, error)

	// Suggestion mirror methods
	UpsertLiveSuggestion(ctx context.Context, live *models.LiveSuggestion) error
	DeleteLiveSuggestions(ctx context.Context, suggestionID string) error
	GetLiveSuggestions(ctx context.Context, limit, offset int) ([]*models.LiveSuggestion, error)
	UpsertCompletedSuggestion(ctx context.Context, completed *models.CompletedSuggestion) error
	DeleteCompletedSuggestions(ctx context.Context, suggestionID string) error
	GetCompletedSuggestions(ctx context.Context, limit, offset int) ([]*models.CompletedSuggestion, error)

	// Admin methods
	SaveAdmin(ctx context.Context, admin *models.Admin) error
	GetAdmin(ctx context.Context, username string) (*models.Admin, error)
	GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error)
	GetAdminByPhone(ctx context.Context, phone string) (*models.Admin, error)
	DeleteAdmin(ctx context.Context, username string) error
	CountAdminsByRole(ctx context.Context, role models.AdminRole) (int, error)
}

// MongoDB holds the client and the collections the adapter operates on.
type MongoDB struct {
	Client               *mongo.Client
	Reviews              *mongo.Collection
	TopReviews           *mongo.Collection
	Suggestions          *mongo.Collection
	LiveSuggestions      *mongo.Collection
	CompletedSuggestions *mongo.Collection
	ReviewStats          *mongo.Collection
	Admins               *mongo.Collection
}

func NewMongoDB(uri, dbName string) (*MongoDB, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	// Ping the database to verify connection
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	log.Println("Successfully connected to MongoDB!")

	db := client.Database(dbName)
	return &MongoDB{
		Client:               client,
		Reviews:              db.Collection("reviews"),
		TopReviews:           db.Collection("top_reviews"),
		Suggestions:          db.Collection("suggestions"),
		LiveSuggestions:      db.Collection("live_suggestions"),
		CompletedSuggestions: db.Collection("completed_suggestions"),
		ReviewStats:          db.Collection("review_stats"),
		Admins:               db.Collection("admins"),
	}, nil
}

func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
