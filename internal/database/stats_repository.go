// internal/database/stats_repository.go
package database

import (
	"context"

	"feedback-hub/internal/models"
	"feedback-hub/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// The aggregate is a singleton; a fixed _id keeps every save targeting the
// same row.
const reviewStatsID = "review_stats"

// ReviewStatsDocument represents the MongoDB schema for the aggregate row.
type ReviewStatsDocument struct {
	ID              string  `bson:"_id"`
	AverageRating   float64 `bson:"averagerating"`
	TotalReviews    int     `bson:"totalreviews"`
	PositivityLevel float64 `bson:"positivitylevel"`
}

// GetReviewStats retrieves the singleton aggregate row. A missing row is
// reported as NOT_FOUND; the caller decides whether that is lazy-creation
// territory (first review) or a consistency fault (modify/delete).
func (m *MongoDB) GetReviewStats(ctx context.Context) (*models.ReviewStats, error) {
	var doc ReviewStatsDocument

	err := m.ReviewStats.FindOne(ctx, bson.M{"_id": reviewStatsID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrNotFound, "review stats not initialized", err)
	}
	if err != nil {
		return nil, err
	}

	return &models.ReviewStats{
		AverageRating:   doc.AverageRating,
		TotalReviews:    doc.TotalReviews,
		PositivityLevel: doc.PositivityLevel,
	}, nil
}

// SaveReviewStats creates or updates the singleton aggregate row.
func (m *MongoDB) SaveReviewStats(ctx context.Context, stats *models.ReviewStats) error {
	doc := &ReviewStatsDocument{
		ID:              reviewStatsID,
		AverageRating:   stats.AverageRating,
		TotalReviews:    stats.TotalReviews,
		PositivityLevel: stats.PositivityLevel,
	}

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": reviewStatsID}
	update := bson.M{"$set": doc}

	_, err := m.ReviewStats.UpdateOne(ctx, filter, update, opts)
	return err
}
