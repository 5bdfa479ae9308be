// internal/database/review_repository.go
package database

import (
	"context"
	"time"

	"feedback-hub/internal/models"
	"feedback-hub/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AttachedFileDocument represents the MongoDB schema for file metadata
// embedded in reviews and suggestions.
type AttachedFileDocument struct {
	FileName      string `bson:"filename"`
	FileData      []byte `bson:"filedata"`
	FileSize      int64  `bson:"filesize"`
	FileType      string `bson:"filetype"`
	FileExtension string `bson:"fileextension"`
}

// ReviewDocument represents the MongoDB schema for a review.
type ReviewDocument struct {
	ID              string                 `bson:"_id"`
	Name            string                 `bson:"name"`
	Username        string                 `bson:"username"`
	Comment         string                 `bson:"comment"`
	RatingStar      int                    `bson:"ratingstar"`
	Files           []AttachedFileDocument `bson:"files,omitempty"`
	ReviewType      string                 `bson:"reviewtype"`
	PositivityLevel float64                `bson:"positivitylevel"`
	CreatedAt       time.Time              `bson:"createdat"`
	LastModified    time.Time              `bson:"lastmodified"`
}

// TopReviewDocument represents the MongoDB schema for a top-review snapshot.
type TopReviewDocument struct {
	ID         string    `bson:"_id"` // reviewID, one mirror row per review
	CreatedAt  time.Time `bson:"createdat"`
	RatingStar int       `bson:"ratingstar"`
	Name       string    `bson:"name"`
	Comment    string    `bson:"comment"`
}

func filesToDocuments(files []models.AttachedFile) []AttachedFileDocument {
	if files == nil {
		return nil
	}
	docs := make([]AttachedFileDocument, len(files))
	for i, f := range files {
		docs[i] = AttachedFileDocument(f)
	}
	return docs
}

func documentsToFiles(docs []AttachedFileDocument) []models.AttachedFile {
	if docs == nil {
		return nil
	}
	files := make([]models.AttachedFile, len(docs))
	for i, d := range docs {
		files[i] = models.AttachedFile(d)
	}
	return files
}

func reviewToDocument(review *models.Review) *ReviewDocument {
	return &ReviewDocument{
		ID:              review.ReviewID,
		Name:            review.Name,
		Username:        review.Username,
		Comment:         review.Comment,
		RatingStar:      review.RatingStar,
		Files:           filesToDocuments(review.Files),
		ReviewType:      review.ReviewType,
		PositivityLevel: review.PositivityLevel,
		CreatedAt:       review.CreatedAt,
		LastModified:    review.LastModified,
	}
}

func documentToReview(doc *ReviewDocument) *models.Review {
	return &models.Review{
		ReviewID:        doc.ID,
		Name:            doc.Name,
		Username:        doc.Username,
		Comment:         doc.Comment,
		RatingStar:      doc.RatingStar,
		Files:           documentsToFiles(doc.Files),
		ReviewType:      doc.ReviewType,
		PositivityLevel: doc.PositivityLevel,
		CreatedAt:       doc.CreatedAt,
		LastModified:    doc.LastModified,
	}
}

// SaveReview creates or updates a review in MongoDB.
func (m *MongoDB) SaveReview(ctx context.Context, review *models.Review) error {
	doc := reviewToDocument(review)

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": review.ReviewID}
	update := bson.M{"$set": doc}

	_, err := m.Reviews.UpdateOne(ctx, filter, update, opts)
	return err
}

// GetReview retrieves a review by its ID.
func (m *MongoDB) GetReview(ctx context.Context, reviewID string) (*models.Review, error) {
	var doc ReviewDocument

	err := m.Reviews.FindOne(ctx, bson.M{"_id": reviewID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewNotFoundError("Review", reviewID)
	}
	if err != nil {
		return nil, err
	}

	return documentToReview(&doc), nil
}

// DeleteReview removes a review row.
func (m *MongoDB) DeleteReview(ctx context.Context, reviewID string) error {
	result, err := m.Reviews.DeleteOne(ctx, bson.M{"_id": reviewID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return utils.NewNotFoundError("Review", reviewID)
	}
	return nil
}

// GetUserReviews retrieves all reviews owned by a username, newest first.
func (m *MongoDB) GetUserReviews(ctx context.Context, username string) ([]*models.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdat", Value: -1}})
	cursor, err := m.Reviews.Find(ctx, bson.M{"username": username}, opts)
	if err != nil {
		return nil, err
	}
	return decodeReviews(ctx, cursor)
}

// GetReviews retrieves a page of reviews ordered by creation time.
func (m *MongoDB) GetReviews(ctx context.Context, oldestFirst bool, limit, offset int) ([]*models.Review, error) {
	order := -1
	if oldestFirst {
		order = 1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdat", Value: order}}).
		SetSkip(int64(offset))
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}

	cursor, err := m.Reviews.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	return decodeReviews(ctx, cursor)
}

// GetTopRatedReviews retrieves a page of reviews ordered by rating, ties
// broken by recency.
func (m *MongoDB) GetTopRatedReviews(ctx context.Context, limit, offset int) ([]*models.Review, error) {
	opts := options.Find().
		SetSort(bson.D{
			{Key: "ratingstar", Value: -1},
			{Key: "createdat", Value: -1},
		}).
		SetSkip(int64(offset))
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}

	cursor, err := m.Reviews.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	return decodeReviews(ctx, cursor)
}

func decodeReviews(ctx context.Context, cursor *mongo.Cursor) ([]*models.Review, error) {
	defer cursor.Close(ctx)

	var reviews []*models.Review
	for cursor.Next(ctx) {
		var doc ReviewDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		reviews = append(reviews, documentToReview(&doc))
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}

// UpsertTopReview creates or refreshes the mirror row for a promoted review.
// Keyed by reviewID, so re-applying the same promotion is a no-op.
func (m *MongoDB) UpsertTopReview(ctx context.Context, top *models.TopReview) error {
	doc := &TopReviewDocument{
		ID:         top.ReviewID,
		CreatedAt:  top.CreatedAt,
		RatingStar: top.RatingStar,
		Name:       top.Name,
		Comment:    top.Comment,
	}

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": top.ReviewID}
	update := bson.M{"$set": doc}

	_, err := m.TopReviews.UpdateOne(ctx, filter, update, opts)
	return err
}

// UpdateTopReviewSnapshots refreshes the comment/rating snapshot for any
// mirror rows matching reviewID. Zero matched rows is not an error; most
// reviews are not top reviews.
func (m *MongoDB) UpdateTopReviewSnapshots(ctx context.Context, reviewID, comment string, rating int) error {
	filter := bson.M{"_id": reviewID}
	update := bson.M{
		"$set": bson.M{
			"comment":    comment,
			"ratingstar": rating,
		},
	}

	_, err := m.TopReviews.UpdateMany(ctx, filter, update)
	return err
}

// DeleteTopReviews removes any mirror rows for reviewID. Zero deleted rows is
// not an error.
func (m *MongoDB) DeleteTopReviews(ctx context.Context, reviewID string) error {
	_, err := m.TopReviews.DeleteMany(ctx, bson.M{"_id": reviewID})
	return err
}

// GetTopReviews retrieves a page of top-review snapshots, newest first.
func (m *MongoDB) GetTopReviews(ctx context.Context, limit, offset int) ([]*models.TopReview, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdat", Value: -1}}).
		SetSkip(int64(offset))
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}

	cursor, err := m.TopReviews.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tops []*models.TopReview
	for cursor.Next(ctx) {
		var doc TopReviewDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		tops = append(tops, &models.TopReview{
			ReviewID:   doc.ID,
			CreatedAt:  doc.CreatedAt,
			RatingStar: doc.RatingStar,
			Name:       doc.Name,
			Comment:    doc.Comment,
		})
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return tops, nil
}
