// internal/database/suggestion_repository.go
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

// SuggestionDocument represents the MongoDB schema for a suggestion.
type SuggestionDocument struct {
	ID                    string                 `bson:"_id"`
	Username              string                 `bson:"username"`
	Name                  string                 `bson:"name"`
	SuggestionCategory    string                 `bson:"suggestioncategory"`
	SuggestionDescription string                 `bson:"suggestiondescription"`
	Files                 []AttachedFileDocument `bson:"files,omitempty"`
	SuggestionStatus      string                 `bson:"suggestionstatus"`
	Accepted              bool                   `bson:"accepted"`
	AcceptedAt            *time.Time             `bson:"acceptedat,omitempty"`
	CreatedAt             time.Time              `bson:"createdat"`
	LastModified          time.Time              `bson:"lastmodified"`
}

// LiveSuggestionDocument represents the MongoDB schema for a live mirror row.
type LiveSuggestionDocument struct {
	ID         string     `bson:"_id"` // suggestionId
	CreatedAt  time.Time  `bson:"createdat"`
	AcceptedAt *time.Time `bson:"acceptedat,omitempty"`
}

// CompletedSuggestionDocument represents the MongoDB schema for a completed
// mirror row.
type CompletedSuggestionDocument struct {
	ID             string     `bson:"_id"` // suggestionId
	CreatedAt      time.Time  `bson:"createdat"`
	AcceptedAt     *time.Time `bson:"acceptedat,omitempty"`
	ResolutionDate time.Time  `bson:"resolutiondate"`
}

func suggestionToDocument(s *models.Suggestion) *SuggestionDocument {
	return &SuggestionDocument{
		ID:                    s.SuggestionID,
		Username:              s.Username,
		Name:                  s.Name,
		SuggestionCategory:    string(s.SuggestionCategory),
		SuggestionDescription: s.SuggestionDescription,
		Files:                 filesToDocuments(s.Files),
		SuggestionStatus:      string(s.SuggestionStatus),
		Accepted:              s.Accepted,
		AcceptedAt:            s.AcceptedAt,
		CreatedAt:             s.CreatedAt,
		LastModified:          s.LastModified,
	}
}

func documentToSuggestion(doc *SuggestionDocument) *models.Suggestion {
	return &models.Suggestion{
		SuggestionID:          doc.ID,
		Username:              doc.Username,
		Name:                  doc.Name,
		SuggestionCategory:    models.ParseSuggestionCategory(doc.SuggestionCategory),
		SuggestionDescription: doc.SuggestionDescription,
		Files:                 documentsToFiles(doc.Files),
		SuggestionStatus:      models.ParseSuggestionStatus(doc.SuggestionStatus),
		Accepted:              doc.Accepted,
		AcceptedAt:            doc.AcceptedAt,
		CreatedAt:             doc.CreatedAt,
		LastModified:          doc.LastModified,
	}
}

// SaveSuggestion creates or updates a suggestion in MongoDB.
func (m *MongoDB) SaveSuggestion(ctx context.Context, suggestion *models.Suggestion) error {
	doc := suggestionToDocument(suggestion)

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": suggestion.SuggestionID}
	update := bson.M{"$set": doc}

	_, err := m.Suggestions.UpdateOne(ctx, filter, update, opts)
	return err
}

// GetSuggestion retrieves a suggestion by its ID.
func (m *MongoDB) GetSuggestion(ctx context.Context, suggestionID string) (*models.Suggestion, error) {
	var doc SuggestionDocument

	err := m.Suggestions.FindOne(ctx, bson.M{"_id": suggestionID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewNotFoundError("Suggestion", suggestionID)
	}
	if err != nil {
		return nil, err
	}

	return documentToSuggestion(&doc), nil
}

// DeleteSuggestion removes a suggestion row.
func (m *MongoDB) DeleteSuggestion(ctx context.Context, suggestionID string) error {
	result, err := m.Suggestions.DeleteOne(ctx, bson.M{"_id": suggestionID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return utils.NewNotFoundError("Suggestion", suggestionID)
	}
	return nil
}

// GetUserSuggestions retrieves all suggestions owned by a username, newest
// first.
func (m *MongoDB) GetUserSuggestions(ctx context.Context, username string) ([]*models.Suggestion, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdat", Value: -1}})
	cursor, err := m.Suggestions.Find(ctx, bson.M{"username": username}, opts)
	if err != nil {
		return nil, err
	}
	return decodeSuggestions(ctx, cursor)
}

// GetSuggestionsByStatus retrieves a page of suggestions whose status is in
// the given set, newest first. An empty set means all statuses.
func (m *MongoDB) GetSuggestionsByStatus(ctx context.Context, statuses []models.SuggestionStatus, limit, offset int) ([]*models.Suggestion, error) {
	filter := bson.M{}
	if len(statuses) > 0 {
		values := make([]string, len(statuses))
		for i, s := range statuses {
			values[i] = string(s)
		}
		filter["suggestionstatus"] = bson.M{"$in": values}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdat", Value: -1}}).
		SetSkip(int64(offset))
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}

	cursor, err := m.Suggestions.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	return decodeSuggestions(ctx, cursor)
}

func decodeSuggestions(ctx context.Context, cursor *mongo.Cursor) ([]*models.Suggestion, error) {
	defer cursor.Close(ctx)

	var suggestions []*models.Suggestion
	for cursor.Next(ctx) {
		var doc SuggestionDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		suggestions = append(suggestions, documentToSuggestion(&doc))
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return suggestions, nil
}

// UpsertLiveSuggestion creates or refreshes the live mirror row for a
// suggestion. Keyed by suggestionId, so retries are idempotent.
func (m *MongoDB) UpsertLiveSuggestion(ctx context.Context, live *models.LiveSuggestion) error {
	doc := &LiveSuggestionDocument{
		ID:         live.SuggestionID,
		CreatedAt:  live.CreatedAt,
		AcceptedAt: live.AcceptedAt,
	}

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": live.SuggestionID}
	update := bson.M{"$set": doc}

	_, err := m.LiveSuggestions.UpdateOne(ctx, filter, update, opts)
	return err
}

// DeleteLiveSuggestions removes any live mirror rows for suggestionID. Zero
// deleted rows is not an error.
func (m *MongoDB) DeleteLiveSuggestions(ctx context.Context, suggestionID string) error {
	_, err := m.LiveSuggestions.DeleteMany(ctx, bson.M{"_id": suggestionID})
	return err
}

// GetLiveSuggestions retrieves a page of live mirror rows, newest first.
func (m *MongoDB) GetLiveSuggestions(ctx context.Context, limit, offset int) ([]*models.LiveSuggestion, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdat", Value: -1}}).
		SetSkip(int64(offset))
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}

	cursor, err := m.LiveSuggestions.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var lives []*models.LiveSuggestion
	for cursor.Next(ctx) {
		var doc LiveSuggestionDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		lives = append(lives, &models.LiveSuggestion{
			SuggestionID: doc.ID,
			CreatedAt:    doc.CreatedAt,
			AcceptedAt:   doc.AcceptedAt,
		})
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return lives, nil
}

// UpsertCompletedSuggestion creates or refreshes the completed mirror row.
// ResolutionDate is written only on first insert; later upserts keep the
// original resolution timestamp.
func (m *MongoDB) UpsertCompletedSuggestion(ctx context.Context, completed *models.CompletedSuggestion) error {
	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": completed.SuggestionID}
	update := bson.M{
		"$set": bson.M{
			"createdat":  completed.CreatedAt,
			"acceptedat": completed.AcceptedAt,
		},
		"$setOnInsert": bson.M{
			"resolutiondate": completed.ResolutionDate,
		},
	}

	_, err := m.CompletedSuggestions.UpdateOne(ctx, filter, update, opts)
	return err
}

// DeleteCompletedSuggestions removes any completed mirror rows for
// suggestionID. Zero deleted rows is not an error.
func (m *MongoDB) DeleteCompletedSuggestions(ctx context.Context, suggestionID string) error {
	_, err := m.CompletedSuggestions.DeleteMany(ctx, bson.M{"_id": suggestionID})
	return err
}

// GetCompletedSuggestions retrieves a page of completed mirror rows, newest
// resolutions first.
func (m *MongoDB) GetCompletedSuggestions(ctx context.Context, limit, offset int) ([]*models.CompletedSuggestion, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "resolutiondate", Value: -1}}).
		SetSkip(int64(offset))
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}

	cursor, err := m.CompletedSuggestions.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var completeds []*models.CompletedSuggestion
	for cursor.Next(ctx) {
		var doc CompletedSuggestionDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		completeds = append(completeds, &models.CompletedSuggestion{
			SuggestionID:   doc.ID,
			CreatedAt:      doc.CreatedAt,
			AcceptedAt:     doc.AcceptedAt,
			ResolutionDate: doc.ResolutionDate,
		})
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return completeds, nil
}
