// Package mirror keeps the derived lists (TopReview, LiveSuggestion,
// CompletedSuggestion) consistent with their source-of-truth rows. Every
// operation is expressed as upsert + delete-many, so re-applying a sync call
// after a retry produces the same end state.
package mirror

import (
	"context"
	"time"

	"feedback-hub/internal/database"
	"feedback-hub/internal/models"
)

// Synchronizer applies the desired mirror state for one entity at a time.
type Synchronizer struct {
	db database.DBAdapter
}

func NewSynchronizer(db database.DBAdapter) *Synchronizer {
	return &Synchronizer{db: db}
}

// PromoteToTopReview upserts the TopReview snapshot for a review. The caller
// checks the "already promoted" precondition; re-applying the upsert here is
// harmless.
func (s *Synchronizer) PromoteToTopReview(ctx context.Context, review *models.Review) error {
	return s.db.UpsertTopReview(ctx, &models.TopReview{
		ReviewID:   review.ReviewID,
		CreatedAt:  review.CreatedAt,
		RatingStar: review.RatingStar,
		Name:       review.Name,
		Comment:    review.Comment,
	})
}

// SyncTopReviewOnModify refreshes the snapshot fields for any mirror row
// matching reviewID. Most reviews have no mirror row; zero matches is a
// no-op.
func (s *Synchronizer) SyncTopReviewOnModify(ctx context.Context, reviewID, newComment string, newRating int) error {
	return s.db.UpdateTopReviewSnapshots(ctx, reviewID, newComment, newRating)
}

// RemoveTopReviewIfExists deletes any mirror rows for reviewID.
func (s *Synchronizer) RemoveTopReviewIfExists(ctx context.Context, reviewID string) error {
	return s.db.DeleteTopReviews(ctx, reviewID)
}

// SetSuggestionLive upserts the live mirror row and removes any completed
// row for the same suggestion, enforcing mutual exclusivity.
func (s *Synchronizer) SetSuggestionLive(ctx context.Context, suggestionID string, createdAt time.Time, acceptedAt *time.Time) error {
	err := s.db.UpsertLiveSuggestion(ctx, &models.LiveSuggestion{
		SuggestionID: suggestionID,
		CreatedAt:    createdAt,
		AcceptedAt:   acceptedAt,
	})
	if err != nil {
		return err
	}
	return s.db.DeleteCompletedSuggestions(ctx, suggestionID)
}

// SetSuggestionCompleted upserts the completed mirror row (the resolution
// date defaults to now on first creation and is preserved afterwards) and
// removes any live row for the same suggestion.
func (s *Synchronizer) SetSuggestionCompleted(ctx context.Context, suggestionID string, createdAt time.Time, acceptedAt *time.Time) error {
	err := s.db.UpsertCompletedSuggestion(ctx, &models.CompletedSuggestion{
		SuggestionID:   suggestionID,
		CreatedAt:      createdAt,
		AcceptedAt:     acceptedAt,
		ResolutionDate: time.Now(),
	})
	if err != nil {
		return err
	}
	return s.db.DeleteLiveSuggestions(ctx, suggestionID)
}

// RemoveSuggestionMirrors deletes both mirror rows for a suggestion. Used by
// the admin deletion path.
func (s *Synchronizer) RemoveSuggestionMirrors(ctx context.Context, suggestionID string) error {
	if err := s.db.DeleteLiveSuggestions(ctx, suggestionID); err != nil {
		return err
	}
	return s.db.DeleteCompletedSuggestions(ctx, suggestionID)
}
