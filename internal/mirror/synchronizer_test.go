package mirror

import (
	"context"
	"testing"
	"time"

	"feedback-hub/internal/database"
	"feedback-hub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromoteToTopReviewIsIdempotent(t *testing.T) {
	db := database.NewMemoryDB()
	sync := NewSynchronizer(db)
	ctx := context.Background()

	review := &models.Review{
		ReviewID:   "gator-abc123",
		Name:       "Gator",
		Username:   "gator",
		Comment:    "Great!",
		RatingStar: 5,
		CreatedAt:  time.Now(),
	}

	require.NoError(t, sync.PromoteToTopReview(ctx, review))
	require.NoError(t, sync.PromoteToTopReview(ctx, review))

	tops, err := db.GetTopReviews(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, tops, 1)
	assert.Equal(t, "gator-abc123", tops[0].ReviewID)
	assert.Equal(t, 5, tops[0].RatingStar)
}

func TestSyncTopReviewOnModifyUpdatesSnapshot(t *testing.T) {
	db := database.NewMemoryDB()
	sync := NewSynchronizer(db)
	ctx := context.Background()

	review := &models.Review{ReviewID: "gator-abc123", Comment: "Good", RatingStar: 4, CreatedAt: time.Now()}
	require.NoError(t, sync.PromoteToTopReview(ctx, review))

	require.NoError(t, sync.SyncTopReviewOnModify(ctx, "gator-abc123", "Even better", 5))

	tops, err := db.GetTopReviews(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, tops, 1)
	assert.Equal(t, "Even better", tops[0].Comment)
	assert.Equal(t, 5, tops[0].RatingStar)
}

func TestSyncTopReviewOnModifyNoMirrorIsNoop(t *testing.T) {
	db := database.NewMemoryDB()
	sync := NewSynchronizer(db)
	ctx := context.Background()

	require.NoError(t, sync.SyncTopReviewOnModify(ctx, "never-promoted", "text", 3))

	tops, err := db.GetTopReviews(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, tops)
}

func TestRemoveTopReviewIfExistsToleratesMissingRow(t *testing.T) {
	db := database.NewMemoryDB()
	sync := NewSynchronizer(db)

	assert.NoError(t, sync.RemoveTopReviewIfExists(context.Background(), "no-such-review"))
}

func TestLiveCompletedMutualExclusivity(t *testing.T) {
	db := database.NewMemoryDB()
	sync := NewSynchronizer(db)
	ctx := context.Background()

	createdAt := time.Now().Add(-time.Hour)
	acceptedAt := time.Now().Add(-30 * time.Minute)

	require.NoError(t, sync.SetSuggestionLive(ctx, "sug-1", createdAt, &acceptedAt))

	lives, err := db.GetLiveSuggestions(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, lives, 1)

	// Flip to completed: exactly one row total, in the completed table.
	require.NoError(t, sync.SetSuggestionCompleted(ctx, "sug-1", createdAt, &acceptedAt))

	lives, err = db.GetLiveSuggestions(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, lives)

	completeds, err := db.GetCompletedSuggestions(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, completeds, 1)
	assert.Equal(t, "sug-1", completeds[0].SuggestionID)

	// And back to live.
	require.NoError(t, sync.SetSuggestionLive(ctx, "sug-1", createdAt, &acceptedAt))

	lives, err = db.GetLiveSuggestions(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, lives, 1)

	completeds, err = db.GetCompletedSuggestions(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, completeds)
}

func TestCompletedResolutionDatePreservedAcrossUpserts(t *testing.T) {
	db := database.NewMemoryDB()
	sync := NewSynchronizer(db)
	ctx := context.Background()

	createdAt := time.Now().Add(-time.Hour)

	require.NoError(t, sync.SetSuggestionCompleted(ctx, "sug-2", createdAt, nil))

	completeds, err := db.GetCompletedSuggestions(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, completeds, 1)
	first := completeds[0].ResolutionDate

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, sync.SetSuggestionCompleted(ctx, "sug-2", createdAt, nil))

	completeds, err = db.GetCompletedSuggestions(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, completeds, 1)
	assert.True(t, completeds[0].ResolutionDate.Equal(first))
}

func TestRemoveSuggestionMirrorsClearsBothTables(t *testing.T) {
	db := database.NewMemoryDB()
	sync := NewSynchronizer(db)
	ctx := context.Background()

	require.NoError(t, sync.SetSuggestionLive(ctx, "sug-3", time.Now(), nil))
	require.NoError(t, sync.SetSuggestionCompleted(ctx, "sug-4", time.Now(), nil))

	require.NoError(t, sync.RemoveSuggestionMirrors(ctx, "sug-3"))
	require.NoError(t, sync.RemoveSuggestionMirrors(ctx, "sug-4"))

	lives, err := db.GetLiveSuggestions(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, lives)

	completeds, err := db.GetCompletedSuggestions(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, completeds)
}
