package actors

import (
	"context"
	"strings"
	"testing"

	"feedback-hub/internal/database"
	"feedback-hub/internal/mirror"
	"feedback-hub/internal/models"
	"feedback-hub/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubScorer returns a fixed positivity level, or fails when failWith is set.
type stubScorer struct {
	level    float64
	failWith error
}

func (s *stubScorer) Score(ctx context.Context, comment string) (float64, error) {
	if s.failWith != nil {
		return 0, s.failWith
	}
	return s.level, nil
}

type reviewHarness struct {
	system *actor.ActorSystem
	db     *database.MemoryDB
	pid    *actor.PID
	stats  *actor.PID
	scorer *stubScorer
}

func newReviewHarness(t *testing.T) *reviewHarness {
	t.Helper()

	db := database.NewMemoryDB()
	scorer := &stubScorer{level: 50}
	metrics := utils.NewMetricsCollector()
	system := actor.NewActorSystem()

	statsPID := system.Root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewStatsActor(db, metrics)
	}))
	reviewPID := system.Root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewReviewActor(db, mirror.NewSynchronizer(db), scorer, statsPID, metrics)
	}))

	t.Cleanup(func() {
		system.Root.Stop(reviewPID)
		system.Root.Stop(statsPID)
	})

	return &reviewHarness{system: system, db: db, pid: reviewPID, stats: statsPID, scorer: scorer}
}

func (h *reviewHarness) createReview(t *testing.T, username string, rating int, level float64) *models.Review {
	t.Helper()
	h.scorer.level = level
	result := ask(t, h.system, h.pid, &CreateReviewMsg{
		Name:       username,
		Username:   username,
		Comment:    "solid product",
		RatingStar: rating,
	})
	review, ok := result.(*models.Review)
	require.True(t, ok, "expected review, got %v", result)
	return review
}

func (h *reviewHarness) getStats(t *testing.T) *models.ReviewStats {
	t.Helper()
	result := ask(t, h.system, h.stats, &GetStatsMsg{})
	statsRow, ok := result.(*models.ReviewStats)
	require.True(t, ok, "expected stats, got %T", result)
	return statsRow
}

func TestCreateReviewPersistsAndUpdatesStats(t *testing.T) {
	h := newReviewHarness(t)

	review := h.createReview(t, "alice", 4, 80)

	assert.True(t, strings.HasPrefix(review.ReviewID, "alice-"))
	assert.Equal(t, models.ReviewTypeSimple, review.ReviewType)
	assert.Equal(t, 80.0, review.PositivityLevel)

	stored, err := h.db.GetReview(context.Background(), review.ReviewID)
	require.NoError(t, err)
	assert.Equal(t, review.Comment, stored.Comment)

	statsRow := h.getStats(t)
	assert.Equal(t, 1, statsRow.TotalReviews)
	assert.Equal(t, 4.0, statsRow.AverageRating)
	assert.Equal(t, 80.0, statsRow.PositivityLevel)
}

func TestCreateReviewScoringFailureStoresNothing(t *testing.T) {
	h := newReviewHarness(t)
	h.scorer.failWith = utils.NewAppError(utils.ErrScoringFailed, "scoring service unavailable", nil)

	result := ask(t, h.system, h.pid, &CreateReviewMsg{
		Name:       "Alice",
		Username:   "alice",
		Comment:    "great",
		RatingStar: 5,
	})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok, "expected error, got %T", result)
	assert.Equal(t, utils.ErrScoringFailed, appErr.Code)

	reviews, err := h.db.GetUserReviews(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, reviews)
	assert.Equal(t, 0, h.getStats(t).TotalReviews)
}

func TestCreateReviewValidation(t *testing.T) {
	h := newReviewHarness(t)

	result := ask(t, h.system, h.pid, &CreateReviewMsg{
		Name:       "Alice",
		Username:   "alice",
		Comment:    strings.Repeat("x", models.MaxCommentLength+1),
		RatingStar: 3,
	})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok, "expected error, got %T", result)
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)

	result = ask(t, h.system, h.pid, &CreateReviewMsg{
		Name:       "Alice",
		Username:   "alice",
		Comment:    "fine",
		RatingStar: 6,
	})
	appErr, ok = result.(*utils.AppError)
	require.True(t, ok, "expected error, got %T", result)
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)
}

func TestCreateReviewRejectsDisallowedFile(t *testing.T) {
	h := newReviewHarness(t)

	result := ask(t, h.system, h.pid, &CreateReviewMsg{
		Name:       "Alice",
		Username:   "alice",
		Comment:    "with attachment",
		RatingStar: 4,
		Files: []models.AttachedFile{
			{FileName: "payload.exe", FileData: []byte{0x4d, 0x5a}},
		},
	})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok, "expected error, got %T", result)
	assert.Equal(t, utils.ErrFileRejected, appErr.Code)

	reviews, err := h.db.GetUserReviews(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, reviews)
}

func TestEditReviewOwnerOnly(t *testing.T) {
	h := newReviewHarness(t)
	review := h.createReview(t, "alice", 4, 80)

	result := ask(t, h.system, h.pid, &EditReviewMsg{
		ReviewID:   review.ReviewID,
		Username:   "mallory",
		Comment:    "hijacked",
		RatingStar: 1,
	})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok, "expected error, got %T", result)
	assert.Equal(t, utils.ErrUnauthorized, appErr.Code)

	stored, err := h.db.GetReview(context.Background(), review.ReviewID)
	require.NoError(t, err)
	assert.Equal(t, "solid product", stored.Comment)
	assert.Equal(t, 4, stored.RatingStar)
}

func TestEditReviewRescoresAndSyncsMirror(t *testing.T) {
	h := newReviewHarness(t)
	review := h.createReview(t, "alice", 3, 60)

	promoted := ask(t, h.system, h.pid, &PromoteReviewMsg{ReviewID: review.ReviewID, AdminRole: models.RoleSuperAdmin})
	require.IsType(t, &models.Review{}, promoted)

	h.scorer.level = 95
	result := ask(t, h.system, h.pid, &EditReviewMsg{
		ReviewID:   review.ReviewID,
		Username:   "alice",
		Comment:    "even better now",
		RatingStar: 5,
	})
	edited, ok := result.(*models.Review)
	require.True(t, ok, "expected review, got %v", result)
	assert.Equal(t, 95.0, edited.PositivityLevel)
	assert.Equal(t, models.ReviewTypeTop, edited.ReviewType)

	tops, err := h.db.GetTopReviews(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, tops, 1)
	assert.Equal(t, "even better now", tops[0].Comment)
	assert.Equal(t, 5, tops[0].RatingStar)
}

func TestDeleteReviewReversesStatsAndClearsMirror(t *testing.T) {
	h := newReviewHarness(t)
	highRated := h.createReview(t, "alice", 5, 100)
	h.createReview(t, "bob", 1, 0)

	promoted := ask(t, h.system, h.pid, &PromoteReviewMsg{ReviewID: highRated.ReviewID, AdminRole: models.RoleEdit})
	require.IsType(t, &models.Review{}, promoted)

	result := ask(t, h.system, h.pid, &DeleteReviewMsg{ReviewID: highRated.ReviewID, Username: "alice"})
	status, ok := result.(*models.StatusResponse)
	require.True(t, ok, "expected status, got %v", result)
	assert.True(t, status.Success)

	_, err := h.db.GetReview(context.Background(), highRated.ReviewID)
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))

	tops, err := h.db.GetTopReviews(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Empty(t, tops)

	statsRow := h.getStats(t)
	assert.Equal(t, 1, statsRow.TotalReviews)
	assert.InDelta(t, 1.0, statsRow.AverageRating, 1e-9)
	assert.InDelta(t, 0.0, statsRow.PositivityLevel, 1e-9)
}

func TestDeleteOnlyReviewZeroesStats(t *testing.T) {
	h := newReviewHarness(t)
	review := h.createReview(t, "alice", 5, 90)

	ask(t, h.system, h.pid, &DeleteReviewMsg{ReviewID: review.ReviewID, Username: "alice"})

	statsRow := h.getStats(t)
	assert.Equal(t, &models.ReviewStats{}, statsRow)
}

func TestDeleteReviewOwnerOnly(t *testing.T) {
	h := newReviewHarness(t)
	review := h.createReview(t, "alice", 4, 70)

	result := ask(t, h.system, h.pid, &DeleteReviewMsg{ReviewID: review.ReviewID, Username: "bob"})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok, "expected error, got %T", result)
	assert.Equal(t, utils.ErrUnauthorized, appErr.Code)

	_, err := h.db.GetReview(context.Background(), review.ReviewID)
	assert.NoError(t, err)
	assert.Equal(t, 1, h.getStats(t).TotalReviews)
}

func TestPromoteReviewIsIdempotentPerMirror(t *testing.T) {
	h := newReviewHarness(t)
	review := h.createReview(t, "alice", 5, 90)

	first := ask(t, h.system, h.pid, &PromoteReviewMsg{ReviewID: review.ReviewID, AdminRole: models.RoleSuperAdmin})
	require.IsType(t, &models.Review{}, first)

	second := ask(t, h.system, h.pid, &PromoteReviewMsg{ReviewID: review.ReviewID, AdminRole: models.RoleSuperAdmin})
	appErr, ok := second.(*utils.AppError)
	require.True(t, ok, "expected error, got %T", second)
	assert.Equal(t, utils.ErrAlreadyTopReview, appErr.Code)

	tops, err := h.db.GetTopReviews(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Len(t, tops, 1)
}

func TestPromoteReviewRequiresRole(t *testing.T) {
	h := newReviewHarness(t)
	review := h.createReview(t, "alice", 5, 90)

	for _, role := range []models.AdminRole{models.RoleView, models.RoleDelete} {
		result := ask(t, h.system, h.pid, &PromoteReviewMsg{ReviewID: review.ReviewID, AdminRole: role})
		appErr, ok := result.(*utils.AppError)
		require.True(t, ok, "expected error for role %s, got %T", role, result)
		assert.Equal(t, utils.ErrForbidden, appErr.Code)
	}
}

func TestTwoReviewsAverageOut(t *testing.T) {
	h := newReviewHarness(t)

	h.createReview(t, "alice", 5, 100)
	h.createReview(t, "bob", 1, 0)

	statsRow := h.getStats(t)
	assert.Equal(t, 2, statsRow.TotalReviews)
	assert.InDelta(t, 3.0, statsRow.AverageRating, 1e-9)
	assert.InDelta(t, 50.0, statsRow.PositivityLevel, 1e-9)
}
