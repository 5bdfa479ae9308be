package actors

import (
	stdctx "context"
	"fmt"
	"log"
	"time"

	"feedback-hub/internal/database"
	"feedback-hub/internal/files"
	"feedback-hub/internal/mirror"
	"feedback-hub/internal/models"
	"feedback-hub/internal/scoring"
	"feedback-hub/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/lithammer/shortuuid/v4"
)

// Message types for review operations
type (
	CreateReviewMsg struct {
		Name       string                `json:"name"`
		Username   string                `json:"username"`
		Comment    string                `json:"comment"`
		RatingStar int                   `json:"ratingStar"`
		Files      []models.AttachedFile `json:"files,omitempty"`
	}

	EditReviewMsg struct {
		ReviewID   string                `json:"reviewId"`
		Username   string                `json:"username"`
		Comment    string                `json:"comment"`
		RatingStar int                   `json:"ratingStar"`
		Files      []models.AttachedFile `json:"files,omitempty"`
	}

	DeleteReviewMsg struct {
		ReviewID string `json:"reviewId"`
		Username string `json:"username"`
	}

	PromoteReviewMsg struct {
		ReviewID  string           `json:"reviewId"`
		AdminRole models.AdminRole `json:"-"`
	}

	GetReviewMsg struct {
		ReviewID string `json:"reviewId"`
	}

	GetUserReviewsMsg struct {
		Username string `json:"username"`
	}

	// ListReviewsMsg pages through reviews. Sort is one of "latest",
	// "oldest" or "top".
	ListReviewsMsg struct {
		Sort   string `json:"sort"`
		Limit  int    `json:"limit"`
		Offset int    `json:"offset"`
	}

	ListTopReviewsMsg struct {
		Limit  int `json:"limit"`
		Offset int `json:"offset"`
	}
)

// ReviewActor orchestrates the review lifecycle: validation, positivity
// scoring, persistence, stats updates and top-review mirror sync. Stats and
// mirror failures after a successful primary write are logged, not surfaced;
// the user's write already succeeded.
type ReviewActor struct {
	db       database.DBAdapter
	sync     *mirror.Synchronizer
	scorer   scoring.Scorer
	statsPID *actor.PID
	metrics  *utils.MetricsCollector
}

func NewReviewActor(db database.DBAdapter, sync *mirror.Synchronizer, scorer scoring.Scorer, statsPID *actor.PID, metrics *utils.MetricsCollector) actor.Actor {
	return &ReviewActor{
		db:       db,
		sync:     sync,
		scorer:   scorer,
		statsPID: statsPID,
		metrics:  metrics,
	}
}

func (a *ReviewActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("ReviewActor started")

	case *CreateReviewMsg:
		a.handleCreateReview(context, msg)

	case *EditReviewMsg:
		a.handleEditReview(context, msg)

	case *DeleteReviewMsg:
		a.handleDeleteReview(context, msg)

	case *PromoteReviewMsg:
		a.handlePromoteReview(context, msg)

	case *GetReviewMsg:
		a.handleGetReview(context, msg)

	case *GetUserReviewsMsg:
		a.handleGetUserReviews(context, msg)

	case *ListReviewsMsg:
		a.handleListReviews(context, msg)

	case *ListTopReviewsMsg:
		a.handleListTopReviews(context, msg)

	default:
		log.Printf("ReviewActor: Unknown message type %T", msg)
	}
}

func validateReviewContent(comment string, rating int) *utils.AppError {
	if len(comment) > models.MaxCommentLength {
		return utils.NewValidationError(fmt.Sprintf("comment exceeds %d characters", models.MaxCommentLength))
	}
	if rating < models.MinRatingStar || rating > models.MaxRatingStar {
		return utils.NewValidationError(fmt.Sprintf("ratingStar must be between %d and %d", models.MinRatingStar, models.MaxRatingStar))
	}
	return nil
}

// newReviewID builds an owner-prefixed, globally unique review ID. The random
// suffix makes collisions negligible.
func newReviewID(username string) string {
	return username + "-" + shortuuid.New()
}

func (a *ReviewActor) handleCreateReview(context actor.Context, msg *CreateReviewMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if msg.Username == "" || msg.Name == "" {
		context.Respond(utils.NewValidationError("name and username are required"))
		return
	}
	if err := validateReviewContent(msg.Comment, msg.RatingStar); err != nil {
		context.Respond(err)
		return
	}

	sanitized, err := files.Validate(msg.Files)
	if err != nil {
		context.Respond(err)
		return
	}

	positivity, err := a.scorer.Score(ctx, msg.Comment)
	if err != nil {
		// No review is stored without a positivity score.
		log.Printf("ReviewActor: scoring failed for new review by %s: %v", msg.Username, err)
		context.Respond(err)
		return
	}

	now := time.Now()
	newReview := &models.Review{
		ReviewID:        newReviewID(msg.Username),
		Name:            msg.Name,
		Username:        msg.Username,
		Comment:         msg.Comment,
		RatingStar:      msg.RatingStar,
		Files:           sanitized,
		ReviewType:      models.ReviewTypeSimple,
		PositivityLevel: positivity,
		CreatedAt:       now,
		LastModified:    now,
	}

	if err := a.db.SaveReview(ctx, newReview); err != nil {
		// Persistence failed: no stats update happens, so the aggregate
		// stays untouched by the failed create.
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to save review", err))
		return
	}

	a.updateStats(context, &ReviewCreatedMsg{Rating: newReview.RatingStar, Positivity: newReview.PositivityLevel})

	a.metrics.AddOperationLatency("create_review", time.Since(startTime))
	context.Respond(newReview)
}

func (a *ReviewActor) handleEditReview(context actor.Context, msg *EditReviewMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	review, err := a.db.GetReview(ctx, msg.ReviewID)
	if err != nil {
		context.Respond(err)
		return
	}

	if review.Username != msg.Username {
		context.Respond(utils.NewUnauthorizedError("only the review owner may modify it"))
		return
	}

	if vErr := validateReviewContent(msg.Comment, msg.RatingStar); vErr != nil {
		context.Respond(vErr)
		return
	}

	sanitized, err := files.Validate(msg.Files)
	if err != nil {
		context.Respond(err)
		return
	}

	positivity, err := a.scorer.Score(ctx, msg.Comment)
	if err != nil {
		log.Printf("ReviewActor: re-scoring failed for review %s: %v", msg.ReviewID, err)
		context.Respond(err)
		return
	}

	review.Comment = msg.Comment
	review.RatingStar = msg.RatingStar
	review.Files = sanitized // full replacement, never merged
	review.PositivityLevel = positivity
	review.LastModified = time.Now()

	if err := a.db.SaveReview(ctx, review); err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to update review", err))
		return
	}

	// The persisted write succeeded; stats folding and mirror sync are
	// best-effort secondary effects from here on.
	a.updateStats(context, &ReviewModifiedMsg{NewRating: review.RatingStar, NewPositivity: review.PositivityLevel})

	if err := a.sync.SyncTopReviewOnModify(ctx, review.ReviewID, review.Comment, review.RatingStar); err != nil {
		log.Printf("ReviewActor: top-review sync failed for %s: %v", review.ReviewID, err)
	}

	a.metrics.AddOperationLatency("edit_review", time.Since(startTime))
	context.Respond(review)
}

func (a *ReviewActor) handleDeleteReview(context actor.Context, msg *DeleteReviewMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	// Prefetch for the reverse moving-average math.
	review, err := a.db.GetReview(ctx, msg.ReviewID)
	if err != nil {
		context.Respond(err)
		return
	}

	if review.Username != msg.Username {
		context.Respond(utils.NewUnauthorizedError("only the review owner may delete it"))
		return
	}

	if err := a.db.DeleteReview(ctx, msg.ReviewID); err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to delete review", err))
		return
	}

	if err := a.sync.RemoveTopReviewIfExists(ctx, msg.ReviewID); err != nil {
		log.Printf("ReviewActor: top-review cleanup failed for %s: %v", msg.ReviewID, err)
	}

	a.updateStats(context, &ReviewDeletedMsg{Rating: review.RatingStar, Positivity: review.PositivityLevel})

	a.metrics.AddOperationLatency("delete_review", time.Since(startTime))
	context.Respond(&models.StatusResponse{Success: true, Message: "Review deleted"})
}

func (a *ReviewActor) handlePromoteReview(context actor.Context, msg *PromoteReviewMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if !msg.AdminRole.CanLock() {
		context.Respond(utils.NewForbiddenError("role may not promote reviews"))
		return
	}

	review, err := a.db.GetReview(ctx, msg.ReviewID)
	if err != nil {
		context.Respond(err)
		return
	}

	if review.ReviewType == models.ReviewTypeTop {
		context.Respond(utils.NewAppError(utils.ErrAlreadyTopReview, "review is already a top review", nil))
		return
	}

	review.ReviewType = models.ReviewTypeTop
	if err := a.db.SaveReview(ctx, review); err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to promote review", err))
		return
	}

	if err := a.sync.PromoteToTopReview(ctx, review); err != nil {
		log.Printf("ReviewActor: top-review mirror upsert failed for %s: %v", review.ReviewID, err)
	}

	a.metrics.AddOperationLatency("promote_review", time.Since(startTime))
	context.Respond(review)
}

func (a *ReviewActor) handleGetReview(context actor.Context, msg *GetReviewMsg) {
	review, err := a.db.GetReview(stdctx.Background(), msg.ReviewID)
	if err != nil {
		context.Respond(err)
		return
	}
	context.Respond(review)
}

func (a *ReviewActor) handleGetUserReviews(context actor.Context, msg *GetUserReviewsMsg) {
	reviews, err := a.db.GetUserReviews(stdctx.Background(), msg.Username)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to fetch reviews", err))
		return
	}
	context.Respond(reviews)
}

func (a *ReviewActor) handleListReviews(context actor.Context, msg *ListReviewsMsg) {
	ctx := stdctx.Background()

	var (
		reviews []*models.Review
		err     error
	)
	switch msg.Sort {
	case "top":
		reviews, err = a.db.GetTopRatedReviews(ctx, msg.Limit, msg.Offset)
	case "oldest":
		reviews, err = a.db.GetReviews(ctx, true, msg.Limit, msg.Offset)
	default: // "latest"
		reviews, err = a.db.GetReviews(ctx, false, msg.Limit, msg.Offset)
	}
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to fetch reviews", err))
		return
	}
	context.Respond(reviews)
}

func (a *ReviewActor) handleListTopReviews(context actor.Context, msg *ListTopReviewsMsg) {
	tops, err := a.db.GetTopReviews(stdctx.Background(), msg.Limit, msg.Offset)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to fetch top reviews", err))
		return
	}
	context.Respond(tops)
}

// updateStats forwards a sample to the stats actor and logs any failure.
// Stats drift is an accepted, logged inconsistency once the primary write has
// succeeded; it is never surfaced as a failure of the user's request.
func (a *ReviewActor) updateStats(context actor.Context, msg interface{}) {
	future := context.RequestFuture(a.statsPID, msg, 5*time.Second)
	result, err := future.Result()
	if err != nil {
		log.Printf("ReviewActor: stats update %T timed out: %v", msg, err)
		return
	}
	if appErr, ok := result.(*utils.AppError); ok {
		log.Printf("ReviewActor: stats update %T failed: %v", msg, appErr)
	}
}
