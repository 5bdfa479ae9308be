package actors

import (
	stdctx "context"
	"log"
	"time"

	"feedback-hub/internal/database"
	"feedback-hub/internal/models"
	"feedback-hub/internal/stats"
	"feedback-hub/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
)

// Message types for review-stats operations. Every review mutation funnels
// its sample through this actor, so aggregate updates are applied one at a
// time and the read-modify-write on the singleton row cannot race.
type (
	ReviewCreatedMsg struct {
		Rating     int
		Positivity float64
	}

	// ReviewModifiedMsg folds the new values into the running averages
	// without changing the sample count.
	ReviewModifiedMsg struct {
		NewRating     int
		NewPositivity float64
	}

	ReviewDeletedMsg struct {
		Rating     int
		Positivity float64
	}

	GetStatsMsg struct{}

	loadStatsFromDBMsg struct{}
)

// StatsActor owns the ReviewStats singleton. The aggregate is cached in actor
// state and persisted by upsert after each mutation; the mailbox is the only
// writer.
type StatsActor struct {
	db      database.DBAdapter
	metrics *utils.MetricsCollector
	cached  *models.ReviewStats // nil until the first review creates the row
}

func NewStatsActor(db database.DBAdapter, metrics *utils.MetricsCollector) actor.Actor {
	return &StatsActor{
		db:      db,
		metrics: metrics,
	}
}

func (a *StatsActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("StatsActor started")
		context.Send(context.Self(), &loadStatsFromDBMsg{})

	case *loadStatsFromDBMsg:
		a.handleLoadStats()

	case *ReviewCreatedMsg:
		a.handleReviewCreated(context, msg)

	case *ReviewModifiedMsg:
		a.handleReviewModified(context, msg)

	case *ReviewDeletedMsg:
		a.handleReviewDeleted(context, msg)

	case *GetStatsMsg:
		a.handleGetStats(context)

	default:
		log.Printf("StatsActor: Unknown message type %T", msg)
	}
}

func (a *StatsActor) handleLoadStats() {
	ctx := stdctx.Background()

	loaded, err := a.db.GetReviewStats(ctx)
	if err != nil {
		if utils.IsErrorCode(err, utils.ErrNotFound) {
			log.Printf("StatsActor: no aggregate row yet, first review will create it")
			return
		}
		log.Printf("StatsActor: failed to load review stats: %v", err)
		return
	}

	a.cached = loaded
	log.Printf("StatsActor: loaded stats (reviews=%d, avgRating=%.2f)", loaded.TotalReviews, loaded.AverageRating)
}

func (a *StatsActor) handleReviewCreated(context actor.Context, msg *ReviewCreatedMsg) {
	startTime := time.Now()

	if a.cached == nil {
		// Lazy creation: the first review's values seed the averages.
		a.cached = &models.ReviewStats{
			AverageRating:   float64(msg.Rating),
			TotalReviews:    1,
			PositivityLevel: msg.Positivity,
		}
	} else {
		newRating, err := stats.Incorporate(a.cached.AverageRating, float64(msg.Rating), a.cached.TotalReviews)
		if err != nil {
			context.Respond(utils.NewAppError(utils.ErrInvalidInput, "invalid stats state", err))
			return
		}
		newPositivity, err := stats.Incorporate(a.cached.PositivityLevel, msg.Positivity, a.cached.TotalReviews)
		if err != nil {
			context.Respond(utils.NewAppError(utils.ErrInvalidInput, "invalid stats state", err))
			return
		}

		a.cached.AverageRating = newRating
		a.cached.PositivityLevel = newPositivity
		a.cached.TotalReviews++
	}

	a.persistAndRespond(context, "stats_review_created", startTime)
}

func (a *StatsActor) handleReviewModified(context actor.Context, msg *ReviewModifiedMsg) {
	startTime := time.Now()

	if a.cached == nil {
		context.Respond(utils.NewStatsMissingError("review modify"))
		return
	}

	// The modified values are folded in as if they were a fresh sample;
	// TotalReviews stays unchanged.
	newRating, err := stats.Incorporate(a.cached.AverageRating, float64(msg.NewRating), a.cached.TotalReviews)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "invalid stats state", err))
		return
	}
	newPositivity, err := stats.Incorporate(a.cached.PositivityLevel, msg.NewPositivity, a.cached.TotalReviews)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "invalid stats state", err))
		return
	}

	a.cached.AverageRating = newRating
	a.cached.PositivityLevel = newPositivity

	a.persistAndRespond(context, "stats_review_modified", startTime)
}

func (a *StatsActor) handleReviewDeleted(context actor.Context, msg *ReviewDeletedMsg) {
	startTime := time.Now()

	if a.cached == nil {
		context.Respond(utils.NewStatsMissingError("review delete"))
		return
	}

	if a.cached.TotalReviews <= 1 {
		a.cached = &models.ReviewStats{}
	} else {
		a.cached.AverageRating = stats.Remove(a.cached.AverageRating, float64(msg.Rating), a.cached.TotalReviews)
		a.cached.PositivityLevel = stats.Remove(a.cached.PositivityLevel, msg.Positivity, a.cached.TotalReviews)
		a.cached.TotalReviews--
	}

	a.persistAndRespond(context, "stats_review_deleted", startTime)
}

func (a *StatsActor) handleGetStats(context actor.Context) {
	if a.cached == nil {
		context.Respond(&models.ReviewStats{})
		return
	}
	copied := *a.cached
	context.Respond(&copied)
}

func (a *StatsActor) persistAndRespond(context actor.Context, operation string, startTime time.Time) {
	ctx := stdctx.Background()

	if err := a.db.SaveReviewStats(ctx, a.cached); err != nil {
		log.Printf("StatsActor: failed to persist review stats: %v", err)
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to persist review stats", err))
		return
	}

	a.metrics.AddOperationLatency(operation, time.Since(startTime))

	copied := *a.cached
	context.Respond(&copied)
}
