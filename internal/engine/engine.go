package engine

import (
	"feedback-hub/internal/database"
	"feedback-hub/internal/engine/actors"
	"feedback-hub/internal/mirror"
	"feedback-hub/internal/scoring"
	"feedback-hub/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
)

// Engine coordinates communication between actors
type Engine struct {
	statsActor      *actor.PID
	reviewActor     *actor.PID
	suggestionActor *actor.PID
	adminActor      *actor.PID
}

// NewEngine spawns the actor set. The stats actor is spawned first because the
// review actor forwards every review mutation to it.
func NewEngine(system *actor.ActorSystem, db database.DBAdapter, scorer scoring.Scorer, metrics *utils.MetricsCollector) *Engine {
	context := system.Root
	sync := mirror.NewSynchronizer(db)

	statsProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewStatsActor(db, metrics)
	})
	statsPID := context.Spawn(statsProps)

	reviewProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewReviewActor(db, sync, scorer, statsPID, metrics)
	})
	reviewPID := context.Spawn(reviewProps)

	suggestionProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewSuggestionActor(db, sync, metrics)
	})
	suggestionPID := context.Spawn(suggestionProps)

	adminProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewAdminActor(db, metrics)
	})
	adminPID := context.Spawn(adminProps)

	return &Engine{
		statsActor:      statsPID,
		reviewActor:     reviewPID,
		suggestionActor: suggestionPID,
		adminActor:      adminPID,
	}
}

// GetStatsActor returns the PID of the stats actor
func (e *Engine) GetStatsActor() *actor.PID {
	return e.statsActor
}

// GetReviewActor returns the PID of the review actor
func (e *Engine) GetReviewActor() *actor.PID {
	return e.reviewActor
}

// GetSuggestionActor returns the PID of the suggestion actor
func (e *Engine) GetSuggestionActor() *actor.PID {
	return e.suggestionActor
}

// GetAdminActor returns the PID of the admin actor
func (e *Engine) GetAdminActor() *actor.PID {
	return e.adminActor
}
