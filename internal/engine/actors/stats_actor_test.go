package actors

import (
	"context"
	"testing"
	"time"

	"feedback-hub/internal/database"
	"feedback-hub/internal/models"
	"feedback-hub/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ask sends msg to pid and waits for the response.
func ask(t *testing.T, system *actor.ActorSystem, pid *actor.PID, msg interface{}) interface{} {
	t.Helper()
	result, err := system.Root.RequestFuture(pid, msg, 2*time.Second).Result()
	require.NoError(t, err)
	return result
}

func spawnStatsActor(t *testing.T) (*actor.ActorSystem, *actor.PID, *database.MemoryDB) {
	t.Helper()
	db := database.NewMemoryDB()
	system := actor.NewActorSystem()
	pid := system.Root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewStatsActor(db, utils.NewMetricsCollector())
	}))
	t.Cleanup(func() { system.Root.Stop(pid) })
	return system, pid, db
}

func TestStatsFirstReviewSeedsAggregate(t *testing.T) {
	system, pid, db := spawnStatsActor(t)

	result := ask(t, system, pid, &ReviewCreatedMsg{Rating: 4, Positivity: 80})
	statsRow, ok := result.(*models.ReviewStats)
	require.True(t, ok, "expected stats, got %T", result)

	assert.Equal(t, 1, statsRow.TotalReviews)
	assert.Equal(t, 4.0, statsRow.AverageRating)
	assert.Equal(t, 80.0, statsRow.PositivityLevel)

	persisted, err := db.GetReviewStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, statsRow, persisted)
}

func TestStatsIncrementalAverageMatchesMean(t *testing.T) {
	system, pid, _ := spawnStatsActor(t)

	ratings := []int{5, 3, 4, 1, 2}
	positivities := []float64{90, 55, 70, 10, 30}

	var last *models.ReviewStats
	for i := range ratings {
		result := ask(t, system, pid, &ReviewCreatedMsg{Rating: ratings[i], Positivity: positivities[i]})
		var ok bool
		last, ok = result.(*models.ReviewStats)
		require.True(t, ok, "expected stats, got %T", result)
	}

	var ratingSum, positivitySum float64
	for i := range ratings {
		ratingSum += float64(ratings[i])
		positivitySum += positivities[i]
	}

	assert.Equal(t, len(ratings), last.TotalReviews)
	assert.InDelta(t, ratingSum/float64(len(ratings)), last.AverageRating, 1e-9)
	assert.InDelta(t, positivitySum/float64(len(positivities)), last.PositivityLevel, 1e-9)
}

func TestStatsDeleteOnlyReviewResetsToZero(t *testing.T) {
	system, pid, db := spawnStatsActor(t)

	ask(t, system, pid, &ReviewCreatedMsg{Rating: 5, Positivity: 95})
	result := ask(t, system, pid, &ReviewDeletedMsg{Rating: 5, Positivity: 95})

	statsRow, ok := result.(*models.ReviewStats)
	require.True(t, ok, "expected stats, got %T", result)
	assert.Equal(t, 0, statsRow.TotalReviews)
	assert.Equal(t, 0.0, statsRow.AverageRating)
	assert.Equal(t, 0.0, statsRow.PositivityLevel)

	persisted, err := db.GetReviewStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &models.ReviewStats{}, persisted)
}

func TestStatsCreateThenDeleteRestoresPriorState(t *testing.T) {
	system, pid, _ := spawnStatsActor(t)

	ask(t, system, pid, &ReviewCreatedMsg{Rating: 4, Positivity: 70})
	ask(t, system, pid, &ReviewCreatedMsg{Rating: 2, Positivity: 40})
	before := ask(t, system, pid, &GetStatsMsg{}).(*models.ReviewStats)

	ask(t, system, pid, &ReviewCreatedMsg{Rating: 5, Positivity: 100})
	after := ask(t, system, pid, &ReviewDeletedMsg{Rating: 5, Positivity: 100}).(*models.ReviewStats)

	assert.Equal(t, before.TotalReviews, after.TotalReviews)
	assert.InDelta(t, before.AverageRating, after.AverageRating, 1e-9)
	assert.InDelta(t, before.PositivityLevel, after.PositivityLevel, 1e-9)
}

func TestStatsModifyKeepsSampleCount(t *testing.T) {
	system, pid, _ := spawnStatsActor(t)

	ask(t, system, pid, &ReviewCreatedMsg{Rating: 4, Positivity: 80})
	ask(t, system, pid, &ReviewCreatedMsg{Rating: 2, Positivity: 40})

	result := ask(t, system, pid, &ReviewModifiedMsg{NewRating: 5, NewPositivity: 100})
	statsRow, ok := result.(*models.ReviewStats)
	require.True(t, ok, "expected stats, got %T", result)

	assert.Equal(t, 2, statsRow.TotalReviews)
	// The new values are folded as one more sample over the same count.
	assert.InDelta(t, (3.0*2+5)/3, statsRow.AverageRating, 1e-9)
	assert.InDelta(t, (60.0*2+100)/3, statsRow.PositivityLevel, 1e-9)
}

func TestStatsModifyWithoutAggregateIsFault(t *testing.T) {
	system, pid, _ := spawnStatsActor(t)

	result := ask(t, system, pid, &ReviewModifiedMsg{NewRating: 3, NewPositivity: 50})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok, "expected error, got %T", result)
	assert.Equal(t, utils.ErrStatsMissing, appErr.Code)
}

func TestStatsDeleteWithoutAggregateIsFault(t *testing.T) {
	system, pid, _ := spawnStatsActor(t)

	result := ask(t, system, pid, &ReviewDeletedMsg{Rating: 3, Positivity: 50})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok, "expected error, got %T", result)
	assert.Equal(t, utils.ErrStatsMissing, appErr.Code)
}

func TestStatsGetBeforeAnyReviewIsZeroValue(t *testing.T) {
	system, pid, _ := spawnStatsActor(t)

	result := ask(t, system, pid, &GetStatsMsg{})
	statsRow, ok := result.(*models.ReviewStats)
	require.True(t, ok, "expected stats, got %T", result)
	assert.Equal(t, &models.ReviewStats{}, statsRow)
}
