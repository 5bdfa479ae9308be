package actors

import (
	"context"
	"testing"

	"feedback-hub/internal/database"
	"feedback-hub/internal/mirror"
	"feedback-hub/internal/models"
	"feedback-hub/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type suggestionHarness struct {
	system *actor.ActorSystem
	db     *database.MemoryDB
	pid    *actor.PID
}

func newSuggestionHarness(t *testing.T) *suggestionHarness {
	t.Helper()

	db := database.NewMemoryDB()
	system := actor.NewActorSystem()
	pid := system.Root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewSuggestionActor(db, mirror.NewSynchronizer(db), utils.NewMetricsCollector())
	}))
	t.Cleanup(func() { system.Root.Stop(pid) })

	return &suggestionHarness{system: system, db: db, pid: pid}
}

func (h *suggestionHarness) createSuggestion(t *testing.T, username, category string) *models.Suggestion {
	t.Helper()
	result := ask(t, h.system, h.pid, &CreateSuggestionMsg{
		Username:    username,
		Name:        username,
		Category:    category,
		Description: "please add dark mode",
	})
	suggestion, ok := result.(*models.Suggestion)
	require.True(t, ok, "expected suggestion, got %v", result)
	return suggestion
}

func (h *suggestionHarness) lock(t *testing.T, suggestionID string, role models.AdminRole) interface{} {
	t.Helper()
	return ask(t, h.system, h.pid, &LockSuggestionMsg{SuggestionID: suggestionID, AdminRole: role})
}

func (h *suggestionHarness) changeStatus(t *testing.T, suggestionID, status string, role models.AdminRole) interface{} {
	t.Helper()
	return ask(t, h.system, h.pid, &ChangeSuggestionStatusMsg{SuggestionID: suggestionID, Status: status, AdminRole: role})
}

func TestCreateSuggestionDefaults(t *testing.T) {
	h := newSuggestionHarness(t)

	suggestion := h.createSuggestion(t, "alice", "feature")
	assert.NotEmpty(t, suggestion.SuggestionID)
	assert.Equal(t, models.StatusPending, suggestion.SuggestionStatus)
	assert.False(t, suggestion.Accepted)
	assert.Nil(t, suggestion.AcceptedAt)

	// Unrecognized categories collapse to the catch-all bucket.
	other := h.createSuggestion(t, "bob", "wild-idea")
	assert.Equal(t, models.CategoryOthers, other.SuggestionCategory)
}

func TestOwnerEditBeforeLock(t *testing.T) {
	h := newSuggestionHarness(t)
	suggestion := h.createSuggestion(t, "alice", "feature")

	result := ask(t, h.system, h.pid, &EditSuggestionMsg{
		SuggestionID: suggestion.SuggestionID,
		Username:     "alice",
		Category:     "ui",
		Description:  "dark mode with scheduling",
	})
	edited, ok := result.(*models.Suggestion)
	require.True(t, ok, "expected suggestion, got %v", result)
	assert.Equal(t, models.CategoryUI, edited.SuggestionCategory)
	assert.Equal(t, "dark mode with scheduling", edited.SuggestionDescription)
}

func TestOwnerEditMissingSuggestion(t *testing.T) {
	h := newSuggestionHarness(t)

	result := ask(t, h.system, h.pid, &EditSuggestionMsg{
		SuggestionID: "nope",
		Username:     "alice",
		Description:  "x",
	})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok, "expected error, got %T", result)
	assert.Equal(t, utils.ErrNotFound, appErr.Code)
}

func TestLockFreezesOwnerOperations(t *testing.T) {
	h := newSuggestionHarness(t)
	suggestion := h.createSuggestion(t, "alice", "feature")

	locked, ok := h.lock(t, suggestion.SuggestionID, models.RoleEdit).(*models.Suggestion)
	require.True(t, ok, "expected suggestion after lock")
	assert.True(t, locked.Accepted)
	assert.NotNil(t, locked.AcceptedAt)
	assert.Equal(t, models.StatusUnderReview, locked.SuggestionStatus)

	// The accepted check fires before ownership, so even the owner gets
	// the accepted error rather than unauthorized.
	editResult := ask(t, h.system, h.pid, &EditSuggestionMsg{
		SuggestionID: suggestion.SuggestionID,
		Username:     "alice",
		Description:  "changed my mind",
	})
	appErr, ok := editResult.(*utils.AppError)
	require.True(t, ok, "expected error, got %T", editResult)
	assert.Equal(t, utils.ErrAlreadyAccepted, appErr.Code)

	deleteResult := ask(t, h.system, h.pid, &DeleteSuggestionMsg{
		SuggestionID: suggestion.SuggestionID,
		Username:     "alice",
	})
	appErr, ok = deleteResult.(*utils.AppError)
	require.True(t, ok, "expected error, got %T", deleteResult)
	assert.Equal(t, utils.ErrAlreadyAccepted, appErr.Code)

	stored, err := h.db.GetSuggestion(context.Background(), suggestion.SuggestionID)
	require.NoError(t, err)
	assert.Equal(t, "please add dark mode", stored.SuggestionDescription)
}

func TestNonOwnerEditRejectedWithoutWrites(t *testing.T) {
	h := newSuggestionHarness(t)
	suggestion := h.createSuggestion(t, "alice", "feature")

	result := ask(t, h.system, h.pid, &EditSuggestionMsg{
		SuggestionID: suggestion.SuggestionID,
		Username:     "mallory",
		Description:  "hijacked",
	})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok, "expected error, got %T", result)
	assert.Equal(t, utils.ErrUnauthorized, appErr.Code)

	stored, err := h.db.GetSuggestion(context.Background(), suggestion.SuggestionID)
	require.NoError(t, err)
	assert.Equal(t, "please add dark mode", stored.SuggestionDescription)
}

func TestOwnerDeleteBeforeLockRemovesRow(t *testing.T) {
	h := newSuggestionHarness(t)
	suggestion := h.createSuggestion(t, "alice", "bug")

	result := ask(t, h.system, h.pid, &DeleteSuggestionMsg{
		SuggestionID: suggestion.SuggestionID,
		Username:     "alice",
	})
	status, ok := result.(*models.StatusResponse)
	require.True(t, ok, "expected status, got %v", result)
	assert.True(t, status.Success)

	_, err := h.db.GetSuggestion(context.Background(), suggestion.SuggestionID)
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))
}

func TestLockRequiresRole(t *testing.T) {
	h := newSuggestionHarness(t)
	suggestion := h.createSuggestion(t, "alice", "feature")

	for _, role := range []models.AdminRole{models.RoleView, models.RoleDelete} {
		result := h.lock(t, suggestion.SuggestionID, role)
		appErr, ok := result.(*utils.AppError)
		require.True(t, ok, "expected error for role %s, got %T", role, result)
		assert.Equal(t, utils.ErrForbidden, appErr.Code)
	}
}

func TestDoubleLockRejected(t *testing.T) {
	h := newSuggestionHarness(t)
	suggestion := h.createSuggestion(t, "alice", "feature")

	require.IsType(t, &models.Suggestion{}, h.lock(t, suggestion.SuggestionID, models.RoleSuperAdmin))

	result := h.lock(t, suggestion.SuggestionID, models.RoleSuperAdmin)
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok, "expected error, got %T", result)
	assert.Equal(t, utils.ErrAlreadyAccepted, appErr.Code)
}

func TestStatusTransitionsKeepMirrorsExclusive(t *testing.T) {
	h := newSuggestionHarness(t)
	suggestion := h.createSuggestion(t, "alice", "feature")
	h.lock(t, suggestion.SuggestionID, models.RoleEdit)

	ctx := context.Background()

	// live: a live row appears, no completed row
	result := h.changeStatus(t, suggestion.SuggestionID, "live", models.RoleEdit)
	updated, ok := result.(*models.Suggestion)
	require.True(t, ok, "expected suggestion, got %v", result)
	assert.Equal(t, models.StatusLive, updated.SuggestionStatus)

	lives, err := h.db.GetLiveSuggestions(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, lives, 1)
	assert.Equal(t, suggestion.SuggestionID, lives[0].SuggestionID)
	assert.NotNil(t, lives[0].AcceptedAt)

	completeds, err := h.db.GetCompletedSuggestions(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, completeds)

	// completed: the live row is replaced by a completed row
	h.changeStatus(t, suggestion.SuggestionID, "completed", models.RoleEdit)

	lives, err = h.db.GetLiveSuggestions(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, lives)

	completeds, err = h.db.GetCompletedSuggestions(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, completeds, 1)
	assert.False(t, completeds[0].ResolutionDate.IsZero())

	// back to live: completed row removed again
	h.changeStatus(t, suggestion.SuggestionID, "live", models.RoleEdit)

	lives, err = h.db.GetLiveSuggestions(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, lives, 1)

	completeds, err = h.db.GetCompletedSuggestions(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, completeds)
}

func TestChangeStatusRejectsUnknownStatus(t *testing.T) {
	h := newSuggestionHarness(t)
	suggestion := h.createSuggestion(t, "alice", "feature")
	h.lock(t, suggestion.SuggestionID, models.RoleEdit)

	result := h.changeStatus(t, suggestion.SuggestionID, "shipped", models.RoleEdit)
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok, "expected error, got %T", result)
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)
}

func TestChangeStatusRequiresRole(t *testing.T) {
	h := newSuggestionHarness(t)
	suggestion := h.createSuggestion(t, "alice", "feature")
	h.lock(t, suggestion.SuggestionID, models.RoleEdit)

	result := h.changeStatus(t, suggestion.SuggestionID, "live", models.RoleView)
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok, "expected error, got %T", result)
	assert.Equal(t, utils.ErrForbidden, appErr.Code)
}

func TestAdminDeleteRemovesRowAndMirrors(t *testing.T) {
	h := newSuggestionHarness(t)
	suggestion := h.createSuggestion(t, "alice", "feature")
	h.lock(t, suggestion.SuggestionID, models.RoleEdit)
	h.changeStatus(t, suggestion.SuggestionID, "live", models.RoleEdit)

	forbidden := ask(t, h.system, h.pid, &AdminDeleteSuggestionMsg{
		SuggestionID: suggestion.SuggestionID,
		AdminRole:    models.RoleEdit,
	})
	appErr, ok := forbidden.(*utils.AppError)
	require.True(t, ok, "expected error, got %T", forbidden)
	assert.Equal(t, utils.ErrForbidden, appErr.Code)

	result := ask(t, h.system, h.pid, &AdminDeleteSuggestionMsg{
		SuggestionID: suggestion.SuggestionID,
		AdminRole:    models.RoleDelete,
	})
	status, ok := result.(*models.StatusResponse)
	require.True(t, ok, "expected status, got %v", result)
	assert.True(t, status.Success)

	ctx := context.Background()
	_, err := h.db.GetSuggestion(ctx, suggestion.SuggestionID)
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))

	lives, err := h.db.GetLiveSuggestions(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, lives)

	completeds, err := h.db.GetCompletedSuggestions(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, completeds)
}

func TestListActiveSuggestions(t *testing.T) {
	h := newSuggestionHarness(t)
	pending := h.createSuggestion(t, "alice", "feature")
	reviewed := h.createSuggestion(t, "bob", "bug")
	shippedLive := h.createSuggestion(t, "carol", "ui")

	h.lock(t, reviewed.SuggestionID, models.RoleEdit)
	h.lock(t, shippedLive.SuggestionID, models.RoleEdit)
	h.changeStatus(t, shippedLive.SuggestionID, "live", models.RoleEdit)

	result := ask(t, h.system, h.pid, &ListSuggestionsMsg{Filter: "active"})
	active, ok := result.([]*models.Suggestion)
	require.True(t, ok, "expected suggestions, got %T", result)
	require.Len(t, active, 2)

	ids := map[string]bool{}
	for _, s := range active {
		ids[s.SuggestionID] = true
	}
	assert.True(t, ids[pending.SuggestionID])
	assert.True(t, ids[reviewed.SuggestionID])
	assert.False(t, ids[shippedLive.SuggestionID])
}
