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
	"feedback-hub/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Message types for suggestion operations
type (
	CreateSuggestionMsg struct {
		Username    string                `json:"username"`
		Name        string                `json:"name"`
		Category    string                `json:"suggestionCategory"`
		Description string                `json:"suggestionDescription"`
		Files       []models.AttachedFile `json:"files,omitempty"`
	}

	EditSuggestionMsg struct {
		SuggestionID string                `json:"suggestionId"`
		Username     string                `json:"username"`
		Category     string                `json:"suggestionCategory"`
		Description  string                `json:"suggestionDescription"`
		Files        []models.AttachedFile `json:"files,omitempty"`
	}

	DeleteSuggestionMsg struct {
		SuggestionID string `json:"suggestionId"`
		Username     string `json:"username"`
	}

	// LockSuggestionMsg freezes a suggestion for owner edits and moves it
	// under review. Admin-only.
	LockSuggestionMsg struct {
		SuggestionID string           `json:"suggestionId"`
		AdminRole    models.AdminRole `json:"-"`
	}

	ChangeSuggestionStatusMsg struct {
		SuggestionID string           `json:"suggestionId"`
		Status       string           `json:"status"`
		AdminRole    models.AdminRole `json:"-"`
	}

	// AdminDeleteSuggestionMsg removes the suggestion and both mirror rows,
	// unlike the owner delete path which removes the row only.
	AdminDeleteSuggestionMsg struct {
		SuggestionID string           `json:"suggestionId"`
		AdminRole    models.AdminRole `json:"-"`
	}

	GetSuggestionMsg struct {
		SuggestionID string `json:"suggestionId"`
	}

	GetUserSuggestionsMsg struct {
		Username string `json:"username"`
	}

	// ListSuggestionsMsg pages through suggestions. Filter is one of
	// "active" (pending + underReview), "live", "completed", "rejected" or
	// "" for all.
	ListSuggestionsMsg struct {
		Filter string `json:"filter"`
		Limit  int    `json:"limit"`
		Offset int    `json:"offset"`
	}

	ListLiveSuggestionsMsg struct {
		Limit  int `json:"limit"`
		Offset int `json:"offset"`
	}

	ListCompletedSuggestionsMsg struct {
		Limit  int `json:"limit"`
		Offset int `json:"offset"`
	}
)

// SuggestionActor orchestrates the suggestion lifecycle and the
// accepted/locked state machine. Owners may modify or delete only while
// accepted is false; after a lock, only admin status transitions apply, and
// the live/completed mirrors follow those transitions.
type SuggestionActor struct {
	db      database.DBAdapter
	sync    *mirror.Synchronizer
	metrics *utils.MetricsCollector
}

func NewSuggestionActor(db database.DBAdapter, sync *mirror.Synchronizer, metrics *utils.MetricsCollector) actor.Actor {
	return &SuggestionActor{
		db:      db,
		sync:    sync,
		metrics: metrics,
	}
}

func (a *SuggestionActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("SuggestionActor started")

	case *CreateSuggestionMsg:
		a.handleCreateSuggestion(context, msg)

	case *EditSuggestionMsg:
		a.handleEditSuggestion(context, msg)

	case *DeleteSuggestionMsg:
		a.handleDeleteSuggestion(context, msg)

	case *LockSuggestionMsg:
		a.handleLockSuggestion(context, msg)

	case *ChangeSuggestionStatusMsg:
		a.handleChangeStatus(context, msg)

	case *AdminDeleteSuggestionMsg:
		a.handleAdminDelete(context, msg)

	case *GetSuggestionMsg:
		a.handleGetSuggestion(context, msg)

	case *GetUserSuggestionsMsg:
		a.handleGetUserSuggestions(context, msg)

	case *ListSuggestionsMsg:
		a.handleListSuggestions(context, msg)

	case *ListLiveSuggestionsMsg:
		a.handleListLive(context, msg)

	case *ListCompletedSuggestionsMsg:
		a.handleListCompleted(context, msg)

	default:
		log.Printf("SuggestionActor: Unknown message type %T", msg)
	}
}

func (a *SuggestionActor) handleCreateSuggestion(context actor.Context, msg *CreateSuggestionMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if msg.Username == "" || msg.Name == "" {
		context.Respond(utils.NewValidationError("name and username are required"))
		return
	}
	if len(msg.Description) > models.MaxDescriptionLength {
		context.Respond(utils.NewValidationError(fmt.Sprintf("description exceeds %d characters", models.MaxDescriptionLength)))
		return
	}

	sanitized, err := files.Validate(msg.Files)
	if err != nil {
		context.Respond(err)
		return
	}

	now := time.Now()
	newSuggestion := &models.Suggestion{
		SuggestionID:          uuid.New().String(),
		Username:              msg.Username,
		Name:                  msg.Name,
		SuggestionCategory:    models.ParseSuggestionCategory(msg.Category),
		SuggestionDescription: msg.Description,
		Files:                 sanitized,
		SuggestionStatus:      models.StatusPending,
		Accepted:              false,
		CreatedAt:             now,
		LastModified:          now,
	}

	if err := a.db.SaveSuggestion(ctx, newSuggestion); err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to save suggestion", err))
		return
	}

	a.metrics.AddOperationLatency("create_suggestion", time.Since(startTime))
	context.Respond(newSuggestion)
}

// ownerPreconditions runs the owner-gated checks in the required order:
// exists, then not accepted, then ownership. Each failure gets its own
// distinct error.
func (a *SuggestionActor) ownerPreconditions(ctx stdctx.Context, suggestionID, username, verb string) (*models.Suggestion, *utils.AppError) {
	suggestion, err := a.db.GetSuggestion(ctx, suggestionID)
	if err != nil {
		if appErr, ok := err.(*utils.AppError); ok {
			return nil, appErr
		}
		return nil, utils.NewAppError(utils.ErrDatabase, "Failed to fetch suggestion", err)
	}

	if suggestion.Accepted {
		return nil, utils.NewAppError(utils.ErrAlreadyAccepted,
			fmt.Sprintf("suggestion already accepted for review, cannot %s", verb), nil)
	}

	if suggestion.Username != username {
		return nil, utils.NewUnauthorizedError(fmt.Sprintf("only the suggestion owner may %s it", verb))
	}

	return suggestion, nil
}

func (a *SuggestionActor) handleEditSuggestion(context actor.Context, msg *EditSuggestionMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	suggestion, appErr := a.ownerPreconditions(ctx, msg.SuggestionID, msg.Username, "modify")
	if appErr != nil {
		context.Respond(appErr)
		return
	}

	if len(msg.Description) > models.MaxDescriptionLength {
		context.Respond(utils.NewValidationError(fmt.Sprintf("description exceeds %d characters", models.MaxDescriptionLength)))
		return
	}

	sanitized, err := files.Validate(msg.Files)
	if err != nil {
		context.Respond(err)
		return
	}

	suggestion.SuggestionCategory = models.ParseSuggestionCategory(msg.Category)
	suggestion.SuggestionDescription = msg.Description
	suggestion.Files = sanitized // files collection overwritten wholesale
	suggestion.LastModified = time.Now()

	if err := a.db.SaveSuggestion(ctx, suggestion); err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to update suggestion", err))
		return
	}

	a.metrics.AddOperationLatency("edit_suggestion", time.Since(startTime))
	context.Respond(suggestion)
}

func (a *SuggestionActor) handleDeleteSuggestion(context actor.Context, msg *DeleteSuggestionMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	_, appErr := a.ownerPreconditions(ctx, msg.SuggestionID, msg.Username, "delete")
	if appErr != nil {
		context.Respond(appErr)
		return
	}

	// Row only. Owner deletion requires accepted == false, and mirrors are
	// created only after a lock sets accepted, so no mirror rows can exist
	// here.
	if err := a.db.DeleteSuggestion(ctx, msg.SuggestionID); err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to delete suggestion", err))
		return
	}

	a.metrics.AddOperationLatency("delete_suggestion", time.Since(startTime))
	context.Respond(&models.StatusResponse{Success: true, Message: "Suggestion deleted"})
}

func (a *SuggestionActor) handleLockSuggestion(context actor.Context, msg *LockSuggestionMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if !msg.AdminRole.CanLock() {
		context.Respond(utils.NewForbiddenError("role may not lock suggestions"))
		return
	}

	suggestion, err := a.db.GetSuggestion(ctx, msg.SuggestionID)
	if err != nil {
		context.Respond(err)
		return
	}

	if suggestion.Accepted {
		context.Respond(utils.NewAppError(utils.ErrAlreadyAccepted, "suggestion is already locked", nil))
		return
	}

	now := time.Now()
	suggestion.Accepted = true
	suggestion.AcceptedAt = &now
	suggestion.SuggestionStatus = models.StatusUnderReview
	suggestion.LastModified = now

	if err := a.db.SaveSuggestion(ctx, suggestion); err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to lock suggestion", err))
		return
	}

	a.metrics.AddOperationLatency("lock_suggestion", time.Since(startTime))
	context.Respond(suggestion)
}

func (a *SuggestionActor) handleChangeStatus(context actor.Context, msg *ChangeSuggestionStatusMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if !msg.AdminRole.CanLock() {
		context.Respond(utils.NewForbiddenError("role may not change suggestion status"))
		return
	}

	if !models.IsKnownSuggestionStatus(msg.Status) {
		context.Respond(utils.NewValidationError(fmt.Sprintf("unknown suggestion status %q", msg.Status)))
		return
	}
	newStatus := models.ParseSuggestionStatus(msg.Status)

	suggestion, err := a.db.GetSuggestion(ctx, msg.SuggestionID)
	if err != nil {
		context.Respond(err)
		return
	}

	suggestion.SuggestionStatus = newStatus
	suggestion.LastModified = time.Now()

	if err := a.db.SaveSuggestion(ctx, suggestion); err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to update suggestion status", err))
		return
	}

	// Mirror sync enforces mutual exclusivity between the live and
	// completed tables. Failures after the primary write are logged only.
	switch newStatus {
	case models.StatusLive:
		if err := a.sync.SetSuggestionLive(ctx, suggestion.SuggestionID, suggestion.CreatedAt, suggestion.AcceptedAt); err != nil {
			log.Printf("SuggestionActor: live mirror sync failed for %s: %v", suggestion.SuggestionID, err)
		}
	case models.StatusCompleted:
		if err := a.sync.SetSuggestionCompleted(ctx, suggestion.SuggestionID, suggestion.CreatedAt, suggestion.AcceptedAt); err != nil {
			log.Printf("SuggestionActor: completed mirror sync failed for %s: %v", suggestion.SuggestionID, err)
		}
	}

	a.metrics.AddOperationLatency("change_suggestion_status", time.Since(startTime))
	context.Respond(suggestion)
}

func (a *SuggestionActor) handleAdminDelete(context actor.Context, msg *AdminDeleteSuggestionMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if !msg.AdminRole.CanDelete() {
		context.Respond(utils.NewForbiddenError("role may not delete suggestions"))
		return
	}

	if _, err := a.db.GetSuggestion(ctx, msg.SuggestionID); err != nil {
		context.Respond(err)
		return
	}

	if err := a.db.DeleteSuggestion(ctx, msg.SuggestionID); err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to delete suggestion", err))
		return
	}

	if err := a.sync.RemoveSuggestionMirrors(ctx, msg.SuggestionID); err != nil {
		log.Printf("SuggestionActor: mirror cleanup failed for %s: %v", msg.SuggestionID, err)
	}

	a.metrics.AddOperationLatency("admin_delete_suggestion", time.Since(startTime))
	context.Respond(&models.StatusResponse{Success: true, Message: "Suggestion and mirrors deleted"})
}

func (a *SuggestionActor) handleGetSuggestion(context actor.Context, msg *GetSuggestionMsg) {
	suggestion, err := a.db.GetSuggestion(stdctx.Background(), msg.SuggestionID)
	if err != nil {
		context.Respond(err)
		return
	}
	context.Respond(suggestion)
}

func (a *SuggestionActor) handleGetUserSuggestions(context actor.Context, msg *GetUserSuggestionsMsg) {
	suggestions, err := a.db.GetUserSuggestions(stdctx.Background(), msg.Username)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to fetch suggestions", err))
		return
	}
	context.Respond(suggestions)
}

func (a *SuggestionActor) handleListSuggestions(context actor.Context, msg *ListSuggestionsMsg) {
	var statuses []models.SuggestionStatus
	switch msg.Filter {
	case "active":
		statuses = []models.SuggestionStatus{models.StatusPending, models.StatusUnderReview}
	case "live":
		statuses = []models.SuggestionStatus{models.StatusLive}
	case "completed":
		statuses = []models.SuggestionStatus{models.StatusCompleted}
	case "rejected":
		statuses = []models.SuggestionStatus{models.StatusRejected}
	}

	suggestions, err := a.db.GetSuggestionsByStatus(stdctx.Background(), statuses, msg.Limit, msg.Offset)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to fetch suggestions", err))
		return
	}
	context.Respond(suggestions)
}

func (a *SuggestionActor) handleListLive(context actor.Context, msg *ListLiveSuggestionsMsg) {
	lives, err := a.db.GetLiveSuggestions(stdctx.Background(), msg.Limit, msg.Offset)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to fetch live suggestions", err))
		return
	}
	context.Respond(lives)
}

func (a *SuggestionActor) handleListCompleted(context actor.Context, msg *ListCompletedSuggestionsMsg) {
	completeds, err := a.db.GetCompletedSuggestions(stdctx.Background(), msg.Limit, msg.Offset)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to fetch completed suggestions", err))
		return
	}
	context.Respond(completeds)
}
