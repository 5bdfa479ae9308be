package models

import (
	"time"
)

// SuggestionStatus represents the moderation state of a suggestion.
type SuggestionStatus string

const (
	StatusPending     SuggestionStatus = "pending"
	StatusUnderReview SuggestionStatus = "underReview"
	StatusLive        SuggestionStatus = "live"
	StatusCompleted   SuggestionStatus = "completed"
	StatusRejected    SuggestionStatus = "rejected"
)

// ParseSuggestionStatus maps free-form input onto the closed status set,
// falling back to StatusPending for anything unrecognized.
func ParseSuggestionStatus(s string) SuggestionStatus {
	switch SuggestionStatus(s) {
	case StatusPending, StatusUnderReview, StatusLive, StatusCompleted, StatusRejected:
		return SuggestionStatus(s)
	default:
		return StatusPending
	}
}

// IsKnownSuggestionStatus reports whether s names a status in the closed set.
func IsKnownSuggestionStatus(s string) bool {
	switch SuggestionStatus(s) {
	case StatusPending, StatusUnderReview, StatusLive, StatusCompleted, StatusRejected:
		return true
	default:
		return false
	}
}

// SuggestionCategory classifies a suggestion.
type SuggestionCategory string

const (
	CategoryBug         SuggestionCategory = "bug"
	CategoryFeature     SuggestionCategory = "feature"
	CategoryImprovement SuggestionCategory = "improvement"
	CategoryUI          SuggestionCategory = "ui"
	CategoryOthers      SuggestionCategory = "others"
)

// ParseSuggestionCategory maps free-form input onto the closed category set,
// falling back to CategoryOthers for anything unrecognized.
func ParseSuggestionCategory(s string) SuggestionCategory {
	switch SuggestionCategory(s) {
	case CategoryBug, CategoryFeature, CategoryImprovement, CategoryUI, CategoryOthers:
		return SuggestionCategory(s)
	default:
		return CategoryOthers
	}
}

// MaxDescriptionLength bounds SuggestionDescription.
const MaxDescriptionLength = 2500

// Suggestion is an improvement request submitted by an end user.
// SuggestionID and Username are immutable. While Accepted is false the owner
// may modify or delete it; once an admin locks it (Accepted=true) the content
// is frozen and only admin status transitions apply.
type Suggestion struct {
	SuggestionID          string             `json:"suggestionId"`
	Username              string             `json:"username"`
	Name                  string             `json:"name"`
	SuggestionCategory    SuggestionCategory `json:"suggestionCategory"`
	SuggestionDescription string             `json:"suggestionDescription"`
	Files                 []AttachedFile     `json:"files"`
	SuggestionStatus      SuggestionStatus   `json:"suggestionStatus"`
	Accepted              bool               `json:"accepted"`
	AcceptedAt            *time.Time         `json:"acceptedAt,omitempty"`
	CreatedAt             time.Time          `json:"createdAt"`
	LastModified          time.Time          `json:"lastModified"`
}

// LiveSuggestion mirrors a suggestion whose status is "live". A suggestion
// has at most one of {LiveSuggestion, CompletedSuggestion} at any time.
type LiveSuggestion struct {
	SuggestionID string     `json:"suggestionId"`
	CreatedAt    time.Time  `json:"createdAt"`
	AcceptedAt   *time.Time `json:"acceptedAt,omitempty"`
}

// CompletedSuggestion mirrors a suggestion whose status is "completed".
// ResolutionDate is set when the row is first created and preserved on
// subsequent upserts.
type CompletedSuggestion struct {
	SuggestionID   string     `json:"suggestionId"`
	CreatedAt      time.Time  `json:"createdAt"`
	AcceptedAt     *time.Time `json:"acceptedAt,omitempty"`
	ResolutionDate time.Time  `json:"resolutionDate"`
}
