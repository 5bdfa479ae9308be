// internal/database/memory.go
package database

import (
	"context"
	"sort"
	"sync"

	"feedback-hub/internal/models"
	"feedback-hub/internal/utils"
)

// MemoryDB is an in-memory DBAdapter used by tests and local development. It
// mirrors the MongoDB adapter's semantics: saves are upserts keyed by ID, the
// mirror deletes tolerate zero matches, and the completed mirror preserves
// its resolution date across upserts.
type MemoryDB struct {
	mu sync.RWMutex

	reviews    map[string]*models.Review
	topReviews map[string]*models.TopReview
	statsRow   *models.ReviewStats

	suggestions map[string]*models.Suggestion
	lives       map[string]*models.LiveSuggestion
	completeds  map[string]*models.CompletedSuggestion

	admins map[string]*models.Admin
}

func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		reviews:     make(map[string]*models.Review),
		topReviews:  make(map[string]*models.TopReview),
		suggestions: make(map[string]*models.Suggestion),
		lives:       make(map[string]*models.LiveSuggestion),
		completeds:  make(map[string]*models.CompletedSuggestion),
		admins:      make(map[string]*models.Admin),
	}
}

func (m *MemoryDB) Close(ctx context.Context) error {
	return nil
}

func (m *MemoryDB) SaveReview(ctx context.Context, review *models.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *review
	m.reviews[review.ReviewID] = &copied
	return nil
}

func (m *MemoryDB) GetReview(ctx context.Context, reviewID string) (*models.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	review, ok := m.reviews[reviewID]
	if !ok {
		return nil, utils.NewNotFoundError("Review", reviewID)
	}
	copied := *review
	return &copied, nil
}

func (m *MemoryDB) DeleteReview(ctx context.Context, reviewID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reviews[reviewID]; !ok {
		return utils.NewNotFoundError("Review", reviewID)
	}
	delete(m.reviews, reviewID)
	return nil
}

func (m *MemoryDB) GetUserReviews(ctx context.Context, username string) ([]*models.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var reviews []*models.Review
	for _, r := range m.reviews {
		if r.Username == username {
			copied := *r
			reviews = append(reviews, &copied)
		}
	}
	sort.Slice(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})
	return reviews, nil
}

func (m *MemoryDB) GetReviews(ctx context.Context, oldestFirst bool, limit, offset int) ([]*models.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var reviews []*models.Review
	for _, r := range m.reviews {
		copied := *r
		reviews = append(reviews, &copied)
	}
	sort.Slice(reviews, func(i, j int) bool {
		if oldestFirst {
			return reviews[i].CreatedAt.Before(reviews[j].CreatedAt)
		}
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})
	return page(reviews, limit, offset), nil
}

func (m *MemoryDB) GetTopRatedReviews(ctx context.Context, limit, offset int) ([]*models.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var reviews []*models.Review
	for _, r := range m.reviews {
		copied := *r
		reviews = append(reviews, &copied)
	}
	sort.Slice(reviews, func(i, j int) bool {
		if reviews[i].RatingStar != reviews[j].RatingStar {
			return reviews[i].RatingStar > reviews[j].RatingStar
		}
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})
	return page(reviews, limit, offset), nil
}

func (m *MemoryDB) UpsertTopReview(ctx context.Context, top *models.TopReview) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *top
	m.topReviews[top.ReviewID] = &copied
	return nil
}

func (m *MemoryDB) UpdateTopReviewSnapshots(ctx context.Context, reviewID, comment string, rating int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if top, ok := m.topReviews[reviewID]; ok {
		top.Comment = comment
		top.RatingStar = rating
	}
	return nil
}

func (m *MemoryDB) DeleteTopReviews(ctx context.Context, reviewID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.topReviews, reviewID)
	return nil
}

func (m *MemoryDB) GetTopReviews(ctx context.Context, limit, offset int) ([]*models.TopReview, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var tops []*models.TopReview
	for _, t := range m.topReviews {
		copied := *t
		tops = append(tops, &copied)
	}
	sort.Slice(tops, func(i, j int) bool {
		return tops[i].CreatedAt.After(tops[j].CreatedAt)
	})
	return page(tops, limit, offset), nil
}

func (m *MemoryDB) GetReviewStats(ctx context.Context) (*models.ReviewStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.statsRow == nil {
		return nil, utils.NewAppError(utils.ErrNotFound, "review stats not initialized", nil)
	}
	copied := *m.statsRow
	return &copied, nil
}

func (m *MemoryDB) SaveReviewStats(ctx context.Context, stats *models.ReviewStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *stats
	m.statsRow = &copied
	return nil
}

func (m *MemoryDB) SaveSuggestion(ctx context.Context, suggestion *models.Suggestion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *suggestion
	m.suggestions[suggestion.SuggestionID] = &copied
	return nil
}

func (m *MemoryDB) GetSuggestion(ctx context.Context, suggestionID string) (*models.Suggestion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	suggestion, ok := m.suggestions[suggestionID]
	if !ok {
		return nil, utils.NewNotFoundError("Suggestion", suggestionID)
	}
	copied := *suggestion
	return &copied, nil
}

func (m *MemoryDB) DeleteSuggestion(ctx context.Context, suggestionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.suggestions[suggestionID]; !ok {
		return utils.NewNotFoundError("Suggestion", suggestionID)
	}
	delete(m.suggestions, suggestionID)
	return nil
}

func (m *MemoryDB) GetUserSuggestions(ctx context.Context, username string) ([]*models.Suggestion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var suggestions []*models.Suggestion
	for _, s := range m.suggestions {
		if s.Username == username {
			copied := *s
			suggestions = append(suggestions, &copied)
		}
	}
	sort.Slice(suggestions, func(i, j int) bool {
		return suggestions[i].CreatedAt.After(suggestions[j].CreatedAt)
	})
	return suggestions, nil
}

func (m *MemoryDB) GetSuggestionsByStatus(ctx context.Context, statuses []models.SuggestionStatus, limit, offset int) ([]*models.Suggestion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	wanted := make(map[models.SuggestionStatus]bool, len(statuses))
	for _, s := range statuses {
		wanted[s] = true
	}

	var suggestions []*models.Suggestion
	for _, s := range m.suggestions {
		if len(wanted) == 0 || wanted[s.SuggestionStatus] {
			copied := *s
			suggestions = append(suggestions, &copied)
		}
	}
	sort.Slice(suggestions, func(i, j int) bool {
		return suggestions[i].CreatedAt.After(suggestions[j].CreatedAt)
	})
	return page(suggestions, limit, offset), nil
}

func (m *MemoryDB) UpsertLiveSuggestion(ctx context.Context, live *models.LiveSuggestion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *live
	m.lives[live.SuggestionID] = &copied
	return nil
}

func (m *MemoryDB) DeleteLiveSuggestions(ctx context.Context, suggestionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.lives, suggestionID)
	return nil
}

func (m *MemoryDB) GetLiveSuggestions(ctx context.Context, limit, offset int) ([]*models.LiveSuggestion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var lives []*models.LiveSuggestion
	for _, l := range m.lives {
		copied := *l
		lives = append(lives, &copied)
	}
	sort.Slice(lives, func(i, j int) bool {
		return lives[i].CreatedAt.After(lives[j].CreatedAt)
	})
	return page(lives, limit, offset), nil
}

func (m *MemoryDB) UpsertCompletedSuggestion(ctx context.Context, completed *models.CompletedSuggestion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.completeds[completed.SuggestionID]; ok {
		// ResolutionDate is written only on first insert.
		existing.CreatedAt = completed.CreatedAt
		existing.AcceptedAt = completed.AcceptedAt
		return nil
	}
	copied := *completed
	m.completeds[completed.SuggestionID] = &copied
	return nil
}

func (m *MemoryDB) DeleteCompletedSuggestions(ctx context.Context, suggestionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.completeds, suggestionID)
	return nil
}

func (m *MemoryDB) GetCompletedSuggestions(ctx context.Context, limit, offset int) ([]*models.CompletedSuggestion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var completeds []*models.CompletedSuggestion
	for _, c := range m.completeds {
		copied := *c
		completeds = append(completeds, &copied)
	}
	sort.Slice(completeds, func(i, j int) bool {
		return completeds[i].ResolutionDate.After(completeds[j].ResolutionDate)
	})
	return page(completeds, limit, offset), nil
}

func (m *MemoryDB) SaveAdmin(ctx context.Context, admin *models.Admin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *admin
	m.admins[admin.Username] = &copied
	return nil
}

func (m *MemoryDB) GetAdmin(ctx context.Context, username string) (*models.Admin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	admin, ok := m.admins[username]
	if !ok {
		return nil, utils.NewNotFoundError("Admin", username)
	}
	copied := *admin
	return &copied, nil
}

func (m *MemoryDB) GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, admin := range m.admins {
		if admin.Email == email {
			copied := *admin
			return &copied, nil
		}
	}
	return nil, utils.NewNotFoundError("Admin", email)
}

func (m *MemoryDB) GetAdminByPhone(ctx context.Context, phone string) (*models.Admin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, admin := range m.admins {
		if admin.PhoneNumber == phone {
			copied := *admin
			return &copied, nil
		}
	}
	return nil, utils.NewNotFoundError("Admin", phone)
}

func (m *MemoryDB) DeleteAdmin(ctx context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.admins[username]; !ok {
		return utils.NewNotFoundError("Admin", username)
	}
	delete(m.admins, username)
	return nil
}

func (m *MemoryDB) CountAdminsByRole(ctx context.Context, role models.AdminRole) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, admin := range m.admins {
		if admin.Role == role {
			count++
		}
	}
	return count, nil
}

func page[T any](items []*T, limit, offset int) []*T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
