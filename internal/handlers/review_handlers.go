package handlers

import (
	"encoding/json"
	"net/http"

	"feedback-hub/internal/engine/actors"
	"feedback-hub/internal/models"
)

// CreateReviewRequest represents a request to create a new review
type CreateReviewRequest struct {
	Name       string                `json:"name"`
	Comment    string                `json:"comment"`
	RatingStar int                   `json:"ratingStar"`
	Files      []models.AttachedFile `json:"files,omitempty"`
}

// EditReviewRequest represents a request to modify an existing review
type EditReviewRequest struct {
	ReviewID   string                `json:"reviewId"`
	Comment    string                `json:"comment"`
	RatingStar int                   `json:"ratingStar"`
	Files      []models.AttachedFile `json:"files,omitempty"`
}

// HandleReviews handles review CRUD and listing
func (s *Server) HandleReviews() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			username, ok := s.requireUser(w, r)
			if !ok {
				return
			}

			var req CreateReviewRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}

			result, err := s.send(s.Engine.GetReviewActor(), &actors.CreateReviewMsg{
				Name:       req.Name,
				Username:   username,
				Comment:    req.Comment,
				RatingStar: req.RatingStar,
				Files:      req.Files,
			})
			s.respond(w, result, err)

		case http.MethodPut:
			username, ok := s.requireUser(w, r)
			if !ok {
				return
			}

			var req EditReviewRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			if req.ReviewID == "" {
				http.Error(w, "reviewId is required", http.StatusBadRequest)
				return
			}

			result, err := s.send(s.Engine.GetReviewActor(), &actors.EditReviewMsg{
				ReviewID:   req.ReviewID,
				Username:   username,
				Comment:    req.Comment,
				RatingStar: req.RatingStar,
				Files:      req.Files,
			})
			s.respond(w, result, err)

		case http.MethodDelete:
			username, ok := s.requireUser(w, r)
			if !ok {
				return
			}

			reviewID := r.URL.Query().Get("id")
			if reviewID == "" {
				http.Error(w, "id is required", http.StatusBadRequest)
				return
			}

			result, err := s.send(s.Engine.GetReviewActor(), &actors.DeleteReviewMsg{
				ReviewID: reviewID,
				Username: username,
			})
			s.respond(w, result, err)

		case http.MethodGet:
			if reviewID := r.URL.Query().Get("id"); reviewID != "" {
				result, err := s.send(s.Engine.GetReviewActor(), &actors.GetReviewMsg{ReviewID: reviewID})
				s.respond(w, result, err)
				return
			}

			if username := r.URL.Query().Get("username"); username != "" {
				result, err := s.send(s.Engine.GetReviewActor(), &actors.GetUserReviewsMsg{Username: username})
				s.respond(w, result, err)
				return
			}

			limit, offset := paging(r)
			result, err := s.send(s.Engine.GetReviewActor(), &actors.ListReviewsMsg{
				Sort:   r.URL.Query().Get("sort"),
				Limit:  limit,
				Offset: offset,
			})
			s.respond(w, result, err)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandleTopReviews lists the curated top-review mirror
func (s *Server) HandleTopReviews() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		limit, offset := paging(r)
		result, err := s.send(s.Engine.GetReviewActor(), &actors.ListTopReviewsMsg{
			Limit:  limit,
			Offset: offset,
		})
		s.respond(w, result, err)
	}
}

// HandlePromoteReview marks a review as a top review (admin only)
func (s *Server) HandlePromoteReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		role, ok := s.adminRole(w, r)
		if !ok {
			return
		}

		var req struct {
			ReviewID string `json:"reviewId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ReviewID == "" {
			http.Error(w, "reviewId is required", http.StatusBadRequest)
			return
		}

		result, err := s.send(s.Engine.GetReviewActor(), &actors.PromoteReviewMsg{
			ReviewID:  req.ReviewID,
			AdminRole: role,
		})
		s.respond(w, result, err)
	}
}
