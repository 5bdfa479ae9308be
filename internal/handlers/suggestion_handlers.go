package handlers

import (
	"encoding/json"
	"net/http"

	"feedback-hub/internal/engine/actors"
	"feedback-hub/internal/models"
)

// CreateSuggestionRequest represents a request to submit a suggestion
type CreateSuggestionRequest struct {
	Name        string                `json:"name"`
	Category    string                `json:"suggestionCategory"`
	Description string                `json:"suggestionDescription"`
	Files       []models.AttachedFile `json:"files,omitempty"`
}

// EditSuggestionRequest represents a request to modify a suggestion
type EditSuggestionRequest struct {
	SuggestionID string                `json:"suggestionId"`
	Category     string                `json:"suggestionCategory"`
	Description  string                `json:"suggestionDescription"`
	Files        []models.AttachedFile `json:"files,omitempty"`
}

// HandleSuggestions handles suggestion CRUD and listing
func (s *Server) HandleSuggestions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			username, ok := s.requireUser(w, r)
			if !ok {
				return
			}

			var req CreateSuggestionRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}

			result, err := s.send(s.Engine.GetSuggestionActor(), &actors.CreateSuggestionMsg{
				Username:    username,
				Name:        req.Name,
				Category:    req.Category,
				Description: req.Description,
				Files:       req.Files,
			})
			s.respond(w, result, err)

		case http.MethodPut:
			username, ok := s.requireUser(w, r)
			if !ok {
				return
			}

			var req EditSuggestionRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			if req.SuggestionID == "" {
				http.Error(w, "suggestionId is required", http.StatusBadRequest)
				return
			}

			result, err := s.send(s.Engine.GetSuggestionActor(), &actors.EditSuggestionMsg{
				SuggestionID: req.SuggestionID,
				Username:     username,
				Category:     req.Category,
				Description:  req.Description,
				Files:        req.Files,
			})
			s.respond(w, result, err)

		case http.MethodDelete:
			username, ok := s.requireUser(w, r)
			if !ok {
				return
			}

			suggestionID := r.URL.Query().Get("id")
			if suggestionID == "" {
				http.Error(w, "id is required", http.StatusBadRequest)
				return
			}

			result, err := s.send(s.Engine.GetSuggestionActor(), &actors.DeleteSuggestionMsg{
				SuggestionID: suggestionID,
				Username:     username,
			})
			s.respond(w, result, err)

		case http.MethodGet:
			if suggestionID := r.URL.Query().Get("id"); suggestionID != "" {
				result, err := s.send(s.Engine.GetSuggestionActor(), &actors.GetSuggestionMsg{SuggestionID: suggestionID})
				s.respond(w, result, err)
				return
			}

			if username := r.URL.Query().Get("username"); username != "" {
				result, err := s.send(s.Engine.GetSuggestionActor(), &actors.GetUserSuggestionsMsg{Username: username})
				s.respond(w, result, err)
				return
			}

			limit, offset := paging(r)
			result, err := s.send(s.Engine.GetSuggestionActor(), &actors.ListSuggestionsMsg{
				Filter: r.URL.Query().Get("filter"),
				Limit:  limit,
				Offset: offset,
			})
			s.respond(w, result, err)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandleLiveSuggestions lists the live mirror
func (s *Server) HandleLiveSuggestions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		limit, offset := paging(r)
		result, err := s.send(s.Engine.GetSuggestionActor(), &actors.ListLiveSuggestionsMsg{
			Limit:  limit,
			Offset: offset,
		})
		s.respond(w, result, err)
	}
}

// HandleCompletedSuggestions lists the completed mirror
func (s *Server) HandleCompletedSuggestions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		limit, offset := paging(r)
		result, err := s.send(s.Engine.GetSuggestionActor(), &actors.ListCompletedSuggestionsMsg{
			Limit:  limit,
			Offset: offset,
		})
		s.respond(w, result, err)
	}
}

// HandleLockSuggestion freezes a suggestion for review (admin only)
func (s *Server) HandleLockSuggestion() http.HandlerFunc {
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
			SuggestionID string `json:"suggestionId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SuggestionID == "" {
			http.Error(w, "suggestionId is required", http.StatusBadRequest)
			return
		}

		result, err := s.send(s.Engine.GetSuggestionActor(), &actors.LockSuggestionMsg{
			SuggestionID: req.SuggestionID,
			AdminRole:    role,
		})
		s.respond(w, result, err)
	}
}

// HandleSuggestionStatus applies an admin status transition
func (s *Server) HandleSuggestionStatus() http.HandlerFunc {
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
			SuggestionID string `json:"suggestionId"`
			Status       string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SuggestionID == "" {
			http.Error(w, "suggestionId and status are required", http.StatusBadRequest)
			return
		}

		result, err := s.send(s.Engine.GetSuggestionActor(), &actors.ChangeSuggestionStatusMsg{
			SuggestionID: req.SuggestionID,
			Status:       req.Status,
			AdminRole:    role,
		})
		s.respond(w, result, err)
	}
}

// HandleAdminDeleteSuggestion removes a suggestion and its mirrors
func (s *Server) HandleAdminDeleteSuggestion() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		role, ok := s.adminRole(w, r)
		if !ok {
			return
		}

		suggestionID := r.URL.Query().Get("id")
		if suggestionID == "" {
			http.Error(w, "id is required", http.StatusBadRequest)
			return
		}

		result, err := s.send(s.Engine.GetSuggestionActor(), &actors.AdminDeleteSuggestionMsg{
			SuggestionID: suggestionID,
			AdminRole:    role,
		})
		s.respond(w, result, err)
	}
}
