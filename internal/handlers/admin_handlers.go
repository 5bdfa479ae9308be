package handlers

import (
	"encoding/json"
	"net/http"

	"feedback-hub/internal/engine/actors"
)

// CreateAdminRequest represents a request to create an admin account
type CreateAdminRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Role        string `json:"role"`
}

// HandleAdminAccounts handles admin account creation and removal. Both
// operations require superAdmin credentials; the actor enforces the role.
func (s *Server) HandleAdminAccounts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			role, ok := s.adminRole(w, r)
			if !ok {
				return
			}

			var req CreateAdminRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}

			result, err := s.send(s.Engine.GetAdminActor(), &actors.CreateAdminMsg{
				Username:    req.Username,
				Email:       req.Email,
				PhoneNumber: req.PhoneNumber,
				Role:        req.Role,
				ActorRole:   role,
			})
			s.respond(w, result, err)

		case http.MethodDelete:
			role, ok := s.adminRole(w, r)
			if !ok {
				return
			}

			username := r.URL.Query().Get("username")
			if username == "" {
				http.Error(w, "username is required", http.StatusBadRequest)
				return
			}

			result, err := s.send(s.Engine.GetAdminActor(), &actors.RemoveAdminMsg{
				Username:  username,
				ActorRole: role,
			})
			s.respond(w, result, err)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}
