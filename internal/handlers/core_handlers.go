package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"feedback-hub/internal/engine/actors"
	"feedback-hub/internal/models"
)

// HandleHealth handles health check requests
func (s *Server) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		result, err := s.send(s.Engine.GetStatsActor(), &actors.GetStatsMsg{})
		if err != nil {
			http.Error(w, "Failed to reach stats actor", http.StatusInternalServerError)
			return
		}

		reviewCount := 0
		if statsRow, ok := result.(*models.ReviewStats); ok {
			reviewCount = statsRow.TotalReviews
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":       "healthy",
			"review_count": reviewCount,
			"server_time":  time.Now(),
		})
	}
}

// HandleStats returns the review-statistics aggregate
func (s *Server) HandleStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		result, err := s.send(s.Engine.GetStatsActor(), &actors.GetStatsMsg{})
		s.respond(w, result, err)
	}
}

// HandleMetrics exposes the in-process metrics snapshot
func (s *Server) HandleMetrics() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(s.Metrics.Snapshot())
	}
}
