package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"feedback-hub/internal/engine"
	"feedback-hub/internal/engine/actors"
	"feedback-hub/internal/middleware"
	"feedback-hub/internal/models"
	"feedback-hub/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
)

// Server holds all server dependencies, including the actor system and engine
type Server struct {
	System         *actor.ActorSystem
	Context        *actor.RootContext
	Engine         *engine.Engine
	Metrics        *utils.MetricsCollector
	JWT            *middleware.JWTManager
	RequestTimeout time.Duration
}

// NewServer creates a new Server instance with the given components
func NewServer(
	system *actor.ActorSystem,
	eng *engine.Engine,
	metrics *utils.MetricsCollector,
	jwtManager *middleware.JWTManager,
) *Server {
	return &Server{
		System:         system,
		Context:        system.Root,
		Engine:         eng,
		Metrics:        metrics,
		JWT:            jwtManager,
		RequestTimeout: 5 * time.Second, // Default timeout for actor requests
	}
}

// Routes registers every endpoint on a fresh mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.HandleHealth())
	mux.HandleFunc("/metrics", s.HandleMetrics())
	mux.HandleFunc("/stats", s.HandleStats())

	mux.HandleFunc("/reviews", s.HandleReviews())
	mux.HandleFunc("/reviews/top", s.HandleTopReviews())

	mux.HandleFunc("/suggestions", s.HandleSuggestions())
	mux.HandleFunc("/suggestions/live", s.HandleLiveSuggestions())
	mux.HandleFunc("/suggestions/completed", s.HandleCompletedSuggestions())

	mux.HandleFunc("/admin/reviews/promote", s.HandlePromoteReview())
	mux.HandleFunc("/admin/suggestions/lock", s.HandleLockSuggestion())
	mux.HandleFunc("/admin/suggestions/status", s.HandleSuggestionStatus())
	mux.HandleFunc("/admin/suggestions", s.HandleAdminDeleteSuggestion())
	mux.HandleFunc("/admin/accounts", s.HandleAdminAccounts())

	return mux
}

// send bridges a request into an actor mailbox and waits for the reply.
func (s *Server) send(pid *actor.PID, msg interface{}) (interface{}, error) {
	future := s.Context.RequestFuture(pid, msg, s.RequestTimeout)
	return future.Result()
}

// respond writes the actor's reply: AppError values become their mapped HTTP
// status, everything else is encoded as JSON.
func (s *Server) respond(w http.ResponseWriter, result interface{}, err error) {
	s.Metrics.IncrementRequests()

	if err != nil {
		s.Metrics.IncrementErrors()
		http.Error(w, "actor request timed out", http.StatusGatewayTimeout)
		return
	}

	if appErr, ok := result.(*utils.AppError); ok {
		s.Metrics.IncrementErrors()
		http.Error(w, appErr.Error(), utils.AppErrorToHTTPStatus(appErr.Code))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// requireUser resolves the session and rejects anonymous callers.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	username, ok := middleware.UsernameFromContext(r.Context())
	if !ok {
		username = s.JWT.ResolveUser(r)
	}
	if !middleware.IsAuthenticated(username) {
		s.Metrics.IncrementErrors()
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return "", false
	}
	return username, true
}

// adminRole authenticates the admin headers against the AdminActor and
// returns the caller's role. The per-operation role check stays in the actor.
func (s *Server) adminRole(w http.ResponseWriter, r *http.Request) (models.AdminRole, bool) {
	username := r.Header.Get("X-Admin-Username")
	apiKey := r.Header.Get("X-API-Key")
	if username == "" || apiKey == "" {
		s.Metrics.IncrementErrors()
		http.Error(w, "admin credentials required", http.StatusUnauthorized)
		return "", false
	}

	result, err := s.send(s.Engine.GetAdminActor(), &actors.AuthenticateAdminMsg{
		Username: username,
		APIKey:   apiKey,
	})
	if err != nil {
		s.Metrics.IncrementErrors()
		http.Error(w, "actor request timed out", http.StatusGatewayTimeout)
		return "", false
	}
	if appErr, ok := result.(*utils.AppError); ok {
		s.Metrics.IncrementErrors()
		http.Error(w, appErr.Error(), utils.AppErrorToHTTPStatus(appErr.Code))
		return "", false
	}

	admin, ok := result.(*models.Admin)
	if !ok {
		s.Metrics.IncrementErrors()
		http.Error(w, "unexpected authentication response", http.StatusInternalServerError)
		return "", false
	}
	return admin.Role, true
}

// paging reads limit/offset query parameters, tolerating absence.
func paging(r *http.Request) (limit, offset int) {
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			offset = parsed
		}
	}
	return limit, offset
}
