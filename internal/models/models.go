package models

// StatusResponse is the generic success/failure result returned by actor
// operations that have no richer payload.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
