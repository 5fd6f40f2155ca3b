package dto

import "github.com/SscSPs/trakmymedia/internal/core/domain"

// SignupResponse is returned by a successful registration.
type SignupResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// CompleteProfileResponse is returned by a successful onboarding.
// Intent is the one-time navigation intent the client hands back to the gate.
type CompleteProfileResponse struct {
	Success          bool         `json:"success"`
	Message          string       `json:"message"`
	User             UserResponse `json:"user"`
	NotificationSent bool         `json:"notificationSent"`
	Intent           string       `json:"intent,omitempty"`
}

// SessionResponse carries a freshly signed session token and its projection.
type SessionResponse struct {
	Token   string             `json:"token"`
	Session domain.SessionView `json:"session"`
}

// GateResponse is the outcome of one gate evaluation.
type GateResponse struct {
	State      string `json:"state"`
	Action     string `json:"action"`
	Location   string `json:"location,omitempty"`
	ShowNavbar bool   `json:"showNavbar"`
}

// HealthDBResponse reports store connectivity.
type HealthDBResponse struct {
	Success bool  `json:"success"`
	Users   int64 `json:"users"`
}

// CategoryResponse is one media category shell.
type CategoryResponse struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	Path string `json:"path"`
}
