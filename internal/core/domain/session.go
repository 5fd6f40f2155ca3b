package domain

import "time"

// SessionTrigger describes why a session token is being (re)issued.
type SessionTrigger string

const (
	// TriggerSignIn is a fresh sign-in; derived fields are re-read and the lifetime restarts.
	TriggerSignIn SessionTrigger = "signIn"
	// TriggerUpdate is a caller-forced reload; derived fields are re-read, expiry is kept.
	TriggerUpdate SessionTrigger = "update"
	// TriggerValidate re-validates an existing token without touching the store.
	TriggerValidate SessionTrigger = "validate"
)

// SessionClaims is the payload embedded in the signed session token.
type SessionClaims struct {
	SubjectID       string
	Email           string
	Name            string
	Image           string
	ProfileComplete bool
	Username        *string
	IssuedAt        time.Time
	ExpiresAt       time.Time
}

// SessionEvent is the input of a token issue or refresh.
// Identity is set for TriggerSignIn, Previous for TriggerUpdate and TriggerValidate.
type SessionEvent struct {
	Trigger  SessionTrigger
	Identity *Identity
	Previous *SessionClaims
}

// SessionView is the read-only session projection exposed to the rest of the application.
type SessionView struct {
	ID              string  `json:"id"`
	Email           string  `json:"email"`
	Name            string  `json:"name,omitempty"`
	Image           string  `json:"image,omitempty"`
	ProfileComplete bool    `json:"profileComplete"`
	Username        *string `json:"username"`
	Expires         string  `json:"expires"`
}
