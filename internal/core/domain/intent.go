package domain

import "time"

// IntentProfileJustCompleted suppresses one completion-gate redirect right after
// onboarding, while the caller's session token still says profileComplete=false.
const IntentProfileJustCompleted = "profileJustCompleted"

// NavigationIntent is a one-time, short-lived signal from a mutating action to the
// navigation layer. It is bound to a user and consumed on first read.
type NavigationIntent struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userID"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"createdAt"`
}
