package domain

// WelcomeNotification is handed to the notification collaborator after a user
// finishes registration or onboarding.
type WelcomeNotification struct {
	UserID string `json:"userID"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// NotificationResult reports whether a notification was handed off. It is inspected
// for logging and the response flag, never turned into a request failure.
type NotificationResult struct {
	Sent bool
	Err  error
}
