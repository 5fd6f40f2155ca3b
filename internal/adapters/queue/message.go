// Package queue publishes and consumes welcome notifications over Kafka.
package queue

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/SscSPs/trakmymedia/internal/core/domain"
)

// welcomeMessage is the wire shape of a welcome notification on the topic.
type welcomeMessage struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
}

func encodeWelcome(n domain.WelcomeNotification) ([]byte, error) {
	return json.Marshal(welcomeMessage{UserID: n.UserID, Email: n.Email, Name: n.Name})
}

func decodeWelcome(value []byte) (domain.WelcomeNotification, error) {
	var m welcomeMessage
	if err := json.Unmarshal(value, &m); err != nil {
		return domain.WelcomeNotification{}, fmt.Errorf("invalid welcome message: %w", err)
	}
	if m.Email == "" {
		return domain.WelcomeNotification{}, errors.New("welcome message has no email")
	}
	return domain.WelcomeNotification{UserID: m.UserID, Email: m.Email, Name: m.Name}, nil
}
