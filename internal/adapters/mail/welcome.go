// Package mail renders and delivers the welcome email.
package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/SscSPs/trakmymedia/internal/core/domain"
)

// WelcomeSubject is the subject line of the welcome email.
const WelcomeSubject = "Welcome to Trakmymedia! 🎬"

//go:embed templates/welcome.html
var templateFS embed.FS

var welcomeTemplate = template.Must(template.ParseFS(templateFS, "templates/welcome.html"))

// Sender identifies the From header of outgoing mail.
type Sender struct {
	Address string
	Name    string
}

func (s Sender) Header() string {
	if s.Name == "" {
		return s.Address
	}
	return fmt.Sprintf("%s <%s>", s.Name, s.Address)
}

// RenderWelcome returns the HTML body of the welcome email. An empty name greets "there".
func RenderWelcome(name string, appURL string) (string, error) {
	if strings.TrimSpace(name) == "" {
		name = "there"
	}
	var buf bytes.Buffer
	err := welcomeTemplate.Execute(&buf, map[string]string{
		"Name":   name,
		"AppURL": appURL,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render welcome email: %w", err)
	}
	return buf.String(), nil
}

// BuildWelcomeMessage assembles the full RFC 5322 message for n.
func BuildWelcomeMessage(from Sender, n domain.WelcomeNotification, appURL string) ([]byte, error) {
	htmlBody, err := RenderWelcome(n.Name, appURL)
	if err != nil {
		return nil, err
	}

	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", from.Header()),
		fmt.Sprintf("To: %s", n.Email),
		fmt.Sprintf("Subject: %s", WelcomeSubject),
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		htmlBody,
	}, "\r\n")
	return []byte(msg), nil
}
