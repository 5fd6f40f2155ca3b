package services

import (
	portsrepo "github.com/SscSPs/trakmymedia/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/trakmymedia/internal/core/ports/services"
	"github.com/SscSPs/trakmymedia/internal/metrics"
	"github.com/SscSPs/trakmymedia/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// notifier is the welcome notification transport selected by cfg.Notifier.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, notifier portssvc.Notifier, recorder metrics.Recorder) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(repos.UserRepo)
	container.Credentials = NewCredentialService(repos.UserRepo, recorder)
	container.IdentityBridge = NewIdentityBridgeService(repos.UserRepo, recorder)
	container.Session = NewSessionService(cfg, repos.UserRepo)
	container.Notification = NewNotificationService(notifier, cfg.Notifier, cfg.NotificationTimeout, recorder)

	// the gate issues intents for onboarding, so it is built first
	container.Gate = NewGateService(repos.IntentStore, cfg.IntentTTL, recorder)
	container.Registration = NewRegistrationService(repos.UserRepo, container.Notification, recorder)
	container.Onboarding = NewOnboardingService(repos.UserRepo, container.Notification, container.Gate, recorder)

	container.GoogleOAuth = NewGoogleOAuthService(cfg)

	return container
}
