package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	User           UserReaderSvc
	Credentials    CredentialSvc
	IdentityBridge IdentityBridgeSvc
	Session        SessionSvc
	Registration   RegistrationSvc
	Onboarding     OnboardingSvc
	Notification   NotificationSvc
	Gate           GateSvc
	// GoogleOAuth is the Google identity provider collaborator.
	GoogleOAuth IdentityProvider
}
