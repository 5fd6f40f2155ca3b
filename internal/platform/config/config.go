package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Notifier backends for the welcome notification.
const (
	NotifierLog   = "log"
	NotifierSMTP  = "smtp"
	NotifierKafka = "kafka"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	MigrationsPath string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool

	// Session token
	JWTSecret         string
	JWTIssuer         string
	SessionMaxAge     time.Duration
	SessionCookieName string
	// One-time navigation intent handed out after onboarding
	IntentTTL time.Duration

	// External OAuth Providers
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`
	FrontendBaseURL    string `mapstructure:"FRONTEND_BASE_URL"`

	// Optional Redis, used for navigation intents and the rate limiter store
	RedisURL string

	SignInRateLimit string

	// Welcome notification
	Notifier            string
	NotificationTimeout time.Duration
	MailFrom            string
	MailFromName        string
	SMTPHost            string
	SMTPPort            string
	SMTPUsername        string
	SMTPPassword        string
	KafkaBrokers        []string
	KafkaTopic          string
	KafkaGroupID        string
	KafkaUsername       string
	KafkaPassword       string

	PosthogAPIKey string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("JWT_ISSUER", "trakmymedia")
	viper.SetDefault("SESSION_MAX_AGE", "720h")
	viper.SetDefault("SESSION_COOKIE_NAME", "tmm_session")
	viper.SetDefault("INTENT_TTL", "2m")
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REDIRECT_URL", "")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("SIGNIN_RATE_LIMIT", "5-M")
	viper.SetDefault("NOTIFIER", NotifierLog)
	viper.SetDefault("NOTIFICATION_TIMEOUT", "10s")
	viper.SetDefault("MAIL_FROM", "onboarding@resend.dev")
	viper.SetDefault("MAIL_FROM_NAME", "Trakmymedia")
	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", "587")
	viper.SetDefault("SMTP_USERNAME", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_TOPIC", "user.welcome")
	viper.SetDefault("KAFKA_GROUP_ID", "tmm-mailer")
	viper.SetDefault("KAFKA_USERNAME", "")
	viper.SetDefault("KAFKA_PASSWORD", "")
	viper.SetDefault("POSTHOG_API_KEY", "")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set. Using in-memory user store.")
	}
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "trakmymedia"
	}

	cfg.SessionMaxAge = durationOrDefault("SESSION_MAX_AGE", 30*24*time.Hour)
	cfg.SessionCookieName = viper.GetString("SESSION_COOKIE_NAME")
	if cfg.SessionCookieName == "" {
		cfg.SessionCookieName = "tmm_session"
	}
	cfg.IntentTTL = durationOrDefault("INTENT_TTL", 2*time.Minute)

	cfg.GoogleClientID = viper.GetString("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = viper.GetString("GOOGLE_CLIENT_SECRET")
	cfg.GoogleRedirectURL = viper.GetString("GOOGLE_REDIRECT_URL")
	cfg.FrontendBaseURL = viper.GetString("FRONTEND_BASE_URL")

	if cfg.GoogleClientID == "" {
		log.Println("Warning: GOOGLE_CLIENT_ID not set. Google OAuth will not function.")
	}
	if cfg.GoogleClientSecret == "" {
		log.Println("Warning: GOOGLE_CLIENT_SECRET not set. Google OAuth will not function.")
	}
	if cfg.GoogleRedirectURL == "" {
		log.Println("Warning: GOOGLE_REDIRECT_URL not set. Google OAuth will not function.")
	}

	cfg.RedisURL = viper.GetString("REDIS_URL")
	cfg.SignInRateLimit = viper.GetString("SIGNIN_RATE_LIMIT")

	cfg.Notifier = strings.ToLower(viper.GetString("NOTIFIER"))
	switch cfg.Notifier {
	case NotifierLog, NotifierSMTP, NotifierKafka:
	default:
		log.Printf("Warning: unknown NOTIFIER ('%s'). Defaulting to %s.\n", cfg.Notifier, NotifierLog)
		cfg.Notifier = NotifierLog
	}
	cfg.NotificationTimeout = durationOrDefault("NOTIFICATION_TIMEOUT", 10*time.Second)
	cfg.MailFrom = viper.GetString("MAIL_FROM")
	cfg.MailFromName = viper.GetString("MAIL_FROM_NAME")
	cfg.SMTPHost = viper.GetString("SMTP_HOST")
	cfg.SMTPPort = viper.GetString("SMTP_PORT")
	cfg.SMTPUsername = viper.GetString("SMTP_USERNAME")
	cfg.SMTPPassword = viper.GetString("SMTP_PASSWORD")
	if cfg.Notifier == NotifierSMTP && cfg.SMTPHost == "" {
		log.Println("Warning: NOTIFIER=smtp but SMTP_HOST not set. Welcome emails will fail.")
	}

	cfg.KafkaBrokers = splitList(viper.GetString("KAFKA_BROKERS"))
	cfg.KafkaTopic = viper.GetString("KAFKA_TOPIC")
	cfg.KafkaGroupID = viper.GetString("KAFKA_GROUP_ID")
	cfg.KafkaUsername = viper.GetString("KAFKA_USERNAME")
	cfg.KafkaPassword = viper.GetString("KAFKA_PASSWORD")
	if cfg.Notifier == NotifierKafka && len(cfg.KafkaBrokers) == 0 {
		log.Println("Warning: NOTIFIER=kafka but KAFKA_BROKERS not set. Welcome events will fail.")
	}

	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")

	return cfg, nil
}

// durationOrDefault parses a duration setting (e.g. "60m", "720h"), falling back on error.
func durationOrDefault(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		}
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
