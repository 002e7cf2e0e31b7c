package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string
	DatabaseURL string

	JWTSecret string
	JWTExpiry time.Duration

	Notify NotifyConfig
}

// NotifyConfig holds the direct (client-path) notification channel
// credentials. When any of the three identifiers is empty the channel
// no-ops with a logged warning; status writes still commit.
type NotifyConfig struct {
	Endpoint   string
	ServiceID  string
	TemplateID string
	PublicKey  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	expiry, err := time.ParseDuration(getEnv("JWT_EXPIRY", "24h"))
	if err != nil {
		expiry = 24 * time.Hour
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		JWTSecret: getEnvOrPanic("JWT_SECRET"),
		JWTExpiry: expiry,

		Notify: NotifyConfig{
			Endpoint:   getEnv("NOTIFY_ENDPOINT", "https://api.emailjs.com/api/v1.0/email/send"),
			ServiceID:  getEnv("NOTIFY_SERVICE_ID", ""),
			TemplateID: getEnv("NOTIFY_TEMPLATE_ID", ""),
			PublicKey:  getEnv("NOTIFY_PUBLIC_KEY", ""),
		},
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvOrPanic(key string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		panic("required environment variable not set: " + key)
	}
	return value
}
