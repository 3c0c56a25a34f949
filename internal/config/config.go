package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config contains all service configuration, parsed from the environment.
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"NODE_ENV" envDefault:"development"`
	DatabaseURL string `env:"DATABASE_URL"`
	BackendURL  string `env:"BACKEND_URL" envDefault:"http://localhost:8080"`
	CORSOrigins string `env:"CORS_ORIGINS" envDefault:"http://localhost:5173"`
	LogLevel    int    `env:"LOG_LEVEL" envDefault:"0"`

	Admin   Admin   `envPrefix:"ADMIN_"`
	JWT     JWT     `envPrefix:"JWT_"`
	Storage Storage `envPrefix:""`
	S3      S3      `envPrefix:"S3_"`
	Stripe  Stripe  `envPrefix:"STRIPE_"`
	Email   Email   `envPrefix:""`
}

// Admin holds the single admin credential pair. The registry has no
// per-admin accounts; this is a known simplification carried over from
// the original deployment.
type Admin struct {
	Email    string `env:"EMAIL" envDefault:"admin@registry.local"`
	Password string `env:"PASSWORD" envDefault:"changeme"`
}

type JWT struct {
	Secret string `env:"SECRET" envDefault:"devsecret"`
	Expire string `env:"EXPIRE" envDefault:"24h"`
}

// Storage selects the upload backend. When Type is empty the backend is
// inferred: memory on a detected cloud platform, local disk otherwise.
type Storage struct {
	Type       string `env:"STORAGE_TYPE"`
	UploadsDir string `env:"UPLOADS_DIR" envDefault:"uploads"`
	Render     string `env:"RENDER"`
	Vercel     string `env:"VERCEL"`
	Heroku     string `env:"HEROKU"`
}

type S3 struct {
	Endpoint  string `env:"ENDPOINT" envDefault:"localhost:9000"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	Bucket    string `env:"BUCKET" envDefault:"registry-uploads"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
}

type Stripe struct {
	SecretKey      string `env:"SECRET_KEY"`
	WebhookSecret  string `env:"WEBHOOK_SECRET"`
	PublishableKey string `env:"PUBLISHABLE_KEY"`
}

type Email struct {
	APIKey      string `env:"RESEND_API_KEY"`
	FromAddress string `env:"EMAIL_FROM_ADDRESS" envDefault:"noreply@registry.local"`
	FromName    string `env:"EMAIL_FROM_NAME" envDefault:"Membership Registry"`
}

// Load parses configuration from environment variables.
func Load() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// IsProduction reports whether the service runs in a production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// CloudPlatformDetected reports whether a known ephemeral-filesystem
// platform is hosting the process.
func (c *Config) CloudPlatformDetected() bool {
	return c.IsProduction() || c.Storage.Render != "" || c.Storage.Vercel != "" || c.Storage.Heroku != ""
}
