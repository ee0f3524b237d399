package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultJWTSecret     = "a-very-secret-key-should-be-longer-and-random"
	defaultRefreshSecret = "default_insecure_refresh_secret_please_change_this_!@#$"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	CORSOrigin     string
	MigrationsPath string

	// Access token config
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Refresh token config
	RefreshTokenSecret         string
	RefreshTokenExpiryDuration time.Duration

	// Media store config
	MediaBucket        string
	MediaRegion        string
	MediaEndpoint      string
	MediaPublicBaseURL string
	FFProbePath        string

	// Upload orchestration
	UploadTempDir      string
	UploadMaxAttempts  int
	UploadRetryBackoff time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("CORS_ORIGIN", "http://localhost:3000")
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "vidtube-backend")
	viper.SetDefault("REFRESH_TOKEN_SECRET", defaultRefreshSecret)
	viper.SetDefault("REFRESH_TOKEN_EXPIRY_DURATION", "240h")
	viper.SetDefault("MEDIA_BUCKET", "")
	viper.SetDefault("MEDIA_REGION", "us-east-1")
	viper.SetDefault("MEDIA_ENDPOINT", "")
	viper.SetDefault("MEDIA_PUBLIC_BASE_URL", "")
	viper.SetDefault("FFPROBE_PATH", "ffprobe")
	viper.SetDefault("UPLOAD_TEMP_DIR", "public/temp")
	viper.SetDefault("UPLOAD_MAX_ATTEMPTS", 3)
	viper.SetDefault("UPLOAD_RETRY_BACKOFF", "1s")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.CORSOrigin = viper.GetString("CORS_ORIGIN")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == defaultJWTSecret {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration)
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.RefreshTokenSecret = viper.GetString("REFRESH_TOKEN_SECRET")
	if cfg.RefreshTokenSecret == defaultRefreshSecret {
		log.Println("Warning: REFRESH_TOKEN_SECRET is not set, using default insecure secret. THIS IS NOT FOR PRODUCTION.")
	}

	refreshExpiryStr := viper.GetString("REFRESH_TOKEN_EXPIRY_DURATION")
	refreshExpiryDuration, err := time.ParseDuration(refreshExpiryStr)
	if err != nil {
		refreshExpiryDuration = time.Hour * 24 * 10
		log.Printf("Warning: Invalid value for REFRESH_TOKEN_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", refreshExpiryStr, refreshExpiryDuration)
	}
	cfg.RefreshTokenExpiryDuration = refreshExpiryDuration

	cfg.MediaBucket = viper.GetString("MEDIA_BUCKET")
	cfg.MediaRegion = viper.GetString("MEDIA_REGION")
	cfg.MediaEndpoint = viper.GetString("MEDIA_ENDPOINT")
	cfg.MediaPublicBaseURL = viper.GetString("MEDIA_PUBLIC_BASE_URL")
	cfg.FFProbePath = viper.GetString("FFPROBE_PATH")

	cfg.UploadTempDir = viper.GetString("UPLOAD_TEMP_DIR")
	cfg.UploadMaxAttempts = viper.GetInt("UPLOAD_MAX_ATTEMPTS")
	if cfg.UploadMaxAttempts <= 0 {
		cfg.UploadMaxAttempts = 3
	}
	backoffStr := viper.GetString("UPLOAD_RETRY_BACKOFF")
	backoff, err := time.ParseDuration(backoffStr)
	if err != nil {
		backoff = time.Second
		log.Printf("Warning: Invalid value for UPLOAD_RETRY_BACKOFF ('%s'). Defaulting to %s.\n", backoffStr, backoff)
	}
	cfg.UploadRetryBackoff = backoff

	return cfg, nil
}

// Validate checks configuration that the process must refuse to start without.
// Signing secrets are per-request fatal if missing, so they are enforced here
// rather than when the first token is issued.
func (c *Config) Validate() error {
	if c.JWTSecret == "" || c.RefreshTokenSecret == "" {
		return fmt.Errorf("token signing secrets must be configured")
	}
	if c.IsProduction {
		if c.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be overridden in production")
		}
		if c.RefreshTokenSecret == defaultRefreshSecret {
			return fmt.Errorf("REFRESH_TOKEN_SECRET must be overridden in production")
		}
		if c.MediaBucket == "" {
			return fmt.Errorf("MEDIA_BUCKET must be configured in production")
		}
	}
	return nil
}
