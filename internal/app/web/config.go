package web

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/client"

	"github.com/petsetu/petsetu-web/internal/clients/http/arcgis"
)

// Media upload modes.
const (
	MediaUploadBackend = "backend"
	MediaUploadS3      = "s3"
)

// Config carries environment-driven settings for the web process.
type Config struct {
	Port              string
	APIBase           string
	SiteURL           string
	ImageBaseURL      string
	ArcGISFindURL     string
	ArcGISToken       string
	PostgresDSN       string
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
	Environment       string

	BackendTimeout     time.Duration
	UploadConcurrency  int
	AddressDebounce    time.Duration
	DraftIdleTimeout   time.Duration
	SessionTTL         time.Duration
	MediaUploadMode    string
	S3Bucket           string
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
}

// SecureCookies reports whether session cookies carry the Secure attribute.
func (c Config) SecureCookies() bool {
	return strings.EqualFold(c.Environment, "production")
}

// BackendConfigured reports whether API_BASE is set.
func (c Config) BackendConfigured() bool {
	return c.APIBase != ""
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		APIBase:           strings.TrimRight(strings.TrimSpace(os.Getenv("API_BASE")), "/"),
		SiteURL:           strings.TrimRight(envDefault("SITE_URL", "https://petsetu.com"), "/"),
		ImageBaseURL:      strings.TrimSpace(os.Getenv("IMAGE_BASE_URL")),
		ArcGISFindURL:     envDefault("ARCGIS_FIND_URL", arcgis.DefaultFindURL),
		ArcGISToken:       strings.TrimSpace(os.Getenv("ARCGIS_TOKEN")),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		Environment:       envDefault("ENVIRONMENT", "local"),
		MediaUploadMode:   strings.ToLower(envDefault("MEDIA_UPLOAD_MODE", MediaUploadBackend)),
		S3Bucket:          strings.TrimSpace(os.Getenv("AWS_S3_BUCKET")),
		AWSRegion:         envDefault("AWS_REGION", "ap-south-1"),
	}
	cfg.AWSAccessKeyID = strings.TrimSpace(os.Getenv("AWS_ACCESS_KEY_ID"))
	cfg.AWSSecretAccessKey = strings.TrimSpace(os.Getenv("AWS_SECRET_ACCESS_KEY"))

	backendTimeout, err := positiveInt("BACKEND_TIMEOUT_SECONDS", 15)
	if err != nil {
		return Config{}, err
	}
	cfg.BackendTimeout = time.Duration(backendTimeout) * time.Second

	if cfg.UploadConcurrency, err = positiveInt("UPLOAD_CONCURRENCY", 3); err != nil {
		return Config{}, err
	}

	debounce, err := positiveInt("ADDRESS_DEBOUNCE_MS", 350)
	if err != nil {
		return Config{}, err
	}
	cfg.AddressDebounce = time.Duration(debounce) * time.Millisecond

	idle, err := positiveInt("DRAFT_IDLE_MINUTES", 60)
	if err != nil {
		return Config{}, err
	}
	cfg.DraftIdleTimeout = time.Duration(idle) * time.Minute

	ttl, err := positiveInt("SESSION_TTL_HOURS", 24)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionTTL = time.Duration(ttl) * time.Hour

	switch cfg.MediaUploadMode {
	case MediaUploadBackend:
	case MediaUploadS3:
		if cfg.S3Bucket == "" {
			return Config{}, fmt.Errorf("AWS_S3_BUCKET is required when MEDIA_UPLOAD_MODE=s3")
		}
	default:
		return Config{}, fmt.Errorf("MEDIA_UPLOAD_MODE must be %q or %q", MediaUploadBackend, MediaUploadS3)
	}
	return cfg, nil
}

func positiveInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return value, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
