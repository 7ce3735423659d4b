package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	TLS       TLSConfig
	Storage   StorageConfig
	Firebase  FirebaseConfig
	RateLimit RateLimitConfig
	Telemetry TelemetryConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	AllowedHosts []string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type TLSConfig struct {
	Enabled      bool
	CertPath     string
	KeyPath      string
	RedirectHTTP bool
}

// StorageConfig selects where uploaded profile images are written.
type StorageConfig struct {
	Backend       string
	UploadDir     string
	MaxFileSize   int64
	PublicBaseURL string
}

type FirebaseConfig struct {
	CredentialsFile string
	Bucket          string
}

type RateLimitConfig struct {
	AuthPerSecond float64
	AuthBurst     int
}

type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	Environment  string
	OTLPEndpoint string
	MetricsPort  string
	// SampleRatio is the fraction of new traces recorded, in [0, 1].
	SampleRatio  float64
}

const (
	StorageBackendDisk     = "disk"
	StorageBackendFirebase = "firebase"
)

func Load() (*Config, error) {

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	jwtTTL, err := getDurationEnv("JWT_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	maxFileSize, err := getIntEnv("MAX_FILE_SIZE", 5*1024*1024)
	if err != nil {
		return nil, err
	}

	authBurst, err := getIntEnv("AUTH_RATE_BURST", 10)
	if err != nil {
		return nil, err
	}

	authRate, err := strconv.ParseFloat(getEnv("AUTH_RATE_LIMIT", "5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_RATE_LIMIT: %w", err)
	}

	sampleRatio, err := strconv.ParseFloat(getEnv("OTEL_TRACES_SAMPLE_RATIO", "1"), 64)
	if err != nil || sampleRatio < 0 || sampleRatio > 1 {
		return nil, fmt.Errorf("OTEL_TRACES_SAMPLE_RATIO must be a number between 0 and 1")
	}

	// ALLOWED_HOSTS wins; CORS_ORIGIN is accepted for single-origin deployments
	allowedHosts := splitList(getEnv("ALLOWED_HOSTS", ""))
	if len(allowedHosts) == 0 {
		allowedHosts = splitList(getEnv("CORS_ORIGIN", ""))
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "5001"),
			Host:         getEnv("HOST", "0.0.0.0"),
			AllowedHosts: allowedHosts,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "finclusion"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
			TTL:    jwtTTL,
		},
		TLS: TLSConfig{
			Enabled:      getBoolEnv("TLS_ENABLED", false),
			CertPath:     getEnv("TLS_CERT_PATH", ""),
			KeyPath:      getEnv("TLS_KEY_PATH", ""),
			RedirectHTTP: getBoolEnv("TLS_REDIRECT_HTTP", false),
		},
		Storage: StorageConfig{
			Backend:       strings.ToLower(getEnv("STORAGE_BACKEND", StorageBackendDisk)),
			UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
			MaxFileSize:   int64(maxFileSize),
			PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),
		},
		Firebase: FirebaseConfig{
			CredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
			Bucket:          getEnv("FIREBASE_BUCKET", ""),
		},
		RateLimit: RateLimitConfig{
			AuthPerSecond: authRate,
			AuthBurst:     authBurst,
		},
		Telemetry: TelemetryConfig{
			Enabled:      getBoolEnv("OTEL_ENABLED", false),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "finclusion-api"),
			Environment:  getEnv("OTEL_ENVIRONMENT", "development"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_ENDPOINT", "localhost:4317"),
			MetricsPort:  getEnv("METRICS_PORT", "9464"),
			SampleRatio:  sampleRatio,
		},
	}

	// Validate required fields
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	// Validate TLS configuration
	if cfg.TLS.Enabled {
		if cfg.TLS.CertPath == "" {
			return nil, fmt.Errorf("TLS_CERT_PATH is required when TLS_ENABLED=true")
		}
		if cfg.TLS.KeyPath == "" {
			return nil, fmt.Errorf("TLS_KEY_PATH is required when TLS_ENABLED=true")
		}
	}

	switch cfg.Storage.Backend {
	case StorageBackendDisk:
	case StorageBackendFirebase:
		if cfg.Firebase.CredentialsFile == "" {
			return nil, fmt.Errorf("FIREBASE_CREDENTIALS_FILE is required when STORAGE_BACKEND=firebase")
		}
		if cfg.Firebase.Bucket == "" {
			return nil, fmt.Errorf("FIREBASE_BUCKET is required when STORAGE_BACKEND=firebase")
		}
	default:
		return nil, fmt.Errorf("invalid STORAGE_BACKEND: %s", cfg.Storage.Backend)
	}

	if cfg.Storage.MaxFileSize <= 0 {
		return nil, fmt.Errorf("MAX_FILE_SIZE must be positive")
	}

	return cfg, nil
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept: true, false, 1, 0, yes, no (case-insensitive)
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}

func getIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// splitList parses a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
