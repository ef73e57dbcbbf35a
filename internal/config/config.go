package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	ProviderGoogle = "google"
	ProviderORS    = "ors"
)

// Config holds every runtime setting, read once at startup.
type Config struct {
	Provider          string
	GoogleAPIKey      string
	ORSAPIKey         string
	ORSCountry        string
	APILimit          int
	MatrixConcurrency int
	DistanceUnit      string
	Port              string

	DatabaseURL string

	KafkaBrokers []string
	KafkaTopic   string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	MinioBucket    string
}

// LoadDotEnv reads .env into the process environment when the file exists.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}
}

func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) (int, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not an integer", key, v)
	}
	return n, nil
}

func GetBool(key string, fallback bool) (bool, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s=%q is not a boolean", key, v)
	}
	return b, nil
}

// Load builds a Config from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Provider:       strings.ToLower(Get("MAP_PROVIDER", ProviderGoogle)),
		GoogleAPIKey:   Get("GOOGLE_MAPS_API_KEY", ""),
		ORSAPIKey:      Get("ORS_API_KEY", ""),
		ORSCountry:     Get("ORS_COUNTRY", "US"),
		DistanceUnit:   Get("DISTANCE_UNIT", "miles"),
		Port:           Get("PORT", "8080"),
		DatabaseURL:    Get("DATABASE_URL", ""),
		KafkaTopic:     Get("KAFKA_TOPIC", "route-plans"),
		MinioEndpoint:  Get("MINIO_ENDPOINT", ""),
		MinioAccessKey: Get("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: Get("MINIO_SECRET_KEY", ""),
		MinioBucket:    Get("MINIO_BUCKET", "route-reports"),
	}

	var err error
	if cfg.APILimit, err = GetInt("MATRIX_API_LIMIT", 100); err != nil {
		return nil, err
	}
	if cfg.MatrixConcurrency, err = GetInt("MATRIX_CONCURRENCY", 1); err != nil {
		return nil, err
	}
	if cfg.MinioUseSSL, err = GetBool("MINIO_USE_SSL", false); err != nil {
		return nil, err
	}

	for _, b := range strings.Split(Get("KAFKA_BROKERS", ""), ",") {
		if b = strings.TrimSpace(b); b != "" {
			cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGoogle:
		if c.GoogleAPIKey == "" {
			return errors.New("config: GOOGLE_MAPS_API_KEY is required when MAP_PROVIDER=google")
		}
	case ProviderORS:
		if c.ORSAPIKey == "" {
			return errors.New("config: ORS_API_KEY is required when MAP_PROVIDER=ors")
		}
	default:
		return fmt.Errorf("config: unknown MAP_PROVIDER %q", c.Provider)
	}

	if c.APILimit < 1 {
		return fmt.Errorf("config: MATRIX_API_LIMIT must be >= 1, got %d", c.APILimit)
	}
	if c.MatrixConcurrency < 1 {
		return fmt.Errorf("config: MATRIX_CONCURRENCY must be >= 1, got %d", c.MatrixConcurrency)
	}

	return nil
}

// ArchiveEnabled reports whether all MinIO settings are present.
func (c *Config) ArchiveEnabled() bool {
	return c.MinioEndpoint != "" && c.MinioAccessKey != "" && c.MinioSecretKey != ""
}
