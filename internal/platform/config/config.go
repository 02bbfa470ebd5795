package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL      string
	RequestTimeout  time.Duration
	VaultPath       string
	VaultPassphrase string
	Environment     string
	LogLevel        string

	// Field check-in capture settings.
	CaptureCommand  string
	SnapshotPath    string
	LocationCommand string
	StaticLongitude float64
	StaticLatitude  float64
	StaticLocation  bool

	PhotoQuality int
	PhotoMaxEdge int
	HistoryDays  int
}

func Load() Config {
	_ = godotenv.Load()

	_, staticLon := os.LookupEnv("HR_STATIC_LONGITUDE")
	_, staticLat := os.LookupEnv("HR_STATIC_LATITUDE")

	return Config{
		APIBaseURL:      getEnv("HR_API_BASE_URL", "https://local.api.mitrsewa.co/api/v1"),
		RequestTimeout:  getEnvDuration("HR_REQUEST_TIMEOUT", 30*time.Second),
		VaultPath:       getEnv("HR_VAULT_PATH", defaultVaultPath()),
		VaultPassphrase: getEnv("HR_VAULT_PASSPHRASE", ""),
		Environment:     getEnv("HR_ENV", "development"),
		LogLevel:        getEnv("HR_LOG_LEVEL", "info"),
		CaptureCommand:  getEnv("HR_CAPTURE_COMMAND", ""),
		SnapshotPath:    getEnv("HR_SNAPSHOT_PATH", ""),
		LocationCommand: getEnv("HR_LOCATION_COMMAND", ""),
		StaticLongitude: getEnvFloat("HR_STATIC_LONGITUDE", 0),
		StaticLatitude:  getEnvFloat("HR_STATIC_LATITUDE", 0),
		StaticLocation:  staticLon && staticLat,
		PhotoQuality:    getEnvInt("HR_PHOTO_QUALITY", 80),
		PhotoMaxEdge:    getEnvInt("HR_PHOTO_MAX_EDGE", 1280),
		HistoryDays:     getEnvInt("HR_HISTORY_DAYS", 15),
	}
}

func defaultVaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".hrctl/session.vault"
	}
	return filepath.Join(home, ".hrctl", "session.vault")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return fmt.Errorf("HR_API_BASE_URL is required")
	}
	parsed, err := url.Parse(c.APIBaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("HR_API_BASE_URL must be an absolute URL")
	}
	if c.Environment == "production" && strings.TrimSpace(c.VaultPassphrase) == "" {
		return fmt.Errorf("HR_VAULT_PASSPHRASE must be set in production so tokens are encrypted at rest")
	}
	if c.PhotoQuality < 1 || c.PhotoQuality > 100 {
		return fmt.Errorf("HR_PHOTO_QUALITY must be between 1 and 100")
	}
	if c.HistoryDays <= 0 {
		return fmt.Errorf("HR_HISTORY_DAYS must be positive")
	}
	return nil
}
