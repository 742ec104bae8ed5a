package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// StoreBackend selects the key-value persistence implementation
type StoreBackend string

const (
	StoreMemory StoreBackend = "memory"
	StoreFile   StoreBackend = "file"
	StoreSQLite StoreBackend = "sqlite"
)

// Config holds the demo limits and runtime settings. Every numeric limit
// has a hardcoded default overridable via a CROSSPREP_* environment value
// read once at process start.
type Config struct {
	Port int

	// Demo quota ceilings
	SessionPriceLimit  float64 // currency units per window
	SessionWindowHours int
	MaxDocuments       int
	MaxFileSize        int64 // bytes
	PricePer1KChars    float64

	// Prompt assembly
	MaxPromptChars int

	Store    StoreBackend
	DataDir  string
	WatchDir string // optional watch-folder ingest; empty disables

	AuthSecret string
}

// Runtime is the process-wide configuration instance, populated by Load
var Runtime *Config

// Load reads .env (if present) and the environment into a Config.
// It also ensures the data directory exists for file/sqlite backends.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dataDir := os.Getenv("CROSSPREP_DATA_DIR")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dataDir = filepath.Join(home, ".crossprep")
	}

	cfg := &Config{
		Port:               envInt("CROSSPREP_PORT", 8181),
		SessionPriceLimit:  envFloat("CROSSPREP_SESSION_PRICE_LIMIT", 0.50),
		SessionWindowHours: envInt("CROSSPREP_SESSION_WINDOW_HOURS", 24),
		MaxDocuments:       envInt("CROSSPREP_MAX_DOCUMENTS", 5),
		MaxFileSize:        envInt64("CROSSPREP_MAX_FILE_SIZE", 2*1024*1024),
		PricePer1KChars:    envFloat("CROSSPREP_PRICE_PER_1K_CHARS", 0.003),
		MaxPromptChars:     envInt("CROSSPREP_MAX_PROMPT_CHARS", 48000),
		Store:              StoreBackend(envString("CROSSPREP_STORE", string(StoreFile))),
		DataDir:            dataDir,
		WatchDir:           os.Getenv("CROSSPREP_WATCH_DIR"),
		AuthSecret:         os.Getenv("CROSSPREP_AUTH_SECRET"),
	}

	switch cfg.Store {
	case StoreMemory, StoreFile, StoreSQLite:
	default:
		cfg.Store = StoreFile
	}

	if cfg.Store != StoreMemory {
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, err
		}
	}

	Runtime = cfg
	return cfg, nil
}

// Window returns the rolling usage window as a duration
func (c *Config) Window() time.Duration {
	return time.Duration(c.SessionWindowHours) * time.Hour
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
