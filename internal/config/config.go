package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"activityfeed/internal/activity"
)

// Config holds runtime settings for the service.
type Config struct {
	Env        string       `yaml:"env"`
	Port       int          `yaml:"port"`
	Host       string       `yaml:"host"`
	Collection string       `yaml:"collection"`
	ProfileURL string       `yaml:"profile_url"`
	Cache      CacheConfig  `yaml:"cache"`
	Render     RenderConfig `yaml:"render"`
	// Hosts whose pages are read as articles rather than activity posts.
	ArticleDomains []string `yaml:"article_domains"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend string        `yaml:"backend"` // file, memory, sqlite, postgres, dynamodb, mongodb
	Path    string        `yaml:"path"`
	TTL     time.Duration `yaml:"ttl"`
	DSN     string        `yaml:"dsn"`
	Key     string        `yaml:"key"`

	Region   string `yaml:"region"`
	Table    string `yaml:"table"`
	Endpoint string `yaml:"endpoint"`

	MongoURI        string `yaml:"mongo_uri"`
	MongoDatabase   string `yaml:"mongo_database"`
	MongoCollection string `yaml:"mongo_collection"`
}

// RenderConfig controls how pages are fetched.
type RenderConfig struct {
	Mode        string        `yaml:"mode"` // chrome or http
	ChromePath  string        `yaml:"chrome_path"`
	UserAgent   string        `yaml:"user_agent"`
	Width       int           `yaml:"width"`
	Height      int           `yaml:"height"`
	WaitTimeout time.Duration `yaml:"wait_timeout"`
	SettleDelay time.Duration `yaml:"settle_delay"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`
	RetryMax    int           `yaml:"retry_max"`
}

const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/90.0.4430.212 Safari/537.36"

// Default returns sane defaults.
func Default() *Config {
	return &Config{
		Env:        "development",
		Port:       5000,
		Host:       "0.0.0.0",
		Collection: "linkedin",
		ProfileURL: activity.DefaultProfileURL,
		Cache: CacheConfig{
			Backend:         "file",
			Path:            "linkedin_cache.json",
			TTL:             24 * time.Hour,
			Key:             "linkedin",
			Region:          "us-west-2",
			Table:           "activity_cache",
			MongoDatabase:   "activityfeed",
			MongoCollection: "activity_cache",
		},
		Render: RenderConfig{
			Mode:        "chrome",
			UserAgent:   DefaultUserAgent,
			Width:       1920,
			Height:      1080,
			WaitTimeout: 10 * time.Second,
			SettleDelay: 5 * time.Second,
			HTTPTimeout: 15 * time.Second,
			RetryMax:    0,
		},
		ArticleDomains: []string{"medium.com", "dev.to", "hashnode.dev"},
	}
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "activityfeed", "config.yaml")
}

// Load builds the configuration from defaults, an optional YAML file, a .env
// file and the process environment, in that order of increasing precedence.
// An empty path falls back to CONFIG_FILE and then the XDG default; a missing
// file at a default location is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv("CONFIG_FILE")
		explicit = path != ""
	}
	if !explicit {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return nil, fmt.Errorf("reading config: %w", err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Env = getEnv("APP_ENV", cfg.Env)
	cfg.Port = getEnvInt("PORT", cfg.Port)
	cfg.Collection = getEnv("COLLECTION", cfg.Collection)
	cfg.ProfileURL = getEnv("PROFILE_URL", cfg.ProfileURL)

	cfg.Cache.Backend = getEnv("CACHE_BACKEND", cfg.Cache.Backend)
	cfg.Cache.Path = getEnv("CACHE_PATH", cfg.Cache.Path)
	cfg.Cache.TTL = getEnvDuration("CACHE_TTL", cfg.Cache.TTL)
	cfg.Cache.DSN = getEnv("CACHE_DSN", cfg.Cache.DSN)
	cfg.Cache.Region = getEnv("AWS_REGION", cfg.Cache.Region)
	cfg.Cache.Table = getEnv("DYNAMODB_TABLE", cfg.Cache.Table)
	cfg.Cache.Endpoint = getEnv("DYNAMODB_ENDPOINT", cfg.Cache.Endpoint)
	cfg.Cache.MongoURI = getEnv("MONGODB_URI", cfg.Cache.MongoURI)
	cfg.Cache.MongoDatabase = getEnv("MONGODB_DATABASE", cfg.Cache.MongoDatabase)

	cfg.Render.Mode = getEnv("RENDERER", cfg.Render.Mode)
	cfg.Render.ChromePath = getEnv("CHROME_PATH", cfg.Render.ChromePath)
	cfg.Render.UserAgent = getEnv("USER_AGENT", cfg.Render.UserAgent)
	cfg.Render.WaitTimeout = getEnvDuration("RENDER_WAIT_TIMEOUT", cfg.Render.WaitTimeout)
	cfg.Render.SettleDelay = getEnvDuration("RENDER_SETTLE_DELAY", cfg.Render.SettleDelay)
	cfg.Render.HTTPTimeout = getEnvDuration("HTTP_TIMEOUT", cfg.Render.HTTPTimeout)
	cfg.Render.RetryMax = getEnvInt("HTTP_RETRY_MAX", cfg.Render.RetryMax)

	if v := os.Getenv("ARTICLE_DOMAINS"); v != "" {
		cfg.ArticleDomains = splitList(v)
	}
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if strings.Trim(c.Collection, "/") == "" {
		return fmt.Errorf("collection is required")
	}
	switch c.Cache.Backend {
	case "file":
		if c.Cache.Path == "" {
			return fmt.Errorf("cache backend file: path is required")
		}
	case "sqlite", "postgres":
		if c.Cache.DSN == "" && c.Cache.Backend == "postgres" {
			return fmt.Errorf("cache backend postgres: dsn is required")
		}
	case "mongodb":
		if c.Cache.MongoURI == "" {
			return fmt.Errorf("cache backend mongodb: mongo_uri is required")
		}
	case "memory", "dynamodb":
	default:
		return fmt.Errorf("unknown cache backend %q (valid: file, memory, sqlite, postgres, dynamodb, mongodb)", c.Cache.Backend)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache ttl must be positive, got %s", c.Cache.TTL)
	}
	switch c.Render.Mode {
	case "chrome", "http":
	default:
		return fmt.Errorf("unknown renderer %q (valid: chrome, http)", c.Render.Mode)
	}
	if c.Render.WaitTimeout <= 0 || c.Render.HTTPTimeout <= 0 {
		return fmt.Errorf("render timeouts must be positive")
	}
	if c.Render.SettleDelay < 0 {
		return fmt.Errorf("render settle delay must not be negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
