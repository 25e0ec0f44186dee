package config

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Config contains runtime configuration values.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	User    UserConfig    `yaml:"user"`
	Notify  NotifyConfig  `yaml:"notify"`
	Log     LogConfig     `yaml:"log"`

	ScheduleCron      string        `yaml:"schedule_cron"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
	LeetCodeEndpoint  string        `yaml:"leetcode_endpoint"`
	EnrichConcurrency int           `yaml:"enrich_concurrency"`
	DigestUpNext      int           `yaml:"digest_up_next"`
	HeatmapWeeks      int           `yaml:"heatmap_weeks"`
}

// StorageConfig selects and locates the sheet store.
type StorageConfig struct {
	Driver        string `yaml:"driver"`
	SQLitePath    string `yaml:"sqlite_path"`
	MongoURI      string `yaml:"mongo_uri"`
	MongoDatabase string `yaml:"mongo_database"`
}

// UserConfig is the principal the CLI and daemon act as.
type UserConfig struct {
	ID    string `yaml:"id"`
	Email string `yaml:"email"`
	Name  string `yaml:"name"`
}

// NotifyConfig holds the digest channels. Empty values disable a channel.
type NotifyConfig struct {
	DiscordWebhookURL string `yaml:"discord_webhook_url"`
	TelegramBotToken  string `yaml:"telegram_bot_token"`
	TelegramChatID    int64  `yaml:"telegram_chat_id"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

const (
	defaultCron              = "0 9 * * *" // 09:00 every day
	defaultTimeout           = 30 * time.Second
	defaultMongoDatabase     = "vertex"
	defaultLeetCodeEndpoint  = "https://leetcode.com/graphql"
	defaultEnrichConcurrency = 4
	defaultDigestUpNext      = 3
	defaultHeatmapWeeks      = 26
	defaultLogLevel          = "info"
	defaultLogFormat         = "json"
	dataDirName              = ".vertex"
)

// DataDir is where the default database and config file live.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return dataDirName
	}
	return filepath.Join(home, dataDirName)
}

// DefaultPath is the config file read when none is given.
func DefaultPath() string {
	return filepath.Join(DataDir(), "config.yaml")
}

func defaultUserID() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "local"
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Driver:        DriverSQLite,
			SQLitePath:    filepath.Join(DataDir(), "vertex.db"),
			MongoDatabase: defaultMongoDatabase,
		},
		User: UserConfig{ID: defaultUserID()},
		Log: LogConfig{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		ScheduleCron:      defaultCron,
		RequestTimeout:    defaultTimeout,
		LeetCodeEndpoint:  defaultLeetCodeEndpoint,
		EnrichConcurrency: defaultEnrichConcurrency,
		DigestUpNext:      defaultDigestUpNext,
		HeatmapWeeks:      defaultHeatmapWeeks,
	}
}

// Load builds a Config from defaults, the YAML file at path (if it exists) and
// then environment variables, and validates the result. An empty path reads
// DefaultPath.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = DefaultPath()
	}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultTimeout
	}
	if cfg.EnrichConcurrency <= 0 {
		cfg.EnrichConcurrency = defaultEnrichConcurrency
	}
	if cfg.HeatmapWeeks <= 0 {
		cfg.HeatmapWeeks = defaultHeatmapWeeks
	}
	if cfg.DigestUpNext < 0 {
		cfg.DigestUpNext = 0
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	c.Storage.Driver = getenvDefault("VERTEX_STORAGE", c.Storage.Driver)
	c.Storage.SQLitePath = getenvDefault("VERTEX_SQLITE_PATH", c.Storage.SQLitePath)
	c.Storage.MongoURI = getenvDefault("VERTEX_MONGO_URI", c.Storage.MongoURI)
	c.Storage.MongoDatabase = getenvDefault("VERTEX_MONGO_DB", c.Storage.MongoDatabase)

	c.User.ID = getenvDefault("VERTEX_USER_ID", c.User.ID)
	c.User.Email = getenvDefault("VERTEX_USER_EMAIL", c.User.Email)
	c.User.Name = getenvDefault("VERTEX_USER_NAME", c.User.Name)

	c.Notify.DiscordWebhookURL = getenvDefault("DISCORD_WEBHOOK_URL", c.Notify.DiscordWebhookURL)
	c.Notify.TelegramBotToken = getenvDefault("TELEGRAM_BOT_TOKEN", c.Notify.TelegramBotToken)
	c.Notify.TelegramChatID = parseInt64Default("TELEGRAM_CHAT_ID", c.Notify.TelegramChatID)

	c.ScheduleCron = getenvDefault("SCHEDULE_CRON", c.ScheduleCron)
	c.RequestTimeout = parseDurationDefault("REQUEST_TIMEOUT", c.RequestTimeout)
	c.LeetCodeEndpoint = getenvDefault("LEETCODE_ENDPOINT", c.LeetCodeEndpoint)
	c.EnrichConcurrency = parseIntDefault("ENRICH_CONCURRENCY", c.EnrichConcurrency)
	c.DigestUpNext = parseIntDefault("DIGEST_UP_NEXT", c.DigestUpNext)
	c.HeatmapWeeks = parseIntDefault("HEATMAP_WEEKS", c.HeatmapWeeks)

	c.Log.Level = getenvDefault("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getenvDefault("LOG_FORMAT", c.Log.Format)
}

// Validate checks what every command needs.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("VERTEX_SQLITE_PATH is required for the sqlite store")
		}
	case DriverMongo:
		if c.Storage.MongoURI == "" {
			return fmt.Errorf("VERTEX_MONGO_URI is required for the mongo store")
		}
		if c.Storage.MongoDatabase == "" {
			return fmt.Errorf("VERTEX_MONGO_DB is required for the mongo store")
		}
	default:
		return fmt.Errorf("unknown storage driver %q (want %s or %s)", c.Storage.Driver, DriverSQLite, DriverMongo)
	}

	if c.User.ID == "" {
		return fmt.Errorf("VERTEX_USER_ID is required")
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	if c.Notify.TelegramBotToken != "" && c.Notify.TelegramChatID == 0 {
		return fmt.Errorf("TELEGRAM_CHAT_ID is required with TELEGRAM_BOT_TOKEN")
	}
	return nil
}

// ValidateDaemon additionally checks what the scheduled digest needs.
func (c *Config) ValidateDaemon() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if _, err := cron.ParseStandard(c.ScheduleCron); err != nil {
		return fmt.Errorf("invalid SCHEDULE_CRON %q: %w", c.ScheduleCron, err)
	}
	if !c.HasNotifier() {
		return fmt.Errorf("DISCORD_WEBHOOK_URL or TELEGRAM_BOT_TOKEN is required")
	}
	return nil
}

// HasNotifier reports whether any digest channel is configured.
func (c *Config) HasNotifier() bool {
	return c.Notify.DiscordWebhookURL != "" || (c.Notify.TelegramBotToken != "" && c.Notify.TelegramChatID != 0)
}

func getenvDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseIntDefault(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func parseInt64Default(key string, fallback int64) int64 {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func parseDurationDefault(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
