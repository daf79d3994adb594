// Package config loads the bot configuration from the environment. A .env file in the
// working directory is read first when present.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/kyofu-bot/kyofu/internal/storage"
)

const (
	DriverFile  = "file"
	DriverMongo = "mongo"
)

// Store is the persistence part of the configuration, shared with the admin CLI.
type Store struct {
	DefaultPrefix string `env:"DEFAULT_PREFIX" envDefault:"k!"`

	StoreDriver   string        `env:"STORE_DRIVER"   envDefault:"file"`
	StoragePath   string        `env:"STORAGE_PATH"   envDefault:"datastore.json"`
	MongoURI      string        `env:"MONGO_URI"      envDefault:"mongodb://localhost:27017"`
	MongoDatabase string        `env:"MONGO_DATABASE" envDefault:"kyofu"`
	MongoTimeout  time.Duration `env:"MONGO_TIMEOUT"  envDefault:"5s"`
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisTTL      time.Duration `env:"REDIS_TTL"      envDefault:"10m"`

	RefdataPath string `env:"REFDATA_PATH" envDefault:"refdata.toml"`
}

func (s Store) StorageOptions() storage.Options {
	return storage.Options{
		Driver:        s.StoreDriver,
		Path:          s.StoragePath,
		MongoURI:      s.MongoURI,
		MongoDatabase: s.MongoDatabase,
		MongoTimeout:  s.MongoTimeout,
		RedisAddr:     s.RedisAddr,
		RedisTTL:      s.RedisTTL,
		DefaultPrefix: s.DefaultPrefix,
	}
}

func (s Store) validate() error {
	switch s.StoreDriver {
	case DriverFile, DriverMongo:
	default:
		return fmt.Errorf("STORE_DRIVER %q is invalid (must be %s or %s)", s.StoreDriver, DriverFile, DriverMongo)
	}
	if s.DefaultPrefix == "" {
		return errors.New("DEFAULT_PREFIX must not be empty")
	}
	return nil
}

type Config struct {
	Store

	DiscordToken string `env:"DISCORD_TOKEN,required,notEmpty"`
	MessagesDir  string `env:"MESSAGES_DIR"`

	ErrorLogChannelID string        `env:"ERROR_LOG_CHANNEL_ID"`
	DMLogChannelID    string        `env:"DM_LOG_CHANNEL_ID"`
	DeveloperID       string        `env:"DEVELOPER_ID"`
	StatusInterval    time.Duration `env:"STATUS_INTERVAL" envDefault:"5m"`

	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`
	LogFile   string `env:"LOG_FILE"`
}

// New reads .env (if any) and parses the environment.
func New() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	return Parse()
}

// NewStore reads .env (if any) and parses only the store settings; no token is needed.
func NewStore() (*Store, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	var s Store
	if err := env.Parse(&s); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Parse builds a Config from the process environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := c.Store.validate(); err != nil {
		return err
	}
	if c.StatusInterval <= 0 {
		return errors.New("STATUS_INTERVAL must be positive")
	}
	return nil
}
