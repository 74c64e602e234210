package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Gateway Gateway `yaml:"gateway"`
	Backend Backend `yaml:"backend"`
	Client  Client  `yaml:"client"`
	Cache   Cache   `yaml:"cache"`
	Log     Log     `yaml:"log"`
}

type Gateway struct {
	Port int `yaml:"port"`
}

type Backend struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type Client struct {
	Language string `yaml:"language"`
	DataDir  string `yaml:"data_dir"`
}

type Cache struct {
	Backend string `yaml:"backend"` // sqlite, redis or memory
	Dir     string `yaml:"dir"`
	Version string `yaml:"version"`
	Redis   Redis  `yaml:"redis"`
}

type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TTLHours int    `yaml:"ttl_hours"`
}

type Log struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Version tags the running build. The gateway derives its cache namespace
// from it, so bumping it invalidates everything cached by older builds.
const Version = "4.0.0"

func Load(configFile string) *Config {
	c := &Config{
		Gateway: Gateway{Port: 8090},
		Backend: Backend{BaseURL: "http://localhost:8000", TimeoutSeconds: 60},
		Client:  Client{Language: "hindi", DataDir: defaultDataDir()},
		Cache:   Cache{Backend: "sqlite", Version: Version, Redis: Redis{Addr: "localhost:6379", TTLHours: 24}},
		Log:     Log{Level: "info", Console: true, MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 30},
	}

	paths := []string{"etc/config-dev.yaml", "/etc/krishimitra/config.yaml"}
	if configFile != "" {
		paths = []string{configFile}
	}
	for _, path := range paths {
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, c)
			break
		}
	}

	envOverride(&c.Backend.BaseURL, "KRISHI_BACKEND_URL")
	envOverride(&c.Client.Language, "KRISHI_LANGUAGE")
	envOverride(&c.Client.DataDir, "KRISHI_DATA_DIR")
	envOverride(&c.Cache.Backend, "CACHE_BACKEND")
	envOverride(&c.Cache.Dir, "CACHE_DIR")
	envOverride(&c.Cache.Redis.Addr, "REDIS_ADDR")
	envOverride(&c.Cache.Redis.Password, "REDIS_PASSWORD")
	envOverride(&c.Log.Level, "LOG_LEVEL")
	envOverride(&c.Log.File, "LOG_FILE")
	envOverrideInt(&c.Gateway.Port, "PORT")
	envOverrideInt(&c.Backend.TimeoutSeconds, "KRISHI_TIMEOUT")

	if c.Cache.Dir == "" {
		c.Cache.Dir = filepath.Join(c.Client.DataDir, "cache")
	}
	return c
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Gateway.Port)
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

// OpenGormDB opens the local sqlite database used by the cache and the chat
// history store.
func (c *Config) OpenGormDB(name string) (*gorm.DB, error) {
	dir := c.Client.DataDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	path := filepath.Join(dir, name)
	db, err := gorm.Open(sqlite.Open(path+"?_journal_mode=WAL"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return db, nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".krishimitra"
	}
	return filepath.Join(home, ".krishimitra")
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
