package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const devJWTSecret = "super-secret-key-please-change-me-in-production"

// Config is the server configuration. Values come from an optional YAML file
// (CONFIG_FILE) and are then overridden by environment variables.
type Config struct {
	Port        string `yaml:"port"`
	FrontendURL string `yaml:"frontend_url"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`

	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Storage  StorageConfig  `yaml:"storage"`
	Auth     AuthConfig     `yaml:"auth"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Roadmap  RoadmapConfig  `yaml:"roadmap"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
}

// DSN renders the lib/pq connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// StorageConfig selects S3 when Bucket is set, the local directory otherwise
type StorageConfig struct {
	Region   string `yaml:"region"`
	Bucket   string `yaml:"bucket"`
	Prefix   string `yaml:"prefix"`
	LocalDir string `yaml:"local_dir"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
	Issuer    string `yaml:"issuer"`
	AccessTTL string `yaml:"access_ttl"`
}

type AnalysisConfig struct {
	Workers      int    `yaml:"workers"`
	QueueName    string `yaml:"queue_name"`
	OpenAIAPIKey string `yaml:"openai_api_key"`
	OpenAIModel  string `yaml:"openai_model"`
}

type RoadmapConfig struct {
	ShareTokenTTL string `yaml:"share_token_ttl"`
}

// DefaultConfig returns a configuration suitable for local development
func DefaultConfig() *Config {
	return &Config{
		Port:        "8080",
		FrontendURL: "http://localhost:3000",
		LogLevel:    "info",
		LogFormat:   "console",
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "postgres",
			Name:     "skillpath",
			SSLMode:  "disable",
			MaxConns: 25,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Storage: StorageConfig{
			Region:   "us-east-1",
			Prefix:   "uploads",
			LocalDir: "./data",
		},
		Auth: AuthConfig{
			Issuer:    "skillpath",
			AccessTTL: "24h",
		},
		Analysis: AnalysisConfig{
			Workers:     2,
			QueueName:   "analysis:jobs",
			OpenAIModel: "gpt-4o",
		},
		Roadmap: RoadmapConfig{
			ShareTokenTTL: "168h",
		},
	}
}

// LoadConfig builds the configuration from defaults, the YAML file at path
// (skipped when path is empty) and the environment, then validates it.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Port, "PORT")
	setString(&c.FrontendURL, "FRONTEND_URL")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.LogFormat, "LOG_FORMAT")

	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASS")
	setString(&c.Database.Name, "DB_NAME")
	setString(&c.Database.SSLMode, "DB_SSLMODE")

	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASS")

	setString(&c.Storage.Region, "AWS_REGION")
	setString(&c.Storage.Bucket, "AWS_BUCKET")
	setString(&c.Storage.LocalDir, "STORAGE_DIR")

	setString(&c.Auth.JWTSecret, "JWT_SECRET")
	setString(&c.Auth.AccessTTL, "JWT_ACCESS_TTL")

	setString(&c.Analysis.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&c.Analysis.OpenAIModel, "OPENAI_MODEL")
	if v := os.Getenv("ANALYSIS_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ANALYSIS_WORKERS must be an integer: %w", err)
		}
		c.Analysis.Workers = n
	}

	setString(&c.Roadmap.ShareTokenTTL, "SHARE_TOKEN_TTL")
	return nil
}

func (c *Config) validate() error {
	if c.Port == "" {
		return errors.New("port cannot be empty")
	}
	if c.Analysis.Workers <= 0 {
		return errors.New("analysis.workers must be greater than 0")
	}
	if c.Storage.Bucket == "" && c.Storage.LocalDir == "" {
		return errors.New("storage needs either a bucket or a local_dir")
	}
	if _, err := time.ParseDuration(c.Auth.AccessTTL); err != nil {
		return fmt.Errorf("auth.access_ttl: %w", err)
	}
	if _, err := time.ParseDuration(c.Roadmap.ShareTokenTTL); err != nil {
		return fmt.Errorf("roadmap.share_token_ttl: %w", err)
	}
	return nil
}

// AccessTTL returns the parsed token lifetime
func (c *Config) AccessTTL() time.Duration {
	d, _ := time.ParseDuration(c.Auth.AccessTTL)
	return d
}

// ShareTokenTTL returns the parsed share-link cache lifetime
func (c *Config) ShareTokenTTL() time.Duration {
	d, _ := time.ParseDuration(c.Roadmap.ShareTokenTTL)
	return d
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
