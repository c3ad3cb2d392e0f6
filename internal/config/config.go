package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	pkglogger "github.com/buildlore/heritage-backend/pkg/logger"
	"gopkg.in/yaml.v3"
)

// Config is the full application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	JWT       JWTConfig       `yaml:"jwt"`
	Storage   StorageConfig   `yaml:"storage"`
	CORS      CORSConfig      `yaml:"cors"`
	Site      SiteConfig      `yaml:"site"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type ServerConfig struct {
	Port int    `yaml:"port"`
	Env  string `yaml:"env"`
}

type DatabaseConfig struct {
	Driver          string `yaml:"driver"` // mysql or sqlite
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	DBName          string `yaml:"dbname"`
	Path            string `yaml:"path"` // sqlite file
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"` // seconds
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type JWTConfig struct {
	Secret    string `yaml:"secret"`
	ExpiresIn int    `yaml:"expires_in"` // minutes
	RefreshIn int    `yaml:"refresh_in"` // minutes
}

type StorageConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Bucket          string `yaml:"bucket"`
	CDNURL          string `yaml:"cdn_url"`
	BasePath        string `yaml:"base_path"`
	ForcePathStyle  bool   `yaml:"force_path_style"`
}

type CORSConfig struct {
	AllowOrigins string `yaml:"allow_origins"` // comma separated
}

// SiteConfig drives image URL rewriting in article bodies
type SiteConfig struct {
	BaseURL    string   `yaml:"base_url"`
	OldDomains []string `yaml:"old_domains"`
}

type RateLimitConfig struct {
	Enabled        bool `yaml:"enabled"`
	RequestsPerMin int  `yaml:"requests_per_min"`
	WritesPerMin   int  `yaml:"writes_per_min"`
}

// GetDSN builds the driver-specific connection string
func (d DatabaseConfig) GetDSN() string {
	if d.Driver == "sqlite" {
		return d.Path
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.User, d.Password, d.Host, d.Port, d.DBName)
}

// IsDevelopment reports whether the server runs in a local/dev environment
func (c *Config) IsDevelopment() bool {
	switch c.Server.Env {
	case "", "local", "dev", "development":
		return true
	}
	return false
}

// Load reads the YAML file at path, then applies environment overrides.
// A missing file is not an error; defaults and env vars still apply.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{Port: 8082, Env: "local"},
		Database: DatabaseConfig{
			Driver:          "sqlite",
			Path:            "heritage.db",
			Host:            "localhost",
			Port:            3306,
			MaxIdleConns:    10,
			MaxOpenConns:    50,
			ConnMaxLifetime: 300,
		},
		Redis:     RedisConfig{Host: "localhost", Port: 6379, PoolSize: 10},
		JWT:       JWTConfig{ExpiresIn: 60, RefreshIn: 10080},
		CORS:      CORSConfig{AllowOrigins: "http://localhost:3000"},
		RateLimit: RateLimitConfig{RequestsPerMin: 120, WritesPerMin: 30},
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Server.Env = v
	}
	setInt(&cfg.Server.Port, "SERVER_PORT")

	setString(&cfg.Database.Driver, "DB_DRIVER")
	setString(&cfg.Database.Host, "DB_HOST")
	setInt(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.DBName, "DB_NAME")
	setString(&cfg.Database.Path, "DB_PATH")

	setBool(&cfg.Redis.Enabled, "REDIS_ENABLED")
	setString(&cfg.Redis.Host, "REDIS_HOST")
	setInt(&cfg.Redis.Port, "REDIS_PORT")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")

	setString(&cfg.JWT.Secret, "JWT_SECRET")
	setInt(&cfg.JWT.ExpiresIn, "JWT_EXPIRES_IN")

	setBool(&cfg.Storage.Enabled, "S3_ENABLED")
	setString(&cfg.Storage.Endpoint, "S3_ENDPOINT")
	setString(&cfg.Storage.Region, "S3_REGION")
	setString(&cfg.Storage.AccessKeyID, "S3_ACCESS_KEY_ID")
	setString(&cfg.Storage.SecretAccessKey, "S3_SECRET_ACCESS_KEY")
	setString(&cfg.Storage.Bucket, "S3_BUCKET")
	setString(&cfg.Storage.CDNURL, "S3_CDN_URL")

	setString(&cfg.CORS.AllowOrigins, "CORS_ALLOW_ORIGINS")
	setString(&cfg.Site.BaseURL, "SITE_BASE_URL")
	if v := os.Getenv("SITE_OLD_DOMAINS"); v != "" {
		cfg.Site.OldDomains = SplitAndTrim(v, ",")
	}
	setBool(&cfg.RateLimit.Enabled, "RATE_LIMIT_ENABLED")
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("database.driver must be mysql or sqlite, got %q", c.Database.Driver)
	}
	if c.JWT.Secret == "" {
		if !c.IsDevelopment() {
			return fmt.Errorf("jwt.secret is required outside development")
		}
		c.JWT.Secret = "heritage-dev-secret"
	}
	return nil
}

// LogResolved prints the effective configuration with secrets masked
func LogResolved(cfg *Config) {
	pkglogger.GetLogger().Info().
		Str("env", cfg.Server.Env).
		Int("port", cfg.Server.Port).
		Str("db_driver", cfg.Database.Driver).
		Str("db_dsn", maskDSN(cfg.Database)).
		Bool("redis", cfg.Redis.Enabled).
		Str("redis_addr", fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)).
		Bool("storage", cfg.Storage.Enabled).
		Str("bucket", cfg.Storage.Bucket).
		Str("jwt_secret", mask(cfg.JWT.Secret)).
		Str("site_base_url", cfg.Site.BaseURL).
		Msg("configuration resolved")
}

func maskDSN(d DatabaseConfig) string {
	if d.Driver == "sqlite" {
		return d.Path
	}
	masked := d
	masked.Password = mask(d.Password)
	return masked.GetDSN()
}

func mask(secret string) string {
	if len(secret) <= 4 {
		return strings.Repeat("*", len(secret))
	}
	return secret[:2] + strings.Repeat("*", len(secret)-4) + secret[len(secret)-2:]
}

// SplitAndTrim splits s by sep and drops empty parts
func SplitAndTrim(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
