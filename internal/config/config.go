package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Credential store backends
const (
	CredentialBackendMemory = "memory"
	CredentialBackendRedis  = "redis"
)

// DefaultBaseURL is used when neither config nor environment provide one.
const DefaultBaseURL = "http://localhost:5000/api"

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	API        APIConfig        `mapstructure:"api"`
	Credential CredentialConfig `mapstructure:"credential"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Files      FilesConfig      `mapstructure:"files"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

type AppConfig struct {
	Name    string `mapstructure:"name"`
	Port    int    `mapstructure:"port"`
	Env     string `mapstructure:"env"`
	BaseURL string `mapstructure:"base_url"` // public URL of the gateway
}

// APIConfig durations are given in seconds in yaml.
type APIConfig struct {
	BaseURL          string        `mapstructure:"base_url"`
	Timeout          time.Duration `mapstructure:"timeout"`
	RefreshTimeout   time.Duration `mapstructure:"refresh_timeout"`
	RefreshTokenPath string        `mapstructure:"refresh_token_path"`
	LoginPath        string        `mapstructure:"login_path"`
}

type CredentialConfig struct {
	Backend string `mapstructure:"backend"` // "memory" or "redis"
	Profile string `mapstructure:"profile"` // key suffix for redis
}

type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// FilesConfig delays are given in seconds in yaml. GatewayRevokeDelay
// applies when no browser is launched and the caller fetches the preview
// URL itself.
type FilesConfig struct {
	DownloadDir        string        `mapstructure:"download_dir"`
	ViewRevokeDelay    time.Duration `mapstructure:"view_revoke_delay"`
	GatewayRevokeDelay time.Duration `mapstructure:"gateway_revoke_delay"`
	OpenInBrowser      bool          `mapstructure:"open_in_browser"`
	MaxPreviewBlobMB   int           `mapstructure:"max_preview_blob_mb"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "backoffice-agent")
	v.SetDefault("app.port", 8088)
	v.SetDefault("app.env", "development")
	v.SetDefault("api.base_url", DefaultBaseURL)
	v.SetDefault("api.timeout", 10)
	v.SetDefault("api.refresh_timeout", 10)
	v.SetDefault("api.refresh_token_path", "/auth/refresh-token")
	v.SetDefault("api.login_path", "/login")
	v.SetDefault("credential.backend", CredentialBackendMemory)
	v.SetDefault("credential.profile", "default")
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("files.download_dir", "downloads")
	v.SetDefault("files.view_revoke_delay", 1)
	v.SetDefault("files.gateway_revoke_delay", 300)
	v.SetDefault("files.max_preview_blob_mb", 50)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

func NewConfig() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	setDefaults(v)

	// Enable environment variable override
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Convert second counts to durations
	cfg.API.Timeout = cfg.API.Timeout * time.Second
	cfg.API.RefreshTimeout = cfg.API.RefreshTimeout * time.Second
	cfg.Files.ViewRevokeDelay = cfg.Files.ViewRevokeDelay * time.Second
	cfg.Files.GatewayRevokeDelay = cfg.Files.GatewayRevokeDelay * time.Second

	// The dashboard build used VITE_API_URL; keep honouring it when API_BASE_URL is unset.
	if os.Getenv("API_BASE_URL") == "" {
		if legacy := os.Getenv("VITE_API_URL"); legacy != "" {
			cfg.API.BaseURL = legacy
		}
	}
	cfg.API.BaseURL = NormalizeBaseURL(cfg.API.BaseURL)

	if cfg.Credential.Backend == "" {
		cfg.Credential.Backend = CredentialBackendMemory
	}

	return &cfg, nil
}

// NormalizeBaseURL strips trailing slashes and falls back to DefaultBaseURL.
func NormalizeBaseURL(raw string) string {
	u := strings.TrimRight(strings.TrimSpace(raw), "/")
	if u == "" {
		return DefaultBaseURL
	}
	return u
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
