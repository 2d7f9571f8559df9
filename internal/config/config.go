package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Repository RepositoryConfig `mapstructure:"repository"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Calendar   CalendarConfig   `mapstructure:"calendar"`
	Analysis   AnalysisConfig   `mapstructure:"analysis"`
	Sync       SyncConfig       `mapstructure:"sync"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL            string        `mapstructure:"url"`
	MaxConnections int32         `mapstructure:"max_connections"`
	MinConnections int32         `mapstructure:"min_connections"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	MigrationsDir  string        `mapstructure:"migrations_dir"`
}

type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

type RepositoryConfig struct {
	Type string `mapstructure:"type"` // "postgres" или "inmemory"
}

type AuthConfig struct {
	// Secret приходит только из окружения (BUSYNESS_AUTH_SECRET),
	// в config.yml его быть не должно.
	Secret   string        `mapstructure:"secret"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

type CalendarConfig struct {
	CredentialsPath string        `mapstructure:"credentials_path"`
	TokenPath       string        `mapstructure:"token_path"`
	Timezone        string        `mapstructure:"timezone"`
	SyncTimeout     time.Duration `mapstructure:"sync_timeout"`
}

type AnalysisConfig struct {
	// APIKey приходит только из окружения (BUSYNESS_ANALYSIS_API_KEY).
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type SyncConfig struct {
	Auto     bool          `mapstructure:"auto"`
	Interval time.Duration `mapstructure:"interval"`
}

type RateLimitConfig struct {
	RPM int `mapstructure:"rpm"`
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetEnvPrefix("BUSYNESS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// ключи, которых нет ни в файле, ни в defaults, нужно привязать явно,
	// иначе Unmarshal их не увидит
	v.BindEnv("auth.secret")
	v.BindEnv("analysis.api_key")
	v.BindEnv("database.url")

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("repository.type", "postgres")
	v.SetDefault("database.migrations_dir", "internal/migrations")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("calendar.timezone", "America/New_York")
	v.SetDefault("calendar.credentials_path", "credentials.json")
	v.SetDefault("calendar.token_path", "token.json")
	v.SetDefault("calendar.sync_timeout", 30*time.Second)
	v.SetDefault("analysis.timeout", 60*time.Second)
	v.SetDefault("sync.auto", false)
	v.SetDefault("sync.interval", 30*time.Minute)
	v.SetDefault("rate_limit.rpm", 100)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("чтение %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("разбор конфигурации: %w", err)
	}

	if cfg.Auth.Secret == "" {
		return nil, fmt.Errorf("не задан BUSYNESS_AUTH_SECRET")
	}

	return &cfg, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
