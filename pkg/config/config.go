package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database   DatabaseConfig
	Redis      RedisConfig
	CORS       CORSConfig
	Log        LogConfig
	Cache      CacheConfig
	Scheduler  SchedulerConfig
	Migrations MigrationsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// URL renders the connection settings as a postgres:// URL.
func (c DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": []string{c.SSLMode}}.Encode(),
	}
	return u.String()
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// CacheConfig governs caching of derived views (standings, brackets).
type CacheConfig struct {
	Enabled      bool
	StandingsTTL time.Duration
}

// SchedulerConfig tunes the scheduling engine.
type SchedulerConfig struct {
	YearShiftMin        int
	YearShiftMax        int
	WinLossSports       []string
	IncludeBracketGames bool
}

// MigrationsConfig points the migration runner at a database. An empty DSN
// falls back to DatabaseConfig.URL.
type MigrationsConfig struct {
	DSN string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Cache = CacheConfig{
		Enabled:      v.GetBool("ENABLE_STANDINGS_CACHE"),
		StandingsTTL: parseDuration(v.GetString("STANDINGS_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Scheduler = SchedulerConfig{
		YearShiftMin:        v.GetInt("SCHEDULER_YEAR_SHIFT_MIN"),
		YearShiftMax:        v.GetInt("SCHEDULER_YEAR_SHIFT_MAX"),
		WinLossSports:       splitAndTrim(strings.ToLower(v.GetString("SCHEDULER_WIN_LOSS_SPORTS"))),
		IncludeBracketGames: v.GetBool("SCHEDULER_INCLUDE_BRACKET_GAMES"),
	}
	if cfg.Scheduler.YearShiftMax < cfg.Scheduler.YearShiftMin {
		return nil, fmt.Errorf("SCHEDULER_YEAR_SHIFT_MAX (%d) must not be below SCHEDULER_YEAR_SHIFT_MIN (%d)", cfg.Scheduler.YearShiftMax, cfg.Scheduler.YearShiftMin)
	}

	cfg.Migrations = MigrationsConfig{DSN: strings.TrimSpace(v.GetString("MIGRATIONS_DSN"))}

	return cfg, nil
}

// MigrationsURL returns the DSN used by the migration runner.
func (c *Config) MigrationsURL() string {
	if c.Migrations.DSN != "" {
		return c.Migrations.DSN
	}
	return c.Database.URL()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "league_scheduler")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_STANDINGS_CACHE", false)
	v.SetDefault("STANDINGS_CACHE_TTL", "5m")

	v.SetDefault("SCHEDULER_YEAR_SHIFT_MIN", 2020)
	v.SetDefault("SCHEDULER_YEAR_SHIFT_MAX", 2039)
	v.SetDefault("SCHEDULER_WIN_LOSS_SPORTS", "lacrosse")
	v.SetDefault("SCHEDULER_INCLUDE_BRACKET_GAMES", false)

	v.SetDefault("MIGRATIONS_DSN", "")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
