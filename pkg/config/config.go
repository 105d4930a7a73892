package config

import (
	"errors"
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
	Env string

	Directory DirectoryConfig
	Log       LogConfig
	DevServer DevServerConfig
}

// DirectoryConfig points the client at the remote course directory.
type DirectoryConfig struct {
	BaseURL string
	Timeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

// DevServerConfig tunes the in-memory stand-in directory server.
type DevServerConfig struct {
	Port           int
	JWTSecret      string
	JWTExpiration  time.Duration
	AllowedOrigins []string
	SeedDemoData   bool
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
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.Directory = DirectoryConfig{
		BaseURL: strings.TrimRight(v.GetString("DIRECTORY_BASE_URL"), "/"),
		Timeout: parseDuration(v.GetString("DIRECTORY_TIMEOUT"), 15*time.Second),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.DevServer = DevServerConfig{
		Port:           v.GetInt("DEVSERVER_PORT"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		JWTExpiration:  parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS")),
		SeedDemoData:   v.GetBool("SEED_DEMO_DATA"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("DIRECTORY_BASE_URL", "http://localhost:8080")
	v.SetDefault("DIRECTORY_TIMEOUT", "15s")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("DEVSERVER_PORT", 8080)
	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("SEED_DEMO_DATA", true)
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
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
