package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Env          string
	Port         int
	AllowOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
}

type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// AdminEmail receives guest event submissions.
	AdminEmail string
}

type AdminConfig struct {
	APIKey string
	// Emails allowed to read the health endpoint.
	Emails []string
}

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Mail     MailConfig
	Admin    AdminConfig
}

var (
	mu  sync.RWMutex
	cfg *Config
)

// Load reads .env (when present) and environment variables into the
// process-wide Config. Call once at startup, before Get.
func Load() (*Config, error) {
	// .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("ENV", "development")
	v.SetDefault("PORT", 3001)
	v.SetDefault("ALLOW_ORIGINS", "http://localhost:3000")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "community_calendar")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SMTP_PORT", 587)

	c := &Config{
		Server: ServerConfig{
			Env:          v.GetString("ENV"),
			Port:         v.GetInt("PORT"),
			AllowOrigins: splitList(v.GetString("ALLOW_ORIGINS")),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
		},
		Mail: MailConfig{
			Host:       v.GetString("SMTP_HOST"),
			Port:       v.GetInt("SMTP_PORT"),
			Username:   v.GetString("SMTP_USER"),
			Password:   v.GetString("SMTP_PASSWORD"),
			From:       v.GetString("MAIL_FROM"),
			AdminEmail: v.GetString("ADMIN_EMAIL"),
		},
		Admin: AdminConfig{
			APIKey: v.GetString("ADMIN_API_KEY"),
			Emails: splitList(v.GetString("ADMIN_EMAILS")),
		},
	}

	if c.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	mu.Lock()
	cfg = c
	mu.Unlock()
	return c, nil
}

// Get returns the loaded configuration. Panics when Load has not run; use
// GetSafe in code paths that can execute before startup completes.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	if cfg == nil {
		panic("config: Get called before Load")
	}
	return cfg
}

func GetSafe() (*Config, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return cfg, cfg != nil
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
