package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Redis    RedisConfig    `json:"redis"`
	Session  SessionConfig  `json:"session"`
	Auth     AuthConfig     `json:"auth"`
}

type ServerConfig struct {
	Host          string        `json:"host"`
	Port          string        `json:"port"`
	ReadTimeout   time.Duration `json:"read_timeout"`
	WriteTimeout  time.Duration `json:"write_timeout"`
	IdleTimeout   time.Duration `json:"idle_timeout"`
	Environment   string        `json:"environment"`
	TemplatesGlob string        `json:"templates_glob"`
	CORSOrigins   []string      `json:"cors_origins"`
}

type DatabaseConfig struct {
	Driver          string        `json:"driver"`
	Host            string        `json:"host"`
	Port            string        `json:"port"`
	User            string        `json:"user"`
	Password        string        `json:"password"`
	Name            string        `json:"name"`
	SSLMode         string        `json:"ssl_mode"`
	Path            string        `json:"path"`
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`
	QueryTimeout    time.Duration `json:"query_timeout"`
}

type RedisConfig struct {
	Host         string        `json:"host"`
	Port         string        `json:"port"`
	Password     string        `json:"password"`
	DB           int           `json:"db"`
	PoolSize     int           `json:"pool_size"`
	MinIdleConns int           `json:"min_idle_conns"`
	MaxRetries   int           `json:"max_retries"`
	DialTimeout  time.Duration `json:"dial_timeout"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
}

type SessionConfig struct {
	CookieName   string        `json:"cookie_name"`
	TTL          time.Duration `json:"ttl"`
	CookieSecure bool          `json:"cookie_secure"`
}

type AuthConfig struct {
	BCryptCost    int           `json:"bcrypt_cost"`
	AdminSecret   string        `json:"admin_secret"`
	AdminTokenTTL time.Duration `json:"admin_token_ttl"`
}

func LoadConfig() (*Config, error) {
	// A missing .env file is fine; env vars win either way.
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Host:          getEnv("HOST", "localhost"),
			Port:          getEnv("PORT", "8080"),
			ReadTimeout:   getEnvAsDuration("READ_TIMEOUT", 30*time.Second),
			WriteTimeout:  getEnvAsDuration("WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:   getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
			Environment:   getEnv("ENVIRONMENT", "development"),
			TemplatesGlob: getEnv("TEMPLATES_GLOB", "web/templates/*.html"),
			CORSOrigins:   getEnvAsSlice("CORS_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "postgres"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Name:            getEnv("DB_NAME", "todo"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			Path:            getEnv("DB_PATH", "todo.db"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
			QueryTimeout:    getEnvAsDuration("DB_QUERY_TIMEOUT", 5*time.Second),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
			MaxRetries:   getEnvAsInt("REDIS_MAX_RETRIES", 3),
			DialTimeout:  getEnvAsDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvAsDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvAsDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Session: SessionConfig{
			CookieName:   getEnv("SESSION_COOKIE_NAME", "todo_session"),
			TTL:          getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			CookieSecure: getEnvAsBool("SESSION_COOKIE_SECURE", false),
		},
		Auth: AuthConfig{
			BCryptCost:    getEnvAsInt("BCRYPT_COST", bcrypt.DefaultCost),
			AdminSecret:   getEnv("ADMIN_SECRET", "dev-admin-secret"),
			AdminTokenTTL: getEnvAsDuration("ADMIN_TOKEN_TTL", time.Hour),
		},
	}

	if config.IsProduction() {
		if config.Database.Driver == "postgres" && config.Database.Password == "" {
			return nil, fmt.Errorf("database password is required in production")
		}
		if config.Auth.AdminSecret == "dev-admin-secret" {
			return nil, fmt.Errorf("admin secret must be set in production")
		}
	}

	return config, nil
}

func (c *Config) GetDatabaseDSN() string {
	if c.Database.Driver == "sqlite" {
		return c.Database.Path
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
