package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Supported key-value backends for the attendance and session stores.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
	StorePgx      = "pgx"
	StoreSQLite   = "sqlite3"
	StoreMySQL    = "mysql"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Store     StoreConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Auth      AuthConfig
	Insight   InsightConfig
	Latency   LatencyConfig
	RateLimit RateLimitConfig
	Reports   ReportsConfig
	CORS      CORSConfig
	Log       LogConfig
}

// StoreConfig selects the key-value backend.
type StoreConfig struct {
	Driver      string
	SeedOnStart bool
	SQLitePath  string
	MySQLDSN    string
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

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// AuthConfig holds the single warden credential pair.
type AuthConfig struct {
	Email    string
	Password string
	Name     string
	Avatar   string
}

// InsightConfig configures the external text-generation collaborator.
type InsightConfig struct {
	APIKey      string
	Model       string
	Temperature float64
	BaseURL     string
	Timeout     time.Duration
}

// LatencyConfig holds the artificial delays applied by the data service.
type LatencyConfig struct {
	Enabled       bool
	Login         time.Duration
	FetchStudents time.Duration
	FetchRecords  time.Duration
	BulkAdd       time.Duration
	UpdateStatus  time.Duration
	SaveRecord    time.Duration
}

// RateLimitConfig throttles login attempts per client IP.
type RateLimitConfig struct {
	LoginPerMinute int
}

// ReportsConfig configures background insight generation.
type ReportsConfig struct {
	Workers int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
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
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Store = StoreConfig{
		Driver:      strings.ToLower(v.GetString("STORE_DRIVER")),
		SeedOnStart: v.GetBool("SEED_ON_START"),
		SQLitePath:  v.GetString("SQLITE_PATH"),
		MySQLDSN:    v.GetString("MYSQL_DSN"),
	}

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

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 12*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.Auth = AuthConfig{
		Email:    v.GetString("AUTH_EMAIL"),
		Password: v.GetString("AUTH_PASSWORD"),
		Name:     v.GetString("AUTH_NAME"),
		Avatar:   v.GetString("AUTH_AVATAR"),
	}

	cfg.Insight = InsightConfig{
		APIKey:      firstNonEmpty(v.GetString("GEMINI_API_KEY"), v.GetString("API_KEY")),
		Model:       v.GetString("GEMINI_MODEL"),
		Temperature: v.GetFloat64("GEMINI_TEMPERATURE"),
		BaseURL:     v.GetString("GEMINI_BASE_URL"),
		Timeout:     parseDuration(v.GetString("GEMINI_TIMEOUT"), 60*time.Second),
	}

	cfg.Latency = LatencyConfig{
		Enabled:       v.GetBool("LATENCY_ENABLED"),
		Login:         parseDuration(v.GetString("LATENCY_LOGIN"), 1200*time.Millisecond),
		FetchStudents: parseDuration(v.GetString("LATENCY_FETCH_STUDENTS"), 500*time.Millisecond),
		FetchRecords:  parseDuration(v.GetString("LATENCY_FETCH_RECORDS"), 400*time.Millisecond),
		BulkAdd:       parseDuration(v.GetString("LATENCY_BULK_ADD"), 1500*time.Millisecond),
		UpdateStatus:  parseDuration(v.GetString("LATENCY_UPDATE_STATUS"), 300*time.Millisecond),
		SaveRecord:    parseDuration(v.GetString("LATENCY_SAVE_RECORD"), 300*time.Millisecond),
	}

	cfg.RateLimit = RateLimitConfig{LoginPerMinute: v.GetInt("LOGIN_RATE_PER_MINUTE")}
	cfg.Reports = ReportsConfig{Workers: v.GetInt("REPORT_WORKERS")}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("STORE_DRIVER", StoreMemory)
	v.SetDefault("SEED_ON_START", true)
	v.SetDefault("SQLITE_PATH", "./hostelflow.db")
	v.SetDefault("MYSQL_DSN", "hostelflow:hostelflow@tcp(localhost:3306)/hostelflow?parseTime=true")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "hostelflow")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "12h")
	v.SetDefault("JWT_ISSUER", "hostelflow")

	v.SetDefault("AUTH_EMAIL", "admin@hostelflow.com")
	v.SetDefault("AUTH_PASSWORD", "admin123")
	v.SetDefault("AUTH_NAME", "Warden Admin")
	v.SetDefault("AUTH_AVATAR", "https://picsum.photos/100/100?random=auth")

	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-3-flash-preview")
	v.SetDefault("GEMINI_TEMPERATURE", 0.7)
	v.SetDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("GEMINI_TIMEOUT", "60s")

	v.SetDefault("LATENCY_ENABLED", true)
	v.SetDefault("LATENCY_LOGIN", "1200ms")
	v.SetDefault("LATENCY_FETCH_STUDENTS", "500ms")
	v.SetDefault("LATENCY_FETCH_RECORDS", "400ms")
	v.SetDefault("LATENCY_BULK_ADD", "1500ms")
	v.SetDefault("LATENCY_UPDATE_STATUS", "300ms")
	v.SetDefault("LATENCY_SAVE_RECORD", "300ms")

	v.SetDefault("LOGIN_RATE_PER_MINUTE", 10)
	v.SetDefault("REPORT_WORKERS", 1)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// isMissingFile treats an absent .env as "use env and defaults only".
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
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

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
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
