package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/joho/godotenv"
)

// Storage drivers
const (
	StoragePostgres = "postgres"
	StorageMongo    = "mongo"
	StorageMemory   = "memory"
)

// Event drivers
const (
	EventsRedis  = "redis"
	EventsMemory = "memory"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Mongo      MongoConfig
	Redis      RedisConfig
	Storage    StorageConfig
	Events     EventsConfig
	Attendance AttendanceConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Name           string
	Version        string
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
	ShutdownGrace  time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

type MongoConfig struct {
	URI      string
	Database string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type StorageConfig struct {
	Driver string
}

type EventsConfig struct {
	Driver string
}

// AttendanceConfig holds the anomaly thresholds.
type AttendanceConfig struct {
	StandardStart          time.Duration
	FullDayHours           float64
	StandardWorkHours      float64
	OvertimeThresholdHours float64
	Timezone               string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
		slog.Debug("no .env file found, using environment")
	}

	config := &Config{}
	var err error

	// Application configuration
	appPort, err := getEnvInt("APP_PORT", 8080)
	if err != nil {
		return nil, err
	}
	shutdownGrace, err := time.ParseDuration(getEnv("APP_SHUTDOWN_GRACE", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_SHUTDOWN_GRACE: %w", err)
	}

	config.App = AppConfig{
		Name:           getEnv("APP_NAME", "hris-attendance"),
		Version:        getEnv("APP_VERSION", "v1.0.0"),
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
		ShutdownGrace:  shutdownGrace,
	}

	// Database configuration
	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}
	maxConns, err := getEnvInt("DB_MAX_CONNS", 25)
	if err != nil {
		return nil, err
	}
	minConns, err := getEnvInt("DB_MIN_CONNS", 5)
	if err != nil {
		return nil, err
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hris_attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
		MinConns: int32(minConns),
	}

	// MongoDB configuration
	config.Mongo = MongoConfig{
		URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		Database: getEnv("MONGO_DATABASE", "hris_attendance"),
	}

	// Redis configuration
	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	config.Redis = RedisConfig{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
	}

	config.Storage = StorageConfig{Driver: strings.ToLower(getEnv("STORAGE_DRIVER", StoragePostgres))}
	config.Events = EventsConfig{Driver: strings.ToLower(getEnv("EVENTS_DRIVER", EventsRedis))}

	// Attendance policy
	standardStart, err := parseClock(getEnv("ATTENDANCE_STANDARD_START", "09:00"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_STANDARD_START: %w", err)
	}
	fullDay, err := getEnvFloat("ATTENDANCE_FULL_DAY_HOURS", 8)
	if err != nil {
		return nil, err
	}
	standardHours, err := getEnvFloat("ATTENDANCE_STANDARD_WORK_HOURS", 8)
	if err != nil {
		return nil, err
	}
	overtimeThreshold, err := getEnvFloat("ATTENDANCE_OVERTIME_THRESHOLD_HOURS", 10)
	if err != nil {
		return nil, err
	}

	config.Attendance = AttendanceConfig{
		StandardStart:          standardStart,
		FullDayHours:           fullDay,
		StandardWorkHours:      standardHours,
		OvertimeThresholdHours: overtimeThreshold,
		Timezone:               getEnv("ATTENDANCE_TIMEZONE", "UTC"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StoragePostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
		if c.Database.MinConns > c.Database.MaxConns {
			return fmt.Errorf("DB_MIN_CONNS must not exceed DB_MAX_CONNS")
		}
	case StorageMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI is required")
		}
		if c.Mongo.Database == "" {
			return fmt.Errorf("MONGO_DATABASE is required")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER: %s", c.Storage.Driver)
	}

	switch c.Events.Driver {
	case EventsRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required")
		}
	case EventsMemory:
	default:
		return fmt.Errorf("unsupported EVENTS_DRIVER: %s", c.Events.Driver)
	}

	if _, err := c.Attendance.Policy(); err != nil {
		return err
	}
	return nil
}

// Policy builds the anomaly policy, resolving the timezone.
func (a AttendanceConfig) Policy() (attendance.Policy, error) {
	location, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return attendance.Policy{}, fmt.Errorf("invalid ATTENDANCE_TIMEZONE: %w", err)
	}
	policy := attendance.Policy{
		StandardStart:          a.StandardStart,
		FullDayHours:           a.FullDayHours,
		StandardWorkHours:      a.StandardWorkHours,
		OvertimeThresholdHours: a.OvertimeThresholdHours,
		Location:               location,
	}
	if err := policy.Validate(); err != nil {
		return attendance.Policy{}, fmt.Errorf("invalid attendance policy: %w", err)
	}
	return policy, nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value, err := strconv.Atoi(getEnv(key, strconv.Itoa(fallback)))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}

// parseClock parses "HH:MM" into an offset from midnight.
func parseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
