package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendFirestore = "firestore"
	BackendMongo     = "mongo"
	BackendMemory    = "memory"

	SchedulerAsynq = "asynq"
	SchedulerLocal = "local"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Operating timezone for schedules and date keys.
	Timezone string `mapstructure:"TIMEZONE"`

	// User directory and entry store.
	StoreBackend string `mapstructure:"STORE_BACKEND"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Firebase project (messaging, auth, firestore).
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
	FirebaseProjectID       string `mapstructure:"FIREBASE_PROJECT_ID"`
	AndroidChannelID        string `mapstructure:"ANDROID_CHANNEL_ID"`

	// Redis configuration.
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisReminderQueueDB int    `mapstructure:"REDIS_REMINDER_QUEUE_DB"`
	RedisLockDB          int    `mapstructure:"REDIS_LOCK_DB"`

	// Reminder jobs.
	SchedulerMode       string        `mapstructure:"SCHEDULER_MODE"`
	JobRetryCount       int           `mapstructure:"JOB_RETRY_COUNT"`
	JobTimeout          time.Duration `mapstructure:"JOB_TIMEOUT"`
	DispatchConcurrency int           `mapstructure:"DISPATCH_CONCURRENCY"`
	PushRateLimit       float64       `mapstructure:"PUSH_RATE_LIMIT"`
	WorkerConcurrency   int           `mapstructure:"WORKER_CONCURRENCY"`

	AdminAPIKey string `mapstructure:"ADMIN_API_KEY"`
}

var AppConfig Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("TIMEZONE", "America/Sao_Paulo")
	v.SetDefault("STORE_BACKEND", BackendFirestore)
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "sleeptracker")
	v.SetDefault("FIREBASE_CREDENTIALS_FILE", "firebase-adminsdk.json")
	v.SetDefault("FIREBASE_PROJECT_ID", "")
	v.SetDefault("ANDROID_CHANNEL_ID", "sleep-tracker")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_REMINDER_QUEUE_DB", 3)
	v.SetDefault("REDIS_LOCK_DB", 4)
	v.SetDefault("SCHEDULER_MODE", SchedulerAsynq)
	v.SetDefault("JOB_RETRY_COUNT", 1)
	v.SetDefault("JOB_TIMEOUT", "9m")
	v.SetDefault("DISPATCH_CONCURRENCY", 16)
	v.SetDefault("PUSH_RATE_LIMIT", 50)
	v.SetDefault("WORKER_CONCURRENCY", 3)
	v.SetDefault("ADMIN_API_KEY", "")
}

// Load reads configuration from v. Exposed separately from LoadConfig so the
// defaults can be exercised without touching the global viper instance.
func Load(v *viper.Viper) (Config, error) {
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))
	cfg.SchedulerMode = strings.ToLower(strings.TrimSpace(cfg.SchedulerMode))
	return cfg, nil
}

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	cfg, err := Load(viper.GetViper())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	AppConfig = cfg
}

// Validate rejects settings the reminder jobs cannot run with.
func (c Config) Validate() error {
	var errs []error
	switch c.StoreBackend {
	case BackendFirestore, BackendMongo, BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE_BACKEND %q is not one of firestore, mongo, memory", c.StoreBackend))
	}
	switch c.SchedulerMode {
	case SchedulerAsynq, SchedulerLocal:
	default:
		errs = append(errs, fmt.Errorf("SCHEDULER_MODE %q is not one of asynq, local", c.SchedulerMode))
	}
	if c.JobRetryCount < 0 {
		errs = append(errs, errors.New("JOB_RETRY_COUNT must not be negative"))
	}
	if c.JobTimeout <= 0 {
		errs = append(errs, errors.New("JOB_TIMEOUT must be positive"))
	}
	if c.DispatchConcurrency <= 0 {
		errs = append(errs, errors.New("DISPATCH_CONCURRENCY must be positive"))
	}
	if c.WorkerConcurrency <= 0 {
		errs = append(errs, errors.New("WORKER_CONCURRENCY must be positive"))
	}
	if c.PushRateLimit <= 0 {
		errs = append(errs, errors.New("PUSH_RATE_LIMIT must be positive"))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil || c.Timezone == "" {
		errs = append(errs, fmt.Errorf("TIMEZONE %q is not a valid IANA zone", c.Timezone))
	}
	return errors.Join(errs...)
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
