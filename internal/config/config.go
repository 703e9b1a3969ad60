package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Queue overflow policies for the task dispatcher.
const (
	QueuePolicyQueue  = "queue"
	QueuePolicyReject = "reject"
)

// DBConfig holds the Postgres connection settings.
type DBConfig struct {
	Host            string
	Port            int
	Username        string
	Password        string
	Database        string
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// LLMConfig holds the settings for the OpenAI-compatible review model.
type LLMConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Config holds the application's configuration values. It is read once at
// process start and never mutated afterwards, so it may be shared freely
// across requests and workers.
type Config struct {
	ServerPort string
	LogLevel   slog.Level
	LogFormat  string

	GitHubAccessToken string
	GitHubURL         string
	GitLabAccessToken string
	GitLabURL         string

	MaxWorkers      int
	QueueSize       int
	QueueFullPolicy string

	PushReviewEnabled bool
	ReviewMaxTokens   int
	ReviewStyle       string

	ReportCrontab    string
	NotifyWebhookURL string

	LLM      LLMConfig
	Database DBConfig
}

// LoadConfig reads configuration from environment variables and a .env file,
// sets sensible defaults, and validates required fields. It uses the Viper
// library to handle configuration loading and precedence.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "5001")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("MAX_WORKERS", 5)
	v.SetDefault("QUEUE_SIZE", 100)
	v.SetDefault("QUEUE_FULL_POLICY", QueuePolicyQueue)
	v.SetDefault("PUSH_REVIEW_ENABLED", false)
	v.SetDefault("REVIEW_MAX_TOKENS", 10000)
	v.SetDefault("REVIEW_STYLE", "professional")
	v.SetDefault("REPORT_CRONTAB_EXPRESSION", "0 18 * * 1-5")
	v.SetDefault("LLM_MODEL", "gpt-4o-mini")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "review_warden")
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", "5m")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// A missing .env is fine; a malformed one is not.
			slog.Warn("failed to read .env file, relying on environment", "error", err)
		}
	}

	policy := strings.ToLower(v.GetString("QUEUE_FULL_POLICY"))
	if policy != QueuePolicyQueue && policy != QueuePolicyReject {
		return nil, fmt.Errorf("QUEUE_FULL_POLICY must be %q or %q, got %q",
			QueuePolicyQueue, QueuePolicyReject, policy)
	}

	// Parse the log level string into a slog.Level type.
	var logLevel slog.Level
	switch strings.ToLower(v.GetString("LOG_LEVEL")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return &Config{
		ServerPort:        v.GetString("SERVER_PORT"),
		LogLevel:          logLevel,
		LogFormat:         v.GetString("LOG_FORMAT"),
		GitHubAccessToken: v.GetString("GITHUB_ACCESS_TOKEN"),
		GitHubURL:         v.GetString("GITHUB_URL"),
		GitLabAccessToken: v.GetString("GITLAB_ACCESS_TOKEN"),
		GitLabURL:         v.GetString("GITLAB_URL"),
		MaxWorkers:        v.GetInt("MAX_WORKERS"),
		QueueSize:         v.GetInt("QUEUE_SIZE"),
		QueueFullPolicy:   policy,
		PushReviewEnabled: v.GetBool("PUSH_REVIEW_ENABLED"),
		ReviewMaxTokens:   v.GetInt("REVIEW_MAX_TOKENS"),
		ReviewStyle:       v.GetString("REVIEW_STYLE"),
		ReportCrontab:     v.GetString("REPORT_CRONTAB_EXPRESSION"),
		NotifyWebhookURL:  v.GetString("NOTIFY_WEBHOOK_URL"),
		LLM: LLMConfig{
			APIKey:  v.GetString("LLM_API_KEY"),
			BaseURL: v.GetString("LLM_BASE_URL"),
			Model:   v.GetString("LLM_MODEL"),
		},
		Database: DBConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			Username:        v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Database:        v.GetString("DB_NAME"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
			ConnMaxIdleTime: v.GetDuration("DB_CONN_MAX_IDLE_TIME"),
		},
	}, nil
}
