package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env               string `mapstructure:"env"`                 // current application environment (local, dev, prod etc)
	TelegramAPIToken  string `mapstructure:"-"`                   // Telegram API token loaded from environment
	QuestionsJSONPath string `mapstructure:"questions_json_path"` // path to JSON file with the question catalog
	ArchetypeInfoPath string `mapstructure:"archetype_info_path"` // path to JSON file with archetype report blurbs
	DB                DB     `mapstructure:"database"`            // database configuration section
	AI                AI     `mapstructure:"ai"`                  // model provider configuration section
	SMTP              SMTP   `mapstructure:"smtp"`                // report delivery configuration section
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// AI contains the OpenRouter credentials and model selection.
type AI struct {
	APIKey          string        `mapstructure:"-"`                // OpenRouter API key loaded from environment
	BaseURL         string        `mapstructure:"base_url"`         // OpenAI-compatible endpoint
	Model           string        `mapstructure:"model"`            // model identifier
	StrategyTimeout time.Duration `mapstructure:"strategy_timeout"` // bound on the report strategy call
}

// SMTP contains outbound email parameters. User and Password come from the
// environment; an empty user disables email delivery.
type SMTP struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	User       string `mapstructure:"-"`
	Password   string `mapstructure:"-"`
	AdminEmail string `mapstructure:"admin_email"`
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("questions_json_path", "assets/data/questions.json")
	v.SetDefault("archetype_info_path", "assets/data/archetype_info.json")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("ai.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("ai.model", "google/gemini-2.0-flash-exp:free")
	v.SetDefault("ai.strategy_timeout", "90s")
	v.SetDefault("smtp.host", "smtp.gmail.com")
	v.SetDefault("smtp.port", 587)

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("openrouter_api_key", "OPENROUTER_API_KEY")
	_ = v.BindEnv("smtp_user", "SMTP_USER")
	_ = v.BindEnv("smtp_password", "SMTP_PASSWORD")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = strings.TrimSpace(v.GetString("telegram_api_token"))
	if cfg.TelegramAPIToken == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	cfg.DB.URL = v.GetString("database_url")
	if cfg.DB.URL == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	cfg.AI.APIKey = strings.TrimSpace(v.GetString("openrouter_api_key"))
	if cfg.AI.APIKey == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	// SMTP credentials are optional: without them the bot still works and
	// report emails are skipped with a warning.
	cfg.SMTP.User = strings.TrimSpace(v.GetString("smtp_user"))
	cfg.SMTP.Password = strings.TrimSpace(v.GetString("smtp_password"))

	return &cfg, nil
}
