package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Google     GoogleConfig     `mapstructure:"google"`
	Encryption EncryptionConfig `mapstructure:"encryption"`
	Sender     SenderConfig     `mapstructure:"sender"`
	OpenRouter OpenRouterConfig `mapstructure:"openrouter"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

// AuthConfig holds session and password hashing configuration
type AuthConfig struct {
	JWTSecret  string        `mapstructure:"jwt_secret"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	BcryptCost int           `mapstructure:"bcrypt_cost"`
}

// GoogleConfig holds the OAuth client used for Gmail sending
type GoogleConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
}

// EncryptionConfig holds the at-rest key for SMTP passwords
type EncryptionConfig struct {
	Key string `mapstructure:"key"`
}

// SenderConfig controls the per-recipient send loop and channel fallback
type SenderConfig struct {
	// AllowSMTPFallback makes an OAuth send error fall through to the
	// user's SMTP credentials instead of failing the recipient outright.
	AllowSMTPFallback bool          `mapstructure:"allow_smtp_fallback"`
	MinDelay          time.Duration `mapstructure:"min_delay"`
	MaxDelay          time.Duration `mapstructure:"max_delay"`
}

// OpenRouterConfig holds the copywriting LLM configuration
type OpenRouterConfig struct {
	APIKey  string   `mapstructure:"api_key"`
	BaseURL string   `mapstructure:"base_url"`
	Models  []string `mapstructure:"models"`
}

// LoadConfig loads configuration from environment variables and config file
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Environment variables override config file
	viper.AutomaticEnv()
	bindEnvVars()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 3306)

	viper.SetDefault("auth.token_ttl", "720h")
	viper.SetDefault("auth.bcrypt_cost", 10)

	viper.SetDefault("sender.allow_smtp_fallback", true)
	viper.SetDefault("sender.min_delay", "1s")
	viper.SetDefault("sender.max_delay", "2s")

	viper.SetDefault("openrouter.base_url", "https://openrouter.ai/api/v1")
	viper.SetDefault("openrouter.models", []string{
		"deepseek/deepseek-r1:free",
		"deepseek/deepseek-r1",
		"google/gemini-2.0-flash-exp:free",
	})
}

// bindEnvVars binds environment variables to configuration keys
func bindEnvVars() {
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.read_timeout", "SERVER_READ_TIMEOUT")
	viper.BindEnv("server.write_timeout", "SERVER_WRITE_TIMEOUT")

	viper.BindEnv("database.host", "DB_HOST")
	viper.BindEnv("database.port", "DB_PORT")
	viper.BindEnv("database.user", "DB_USER")
	viper.BindEnv("database.password", "DB_PASSWORD")
	viper.BindEnv("database.dbname", "DB_NAME")

	viper.BindEnv("auth.jwt_secret", "JWT_SECRET")
	viper.BindEnv("auth.token_ttl", "AUTH_TOKEN_TTL")
	viper.BindEnv("auth.bcrypt_cost", "AUTH_BCRYPT_COST")

	viper.BindEnv("google.client_id", "GOOGLE_CLIENT_ID")
	viper.BindEnv("google.client_secret", "GOOGLE_CLIENT_SECRET")
	viper.BindEnv("google.redirect_url", "GOOGLE_REDIRECT_URL")

	viper.BindEnv("encryption.key", "ENCRYPTION_KEY")

	viper.BindEnv("sender.allow_smtp_fallback", "SENDER_ALLOW_SMTP_FALLBACK")
	viper.BindEnv("sender.min_delay", "SENDER_MIN_DELAY")
	viper.BindEnv("sender.max_delay", "SENDER_MAX_DELAY")

	viper.BindEnv("openrouter.api_key", "OPENROUTER_API_KEY")
	viper.BindEnv("openrouter.base_url", "OPENROUTER_BASE_URL")
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.DBName)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if c.Database.Host == "" || c.Database.User == "" || c.Database.DBName == "" {
		return fmt.Errorf("database host, user, and dbname are required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth jwt_secret is required")
	}

	if len(c.Encryption.Key) != 32 {
		return fmt.Errorf("encryption key must be exactly 32 characters, got %d", len(c.Encryption.Key))
	}

	if c.Sender.MinDelay < 0 || c.Sender.MaxDelay < c.Sender.MinDelay {
		return fmt.Errorf("sender delay bounds are invalid")
	}

	return nil
}
