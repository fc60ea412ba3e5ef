package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Security      SecurityConfig      `mapstructure:"security"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Onboarding    OnboardingConfig    `mapstructure:"onboarding"`
	Notification  NotificationConfig  `mapstructure:"notification"`
	Assistant     AssistantConfig     `mapstructure:"assistant"`
	RateLimit     RateLimitConfig     `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	MaxUploadBytes    int64         `mapstructure:"max_upload_bytes"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Source          string        `mapstructure:"source"`
}

type SecurityConfig struct {
	AccessTokenSecret    string        `mapstructure:"access_token_secret"`
	RefreshTokenSecret   string        `mapstructure:"refresh_token_secret"`
	AccessTokenDuration  time.Duration `mapstructure:"access_token_duration"`
	RefreshTokenDuration time.Duration `mapstructure:"refresh_token_duration"`
	BCryptCost           int           `mapstructure:"bcrypt_cost"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type OnboardingConfig struct {
	PortalURL        string        `mapstructure:"portal_url"`
	EmployeeIDPrefix string        `mapstructure:"employee_id_prefix"`
	PasswordSuffix   string        `mapstructure:"password_suffix"`
	DefaultPosition  string        `mapstructure:"default_position"`
	OfferTokenTTL    time.Duration `mapstructure:"offer_token_ttl"`
	PassTokenTTL     time.Duration `mapstructure:"pass_token_ttl"`
	WelcomeDelay     time.Duration `mapstructure:"welcome_delay"`
}

type NotificationConfig struct {
	RelayURL   string        `mapstructure:"relay_url"`
	APIKey     string        `mapstructure:"api_key"`
	Sender     string        `mapstructure:"sender"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxWorkers int           `mapstructure:"max_workers"`
	QueueSize  int           `mapstructure:"queue_size"`
}

type AssistantConfig struct {
	Endpoint      string        `mapstructure:"endpoint"`
	APIKey        string        `mapstructure:"api_key"`
	Deployment    string        `mapstructure:"deployment"`
	APIVersion    string        `mapstructure:"api_version"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxTokens     int           `mapstructure:"max_tokens"`
	Temperature   float64       `mapstructure:"temperature"`
	TopP          float64       `mapstructure:"top_p"`
	KnowledgeFile string        `mapstructure:"knowledge_file"`
	HistoryLimit  int           `mapstructure:"history_limit"`
}

func (c AssistantConfig) Configured() bool {
	return c.Endpoint != "" && c.APIKey != "" && c.Deployment != ""
}

type RateLimitConfig struct {
	RedisURL       string        `mapstructure:"redis_url"`
	PublicRequests int           `mapstructure:"public_requests"`
	PublicWindow   time.Duration `mapstructure:"public_window"`
	ChatRequests   int           `mapstructure:"chat_requests"`
	ChatWindow     time.Duration `mapstructure:"chat_window"`
}

// ----------------- DEFAULTS -----------------

func (c *Config) ApplyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.MaxUploadBytes == 0 {
		c.Server.MaxUploadBytes = 32 << 20
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 120 * time.Second
	}

	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 20
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}

	if c.Security.AccessTokenDuration == 0 {
		c.Security.AccessTokenDuration = 15 * time.Minute
	}
	if c.Security.RefreshTokenDuration == 0 {
		c.Security.RefreshTokenDuration = 7 * 24 * time.Hour
	}
	if c.Security.BCryptCost == 0 {
		c.Security.BCryptCost = 10
	}

	if c.Observability.Logging.Level == "" {
		c.Observability.Logging.Level = "info"
	}
	if c.Observability.Logging.Format == "" {
		c.Observability.Logging.Format = "text"
	}

	if c.Onboarding.EmployeeIDPrefix == "" {
		c.Onboarding.EmployeeIDPrefix = "WW"
	}
	if c.Onboarding.PasswordSuffix == "" {
		c.Onboarding.PasswordSuffix = "@WW2025"
	}
	if c.Onboarding.DefaultPosition == "" {
		c.Onboarding.DefaultPosition = "Software Engineer"
	}
	if c.Onboarding.OfferTokenTTL == 0 {
		c.Onboarding.OfferTokenTTL = 7 * 24 * time.Hour
	}
	if c.Onboarding.PassTokenTTL == 0 {
		c.Onboarding.PassTokenTTL = 7 * 24 * time.Hour
	}
	if c.Onboarding.WelcomeDelay == 0 {
		c.Onboarding.WelcomeDelay = time.Minute
	}

	if c.Notification.Sender == "" {
		c.Notification.Sender = "hr@winwire.com"
	}
	if c.Notification.Timeout == 0 {
		c.Notification.Timeout = 10 * time.Second
	}
	if c.Notification.MaxWorkers == 0 {
		c.Notification.MaxWorkers = 4
	}
	if c.Notification.QueueSize == 0 {
		c.Notification.QueueSize = 256
	}

	if c.Assistant.Timeout == 0 {
		c.Assistant.Timeout = 30 * time.Second
	}
	if c.Assistant.MaxTokens == 0 {
		c.Assistant.MaxTokens = 2048
	}
	if c.Assistant.Temperature == 0 {
		c.Assistant.Temperature = 0.7
	}
	if c.Assistant.TopP == 0 {
		c.Assistant.TopP = 0.95
	}
	if c.Assistant.HistoryLimit == 0 {
		c.Assistant.HistoryLimit = 10
	}

	if c.RateLimit.PublicRequests == 0 {
		c.RateLimit.PublicRequests = 20
	}
	if c.RateLimit.PublicWindow == 0 {
		c.RateLimit.PublicWindow = time.Minute
	}
	if c.RateLimit.ChatRequests == 0 {
		c.RateLimit.ChatRequests = 30
	}
	if c.RateLimit.ChatWindow == 0 {
		c.RateLimit.ChatWindow = time.Minute
	}
}

// LoadConfigFromEnv builds the configuration from plain environment variables (container deployments).
func LoadConfigFromEnv() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnvAsInt("HTTP_PORT", 8080),
			BaseURL:        getEnv("BASE_URL", ""),
			AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
			ReadTimeout:    getEnvAsDuration("HTTP_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:   getEnvAsDuration("HTTP_WRITE_TIMEOUT", 60*time.Second),
			IdleTimeout:    getEnvAsDuration("HTTP_IDLE_TIMEOUT", 120*time.Second),
		},
		Database: DatabaseConfig{
			Source:       getEnv("DATABASE_URL", ""),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		},
		Security: SecurityConfig{
			AccessTokenSecret:    getEnv("JWT_ACCESS_SECRET", ""),
			RefreshTokenSecret:   getEnv("JWT_REFRESH_SECRET", ""),
			AccessTokenDuration:  getEnvAsDuration("JWT_ACCESS_TTL", 15*time.Minute),
			RefreshTokenDuration: getEnvAsDuration("JWT_REFRESH_TTL", 7*24*time.Hour),
			BCryptCost:           getEnvAsInt("BCRYPT_COST", 10),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "json"),
			},
		},
		Onboarding: OnboardingConfig{
			PortalURL:        getEnv("PORTAL_URL", ""),
			EmployeeIDPrefix: getEnv("EMPLOYEE_ID_PREFIX", "WW"),
			PasswordSuffix:   getEnv("EMPLOYEE_PASSWORD_SUFFIX", "@WW2025"),
			OfferTokenTTL:    getEnvAsDuration("OFFER_TOKEN_TTL", 7*24*time.Hour),
			PassTokenTTL:     getEnvAsDuration("PASS_TOKEN_TTL", 7*24*time.Hour),
			WelcomeDelay:     getEnvAsDuration("WELCOME_DELAY", time.Minute),
		},
		Notification: NotificationConfig{
			RelayURL:   getEnv("MAIL_RELAY_URL", ""),
			APIKey:     getEnv("MAIL_RELAY_API_KEY", ""),
			Sender:     getEnv("MAIL_SENDER", "hr@winwire.com"),
			Timeout:    getEnvAsDuration("MAIL_TIMEOUT", 10*time.Second),
			MaxWorkers: getEnvAsInt("MAIL_WORKERS", 4),
			QueueSize:  getEnvAsInt("MAIL_QUEUE_SIZE", 256),
		},
		Assistant: AssistantConfig{
			Endpoint:      strings.TrimRight(getEnv("AZURE_OPENAI_ENDPOINT", ""), "/"),
			APIKey:        getEnv("AZURE_OPENAI_API_KEY", ""),
			Deployment:    getEnv("AZURE_OPENAI_DEPLOYMENT", ""),
			APIVersion:    getEnv("AZURE_OPENAI_API_VERSION", "2024-02-15-preview"),
			KnowledgeFile: getEnv("ASSISTANT_KNOWLEDGE_FILE", ""),
		},
		RateLimit: RateLimitConfig{
			RedisURL: getEnv("REDIS_URL", ""),
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if err := c.Onboarding.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("onboarding config: %v", err))
	}

	if err := c.Notification.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("notification config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.AllowedOrigins != "" {
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.Source == "" {
		return errors.New("source is required")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

func (c *SecurityConfig) Validate() error {
	if len(c.AccessTokenSecret) < 32 {
		return errors.New("access_token_secret must be at least 32 characters")
	}
	if len(c.RefreshTokenSecret) < 32 {
		return errors.New("refresh_token_secret must be at least 32 characters")
	}
	if c.AccessTokenSecret == c.RefreshTokenSecret {
		return errors.New("access and refresh token secrets must differ")
	}
	if c.BCryptCost < 4 || c.BCryptCost > 15 {
		return errors.New("bcrypt_cost must be between 4 and 15")
	}
	return nil
}

func (c *OnboardingConfig) Validate() error {
	if c.EmployeeIDPrefix == "" {
		return errors.New("employee_id_prefix is required")
	}
	if c.PassTokenTTL <= 0 || c.OfferTokenTTL <= 0 {
		return errors.New("token ttl values must be positive")
	}
	if c.WelcomeDelay < 0 {
		return errors.New("welcome_delay cannot be negative")
	}
	return nil
}

func (c *NotificationConfig) Validate() error {
	if c.RelayURL != "" {
		if _, err := url.ParseRequestURI(c.RelayURL); err != nil {
			return fmt.Errorf("invalid relay_url: %w", err)
		}
	}
	if c.MaxWorkers <= 0 {
		return errors.New("max_workers must be positive")
	}
	return nil
}
