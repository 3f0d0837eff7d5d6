package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"time-tracking-bot/pkg/datemath"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Storage
	Database DatabaseConfig

	// Time tracking
	Telegram       TelegramConfig
	Tracker        TrackerConfig
	AutoClose      AutoCloseConfig
	GoogleCalendar GoogleCalendarConfig

	// Webhooks
	Webhook WebhookConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type DatabaseConfig struct {
	Path string
}

type TelegramConfig struct {
	BotToken    string
	WebhookURL  string
	SecretToken string
	NgrokAPIURL string
	PollTimeout time.Duration
}

// TrackerConfig holds the defaults for new users. WorkdayStart and
// WorkdayEnd are the parsed forms of the Default* strings.
type TrackerConfig struct {
	DefaultTimezone     string
	DefaultWorkdayStart string
	DefaultWorkdayEnd   string
	StorageTimeout      time.Duration
	UpdateWindow        time.Duration
	TrackerBaseURL      string

	WorkdayStart datemath.TimeOfDay
	WorkdayEnd   datemath.TimeOfDay
}

type AutoCloseConfig struct {
	Enabled    bool
	Interval   time.Duration
	FirstDelay time.Duration
}

type GoogleCalendarConfig struct {
	CredentialsPath string
	TokenPath       string
	CalendarID      string
}

type WebhookConfig struct {
	AllowedIPs      []string
	RateLimitPerMin int
}

// Load loads configuration using Viper.
// Config file name: config.yaml, searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/app/")

	return load(v)
}

// LoadFile loads configuration from an explicit file path.
func LoadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = v.GetString("environment.name")
	cfg.HTTPServer.Port = v.GetInt("http_server.port")
	cfg.HTTPServer.Mode = v.GetString("http_server.mode")
	cfg.Logger.Level = v.GetString("logger.level")
	cfg.Logger.Mode = v.GetString("logger.mode")
	cfg.Logger.Encoding = v.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = v.GetBool("logger.color_enabled")

	// Storage
	cfg.Database.Path = v.GetString("database.path")

	// Telegram
	cfg.Telegram.BotToken = v.GetString("telegram.bot_token")
	cfg.Telegram.WebhookURL = v.GetString("telegram.webhook_url")
	cfg.Telegram.SecretToken = v.GetString("telegram.secret_token")
	cfg.Telegram.NgrokAPIURL = v.GetString("telegram.ngrok_api_url")
	cfg.Telegram.PollTimeout = v.GetDuration("telegram.poll_timeout")
	if tgToken := v.GetString("telegram_bot_token"); tgToken != "" {
		cfg.Telegram.BotToken = tgToken
	}

	// Tracker
	cfg.Tracker.DefaultTimezone = v.GetString("tracker.default_timezone")
	cfg.Tracker.DefaultWorkdayStart = v.GetString("tracker.default_workday_start")
	cfg.Tracker.DefaultWorkdayEnd = v.GetString("tracker.default_workday_end")
	cfg.Tracker.StorageTimeout = v.GetDuration("tracker.storage_timeout")
	cfg.Tracker.UpdateWindow = v.GetDuration("tracker.update_window")
	cfg.Tracker.TrackerBaseURL = v.GetString("tracker.tracker_base_url")

	// Auto-close job
	cfg.AutoClose.Enabled = v.GetBool("autoclose.enabled")
	cfg.AutoClose.Interval = v.GetDuration("autoclose.interval")
	cfg.AutoClose.FirstDelay = v.GetDuration("autoclose.first_delay")

	// Google Calendar
	cfg.GoogleCalendar.CredentialsPath = v.GetString("google_calendar.credentials_path")
	cfg.GoogleCalendar.TokenPath = v.GetString("google_calendar.token_path")
	cfg.GoogleCalendar.CalendarID = v.GetString("google_calendar.calendar_id")
	if googleCreds := v.GetString("google_calendar_credentials"); googleCreds != "" {
		cfg.GoogleCalendar.CredentialsPath = googleCreds
	}

	// Webhooks
	cfg.Webhook.RateLimitPerMin = v.GetInt("webhook.rate_limit_per_min")
	if webhookSecret := v.GetString("webhook_secret"); webhookSecret != "" {
		cfg.Telegram.SecretToken = webhookSecret
	}

	// Split allowed IPs since viper might not parse array seamlessly from env
	cfg.Webhook.AllowedIPs = splitList(v.GetStringSlice("webhook.allowed_ips"))

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment.name", "development")
	v.SetDefault("http_server.port", 8080)
	v.SetDefault("http_server.mode", "debug")
	v.SetDefault("logger.level", "debug")
	v.SetDefault("logger.mode", "debug")
	v.SetDefault("logger.encoding", "console")
	v.SetDefault("logger.color_enabled", true)

	v.SetDefault("database.path", "tracker.db")

	v.SetDefault("telegram.ngrok_api_url", "http://ngrok:4040")
	v.SetDefault("telegram.poll_timeout", "30s")

	v.SetDefault("tracker.default_timezone", "Europe/Moscow")
	v.SetDefault("tracker.default_workday_start", "09:00")
	v.SetDefault("tracker.default_workday_end", "18:00")
	v.SetDefault("tracker.storage_timeout", "5s")
	v.SetDefault("tracker.update_window", "60s")

	v.SetDefault("autoclose.enabled", true)
	v.SetDefault("autoclose.interval", "5m")
	v.SetDefault("autoclose.first_delay", "60s")

	v.SetDefault("google_calendar.token_path", "token.json")
	v.SetDefault("google_calendar.calendar_id", "primary")

	v.SetDefault("webhook.rate_limit_per_min", 30)
}

func (cfg *Config) validate() error {
	if cfg.HTTPServer.Port <= 0 {
		return fmt.Errorf("http_server.port must be positive, got %d", cfg.HTTPServer.Port)
	}
	if cfg.Database.Path == "" {
		return errors.New("database.path is required")
	}

	if !datemath.ValidateTimeZone(cfg.Tracker.DefaultTimezone) {
		return fmt.Errorf("tracker.default_timezone %q is not a valid IANA zone", cfg.Tracker.DefaultTimezone)
	}
	start, err := datemath.ParseTimeOfDay(cfg.Tracker.DefaultWorkdayStart)
	if err != nil {
		return fmt.Errorf("tracker.default_workday_start: %w", err)
	}
	end, err := datemath.ParseTimeOfDay(cfg.Tracker.DefaultWorkdayEnd)
	if err != nil {
		return fmt.Errorf("tracker.default_workday_end: %w", err)
	}
	cfg.Tracker.WorkdayStart = start
	cfg.Tracker.WorkdayEnd = end

	if cfg.Tracker.StorageTimeout <= 0 {
		return errors.New("tracker.storage_timeout must be positive")
	}
	if cfg.Tracker.UpdateWindow < 0 {
		return errors.New("tracker.update_window must not be negative")
	}
	if cfg.AutoClose.Enabled && cfg.AutoClose.Interval <= 0 {
		return errors.New("autoclose.interval must be positive")
	}
	if cfg.Webhook.RateLimitPerMin <= 0 {
		return errors.New("webhook.rate_limit_per_min must be positive")
	}
	return nil
}

// splitList flattens comma-separated entries, which is how lists arrive from env.
func splitList(raw []string) []string {
	var out []string
	for _, item := range raw {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
