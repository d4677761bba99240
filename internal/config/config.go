package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone  = "UTC"
	configPathEnv    = "TRANSCRIPT_LINKER_CONFIG"
	databaseDSNEnv   = "DATABASE_DSN"
	calendarTokenEnv = "GOOGLE_CALENDAR_TOKEN"
	tldvAPIKeyEnv    = "TLDV_API_KEY"
	firefliesKeyEnv  = "FIREFLIES_API_KEY"
	llmAPIKeyEnv     = "LLM_API_KEY"
	llmModelEnv      = "LLM_MODEL"
	telegramTokenEnv = "TELEGRAM_BOT_TOKEN"
	telegramChatEnv  = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Database      DatabaseConfig     `yaml:"database"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Calendar      CalendarConfig     `yaml:"calendar"`
	Providers     ProvidersConfig    `yaml:"providers"`
	Matching      MatchingConfig     `yaml:"matching"`
	LLM           LLMConfig          `yaml:"llm"`
	Notifications NotificationConfig `yaml:"notifications"`
}

// LoggingConfig selects the console log level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DatabaseConfig describes Postgres connection details.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// SchedulerConfig defines when runs execute.
type SchedulerConfig struct {
	IntervalHours int            `yaml:"intervalHours"`
	Timezone      string         `yaml:"timezone"`
	location      *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// CalendarConfig wires the Google Calendar event source.
type CalendarConfig struct {
	BaseURL    string `yaml:"baseUrl"`
	CalendarID string `yaml:"calendarId"`
	Token      string `yaml:"token"`
}

// ProvidersConfig groups settings for recording sources.
type ProvidersConfig struct {
	Enabled   []string        `yaml:"enabled"`
	Tldv      TldvConfig      `yaml:"tldv"`
	Fireflies FirefliesConfig `yaml:"fireflies"`
}

// TldvConfig describes the tldv REST API.
type TldvConfig struct {
	BaseURL string `yaml:"baseUrl"`
	APIKey  string `yaml:"apiKey"`
}

// FirefliesConfig describes the Fireflies GraphQL API.
type FirefliesConfig struct {
	GraphQLURL string `yaml:"graphqlUrl"`
	APIKey     string `yaml:"apiKey"`
}

// MatchingConfig controls the matching engine.
type MatchingConfig struct {
	Strategies             []string `yaml:"strategies"`
	LookbackDays           float64  `yaml:"lookbackDays"`
	ProximityWindowMinutes int      `yaml:"proximityWindowMinutes"`
	IgnoreKeywords         []string `yaml:"ignoreKeywords"`
}

// ProximityWindow returns the maximum start-time delta for proximity matches.
func (m MatchingConfig) ProximityWindow() time.Duration {
	return time.Duration(m.ProximityWindowMinutes) * time.Minute
}

// Lookback returns the run's fetch window as a duration.
func (m MatchingConfig) Lookback() time.Duration {
	return time.Duration(m.LookbackDays * 24 * float64(time.Hour))
}

// LLMConfig defines how to contact the completion service.
type LLMConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(calendarTokenEnv); v != "" {
		c.Calendar.Token = v
	}

	if v := os.Getenv(tldvAPIKeyEnv); v != "" {
		c.Providers.Tldv.APIKey = v
	}

	if v := os.Getenv(firefliesKeyEnv); v != "" {
		c.Providers.Fireflies.APIKey = v
	}

	if v := os.Getenv(llmAPIKeyEnv); v != "" {
		c.LLM.APIKey = v
	}

	if v := os.Getenv(llmModelEnv); v != "" {
		c.LLM.Model = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Scheduler.IntervalHours != 0 {
		base.Scheduler.IntervalHours = override.Scheduler.IntervalHours
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Calendar.BaseURL != "" {
		base.Calendar.BaseURL = override.Calendar.BaseURL
	}
	if override.Calendar.CalendarID != "" {
		base.Calendar.CalendarID = override.Calendar.CalendarID
	}
	if override.Calendar.Token != "" {
		base.Calendar.Token = override.Calendar.Token
	}

	if len(override.Providers.Enabled) > 0 {
		base.Providers.Enabled = override.Providers.Enabled
	}
	if override.Providers.Tldv.BaseURL != "" {
		base.Providers.Tldv.BaseURL = override.Providers.Tldv.BaseURL
	}
	if override.Providers.Tldv.APIKey != "" {
		base.Providers.Tldv.APIKey = override.Providers.Tldv.APIKey
	}
	if override.Providers.Fireflies.GraphQLURL != "" {
		base.Providers.Fireflies.GraphQLURL = override.Providers.Fireflies.GraphQLURL
	}
	if override.Providers.Fireflies.APIKey != "" {
		base.Providers.Fireflies.APIKey = override.Providers.Fireflies.APIKey
	}

	if len(override.Matching.Strategies) > 0 {
		base.Matching.Strategies = override.Matching.Strategies
	}
	if override.Matching.LookbackDays != 0 {
		base.Matching.LookbackDays = override.Matching.LookbackDays
	}
	if override.Matching.ProximityWindowMinutes != 0 {
		base.Matching.ProximityWindowMinutes = override.Matching.ProximityWindowMinutes
	}
	if len(override.Matching.IgnoreKeywords) > 0 {
		base.Matching.IgnoreKeywords = override.Matching.IgnoreKeywords
	}

	if override.LLM.Endpoint != "" {
		base.LLM.Endpoint = override.LLM.Endpoint
	}
	if override.LLM.Model != "" {
		base.LLM.Model = override.LLM.Model
	}
	if override.LLM.APIKey != "" {
		base.LLM.APIKey = override.LLM.APIKey
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging:  LoggingConfig{Level: "info"},
		Database: DatabaseConfig{DSN: ""},
		Scheduler: SchedulerConfig{
			IntervalHours: 24,
			Timezone:      defaultTimezone,
			location:      tz,
		},
		Calendar: CalendarConfig{
			BaseURL:    "https://www.googleapis.com/calendar/v3",
			CalendarID: "primary",
		},
		Providers: ProvidersConfig{
			Enabled: []string{"tldv"},
			Tldv: TldvConfig{
				BaseURL: "https://pasta.tldv.io/v1alpha1",
			},
			Fireflies: FirefliesConfig{
				GraphQLURL: "https://api.fireflies.ai/graphql",
			},
		},
		Matching: MatchingConfig{
			Strategies:             []string{"deterministic", "semantic"},
			LookbackDays:           1,
			ProximityWindowMinutes: 5,
			IgnoreKeywords:         []string{"1:1", "1-1", "catch-up", "private", "performance review"},
		},
		LLM: LLMConfig{
			Endpoint: "https://api.openai.com/v1/chat/completions",
			Model:    "gpt-4o",
		},
		Notifications: NotificationConfig{
			Telegram: TelegramConfig{BotToken: "", ChatID: ""},
		},
	}
}
