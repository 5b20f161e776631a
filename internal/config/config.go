package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override, e.g. ETF_SERVER_PORT.
const EnvPrefix = "ETF"

// DefaultPath is used when neither -config nor CONFIG_PATH is given.
const DefaultPath = "configs/config.yaml"

// Provider sources.
const (
	SourceYahoo = "yahoo"
	SourceREST  = "rest"
	SourceMock  = "mock"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Provider ProviderConfig `yaml:"provider" envconfig:"PROVIDER"`
	Batch    BatchConfig    `yaml:"batch" envconfig:"BATCH"`
	Cache    CacheConfig    `yaml:"cache" envconfig:"CACHE"`
	Schedule ScheduleConfig `yaml:"schedule" envconfig:"SCHEDULE"`
	Database DatabaseConfig `yaml:"database" envconfig:"DATABASE"`
	Telegram TelegramConfig `yaml:"telegram" envconfig:"TELEGRAM"`
}

type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	AllowedOrigins  []string      `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" validate:"min=1"`
}

type ProviderConfig struct {
	Source     string        `yaml:"source" envconfig:"SOURCE" validate:"oneof=yahoo rest mock"`
	ChartURL   string        `yaml:"chart_url" envconfig:"CHART_URL" validate:"omitempty,url"`
	QuoteURL   string        `yaml:"quote_url" envconfig:"QUOTE_URL" validate:"omitempty,url"`
	CookieURL  string        `yaml:"cookie_url" envconfig:"COOKIE_URL" validate:"omitempty,url"`
	BaseURL    string        `yaml:"base_url" envconfig:"BASE_URL" validate:"required_if=Source rest"`
	APIKey     string        `yaml:"api_key" envconfig:"API_KEY"`
	Proxy      string        `yaml:"proxy" envconfig:"PROXY"`
	UserAgent  string        `yaml:"user_agent" envconfig:"USER_AGENT"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"TIMEOUT" validate:"gt=0"`
	RPS        float64       `yaml:"rps" envconfig:"RPS" validate:"gte=0"`
	Burst      int           `yaml:"burst" envconfig:"BURST" validate:"gte=0"`
	MaxRetries uint          `yaml:"max_retries" envconfig:"MAX_RETRIES" validate:"lte=10"`
	BaseDelay  time.Duration `yaml:"base_delay" envconfig:"BASE_DELAY"`
	MaxDelay   time.Duration `yaml:"max_delay" envconfig:"MAX_DELAY" validate:"gtefield=BaseDelay"`
}

type BatchConfig struct {
	Concurrency  int           `yaml:"concurrency" envconfig:"CONCURRENCY" validate:"min=1,max=64"`
	LookbackDays int           `yaml:"lookback_days" envconfig:"LOOKBACK_DAYS" validate:"min=30"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" envconfig:"FETCH_TIMEOUT" validate:"gt=0"`
	UniverseFile string        `yaml:"universe_file" envconfig:"UNIVERSE_FILE"`
}

type CacheConfig struct {
	TTL time.Duration `yaml:"ttl" envconfig:"TTL" validate:"gte=0"`
}

type ScheduleConfig struct {
	RefreshCron string `yaml:"refresh_cron" envconfig:"REFRESH_CRON"`
	RunOnStart  bool   `yaml:"run_on_start" envconfig:"RUN_ON_START"`
}

type DatabaseConfig struct {
	SQLitePath string `yaml:"sqlite_path" envconfig:"SQLITE_PATH"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token" envconfig:"BOT_TOKEN" validate:"required_with=ChatID"`
	ChatID   string `yaml:"chat_id" envconfig:"CHAT_ID" validate:"required_with=BotToken"`
}

// Enabled reports whether both Telegram credentials are present.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// Path picks the config file: the flag value, then CONFIG_PATH, then DefaultPath.
func Path(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return DefaultPath
}

// Load reads config from a YAML file, then applies environment variable
// overrides and finally defaults. A missing file is not an error.
// provider.max_retries and cache.ttl are seeded before the file is read,
// so an explicit zero there sticks.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Provider: ProviderConfig{MaxRetries: 3},
		Cache:    CacheConfig{TTL: 10 * time.Minute},
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("env overrides: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills fields left at their zero value. Fields whose zero
// value is meaningful are seeded in Load instead.
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 5000
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		// a cold /api/etfs runs the whole batch inside the request
		c.Server.WriteTimeout = 5 * time.Minute
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15 * time.Second
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}

	if c.Provider.Source == "" {
		c.Provider.Source = SourceYahoo
		if c.Provider.BaseURL != "" {
			c.Provider.Source = SourceREST
		}
	}
	c.Provider.Source = strings.ToLower(c.Provider.Source)
	if c.Provider.Timeout == 0 {
		c.Provider.Timeout = 20 * time.Second
	}
	if c.Provider.RPS == 0 {
		c.Provider.RPS = 5
	}
	if c.Provider.Burst == 0 {
		c.Provider.Burst = 5
	}
	if c.Provider.BaseDelay == 0 {
		c.Provider.BaseDelay = 500 * time.Millisecond
	}
	if c.Provider.MaxDelay == 0 {
		c.Provider.MaxDelay = 8 * time.Second
	}

	if c.Batch.Concurrency == 0 {
		c.Batch.Concurrency = 4
	}
	if c.Batch.LookbackDays == 0 {
		c.Batch.LookbackDays = 365
	}
	if c.Batch.FetchTimeout == 0 {
		c.Batch.FetchTimeout = 20 * time.Second
	}

	if c.Schedule.RefreshCron == "" {
		c.Schedule.RefreshCron = "0 */15 * * * *"
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints. The returned error lists every failing
// field by its YAML path.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fieldPath(fe.Namespace()), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// fieldPath turns "Config.Batch.Concurrency" into "batch.concurrency".
func fieldPath(ns string) string {
	parts := strings.Split(ns, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = snake(p)
	}
	return strings.Join(parts, ".")
}

func snake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(s[i-1] >= 'A' && s[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
