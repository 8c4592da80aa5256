package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the full runtime configuration.
type Config struct {
	Input    InputConfig    `mapstructure:"input"`
	Output   OutputConfig   `mapstructure:"output"`
	Chart    ChartConfig    `mapstructure:"chart"`
	Log      LogConfig      `mapstructure:"log"`
	Telegram TelegramConfig `mapstructure:"telegram"`
}

type InputConfig struct {
	Path        string   `mapstructure:"path"`         // skips the file dialog when set
	Extension   string   `mapstructure:"extension"`    // file dialog filter
	Sheet       string   `mapstructure:"sheet"`        // xlsx worksheet, empty = first
	DateLayouts []string `mapstructure:"date_layouts"` // Go layouts for creationDate
}

type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

type ChartConfig struct {
	Width        int    `mapstructure:"width"`
	Height       int    `mapstructure:"height"`
	FontPath     string `mapstructure:"font_path"`
	BoldFontPath string `mapstructure:"bold_font_path"`
}

type LogConfig struct {
	Dir   string `mapstructure:"dir"`
	Level string `mapstructure:"level"`
}

// TelegramConfig enables chart delivery when both token and chat id are set.
type TelegramConfig struct {
	BotToken      string  `mapstructure:"bot_token"`
	ChatID        string  `mapstructure:"chat_id"`
	RatePerSecond float64 `mapstructure:"rate_per_second"`
	MaxRetries    int     `mapstructure:"max_retries"`
}

func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// Flag names bound onto config keys.
const (
	FlagInput     = "input"
	FlagOutputDir = "output-dir"
	FlagLogLevel  = "log-level"
	FlagConfig    = "config"
)

var flagBindings = map[string]string{
	"input.path": FlagInput,
	"output.dir": FlagOutputDir,
	"log.level":  FlagLogLevel,
}

// Load merges, lowest precedence first:
// 1. defaults
// 2. config.yaml in the working directory, or configFile when given
// 3. .env file and the environment (DEMAND_ prefix plus the aliases below)
// 4. flags that were set explicitly
func Load(flags *pflag.FlagSet, configFile string) (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config.yaml: %w", err)
			}
		}
	}

	v.SetEnvPrefix("DEMAND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setupEnvAliases(v)

	if flags != nil {
		for key, name := range flagBindings {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	// A comma separated env value arrives as one string.
	cfg.Input.DateLayouts = splitList(v.Get("input.date_layouts"))

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setupEnvAliases(v *viper.Viper) {
	v.BindEnv("input.path", "DEMAND_INPUT_PATH", "PAYMENTS_FILE")
	v.BindEnv("output.dir", "DEMAND_OUTPUT_DIR", "OUTPUT_DIR")
	v.BindEnv("telegram.bot_token", "DEMAND_TELEGRAM_BOT_TOKEN", "TELEGRAM_BOT_TOKEN")
	v.BindEnv("telegram.chat_id", "DEMAND_TELEGRAM_CHAT_ID", "TELEGRAM_CHAT_ID")
}

func setDefaults(v *viper.Viper) {
	// Input
	v.SetDefault("input.path", "")
	v.SetDefault("input.extension", ".xlsx")
	v.SetDefault("input.sheet", "")
	v.SetDefault("input.date_layouts", []string{})

	// Output
	v.SetDefault("output.dir", "customer-demand-graphs")

	// Chart (10x6 inches at 100 dpi)
	v.SetDefault("chart.width", 1000)
	v.SetDefault("chart.height", 600)
	v.SetDefault("chart.font_path", "")
	v.SetDefault("chart.bold_font_path", "")

	// Log
	v.SetDefault("log.dir", "logs")
	v.SetDefault("log.level", "info")

	// Telegram
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")
	v.SetDefault("telegram.rate_per_second", 1.0)
	v.SetDefault("telegram.max_retries", 3)
}

func splitList(raw interface{}) []string {
	var items []string
	switch val := raw.(type) {
	case string:
		items = strings.Split(val, ",")
	case []string:
		items = val
	case []interface{}:
		for _, item := range val {
			if s, ok := item.(string); ok {
				items = append(items, s)
			}
		}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Output.Dir) == "" {
		return fmt.Errorf("output.dir must not be empty")
	}
	if cfg.Chart.Width < 200 || cfg.Chart.Height < 150 {
		return fmt.Errorf("chart size %dx%d is too small (minimum 200x150)", cfg.Chart.Width, cfg.Chart.Height)
	}
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required when telegram.bot_token is set")
	}
	if cfg.Telegram.RatePerSecond <= 0 {
		return fmt.Errorf("telegram.rate_per_second must be positive")
	}
	return nil
}
