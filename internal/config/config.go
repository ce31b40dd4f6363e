// File: internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	globalConfig *Config
	globalMu     sync.RWMutex
)

// Config holds the entire application configuration.
type Config struct {
	Logger     LoggerConfig     `mapstructure:"logger" yaml:"logger"`
	Browser    BrowserConfig    `mapstructure:"browser" yaml:"browser"`
	Network    NetworkConfig    `mapstructure:"network" yaml:"network"`
	Screenplay ScreenplayConfig `mapstructure:"screenplay" yaml:"screenplay"`
	Targets    TargetsConfig    `mapstructure:"targets" yaml:"targets"`
	Runner     RunnerConfig     `mapstructure:"runner" yaml:"runner"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// BrowserConfig holds settings for the browser driven by web actors.
type BrowserConfig struct {
	Headless        bool           `mapstructure:"headless" yaml:"headless"`
	DisableCache    bool           `mapstructure:"disable_cache" yaml:"disable_cache"`
	IgnoreTLSErrors bool           `mapstructure:"ignore_tls_errors" yaml:"ignore_tls_errors"`
	ExecPath        string         `mapstructure:"exec_path" yaml:"exec_path"`
	UserAgent       string         `mapstructure:"user_agent" yaml:"user_agent"`
	Args            []string       `mapstructure:"args" yaml:"args"`
	Viewport        ViewportConfig `mapstructure:"viewport" yaml:"viewport"`
	LaunchTimeout   time.Duration  `mapstructure:"launch_timeout" yaml:"launch_timeout"`
}

// ViewportConfig is the browser window size.
type ViewportConfig struct {
	Width  int `mapstructure:"width" yaml:"width"`
	Height int `mapstructure:"height" yaml:"height"`
}

// NetworkConfig tunes the network behavior of browser and API actors.
type NetworkConfig struct {
	Timeout           time.Duration     `mapstructure:"timeout" yaml:"timeout"`
	NavigationTimeout time.Duration     `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	Headers           map[string]string `mapstructure:"headers" yaml:"headers"`
	IgnoreTLSErrors   bool              `mapstructure:"ignore_tls_errors" yaml:"ignore_tls_errors"`
}

// ScreenplayConfig controls how actors wait and interact.
type ScreenplayConfig struct {
	WaitTimeout        time.Duration `mapstructure:"wait_timeout" yaml:"wait_timeout"`
	PollingInterval    time.Duration `mapstructure:"polling_interval" yaml:"polling_interval"`
	InteractionTimeout time.Duration `mapstructure:"interaction_timeout" yaml:"interaction_timeout"`
}

// TargetsConfig lists the systems under test.
type TargetsConfig struct {
	SerenityURL     string `mapstructure:"serenity_url" yaml:"serenity_url"`
	TodoAppURL      string `mapstructure:"todo_app_url" yaml:"todo_app_url"`
	GitHubStatusURL string `mapstructure:"github_status_url" yaml:"github_status_url"`
}

// RunnerConfig configures scenario execution.
type RunnerConfig struct {
	Concurrency     int           `mapstructure:"concurrency" yaml:"concurrency"`
	ScenarioTimeout time.Duration `mapstructure:"scenario_timeout" yaml:"scenario_timeout"`
	Report          string        `mapstructure:"report" yaml:"report"`
	Tags            []string      `mapstructure:"tags" yaml:"tags"`
}

// Get returns the process-wide configuration, falling back to defaults.
func Get() *Config {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalConfig == nil {
		return NewDefaultConfig()
	}
	return globalConfig
}

// Set replaces the process-wide configuration.
func Set(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = cfg
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "stagehand")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "magenta")

	// -- Browser --
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.disable_cache", true)
	v.SetDefault("browser.ignore_tls_errors", false)
	v.SetDefault("browser.viewport.width", 1280)
	v.SetDefault("browser.viewport.height", 800)
	v.SetDefault("browser.launch_timeout", "30s")

	// -- Network --
	v.SetDefault("network.timeout", "30s")
	v.SetDefault("network.navigation_timeout", "60s")
	v.SetDefault("network.ignore_tls_errors", false)

	// -- Screenplay --
	v.SetDefault("screenplay.wait_timeout", "5s")
	v.SetDefault("screenplay.polling_interval", "500ms")
	v.SetDefault("screenplay.interaction_timeout", "30s")

	// -- Targets --
	v.SetDefault("targets.serenity_url", "https://serenity-js.org")
	v.SetDefault("targets.todo_app_url", "https://todo-app.serenity-js.org/")
	v.SetDefault("targets.github_status_url", "https://www.githubstatus.com/api/v2/")

	// -- Runner --
	v.SetDefault("runner.concurrency", 1)
	v.SetDefault("runner.scenario_timeout", "2m")
	v.SetDefault("runner.report", "")
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.Runner.Concurrency <= 0 {
		return fmt.Errorf("runner.concurrency must be a positive integer")
	}
	if c.Screenplay.WaitTimeout <= 0 {
		return fmt.Errorf("screenplay.wait_timeout must be a positive duration")
	}
	if c.Screenplay.PollingInterval <= 0 {
		return fmt.Errorf("screenplay.polling_interval must be a positive duration")
	}
	if c.Screenplay.PollingInterval > c.Screenplay.WaitTimeout {
		return fmt.Errorf("screenplay.polling_interval must not exceed screenplay.wait_timeout")
	}
	if err := c.Targets.Validate(); err != nil {
		return fmt.Errorf("targets configuration invalid: %w", err)
	}
	return nil
}

// Validate checks that every target is an absolute http(s) URL.
func (t *TargetsConfig) Validate() error {
	targets := map[string]string{
		"serenity_url":      t.SerenityURL,
		"todo_app_url":      t.TodoAppURL,
		"github_status_url": t.GitHubStatusURL,
	}
	for key, value := range targets {
		if value == "" {
			return fmt.Errorf("%s is required", key)
		}
		if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
			return fmt.Errorf("%s must be an http(s) URL, got %q", key, value)
		}
	}
	return nil
}
