package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config is the complete application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Security SecurityConfig `yaml:"security" envconfig:"SECURITY"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Data     DataConfig     `yaml:"data" envconfig:"DATA"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// SecurityConfig contains CORS and rate limiting configuration.
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"stdout"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// DataConfig names the input files and output directory. The three inputs
// are read-only; they are the only persistence the pipeline has.
type DataConfig struct {
	InvestmentFile string `yaml:"investment_file" envconfig:"INVESTMENT_FILE" default:"data/investment.csv"`
	GDPFile        string `yaml:"gdp_file" envconfig:"GDP_FILE" default:"data/gdp.csv"`
	IndicatorsFile string `yaml:"indicators_file" envconfig:"INDICATORS_FILE" default:"data/indicators.csv"`
	ReportsDir     string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"data/reports"`
	Watch          bool   `yaml:"watch" envconfig:"WATCH" default:"true"`
}

// AnalysisConfig holds the statistical thresholds and the summary wording.
// Labels are configuration, not code: the narrative around H0/H1 must not
// be hardcoded.
type AnalysisConfig struct {
	Alpha           float64 `yaml:"alpha" envconfig:"ALPHA" default:"0.05"`
	SummaryTitle    string  `yaml:"summary_title" envconfig:"SUMMARY_TITLE" default:"STEM Investment and Macroeconomic Indicators"`
	NullHypothesis  string  `yaml:"null_hypothesis" envconfig:"NULL_HYPOTHESIS" default:"STEM investment is unrelated to the indicator"`
	AltHypothesis   string  `yaml:"alt_hypothesis" envconfig:"ALT_HYPOTHESIS" default:"STEM investment is related to the indicator"`
	SignificantText string  `yaml:"significant_text" envconfig:"SIGNIFICANT_TEXT" default:"the null hypothesis is rejected"`
	NoEffectText    string  `yaml:"no_effect_text" envconfig:"NO_EFFECT_TEXT" default:"the null hypothesis is not rejected"`
}

// EnvPrefix is the prefix of all environment variables read by Load.
const EnvPrefix = "STEMPULSE"

// ConfigFileEnv names the optional YAML config file location.
const ConfigFileEnv = "STEMPULSE_CONFIG_FILE"

// Load builds the configuration: YAML file first when present, environment
// variables on top, then validation.
func Load() (*Config, error) {
	var cfg Config

	if path := configFilePath(); path != "" {
		if _, err := os.Stat(path); err == nil {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file %s: %w", path, err)
			}
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func configFilePath() string {
	if path := os.Getenv(ConfigFileEnv); path != "" {
		return path
	}
	return "config.yaml"
}

// Validate checks value ranges. Input files are checked lazily at pipeline
// time so the server can start before the data arrives.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Analysis.Alpha <= 0 || c.Analysis.Alpha >= 1 {
		return fmt.Errorf("alpha must be in (0, 1), got %g", c.Analysis.Alpha)
	}
	if c.Security.RateLimit.Enabled && c.Security.RateLimit.RPS <= 0 {
		return fmt.Errorf("rate limit rps must be positive, got %g", c.Security.RateLimit.RPS)
	}
	for name, path := range map[string]string{
		"investment_file": c.Data.InvestmentFile,
		"gdp_file":        c.Data.GDPFile,
		"indicators_file": c.Data.IndicatorsFile,
	} {
		if path == "" {
			return fmt.Errorf("%s must not be empty", name)
		}
	}
	return nil
}

// EnsureReportsDir creates the reports directory if missing.
func (c *Config) EnsureReportsDir() error {
	if err := os.MkdirAll(c.Data.ReportsDir, 0755); err != nil {
		return fmt.Errorf("create reports directory %s: %w", c.Data.ReportsDir, err)
	}
	return nil
}

// LogDir returns the directory holding the log file.
func (c *Config) LogDir() string {
	return filepath.Dir(c.Logging.FilePath)
}
