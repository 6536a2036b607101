// Package config loads thinxi-admin settings from an optional YAML file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/thinxi/thinxi-admin/internal/docstore"
	"github.com/thinxi/thinxi-admin/internal/llm"
)

// EnvPrefix prefixes every environment override, e.g. THINXI_LLM_PROVIDER.
const EnvPrefix = "THINXI"

// Store backends.
const (
	BackendFirestore = "firestore"
	BackendSQLite    = "sqlite"
)

// Config is the decoded thinxi.yaml plus environment overrides.
type Config struct {
	Store       StoreConfig              `mapstructure:"store"`
	Firestore   docstore.FirestoreConfig `mapstructure:"firestore"`
	Collections CollectionsConfig        `mapstructure:"collections"`
	LLM         llm.Config               `mapstructure:"llm"`
	Generate    GenerateConfig           `mapstructure:"generate"`
	Log         LogConfig                `mapstructure:"log"`
}

// StoreConfig selects the document store.
type StoreConfig struct {
	// Backend is "firestore" or "sqlite".
	Backend string `mapstructure:"backend"`

	// SQLitePath is the database file. Empty means the default data path.
	// The LLM request log always lives in this file.
	SQLitePath string `mapstructure:"sqlite_path"`

	// Timeout bounds each store call.
	Timeout time.Duration `mapstructure:"timeout"`
}

// CollectionsConfig names the collections the tool writes to.
type CollectionsConfig struct {
	Questions   string `mapstructure:"questions"`
	RewardTasks string `mapstructure:"reward_tasks"`
}

// GenerateConfig holds the defaults for the generate command.
type GenerateConfig struct {
	Count             int     `mapstructure:"count"`
	Category          string  `mapstructure:"category"`
	Rate              float64 `mapstructure:"rate"`
	StructuredOutput  bool    `mapstructure:"structured_output"`
	MaxTokens         int     `mapstructure:"max_tokens"`
	Temperature       float64 `mapstructure:"temperature"`
	MaxPriorQuestions int     `mapstructure:"max_prior_questions"`

	// MetricsFile, when set, receives the batch counters in Prometheus
	// text format after every run.
	MetricsFile string `mapstructure:"metrics_file"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level string `mapstructure:"level"`
	// File enables a rotated JSON log in addition to the console.
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

func setDefaults(v *viper.Viper) {
	d := llm.DefaultConfig()

	v.SetDefault("store.backend", BackendFirestore)
	v.SetDefault("store.sqlite_path", "")
	v.SetDefault("store.timeout", 15*time.Second)

	v.SetDefault("firestore.project_id", "")
	v.SetDefault("firestore.credentials_file", "")

	v.SetDefault("collections.questions", "questions")
	v.SetDefault("collections.reward_tasks", "reward_tasks")

	v.SetDefault("llm.provider", d.Provider)
	v.SetDefault("llm.timeout", d.Timeout)
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", d.Gemini.Model)
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", d.Anthropic.Model)
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", d.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", d.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", d.OpenRouter.BaseURL)
	v.SetDefault("llm.retry.max_attempts", d.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", d.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", d.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", d.Retry.Multiplier)

	v.SetDefault("generate.count", 1)
	v.SetDefault("generate.category", "")
	v.SetDefault("generate.rate", 0.5)
	v.SetDefault("generate.structured_output", false)
	v.SetDefault("generate.max_tokens", 1024)
	v.SetDefault("generate.temperature", 0.9)
	v.SetDefault("generate.max_prior_questions", 30)
	v.SetDefault("generate.metrics_file", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 20)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
}

// bindEnv maps the conventional unprefixed variables onto config keys.
// The prefixed form (THINXI_LLM_GEMINI_API_KEY) wins when both are set.
func bindEnv(v *viper.Viper) error {
	bindings := map[string]string{
		"llm.gemini.api_key":         "GEMINI_API_KEY",
		"llm.anthropic.api_key":      "ANTHROPIC_API_KEY",
		"llm.openai.api_key":         "OPENAI_API_KEY",
		"llm.openrouter.api_key":     "OPENROUTER_API_KEY",
		"firestore.credentials_file": "GOOGLE_APPLICATION_CREDENTIALS",
		"firestore.project_id":       "GOOGLE_CLOUD_PROJECT",
		"store.sqlite_path":          "THINXI_DB",
	}
	for key, env := range bindings {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
	}
	return nil
}

// Load reads configuration. path names an explicit config file; when
// empty, thinxi.yaml is looked up in the working directory and then in
// $XDG_CONFIG_HOME/thinxi, and a missing file is not an error.
// Environment variables override the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("thinxi")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir := configDir(); dir != "" {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

func configDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "thinxi")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "thinxi")
}

// Validate checks the settings every command needs. LLM settings are
// checked separately by the commands that call the model.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendSQLite:
	case BackendFirestore:
		if c.Firestore.ProjectID == "" {
			return fmt.Errorf("firestore.project_id is required for the firestore backend")
		}
	default:
		return fmt.Errorf("unknown store.backend %q (want %s or %s)", c.Store.Backend, BackendFirestore, BackendSQLite)
	}
	if c.Collections.Questions == "" || c.Collections.RewardTasks == "" {
		return fmt.Errorf("collection names must not be empty")
	}
	if c.Generate.Count < 0 {
		return fmt.Errorf("generate.count must not be negative")
	}
	return nil
}
