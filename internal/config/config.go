// Package config resolves runtime settings from defaults, an optional YAML
// file and STAGEPLAN_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/stageplan/internal/llm"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "STAGEPLAN"
	dirName   = ".stageplan"
)

// Config is the resolved application configuration.
type Config struct {
	DBPath      string
	LogUseCases bool
	Verbose     bool
	LLM         llm.LLMConfig
}

// HomeDir is the per-user directory holding the database and config file.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return dirName
	}
	return filepath.Join(home, dirName)
}

// DefaultDBPath is where the SQLite file lives when no override is given.
func DefaultDBPath() string {
	return filepath.Join(HomeDir(), "stageplan.db")
}

// New returns a viper instance with defaults and env bindings installed.
func New() *viper.Viper {
	v := viper.New()
	def := llm.DefaultConfig()

	v.SetDefault("db", DefaultDBPath())
	v.SetDefault("verbose", false)
	v.SetDefault("log_use_cases", false)
	v.SetDefault("llm.enabled", def.Enabled)
	v.SetDefault("llm.log_calls", def.LogCalls)
	v.SetDefault("llm.endpoint", def.Endpoint)
	v.SetDefault("llm.model", def.Model)
	v.SetDefault("llm.timeout_ms", def.TimeoutMs)
	v.SetDefault("llm.max_retries", def.MaxRetries)
	for _, task := range llm.Tasks {
		v.SetDefault("llm.tasks."+string(task)+".timeout_ms", 0)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads cfgFile, or config.yaml from the home directory when cfgFile
// is empty. A missing default file is not an error; a missing explicit file
// is.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(HomeDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return Resolve(v)
}

// Resolve builds a Config from whatever v currently holds.
func Resolve(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DBPath:      v.GetString("db"),
		LogUseCases: v.GetBool("log_use_cases"),
		Verbose:     v.GetBool("verbose"),
		LLM:         llm.DefaultConfig(),
	}
	cfg.LLM.Enabled = v.GetBool("llm.enabled")
	cfg.LLM.LogCalls = v.GetBool("llm.log_calls")
	cfg.LLM.Endpoint = v.GetString("llm.endpoint")
	cfg.LLM.Model = v.GetString("llm.model")
	cfg.LLM.TimeoutMs = v.GetInt("llm.timeout_ms")
	cfg.LLM.MaxRetries = v.GetInt("llm.max_retries")
	for _, task := range llm.Tasks {
		if ms := v.GetInt("llm.tasks." + string(task) + ".timeout_ms"); ms > 0 {
			cfg.LLM.SetTaskTimeout(task, ms)
		}
	}
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("db: path must not be empty")
	}
	if err := cfg.LLM.Validate(); err != nil {
		return nil, fmt.Errorf("llm: %w", err)
	}
	return cfg, nil
}
