package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the analyzer engine's configuration.
type Config struct {
	Core       CoreConfig       `yaml:"core" validate:"required"`
	Redis      RedisConfig      `yaml:"redis"`
	Registries RegistriesConfig `yaml:"registries"`
	Analysis   AnalysisConfig   `yaml:"analysis"`
}

// CoreConfig represents core application settings.
type CoreConfig struct {
	Name             string `yaml:"name"`
	Environment      string `yaml:"environment"`
	LogLevel         string `yaml:"log_level"`
	InstallationPath string `yaml:"installation_path" validate:"required"`
	CurrentVersion   string `yaml:"current_version" validate:"required"`
	TargetVersion    string `yaml:"target_version" validate:"required"`
	Port             int    `yaml:"port"`
}

// RedisConfig represents Redis connection settings for the Result Cache.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// RegistriesConfig represents the package/extension registry clients'
// settings.
type RegistriesConfig struct {
	PackagistBaseURL           string `yaml:"packagist_base_url"`
	ExtensionRepositoryBaseURL string `yaml:"extension_repository_base_url"`
	TimeoutSeconds             int    `yaml:"timeout_s"`
}

// AnalysisConfig represents analysis-pipeline-wide settings.
type AnalysisConfig struct {
	ResultCache  ResultCacheConfig  `yaml:"result_cache"`
	RefactorTool RefactorToolConfig `yaml:"refactor_tool"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency"`
}

// ResultCacheConfig represents the Cached Analyzer Contract's TTL cache
// settings.
type ResultCacheConfig struct {
	Enabled bool `yaml:"enabled"`
	TTLSeconds int `yaml:"ttl_s"`
}

// RefactorToolConfig represents the external refactoring binary's
// invocation settings.
type RefactorToolConfig struct {
	BinaryPath     string `yaml:"binary_path"`
	TimeoutSeconds int    `yaml:"timeout_s"`
	MemoryLimitMB  int    `yaml:"memory_limit_mb"`
	Parallel       int    `yaml:"parallel"`
}

// ConcurrencyConfig represents the Analyzer Pipeline's worker pool
// settings.
type ConcurrencyConfig struct {
	MaxParallelExtensions int `yaml:"max_parallel_extensions"`
}

// LoadConfig loads configuration from a YAML file, applies defaults for
// zero-values, and validates required fields.
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Core.Name == "" {
		cfg.Core.Name = "typo3-upgrade-analyser"
	}
	if cfg.Core.Environment == "" {
		cfg.Core.Environment = "development"
	}
	if cfg.Core.Port == 0 {
		cfg.Core.Port = 8080
	}
	if cfg.Core.LogLevel == "" {
		cfg.Core.LogLevel = "info"
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Registries.PackagistBaseURL == "" {
		cfg.Registries.PackagistBaseURL = "https://packagist.org"
	}
	if cfg.Registries.TimeoutSeconds == 0 {
		cfg.Registries.TimeoutSeconds = 10
	}
	if cfg.Analysis.ResultCache.TTLSeconds == 0 {
		cfg.Analysis.ResultCache.TTLSeconds = 3600
	}
	if cfg.Analysis.RefactorTool.TimeoutSeconds == 0 {
		cfg.Analysis.RefactorTool.TimeoutSeconds = 300
	}
	if cfg.Analysis.Concurrency.MaxParallelExtensions == 0 {
		cfg.Analysis.Concurrency.MaxParallelExtensions = 4
	}
}
