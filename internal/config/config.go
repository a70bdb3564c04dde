// Package config loads and validates the application configuration.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Study     StudyConfig     `mapstructure:"study"`
	Store     StoreConfig     `mapstructure:"store"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Server    ServerConfig    `mapstructure:"server"`
}

// SchedulerConfig tunes the scheduling engine. Every field has a documented
// default; no other options are recognized.
type SchedulerConfig struct {
	Weights             []float64          `mapstructure:"weights" validate:"omitempty,len=17"`
	RequestRetention    float64            `mapstructure:"request_retention" validate:"gt=0,lt=1"`
	MaximumIntervalDays int                `mapstructure:"maximum_interval_days" validate:"min=1"`
	LearningStepMinutes LearningStepConfig `mapstructure:"learning_step_minutes"`
	GraduationSteps     int                `mapstructure:"graduation_steps" validate:"min=1"`
	FuzzFraction        float64            `mapstructure:"fuzz_fraction" validate:"gte=0,lt=1"`
}

// LearningStepConfig is the per-rating delay table of the short-term regime,
// in minutes.
type LearningStepConfig struct {
	Again int `mapstructure:"again" validate:"min=1"`
	Hard  int `mapstructure:"hard" validate:"min=1"`
	Good  int `mapstructure:"good" validate:"min=1"`
	Easy  int `mapstructure:"easy" validate:"min=1"`
}

// StudyConfig bounds daily sessions and mastery classification.
type StudyConfig struct {
	DailyNewLimit                 int     `mapstructure:"daily_new_limit" validate:"min=0"`
	DailyReviewLimit              int     `mapstructure:"daily_review_limit" validate:"min=0"`
	MasteryStabilityThresholdDays float64 `mapstructure:"mastery_stability_threshold_days" validate:"gt=0"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Backend       string `mapstructure:"backend" validate:"oneof=mysql yaml"`
	YAMLDirectory string `mapstructure:"yaml_directory"`
}

// DatabaseConfig configures the MySQL connection.
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Database        string `mapstructure:"database"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	TLS             bool   `mapstructure:"tls"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime_seconds"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `mapstructure:"port" validate:"min=1,max=65535"`
}

// Loader reads the YAML configuration file and validates it.
type Loader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

// NewLoader creates a Loader. When configFile is empty the loader searches
// for config.yaml in the working directory and $HOME/.config/kioku.
func NewLoader(configFile string) (*Loader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("create validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join("$HOME", ".config", "kioku"))
	}

	return &Loader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

// Load reads the configuration, applying defaults for everything the file
// leaves out. A missing file yields the pure defaults; an invalid file is an
// error.
func (loader *Loader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("scheduler.request_retention", 0.9)
	v.SetDefault("scheduler.maximum_interval_days", 365)
	v.SetDefault("scheduler.learning_step_minutes.again", 1)
	v.SetDefault("scheduler.learning_step_minutes.hard", 5)
	v.SetDefault("scheduler.learning_step_minutes.good", 10)
	v.SetDefault("scheduler.learning_step_minutes.easy", 60)
	v.SetDefault("scheduler.graduation_steps", 2)
	v.SetDefault("scheduler.fuzz_fraction", 0.05)
	v.SetDefault("study.daily_new_limit", 20)
	v.SetDefault("study.daily_review_limit", 200)
	v.SetDefault("study.mastery_stability_threshold_days", 21)
	v.SetDefault("store.backend", "yaml")
	v.SetDefault("store.yaml_directory", filepath.Join("data", "records"))
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "kioku")
	v.SetDefault("database.username", "kioku")
	v.SetDefault("server.port", 8080)

	// Secrets come from the environment only, never from the file.
	if err := v.BindEnv("database.password", "KIOKU_DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("bind KIOKU_DB_PASSWORD environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
