package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

// AppointmentWindow bounds the suggest-time search for appointment slots
type AppointmentWindow struct {
	Start       string `yaml:"start" validate:"required"`
	End         string `yaml:"end" validate:"required"`
	StepMinutes int    `yaml:"stepMinutes" validate:"min=1"`
}

// Config represents the application configuration
type Config struct {
	// DataDir holds the CSV/YAML data files for the csv backend
	DataDir string `yaml:"dataDir" validate:"required"`
	// Backend selects the storage backend: "csv" or "postgres"
	Backend string `yaml:"backend" validate:"required,oneof=csv postgres"`
	// PostgresURL is required when Backend is "postgres"
	PostgresURL string `yaml:"postgresURL,omitempty" validate:"required_if=Backend postgres"`

	// ServiceRule is an RRULE for the recurring service day prayers are
	// scheduled on (default: weekly on Sunday)
	ServiceRule string `yaml:"serviceRule,omitempty"`

	NextCandidateCount int  `yaml:"nextCandidateCount,omitempty" validate:"omitempty,min=1"`
	DeclineSkipWeeks   int  `yaml:"declineSkipWeeks,omitempty" validate:"omitempty,min=0"`
	DebugSMS           bool `yaml:"debugSMS,omitempty"`

	Timezone          string            `yaml:"timezone,omitempty"`
	AppointmentWindow AppointmentWindow `yaml:"appointmentWindow,omitempty"`

	// Calendars maps a conductor name to the Google Calendar ID mirroring
	// that conductor's appointments
	Calendars map[string]string `yaml:"calendars,omitempty"`
}

const configFileName = "mls3_config.yaml"

// DefaultServiceRule schedules prayers on Sundays
const DefaultServiceRule = "FREQ=WEEKLY;BYDAY=SU"

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from mls3_config.yaml,
// looking in the current directory first and then the user's home directory
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads the configuration with an environment suffix.
// For example, env="test" looks for "mls3_config.test.yaml".
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.ServiceRule == "" {
		cfg.ServiceRule = DefaultServiceRule
	}
	if cfg.NextCandidateCount == 0 {
		cfg.NextCandidateCount = 3
	}
	if cfg.DeclineSkipWeeks == 0 {
		cfg.DeclineSkipWeeks = 2
	}
	if cfg.AppointmentWindow.Start == "" {
		cfg.AppointmentWindow = AppointmentWindow{Start: "11:00", End: "12:00", StepMinutes: 5}
	}
	if cfg.AppointmentWindow.StepMinutes == 0 {
		cfg.AppointmentWindow.StepMinutes = 5
	}
}

// Validate validates the configuration struct and checks the service rrule
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if _, err := rrule.StrToRRule(cfg.ServiceRule); err != nil {
		return fmt.Errorf("invalid serviceRule: %w", err)
	}

	return nil
}

// ServiceRRule parses the configured service day rule
func (cfg *Config) ServiceRRule() (*rrule.RRule, error) {
	rule, err := rrule.StrToRRule(cfg.ServiceRule)
	if err != nil {
		return nil, fmt.Errorf("invalid serviceRule: %w", err)
	}
	return rule, nil
}

// findConfigFile searches for the config file in the current directory and
// home directory. If env is provided it is added as an extension
// (e.g. "mls3_config.test.yaml").
func findConfigFile(env string) (string, error) {
	fileName := configFileName
	if env != "" {
		fileName = "mls3_config." + env + ".yaml"
	}

	// Check current directory
	if _, err := os.Stat(fileName); err == nil {
		return fileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, fileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file %s not found in current directory or home directory", fileName)
}
