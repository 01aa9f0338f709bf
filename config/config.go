package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"bitbucket.org/mmdatafocus/payment_reminder/utils"
)

// StringList accepts either a single string or a list of strings in YAML.
// Operators with one admin number write `admin_numbers: "91..."`.
type StringList []string

func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*l = StringList{s}
		return nil
	case yaml.SequenceNode:
		var ss []string
		if err := value.Decode(&ss); err != nil {
			return err
		}
		*l = StringList(ss)
		return nil
	default:
		return errors.New("must be a string or a list of strings")
	}
}

// Config is one reminder run's settings, read once at startup.
type Config struct {
	DataSource   string     `yaml:"data_source" validate:"required"`
	SheetName    string     `yaml:"sheet_name"`
	AdminNumbers StringList `yaml:"admin_numbers" validate:"required,min=1"`

	// ReminderTimeDiffHours is read for compatibility with older configs but
	// the dedup rule in force is calendar-day based (see models.ReminderHistory).
	ReminderTimeDiffHours int `yaml:"reminder_time_diff_hours"`

	HistoryPath      string `yaml:"history_path"`
	ReportDir        string `yaml:"report_dir"`
	SendDelaySeconds int    `yaml:"send_delay_seconds"`
	CountryCode      string `yaml:"country_code"`
}

func (c *Config) SendDelay() time.Duration {
	return time.Duration(c.SendDelaySeconds) * time.Second
}

func (c *Config) applyDefaults() {
	if c.SheetName == "" {
		c.SheetName = "Sheet1"
	}
	if c.ReminderTimeDiffHours == 0 {
		c.ReminderTimeDiffHours = 24
	}
	if c.HistoryPath == "" {
		c.HistoryPath = "reminder_history.json"
	}
	if c.ReportDir == "" {
		c.ReportDir = "."
	}
	if c.SendDelaySeconds == 0 {
		c.SendDelaySeconds = 5
	}
	if c.CountryCode == "" {
		c.CountryCode = "IN"
	}
}

// LoadConfig reads the YAML run configuration. A .env file alongside the
// binary supplies gateway credentials and log settings.
func LoadConfig(path string) (*Config, error) {
	godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &utils.ConfigError{Field: "config file", Reason: err.Error()}
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &utils.ConfigError{Field: "config file", Reason: fmt.Sprintf("parsing %s: %v", path, err)}
	}

	cfg.applyDefaults()

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := utils.ProcessValidationErrors(err)
			for field, tag := range fields {
				return nil, &utils.ConfigError{Field: field, Reason: tag}
			}
		}
		return nil, &utils.ConfigError{Field: "config file", Reason: err.Error()}
	}

	for i, n := range cfg.AdminNumbers {
		n = strings.TrimSpace(n)
		if n == "" {
			return nil, &utils.ConfigError{Field: "admin_numbers", Reason: "empty entry"}
		}
		if !strings.HasPrefix(n, "+") {
			n = "+" + n
		}
		cfg.AdminNumbers[i] = n
	}

	return cfg, nil
}
