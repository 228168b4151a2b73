package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ClientConfig is campushub.yml, read by the report CLI.
type ClientConfig struct {
	API struct {
		BaseURL        string `yaml:"baseURL" validate:"required,url"`
		TimeoutSeconds int    `yaml:"timeoutSeconds" validate:"gte=0"`
	} `yaml:"api"`
	Credentials struct {
		Email    string `yaml:"email" validate:"required,email"`
		Password string `yaml:"password" validate:"required"`
	} `yaml:"credentials"`
	// Schedule is a cron expression; empty runs the report once.
	Schedule string `yaml:"schedule"`
}

func (c ClientConfig) Timeout() time.Duration {
	if c.API.TimeoutSeconds == 0 {
		return 30 * time.Second
	}
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// LoadClient reads and validates the CLI config at path. CAMPUSHUB_PASSWORD
// overrides the password in the file.
func LoadClient(path string) (ClientConfig, error) {
	var cfg ClientConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if pw := os.Getenv("CAMPUSHUB_PASSWORD"); pw != "" {
		cfg.Credentials.Password = pw
	}
	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid %s: %w", path, err)
	}
	return cfg, nil
}
