package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultModel = "gpt-4o"

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	OpenAI   OpenAIConfig   `yaml:"openai"`
}

type DatabaseConfig struct {
	DBType           string `yaml:"type"`
	ConnectionString string `yaml:"connection_string,omitempty"`
	File             string `yaml:"file,omitempty"`
}

type OpenAIConfig struct {
	APIKey      string  `yaml:"api_key,omitempty"`
	BaseURL     string  `yaml:"base_url,omitempty"`
	Model       string  `yaml:"model,omitempty"`
	Temperature float64 `yaml:"temperature,omitempty"`
}

func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if config.OpenAI.APIKey == "" {
		config.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if config.OpenAI.Model == "" {
		config.OpenAI.Model = defaultModel
	}

	return &config, nil
}

func (d *DatabaseConfig) GetConnectionString() (string, error) {
	switch d.DBType {
	case "postgres", "mysql":
		if d.ConnectionString == "" {
			return "", fmt.Errorf("Connection string is required for %s connection", d.DBType)
		}

		return d.ConnectionString, nil

	case "sqlite":
		if d.File == "" {
			d.File = "database.db"
		}
		return d.File, nil

	default:
		return "", fmt.Errorf("unsupported Database type: %s", d.DBType)
	}
}
