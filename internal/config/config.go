package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

const DefaultPath = "config/config.toml"

type ServerConfig struct {
	Port int    `toml:"port" validate:"min=1,max=65535"`
	Mode string `toml:"mode" validate:"oneof=debug release test"`
}

type DatasetConfig struct {
	Path      string `toml:"path" validate:"required"`
	HasHeader bool   `toml:"has_header"`
}

type ClassifierConfig struct {
	Provider string `toml:"provider" validate:"oneof=linear centroid forest"`
	// ModelPath is the JSON weights file for the linear provider.
	ModelPath string `toml:"model_path" validate:"required_if=Provider linear"`
	// ReferencePath is the labeled CSV the centroid and forest providers are fitted from.
	ReferencePath      string `toml:"reference_path"`
	ReferenceHasHeader bool   `toml:"reference_has_header"`
	Trees              int    `toml:"trees" validate:"min=0"`
}

type ArtifactConfig struct {
	Dir    string `toml:"dir" validate:"required"`
	Width  int    `toml:"width" validate:"min=1"`
	Height int    `toml:"height" validate:"min=1"`
	Scale  int    `toml:"scale" validate:"min=1"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Pretty bool   `toml:"pretty"`
}

type Config struct {
	Server     ServerConfig     `toml:"server"`
	Dataset    DatasetConfig    `toml:"dataset"`
	Classifier ClassifierConfig `toml:"classifier"`
	Artifacts  ArtifactConfig   `toml:"artifacts"`
	Log        LogConfig        `toml:"log"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080, Mode: "release"},
		Dataset: DatasetConfig{
			Path:      "data/mnist_test.csv",
			HasHeader: true,
		},
		Classifier: ClassifierConfig{
			Provider:           "linear",
			ModelPath:          "data/mnist_model.json",
			ReferenceHasHeader: true,
			Trees:              50,
		},
		Artifacts: ArtifactConfig{
			Dir:    "static/images",
			Width:  28,
			Height: 28,
			Scale:  4,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads a TOML file on top of Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault falls back to Default when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// ApplyEnv overrides file values with environment variables when they are set.
func (c *Config) ApplyEnv() error {
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid PORT '%s': %w", port, err)
		}
		c.Server.Port = p
	}
	if v := os.Getenv("GIN_MODE"); v != "" {
		c.Server.Mode = v
	}
	if v := os.Getenv("DATASET_PATH"); v != "" {
		c.Dataset.Path = v
	}
	if v := os.Getenv("CLASSIFIER_PROVIDER"); v != "" {
		c.Classifier.Provider = v
	}
	if v := os.Getenv("MODEL_PATH"); v != "" {
		c.Classifier.ModelPath = v
	}
	if v := os.Getenv("REFERENCE_PATH"); v != "" {
		c.Classifier.ReferencePath = v
	}
	if v := os.Getenv("ARTIFACT_DIR"); v != "" {
		c.Artifacts.Dir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

var validate = validator.New()

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Classifier.Provider != "linear" && c.Classifier.ReferencePath == "" {
		return fmt.Errorf("invalid configuration: provider '%s' needs reference_path", c.Classifier.Provider)
	}
	return nil
}
