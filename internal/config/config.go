package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig []byte

// user level settings; flags override whatever is set here
type Config struct {
	Output    OutputConfig    `toml:"output"`
	Translate TranslateConfig `toml:"translate"`
}

type OutputConfig struct {
	Dir string `toml:"dir"`
}

type TranslateConfig struct {
	Provider       string `toml:"provider"`
	Model          string `toml:"model"`
	TargetLanguage string `toml:"target_language"`
	Concurrency    int    `toml:"concurrency"`
	BatchSize      int    `toml:"batch_size"`
}

func Default() Config {
	return Config{
		Translate: TranslateConfig{
			Provider:    "gemini",
			Concurrency: 3,
			BatchSize:   50,
		},
	}
}

// Path returns the config file location under the user config directory.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(dir, "mkvsub", "config.toml"), nil
}

// Load reads the user config, falling back to defaults when the file
// does not exist.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), err
	}
	return LoadFile(path)
}

func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, nil
}

// Init writes the sample config, refusing to clobber an existing file
// unless force is set.
func Init(force bool) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(path); err == nil && !force {
		return path, fmt.Errorf("config already exists at %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, sampleConfig, 0644); err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}

	return path, nil
}
