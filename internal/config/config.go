package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	// HomeEnv overrides the default config home.
	HomeEnv = "AGAINKIT_HOME"

	defaultVerbosity = "info"
	defaultNamespace = "outputs"
)

// Names tried, in order, when a config home directory is given.
var configFileNames = []string{"config.yaml", "config.yml", "config.toml"}

type Config struct {
	Logger struct {
		Verbosity string `yaml:"verbosity" toml:"verbosity"`
		File      string `yaml:"file" toml:"file"`
		// Rotation limits for File; zero keeps the logger defaults.
		MaxSizeMB  int  `yaml:"maxSizeMB" toml:"maxSizeMB"`
		MaxAgeDays int  `yaml:"maxAgeDays" toml:"maxAgeDays"`
		NoCompress bool `yaml:"noCompress" toml:"noCompress"`
	} `yaml:"logger" toml:"logger"`
	Device struct {
		Override string `yaml:"override" toml:"override"`
	} `yaml:"device" toml:"device"`
	Outputs struct {
		Namespace string `yaml:"namespace" toml:"namespace"`
	} `yaml:"outputs" toml:"outputs"`
	Tracking struct {
		URI    string `yaml:"uri" toml:"uri"`
		Dotenv string `yaml:"dotenv" toml:"dotenv"`
	} `yaml:"tracking" toml:"tracking"`
	Experiment struct {
		ConfigDir string `yaml:"configDir" toml:"configDir"`
	} `yaml:"experiment" toml:"experiment"`
}

// Default returns a Config with every default applied.
func Default() *Config {
	var config Config
	config.applyDefaults()
	return &config
}

func (c *Config) applyDefaults() {
	if c.Logger.Verbosity == "" {
		c.Logger.Verbosity = defaultVerbosity
	}
	if c.Outputs.Namespace == "" {
		c.Outputs.Namespace = defaultNamespace
	}
}

// GetDefaultConfigHome returns $AGAINKIT_HOME, or ~/.againkit.
func GetDefaultConfigHome() string {
	if home := os.Getenv(HomeEnv); home != "" {
		return home
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".againkit")
	}
	return filepath.Join(userHome, ".againkit")
}

// LoadConfig reads a YAML or TOML config file, chosen by extension.
// When path is a directory, the first of config.yaml, config.yml and
// config.toml inside it is used.
func LoadConfig(path string) (*Config, error) {
	file, err := findConfigFile(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	var config Config
	switch strings.ToLower(filepath.Ext(file)) {
	case ".toml":
		err = toml.Unmarshal(data, &config)
	default:
		err = yaml.Unmarshal(data, &config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", file, err)
	}

	config.applyDefaults()
	return &config, nil
}

// LoadOrDefault behaves like LoadConfig but returns defaults when no config file exists.
func LoadOrDefault(path string) (*Config, error) {
	config, err := LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return config, err
}

func findConfigFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return path, nil
	}
	for _, name := range configFileNames {
		candidate := filepath.Join(path, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no config file in %s: %w", path, fs.ErrNotExist)
}
