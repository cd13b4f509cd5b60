package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPort       = 3000
	DefaultAPIBaseURL = "http://localhost:3000/api"
)

type Config struct {
	APIBaseURL string `yaml:"api_base_url"`
	APIKey     string `yaml:"api_key"`
	DBPath     string `yaml:"db_path"`
	ServerPort int    `yaml:"server_port"`
	LogLevel   string `yaml:"log_level"`
	LogPath    string `yaml:"log_path"`
	PrefsPath  string `yaml:"prefs_path"`
}

func Default() Config {
	return Config{
		APIBaseURL: DefaultAPIBaseURL,
		ServerPort: DefaultPort,
		LogLevel:   "info",
	}
}

func DefaultConfigPath() (string, error) {
	return DefaultDataPath("config.yaml")
}

// DefaultDataPath places name next to the default config file.
func DefaultDataPath(name string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "tasker", name), nil
}

func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

// Load reads the YAML file at path (a missing file yields defaults), then applies
// a .env file next to the working directory and TASKER_* environment variables.
func Load(path string) (Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return Config{}, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &config); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	if err := applyEnv(&config); err != nil {
		return Config{}, err
	}
	return config, nil
}

func applyEnv(cfg *Config) error {
	if value := strings.TrimSpace(os.Getenv("TASKER_API_URL")); value != "" {
		cfg.APIBaseURL = value
	}
	if value := strings.TrimSpace(os.Getenv("TASKER_API_KEY")); value != "" {
		cfg.APIKey = value
	}
	if value := strings.TrimSpace(os.Getenv("TASKER_DB_PATH")); value != "" {
		cfg.DBPath = value
	}
	if value := strings.TrimSpace(os.Getenv("TASKER_LOG_LEVEL")); value != "" {
		cfg.LogLevel = value
	}
	if value := strings.TrimSpace(os.Getenv("TASKER_PORT")); value != "" {
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("parse TASKER_PORT: %w", err)
		}
		cfg.ServerPort = port
	}
	return nil
}

func Save(path string, cfg Config) error {
	if err := EnsureDir(path); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}
