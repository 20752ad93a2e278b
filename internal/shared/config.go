package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Database   DatabaseConfig   `toml:"database"`
	Credential CredentialConfig `toml:"credential"`
}

// ServerConfig points at the catalog backend.
type ServerConfig struct {
	BaseURL string `toml:"base_url"`
	// RequestsPerSecond throttles outgoing catalog calls. Zero disables the limiter.
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// DatabaseConfig contains settings for the local history database.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// CredentialConfig locates the stored bearer credential.
type CredentialConfig struct {
	Path string `toml:"path"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path,
// then applies environment overrides from the process environment and an optional
// .env file in the working directory.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyEnv()
	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded
// example config, with environment overrides applied.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.applyEnv()
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, ErrInvalidConfig)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyEnv layers TUNEDECK_* environment variables over the loaded file.
// A .env file is honored when present but never required.
func (c *Config) applyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("TUNEDECK_SERVER_URL"); v != "" {
		c.Server.BaseURL = v
	}
	if v := os.Getenv("TUNEDECK_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("TUNEDECK_CREDENTIAL_PATH"); v != "" {
		c.Credential.Path = v
	}
}

// CredentialPath resolves the credential file location, defaulting to
// ~/.config/tunedeck/credential.json when unset.
func (c *Config) CredentialPath() (string, error) {
	if c.Credential.Path != "" {
		return c.Credential.Path, nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config dir: %w", err)
	}
	return filepath.Join(configDir, "tunedeck", "credential.json"), nil
}
