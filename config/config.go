// Package config loads creatorscan settings from a YAML file and the
// environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fwojciec/creatorscan"
	"github.com/fwojciec/creatorscan/feishu"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables overriding file settings.
const (
	EnvFeishuAppID     = "FEISHU_APP_ID"
	EnvFeishuAppSecret = "FEISHU_APP_SECRET"
	EnvFeishuBaseURL   = "FEISHU_BASE_URL"
	EnvFeishuAppToken  = "FEISHU_APP_TOKEN"
	EnvFeishuTableID   = "FEISHU_TABLE_ID"
	EnvDB              = "CREATORSCAN_DB"
	EnvHeadless        = "CREATORSCAN_HEADLESS"
)

// DefaultDir is the settings directory under the user's home.
const DefaultDir = ".creatorscan"

// BrowserConfig controls the Chrome instance used for scanning.
type BrowserConfig struct {
	Headless    *bool  `yaml:"headless"`
	Proxy       string `yaml:"proxy"`
	UserDataDir string `yaml:"user_data_dir"`
	MaxAttempts int    `yaml:"max_attempts"`
}

// ScanConfig holds defaults for scan requests.
type ScanConfig struct {
	Threshold    int      `yaml:"threshold"`
	AllowedHosts []string `yaml:"allowed_hosts"`
}

// StorageConfig locates the history database.
type StorageConfig struct {
	DB string `yaml:"db"`
}

// Config represents the structure of ~/.creatorscan/config.yaml.
type Config struct {
	Feishu  feishu.Config `yaml:"feishu"`
	Browser BrowserConfig `yaml:"browser"`
	Scan    ScanConfig    `yaml:"scan"`
	Storage StorageConfig `yaml:"storage"`
}

// IsHeadless reports whether Chrome should run without a window.
func (c *Config) IsHeadless() bool {
	return c.Browser.Headless == nil || *c.Browser.Headless
}

// Validate returns an error if the settings are unusable.
func (c *Config) Validate() error {
	if c.Scan.Threshold < 0 {
		return creatorscan.Errorf(creatorscan.EINVALID, "scan threshold must be non-negative")
	}
	if c.Browser.MaxAttempts < 0 {
		return creatorscan.Errorf(creatorscan.EINVALID, "browser max_attempts must be non-negative")
	}
	return nil
}

// DefaultPath returns ~/.creatorscan/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, DefaultDir, "config.yaml"), nil
}

// DefaultDBPath returns ~/.creatorscan/history.db, creating the directory.
// It falls back to the working directory when no home is available.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "creatorscan.db"
	}
	dir := filepath.Join(home, DefaultDir)
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "history.db")
}

// Load reads the YAML file at path, then applies environment overrides.
// A missing file is not an error. Variables from a .env file in the
// working directory are loaded first without replacing ones already set.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if cfg.Storage.DB == "" {
		cfg.Storage.DB = DefaultDBPath()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile parses the YAML file at path. A missing file yields an empty Config.
func LoadFile(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, creatorscan.Errorf(creatorscan.EINVALID, "failed to parse config file %s: %v", path, err)
	}
	return &cfg, nil
}

// applyEnv overlays set, non-empty environment variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	set(EnvFeishuAppID, &c.Feishu.AppID)
	set(EnvFeishuAppSecret, &c.Feishu.AppSecret)
	set(EnvFeishuBaseURL, &c.Feishu.BaseURL)
	set(EnvFeishuAppToken, &c.Feishu.AppToken)
	set(EnvFeishuTableID, &c.Feishu.TableID)
	set(EnvDB, &c.Storage.DB)

	if v, ok := lookup(EnvHeadless); ok && v != "" {
		headless, err := strconv.ParseBool(v)
		if err != nil {
			return creatorscan.Errorf(creatorscan.EINVALID, "%s must be a boolean, got %q", EnvHeadless, v)
		}
		c.Browser.Headless = &headless
	}
	return nil
}

// Save writes cfg as YAML to path, creating parent directories. Secrets
// are written with owner-only permissions.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
