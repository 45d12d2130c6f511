package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment overrides, also read from a .env file in the working directory.
const (
	EnvImage    = "SUBVIEW_IMAGE"
	EnvRoot     = "SUBVIEW_ROOT"
	EnvEncoding = "SUBVIEW_ENCODING"
	EnvLogLevel = "SUBVIEW_LOG_LEVEL"
)

// Load loads configuration with priority: defaults < file < env < flags.
func Load() (*Config, error) {
	cfg, err := LoadFile(ConfigPath())
	if err != nil {
		return nil, err
	}

	// Apply CLI flags (highest priority)
	applyFlags(cfg)

	return cfg, nil
}

// LoadFile loads defaults < file < env without consulting command-line flags.
// An empty path searches the standard locations.
func LoadFile(configPath string) (*Config, error) {
	cfg := Default()

	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	// .env is optional
	_ = godotenv.Load()
	applyEnv(cfg)

	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./subviewer.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "SubViewer")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "SubViewer")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "sub-viewer")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "sub-viewer")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvImage); v != "" {
		cfg.Data.ImagePath = v
	}
	if v := os.Getenv(EnvRoot); v != "" {
		cfg.Data.ScanRoot = v
	}
	if v := os.Getenv(EnvEncoding); v != "" {
		cfg.Data.SubEncoding = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
}

// TargetName returns the file name .sub records must reference: the base
// name of the configured image path.
func (c *Config) TargetName() string {
	if c.Data.ImagePath == "" {
		return ""
	}
	return filepath.Base(c.Data.ImagePath)
}

// Validate reports settings that would prevent a scan.
func (c *Config) Validate() error {
	if c.Data.ImagePath == "" {
		return fmt.Errorf("no image path configured")
	}
	if c.Data.ScanRoot == "" {
		return fmt.Errorf("no scan root configured")
	}
	if c.Overlay.Width < 1 {
		return fmt.Errorf("overlay width must be positive, got %d", c.Overlay.Width)
	}
	return nil
}
