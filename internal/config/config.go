// Package config handles resolving configuration.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/stolasapp/logincheck/internal/pages"
)

// FileName is the name of the configuration file in the XDG config home.
const FileName = "logincheck.yaml"

// Log levels.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Config is the complete configuration of the tool.
type Config struct {
	LogLevel string `yaml:"log_level"`
	// DevMode serves the demo site in-process and runs against it.
	DevMode bool `yaml:"dev_mode"`
	// BaseURL is the login page of the system under test.
	BaseURL string `yaml:"base_url"`
	// FixturePath is the credential fixture. Empty uses the bundled one.
	FixturePath string  `yaml:"fixture_path,omitempty"`
	Browser     Browser `yaml:"browser"`
	Expect      Expect  `yaml:"expect"`
	Demo        Demo    `yaml:"demo"`
}

// Browser configures the headless browser.
type Browser struct {
	Bin      string        `yaml:"bin,omitempty"`
	Headless bool          `yaml:"headless"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Expect holds the success outcome the logged-in page must show.
type Expect struct {
	SuccessPath string `yaml:"success_path"`
	Welcome     string `yaml:"welcome"`
	LogoutHref  string `yaml:"logout_href"`
}

// Demo configures the local replica of the practice site.
type Demo struct {
	Address   string `yaml:"address"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	LogoutURL string `yaml:"logout_url"`
}

// DefaultPath is the configuration file in the XDG config home.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, FileName)
}

// Default returns the configuration targeting the public practice site.
func Default() *Config {
	return &Config{
		LogLevel: LevelInfo,
		DevMode:  false,
		BaseURL:  pages.PublicLoginURL,
		Browser: Browser{
			Headless: true,
			Timeout:  10 * time.Second,
		},
		Expect: Expect{
			SuccessPath: pages.PathSuccess,
			Welcome:     "Congratulations student. You successfully logged in!",
			LogoutHref:  pages.PublicLoginURL,
		},
		Demo: Demo{
			Address:   "localhost:9997",
			Username:  "student",
			Password:  "Password123",
			LogoutURL: pages.PublicLoginURL,
		},
	}
}

// Load loads a YAML configuration file from a path, merges it over the
// defaults, and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // allow the config file to be loaded from anywhere
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := Default()
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config file at %s: %w", path, err)
	}
	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault loads path, falling back to the defaults when the file does
// not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Validate reports every invalid field.
func (c *Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.LogLevel) {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
	default:
		errs = append(errs, fmt.Errorf("log_level: unknown level %q", c.LogLevel))
	}
	if !c.DevMode {
		if u, err := url.Parse(c.BaseURL); err != nil || !u.IsAbs() || u.Host == "" {
			errs = append(errs, fmt.Errorf("base_url: must be an absolute URL, got %q", c.BaseURL))
		}
	}
	if c.Browser.Timeout <= 0 {
		errs = append(errs, errors.New("browser.timeout: must be positive"))
	}
	if !strings.HasPrefix(c.Expect.SuccessPath, "/") {
		errs = append(errs, fmt.Errorf("expect.success_path: must start with /, got %q", c.Expect.SuccessPath))
	}
	if c.Expect.Welcome == "" {
		errs = append(errs, errors.New("expect.welcome: must not be empty"))
	}
	if c.Demo.Username == "" {
		errs = append(errs, errors.New("demo.username: must not be empty"))
	}
	return errors.Join(errs...)
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to YAML: %w", err)
	}
	return data, nil
}
