package main

import (
	"os"
	"path/filepath"

	"github.com/fwojciec/docpack"
	"gopkg.in/yaml.v3"
)

// Config holds the tunables a YAML file may override. Fields missing from
// the file keep their defaults.
type Config struct {
	Thresholds docpack.Thresholds `yaml:"thresholds"`
	Timeouts   docpack.Timeouts   `yaml:"timeouts"`

	Concurrency int `yaml:"concurrency"`
	// RateLimit is the request rate per host; zero disables limiting.
	RateLimit float64 `yaml:"rate_limit"`
	// MaxBrowserPages recycles the browser after this many page loads.
	MaxBrowserPages int64 `yaml:"max_browser_pages"`
	// TokenModel selects the tokenizer used for the token estimate.
	TokenModel string `yaml:"token_model"`
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() *Config {
	return &Config{
		Thresholds:      docpack.DefaultThresholds(),
		Timeouts:        docpack.DefaultTimeouts(),
		Concurrency:     docpack.DefaultConcurrency,
		RateLimit:       0,
		MaxBrowserPages: 100,
		TokenModel:      "gemini-2.0-flash",
	}
}

// LoadConfig reads path over the defaults. An empty path looks for
// docpack.yaml in the working directory and then in the user config
// directory; finding none is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = findConfig()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, docpack.Errorf(docpack.EINVALID, "reading config file: %v", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, docpack.Errorf(docpack.EINVALID, "parsing config file %s: %v", path, err)
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = docpack.DefaultConcurrency
	}
	return cfg, nil
}

func findConfig() string {
	locations := []string{"docpack.yaml", "docpack.yml"}
	if dir, err := os.UserConfigDir(); err == nil {
		locations = append(locations, filepath.Join(dir, "docpack", "config.yaml"))
	}
	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}
	return ""
}
