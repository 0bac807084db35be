package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Config holds all configurable intervu settings.
type Config struct {
	APIBaseURL       string `json:"api_base_url"`      // assessment service endpoint
	APIKey           string `json:"api_key"`           // optional bearer token
	DefaultRole      string `json:"default_role"`      // pre-filled role for new sessions
	DefaultSeniority string `json:"default_seniority"` // pre-filled seniority
	DefaultSkill     string `json:"default_skill"`     // pre-filled skill
	DefaultFormat    string `json:"default_format"`    // "markdown" | "json"
	OutputDir        string `json:"output_dir"`        // report output directory
	NoAnnotations    bool   `json:"no_annotations"`    // disable per-answer evaluation side channel
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	return Config{
		APIBaseURL:    "http://localhost:8000",
		DefaultFormat: "markdown",
		OutputDir:     ".",
	}
}

// LoadGlobal reads ~/.config/intervu/config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(home, ".config", "intervu", "config.json")
	return loadFile(path, true)
}

// LoadProject reads .intervurc in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(".intervurc", false)
}

// loadFile reads and parses a JSON config file at path.
// If returnDefaults is true, returns defaults when the file is absent.
// If returnDefaults is false, returns nil when the file is absent.
func loadFile(path string, returnDefaults bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults.
func Merge(global, project *Config) Config {
	result := Defaults()

	apply := func(c *Config) {
		if c == nil {
			return
		}
		if c.APIBaseURL != "" {
			result.APIBaseURL = c.APIBaseURL
		}
		if c.APIKey != "" {
			result.APIKey = c.APIKey
		}
		if c.DefaultRole != "" {
			result.DefaultRole = c.DefaultRole
		}
		if c.DefaultSeniority != "" {
			result.DefaultSeniority = c.DefaultSeniority
		}
		if c.DefaultSkill != "" {
			result.DefaultSkill = c.DefaultSkill
		}
		if c.DefaultFormat != "" {
			result.DefaultFormat = c.DefaultFormat
		}
		if c.OutputDir != "" {
			result.OutputDir = c.OutputDir
		}
		if c.NoAnnotations {
			result.NoAnnotations = true
		}
	}

	apply(global)
	apply(project)
	return result
}

// ApplyEnv overlays environment overrides. INTERVU_API_URL and
// INTERVU_API_KEY win over any config file (they typically arrive via .env).
func ApplyEnv(cfg Config) Config {
	if v := os.Getenv("INTERVU_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("INTERVU_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	return cfg
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
