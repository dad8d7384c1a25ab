package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Content
	ContentDir      string `yaml:"content_dir"`
	DefaultRootPath string `yaml:"default_root_path"`
	DefaultCategory string `yaml:"default_category"`
	DefaultAction   string `yaml:"default_action"`

	// Copy Settings
	MaxNumberedNames int    `yaml:"max_numbered_names"`
	OriginPolicy     string `yaml:"origin_policy"`
	CopyToClipboard  bool   `yaml:"copy_to_clipboard"`
	AutoReindex      bool   `yaml:"auto_reindex"`

	// Performance
	MaxWorkers      int `yaml:"max_workers"`
	WatchDebounceMS int `yaml:"watch_debounce_ms"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogJSON   bool   `yaml:"log_json"`
	LogToFile bool   `yaml:"log_to_file"`

	// Graph Settings
	GraphDirection string `yaml:"graph_direction"`
	GraphMaxNodes  int    `yaml:"graph_max_nodes"`

	// UI Settings
	ColorTheme         string `yaml:"color_theme"`
	SyntaxHighlighting bool   `yaml:"syntax_highlighting"`
	HighlightStyle     string `yaml:"highlight_style"`
}

// DefaultConfig returns a Config struct with default values
func DefaultConfig() *Config {
	return &Config{
		ContentDir:         "",
		DefaultRootPath:    "/Game/FXLib/",
		DefaultCategory:    "Default",
		DefaultAction:      "list",
		MaxNumberedNames:   99,
		OriginPolicy:       "provenance",
		CopyToClipboard:    true,
		AutoReindex:        true,
		MaxWorkers:         4,
		WatchDebounceMS:    500,
		LogLevel:           "info",
		LogJSON:            false,
		LogToFile:          true,
		GraphDirection:     "LR",
		GraphMaxNodes:      200,
		ColorTheme:         "auto",
		SyntaxHighlighting: true,
		HighlightStyle:     "monokai",
	}
}

// Load reads configuration from the specified file path
func Load(path string) (*Config, error) {
	// Start with default config
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, return default config (not an error)
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply defaults for essential values if missing
	if cfg.DefaultRootPath == "" {
		cfg.DefaultRootPath = "/Game/FXLib/"
	}
	if cfg.DefaultCategory == "" {
		cfg.DefaultCategory = "Default"
	}
	if cfg.MaxNumberedNames <= 0 {
		cfg.MaxNumberedNames = 99
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 4
	}
	if cfg.WatchDebounceMS <= 0 {
		cfg.WatchDebounceMS = 500
	}
	if cfg.GraphDirection == "" {
		cfg.GraphDirection = "LR"
	}
	if cfg.HighlightStyle == "" {
		cfg.HighlightStyle = "monokai"
	}

	// Validate enumerated values
	if !isOneOf(cfg.OriginPolicy, "provenance", "path") {
		cfg.OriginPolicy = "provenance"
	}
	if !isOneOf(strings.ToLower(cfg.LogLevel), "debug", "info", "warn", "error") {
		cfg.LogLevel = "info"
	}
	if !isOneOf(cfg.DefaultAction, "list", "categories", "doctor") {
		cfg.DefaultAction = "list"
	}

	return cfg, nil
}

// Save persists the current configuration to the specified file path
func (c *Config) Save(path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Keys returns the YAML keys of every setting in file order
func (c *Config) Keys() ([]string, error) {
	var node yaml.Node
	if err := node.Encode(c); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	var keys []string
	for i := 0; i+1 < len(node.Content); i += 2 {
		keys = append(keys, node.Content[i].Value)
	}
	return keys, nil
}

// Set assigns value to the setting named by its YAML key.
// The value is parsed as YAML so numbers and booleans keep their type.
func (c *Config) Set(key, value string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	fields := map[string]interface{}{}
	if err := yaml.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if _, ok := fields[key]; !ok {
		return fmt.Errorf("unknown config key: %s", key)
	}

	var parsed interface{}
	if err := yaml.Unmarshal([]byte(value), &parsed); err != nil || parsed == nil {
		parsed = value
	}
	fields[key] = parsed

	data, err = yaml.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	next := *c
	if err := yaml.Unmarshal(data, &next); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	*c = next
	return nil
}

func isOneOf(value string, valid ...string) bool {
	for _, v := range valid {
		if value == v {
			return true
		}
	}
	return false
}
