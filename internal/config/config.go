package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"scribe/internal/format"
)

//go:embed sample_config.toml
var sampleConfig string

// Logger identifies the pipeline entry point and its effective minimum
// severity. Records below the level are never dispatched to any sink.
type Logger struct {
	Name  string `toml:"name"`
	Level string `toml:"level"`
}

// Console configures the human-readable sink.
type Console struct {
	Enabled bool   `toml:"enabled"`
	Level   string `toml:"level"`
	Color   bool   `toml:"color"`
	// NonErrorOnly routes the sink to stdout and keeps WARNING and above out
	// of it, the classic stdout/stderr split.
	NonErrorOnly bool `toml:"non_error_only"`
}

// Rule maps one JSON output key to the record attribute supplying its value.
type Rule struct {
	Key    string `toml:"key"`
	Source string `toml:"source"`
}

// File configures the JSON-Lines sink. A relative Path is resolved against
// the running executable's directory at pipeline setup.
type File struct {
	Enabled      bool   `toml:"enabled"`
	Path         string `toml:"path"`
	Level        string `toml:"level"`
	NonErrorOnly bool   `toml:"non_error_only"`
	Format       []Rule `toml:"format"`

	// Rotation is delegated to lumberjack; zero values for all three disable
	// it and the sink appends to a single file.
	MaxSizeMB  int  `toml:"max_size_mb"`
	MaxBackups int  `toml:"max_backups"`
	MaxAgeDays int  `toml:"max_age_days"`
	Compress   bool `toml:"compress"`
}

// Archive configures the queryable SQLite record history.
type Archive struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
	// RetentionDays prunes archived records older than this many days at
	// startup. 0 keeps everything.
	RetentionDays int `toml:"retention_days"`
}

// Metrics configures Prometheus dispatch counters and their HTTP endpoint.
type Metrics struct {
	Enabled bool   `toml:"enabled"`
	Bind    string `toml:"bind"`
}

// Config encapsulates all pipeline configuration.
type Config struct {
	Logger  Logger  `toml:"logger"`
	Console Console `toml:"console"`
	File    File    `toml:"file"`
	Archive Archive `toml:"archive"`
	Metrics Metrics `toml:"metrics"`
}

// FormatSpec converts the configured rules into the formatter's spec, falling
// back to the default layout when none are configured.
func (f File) FormatSpec() format.Spec {
	if len(f.Format) == 0 {
		return format.DefaultSpec()
	}
	spec := make(format.Spec, 0, len(f.Format))
	for _, rule := range f.Format {
		spec = append(spec, format.Rule{Key: rule.Key, Source: rule.Source})
	}
	return spec
}

// Rotates reports whether any rotation parameter is set.
func (f File) Rotates() bool {
	return f.MaxSizeMB > 0 || f.MaxBackups > 0 || f.MaxAgeDays > 0
}

// Sample returns the embedded sample configuration document.
func Sample() string {
	return sampleConfig
}

// DefaultConfigPath returns the user-level configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/scribe/config.toml")
}

// Load locates, parses, and validates a configuration file. An explicitly
// requested path that does not exist is an error; with no explicit path,
// defaults are used when no config file is found. The returned bool reports
// whether a file was read.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", false, fmt.Errorf("config file %s does not exist", expanded)
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	projectPath, err := filepath.Abs("scribe.toml")
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	return defaultPath, false, nil
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	return trimmed, nil
}
