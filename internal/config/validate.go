package config

import (
	"errors"
	"fmt"
	"strings"

	"scribe/internal/event"
)

// Validate rejects configurations that would activate a broken pipeline.
func (c *Config) Validate() error {
	if _, err := event.ParseSeverity(c.Logger.Level); err != nil {
		return fmt.Errorf("logger level: %w", err)
	}
	if _, err := event.ParseSeverity(c.Console.Level); err != nil {
		return fmt.Errorf("console level: %w", err)
	}
	if _, err := event.ParseSeverity(c.File.Level); err != nil {
		return fmt.Errorf("file level: %w", err)
	}

	if !c.Console.Enabled && !c.File.Enabled {
		return errors.New("at least one of the console and file sinks must be enabled")
	}

	if c.File.Enabled {
		if strings.TrimSpace(c.File.Path) == "" {
			return errors.New("file sink enabled without a destination path")
		}
		if err := c.File.FormatSpec().Validate(); err != nil {
			return err
		}
		if c.File.MaxSizeMB < 0 || c.File.MaxBackups < 0 || c.File.MaxAgeDays < 0 {
			return errors.New("file rotation parameters must not be negative")
		}
	}

	if c.Archive.Enabled && strings.TrimSpace(c.Archive.Path) == "" {
		return errors.New("archive enabled without a database path")
	}
	if c.Archive.RetentionDays < 0 {
		return errors.New("archive retention_days must not be negative")
	}

	if c.Metrics.Enabled && c.Metrics.Bind == "" {
		return errors.New("metrics enabled without a bind address")
	}

	return nil
}
