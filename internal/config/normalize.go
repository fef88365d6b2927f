package config

import "strings"

// normalize trims string fields, restores defaults for fields emptied by the
// document, and expands home-relative paths.
func (c *Config) normalize() error {
	c.Logger.Name = strings.TrimSpace(c.Logger.Name)
	if c.Logger.Name == "" {
		c.Logger.Name = defaultLoggerName
	}
	c.Logger.Level = strings.TrimSpace(c.Logger.Level)
	if c.Logger.Level == "" {
		c.Logger.Level = defaultLoggerLevel
	}

	c.Console.Level = strings.TrimSpace(c.Console.Level)
	if c.Console.Level == "" {
		c.Console.Level = defaultConsoleLevel
	}

	c.File.Level = strings.TrimSpace(c.File.Level)
	if c.File.Level == "" {
		c.File.Level = defaultFileLevel
	}
	path, err := expandPath(c.File.Path)
	if err != nil {
		return err
	}
	c.File.Path = path

	archivePath, err := expandPath(c.Archive.Path)
	if err != nil {
		return err
	}
	c.Archive.Path = archivePath

	c.Metrics.Bind = strings.TrimSpace(c.Metrics.Bind)

	for i := range c.File.Format {
		c.File.Format[i].Key = strings.TrimSpace(c.File.Format[i].Key)
		c.File.Format[i].Source = strings.TrimSpace(c.File.Format[i].Source)
	}
	return nil
}
