package config

const (
	defaultLoggerName   = "app"
	defaultLoggerLevel  = "info"
	defaultConsoleLevel = "info"
	defaultFilePath     = "logs/app.log.jsonl"
	defaultFileLevel    = "debug"
	defaultMaxSizeMB    = 10
	defaultMaxBackups   = 5
	defaultArchivePath  = "logs/app.db"
	defaultMetricsBind  = "127.0.0.1:9278"
)

// Default returns a Config populated with repository defaults: console and
// file sinks enabled, rotation on, archive and metrics off.
func Default() Config {
	return Config{
		Logger: Logger{
			Name:  defaultLoggerName,
			Level: defaultLoggerLevel,
		},
		Console: Console{
			Enabled: true,
			Level:   defaultConsoleLevel,
			Color:   true,
		},
		File: File{
			Enabled:    true,
			Path:       defaultFilePath,
			Level:      defaultFileLevel,
			MaxSizeMB:  defaultMaxSizeMB,
			MaxBackups: defaultMaxBackups,
		},
		Archive: Archive{
			Path: defaultArchivePath,
		},
		Metrics: Metrics{
			Bind: defaultMetricsBind,
		},
	}
}
