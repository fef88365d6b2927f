package pipeline

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"

	"scribe/internal/archive"
	"scribe/internal/config"
	"scribe/internal/event"
	"scribe/internal/format"
)

// FieldSessionID is the extras key stamping every record with the pipeline's
// session identity.
const FieldSessionID = "session_id"

// FromConfig assembles the pipeline described by cfg: each sink is built
// directly from its typed section, and any failure aborts before a single
// sink activates. Extra options run after the configured wiring.
func FromConfig(cfg *config.Config, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		return nil, errors.New("pipeline requires a configuration")
	}

	minLevel, err := event.ParseSeverity(cfg.Logger.Level)
	if err != nil {
		return nil, fmt.Errorf("logger level: %w", err)
	}

	var (
		sinks     []Sink
		buildOpts []Option
		closers   []io.Closer
	)
	fail := func(err error) (*Pipeline, error) {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i].Close()
		}
		return nil, err
	}
	hold := func(closer io.Closer) {
		closers = append(closers, closer)
		buildOpts = append(buildOpts, WithCloser(closer))
	}

	if cfg.Console.Enabled {
		level, err := event.ParseSeverity(cfg.Console.Level)
		if err != nil {
			return fail(fmt.Errorf("console level: %w", err))
		}
		writer := io.Writer(os.Stderr)
		var filters []Filter
		if cfg.Console.NonErrorOnly {
			writer = os.Stdout
			filters = append(filters, NonError())
		}
		color := cfg.Console.Color && format.ColorCapable(writer)
		sinks = append(sinks, NewStreamSink("console", writer, format.NewConsole(color), level, filters...))
	}

	var store *archive.Store
	if cfg.File.Enabled {
		level, err := event.ParseSeverity(cfg.File.Level)
		if err != nil {
			return fail(fmt.Errorf("file level: %w", err))
		}
		path, err := ResolveSinkPath(cfg.File.Path)
		if err != nil {
			return fail(err)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fail(fmt.Errorf("ensure log directory: %w", err))
		}

		// One writer per destination: the lock outlives the pipeline and is
		// released on Close.
		lock := flock.New(path + ".lock")
		locked, err := lock.TryLock()
		if err != nil {
			return fail(fmt.Errorf("acquire log file lock: %w", err))
		}
		if !locked {
			return fail(fmt.Errorf("log file %s is owned by another process", path))
		}
		hold(closerFunc(lock.Unlock))

		formatter, err := format.NewJSON(cfg.File.FormatSpec())
		if err != nil {
			return fail(err)
		}

		var writer io.Writer
		if cfg.File.Rotates() {
			rotator := &lumberjack.Logger{
				Filename:   path,
				MaxSize:    cfg.File.MaxSizeMB,
				MaxBackups: cfg.File.MaxBackups,
				MaxAge:     cfg.File.MaxAgeDays,
				Compress:   cfg.File.Compress,
			}
			writer = rotator
			hold(rotator)
		} else {
			file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fail(fmt.Errorf("open log file %s: %w", path, err))
			}
			writer = file
			hold(file)
		}

		var filters []Filter
		if cfg.File.NonErrorOnly {
			filters = append(filters, NonError())
		}
		sinks = append(sinks, NewStreamSink("file", writer, formatter, level, filters...))
	}

	if cfg.Archive.Enabled {
		path, err := ResolveSinkPath(cfg.Archive.Path)
		if err != nil {
			return fail(err)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fail(fmt.Errorf("ensure archive directory: %w", err))
		}
		store, err = archive.Open(path)
		if err != nil {
			return fail(fmt.Errorf("open archive: %w", err))
		}
		sinks = append(sinks, store)
		hold(store)
	}

	buildOpts = append(buildOpts, WithSinks(sinks...))
	buildOpts = append(buildOpts, opts...)

	p := New(cfg.Logger.Name, minLevel, buildOpts...)
	p = p.WithFields(event.Fields{FieldSessionID: uuid.NewString()})

	if store != nil && cfg.Archive.RetentionDays > 0 {
		removed, err := store.Prune(cfg.Archive.RetentionDays)
		if err != nil {
			p.Warningf("archive prune failed: %v", err)
		} else if removed > 0 {
			p.Debugf("pruned %d archived records older than %d days", removed, cfg.Archive.RetentionDays)
		}
	}

	return p, nil
}

// ResolveSinkPath anchors relative sink destinations at the running
// executable's directory. Absolute paths pass through unchanged. Every
// consumer of a configured sink path resolves it through here so the rule
// cannot drift.
func ResolveSinkPath(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable path: %w", err)
	}
	return filepath.Join(filepath.Dir(exe), path), nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
