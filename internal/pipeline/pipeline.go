package pipeline

import (
	"fmt"
	"io"
	"os"
	"sync"

	"scribe/internal/event"
)

// Observer receives dispatch notifications. Implementations must be safe for
// concurrent use.
type Observer interface {
	Dispatched(sink string, level event.Severity)
	WriteFailed(sink string)
}

// dispatcher holds the state shared by a pipeline and every handle derived
// from it via WithFields.
type dispatcher struct {
	name     string
	min      event.Severity
	mu       sync.Mutex
	sinks    []Sink
	observer Observer
	closers  []io.Closer
	errOut   io.Writer
}

// Pipeline is the process-wide logging handle. The zero value is not usable;
// construct with New or FromConfig.
type Pipeline struct {
	shared *dispatcher
	bound  event.Fields
}

// Option adjusts pipeline construction.
type Option func(*dispatcher)

// WithSinks attaches destinations to the pipeline.
func WithSinks(sinks ...Sink) Option {
	return func(d *dispatcher) {
		for _, sink := range sinks {
			if sink != nil {
				d.sinks = append(d.sinks, sink)
			}
		}
	}
}

// WithObserver wires a dispatch observer (metrics).
func WithObserver(observer Observer) Option {
	return func(d *dispatcher) { d.observer = observer }
}

// WithCloser registers a resource released by Close.
func WithCloser(closer io.Closer) Option {
	return func(d *dispatcher) {
		if closer != nil {
			d.closers = append(d.closers, closer)
		}
	}
}

// WithErrorOutput redirects dispatch-failure reports, which default to
// stderr.
func WithErrorOutput(w io.Writer) Option {
	return func(d *dispatcher) { d.errOut = w }
}

// New constructs a pipeline with the given logger name and minimum severity.
func New(name string, min event.Severity, opts ...Option) *Pipeline {
	d := &dispatcher{name: name, min: min, errOut: os.Stderr}
	for _, opt := range opts {
		opt(d)
	}
	return &Pipeline{shared: d}
}

// Name returns the logger name records are stamped with.
func (p *Pipeline) Name() string { return p.shared.name }

// WithFields returns a handle whose emissions carry the given extras in
// addition to any already bound. Call-site extras win on key collision.
func (p *Pipeline) WithFields(extras event.Fields) *Pipeline {
	if len(extras) == 0 {
		return p
	}
	merged := make(event.Fields, len(p.bound)+len(extras))
	for key, value := range p.bound {
		merged[key] = value
	}
	for key, value := range extras {
		merged[key] = value
	}
	return &Pipeline{shared: p.shared, bound: merged}
}

// Detail carries the optional payload of one emission beyond the message.
type Detail struct {
	Extras event.Fields
	Err    error
	Stack  bool
}

// Emit is the dispatch primitive: render the template, build the record, and
// write it to every accepting sink. The error reports sink or usage failures;
// it is also written once to the pipeline's error output, so fire-and-forget
// callers may ignore it.
func (p *Pipeline) Emit(sev event.Severity, template string, args []any, extras event.Fields) error {
	return p.emit(sev, template, args, Detail{Extras: extras})
}

// EmitDetail is Emit with exception and stack capture knobs.
func (p *Pipeline) EmitDetail(sev event.Severity, template string, args []any, d Detail) error {
	return p.emit(sev, template, args, d)
}

func (p *Pipeline) Debugf(template string, args ...any) {
	_ = p.emit(event.Debug, template, args, Detail{})
}

func (p *Pipeline) Infof(template string, args ...any) {
	_ = p.emit(event.Info, template, args, Detail{})
}

func (p *Pipeline) Warningf(template string, args ...any) {
	_ = p.emit(event.Warning, template, args, Detail{})
}

func (p *Pipeline) Errorf(template string, args ...any) {
	_ = p.emit(event.Error, template, args, Detail{})
}

func (p *Pipeline) Criticalf(template string, args ...any) {
	_ = p.emit(event.Critical, template, args, Detail{})
}

// Exception records an ERROR carrying the error's type, message, and stack
// trace as exc_info. A nil err is a usage misfire: the message is still
// logged, without exception context.
func (p *Pipeline) Exception(err error, template string, args ...any) {
	_ = p.emit(event.Error, template, args, Detail{Err: ensureStack(err)})
}

// emit must be called directly by an exported method so the captured call
// site is the application frame two levels up.
func (p *Pipeline) emit(sev event.Severity, template string, args []any, d Detail) error {
	if p == nil || p.shared == nil {
		return nil
	}
	if sev < p.shared.min {
		return nil
	}
	extras := p.mergedExtras(d.Extras)
	if err := event.ValidateExtras(extras); err != nil {
		p.shared.report(err)
		return err
	}
	rec := event.New(p.shared.name, sev, template, args, 2)
	rec.Extras = extras
	if d.Err != nil {
		rec.ExcInfo = formatException(d.Err)
	}
	if d.Stack {
		rec.StackInfo = captureStack()
	}
	if err := p.shared.dispatch(rec); err != nil {
		p.shared.report(err)
		return err
	}
	return nil
}

func (p *Pipeline) mergedExtras(extras event.Fields) event.Fields {
	if len(p.bound) == 0 && len(extras) == 0 {
		return nil
	}
	merged := make(event.Fields, len(p.bound)+len(extras))
	for key, value := range p.bound {
		merged[key] = value
	}
	for key, value := range extras {
		merged[key] = value
	}
	return merged
}

// dispatch fans the record out to every accepting sink under the pipeline
// lock, returning the first write failure after trying all sinks.
func (d *dispatcher) dispatch(rec *event.Record) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	var firstErr error
	for _, sink := range d.sinks {
		if !sink.Accepts(rec) {
			continue
		}
		if d.observer != nil {
			d.observer.Dispatched(sink.Name(), rec.Level)
		}
		if err := sink.Write(rec); err != nil {
			if d.observer != nil {
				d.observer.WriteFailed(sink.Name())
			}
			if firstErr == nil {
				firstErr = fmt.Errorf("sink %s: %w", sink.Name(), err)
			}
		}
	}
	return firstErr
}

func (d *dispatcher) report(err error) {
	if d.errOut == nil || err == nil {
		return
	}
	fmt.Fprintf(d.errOut, "scribe: %v\n", err)
}

// Close releases sink resources in reverse registration order. Call once at
// process shutdown.
func (p *Pipeline) Close() error {
	if p == nil || p.shared == nil {
		return nil
	}
	var firstErr error
	closers := p.shared.closers
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
