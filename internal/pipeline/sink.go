package pipeline

import (
	"io"
	"sync"

	"scribe/internal/event"
)

// Formatter renders one record into the bytes written to a sink.
type Formatter interface {
	Format(*event.Record) ([]byte, error)
}

// Sink is one destination for dispatched records.
type Sink interface {
	Name() string
	Accepts(*event.Record) bool
	Write(*event.Record) error
}

// StreamSink writes formatted records to an io.Writer. Writes are serialized
// so one rendered record reaches the writer atomically even under concurrent
// dispatch.
type StreamSink struct {
	name      string
	mu        sync.Mutex
	writer    io.Writer
	formatter Formatter
	min       event.Severity
	filters   []Filter
}

// NewStreamSink constructs a sink with its own minimum severity and filter
// list. A record is written only when its severity meets min and every filter
// accepts it.
func NewStreamSink(name string, w io.Writer, formatter Formatter, min event.Severity, filters ...Filter) *StreamSink {
	return &StreamSink{
		name:      name,
		writer:    w,
		formatter: formatter,
		min:       min,
		filters:   append([]Filter(nil), filters...),
	}
}

func (s *StreamSink) Name() string { return s.name }

func (s *StreamSink) Accepts(rec *event.Record) bool {
	if rec.Level < s.min {
		return false
	}
	for _, filter := range s.filters {
		if !filter.Accept(rec) {
			return false
		}
	}
	return true
}

func (s *StreamSink) Write(rec *event.Record) error {
	line, err := s.formatter.Format(rec)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.writer.Write(line)
	return err
}
