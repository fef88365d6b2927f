package pipeline

import "scribe/internal/event"

// Filter gates whether a sink receives a record.
type Filter interface {
	Accept(*event.Record) bool
}

// FilterFunc adapts a function to the Filter interface.
type FilterFunc func(*event.Record) bool

func (f FilterFunc) Accept(rec *event.Record) bool { return f(rec) }

// NonError accepts only diagnostic traffic: DEBUG and INFO pass, WARNING and
// above stay out of the gated sink.
func NonError() Filter {
	return FilterFunc(func(rec *event.Record) bool {
		return rec.Level <= event.Info
	})
}
