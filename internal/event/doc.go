// Package event defines the log record flowing through the pipeline.
//
// A Record carries the rendered message, the ordered severity, the call-site
// metadata captured at creation, and an explicit Extras container for
// caller-supplied structured data. Intrinsic attributes are resolvable by name
// so formatters can remap them without reflection, and the built-in name set
// keeps extras and intrinsics disjoint by construction.
package event
