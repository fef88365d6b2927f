// Package pipeline dispatches log records to configured sinks.
//
// A Pipeline is the explicit process-wide logging handle: constructed once at
// startup (usually via FromConfig) and passed by reference to call sites, in
// place of a global logger registry. Emission is synchronous; a call returns
// after every accepting sink has written the rendered record.
package pipeline
