// Package format renders records for the pipeline's sinks.
//
// The JSON formatter produces one self-contained JSON object per line, with
// field layout controlled by an ordered Spec built once at setup. The console
// formatter produces the single-line human-readable rendering used on
// terminals.
package format
