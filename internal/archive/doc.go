// Package archive persists dispatched records in SQLite so recent history
// stays queryable after the process exits. The store doubles as a pipeline
// sink.
package archive
