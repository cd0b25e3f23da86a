// Package marshal converts values crossing the native/managed boundary.
//
// It parses "host:port" relay address tokens into RelayAddr values and
// validates that strings survive the managed runtime's UTF encoding.
// Parse failures and conversion failures are distinct error kinds so
// callers can fail fast on malformed input without touching the managed
// runtime.
package marshal
