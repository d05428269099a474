// Package logging configures the process logger for amanlog.
//
// Initialize builds two sinks on top of log/slog: a JSON file sink backed by
// a size-triggered, fixed-window RotatingWriter, and a text console sink on
// stderr. Verbose mode lowers the console threshold from INFO to TRACE; the
// file sink receives every level unless GateRoot is selected. The result is
// installed as the process-wide logger exactly once.
package logging
