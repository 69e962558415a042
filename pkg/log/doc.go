// Package log provides structured event logging for UPnP exchanges.
//
// Components that touch the network (SSDP search, description fetch,
// SOAP control) accept a Logger and emit an Event per wire exchange.
// Events are diagnostics only: errors still propagate to the caller.
//
// Available loggers:
//   - NoopLogger: discards all events (logging disabled)
//   - FileLogger: writes CBOR-encoded events to a file
//   - SlogAdapter: writes events to a slog.Logger for console output
//   - MultiLogger: fans out to multiple loggers
//
// Log files written by FileLogger can be read back with Reader, which
// supports filtering by layer, category, exchange or time range.
package log
