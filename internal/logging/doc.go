// Package logging provides structured logging for mcpdock built on log/slog.
//
// The package offers a TTY-optimized text handler with color support,
// a JSON handler for machine-readable output, and a multi-handler for
// writing to several destinations at once (e.g., terminal plus log file).
//
// Sensitive attribute values (API keys, tokens) are masked by the text
// handler via the redact package before they are written.
//
// # Verbosity
//
// CLI verbosity flags map to slog levels through [LevelFromVerbosity]:
//
//	0 → Info, 1 → Debug, 2+ → Debug-4 (trace)
//
// # Context
//
// Loggers travel through context.Context. Use [NewContext] to attach a
// logger and [FromContext] to retrieve it; FromContext falls back to
// slog.Default when no logger is attached.
package logging
