// Package logging builds the slog loggers used across poselabel.
//
// Two handler formats are supported: a human-oriented console format that
// groups structured fields under a compact header line, and plain JSON for
// machine consumption. Construction goes through Options or straight from
// application config, which can add a log file next to the console output.
package logging
