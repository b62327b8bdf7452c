// Package diag writes linecat's diagnostics to standard error.
//
// Two channels exist:
//   - Reporter: user-facing error lines, always on. Each diagnostic is a
//     text line ("Error: <message>: <detail>") or, with --json, a single
//     JSON object per line.
//   - NewLogger: opt-in trace logging (--verbose) through log/slog and the
//     github.com/lmittmann/tint handler. Colour is enabled only when the
//     destination is a terminal.
package diag
