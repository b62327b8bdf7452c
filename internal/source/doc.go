// Package source provides the readable line sources consumed by the
// linecat line processor.
//
// A LineSource has two variants:
//   - standard-input-backed, selected by the "-" sentinel; closing it is a
//     no-op because the process does not own standard input
//   - file-backed, opened from a filesystem path and closed when the
//     processor is done with it
//
// The variant is chosen once per file name by Open. Both variants share the
// same line splitting: a line ends at "\n" (an optional "\r" before it is
// dropped too) or at end of input, and lines that are not valid UTF-8 are
// reported as a recoverable ErrInvalidEncoding.
package source
