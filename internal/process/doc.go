// Package process implements the linecat line processor.
//
// A Processor walks the files of a model.Config in order, opens each one
// through the source package, and copies its lines to the output writer,
// applying the configured numbering mode. Open failures and unreadable
// lines are reported through a diag.Reporter and skipped; only a failure
// to write the output stops the run.
package process
