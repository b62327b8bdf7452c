package diag

import (
	"encoding/json"
	"fmt"
	"io"
)

// Reporter formats diagnostics for the error stream.
type Reporter struct {
	w    io.Writer
	json bool
}

// NewReporter creates a Reporter writing to w. When jsonOutput is true,
// every diagnostic is emitted as one JSON object on its own line.
func NewReporter(w io.Writer, jsonOutput bool) *Reporter {
	return &Reporter{w: w, json: jsonOutput}
}

// errorJSON mirrors the {"error": {...}} envelope used for all JSON errors.
type errorJSON struct {
	Error errorBodyJSON `json:"error"`
}

type errorBodyJSON struct {
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	File    string `json:"file,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// FileError reports a failure tied to a single input file. The file name
// is part of message in text mode and a separate field in JSON mode.
func (r *Reporter) FileError(file, message string, underlying error) {
	r.emit(errorBodyJSON{Message: message, Detail: detail(underlying), File: file})
}

// Fatal reports an error that ends the process with the given exit code.
func (r *Reporter) Fatal(code int, message string, underlying error) {
	r.emit(errorBodyJSON{Message: message, Detail: detail(underlying), Code: code})
}

func (r *Reporter) emit(body errorBodyJSON) {
	if r.json {
		// json.Marshal cannot fail for a struct of strings and ints.
		data, _ := json.Marshal(errorJSON{Error: body})
		_, _ = fmt.Fprintln(r.w, string(data))
		return
	}

	if body.Detail != "" {
		_, _ = fmt.Fprintf(r.w, "Error: %s: %s\n", body.Message, body.Detail)
	} else {
		_, _ = fmt.Fprintf(r.w, "Error: %s\n", body.Message)
	}
}

func detail(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
