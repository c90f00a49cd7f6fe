// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"
)

// ReportWriters maps a report format to its handler. Handlers register
// themselves in init().
var ReportWriters = map[string]func(w io.Writer, args ReportArgs) error{}

// RegisterReport adds or replaces the handler for format.
func RegisterReport(format string, fn func(io.Writer, ReportArgs) error) { ReportWriters[format] = fn }

// WriteReport dispatches to the handler registered for format.
func WriteReport(format string, w io.Writer, args ReportArgs) error {
	fn, ok := ReportWriters[format]
	if !ok {
		return fmt.Errorf("unknown report format %q (no writer registered)", format)
	}
	return fn(w, args)
}

// ReportFormats lists registered formats, sorted.
func ReportFormats() []string {
	out := make([]string, 0, len(ReportWriters))
	for k := range ReportWriters {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
