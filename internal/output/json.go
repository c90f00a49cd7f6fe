// internal/output/json.go
package output

import (
	"io"

	"contigfix/internal/jsonutil"
	"contigfix/pkg/api"
)

// WriteReportJSON writes the whole report as one indented JSON document.
func WriteReportJSON(w io.Writer, rep api.ReportV1) error {
	if rep.Contigs == nil {
		rep.Contigs = []api.ContigReportV1{}
	}
	return jsonutil.EncodePretty(w, rep)
}
