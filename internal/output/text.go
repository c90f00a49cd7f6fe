// internal/output/text.go
package output

import (
	"fmt"
	"io"
	"strings"

	"contigfix-core/consensus"
	"contigfix/pkg/api"
)

// FormatReportRowTSV returns one report row (no trailing newline).
func FormatReportRowTSV(v api.ContigReportV1) string {
	rc := v.Reads
	return fmt.Sprintf("%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%s",
		v.Contig, dash(v.Shard), v.Length, v.CorrectedLength,
		v.Substitutions, v.Deletions, v.InsertionEvents, v.InsertedBases,
		rc.Processed, rc.Admitted, rc.Unaligned, rc.MateElsewhere, rc.AltPlacement, rc.ShortInterior,
		rc.Malformed, rc.Truncated, dash(oneLine(v.Error)),
	)
}

// StreamReportTSV writes the header and then one row per received report.
func StreamReportTSV(w io.Writer, in <-chan api.ContigReportV1, header bool) error {
	if header {
		if _, err := fmt.Fprintln(w, ReportHeader); err != nil {
			return err
		}
	}
	for v := range in {
		if _, err := fmt.Fprintln(w, FormatReportRowTSV(v)); err != nil {
			return err
		}
	}
	return nil
}

// WriteSummaryTSV appends the run summary as '#' comment lines.
func WriteSummaryTSV(w io.Writer, s api.RunSummaryV1) error {
	_, err := fmt.Fprintf(w, "# run_id=%s contigs=%d records=%d unplaced=%d unrouted=%d malformed=%d filtered=%d failed_shards=%d\n",
		s.RunID, s.Contigs, s.Records, s.Unplaced, s.Unrouted, s.Malformed, s.Filtered, s.Failed)
	return err
}

// FormatChangeRows returns one TSV line per edit, each newline-terminated.
// Positions are 1-based.
func FormatChangeRows(contig string, changes []consensus.Change) string {
	var sb strings.Builder
	for _, c := range changes {
		fmt.Fprintf(&sb, "%s\t%d\t%s\t%s\t%s\n", contig, c.Pos+1, c.Kind, dash(c.From), dash(c.To))
	}
	return sb.String()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func oneLine(s string) string {
	return strings.NewReplacer("\t", " ", "\n", " ").Replace(s)
}
