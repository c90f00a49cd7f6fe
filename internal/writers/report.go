// internal/writers/report.go
package writers

import (
	"encoding/json"
	"io"

	"contigfix/internal/jsonlutil"
	"contigfix/internal/output"
	"contigfix/pkg/api"
)

// ReportArgs is what a report handler consumes: rows until In is closed,
// then at most one summary.
type ReportArgs struct {
	RunID   string
	In      <-chan api.ContigReportV1
	Summary <-chan api.RunSummaryV1
}

func init() {
	RegisterReport(output.FormatText, func(w io.Writer, a ReportArgs) error {
		if err := output.StreamReportTSV(w, a.In, true); err != nil {
			drain(a.In)
			return err
		}
		if s, ok := <-a.Summary; ok {
			return output.WriteSummaryTSV(w, s)
		}
		return nil
	})

	RegisterReport(output.FormatJSON, func(w io.Writer, a ReportArgs) error {
		rep := api.ReportV1{RunID: a.RunID}
		for v := range a.In {
			rep.Contigs = append(rep.Contigs, v)
		}
		if s, ok := <-a.Summary; ok {
			rep.Summary = &s
		}
		return output.WriteReportJSON(w, rep)
	})

	// JSONL carries contig rows only, streamed as they arrive.
	RegisterReport(output.FormatJSONL, func(w io.Writer, a ReportArgs) error {
		pipe, done := jsonlutil.Start[api.ContigReportV1](w, 64,
			func(enc *json.Encoder, v api.ContigReportV1) error { return enc.Encode(v) },
			IsBrokenPipe,
		)
		for v := range a.In {
			pipe <- v
		}
		close(pipe)
		return <-done
	})
}

// ReportWriter is a running report sink.
type ReportWriter struct {
	rows    chan api.ContigReportV1
	summary chan api.RunSummaryV1
	done    chan error
}

// StartReportWriter starts the handler for format writing to out.
func StartReportWriter(out io.Writer, format, runID string, bufSize int) *ReportWriter {
	if bufSize <= 0 {
		bufSize = 64
	}
	rw := &ReportWriter{
		rows:    make(chan api.ContigReportV1, bufSize),
		summary: make(chan api.RunSummaryV1, 1),
		done:    make(chan error, 1),
	}
	go func() {
		err := WriteReport(format, out, ReportArgs{RunID: runID, In: rw.rows, Summary: rw.summary})
		drain[api.ContigReportV1](rw.rows)
		rw.done <- err
	}()
	return rw
}

// Rows is the input channel for contig rows.
func (rw *ReportWriter) Rows() chan<- api.ContigReportV1 { return rw.rows }

// Close ends the row stream, hands over the summary (nil to omit it) and
// waits for the handler. Broken pipes are not errors.
func (rw *ReportWriter) Close(sum *api.RunSummaryV1) error {
	close(rw.rows)
	if sum != nil {
		rw.summary <- *sum
	}
	close(rw.summary)
	if err := <-rw.done; err != nil && !IsBrokenPipe(err) {
		return err
	}
	return nil
}

func drain[T any](ch <-chan T) {
	for range ch {
	}
}
