// internal/writers/changes.go
package writers

import (
	"bufio"
	"fmt"
	"io"

	"contigfix-core/engine"
	"contigfix/internal/output"
)

// StartChangesWriter writes every recorded edit of each result as TSV.
// Results must come from an engine configured with RecordChanges.
func StartChangesWriter(out io.Writer, bufSize int) (chan<- engine.Result, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan engine.Result, bufSize)
	errCh := make(chan error, 1)
	go func() {
		bw := bufio.NewWriter(out)
		_, err := fmt.Fprintln(bw, output.ChangesHeader)
		for r := range in {
			if err != nil || len(r.Changes) == 0 {
				continue
			}
			_, err = bw.WriteString(output.FormatChangeRows(r.ID, r.Changes))
		}
		if err == nil {
			err = bw.Flush()
		}
		errCh <- err
	}()
	return in, errCh
}
