// internal/writers/fasta.go
package writers

import (
	"bufio"
	"io"

	"contigfix-core/engine"
	"contigfix-core/fasta"
)

// StartFASTAWriter streams corrected contigs as FASTA, wrapped at
// fasta.LineWidth, under their original headers.
func StartFASTAWriter(out io.Writer, bufSize int) (chan<- engine.Result, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan engine.Result, bufSize)
	errCh := make(chan error, 1)
	go func() {
		bw := bufio.NewWriter(out)
		var err error
		for r := range in {
			if err != nil {
				continue
			}
			err = fasta.Write(bw, r.Record(), fasta.LineWidth)
		}
		if err == nil {
			err = bw.Flush()
		}
		errCh <- err
	}()
	return in, errCh
}
