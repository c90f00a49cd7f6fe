package fasta

import (
	"bufio"
	"io"
)

// LineWidth is the sequence line width used for corrected output.
const LineWidth = 60

// Write serializes rec with sequence lines wrapped at width columns
// (width <= 0 writes the sequence on one line).
func Write(w io.Writer, rec Record, width int) error {
	bw, ok := w.(*bufio.Writer)
	if !ok {
		bw = bufio.NewWriter(w)
	}
	if _, err := bw.WriteString(">" + rec.Header() + "\n"); err != nil {
		return err
	}
	seq := rec.Seq
	if width <= 0 {
		width = len(seq)
	}
	for len(seq) > 0 {
		n := width
		if n > len(seq) {
			n = len(seq)
		}
		if _, err := bw.Write(seq[:n]); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
		seq = seq[n:]
	}
	if !ok {
		return bw.Flush()
	}
	return nil
}
