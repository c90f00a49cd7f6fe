package sam

import (
	"bufio"
	"errors"
	"io"
)

// Reader yields alignment lines from a SAM text stream, skipping the header.
type Reader struct {
	sc   *bufio.Scanner
	line int
	rec  Record
	err  error
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	return &Reader{sc: sc}
}

// Next advances to the next alignment line. It returns false at end of input
// or on an I/O error (see Err). A line that fails to parse still returns true;
// its *ParseError is available from Record.
func (r *Reader) Next() bool {
	for r.sc.Scan() {
		r.line++
		b := r.sc.Bytes()
		if len(b) == 0 || IsHeader(b) {
			continue
		}
		r.rec, r.err = Parse(b)
		var pe *ParseError
		if errors.As(r.err, &pe) {
			pe.Line = r.line
		}
		return true
	}
	r.err = nil
	return false
}

// Record returns the current record, or the parse error for the current line.
func (r *Reader) Record() (Record, error) { return r.rec, r.err }

// Line is the 1-based line number of the current record.
func (r *Reader) Line() int { return r.line }

// Err returns the first I/O error encountered by Next.
func (r *Reader) Err() error { return r.sc.Err() }
