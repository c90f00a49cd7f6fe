// core/fasta/reader.go
package fasta

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrEmpty is returned by ReadAll when the input holds no records.
var ErrEmpty = errors.New("fasta: no records")

// Record is one named sequence. ID is the first whitespace-delimited token of
// the header and is the key alignments are routed by; Desc is the remainder.
type Record struct {
	ID   string
	Desc string
	Seq  []byte
}

// Header returns the header line without the leading '>'.
func (r Record) Header() string {
	if r.Desc == "" {
		return r.ID
	}
	return r.ID + " " + r.Desc
}

// Scan parses FASTA from r and calls emit once per record, in file order.
// Sequence bytes are upper-cased and stripped of whitespace. It returns
// promptly when ctx is done.
func Scan(ctx context.Context, r io.Reader, emit func(Record) error) error {
	sc := bufio.NewScanner(r)
	const maxLine = 64 * 1024 * 1024 // allow very long single-line sequences (64 MiB)
	buf := make([]byte, 64*1024)
	sc.Buffer(buf, maxLine)

	var (
		cur  Record
		have bool
		seq  = make([]byte, 0, 1<<16)
	)
	flush := func() error {
		if !have {
			return nil
		}
		cur.Seq = bytes.ToUpper(seq)
		seq = make([]byte, 0, len(seq))
		return emit(cur)
	}

	for sc.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			if err := flush(); err != nil {
				return err
			}
			id, desc := parseHeader(line[1:])
			cur = Record{ID: id, Desc: desc}
			have = true
			continue
		}
		if !have {
			return fmt.Errorf("fasta: sequence data before first header")
		}
		seq = append(seq, line...)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("fasta scan: %w", err)
	}
	return flush()
}

// ReadAll loads every record of the FASTA file at path.
func ReadAll(ctx context.Context, path string) ([]Record, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var out []Record
	if err := Scan(ctx, rc, func(r Record) error {
		out = append(out, r)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmpty)
	}
	return out, nil
}

func parseHeader(hdr []byte) (id, desc string) {
	hdr = bytes.TrimSpace(hdr)
	if i := bytes.IndexAny(hdr, " \t"); i >= 0 {
		return string(hdr[:i]), string(bytes.TrimSpace(hdr[i+1:]))
	}
	return string(hdr), ""
}
