package sam

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

// ErrMalformed is wrapped by every line-level parse failure.
var ErrMalformed = errors.New("malformed alignment record")

// MandatoryFields is the number of fixed SAM columns.
const MandatoryFields = 11

// ParseError describes a line that could not be parsed. RName is filled in
// whenever the third column was present so callers can charge the failure to
// the right reference.
type ParseError struct {
	Line   int
	RName  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", e.Line, ErrMalformed, e.Reason)
	}
	return fmt.Sprintf("%s: %s", ErrMalformed, e.Reason)
}

func (e *ParseError) Unwrap() error { return ErrMalformed }

// IsHeader reports whether line is a SAM header line.
func IsHeader(line []byte) bool { return len(line) > 0 && line[0] == '@' }

// Parse decodes one tab-separated alignment line.
func Parse(line []byte) (Record, error) {
	line = bytes.TrimRight(line, "\r\n")
	fields := bytes.Split(line, []byte{'\t'})
	var rec Record
	if len(fields) >= 3 {
		rec.RName = string(fields[2])
	}
	fail := func(format string, a ...any) (Record, error) {
		return Record{}, &ParseError{RName: rec.RName, Reason: fmt.Sprintf(format, a...)}
	}
	if len(fields) < MandatoryFields {
		return fail("want at least %d fields, got %d", MandatoryFields, len(fields))
	}

	rec.QName = string(fields[0])
	flag, err := strconv.ParseUint(string(fields[1]), 10, 16)
	if err != nil {
		return fail("bad FLAG %q", fields[1])
	}
	rec.Flag = Flag(flag)
	pos, err := strconv.Atoi(string(fields[3]))
	if err != nil || pos < 0 {
		return fail("bad POS %q", fields[3])
	}
	rec.Pos = pos - 1
	if rec.MapQ, err = strconv.Atoi(string(fields[4])); err != nil || rec.MapQ < 0 {
		return fail("bad MAPQ %q", fields[4])
	}
	rec.Cigar = string(fields[5])
	rec.RNext = string(fields[6])
	pnext, err := strconv.Atoi(string(fields[7]))
	if err != nil {
		return fail("bad PNEXT %q", fields[7])
	}
	rec.PNext = pnext - 1
	if rec.TLen, err = strconv.Atoi(string(fields[8])); err != nil {
		return fail("bad TLEN %q", fields[8])
	}
	rec.Seq = string(fields[9])
	if rec.Seq == "*" {
		rec.Seq = ""
	}
	rec.Qual = string(fields[10])
	if rec.Qual == "*" {
		rec.Qual = ""
	}
	if rec.Qual != "" && len(rec.Qual) != len(rec.Seq) {
		return fail("QUAL length %d != SEQ length %d", len(rec.Qual), len(rec.Seq))
	}

	for _, tag := range fields[MandatoryFields:] {
		// TAG:TYPE:VALUE
		if len(tag) < 5 || tag[2] != ':' || tag[4] != ':' {
			continue
		}
		switch string(tag[:2]) {
		case "XA":
			rec.HasAlt = true
		case "X0":
			if n, err := strconv.Atoi(string(tag[5:])); err == nil {
				rec.BestHits = n
			}
		}
	}
	return rec, nil
}
