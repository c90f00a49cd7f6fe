// Package cigar decodes CIGAR operation strings and walks them against a
// reference with two explicitly tracked cursors.
package cigar

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed is wrapped by Parse failures.
var ErrMalformed = errors.New("malformed CIGAR")

// Kind is an alignment operation.
type Kind uint8

const (
	Match Kind = iota
	Insertion
	Deletion
	SoftClip
	HardClip
)

func (k Kind) String() string {
	switch k {
	case Match:
		return "M"
	case Insertion:
		return "I"
	case Deletion:
		return "D"
	case SoftClip:
		return "S"
	case HardClip:
		return "H"
	}
	return "?"
}

// Op is one run-length operation.
type Op struct {
	Len  int
	Kind Kind
}

// Cigar is a decoded operation string. The zero value with unaligned set
// represents "*".
type Cigar struct {
	Ops       []Op
	unaligned bool
}

// Unaligned reports whether the source string was the "*" wildcard.
func (c Cigar) Unaligned() bool { return c.unaligned }

// AlignedLength is the number of Match-consumed bases.
func (c Cigar) AlignedLength() int {
	n := 0
	for _, op := range c.Ops {
		if op.Kind == Match {
			n += op.Len
		}
	}
	return n
}

// QueryLength is the number of SEQ bases the operations consume.
func (c Cigar) QueryLength() int {
	n := 0
	for _, op := range c.Ops {
		if advance[op.Kind].query {
			n += op.Len
		}
	}
	return n
}

func (c Cigar) String() string {
	if c.unaligned {
		return "*"
	}
	var b strings.Builder
	for _, op := range c.Ops {
		fmt.Fprintf(&b, "%d%s", op.Len, op.Kind)
	}
	return b.String()
}

// Parse decodes s. "=" and "X" fold into Match, "N" into Deletion, and "P"
// is dropped since it consumes neither sequence.
func Parse(s string) (Cigar, error) {
	if s == "*" {
		return Cigar{unaligned: true}, nil
	}
	if s == "" {
		return Cigar{}, fmt.Errorf("%w: empty", ErrMalformed)
	}
	ops := make([]Op, 0, 4)
	n := 0
	digits := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch >= '0' && ch <= '9' {
			n = n*10 + int(ch-'0')
			digits = true
			continue
		}
		if !digits {
			return Cigar{}, fmt.Errorf("%w: %q: operation %q without length", ErrMalformed, s, ch)
		}
		var k Kind
		switch ch {
		case 'M', '=', 'X':
			k = Match
		case 'I':
			k = Insertion
		case 'D', 'N':
			k = Deletion
		case 'S':
			k = SoftClip
		case 'H':
			k = HardClip
		case 'P':
			n, digits = 0, false
			continue
		default:
			return Cigar{}, fmt.Errorf("%w: %q: unknown operation %q", ErrMalformed, s, ch)
		}
		if n > 0 {
			if l := len(ops); l > 0 && ops[l-1].Kind == k {
				ops[l-1].Len += n
			} else {
				ops = append(ops, Op{Len: n, Kind: k})
			}
		}
		n, digits = 0, false
	}
	if digits {
		return Cigar{}, fmt.Errorf("%w: %q: trailing length without operation", ErrMalformed, s)
	}
	return Cigar{Ops: ops}, nil
}
