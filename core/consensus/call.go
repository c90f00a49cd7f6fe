package consensus

import (
	"fmt"

	"contigfix-core/pileup"
)

// InsertionBar selects how an insertion mark competes in the first phase.
type InsertionBar uint8

const (
	// StrictBar: the insertion weight must beat the running best, exceed
	// InsertionRatio times the original base's weight and exceed InsertionMin.
	StrictBar InsertionBar = iota
	// LenientBar: the insertion wins if it beats the running best outright,
	// or if InsertionRatio times its weight beats the running best while the
	// weight itself exceeds InsertionMin. This is how the historical
	// corrector behaved and is the only setting under which insertions
	// supported by every covering read can be called.
	LenientBar
)

func (b InsertionBar) String() string {
	if b == LenientBar {
		return "lenient"
	}
	return "strict"
}

// ParseInsertionBar maps "strict" or "lenient" to an InsertionBar.
func ParseInsertionBar(s string) (InsertionBar, error) {
	switch s {
	case "strict", "":
		return StrictBar, nil
	case "lenient":
		return LenientBar, nil
	}
	return StrictBar, fmt.Errorf("unknown insertion bar %q (want strict or lenient)", s)
}

// Rule is the evidentiary bar for calling an insertion. Substitutions and
// deletions only need to strictly outweigh the current call.
type Rule struct {
	Bar            InsertionBar
	InsertionRatio float64
	InsertionMin   float64
}

// DefaultRule is the strict bar at 1.5x and an absolute floor of 2.
func DefaultRule() Rule { return Rule{Bar: StrictBar, InsertionRatio: 1.5, InsertionMin: 2} }

func (r Rule) insertionWins(w pileup.Weights, best, orig pileup.Symbol) bool {
	ins := w[pileup.Ins]
	if r.Bar == LenientBar {
		return ins > w[best] || (r.InsertionRatio*ins > w[best] && ins > r.InsertionMin)
	}
	return ins > w[best] && ins > r.InsertionRatio*w[orig] && ins > r.InsertionMin
}

var (
	phaseOneOrder = [...]pileup.Symbol{pileup.A, pileup.C, pileup.G, pileup.T, pileup.N, pileup.Ins, pileup.Del}
	phaseTwoOrder = [...]pileup.Symbol{pileup.A, pileup.C, pileup.G, pileup.T, pileup.N, pileup.Del}
)

// DecideInsertion is the first phase of a position call. It reports whether
// an insertion wins at the position and returns the weights to use for the
// base decision, with the insertion weight consumed.
func DecideInsertion(w pileup.Weights, orig pileup.Symbol, rule Rule) (bool, pileup.Weights) {
	best := orig
	for _, s := range phaseOneOrder {
		switch {
		case s == pileup.Ins:
			if rule.insertionWins(w, best, orig) {
				best = s
			}
		case w[s] > w[best]:
			best = s
		}
	}
	residual := w
	residual[pileup.Ins] = 0
	return best == pileup.Ins, residual
}

// DecideBase is the second phase: the base (or deletion) to emit at the
// position. The original symbol stands unless another strictly outweighs it.
func DecideBase(w pileup.Weights, orig pileup.Symbol) pileup.Symbol {
	best := orig
	for _, s := range phaseTwoOrder {
		if w[s] > w[best] {
			best = s
		}
	}
	return best
}

// Stats counts the edits applied to one contig.
type Stats struct {
	Substitutions   int
	Deletions       int
	InsertionEvents int
	InsertedBases   int
}

// ChangeKind classifies one edit.
type ChangeKind uint8

const (
	Substitution ChangeKind = iota
	Deletion
	Insertion
)

func (k ChangeKind) String() string {
	switch k {
	case Substitution:
		return "substitution"
	case Deletion:
		return "deletion"
	}
	return "insertion"
}

// Change is one edit at a 0-based original position. For insertions, To is
// the inserted string placed after Pos.
type Change struct {
	Pos  int
	Kind ChangeKind
	From string
	To   string
}

// Options tunes Call.
type Options struct {
	Rule Rule
	// RecordChanges collects a Change per edit.
	RecordChanges bool
}

// Called is the outcome of Call.
type Called struct {
	Seq     []byte
	Stats   Stats
	Changes []Change
}

// Call sweeps every position of contig once. Each position emits its base
// (or nothing, for a deletion) followed by the voted insertion, if any.
func Call(contig []byte, prof pileup.Profile, ins pileup.Insertions, opt Options) Called {
	out := Called{Seq: make([]byte, 0, len(contig)+len(contig)/100)}
	for i, b := range contig {
		orig := pileup.SymbolOf(b)

		var insert string
		wonIns, w := DecideInsertion(prof[i], orig, opt.Rule)
		if wonIns {
			insert = VoteInsertion(ins[i])
		}

		switch s := DecideBase(w, orig); {
		case s == orig:
			out.Seq = append(out.Seq, b)
		case s == pileup.Del:
			out.Stats.Deletions++
			if opt.RecordChanges {
				out.Changes = append(out.Changes, Change{Pos: i, Kind: Deletion, From: string(b)})
			}
		default:
			out.Seq = append(out.Seq, s.Byte())
			out.Stats.Substitutions++
			if opt.RecordChanges {
				out.Changes = append(out.Changes, Change{Pos: i, Kind: Substitution, From: string(b), To: s.String()})
			}
		}

		if insert != "" {
			out.Seq = append(out.Seq, insert...)
			out.Stats.InsertionEvents++
			out.Stats.InsertedBases += len(insert)
			if opt.RecordChanges {
				out.Changes = append(out.Changes, Change{Pos: i, Kind: Insertion, To: insert})
			}
		}
	}
	return out
}
