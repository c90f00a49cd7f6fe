package cigar

// cursorAdvance says which cursors an operation moves per base.
type cursorAdvance struct{ query, ref bool }

var advance = [...]cursorAdvance{
	Match:     {query: true, ref: true},
	Insertion: {query: true, ref: false},
	Deletion:  {query: false, ref: true},
	SoftClip:  {query: true, ref: false},
	HardClip:  {query: false, ref: false},
}

// Step is one base-level event of a walk.
//
// For Match and Deletion, Ref is the reference position consumed. For
// Insertion, Ref is the reference position immediately before the inserted
// run (the insertion attaches between Ref and Ref+1). Query is the index into
// SEQ, or -1 for Deletion. RunStart marks the first base of an insertion run.
type Step struct {
	Kind     Kind
	Ref      int
	Query    int
	RunStart bool
}

// Walker steps through a Cigar one base at a time. It is single-use.
// Clip operations move the query cursor but yield no steps.
type Walker struct {
	ops    []Op
	refLen int

	op    int // index into ops
	inOp  int // bases consumed within ops[op]
	query int // query cursor
	ref   int // reference cursor: next reference position to consume
	prev  Kind
	cur   Step
	done  bool
	trunc bool
}

// NewWalker starts a walk of c at 0-based reference position refStart over a
// reference of length refLen.
func NewWalker(c Cigar, refStart, refLen int) *Walker {
	w := &Walker{ops: c.Ops, refLen: refLen, ref: refStart, prev: HardClip}
	if c.unaligned {
		w.done = true
	}
	return w
}

// Next advances to the next step. It returns false once the operations are
// exhausted or the walk would touch a position at or past the reference end;
// in the latter case Truncated reports true.
func (w *Walker) Next() bool {
	for !w.done {
		if w.op >= len(w.ops) {
			w.done = true
			return false
		}
		op := w.ops[w.op]
		if w.inOp >= op.Len {
			w.prev = op.Kind
			w.op++
			w.inOp = 0
			continue
		}
		adv := advance[op.Kind]

		switch op.Kind {
		case SoftClip, HardClip:
			// Clips never touch the reference; skip the whole run at once.
			if adv.query {
				w.query += op.Len - w.inOp
			}
			w.inOp = op.Len
			continue
		}

		st := Step{Kind: op.Kind, Ref: w.ref, Query: w.query}
		switch op.Kind {
		case Insertion:
			st.Ref = w.ref - 1
			st.RunStart = w.inOp == 0 && w.prev != Insertion
		case Deletion:
			st.Query = -1
		}
		if st.Ref >= w.refLen {
			w.done, w.trunc = true, true
			return false
		}

		if adv.query {
			w.query++
		}
		if adv.ref {
			w.ref++
		}
		w.inOp++
		if st.Ref < 0 {
			// Before the reference start; nothing to attach to.
			continue
		}
		w.cur = st
		return true
	}
	return false
}

// Step returns the current step. Valid only after Next returned true.
func (w *Walker) Step() Step { return w.cur }

// Truncated reports whether the walk stopped at the reference end with
// operations left over.
func (w *Walker) Truncated() bool { return w.trunc }
