package pileup

import (
	"fmt"

	"contigfix-core/cigar"
	"contigfix-core/policy"
	"contigfix-core/sam"
)

// Counts tallies what happened to the records handed to an Accumulator.
type Counts struct {
	// Processed counts every well-formed record, admitted or not.
	Processed int
	// Rejected is indexed by policy.Reason; Rejected[policy.Accepted] is the
	// number of admitted records.
	Rejected [policy.NumReasons]int
	// Malformed counts records that could not be decoded against the contig.
	Malformed int
	// Truncated counts admitted records whose walk ran off the contig end.
	Truncated int
}

// Admitted is the number of records that contributed evidence.
func (c Counts) Admitted() int { return c.Rejected[policy.Accepted] }

// Add folds o into c.
func (c *Counts) Add(o Counts) {
	c.Processed += o.Processed
	c.Malformed += o.Malformed
	c.Truncated += o.Truncated
	for i := range c.Rejected {
		c.Rejected[i] += o.Rejected[i]
	}
}

// Accumulator owns the profile and insertion evidence of one contig while
// records are being added. It is not safe for concurrent use; shard records
// across several accumulators and Merge them instead.
type Accumulator struct {
	contigLen int
	pol       *policy.Policy
	profile   Profile
	ins       Insertions
	counts    Counts
}

// NewAccumulator returns an empty accumulator for a contig of length n.
func NewAccumulator(n int, pol *policy.Policy) *Accumulator {
	return &Accumulator{
		contigLen: n,
		pol:       pol,
		profile:   NewProfile(n),
		ins:       make(Insertions),
	}
}

// Add walks rec and adds its weighted evidence. A non-nil error means the
// record was malformed and contributed nothing; it is already counted.
func (a *Accumulator) Add(rec *sam.Record) (policy.Decision, error) {
	c, err := cigar.Parse(rec.Cigar)
	if err == nil && !c.Unaligned() && c.QueryLength() != len(rec.Seq) {
		err = fmt.Errorf("%w: CIGAR consumes %d bases, SEQ has %d",
			sam.ErrMalformed, c.QueryLength(), len(rec.Seq))
	}
	if err != nil {
		a.counts.Malformed++
		return policy.Decision{}, fmt.Errorf("read %s: %w", rec.QName, err)
	}

	a.counts.Processed++
	d := a.pol.Admit(rec, c, a.contigLen)
	a.counts.Rejected[d.Reason]++
	if !d.Admitted() {
		return d, nil
	}

	haveQual := rec.Qual != ""
	var (
		run    []byte
		runPos int
	)
	flush := func() {
		if run != nil {
			a.ins.Add(runPos, string(run))
			run = nil
		}
	}

	w := cigar.NewWalker(c, rec.Pos, a.contigLen)
	for w.Next() {
		st := w.Step()
		if st.Kind != cigar.Insertion {
			flush()
		}
		switch st.Kind {
		case cigar.Match:
			f := 1.0
			if haveQual {
				f = a.pol.BaseFactor(rec.Qual[st.Query], true)
			}
			a.profile[st.Ref][SymbolOf(rec.Seq[st.Query])] += d.Weight * f
		case cigar.Insertion:
			if st.RunStart || run == nil {
				flush()
				a.profile[st.Ref][Ins] += d.Weight
				run = make([]byte, 0, 4)
				runPos = st.Ref
			}
			run = append(run, rec.Seq[st.Query])
		case cigar.Deletion:
			a.profile[st.Ref][Del] += d.Weight
		}
	}
	flush()
	if w.Truncated() {
		a.counts.Truncated++
	}
	return d, nil
}

// MarkMalformed counts a record that failed before it could be parsed.
func (a *Accumulator) MarkMalformed() { a.counts.Malformed++ }

// Len is the contig length.
func (a *Accumulator) Len() int { return a.contigLen }

// Profile returns the accumulated profile. Callers must not mutate it.
func (a *Accumulator) Profile() Profile { return a.profile }

// Insertions returns the collected insertion evidence.
func (a *Accumulator) Insertions() Insertions { return a.ins }

// Counts returns the record tallies so far.
func (a *Accumulator) Counts() Counts { return a.counts }

// Merge folds b into a: profiles are summed element-wise and insertion lists
// are appended (a's entries first). Both must cover the same contig.
func (a *Accumulator) Merge(b *Accumulator) error {
	if a.contigLen != b.contigLen {
		return fmt.Errorf("pileup: merge length mismatch %d != %d", a.contigLen, b.contigLen)
	}
	for i := range a.profile {
		for s := range a.profile[i] {
			a.profile[i][s] += b.profile[i][s]
		}
	}
	for pos, list := range b.ins {
		a.ins[pos] = append(a.ins[pos], list...)
	}
	a.counts.Add(b.counts)
	return nil
}
