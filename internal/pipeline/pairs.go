package pipeline

import "contigfix-core/sam"

// pairFilter groups adjacent records sharing a QName (a read pair as the
// aligner emits it) and keeps a record only if some member of its group
// has a unique alignment on the record's own contig.
type pairFilter struct {
	group []sam.Record
	out   func(rec sam.Record, keep bool) error
}

func newPairFilter(out func(sam.Record, bool) error) *pairFilter {
	return &pairFilter{out: out}
}

// Add buffers rec, releasing the previous group when the name changes.
func (p *pairFilter) Add(rec sam.Record) error {
	if len(p.group) > 0 && p.group[0].QName != rec.QName {
		if err := p.Flush(); err != nil {
			return err
		}
	}
	p.group = append(p.group, rec)
	return nil
}

// Flush releases the buffered group.
func (p *pairFilter) Flush() error {
	group := p.group
	p.group = p.group[:0]
	for i := range group {
		if err := p.out(group[i], anchored(group, group[i].RName)); err != nil {
			return err
		}
	}
	return nil
}

func anchored(group []sam.Record, rname string) bool {
	for i := range group {
		r := &group[i]
		if r.RName == rname && r.RName != "*" && r.Cigar != "*" && r.Unique() {
			return true
		}
	}
	return false
}
