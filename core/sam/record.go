// Package sam models the subset of SAM text alignment records the corrector
// consumes: the eleven mandatory columns plus the XA and X0 tags.
package sam

// Flag is the SAM FLAG bit field.
type Flag uint16

const (
	Paired       Flag = 0x1
	ProperPair   Flag = 0x2
	Unmapped     Flag = 0x4
	MateUnmapped Flag = 0x8
	Reverse      Flag = 0x10
	MateReverse  Flag = 0x20
	Read1        Flag = 0x40
	Read2        Flag = 0x80
	Secondary    Flag = 0x100
)

// Has reports whether every bit of f2 is set in f.
func (f Flag) Has(f2 Flag) bool { return f&f2 == f2 }

// Record is one parsed alignment line. Pos and PNext are 0-based; an
// unavailable position is -1. Qual is empty when the line carries "*".
type Record struct {
	QName string
	Flag  Flag
	RName string
	Pos   int
	MapQ  int
	Cigar string
	RNext string
	PNext int
	TLen  int
	Seq   string
	Qual  string

	// HasAlt is set when an XA (alternative hits) tag is present.
	HasAlt bool
	// BestHits is the X0 tag value, 0 when absent.
	BestHits int
}

// Aligned reports whether the record carries an alignment at all.
func (r *Record) Aligned() bool {
	return r.Cigar != "*" && r.Cigar != "" && !r.Flag.Has(Unmapped)
}

// MateSameRef reports whether the mate is placed on the same reference.
func (r *Record) MateSameRef() bool {
	return r.RNext == "=" || r.RNext == r.RName
}

// MateElsewhere reports whether the mate is mapped to a different reference.
func (r *Record) MateElsewhere() bool {
	return r.RNext != "*" && r.RNext != "" && !r.MateSameRef()
}

// Unique reports whether the aligner placed the read at a single best hit.
func (r *Record) Unique() bool { return r.BestHits <= 1 }
