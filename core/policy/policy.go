// Package policy decides which alignment records contribute evidence to a
// contig's pileup and with what weight.
package policy

import (
	"math"

	"contigfix-core/cigar"
	"contigfix-core/sam"
)

// Config is immutable once a Policy is built from it.
type Config struct {
	// MateWeight multiplies evidence from reads whose mate is mapped to the
	// same contig.
	MateWeight float64
	// UseQuality enables mapping-quality and base-quality scaling.
	UseQuality bool
	// InsertMargin is the distance from either contig end inside which reads
	// with a mate on another contig are still trusted.
	InsertMargin int
	// QualOffset is subtracted from a quality character to get its Phred value.
	QualOffset int
	// LowQualChar marks a base whose quality is unreliable; such bases are
	// scaled by LowQualFactor instead of the Phred formula.
	LowQualChar   byte
	LowQualFactor float64
}

// DefaultConfig matches the historical corrector: unit mate weight, quality
// off, a 400 bp margin and Illumina 1.5 (Phred+64) qualities with 'B' as the
// read-segment quality control indicator.
func DefaultConfig() Config {
	return Config{
		MateWeight:    1.0,
		InsertMargin:  400,
		QualOffset:    64,
		LowQualChar:   'B',
		LowQualFactor: 0.2,
	}
}

// Reason names why a record was rejected.
type Reason uint8

const (
	Accepted Reason = iota
	Unaligned
	MateElsewhere
	AltPlacement
	ShortInterior
	numReasons
)

// NumReasons is the number of distinct Reason values, Accepted included.
const NumReasons = int(numReasons)

func (r Reason) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case Unaligned:
		return "unaligned"
	case MateElsewhere:
		return "mate_elsewhere"
	case AltPlacement:
		return "alt_placement"
	case ShortInterior:
		return "short_interior"
	}
	return "unknown"
}

// Decision is the outcome of Admit.
type Decision struct {
	Reason Reason
	Weight float64
}

// Admitted reports whether the record contributes evidence.
func (d Decision) Admitted() bool { return d.Reason == Accepted }

// Policy applies a Config to records.
type Policy struct {
	cfg Config
}

// New returns a Policy for cfg.
func New(cfg Config) *Policy { return &Policy{cfg: cfg} }

// Config returns the configuration the policy was built with.
func (p *Policy) Config() Config { return p.cfg }

// Admit decides whether rec, already decoded to c, contributes to a contig of
// length contigLen, and with which record-level weight.
func (p *Policy) Admit(rec *sam.Record, c cigar.Cigar, contigLen int) Decision {
	if c.Unaligned() || !rec.Aligned() {
		return Decision{Reason: Unaligned}
	}
	pos := rec.Pos
	margin := p.cfg.InsertMargin

	if rec.MateElsewhere() && pos > margin && pos < contigLen-margin {
		return Decision{Reason: MateElsewhere}
	}
	if rec.HasAlt && !rec.MateSameRef() {
		return Decision{Reason: AltPlacement}
	}

	readLen := len(rec.Seq)
	minAligned := math.Min(0.4*float64(readLen), 40)
	if float64(c.AlignedLength()) < minAligned &&
		pos > readLen/2 && contigLen-pos > readLen/2 &&
		rec.Flag.Has(sam.Read2) {
		return Decision{Reason: ShortInterior}
	}

	w := 1.0
	if rec.MateSameRef() && !rec.Flag.Has(sam.MateUnmapped) {
		w = p.cfg.MateWeight
	}
	if p.cfg.UseQuality {
		w *= PhredProb(rec.MapQ)
	}
	return Decision{Reason: Accepted, Weight: w}
}

// BaseFactor scales a Match contribution by the quality character q.
// It is 1 when quality scaling is off or no quality string is available.
func (p *Policy) BaseFactor(q byte, haveQual bool) float64 {
	if !p.cfg.UseQuality || !haveQual {
		return 1
	}
	if q == p.cfg.LowQualChar {
		return p.cfg.LowQualFactor
	}
	return PhredProb(int(q) - p.cfg.QualOffset)
}

// PhredProb converts a Phred score into the probability the call is right,
// 1 - 10^(-q/10), clamped to [0, 1].
func PhredProb(q int) float64 {
	if q <= 0 {
		return 0
	}
	return 1 - math.Pow(10, -float64(q)/10)
}
