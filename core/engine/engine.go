// core/engine/engine.go
package engine

import (
	"contigfix-core/consensus"
	"contigfix-core/fasta"
	"contigfix-core/pileup"
	"contigfix-core/policy"
	"contigfix-core/sam"
)

// Config holds correction parameters.
type Config struct {
	Policy        policy.Config
	Rule          consensus.Rule
	RecordChanges bool // keep per-edit Change entries on the Result
}

// DefaultConfig returns the stock admission policy and insertion rule.
func DefaultConfig() Config {
	return Config{Policy: policy.DefaultConfig(), Rule: consensus.DefaultRule()}
}

// Engine corrects contigs with a given config. It holds no per-contig state
// and is safe for concurrent use.
type Engine struct {
	cfg Config
	pol *policy.Policy
}

// New creates a new Engine.
func New(c Config) *Engine { return &Engine{cfg: c, pol: policy.New(c.Policy)} }

// Config returns the engine's configuration.
func (e *Engine) Config() Config { return e.cfg }

// Result is the corrected form of one contig.
type Result struct {
	ID      string
	Desc    string
	Seq     []byte
	OrigLen int
	Stats   consensus.Stats
	Reads   pileup.Counts
	Changes []consensus.Change
}

// Record returns the corrected sequence as a FASTA record under the
// original header.
func (r Result) Record() fasta.Record {
	return fasta.Record{ID: r.ID, Desc: r.Desc, Seq: r.Seq}
}

// Session accumulates evidence for one contig. Sessions are independent;
// a Session itself is not safe for concurrent use.
type Session struct {
	e      *Engine
	contig fasta.Record
	acc    *pileup.Accumulator
}

// Begin starts a session for contig.
func (e *Engine) Begin(contig fasta.Record) *Session {
	return &Session{e: e, contig: contig, acc: pileup.NewAccumulator(len(contig.Seq), e.pol)}
}

// Add feeds one record. Errors are malformed records; they are counted and
// leave the pileup untouched, so callers may log and continue.
func (s *Session) Add(rec *sam.Record) error {
	_, err := s.acc.Add(rec)
	return err
}

// AddMalformed counts a line that failed to parse but was addressed to
// this contig.
func (s *Session) AddMalformed() { s.acc.MarkMalformed() }

// Merge folds other's evidence into s. Both must be sessions of the same
// contig.
func (s *Session) Merge(other *Session) error { return s.acc.Merge(other.acc) }

// Counts returns the record tallies so far.
func (s *Session) Counts() pileup.Counts { return s.acc.Counts() }

// Finish runs the consensus sweep. The session must not be used afterwards.
func (s *Session) Finish() Result {
	called := consensus.Call(s.contig.Seq, s.acc.Profile(), s.acc.Insertions(), consensus.Options{
		Rule:          s.e.cfg.Rule,
		RecordChanges: s.e.cfg.RecordChanges,
	})
	res := Result{
		ID:      s.contig.ID,
		Desc:    s.contig.Desc,
		Seq:     called.Seq,
		OrigLen: len(s.contig.Seq),
		Stats:   called.Stats,
		Reads:   s.acc.Counts(),
		Changes: called.Changes,
	}
	s.acc = nil
	return res
}

// Unchanged returns the pass-through result for a contig no record touched.
func Unchanged(contig fasta.Record) Result {
	return Result{ID: contig.ID, Desc: contig.Desc, Seq: contig.Seq, OrigLen: len(contig.Seq)}
}

// Correct runs a whole correction pass over recs, which are assumed to be
// addressed to contig.
func (e *Engine) Correct(contig fasta.Record, recs []sam.Record) Result {
	s := e.Begin(contig)
	for i := range recs {
		_ = s.Add(&recs[i])
	}
	return s.Finish()
}
