// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"contigfix-core/engine"
	"contigfix-core/fasta"
	"contigfix-core/sam"
)

// Config controls a correction pass.
type Config struct {
	Threads     int  // worker goroutines (>=1)
	UniquePairs bool // drop pair members whose pair has no unique placement on their contig
	Engine      engine.Config
}

// Outcome is the result for one contig (or one shard in shard mode).
type Outcome struct {
	Shard  string // shard name; empty in global mode
	Result engine.Result
	Err    error // set when the shard could not be processed
}

// Summary counts stream-level events that are not charged to any contig.
type Summary struct {
	Contigs   int // contigs emitted
	Records   int // alignment lines read
	Unplaced  int // records with RName '*'
	Unrouted  int // records naming a contig absent from the FASTA
	Malformed int // unparsable lines with no recoverable RName
	Filtered  int // records dropped by the unique-pair filter
	Failed    int // shards that failed
}

// InputError marks failures to open or parse an input file. Callers map
// it to a usage-class exit status.
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Err) }
func (e *InputError) Unwrap() error { return e.Err }

// ErrDuplicateContig is returned when two FASTA records share an ID.
var ErrDuplicateContig = errors.New("duplicate contig id")

type item struct {
	idx       int
	rec       sam.Record
	malformed bool
}

// Run corrects every contig in contigsPath using the records in samPath.
// Outcomes are passed to emit in the order the contigs appear in the FASTA;
// contigs no record touched are emitted unchanged.
func Run(ctx context.Context, cfg Config, contigsPath, samPath string, log *zap.Logger, emit func(Outcome) error) (Summary, error) {
	var sum Summary
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	if log == nil {
		log = zap.NewNop()
	}

	refs, err := fasta.ReadAll(ctx, contigsPath)
	if err != nil {
		if ctx.Err() != nil {
			return sum, ctx.Err()
		}
		return sum, &InputError{Path: contigsPath, Err: err}
	}
	index := make(map[string]int, len(refs))
	for i, r := range refs {
		if _, dup := index[r.ID]; dup {
			return sum, &InputError{Path: contigsPath, Err: fmt.Errorf("%w %q", ErrDuplicateContig, r.ID)}
		}
		index[r.ID] = i
	}
	log.Debug("contigs loaded", zap.String("path", contigsPath), zap.Int("contigs", len(refs)))

	rc, err := fasta.Open(samPath)
	if err != nil {
		return sum, &InputError{Path: samPath, Err: err}
	}
	defer rc.Close()

	eng := engine.New(cfg.Engine)
	results := make([]*engine.Result, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	lanes := make([]chan item, cfg.Threads)
	for w := range lanes {
		lanes[w] = make(chan item, 256)
		in := lanes[w]
		g.Go(func() error {
			sessions := make(map[int]*engine.Session)
			for it := range in {
				s := sessions[it.idx]
				if s == nil {
					s = eng.Begin(refs[it.idx])
					sessions[it.idx] = s
				}
				if it.malformed {
					s.AddMalformed()
					continue
				}
				if err := s.Add(&it.rec); err != nil {
					log.Debug("skipping record", zap.String("contig", refs[it.idx].ID),
						zap.String("read", it.rec.QName), zap.Error(err))
				}
			}
			if err := gctx.Err(); err != nil {
				return err
			}
			for idx, s := range sessions {
				res := s.Finish()
				results[idx] = &res
			}
			return nil
		})
	}

	send := func(it item) error {
		select {
		case lanes[laneOf(refs[it.idx].ID, len(lanes))] <- it:
			return nil
		case <-gctx.Done():
			return gctx.Err()
		}
	}
	route := func(rec sam.Record) error {
		if rec.RName == "*" {
			sum.Unplaced++
			return nil
		}
		idx, ok := index[rec.RName]
		if !ok {
			sum.Unrouted++
			return nil
		}
		return send(item{idx: idx, rec: rec})
	}

	var pairs *pairFilter
	if cfg.UniquePairs {
		pairs = newPairFilter(func(rec sam.Record, keep bool) error {
			if !keep {
				sum.Filtered++
				return nil
			}
			return route(rec)
		})
	}

	feedErr := func() error {
		rd := sam.NewReader(rc)
		for rd.Next() {
			if err := gctx.Err(); err != nil {
				return err
			}
			sum.Records++
			rec, err := rd.Record()
			if err != nil {
				var pe *sam.ParseError
				if errors.As(err, &pe) {
					if idx, ok := index[pe.RName]; ok {
						log.Debug("malformed line", zap.String("contig", pe.RName), zap.Error(err))
						if err := send(item{idx: idx, malformed: true}); err != nil {
							return err
						}
						continue
					}
				}
				sum.Malformed++
				log.Debug("malformed line", zap.Error(err))
				continue
			}
			if pairs != nil {
				err = pairs.Add(rec)
			} else {
				err = route(rec)
			}
			if err != nil {
				return err
			}
		}
		if err := rd.Err(); err != nil {
			return &InputError{Path: samPath, Err: err}
		}
		if pairs != nil {
			return pairs.Flush()
		}
		return nil
	}()
	for _, ch := range lanes {
		close(ch)
	}
	werr := g.Wait()
	switch {
	case ctx.Err() != nil:
		return sum, ctx.Err()
	case feedErr != nil:
		return sum, feedErr
	case werr != nil:
		return sum, werr
	}

	for i, ref := range refs {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		res := engine.Unchanged(ref)
		if results[i] != nil {
			res = *results[i]
		}
		sum.Contigs++
		if err := emit(Outcome{Result: res}); err != nil {
			return sum, err
		}
	}
	return sum, nil
}

// laneOf picks the worker that owns contig id.
func laneOf(id string, n int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return int(h.Sum32() % uint32(n))
}
