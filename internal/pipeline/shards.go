package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"contigfix-core/engine"
)

// Shard is one pre-split unit of work: a contig FASTA and the pair-filtered
// SAM records aligned to it.
type Shard struct {
	Name    string
	Contigs string // empty if the FASTA half is missing
	SamFile string // empty if the SAM half is missing
}

const samSuffix = ".pair.sam"

var fastaSuffixes = []string{".fasta", ".fa", ".fna"}

// DiscoverShards pairs <name>.fasta|.fa|.fna (optionally .gz) with
// <name>.pair.sam (optionally .gz) in dir. Shards are ordered by name,
// numerically when both names are integers.
func DiscoverShards(dir string) ([]Shard, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, &InputError{Path: dir, Err: err}
	}
	byName := map[string]*Shard{}
	get := func(name string) *Shard {
		s := byName[name]
		if s == nil {
			s = &Shard{Name: name}
			byName[name] = s
		}
		return s
	}
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		base := strings.TrimSuffix(e.Name(), ".gz")
		path := filepath.Join(dir, e.Name())
		if name, ok := strings.CutSuffix(base, samSuffix); ok {
			get(name).SamFile = path
			continue
		}
		for _, suf := range fastaSuffixes {
			if name, ok := strings.CutSuffix(base, suf); ok {
				get(name).Contigs = path
				break
			}
		}
	}
	if len(byName) == 0 {
		return nil, &InputError{Path: dir, Err: errors.New("no shards found")}
	}
	out := make([]Shard, 0, len(byName))
	for _, s := range byName {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return shardLess(out[i].Name, out[j].Name) })
	return out, nil
}

func shardLess(a, b string) bool {
	x, errA := strconv.Atoi(a)
	y, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return x < y
	}
	return a < b
}

// RunShards corrects every shard in dir. Shards run concurrently up to
// cfg.Threads; a shard that fails yields an Outcome with Err set and the
// others carry on. Outcomes are emitted in shard order.
func RunShards(ctx context.Context, cfg Config, dir string, log *zap.Logger, emit func(Outcome) error) (Summary, error) {
	var sum Summary
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	shards, err := DiscoverShards(dir)
	if err != nil {
		return sum, err
	}

	type slot struct {
		outs []Outcome
		sum  Summary
	}
	slots := make([]slot, len(shards))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Threads)
	for i, sh := range shards {
		i, sh := i, sh
		g.Go(func() error {
			one := cfg
			one.Threads = 1
			outs, s, err := runShard(gctx, one, sh, log)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.Warn("shard failed", zap.String("shard", sh.Name), zap.Error(err))
				outs = []Outcome{{Shard: sh.Name, Result: engine.Result{ID: sh.Name}, Err: err}}
				s.Failed++
			}
			slots[i] = slot{outs: outs, sum: s}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return sum, err
	}

	for _, sl := range slots {
		sum.add(sl.sum)
		for _, o := range sl.outs {
			if err := ctx.Err(); err != nil {
				return sum, err
			}
			if err := emit(o); err != nil {
				return sum, err
			}
		}
	}
	return sum, nil
}

func runShard(ctx context.Context, cfg Config, sh Shard, log *zap.Logger) ([]Outcome, Summary, error) {
	switch {
	case sh.Contigs == "":
		return nil, Summary{}, fmt.Errorf("shard %s: no FASTA next to %s", sh.Name, filepath.Base(sh.SamFile))
	case sh.SamFile == "":
		return nil, Summary{}, fmt.Errorf("shard %s: no %s%s next to %s", sh.Name, sh.Name, samSuffix, filepath.Base(sh.Contigs))
	}
	var outs []Outcome
	s, err := Run(ctx, cfg, sh.Contigs, sh.SamFile, log.With(zap.String("shard", sh.Name)), func(o Outcome) error {
		o.Shard = sh.Name
		outs = append(outs, o)
		return nil
	})
	return outs, s, err
}

func (s *Summary) add(o Summary) {
	s.Contigs += o.Contigs
	s.Records += o.Records
	s.Unplaced += o.Unplaced
	s.Unrouted += o.Unrouted
	s.Malformed += o.Malformed
	s.Filtered += o.Filtered
	s.Failed += o.Failed
}
