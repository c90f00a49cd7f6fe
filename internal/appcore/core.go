// internal/appcore/core.go
package appcore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"contigfix-core/engine"
	"contigfix/internal/config"
	"contigfix/internal/output"
	"contigfix/internal/pipeline"
	"contigfix/internal/runutil"
	"contigfix/internal/writers"
	"contigfix/pkg/api"
)

// Exit statuses.
const (
	ExitOK       = 0
	ExitPartial  = 1 // some shards failed
	ExitUsage    = 2
	ExitRuntime  = 3
	ExitCanceled = 130
)

// Options are the resolved inputs of one run.
type Options struct {
	Contigs  string
	SamFile  string
	ShardDir string

	Out          string
	Report       string
	ReportFormat string
	Changes      string

	Config *config.Config
}

type sinks struct {
	fasta      *runutil.Output
	fastaIn    chan<- engine.Result
	fastaDone  <-chan error
	report     *runutil.Output
	reportW    *writers.ReportWriter
	changes    *runutil.Output
	changesIn  chan<- engine.Result
	changeDone <-chan error
}

// Run executes one correction pass and returns the process exit status.
func Run(parent context.Context, stdout, stderr io.Writer, o Options, log *zap.Logger) int {
	if log == nil {
		log = zap.NewNop()
	}
	cfg := o.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	engCfg, err := cfg.Engine(o.Changes != "")
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return ExitUsage
	}
	thr := runutil.EffectiveThreads(cfg.Threads)
	runID := uuid.NewString()

	sk, err := openSinks(o, stdout, runID, thr)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return ExitRuntime
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	emit := func(oc pipeline.Outcome) error {
		res := oc.Result
		if oc.Err == nil {
			log.Info("contig corrected",
				zap.String("contig", res.ID),
				zap.Int("len", res.OrigLen),
				zap.Int("reads", res.Reads.Admitted()),
				zap.Int("subs", res.Stats.Substitutions),
				zap.Int("ins", res.Stats.InsertedBases),
				zap.Int("dels", res.Stats.Deletions),
			)
			if err := send(ctx, sk.fastaIn, res); err != nil {
				return err
			}
			if sk.changesIn != nil {
				if err := send(ctx, sk.changesIn, res); err != nil {
					return err
				}
			}
		}
		if sk.reportW != nil {
			return send(ctx, sk.reportW.Rows(), output.ToAPIContig(runID, oc.Shard, res, oc.Err))
		}
		return nil
	}

	pcfg := pipeline.Config{Threads: thr, UniquePairs: cfg.UniquePairs, Engine: engCfg}
	var sum pipeline.Summary
	var perr error
	if o.ShardDir != "" {
		sum, perr = pipeline.RunShards(ctx, pcfg, o.ShardDir, log, emit)
	} else {
		sum, perr = pipeline.Run(ctx, pcfg, o.Contigs, o.SamFile, log, emit)
	}

	var apiSum *api.RunSummaryV1
	if perr == nil {
		apiSum = toAPISummary(runID, sum)
	}
	if werr := sk.close(apiSum); writers.IsBrokenPipe(werr) {
		return ExitOK
	} else if werr != nil {
		fmt.Fprintln(stderr, "error:", werr)
		return ExitRuntime
	}

	if perr != nil {
		var ie *pipeline.InputError
		switch {
		case errors.Is(perr, context.Canceled):
			return ExitCanceled
		case errors.As(perr, &ie):
			fmt.Fprintln(stderr, "error:", perr)
			return ExitUsage
		}
		fmt.Fprintln(stderr, "error:", perr)
		return ExitRuntime
	}

	log.Info("run complete",
		zap.String("run_id", runID),
		zap.Int("contigs", sum.Contigs),
		zap.Int("records", sum.Records),
		zap.Int("unplaced", sum.Unplaced),
		zap.Int("unrouted", sum.Unrouted),
		zap.Int("malformed", sum.Malformed),
		zap.Int("filtered", sum.Filtered),
	)
	if sum.Failed > 0 {
		log.Warn("some shards failed", zap.Int("failed", sum.Failed))
		if sum.Contigs == 0 {
			return ExitRuntime
		}
		return ExitPartial
	}
	return ExitOK
}

func send[T any](ctx context.Context, ch chan<- T, v T) error {
	select {
	case ch <- v:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func openSinks(o Options, stdout io.Writer, runID string, thr int) (*sinks, error) {
	sk := &sinks{}
	var err error
	if sk.fasta, err = runutil.OpenOutput(o.Out, stdout); err != nil {
		return nil, err
	}
	sk.fastaIn, sk.fastaDone = writers.StartFASTAWriter(sk.fasta, thr*4)

	if o.Report != "" {
		if sk.report, err = runutil.OpenOutput(o.Report, stdout); err != nil {
			sk.close(nil)
			return nil, err
		}
		sk.reportW = writers.StartReportWriter(sk.report, o.ReportFormat, runID, thr*4)
	}
	if o.Changes != "" {
		if sk.changes, err = runutil.OpenOutput(o.Changes, stdout); err != nil {
			sk.close(nil)
			return nil, err
		}
		sk.changesIn, sk.changeDone = writers.StartChangesWriter(sk.changes, thr*4)
	}
	return sk, nil
}

// close shuts every writer down and returns the first error.
func (sk *sinks) close(sum *api.RunSummaryV1) error {
	var first error
	keep := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}
	if sk.fastaIn != nil {
		close(sk.fastaIn)
		keep(<-sk.fastaDone)
		keep(sk.fasta.Close())
	}
	if sk.reportW != nil {
		keep(sk.reportW.Close(sum))
		keep(sk.report.Close())
	}
	if sk.changesIn != nil {
		close(sk.changesIn)
		keep(<-sk.changeDone)
		keep(sk.changes.Close())
	}
	return first
}

func toAPISummary(runID string, s pipeline.Summary) *api.RunSummaryV1 {
	return &api.RunSummaryV1{
		RunID:     runID,
		Contigs:   s.Contigs,
		Records:   s.Records,
		Unplaced:  s.Unplaced,
		Unrouted:  s.Unrouted,
		Malformed: s.Malformed,
		Filtered:  s.Filtered,
		Failed:    s.Failed,
	}
}
