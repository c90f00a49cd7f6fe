// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"contigfix/internal/appcore"
	"contigfix/internal/cli"
	"contigfix/internal/config"
	"contigfix/internal/logging"
	"contigfix/internal/version"
	"contigfix/internal/writers"
)

// RunContext parses argv, resolves the config and runs one correction pass.
// It returns the process exit status.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	flush := func(code int) int {
		if e := outw.Flush(); writers.IsBrokenPipe(e) {
			return appcore.ExitOK
		} else if e != nil {
			_, _ = fmt.Fprintln(stderr, e)
			return appcore.ExitRuntime
		}
		return code
	}

	fs := cli.NewFlagSet("contigfix")
	fs.SetOutput(io.Discard)

	if len(argv) == 0 {
		_, _ = cli.ParseArgs(fs, []string{"-h"})
		fs.SetOutput(outw)
		fs.Usage()
		return flush(appcore.ExitOK)
	}

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		fs.SetOutput(outw)
		if errors.Is(err, pflag.ErrHelp) {
			fs.Usage()
			return flush(appcore.ExitOK)
		}
		_, _ = fmt.Fprintln(stderr, "error:", err)
		fs.Usage()
		return flush(appcore.ExitUsage)
	}

	if opts.Version {
		_, _ = fmt.Fprintf(outw, "contigfix version %s\n", version.Version)
		return flush(appcore.ExitOK)
	}

	cfg := config.DefaultConfig()
	if opts.Config != "" {
		if cfg, err = config.Load(opts.Config); err != nil {
			_, _ = fmt.Fprintln(stderr, "error:", err)
			return appcore.ExitUsage
		}
	}
	opts.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		_, _ = fmt.Fprintln(stderr, "error:", err)
		return appcore.ExitUsage
	}

	if opts.DumpConfig {
		if err := cfg.Dump(outw); err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return appcore.ExitRuntime
		}
		return flush(appcore.ExitOK)
	}

	lvl, err := logging.Level(cfg.LogLevel, opts.Quiet, opts.Verbose)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "error:", err)
		return appcore.ExitUsage
	}
	log := logging.New(lvl, stderr)
	defer func() { _ = log.Sync() }()

	return appcore.Run(parent, stdout, stderr, appcore.Options{
		Contigs:      opts.Contigs,
		SamFile:      opts.SamFile,
		ShardDir:     opts.ShardDir,
		Out:          opts.Out,
		Report:       opts.Report,
		ReportFormat: opts.ReportFormat,
		Changes:      opts.Changes,
		Config:       cfg,
	}, log)
}

// Run is RunContext without cancellation.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
