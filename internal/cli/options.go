// internal/cli/options.go
package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"contigfix/internal/config"
	"contigfix/internal/version"
)

// Report formats accepted by --report-format.
const (
	ReportText  = "text"
	ReportJSON  = "json"
	ReportJSONL = "jsonl"
)

// Options holds all CLI flags.
type Options struct {
	// Inputs
	Contigs  string
	SamFile  string
	ShardDir string
	Config   string

	// Correction parameters; only applied over the config when set
	MateWeight   float64
	UseQuality   bool
	InsertMargin int
	InsertionBar string
	Threads      int
	UniquePairs  bool

	// Output
	Out          string
	Report       string
	ReportFormat string
	Changes      string
	DumpConfig   bool

	// Misc
	Quiet   bool
	Verbose bool
	Version bool

	changed map[string]bool
}

// NewFlagSet returns a FlagSet with ContinueOnError and the tool's usage text.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: consensus correction of assembled contigs from read alignments

Version: %s

Usage:
  %s -c contigs.fa -s reads.sam [options]
  %s -S shard_dir [options]

Options:
`, name, version.Version, name, name)
		fs.PrintDefaults()
	}
	return fs
}

// ParseArgs registers and parses all flags, returns an Options struct.
// pflag.ErrHelp is returned for -h/--help.
func ParseArgs(fs *pflag.FlagSet, argv []string) (Options, error) {
	var opt Options
	def := config.DefaultConfig()

	// Inputs
	fs.StringVarP(&opt.Contigs, "contigs", "c", "", "contigs FASTA (plain or gzip, '-' for stdin)")
	fs.StringVarP(&opt.SamFile, "sam", "s", "", "read alignments, SAM text (plain or gzip, '-' for stdin)")
	fs.StringVarP(&opt.ShardDir, "shards", "S", "", "directory of per-contig <name>.fasta + <name>.pair.sam shards")
	fs.StringVar(&opt.Config, "config", "", "YAML config file; flags given explicitly override it")

	// Correction
	fs.Float64VarP(&opt.MateWeight, "mate-weight", "m", def.MateWeight, "weight of reads whose mate aligns to the same contig")
	fs.BoolVarP(&opt.UseQuality, "use-quality", "q", def.UseQuality, "scale evidence by mapping and base quality")
	fs.IntVar(&opt.InsertMargin, "insert-margin", def.InsertMargin, "contig-end margin within which mates elsewhere are still admitted")
	fs.StringVar(&opt.InsertionBar, "insertion-bar", def.InsertionBar, "insertion call threshold: strict | lenient")
	fs.IntVarP(&opt.Threads, "threads", "t", def.Threads, "worker goroutines (0 = all CPUs)")
	fs.BoolVar(&opt.UniquePairs, "unique-pairs", def.UniquePairs, "route read pairs only to contigs where a mate places uniquely")

	// Output
	fs.StringVarP(&opt.Out, "out", "o", "-", "corrected FASTA destination ('-' for stdout)")
	fs.StringVar(&opt.Report, "report", "", "write a per-contig correction report to this file")
	fs.StringVar(&opt.ReportFormat, "report-format", ReportText, "report format: text | json | jsonl")
	fs.StringVar(&opt.Changes, "changes", "", "write every applied edit as TSV to this file")
	fs.BoolVar(&opt.DumpConfig, "dump-config", false, "print the effective config as YAML and exit")

	fs.BoolVar(&opt.Quiet, "quiet", false, "only log warnings and errors")
	fs.BoolVar(&opt.Verbose, "verbose", false, "log debug detail, including skipped lines")
	fs.BoolVarP(&opt.Version, "version", "v", false, "print version and exit")

	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	opt.changed = map[string]bool{}
	fs.Visit(func(f *pflag.Flag) { opt.changed[f.Name] = true })
	if opt.Out == "" {
		opt.Out = "-"
	}

	if opt.Version || opt.DumpConfig {
		return opt, nil
	}

	// Validation
	if fs.NArg() > 0 {
		return opt, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	global := opt.Contigs != "" || opt.SamFile != ""
	switch {
	case global && opt.ShardDir != "":
		return opt, errors.New("--shards conflicts with --contigs/--sam")
	case !global && opt.ShardDir == "":
		return opt, errors.New("provide --contigs and --sam, or --shards")
	case global && (opt.Contigs == "" || opt.SamFile == ""):
		return opt, errors.New("--contigs and --sam must be supplied together")
	case opt.Contigs == "-" && opt.SamFile == "-":
		return opt, errors.New("only one of --contigs/--sam may read stdin")
	}
	if opt.ShardDir != "" && opt.UniquePairs {
		return opt, errors.New("--unique-pairs applies to --sam input only")
	}
	if n := opt.stdoutSinks(); n > 1 {
		return opt, fmt.Errorf("%d outputs directed to stdout; only one of --out/--report/--changes may be '-'", n)
	}
	if opt.Quiet && opt.Verbose {
		return opt, errors.New("--quiet conflicts with --verbose")
	}
	if opt.Threads < 0 {
		return opt, errors.New("--threads must be ≥ 0")
	}
	if opt.MateWeight < 0 {
		return opt, errors.New("--mate-weight must be ≥ 0")
	}
	if opt.InsertMargin < 0 {
		return opt, errors.New("--insert-margin must be ≥ 0")
	}
	switch opt.ReportFormat {
	case ReportText, ReportJSON, ReportJSONL:
	default:
		return opt, fmt.Errorf("invalid --report-format %q", opt.ReportFormat)
	}
	return opt, nil
}

// stdoutSinks counts the outputs that resolve to stdout. An empty --out is
// stdout; an empty --report or --changes is disabled.
func (o Options) stdoutSinks() int {
	n := 0
	for _, p := range []string{o.Out, o.Report, o.Changes} {
		if p == "-" {
			n++
		}
	}
	return n
}

// Changed reports whether the named long flag was given on the command line.
func (o Options) Changed(name string) bool { return o.changed[name] }

// Apply overlays explicitly given flags onto cfg. Defaults never override
// values loaded from a config file.
func (o Options) Apply(cfg *config.Config) {
	if o.Changed("mate-weight") {
		cfg.MateWeight = o.MateWeight
	}
	if o.Changed("use-quality") {
		cfg.UseQuality = o.UseQuality
	}
	if o.Changed("insert-margin") {
		cfg.InsertMargin = o.InsertMargin
	}
	if o.Changed("insertion-bar") {
		cfg.InsertionBar = o.InsertionBar
	}
	if o.Changed("threads") {
		cfg.Threads = o.Threads
	}
	if o.Changed("unique-pairs") {
		cfg.UniquePairs = o.UniquePairs
	}
}
