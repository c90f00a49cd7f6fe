// internal/cli/options_test.go
package cli

import (
	"errors"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contigfix/internal/config"
)

func newFS() *pflag.FlagSet {
	fs := NewFlagSet("test")
	fs.Usage = func() {}
	return fs
}

func mustParse(t *testing.T, args ...string) Options {
	t.Helper()
	opts, err := ParseArgs(newFS(), args)
	require.NoError(t, err)
	return opts
}

func TestGlobalModeOK(t *testing.T) {
	o := mustParse(t, "-c", "contigs.fa", "-s", "reads.sam", "-t", "3", "-q")
	assert.Equal(t, "contigs.fa", o.Contigs)
	assert.Equal(t, "reads.sam", o.SamFile)
	assert.Equal(t, 3, o.Threads)
	assert.True(t, o.UseQuality)
	assert.Equal(t, "-", o.Out)
	assert.Equal(t, ReportText, o.ReportFormat)
}

func TestShardModeOK(t *testing.T) {
	o := mustParse(t, "--shards", "split/", "--report", "r.json", "--report-format", "json")
	assert.Equal(t, "split/", o.ShardDir)
	assert.Equal(t, ReportJSON, o.ReportFormat)
}

func TestParseErrors(t *testing.T) {
	cases := map[string][]string{
		"no input":             {},
		"sam without contigs":  {"-s", "r.sam"},
		"contigs without sam":  {"-c", "c.fa"},
		"shards and global":    {"-S", "d", "-c", "c.fa", "-s", "r.sam"},
		"both stdin":           {"-c", "-", "-s", "-"},
		"negative threads":     {"-c", "c.fa", "-s", "r.sam", "-t", "-1"},
		"negative mate weight": {"-c", "c.fa", "-s", "r.sam", "-m", "-2"},
		"bad report format":    {"-c", "c.fa", "-s", "r.sam", "--report-format", "xml"},
		"quiet and verbose":    {"-c", "c.fa", "-s", "r.sam", "--quiet", "--verbose"},
		"unique pairs shards":  {"-S", "d", "--unique-pairs"},
		"report on stdout too": {"-c", "c.fa", "-s", "r.sam", "--report", "-"},
		"report and changes":   {"-c", "c.fa", "-s", "r.sam", "-o", "out.fa", "--report", "-", "--changes", "-"},
		"empty out and report": {"-c", "c.fa", "-s", "r.sam", "-o", "", "--report", "-"},
		"empty out, changes":   {"-c", "c.fa", "-s", "r.sam", "-o", "", "--changes", "-"},
		"positional":           {"-c", "c.fa", "-s", "r.sam", "extra"},
		"unknown flag":         {"-c", "c.fa", "-s", "r.sam", "--bogus"},
		"non-numeric threads":  {"-c", "c.fa", "-s", "r.sam", "-t", "many"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseArgs(newFS(), args)
			assert.Error(t, err)
		})
	}
}

func TestOneOutputOnStdout(t *testing.T) {
	o := mustParse(t, "-c", "c.fa", "-s", "r.sam", "-o", "out.fa", "--report", "-", "--changes", "ch.tsv")
	assert.Equal(t, "-", o.Report)
	assert.Equal(t, 1, o.stdoutSinks())

	o = mustParse(t, "-c", "c.fa", "-s", "r.sam", "-o", "")
	assert.Equal(t, "-", o.Out, "empty --out means stdout")
	assert.Equal(t, 1, o.stdoutSinks())
}

func TestHelpReturnsErrHelp(t *testing.T) {
	_, err := ParseArgs(newFS(), []string{"-h"})
	assert.True(t, errors.Is(err, pflag.ErrHelp))
}

func TestVersionSkipsValidation(t *testing.T) {
	o := mustParse(t, "--version")
	assert.True(t, o.Version)
}

func TestApplyOnlyChangedFlags(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.MateWeight = 4 // as if loaded from YAML
	cfg.Threads = 8

	o := mustParse(t, "-c", "c.fa", "-s", "r.sam", "-t", "2", "--insertion-bar", "lenient")
	o.Apply(cfg)

	assert.Equal(t, 4.0, cfg.MateWeight, "unset flag must not reset a file value")
	assert.Equal(t, 2, cfg.Threads)
	assert.Equal(t, "lenient", cfg.InsertionBar)
	assert.True(t, o.Changed("threads"))
	assert.False(t, o.Changed("mate-weight"))
}
