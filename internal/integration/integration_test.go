// internal/integration/integration_test.go
package integration

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contigfix/internal/app"
)

type fixture struct {
	dir     string
	contigs string
	sam     string
	truth   map[string]string
}

func write(t *testing.T, fn, data string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(fn, []byte(data), 0o644))
	return fn
}

func randomSeq(r *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = "ACGT"[r.Intn(4)]
	}
	return string(b)
}

func flipAt(s string, i int) string {
	b := []byte(s)
	if b[i] == 'A' {
		b[i] = 'C'
	} else {
		b[i] = 'A'
	}
	return string(b)
}

// newFixture builds three contigs: c1 and c3 carry planted substitutions
// against their truth, c2 has no reads at all.
func newFixture(t *testing.T) fixture {
	t.Helper()
	r := rand.New(rand.NewSource(42))
	f := fixture{dir: t.TempDir(), truth: map[string]string{}}
	var fa, sam strings.Builder
	sam.WriteString("@HD\tVN:1.6\tSO:unsorted\n")
	n := 0
	for _, id := range []string{"c1", "c2", "c3"} {
		truth := randomSeq(r, 240)
		f.truth[id] = truth
		draft := truth
		if id != "c2" {
			draft = flipAt(flipAt(draft, 30), 170)
		}
		fmt.Fprintf(&fa, ">%s cov=12.5\n%s\n", id, draft)
		if id == "c2" {
			continue
		}
		for pos := 0; pos+50 <= len(truth); pos += 4 {
			n++
			fmt.Fprintf(&sam, "r%d\t65\t%s\t%d\t60\t50M\t=\t%d\t0\t%s\t*\tX0:i:1\n",
				n, id, pos+1, pos+1, truth[pos:pos+50])
		}
	}
	f.contigs = write(t, filepath.Join(f.dir, "contigs.fasta"), fa.String())
	f.sam = write(t, filepath.Join(f.dir, "reads.sam"), sam.String())
	return f
}

// parseFASTA reads multi-line FASTA back into id -> sequence.
func parseFASTA(t *testing.T, data string) (map[string]string, []string) {
	t.Helper()
	seqs := map[string]string{}
	var order []string
	var cur string
	for _, line := range strings.Split(strings.TrimSpace(data), "\n") {
		if strings.HasPrefix(line, ">") {
			cur = strings.Fields(line[1:])[0]
			order = append(order, line[1:])
			continue
		}
		assert.LessOrEqual(t, len(line), 60)
		seqs[cur] += line
	}
	return seqs, order
}

func TestEndToEnd(t *testing.T) {
	f := newFixture(t)
	out := filepath.Join(f.dir, "corrected.fasta")
	changes := filepath.Join(f.dir, "changes.tsv")
	report := filepath.Join(f.dir, "report.tsv")

	var stdout, stderr bytes.Buffer
	code := app.Run([]string{
		"-c", f.contigs, "-s", f.sam, "-o", out,
		"--changes", changes, "--report", report, "--quiet",
	}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Empty(t, stdout.String())

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	seqs, headers := parseFASTA(t, string(b))
	assert.Equal(t, []string{"c1 cov=12.5", "c2 cov=12.5", "c3 cov=12.5"}, headers)
	for id, truth := range f.truth {
		assert.Equal(t, truth, seqs[id], id)
	}

	ch, err := os.ReadFile(changes)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(ch)), "\n")
	assert.Len(t, lines, 5) // header + two edits on each of c1, c3
	assert.True(t, strings.HasPrefix(lines[1], "c1\t31\tsubstitution\t"))

	rep, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.Contains(t, string(rep), "\nc2\t-\t240\t240\t0\t")
	assert.Contains(t, string(rep), "# run_id=")
}

func TestParallelMatchesSerial(t *testing.T) {
	f := newFixture(t)
	run := func(threads int) string {
		var out, errB bytes.Buffer
		code := app.Run([]string{
			"-c", f.contigs, "-s", f.sam, "-t", fmt.Sprint(threads), "-q", "-m", "1.5", "--quiet",
		}, &out, &errB)
		require.Equal(t, 0, code, errB.String())
		return out.String()
	}
	serial := run(1)
	assert.NotEmpty(t, serial)
	assert.Equal(t, serial, run(4))
}

func TestGzipSam(t *testing.T) {
	f := newFixture(t)
	raw, err := os.ReadFile(f.sam)
	require.NoError(t, err)
	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	_, _ = zw.Write(raw)
	require.NoError(t, zw.Close())
	samGz := write(t, filepath.Join(f.dir, "reads.sam.gz"), gz.String())

	var out, errB bytes.Buffer
	code := app.Run([]string{"-c", f.contigs, "-s", samGz, "--quiet"}, &out, &errB)
	require.Equal(t, 0, code, errB.String())
	seqs, _ := parseFASTA(t, out.String())
	assert.Equal(t, f.truth["c1"], seqs["c1"])
}

func TestJSONReport(t *testing.T) {
	f := newFixture(t)
	report := filepath.Join(f.dir, "report.json")
	var out, errB bytes.Buffer
	code := app.Run([]string{
		"-c", f.contigs, "-s", f.sam, "--report", report, "--report-format", "json", "--quiet",
	}, &out, &errB)
	require.Equal(t, 0, code, errB.String())
	b, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.Contains(t, string(b), "\"contig\": \"c3\"")
	assert.Contains(t, string(b), "\"substitutions\": 2")
	assert.Contains(t, string(b), "\"summary\"")
}

func TestShardsPartialFailure(t *testing.T) {
	f := newFixture(t)
	dir := filepath.Join(f.dir, "split")
	require.NoError(t, os.Mkdir(dir, 0o755))

	samBody, err := os.ReadFile(f.sam)
	require.NoError(t, err)
	fa, err := os.ReadFile(f.contigs)
	require.NoError(t, err)
	recs := strings.SplitAfter(string(fa), "\n")
	write(t, filepath.Join(dir, "1.fasta"), recs[0]+recs[1])
	write(t, filepath.Join(dir, "1.pair.sam"), string(samBody))
	write(t, filepath.Join(dir, "3.fasta"), recs[4]+recs[5])
	// shard 3 has no alignments file

	var out, errB bytes.Buffer
	code := app.Run([]string{"-S", dir}, &out, &errB)
	assert.Equal(t, 1, code)
	assert.Contains(t, errB.String(), "shard failed")
	seqs, _ := parseFASTA(t, out.String())
	assert.Equal(t, f.truth["c1"], seqs["c1"])
	assert.NotContains(t, seqs, "c3")
}

func TestConfigFileAndFlagPrecedence(t *testing.T) {
	dir := t.TempDir()
	cfg := write(t, filepath.Join(dir, "contigfix.yaml"), "mate_weight: 2.5\nthreads: 8\ninsertion_bar: lenient\n")

	var out, errB bytes.Buffer
	code := app.Run([]string{"--config", cfg, "-t", "2", "--dump-config"}, &out, &errB)
	require.Equal(t, 0, code, errB.String())
	dump := out.String()
	assert.Contains(t, dump, "mate_weight: 2.5")
	assert.Contains(t, dump, "threads: 2")
	assert.Contains(t, dump, "insertion_bar: lenient")
}

func TestUsageAndInputErrors(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		name string
		argv []string
		code int
	}{
		{"no args prints usage", nil, 0},
		{"help", []string{"-h"}, 0},
		{"version", []string{"--version"}, 0},
		{"unknown flag", []string{"--nope"}, 2},
		{"missing sam", []string{"-c", f.contigs}, 2},
		{"missing contigs file", []string{"-c", filepath.Join(f.dir, "absent.fa"), "-s", f.sam}, 2},
		{"report and changes share stdout", []string{"-c", f.contigs, "-s", f.sam, "-o", filepath.Join(f.dir, "o.fa"), "--report", "-", "--changes", "-"}, 2},
		{"bad config", []string{"--config", filepath.Join(f.dir, "absent.yaml"), "-c", f.contigs, "-s", f.sam}, 2},
		{"unwritable output", []string{"-c", f.contigs, "-s", f.sam, "-o", filepath.Join(f.dir, "no", "out.fa")}, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out, errB bytes.Buffer
			code := app.Run(tc.argv, &out, &errB)
			assert.Equal(t, tc.code, code, errB.String())
		})
	}
}

func TestVersionOutput(t *testing.T) {
	var out, errB bytes.Buffer
	require.Equal(t, 0, app.Run([]string{"--version"}, &out, &errB))
	assert.True(t, strings.HasPrefix(out.String(), "contigfix version "))
}
