package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contigfix-core/consensus"
	"contigfix-core/engine"
	"contigfix-core/pileup"
	"contigfix-core/policy"
	"contigfix/pkg/api"
)

func sampleResult() engine.Result {
	var reads pileup.Counts
	reads.Processed = 7
	reads.Rejected[policy.Accepted] = 5
	reads.Rejected[policy.MateElsewhere] = 2
	reads.Truncated = 1
	return engine.Result{
		ID: "c1", Desc: "d", Seq: []byte("ACGTT"), OrigLen: 4,
		Stats: consensus.Stats{Substitutions: 1, InsertionEvents: 1, InsertedBases: 1},
		Reads: reads,
	}
}

func TestToAPIContig(t *testing.T) {
	v := ToAPIContig("run", "7", sampleResult(), nil)
	assert.Equal(t, "c1", v.Contig)
	assert.Equal(t, 4, v.Length)
	assert.Equal(t, 5, v.CorrectedLength)
	assert.Equal(t, api.ReadCountsV1{Processed: 7, Admitted: 5, MateElsewhere: 2, Truncated: 1}, v.Reads)
	assert.Empty(t, v.Error)

	failed := ToAPIContig("run", "8", engine.Result{ID: "8"}, errors.New("no FASTA"))
	assert.Equal(t, "no FASTA", failed.Error)
}

func TestReportRowMatchesHeader(t *testing.T) {
	row := FormatReportRowTSV(ToAPIContig("run", "", sampleResult(), nil))
	assert.Equal(t, strings.Count(ReportHeader, "\t"), strings.Count(row, "\t"))
	assert.True(t, strings.HasPrefix(row, "c1\t-\t4\t5\t1\t0\t1\t1\t7\t5\t0\t2\t"))
	assert.True(t, strings.HasSuffix(row, "\t-"))

	bad := FormatReportRowTSV(api.ContigReportV1{Contig: "x", Error: "line 1\tbroken\nhere"})
	assert.Equal(t, strings.Count(ReportHeader, "\t"), strings.Count(bad, "\t"))
}

func TestStreamReportTSV(t *testing.T) {
	in := make(chan api.ContigReportV1, 2)
	in <- ToAPIContig("run", "", sampleResult(), nil)
	close(in)
	var buf bytes.Buffer
	require.NoError(t, StreamReportTSV(&buf, in, true))
	require.NoError(t, WriteSummaryTSV(&buf, api.RunSummaryV1{RunID: "run", Contigs: 1}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, ReportHeader, lines[0])
	assert.True(t, strings.HasPrefix(lines[2], "# run_id=run contigs=1"))
}

func TestFormatChangeRows(t *testing.T) {
	got := FormatChangeRows("c1", []consensus.Change{
		{Pos: 0, Kind: consensus.Substitution, From: "A", To: "C"},
		{Pos: 4, Kind: consensus.Deletion, From: "G"},
		{Pos: 9, Kind: consensus.Insertion, To: "TT"},
	})
	want := "c1\t1\tsubstitution\tA\tC\n" +
		"c1\t5\tdeletion\tG\t-\n" +
		"c1\t10\tinsertion\t-\tTT\n"
	assert.Equal(t, want, got)
}

func TestWriteReportJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReportJSON(&buf, api.ReportV1{RunID: "run"}))
	var back api.ReportV1
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, "run", back.RunID)
	assert.NotNil(t, back.Contigs)
	assert.Contains(t, buf.String(), "\"contigs\": []")
}
