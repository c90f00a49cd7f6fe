package fasta

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteWraps(t *testing.T) {
	seq := strings.Repeat("ACGT", 40) // 160 bp
	var buf bytes.Buffer
	err := Write(&buf, Record{ID: "c1", Desc: "cov=3", Seq: []byte(seq)}, LineWidth)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Equal(t, ">c1 cov=3", lines[0])
	require.Len(t, lines, 4)
	require.Len(t, lines[1], 60)
	require.Len(t, lines[2], 60)
	require.Len(t, lines[3], 40)
	require.Equal(t, seq, strings.Join(lines[1:], ""))
}

func TestWriteEmptySequence(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Record{ID: "gone"}, LineWidth))
	require.Equal(t, ">gone\n", buf.String())
}
