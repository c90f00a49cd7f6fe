// Package consensus turns a contig's pileup into a corrected sequence.
package consensus

// voteOrder is the tally order for per-offset insertion votes. A base must
// strictly beat the running best, which starts as N.
var voteOrder = [...]byte{'A', 'C', 'T', 'G'}

// VoteInsertion picks a consensus insertion from candidate substrings.
//
// The most frequent length wins, ties going to the length seen first. Each
// offset of the winning length is then called independently among the
// candidates of that length; an offset with no A/C/G/T majority is N.
func VoteInsertion(cands []string) string {
	if len(cands) == 0 {
		return ""
	}
	counts := make(map[int]int, 2)
	maxN := 0
	for _, s := range cands {
		counts[len(s)]++
		maxN = max(maxN, counts[len(s)])
	}
	// Ties go to the length whose first candidate came earliest.
	bestLen := 0
	for _, s := range cands {
		if counts[len(s)] == maxN {
			bestLen = len(s)
			break
		}
	}

	tally := make([][5]int, bestLen) // A C T G N
	for _, s := range cands {
		if len(s) != bestLen {
			continue
		}
		for i := 0; i < bestLen; i++ {
			tally[i][voteIndex(s[i])]++
		}
	}

	out := make([]byte, bestLen)
	for i := range tally {
		best := byte('N')
		bestCount := tally[i][4]
		for j, b := range voteOrder {
			if tally[i][j] > bestCount {
				best, bestCount = b, tally[i][j]
			}
		}
		out[i] = best
	}
	return string(out)
}

func voteIndex(b byte) int {
	switch b {
	case 'A', 'a':
		return 0
	case 'C', 'c':
		return 1
	case 'T', 't':
		return 2
	case 'G', 'g':
		return 3
	}
	return 4
}
