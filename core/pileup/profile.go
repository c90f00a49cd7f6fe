// Package pileup accumulates per-position evidence for one contig.
package pileup

// Symbol indexes a position's weight vector.
type Symbol uint8

const (
	A Symbol = iota
	C
	G
	T
	N
	Ins
	Del
	NumSymbols
)

var symbolBytes = [NumSymbols]byte{'A', 'C', 'G', 'T', 'N', 'I', 'D'}

// Byte returns the symbol's letter; Ins and Del map to 'I' and 'D'.
func (s Symbol) Byte() byte { return symbolBytes[s] }

func (s Symbol) String() string { return string(symbolBytes[s]) }

// IsBase reports whether s is one of A, C, G, T, N.
func (s Symbol) IsBase() bool { return s <= N }

// SymbolOf folds a sequence byte to a base symbol; anything outside ACGT
// (either case) becomes N.
func SymbolOf(b byte) Symbol {
	switch b {
	case 'A', 'a':
		return A
	case 'C', 'c':
		return C
	case 'G', 'g':
		return G
	case 'T', 't':
		return T
	}
	return N
}

// Weights is the accumulated evidence at one position.
type Weights [NumSymbols]float64

// Profile holds Weights for every contig position.
type Profile []Weights

// NewProfile returns an all-zero profile of length n.
func NewProfile(n int) Profile { return make(Profile, n) }

// Insertions maps a reference position to the inserted substrings observed
// immediately after it, in arrival order.
type Insertions map[int][]string

// Add records one inserted substring after position pos.
func (in Insertions) Add(pos int, s string) { in[pos] = append(in[pos], s) }
