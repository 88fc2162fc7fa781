package lcp

import (
	"math/rand"
	"sort"
)

// Naive reference used by the tests: builds the eBWT and LCP of a read
// collection by explicit suffix sorting. Symbols compare in code order (the
// terminator smallest, whatever its byte value), terminators compare equal to
// each other, and equal suffixes keep read order.

func symRank(term, c byte) int {
	if c == term {
		return 0
	}
	switch c {
	case 'A':
		return 1
	case 'C':
		return 2
	case 'G':
		return 3
	case 'N':
		return 4
	case 'T':
		return 5
	}
	panic("byte outside alphabet")
}

type suffixRef struct {
	read int
	pos  int
}

func cmpSuffixes(seqs [][]byte, term byte, a, b suffixRef) int {
	sa, sb := seqs[a.read][a.pos:], seqs[b.read][b.pos:]
	for k := 0; k < len(sa) && k < len(sb); k++ {
		ra, rb := symRank(term, sa[k]), symRank(term, sb[k])
		if ra < rb {
			return -1
		}
		if ra > rb {
			return 1
		}
	}
	// The terminator occurs only at the end of a read, so a full match
	// implies equal length: the suffixes are equal.
	return 0
}

func lcpLen(seqs [][]byte, term byte, a, b suffixRef) uint64 {
	sa, sb := seqs[a.read][a.pos:], seqs[b.read][b.pos:]
	k := 0
	for k < len(sa) && k < len(sb) && symRank(term, sa[k]) == symRank(term, sb[k]) {
		k++
	}
	return uint64(k)
}

func sortedSuffixes(reads []string, term byte) ([][]byte, []suffixRef) {
	seqs := make([][]byte, len(reads))
	for i, r := range reads {
		seqs[i] = append([]byte(r), term)
	}

	var sufs []suffixRef
	for i, s := range seqs {
		for j := range s {
			sufs = append(sufs, suffixRef{read: i, pos: j})
		}
	}
	sort.Slice(sufs, func(i, j int) bool {
		c := cmpSuffixes(seqs, term, sufs[i], sufs[j])
		if c != 0 {
			return c < 0
		}
		return sufs[i].read < sufs[j].read
	})
	return seqs, sufs
}

// naiveCollection returns the eBWT of reads and the LCP of its suffixes.
func naiveCollection(reads []string, term byte) ([]byte, []uint64) {
	seqs, sufs := sortedSuffixes(reads, term)

	b := make([]byte, len(sufs))
	for i, s := range sufs {
		if s.pos == 0 {
			b[i] = seqs[s.read][len(seqs[s.read])-1]
		} else {
			b[i] = seqs[s.read][s.pos-1]
		}
	}

	l := make([]uint64, len(sufs))
	for i := 1; i < len(sufs); i++ {
		l[i] = lcpLen(seqs, term, sufs[i-1], sufs[i])
	}
	return b, l
}

func randomReads(r *rand.Rand, count, maxLen int, withN bool) []string {
	letters := "ACGT"
	if withN {
		letters = "ACGNT"
	}
	reads := make([]string, count)
	for i := range reads {
		l := 1 + r.Intn(maxLen)
		b := make([]byte, l)
		for j := range b {
			b[j] = letters[r.Intn(len(letters))]
		}
		reads[i] = string(b)
	}
	return reads
}
