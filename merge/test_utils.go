package merge

import (
	"math/rand"
	"sort"
)

// Naive reference used by the tests: explicit suffix sorting of one or two
// read collections. Symbols compare in code order (terminator smallest),
// terminators compare equal, and equal suffixes keep collection-then-read
// order, which is the order the merger is required to reproduce.

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
		a, b := sufs[i], sufs[j]
		sa, sb := seqs[a.read][a.pos:], seqs[b.read][b.pos:]
		for k := 0; k < len(sa) && k < len(sb); k++ {
			ra, rb := symRank(term, sa[k]), symRank(term, sb[k])
			if ra != rb {
				return ra < rb
			}
		}
		// Full match implies equal suffixes (the terminator only ends reads);
		// ties keep read order.
		return a.read < b.read
	})
	return seqs, sufs
}

// naiveBWT returns the eBWT of a read collection.
func naiveBWT(reads []string, term byte) []byte {
	seqs, sufs := sortedSuffixes(reads, term)
	b := make([]byte, len(sufs))
	for i, s := range sufs {
		if s.pos == 0 {
			b[i] = seqs[s.read][len(seqs[s.read])-1]
		} else {
			b[i] = seqs[s.read][s.pos-1]
		}
	}
	return b
}

// naiveMerge returns the eBWT, document array and LCP of the union of two
// collections, coll1's reads preceding coll2's.
func naiveMerge(coll1, coll2 []string, term byte) (b []byte, da []bool, l []uint64) {
	union := append(append([]string{}, coll1...), coll2...)
	seqs, sufs := sortedSuffixes(union, term)

	b = make([]byte, len(sufs))
	da = make([]bool, len(sufs))
	for i, s := range sufs {
		if s.pos == 0 {
			b[i] = seqs[s.read][len(seqs[s.read])-1]
		} else {
			b[i] = seqs[s.read][s.pos-1]
		}
		da[i] = s.read >= len(coll1)
	}

	l = make([]uint64, len(sufs))
	for i := 1; i < len(sufs); i++ {
		sa := seqs[sufs[i-1].read][sufs[i-1].pos:]
		sb := seqs[sufs[i].read][sufs[i].pos:]
		k := 0
		for k < len(sa) && k < len(sb) && symRank(term, sa[k]) == symRank(term, sb[k]) {
			k++
		}
		l[i] = uint64(k)
	}
	return b, da, l
}

func randomReads(r *rand.Rand, count, maxLen int, withN bool) []string {
	letters := "ACGT"
	if withN {
		letters = "ACGNT"
	}
	reads := make([]string, count)
	for i := range reads {
		n := 1 + r.Intn(maxLen)
		b := make([]byte, n)
		for j := range b {
			b[j] = letters[r.Intn(len(letters))]
		}
		reads[i] = string(b)
	}
	return reads
}
