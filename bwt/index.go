package bwt

import (
	"fmt"
	"os"

	"github.com/hillbig/rsdic"
	"golang.org/x/exp/slices"

	"ebwt/errutil"
	"ebwt/utils"
)

// Index is a read-only self-index over the BWT of a read collection. It keeps
// the raw symbols for access plus one rank/select bit vector per symbol, which
// answer rank(c, i) and therefore LF in constant time.
type Index struct {
	term byte
	hasN bool
	n    uint64
	syms []byte
	code [256]int8
	occ  [numSym]*rsdic.RSDic
	c    [numSym + 1]uint64
}

// New loads and indexes the BWT file at path.
func New(path string, term byte) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading BWT %s: %w", path, err)
	}
	b, err := NewFromBytes(data, term)
	if err != nil {
		return nil, fmt.Errorf("indexing BWT %s: %w", path, err)
	}
	return b, nil
}

// NewFromBytes indexes an in-memory BWT. The slice is retained.
func NewFromBytes(data []byte, term byte) (*Index, error) {
	if err := CheckTerm(term); err != nil {
		return nil, err
	}

	b := &Index{
		term: term,
		n:    uint64(len(data)),
		syms: data,
		code: codeTable(term),
	}

	var counts [numSym]uint64
	for i, ch := range data {
		k := b.code[ch]
		if k < 0 {
			return nil, fmt.Errorf("position %d: byte 0x%02x is not in the alphabet", i, ch)
		}
		counts[k]++
	}
	b.hasN = counts[symN] > 0

	for k := 0; k < numSym; k++ {
		if counts[k] == 0 {
			continue
		}
		v := rsdic.New()
		for _, ch := range data {
			v.PushBack(b.code[ch] == int8(k))
		}
		b.occ[k] = v
	}

	for k := 0; k < numSym; k++ {
		b.c[k+1] = b.c[k] + counts[k]
	}
	return b, nil
}

func (b *Index) Size() uint64 {
	return b.n
}

func (b *Index) Term() byte {
	return b.term
}

// HasN reports whether the indexed BWT contains 'N', i.e. whether the 5-letter
// alphabet is in effect.
func (b *Index) HasN() bool {
	return b.hasN
}

// At returns the BWT symbol at position i.
func (b *Index) At(i uint64) byte {
	return b.syms[i]
}

// rank counts occurrences of symbol code k in the BWT prefix of length i.
func (b *Index) rank(k int, i uint64) uint64 {
	if b.occ[k] == nil {
		return 0
	}
	return b.occ[k].Rank(i, true)
}

// LF maps position i to the position of the preceding text character.
func (b *Index) LF(i uint64) uint64 {
	k := int(b.code[b.syms[i]])
	return b.c[k] + b.rank(k, i)
}

// parallelRank ranks all five left-extension symbols at position i.
func (b *Index) parallelRank(i uint64) PRank {
	return PRank{
		A: b.rank(symA, i),
		C: b.rank(symC, i),
		G: b.rank(symG, i),
		N: b.rank(symN, i),
		T: b.rank(symT, i),
	}
}

// LFRange extends the interval rn by every left-extension symbol at once:
// symbol c maps to [C[c]+rank(c, l), C[c]+rank(c, r)). TERM is not extended.
func (b *Index) LFRange(rn Range) PRange {
	errutil.BugOn(rn.Second < rn.First, "negative range [%d, %d)", rn.First, rn.Second)
	l := b.parallelRank(rn.First)
	r := b.parallelRank(rn.Second)
	return PRange{
		A: Range{b.c[symA] + l.A, b.c[symA] + r.A},
		C: Range{b.c[symC] + l.C, b.c[symC] + r.C},
		G: Range{b.c[symG] + l.G, b.c[symG] + r.G},
		N: Range{b.c[symN] + l.N, b.c[symN] + r.N},
		T: Range{b.c[symT] + l.T, b.c[symT] + r.T},
	}
}

// LFNode follows the Weiner link of x by every left-extension symbol: the node
// of c.W inherits W's child structure, each boundary mapped through the rank
// of c.
func (b *Index) LFNode(x Node) PNode {
	bTERM := b.parallelRank(x.FirstTERM)
	bA := b.parallelRank(x.FirstA)
	bC := b.parallelRank(x.FirstC)
	bG := b.parallelRank(x.FirstG)
	bN := b.parallelRank(x.FirstN)
	bT := b.parallelRank(x.FirstT)
	bLast := b.parallelRank(x.Last)
	d := x.Depth + 1

	return PNode{
		A: Node{
			FirstTERM: b.c[symA] + bTERM.A,
			FirstA:    b.c[symA] + bA.A,
			FirstC:    b.c[symA] + bC.A,
			FirstG:    b.c[symA] + bG.A,
			FirstN:    b.c[symA] + bN.A,
			FirstT:    b.c[symA] + bT.A,
			Last:      b.c[symA] + bLast.A,
			Depth:     d,
		},
		C: Node{
			FirstTERM: b.c[symC] + bTERM.C,
			FirstA:    b.c[symC] + bA.C,
			FirstC:    b.c[symC] + bC.C,
			FirstG:    b.c[symC] + bG.C,
			FirstN:    b.c[symC] + bN.C,
			FirstT:    b.c[symC] + bT.C,
			Last:      b.c[symC] + bLast.C,
			Depth:     d,
		},
		G: Node{
			FirstTERM: b.c[symG] + bTERM.G,
			FirstA:    b.c[symG] + bA.G,
			FirstC:    b.c[symG] + bC.G,
			FirstG:    b.c[symG] + bG.G,
			FirstN:    b.c[symG] + bN.G,
			FirstT:    b.c[symG] + bT.G,
			Last:      b.c[symG] + bLast.G,
			Depth:     d,
		},
		N: Node{
			FirstTERM: b.c[symN] + bTERM.N,
			FirstA:    b.c[symN] + bA.N,
			FirstC:    b.c[symN] + bC.N,
			FirstG:    b.c[symN] + bG.N,
			FirstN:    b.c[symN] + bN.N,
			FirstT:    b.c[symN] + bT.N,
			Last:      b.c[symN] + bLast.N,
			Depth:     d,
		},
		T: Node{
			FirstTERM: b.c[symT] + bTERM.T,
			FirstA:    b.c[symT] + bA.T,
			FirstC:    b.c[symT] + bC.T,
			FirstG:    b.c[symT] + bG.T,
			FirstN:    b.c[symT] + bN.T,
			FirstT:    b.c[symT] + bT.T,
			Last:      b.c[symT] + bLast.T,
			Depth:     d,
		},
	}
}

// FirstLeaf is the leaf of the empty string's TERM extension: the block of
// terminator rows at the top of the BWT.
func (b *Index) FirstLeaf() Leaf {
	return Leaf{RN: Range{0, b.c[symA]}, Depth: 1}
}

// Root is the suffix-tree root: the whole BWT, with the C array as child
// boundaries.
func (b *Index) Root() Node {
	return Node{
		FirstTERM: 0,
		FirstA:    b.c[symA],
		FirstC:    b.c[symC],
		FirstG:    b.c[symG],
		FirstN:    b.c[symN],
		FirstT:    b.c[symT],
		Last:      b.n,
		Depth:     0,
	}
}

// NextLeaves appends to out[:0] the children of l with size >= minSize, sorted
// by increasing size so a caller pushing them onto a stack pops the smallest
// first. This keeps peak stack depth near O(sigma*log n).
func (b *Index) NextLeaves(l Leaf, out []Leaf, minSize uint64) []Leaf {
	ext := b.LFRange(l.RN)
	out = out[:0]
	d := l.Depth + 1
	for _, rn := range [5]Range{ext.A, ext.C, ext.G, ext.N, ext.T} {
		if rn.Len() >= minSize {
			out = append(out, Leaf{RN: rn, Depth: d})
		}
	}
	slices.SortFunc(out, func(a, b Leaf) bool {
		return a.Size() < b.Size()
	})
	return out
}

// NextNodes appends to out[:0] the left-extensions of x that remain
// right-maximal, sorted by increasing interval length.
func (b *Index) NextNodes(x Node, out []Node) []Node {
	ext := b.LFNode(x)
	out = out[:0]
	for _, nd := range [5]Node{ext.A, ext.C, ext.G, ext.N, ext.T} {
		if nd.NumChildren() >= 2 {
			out = append(out, nd)
		}
	}
	slices.SortFunc(out, func(a, b Node) bool {
		return a.Size() < b.Size()
	})
	return out
}

// Mem estimates the resident size of the index.
func (b *Index) Mem() utils.MemReport {
	children := []utils.MemReport{
		{Name: "symbols", TotalBytes: len(b.syms)},
	}
	for k := 0; k < numSym; k++ {
		if b.occ[k] == nil {
			continue
		}
		// n bits per vector plus the rank directory overhead of rsdic.
		children = append(children, utils.MemReport{
			Name:       "rank(" + symName[k] + ")",
			TotalBytes: int(b.n/8 + b.n/32),
		})
	}
	return utils.NewParent("bwt index", children...)
}
