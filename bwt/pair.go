package bwt

import (
	"golang.org/x/exp/slices"
)

// LeafPair is the same string W.TERM located in two BWTs. Either interval may
// be empty; the pair is alive while the combined size is positive.
type LeafPair struct {
	L1 Leaf
	L2 Leaf
}

func (p LeafPair) Size() uint64 {
	return p.L1.Size() + p.L2.Size()
}

// NodePair is the same right-maximal string located in two BWTs.
type NodePair struct {
	N1 Node
	N2 Node
}

func (p NodePair) Size() uint64 {
	return p.N1.Size() + p.N2.Size()
}

// NumChildren counts the children of the union of the two nodes: a child
// exists if it is non-empty in either BWT.
func (p NodePair) NumChildren() int {
	return btoi(p.N1.HasChildTERM() || p.N2.HasChildTERM()) +
		btoi(p.N1.HasChildA() || p.N2.HasChildA()) +
		btoi(p.N1.HasChildC() || p.N2.HasChildC()) +
		btoi(p.N1.HasChildG() || p.N2.HasChildG()) +
		btoi(p.N1.HasChildN() || p.N2.HasChildN()) +
		btoi(p.N1.HasChildT() || p.N2.HasChildT())
}

// NextLeavesPair extends the paired leaf in both BWTs at once, keeping the
// child pairs whose combined size is >= minSize, sorted by increasing size.
func NextLeavesPair(b1, b2 *Index, p LeafPair, out []LeafPair, minSize uint64) []LeafPair {
	ext1 := b1.LFRange(p.L1.RN)
	ext2 := b2.LFRange(p.L2.RN)
	d1 := p.L1.Depth + 1
	d2 := p.L2.Depth + 1

	out = out[:0]
	pairs := [5][2]Range{
		{ext1.A, ext2.A},
		{ext1.C, ext2.C},
		{ext1.G, ext2.G},
		{ext1.N, ext2.N},
		{ext1.T, ext2.T},
	}
	for _, rr := range pairs {
		if rr[0].Len()+rr[1].Len() >= minSize {
			out = append(out, LeafPair{
				L1: Leaf{RN: rr[0], Depth: d1},
				L2: Leaf{RN: rr[1], Depth: d2},
			})
		}
	}
	slices.SortFunc(out, func(a, b LeafPair) bool {
		return a.Size() < b.Size()
	})
	return out
}

// NextNodesPair follows the Weiner links of the pair in both BWTs, keeping the
// extensions whose union stays right-maximal, sorted by increasing size.
func NextNodesPair(b1, b2 *Index, p NodePair, out []NodePair) []NodePair {
	ext1 := b1.LFNode(p.N1)
	ext2 := b2.LFNode(p.N2)

	out = out[:0]
	pairs := [5]NodePair{
		{ext1.A, ext2.A},
		{ext1.C, ext2.C},
		{ext1.G, ext2.G},
		{ext1.N, ext2.N},
		{ext1.T, ext2.T},
	}
	for _, np := range pairs {
		if np.NumChildren() >= 2 {
			out = append(out, np)
		}
	}
	slices.SortFunc(out, func(a, b NodePair) bool {
		return a.Size() < b.Size()
	})
	return out
}
