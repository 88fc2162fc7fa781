package bwt

import (
	"fmt"

	"ebwt/errutil"
)

// Range is a half-open interval [First, Second) of BWT positions.
type Range struct {
	First  uint64
	Second uint64
}

func (r Range) Len() uint64 {
	errutil.BugOn(r.Second < r.First, "negative range [%d, %d)", r.First, r.Second)
	return r.Second - r.First
}

// Leaf is the BWT interval of W.TERM for some string W. Depth = |W.TERM|.
// A zero-length interval means W.TERM does not occur.
type Leaf struct {
	RN    Range
	Depth uint64
}

func (l Leaf) Size() uint64 {
	return l.RN.Len()
}

// Node is a right-maximal string W represented as the concatenation of the BWT
// intervals of its children: child c covers [First_c, First_next). Depth = |W|.
// On the 4-letter alphabet FirstN always equals FirstT, leaving the N child
// permanently empty; all accessors below then degenerate to the 4-letter case.
type Node struct {
	FirstTERM uint64
	FirstA    uint64
	FirstC    uint64
	FirstG    uint64
	FirstN    uint64
	FirstT    uint64
	Last      uint64
	Depth     uint64
}

func (x Node) Size() uint64 {
	return x.Last - x.FirstTERM
}

func (x Node) ChildTERM() Range { return Range{x.FirstTERM, x.FirstA} }
func (x Node) ChildA() Range    { return Range{x.FirstA, x.FirstC} }
func (x Node) ChildC() Range    { return Range{x.FirstC, x.FirstG} }
func (x Node) ChildG() Range    { return Range{x.FirstG, x.FirstN} }
func (x Node) ChildN() Range    { return Range{x.FirstN, x.FirstT} }
func (x Node) ChildT() Range    { return Range{x.FirstT, x.Last} }

func (x Node) HasChildTERM() bool { return x.FirstA > x.FirstTERM }
func (x Node) HasChildA() bool    { return x.FirstC > x.FirstA }
func (x Node) HasChildC() bool    { return x.FirstG > x.FirstC }
func (x Node) HasChildG() bool    { return x.FirstN > x.FirstG }
func (x Node) HasChildN() bool    { return x.FirstT > x.FirstN }
func (x Node) HasChildT() bool    { return x.Last > x.FirstT }

func (x Node) NumChildren() int {
	return btoi(x.HasChildTERM()) + btoi(x.HasChildA()) + btoi(x.HasChildC()) +
		btoi(x.HasChildG()) + btoi(x.HasChildN()) + btoi(x.HasChildT())
}

func (x Node) String() string {
	return fmt.Sprintf("[%d, %d, %d, %d, %d, %d, %d]",
		x.FirstTERM, x.FirstA, x.FirstC, x.FirstG, x.FirstN, x.FirstT, x.Last)
}

// MergeNodes is the node of the merged BWT corresponding to the same
// right-maximal string in two BWTs: the componentwise sum of the boundaries.
func MergeNodes(a, b Node) Node {
	errutil.BugOn(a.Depth != b.Depth, "merging nodes at different depths: %d != %d", a.Depth, b.Depth)
	return Node{
		FirstTERM: a.FirstTERM + b.FirstTERM,
		FirstA:    a.FirstA + b.FirstA,
		FirstC:    a.FirstC + b.FirstC,
		FirstG:    a.FirstG + b.FirstG,
		FirstN:    a.FirstN + b.FirstN,
		FirstT:    a.FirstT + b.FirstT,
		Last:      a.Last + b.Last,
		Depth:     a.Depth,
	}
}

// PRank holds the rank of every left-extension symbol at one BWT position.
type PRank struct {
	A uint64
	C uint64
	G uint64
	N uint64
	T uint64
}

// PRange holds the LF-extended interval for every left-extension symbol.
// TERM is absent: terminators never take part in Weiner-link descent.
type PRange struct {
	A Range
	C Range
	G Range
	N Range
	T Range
}

// PNode holds the left-extension c.W for every symbol c.
type PNode struct {
	A Node
	C Node
	G Node
	N Node
	T Node
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}
