// Package lcp induces the LCP array of a read collection from its BWT by
// navigating the implicit suffix tree with Weiner links, after Belazzougui's
// "Linear time construction of compressed text indices in compact space".
package lcp

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"

	"ebwt/bwt"
	"ebwt/errutil"
	"ebwt/utils"
)

// Int is the set of storable LCP value widths. Values beyond the width wrap
// silently; the width is the caller's choice.
type Int interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Nil is the all-ones sentinel marking a slot that has not been written yet.
func Nil[T Int]() T {
	var zero T
	return ^zero
}

// Array is a fixed-width LCP array. Entry 0 is 0; every other entry starts at
// the Nil sentinel and is written exactly once during induction.
type Array[T Int] struct {
	v       []T
	written uint64
}

func NewArray[T Int](n uint64) *Array[T] {
	a := &Array[T]{v: make([]T, n)}
	sentinel := Nil[T]()
	for i := range a.v {
		a.v[i] = sentinel
	}
	if n > 0 {
		a.v[0] = 0
		a.written = 1
	}
	return a
}

func (a *Array[T]) Len() uint64 {
	return uint64(len(a.v))
}

func (a *Array[T]) At(i uint64) T {
	return a.v[i]
}

// Values exposes the backing slice; callers must not mutate it.
func (a *Array[T]) Values() []T {
	return a.v
}

// Written is the number of entries filled so far, LCP[0] included.
func (a *Array[T]) Written() uint64 {
	return a.written
}

// Set fills entry i, which must still hold the Nil sentinel. Depths beyond the
// width wrap.
func (a *Array[T]) Set(i, depth uint64) {
	errutil.BugOn(a.v[i] != Nil[T](), "LCP[%d] written twice", i)
	a.v[i] = T(depth)
	a.written++
}

// UpdateNode writes the depth of x at every border between two consecutive
// non-empty children of x, skipping borders that coincide with the end of the
// node interval. The border between two children of W is exactly where the LCP
// drops to |W|.
func UpdateNode[T Int](a *Array[T], x bwt.Node) {
	errutil.BugOn(x.FirstA < x.FirstTERM || x.FirstC < x.FirstA || x.FirstG < x.FirstC ||
		x.FirstN < x.FirstG || x.FirstT < x.FirstN || x.Last < x.FirstT,
		"node boundaries out of order: %v", x)
	errutil.BugOn(x.NumChildren() < 2, "node %v is not right-maximal", x)

	if x.HasChildTERM() && x.FirstA != x.Last {
		a.Set(x.FirstA, x.Depth)
	}
	if x.HasChildA() && x.FirstC != x.Last {
		a.Set(x.FirstC, x.Depth)
	}
	if x.HasChildC() && x.FirstG != x.Last {
		a.Set(x.FirstG, x.Depth)
	}
	if x.HasChildG() && x.FirstN != x.Last {
		a.Set(x.FirstN, x.Depth)
	}
	if x.HasChildN() && x.FirstT != x.Last {
		a.Set(x.FirstT, x.Depth)
	}
}

// Save writes the array as little-endian fixed-width integers.
func (a *Array[T]) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing LCP %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	if err := binary.Write(w, binary.LittleEndian, a.v); err != nil {
		f.Close()
		return fmt.Errorf("writing LCP %s: %w", path, err)
	}
	if err := errutil.First(w.Flush(), f.Close()); err != nil {
		return fmt.Errorf("writing LCP %s: %w", path, err)
	}
	return nil
}

// Stats reports what the two traversals visited.
type Stats struct {
	Leaves   uint64 // suffix-tree leaves visited in pass 1 (the first leaf, then children of size >= 2)
	Nodes    uint64 // right-maximal nodes visited in pass 2
	MaxStack uint64 // peak DFS stack depth across both passes
	Values   uint64 // LCP entries filled (== n when done)
	Covered  uint64 // input positions covered by visited leaves
}

// Options configures a build. Progress draws a terminal bar; leave it off for
// library use.
type Options struct {
	Progress bool
}

// Build induces the LCP array of the collection underlying b.
//
// Pass 1 walks the suffix-tree leaves of size >= 2: positions inside the leaf
// of W.TERM share exactly that prefix, so their LCP is the leaf depth. Pass 2
// walks the right-maximal nodes and fills the children borders.
func Build[T Int](b *bwt.Index, opts Options) (*Array[T], Stats) {
	n := b.Size()
	a := NewArray[T](n)

	var st Stats

	bar := utils.NewBar(opts.Progress, int64(n), "LCP leaves")

	tmpLeaves := make([]bwt.Leaf, 0, 5)
	var leafStack []bwt.Leaf
	if first := b.FirstLeaf(); first.Size() > 0 {
		leafStack = append(leafStack, first)
	}

	for len(leafStack) > 0 {
		if d := uint64(len(leafStack)); d > st.MaxStack {
			st.MaxStack = d
		}
		l := leafStack[len(leafStack)-1]
		leafStack = leafStack[:len(leafStack)-1]
		st.Leaves++

		errutil.BugOn(l.RN.Second <= l.RN.First, "empty leaf on stack: [%d, %d)", l.RN.First, l.RN.Second)

		for i := l.RN.First + 1; i < l.RN.Second; i++ {
			a.Set(i, l.Depth)
			st.Covered++
		}
		st.Covered++
		errutil.BugOn(st.Covered > n, "leaf coverage %d exceeds n=%d", st.Covered, n)

		// Push the largest child deepest so the smallest is popped first.
		tmpLeaves = b.NextLeaves(l, tmpLeaves, 2)
		for i := len(tmpLeaves) - 1; i >= 0; i-- {
			leafStack = append(leafStack, tmpLeaves[i])
		}

		utils.BarSet(bar, int64(a.Written()))
	}
	utils.BarDone(bar)

	bar = utils.NewBar(opts.Progress, int64(n), "LCP nodes")

	tmpNodes := make([]bwt.Node, 0, 5)
	nodeStack := []bwt.Node{b.Root()}

	for len(nodeStack) > 0 {
		if d := uint64(len(nodeStack)); d > st.MaxStack {
			st.MaxStack = d
		}
		x := nodeStack[len(nodeStack)-1]
		nodeStack = nodeStack[:len(nodeStack)-1]
		st.Nodes++

		UpdateNode(a, x)

		tmpNodes = b.NextNodes(x, tmpNodes)
		for i := len(tmpNodes) - 1; i >= 0; i-- {
			nodeStack = append(nodeStack, tmpNodes[i])
		}

		utils.BarSet(bar, int64(a.Written()))
	}
	utils.BarDone(bar)

	st.Values = a.Written()
	return a, st
}
