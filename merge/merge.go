// Package merge builds the BWT of the union of two read collections from
// their BWTs, by synchronised navigation of the generalized suffix tree. It
// always computes the document array; the LCP of the merged collection is
// optional.
package merge

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/bits-and-blooms/bitset"

	"ebwt/bwt"
	"ebwt/errutil"
	"ebwt/lcp"
	"ebwt/utils"
)

// Options configures a merge. ComputeLCP additionally induces the LCP of the
// merged collection; Progress draws terminal bars.
type Options struct {
	ComputeLCP bool
	Progress   bool
}

// Stats reports what the traversals visited.
type Stats struct {
	Leaves    uint64 // paired leaves visited in pass 1
	Nodes     uint64 // paired nodes visited in pass 2
	MaxStack  uint64 // peak DFS stack depth across both passes
	DAValues  uint64 // document-array entries written
	LCPValues uint64 // LCP entries filled (0 unless ComputeLCP)
}

// Merged is the result of merging two BWTs. The merged BWT itself is never
// materialised; WriteBWT streams it from the two inputs and the document
// array.
type Merged[T lcp.Int] struct {
	b1, b2 *bwt.Index
	n      uint64
	da     *bitset.BitSet
	lcpArr *lcp.Array[T] // nil unless ComputeLCP
	Stats  Stats
}

// Merge merges b1 and b2. The two indexes must share the terminator.
func Merge[T lcp.Int](b1, b2 *bwt.Index, opts Options) (*Merged[T], error) {
	if b1.Term() != b2.Term() {
		return nil, fmt.Errorf("terminator mismatch: '%c' vs '%c'", b1.Term(), b2.Term())
	}

	m := &Merged[T]{
		b1: b1,
		b2: b2,
		n:  b1.Size() + b2.Size(),
		da: bitset.New(uint(b1.Size() + b2.Size())),
	}
	if opts.ComputeLCP {
		m.lcpArr = lcp.NewArray[T](m.n)
	}

	// Pass 1: paired leaves. Builds the document array and, when the LCP is
	// wanted, fills the leaf interiors. With LCP enabled, singleton leaves are
	// skipped here (minSize 2) and recovered during the node pass.
	minSize := uint64(1)
	if opts.ComputeLCP {
		minSize = 2
	}

	bar := utils.NewBar(opts.Progress, int64(m.n), "DA leaves")

	tmpLeaves := make([]bwt.LeafPair, 0, 5)
	var leafStack []bwt.LeafPair
	if first := (bwt.LeafPair{L1: b1.FirstLeaf(), L2: b2.FirstLeaf()}); first.Size() > 0 {
		leafStack = append(leafStack, first)
	}

	for len(leafStack) > 0 {
		if d := uint64(len(leafStack)); d > m.Stats.MaxStack {
			m.Stats.MaxStack = d
		}
		p := leafStack[len(leafStack)-1]
		leafStack = leafStack[:len(leafStack)-1]
		m.Stats.Leaves++

		errutil.BugOn(p.Size() == 0, "empty leaf pair on stack")

		m.updateDA(p.L1, p.L2, opts.ComputeLCP)

		tmpLeaves = bwt.NextLeavesPair(b1, b2, p, tmpLeaves, minSize)
		for i := len(tmpLeaves) - 1; i >= 0; i-- {
			leafStack = append(leafStack, tmpLeaves[i])
		}

		utils.BarSet(bar, int64(m.Stats.DAValues))
	}
	utils.BarDone(bar)

	// Pass 2: paired nodes, only when the LCP is wanted. Recovers the
	// singleton leaves skipped above and fills the children borders of the
	// merged node.
	if opts.ComputeLCP {
		bar = utils.NewBar(opts.Progress, int64(m.n), "LCP nodes")

		tmpNodes := make([]bwt.NodePair, 0, 5)
		nodeStack := []bwt.NodePair{{N1: b1.Root(), N2: b2.Root()}}

		for len(nodeStack) > 0 {
			if d := uint64(len(nodeStack)); d > m.Stats.MaxStack {
				m.Stats.MaxStack = d
			}
			p := nodeStack[len(nodeStack)-1]
			nodeStack = nodeStack[:len(nodeStack)-1]
			m.Stats.Nodes++

			m.findLeaves(p.N1, p.N2)

			merged := bwt.MergeNodes(p.N1, p.N2)
			lcp.UpdateNode(m.lcpArr, merged)

			tmpNodes = bwt.NextNodesPair(b1, b2, p, tmpNodes)
			for i := len(tmpNodes) - 1; i >= 0; i-- {
				nodeStack = append(nodeStack, tmpNodes[i])
			}

			utils.BarSet(bar, int64(m.lcpArr.Written()))
		}
		utils.BarDone(bar)

		m.Stats.LCPValues = m.lcpArr.Written()
	}

	return m, nil
}

// updateDA maps the paired leaf onto the merged BWT: BWT1's interval lands at
// [s1, s2), BWT2's at [s2, e), each shifted by the other's prefix.
func (m *Merged[T]) updateDA(l1, l2 bwt.Leaf, computeLCP bool) {
	s1 := l1.RN.First + l2.RN.First
	s2 := l2.RN.First + l1.RN.Second
	e := l1.RN.Second + l2.RN.Second

	errutil.BugOn(e <= s1, "empty merged leaf [%d, %d)", s1, e)
	errutil.BugOn(l1.Depth != l2.Depth, "paired leaves at different depths: %d != %d", l1.Depth, l2.Depth)

	m.Stats.DAValues += s2 - s1 // positions from BWT1 keep their zero bit
	for i := s2; i < e; i++ {
		m.da.Set(uint(i))
		m.Stats.DAValues++
	}
	errutil.BugOn(m.Stats.DAValues > m.n, "DA coverage %d exceeds n=%d", m.Stats.DAValues, m.n)

	if computeLCP {
		for i := s1 + 1; i < e; i++ {
			m.lcpArr.Set(i, l1.Depth)
		}
	}
}

// findLeaves catches the singleton leaves skipped in pass 1: any child of the
// pair with combined size exactly 1 is a leaf of the merged tree that still
// needs its DA bit. The symbolic depth 0 is never read.
func (m *Merged[T]) findLeaves(x1, x2 bwt.Node) {
	children := [6][2]bwt.Range{
		{x1.ChildTERM(), x2.ChildTERM()},
		{x1.ChildA(), x2.ChildA()},
		{x1.ChildC(), x2.ChildC()},
		{x1.ChildG(), x2.ChildG()},
		{x1.ChildN(), x2.ChildN()},
		{x1.ChildT(), x2.ChildT()},
	}
	for _, ch := range children {
		if ch[0].Len()+ch[1].Len() == 1 {
			m.updateDA(bwt.Leaf{RN: ch[0]}, bwt.Leaf{RN: ch[1]}, false)
		}
	}
}

func (m *Merged[T]) Size() uint64 {
	return m.n
}

// DA returns the document array bit at merged position i: false for BWT1,
// true for BWT2.
func (m *Merged[T]) DA(i uint64) bool {
	return m.da.Test(uint(i))
}

// Popcount is the number of merged positions that originate from BWT2.
func (m *Merged[T]) Popcount() uint64 {
	return uint64(m.da.Count())
}

// LCP returns the induced LCP array, or nil when it was not computed.
func (m *Merged[T]) LCP() *lcp.Array[T] {
	return m.lcpArr
}

// WriteBWT streams the merged BWT: a single scan of the document array
// consumes each input left to right, since within each origin the merged
// order preserves the original one.
func (m *Merged[T]) WriteBWT(w io.Writer) error {
	bw := bufio.NewWriter(w)
	rank1 := uint64(0)
	for i := uint64(0); i < m.n; i++ {
		var c byte
		if m.da.Test(uint(i)) {
			c = m.b2.At(rank1)
			rank1++
		} else {
			c = m.b1.At(i - rank1)
		}
		if err := bw.WriteByte(c); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteDA writes the document array as ASCII '0'/'1', one byte per merged
// position.
func (m *Merged[T]) WriteDA(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i := uint64(0); i < m.n; i++ {
		c := byte('0')
		if m.da.Test(uint(i)) {
			c = '1'
		}
		if err := bw.WriteByte(c); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Save writes prefix.bwt, prefix.da (when writeDA) and prefix.lcp (when the
// LCP was computed).
func (m *Merged[T]) Save(prefix string, writeDA bool) error {
	if err := saveTo(prefix+".bwt", m.WriteBWT); err != nil {
		return err
	}
	if writeDA {
		if err := saveTo(prefix+".da", m.WriteDA); err != nil {
			return err
		}
	}
	if m.lcpArr != nil {
		if err := m.lcpArr.Save(prefix + ".lcp"); err != nil {
			return err
		}
	}
	return nil
}

func saveTo(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := errutil.First(write(f), f.Close()); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
