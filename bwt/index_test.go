package bwt

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckTerm(t *testing.T) {
	t.Parallel()
	for _, c := range []byte{'A', 'C', 'G', 'T', 'N'} {
		require.Error(t, CheckTerm(c), "terminator '%c' must be rejected", c)
	}
	require.NoError(t, CheckTerm('#'))
	require.NoError(t, CheckTerm('$'))
}

func TestNewFromBytesRejectsBadInput(t *testing.T) {
	t.Parallel()
	_, err := NewFromBytes([]byte("AB#"), '#')
	require.Error(t, err, "byte outside the alphabet must be rejected")

	_, err = NewFromBytes([]byte("AC#"), 'A')
	require.Error(t, err, "DNA terminator must be rejected")
}

func TestIndexBasics(t *testing.T) {
	t.Parallel()
	// eBWT of {"AC#", "AG#"}; suffixes in order: #, #, AC#, AG#, C#, G#.
	b, err := NewFromBytes([]byte("CG##AA"), '#')
	require.NoError(t, err)

	require.Equal(t, uint64(6), b.Size())
	require.Equal(t, byte('#'), b.Term())
	require.False(t, b.HasN())

	for i, want := range []byte("CG##AA") {
		require.Equal(t, want, b.At(uint64(i)))
	}

	wantLF := []uint64{4, 5, 0, 1, 2, 3}
	for i, want := range wantLF {
		require.Equal(t, want, b.LF(uint64(i)), "LF(%d)", i)
	}

	require.Equal(t, Leaf{RN: Range{0, 2}, Depth: 1}, b.FirstLeaf())
	require.Equal(t, Node{
		FirstTERM: 0, FirstA: 2, FirstC: 4, FirstG: 5, FirstN: 6, FirstT: 6, Last: 6,
	}, b.Root())
	require.Equal(t, 4, b.Root().NumChildren())
}

func TestLFRange(t *testing.T) {
	t.Parallel()
	b, err := NewFromBytes([]byte("CG##AA"), '#')
	require.NoError(t, err)

	ext := b.LFRange(Range{0, 2})
	require.Equal(t, Range{2, 2}, ext.A)
	require.Equal(t, Range{4, 5}, ext.C)
	require.Equal(t, Range{5, 6}, ext.G)
	require.Equal(t, Range{6, 6}, ext.N)
	require.Equal(t, Range{6, 6}, ext.T)
}

// naiveRank counts c in data[0:i].
func naiveRank(data []byte, c byte, i int) uint64 {
	var r uint64
	for _, ch := range data[:i] {
		if ch == c {
			r++
		}
	}
	return r
}

func TestRankAgainstNaive(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewSource(7))
	alphabet := []byte{'A', 'C', 'G', 'N', 'T', '#'}

	for trial := 0; trial < 10; trial++ {
		n := 1 + r.Intn(500)
		data := make([]byte, n)
		for i := range data {
			data[i] = alphabet[r.Intn(len(alphabet))]
		}

		b, err := NewFromBytes(data, '#')
		require.NoError(t, err)

		// LF against the definition C[B[i]] + rank(B[i], i), with C rebuilt
		// from raw counts in code order.
		counts := map[byte]uint64{}
		for _, ch := range data {
			counts[ch]++
		}
		cOf := map[byte]uint64{}
		sum := uint64(0)
		for _, ch := range []byte{'#', 'A', 'C', 'G', 'N', 'T'} {
			cOf[ch] = sum
			sum += counts[ch]
		}
		for i := 0; i < n; i++ {
			want := cOf[data[i]] + naiveRank(data, data[i], i)
			require.Equal(t, want, b.LF(uint64(i)), "trial %d: LF(%d)", trial, i)
		}

		// Interval LF against per-symbol naive ranks.
		for k := 0; k < 20; k++ {
			l := r.Intn(n + 1)
			rr := l + r.Intn(n+1-l)
			ext := b.LFRange(Range{uint64(l), uint64(rr)})
			for _, sym := range []struct {
				ch byte
				rn Range
			}{
				{'A', ext.A}, {'C', ext.C}, {'G', ext.G}, {'N', ext.N}, {'T', ext.T},
			} {
				want := Range{
					cOf[sym.ch] + naiveRank(data, sym.ch, l),
					cOf[sym.ch] + naiveRank(data, sym.ch, rr),
				}
				require.Equal(t, want, sym.rn, "trial %d: extend [%d,%d) by %c", trial, l, rr, sym.ch)
			}
		}
	}
}

func TestNextLeavesSortedBySize(t *testing.T) {
	t.Parallel()
	b, err := NewFromBytes([]byte("ACGT##ACGT##TTAA"), '#')
	require.NoError(t, err)

	out := b.NextLeaves(b.FirstLeaf(), nil, 1)
	for i := 1; i < len(out); i++ {
		require.LessOrEqual(t, out[i-1].Size(), out[i].Size(), "children must be size-sorted")
	}
	for _, l := range out {
		require.Greater(t, l.Size(), uint64(0), "empty children must not be emitted")
		require.Equal(t, uint64(2), l.Depth)
	}

	none := b.NextLeaves(b.FirstLeaf(), out, 1<<40)
	require.Empty(t, none, "minSize must filter children")
}

func TestNextNodesRightMaximalOnly(t *testing.T) {
	t.Parallel()
	b, err := NewFromBytes([]byte("CG##AA"), '#')
	require.NoError(t, err)

	out := b.NextNodes(b.Root(), nil)
	require.Len(t, out, 1, "only the 'A' extension is right-maximal")
	a := out[0]
	require.Equal(t, uint64(1), a.Depth)
	require.Equal(t, 2, a.NumChildren())
	require.Equal(t, Range{2, 3}, a.ChildC())
	require.Equal(t, Range{3, 4}, a.ChildG())
}

func TestMergeNodes(t *testing.T) {
	t.Parallel()
	a := Node{FirstTERM: 0, FirstA: 1, FirstC: 2, FirstG: 3, FirstN: 3, FirstT: 3, Last: 4, Depth: 2}
	b := Node{FirstTERM: 1, FirstA: 1, FirstC: 1, FirstG: 2, FirstN: 2, FirstT: 2, Last: 2, Depth: 2}
	m := MergeNodes(a, b)
	require.Equal(t, Node{FirstTERM: 1, FirstA: 2, FirstC: 3, FirstG: 5, FirstN: 5, FirstT: 5, Last: 6, Depth: 2}, m)
}

func TestHasN(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	plain := filepath.Join(dir, "plain.bwt")
	require.NoError(t, os.WriteFile(plain, []byte("CG##AA"), 0o644))
	got, err := HasN(plain)
	require.NoError(t, err)
	require.False(t, got)

	withN := filepath.Join(dir, "n.bwt")
	require.NoError(t, os.WriteFile(withN, []byte("CGN#AA"), 0o644))
	got, err = HasN(withN)
	require.NoError(t, err)
	require.True(t, got)

	_, err = HasN(filepath.Join(dir, "missing.bwt"))
	require.Error(t, err)
}

func TestNewFromFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "in.bwt")
	require.NoError(t, os.WriteFile(path, []byte("CG##AA"), 0o644))

	b, err := New(path, '#')
	require.NoError(t, err)
	require.Equal(t, uint64(6), b.Size())

	_, err = New(filepath.Join(dir, "missing.bwt"), '#')
	require.Error(t, err)
}

func TestIndexWithN(t *testing.T) {
	t.Parallel()
	// eBWT of {"AN#"}: suffixes #, AN#, N# -> BWT "N#A".
	b, err := NewFromBytes([]byte("N#A"), '#')
	require.NoError(t, err)
	require.True(t, b.HasN())

	root := b.Root()
	require.Equal(t, Range{2, 3}, root.ChildN())
	require.True(t, root.HasChildN())

	ext := b.LFRange(Range{0, 1})
	require.Equal(t, Range{2, 3}, ext.N, "N must be a left-extension symbol on the 5-letter path")
}
