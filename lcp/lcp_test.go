package lcp

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zeebo/xxh3"

	"ebwt/bwt"
)

func buildFromReads[T Int](t *testing.T, reads []string, term byte) (*Array[T], Stats, []uint64) {
	t.Helper()
	b, want := naiveCollection(reads, term)
	idx, err := bwt.NewFromBytes(b, term)
	require.NoError(t, err)
	a, st := Build[T](idx, Options{})
	return a, st, want
}

func TestTwoReadCollection(t *testing.T) {
	t.Parallel()
	b, naive := naiveCollection([]string{"AC", "AG"}, '#')
	require.Equal(t, []byte("CG##AA"), b)

	idx, err := bwt.NewFromBytes(b, '#')
	require.NoError(t, err)
	a, st := Build[uint8](idx, Options{})

	require.Equal(t, []uint8{0, 1, 0, 1, 0, 0}, a.Values())
	for i, v := range a.Values() {
		require.Equal(t, naive[i], uint64(v), "naive LCP mismatch at %d", i)
	}
	require.Equal(t, uint64(6), st.Values)
	require.Equal(t, uint64(1), st.Leaves)
}

func TestSingleRead(t *testing.T) {
	t.Parallel()
	a, st, _ := buildFromReads[uint8](t, []string{"A"}, '#')
	require.Equal(t, []uint8{0, 0}, a.Values())
	require.Equal(t, uint64(2), st.Values)
}

func TestRandomCollectionsMatchNaive(t *testing.T) {
	t.Parallel()
	for _, withN := range []bool{false, true} {
		for seed := int64(0); seed < 25; seed++ {
			r := rand.New(rand.NewSource(seed))
			reads := randomReads(r, 1+r.Intn(8), 12, withN)
			term := byte('#')

			b, want := naiveCollection(reads, term)
			idx, err := bwt.NewFromBytes(b, term)
			require.NoError(t, err)
			if idx.HasN() {
				require.True(t, withN)
			}

			a, st := Build[uint16](idx, Options{})
			n := idx.Size()

			require.Equal(t, n, st.Values, "seed %d: incomplete induction", seed)
			require.LessOrEqual(t, st.Covered, n, "seed %d", seed)
			for i := uint64(0); i < n; i++ {
				require.NotEqual(t, Nil[uint16](), a.At(i), "seed %d: LCP[%d] left unwritten", seed, i)
				require.Equal(t, want[i], uint64(a.At(i)), "seed %d: LCP[%d]", seed, i)
			}
		}
	}
}

func TestWidthConsistency(t *testing.T) {
	t.Parallel()
	reads := []string{"ACGTACGT", "ACGTACGA", "TTTTTTTT", "TTTTTTTT"}
	a8, _, _ := buildFromReads[uint8](t, reads, '#')
	a16, _, _ := buildFromReads[uint16](t, reads, '#')
	a64, _, _ := buildFromReads[uint64](t, reads, '#')

	require.Equal(t, a8.Len(), a64.Len())
	for i := uint64(0); i < a64.Len(); i++ {
		v := uint64(a64.At(i))
		require.Equal(t, uint8(v), a8.At(i), "width 1 at %d", i)
		require.Equal(t, uint16(v), a16.At(i), "width 2 at %d", i)
	}
}

func TestSaveLittleEndian(t *testing.T) {
	t.Parallel()
	a, _, _ := buildFromReads[uint16](t, []string{"AC", "AG"}, '#')

	path := filepath.Join(t.TempDir(), "out.lcp")
	require.NoError(t, a.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, data, int(a.Len())*2)
	for i := uint64(0); i < a.Len(); i++ {
		got := uint16(data[2*i]) | uint16(data[2*i+1])<<8
		require.Equal(t, a.At(i), got, "entry %d", i)
	}
}

func TestDeterminism(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewSource(42))
	reads := randomReads(r, 6, 20, true)
	b, _ := naiveCollection(reads, '#')

	dir := t.TempDir()
	var hashes []uint64
	for run := 0; run < 2; run++ {
		idx, err := bwt.NewFromBytes(b, '#')
		require.NoError(t, err)
		a, _ := Build[uint32](idx, Options{})

		path := filepath.Join(dir, fmt.Sprintf("run%d.lcp", run))
		require.NoError(t, a.Save(path))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		hashes = append(hashes, xxh3.Hash(data))
	}
	require.Equal(t, hashes[0], hashes[1], "two runs on identical input must be byte-identical")
}

func TestCustomTerminator(t *testing.T) {
	t.Parallel()
	aHash, _, _ := buildFromReads[uint8](t, []string{"AC", "AG", "GATTA"}, '#')
	aDollar, _, _ := buildFromReads[uint8](t, []string{"AC", "AG", "GATTA"}, '$')
	require.Equal(t, aHash.Values(), aDollar.Values(),
		"LCP must not depend on the terminator byte")
}

func TestNilSentinel(t *testing.T) {
	t.Parallel()
	require.Equal(t, uint8(0xFF), Nil[uint8]())
	require.Equal(t, uint16(0xFFFF), Nil[uint16]())
	require.Equal(t, uint64(^uint64(0)), Nil[uint64]())

	a := NewArray[uint8](4)
	require.Equal(t, uint8(0), a.At(0))
	for i := uint64(1); i < 4; i++ {
		require.Equal(t, Nil[uint8](), a.At(i))
	}
	require.Equal(t, uint64(1), a.Written())
}
