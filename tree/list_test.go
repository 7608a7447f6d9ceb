package tree

import (
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/stretchr/testify/require"
)

func TestListEmptyRoundTrip(t *testing.T) {
	cfg := newTestConfig()

	empty, err := CreateList(cfg, nil)
	require.NoError(t, err)
	checkInvariants(t, cfg, empty.Root(), false)

	size, err := empty.Size()
	require.NoError(t, err)
	require.Zero(t, size)
	require.Empty(t, collectList(t, empty, ScanOptions{}))

	items := valueCIDs("abc", 3)
	spliced, err := empty.Splice(0, 0, items)
	require.NoError(t, err)
	direct, err := CreateList(cfg, items)
	require.NoError(t, err)
	require.Equal(t, direct.Root(), spliced.Root(), "splice into empty must equal create")
}

func TestListCreateAtScan(t *testing.T) {
	cfg := newTestConfig()
	items := valueCIDs("base", 5000)

	l, err := CreateList(cfg, items)
	require.NoError(t, err)
	checkInvariants(t, cfg, l.Root(), false)

	size, err := l.Size()
	require.NoError(t, err)
	require.Equal(t, uint64(len(items)), size)

	for _, i := range []uint64{0, 1, 63, 64, 65, 1024, 4998, 4999} {
		got, err := l.At(i)
		require.NoError(t, err)
		require.Equal(t, items[i], got, "at(%d)", i)
	}
	_, err = l.At(uint64(len(items)))
	require.ErrorIs(t, err, ErrOutOfBounds)

	require.Equal(t, items, collectList(t, l, ScanOptions{}))
}

func TestListCreateSingle(t *testing.T) {
	cfg := newTestConfig()
	item := valueCID("solo", 0)

	l, err := CreateList(cfg, []cid.Cid{item})
	require.NoError(t, err)
	checkInvariants(t, cfg, l.Root(), false)

	got, err := l.At(0)
	require.NoError(t, err)
	require.Equal(t, item, got)
}

func TestListDeleteAllIsCanonical(t *testing.T) {
	cfg := newTestConfig()
	items := valueCIDs("wipe", 10000)

	l, err := CreateList(cfg, items)
	require.NoError(t, err)
	wiped, err := l.Splice(0, 10000, nil)
	require.NoError(t, err)

	empty, err := CreateList(cfg, nil)
	require.NoError(t, err)
	require.Equal(t, empty.Root(), wiped.Root(), "delete-all must hit the canonical empty root")
}

func TestListSpliceEquivalence(t *testing.T) {
	cfg := newTestConfig()
	xs := valueCIDs("xs", 10000)
	ys := valueCIDs("ys", 1000)

	l, err := CreateList(cfg, xs)
	require.NoError(t, err)
	spliced, err := l.Splice(2000, 100, ys)
	require.NoError(t, err)
	checkInvariants(t, cfg, spliced.Root(), false)

	want := append(append(append([]cid.Cid(nil), xs[:2000]...), ys...), xs[2100:]...)
	direct, err := CreateList(cfg, want)
	require.NoError(t, err)
	require.Equal(t, direct.Root(), spliced.Root(), "splice must be indistinguishable from create")
	require.Equal(t, want, collectList(t, spliced, ScanOptions{}))
}

func TestListSpliceNoop(t *testing.T) {
	cfg := newTestConfig()
	l, err := CreateList(cfg, valueCIDs("noop", 700))
	require.NoError(t, err)

	same, err := l.Splice(300, 0, nil)
	require.NoError(t, err)
	require.Equal(t, l.Root(), same.Root(), "empty splice must keep the root")
}

func TestListSpliceBoundaries(t *testing.T) {
	cfg := newTestConfig()
	xs := valueCIDs("bd", 500)
	extra := valueCIDs("bd-extra", 7)

	l, err := CreateList(cfg, xs)
	require.NoError(t, err)

	t.Run("AtStart", func(t *testing.T) {
		got, err := l.Splice(0, 3, extra)
		require.NoError(t, err)
		want := append(append([]cid.Cid(nil), extra...), xs[3:]...)
		direct, err := CreateList(cfg, want)
		require.NoError(t, err)
		require.Equal(t, direct.Root(), got.Root())
	})

	t.Run("AtEnd", func(t *testing.T) {
		got, err := l.Splice(500, 0, extra)
		require.NoError(t, err)
		want := append(append([]cid.Cid(nil), xs...), extra...)
		direct, err := CreateList(cfg, want)
		require.NoError(t, err)
		require.Equal(t, direct.Root(), got.Root())
	})

	t.Run("DeleteClamped", func(t *testing.T) {
		got, err := l.Splice(490, 1_000_000, extra)
		require.NoError(t, err)
		want := append(append([]cid.Cid(nil), xs[:490]...), extra...)
		direct, err := CreateList(cfg, want)
		require.NoError(t, err)
		require.Equal(t, direct.Root(), got.Root())
	})

	t.Run("PastEnd", func(t *testing.T) {
		_, err := l.Splice(501, 0, nil)
		require.ErrorIs(t, err, ErrOutOfBounds)
	})
}

func TestListSpliceInsertionBias(t *testing.T) {
	// Inserting at position i must equal deleting element i-1 and
	// reinserting it in front of the payload. Positions are sampled every
	// 13th index from 1 to 391, spread across the list's leaves.
	cfg := newTestConfig()
	xs := valueCIDs("bias", 400)
	payload := valueCIDs("bias-pay", 3)

	l, err := CreateList(cfg, xs)
	require.NoError(t, err)

	for i := uint64(1); i <= 400; i += 13 {
		a, err := l.Splice(i, 0, payload)
		require.NoError(t, err)

		moved := append([]cid.Cid{xs[i-1]}, payload...)
		b, err := l.Splice(i-1, 1, moved)
		require.NoError(t, err)
		require.Equal(t, a.Root(), b.Root(), "insert at %d", i)
	}
}

func TestListSpliceHistoryIndependence(t *testing.T) {
	// Build the same logical content along two edit histories and from
	// scratch; all three roots must coincide.
	cfg := newTestConfig()
	xs := valueCIDs("hist", 3000)

	viaCreate, err := CreateList(cfg, xs)
	require.NoError(t, err)

	empty, err := CreateList(cfg, nil)
	require.NoError(t, err)
	viaAppend := empty
	for from := 0; from < len(xs); from += 257 {
		hi := from + 257
		if hi > len(xs) {
			hi = len(xs)
		}
		viaAppend, err = viaAppend.Splice(uint64(from), 0, xs[from:hi])
		require.NoError(t, err)
	}
	require.Equal(t, viaCreate.Root(), viaAppend.Root(), "append history")

	viaPrepend := empty
	for hi := len(xs); hi > 0; hi -= 311 {
		lo := hi - 311
		if lo < 0 {
			lo = 0
		}
		viaPrepend, err = viaPrepend.Splice(0, 0, xs[lo:hi])
		require.NoError(t, err)
	}
	require.Equal(t, viaCreate.Root(), viaPrepend.Root(), "prepend history")
}

func TestListOldRootSurvivesSplice(t *testing.T) {
	cfg := newTestConfig()
	xs := valueCIDs("persist", 900)

	l, err := CreateList(cfg, xs)
	require.NoError(t, err)
	_, err = l.Splice(100, 700, nil)
	require.NoError(t, err)

	// The original value is untouched by the mutation.
	require.Equal(t, xs, collectList(t, l, ScanOptions{}))
}
