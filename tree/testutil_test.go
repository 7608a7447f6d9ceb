package tree

import (
	"fmt"
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/stretchr/testify/require"

	"xdao.co/prolly/cidutil"
	"xdao.co/prolly/codec"
	"xdao.co/prolly/storage/memory"
)

func newTestConfig() Config {
	return Config{
		Store: memory.New(cidutil.DagCBORSHA256()),
		Codec: codec.DagCBOR(),
	}
}

// valueCID derives a deterministic raw value CID; collections reference
// values without reading them, so nothing needs to be stored.
func valueCID(label string, i int) cid.Cid {
	id, err := cidutil.RawSHA256().Sum([]byte(fmt.Sprintf("%s:%d", label, i)))
	if err != nil {
		panic(err)
	}
	return id
}

func valueCIDs(label string, n int) []cid.Cid {
	out := make([]cid.Cid, n)
	for i := range out {
		out[i] = valueCID(label, i)
	}
	return out
}

func mapEntries(prefix string, n int) []Entry {
	out := make([]Entry, n)
	for i := range out {
		out[i] = Entry{Key: fmt.Sprintf("%s%04d", prefix, i), Value: valueCID(prefix, i)}
	}
	return out
}

func collectList(t *testing.T, l List, opts ScanOptions) []cid.Cid {
	t.Helper()
	var out []cid.Cid
	cur := l.Scan(opts)
	for {
		e, ok, err := cur.Next()
		require.NoError(t, err)
		if !ok {
			return out
		}
		out = append(out, e.Value)
	}
}

func collectMap(t *testing.T, m Map, opts ScanOptions) []Entry {
	t.Helper()
	var out []Entry
	cur := m.Scan(opts)
	for {
		e, ok, err := cur.Next()
		require.NoError(t, err)
		if !ok {
			return out
		}
		out = append(out, e)
	}
}

// checkInvariants verifies every structural invariant of a root: count
// recurrence, key ordering, min-key propagation, uniform leaf depth, the
// chunking law at every level, and singleton-free roots.
func checkInvariants(t *testing.T, cfg Config, root cid.Cid, keyed bool) {
	t.Helper()
	ns, err := cfg.store()
	require.NoError(t, err)
	cmp := cfg.compare()

	rootNode, err := ns.readAs(root, keyed)
	require.NoError(t, err)
	if !rootNode.leaf {
		require.GreaterOrEqual(t, len(rootNode.children), 2,
			"no root may sit on a singleton interior chain")
	}

	type levelRow struct {
		childLens []int
		seq       []cid.Cid
	}
	var rows []*levelRow
	leafDepth := -1

	var visit func(id cid.Cid, depth int) *node
	visit = func(id cid.Cid, depth int) *node {
		n, err := ns.readAs(id, keyed)
		require.NoError(t, err)

		require.Equal(t, len(n.counts), len(n.children))
		if keyed {
			require.Equal(t, len(n.keys), len(n.children))
			for i := 1; i < len(n.keys); i++ {
				require.Negative(t, cmp(n.keys[i-1], n.keys[i]), "keys must ascend strictly")
			}
		}

		for len(rows) <= depth {
			rows = append(rows, &levelRow{})
		}
		rows[depth].childLens = append(rows[depth].childLens, len(n.children))
		rows[depth].seq = append(rows[depth].seq, n.children...)

		if n.leaf {
			if leafDepth == -1 {
				leafDepth = depth
			}
			require.Equal(t, leafDepth, depth, "all leaves must share one depth")
			for _, c := range n.counts {
				require.Equal(t, uint32(1), c)
			}
			return n
		}

		for i, childID := range n.children {
			child := visit(childID, depth+1)
			require.Equal(t, sumCounts(child.counts), n.counts[i], "count recurrence")
			if keyed {
				require.Equal(t, child.keys[0], n.keys[i], "parent key must be child min key")
			}
		}
		return n
	}
	visit(root, 0)

	// Chunking law: the nodes at each depth must split their child
	// sequence exactly where the chunker splits it.
	for depth := 0; depth <= leafDepth; depth++ {
		row := rows[depth]
		from := 0
		for _, want := range row.childLens {
			hi, _ := nextBoundary(row.seq, from)
			require.Equal(t, want, hi-from, "node width must match chunker output at depth %d", depth)
			from = hi
		}
		require.Equal(t, len(row.seq), from)
	}
}
