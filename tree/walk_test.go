package tree

import (
	"bytes"
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/stretchr/testify/require"

	"xdao.co/prolly/cidutil"
	"xdao.co/prolly/codec"
	"xdao.co/prolly/storage/bundle"
	"xdao.co/prolly/storage/memory"
)

func TestWalkVisitsEveryNodeOnce(t *testing.T) {
	cfg := newTestConfig()
	l, err := CreateList(cfg, valueCIDs("walked", 3000))
	require.NoError(t, err)

	seen := map[string]int{}
	require.NoError(t, Walk(cfg, l.Root(), func(id cid.Cid) error {
		seen[id.KeyString()]++
		return nil
	}))
	require.Contains(t, seen, l.Root().KeyString())
	for k, n := range seen {
		require.Equal(t, 1, n, "node %x visited more than once", k)
	}
	require.Greater(t, len(seen), 1, "a 3000-element tree has interior structure")
}

func TestWalkClosureMovesCollectionBetweenStores(t *testing.T) {
	srcStore := memory.New(cidutil.DagCBORSHA256())
	src := Config{Store: srcStore, Codec: codec.DagCBOR()}

	m, err := CreateMap(src, mapEntries("move", 2000))
	require.NoError(t, err)

	var ids []cid.Cid
	require.NoError(t, Walk(src, m.Root(), func(id cid.Cid) error {
		ids = append(ids, id)
		return nil
	}))

	var buf bytes.Buffer
	require.NoError(t, bundle.Export(&buf, srcStore, ids, bundle.ExportOptions{IncludeIndex: true}))

	dstStore := memory.New(cidutil.DagCBORSHA256())
	require.NoError(t, bundle.Import(bytes.NewReader(buf.Bytes()), dstStore))

	dst := Config{Store: dstStore, Codec: codec.DagCBOR()}
	moved := LoadMap(dst, m.Root())
	require.Equal(t, collectMap(t, LoadMap(src, m.Root()), ScanOptions{}),
		collectMap(t, moved, ScanOptions{}))
}

func TestCodecChoiceChangesRootsButNotCanonicalization(t *testing.T) {
	items := valueCIDs("codecs", 2000)

	cbor1 := Config{Store: memory.New(cidutil.DagCBORSHA256()), Codec: codec.DagCBOR()}
	cbor2 := Config{Store: memory.New(cidutil.DagCBORSHA256()), Codec: codec.DagCBOR()}
	jsonCfg := Config{Store: memory.New(cidutil.Deriver{Codec: cidutil.CodecDagJSON, MhType: cidutil.DagCBORSHA256().MhType}), Codec: codec.DagJSON()}

	a, err := CreateList(cbor1, items)
	require.NoError(t, err)
	b, err := CreateList(cbor2, items)
	require.NoError(t, err)
	require.Equal(t, a.Root(), b.Root(), "same context, same content, same root")

	j, err := CreateList(jsonCfg, items)
	require.NoError(t, err)
	require.NotEqual(t, a.Root(), j.Root(), "the codec is part of the identity")

	// But dag-json canonicalizes within its own context too.
	spliced, err := j.Splice(500, 0, nil)
	require.NoError(t, err)
	require.Equal(t, j.Root(), spliced.Root())
	require.Equal(t, items, collectList(t, j, ScanOptions{}))
}

func TestBlake3DeriverWorksEndToEnd(t *testing.T) {
	cfg := Config{Store: memory.New(cidutil.DagCBORBlake3()), Codec: codec.DagCBOR()}

	l, err := CreateList(cfg, valueCIDs("b3", 500))
	require.NoError(t, err)
	checkInvariants(t, cfg, l.Root(), false)

	l2, err := l.Splice(250, 250, nil)
	require.NoError(t, err)
	direct, err := CreateList(cfg, valueCIDs("b3", 500)[:250])
	require.NoError(t, err)
	require.Equal(t, direct.Root(), l2.Root())
}
