// Command tree_vector_gen prints canonical root CIDs for fixed inputs so
// foreign implementations can cross-check their chunking and layout.
package main

import (
	"fmt"

	"github.com/ipfs/go-cid"

	"xdao.co/prolly/cidutil"
	"xdao.co/prolly/codec"
	"xdao.co/prolly/storage/memory"
	"xdao.co/prolly/tree"
)

// valueCID derives a deterministic raw+sha2-256 value block CID without
// storing anything; collections reference values, they do not read them.
func valueCID(label string, i int) cid.Cid {
	id, err := cidutil.RawSHA256().Sum([]byte(fmt.Sprintf("%s:%d", label, i)))
	if err != nil {
		panic(err)
	}
	return id
}

func main() {
	cfg := tree.Config{
		Store: memory.New(cidutil.DagCBORSHA256()),
		Codec: codec.DagCBOR(),
	}

	empty, err := tree.CreateList(cfg, nil)
	if err != nil {
		panic(err)
	}
	fmt.Printf("empty-list\t%s\n", empty.Root())

	for _, n := range []int{1, 100, 10000} {
		items := make([]cid.Cid, n)
		for i := range items {
			items[i] = valueCID("vec", i)
		}
		l, err := tree.CreateList(cfg, items)
		if err != nil {
			panic(err)
		}
		fmt.Printf("list-%d\t%s\n", n, l.Root())
	}

	emptyMap, err := tree.CreateMap(cfg, nil)
	if err != nil {
		panic(err)
	}
	fmt.Printf("empty-map\t%s\n", emptyMap.Root())

	for _, n := range []int{1, 100, 10000} {
		entries := make([]tree.Entry, n)
		for i := range entries {
			entries[i] = tree.Entry{
				Key:   fmt.Sprintf("key:%06d", i),
				Value: valueCID("vec", i),
			}
		}
		m, err := tree.CreateMap(cfg, entries)
		if err != nil {
			panic(err)
		}
		fmt.Printf("map-%d\t%s\n", n, m.Root())
	}
}
