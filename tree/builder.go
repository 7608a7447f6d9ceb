package tree

import (
	"github.com/ipfs/go-cid"
	"golang.org/x/sync/errgroup"
)

// build constructs the canonical tree bottom-up from one full level of
// inputs and returns the root CID.
//
// Every write path funnels through the same chunking rule, so build and
// the mutator's rebuild agree on boundaries; that agreement is the
// canonicalization guarantee.
func (ns nodeStore) build(counts []uint32, keys []string, children []cid.Cid, keyed bool) (cid.Cid, error) {
	if len(children) == 0 {
		// The empty leaf is the canonical root for emptiness.
		return ns.write(&node{leaf: true, keyed: keyed})
	}

	leaf := true
	for {
		var bounds [][2]int
		for from := 0; from < len(children); {
			hi, _ := nextBoundary(children, from)
			bounds = append(bounds, [2]int{from, hi})
			from = hi
		}

		outCounts := make([]uint32, len(bounds))
		outChildren := make([]cid.Cid, len(bounds))
		var outKeys []string
		if keyed {
			outKeys = make([]string, len(bounds))
		}

		// Siblings within a level are independent; serialize them as a
		// group and join before the level above references their CIDs.
		var g errgroup.Group
		for ci, b := range bounds {
			ci, lo, hi := ci, b[0], b[1]
			g.Go(func() error {
				n := &node{
					leaf:     leaf,
					keyed:    keyed,
					counts:   counts[lo:hi],
					children: children[lo:hi],
				}
				if keyed {
					n.keys = keys[lo:hi]
				}
				id, err := ns.write(n)
				if err != nil {
					return err
				}
				outCounts[ci] = sumCounts(counts[lo:hi])
				outChildren[ci] = id
				if keyed {
					outKeys[ci] = keys[lo]
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return cid.Undef, err
		}

		counts, keys, children = outCounts, outKeys, outChildren
		leaf = false
		if len(children) == 1 {
			return children[0], nil
		}
	}
}
