package tree

import (
	"sort"

	"github.com/ipfs/go-cid"
)

// node is one immutable tree node, decoded.
//
// counts[i] is the subtree element count under children[i]: 1 for leaf
// slots, the recursive sum otherwise. For keyed nodes keys[i] is the
// minimum key of the subtree under children[i] and keys ascend strictly
// under the collection's comparator.
type node struct {
	leaf     bool
	keyed    bool
	counts   []uint32
	keys     []string
	children []cid.Cid
}

// total is the element count of the whole subtree.
func (n *node) total() uint64 {
	var t uint64
	for _, c := range n.counts {
		t += uint64(c)
	}
	return t
}

// seekRank finds the child covering rank r: the first index whose
// cumulative prefix exceeds r, plus the residual rank within that child.
// Returns index -1 when r is past the subtree.
func (n *node) seekRank(r uint64) (int, uint64) {
	var acc uint64
	for i, c := range n.counts {
		if acc+uint64(c) > r {
			return i, r - acc
		}
		acc += uint64(c)
	}
	return -1, 0
}

// seekSplice is seekRank biased for insertion: a rank equal to the total
// lands on the last child with residual equal to its count, so appends
// descend along the right edge instead of failing.
func (n *node) seekSplice(r uint64) (int, uint64) {
	i, rem := n.seekRank(r)
	if i >= 0 {
		return i, rem
	}
	last := len(n.counts) - 1
	return last, uint64(n.counts[last])
}

// findPred returns the largest index with keys[i] <= key under cmp, or -1
// when key sorts below every entry.
func findPred(keys []string, key string, cmp func(a, b string) int) int {
	// First index with keys[j] > key; the predecessor sits just before it.
	j := sort.Search(len(keys), func(j int) bool { return cmp(keys[j], key) > 0 })
	return j - 1
}

func sumCounts(counts []uint32) uint32 {
	var t uint32
	for _, c := range counts {
		t += c
	}
	return t
}
