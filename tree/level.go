package tree

import "github.com/ipfs/go-cid"

// level is a mutable working copy of one depth of the tree during a
// mutation. [start, end) is the half-open range within the copy that the
// rebuilt content from the level below replaces. The bottom of a stack is
// a synthetic level holding the incoming edit payload.
type level struct {
	start, end int
	counts     []uint32
	keys       []string
	children   []cid.Cid
}

func levelOf(n *node, start, end int) *level {
	return &level{
		start:    start,
		end:      end,
		counts:   append([]uint32(nil), n.counts...),
		keys:     append([]string(nil), n.keys...),
		children: append([]cid.Cid(nil), n.children...),
	}
}

// stack stages a mutation: levels[0] is the payload, levels[1] the leaf
// working copy, and the last entry the root's.
type stack struct {
	ns     nodeStore
	keyed  bool
	levels []*level
}

// extend widens level L's working copy by one right-hand sibling,
// consuming the next child recorded in the level above (recursively
// refilling that level when its own copy is exhausted). Reports false
// when the tree has no more content to the right.
func (s *stack) extend(L int) (bool, error) {
	if L >= len(s.levels)-1 {
		return false, nil
	}
	parent := s.levels[L+1]
	if parent.end == len(parent.children) {
		ok, err := s.extend(L + 1)
		if err != nil || !ok {
			return ok, err
		}
	}
	n, err := s.ns.readAs(parent.children[parent.end], s.keyed)
	if err != nil {
		return false, err
	}
	parent.end++

	lvl := s.levels[L]
	lvl.counts = append(lvl.counts, n.counts...)
	if s.keyed {
		lvl.keys = append(lvl.keys, n.keys...)
	}
	lvl.children = append(lvl.children, n.children...)
	return true, nil
}

// emit re-chunks level L's working copy into freshly serialized nodes and
// replaces the copy with their summary vectors (count sum, min key, CID
// per node). When the chunker cannot decide the tail cut from the data
// present, emit extends with right-hand siblings first, so boundaries
// stay canonical across the splice seam.
func (s *stack) emit(L int) error {
	lvl := s.levels[L]
	leaf := L == 1

	var outCounts []uint32
	var outKeys []string
	var outChildren []cid.Cid
	for from := 0; from < len(lvl.children); {
		hi, final := nextBoundary(lvl.children, from)
		if !final {
			ok, err := s.extend(L)
			if err != nil {
				return err
			}
			if ok {
				continue
			}
			hi = len(lvl.children)
		}

		n := &node{
			leaf:     leaf,
			keyed:    s.keyed,
			counts:   lvl.counts[from:hi],
			children: lvl.children[from:hi],
		}
		if s.keyed {
			n.keys = lvl.keys[from:hi]
		}
		id, err := s.ns.write(n)
		if err != nil {
			return err
		}
		outCounts = append(outCounts, sumCounts(lvl.counts[from:hi]))
		if s.keyed {
			outKeys = append(outKeys, lvl.keys[from])
		}
		outChildren = append(outChildren, id)
		from = hi
	}

	lvl.counts, lvl.keys, lvl.children = outCounts, outKeys, outChildren
	return nil
}

// rebuild runs the bottom-up re-emission: splice each level's replacement
// into its parent's window, re-chunk the parent, and repeat upward,
// growing synthetic roots until the top holds at most one child. Finishes
// with the singleton collapse.
func (s *stack) rebuild() (cid.Cid, error) {
	for i := 0; ; i++ {
		if i == len(s.levels)-1 {
			s.levels = append(s.levels, &level{})
		}
		cur, parent := s.levels[i], s.levels[i+1]

		parent.counts = spliceSlice(parent.counts, parent.start, parent.end, cur.counts)
		if s.keyed {
			parent.keys = spliceSlice(parent.keys, parent.start, parent.end, cur.keys)
		}
		parent.children = spliceSlice(parent.children, parent.start, parent.end, cur.children)

		if err := s.emit(i + 1); err != nil {
			return cid.Undef, err
		}
		if i+1 == len(s.levels)-1 && len(parent.children) <= 1 {
			break
		}
	}
	return s.collapse()
}

// collapse strips redundant singleton interior chains so the final depth
// matches what build would have produced for the same content.
func (s *stack) collapse() (cid.Cid, error) {
	top := s.levels[len(s.levels)-1]
	if len(top.children) == 0 {
		return s.ns.write(&node{leaf: true, keyed: s.keyed})
	}
	id := top.children[0]
	for {
		n, err := s.ns.readAs(id, s.keyed)
		if err != nil {
			return cid.Undef, err
		}
		if n.leaf || len(n.children) != 1 {
			return id, nil
		}
		id = n.children[0]
	}
}

func spliceSlice[E any](dst []E, start, end int, insert []E) []E {
	out := make([]E, 0, len(dst)-(end-start)+len(insert))
	out = append(out, dst[:start]...)
	out = append(out, insert...)
	out = append(out, dst[end:]...)
	return out
}
