package tree

import "github.com/ipfs/go-cid"

// Splice removes deleteCount elements at start and inserts items in their
// place, returning the new List. deleteCount past the end is clamped;
// start past the size is ErrOutOfBounds. The old root stays valid.
func (l List) Splice(start, deleteCount uint64, items []cid.Cid) (List, error) {
	ns, err := l.cfg.store()
	if err != nil {
		return List{}, err
	}
	root, err := ns.readAs(l.root, false)
	if err != nil {
		return List{}, err
	}

	size := root.total()
	if start > size {
		return List{}, ErrOutOfBounds
	}
	if len(root.children) == 0 {
		return CreateList(l.cfg, items)
	}
	if deleteCount > size-start {
		deleteCount = size - start
	}

	// Descend to the leaf slot holding start, staging a working copy of
	// every node on the path. Landing exactly past a leaf's last element
	// biases the insertion point after it.
	var path []*level
	n, ptr := root, start
	for {
		i, rem := n.seekSplice(ptr)
		if n.leaf {
			st := i
			if rem == uint64(n.counts[i]) {
				st = i + 1
			}
			path = append(path, levelOf(n, st, i+1))
			break
		}
		path = append(path, levelOf(n, i, i+1))
		n, err = ns.readAs(n.children[i], false)
		if err != nil {
			return List{}, err
		}
		ptr = rem
	}

	counts := make([]uint32, len(items))
	for i := range counts {
		counts[i] = 1
	}
	payload := &level{counts: counts, children: append([]cid.Cid(nil), items...)}

	s := &stack{ns: ns, keyed: false, levels: make([]*level, 0, len(path)+1)}
	s.levels = append(s.levels, payload)
	for i := len(path) - 1; i >= 0; i-- {
		s.levels = append(s.levels, path[i])
	}

	// Widen the leaf window to cover the deletion, pulling in right-hand
	// siblings as needed; exhaustion clamps.
	bottom := s.levels[1]
	bottom.end = bottom.start + int(deleteCount)
	for len(bottom.counts) < bottom.end {
		ok, err := s.extend(1)
		if err != nil {
			return List{}, err
		}
		if !ok {
			bottom.end = len(bottom.counts)
			break
		}
	}

	newRoot, err := s.rebuild()
	if err != nil {
		return List{}, err
	}
	return List{cfg: l.cfg, root: newRoot}, nil
}
