package tree

import "github.com/ipfs/go-cid"

// Upsert sets key to value, replacing any existing entry, and returns the
// new Map. The old root stays valid.
func (m Map) Upsert(key string, value cid.Cid) (Map, error) {
	ns, err := m.cfg.store()
	if err != nil {
		return Map{}, err
	}
	root, err := ns.readAs(m.root, true)
	if err != nil {
		return Map{}, err
	}
	if len(root.children) == 0 {
		return CreateMap(m.cfg, []Entry{{Key: key, Value: value}})
	}

	s, _, err := m.descendKey(ns, root, key)
	if err != nil {
		return Map{}, err
	}

	s.levels[0] = &level{
		counts:   []uint32{1},
		keys:     []string{key},
		children: []cid.Cid{value},
	}

	newRoot, err := s.rebuild()
	if err != nil {
		return Map{}, err
	}
	return Map{cfg: m.cfg, root: newRoot}, nil
}

// Remove deletes key and returns the new Map. Removing an absent key is a
// no-op returning the receiver unchanged.
func (m Map) Remove(key string) (Map, error) {
	ns, err := m.cfg.store()
	if err != nil {
		return Map{}, err
	}
	root, err := ns.readAs(m.root, true)
	if err != nil {
		return Map{}, err
	}
	if len(root.children) == 0 {
		return m, nil
	}

	s, matched, err := m.descendKey(ns, root, key)
	if err != nil {
		return Map{}, err
	}
	if !matched {
		return m, nil
	}

	newRoot, err := s.rebuild()
	if err != nil {
		return Map{}, err
	}
	return Map{cfg: m.cfg, root: newRoot}, nil
}

// descendKey stages the path from root to the leaf position of key and
// returns the stack with an empty payload level at the bottom. matched
// reports whether the leaf slot holds key exactly (the [start, end) window
// then covers it; otherwise the window is the empty insertion point).
func (m Map) descendKey(ns nodeStore, root *node, key string) (*stack, bool, error) {
	cmp := m.cfg.compare()

	var path []*level
	matched := false
	n := root
	for {
		idx := findPred(n.keys, key, cmp)
		if n.leaf {
			var st, en int
			switch {
			case idx >= 0 && cmp(n.keys[idx], key) == 0:
				st, en = idx, idx+1
				matched = true
			case idx < 0:
				st, en = 0, 0
			default:
				st, en = idx+1, idx+1
			}
			path = append(path, levelOf(n, st, en))
			break
		}
		i := idx
		if i < 0 {
			i = 0
		}
		path = append(path, levelOf(n, i, i+1))
		var err error
		n, err = ns.readAs(n.children[i], true)
		if err != nil {
			return nil, false, err
		}
	}

	s := &stack{ns: ns, keyed: true, levels: make([]*level, 0, len(path)+1)}
	s.levels = append(s.levels, &level{})
	for i := len(path) - 1; i >= 0; i-- {
		s.levels = append(s.levels, path[i])
	}
	return s, matched, nil
}
