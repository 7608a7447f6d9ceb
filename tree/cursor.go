package tree

import "github.com/ipfs/go-cid"

// Scan returns a lazy cursor over the list's elements in rank order.
func (l List) Scan(opts ScanOptions) *Cursor {
	return &Cursor{cfg: l.cfg, root: l.root, keyed: false, opts: opts}
}

// Scan returns a lazy cursor over the map's entries in key order.
func (m Map) Scan(opts ScanOptions) *Cursor {
	return &Cursor{cfg: m.cfg, root: m.root, keyed: true, opts: opts}
}

// Cursor is a stateful range scan. It reads each node on its path at most
// once, so yielding k items over a collection of n costs O(k + log n)
// block reads. Stop pulling to cancel; the cursor owns no background
// work.
type Cursor struct {
	cfg   Config
	root  cid.Cid
	keyed bool
	opts  ScanOptions

	ns     nodeStore
	plan   scanPlan
	frames []*cursorFrame
	count  uint64
	inited bool
	done   bool
}

type cursorFrame struct {
	idx int
	n   *node
}

// Next yields the next entry. ok=false reports exhaustion; after an error
// the cursor stays done.
func (c *Cursor) Next() (Entry, bool, error) {
	if c.done {
		return Entry{}, false, nil
	}
	if !c.inited {
		if err := c.init(); err != nil {
			c.done = true
			return Entry{}, false, err
		}
		c.inited = true
	}

	for c.count > 0 && len(c.frames) > 0 {
		top := c.frames[len(c.frames)-1]
		if top.idx >= len(top.n.children) {
			ok, err := c.advance()
			if err != nil {
				c.done = true
				return Entry{}, false, err
			}
			if !ok {
				break
			}
			continue
		}

		if c.keyed && c.plan.stopKey != nil {
			k := top.n.keys[top.idx]
			cmp := c.cfg.compare()
			if c.plan.stopInclusive {
				if cmp(k, *c.plan.stopKey) > 0 {
					break
				}
			} else if cmp(k, *c.plan.stopKey) >= 0 {
				break
			}
		}

		e := Entry{Value: top.n.children[top.idx]}
		if c.keyed {
			e.Key = top.n.keys[top.idx]
		}
		top.idx++
		c.count--
		return e, true, nil
	}

	c.done = true
	return Entry{}, false, nil
}

// init parses the options, positions the frame stack on the first item,
// and fixes how many items remain to be yielded.
func (c *Cursor) init() error {
	ns, err := c.cfg.store()
	if err != nil {
		return err
	}
	c.ns = ns

	plan, err := c.opts.plan(c.keyed)
	if err != nil {
		return err
	}
	c.plan = plan

	root, err := ns.readAs(c.root, c.keyed)
	if err != nil {
		return err
	}
	size := root.total()

	var startRank uint64
	if c.keyed && plan.startKey != nil {
		startRank, err = c.descendKey(root, *plan.startKey, plan.skipEqual)
		if err != nil {
			return err
		}
	} else {
		startRank = plan.lo
		if startRank > size {
			startRank = size
		}
		if startRank < size {
			if err := c.descendRank(root, startRank); err != nil {
				return err
			}
		}
	}

	endRank := size
	if plan.hi != nil && *plan.hi < endRank {
		endRank = *plan.hi
	}
	if endRank > startRank {
		c.count = endRank - startRank
	}
	if plan.limit > 0 && c.count > plan.limit {
		c.count = plan.limit
	}
	return nil
}

// descendRank pushes the frame path covering rank r.
func (c *Cursor) descendRank(root *node, r uint64) error {
	n := root
	for {
		idx, rem := n.seekRank(r)
		if idx < 0 {
			return ErrOutOfBounds
		}
		c.frames = append(c.frames, &cursorFrame{idx: idx, n: n})
		if n.leaf {
			return nil
		}
		var err error
		n, err = c.ns.readAs(n.children[idx], c.keyed)
		if err != nil {
			return err
		}
		r = rem
	}
}

// descendKey pushes the frame path for the first yielded key and returns
// its rank. skipEqual starts strictly after key.
func (c *Cursor) descendKey(root *node, key string, skipEqual bool) (uint64, error) {
	cmp := c.cfg.compare()

	var rank uint64
	n := root
	for {
		idx := findPred(n.keys, key, cmp)
		if n.leaf {
			var pos int
			switch {
			case idx < 0:
				pos = 0
			case skipEqual:
				pos = idx + 1
			case cmp(n.keys[idx], key) == 0:
				pos = idx
			default:
				pos = idx + 1
			}
			rank += uint64(pos)
			c.frames = append(c.frames, &cursorFrame{idx: pos, n: n})
			return rank, nil
		}
		i := idx
		if i < 0 {
			i = 0
		}
		for j := 0; j < i; j++ {
			rank += uint64(n.counts[j])
		}
		c.frames = append(c.frames, &cursorFrame{idx: i, n: n})
		var err error
		n, err = c.ns.readAs(n.children[i], c.keyed)
		if err != nil {
			return 0, err
		}
	}
}

// advance pops the exhausted leaf and walks to the leftmost leaf of the
// next subtree to the right.
func (c *Cursor) advance() (bool, error) {
	c.frames = c.frames[:len(c.frames)-1]
	for len(c.frames) > 0 {
		f := c.frames[len(c.frames)-1]
		f.idx++
		if f.idx >= len(f.n.children) {
			c.frames = c.frames[:len(c.frames)-1]
			continue
		}
		n, err := c.ns.readAs(f.n.children[f.idx], c.keyed)
		if err != nil {
			return false, err
		}
		for {
			c.frames = append(c.frames, &cursorFrame{n: n})
			if n.leaf {
				return true, nil
			}
			n, err = c.ns.readAs(n.children[0], c.keyed)
			if err != nil {
				return false, err
			}
		}
	}
	return false, nil
}
