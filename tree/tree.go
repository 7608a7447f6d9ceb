// Package tree implements canonical, functionally persistent collections
// over a content-addressable block store.
//
// Two collections are provided: List, an ordered sequence addressed by
// position, and Map, a key-ordered associative map. Both persist as a DAG
// of immutable nodes keyed by CID. Node boundaries are chosen by
// content-defined chunking, so two collections holding the same logical
// contents have byte-identical node DAGs and equal root CIDs regardless of
// the operation history that produced them.
package tree

import (
	"sort"
	"strings"

	"github.com/ipfs/go-cid"

	"xdao.co/prolly/codec"
	"xdao.co/prolly/storage"
)

// Config is the interpretation context of a collection: a root CID means
// nothing without the store, codec and (for maps) comparator it was written
// under.
type Config struct {
	Store storage.CAS
	Codec codec.Codec

	// Compare orders map keys; nil means strings.Compare. It MUST be a
	// total order and MUST be stable across the life of the collection:
	// the comparator is part of a collection's identity.
	Compare func(a, b string) int
}

func (c Config) compare() func(a, b string) int {
	if c.Compare != nil {
		return c.Compare
	}
	return strings.Compare
}

func (c Config) store() (nodeStore, error) {
	if c.Store == nil || c.Codec == nil {
		return nodeStore{}, ErrNoContext
	}
	return nodeStore{cas: c.Store, cod: c.Codec}, nil
}

// Entry is one map element. For list scans Key is empty.
type Entry struct {
	Key   string
	Value cid.Cid
}

// List is an ordered sequence of CIDs addressed by position.
//
// A List value is immutable; Splice returns a new List sharing unchanged
// subtrees with the old one. The zero List is not usable: obtain one from
// CreateList or LoadList.
type List struct {
	cfg  Config
	root cid.Cid
}

// CreateList builds the canonical tree for items and returns its List.
func CreateList(cfg Config, items []cid.Cid) (List, error) {
	ns, err := cfg.store()
	if err != nil {
		return List{}, err
	}
	counts := make([]uint32, len(items))
	for i := range counts {
		counts[i] = 1
	}
	root, err := ns.build(counts, nil, items, false)
	if err != nil {
		return List{}, err
	}
	return List{cfg: cfg, root: root}, nil
}

// LoadList binds an existing root to its context. The root is not read
// until the first operation.
func LoadList(cfg Config, root cid.Cid) List {
	return List{cfg: cfg, root: root}
}

// Root returns the list's root CID.
func (l List) Root() cid.Cid { return l.root }

// Map is a key-ordered associative map from strings to CIDs.
//
// A Map value is immutable; Upsert and Remove return new Maps sharing
// unchanged subtrees with the old one. The zero Map is not usable: obtain
// one from CreateMap or LoadMap.
type Map struct {
	cfg  Config
	root cid.Cid
}

// CreateMap builds the canonical tree for entries and returns its Map.
// Input order does not matter; entries are sorted by the comparator.
// Duplicate keys are rejected with ErrDuplicateKey.
func CreateMap(cfg Config, entries []Entry) (Map, error) {
	ns, err := cfg.store()
	if err != nil {
		return Map{}, err
	}
	cmp := cfg.compare()

	sorted := append([]Entry(nil), entries...)
	sortEntries(sorted, cmp)
	for i := 1; i < len(sorted); i++ {
		if cmp(sorted[i-1].Key, sorted[i].Key) == 0 {
			return Map{}, ErrDuplicateKey
		}
	}

	counts := make([]uint32, len(sorted))
	keys := make([]string, len(sorted))
	children := make([]cid.Cid, len(sorted))
	for i, e := range sorted {
		counts[i] = 1
		keys[i] = e.Key
		children[i] = e.Value
	}
	root, err := ns.build(counts, keys, children, true)
	if err != nil {
		return Map{}, err
	}
	return Map{cfg: cfg, root: root}, nil
}

// LoadMap binds an existing root to its context. The root is not read
// until the first operation.
func LoadMap(cfg Config, root cid.Cid) Map {
	return Map{cfg: cfg, root: root}
}

// Root returns the map's root CID.
func (m Map) Root() cid.Cid { return m.root }

func sortEntries(entries []Entry, cmp func(a, b string) int) {
	sort.SliceStable(entries, func(i, j int) bool { return cmp(entries[i].Key, entries[j].Key) < 0 })
}

// Walk visits every node CID reachable from root exactly once, parents
// before children. Leaf element values are opaque blocks and are not
// visited; use a Scan to enumerate them.
func Walk(cfg Config, root cid.Cid, fn func(id cid.Cid) error) error {
	ns, err := cfg.store()
	if err != nil {
		return err
	}
	seen := map[string]struct{}{}
	var walk func(id cid.Cid) error
	walk = func(id cid.Cid) error {
		if _, ok := seen[id.KeyString()]; ok {
			return nil
		}
		seen[id.KeyString()] = struct{}{}
		if err := fn(id); err != nil {
			return err
		}
		n, err := ns.read(id)
		if err != nil {
			return err
		}
		if n.leaf {
			return nil
		}
		for _, child := range n.children {
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(root)
}
