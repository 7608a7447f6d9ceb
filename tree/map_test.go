package tree

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapEmpty(t *testing.T) {
	cfg := newTestConfig()

	m, err := CreateMap(cfg, nil)
	require.NoError(t, err)
	checkInvariants(t, cfg, m.Root(), true)

	size, err := m.Size()
	require.NoError(t, err)
	require.Zero(t, size)

	_, found, err := m.Eq("anything")
	require.NoError(t, err)
	require.False(t, found)

	_, found, err = m.At(0)
	require.NoError(t, err)
	require.False(t, found)

	same, err := m.Remove("anything")
	require.NoError(t, err)
	require.Equal(t, m.Root(), same.Root())
}

func TestMapCreateRejectsDuplicates(t *testing.T) {
	cfg := newTestConfig()
	_, err := CreateMap(cfg, []Entry{
		{Key: "a", Value: valueCID("dup", 0)},
		{Key: "a", Value: valueCID("dup", 1)},
	})
	require.ErrorIs(t, err, ErrDuplicateKey)
}

func TestMapCreateUnorderedInput(t *testing.T) {
	cfg := newTestConfig()
	entries := mapEntries("uo", 2000)

	shuffled := append([]Entry(nil), entries...)
	rand.New(rand.NewSource(7)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	a, err := CreateMap(cfg, entries)
	require.NoError(t, err)
	b, err := CreateMap(cfg, shuffled)
	require.NoError(t, err)
	require.Equal(t, a.Root(), b.Root(), "input order must not matter")
}

func TestMapLookup(t *testing.T) {
	cfg := newTestConfig()
	entries := make([]Entry, 10000)
	for i := range entries {
		entries[i] = Entry{Key: fmt.Sprintf("key:%d", i), Value: valueCID("lk", i)}
	}

	m, err := CreateMap(cfg, entries)
	require.NoError(t, err)
	checkInvariants(t, cfg, m.Root(), true)

	rng := rand.New(rand.NewSource(11))
	for trial := 0; trial < 100; trial++ {
		i := rng.Intn(len(entries))
		got, found, err := m.Eq(entries[i].Key)
		require.NoError(t, err)
		require.True(t, found, "key %s", entries[i].Key)
		require.Equal(t, entries[i].Value, got)
	}

	_, found, err := m.Eq("key:10000")
	require.NoError(t, err)
	require.False(t, found)
	_, found, err = m.Eq("")
	require.NoError(t, err)
	require.False(t, found)
}

func TestMapAtRank(t *testing.T) {
	cfg := newTestConfig()
	entries := mapEntries("rk", 3000)

	m, err := CreateMap(cfg, entries)
	require.NoError(t, err)

	for _, i := range []uint64{0, 1, 64, 65, 1500, 2999} {
		e, found, err := m.At(i)
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, entries[i], e)
	}
	_, found, err := m.At(3000)
	require.NoError(t, err)
	require.False(t, found)
}

func TestMapUpsertSequence(t *testing.T) {
	cfg := newTestConfig()

	rng := rand.New(rand.NewSource(23))
	m, err := CreateMap(cfg, nil)
	require.NoError(t, err)

	var sofar []Entry
	for i := 0; i < 100; i++ {
		e := Entry{
			Key:   fmt.Sprintf("k%04d", rng.Intn(500)),
			Value: valueCID("ups", i),
		}
		m, err = m.Upsert(e.Key, e.Value)
		require.NoError(t, err)

		replaced := false
		for j := range sofar {
			if sofar[j].Key == e.Key {
				sofar[j].Value = e.Value
				replaced = true
				break
			}
		}
		if !replaced {
			sofar = append(sofar, e)
		}

		direct, err := CreateMap(cfg, sofar)
		require.NoError(t, err)
		require.Equal(t, direct.Root(), m.Root(), "step %d", i)
	}
	checkInvariants(t, cfg, m.Root(), true)
}

func TestMapUpsertLaws(t *testing.T) {
	cfg := newTestConfig()
	entries := mapEntries("law", 1500)

	m, err := CreateMap(cfg, entries)
	require.NoError(t, err)

	v1 := valueCID("law-v", 1)
	v2 := valueCID("law-v", 2)

	// upsert(upsert(r,k,v1),k,v2) == upsert(r,k,v2)
	a, err := m.Upsert("law0700x", v1)
	require.NoError(t, err)
	a, err = a.Upsert("law0700x", v2)
	require.NoError(t, err)
	b, err := m.Upsert("law0700x", v2)
	require.NoError(t, err)
	require.Equal(t, b.Root(), a.Root())

	// eq(upsert(r,k,v),k) == v
	got, found, err := b.Eq("law0700x")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, v2, got)

	// Re-upserting an existing identical entry keeps the root.
	same, err := m.Upsert(entries[800].Key, entries[800].Value)
	require.NoError(t, err)
	require.Equal(t, m.Root(), same.Root())

	// remove(upsert(r,k,v),k) == r == remove(r,k) for absent k.
	rm, err := a.Remove("law0700x")
	require.NoError(t, err)
	require.Equal(t, m.Root(), rm.Root())
	noop, err := m.Remove("law0700x")
	require.NoError(t, err)
	require.Equal(t, m.Root(), noop.Root())
}

func TestMapUpsertRemoveBoundaries(t *testing.T) {
	cfg := newTestConfig()
	entries := mapEntries("edge", 1000)

	m, err := CreateMap(cfg, entries)
	require.NoError(t, err)

	cases := map[string]string{
		"BelowAll":   "edge!",      // '!' < '0'
		"AboveAll":   "edge9999z",  //
		"Between":    "edge0500mm", // between 0500 and 0501
		"ExactMatch": "edge0500",
	}
	for name, key := range cases {
		key := key
		t.Run(name, func(t *testing.T) {
			v := valueCID("edge-v", len(key))
			up, err := m.Upsert(key, v)
			require.NoError(t, err)
			checkInvariants(t, cfg, up.Root(), true)

			got, found, err := up.Eq(key)
			require.NoError(t, err)
			require.True(t, found)
			require.Equal(t, v, got)

			want := append([]Entry(nil), entries...)
			replaced := false
			for i := range want {
				if want[i].Key == key {
					want[i].Value = v
					replaced = true
				}
			}
			if !replaced {
				want = append(want, Entry{Key: key, Value: v})
			}
			direct, err := CreateMap(cfg, want)
			require.NoError(t, err)
			require.Equal(t, direct.Root(), up.Root())

			back, err := up.Remove(key)
			require.NoError(t, err)
			if replaced {
				withKeyGone := make([]Entry, 0, len(entries)-1)
				for _, e := range entries {
					if e.Key != key {
						withKeyGone = append(withKeyGone, e)
					}
				}
				shrunk, err := CreateMap(cfg, withKeyGone)
				require.NoError(t, err)
				require.Equal(t, shrunk.Root(), back.Root())
			} else {
				require.Equal(t, m.Root(), back.Root(), "remove must undo the upsert")
			}
		})
	}
}

func TestMapRemoveAllIsCanonical(t *testing.T) {
	cfg := newTestConfig()
	entries := mapEntries("drain", 300)

	m, err := CreateMap(cfg, entries)
	require.NoError(t, err)

	order := rand.New(rand.NewSource(41)).Perm(len(entries))
	for _, i := range order {
		m, err = m.Remove(entries[i].Key)
		require.NoError(t, err)
	}

	empty, err := CreateMap(cfg, nil)
	require.NoError(t, err)
	require.Equal(t, empty.Root(), m.Root(), "draining must reach the canonical empty root")
}

func TestMapCustomComparator(t *testing.T) {
	// Reverse ordering flips the layout; lookups and scans must follow it.
	reverse := func(a, b string) int {
		switch {
		case a < b:
			return 1
		case a > b:
			return -1
		default:
			return 0
		}
	}
	cfg := newTestConfig()
	cfg.Compare = reverse

	entries := mapEntries("rev", 500)
	m, err := CreateMap(cfg, entries)
	require.NoError(t, err)
	checkInvariants(t, cfg, m.Root(), true)

	got := collectMap(t, m, ScanOptions{})
	want := append([]Entry(nil), entries...)
	sort.Slice(want, func(i, j int) bool { return want[i].Key > want[j].Key })
	require.Equal(t, want, got)

	v, found, err := m.Eq(entries[123].Key)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, entries[123].Value, v)
}
