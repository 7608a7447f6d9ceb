package memory

import (
	"testing"

	"xdao.co/prolly/cidutil"
	"xdao.co/prolly/storage"
	"xdao.co/prolly/storage/testkit"
)

func TestMemory_Conformance(t *testing.T) {
	testkit.RunCASConformance(t, func(t *testing.T) storage.CAS {
		t.Helper()
		return New(cidutil.DagCBORSHA256())
	})
}

func TestMemory_GetReturnsCopy(t *testing.T) {
	cas := New(cidutil.RawSHA256())
	id, err := cas.Put([]byte("immutable"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	b, err := cas.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	b[0] = 'X'

	again, err := cas.Get(id)
	if err != nil {
		t.Fatalf("Get(2): %v", err)
	}
	if string(again) != "immutable" {
		t.Fatalf("stored bytes were mutated through a Get result")
	}
}

func TestMemory_DeriverSelectsHash(t *testing.T) {
	sha := New(cidutil.DagCBORSHA256())
	b3 := New(cidutil.DagCBORBlake3())

	payload := []byte("same bytes, different deriver")
	idSha, err := sha.Put(payload)
	if err != nil {
		t.Fatalf("Put sha: %v", err)
	}
	idB3, err := b3.Put(payload)
	if err != nil {
		t.Fatalf("Put blake3: %v", err)
	}
	if idSha == idB3 {
		t.Fatalf("derivers must yield distinct CIDs for distinct hashes")
	}
	if !cidutil.Verify(idSha, payload) || !cidutil.Verify(idB3, payload) {
		t.Fatalf("both CIDs must verify against the payload")
	}
}
